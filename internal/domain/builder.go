package domain

import (
	"context"
	"fmt"
	"hash/crc32"
	"os"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"laralint.dev/pkg/laralint/internal/adapter"
	m "laralint.dev/pkg/laralint/internal/model"
)

// BuildArgs configures a source model build.
type BuildArgs struct {
	Paths   []m.Path
	Exclude []string // regex patterns filtering files out of the scan
	Threads int

	// ShardIndex/TotalShards select one slice of the file set for CI
	// sharding. TotalShards <= 1 keeps every file.
	ShardIndex  int
	TotalShards int
}

// Builder turns a source tree into a sequence of SourceUnit values, one per
// recognized source file. Parsing failures on an individual file become
// parse-error violations and never abort the overall scan.
type Builder interface {
	Build(ctx context.Context, args BuildArgs) ([]m.SourceUnit, []m.Violation, error)
}

type builder struct {
	adapter.SourceFSAdapter
	adapter.PHPFileAdapter
}

// NewBuilder creates a Builder backed by the given adapters.
func NewBuilder(fsAdapter adapter.SourceFSAdapter, phpAdapter adapter.PHPFileAdapter) Builder {
	return &builder{
		SourceFSAdapter: fsAdapter,
		PHPFileAdapter:  phpAdapter,
	}
}

// Build walks the roots, parses every PHP file concurrently and returns the
// resulting units alongside parse diagnostics. Each worker owns its
// SourceUnit exclusively until it is handed back over the mutex.
func (b *builder) Build(ctx context.Context, args BuildArgs) ([]m.SourceUnit, []m.Violation, error) {
	excludes, err := compileExcludes(args.Exclude)
	if err != nil {
		return nil, nil, err
	}

	roots := args.Paths
	if len(roots) == 0 {
		roots = []m.Path{"."}
	}

	var files []scanFile

	for _, root := range roots {
		found, err := b.collectFiles(root, excludes)
		if err != nil {
			return nil, nil, fmt.Errorf("scan %s: %w", root, err)
		}

		files = append(files, found...)
	}

	// Sharding happens on the file list, before parsing, so every file,
	// including ones that fail to parse, belongs to exactly one shard and
	// merged shard reports match an unsharded run.
	files = shardFiles(files, args.ShardIndex, args.TotalShards)

	var (
		mu         sync.Mutex
		units      []m.SourceUnit
		violations []m.Violation
	)

	group, groupCtx := errgroup.WithContext(ctx)
	if args.Threads > 0 {
		group.SetLimit(args.Threads)
	}

	for _, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			unit, parseViolation := b.buildUnit(groupCtx, file)

			mu.Lock()
			defer mu.Unlock()

			if parseViolation != nil {
				violations = append(violations, *parseViolation)
				return nil
			}

			units = append(units, unit)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		// A cancelled context means the deadline fired; partial results are
		// still returned so the caller can report them.
		if groupCtx.Err() != nil {
			return units, violations, groupCtx.Err()
		}

		return units, violations, err
	}

	return units, violations, nil
}

type scanFile struct {
	path  m.Path
	short m.Path
}

// shardFiles deterministically assigns each file to one shard by hashing its
// root-relative path, so all shards compute the same partition regardless of
// walk order.
func shardFiles(files []scanFile, shardIndex, totalShards int) []scanFile {
	if totalShards <= 1 {
		return files
	}

	var shard []scanFile

	for _, file := range files {
		sum := crc32.ChecksumIEEE([]byte(file.short))
		if int(sum%uint32(totalShards)) == shardIndex {
			shard = append(shard, file)
		}
	}

	return shard
}

func (b *builder) collectFiles(root m.Path, excludes []*regexp.Regexp) ([]scanFile, error) {
	var files []scanFile

	err := b.Walk(root, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !strings.HasSuffix(path, ".php") {
			return nil
		}

		for _, exclude := range excludes {
			if exclude.MatchString(path) {
				return nil
			}
		}

		short, relErr := b.RelPath(root, m.Path(path))
		if relErr != nil || strings.HasPrefix(string(short), "..") {
			short = m.Path(path)
		}

		files = append(files, scanFile{path: m.Path(path), short: short})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// buildUnit reads, hashes and parses one file. Failures come back as a
// parse-error violation so the scan is fail-soft per file.
func (b *builder) buildUnit(ctx context.Context, file scanFile) (m.SourceUnit, *m.Violation) {
	src, err := b.ReadFile(file.path)
	if err != nil {
		return m.SourceUnit{}, parseErrorViolation(file.short, 1, err)
	}

	unit, err := b.Parse(ctx, file.path, src)
	if err != nil {
		return m.SourceUnit{}, parseErrorViolation(file.short, 1, err)
	}

	hash, err := b.HashFile(file.path)
	if err == nil {
		unit.Hash = hash
	}

	unit.ShortPath = file.short

	return unit, nil
}

func parseErrorViolation(path m.Path, line int, err error) *m.Violation {
	return &m.Violation{
		RuleID:   m.RuleParseError,
		Path:     path,
		Line:     line,
		Severity: m.SeverityError,
		Message:  err.Error(),
	}
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}
