package domain

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laralint.dev/pkg/laralint/internal/adapter"
	m "laralint.dev/pkg/laralint/internal/model"
)

func newTestBuilder() Builder {
	return NewBuilder(adapter.NewLocalSourceFSAdapter(), adapter.NewTreeSitterPHPAdapter())
}

func demoAppPath() m.Path {
	return m.Path(filepath.Join("..", "..", "examples", "demo-app"))
}

func TestBuilder_BuildDemoApp(t *testing.T) {
	units, violations, err := newTestBuilder().Build(context.Background(), BuildArgs{
		Paths:   []m.Path{demoAppPath()},
		Threads: 4,
	})
	require.NoError(t, err)
	assert.Empty(t, violations)
	require.Len(t, units, 7)

	kinds := make(map[m.Path]m.UnitKind)
	for _, unit := range units {
		kinds[unit.ShortPath] = unit.Kind
		assert.NotEmpty(t, unit.Hash, "unit %s has no hash", unit.ShortPath)
	}

	want := map[m.Path]m.UnitKind{
		"app/Http/Controllers/UserController.php":  m.UnitController,
		"app/Http/Controllers/PostsController.php": m.UnitController,
		"app/Models/User.php":                      m.UnitModel,
		"app/Models/Orders.php":                    m.UnitModel,
		"routes/web.php":                           m.UnitRoutes,
		"config/app.php":                           m.UnitConfig,
		"resources/views/users.blade.php":          m.UnitBlade,
	}

	assert.Equal(t, want, kinds)
}

func TestBuilder_ParseFailureIsFailSoft(t *testing.T) {
	broken := m.Path(filepath.Join("..", "..", "examples", "broken"))

	units, violations, err := newTestBuilder().Build(context.Background(), BuildArgs{
		Paths:   []m.Path{broken},
		Threads: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, units)
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, m.RuleParseError, v.RuleID)
	assert.Equal(t, m.Path("app/Invoice.php"), v.Path)
	assert.Equal(t, m.SeverityError, v.Severity)
	assert.Contains(t, v.Message, "syntax error")
}

func TestBuilder_ExcludePatterns(t *testing.T) {
	t.Run("matching files are skipped", func(t *testing.T) {
		units, _, err := newTestBuilder().Build(context.Background(), BuildArgs{
			Paths:   []m.Path{demoAppPath()},
			Exclude: []string{`Models/`, `\.blade\.php$`},
			Threads: 2,
		})
		require.NoError(t, err)
		assert.Len(t, units, 4)
	})

	t.Run("invalid pattern fails the build", func(t *testing.T) {
		_, _, err := newTestBuilder().Build(context.Background(), BuildArgs{
			Paths:   []m.Path{demoAppPath()},
			Exclude: []string{`(`},
		})
		assert.Error(t, err)
	})
}

func TestBuilder_ShardsPartitionFilesBeforeParsing(t *testing.T) {
	const totalShards = 3

	roots := []m.Path{
		demoAppPath(),
		m.Path(filepath.Join("..", "..", "examples", "broken")),
	}

	totalUnits := 0
	parseErrors := 0

	for shard := 0; shard < totalShards; shard++ {
		units, violations, err := newTestBuilder().Build(context.Background(), BuildArgs{
			Paths:       roots,
			Threads:     2,
			ShardIndex:  shard,
			TotalShards: totalShards,
		})
		require.NoError(t, err)

		totalUnits += len(units)

		for _, v := range violations {
			if v.RuleID == m.RuleParseError {
				parseErrors++
			}
		}
	}

	assert.Equal(t, 7, totalUnits, "shards must partition the parseable files")
	assert.Equal(t, 1, parseErrors, "the broken file must land in a single shard")
}

func TestShardFiles(t *testing.T) {
	files := make([]scanFile, 0, 20)
	for i := 0; i < 20; i++ {
		short := m.Path(fmt.Sprintf("app/File%02d.php", i))
		files = append(files, scanFile{path: short, short: short})
	}

	t.Run("single shard keeps everything", func(t *testing.T) {
		assert.Len(t, shardFiles(files, 0, 1), 20)
		assert.Len(t, shardFiles(files, 0, 0), 20)
	})

	t.Run("shards are disjoint and complete", func(t *testing.T) {
		const total = 4

		seen := make(map[m.Path]int)
		count := 0

		for shard := 0; shard < total; shard++ {
			for _, file := range shardFiles(files, shard, total) {
				seen[file.short]++
				count++
			}
		}

		assert.Equal(t, len(files), count)
		for path, n := range seen {
			assert.Equal(t, 1, n, "file %s assigned to %d shards", path, n)
		}
	})

	t.Run("partition is stable across input order", func(t *testing.T) {
		reversed := make([]scanFile, len(files))
		for i, file := range files {
			reversed[len(files)-1-i] = file
		}

		forward := shardFiles(files, 1, 4)
		backward := shardFiles(reversed, 1, 4)

		forwardPaths := make(map[m.Path]bool)
		for _, file := range forward {
			forwardPaths[file.short] = true
		}

		assert.Len(t, backward, len(forward))
		for _, file := range backward {
			assert.True(t, forwardPaths[file.short])
		}
	})
}

func TestBuilder_CancelledContextReturnsPartialResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newTestBuilder().Build(ctx, BuildArgs{
		Paths:   []m.Path{demoAppPath()},
		Threads: 1,
	})
	assert.ErrorIs(t, err, context.Canceled)
}
