package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	m "laralint.dev/pkg/laralint/internal/model"
)

// ReportStore persists check run reports so they can be viewed or merged
// later without re-running the analysis.
type ReportStore interface {
	// Save writes the report into dir. Sharded runs get shard-indexed
	// filenames so merge can find them.
	Save(dir m.Path, report m.RunReport) error

	// Load reads the combined report from dir.
	Load(dir m.Path) (m.RunReport, error)

	// ListShards returns the shard report files present in dir, sorted.
	ListShards(dir m.Path) ([]m.Path, error)

	// LoadFile reads one report file.
	LoadFile(path m.Path) (m.RunReport, error)
}

const (
	reportFileName  = "report.yaml"
	shardFilePrefix = "shard_"
	reportDirPerm   = 0o750
	reportFilePerm  = 0o600
)

// YAMLReportStore stores reports as YAML documents on the local filesystem.
type YAMLReportStore struct{}

// NewYAMLReportStore constructs a YAMLReportStore.
func NewYAMLReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// reportRecord is the serialized form of a RunReport. Severities are stored
// as strings to keep the file hand-readable.
type reportRecord struct {
	GeneratedAt time.Time         `yaml:"generated_at"`
	Roots       []string          `yaml:"roots"`
	ShardIndex  int               `yaml:"shard_index"`
	TotalShards int               `yaml:"total_shards"`
	Files       int               `yaml:"files"`
	Violations  []violationRecord `yaml:"violations"`
}

type violationRecord struct {
	Rule     string `yaml:"rule"`
	Path     string `yaml:"path"`
	Line     int    `yaml:"line"`
	Column   int    `yaml:"column,omitempty"`
	Severity string `yaml:"severity"`
	Message  string `yaml:"message"`
}

// Save writes the report to dir, creating it when needed.
func (s *YAMLReportStore) Save(dir m.Path, report m.RunReport) error {
	if err := os.MkdirAll(string(dir), reportDirPerm); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	data, err := yaml.Marshal(toRecord(report))
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	target := filepath.Join(string(dir), reportName(report))
	if err := os.WriteFile(target, data, reportFilePerm); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// Load reads the combined report from dir.
func (s *YAMLReportStore) Load(dir m.Path) (m.RunReport, error) {
	return s.LoadFile(m.Path(filepath.Join(string(dir), reportFileName)))
}

// LoadFile reads one report file.
func (s *YAMLReportStore) LoadFile(path m.Path) (m.RunReport, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.RunReport{}, fmt.Errorf("read report: %w", err)
	}

	var record reportRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return m.RunReport{}, fmt.Errorf("decode report %s: %w", path, err)
	}

	return fromRecord(record), nil
}

// ListShards returns the shard report files present in dir, sorted by name.
func (s *YAMLReportStore) ListShards(dir m.Path) ([]m.Path, error) {
	matches, err := filepath.Glob(filepath.Join(string(dir), shardFilePrefix+"*.yaml"))
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)

	paths := make([]m.Path, 0, len(matches))
	for _, match := range matches {
		paths = append(paths, m.Path(match))
	}

	return paths, nil
}

func reportName(report m.RunReport) string {
	if report.TotalShards > 1 {
		return fmt.Sprintf("%s%d_of_%d.yaml", shardFilePrefix, report.ShardIndex, report.TotalShards)
	}

	return reportFileName
}

func toRecord(report m.RunReport) reportRecord {
	record := reportRecord{
		GeneratedAt: report.GeneratedAt,
		ShardIndex:  report.ShardIndex,
		TotalShards: report.TotalShards,
		Files:       report.Files,
	}

	for _, root := range report.Roots {
		record.Roots = append(record.Roots, string(root))
	}

	for _, v := range report.Violations {
		record.Violations = append(record.Violations, violationRecord{
			Rule:     v.RuleID,
			Path:     string(v.Path),
			Line:     v.Line,
			Column:   v.Column,
			Severity: v.Severity.String(),
			Message:  v.Message,
		})
	}

	return record
}

func fromRecord(record reportRecord) m.RunReport {
	report := m.RunReport{
		GeneratedAt: record.GeneratedAt,
		ShardIndex:  record.ShardIndex,
		TotalShards: record.TotalShards,
		Files:       record.Files,
	}

	for _, root := range record.Roots {
		report.Roots = append(report.Roots, m.Path(root))
	}

	for _, v := range record.Violations {
		severity, err := m.ParseSeverity(v.Severity)
		if err != nil {
			severity = m.SeverityWarning
		}

		report.Violations = append(report.Violations, m.Violation{
			RuleID:   v.Rule,
			Path:     m.Path(v.Path),
			Line:     v.Line,
			Column:   v.Column,
			Severity: severity,
			Message:  v.Message,
		})
	}

	return report
}
