package model

import "time"

// RunReport is the persisted outcome of one check run.
type RunReport struct {
	GeneratedAt time.Time
	Roots       []Path
	ShardIndex  int
	TotalShards int
	Files       int
	Violations  []Violation
}
