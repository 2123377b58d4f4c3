package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// StageMetrics records what one stage did to the table
type StageMetrics struct {
	Stage      string        `json:"stage"`
	RowsIn     int           `json:"rowsIn"`
	RowsOut    int           `json:"rowsOut"`
	Columns    int           `json:"columns"`
	Operations int           `json:"operations"`
	Duration   time.Duration `json:"duration"`
}

// RowsDropped returns the number of rows the stage removed
func (s StageMetrics) RowsDropped() int {
	return s.RowsIn - s.RowsOut
}

// RunMetrics tracks per-stage metrics for a single pipeline run
type RunMetrics struct {
	logger    *zap.Logger
	RunID     string
	StartTime time.Time
	EndTime   time.Time
	Stages    []StageMetrics
}

// NewRunMetrics creates a new RunMetrics instance
func NewRunMetrics(runID string, logger *zap.Logger) *RunMetrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunMetrics{
		logger:    logger,
		RunID:     runID,
		StartTime: time.Now(),
		Stages:    make([]StageMetrics, 0, stageCount),
	}
}

// RecordStage appends the metrics of a completed stage
func (m *RunMetrics) RecordStage(s StageMetrics) {
	m.Stages = append(m.Stages, s)
	m.logger.Debug("Completed stage",
		zap.String("stage", s.Stage),
		zap.Int("rowsIn", s.RowsIn),
		zap.Int("rowsOut", s.RowsOut),
		zap.Int("columns", s.Columns),
		zap.Int("operations", s.Operations),
		zap.Duration("duration", s.Duration))
}

// Complete marks the run as finished and logs the totals
func (m *RunMetrics) Complete() {
	m.EndTime = time.Now()
	m.logger.Info("Completed pipeline run",
		zap.Duration("duration", m.Duration()),
		zap.Int("stages", len(m.Stages)),
		zap.Int("rowsDropped", m.RowsDropped()),
		zap.Int("operations", m.Operations()))
}

// Duration returns the total duration of the run
func (m *RunMetrics) Duration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// RowsDropped returns the number of rows removed across all stages
func (m *RunMetrics) RowsDropped() int {
	total := 0
	for _, s := range m.Stages {
		total += s.RowsDropped()
	}
	return total
}

// Operations returns the number of cleaning operations across all stages
func (m *RunMetrics) Operations() int {
	total := 0
	for _, s := range m.Stages {
		total += s.Operations
	}
	return total
}

// Stage returns the metrics recorded for the named stage
func (m *RunMetrics) Stage(name string) (StageMetrics, bool) {
	for _, s := range m.Stages {
		if s.Stage == name {
			return s, true
		}
	}
	return StageMetrics{}, false
}

// formatDuration formats a duration to a human-readable string
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// GenerateReport renders the stage table as plain text
func (m *RunMetrics) GenerateReport() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run %s finished in %s\n", m.RunID, formatDuration(m.Duration())))
	sb.WriteString(fmt.Sprintf("%-20s %8s %8s %8s %8s %10s\n", "stage", "rows_in", "rows_out", "columns", "ops", "duration"))
	for _, s := range m.Stages {
		sb.WriteString(fmt.Sprintf("%-20s %8d %8d %8d %8d %10s\n",
			s.Stage, s.RowsIn, s.RowsOut, s.Columns, s.Operations, formatDuration(s.Duration)))
	}
	return sb.String()
}

// ToJSON serializes metrics to JSON
func (m *RunMetrics) ToJSON() ([]byte, error) {
	return json.Marshal(struct {
		RunID       string         `json:"runId"`
		Duration    string         `json:"duration"`
		RowsDropped int            `json:"rowsDropped"`
		Operations  int            `json:"operations"`
		Stages      []StageMetrics `json:"stages"`
	}{
		RunID:       m.RunID,
		Duration:    formatDuration(m.Duration()),
		RowsDropped: m.RowsDropped(),
		Operations:  m.Operations(),
		Stages:      m.Stages,
	})
}
