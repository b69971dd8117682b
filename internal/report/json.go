package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"TrendPull/internal/domain/models"
)

// summaryDoc is the results_summary.json layout: run identity, parameters
// echo and the two KPI blocks, without the bulky per-day records.
type summaryDoc struct {
	RunID       string          `json:"run_id"`
	Symbol      string          `json:"symbol"`
	ReportStart string          `json:"report_start"`
	ReportEnd   string          `json:"report_end"`
	Params      json.RawMessage `json:"params,omitempty"`
	Strategy    models.Stats    `json:"kpi_strategy"`
	Benchmark   models.Stats    `json:"kpi_buyhold"`
}

// WriteSummaryJSON writes the KPI summary to <outDir>/results_summary.json.
// params may be nil; when set it must already be valid JSON.
func WriteSummaryJSON(outDir, runID string, rep *models.Report, params json.RawMessage) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outDir, "results_summary.json")

	doc := summaryDoc{
		RunID:       runID,
		Symbol:      rep.Symbol,
		ReportStart: rep.ReportStart.Format("2006-01-02"),
		ReportEnd:   rep.ReportEnd.Format("2006-01-02"),
		Params:      params,
		Strategy:    rep.Strategy,
		Benchmark:   rep.Benchmark,
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}
