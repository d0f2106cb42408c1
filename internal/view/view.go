// Package view projects backend payloads into presentational structures.
//
// The projections are pure: they take a payload and return a view model
// with every value already formatted for display. Board collects the latest
// projections for a session and is what the renderers read.
package view

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/JonMunkholm/cleanmind/internal/core"
)

const (
	// MaxProfileColumns is how many columns the profile panel lists.
	MaxProfileColumns = 6

	// MaxPreviewRows is how many cleaned rows the summary previews.
	MaxPreviewRows = 5
)

// Grade thresholds on the quality score.
const (
	ExcellentScore = 95.0
	GoodScore      = 80.0
)

// Tone is the accent of a quality badge.
type Tone string

const (
	ToneExcellent Tone = "excellent"
	ToneGood      Tone = "good"
	ToneAttention Tone = "attention"
)

// ColumnView is a single listed column.
type ColumnView struct {
	Name  string `json:"name"`
	DType string `json:"dtype"`
}

// ProfileView is the dataset profile panel.
type ProfileView struct {
	DatasetID string       `json:"dataset_id"`
	Rows      int          `json:"rows"`
	Cols      int          `json:"cols"`
	Columns   []ColumnView `json:"columns"`
	NoColumns bool         `json:"no_columns"`
}

// QualityView is the quality score panel.
type QualityView struct {
	Score     string `json:"score"`
	Scale     string `json:"scale"`
	Grade     string `json:"grade"`
	Tone      Tone   `json:"tone"`
	Missing   string `json:"missing"`
	Duplicate string `json:"duplicate"`
	Constant  string `json:"constant"`
}

// CleaningView is the cleaning summary panel.
type CleaningView struct {
	SourceDatasetID  string     `json:"source_dataset_id"`
	CleanedDatasetID string     `json:"cleaned_dataset_id"`
	RowsBefore       int        `json:"rows_before"`
	RowsAfter        int        `json:"rows_after"`
	MissingBefore    int        `json:"missing_before"`
	MissingAfter     int        `json:"missing_after"`
	DuplicatesRemove int        `json:"duplicate_rows_removed"`
	OutliersRemoved  int        `json:"outlier_rows_removed"`
	PreviewHeader    []string   `json:"preview_header,omitempty"`
	PreviewRows      [][]string `json:"preview_rows,omitempty"`
}

// ProfileOf projects a profile. The dataset id is the one the session
// adopted, which the profile payload may omit.
func ProfileOf(datasetID string, p *core.DatasetProfile) ProfileView {
	v := ProfileView{
		DatasetID: datasetID,
		Rows:      p.NRows,
		Cols:      p.NCols,
		Columns:   []ColumnView{},
	}

	for i, col := range p.Columns {
		if i == MaxProfileColumns {
			break
		}
		v.Columns = append(v.Columns, ColumnView{Name: col.Name, DType: col.DType})
	}
	v.NoColumns = len(v.Columns) == 0
	return v
}

// QualityOf projects a quality report.
func QualityOf(q *core.QualityReport) QualityView {
	grade, tone := Grade(q.QualityScore)
	return QualityView{
		Score:     strconv.FormatFloat(q.QualityScore, 'f', 1, 64),
		Scale:     "/ 100",
		Grade:     grade,
		Tone:      tone,
		Missing:   Percent(q.Metrics.MissingRatio),
		Duplicate: Percent(q.Metrics.DuplicateRatio),
		Constant:  Percent(q.Metrics.ConstantColsRatio),
	}
}

// Grade labels a quality score.
func Grade(score float64) (string, Tone) {
	switch {
	case score >= ExcellentScore:
		return "Excellent", ToneExcellent
	case score >= GoodScore:
		return "Good", ToneGood
	default:
		return "Needs Attention", ToneAttention
	}
}

// Percent formats a ratio in [0,1] as a percentage with two decimals.
func Percent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}

// CleaningOf projects a cleaning result. order lists known column names;
// preview columns follow it, with any others appended alphabetically.
func CleaningOf(c *core.CleaningResult, order []string) CleaningView {
	v := CleaningView{
		SourceDatasetID:  c.SourceDatasetID,
		CleanedDatasetID: c.CleanedDatasetID,
		RowsBefore:       c.NRowsBefore,
		RowsAfter:        c.NRowsAfter,
		MissingBefore:    c.NMissingBefore,
		MissingAfter:     c.NMissingAfter,
		DuplicatesRemove: c.DuplicateRowsRemoved,
		OutliersRemoved:  c.OutlierRowsRemoved,
	}

	rows := c.PreviewRows
	if len(rows) > MaxPreviewRows {
		rows = rows[:MaxPreviewRows]
	}
	if len(rows) == 0 {
		return v
	}

	v.PreviewHeader = previewHeader(rows, order)
	for _, row := range rows {
		cells := make([]string, len(v.PreviewHeader))
		for i, name := range v.PreviewHeader {
			cells[i] = cellText(row[name])
		}
		v.PreviewRows = append(v.PreviewRows, cells)
	}
	return v
}

func previewHeader(rows []map[string]any, order []string) []string {
	present := make(map[string]bool)
	for _, row := range rows {
		for name := range row {
			present[name] = true
		}
	}

	header := make([]string, 0, len(present))
	for _, name := range order {
		if present[name] {
			header = append(header, name)
			delete(present, name)
		}
	}

	rest := make([]string, 0, len(present))
	for name := range present {
		rest = append(rest, name)
	}
	slices.Sort(rest)
	return append(header, rest...)
}

func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
