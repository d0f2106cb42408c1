package core

import (
	"bytes"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// UploadResponse is returned by the upload endpoint.
type UploadResponse struct {
	DatasetID string `json:"dataset_id" validate:"required"`
}

// ColumnProfile describes a single column of a profiled dataset.
type ColumnProfile struct {
	DType        string   `json:"dtype" validate:"required"`
	NMissing     int      `json:"n_missing,omitempty" validate:"gte=0"`
	PctMissing   float64  `json:"pct_missing,omitempty" validate:"gte=0,lte=100"`
	NUnique      int      `json:"n_unique,omitempty" validate:"gte=0"`
	SampleValues []string `json:"sample_values,omitempty"`
}

// Column pairs a column name with its profile.
type Column struct {
	Name string `json:"name"`
	ColumnProfile
}

// Columns is the ordered set of profiled columns.
//
// It decodes from a JSON object and keeps the key order of the document,
// which encoding/json maps would discard. A repeated key keeps its first
// position and takes the later value.
type Columns []Column

// UnmarshalJSON decodes a JSON object keyed by column name.
func (c *Columns) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = nil
		return nil
	}

	om := orderedmap.New[string, ColumnProfile]()
	if err := om.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("columns: %w", err)
	}

	cols := make(Columns, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		cols = append(cols, Column{Name: pair.Key, ColumnProfile: pair.Value})
	}
	*c = cols
	return nil
}

// MarshalJSON encodes the columns back into a JSON object in order.
func (c Columns) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, ColumnProfile](len(c))
	for _, col := range c {
		om.Set(col.Name, col.ColumnProfile)
	}
	return om.MarshalJSON()
}

// Names returns the column names in order.
func (c Columns) Names() []string {
	names := make([]string, len(c))
	for i, col := range c {
		names[i] = col.Name
	}
	return names
}

// DatasetProfile is the structural description of a dataset.
type DatasetProfile struct {
	DatasetID string  `json:"dataset_id,omitempty"`
	NRows     int     `json:"n_rows" validate:"gte=0"`
	NCols     int     `json:"n_cols" validate:"gte=0"`
	Columns   Columns `json:"columns" validate:"dive"`
}

// QualityMetrics holds the ratios that make up a quality score.
type QualityMetrics struct {
	MissingRatio      float64 `json:"missing_ratio" validate:"gte=0,lte=1"`
	DuplicateRatio    float64 `json:"duplicate_ratio" validate:"gte=0,lte=1"`
	ConstantColsRatio float64 `json:"constant_cols_ratio" validate:"gte=0,lte=1"`
}

// QualityReport is a derived cleanliness assessment of a dataset.
// The score is nominally in [0, 100].
type QualityReport struct {
	DatasetID    string         `json:"dataset_id,omitempty"`
	QualityScore float64        `json:"quality_score"`
	Metrics      QualityMetrics `json:"metrics"`
}

// ImputeStrategy selects how missing values are filled.
type ImputeStrategy string

const (
	ImputeMean   ImputeStrategy = "mean"
	ImputeMedian ImputeStrategy = "median"
	ImputeMode   ImputeStrategy = "mode"
	ImputeZero   ImputeStrategy = "zero"
)

// CleaningOptions tunes the backend cleaning pipeline.
type CleaningOptions struct {
	DropDuplicates         bool           `json:"drop_duplicates"`
	ImputeMissing          bool           `json:"impute_missing"`
	ImputeStrategy         ImputeStrategy `json:"impute_strategy" validate:"oneof=mean median mode zero"`
	RemoveOutliers         bool           `json:"remove_outliers"`
	OutlierZScoreThreshold float64        `json:"outlier_zscore_threshold" validate:"gt=0"`
}

// DefaultCleaningOptions mirrors the backend defaults.
func DefaultCleaningOptions() CleaningOptions {
	return CleaningOptions{
		DropDuplicates:         true,
		ImputeMissing:          true,
		ImputeStrategy:         ImputeMedian,
		RemoveOutliers:         true,
		OutlierZScoreThreshold: 3.0,
	}
}

// CleaningResult summarizes a cleaning run.
type CleaningResult struct {
	CleanedDatasetID     string           `json:"cleaned_dataset_id" validate:"required"`
	SourceDatasetID      string           `json:"source_dataset_id"`
	NRowsBefore          int              `json:"n_rows_before" validate:"gte=0"`
	NRowsAfter           int              `json:"n_rows_after" validate:"gte=0"`
	NMissingBefore       int              `json:"n_missing_before" validate:"gte=0"`
	NMissingAfter        int              `json:"n_missing_after" validate:"gte=0"`
	DuplicateRowsRemoved int              `json:"duplicate_rows_removed" validate:"gte=0"`
	OutlierRowsRemoved   int              `json:"outlier_rows_removed" validate:"gte=0"`
	PreviewRows          []map[string]any `json:"preview_rows,omitempty"`
}
