package view

import (
	"testing"

	"github.com/JonMunkholm/cleanmind/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_RenderAndReset(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, Dashboard{}, b.Snapshot())

	b.RenderProfile("d1", &core.DatasetProfile{
		NRows: 3, NCols: 2,
		Columns: core.Columns{
			{Name: "b", ColumnProfile: core.ColumnProfile{DType: "int64"}},
			{Name: "a", ColumnProfile: core.ColumnProfile{DType: "object"}},
		},
	})
	b.RenderQuality(&core.QualityReport{QualityScore: 82})
	b.RenderCleaning(&core.CleaningResult{
		CleanedDatasetID: "c1",
		SourceDatasetID:  "d1",
		PreviewRows:      []map[string]any{{"a": "x", "b": 1.0}},
	})
	b.SetDownloadEnabled(true)

	d := b.Snapshot()
	require.NotNil(t, d.Profile)
	require.NotNil(t, d.Quality)
	require.NotNil(t, d.Cleaning)
	assert.Equal(t, "d1", d.Profile.DatasetID)
	assert.Equal(t, "Good", d.Quality.Grade)
	assert.Equal(t, []string{"b", "a"}, d.Cleaning.PreviewHeader)
	assert.True(t, d.DownloadEnabled)

	b.Reset()
	assert.Equal(t, Dashboard{}, b.Snapshot())
}

func TestBoard_SnapshotIsACopy(t *testing.T) {
	b := NewBoard()
	b.SetDownloadEnabled(true)

	d := b.Snapshot()
	b.SetDownloadEnabled(false)

	assert.True(t, d.DownloadEnabled)
	assert.False(t, b.Snapshot().DownloadEnabled)
}
