package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumns_PreservesOrder(t *testing.T) {
	payload := `{
		"dataset_id": "d1",
		"n_rows": 100,
		"n_cols": 3,
		"columns": {
			"zeta":  {"dtype": "int64", "n_missing": 0, "n_unique": 100},
			"alpha": {"dtype": "object", "sample_values": ["a", "b"]},
			"mid":   {"dtype": "float64", "pct_missing": 12.5}
		}
	}`

	var p DatasetProfile
	require.NoError(t, json.Unmarshal([]byte(payload), &p))

	require.Len(t, p.Columns, 3)
	assert.Equal(t, "zeta", p.Columns[0].Name)
	assert.Equal(t, "alpha", p.Columns[1].Name)
	assert.Equal(t, "mid", p.Columns[2].Name)
	assert.Equal(t, "int64", p.Columns[0].DType)
	assert.Equal(t, 100, p.Columns[0].NUnique)
	assert.Equal(t, []string{"a", "b"}, p.Columns[1].SampleValues)
	assert.Equal(t, 12.5, p.Columns[2].PctMissing)
}

func TestColumns_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	var cols Columns
	require.NoError(t, json.Unmarshal([]byte(`{"a":{"dtype":"int64"},"b":{"dtype":"object"},"a":{"dtype":"float64"}}`), &cols))

	require.Len(t, cols, 2)
	assert.Equal(t, "a", cols[0].Name)
	assert.Equal(t, "float64", cols[0].DType)
}

func TestColumns_NullAndInvalid(t *testing.T) {
	var cols Columns
	require.NoError(t, json.Unmarshal([]byte(`null`), &cols))
	assert.Nil(t, cols)

	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &cols))
	assert.Error(t, json.Unmarshal([]byte(`{"a": 5}`), &cols))
}

func TestColumns_MarshalKeepsOrder(t *testing.T) {
	cols := Columns{
		{Name: "z", ColumnProfile: ColumnProfile{DType: "int64"}},
		{Name: "a", ColumnProfile: ColumnProfile{DType: "object"}},
	}

	data, err := json.Marshal(cols)
	require.NoError(t, err)
	assert.Equal(t, `{"z":{"dtype":"int64"},"a":{"dtype":"object"}}`, string(data))
}

func TestDefaultCleaningOptions(t *testing.T) {
	data, err := json.Marshal(DefaultCleaningOptions())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"drop_duplicates": true,
		"impute_missing": true,
		"impute_strategy": "median",
		"remove_outliers": true,
		"outlier_zscore_threshold": 3
	}`, string(data))
}

func TestDatasetProfile_RoundTripKeepsColumnOrder(t *testing.T) {
	in := `{"n_rows":2,"n_cols":2,"columns":{"b":{"dtype":"int64"},"a":{"dtype":"object"}}}`

	var p DatasetProfile
	require.NoError(t, json.Unmarshal([]byte(in), &p))
	assert.Equal(t, []string{"b", "a"}, p.Columns.Names())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"columns":{"b":{"dtype":"int64"},"a":{"dtype":"object"}}`)
}
