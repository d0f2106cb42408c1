package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/cleanmind/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatasets(t *testing.T, mux *http.ServeMux) (*Datasets, string) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewDatasets(NewClient(srv.URL, 0)), srv.URL
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func TestUpload_SendsMultipartFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /datasets/upload", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		data, _ := io.ReadAll(file)
		assert.Equal(t, "data.csv", header.Filename)
		assert.Equal(t, "a,b\n1,2\n", string(data))
		writeJSON(w, `{"dataset_id":"d1"}`)
	})
	ds, _ := newTestDatasets(t, mux)

	id, err := ds.Upload(context.Background(), "data.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "d1", id)
}

func TestUpload_EmptyIDIsRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /datasets/upload", func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		writeJSON(w, `{"dataset_id":""}`)
	})
	ds, _ := newTestDatasets(t, mux)

	_, err := ds.Upload(context.Background(), "data.csv", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrRequestFailed))
	assert.Contains(t, err.Error(), "invalid response")
}

func TestUpload_ServerRejects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /datasets/upload", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Failed to parse file: bad header"}`))
	})
	ds, _ := newTestDatasets(t, mux)

	_, err := ds.Upload(context.Background(), "data.csv", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, "Failed to parse file: bad header", err.Error())
}

func TestProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /datasets/d1/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"dataset_id":"d1","n_rows":100,"n_cols":2,"columns":{"b":{"dtype":"int64"},"a":{"dtype":"object"}}}`)
	})
	ds, _ := newTestDatasets(t, mux)

	p, err := ds.Profile(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 100, p.NRows)
	assert.Equal(t, 2, p.NCols)
	require.Len(t, p.Columns, 2)
	assert.Equal(t, "b", p.Columns[0].Name)
}

func TestProfile_MissingDTypeIsInvalid(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /datasets/d1/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"n_rows":1,"n_cols":1,"columns":{"a":{}}}`)
	})
	ds, _ := newTestDatasets(t, mux)

	_, err := ds.Profile(context.Background(), "d1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrRequestFailed))
}

func TestQuality(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /datasets/d1/quality_score", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"quality_score":97.3,"metrics":{"missing_ratio":0.02,"duplicate_ratio":0,"constant_cols_ratio":0.1}}`)
	})
	ds, _ := newTestDatasets(t, mux)

	q, err := ds.Quality(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 97.3, q.QualityScore)
	assert.Equal(t, 0.02, q.Metrics.MissingRatio)
}

func TestQuality_RatioOutOfRange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /datasets/d1/quality_score", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"quality_score":50,"metrics":{"missing_ratio":1.5,"duplicate_ratio":0,"constant_cols_ratio":0}}`)
	})
	ds, _ := newTestDatasets(t, mux)

	_, err := ds.Quality(context.Background(), "d1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid response")
}

func TestQuality_NonJSONIsFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /datasets/d1/quality_score", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("97"))
	})
	ds, _ := newTestDatasets(t, mux)

	_, err := ds.Quality(context.Background(), "d1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrRequestFailed))
}

func TestClean_WithoutOptionsSendsNoBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /datasets/d1/clean", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		assert.Empty(t, r.Header.Get("Content-Type"))
		writeJSON(w, `{"cleaned_dataset_id":"c1","source_dataset_id":"d1","n_rows_before":100,"n_rows_after":95,
			"n_missing_before":3,"n_missing_after":0,"duplicate_rows_removed":5,"outlier_rows_removed":0,
			"preview_rows":[{"a":"1","b":null}]}`)
	})
	ds, _ := newTestDatasets(t, mux)

	res, err := ds.Clean(context.Background(), "d1", nil)
	require.NoError(t, err)
	assert.Equal(t, "c1", res.CleanedDatasetID)
	assert.Equal(t, "d1", res.SourceDatasetID)
	assert.Equal(t, 95, res.NRowsAfter)
	assert.Equal(t, 5, res.DuplicateRowsRemoved)
	require.Len(t, res.PreviewRows, 1)
	assert.Nil(t, res.PreviewRows[0]["b"])
}

func TestClean_WithOptions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /datasets/d1/clean", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"impute_strategy":"mode"`)
		writeJSON(w, `{"cleaned_dataset_id":"c1","source_dataset_id":"d1"}`)
	})
	ds, _ := newTestDatasets(t, mux)

	opts := core.DefaultCleaningOptions()
	opts.ImputeStrategy = core.ImputeMode
	_, err := ds.Clean(context.Background(), "d1", &opts)
	require.NoError(t, err)
}

func TestClean_InvalidOptionsNeverSent(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { called = true })
	ds, _ := newTestDatasets(t, mux)

	opts := core.DefaultCleaningOptions()
	opts.ImputeStrategy = "max"
	_, err := ds.Clean(context.Background(), "d1", &opts)
	require.Error(t, err)
	assert.False(t, called)
}

func TestDownload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /datasets/c1/download", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("a\n1\n"))
	})
	ds, base := newTestDatasets(t, mux)

	resp, err := ds.Download(context.Background(), "c1")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "a\n1\n", string(data))
	assert.Equal(t, base+"/datasets/c1/download", ds.DownloadURL("c1"))
}

func TestDatasetPath_EscapesID(t *testing.T) {
	assert.Equal(t, "/datasets/a%2Fb/profile", datasetPath("a/b", "profile"))
}
