package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/cleanmind/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_BackendOverride(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://127.0.0.1:8000")

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.Backend.URL)

	cfg, err = loadConfig("http://cleaner.internal:9000")
	require.NoError(t, err)
	assert.Equal(t, "http://cleaner.internal:9000", cfg.Backend.URL)

	_, err = loadConfig("not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_URL")
}

func TestSaveDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/c1/download", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("id\n1\n"))
	}))
	defer srv.Close()

	datasets := transport.NewDatasets(transport.NewClient(srv.URL, 0))
	dest := filepath.Join(t.TempDir(), "c1.csv")

	require.NoError(t, saveDownload(context.Background(), datasets, "c1", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "id\n1\n", string(data))
}

func TestSaveDownload_MissingDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("id\n"))
	}))
	defer srv.Close()

	datasets := transport.NewDatasets(transport.NewClient(srv.URL, 0))
	err := saveDownload(context.Background(), datasets, "c1", filepath.Join(t.TempDir(), "missing", "c1.csv"))
	assert.Error(t, err)
}
