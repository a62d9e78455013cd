package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "native", cfg.PDF.Provider)
	assert.Equal(t, "pdftotext", cfg.PDF.PdfToTextPath)
	assert.Equal(t, "extractions", cfg.Output.Dir)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrentDocuments)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "uploads_ehf", cfg.Server.UploadDir)
	assert.Equal(t, int64(50), cfg.Server.MaxUploadMB)
	assert.InDelta(t, 1.0, cfg.Server.UploadsPerSec, 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
pdf:
  provider: pdftotext
log:
  level: debug
  format: console
server:
  port: 9090
batch:
  max_concurrent_documents: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pdftotext", cfg.PDF.Provider)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Batch.MaxConcurrentDocuments)
	// Defaults still apply for unset values
	assert.Equal(t, "extractions", cfg.Output.Dir)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("EHF_OUTPUT_DIR", "/tmp/sorties")
	t.Setenv("EHF_SERVER_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/sorties", cfg.Output.Dir)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))

	err := InitLogger(LogConfig{Level: "pas-un-niveau", Format: "json"})
	assert.Error(t, err)
}
