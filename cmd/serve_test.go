package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ehf-cli/internal/config"
	"github.com/sells-group/ehf-cli/internal/pipeline"
)

// stubSource feeds canned extract text to the pipeline under test.
type stubSource struct {
	text    string
	rows    [][]string
	page    int
	textErr error
}

func (s *stubSource) Text(ctx context.Context, path string) (string, error) {
	return s.text, s.textErr
}

func (s *stubSource) LastPageRows(ctx context.Context, path string) ([][]string, int, error) {
	return s.rows, s.page, nil
}

func workingSource() *stubSource {
	return &stubSource{
		text: "Date de dépôt : 15/03/2010\nNature de l'acte : VENTE de la formalité\n",
		rows: [][]string{
			{"Code", "Commune", "Désignation cadastrale", "Volume", "Lot"},
			{"123", "SAINT MALO", "AB 123", "", "9"},
		},
		page: 4,
	}
}

func testRouterWithSource(t *testing.T, src *stubSource, uploadsPerSec float64) (http.Handler, string) {
	t.Helper()
	uploadDir := t.TempDir()
	serverCfg := config.ServerConfig{
		UploadDir:     uploadDir,
		MaxUploadMB:   1,
		UploadsPerSec: uploadsPerSec,
	}
	return newRouter(serverCfg, pipeline.New(src, "")), uploadDir
}

func testRouter(t *testing.T, uploadsPerSec float64) http.Handler {
	t.Helper()
	router, _ := testRouterWithSource(t, workingSource(), uploadsPerSec)
	return router
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestServeHealth(t *testing.T) {
	router := testRouter(t, 100)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeIndexPage(t *testing.T) {
	router := testRouter(t, 100)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "multipart/form-data")
}

func TestServeAnalyze_Success(t *testing.T) {
	router := testRouter(t, 100)

	body, contentType := multipartUpload(t, "file", "extrait.pdf", []byte("%PDF-1.4 fake"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "extrait.pdf", result.Filename)
	require.NotNil(t, result.Document)
	assert.Equal(t, 1, result.Document.Statistiques.NombreTotalFormalites)
	require.Len(t, result.Immeubles, 1)
	assert.Equal(t, "SAINT MALO", result.Immeubles[0].Commune)
}

func TestServeAnalyze_RemovesUploadAfterSuccess(t *testing.T) {
	router, uploadDir := testRouterWithSource(t, workingSource(), 100)

	body, contentType := multipartUpload(t, "file", "extrait.pdf", []byte("%PDF-1.4 fake"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestServeAnalyze_RemovesUploadAfterFailure(t *testing.T) {
	src := workingSource()
	src.textErr = errors.New("illisible")
	router, uploadDir := testRouterWithSource(t, src, 100)

	body, contentType := multipartUpload(t, "file", "extrait.pdf", []byte("%PDF-1.4 fake"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestServeAnalyze_RejectsNonPDF(t *testing.T) {
	router := testRouter(t, 100)

	body, contentType := multipartUpload(t, "file", "extrait.docx", []byte("pas un pdf"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "PDF")
}

func TestServeAnalyze_MissingFile(t *testing.T) {
	router := testRouter(t, 100)

	body, contentType := multipartUpload(t, "autre_champ", "extrait.pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeAnalyze_RateLimited(t *testing.T) {
	router := testRouter(t, 0.001)

	send := func() int {
		body, contentType := multipartUpload(t, "file", "extrait.pdf", []byte("%PDF"))
		req := httptest.NewRequest(http.MethodPost, "/analyze", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestAllowedFile(t *testing.T) {
	assert.True(t, allowedFile("extrait.pdf"))
	assert.True(t, allowedFile("EXTRAIT.PDF"))
	assert.False(t, allowedFile("extrait.docx"))
	assert.False(t, allowedFile("extrait"))
}
