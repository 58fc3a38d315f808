package service

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/smartsplit/internal/metrics"
)

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) ExtractText(context.Context, []byte) (string, error) {
	return s.text, s.err
}

func uploadRequest(t *testing.T, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="receipt.png"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ocr/extract", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandleExtract(t *testing.T) {
	uploadDir := t.TempDir()
	extractor := stubExtractor{text: "Garlic Naan\n3.99\nChicken Biryani\n16.99"}
	svc := NewOCRService(extractor, metrics.New(), uploadDir, 1<<20, []string{"image/png", "image/jpeg"})

	rec := httptest.NewRecorder()
	svc.HandleExtract(rec, uploadRequest(t, "image/png", []byte("fake-image-bytes")))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 0.85, resp.Confidence)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Garlic Naan", resp.Items[0].Name)
	assert.Equal(t, "Chicken Biryani", resp.Items[1].Name)

	// The upload is stored under the uploads directory.
	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".png", filepath.Ext(entries[0].Name()))
}

func TestHandleExtractUnavailable(t *testing.T) {
	svc := NewOCRService(nil, metrics.New(), t.TempDir(), 1<<20, []string{"image/png"})

	rec := httptest.NewRecorder()
	svc.HandleExtract(rec, uploadRequest(t, "image/png", []byte("data")))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleExtractRejectsUnsupportedType(t *testing.T) {
	svc := NewOCRService(stubExtractor{}, metrics.New(), t.TempDir(), 1<<20, []string{"image/png"})

	rec := httptest.NewRecorder()
	svc.HandleExtract(rec, uploadRequest(t, "application/pdf", []byte("%PDF")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleExtractRejectsOversizedUpload(t *testing.T) {
	svc := NewOCRService(stubExtractor{}, metrics.New(), t.TempDir(), 16, []string{"image/png"})

	rec := httptest.NewRecorder()
	svc.HandleExtract(rec, uploadRequest(t, "image/png", bytes.Repeat([]byte("x"), 64)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOCRHealth(t *testing.T) {
	tests := []struct {
		name       string
		svc        *OCRService
		wantStatus string
	}{
		{"available", NewOCRService(stubExtractor{}, metrics.New(), t.TempDir(), 1, nil), "available"},
		{"unavailable", NewOCRService(nil, metrics.New(), t.TempDir(), 1, nil), "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.svc.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/api/ocr/health", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"status": "`+tt.wantStatus+`"}`, rec.Body.String())
		})
	}
}
