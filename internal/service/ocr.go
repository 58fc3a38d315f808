package service

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/smartsplit/internal/metrics"
	"github.com/mmynk/smartsplit/internal/models"
	"github.com/mmynk/smartsplit/internal/ocr"
)

// OCRService handles receipt image uploads and item extraction.
type OCRService struct {
	extractor    ocr.TextExtractor // nil when OCR is not configured
	metrics      *metrics.Metrics
	uploadDir    string
	maxFileSize  int64
	allowedTypes []string
}

// NewOCRService creates the OCR service. extractor may be nil, in which
// case extraction reports unavailable.
func NewOCRService(extractor ocr.TextExtractor, m *metrics.Metrics, uploadDir string, maxFileSize int64, allowedTypes []string) *OCRService {
	return &OCRService{
		extractor:    extractor,
		metrics:      m,
		uploadDir:    uploadDir,
		maxFileSize:  maxFileSize,
		allowedTypes: allowedTypes,
	}
}

// ExtractResponse carries the raw extracted text and the parsed items.
type ExtractResponse struct {
	Text       string        `json:"text"`
	Confidence float64       `json:"confidence"`
	Items      []models.Item `json:"items"`
}

// HandleExtract accepts a multipart image upload, stores it under the
// uploads directory, and returns the extracted candidate items.
func (s *OCRService) HandleExtract(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		s.metrics.RecordExtraction("unavailable")
		writeError(w, http.StatusServiceUnavailable, "OCR is not configured")
		return
	}

	if err := r.ParseMultipartForm(s.maxFileSize); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if !s.allowedType(contentType) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type %q", contentType))
		return
	}

	image, err := io.ReadAll(io.LimitReader(file, s.maxFileSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	if int64(len(image)) > s.maxFileSize {
		writeError(w, http.StatusBadRequest, "file exceeds the maximum upload size")
		return
	}

	if path, err := s.saveUpload(image, header.Filename); err != nil {
		// Upload storage is best-effort; extraction still proceeds.
		slog.Warn("Failed to store upload", "error", err)
	} else {
		slog.Info("Stored receipt upload", "path", path, "bytes", len(image))
	}

	text, err := s.extractor.ExtractText(r.Context(), image)
	if err != nil {
		slog.Error("Text extraction failed", "error", err)
		s.metrics.RecordExtraction("error")
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("OCR processing failed: %v", err))
		return
	}

	items := ocr.ParseReceipt(text)
	confidence := 0.0
	if text != "" {
		confidence = 0.85
	}

	slog.Info("Receipt extracted", "lines", strings.Count(text, "\n")+1, "items", len(items))
	s.metrics.RecordExtraction("ok")
	writeJSON(w, http.StatusOK, ExtractResponse{
		Text:       text,
		Confidence: confidence,
		Items:      items,
	})
}

// HandleHealth reports whether the extractor is configured.
func (s *OCRService) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	status := "available"
	if s.extractor == nil {
		status = "unavailable"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *OCRService) allowedType(contentType string) bool {
	for _, t := range s.allowedTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

func (s *OCRService) saveUpload(image []byte, filename string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".img"
	}
	path := filepath.Join(s.uploadDir, uuid.NewString()+ext)
	if err := os.WriteFile(path, image, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return path, nil
}
