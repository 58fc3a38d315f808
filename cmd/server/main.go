package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/smartsplit/internal/config"
	"github.com/mmynk/smartsplit/internal/metrics"
	"github.com/mmynk/smartsplit/internal/middleware"
	"github.com/mmynk/smartsplit/internal/ocr"
	"github.com/mmynk/smartsplit/internal/rules"
	"github.com/mmynk/smartsplit/internal/service"
	"github.com/mmynk/smartsplit/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		slog.Error("Failed to create upload directory", "path", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	// External rule interpreter, if an OpenRouter key is configured. The
	// local fallback handles everything otherwise.
	var external rules.Interpreter
	if cfg.OpenRouterAPIKey != "" {
		interp, err := rules.NewOpenRouter(rules.Config{
			APIKey:    cfg.OpenRouterAPIKey,
			BaseURL:   cfg.OpenRouterBaseURL,
			Model:     cfg.OpenRouterModel,
			MaxTokens: cfg.OpenRouterMaxTokens,
		})
		if err != nil {
			slog.Warn("Failed to initialize OpenRouter interpreter", "error", err)
		} else {
			external = interp
			slog.Info("OpenRouter rule interpreter enabled", "model", cfg.OpenRouterModel)
		}
	}
	interpreter := rules.NewService(external)

	// Textract OCR, if AWS credentials are configured.
	var extractor ocr.TextExtractor
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		tx, err := ocr.NewTextract(context.Background(), ocr.TextractConfig{
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Region:          cfg.AWSRegion,
		})
		if err != nil {
			slog.Warn("Failed to initialize Textract, OCR disabled", "error", err)
		} else {
			extractor = tx
			slog.Info("Textract OCR enabled", "region", cfg.AWSRegion)
		}
	} else {
		slog.Warn("AWS credentials not configured, OCR disabled")
	}

	allocationSvc := service.NewAllocationService(interpreter, m, cfg.DefaultTaxRate, cfg.DefaultTipRate)
	ocrSvc := service.NewOCRService(extractor, m, cfg.UploadDir, cfg.MaxFileSize, cfg.AllowedImageTypes)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/allocation/calculate", allocationSvc.HandleCalculate)
	mux.HandleFunc("POST /api/allocation/parse-rules", allocationSvc.HandleParseRules)
	mux.HandleFunc("POST /api/ocr/extract", ocrSvc.HandleExtract)
	mux.HandleFunc("GET /api/ocr/health", ocrSvc.HandleHealth)
	mux.HandleFunc("GET /api/health", service.HandleHealth)
	mux.Handle("GET /metrics", m.Handler())
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	mux.HandleFunc("GET /{$}", service.HandleRoot)

	handler := middleware.Logging(
		middleware.CORS(cfg.AllowedOrigins)(
			middleware.Metrics(m)(mux),
		),
	)

	// h2c lets reverse proxies speak cleartext HTTP/2 to us.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
