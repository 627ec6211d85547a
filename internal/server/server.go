// Package server implements a reference document-processing service that
// accepts multipart uploads and answers with the extracted text.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/yildizm/TransformoDocs/internal/config"
	"github.com/yildizm/TransformoDocs/internal/extract"
	"github.com/yildizm/TransformoDocs/internal/logger"
	"github.com/yildizm/TransformoDocs/internal/metrics"
)

const (
	serviceName = "transformo"
	uploadField = "file"

	// multipart parts beyond this size spill to disk
	multipartMemory = 8 << 20

	shutdownTimeout = 10 * time.Second
)

// Server answers document-processing requests
type Server struct {
	cfg       config.ServeConfig
	extractor *extract.Extractor
	metrics   *metrics.ServerMetrics
	log       *logger.Logger
}

// New creates a server for cfg. A nil logger discards output.
func New(cfg config.ServeConfig, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	ext := extract.New()
	if cfg.MaxUploadBytes > 0 {
		ext.MaxEntryBytes = 2 * cfg.MaxUploadBytes
	}
	return &Server{
		cfg:       cfg,
		extractor: ext,
		metrics:   metrics.NewServerMetrics(serviceName),
		log:       log.WithComponent("server"),
	}
}

// Handler returns the routed and instrumented HTTP handler
func (s *Server) Handler() http.Handler {
	routes := []string{"/upload", "/healthz"}
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", s.upload)
	mux.HandleFunc("/healthz", s.healthz)
	if s.cfg.MetricsPath != "" {
		mux.Handle(s.cfg.MetricsPath, s.metrics.Handler())
		routes = append(routes, s.cfg.MetricsPath)
	}
	handler := requestIDMiddleware(corsMiddleware(s.loggingMiddleware(mux)))
	return s.metrics.Middleware(serviceName, handler, routes...)
}

// ListenAndServe serves on the configured address until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoWithFields("listening on %s", []logger.Field{
			logger.F("max_upload_bytes", s.cfg.MaxUploadBytes),
			logger.F("metrics", s.cfg.MetricsPath),
		}, ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	requestID := RequestIDFrom(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "File too large"})
		case errors.Is(err, http.ErrNotMultipart):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file part"})
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Malformed multipart body"})
		}
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		// a part with an empty filename is parsed as a plain form value
		if _, ok := r.MultipartForm.Value[uploadField]; ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No selected file"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file part"})
		return
	}
	defer func() { _ = file.Close() }()

	start := time.Now()
	format, text, err := s.process(header.Filename, file)
	outcome := outcomeOf(err)
	s.metrics.RecordExtraction(serviceName, string(format), outcome, header.Size, time.Since(start))

	fields := []logger.Field{
		logger.RequestID(requestID), logger.F("file", header.Filename), logger.F("format", format),
		logger.F("bytes", header.Size), logger.Duration(time.Since(start)),
	}
	if err != nil {
		s.log.WarnWithFields("extraction failed", append(fields, logger.Error(err)))
		writeJSON(w, http.StatusOK, map[string]string{"error": err.Error()})
		return
	}

	s.log.DebugWithFields("extraction completed", append(fields, logger.F("chars", len(text))))
	writeJSON(w, http.StatusOK, map[string]string{"content": text})
}

// process stores the upload in the temp directory and extracts it
func (s *Server) process(name string, src io.Reader) (extract.Format, string, error) {
	tmp, err := os.CreateTemp(s.cfg.TempDir, "transformo-*"+filepath.Ext(name))
	if err != nil {
		return extract.Detect(name), "", fmt.Errorf("Failed to store upload: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, src)
	if err != nil {
		return extract.Detect(name), "", fmt.Errorf("Failed to store upload: %w", err)
	}

	return s.extractor.Extract(name, tmp, size)
}

func outcomeOf(err error) string {
	var unsupported *extract.UnsupportedError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &unsupported):
		return "unsupported"
	default:
		return "error"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
