package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/yildizm/TransformoDocs/internal/config"
	"github.com/yildizm/TransformoDocs/internal/errs"
	"github.com/yildizm/TransformoDocs/internal/logger"
)

const (
	// RequestIDHeader carries the correlation id of every outgoing request
	RequestIDHeader = "X-Request-ID"

	opUpload   = "upload"
	opCheckMRC = "check_mrc"

	// maxErrorBodyBytes bounds how much of a failed response is kept for logs
	maxErrorBodyBytes = 512
)

// Client talks to the document-processing service and the MRC classifier
type Client struct {
	cfg        config.ServiceConfig
	http       *http.Client
	uploadURL  string
	checkURL   string
	breaker    *gobreaker.CircuitBreaker[any]
	log        *logger.Logger
	newRequest func() string
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log.WithComponent("client") }
}

// New creates a client for the configured collaborators
func New(cfg config.ServiceConfig, opts ...Option) (*Client, error) {
	if cfg.Timeout <= 0 {
		return nil, errs.NewConfigurationError("service.timeout", "timeout must be positive")
	}

	uploadURL, err := joinURL(cfg.BaseURL, cfg.UploadPath)
	if err != nil {
		return nil, errs.NewConfigurationError("service.base_url", "invalid base URL: "+err.Error())
	}
	checkURL, err := joinURL(cfg.MRCURL(), cfg.CheckPath)
	if err != nil {
		return nil, errs.NewConfigurationError("service.mrc_base_url", "invalid MRC base URL: "+err.Error())
	}

	field := cfg.UploadField
	if field == "" {
		field = "file"
	}
	cfg.UploadField = field

	c := &Client{
		cfg:        cfg,
		http:       &http.Client{Timeout: cfg.Timeout},
		uploadURL:  uploadURL,
		checkURL:   checkURL,
		log:        logger.Nop(),
		newRequest: uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	if cfg.Breaker.Enabled {
		c.breaker = newBreaker(cfg.Breaker, c.log)
	}

	return c, nil
}

// UploadURL returns the resolved document-processing endpoint
func (c *Client) UploadURL() string { return c.uploadURL }

// CheckURL returns the resolved MRC endpoint
func (c *Client) CheckURL() string { return c.checkURL }

// Process uploads file as a multipart form and decodes the JSON reply.
// Any well-formed JSON value counts as success.
func (c *Client) Process(ctx context.Context, file File) (*StructuredResult, error) {
	if file == nil {
		return nil, errs.NewValidationError(opUpload, "no file selected")
	}

	body, contentType, err := c.multipartBody(file)
	if err != nil {
		return nil, err
	}

	data, err := c.post(ctx, opUpload, c.uploadURL, contentType, body)
	if err != nil {
		return nil, err
	}

	result, err := DecodeResult(data)
	if err != nil {
		return nil, errs.NewRemoteErrorWithCause(opUpload, "document processing returned an unreadable response", err)
	}
	return result, nil
}

// CheckMRC submits content to the classifier and returns its verdict
func (c *Client) CheckMRC(ctx context.Context, content string) (bool, error) {
	payload, err := json.Marshal(checkRequest{Content: content})
	if err != nil {
		return false, errs.NewInternalError(opCheckMRC, "failed to marshal request", err)
	}

	data, err := c.post(ctx, opCheckMRC, c.checkURL, "application/json", payload)
	if err != nil {
		return false, err
	}

	var resp map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return false, errs.NewRemoteErrorWithCause(opCheckMRC, "classifier returned an unreadable response", err)
	}

	raw, ok := resp["isReadable"]
	if !ok {
		return false, errs.NewRemoteError(opCheckMRC, "classifier response is missing isReadable", 0)
	}

	readable, err := ParseReadable(raw)
	if err != nil {
		return false, errs.NewRemoteErrorWithCause(opCheckMRC, "classifier returned an invalid isReadable value", err)
	}
	return readable, nil
}

type checkRequest struct {
	Content string `json:"content"`
}

// ParseReadable converts a boolean-equivalent JSON value to a bool.
// Accepted: booleans, the strings true/false/yes/no/1/0 in any case, and
// numbers where non-zero means true.
func ParseReadable(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "1":
			return true, nil
		case "false", "no", "0":
			return false, nil
		}
		return false, fmt.Errorf("unrecognized boolean string %q", val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return false, fmt.Errorf("invalid number %q: %w", val.String(), err)
		}
		return f != 0, nil
	case float64:
		return val != 0, nil
	case nil:
		return false, fmt.Errorf("isReadable is null")
	default:
		return false, fmt.Errorf("unsupported isReadable type %T", v)
	}
}

func (c *Client) multipartBody(file File) ([]byte, string, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, "", errs.NewValidationError(opUpload, "cannot open "+file.Name()+": "+err.Error())
	}
	defer func() { _ = rc.Close() }()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(c.cfg.UploadField, file.Name())
	if err != nil {
		return nil, "", errs.NewInternalError(opUpload, "failed to create multipart field", err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return nil, "", errs.NewInternalError(opUpload, "failed to read "+file.Name(), err)
	}
	if err := w.Close(); err != nil {
		return nil, "", errs.NewInternalError(opUpload, "failed to finish multipart body", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// post performs one bounded POST and returns the body of a 2xx response
func (c *Client) post(ctx context.Context, op, endpoint, contentType string, body []byte) ([]byte, error) {
	if c.breaker == nil {
		return c.doPost(ctx, op, endpoint, contentType, body)
	}

	out, err := c.breaker.Execute(func() (any, error) {
		return c.doPost(ctx, op, endpoint, contentType, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errs.NewRemoteErrorWithCause(op, "service temporarily unavailable", err)
		}
		return nil, err
	}
	data, _ := out.([]byte)
	return data, nil
}

func (c *Client) doPost(ctx context.Context, op, endpoint, contentType string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	requestID := c.newRequest()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errs.NewInternalError(op, "failed to create request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	c.log.DebugWithFields("sending request", []logger.Field{
		logger.RequestID(requestID), logger.F("op", op), logger.F("url", endpoint), logger.F("bytes", len(body)),
	})

	resp, err := c.http.Do(req)
	if err != nil {
		msg := "request failed"
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			msg = "request timed out"
		}
		c.log.WarnWithFields(msg, []logger.Field{
			logger.RequestID(requestID), logger.F("op", op), logger.Duration(time.Since(start)), logger.Error(err),
		})
		return nil, errs.NewRemoteErrorWithCause(op, msg, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.WarnWithFields("failed to read response", []logger.Field{
			logger.RequestID(requestID), logger.F("op", op), logger.Error(err),
		})
		return nil, errs.NewRemoteErrorWithCause(op, "failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.WarnWithFields("unexpected status", []logger.Field{
			logger.RequestID(requestID), logger.F("op", op), logger.Status(resp.StatusCode),
			logger.Duration(time.Since(start)), logger.F("body", truncate(data, maxErrorBodyBytes)),
		})
		return nil, errs.NewRemoteError(op, fmt.Sprintf("request failed with status %d", resp.StatusCode), resp.StatusCode)
	}

	c.log.DebugWithFields("request completed", []logger.Field{
		logger.RequestID(requestID), logger.F("op", op), logger.Status(resp.StatusCode), logger.Duration(time.Since(start)),
	})
	return data, nil
}

func newBreaker(cfg config.BreakerConfig, log *logger.Logger) *gobreaker.CircuitBreaker[any] {
	settings := gobreaker.Settings{
		Name:        "collaborators",
		MaxRequests: cfg.HalfOpenMaxCalls,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// only collaborator failures count against the breaker
			return err == nil || !errs.IsType(err, errs.ErrTypeRemote)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WarnWithFields("circuit breaker state change", []logger.Field{
				logger.F("breaker", name), logger.F("from", from.String()), logger.F("to", to.String()),
			})
		},
	}
	return gobreaker.NewCircuitBreaker[any](settings)
}

func joinURL(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%q is not an absolute URL", base)
	}
	return u.JoinPath(path).String(), nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
