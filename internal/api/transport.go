package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// loggingRoundTripper tags every outbound call with an X-Request-Id and logs
// its outcome.
type loggingRoundTripper struct {
	inner  http.RoundTripper
	logger *zap.Logger
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID := req.Header.Get("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
		// RoundTrippers must not mutate the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set("X-Request-Id", requestID)
	}

	resp, err := l.inner.RoundTrip(req)
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		l.logger.Error("http request failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	l.logger.Debug("http request done", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}

// NewHTTPClient returns an http.Client with request logging. A zero timeout
// means 10 seconds.
func NewHTTPClient(timeout time.Duration, logger *zap.Logger) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: http.DefaultTransport, logger: logger},
	}
}
