package analyzer

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/NoBugNinja/Skill-Sync/internal/logger"
	"github.com/NoBugNinja/Skill-Sync/internal/scoring"
	"github.com/NoBugNinja/Skill-Sync/internal/utils"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	userAgent       = "skill-sync"

	defaultTimeout = 10 * time.Second
	defaultBackoff = time.Second
	maxLoggedBody  = 512

	// remoteMissingData is the error text the analyze endpoint answers with on 400.
	remoteMissingData = "Missing data"
)

// Client calls a remote analyze endpoint.
type Client struct {
	URL        string
	HTTPClient *http.Client
	UserAgent  string
	MaxRetries int
	// Backoff is multiplied by the attempt number between retries.
	Backoff time.Duration

	token  string
	logger *zap.Logger
}

// NewClient returns a client for the analyze endpoint at url. The token is
// optional and sent as a bearer token.
func NewClient(url, token string, timeout time.Duration, maxRetries int, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		URL: strings.TrimRight(url, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent:  userAgent,
		MaxRetries: maxRetries,
		Backoff:    defaultBackoff,
		token:      token,
		logger:     logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Analyze posts the request and decodes the scoring record. Transport errors
// are retried up to MaxRetries times.
func (c *Client) Analyze(ctx context.Context, req Request) (scoring.Record, error) {
	if err := req.Validate(); err != nil {
		return scoring.Record{}, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return scoring.Record{}, fmt.Errorf("encoding analyze request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying analyze request",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			if err := utils.WaitFor(ctx, c.Backoff*time.Duration(attempt)); err != nil {
				return scoring.Record{}, err
			}
		}

		record, err := c.analyze(ctx, body)
		if err == nil {
			return record, nil
		}

		if !IsRetryable(err) || ctx.Err() != nil {
			return scoring.Record{}, err
		}
		lastErr = err
	}

	return scoring.Record{}, lastErr
}

func (c *Client) analyze(ctx context.Context, body []byte) (scoring.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return scoring.Record{}, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.request(req)
	if err != nil {
		return scoring.Record{}, c.transportError(err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return scoring.Record{}, c.transportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("unexpected analyze response",
			zap.Int("status", resp.StatusCode),
			zap.String("body", logger.TruncateForLog(string(data), maxLoggedBody)),
		)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return decodeRecord(data)
	case resp.StatusCode == http.StatusBadRequest:
		return scoring.Record{}, decodeRejection(data)
	case resp.StatusCode >= http.StatusInternalServerError, resp.StatusCode == http.StatusTooManyRequests:
		return scoring.Record{}, c.transportError(fmt.Errorf("bad status: %s", resp.Status))
	default:
		return scoring.Record{}, fmt.Errorf("bad status: %s", resp.Status)
	}
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

func (c *Client) transportError(err error) error {
	return &TransportError{Target: c.URL, Err: err}
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(reader)
}

// decodeRecord accepts loosely typed answers, e.g. numbers sent as strings.
func decodeRecord(data []byte) (scoring.Record, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return scoring.Record{}, fmt.Errorf("decoding analyze response: %w", err)
	}

	var record scoring.Record
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &record,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return scoring.Record{}, err
	}

	if err := decoder.Decode(raw); err != nil {
		return scoring.Record{}, fmt.Errorf("decoding analyze response: %w", err)
	}

	if record.MatchedMustHave == nil {
		record.MatchedMustHave = []string{}
	}
	if record.MatchedNiceToHave == nil {
		record.MatchedNiceToHave = []string{}
	}

	if record.WeightedScore < 0 || record.WeightedScore > record.MaxScore ||
		record.Percentage < 0 || record.Percentage > 100 {
		return scoring.Record{}, fmt.Errorf("inconsistent analyze response: score %d of %d, %d%%",
			record.WeightedScore, record.MaxScore, record.Percentage)
	}

	return record, nil
}

func decodeRejection(data []byte) error {
	var body errorResponse
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		return ErrRejected
	}

	if body.Error == remoteMissingData {
		return ErrMissingData
	}

	return fmt.Errorf("%w: %s", ErrRejected, body.Error)
}

var (
	_ Analyzer = (*Client)(nil)
	_ Analyzer = (*Local)(nil)
)
