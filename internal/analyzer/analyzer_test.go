package analyzer

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NoBugNinja/Skill-Sync/internal/keywords"
	"github.com/NoBugNinja/Skill-Sync/internal/scoring"
)

func scenarioRequest() Request {
	return Request{
		ResumeText: "Experienced in Python and SQL.",
		Keywords: &keywords.Spec{
			MustHave:   []string{"Python", "SQL"},
			NiceToHave: []string{"Docker"},
		},
	}
}

func TestLocalAnalyze(t *testing.T) {
	t.Parallel()

	record, err := NewLocal(scoring.Weights{}).Analyze(context.Background(), scenarioRequest())
	require.NoError(t, err)

	assert.Equal(t, 6, record.WeightedScore)
	assert.Equal(t, 7, record.MaxScore)
	assert.Equal(t, 86, record.Percentage)
	assert.Equal(t, []string{"Python", "SQL"}, record.MatchedMustHave)
	assert.Empty(t, record.MatchedNiceToHave)
}

func TestLocalAnalyzeMissingData(t *testing.T) {
	t.Parallel()

	local := NewLocal(scoring.DefaultWeights)

	tests := []struct {
		name string
		req  Request
	}{
		{name: "no text", req: Request{Keywords: &keywords.Spec{MustHave: []string{"Go"}}}},
		{name: "no keywords", req: Request{ResumeText: "go developer"}},
		{name: "nothing", req: Request{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := local.Analyze(context.Background(), tt.req)
			if !errors.Is(err, ErrMissingData) {
				t.Fatalf("expected ErrMissingData, got %v", err)
			}
		})
	}
}

func TestLocalAnalyzeEmptyLists(t *testing.T) {
	t.Parallel()

	record, err := NewLocal(scoring.DefaultWeights).Analyze(context.Background(), Request{
		ResumeText: "anything",
		Keywords:   &keywords.Spec{},
	})
	require.NoError(t, err)
	assert.Equal(t, scoring.Record{MatchedMustHave: []string{}, MatchedNiceToHave: []string{}}, record)
}

func TestLocalAnalyzeCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocal(scoring.DefaultWeights).Analyze(ctx, scenarioRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func newTestClient(url string, retries int) *Client {
	client := NewClient(url, "secret", time.Second, retries, nil)
	client.Backoff = time.Millisecond
	return client
}

func TestClientAnalyze(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, contentType, r.Header.Get("Content-Type"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Experienced in Python and SQL.", req.ResumeText)

		// numbers as strings are accepted
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		defer gz.Close()
		_, _ = io.WriteString(gz, `{"weightedScore":"6","maxScore":7,"percentage":86,"matchedMustHave":["Python","SQL"],"matchedNiceToHave":null}`)
	}))
	defer srv.Close()

	record, err := newTestClient(srv.URL, 0).Analyze(context.Background(), scenarioRequest())
	require.NoError(t, err)

	assert.Equal(t, 6, record.WeightedScore)
	assert.Equal(t, 7, record.MaxScore)
	assert.Equal(t, 86, record.Percentage)
	assert.Equal(t, []string{"Python", "SQL"}, record.MatchedMustHave)
	assert.Equal(t, []string{}, record.MatchedNiceToHave)
}

func TestClientAnalyzeRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		expect error
	}{
		{name: "missing data", body: `{"error":"Missing data"}`, expect: ErrMissingData},
		{name: "other reason", body: `{"error":"too long"}`, expect: ErrRejected},
		{name: "no body", body: ``, expect: ErrRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL, 2).Analyze(context.Background(), scenarioRequest())
			assert.ErrorIs(t, err, tt.expect)
			assert.False(t, IsRetryable(err))
		})
	}
}

func TestClientAnalyzeValidatesLocally(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 0).Analyze(context.Background(), Request{ResumeText: "text"})
	assert.ErrorIs(t, err, ErrMissingData)
	assert.Zero(t, calls.Load())
}

func TestClientAnalyzeRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"weightedScore":3,"maxScore":3,"percentage":100,"matchedMustHave":["Python"],"matchedNiceToHave":[]}`)
	}))
	defer srv.Close()

	record, err := newTestClient(srv.URL, 2).Analyze(context.Background(), scenarioRequest())
	require.NoError(t, err)
	assert.Equal(t, 100, record.Percentage)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientAnalyzeTransportError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).Analyze(context.Background(), scenarioRequest())
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, int32(2), calls.Load())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, srv.URL, transportErr.Target)
}

func TestClientAnalyzeUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url, 0).Analyze(context.Background(), scenarioRequest())
	assert.True(t, IsRetryable(err))
}

func TestClientAnalyzeInconsistentResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"weightedScore":9,"maxScore":3,"percentage":300}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 0).Analyze(context.Background(), scenarioRequest())
	require.Error(t, err)
	assert.False(t, IsRetryable(err))
}
