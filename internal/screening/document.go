package screening

import (
	"encoding/json"
	"errors"

	"github.com/NoBugNinja/Skill-Sync/internal/scoring"
)

// ErrNoText is reported for documents that carry no text to score.
var ErrNoText = errors.New("no text could be extracted")

// Document is one extracted résumé. Err is set when extraction failed.
type Document struct {
	FileName string `json:"fileName"`
	RawText  string `json:"rawText"`
	Err      error  `json:"-"`
}

// Result is the outcome for one document: either a score record or an error.
type Result struct {
	FileName string
	RawText  string
	// Record is nil for failures.
	Record *scoring.Record
	// Err is nil for successes.
	Err error
	// Retryable marks failures caused by an unreachable analyzer.
	Retryable bool
}

// NewSuccess returns a successful result.
func NewSuccess(fileName, rawText string, record scoring.Record) Result {
	return Result{FileName: fileName, RawText: rawText, Record: &record}
}

// NewFailure returns a failed result.
func NewFailure(fileName string, err error, retryable bool) Result {
	if err == nil {
		err = errors.New("unknown error")
	}
	return Result{FileName: fileName, Err: err, Retryable: retryable}
}

// Success reports whether the result carries a score record.
func (r Result) Success() bool {
	return r.Err == nil && r.Record != nil
}

// Score is the weighted score used for ranking. Failures rank as 0.
func (r Result) Score() int {
	if !r.Success() {
		return 0
	}
	return r.Record.WeightedScore
}

// Percentage is the match percentage, 0 for failures.
func (r Result) Percentage() int {
	if !r.Success() {
		return 0
	}
	return r.Record.Percentage
}

type successJSON struct {
	FileName string `json:"fileName"`
	RawText  string `json:"rawText,omitempty"`
	scoring.Record
}

type failureJSON struct {
	FileName  string `json:"fileName"`
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// MarshalJSON emits either the flattened score record or the error, never both.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Success() {
		return json.Marshal(successJSON{FileName: r.FileName, RawText: r.RawText, Record: *r.Record})
	}

	msg := "unknown error"
	if r.Err != nil {
		msg = r.Err.Error()
	}
	return json.Marshal(failureJSON{FileName: r.FileName, Error: msg, Retryable: r.Retryable})
}
