package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/NoBugNinja/Skill-Sync/internal/analyzer"
	"github.com/NoBugNinja/Skill-Sync/internal/keywords"
	"github.com/NoBugNinja/Skill-Sync/internal/logger"
	"github.com/NoBugNinja/Skill-Sync/internal/metrics"
	"github.com/NoBugNinja/Skill-Sync/internal/report"
	"github.com/NoBugNinja/Skill-Sync/internal/screening"
)

const (
	// missingDataMessage is the error body of a request without text or keywords.
	missingDataMessage = "Missing data"

	errNoDocuments = "please upload at least one resume"
)

type errorResponse struct {
	Error string `json:"error"`
}

type screenDocument struct {
	FileName string `json:"fileName"`
	RawText  string `json:"rawText"`
	Error    string `json:"error,omitempty"`
}

type screenRequest struct {
	Keywords  keywords.Spec    `json:"keywords"`
	Documents []screenDocument `json:"documents"`
}

type screenResponse struct {
	RunID     string                          `json:"runId"`
	Results   []screening.Result              `json:"results"`
	Summary   *screening.Summary              `json:"summary,omitempty"`
	Charts    *report.Charts                  `json:"charts,omitempty"`
	Retryable []string                        `json:"retryable"`
	Missing   map[string]report.MissingSkills `json:"missing"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req analyzer.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	record, err := s.analyzer.Analyze(r.Context(), req)
	metrics.ObserveAnalyze(err)
	if err != nil {
		log.Warn("analyze failed", zap.Error(err))
		writeAnalyzeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func writeAnalyzeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analyzer.ErrMissingData):
		writeError(w, http.StatusBadRequest, missingDataMessage)
	case errors.Is(err, analyzer.ErrRejected):
		writeError(w, http.StatusBadRequest, err.Error())
	case analyzer.IsRetryable(err):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	spec, docs, err := s.decodeScreen(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := spec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(docs) == 0 {
		writeError(w, http.StatusBadRequest, errNoDocuments)
		return
	}

	ctx := logger.ContextWithFields(r.Context(), zap.Int("uploaded", len(docs)))
	log := logger.FromContext(ctx)

	opts := append([]screening.Option{screening.WithLogger(log)}, s.runnerOpts...)
	batch, err := screening.NewRunner(s.analyzer, spec, opts...).Run(ctx, docs)
	if err != nil {
		log.Warn("screening aborted", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "screening aborted")
		return
	}

	metrics.ObserveBatch(batch)

	missing := make(map[string]report.MissingSkills, len(batch.Results))
	for _, res := range batch.Successes() {
		missing[res.FileName] = report.Missing(batch.Keywords, *res.Record)
	}

	writeJSON(w, http.StatusOK, screenResponse{
		RunID:     batch.RunID,
		Results:   batch.Results,
		Summary:   batch.Summary,
		Charts:    report.RenderCharts(nil, batch.Summary),
		Retryable: batch.Retryable(),
		Missing:   missing,
	})
}

// decodeScreen reads either a JSON body or a multipart upload.
func (s *Server) decodeScreen(r *http.Request) (keywords.Spec, []screening.Document, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && mediaType == "multipart/form-data" {
		return s.decodeMultipart(r)
	}

	var req screenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return keywords.Spec{}, nil, errors.New("invalid JSON body")
	}

	docs := make([]screening.Document, 0, len(req.Documents))
	for _, d := range req.Documents {
		doc := screening.Document{FileName: d.FileName, RawText: d.RawText}
		if d.Error != "" {
			doc.Err = errors.New(d.Error)
		}
		docs = append(docs, doc)
	}

	return req.Keywords.Clean(), docs, nil
}

func (s *Server) decodeMultipart(r *http.Request) (keywords.Spec, []screening.Document, error) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		return keywords.Spec{}, nil, fmt.Errorf("invalid multipart body: %w", err)
	}

	spec := keywords.Spec{
		MustHave:   keywords.Parse(r.FormValue("mustHave")),
		NiceToHave: keywords.Parse(r.FormValue("niceToHave")),
	}

	files := r.MultipartForm.File["files"]
	docs := make([]screening.Document, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			docs = append(docs, screening.Document{FileName: header.Filename, Err: err})
			continue
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			docs = append(docs, screening.Document{FileName: header.Filename, Err: err})
			continue
		}

		docs = append(docs, s.extractor.FromBytes(header.Filename, data))
	}

	return spec, docs, nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: strings.TrimSpace(msg)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
