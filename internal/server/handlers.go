package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/leapprose/pkg/core"
	"github.com/leapstack-labs/leapprose/pkg/host"
	"github.com/leapstack-labs/leapprose/pkg/lint"
)

// maxBatchBody caps batch request bodies regardless of the text limits.
const maxBatchBody = 256 << 20

// LintRequest is the body of POST /lint and POST /lint/count.
// Config, when present, replaces the server configuration for this request.
type LintRequest struct {
	Text   string         `json:"text"`
	Config map[string]any `json:"config,omitempty"`
}

// BatchRequest is the body of POST /lint/batch.
type BatchRequest struct {
	Texts  json.RawMessage `json:"texts"`
	Config map[string]any  `json:"config,omitempty"`
}

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Version    string `json:"version"`
	Checks     int    `json:"checks"`
	Active     int    `json:"active"`
	Generation uint64 `json:"generation"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	eng := s.Engine()
	writeJSON(w, http.StatusOK, VersionResponse{
		Version:    eng.Version(),
		Checks:     eng.Registry().Len(),
		Active:     eng.Active().Len(),
		Generation: s.Generation(),
	})
}

// handleChecks lists check metadata, optionally filtered by ?category=.
// ?active=true keeps only checks enabled by the current configuration.
func (s *Server) handleChecks(w http.ResponseWriter, r *http.Request) {
	eng := s.Engine()
	category := r.URL.Query().Get("category")
	activeOnly := r.URL.Query().Get("active") == "true"

	infos := make([]core.CheckInfo, 0, eng.Registry().Len())
	for _, info := range eng.Checks() {
		if category != "" && info.Category != category {
			continue
		}
		if activeOnly && !eng.Active().Contains(info.ID) {
			continue
		}
		infos = append(infos, info)
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, ok := s.Engine().Registry().Find(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown check %q", id))
		return
	}
	writeJSON(w, http.StatusOK, c.Info())
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	req, eng, ok := s.decodeLint(w, r)
	if !ok {
		return
	}
	findings, err := eng.Lint(req.Text)
	if err != nil {
		writeLintError(w, err)
		return
	}
	s.metrics.observeFindings(1, findings)
	writeJSON(w, http.StatusOK, findings)
}

func (s *Server) handleLintCount(w http.ResponseWriter, r *http.Request) {
	req, eng, ok := s.decodeLint(w, r)
	if !ok {
		return
	}
	findings, err := eng.Lint(req.Text)
	if err != nil {
		writeLintError(w, err)
		return
	}
	s.metrics.observeFindings(1, findings)
	writeJSON(w, http.StatusOK, map[string]int{"count": len(findings)})
}

func (s *Server) handleLintBatch(w http.ResponseWriter, r *http.Request) {
	base := s.Engine()
	limits := base.Limits()
	r.Body = http.MaxBytesReader(w, r.Body, batchBodyLimit(limits))

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	texts, err := lint.ParseBatch(req.Texts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	eng, err := s.engineFor(base, req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	items, err := eng.LintBatchConcurrent(r.Context(), texts, s.cfg.Concurrency)
	if err != nil {
		writeLintError(w, err)
		return
	}
	for _, item := range items {
		if item.Err == nil {
			s.metrics.observeFindings(1, item.Findings)
		}
	}
	writeJSON(w, http.StatusOK, host.BatchResults(items))
}

func (s *Server) handleWarm(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"compiled": s.Engine().WarmAll()})
}

// handleEvents streams reload events as server-sent events until the
// client disconnects or the server shuts down.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}

	ch := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			data, _ := json.Marshal(ev)
			_, _ = fmt.Fprintf(w, "event: reload\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// decodeLint reads a lint request: a JSON LintRequest, or the raw text
// when the content type is text/plain.
func (s *Server) decodeLint(w http.ResponseWriter, r *http.Request) (LintRequest, *lint.Engine, bool) {
	base := s.Engine()
	r.Body = http.MaxBytesReader(w, r.Body, textBodyLimit(base.Limits()))

	var req LintRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/plain") {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			writeDecodeError(w, err)
			return req, nil, false
		}
		req.Text = string(data)
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return req, nil, false
	}

	eng, err := s.engineFor(base, req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return req, nil, false
	}
	return req, eng, true
}

// engineFor returns base, or an engine over the same registry and matcher
// cache configured by raw.
func (s *Server) engineFor(base *lint.Engine, raw map[string]any) (*lint.Engine, error) {
	if raw == nil {
		return base, nil
	}
	cfg, err := lint.ConfigFromMap(raw)
	if err != nil {
		return nil, err
	}
	return lint.NewEngine(base.Registry(),
		lint.WithConfig(cfg),
		lint.WithLimits(base.Limits()),
		lint.WithCache(base.Cache()),
		lint.WithLogger(s.logger),
	), nil
}

// textBodyLimit allows for JSON escaping of a text at the size limit.
func textBodyLimit(l lint.Limits) int64 {
	return 2*int64(l.MaxTextBytes) + 64<<10
}

func batchBodyLimit(l lint.Limits) int64 {
	return min(textBodyLimit(l)*int64(l.MaxBatchItems), maxBatchBody)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, host.ErrorBody{Error: err.Error()})
}

// writeLintError maps engine errors to status codes.
func writeLintError(w http.ResponseWriter, err error) {
	var limitErr *lint.LimitError
	switch {
	case errors.As(err, &limitErr):
		writeError(w, http.StatusRequestEntityTooLarge, err)
	case errors.Is(err, lint.ErrMalformedInput):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit))
		return
	}
	writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", lint.ErrMalformedInput, err))
}
