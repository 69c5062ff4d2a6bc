package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/matzehuels/gridpack/pkg/buildinfo"
	"github.com/matzehuels/gridpack/pkg/cache"
	"github.com/matzehuels/gridpack/pkg/errors"
	"github.com/matzehuels/gridpack/pkg/grid"
	gridio "github.com/matzehuels/gridpack/pkg/io"
	"github.com/matzehuels/gridpack/pkg/pipeline"
)

// =============================================================================
// Request / Response Types
// =============================================================================

type layoutRequest struct {
	Grid    *gridio.GridSpec           `json:"grid,omitempty"`
	Widgets []grid.Widget              `json:"widgets"`
	Layouts map[int][]grid.LayoutEntry `json:"layouts,omitempty"`
}

type columnsRequest struct {
	layoutRequest
	To       int    `json:"to"`
	Mode     string `json:"mode,omitempty"`
	DOMOrder bool   `json:"domOrder,omitempty"`
}

type addRequest struct {
	layoutRequest
	Widget *grid.Widget `json:"widget"`
}

type moveRequest struct {
	layoutRequest
	ID string    `json:"id"`
	To grid.Rect `json:"to"`
}

type checkResponse struct {
	*pipeline.Result
	Valid bool `json:"valid"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// options merges the request's grid over the server defaults.
func (s *Server) options(req layoutRequest) pipeline.Options {
	opts := s.defaults
	if g := req.Grid; g != nil {
		if g.Column != 0 {
			opts.Column = g.Column
		}
		if g.MaxRow != 0 {
			opts.MaxRow = g.MaxRow
		}
		if g.Float != nil {
			opts.Float = *g.Float
		}
	}
	opts.Layouts = req.Layouts
	return opts
}

// runnerFor scopes the cache to the request's namespace, if any.
func (s *Server) runnerFor(r *http.Request) (*pipeline.Runner, error) {
	ns := r.Header.Get(NamespaceHeader)
	if ns == "" {
		return s.runner, nil
	}
	if len(ns) > 64 || strings.IndexFunc(ns, func(c rune) bool {
		return unicode.IsControl(c) || unicode.IsSpace(c) || c == ':'
	}) >= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid namespace %q", ns)
	}
	return s.runner.WithKeyer(cache.NewScopedKeyer(s.runner.Keyer, "ns:"+ns+":")), nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Get().Version,
	})
}

func (s *Server) compact(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	runner, err := s.runnerFor(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := runner.Compact(r.Context(), req.Widgets, s.options(req))
	s.respond(w, res, err)
}

func (s *Server) columns(w http.ResponseWriter, r *http.Request) {
	var req columnsRequest
	if !s.decode(w, r, &req) {
		return
	}
	runner, err := s.runnerFor(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := runner.Columns(r.Context(), req.Widgets, s.options(req.layoutRequest), pipeline.ColumnsOptions{
		To:       req.To,
		Mode:     req.Mode,
		DOMOrder: req.DOMOrder,
	})
	s.respond(w, res, err)
}

// check answers 200 for every well-formed request; violations are part of
// the body, not an error.
func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.runner.Check(r.Context(), req.Widgets, s.options(req))
	if res == nil {
		s.fail(w, err)
		return
	}
	if res.Violations == nil {
		res.Violations = []grid.Violation{}
	}
	writeJSON(w, http.StatusOK, checkResponse{Result: res, Valid: len(res.Violations) == 0})
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Widget == nil {
		s.fail(w, errors.New(errors.ErrCodeInvalidInput, "missing widget"))
		return
	}
	runner, err := s.runnerFor(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := runner.Add(r.Context(), req.Widgets, s.options(req.layoutRequest), *req.Widget)
	s.respond(w, res, err)
}

func (s *Server) move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		s.fail(w, errors.New(errors.ErrCodeInvalidInput, "missing widget id"))
		return
	}
	runner, err := s.runnerFor(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := runner.Move(r.Context(), req.Widgets, s.options(req.layoutRequest), req.ID, req.To)
	s.respond(w, res, err)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidInput), "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, res *pipeline.Result, err error) {
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" || status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		if code == "" {
			code = errors.ErrCodeInternal
			msg = "internal error"
		}
	}
	writeError(w, status, string(code), msg)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
