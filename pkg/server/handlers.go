package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/levelforge/pkg/errors"
	"github.com/matzehuels/levelforge/pkg/grid"
	"github.com/matzehuels/levelforge/pkg/pipeline"
)

// codeInternal is reported for errors that carry no code.
const codeInternal errors.Code = "INTERNAL"

// maxBodyBytes bounds request bodies; a level is a few kilobytes.
const maxBodyBytes = 1 << 20

type levelJSON struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Built  bool   `json:"built"`
}

type gridJSON struct {
	Name  string   `json:"name"`
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Lines []string `json:"lines"`
}

type buildJSON struct {
	Name     string   `json:"name"`
	Cached   bool     `json:"cached"`
	Order    []string `json:"order"`
	Included int      `json:"included"`
}

type errorJSON struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.runner.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]levelJSON, len(entries))
	for i, e := range entries {
		out[i] = levelJSON{Name: e.Name, Symbol: e.Symbol(), Built: e.Built}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.runner.Create(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, levelJSON{Name: rec.Name, Symbol: rec.Symbol()})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rec, err := s.runner.Record(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.runner.Load(r.Context(), rec.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gridJSON{Name: rec.Name, Rows: doc.Rows(), Cols: doc.Cols(), Lines: doc.Lines()})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lines []string `json:"lines"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Lines) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidArgument, "lines must not be empty"))
		return
	}

	doc := grid.FromLines(req.Lines, s.runner.Config.GridOptions()...)
	res, err := s.runner.Save(r.Context(), chi.URLParam(r, "name"), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBuildJSON(res))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.runner.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.Build(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBuildJSON(res))
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidArgument, err, "index must be an integer"))
		return
	}

	var dir int
	switch r.URL.Query().Get("dir") {
	case "up":
		dir = -1
	case "down":
		dir = 1
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidArgument, "dir must be up or down"))
		return
	}

	order, err := s.runner.Reorder(r.Context(), index, dir)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"order": order})
}

func (s *Server) handleRegistry(w http.ResponseWriter, r *http.Request) {
	order, err := s.runner.BuildRegistry(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"order": order})
}

// =============================================================================
// Encoding
// =============================================================================

func toBuildJSON(res *pipeline.BuildResult) buildJSON {
	order := res.Order
	if order == nil {
		order = []string{}
	}
	return buildJSON{Name: res.Name, Cached: res.Cached, Order: order, Included: res.Included}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArgument, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = codeInternal
	}
	status := StatusCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err, "id", RequestID(r.Context()))
	}
	writeJSON(w, status, errorJSON{Code: code, Message: errors.UserMessage(err)})
}

// StatusCode maps an error code to its HTTP status.
func StatusCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidArgument, errors.ErrCodeOutOfRange:
		return http.StatusBadRequest
	case errors.ErrCodeDuplicateName:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
