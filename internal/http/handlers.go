package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"tracker/internal/core"
	"tracker/internal/export"
	applog "tracker/internal/log"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	f, err := decodeFields(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.svc.Create(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	f, err := decodeFields(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// Body validation comes first: a malformed record is a 400 whatever the id.
	if err := f.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, core.ErrNotFound)
		return
	}
	e, err := s.svc.Update(r.Context(), id, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, core.ErrNotFound)
		return
	}
	deleted, err := s.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": deleted})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.Export(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+export.Filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).
		WarnContext(r.Context(), "Rate limit exceeded", applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "Rate limit exceeded"})
}

// pathID parses the {id} segment. ok is false for anything that is not a
// base-10 integer, which callers treat as an id with no match.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// decodeFields reads the JSON record body. An empty body decodes to empty
// fields so that it fails validation rather than parsing.
func decodeFields(r *http.Request) (core.Fields, error) {
	var f core.Fields
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return core.Fields{}, nil
		}
		return core.Fields{}, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	return f, nil
}
