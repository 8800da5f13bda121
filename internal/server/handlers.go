package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/jeffcaradona/data-contract-library/pkg/contract"
	"github.com/jeffcaradona/data-contract-library/pkg/respond"
)

const maxEchoBodyBytes int64 = 1 << 20 // 1 MiB

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.applyCORS(w, r) {
		return
	}
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleEcho wraps whatever JSON the client posts in a small contract. A
// primitive body (a bare number or string) survives decoding but fails
// contract validation, which is exactly the 400 the client should see.
func (s *Server) handleEcho(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxEchoBodyBytes)
	var payload any
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&payload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "request body is not valid JSON", http.StatusBadRequest)
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		http.Error(w, "request body must be a single JSON value", http.StatusBadRequest)
		return
	}
	_ = s.dispatcher.Dispatch(w, r, contract.Small(payload))
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	page, ok := queryInt(r, "page", 1)
	if !ok {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	pageSize, ok := queryInt(r, "pageSize", 20)
	if !ok {
		http.Error(w, "invalid pageSize", http.StatusBadRequest)
		return
	}
	if pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}
	items := s.dataset.Page(page, pageSize)
	_ = s.dispatcher.Dispatch(w, r, contract.Paginated(items, page, pageSize, s.dataset.Total()))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c := contract.Streamed(s.dataset.StreamCSV(), "items.csv", contract.WithContentType("text/csv"))
	if err := s.dispatcher.Dispatch(w, r, c); err != nil {
		var serr *respond.StreamError
		if errors.As(err, &serr) {
			// Headers are already out; the only honest signal left is a
			// torn connection.
			panic(http.ErrAbortHandler)
		}
	}
}

func queryInt(r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}
