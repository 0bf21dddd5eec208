package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"tasklist/internal/service"
)

// Request records one request received by a test server.
type Request struct {
	Method string
	Path   string
	Body   string
}

// Server is an httptest server speaking the /api/tasks REST contract,
// backed by a FakeStore.
type Server struct {
	*httptest.Server
	Store *FakeStore

	mu       sync.Mutex
	requests []Request
}

// NewServer starts a REST task server over store and closes it on test cleanup.
func NewServer(t *testing.T, store *FakeStore) *Server {
	t.Helper()
	s := &Server{Store: store}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tasks", s.handleCollection)
	mux.HandleFunc("/api/tasks/", s.handleTask)
	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.EscapedPath(), Body: string(body)})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tasks, err := s.Store.ListTasks(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tasks)
	case http.MethodPost:
		var in service.NewTask
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Store.CreateTask(r.Context(), in); err != nil {
			writeError(w, err)
			return
		}
		tasks := s.Store.Snapshot()
		writeJSON(w, http.StatusOK, tasks[len(tasks)-1])
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	switch r.Method {
	case http.MethodPut:
		var in service.Task
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		in.ID = id
		if err := s.Store.UpdateTask(r.Context(), in); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, in)
	case http.MethodDelete:
		if err := s.Store.DeleteTask(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
