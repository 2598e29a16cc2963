// Package apitest provides an in-memory stand-in for the finance manager
// API, for tests of code that talks to it over HTTP.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/Dan9191/finance-client/internal/models"
)

// Route names accepted by FailNext
const (
	RouteList   = "list"
	RouteCreate = "create"
	RouteGet    = "get"
	RouteUpdate = "update"
	RouteDelete = "delete"
)

// Request is one recorded call
type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

type failure struct {
	status int
	count  int
}

// Server is a fake API backed by a slice kept in insertion order
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	nextID       int64
	transactions map[string][]models.Transaction
	requests     []Request
	failures     map[string]*failure
}

// NewServer starts a fake API. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		nextID:       1,
		transactions: make(map[string][]models.Transaction),
		failures:     make(map[string]*failure),
	}

	r := mux.NewRouter()
	r.HandleFunc("/users/{userID}/transactions", s.wrap(RouteList, s.listTransactions)).Methods("GET")
	r.HandleFunc("/users/{userID}/transactions", s.wrap(RouteCreate, s.createTransaction)).Methods("POST")
	r.HandleFunc("/transactions/{transactionID}", s.wrap(RouteGet, s.getTransaction)).Methods("GET")
	r.HandleFunc("/transactions/{transactionID}", s.wrap(RouteUpdate, s.updateTransaction)).Methods("PUT")
	r.HandleFunc("/transactions/{transactionID}", s.wrap(RouteDelete, s.deleteTransaction)).Methods("DELETE")

	s.Server = httptest.NewServer(r)
	return s
}

// Seed stores transactions for a user as-is, in order. Seeded IDs are kept.
func (s *Server) Seed(userID string, transactions ...models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range transactions {
		if n, err := strconv.ParseInt(t.ID.String(), 10, 64); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
		s.transactions[userID] = append(s.transactions[userID], t)
	}
}

// FailNext makes the next count requests of a route answer with status
func (s *Server) FailNext(route string, status, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = &failure{status: status, count: count}
}

// Requests returns the recorded calls in arrival order
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many recorded calls match method and path
func (s *Server) Count(method, path string) int {
	n := 0
	for _, req := range s.Requests() {
		if req.Method == method && req.Path == path {
			n++
		}
	}
	return n
}

// ResetRequests clears the request log
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// wrap records the request and applies any pending injected failure
func (s *Server) wrap(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := Request{Method: r.Method, Path: r.URL.Path}
		if r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			r.Body.Close()
			if len(raw) > 0 {
				_ = json.Unmarshal(raw, &rec.Body)
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		f := s.failures[route]
		fail := f != nil && f.count > 0
		if fail {
			f.count--
		}
		s.mu.Unlock()

		if fail {
			respondError(w, f.status, "injected failure")
			return
		}
		next(w, r)
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	s.mu.Lock()
	out := append([]models.Transaction{}, s.transactions[userID]...)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	var req models.TransactionCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	s.mu.Lock()
	t := models.Transaction{
		ID:          models.TransactionID(strconv.FormatInt(s.nextID, 10)),
		Category:    req.Category,
		Description: req.Description,
		Type:        req.Type,
	}
	if req.Amount != nil {
		t.Amount = *req.Amount
	}
	if uid, err := strconv.ParseInt(userID, 10, 64); err == nil {
		t.UserID = uid
	}
	s.nextID++
	s.transactions[userID] = append(s.transactions[userID], t)
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, t)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["transactionID"]
	s.mu.Lock()
	userID, idx := s.find(id)
	var t models.Transaction
	if idx >= 0 {
		t = s.transactions[userID][idx]
	}
	s.mu.Unlock()

	if idx < 0 {
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["transactionID"]
	var req models.TransactionCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	s.mu.Lock()
	userID, idx := s.find(id)
	if idx < 0 {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	t := &s.transactions[userID][idx]
	t.Category = req.Category
	t.Description = req.Description
	t.Type = req.Type
	if req.Amount != nil {
		t.Amount = *req.Amount
	}
	updated := *t
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["transactionID"]
	s.mu.Lock()
	userID, idx := s.find(id)
	if idx >= 0 {
		list := s.transactions[userID]
		s.transactions[userID] = append(list[:idx:idx], list[idx+1:]...)
	}
	s.mu.Unlock()

	if idx < 0 {
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}

// find locates a transaction across users; the caller holds s.mu
func (s *Server) find(id string) (string, int) {
	for userID, list := range s.transactions {
		for i, t := range list {
			if t.ID.String() == id {
				return userID, i
			}
		}
	}
	return "", -1
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
