// Package storetest provides an in-memory /profileDetails server for tests.
package storetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stemsi/profile-directory/internal/model"
)

// Token is the only bearer token the server accepts.
const Token = "valid-token"

// Server is a fake profile store.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	profiles []model.Profile
	nextID   int
	requests atomic.Int32
	lastAuth atomic.Value
}

// New starts a Server seeded with profiles and closes it on test cleanup.
func New(t testing.TB, profiles ...model.Profile) *Server {
	t.Helper()
	s := &Server{profiles: append([]model.Profile(nil), profiles...), nextID: len(profiles) + 1}
	s.lastAuth.Store("")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /profileDetails", s.list)
	mux.HandleFunc("GET /profileDetails/{id}", s.get)
	mux.HandleFunc("POST /profileDetails", s.authed(s.create))
	mux.HandleFunc("PUT /profileDetails/{id}", s.authed(s.update))
	mux.HandleFunc("DELETE /profileDetails/{id}", s.authed(s.delete))

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		s.lastAuth.Store(r.Header.Get("Authorization"))
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// Requests returns how many requests reached the server.
func (s *Server) Requests() int { return int(s.requests.Load()) }

// LastAuth returns the Authorization header of the latest request.
func (s *Server) LastAuth() string { return s.lastAuth.Load().(string) }

// Profiles returns a copy of the stored profiles.
func (s *Server) Profiles() []model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Profile(nil), s.profiles...)
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Profiles())
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(r.PathValue("id")); i >= 0 {
		writeJSON(w, http.StatusOK, s.profiles[i])
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var in model.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := profileFrom(model.ProfileID(strconv.Itoa(s.nextID)), in)
	s.nextID++
	s.profiles = append(s.profiles, p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var in model.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(r.PathValue("id"))
	if i < 0 {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	s.profiles[i] = profileFrom(s.profiles[i].ID, in)
	writeJSON(w, http.StatusOK, s.profiles[i])
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(r.PathValue("id"))
	if i < 0 {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	s.profiles = append(s.profiles[:i], s.profiles[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) index(id string) int {
	for i, p := range s.profiles {
		if string(p.ID) == id {
			return i
		}
	}
	return -1
}

func profileFrom(id model.ProfileID, in model.ProfileInput) model.Profile {
	return model.Profile{
		ID:          id,
		Name:        in.Name,
		Avatar:      in.Avatar,
		Description: in.Description,
		Location:    in.Location,
		Email:       in.Email,
		Phone:       in.Phone,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ValidInput returns a ProfileInput that passes validation.
func ValidInput() model.ProfileInput {
	return model.ProfileInput{
		Name:        "Jane Roe",
		Avatar:      "https://cdn.example.com/jane.png",
		Description: "Surveyor",
		Location:    "Porto",
		Email:       "jane@example.com",
		Phone:       "+351 555 0102",
	}
}
