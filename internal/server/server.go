// Package server exposes the gateway as a JSON HTTP API. Handlers decode the
// request, call the gateway and encode the result; every successful mutation
// triggers the persist hook.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/auth"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/gateway"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/logging"
)

const maxBodyBytes = 4 << 20

var errBadRequest = errors.New("bad request")

type ctxKey struct{}

type Server struct {
	gw       *gateway.Gateway
	secret   []byte
	tokenTTL time.Duration
	persist  func(ctx context.Context) error
	log      logging.Logger
}

// NewServer creates the HTTP layer. persist may be nil.
func NewServer(gw *gateway.Gateway, secret []byte, tokenTTL time.Duration, persist func(ctx context.Context) error, log logging.Logger) *Server {
	return &Server{gw: gw, secret: secret, tokenTTL: tokenTTL, persist: persist, log: log.With("component", "http")}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("POST /register", s.register)
	mux.HandleFunc("POST /login", s.login)

	mux.Handle("POST /logout", s.authenticated(s.logout))
	mux.Handle("GET /me", s.authenticated(s.me))
	mux.Handle("POST /deposit", s.authenticated(s.deposit))
	mux.Handle("POST /withdraw", s.authenticated(s.withdraw))
	mux.Handle("POST /transfer", s.authenticated(s.transfer))
	mux.Handle("POST /pin", s.authenticated(s.changePin))
	mux.Handle("POST /pin/verify", s.authenticated(s.verifyPin))
	mux.Handle("GET /transactions", s.authenticated(s.transactions))
	mux.Handle("GET /statement", s.authenticated(s.statement))

	mux.Handle("GET /admin/customers", s.authenticated(s.adminCustomers))
	mux.Handle("GET /admin/transactions", s.authenticated(s.adminTransactions))
	mux.Handle("GET /admin/stats", s.authenticated(s.adminStats))
	mux.Handle("POST /admin/import", s.authenticated(s.adminImport))
	mux.Handle("GET /admin/export", s.authenticated(s.adminExport))

	return mux
}

// authenticated reads the bearer token and stores the user id in the request
// context. Whether the user is still logged in is checked by the gateway.
func (s *Server) authenticated(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeErr(w, r, common.ErrNoCurrentUser)
			return
		}
		userID, err := auth.GetUserIDFromToken(token, s.secret)
		if err != nil {
			s.writeErr(w, r, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
	})
}

func userIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// persisted runs the persist hook. A failed save is logged; the operation
// itself has already succeeded.
func (s *Server) persisted(r *http.Request) {
	if s.persist == nil {
		return
	}
	if err := s.persist(r.Context()); err != nil {
		s.log.Error(r.Context(), "persist failed", "path", r.URL.Path, "error", err)
	}
}

func (s *Server) issue(w http.ResponseWriter, r *http.Request, code int, p *gateway.Profile) {
	token, err := auth.GenerateToken(p.User.ID, s.secret, s.tokenTTL)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, code, newProfileView(p, token))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
