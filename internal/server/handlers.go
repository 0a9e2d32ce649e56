package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/snapshot"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/statement"
	"github.com/shopspring/decimal"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Pin      string `json:"pin"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		s.writeErr(w, r, fmt.Errorf("%w: name, email and password are required", errBadRequest))
		return
	}

	p, err := s.gw.Register(r.Context(), req.Name, req.Email, req.Password, req.Pin)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.persisted(r)
	s.issue(w, r, http.StatusCreated, p)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}

	p, err := s.gw.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.issue(w, r, http.StatusOK, p)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.gw.Logout(r.Context(), userIDFrom(r)); err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	p, err := s.gw.ResolveCurrentUser(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileView(p, ""))
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}

	tx, err := s.gw.Deposit(r.Context(), userIDFrom(r), req.Amount)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.persisted(r)
	writeJSON(w, http.StatusOK, newTransactionView(*tx))
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
		Pin    string          `json:"pin"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}

	tx, err := s.gw.Withdraw(r.Context(), userIDFrom(r), req.Pin, req.Amount)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.persisted(r)
	writeJSON(w, http.StatusOK, newTransactionView(*tx))
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To     string          `json:"to"`
		Amount decimal.Decimal `json:"amount"`
		Pin    string          `json:"pin"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}

	tx, err := s.gw.Transfer(r.Context(), userIDFrom(r), req.Pin, req.To, req.Amount)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.persisted(r)
	writeJSON(w, http.StatusOK, newTransactionView(*tx))
}

func (s *Server) changePin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPin string `json:"oldPin"`
		NewPin string `json:"newPin"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}

	if err := s.gw.ChangePin(r.Context(), userIDFrom(r), req.OldPin, req.NewPin); err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.persisted(r)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) verifyPin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pin string `json:"pin"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}

	ok, err := s.gw.VerifyPin(r.Context(), userIDFrom(r), req.Pin)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": ok})
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	recs, err := s.gw.History(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionViews(recs))
}

// statement serves GET /statement?from=YYYY-MM-DD&to=YYYY-MM-DD&format=text|csv
// as a download.
func (s *Server) statement(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := statement.ParseRange(q.Get("from"), q.Get("to"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	render, ext, contentType := statement.RenderText, "txt", "text/plain; charset=utf-8"
	switch q.Get("format") {
	case "", "text":
	case "csv":
		render, ext, contentType = statement.RenderCSV, "csv", "text/csv"
	default:
		s.writeErr(w, r, fmt.Errorf("%w: unknown format %q", errBadRequest, q.Get("format")))
		return
	}

	st, err := s.gw.Statement(r.Context(), userIDFrom(r), from, to)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, st); err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, st.FileName(), ext))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type customerView struct {
	userView
	Account *accountView `json:"account,omitempty"`
}

func (s *Server) adminCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.gw.Customers(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	out := make([]customerView, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerView{userView: newUserView(c.User), Account: newAccountView(c.Account)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) adminTransactions(w http.ResponseWriter, r *http.Request) {
	recs, err := s.gw.AllTransactions(r.Context(), userIDFrom(r), r.URL.Query().Get("q"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionViews(recs))
}

func (s *Server) adminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.gw.Stats(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"customers":    stats.Customers,
		"totalBalance": snapshot.Money{Decimal: stats.TotalBalance},
		"transactions": stats.Count,
		"inflow":       snapshot.Money{Decimal: stats.Inflow},
		"outflow":      snapshot.Money{Decimal: stats.Outflow},
	})
}

func (s *Server) adminImport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(http.MaxBytesReader(w, r.Body, maxBodyBytes)); err != nil {
		s.writeErr(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	if err := s.gw.ImportData(r.Context(), userIDFrom(r), buf.Bytes()); err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.persisted(r)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminExport(w http.ResponseWriter, r *http.Request) {
	raw, err := s.gw.ExportData(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="data.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
