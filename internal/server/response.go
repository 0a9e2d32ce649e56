package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/gateway"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/snapshot"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error kind to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidAmount),
		errors.Is(err, common.ErrSameAccount),
		errors.Is(err, common.ErrInvalidPinFormat),
		errors.Is(err, common.ErrInvalidDataFile),
		errors.Is(err, common.ErrInvalidDateRange),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrNoCurrentUser),
		errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrIncorrectPin),
		errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrAccountNotFound),
		errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateEmail),
		errors.Is(err, common.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeErr reports err as {"error": "..."}; internal failures are not echoed.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		s.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, code, map[string]string{"error": msg})
}

type userView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type accountView struct {
	AccountNumber string         `json:"accountNumber"`
	Balance       snapshot.Money `json:"balance"`
}

type profileView struct {
	Token   string       `json:"token,omitempty"`
	User    userView     `json:"user"`
	Account *accountView `json:"account,omitempty"`
}

type transactionView struct {
	ID          string         `json:"id"`
	AccountID   string         `json:"accountId"`
	Type        string         `json:"type"`
	Amount      snapshot.Money `json:"amount"`
	Timestamp   time.Time      `json:"timestamp"`
	Description string         `json:"description"`
}

func newUserView(u models.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

func newAccountView(a *models.Account) *accountView {
	if a == nil {
		return nil
	}
	return &accountView{AccountNumber: a.Number, Balance: snapshot.Money{Decimal: a.Balance}}
}

func newProfileView(p *gateway.Profile, token string) profileView {
	return profileView{Token: token, User: newUserView(p.User), Account: newAccountView(p.Account)}
}

func newTransactionView(t models.Transaction) transactionView {
	return transactionView{
		ID:          t.ID,
		AccountID:   t.AccountNumber,
		Type:        string(t.Type),
		Amount:      snapshot.Money{Decimal: t.Amount},
		Timestamp:   t.Timestamp,
		Description: t.Description,
	}
}

func newTransactionViews(recs []models.Transaction) []transactionView {
	out := make([]transactionView, 0, len(recs))
	for _, r := range recs {
		out = append(out, newTransactionView(r))
	}
	return out
}
