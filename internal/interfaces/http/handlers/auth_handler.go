package handlers

import (
	"net/http"

	"github.com/turtacn/patent-litigation-graph/internal/application/account"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/auth/token"
	"github.com/turtacn/patent-litigation-graph/internal/interfaces/http/response"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

type AuthHandler struct {
	accounts account.Service
}

func NewAuthHandler(accounts account.Service) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Signup handles POST /api/v1/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in account.SignupInput
	if err := decodeJSON(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}
	res, err := h.accounts.Signup(r.Context(), in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, r, http.StatusCreated, res)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in account.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}
	res, err := h.accounts.Login(r.Context(), in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, res)
}

// Logout handles POST /api/v1/auth/logout. The caller's token stops working
// immediately.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := token.FromContext(r.Context())
	if !ok {
		response.Error(w, r, errors.Unauthorized("not logged in"))
		return
	}
	if err := h.accounts.Logout(r.Context(), claims); err != nil {
		response.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//Personal.AI order the ending
