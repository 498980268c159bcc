package handlers

import (
	"encoding/json"
	"net/http"

	"swamp-ledger/internal/engine/actors"
	"swamp-ledger/internal/models"
	"swamp-ledger/internal/utils"
)

// RegisterAccountRequest represents a request to create a host account
type RegisterAccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token the caller uses from then on
type LoginResponse struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
}

// HandleRegister handles account registration
func (s *Server) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req RegisterAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, appErr := s.request(s.Engine.GetAccountActor(), &actors.RegisterAccountMsg{
			Username: req.Username,
			Password: req.Password,
		})
		if appErr != nil {
			writeAppError(w, appErr)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// HandleLogin handles credential checks and issues the JWT that carries
// caller identity into every later call
func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, appErr := s.request(s.Engine.GetAccountActor(), &actors.LoginMsg{
			Username: req.Username,
			Password: req.Password,
		})
		if appErr != nil {
			writeAppError(w, appErr)
			return
		}

		account := result.(*models.Account)
		token, err := s.Auth.GenerateToken(account.ID)
		if err != nil {
			writeAppError(w, utils.NewAppError(utils.ErrStore, "failed to issue token", err))
			return
		}

		writeJSON(w, http.StatusOK, &LoginResponse{Token: token, Account: account})
	}
}
