package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/billtab/internal/ledger"
	"github.com/mmynk/billtab/internal/middleware"
	"github.com/mmynk/billtab/internal/models"
)

// handleLogin authenticates a username/credential pair and returns the
// matched user plus a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		failMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.ledger.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		failError(w, err)
		return
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		failError(w, err)
		return
	}

	okEnvelope(w, map[string]any{
		"username": user.Username,
		"is_admin": user.IsAdmin,
		"token":    token,
	})
}

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := s.decode(r, &req); err != nil {
		failMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.ledger.AddUser(r.Context(), req.Admin, req.Username, req.Password); err != nil {
		failError(w, err)
		return
	}
	okEnvelope(w, nil)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	var req deleteUserRequest
	if err := s.decode(r, &req); err != nil {
		failMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.ledger.DeleteUser(r.Context(), req.Admin, req.Username); err != nil {
		failError(w, err)
		return
	}
	okEnvelope(w, nil)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.ledger.ListUsers(r.Context())
	if err != nil {
		failError(w, err)
		return
	}
	if users == nil {
		users = []string{}
	}
	okEnvelope(w, map[string]any{"users": users})
}

// handleListBills returns the bills visible to the requesting user. The
// username comes from the query parameter, falling back to the session
// token; with neither, all bills are returned.
func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		username = middleware.GetUsername(r.Context())
	}

	bills, err := s.ledger.ListBills(r.Context(), username)
	if err != nil {
		failError(w, err)
		return
	}
	if bills == nil {
		bills = []models.Bill{} // keep "bills": [] instead of null
	}
	okEnvelope(w, map[string]any{"bills": bills})
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req createBillRequest
	if err := s.decode(r, &req); err != nil {
		failMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		failMessage(w, http.StatusBadRequest, "invalid amount")
		return
	}

	billID, err := s.ledger.CreateBill(r.Context(), ledger.CreateBillInput{
		Creator:      req.Creator,
		Amount:       amount,
		Date:         req.Date,
		Description:  req.Description,
		Participants: req.Participants,
		Discount:     req.Discount,
	})
	if err != nil {
		failError(w, err)
		return
	}
	okEnvelope(w, map[string]any{"bill_id": billID})
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	bill, err := s.ledger.GetBill(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		failError(w, err)
		return
	}
	okEnvelope(w, map[string]any{"bill": bill})
}

// handlePayShare marks the caller's share of a bill paid. The username comes
// from the request body, falling back to the session token.
func (s *Server) handlePayShare(w http.ResponseWriter, r *http.Request) {
	var req payShareRequest
	if err := s.decode(r, &req); err != nil {
		failMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	username := req.Username
	if username == "" {
		username = middleware.GetUsername(r.Context())
	}
	if username == "" {
		failMessage(w, http.StatusBadRequest, "username required")
		return
	}

	if err := s.ledger.PayShare(r.Context(), mux.Vars(r)["id"], username); err != nil {
		failError(w, err)
		return
	}
	okEnvelope(w, nil)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	var req deleteBillRequest
	if err := s.decode(r, &req); err != nil {
		failMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.ledger.DeleteBill(r.Context(), req.Admin, req.BillID); err != nil {
		failError(w, err)
		return
	}
	okEnvelope(w, nil)
}
