package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/witcharon/salesconnfig/internal/engine/directory"
	"github.com/witcharon/salesconnfig/internal/pkg/httperr"
	"github.com/witcharon/salesconnfig/internal/pkg/validator"
	"github.com/witcharon/salesconnfig/internal/platform/identity"
	"github.com/witcharon/salesconnfig/internal/platform/models"
	"github.com/witcharon/salesconnfig/internal/platform/repositories"
)

type UserHandler struct {
	directory *directory.Service
	idClient  *identity.Client
	userRepo  *repositories.UserRepository
	subRepo   *repositories.SubscriptionRepository
}

func NewUserHandler(dir *directory.Service, idClient *identity.Client, userRepo *repositories.UserRepository, subRepo *repositories.SubscriptionRepository) *UserHandler {
	return &UserHandler{
		directory: dir,
		idClient:  idClient,
		userRepo:  userRepo,
		subRepo:   subRepo,
	}
}

type ListResponse struct {
	Data []models.AccountView `json:"data"`
}

// List returns the composite view of every user joined with their
// subscription and lead-gen usage.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	views := h.directory.Snapshot(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Data: views})
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateUserResponse struct {
	Success bool                `json:"success"`
	User    *identity.Principal `json:"user"`
}

// Create provisions an identity-provider account (email pre-confirmed)
// and its default subscription row. The two writes live in different
// systems, so there is no shared transaction; if the subscription
// insert fails the identity is deleted again and the caller gets an
// error instead of a half-initialized account.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}

	if req.Email == "" || req.Password == "" {
		httperr.Write(w, http.StatusBadRequest, "E-posta ve şifre gereklidir")
		return
	}

	if err := validator.Email(req.Email); err != nil {
		httperr.Write(w, http.StatusBadRequest, err.Error())
		return
	}

	principal, err := h.idClient.AdminCreateUser(r.Context(), req.Email, req.Password, true)
	if err != nil {
		var provErr *identity.Error
		if errors.As(err, &provErr) {
			log.Error().Err(err).Str("email", req.Email).Msg("identity creation rejected")
			httperr.Write(w, http.StatusBadRequest, provErr.Message)
			return
		}
		log.Error().Err(err).Msg("identity creation request failed")
		httperr.Write(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.subRepo.InsertDefault(principal.ID); err != nil {
		log.Error().Err(err).Str("user_id", principal.ID).Msg("default subscription insert failed, rolling back identity")

		if delErr := h.idClient.AdminDeleteUser(r.Context(), principal.ID); delErr != nil {
			// Compensation failed too: the account exists without a
			// subscription. Loud log, caller still gets an error.
			log.Error().Err(delErr).Str("user_id", principal.ID).Msg("identity rollback failed, account left without subscription")
		}

		httperr.Write(w, http.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CreateUserResponse{Success: true, User: principal})
}

type UpdateCompanyNameRequest struct {
	UserID      string  `json:"user_id"`
	CompanyName *string `json:"company_name"`
}

func (h *UserHandler) UpdateCompanyName(w http.ResponseWriter, r *http.Request) {
	var req UpdateCompanyNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}

	if req.UserID == "" {
		httperr.Write(w, http.StatusBadRequest, "user_id gereklidir")
		return
	}

	if err := h.userRepo.UpdateCompanyName(req.UserID, req.CompanyName); err != nil {
		h.writeUpdateError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

type UpdateNoteRequest struct {
	UserID string  `json:"user_id"`
	Note   *string `json:"note"`
}

func (h *UserHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}

	if req.UserID == "" {
		httperr.Write(w, http.StatusBadRequest, "user_id gereklidir")
		return
	}

	if err := h.userRepo.UpdateNote(req.UserID, req.Note); err != nil {
		h.writeUpdateError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *UserHandler) writeUpdateError(w http.ResponseWriter, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		httperr.Write(w, http.StatusBadRequest, "Kullanıcı bulunamadı")
		return
	}
	log.Error().Err(err).Msg("user update failed")
	httperr.Write(w, http.StatusInternalServerError, "Internal server error")
}
