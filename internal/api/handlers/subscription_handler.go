package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/witcharon/salesconnfig/internal/pkg/httperr"
	"github.com/witcharon/salesconnfig/internal/platform/models"
	"github.com/witcharon/salesconnfig/internal/platform/repositories"
)

type SubscriptionHandler struct {
	subRepo *repositories.SubscriptionRepository
}

func NewSubscriptionHandler(subRepo *repositories.SubscriptionRepository) *SubscriptionHandler {
	return &SubscriptionHandler{subRepo: subRepo}
}

type UpdateSubscriptionResponse struct {
	Success bool                 `json:"success"`
	Data    *models.Subscription `json:"data"`
}

// Update applies the request body as a partial update to the caller's
// subscription, keyed on user_id. Beyond requiring the key there is no
// field validation here; the gate has already decided the caller is
// trusted.
func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httperr.Write(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}

	userID, _ := body["user_id"].(string)
	if userID == "" {
		httperr.Write(w, http.StatusBadRequest, "user_id gereklidir")
		return
	}
	delete(body, "user_id")

	sub, err := h.subRepo.Update(userID, body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			httperr.Write(w, http.StatusBadRequest, "Abonelik bulunamadı")
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("subscription update failed")
		httperr.Write(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UpdateSubscriptionResponse{Success: true, Data: sub})
}
