package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/crypto/bcrypt"

	"github.com/witcharon/salesconnfig/internal/pkg/httperr"
	"github.com/witcharon/salesconnfig/internal/platform/config"
)

// MigrateHandler is the dev-only migration endpoint. The service never
// runs DDL over HTTP; the endpoint authenticates the operator and
// reports which migration files exist, pointing at cmd/migrate for the
// actual apply.
type MigrateHandler struct {
	cfg config.MigrationConfig
}

func NewMigrateHandler(cfg config.MigrationConfig) *MigrateHandler {
	return &MigrateHandler{cfg: cfg}
}

type MigrateRequest struct {
	Secret string `json:"secret"`
}

type MigrateResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Files   []string `json:"files,omitempty"`
}

func (h *MigrateHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req MigrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(h.cfg.SecretHash), []byte(req.Secret)) != nil {
		httperr.Write(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var files []string
	entries, err := os.ReadDir(h.cfg.Dir)
	if err == nil {
		for _, entry := range entries {
			if filepath.Ext(entry.Name()) == ".sql" {
				files = append(files, entry.Name())
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MigrateResponse{
		Success: true,
		Message: "Migration'lar bu endpoint üzerinden çalıştırılmaz; cmd/migrate aracını kullanın.",
		Files:   files,
	})
}
