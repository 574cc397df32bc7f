package repositories

import (
	"database/sql"

	"github.com/witcharon/salesconnfig/internal/platform/models"
)

type LeadGenRepository struct {
	db *sql.DB
}

func NewLeadGenRepository(db *sql.DB) *LeadGenRepository {
	return &LeadGenRepository{db: db}
}

func (r *LeadGenRepository) ListAll() ([]models.LeadGenUserData, error) {
	rows, err := r.db.Query(`
		SELECT id, created_at, update_at, lead_gen_count, is_scraping
		FROM lead_gen_user_data
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var data []models.LeadGenUserData
	for rows.Next() {
		var d models.LeadGenUserData
		if err := rows.Scan(&d.ID, &d.CreatedAt, &d.UpdateAt, &d.LeadGenCount, &d.IsScraping); err != nil {
			return nil, err
		}
		data = append(data, d)
	}
	return data, rows.Err()
}
