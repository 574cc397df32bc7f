package repositories

import (
	"database/sql"

	"github.com/witcharon/salesconnfig/internal/platform/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ListAll returns the whole user table, newest first. The panel is an
// internal tool; the table is expected to stay small enough that a full
// snapshot per request is fine.
func (r *UserRepository) ListAll() ([]models.User, error) {
	rows, err := r.db.Query(`
		SELECT id, email, phone, created_at, updated_at, last_sign_in_at, is_super_admin, note, company_name
		FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Phone, &u.CreatedAt, &u.UpdatedAt, &u.LastSignInAt, &u.IsSuperAdmin, &u.Note, &u.CompanyName); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// IsSuperAdmin reads the privilege flag for one user. A missing row is
// an error, not "false": the gate treats any failure here as a denial,
// and the distinction matters for logging.
func (r *UserRepository) IsSuperAdmin(id string) (bool, error) {
	var isAdmin bool
	err := r.db.QueryRow(`SELECT is_super_admin FROM users WHERE id = $1`, id).Scan(&isAdmin)
	if err != nil {
		return false, err
	}
	return isAdmin, nil
}

func (r *UserRepository) UpdateCompanyName(id string, companyName *string) error {
	return r.updateTextField(`UPDATE users SET company_name = $1, updated_at = now() WHERE id = $2`, id, companyName)
}

func (r *UserRepository) UpdateNote(id string, note *string) error {
	return r.updateTextField(`UPDATE users SET note = $1, updated_at = now() WHERE id = $2`, id, note)
}

func (r *UserRepository) updateTextField(query, id string, value *string) error {
	result, err := r.db.Exec(query, value, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
