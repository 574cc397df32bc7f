package repositories

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/witcharon/salesconnfig/internal/platform/models"
)

type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, user_id, plan_id, status, current_period_end, language, logo, is_crm, is_campaign`

func (r *SubscriptionRepository) ListAll() ([]models.Subscription, error) {
	rows, err := r.db.Query(`SELECT ` + subscriptionColumns + ` FROM user_subscriptions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		var s models.Subscription
		if err := scanSubscription(rows.Scan, &s); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// InsertDefault creates the subscription row every new account starts
// with: free plan, active, Turkish UI, both feature flags off.
func (r *SubscriptionRepository) InsertDefault(userID string) error {
	_, err := r.db.Exec(`
		INSERT INTO user_subscriptions (id, user_id, plan_id, status, language, is_crm, is_campaign)
		VALUES ($1, $2, $3, $4, $5, false, false)
	`, uuid.NewString(), userID, models.DefaultPlanID, models.DefaultStatus, models.DefaultLanguage)
	return err
}

// updatableColumns is the set of columns the edit dialog may touch. A
// key outside this set fails the whole update, mirroring how the hosted
// datastore rejects unknown columns.
var updatableColumns = map[string]bool{
	"plan_id":            true,
	"status":             true,
	"current_period_end": true,
	"language":           true,
	"logo":               true,
	"is_crm":             true,
	"is_campaign":        true,
}

// Update applies a partial update to the subscription keyed by user id
// and returns the updated row. sql.ErrNoRows when the user has no
// subscription.
func (r *SubscriptionRepository) Update(userID string, fields map[string]interface{}) (*models.Subscription, error) {
	if len(fields) == 0 {
		return r.getByUserID(userID)
	}

	// Deterministic column order keeps the statement stable for tests
	// and logs.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !updatableColumns[k] {
			return nil, fmt.Errorf("unknown column: %s", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	query := `UPDATE user_subscriptions SET `
	args := make([]interface{}, 0, len(keys)+1)
	for i, k := range keys {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("%s = $%d", k, i+1)
		args = append(args, fields[k])
	}
	query += fmt.Sprintf(" WHERE user_id = $%d RETURNING %s", len(keys)+1, subscriptionColumns)
	args = append(args, userID)

	var s models.Subscription
	if err := scanSubscription(r.db.QueryRow(query, args...).Scan, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) getByUserID(userID string) (*models.Subscription, error) {
	var s models.Subscription
	err := scanSubscription(r.db.QueryRow(`SELECT `+subscriptionColumns+` FROM user_subscriptions WHERE user_id = $1`, userID).Scan, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSubscription(scan func(dest ...interface{}) error, s *models.Subscription) error {
	return scan(&s.ID, &s.UserID, &s.PlanID, &s.Status, &s.CurrentPeriodEnd, &s.Language, &s.Logo, &s.IsCRM, &s.IsCampaign)
}
