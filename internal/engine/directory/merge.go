package directory

import "github.com/witcharon/salesconnfig/internal/platform/models"

// Merge joins each user with at most one subscription and at most one
// lead-gen row by user id. Output order follows the input order of
// users. The schema intends one subscription per user but nothing
// enforces it; on a violation the first row wins, and a missing match
// yields nil.
func Merge(users []models.User, subs []models.Subscription, leads []models.LeadGenUserData) []models.AccountView {
	subsByUser := make(map[string]*models.Subscription, len(subs))
	for i := range subs {
		if _, seen := subsByUser[subs[i].UserID]; !seen {
			subsByUser[subs[i].UserID] = &subs[i]
		}
	}

	leadsByUser := make(map[string]*models.LeadGenUserData, len(leads))
	for i := range leads {
		if _, seen := leadsByUser[leads[i].ID]; !seen {
			leadsByUser[leads[i].ID] = &leads[i]
		}
	}

	views := make([]models.AccountView, 0, len(users))
	for _, u := range users {
		views = append(views, models.AccountView{
			User:         u,
			Subscription: subsByUser[u.ID],
			LeadGenData:  leadsByUser[u.ID],
		})
	}
	return views
}
