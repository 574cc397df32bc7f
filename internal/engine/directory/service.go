package directory

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/witcharon/salesconnfig/internal/platform/models"
)

type UserLister interface {
	ListAll() ([]models.User, error)
}

type SubscriptionLister interface {
	ListAll() ([]models.Subscription, error)
}

type LeadGenLister interface {
	ListAll() ([]models.LeadGenUserData, error)
}

// Service produces the composite account view the panel renders.
type Service struct {
	users UserLister
	subs  SubscriptionLister
	leads LeadGenLister
}

func NewService(users UserLister, subs SubscriptionLister, leads LeadGenLister) *Service {
	return &Service{users: users, subs: subs, leads: leads}
}

// Snapshot fetches all three tables concurrently and merges them. A
// failed fetch degrades to an empty set for that table so the page
// still renders; the error is logged, not surfaced.
func (s *Service) Snapshot(ctx context.Context) []models.AccountView {
	var (
		users []models.User
		subs  []models.Subscription
		leads []models.LeadGenUserData
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if users, err = s.users.ListAll(); err != nil {
			log.Error().Err(err).Msg("users fetch failed")
			users = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if subs, err = s.subs.ListAll(); err != nil {
			log.Error().Err(err).Msg("subscriptions fetch failed")
			subs = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if leads, err = s.leads.ListAll(); err != nil {
			log.Error().Err(err).Msg("lead gen fetch failed")
			leads = nil
		}
		return nil
	})
	g.Wait()

	return Merge(users, subs, leads)
}
