package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/witcharon/salesconnfig/internal/platform/models"
)

type fakeUsers struct {
	users []models.User
	err   error
}

func (f *fakeUsers) ListAll() ([]models.User, error) { return f.users, f.err }

type fakeSubs struct {
	subs []models.Subscription
	err  error
}

func (f *fakeSubs) ListAll() ([]models.Subscription, error) { return f.subs, f.err }

type fakeLeads struct {
	leads []models.LeadGenUserData
	err   error
}

func (f *fakeLeads) ListAll() ([]models.LeadGenUserData, error) { return f.leads, f.err }

func TestSnapshot_MergesAllSources(t *testing.T) {
	svc := NewService(
		&fakeUsers{users: []models.User{{ID: "u1"}, {ID: "u2"}}},
		&fakeSubs{subs: []models.Subscription{{ID: "s1", UserID: "u1", PlanID: "pro"}}},
		&fakeLeads{leads: []models.LeadGenUserData{{ID: "u2"}}},
	)

	views := svc.Snapshot(context.Background())

	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].Subscription == nil || views[0].Subscription.PlanID != "pro" {
		t.Errorf("expected u1 joined with pro subscription, got %+v", views[0].Subscription)
	}
	if views[1].LeadGenData == nil {
		t.Error("expected u2 joined with lead gen data")
	}
}

func TestSnapshot_DegradesOnFetcherFailure(t *testing.T) {
	svc := NewService(
		&fakeUsers{users: []models.User{{ID: "u1"}}},
		&fakeSubs{err: errors.New("connection refused")},
		&fakeLeads{},
	)

	views := svc.Snapshot(context.Background())

	if len(views) != 1 {
		t.Fatalf("expected 1 view despite subscription failure, got %d", len(views))
	}
	if views[0].Subscription != nil {
		t.Errorf("expected nil subscription after failed fetch, got %+v", views[0].Subscription)
	}
}

func TestSnapshot_EmptyWhenUsersFail(t *testing.T) {
	svc := NewService(
		&fakeUsers{err: errors.New("connection refused")},
		&fakeSubs{subs: []models.Subscription{{ID: "s1", UserID: "u1"}}},
		&fakeLeads{},
	)

	views := svc.Snapshot(context.Background())

	if len(views) != 0 {
		t.Errorf("expected empty result when users fetch fails, got %d views", len(views))
	}
}
