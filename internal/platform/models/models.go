package models

import "time"

// User mirrors the identity provider's user record in the public schema.
// The privilege flag is only ever written by a direct datastore edit;
// no endpoint in this service mutates it.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at"`
	IsSuperAdmin bool       `json:"is_super_admin"`
	Note         *string    `json:"note"`
	CompanyName  *string    `json:"company_name"`
}

type Subscription struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	PlanID           string     `json:"plan_id"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end"`
	Language         string     `json:"language"`
	Logo             *string    `json:"logo"`
	IsCRM            bool       `json:"is_crm"`
	IsCampaign       bool       `json:"is_campaign"`
}

// Defaults every new account starts on.
const (
	DefaultPlanID   = "free"
	DefaultStatus   = "active"
	DefaultLanguage = "tr"
)

// LeadGenUserData is keyed by the user's id directly; the id column
// aliases the user id rather than owning its own identity.
type LeadGenUserData struct {
	ID           string     `json:"id"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdateAt     *time.Time `json:"update_at"`
	LeadGenCount *int64     `json:"lead_gen_count"`
	IsScraping   *bool      `json:"is_scraping"`
}

// AccountView is the composite the panel renders: a user joined with at
// most one subscription and at most one lead-gen row. Derived per
// request, never persisted.
type AccountView struct {
	User
	Subscription *Subscription    `json:"subscription"`
	LeadGenData  *LeadGenUserData `json:"leadGenData"`
}
