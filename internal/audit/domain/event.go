package domain

import "time"

// Security-event actions recorded by the auth code paths.
const (
	ActionLoginFailure    = "login_failure"
	ActionLoginWeb        = "login_web"
	ActionLoginAPI        = "login_api"
	ActionLogoutWeb       = "logout_web"
	ActionLogoutAPI       = "logout_api"
	ActionTokenRefresh    = "token_refresh"
	ActionReuseDetected   = "refresh_reuse_detected"
	ActionFamilyRevoked   = "token_family_revoked"
	ActionPasswordChanged = "password_changed"
	ActionDeactivated     = "account_deactivated"
)

// Event is one persisted security event. UserID may be empty when the event
// predates identification (e.g. a login failure for an unknown email).
type Event struct {
	ID        string
	UserID    string
	Action    string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
