package constants

// ContextKeyUserID is the key under which the authenticated user ID is stored
// in both the session and the gin context.
const ContextKeyUserID = "user_id"

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "officialid_session"

// Pagination limits
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 8

// InvitationTTLDays is how long an organization invitation stays valid.
const InvitationTTLDays = 7

// BatchEmailDelayMs is the fixed delay between consecutive sends in the
// circle batch email endpoint, to stay under the provider's rate limit.
const BatchEmailDelayMs = 150

// PIN verification throttling (per card and client IP).
const (
	PinAttemptLimit      = 5
	PinAttemptWindowSecs = 60
)
