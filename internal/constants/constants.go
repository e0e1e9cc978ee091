package constants

// Session
const (
	SessionCookieName = "study_session"
	ContextKeyUserID  = "user_id"
)

// Auth
const (
	MinPasswordLength = 8
)

// DateLayout is the day-granularity layout used for streak bookkeeping.
// Streak logic compares calendar dates, never times of day.
const DateLayout = "2006-01-02"

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
