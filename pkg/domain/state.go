package domain

// State holds the short-lived dialog flags for one chat: a style label picked
// with /style that should apply to the next photo, and whether the next text
// message should be forwarded to the admin.
type State struct {
	PendingStyle    string
	AwaitingContact bool
}

// ContactRequest is a user message addressed to the admin.
type ContactRequest struct {
	ChatID   int64
	UserID   int64
	Name     string
	Username string
	Text     string
}
