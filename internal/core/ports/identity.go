package ports

// Identity is the resolved (userId, role) pair every core operation receives
// from the auth middleware. The core never performs authentication itself.
type Identity struct {
	UserID string
	Role   string
}
