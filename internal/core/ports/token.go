package ports

// TokenSource issues anti-forgery tokens.
//
//go:generate mockgen -source=token.go -destination=mocks/mock_token.go -package=mocks
type TokenSource interface {
	// Create mints and registers a new token.
	Create() (string, error)
	// Consume removes a registered token and reports whether it was present.
	Consume(token string) bool
}
