// Package token mints and tracks anti-forgery tokens.
package token

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/core/ports"
	"go.trai.ch/zerr"
)

// MaxAttempts bounds how many times Create retries after drawing a token that is already issued.
const MaxAttempts = 8

var _ ports.TokenSource = (*Source)(nil)

// Source issues tokens made of two random UUIDs without dashes and remembers them until they
// are consumed.
type Source struct {
	mu     sync.Mutex
	issued map[string]struct{}
	newID  func() (uuid.UUID, error)
}

// NewSource creates an empty token registry.
func NewSource() *Source {
	return &Source{
		issued: make(map[string]struct{}),
		newID:  uuid.NewRandom,
	}
}

// Create mints a token that is not currently issued and registers it.
func (s *Source) Create() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for range MaxAttempts {
		tok, err := s.mint()
		if err != nil {
			return "", err
		}
		if _, taken := s.issued[tok]; taken {
			continue
		}
		s.issued[tok] = struct{}{}
		return tok, nil
	}
	return "", zerr.With(zerr.Wrap(domain.ErrTokenExhausted, "cannot create anti-forgery token"), "attempts", MaxAttempts)
}

func (s *Source) mint() (string, error) {
	var b strings.Builder
	for range 2 {
		id, err := s.newID()
		if err != nil {
			return "", zerr.Wrap(err, "failed to read randomness for anti-forgery token")
		}
		b.WriteString(strings.ReplaceAll(id.String(), "-", ""))
	}
	return b.String(), nil
}

// Consume removes token from the registry and reports whether it had been issued.
func (s *Source) Consume(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.issued[token]; !ok {
		return false
	}
	delete(s.issued, token)
	return true
}

// Len returns the number of outstanding tokens.
func (s *Source) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.issued)
}
