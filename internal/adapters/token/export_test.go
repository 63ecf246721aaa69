package token

import "github.com/google/uuid"

// SetNewID replaces the UUID generator.
func (s *Source) SetNewID(fn func() (uuid.UUID, error)) {
	s.newID = fn
}
