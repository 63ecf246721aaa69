package token_test

import (
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/montauk/internal/adapters/token"
	"go.trai.ch/montauk/internal/core/domain"
)

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestSource_CreateAndConsume(t *testing.T) {
	src := token.NewSource()

	tok, err := src.Create()
	require.NoError(t, err)
	assert.Regexp(t, tokenPattern, tok)
	assert.Equal(t, 1, src.Len())

	assert.True(t, src.Consume(tok))
	assert.False(t, src.Consume(tok), "a token can only be consumed once")
	assert.False(t, src.Consume("never-issued"))
	assert.Zero(t, src.Len())
}

func TestSource_RetriesOnCollision(t *testing.T) {
	fixed := uuid.MustParse("6ba7b810-9dad-41d1-80b4-00c04fd430c8")
	other := uuid.MustParse("6ba7b811-9dad-41d1-80b4-00c04fd430c8")

	src := token.NewSource()
	calls := 0
	src.SetNewID(func() (uuid.UUID, error) {
		calls++
		// The first four draws repeat the same pair, the fifth differs.
		if calls <= 4 {
			return fixed, nil
		}
		return other, nil
	})

	first, err := src.Create()
	require.NoError(t, err)
	assert.Equal(t, "6ba7b8109dad41d180b400c04fd430c86ba7b8109dad41d180b400c04fd430c8", first)

	second, err := src.Create()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 6, calls)
}

func TestSource_Exhausted(t *testing.T) {
	fixed := uuid.MustParse("6ba7b810-9dad-41d1-80b4-00c04fd430c8")

	src := token.NewSource()
	calls := 0
	src.SetNewID(func() (uuid.UUID, error) {
		calls++
		return fixed, nil
	})

	_, err := src.Create()
	require.NoError(t, err)
	calls = 0

	_, err = src.Create()
	require.ErrorIs(t, err, domain.ErrTokenExhausted)
	assert.Equal(t, 2*token.MaxAttempts, calls)
	assert.Equal(t, 1, src.Len())
}

func TestSource_RandomnessFailure(t *testing.T) {
	src := token.NewSource()
	src.SetNewID(func() (uuid.UUID, error) {
		return uuid.Nil, errors.New("entropy unavailable")
	})

	_, err := src.Create()
	require.Error(t, err)
	assert.ErrorContains(t, err, "entropy unavailable")
	assert.Zero(t, src.Len())
}

func TestSource_Concurrent(t *testing.T) {
	src := token.NewSource()

	const n = 64
	tokens := make([]string, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			tok, err := src.Create()
			assert.NoError(t, err)
			tokens[i] = tok
		})
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, tok := range tokens {
		assert.False(t, seen[tok])
		seen[tok] = true
	}
	assert.Equal(t, n, src.Len())
}
