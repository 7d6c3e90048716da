// Package citizenship implements signature-based onboarding. Applicants
// prove ownership of their npub by signing a challenge nonce with their
// Nostr key; a valid signature admits them as a Citizen with no human
// review.
package citizenship

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	ChallengeTTL    = 10 * time.Minute
	ChallengePrefix = "DPYC-CITIZENSHIP:"
)

type Challenge struct {
	ID          string
	Npub        string
	DisplayName string
	Nonce       string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// ExpectedContent is the exact string the applicant must embed in the
// signed event.
func (c *Challenge) ExpectedContent() string {
	return ChallengePrefix + c.Nonce
}

// ChallengeStore holds pending challenges in memory. Challenges are
// ephemeral; a restart simply requires applicants to start over.
type ChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]*Challenge
	now        func() time.Time
}

func NewChallengeStore() *ChallengeStore {
	return &ChallengeStore{
		challenges: make(map[string]*Challenge),
		now:        time.Now,
	}
}

// Issue creates a challenge for the npub. At most one pending challenge
// per npub is allowed.
func (s *ChallengeStore) Issue(npub, displayName string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	for _, ch := range s.challenges {
		if ch.Npub == npub {
			return nil, fmt.Errorf(
				"a pending challenge already exists for this npub, complete or wait for it to expire (%s)",
				ChallengeTTL,
			)
		}
	}

	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	now := s.now()
	ch := &Challenge{
		ID:          uuid.NewString(),
		Npub:        npub,
		DisplayName: displayName,
		Nonce:       hex.EncodeToString(nonce),
		CreatedAt:   now,
		ExpiresAt:   now.Add(ChallengeTTL),
	}
	s.challenges[ch.ID] = ch

	return ch, nil
}

// Get returns the pending challenge, or nil when unknown or expired.
func (s *ChallengeStore) Get(id string) *Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	return s.challenges[id]
}

func (s *ChallengeStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, id)
}

func (s *ChallengeStore) pruneLocked() {
	now := s.now()
	for id, ch := range s.challenges {
		if now.After(ch.ExpiresAt) {
			delete(s.challenges, id)
		}
	}
}
