// Package store holds every live Game in memory, indexed by both its
// stable id and its short room code (§3.1, §4.6). A Store is safe for
// concurrent use by many game executors.
package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oakwood/tworooms/internal/model"
)

// codeAlphabet drops I, O, 0, 1 to avoid characters easily confused with
// one another when read aloud or typed on a phone keyboard (§4.6).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

const maxCodeAttempts = 100

// ErrCodeExhausted is returned when no unique room code could be minted
// after maxCodeAttempts collisions.
var ErrCodeExhausted = errors.New("store: exhausted room code attempts")

// ErrNotFound is returned when a lookup by id or code matches no game.
var ErrNotFound = errors.New("store: game not found")

// Store is an in-memory, concurrency-safe map from game id and room code
// to live *model.Game aggregates (§3, §4.6).
type Store struct {
	mu          sync.RWMutex
	byID        map[string]*model.Game
	byCode      map[string]*model.Game // keyed by uppercase code
	retention   time.Duration
}

// New returns an empty Store. retention is the duration a FINISHED game
// is kept before Reap removes it (§3.8's default is one hour; callers
// supply the configured value).
func New(retention time.Duration) *Store {
	return &Store{
		byID:      map[string]*model.Game{},
		byCode:    map[string]*model.Game{},
		retention: retention,
	}
}

// Create mints a unique id and room code and registers a new Game in
// LOBBY phase with journalRetention as its journal's retention window.
func (s *Store) Create(journalRetention int) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, err := s.generateUniqueCodeLocked()
	if err != nil {
		return nil, err
	}

	g := model.NewGame(uuid.NewString(), code, journalRetention)
	s.byID[g.ID] = g
	s.byCode[code] = g
	return g, nil
}

func (s *Store) generateUniqueCodeLocked() (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", fmt.Errorf("store: generating room code: %w", err)
		}
		if _, exists := s.byCode[code]; !exists {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

func randomCode() (string, error) {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	out := make([]byte, codeLength)
	for i, v := range b {
		out[i] = codeAlphabet[int(v)%len(codeAlphabet)]
	}
	return string(out), nil
}

// GetByID returns the game with the given id.
func (s *Store) GetByID(id string) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return g, nil
}

// GetByCode returns the game with the given room code. Lookup is
// case-insensitive (§4.6); code is normalised to uppercase before lookup.
func (s *Store) GetByCode(code string) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.byCode[strings.ToUpper(code)]
	if !ok {
		return nil, ErrNotFound
	}
	return g, nil
}

// Delete removes a game from both indexes. It is a no-op if the game is
// already absent.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.byID[id]
	if !ok {
		return
	}
	delete(s.byID, id)
	delete(s.byCode, g.Code)
}

// Count returns the number of live games.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Reap removes every game whose phase is FINISHED and whose UpdatedAt is
// older than the configured retention, returning the ids it removed
// (§3.8). Callers invoke this periodically; Reap does not schedule
// itself.
func (s *Store) Reap(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for id, g := range s.byID {
		if !g.Finished() {
			continue
		}
		if now.Sub(g.UpdatedAt) < s.retention {
			continue
		}
		delete(s.byID, id)
		delete(s.byCode, g.Code)
		removed = append(removed, id)
	}
	return removed
}
