package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"igfollowers/pkg/analysis"
	"igfollowers/pkg/config"
	"igfollowers/pkg/logger"
)

// Step is the position of a session in the upload, analyze, results flow
type Step int

const (
	StepFollowers Step = iota + 1
	StepFollowing
	StepAnalyze
	StepResults
)

// Flash levels
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next page render
type Flash struct {
	Level   string
	Message string
}

// State is everything one browser session has uploaded or computed
type State struct {
	ID string

	Followers     *analysis.UserSet
	FollowerFiles []string
	Following     *analysis.UserSet
	FollowingFile string
	Result        *analysis.Result

	Flashes   []Flash
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Step returns the next thing the user has to do
func (s *State) Step() Step {
	switch {
	case s.Followers == nil:
		return StepFollowers
	case s.Following == nil:
		return StepFollowing
	case s.Result == nil:
		return StepAnalyze
	default:
		return StepResults
	}
}

// AddFlash queues a message for the next render
func (s *State) AddFlash(level, message string) {
	s.Flashes = append(s.Flashes, Flash{Level: level, Message: message})
}

func (s *State) clone() *State {
	c := *s
	c.FollowerFiles = append([]string(nil), s.FollowerFiles...)
	c.Flashes = append([]Flash(nil), s.Flashes...)
	return &c
}

// Store keeps sessions in memory only. Entries expire after the configured
// TTL and the least recently used session is dropped once the store is full.
type Store struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *State]
	now   func() time.Time
}

// NewStore creates a session store
func NewStore(cfg config.SessionConfig) *Store {
	onEvict := func(id string, _ *State) {
		logger.GetLogger().WithField("session", shortID(id)).Debug("Session evicted")
	}
	return &Store{
		cache: expirable.NewLRU[string, *State](cfg.MaxSessions, onEvict, cfg.TTL),
		now:   time.Now,
	}
}

// NewID returns a fresh random session id
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one NewID produced
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Ensure returns the session for id, creating an empty one when id is
// unknown, expired or malformed. created reports whether a new id was issued.
func (s *Store) Ensure(id string) (st *State, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.cache.Get(id); ok {
		return existing.clone(), false
	}

	st = s.newState(NewID())
	s.cache.Add(st.ID, st)
	return st.clone(), true
}

// Update applies fn to the session under the store lock and returns the
// updated snapshot. It returns false when the session does not exist.
func (s *Store) Update(id string, fn func(*State)) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	next := st.clone()
	fn(next)
	next.UpdatedAt = s.now()
	s.cache.Add(id, next)
	return next.clone(), true
}

// TakeFlashes returns and clears the queued messages of a session
func (s *Store) TakeFlashes(id string) []Flash {
	var flashes []Flash
	s.Update(id, func(st *State) {
		flashes = st.Flashes
		st.Flashes = nil
	})
	return flashes
}

// Reset drops everything a session holds but keeps its id
func (s *Store) Reset(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cache.Contains(id) {
		return false
	}
	s.cache.Add(id, s.newState(id))
	return true
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	return s.cache.Len()
}

func (s *Store) newState(id string) *State {
	now := s.now()
	return &State{ID: id, CreatedAt: now, UpdatedAt: now}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
