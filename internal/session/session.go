// Package session holds per-session state: the extracted text, the
// current section summaries, and the context string used for question
// answering. Each summarization run fully replaces the context.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/notexlabs/notex/internal/summarize"
)

// ErrNoContext is returned when a question is asked before any
// summarization run has completed.
var ErrNoContext = errors.New("no summary context: run summarization first")

// State describes where a session is in its lifecycle.
type State string

const (
	StateEmpty      State = "empty"
	StateTextLoaded State = "text_loaded"
	StateSummarized State = "summarized"
)

// previewLimit caps the extracted-text preview in snapshots.
const previewLimit = 1500

// Session is the state for one user session. All access goes through the
// mutex; distinct HTTP requests may target the same session.
type Session struct {
	mu sync.Mutex

	ID string

	source     string
	text       string
	summaries  []summarize.SectionSummary
	contextStr string
	summarized bool

	createdAt time.Time
	updatedAt time.Time
}

func New(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		createdAt: now,
		updatedAt: now,
	}
}

// SetText stores freshly extracted text, replacing any prior input.
// Exactly one active input per session; last one set wins.
func (s *Session) SetText(text, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.source = source
	s.updatedAt = time.Now()
}

// Text returns the currently loaded extracted text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// SetSummaries records a completed summarization run, replacing the
// previous summaries and context wholesale.
func (s *Session) SetSummaries(results []summarize.SectionSummary, contextStr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = results
	s.contextStr = contextStr
	s.summarized = true
	s.updatedAt = time.Now()
}

// Context returns the question-answering context, or ErrNoContext when no
// summarization run has completed yet.
func (s *Session) Context() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.summarized {
		return "", ErrNoContext
	}
	return s.contextStr, nil
}

// Touch bumps the session's last-activity time. Answering a question does
// not change state but must keep the session alive.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()
}

// State derives the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case s.summarized:
		return StateSummarized
	case s.text != "":
		return StateTextLoaded
	default:
		return StateEmpty
	}
}

// Snapshot is a read-only, JSON-safe copy of session state.
type Snapshot struct {
	ID          string                     `json:"session_id"`
	State       State                      `json:"state"`
	Source      string                     `json:"source,omitempty"`
	TextPreview string                     `json:"text_preview,omitempty"`
	WordCount   int                        `json:"word_count"`
	Summaries   []summarize.SectionSummary `json:"summaries,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	preview := s.text
	if len(preview) > previewLimit {
		preview = preview[:previewLimit] + "..."
	}
	summaries := make([]summarize.SectionSummary, len(s.summaries))
	copy(summaries, s.summaries)

	return Snapshot{
		ID:          s.ID,
		State:       s.stateLocked(),
		Source:      s.source,
		TextPreview: preview,
		WordCount:   len(strings.Fields(s.text)),
		Summaries:   summaries,
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.updatedAt,
	}
}

func (s *Session) lastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Store is a thread-safe in-memory session registry with TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (st *Store) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

func (st *Store) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[id]
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Cleanup removes sessions idle longer than the TTL.
func (st *Store) Cleanup() {
	st.mu.Lock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		sessions = append(sessions, s)
	}
	st.mu.Unlock()

	now := time.Now()
	for _, s := range sessions {
		if now.Sub(s.lastActivity()) > st.ttl {
			st.Delete(s.ID)
		}
	}
}

// Run evicts expired sessions on a ticker until ctx is cancelled.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Cleanup()
		}
	}
}
