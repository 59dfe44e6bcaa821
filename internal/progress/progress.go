package progress

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harmonyquest/harmonyquest/internal/api"
	"github.com/harmonyquest/harmonyquest/internal/store"
)

// dateLayout is the ISO calendar date used for persistence.
const dateLayout = "2006-01-02"

// Backend is the subset of the API client the store needs. Kept narrow
// so tests can stub it.
type Backend interface {
	Me(ctx context.Context, token string) (*api.User, error)
	MyLessons(ctx context.Context, token string) ([]api.LessonStatus, error)
	CompleteLesson(ctx context.Context, token, slug string, xpEarned int) (*api.Completion, error)
}

// Store is the single source of truth for gamification state: XP,
// streak, and per-lesson completion. It is constructed once at startup
// and passed to the screens that need it. All mutations persist to the
// local repo before returning; backend sync never mutates state on its
// own except through LoadUserProgress.
type Store struct {
	mu sync.Mutex

	xp           int
	streak       int
	lastActivity time.Time // zero when no activity recorded
	lessons      map[string]int

	repo    store.ProgressRepo
	events  store.EventRepo
	backend Backend
	clock   func() time.Time

	onChange func()
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source (tests).
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithOnChange registers a callback invoked after every state change.
func WithOnChange(fn func()) Option {
	return func(s *Store) { s.onChange = fn }
}

// NewStore creates a Store. repo may not be nil; events and backend may
// be nil, in which case sync logging and backend calls are disabled.
func NewStore(repo store.ProgressRepo, events store.EventRepo, backend Backend, opts ...Option) *Store {
	s := &Store{
		lessons: make(map[string]int),
		repo:    repo,
		events:  events,
		backend: backend,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadLocal seeds state from the local repo. Called once at startup,
// before any backend fetch.
func (s *Store) LoadLocal(ctx context.Context) error {
	rec, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load local progress: %w", err)
	}

	s.mu.Lock()
	s.xp = rec.XP
	s.streak = rec.Streak
	s.lastActivity = time.Time{}
	if rec.LastLessonDate != "" {
		if t, perr := time.ParseInLocation(dateLayout, rec.LastLessonDate, time.Local); perr == nil {
			s.lastActivity = t
		}
	}
	s.lessons = make(map[string]int, len(rec.LessonProgress))
	for slug, p := range rec.LessonProgress {
		s.lessons[slug] = clampPercent(p)
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// XP returns the current experience point total.
func (s *Store) XP() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.xp
}

// Streak returns the current consecutive-day streak.
func (s *Store) Streak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streak
}

// LessonProgress returns the completion percentage for a lesson,
// 0 for lessons never seen.
func (s *Store) LessonProgress(slug string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lessons[slug]
}

// AllLessonProgress returns a copy of the lesson progress map.
func (s *Store) AllLessonProgress() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.lessons))
	for slug, p := range s.lessons {
		out[slug] = p
	}
	return out
}

// AddXP increments the XP total. Amounts below zero are ignored.
func (s *Store) AddXP(ctx context.Context, amount int) error {
	if amount <= 0 {
		return nil
	}

	s.mu.Lock()
	s.xp += amount
	s.mu.Unlock()

	s.notify()
	return s.persist(ctx)
}

// UpdateLessonProgress records progress for a lesson. The stored value
// is the max of old and new, so repeat or lower reports are no-ops on
// the percentage. Any call also counts as activity for the streak,
// credited at most once per calendar day.
func (s *Store) UpdateLessonProgress(ctx context.Context, slug string, percent int) error {
	percent = clampPercent(percent)

	s.mu.Lock()
	if percent > s.lessons[slug] {
		s.lessons[slug] = percent
	}
	today := dateOnly(s.clock())
	s.streak = nextStreak(s.streak, s.lastActivity, today)
	s.lastActivity = today
	s.mu.Unlock()

	s.notify()
	return s.persist(ctx)
}

// ResetStats clears XP, streak, activity date, and all lesson progress.
// Used on logout and explicit reset.
func (s *Store) ResetStats(ctx context.Context) error {
	s.mu.Lock()
	s.xp = 0
	s.streak = 0
	s.lastActivity = time.Time{}
	s.lessons = make(map[string]int)
	s.mu.Unlock()

	s.notify()
	return s.persist(ctx)
}

// persist writes the current state through the repo.
func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	rec := store.ProgressRecord{
		XP:             s.xp,
		Streak:         s.streak,
		LessonProgress: make(map[string]int, len(s.lessons)),
	}
	if !s.lastActivity.IsZero() {
		rec.LastLessonDate = s.lastActivity.Format(dateLayout)
	}
	for slug, p := range s.lessons {
		rec.LessonProgress[slug] = p
	}
	s.mu.Unlock()

	if err := s.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("persist progress: %w", err)
	}
	return nil
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
