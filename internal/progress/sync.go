package progress

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/harmonyquest/harmonyquest/internal/store"
)

// SyncResult reports the outcome of a best-effort backend mirror. The
// local mutation has always been applied by the time a SyncResult
// exists; Err describes the remote side only.
type SyncResult struct {
	Operation    string
	Lesson       string
	RemoteXP     int
	RemoteStreak int
	Err          error
}

// Failed reports whether the remote mirror failed. Local state is
// unaffected either way.
func (r SyncResult) Failed() bool {
	return r.Err != nil
}

// LoadUserProgress resets local state, then overwrites it with the
// backend's authoritative XP, streak, and per-lesson completion. If any
// fetch fails the store stays in the reset all-zero state — a clean
// slate is preferred over stale or mixed data.
func (s *Store) LoadUserProgress(ctx context.Context, userID int, token string) error {
	if err := s.ResetStats(ctx); err != nil {
		return err
	}
	if s.backend == nil {
		return fmt.Errorf("no backend configured")
	}

	user, err := s.backend.Me(ctx, token)
	if err != nil {
		return fmt.Errorf("fetch user %d: %w", userID, err)
	}

	lessons, err := s.backend.MyLessons(ctx, token)
	if err != nil {
		return fmt.Errorf("fetch lessons for user %d: %w", userID, err)
	}

	s.mu.Lock()
	s.xp = user.XP
	s.streak = user.StreakCount
	s.lastActivity = time.Time{} // backend does not track the activity date yet
	s.lessons = make(map[string]int, len(lessons))
	for _, l := range lessons {
		percent := clampPercent(l.Progress)
		if l.Completed {
			percent = 100
		}
		if percent > 0 {
			s.lessons[l.Slug] = percent
		}
	}
	s.mu.Unlock()

	s.notify()
	return s.persist(ctx)
}

// CompleteLessonOnBackend mirrors a local lesson completion to the
// backend. Failures are logged to the event log and stderr, never
// returned as errors, and never roll back local state.
func (s *Store) CompleteLessonOnBackend(ctx context.Context, slug string, xpEarned int, token string) SyncResult {
	result := SyncResult{Operation: "complete-lesson", Lesson: slug}

	if s.backend == nil || token == "" {
		result.Err = fmt.Errorf("not signed in")
		s.logSync(ctx, result)
		return result
	}

	conf, err := s.backend.CompleteLesson(ctx, token, slug, xpEarned)
	if err != nil {
		result.Err = err
		s.logSync(ctx, result)
		return result
	}

	result.RemoteXP = conf.TotalXP
	result.RemoteStreak = conf.NewStreak
	return result
}

// logSync records a failed sync attempt. Logging failures are themselves
// best-effort.
func (s *Store) logSync(ctx context.Context, result SyncResult) {
	fmt.Fprintf(os.Stderr, "warning: backend sync %s failed: %v\n", result.Operation, result.Err)
	if s.events == nil {
		return
	}
	data := store.SyncEventData{
		Operation: result.Operation,
		Lesson:    result.Lesson,
		Success:   false,
		Error:     result.Err.Error(),
	}
	if err := s.events.AppendSync(ctx, data); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log sync event: %v\n", err)
	}
}
