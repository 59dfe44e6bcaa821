package progress

import (
	"context"
	"testing"
)

func badgeByName(t *testing.T, badges []Badge, name string) Badge {
	t.Helper()
	for _, b := range badges {
		if b.Name == name {
			return b
		}
	}
	t.Fatalf("badge %q not found", name)
	return Badge{}
}

func TestBadges_AllLockedOnFreshStore(t *testing.T) {
	s, _ := newTestStore()

	for _, b := range s.Badges(4) {
		if b.Unlocked {
			t.Errorf("badge %q unlocked on a fresh store", b.Name)
		}
	}
}

func TestBadges_FirstFlameAt100XP(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	if err := s.AddXP(ctx, 99); err != nil {
		t.Fatal(err)
	}
	if badgeByName(t, s.Badges(0), "First Flame").Unlocked {
		t.Error("First Flame unlocked at 99 XP")
	}

	if err := s.AddXP(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if !badgeByName(t, s.Badges(0), "First Flame").Unlocked {
		t.Error("First Flame locked at 100 XP")
	}
}

func TestBadges_StreakThresholds(t *testing.T) {
	s, _ := newTestStore()
	s.streak = 3
	badges := s.Badges(0)
	if !badgeByName(t, badges, "Streak Starter").Unlocked {
		t.Error("Streak Starter locked at a 3-day streak")
	}
	if badgeByName(t, badges, "Streak Legend").Unlocked {
		t.Error("Streak Legend unlocked at a 3-day streak")
	}

	s.streak = 30
	if !badgeByName(t, s.Badges(0), "Streak Legend").Unlocked {
		t.Error("Streak Legend locked at a 30-day streak")
	}
}

func TestBadges_CulturalExplorerNeedsFullCatalog(t *testing.T) {
	s, _ := newTestStore(WithClock(fixedClock("2026-09-01")))
	ctx := context.Background()

	if err := s.UpdateLessonProgress(ctx, "a", 100); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateLessonProgress(ctx, "b", 50); err != nil {
		t.Fatal(err)
	}
	if badgeByName(t, s.Badges(2), "Cultural Explorer").Unlocked {
		t.Error("Cultural Explorer unlocked with a partial lesson")
	}

	if err := s.UpdateLessonProgress(ctx, "b", 100); err != nil {
		t.Fatal(err)
	}
	if !badgeByName(t, s.Badges(2), "Cultural Explorer").Unlocked {
		t.Error("Cultural Explorer locked with the whole catalog done")
	}

	// Unknown catalog size never unlocks the explorer badge.
	if badgeByName(t, s.Badges(0), "Cultural Explorer").Unlocked {
		t.Error("Cultural Explorer unlocked with catalog size 0")
	}
}

func TestBadges_LessonLearnerAtTen(t *testing.T) {
	s, _ := newTestStore(WithClock(fixedClock("2026-09-01")))
	ctx := context.Background()

	slugs := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	for _, slug := range slugs {
		if err := s.UpdateLessonProgress(ctx, slug, 100); err != nil {
			t.Fatal(err)
		}
	}
	if badgeByName(t, s.Badges(0), "Lesson Learner").Unlocked {
		t.Error("Lesson Learner unlocked at 9 lessons")
	}

	if err := s.UpdateLessonProgress(ctx, "j", 100); err != nil {
		t.Fatal(err)
	}
	if !badgeByName(t, s.Badges(0), "Lesson Learner").Unlocked {
		t.Error("Lesson Learner locked at 10 lessons")
	}
}
