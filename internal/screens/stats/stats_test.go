package stats

import (
	"context"
	"strings"
	"testing"

	"github.com/harmonyquest/harmonyquest/internal/progress"
	"github.com/harmonyquest/harmonyquest/internal/store"
)

type memRepo struct {
	rec store.ProgressRecord
}

func (m *memRepo) Save(_ context.Context, rec store.ProgressRecord) error {
	m.rec = rec
	return nil
}

func (m *memRepo) Load(context.Context) (store.ProgressRecord, error) {
	if m.rec.LessonProgress == nil {
		m.rec.LessonProgress = map[string]int{}
	}
	return m.rec, nil
}

func (m *memRepo) Clear(ctx context.Context) error {
	return m.Save(ctx, store.ProgressRecord{LessonProgress: map[string]int{}})
}

func TestViewShowsBadgeCollection(t *testing.T) {
	progStore := progress.NewStore(&memRepo{}, nil, nil)
	s := New(progStore, nil)

	view := s.View(120, 50)
	if !strings.Contains(view, "Badges") {
		t.Error("stats view missing the badge section")
	}
	for _, name := range []string{"First Flame", "Streak Starter", "Cultural Explorer"} {
		if !strings.Contains(view, name) {
			t.Errorf("stats view missing badge %q", name)
		}
	}
}

func TestViewMarksUnlockedBadge(t *testing.T) {
	progStore := progress.NewStore(&memRepo{}, nil, nil)
	if err := progStore.AddXP(context.Background(), 150); err != nil {
		t.Fatal(err)
	}
	s := New(progStore, nil)

	badges := progStore.Badges(len(s.catalog))
	unlocked := 0
	for _, b := range badges {
		if b.Unlocked {
			unlocked++
		}
	}
	if unlocked != 1 {
		t.Fatalf("unlocked badges = %d, want 1 (First Flame)", unlocked)
	}
	if !strings.Contains(s.View(120, 50), "First Flame") {
		t.Error("unlocked badge missing from the view")
	}
}
