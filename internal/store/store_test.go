package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestProgressRepo_LoadEmpty(t *testing.T) {
	st := openTestStore(t)
	repo := st.ProgressRepo()

	rec, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rec.XP != 0 || rec.Streak != 0 || rec.LastLessonDate != "" {
		t.Errorf("fresh record = %+v, want zero", rec)
	}
	if len(rec.LessonProgress) != 0 {
		t.Errorf("fresh lesson progress has %d entries, want 0", len(rec.LessonProgress))
	}
}

func TestProgressRepo_SaveAndLoad(t *testing.T) {
	st := openTestStore(t)
	repo := st.ProgressRepo()
	ctx := context.Background()

	rec := ProgressRecord{
		XP:             125,
		Streak:         4,
		LastLessonDate: "2026-08-31",
		LessonProgress: map[string]int{
			"festivals-of-faith": 100,
			"sacred-spaces":      50,
		},
	}
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.XP != 125 || got.Streak != 4 || got.LastLessonDate != "2026-08-31" {
		t.Errorf("loaded record = %+v", got)
	}
	if got.LessonProgress["festivals-of-faith"] != 100 {
		t.Errorf("festivals-of-faith = %d, want 100", got.LessonProgress["festivals-of-faith"])
	}
	if got.LessonProgress["sacred-spaces"] != 50 {
		t.Errorf("sacred-spaces = %d, want 50", got.LessonProgress["sacred-spaces"])
	}
}

func TestProgressRepo_SaveReplacesLessonRows(t *testing.T) {
	st := openTestStore(t)
	repo := st.ProgressRepo()
	ctx := context.Background()

	if err := repo.Save(ctx, ProgressRecord{LessonProgress: map[string]int{"a": 40, "b": 60}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := repo.Save(ctx, ProgressRecord{LessonProgress: map[string]int{"a": 80}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.LessonProgress) != 1 {
		t.Errorf("lesson progress has %d entries, want 1", len(got.LessonProgress))
	}
	if got.LessonProgress["a"] != 80 {
		t.Errorf("a = %d, want 80", got.LessonProgress["a"])
	}
}

func TestProgressRepo_Clear(t *testing.T) {
	st := openTestStore(t)
	repo := st.ProgressRepo()
	ctx := context.Background()

	rec := ProgressRecord{XP: 50, Streak: 2, LastLessonDate: "2026-08-30",
		LessonProgress: map[string]int{"a": 100}}
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.XP != 0 || got.Streak != 0 || got.LastLessonDate != "" || len(got.LessonProgress) != 0 {
		t.Errorf("record after Clear = %+v, want zero", got)
	}
}

func TestSessionRepo_RoundTrip(t *testing.T) {
	st := openTestStore(t)
	repo := st.SessionRepo()
	ctx := context.Background()

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil session before Save, got %+v", loaded)
	}

	rec := SessionRecord{UserID: 7, Name: "Mei", Email: "mei@example.com", Token: "tok-123"}
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("expected session after Save")
	}
	if *loaded != rec {
		t.Errorf("loaded = %+v, want %+v", *loaded, rec)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	loaded, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded != nil {
		t.Errorf("expected nil session after Clear, got %+v", loaded)
	}
}

func TestEventRepo_Append(t *testing.T) {
	st := openTestStore(t)
	repo := st.EventRepo()
	ctx := context.Background()

	err := repo.AppendSync(ctx, SyncEventData{
		Operation: "complete-lesson",
		Lesson:    "festivals-of-faith",
		Success:   false,
		Error:     "connection refused",
	})
	if err != nil {
		t.Fatalf("AppendSync() error = %v", err)
	}
	err = repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "etiquette", Success: true,
	})
	if err != nil {
		t.Fatalf("AppendLLMRequest() error = %v", err)
	}

	var count int
	if err := st.DB().QueryRow(`SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 2 {
		t.Errorf("event count = %d, want 2", count)
	}
}
