package guide

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/harmonyquest/harmonyquest/internal/etiquette"
	"github.com/harmonyquest/harmonyquest/internal/llm"
	"github.com/harmonyquest/harmonyquest/internal/screen"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// waitForAnswer pumps poll messages until the guide settles.
func waitForAnswer(t *testing.T, g *GuideScreen) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var scr screen.Screen = g
	for g.busy {
		if time.Now().After(deadline) {
			t.Fatal("answer never arrived")
		}
		scr, _ = scr.Update(pollMsg(time.Now()))
		time.Sleep(5 * time.Millisecond)
	}
	_ = scr
}

func TestAskShowsAnswer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Remove your shoes first."})
	g := New(etiquette.NewService(mock))

	g.input.Model.SetValue("What should I do at a temple?")
	g.Update(specialKey(tea.KeyEnter))
	if !g.busy {
		t.Fatal("guide should be thinking after a valid question")
	}

	waitForAnswer(t, g)

	if g.answer == nil {
		t.Fatal("expected an answer")
	}
	view := g.View(100, 30)
	if !strings.Contains(view, "Remove your shoes first.") {
		t.Error("answer text missing from view")
	}
	if !strings.Contains(view, "What should I do at a temple?") {
		t.Error("question missing from view")
	}
	if g.input.Value() != "" {
		t.Error("input should be cleared after an answer")
	}
}

func TestInvalidQueryRejectedLocally(t *testing.T) {
	mock := llm.NewMockProvider()
	g := New(etiquette.NewService(mock))

	g.input.Model.SetValue("a")
	g.Update(specialKey(tea.KeyEnter))

	if g.busy {
		t.Error("too-short question should not reach the provider")
	}
	if g.errMsg == "" {
		t.Error("expected a validation message")
	}
	if mock.CallCount() != 0 {
		t.Errorf("provider called %d times, want 0", mock.CallCount())
	}
}

func TestProviderErrorShowsFriendlyMessage(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	g := New(etiquette.NewService(mock))

	g.input.Model.SetValue("Is it rude to point with chopsticks?")
	g.Update(specialKey(tea.KeyEnter))
	waitForAnswer(t, g)

	if g.errMsg == "" {
		t.Error("expected an error message")
	}
	if g.answer != nil {
		t.Error("no answer expected on provider failure")
	}
}
