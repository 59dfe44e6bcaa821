package guide

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/harmonyquest/harmonyquest/internal/etiquette"
	"github.com/harmonyquest/harmonyquest/internal/screen"
	"github.com/harmonyquest/harmonyquest/internal/ui/components"
	"github.com/harmonyquest/harmonyquest/internal/ui/layout"
	"github.com/harmonyquest/harmonyquest/internal/ui/theme"
)

const pollInterval = 100 * time.Millisecond

var thinkingFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧"}

type pollMsg time.Time

// GuideScreen answers free-form cultural etiquette questions through
// the model-backed etiquette service.
type GuideScreen struct {
	service *etiquette.Service

	input  components.TextInput
	busy   bool
	ticks  int
	answer *etiquette.Answer
	errMsg string
}

var _ screen.Screen = (*GuideScreen)(nil)
var _ screen.KeyHintProvider = (*GuideScreen)(nil)

// New creates a GuideScreen.
func New(service *etiquette.Service) *GuideScreen {
	return &GuideScreen{
		service: service,
		input:   components.NewTextInput("Ask about customs, greetings, festivals...", false, 500),
	}
}

func (g *GuideScreen) Title() string {
	return "Culture Guide"
}

func (g *GuideScreen) Init() tea.Cmd {
	return g.input.Init()
}

func (g *GuideScreen) KeyHints() []layout.KeyHint {
	if g.busy {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Ask"},
		{Key: "Esc", Description: "Back"},
	}
}

func (g *GuideScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pollMsg:
		if !g.busy {
			return g, nil
		}
		g.ticks++
		answer, err, ready := g.service.Consume()
		if !ready {
			return g, pollCmd()
		}
		g.busy = false
		if err != nil {
			g.errMsg = "The guide is unavailable right now. Try again in a moment."
			return g, nil
		}
		g.answer = answer
		g.input.Reset()
		return g, nil

	case tea.KeyMsg:
		if g.busy {
			return g, nil
		}
		if msg.String() == "enter" {
			return g.submit()
		}
	}

	if g.busy {
		return g, nil
	}

	var cmd tea.Cmd
	g.input, cmd = g.input.Update(msg)
	return g, cmd
}

func (g *GuideScreen) submit() (screen.Screen, tea.Cmd) {
	query := g.input.Value()
	if err := etiquette.ValidateQuery(query); err != nil {
		g.errMsg = "Please ask a question between 3 and 500 characters."
		return g, nil
	}

	g.busy = true
	g.errMsg = ""
	g.answer = nil
	g.service.Request(context.Background(), query)
	return g, pollCmd()
}

func pollCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func (g *GuideScreen) View(width, height int) string {
	contentWidth := min(width-8, 76)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Ask the culture guide"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Respectful answers about customs, etiquette, and traditions"))
	b.WriteString("\n\n")
	b.WriteString(g.input.View())
	b.WriteString("\n\n")

	switch {
	case g.busy:
		frame := thinkingFrames[g.ticks%len(thinkingFrames)]
		b.WriteString(theme.Hint.Render(frame + " Thinking..."))

	case g.errMsg != "":
		b.WriteString(theme.Incorrect.Render(g.errMsg))

	case g.answer != nil:
		question := lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true).
			Width(contentWidth).
			Render(g.answer.Query)
		answer := lipgloss.NewStyle().
			Foreground(theme.Text).
			Width(contentWidth).
			Render(g.answer.Text)
		b.WriteString(question)
		b.WriteString("\n\n")
		b.WriteString(theme.Card.Width(contentWidth).Render(answer))

	default:
		b.WriteString(theme.Hint.Render(`Try: "How should I greet an elder in Korea?"`))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
