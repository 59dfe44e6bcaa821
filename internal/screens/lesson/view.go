package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/harmonyquest/harmonyquest/internal/progress"
	"github.com/harmonyquest/harmonyquest/internal/session"
	"github.com/harmonyquest/harmonyquest/internal/ui/components"
	"github.com/harmonyquest/harmonyquest/internal/ui/theme"
)

func (s *LessonScreen) View(width, height int) string {
	switch s.ctrl.Phase() {
	case session.PhasePartComplete:
		return s.renderPartComplete(width, height)
	case session.PhaseLessonComplete:
		return s.renderLessonComplete(width, height)
	default:
		return s.renderQuestion(width, height)
	}
}

func (s *LessonScreen) renderQuestion(width, height int) string {
	l := s.ctrl.Lesson()
	part := s.ctrl.Part()

	var b strings.Builder

	// Position line: part, question, and a bar across the whole lesson.
	position := fmt.Sprintf("Part %d of %d · Question %d of %d",
		s.ctrl.PartIndex()+1, len(l.Parts),
		s.ctrl.QuestionIndex()+1, len(part.Questions))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(position))
	b.WriteString("\n")

	barWidth := min(width-20, 50)
	bar := components.NewProgressBar("", s.lessonFraction(), true, barWidth)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(part.Title))
	b.WriteString("\n\n")

	if s.currentIsTyped() {
		q := s.ctrl.Question()
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(q.Text))
		b.WriteString("\n\n")
		b.WriteString(s.input.View())
		b.WriteString("\n")
	} else {
		b.WriteString(s.mc.View())
	}

	if s.ctrl.Phase() == session.PhaseFeedback {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(width))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (s *LessonScreen) renderFeedback(width int) string {
	var banner string
	if s.lastCorrect {
		banner = theme.Correct.Render("✓ Correct!")
	} else {
		banner = theme.Incorrect.Render("✗ Not quite.")
	}

	q := s.ctrl.Question()
	body := banner
	if q.Explanation != "" {
		explanation := lipgloss.NewStyle().
			Foreground(theme.Text).
			Width(min(width-12, 64)).
			Render(q.Explanation)
		body += "\n\n" + explanation
	}
	body += "\n\n" + theme.Hint.Render("press any key to continue")

	return theme.Card.Render(body)
}

func (s *LessonScreen) renderPartComplete(width, height int) string {
	ev := s.lastEvent
	if ev == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Part complete!"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(
		fmt.Sprintf("You answered %d of %d correctly.", ev.CorrectInPart, ev.TotalInPart)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(
		fmt.Sprintf("✦ +%d XP", ev.PartXP)))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("press any key for the next part"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Render(b.String()))
}

func (s *LessonScreen) renderLessonComplete(width, height int) string {
	ev := s.lastEvent
	if ev == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("🎉 Lesson complete!"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(
		fmt.Sprintf("%d of %d correct across the whole lesson.", ev.CorrectInPart, ev.TotalInPart)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(
		fmt.Sprintf("✦ +%d XP bonus · %d XP earned this lesson", ev.BonusXP, s.ctrl.XPEarned())))
	b.WriteString("\n\n")

	if streak := s.progress.Streak(); progress.IsMilestone(streak) {
		b.WriteString(theme.Correct.Render(
			fmt.Sprintf("★ %d-day streak milestone!", streak)))
		b.WriteString("\n\n")
	}

	b.WriteString(s.renderSyncStatus())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Render(b.String()))
}

func (s *LessonScreen) renderSyncStatus() string {
	switch s.syncState {
	case syncPending:
		return theme.Hint.Render("Syncing with your account...")
	case syncOK:
		if s.syncResult != nil {
			return lipgloss.NewStyle().Foreground(theme.Success).Render(
				fmt.Sprintf("Synced ✓ · %d XP total on your account", s.syncResult.RemoteXP))
		}
		return lipgloss.NewStyle().Foreground(theme.Success).Render("Synced ✓")
	case syncFailed:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			"Could not reach the server — progress saved on this device.")
	default:
		return theme.Hint.Render("Offline — progress saved on this device.")
	}
}

// lessonFraction is how far through the lesson's questions the user is.
func (s *LessonScreen) lessonFraction() float64 {
	l := s.ctrl.Lesson()
	total := l.QuestionCount()
	if total == 0 {
		return 0
	}

	answered := 0
	for p := 0; p < s.ctrl.PartIndex(); p++ {
		answered += len(l.Parts[p].Questions)
	}
	answered += s.ctrl.QuestionIndex()
	if s.ctrl.Phase() != session.PhaseAnswering {
		answered++
	}
	return float64(answered) / float64(total)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
