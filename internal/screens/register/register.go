package register

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/harmonyquest/harmonyquest/internal/auth"
	"github.com/harmonyquest/harmonyquest/internal/router"
	"github.com/harmonyquest/harmonyquest/internal/screen"
	"github.com/harmonyquest/harmonyquest/internal/ui/components"
	"github.com/harmonyquest/harmonyquest/internal/ui/layout"
	"github.com/harmonyquest/harmonyquest/internal/ui/theme"
)

const minPasswordLen = 8

// Focusable fields, in tab order.
const (
	focusName = iota
	focusEmail
	focusPassword
	focusCreate
	focusBack
	focusCount
)

type registerDoneMsg struct {
	Session *auth.Session
	Err     error
}

// RegisterScreen creates a new account. A successful registration signs
// the user in immediately and replaces the screen with the one produced
// by onSuccess.
type RegisterScreen struct {
	auth *auth.Service

	onSuccess func(sess *auth.Session) screen.Screen
	onBack    func() screen.Screen

	name     components.TextInput
	email    components.TextInput
	password components.TextInput
	focus    int
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*RegisterScreen)(nil)
var _ screen.KeyHintProvider = (*RegisterScreen)(nil)

// New creates a RegisterScreen.
func New(authSvc *auth.Service, onSuccess func(*auth.Session) screen.Screen, onBack func() screen.Screen) *RegisterScreen {
	return &RegisterScreen{
		auth:      authSvc,
		onSuccess: onSuccess,
		onBack:    onBack,
		name:      components.NewTextInput("Your name", false, 100),
		email:     components.NewTextInput("you@example.com", false, 100),
		password:  components.NewTextInput("at least 8 characters", true, 100),
	}
}

func (r *RegisterScreen) Title() string {
	return "Create Account"
}

func (r *RegisterScreen) Init() tea.Cmd {
	return r.name.Init()
}

func (r *RegisterScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (r *RegisterScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		r.busy = false
		if msg.Err != nil {
			r.errMsg = auth.UserMessage(msg.Err)
			return r, nil
		}
		next := r.onSuccess(msg.Session)
		return r, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if r.busy {
			return r, nil
		}
		switch msg.String() {
		case "tab", "down":
			r.focus = (r.focus + 1) % focusCount
			return r, r.focusCmd()
		case "shift+tab", "up":
			r.focus = (r.focus - 1 + focusCount) % focusCount
			return r, r.focusCmd()
		case "enter":
			return r.handleEnter()
		}
	}

	if r.busy {
		return r, nil
	}

	var cmd tea.Cmd
	switch r.focus {
	case focusName:
		r.name, cmd = r.name.Update(msg)
	case focusEmail:
		r.email, cmd = r.email.Update(msg)
	case focusPassword:
		r.password, cmd = r.password.Update(msg)
	}
	return r, cmd
}

func (r *RegisterScreen) handleEnter() (screen.Screen, tea.Cmd) {
	switch r.focus {
	case focusName:
		r.focus = focusEmail
		return r, r.focusCmd()
	case focusEmail:
		r.focus = focusPassword
		return r, r.focusCmd()
	case focusPassword, focusCreate:
		return r.submit()
	case focusBack:
		next := r.onBack()
		return r, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	return r, nil
}

func (r *RegisterScreen) submit() (screen.Screen, tea.Cmd) {
	name := strings.TrimSpace(r.name.Value())
	email := strings.TrimSpace(r.email.Value())
	password := r.password.Value()

	switch {
	case name == "":
		r.errMsg = "Enter your name."
		return r, nil
	case email == "" || !strings.Contains(email, "@"):
		r.errMsg = "Enter a valid email address."
		return r, nil
	case len(password) < minPasswordLen:
		r.errMsg = "Password must be at least 8 characters."
		return r, nil
	}

	r.busy = true
	r.errMsg = ""
	authSvc := r.auth
	return r, func() tea.Msg {
		sess, err := authSvc.Register(context.Background(), name, email, password)
		if err != nil {
			return registerDoneMsg{Err: err}
		}
		return registerDoneMsg{Session: sess}
	}
}

func (r *RegisterScreen) focusCmd() tea.Cmd {
	switch r.focus {
	case focusName:
		return r.name.Init()
	case focusEmail:
		return r.email.Init()
	case focusPassword:
		return r.password.Init()
	}
	return nil
}

func (r *RegisterScreen) View(width, height int) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Join the quest"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Name"))
	b.WriteString("\n")
	b.WriteString(r.name.View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Email"))
	b.WriteString("\n")
	b.WriteString(r.email.View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Password"))
	b.WriteString("\n")
	b.WriteString(r.password.View())
	b.WriteString("\n\n")

	if r.busy {
		b.WriteString(theme.Hint.Render("Creating your account..."))
		b.WriteString("\n\n")
	} else if r.errMsg != "" {
		b.WriteString(theme.Incorrect.Render(r.errMsg))
		b.WriteString("\n\n")
	}

	create := components.NewButton("Create account", r.focus == focusCreate, nil)
	back := components.NewButton("Back to sign in", r.focus == focusBack, nil)

	b.WriteString(create.View())
	b.WriteString("   ")
	b.WriteString(back.View())

	card := theme.Card.Width(min(width-4, 56)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
