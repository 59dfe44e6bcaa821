package login

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/harmonyquest/harmonyquest/internal/auth"
	"github.com/harmonyquest/harmonyquest/internal/progress"
	"github.com/harmonyquest/harmonyquest/internal/router"
	"github.com/harmonyquest/harmonyquest/internal/screen"
	"github.com/harmonyquest/harmonyquest/internal/ui/components"
	"github.com/harmonyquest/harmonyquest/internal/ui/layout"
	"github.com/harmonyquest/harmonyquest/internal/ui/theme"
)

// Focusable fields, in tab order.
const (
	focusEmail = iota
	focusPassword
	focusSignIn
	focusRegister
	focusOffline
	focusCount
)

type loginDoneMsg struct {
	Session *auth.Session
	Err     error
}

// LoginScreen collects credentials and signs the user in. On success it
// pulls the user's remote progress and replaces itself with the screen
// produced by onSuccess.
type LoginScreen struct {
	auth     *auth.Service
	progress *progress.Store

	onSuccess  func(sess *auth.Session) screen.Screen
	onRegister func() screen.Screen

	email    components.TextInput
	password components.TextInput
	focus    int
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen.
func New(authSvc *auth.Service, progressStore *progress.Store, onSuccess func(*auth.Session) screen.Screen, onRegister func() screen.Screen) *LoginScreen {
	return &LoginScreen{
		auth:       authSvc,
		progress:   progressStore,
		onSuccess:  onSuccess,
		onRegister: onRegister,
		email:      components.NewTextInput("you@example.com", false, 100),
		password:   components.NewTextInput("password", true, 100),
	}
}

func (l *LoginScreen) Title() string {
	return "Sign In"
}

func (l *LoginScreen) Init() tea.Cmd {
	return l.email.Init()
}

func (l *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (l *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		l.busy = false
		if msg.Err != nil {
			l.errMsg = auth.UserMessage(msg.Err)
			return l, nil
		}
		next := l.onSuccess(msg.Session)
		return l, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if l.busy {
			return l, nil
		}
		switch msg.String() {
		case "tab", "down":
			l.focus = (l.focus + 1) % focusCount
			return l, l.focusCmd()
		case "shift+tab", "up":
			l.focus = (l.focus - 1 + focusCount) % focusCount
			return l, l.focusCmd()
		case "enter":
			return l.handleEnter()
		}
	}

	if l.busy {
		return l, nil
	}

	var cmd tea.Cmd
	switch l.focus {
	case focusEmail:
		l.email, cmd = l.email.Update(msg)
	case focusPassword:
		l.password, cmd = l.password.Update(msg)
	}
	return l, cmd
}

func (l *LoginScreen) handleEnter() (screen.Screen, tea.Cmd) {
	switch l.focus {
	case focusEmail:
		l.focus = focusPassword
		return l, l.focusCmd()
	case focusPassword, focusSignIn:
		return l.submit()
	case focusRegister:
		next := l.onRegister()
		return l, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	case focusOffline:
		next := l.onSuccess(nil)
		return l, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	return l, nil
}

func (l *LoginScreen) submit() (screen.Screen, tea.Cmd) {
	email := strings.TrimSpace(l.email.Value())
	password := l.password.Value()
	if email == "" || password == "" {
		l.errMsg = "Enter your email and password."
		return l, nil
	}

	l.busy = true
	l.errMsg = ""
	authSvc := l.auth
	progressStore := l.progress
	return l, func() tea.Msg {
		ctx := context.Background()
		sess, err := authSvc.Login(ctx, email, password)
		if err != nil {
			return loginDoneMsg{Err: err}
		}
		// Pull remote progress; a failed pull leaves a clean local slate.
		_ = progressStore.LoadUserProgress(ctx, sess.UserID, sess.Token)
		return loginDoneMsg{Session: sess}
	}
}

// focusCmd re-focuses the active text input after a focus change.
func (l *LoginScreen) focusCmd() tea.Cmd {
	switch l.focus {
	case focusEmail:
		return l.email.Init()
	case focusPassword:
		return l.password.Init()
	}
	return nil
}

func (l *LoginScreen) View(width, height int) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Welcome back"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Email"))
	b.WriteString("\n")
	b.WriteString(l.email.View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Password"))
	b.WriteString("\n")
	b.WriteString(l.password.View())
	b.WriteString("\n\n")

	if l.busy {
		b.WriteString(theme.Hint.Render("Signing in..."))
		b.WriteString("\n\n")
	} else if l.errMsg != "" {
		b.WriteString(theme.Incorrect.Render(l.errMsg))
		b.WriteString("\n\n")
	}

	signIn := components.NewButton("Sign in", l.focus == focusSignIn, nil)
	register := components.NewButton("Create an account", l.focus == focusRegister, nil)
	offline := components.NewButton("Continue offline", l.focus == focusOffline, nil)

	b.WriteString(signIn.View())
	b.WriteString("\n\n")
	b.WriteString(register.View())
	b.WriteString("   ")
	b.WriteString(offline.View())

	card := theme.Card.Width(min(width-4, 56)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
