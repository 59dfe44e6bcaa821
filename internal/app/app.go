package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/harmonyquest/harmonyquest/internal/auth"
	"github.com/harmonyquest/harmonyquest/internal/etiquette"
	"github.com/harmonyquest/harmonyquest/internal/lessons"
	"github.com/harmonyquest/harmonyquest/internal/progress"
	"github.com/harmonyquest/harmonyquest/internal/router"
	"github.com/harmonyquest/harmonyquest/internal/screen"
	"github.com/harmonyquest/harmonyquest/internal/screens/home"
	"github.com/harmonyquest/harmonyquest/internal/screens/login"
	"github.com/harmonyquest/harmonyquest/internal/screens/register"
	"github.com/harmonyquest/harmonyquest/internal/screens/welcome"
	"github.com/harmonyquest/harmonyquest/internal/ui/layout"
)

// Options carries the services the TUI needs. Etiquette is nil when no
// model provider is configured; Session is nil when signed out.
type Options struct {
	Progress  *progress.Store
	Auth      *auth.Service
	Lessons   *lessons.Service
	Etiquette *etiquette.Service
	Session   *auth.Session
}

// backendSeededMsg reports the startup progress re-seed from the
// backend.
type backendSeededMsg struct {
	err error
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	progress *progress.Store
	seed     tea.Cmd
	width    int
	height   int
}

// newAppModel builds the screen graph. Screens that replace each other
// (login, register, home) are created through factories so none of them
// imports the others' packages.
func newAppModel(opts Options) AppModel {
	var loginFactory, registerFactory func() screen.Screen

	homeFor := func(sess *auth.Session) screen.Screen {
		return home.New(opts.Progress, opts.Lessons, opts.Etiquette, opts.Auth, sess, func() screen.Screen {
			return loginFactory()
		})
	}
	loginFactory = func() screen.Screen {
		return login.New(opts.Auth, opts.Progress, homeFor, func() screen.Screen {
			return registerFactory()
		})
	}
	registerFactory = func() screen.Screen {
		return register.New(opts.Auth, homeFor, loginFactory)
	}

	start := welcome.New(func() screen.Screen {
		if opts.Session != nil {
			return homeFor(opts.Session)
		}
		return loginFactory()
	})

	m := AppModel{
		router:   router.New(start),
		progress: opts.Progress,
	}

	// A signed-in launch re-seeds progress from the backend, the same
	// as a fresh login. The header reads the store on every render, so
	// the fetched numbers replace the locally cached ones as soon as
	// the result lands.
	if opts.Session != nil {
		sess := *opts.Session
		progStore := opts.Progress
		m.seed = func() tea.Msg {
			return backendSeededMsg{
				err: progStore.LoadUserProgress(context.Background(), sess.UserID, sess.Token),
			}
		}
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if active := m.router.Active(); active != nil {
		cmds = append(cmds, active.Init())
	}
	if m.seed != nil {
		cmds = append(cmds, m.seed)
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case backendSeededMsg:
		if msg.err != nil {
			fmt.Fprintln(os.Stderr, "warning: could not pull remote progress:", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.progress.XP(), m.progress.Streak(), m.width)

	footerHints := m.footerHints(active)
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// footerHints asks the active screen for hints, falling back to a
// generic set based on stack depth.
func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if provider, ok := active.(screen.KeyHintProvider); ok {
		if hints := provider.KeyHints(); len(hints) > 0 {
			return hints
		}
	}

	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
