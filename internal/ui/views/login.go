package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zabahd4k/bildy/internal/api"
	"github.com/zabahd4k/bildy/internal/session"
	"github.com/zabahd4k/bildy/internal/ui/keys"
	"github.com/zabahd4k/bildy/internal/ui/styles"
	"go.uber.org/zap"
)

// LoggedIn signals a successful login or verification; the root model
// persists the session and opens the dashboard.
type LoggedIn struct {
	Session session.Session
}

// SwitchToRegister signals navigation to the registration screen.
type SwitchToRegister struct{}

// LoginView is the sign-in form.
type LoginView struct {
	api *api.Client
	log *zap.SugaredLogger

	styles *styles.Styles
	keys   keys.KeyMap

	email    textinput.Model
	password textinput.Model
	focusIdx int // 0=email, 1=password, 2=submit

	submitting bool
	errMsg     string

	width  int
	height int
}

// NewLoginView creates the login form.
func NewLoginView(apiClient *api.Client, log *zap.SugaredLogger) *LoginView {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 100
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginView{
		api:      apiClient,
		log:      log,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		email:    email,
		password: password,
	}
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

type loginResultMsg struct {
	result api.LoginResult
	err    error
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case loginResultMsg:
		v.submitting = false
		if msg.err != nil {
			v.log.Warnw("login failed", "err", msg.err)
			v.errMsg = api.Describe(msg.err)
			return v, nil
		}
		sess := session.Session{Token: msg.result.Token, Email: msg.result.Email}
		return v, func() tea.Msg { return LoggedIn{Session: sess} }

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case msg.String() == "ctrl+r":
			return v, func() tea.Msg { return SwitchToRegister{} }

		case msg.String() == "shift+tab":
			v.focusIdx = (v.focusIdx + 2) % 3
			v.updateFocus()
			return v, textinput.Blink

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % 3
			v.updateFocus()
			return v, textinput.Blink

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < 2 {
				v.focusIdx++
				v.updateFocus()
				return v, textinput.Blink
			}
			return v, v.submit()
		}

		var cmd tea.Cmd
		switch v.focusIdx {
		case 0:
			v.email, cmd = v.email.Update(msg)
		case 1:
			v.password, cmd = v.password.Update(msg)
		}
		return v, cmd
	}

	return v, nil
}

func (v *LoginView) updateFocus() {
	v.email.Blur()
	v.password.Blur()
	switch v.focusIdx {
	case 0:
		v.email.Focus()
	case 1:
		v.password.Focus()
	}
}

func (v *LoginView) submit() tea.Cmd {
	if v.submitting {
		return nil
	}

	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if email == "" || password == "" {
		v.errMsg = "Email and password are required."
		return nil
	}

	v.errMsg = ""
	v.submitting = true

	apiClient := v.api
	return func() tea.Msg {
		result, err := apiClient.Login(context.Background(), email, password)
		return loginResultMsg{result: result, err: err}
	}
}

func (v *LoginView) View() string {
	s := v.styles

	emailStyle, passwordStyle, btnStyle := s.Input, s.Input, s.Button
	switch v.focusIdx {
	case 0:
		emailStyle = s.InputFocused
	case 1:
		passwordStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	label := " Sign In "
	if v.submitting {
		label = " Signing in... "
	}

	parts := []string{
		s.Title.Render("Sign in to Bildy"),
		"",
		emailStyle.Render(v.email.View()),
		passwordStyle.Render(v.password.View()),
		"",
		btnStyle.Render(label),
	}
	if v.errMsg != "" {
		parts = append(parts, "", s.ErrorText.Render(v.errMsg))
	}
	parts = append(parts, "", s.TitleMuted.Render("Ctrl+R: register • Ctrl+C: quit"))

	form := lipgloss.JoinVertical(lipgloss.Center, parts...)
	return lipgloss.Place(max(v.width, 1), max(v.height, 1),
		lipgloss.Center, lipgloss.Center,
		form,
	)
}
