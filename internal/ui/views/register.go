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

// Registered signals a successful registration; the root model persists the
// session and moves on to email verification.
type Registered struct {
	Session session.Session
}

// SwitchToLogin signals navigation back to the sign-in screen.
type SwitchToLogin struct{}

// RegisterView is the account creation form.
type RegisterView struct {
	api *api.Client
	log *zap.SugaredLogger

	styles *styles.Styles
	keys   keys.KeyMap

	email    textinput.Model
	password textinput.Model
	focusIdx int

	submitting bool
	errMsg     string

	width  int
	height int
}

// NewRegisterView creates the registration form.
func NewRegisterView(apiClient *api.Client, log *zap.SugaredLogger) *RegisterView {
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

	return &RegisterView{
		api:      apiClient,
		log:      log,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		email:    email,
		password: password,
	}
}

func (v *RegisterView) Init() tea.Cmd {
	return textinput.Blink
}

type registerResultMsg struct {
	result api.LoginResult
	err    error
}

func (v *RegisterView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case registerResultMsg:
		v.submitting = false
		if msg.err != nil {
			v.log.Warnw("registration failed", "err", msg.err)
			v.errMsg = api.Describe(msg.err)
			return v, nil
		}
		sess := session.Session{Token: msg.result.Token, Email: msg.result.Email}
		return v, func() tea.Msg { return Registered{Session: sess} }

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case msg.String() == "ctrl+r":
			return v, func() tea.Msg { return SwitchToLogin{} }

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

func (v *RegisterView) updateFocus() {
	v.email.Blur()
	v.password.Blur()
	switch v.focusIdx {
	case 0:
		v.email.Focus()
	case 1:
		v.password.Focus()
	}
}

func (v *RegisterView) submit() tea.Cmd {
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
		result, err := apiClient.Register(context.Background(), email, password)
		return registerResultMsg{result: result, err: err}
	}
}

func (v *RegisterView) View() string {
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

	label := " Create Account "
	if v.submitting {
		label = " Creating... "
	}

	parts := []string{
		s.Title.Render("Create a Bildy account"),
		"",
		emailStyle.Render(v.email.View()),
		passwordStyle.Render(v.password.View()),
		"",
		btnStyle.Render(label),
	}
	if v.errMsg != "" {
		parts = append(parts, "", s.ErrorText.Render(v.errMsg))
	}
	parts = append(parts, "", s.TitleMuted.Render("Ctrl+R: back to sign in • Ctrl+C: quit"))

	form := lipgloss.JoinVertical(lipgloss.Center, parts...)
	return lipgloss.Place(max(v.width, 1), max(v.height, 1),
		lipgloss.Center, lipgloss.Center,
		form,
	)
}
