package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zabahd4k/bildy/internal/api"
	"github.com/zabahd4k/bildy/internal/ui/keys"
	"github.com/zabahd4k/bildy/internal/ui/styles"
	"go.uber.org/zap"
)

// Verified signals the email verification code was accepted.
type Verified struct{}

// VerifyView asks for the email verification code after registration.
type VerifyView struct {
	api *api.Client
	log *zap.SugaredLogger

	styles *styles.Styles
	keys   keys.KeyMap

	code textinput.Model

	submitting bool
	errMsg     string

	width  int
	height int
}

// NewVerifyView creates the verification form.
func NewVerifyView(apiClient *api.Client, log *zap.SugaredLogger) *VerifyView {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	code := textinput.New()
	code.Placeholder = "Verification code"
	code.CharLimit = 20
	code.Focus()

	return &VerifyView{
		api:    apiClient,
		log:    log,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		code:   code,
	}
}

func (v *VerifyView) Init() tea.Cmd {
	return textinput.Blink
}

type verifyResultMsg struct {
	ok  bool
	err error
}

func (v *VerifyView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case verifyResultMsg:
		v.submitting = false
		if msg.err != nil {
			v.log.Warnw("verification failed", "err", msg.err)
			v.errMsg = api.Describe(msg.err)
			return v, nil
		}
		if !msg.ok {
			v.errMsg = "Invalid verification code."
			return v, nil
		}
		return v, func() tea.Msg { return Verified{} }

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case msg.String() == "ctrl+r":
			return v, func() tea.Msg { return SwitchToLogin{} }

		case key.Matches(msg, v.keys.Enter):
			return v, v.submit()
		}

		var cmd tea.Cmd
		v.code, cmd = v.code.Update(msg)
		return v, cmd
	}

	return v, nil
}

func (v *VerifyView) submit() tea.Cmd {
	if v.submitting {
		return nil
	}

	code := strings.TrimSpace(v.code.Value())
	if code == "" {
		v.errMsg = "Enter the code from your email."
		return nil
	}

	v.errMsg = ""
	v.submitting = true

	apiClient := v.api
	return func() tea.Msg {
		ok, err := apiClient.Verify(context.Background(), code)
		return verifyResultMsg{ok: ok, err: err}
	}
}

func (v *VerifyView) View() string {
	s := v.styles

	label := " Verify "
	if v.submitting {
		label = " Verifying... "
	}

	parts := []string{
		s.Title.Render("Verify Your Email"),
		"",
		s.TitleMuted.Render("We sent a verification code to your inbox."),
		"",
		s.InputFocused.Render(v.code.View()),
		"",
		s.Button.Render(label),
	}
	if v.errMsg != "" {
		parts = append(parts, "", s.ErrorText.Render(v.errMsg))
	}
	parts = append(parts, "", s.TitleMuted.Render("Enter: verify • Ctrl+R: back to sign in"))

	form := lipgloss.JoinVertical(lipgloss.Center, parts...)
	return lipgloss.Place(max(v.width, 1), max(v.height, 1),
		lipgloss.Center, lipgloss.Center,
		form,
	)
}
