package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zabahd4k/bildy/internal/api"
	"github.com/zabahd4k/bildy/internal/session"
	"github.com/zabahd4k/bildy/internal/ui/views"
	"go.uber.org/zap"
)

// Currently active screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenVerify
	ScreenDashboard
)

// App is the root model. It owns the session lifecycle: views announce
// auth transitions via messages, and the App persists or clears the session
// and swaps the active screen. Views never touch the store themselves.
type App struct {
	api   *api.Client
	store *session.Store
	kinds []api.Kind
	log   *zap.SugaredLogger

	screen    Screen
	login     *views.LoginView
	register  *views.RegisterView
	verify    *views.VerifyView
	dashboard *views.DashboardView

	sess   session.Session
	width  int
	height int
}

// NewApp creates the application. A persisted session skips straight to the
// dashboard; its validity is only discovered when the API rejects a call.
func NewApp(apiClient *api.Client, store *session.Store, kinds []api.Kind, log *zap.SugaredLogger) *App {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	a := &App{
		api:    apiClient,
		store:  store,
		kinds:  kinds,
		log:    log,
		screen: ScreenLogin,
		login:  views.NewLoginView(apiClient, log),
	}

	sess, ok, err := store.Load()
	if err != nil {
		log.Errorw("loading session", "err", err)
	}
	if ok {
		a.sess = sess
		a.screen = ScreenDashboard
		a.dashboard = views.NewDashboardView(apiClient, sess, kinds, log)
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return a.activeView().Init()
}

func (a *App) activeView() tea.Model {
	switch a.screen {
	case ScreenRegister:
		return a.register
	case ScreenVerify:
		return a.verify
	case ScreenDashboard:
		return a.dashboard
	}
	return a.login
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Every live view tracks the size so screen swaps render correctly.
		a.login.Update(msg)
		if a.register != nil {
			a.register.Update(msg)
		}
		if a.verify != nil {
			a.verify.Update(msg)
		}
		if a.dashboard != nil {
			a.dashboard.Update(msg)
		}
		return a, nil

	case views.LoggedIn:
		a.setSession(msg.Session)
		return a, a.openDashboard()

	case views.Registered:
		a.setSession(msg.Session)
		a.screen = ScreenVerify
		a.verify = views.NewVerifyView(a.api, a.log)
		return a, a.verify.Init()

	case views.Verified:
		return a, a.openDashboard()

	case views.SwitchToRegister:
		a.screen = ScreenRegister
		a.register = views.NewRegisterView(a.api, a.log)
		return a, a.register.Init()

	case views.SwitchToLogin:
		a.screen = ScreenLogin
		a.login = views.NewLoginView(a.api, a.log)
		return a, a.login.Init()

	case views.LoggedOut:
		if err := a.store.Clear(); err != nil {
			a.log.Errorw("clearing session", "err", err)
		}
		a.sess = session.Session{}
		a.dashboard = nil
		a.screen = ScreenLogin
		a.login = views.NewLoginView(a.api, a.log)
		return a, a.login.Init()
	}

	var cmd tea.Cmd
	_, cmd = a.activeView().Update(msg)
	return a, cmd
}

// setSession records the session and persists it so the next start can skip
// the sign-in screen.
func (a *App) setSession(sess session.Session) {
	a.sess = sess
	if err := a.store.Save(sess); err != nil {
		a.log.Errorw("saving session", "err", err)
	}
}

func (a *App) openDashboard() tea.Cmd {
	a.screen = ScreenDashboard
	a.dashboard = views.NewDashboardView(a.api, a.sess, a.kinds, a.log)
	return tea.Batch(
		a.dashboard.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) View() string {
	return a.activeView().View()
}
