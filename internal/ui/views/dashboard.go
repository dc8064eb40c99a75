package views

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zabahd4k/bildy/internal/api"
	"github.com/zabahd4k/bildy/internal/session"
	"github.com/zabahd4k/bildy/internal/ui/keys"
	"github.com/zabahd4k/bildy/internal/ui/styles"
	"go.uber.org/zap"
)

// LoggedOut signals the user logged out; the root model clears the persisted
// session and returns to the sign-in screen.
type LoggedOut struct{}

const sidebarWidth = 20

// DashboardView hosts the sidebar menu and one resource view per kind.
// Switching the menu re-activates the selected view, which re-fetches its
// collection; there is no cross-view cache.
type DashboardView struct {
	sess  session.Session
	kinds []api.Kind
	views []*ResourceView

	styles *styles.Styles
	keys   keys.KeyMap

	active int
	width  int
	height int
}

// NewDashboardView creates the dashboard for an authenticated session.
func NewDashboardView(apiClient *api.Client, sess session.Session, kinds []api.Kind, log *zap.SugaredLogger) *DashboardView {
	views := make([]*ResourceView, len(kinds))
	for i, k := range kinds {
		views[i] = NewResourceView(apiClient, sess, k, log)
	}

	return &DashboardView{
		sess:   sess,
		kinds:  kinds,
		views:  views,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

// Init activates the first resource view.
func (d *DashboardView) Init() tea.Cmd {
	if len(d.views) == 0 {
		return nil
	}
	return d.views[d.active].Activate()
}

// ActiveView returns the currently selected resource view.
func (d *DashboardView) ActiveView() *ResourceView {
	return d.views[d.active]
}

func (d *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		// Resource views get the content area next to the sidebar.
		child := tea.WindowSizeMsg{Width: max(msg.Width-sidebarWidth-2, 20), Height: max(msg.Height-2, 5)}
		for _, v := range d.views {
			v.Update(child)
		}
		return d, nil

	case tea.KeyMsg:
		// Menu navigation only while the active view is browsing;
		// while a form is open every key belongs to the form.
		if !d.views[d.active].Creating() {
			switch {
			case key.Matches(msg, d.keys.Logout):
				return d, func() tea.Msg { return LoggedOut{} }

			case msg.String() == "left":
				return d, d.switchTo((d.active + len(d.views) - 1) % len(d.views))

			case msg.String() == "right":
				return d, d.switchTo((d.active + 1) % len(d.views))
			}

			if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(d.views) {
				return d, d.switchTo(n - 1)
			}
		}
	}

	var cmd tea.Cmd
	_, cmd = d.views[d.active].Update(msg)
	return d, cmd
}

// switchTo changes the active kind and re-activates its view so the
// collection is freshly fetched on every switch.
func (d *DashboardView) switchTo(idx int) tea.Cmd {
	if idx == d.active {
		return nil
	}
	d.active = idx
	return d.views[d.active].Activate()
}

func (d *DashboardView) View() string {
	s := d.styles

	header := d.renderHeader()
	sidebar := d.renderSidebar()
	content := lipgloss.NewStyle().Padding(1, 2).Render(d.views[d.active].View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
	help := s.Help.Render(fmt.Sprintf("%s/%s or %s switch • %s logout",
		s.HelpKey.Render("←"),
		s.HelpKey.Render("→"),
		s.HelpKey.Render("1-4"),
		s.HelpKey.Render("ctrl+l"),
	))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
}

func (d *DashboardView) renderHeader() string {
	s := d.styles
	title := s.Header.Render(" Bildy ")
	user := s.HeaderUser.Render("User: " + d.sess.Email)

	gap := max(d.width-lipgloss.Width(title)-lipgloss.Width(user), 0)
	filler := s.Header.Render(lipgloss.PlaceHorizontal(gap, lipgloss.Left, ""))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, filler, user)
}

func (d *DashboardView) renderSidebar() string {
	s := d.styles

	var items []string
	for i, k := range d.kinds {
		label := fmt.Sprintf("%d %s", i+1, k.Title)
		if i == d.active {
			items = append(items, s.MenuSelected.Render(label))
		} else {
			items = append(items, s.MenuItem.Render(label))
		}
	}

	menu := lipgloss.JoinVertical(lipgloss.Left, items...)
	return s.Sidebar.Width(sidebarWidth).Height(max(d.height-3, len(items))).Render(menu)
}
