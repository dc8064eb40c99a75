package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zabahd4k/bildy/internal/api"
	"github.com/zabahd4k/bildy/internal/session"
	"github.com/zabahd4k/bildy/internal/ui/keys"
	"github.com/zabahd4k/bildy/internal/ui/styles"
	"go.uber.org/zap"
)

func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// phase is the list state machine: Idle until first activation, then
// Loading -> {Loaded, Failed}, re-entering Loading on every activation
// and after a create under the refetch policy.
type phase int

const (
	phaseIdle phase = iota
	phaseLoading
	phaseLoaded
	phaseFailed
)

// ResourceView is the list-and-create screen for one resource kind.
// The same view renders every kind; behavior differences live in the
// kind descriptor.
type ResourceView struct {
	api  *api.Client
	sess session.Session
	kind api.Kind
	log  *zap.SugaredLogger

	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	phase   phase
	rows    []api.Row
	errMsg  string
	cursor  int
	scrollY int
	spinner spinner.Model

	// gen tags every fetch; a response is applied only when its generation
	// still matches, so a slow fetch cannot overwrite a fresher one.
	gen int

	// Create form state
	creating   bool
	inputs     []textinput.Model
	focusIdx   int // len(inputs) = submit button
	formErr    string
	submitting bool
}

// NewResourceView creates the view for one resource kind.
func NewResourceView(apiClient *api.Client, sess session.Session, kind api.Kind, log *zap.SugaredLogger) *ResourceView {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	inputs := make([]textinput.Model, len(kind.Fields))
	for i, f := range kind.Fields {
		in := textinput.New()
		in.Placeholder = f.Placeholder
		in.CharLimit = 200
		inputs[i] = in
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &ResourceView{
		api:     apiClient,
		sess:    sess,
		kind:    kind,
		log:     log,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		spinner: sp,
		inputs:  inputs,
	}
}

// Init activates the view.
func (v *ResourceView) Init() tea.Cmd {
	return v.Activate()
}

// Activate clears any previous error, transitions to Loading, and issues a
// generation-tagged fetch of the collection.
func (v *ResourceView) Activate() tea.Cmd {
	v.gen++
	v.phase = phaseLoading
	v.errMsg = ""
	return tea.Batch(v.spinner.Tick, v.load(v.gen))
}

// Creating reports whether the create form is open.
func (v *ResourceView) Creating() bool {
	return v.creating
}

// Rows returns the currently displayed collection.
func (v *ResourceView) Rows() []api.Row {
	return v.rows
}

type listLoadedMsg struct {
	kind string
	gen  int
	rows []api.Row
}

type listFailedMsg struct {
	kind string
	gen  int
	err  error
}

type createDoneMsg struct {
	kind string
	row  api.Row
	err  error
}

func (v *ResourceView) load(gen int) tea.Cmd {
	apiClient, sess, kind := v.api, v.sess, v.kind
	return func() tea.Msg {
		rows, err := kind.List(context.Background(), apiClient, sess)
		if err != nil {
			return listFailedMsg{kind: kind.Name, gen: gen, err: err}
		}
		return listLoadedMsg{kind: kind.Name, gen: gen, rows: rows}
	}
}

// Update handles messages
func (v *ResourceView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		inputWidth := clamp(styles.ContentWidth(v.width)-10, 20, 50)
		for i := range v.inputs {
			v.inputs[i].Width = inputWidth
		}
		return v, nil

	case spinner.TickMsg:
		if v.phase == phaseLoading || v.submitting {
			var cmd tea.Cmd
			v.spinner, cmd = v.spinner.Update(msg)
			return v, cmd
		}
		return v, nil

	case listLoadedMsg:
		if msg.kind != v.kind.Name || msg.gen != v.gen {
			// Stale fetch; a newer one is already in flight or applied.
			return v, nil
		}
		v.rows = msg.rows
		v.phase = phaseLoaded
		v.cursor = clamp(v.cursor, 0, max(0, len(v.rows)-1))
		v.ensureVisible()
		return v, nil

	case listFailedMsg:
		if msg.kind != v.kind.Name || msg.gen != v.gen {
			return v, nil
		}
		v.log.Errorw("list fetch failed", "kind", v.kind.Name, "err", msg.err)
		v.phase = phaseFailed
		v.errMsg = api.Describe(msg.err)
		return v, nil

	case createDoneMsg:
		if msg.kind != v.kind.Name {
			return v, nil
		}
		v.submitting = false
		if msg.err != nil {
			// Keep the form open with the user's input intact.
			v.log.Errorw("create failed", "kind", v.kind.Name, "err", msg.err)
			v.formErr = api.Describe(msg.err)
			return v, nil
		}
		v.closeForm()
		if v.kind.CreatePolicy == api.PolicyAppend {
			v.rows = append(v.rows, msg.row)
			v.phase = phaseLoaded
			return v, nil
		}
		// Refetch so server-assigned and derived fields show up.
		return v, v.Activate()

	case tea.KeyMsg:
		if v.creating {
			return v.updateCreating(msg)
		}
		return v.updateBrowsing(msg)
	}

	return v, nil
}

func (v *ResourceView) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Refresh):
		return v, v.Activate()

	case key.Matches(msg, v.keys.New):
		v.openForm()
		return v, textinput.Blink
	}
	return v, nil
}

func (v *ResourceView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		if v.submitting {
			return v, nil
		}
		// Cancel discards the draft.
		v.closeForm()
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.submit()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + len(v.inputs)) % (len(v.inputs) + 1)
		v.updateFocus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % (len(v.inputs) + 1)
		v.updateFocus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < len(v.inputs) {
			v.focusIdx++
			v.updateFocus()
			return v, textinput.Blink
		}
		return v, v.submit()
	}

	if v.focusIdx < len(v.inputs) {
		var cmd tea.Cmd
		v.inputs[v.focusIdx], cmd = v.inputs[v.focusIdx].Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *ResourceView) openForm() {
	v.creating = true
	v.focusIdx = 0
	v.formErr = ""
	for i := range v.inputs {
		v.inputs[i].Reset()
	}
	v.updateFocus()
}

func (v *ResourceView) closeForm() {
	v.creating = false
	v.formErr = ""
	for i := range v.inputs {
		v.inputs[i].Reset()
		v.inputs[i].Blur()
	}
}

func (v *ResourceView) updateFocus() {
	for i := range v.inputs {
		if i == v.focusIdx {
			v.inputs[i].Focus()
		} else {
			v.inputs[i].Blur()
		}
	}
}

func (v *ResourceView) values() map[string]string {
	values := make(map[string]string, len(v.kind.Fields))
	for i, f := range v.kind.Fields {
		values[f.Name] = v.inputs[i].Value()
	}
	return values
}

// submit validates the draft locally and, only if every rule passes, issues
// the create request. The submit control stays disabled while one is
// outstanding.
func (v *ResourceView) submit() tea.Cmd {
	if v.submitting {
		return nil
	}

	values := v.values()
	if err := v.kind.Validate(values); err != nil {
		v.formErr = api.Describe(err)
		return nil
	}

	v.formErr = ""
	v.submitting = true

	apiClient, sess, kind := v.api, v.sess, v.kind
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		row, err := kind.Create(context.Background(), apiClient, sess, values)
		return createDoneMsg{kind: kind.Name, row: row, err: err}
	})
}

func (v *ResourceView) visibleRows() int {
	// Header, status and help lines take a fixed share of the height.
	return max(1, (v.height-8)/2)
}

func (v *ResourceView) ensureVisible() {
	visible := v.visibleRows()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	}
	if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// View renders the view
func (v *ResourceView) View() string {
	if v.creating {
		return v.renderCreateForm()
	}
	return v.renderList()
}

func (v *ResourceView) renderList() string {
	s := v.styles

	var body string
	switch v.phase {
	case phaseIdle, phaseLoading:
		body = s.Loading.Render(v.spinner.View() + " Loading " + v.kind.Title + "...")
	case phaseFailed:
		body = s.ErrorText.Render(v.errMsg)
	case phaseLoaded:
		if len(v.rows) == 0 {
			body = s.TitleMuted.Render("No " + v.kind.Title + " yet. Press 'n' to add one.")
		} else {
			body = v.renderRows()
		}
	}

	title := s.Title.Render(v.kind.Title)
	if v.phase == phaseLoaded {
		title += s.TitleMuted.Render(fmt.Sprintf("  (%d)", len(v.rows)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		body,
		"",
		v.renderHelp(),
	)
}

func (v *ResourceView) renderRows() string {
	s := v.styles
	visible := v.visibleRows()
	end := min(v.scrollY+visible, len(v.rows))

	var lines []string
	for i := v.scrollY; i < end; i++ {
		row := v.rows[i]
		if i == v.cursor {
			lines = append(lines, s.ListSelected.Render(row.Title))
		} else {
			lines = append(lines, s.ListItem.Render(row.Title))
		}
		if row.Detail != "" {
			lines = append(lines, s.ListDetail.Render(row.Detail))
		}
	}
	if end < len(v.rows) {
		lines = append(lines, s.TitleMuted.Render(fmt.Sprintf("  … %d more", len(v.rows)-end)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *ResourceView) renderCreateForm() string {
	s := v.styles

	parts := []string{s.Title.Render("New " + v.kind.Title), ""}
	for i, f := range v.kind.Fields {
		inputStyle := s.Input
		if i == v.focusIdx {
			inputStyle = s.InputFocused
		}
		parts = append(parts, f.Name+":", inputStyle.Render(v.inputs[i].View()))
	}

	btn := s.Button
	if v.focusIdx == len(v.inputs) {
		btn = s.ButtonFocused
	}
	label := " Create "
	if v.submitting {
		label = " " + v.spinner.View() + " Saving... "
	}
	parts = append(parts, "", btn.Render(label))

	if v.formErr != "" {
		parts = append(parts, "", s.ErrorText.Render(v.formErr))
	}
	parts = append(parts, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *ResourceView) renderHelp() string {
	s := v.styles
	return s.Help.Render(fmt.Sprintf("%s new • %s refresh • %s/%s move • %s quit",
		s.HelpKey.Render("n"),
		s.HelpKey.Render("r"),
		s.HelpKey.Render("↑"),
		s.HelpKey.Render("↓"),
		s.HelpKey.Render("q"),
	))
}
