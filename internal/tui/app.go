// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for wayfinder.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fieldops/wayfinder/internal/catalog"
	"github.com/fieldops/wayfinder/internal/config"
	"github.com/fieldops/wayfinder/internal/consultlog"
	"github.com/fieldops/wayfinder/internal/logbook"
	"github.com/fieldops/wayfinder/internal/navigator"
	"github.com/fieldops/wayfinder/internal/permission"
	"github.com/fieldops/wayfinder/internal/routing"
	"github.com/fieldops/wayfinder/internal/rules"
)

const (
	logTailLines  = 6
	recentEntries = 5
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithRole overrides the configured role pin (e.g. from a -role flag).
func WithRole(role catalog.RoleKey) AppOption {
	return func(a *App) {
		if strings.TrimSpace(string(role)) != "" {
			a.role = role
		}
	}
}

// WithUserRef overrides the configured operator identifier.
func WithUserRef(ref string) AppOption {
	return func(a *App) {
		if strings.TrimSpace(ref) != "" {
			a.userRef = strings.TrimSpace(ref)
		}
	}
}

// WithStore injects a consultation store, bypassing the configured backend.
func WithStore(store consultlog.Store) AppOption {
	return func(a *App) {
		if store != nil {
			a.store = store
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	config  *config.Config
	nav     *navigator.Navigator
	store   consultlog.Store
	logbook *logbook.Logbook

	role    catalog.RoleKey
	userRef string

	session navigator.Session
	view    navigator.View

	options list.Model

	showLog    bool
	showRecent bool
	statusMsg  string

	width  int
	height int
}

// optionItem implements list.Item for navigator options.
type optionItem struct {
	key   string
	label string
}

func (i optionItem) Title() string       { return i.label }
func (i optionItem) Description() string { return i.key }
func (i optionItem) FilterValue() string { return i.label }

// NewApp creates a new App instance wired to the state under workDir.
func NewApp(workDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(workDir)
	if err != nil {
		return nil, err
	}

	table, err := rules.TableFromDir(cfg.RulePackDir())
	if err != nil {
		return nil, fmt.Errorf("tui: load rule packs: %w", err)
	}
	matrix := permission.NewMatrix(table)
	policy, err := routing.NewPolicy(cfg.Timezone())
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	app := &App{
		config:  cfg,
		role:    cfg.Role(),
		userRef: cfg.UserRef(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}

	if app.store == nil {
		store, err := consultlog.Open(cfg.LogBackend(), cfg.ConsultationsDir())
		if err != nil {
			return nil, fmt.Errorf("tui: open consultation log: %w", err)
		}
		app.store = store
	}

	nav, err := navigator.New(matrix, table, policy, app.store)
	if err != nil {
		return nil, err
	}
	app.nav = nav

	logPath := filepath.Join(cfg.LogsDir(), "sessions.log")
	if lb, err := logbook.New(logPath); err == nil {
		app.logbook = lb
	}

	menu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "⬡ WAYFINDER"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	app.options = menu

	app.session, app.view = app.nav.StartSession(app.role, app.userRef)
	app.syncOptions()
	app.logInfo("Session opened · role=%s phase=%s", roleLabel(app.session.Role), app.session.Phase)

	return app, nil
}

// Close releases the consultation log backend.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.options.SetSize(max(0, msg.Width-6), max(0, msg.Height-14))
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.session.Phase == navigator.PhaseEnded {
				return a, tea.Quit
			}
		case "tab":
			a.showLog = !a.showLog
			return a, nil
		case "c":
			a.showRecent = !a.showRecent
			return a, nil
		case "esc":
			a.goBack()
			return a, nil
		case "r":
			a.reset()
			return a, nil
		case "enter":
			if a.session.Phase == navigator.PhaseEnded {
				a.reset()
				return a, nil
			}
			if item, ok := a.options.SelectedItem().(optionItem); ok {
				a.selectKey(item.key)
			}
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.options, cmd = a.options.Update(msg)
	return a, cmd
}

// selectKey feeds one option to the navigator and refreshes the screen.
func (a *App) selectKey(key string) {
	before := a.session.Phase
	a.session, a.view = a.nav.SelectOption(a.session, key)
	if a.view.Invalid {
		a.statusMsg = "That choice is not available."
		return
	}
	a.statusMsg = ""
	a.syncOptions()
	if before != a.session.Phase {
		a.logInfo("Phase %s -> %s (chose %q)", before, a.session.Phase, key)
	}
	if a.session.Phase == navigator.PhaseEnded {
		if a.session.Committed {
			a.logInfo("Consultation committed · step=%d issue=%s", a.session.CurrentStepID, a.session.Issue)
		} else {
			a.logError("Consultation commit failed: %s", a.session.CommitErr)
		}
	}
}

func (a *App) goBack() {
	target, ok := backTarget(a.session)
	if !ok {
		a.statusMsg = "Nothing to go back to."
		return
	}
	a.session, a.view = a.nav.GoBack(a.session, target)
	if a.view.Invalid {
		a.statusMsg = "Cannot go back from here."
		return
	}
	a.statusMsg = ""
	a.syncOptions()
}

func (a *App) reset() {
	a.session, a.view = a.nav.Reset(a.session)
	a.statusMsg = ""
	a.syncOptions()
	a.logInfo("Session reset · phase=%s", a.session.Phase)
}

// backTarget maps the current phase to its documented back edge.
func backTarget(session navigator.Session) (navigator.Phase, bool) {
	switch session.Phase {
	case navigator.PhaseStepBrief:
		return session.BriefFrom, session.BriefFrom != ""
	case navigator.PhaseIssue:
		return navigator.PhaseStepBrief, true
	case navigator.PhaseResult:
		return navigator.PhaseIssue, true
	}
	return "", false
}

func (a *App) syncOptions() {
	items := make([]list.Item, len(a.view.Options))
	for i, opt := range a.view.Options {
		items[i] = optionItem{key: opt.Key, label: opt.Label}
	}
	a.options.SetItems(items)
	if len(items) > 0 {
		a.options.Select(0)
	}
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// View renders the whole screen.
func (a *App) View() string {
	sections := []string{
		a.renderHeader(),
		a.renderPrompt(),
	}

	if len(a.view.Options) > 0 {
		sections = append(sections, a.options.View())
	}
	if a.view.ResolvedRule != nil {
		sections = append(sections, renderRulePanel(a.view.ResolvedRule, a.contentWidth()))
	}
	if a.view.Routing != nil {
		sections = append(sections, renderRoutingPanel(a.view.Routing, a.contentWidth()))
	}
	if a.statusMsg != "" {
		sections = append(sections, statusStyle.Render(a.statusMsg))
	}
	if a.showRecent {
		sections = append(sections, a.renderRecentPanel())
	}
	if a.showLog {
		sections = append(sections, a.renderLogPanel())
	}
	sections = append(sections, a.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderHeader() string {
	parts := []string{"wayfinder"}
	if a.session.Role != "" {
		parts = append(parts, roleLabel(a.session.Role))
	}
	if a.session.CurrentStepID != 0 && a.session.Phase != navigator.PhaseRole {
		if step, ok := catalog.StepByID(a.session.CurrentStepID); ok {
			parts = append(parts, fmt.Sprintf("step %d · %s", step.ID, step.Label))
		}
	}
	return headerStyle.Render(strings.Join(parts, "  ·  "))
}

func (a *App) renderPrompt() string {
	return promptStyle.Width(a.contentWidth()).Render(a.view.Prompt)
}

func (a *App) renderLogPanel() string {
	lines, total := a.logbook.Tail(logTailLines)
	if total == 0 {
		return logPanelStyle.Render("No session activity yet.")
	}
	head := logHeadStyle.Render(fmt.Sprintf("Session log (%d entries)", total))
	body := logBodyStyle.Render(strings.Join(lines, "\n"))
	return logPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, head, body))
}

func (a *App) renderRecentPanel() string {
	entries, err := a.store.Recent(recentEntries)
	if err != nil {
		return logPanelStyle.Render(fmt.Sprintf("Consultation history unavailable: %v", err))
	}
	if len(entries) == 0 {
		return logPanelStyle.Render("No consultations recorded yet.")
	}
	lines := []string{logHeadStyle.Render("Recent consultations")}
	for _, entry := range entries {
		lines = append(lines, logBodyStyle.Render(fmt.Sprintf(
			"%s  %s  step %d  %s  -> %s",
			entry.Timestamp.Format("01-02 15:04"),
			entry.RoleKey,
			entry.StepID,
			entry.IssueKey,
			entry.RuleSnapshot.Code,
		)))
	}
	return logPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (a *App) renderFooter() string {
	hints := []string{"enter: select", "esc: back", "r: start over", "c: history", "tab: log"}
	if a.session.Phase == navigator.PhaseEnded {
		hints = []string{"enter: new consultation", "q: quit", "c: history", "tab: log"}
	}
	hints = append(hints, "ctrl+c: quit")
	return footerStyle.Render(strings.Join(hints, "   "))
}

func (a *App) contentWidth() int {
	if a.width <= 0 {
		return 80
	}
	return max(40, a.width-4)
}

func roleLabel(key catalog.RoleKey) string {
	if role, ok := catalog.RoleByKey(key); ok {
		return role.Label
	}
	return string(key)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
