// Package tui defines the Bubble Tea model for the skiff watch dashboard:
// periodic status polling plus key-driven release and unit operations.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	v1 "github.com/skiffd/skiff/api/v1"
	"github.com/skiffd/skiff/internal/core/logger"
	"github.com/skiffd/skiff/internal/deploy"
)

// PollInterval is how often unit statuses are refreshed.
const PollInterval = 5 * time.Second

// opTimeout bounds any single remote operation issued from the dashboard.
const opTimeout = 60 * time.Second

// maxLogLines bounds the dashboard's log tail panel.
const maxLogLines = 4

// HostProber reports target connectivity for the dashboard header.
type HostProber interface {
	Status(ctx context.Context) v1.HostStatus
}

// Config carries dependencies into the dashboard.
type Config struct {
	Registry  *deploy.Registry
	KeepHours int
	Log       *logger.Logger

	// Probe refreshes target connectivity each poll cycle. May be nil.
	Probe HostProber

	// LogCh streams log lines into the dashboard's log tail. May be nil.
	LogCh <-chan string

	// Record is invoked after each operation for history/audit persistence.
	// May be nil.
	Record func(op, service, release string, started time.Time, ok bool, errText string)
}

// Model is the root Bubble Tea model (Elm architecture).
type Model struct {
	cfg    Config
	keys   Keymap
	styles Styles

	width  int
	height int

	host     v1.HostStatus
	statuses []v1.UnitStatus
	selected int

	logLines []string

	// Release selector state; non-nil releases means the selector is open.
	releases    []v1.Release
	releaseSel  int
	showingRels bool

	// Poll discipline: a new poll is never started while one is outstanding.
	inFlight bool
	lastPoll time.Time

	spin    spinner.Model
	message string
	lastErr error
}

// tickMsg is emitted by the poll ticker.
type tickMsg time.Time

// statusesMsg carries a fresh poll result: target connectivity plus every
// service's unit status.
type statusesMsg struct {
	host  v1.HostStatus
	units []v1.UnitStatus
}

// logLineMsg carries one forwarded log line for the log tail.
type logLineMsg string

// releasesMsg carries a release listing for the selected service.
type releasesMsg []v1.Release

// opDoneMsg reports a completed restart/switch/prune operation.
type opDoneMsg struct {
	op      string
	service string
	release string
	started time.Time
	ok      bool
	detail  string
}

// errMsg carries an error to display in the status line.
type errMsg struct{ err error }

// New constructs the dashboard model.
func New(cfg Config) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	styles := newStyles()
	sp.Style = lipgloss.NewStyle().Foreground(styles.Accent)

	return &Model{
		cfg:    cfg,
		keys:   defaultKeymap(),
		styles: styles,
		spin:   sp,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Init / Update
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.pollCmd(), m.tickCmd()}
	if m.cfg.LogCh != nil {
		cmds = append(cmds, m.waitLogCmd())
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		// Skip this cycle if the previous poll is still outstanding.
		if m.inFlight {
			return m, m.tickCmd()
		}
		return m, tea.Batch(m.pollCmd(), m.tickCmd())

	case statusesMsg:
		m.inFlight = false
		m.lastPoll = time.Now()
		m.host = msg.host
		m.statuses = msg.units
		if m.selected >= len(m.statuses) {
			m.selected = 0
		}
		return m, nil

	case logLineMsg:
		m.logLines = append(m.logLines, string(msg))
		if len(m.logLines) > maxLogLines {
			m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
		}
		return m, m.waitLogCmd()

	case releasesMsg:
		m.releases = msg
		m.releaseSel = 0
		m.showingRels = true
		for i, rel := range m.releases {
			if rel.Current {
				m.releaseSel = i
			}
		}
		return m, nil

	case opDoneMsg:
		if m.cfg.Record != nil {
			m.cfg.Record(msg.op, msg.service, msg.release, msg.started, msg.ok, msg.detail)
		}
		if msg.ok {
			m.message = fmt.Sprintf("%s %s: ok", msg.op, msg.service)
		} else {
			m.message = fmt.Sprintf("%s %s: %s", msg.op, msg.service, msg.detail)
		}
		return m, nil

	case errMsg:
		m.lastErr = msg.err
		m.message = msg.err.Error()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case m.keys.Quit, "ctrl+c":
		return m, tea.Quit

	case m.keys.NavUp, "k":
		if m.showingRels {
			if m.releaseSel > 0 {
				m.releaseSel--
			}
		} else if m.selected > 0 {
			m.selected--
		}

	case m.keys.NavDown, "j":
		if m.showingRels {
			if m.releaseSel < len(m.releases)-1 {
				m.releaseSel++
			}
		} else if m.selected < len(m.statuses)-1 {
			m.selected++
		}

	case m.keys.Back:
		m.showingRels = false
		m.releases = nil

	case m.keys.Refresh:
		if !m.inFlight {
			return m, m.pollCmd()
		}

	case m.keys.Restart:
		if svc := m.selectedService(); svc != "" {
			m.message = "restarting " + svc
			return m, m.restartCmd(svc)
		}

	case m.keys.Releases:
		if svc := m.selectedService(); svc != "" {
			return m, m.releasesCmd(svc)
		}

	case m.keys.Select:
		if m.showingRels && m.releaseSel < len(m.releases) {
			svc := m.selectedService()
			rel := m.releases[m.releaseSel].ID
			m.showingRels = false
			m.releases = nil
			m.message = fmt.Sprintf("switching %s to %s", svc, rel)
			return m, m.switchCmd(svc, rel)
		}

	case m.keys.Prune:
		if svc := m.selectedService(); svc != "" {
			m.message = "pruning " + svc
			return m, m.pruneCmd(svc)
		}
	}

	return m, nil
}

// selectedService returns the configured name of the highlighted service.
func (m *Model) selectedService() string {
	specs := m.cfg.Registry.Services()
	if m.selected < len(specs) {
		return specs[m.selected].Name
	}
	return ""
}

// ─────────────────────────────────────────────────────────────────────────────
// Commands
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// pollCmd probes target connectivity and queries every configured service
// sequentially in one command, so at most one poll is ever outstanding.
func (m *Model) pollCmd() tea.Cmd {
	m.inFlight = true
	specs := m.cfg.Registry.Services()
	prober := m.cfg.Probe

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		msg := statusesMsg{host: v1.HostOnline}
		if prober != nil {
			msg.host = prober.Status(ctx)
		}

		msg.units = make([]v1.UnitStatus, 0, len(specs))
		for _, spec := range specs {
			unit, err := m.cfg.Registry.Service(spec.Name)
			if err != nil {
				continue
			}
			msg.units = append(msg.units, unit.Status(ctx))
		}
		return msg
	}
}

// waitLogCmd blocks on the log sink until a line arrives.
func (m *Model) waitLogCmd() tea.Cmd {
	return func() tea.Msg {
		line, ok := <-m.cfg.LogCh
		if !ok {
			return nil
		}
		return logLineMsg(line)
	}
}

func (m *Model) releasesCmd(service string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		unit, err := m.cfg.Registry.Service(service)
		if err != nil {
			return errMsg{err}
		}
		rels, err := unit.Releases().List(ctx)
		if err != nil {
			return errMsg{err}
		}
		return releasesMsg(rels)
	}
}

func (m *Model) restartCmd(service string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		started := time.Now()
		unit, err := m.cfg.Registry.Service(service)
		if err != nil {
			return errMsg{err}
		}
		res := unit.Restart(ctx)
		return opDoneMsg{
			op: "restart", service: service, started: started,
			ok: res.Success, detail: strings.TrimSpace(res.Stderr),
		}
	}
}

func (m *Model) switchCmd(service, release string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		started := time.Now()
		unit, err := m.cfg.Registry.Service(service)
		if err != nil {
			return errMsg{err}
		}
		if err := unit.Releases().Switch(ctx, release); err != nil {
			return opDoneMsg{
				op: "switch", service: service, release: release,
				started: started, ok: false, detail: err.Error(),
			}
		}
		return opDoneMsg{
			op: "switch", service: service, release: release,
			started: started, ok: true,
		}
	}
}

func (m *Model) pruneCmd(service string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		started := time.Now()
		unit, err := m.cfg.Registry.Service(service)
		if err != nil {
			return errMsg{err}
		}
		res := unit.Releases().Prune(ctx, m.cfg.KeepHours)
		return opDoneMsg{
			op: "prune", service: service, started: started,
			ok: res.Success, detail: strings.TrimSpace(res.Stderr),
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// View
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) View() string {
	var b strings.Builder

	target := m.cfg.Registry.Target()
	title := m.styles.Header.Render(" SKIFF WATCH ")
	host := m.styles.HeaderHost.Render(target.Project + " @ " + target.Host)
	b.WriteString(title + " " + host + " " + m.viewHostStatus())
	if m.inFlight {
		b.WriteString("  " + m.spin.View() + m.styles.Footer.Render("polling"))
	} else if !m.lastPoll.IsZero() {
		b.WriteString("  " + m.styles.Footer.Render("updated "+m.lastPoll.Format("15:04:05")))
	}
	b.WriteString("\n\n")

	b.WriteString(m.viewStatuses())

	if m.showingRels {
		b.WriteString("\n" + m.viewReleases())
	}

	if m.message != "" {
		b.WriteString("\n" + m.styles.Message.Render(m.message) + "\n")
	}

	if len(m.logLines) > 0 {
		b.WriteString("\n" + m.viewLogTail())
	}

	b.WriteString("\n" + m.styles.Footer.Render(helpLine) + "\n")
	return b.String()
}

// viewHostStatus renders the connectivity dot for the header. Before the
// first poll completes nothing is shown.
func (m *Model) viewHostStatus() string {
	switch m.host {
	case v1.HostOnline:
		return m.styles.StatusOK.Render("● online")
	case v1.HostOffline:
		return m.styles.StatusErr.Render("● offline")
	default:
		return ""
	}
}

func (m *Model) viewLogTail() string {
	var rows []string
	for _, line := range m.logLines {
		rows = append(rows, truncate(line, 100))
	}
	return m.styles.Footer.Render(strings.Join(rows, "\n")) + "\n"
}

func (m *Model) viewStatuses() string {
	var b strings.Builder
	b.WriteString(m.styles.TableHeader.Render(
		fmt.Sprintf("  %-24s %-10s %-8s %-10s %s", "UNIT", "INSTALLED", "LOADED", "ACTIVE", "REASON")) + "\n")

	if len(m.statuses) == 0 {
		b.WriteString(m.styles.Footer.Render("  waiting for first poll…") + "\n")
		return b.String()
	}

	for i, st := range m.statuses {
		installed := "no"
		if st.Installed {
			installed = "yes"
		}
		row := fmt.Sprintf("  %-24s %-10s %-8s %-10s %s",
			st.Unit, installed, st.Loaded, st.Active, truncate(st.Reason, 40))

		style := m.styles.TableRow
		if i == m.selected && !m.showingRels {
			style = m.styles.TableRowSel
			row = "▸" + row[1:]
		}
		switch st.Active {
		case v1.ActiveRunning:
			b.WriteString(style.Render(row) + " " + m.styles.StatusOK.Render("●") + "\n")
		case v1.ActiveFailed:
			b.WriteString(style.Render(row) + " " + m.styles.StatusErr.Render("●") + "\n")
		default:
			b.WriteString(style.Render(row) + " " + m.styles.StatusWarn.Render("●") + "\n")
		}
	}
	return b.String()
}

func (m *Model) viewReleases() string {
	var rows []string
	rows = append(rows, m.styles.PanelTitle.Render("releases — "+m.selectedService()))
	if len(m.releases) == 0 {
		rows = append(rows, m.styles.Footer.Render("no releases found"))
	}
	for i, rel := range m.releases {
		marker := "  "
		if i == m.releaseSel {
			marker = "▸ "
		}
		state := "old"
		if rel.Current {
			state = "current"
		}
		line := fmt.Sprintf("%s%s  %s", marker, rel.ID, state)
		if i == m.releaseSel {
			rows = append(rows, m.styles.TableRowSel.Render(line))
		} else {
			rows = append(rows, m.styles.TableRow.Render(line))
		}
	}
	return m.styles.Panel.Render(strings.Join(rows, "\n")) + "\n"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
