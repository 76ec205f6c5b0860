package watchcmder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/papercomputeco/strobe/pkg/cliui"
	"github.com/papercomputeco/strobe/pkg/config"
	"github.com/papercomputeco/strobe/pkg/stream"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

const headerHeight = 3

var (
	watchTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	watchMutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	watchDividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	watchStateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	watchStoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	watchToggleOn     = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	watchToggleOff    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type watchKeyMap struct {
	Toggle     key.Binding
	Clear      key.Binding
	JSON       key.Binding
	Timestamps key.Binding
	Scroll     key.Binding
	Up         key.Binding
	Down       key.Binding
	Quit       key.Binding
}

func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Clear, k.JSON, k.Timestamps, k.Scroll, k.Quit}
}

func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Toggle, k.Clear, k.Up, k.Down}, {k.JSON, k.Timestamps, k.Scroll, k.Quit}}
}

func defaultKeyMap() watchKeyMap {
	return watchKeyMap{
		Toggle:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/stop")),
		Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		JSON:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "json")),
		Timestamps: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "times")),
		Scroll:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "follow")),
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type streamStartMsg struct{}

type streamEventMsg struct {
	event stream.Event
}

type streamClosedMsg struct{}

type configReloadedMsg struct {
	cfg *config.Config
}

type watchModel struct {
	ctx        context.Context
	controller *stream.Controller
	streamCfg  stream.Config
	ch         <-chan stream.Event

	log      []stream.Event
	viewport viewport.Model
	spinner  spinner.Model
	keys     watchKeyMap
	help     help.Model

	formatJSON     bool
	showTimestamps bool
	autoScroll     bool

	width  int
	height int
	ready  bool
}

func runWatchTUI(ctx context.Context, cfger *config.Configer, cfg *config.Config, streamCfg stream.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := newWatchModel(ctx, cfg, streamCfg)

	program := bubbletea.NewProgram(model,
		bubbletea.WithContext(ctx),
		bubbletea.WithAltScreen(),
	)

	// Config file edits land in the TUI as reload messages. The watcher
	// exits with the context when the program ends.
	go func() {
		_ = cfger.Watch(ctx, func(updated *config.Config) {
			program.Send(configReloadedMsg{cfg: updated})
		})
	}()

	_, err := program.Run()
	return err
}

func newWatchModel(ctx context.Context, cfg *config.Config, streamCfg stream.Config) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = watchStateStyle

	return watchModel{
		ctx:            ctx,
		controller:     stream.NewController(),
		streamCfg:      streamCfg,
		spinner:        sp,
		keys:           defaultKeyMap(),
		help:           help.New(),
		formatJSON:     cfg.Display.FormatJSON,
		showTimestamps: cfg.Display.ShowTimestamps,
		autoScroll:     cfg.Display.AutoScroll,
	}
}

// Init's receiver is a copy the runtime discards, so the stream is not
// opened here: Init only issues streamStartMsg, and Update wires the
// channel onto the model the runtime keeps.
func (m watchModel) Init() bubbletea.Cmd {
	return bubbletea.Batch(m.spinner.Tick, startStream)
}

// startStream is the Cmd form of streamStartMsg, used by Init and the
// start/stop key.
func startStream() bubbletea.Msg {
	return streamStartMsg{}
}

// waitForEvent blocks on the controller channel and converts one event
// into a message. It re-arms itself from Update after every event.
func waitForEvent(ch <-chan stream.Event) bubbletea.Cmd {
	return func() bubbletea.Msg {
		ev, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return streamEventMsg{event: ev}
	}
}

func (m watchModel) streaming() bool {
	return m.ch != nil
}

func (m watchModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		viewportHeight := max(1, m.height-headerHeight-2)
		if !m.ready {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.streaming() {
			return m, nil
		}
		var cmd bubbletea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case streamStartMsg:
		m.log = nil
		m.ch = m.controller.Start(m.ctx, m.streamCfg)
		return m, waitForEvent(m.ch)

	case streamEventMsg:
		m.log = append(m.log, msg.event)
		m.refreshViewport()
		return m, waitForEvent(m.ch)

	case streamClosedMsg:
		m.ch = nil
		m.refreshViewport()
		return m, nil

	case configReloadedMsg:
		m.formatJSON = msg.cfg.Display.FormatJSON
		m.showTimestamps = msg.cfg.Display.ShowTimestamps
		m.autoScroll = msg.cfg.Display.AutoScroll
		m.refreshViewport()
		return m, nil

	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m watchModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.controller.Stop()
		return m, bubbletea.Quit

	case key.Matches(msg, m.keys.Toggle):
		if m.streaming() {
			m.controller.Stop()
			return m, nil
		}
		return m, bubbletea.Batch(startStream, m.spinner.Tick)

	case key.Matches(msg, m.keys.Clear):
		m.log = nil
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.JSON):
		m.formatJSON = !m.formatJSON
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.Timestamps):
		m.showTimestamps = !m.showTimestamps
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.Scroll):
		m.autoScroll = !m.autoScroll
		if m.autoScroll {
			m.viewport.GotoBottom()
		}
		return m, nil
	}

	// j/k and the rest of the scroll keys belong to the viewport.
	var cmd bubbletea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refreshViewport re-renders the event log into the viewport,
// preserving the follow position when auto-scroll is on.
func (m *watchModel) refreshViewport() {
	if !m.ready {
		return
	}

	m.viewport.SetContent(m.renderEvents())
	if m.autoScroll {
		m.viewport.GotoBottom()
	}
}

func (m watchModel) renderEvents() string {
	if len(m.log) == 0 {
		return watchMutedStyle.Render("no events yet")
	}

	width := max(20, m.width-2)

	var b strings.Builder
	for _, ev := range m.log {
		prefix := cliui.CategoryBadge(ev.Category)
		if m.showTimestamps {
			prefix = cliui.FormatTimestamp(ev.Timestamp) + " " + prefix
		}

		text := ev.Raw
		if m.formatJSON {
			text = ev.Formatted()
		}

		if strings.Contains(text, "\n") {
			b.WriteString(prefix + "\n")
			b.WriteString(ansi.Hardwrap(text, width, true))
		} else {
			b.WriteString(ansi.Hardwrap(prefix+" "+text, width, true))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m watchModel) View() string {
	if !m.ready {
		return "loading..."
	}

	status := m.statusLine()
	title := watchTitleStyle.Render("strobe watch")
	url := watchMutedStyle.Render(m.streamCfg.URL)

	header := fmt.Sprintf("%s  %s\n%s\n%s", title, status, url, m.rule())
	footer := fmt.Sprintf("%s\n%s", m.rule(), m.help.View(m.keys))

	return fmt.Sprintf("%s\n%s\n%s", header, m.viewport.View(), footer)
}

func (m watchModel) statusLine() string {
	var status string
	if m.streaming() {
		status = m.spinner.View() + watchStateStyle.Render(m.controller.State().String())
	} else {
		status = watchStoppedStyle.Render(m.controller.State().String())
	}

	return status + "  " +
		m.toggleBadge("json", m.formatJSON) + " " +
		m.toggleBadge("times", m.showTimestamps) + " " +
		m.toggleBadge("follow", m.autoScroll)
}

func (m watchModel) toggleBadge(name string, on bool) string {
	if on {
		return watchToggleOn.Render("[" + name + "]")
	}
	return watchToggleOff.Render("[" + name + "]")
}

func (m watchModel) rule() string {
	return watchDividerStyle.Render(strings.Repeat("─", max(1, m.width)))
}
