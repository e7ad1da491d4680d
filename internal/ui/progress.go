package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// weight is how far along the bar a program in each status counts.
var weight = map[Status]float64{
	StatusBuilding: 0.3,
	StatusWriting:  0.9,
	StatusDone:     1,
	StatusCached:   1,
	StatusError:    1,
}

var glyph = map[Status]string{
	StatusQueued:   "·",
	StatusBuilding: "»",
	StatusWriting:  "»",
	StatusDone:     "✓",
	StatusCached:   "✓",
	StatusError:    "✗",
}

type boardStyles struct {
	title   lipgloss.Style
	summary lipgloss.Style
	ok      lipgloss.Style
	failed  lipgloss.Style
	active  lipgloss.Style
	idle    lipgloss.Style
}

func newBoardStyles() boardStyles {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return boardStyles{
		title:   lipgloss.NewStyle().Bold(true),
		summary: fg("8"),
		ok:      fg("2"),
		failed:  fg("1"),
		active:  fg("6"),
		idle:    fg("7"),
	}
}

func (s boardStyles) of(st Status) lipgloss.Style {
	switch st {
	case StatusDone, StatusCached:
		return s.ok
	case StatusError:
		return s.failed
	case StatusBuilding, StatusWriting:
		return s.active
	}
	return s.idle
}

type row struct {
	name    string
	status  Status
	note    string
	started time.Time
	took    time.Duration
}

// board renders one line per program under a spinner header and a bar.
type board struct {
	title   string
	note    string
	events  <-chan Event
	rows    []row
	byName  map[string]int
	nameCol int
	width   int
	done    bool
	now     func() time.Time

	spin   spinner.Model
	bar    progress.Model
	styles boardStyles
}

type eventMsg Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model for a workspace build. It
// reads events until the channel is closed, then quits.
func NewProgressModel(title string, programs []string, events <-chan Event) tea.Model {
	b := &board{
		title:  title,
		events: events,
		rows:   make([]row, len(programs)),
		byName: make(map[string]int, len(programs)),
		width:  80,
		now:    time.Now,
		spin:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		styles: newBoardStyles(),
	}
	b.spin.Style = b.styles.active
	for i, name := range programs {
		b.rows[i] = row{name: name, status: StatusQueued}
		b.byName[name] = i
		b.nameCol = max(b.nameCol, runewidth.StringWidth(name))
	}
	b.resize(b.width)
	return b
}

func (b *board) Init() tea.Cmd {
	return tea.Batch(b.spin.Tick, b.next())
}

func (b *board) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-b.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

func (b *board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return b, tea.Batch(b.apply(Event(msg)), b.next())
	case closedMsg:
		b.done = true
		return b, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return b, tea.Quit
		}
	case tea.WindowSizeMsg:
		b.resize(msg.Width)
	case spinner.TickMsg:
		if !b.done {
			var cmd tea.Cmd
			b.spin, cmd = b.spin.Update(msg)
			return b, cmd
		}
	case progress.FrameMsg:
		m, cmd := b.bar.Update(msg)
		b.bar = m.(progress.Model)
		return b, cmd
	}
	return b, nil
}

func (b *board) resize(width int) {
	if width <= 0 {
		return
	}
	b.width = width
	b.bar.Width = max(width-4, 10)
}

// apply records ev and returns the bar animation for the new fraction.
func (b *board) apply(ev Event) tea.Cmd {
	if ev.Program == "" {
		b.note = ev.Note
		return nil
	}
	i, ok := b.byName[ev.Program]
	if !ok {
		return nil
	}
	r := &b.rows[i]
	if r.status == StatusQueued && ev.Status != StatusQueued {
		r.started = b.now()
	}
	if ev.Status.finished() && !r.started.IsZero() {
		r.took = b.now().Sub(r.started)
	}
	r.status = ev.Status
	r.note = ev.Note
	return b.bar.SetPercent(b.fraction())
}

func (b *board) fraction() float64 {
	if len(b.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range b.rows {
		sum += weight[r.status]
	}
	return sum / float64(len(b.rows))
}

// counts returns finished and failed rows.
func (b *board) counts() (finished, failed int) {
	for _, r := range b.rows {
		if r.status.finished() {
			finished++
		}
		if r.status == StatusError {
			failed++
		}
	}
	return finished, failed
}

func (b *board) View() string {
	if len(b.rows) == 0 {
		return ""
	}
	var sb strings.Builder

	lead := b.spin.View()
	if b.done {
		lead = b.styles.ok.Render("✓")
	}
	header := b.title
	if b.note != "" {
		header += " (" + b.note + ")"
	}
	finished, failed := b.counts()
	summary := fmt.Sprintf("%d/%d", finished, len(b.rows))
	if failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	sb.WriteString(lead + " " + b.styles.title.Render(header) + "  " + b.styles.summary.Render(summary) + "\n\n")

	// "  ✓ name  status    12.3s  note"
	const statusCol, timeCol = 8, 7
	noteCol := b.width - b.nameCol - statusCol - timeCol - 10
	for _, r := range b.rows {
		st := b.styles.of(r.status)
		took := ""
		if r.took > 0 {
			took = fmt.Sprintf("%.1fs", r.took.Seconds())
		}
		line := fmt.Sprintf("  %s %s  %s %*s",
			st.Render(glyph[r.status]),
			runewidth.FillRight(r.name, b.nameCol),
			st.Render(runewidth.FillRight(r.status.String(), statusCol)),
			timeCol, took)
		if r.note != "" && noteCol > 0 {
			line += "  " + truncate(r.note, noteCol)
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n")
	if b.done {
		sb.WriteString(b.bar.ViewAs(1))
	} else {
		sb.WriteString(b.bar.View())
	}
	sb.WriteString("\n")
	return sb.String()
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
