// Package treeview is a terminal front end for the inspector: the flattened
// hierarchy list with highlights, driven from the keyboard.
package treeview

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Faultbox/partscope/internal/inspector"
)

// TickInterval is how often the inspector is ticked.
const TickInterval = 50 * time.Millisecond

// Invalidator drops cached asset data.
type Invalidator interface {
	Invalidate(path string) bool
}

type tickMsg struct{}

type fileChangedMsg string

// Model is the bubbletea model.
type Model struct {
	in      *inspector.Inspector
	slots   *inspector.Slots
	cache   Invalidator
	changes <-chan string

	pending []inspector.Event
	cursor  int
	offset  int
	height  int
	err     error
}

// New returns a model driving in. slots must be the inspector's display.
// cache and changes are optional and enable reloading.
func New(in *inspector.Inspector, slots *inspector.Slots, cache Invalidator, changes <-chan string) *Model {
	return &Model{
		in:      in,
		slots:   slots,
		cache:   cache,
		changes: changes,
		height:  24,
	}
}

// Err returns the content error that ended the session, if any.
func (m *Model) Err() error { return m.err }

func tickCmd() tea.Cmd {
	return tea.Tick(TickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func waitChangeCmd(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return nil
		}
		return fileChangedMsg(path)
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(func() tea.Msg { return tickMsg{} }, waitChangeCmd(m.changes))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case fileChangedMsg:
		path := string(msg)
		if m.cache != nil {
			m.cache.Invalidate(path)
		}
		m.pending = append(m.pending, inspector.Event{Kind: inspector.EventReload, Path: path})
		return m, waitChangeCmd(m.changes)
	case tickMsg:
		events := m.pending
		m.pending = nil
		if err := m.in.Tick(events); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.clampCursor()
		return m, tickCmd()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "x":
		return tea.Quit
	case "q":
		m.queue(inspector.EventIncrementExplosion)
	case "e":
		m.queue(inspector.EventDecrementExplosion)
	case "right", "n":
		m.queue(inspector.EventNextAsset)
	case "left", "p":
		m.queue(inspector.EventPrevAsset)
	case "esc":
		m.queue(inspector.EventCancel)
	case "r":
		m.queue(inspector.EventReload)
	case "up", "k":
		m.cursor--
		m.clampCursor()
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case "enter", " ":
		m.pickRow()
	}
	return nil
}

func (m *Model) queue(kind inspector.EventKind) {
	m.pending = append(m.pending, inspector.Event{Kind: kind})
}

// pickRow picks the first primitive drawn for the row under the cursor.
// Rows without primitives clear the selection.
func (m *Model) pickRow() {
	gen := m.in.Generation()
	if gen == nil || m.cursor >= len(gen.Rows) {
		return
	}
	row := gen.Rows[m.cursor]
	node := row.Node
	if row.Kind == inspector.RowMesh {
		node = gen.Rows[row.Parent].Node
	}
	if leaf, ok := gen.PrimitiveLeaf(node, 0); ok {
		m.pending = append(m.pending, inspector.Pick(leaf))
		return
	}
	m.queue(inspector.EventCancel)
}

func (m *Model) clampCursor() {
	n := 0
	if gen := m.in.Generation(); gen != nil {
		n = len(gen.Rows)
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	visible := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m *Model) listHeight() int {
	// header, separator, status, help
	if h := m.height - 4; h > 1 {
		return h
	}
	return 1
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	sep := sepStyle.Render(" | ")
	header := []string{titleStyle.Render("partscope")}
	for _, slot := range []inspector.Slot{
		inspector.SlotAssetName,
		inspector.SlotSceneIndex,
		inspector.SlotMeshCount,
		inspector.SlotExplosionFactor,
	} {
		if v := m.slots.Get(slot); v != "" {
			header = append(header, infoStyle.Render(v))
		}
	}
	b.WriteString(strings.Join(header, sep))
	b.WriteString("\n")
	b.WriteString(sepStyle.Render(strings.Repeat("─", 40)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
		return b.String()
	}

	gen := m.in.Generation()
	if gen == nil {
		b.WriteString(infoStyle.Render(fmt.Sprintf("loading (%s)...", m.in.Status())))
		b.WriteString("\n")
	} else {
		end := min(len(gen.Rows), m.offset+m.listHeight())
		for i := m.offset; i < end; i++ {
			b.WriteString(m.renderRow(i, gen.Rows[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render("q/e explode · ←/→ asset · ↑/↓ move · enter pick · esc clear · r reload · x quit"))
	return b.String()
}

func (m *Model) renderRow(i int, row inspector.Row) string {
	style := rowStyle
	if row.Kind == inspector.RowMesh {
		style = meshRowStyle
	}
	if row.Highlighted {
		style = highlightStyle
	}
	marker := "  "
	if i == m.cursor {
		marker = cursorStyle.Render("> ")
	}
	indent := strings.Repeat("  ", row.Depth)
	return lipgloss.JoinHorizontal(lipgloss.Top, marker, indent, style.Render(row.Label))
}
