package play

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	coverWidth = 16
	coverRows  = 8
	minVizRows = 4
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	artistStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	rowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	modeOnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	modeOffStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

// layout sizes the sub components after a resize.
func (m model) layout() model {
	_, right := m.columnWidths()
	m.progress.Width = max(m.width-30, 10)

	m.lyricsView.Width = max(right-4, 10)
	m.lyricsView.Height = max(m.listRows(), 3)
	m.lyricsView.SetContent(wrapLyrics(m.lyrics, m.lyricsView.Width))

	if m.deps.viz != nil {
		if session := m.deps.viz.Session(); session != nil {
			session.Resize(m.vizSize())
		}
	}
	return m
}

func (m model) columnWidths() (left, right int) {
	left = max(m.width*2/5, 20)
	right = max(m.width-left, 20)
	return left, right
}

// listRows is the height of the playlist and lyrics panels.
func (m model) listRows() int {
	// header, visualizer, help line and panel borders
	return max(m.height-coverRows-m.vizRows()-8, 3)
}

func (m model) vizRows() int {
	return max(m.height/4, minVizRows)
}

// vizSize is the visualizer canvas size in pixels.
func (m model) vizSize() (int, int) {
	return max(m.width-2, 1), m.vizRows() * 2
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	left, right := m.columnWidths()
	playlist := panelStyle.Width(left - 2).Render(m.renderPlaylist(left - 4))
	lyrics := panelStyle.Width(right - 2).Render(headerStyle.Render("Lyrics") + "\n" + m.lyricsView.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, playlist, lyrics))
	b.WriteString("\n")

	if m.frame != "" {
		b.WriteString(m.frame)
	} else {
		b.WriteString(helpStyle.Render(strings.Repeat("\n", m.vizRows()-1) + "  press any key to start the visualizer"))
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render("  " + m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("  space play/pause • n/p next/prev • ←/→ seek • +/- volume • s shuffle • r repeat • y copy lyrics • q quit"))
	return b.String()
}

func (m model) renderHeader() string {
	var info strings.Builder
	infoWidth := max(m.width-coverWidth-4, 10)

	title := m.md.Title
	if title == "" {
		title = "No track loaded"
	}
	info.WriteString(titleStyle.Render(runewidth.Truncate(title, infoWidth, "…")))
	info.WriteString("\n")
	info.WriteString(artistStyle.Render(runewidth.Truncate(m.md.Artist, infoWidth, "…")))
	info.WriteString("\n\n")

	indicator := "▶"
	if m.playing {
		indicator = "⏸"
	}
	info.WriteString(fmt.Sprintf("%s  %s %s %s", indicator, m.elapsed, m.progress.ViewAs(m.percent/100), m.total))
	info.WriteString("\n\n")

	info.WriteString(fmt.Sprintf("vol %3.0f%%  ", m.volume*100))
	info.WriteString(modeLabel("shuffle", m.shuffle))
	info.WriteString("  ")
	info.WriteString(modeLabel("repeat", m.repeat))

	return lipgloss.JoinHorizontal(lipgloss.Top, m.cover, "  ", info.String())
}

func modeLabel(name string, on bool) string {
	if on {
		return modeOnStyle.Render("[" + name + "]")
	}
	return modeOffStyle.Render("[" + name + "]")
}

// renderPlaylist shows a window of rows around the selection, with exactly
// one row (or none) marked as playing.
func (m model) renderPlaylist(width int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Playlist (%d)", len(m.names))))

	if len(m.names) == 0 {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("no tracks"))
		return b.String()
	}

	rows := m.listRows()
	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}
	end := min(start+rows, len(m.names))

	for i := start; i < end; i++ {
		marker := "  "
		if i == m.active {
			marker = "♪ "
		}
		label := runewidth.Truncate(fmt.Sprintf("%s%d. %s", marker, i+1, m.names[i]), max(width, 8), "…")

		b.WriteString("\n")
		switch {
		case i == m.active:
			b.WriteString(activeStyle.Render(label))
		case i == m.selected:
			b.WriteString(selectedStyle.Render(label))
		default:
			b.WriteString(rowStyle.Render(label))
		}
	}
	return b.String()
}

func wrapLyrics(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
