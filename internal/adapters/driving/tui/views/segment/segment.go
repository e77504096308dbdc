// Package segment provides the full-text view of a single corpus segment.
package segment

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// reservedLines covers the title, chips, separator, scroll line and help.
const reservedLines = 8

// View shows one segment's metadata and scrollable content.
type View struct {
	styles   *styles.Styles
	viewport viewport.Model

	segment *domain.TextSegment
	width   int
	height  int
	ready   bool
}

// NewView creates a new segment view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		viewport: viewport.New(80, 24-reservedLines),
		width:    80,
		height:   24,
	}
}

// SetSegment replaces the displayed segment and scrolls to the top.
func (v *View) SetSegment(seg domain.TextSegment) {
	v.segment = &seg
	v.refresh()
	v.viewport.GotoTop()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the segment view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewCorpus}
			}
		case "q":
			return v, func() tea.Msg { return messages.Quit{} }
		case "home", "g":
			v.viewport.GotoTop()
			return v, nil
		case "end", "G":
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// refresh re-wraps the content to the current width.
func (v *View) refresh() {
	if v.segment == nil {
		v.viewport.SetContent("")
		return
	}
	contentWidth := v.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}
	wrapped := lipgloss.NewStyle().Width(contentWidth).Render(v.segment.Content)
	v.viewport.SetContent(wrapped)
}

// View renders the segment view.
func (v *View) View() string {
	var b strings.Builder

	title := "Segment"
	if v.segment != nil {
		switch {
		case v.segment.ChapterTitle != "":
			title = v.segment.ChapterTitle
		case v.segment.ID != "":
			title = v.segment.ID
		}
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")

	if v.segment == nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("(No segment selected)"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	b.WriteString(list.RenderChips(v.styles, v.segment))
	b.WriteString("\n")
	if v.segment.SourceFile != "" {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%s, paragraph %d",
			v.segment.SourceFile, v.segment.ParagraphIndex)))
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n\n")

	if strings.TrimSpace(v.segment.Content) == "" {
		b.WriteString(v.styles.Muted.Render("(No content)"))
	} else {
		b.WriteString(v.viewport.View())
	}

	if v.viewport.TotalLineCount() > v.viewport.Height {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%]", int(v.viewport.ScrollPercent()*100))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.viewport.Width = width
	v.viewport.Height = maxInt(height-reservedLines, 1)
	v.refresh()
}

// Segment returns the displayed segment.
func (v *View) Segment() *domain.TextSegment {
	return v.segment
}

// Ready returns whether the view has been sized.
func (v *View) Ready() bool {
	return v.ready
}

// ScrollOffset returns the index of the first visible content line.
func (v *View) ScrollOffset() int {
	return v.viewport.YOffset
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
