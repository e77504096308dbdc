// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// Text shown by the list.
const (
	EmptyText    = "No matching text found."
	LoadingText  = "Searching..."
	LoadMoreText = "[m] load more (+%d)"
)

// linesPerSegment is the height of one rendered segment: chips, preview, gap.
const linesPerSegment = 3

// SegmentList displays text segments in a navigable list.
type SegmentList struct {
	segments []domain.TextSegment
	total    int
	loading  bool
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSegmentList creates a new segment list component.
func NewSegmentList(s *styles.Styles) *SegmentList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SegmentList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the segment list.
func (l *SegmentList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *SegmentList) Update(msg tea.Msg) (*SegmentList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the segment list.
func (l *SegmentList) View() string {
	if len(l.segments) == 0 {
		if l.loading {
			return l.styles.Muted.Render(LoadingText)
		}
		return l.styles.Muted.Render(EmptyText)
	}

	lines := make([]string, 0, len(l.segments)*linesPerSegment+4)
	lines = append(lines, l.styles.Subtitle.Render(Summary(len(l.segments), l.total)), "")

	visibleCount := (l.height - 4) / linesPerSegment
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.segments) {
		end = len(l.segments)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderSegment(i, &l.segments[i]))
	}

	switch {
	case l.loading:
		lines = append(lines, l.styles.Muted.Render(LoadingText))
	case len(l.segments) < l.total:
		lines = append(lines, l.styles.Help.Render(fmt.Sprintf(LoadMoreText, domain.LoadMoreStep)))
	}

	return strings.Join(lines, "\n")
}

// renderSegment formats one segment as a chip line and a content preview.
func (l *SegmentList) renderSegment(index int, seg *domain.TextSegment) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	chips := indicator + RenderChips(l.styles, seg)

	maxPreviewLen := l.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	preview := Truncate(Flatten(seg.Content), maxPreviewLen)

	var previewLine string
	if index == l.selected {
		previewLine = l.styles.Selected.Render("    " + preview)
	} else {
		previewLine = l.styles.Normal.Render("    " + preview)
	}

	return chips + "\n" + previewLine + "\n"
}

// SetPage replaces the displayed page. The selection is kept when it is
// still in range, so loading more does not move the cursor.
func (l *SegmentList) SetPage(page domain.ResultPage) {
	l.segments = page.Items
	l.total = page.Total
	if l.selected >= len(l.segments) {
		l.selected = len(l.segments) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// SetLoading marks a request as in flight.
func (l *SegmentList) SetLoading(loading bool) {
	l.loading = loading
}

// Loading reports whether a request is in flight.
func (l *SegmentList) Loading() bool {
	return l.loading
}

// Segments returns the displayed segments.
func (l *SegmentList) Segments() []domain.TextSegment {
	return l.segments
}

// Total returns the size of the full match set.
func (l *SegmentList) Total() int {
	return l.total
}

// Selected returns the index of the selected segment.
func (l *SegmentList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *SegmentList) SetSelected(index int) {
	if index >= 0 && index < len(l.segments) {
		l.selected = index
	}
}

// SelectedSegment returns the currently selected segment, or nil if none.
func (l *SegmentList) SelectedSegment() *domain.TextSegment {
	if len(l.segments) == 0 || l.selected < 0 || l.selected >= len(l.segments) {
		return nil
	}
	return &l.segments[l.selected]
}

// MoveUp moves selection up.
func (l *SegmentList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *SegmentList) MoveDown() {
	if l.selected < len(l.segments)-1 {
		l.selected++
	}
}

// AtBottom reports whether the last displayed segment is selected.
func (l *SegmentList) AtBottom() bool {
	return len(l.segments) > 0 && l.selected == len(l.segments)-1
}

// SetDimensions sets the component dimensions.
func (l *SegmentList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Width returns the current width.
func (l *SegmentList) Width() int {
	return l.width
}

// Height returns the current height.
func (l *SegmentList) Height() int {
	return l.height
}

// Count returns the number of displayed segments.
func (l *SegmentList) Count() int {
	return len(l.segments)
}

// IsEmpty returns whether the list is empty.
func (l *SegmentList) IsEmpty() bool {
	return len(l.segments) == 0
}

// Reset clears the list and the selection.
func (l *SegmentList) Reset() {
	l.segments = nil
	l.total = 0
	l.selected = 0
	l.loading = false
}
