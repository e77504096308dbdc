// Package corpus provides the corpus browser view for the TUI.
package corpus

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driven/notify"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
)

// View is the corpus browser: a search box over a paginated segment list.
// Keystrokes are forwarded to the browser, which owns debouncing and
// pagination; the view only renders the browser's state.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.SegmentList
	statusbar *status.Bar

	browser driving.Browser
	errs    <-chan messages.ErrorOccurred
	ctx     context.Context

	state      domain.ViewState
	shownText  string
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
}

// NewView creates a new corpus view. errs may be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	browser driving.Browser,
	errs <-chan messages.ErrorOccurred,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewSearchInput(s),
		list:       list.NewSegmentList(s),
		statusbar:  status.NewBar(s, km),
		browser:    browser,
		errs:       errs,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context that stops the background listeners.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the default listing and the state listeners.
func (v *View) Init() tea.Cmd {
	cmds := []tea.Cmd{v.input.Init()}
	if v.browser != nil {
		v.browser.Start()
		v.syncState()
		cmds = append(cmds, v.waitForChange())
	}
	if v.errs != nil {
		cmds = append(cmds, v.waitForError())
	}
	return tea.Batch(cmds...)
}

// waitForChange blocks until the browser signals a state change.
func (v *View) waitForChange() tea.Cmd {
	changes := v.browser.Changes()
	ctx := v.ctx
	return func() tea.Msg {
		select {
		case <-changes:
			return messages.StateChanged{}
		case <-ctx.Done():
			return nil
		}
	}
}

// waitForError blocks until a search failure is reported.
func (v *View) waitForError() tea.Cmd {
	errs := v.errs
	ctx := v.ctx
	return func() tea.Msg {
		select {
		case msg := <-errs:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

// Update handles messages for the corpus view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.StateChanged:
		v.syncState()
		return v, v.waitForChange()

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(notify.Describe(msg.Err))
		if v.errs == nil {
			return v, nil
		}
		return v, v.waitForError()
	}

	// Forward anything else (cursor blink) to the input.
	var cmd tea.Cmd
	v.input, cmd, _ = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		return v.handleInputKey(msg)
	}
	return v.handleResultsKey(msg)
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		if v.browser != nil {
			v.browser.Submit(v.input.Value())
		}
		v.setFocusInput(false)
		return v, nil
	case tea.KeyTab, tea.KeyDown:
		if !v.list.IsEmpty() {
			v.setFocusInput(false)
		}
		return v, nil
	case tea.KeyCtrlL:
		v.loadMore()
		return v, nil
	case tea.KeyEsc:
		if v.input.Value() != "" {
			v.input.SetValue("")
			v.onInput("")
			return v, nil
		}
		return v, func() tea.Msg { return messages.Quit{} }
	}

	var cmd tea.Cmd
	var changed bool
	v.input, cmd, changed = v.input.Update(msg)
	if changed {
		v.onInput(v.input.Value())
	}
	return v, cmd
}

func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case msg.Type == tea.KeyEnter:
		if seg := v.list.SelectedSegment(); seg != nil {
			selected := *seg
			return v, func() tea.Msg { return messages.SegmentSelected{Segment: selected} }
		}
		return v, nil
	case msg.Type == tea.KeyEsc, keymap.Matches(keyStr, v.keymap.Focus):
		return v, v.setFocusInput(true)
	case keymap.Matches(keyStr, v.keymap.LoadMore):
		v.loadMore()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case keyStr == "q":
		return v, func() tea.Msg { return messages.Quit{} }
	case keymap.Matches(keyStr, v.keymap.Up):
		if v.list.Selected() == 0 {
			return v, v.setFocusInput(true)
		}
		v.list.MoveUp()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Down):
		if v.list.AtBottom() {
			v.loadMore()
			return v, nil
		}
		v.list.MoveDown()
		return v, nil
	}

	return v, nil
}

// onInput forwards a changed search box to the browser.
func (v *View) onInput(text string) {
	if v.browser != nil {
		v.browser.OnInput(text)
	}
}

// loadMore asks the browser for the next batch, if one is available.
func (v *View) loadMore() {
	if v.browser == nil {
		return
	}
	if !v.browser.LoadMore() {
		v.syncState()
		switch {
		case v.state.IsLoading:
			v.statusbar.SetMessage("still loading")
		case !v.state.Page.HasMore():
			v.statusbar.SetMessage("all segments shown")
		}
		return
	}
	v.syncState()
}

func (v *View) setFocusInput(on bool) tea.Cmd {
	v.focusInput = on
	v.statusbar.SetResultsMode(!on)
	if on {
		return v.input.Focus()
	}
	v.input.Blur()
	return nil
}

// syncState copies the browser state into the components.
func (v *View) syncState() {
	if v.browser == nil {
		return
	}
	v.state = v.browser.State()

	if !v.state.IsLoading && v.state.Query.Text != v.shownText {
		// A different query's results: start from the top.
		v.shownText = v.state.Query.Text
		v.list.SetSelected(0)
	}
	v.list.SetPage(v.state.Page)
	v.list.SetLoading(v.state.IsLoading)
	v.statusbar.SetCounts(v.state.Page.Len(), v.state.Page.Total)

	switch {
	case v.state.IsLoading:
		v.statusbar.SetState(status.StateSearching)
	case v.statusbar.State() == status.StateError:
		// Keep the error visible until the next request starts.
	default:
		v.statusbar.SetState(status.StateResults)
	}
	if v.state.IsLoading {
		v.err = nil
	}
	if v.state.IsLoading || (v.state.Page.HasMore() && v.statusbar.State() != status.StateError) {
		v.statusbar.SetMessage("")
	}
}

// View renders the corpus view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Corpus"), "")
	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+notify.Describe(v.err)), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input, status
	v.statusbar.SetWidth(width)
}

// SetStatus shows a transient message in the status bar.
func (v *View) SetStatus(message string) {
	v.statusbar.SetMessage(message)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the text in the search box.
func (v *View) Query() string {
	return v.input.Value()
}

// State returns the last browser state the view rendered.
func (v *View) State() domain.ViewState {
	return v.state
}

// SelectedIndex returns the index of the selected segment.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SelectedSegment returns the currently selected segment.
func (v *View) SelectedSegment() *domain.TextSegment {
	return v.list.SelectedSegment()
}

// Err returns the last reported search failure, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the search box has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
