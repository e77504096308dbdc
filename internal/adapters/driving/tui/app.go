package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/views/corpus"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/views/segment"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx stops the background listeners of the views.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	// corpusView is the search box and result list.
	corpusView *corpus.View

	// segmentView shows one segment in full.
	segmentView *segment.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	var errs <-chan messages.ErrorOccurred
	if ports.Errors != nil {
		errs = ports.Errors.C()
	}

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		corpusView:  corpus.NewView(s, km, ports.Browser, errs),
		segmentView: segment.NewView(s),
		currentView: messages.ViewCorpus,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.corpusView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("corpus"),
		a.corpusView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.corpusView.SetDimensions(msg.Width, msg.Height)
		a.segmentView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewCorpus:
			a.corpusView, cmd = a.corpusView.Update(msg)
			return a, cmd
		case messages.ViewSegment:
			a.segmentView, cmd = a.segmentView.Update(msg)
			return a, cmd
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "q" || msg.String() == "?" {
				a.currentView = messages.ViewCorpus
			}
			return a, nil
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.SegmentSelected:
		a.segmentView.SetSegment(msg.Segment)
		a.currentView = messages.ViewSegment
		return a, nil

	case messages.StateChanged:
		// The corpus view owns the change listener, whichever view is shown.
		a.corpusView, cmd = a.corpusView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.corpusView, cmd = a.corpusView.Update(msg)
		return a, cmd

	case messages.ConfigReloaded:
		return a, a.applyConfig(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewCorpus:
		a.corpusView, cmd = a.corpusView.Update(msg)
	case messages.ViewSegment:
		a.segmentView, cmd = a.segmentView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// applyConfig pushes reloaded settings into the running browser.
func (a *App) applyConfig(msg messages.ConfigReloaded) tea.Cmd {
	if msg.Err != nil {
		a.err = msg.Err
		logger.Warn("config reload failed: %v", msg.Err)
		a.corpusView.SetStatus("settings reload failed: " + msg.Err.Error())
		return nil
	}
	a.ports.Browser.SetDebounceDelay(msg.Settings.DebounceDelay)
	a.corpusView.SetStatus("settings reloaded")
	return nil
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewCorpus:
		return a.corpusView.View()
	case messages.ViewSegment:
		return a.segmentView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.corpusView.View()
	}
}

// viewHelp renders the help view from the key bindings.
func (a *App) viewHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-12s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}

	if a.ports.Settings != nil {
		if settings, err := a.ports.Settings.Get(); err == nil {
			b.WriteString(a.styles.Muted.Render(fmt.Sprintf("Endpoint: %s  Debounce: %s",
				settings.Endpoint, settings.DebounceDelay)))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Program builds the Bubbletea program for the app. Callers may Send
// messages such as ConfigReloaded to it while it runs.
func (a *App) Program(opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(a.ctx)}, opts...)
	return tea.NewProgram(a, opts...)
}

// Run starts the TUI application.
func (a *App) Run() error {
	_, err := a.Program().Run()
	return err
}

// Query returns the text in the search box.
func (a *App) Query() string {
	return a.corpusView.Query()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.corpusView.SetDimensions(width, height)
	a.segmentView.SetDimensions(width, height)
}
