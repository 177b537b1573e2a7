package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/keymap"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/messages"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/styles"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/views/browse"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/views/detail"
	"github.com/zmcado0/femme-futures-coop/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	browseView *browse.View
	detailView *detail.View

	// changes signals that the source changed and the archive should reload.
	changes <-chan struct{}

	currentView messages.ViewType
	reloading   bool
	// pending is set when a reload is asked for while one is running.
	pending bool
	err     error

	width  int
	height int
	ready  bool
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

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		browseView:  browse.NewView(s, km, ports.Archive),
		detailView:  detail.NewView(s, km),
		currentView: messages.ViewBrowse,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.browseView.WithContext(ctx)
	return a
}

// WithChanges makes the app reload the archive each time changes fires.
func (a *App) WithChanges(changes <-chan struct{}) *App {
	a.changes = changes
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("Newsletter Archive"),
		a.browseView.Init(),
		a.waitForChange(),
	)
}

// waitForChange blocks on the change channel and reports one change.
func (a *App) waitForChange() tea.Cmd {
	if a.changes == nil {
		return nil
	}
	changes := a.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return messages.SourceChanged{}
	}
}

// reload runs a fresh ingestion in the background.
func (a *App) reload() tea.Cmd {
	if a.reloading {
		a.pending = true
		return nil
	}
	a.reloading = true
	a.browseView.SetReloading()

	archive := a.ports.Archive
	ctx := a.ctx
	return func() tea.Msg {
		result, err := archive.Reload(ctx)
		return messages.CollectionReloaded{Result: result, Err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keymap.Quit) {
			return a, tea.Quit
		}
		if key.Matches(msg, a.keymap.Reload) {
			return a, a.reload()
		}

		switch a.currentView {
		case messages.ViewBrowse:
			a.browseView, cmd = a.browseView.Update(msg)
		case messages.ViewDetail:
			a.detailView, cmd = a.detailView.Update(msg)
		case messages.ViewHelp:
			if key.Matches(msg, a.keymap.Back, a.keymap.Help) || msg.String() == "q" {
				a.currentView = messages.ViewBrowse
			}
		}
		return a, cmd

	case messages.ReloadRequested:
		return a, a.reload()

	case messages.SourceChanged:
		logger.Debug("source changed, reloading")
		return a, tea.Batch(a.reload(), a.waitForChange())

	case messages.CollectionReloaded:
		a.reloading = false
		a.err = msg.Err
		a.browseView, cmd = a.browseView.Update(msg)
		if msg.Err == nil {
			a.refreshDetail()
		}
		if a.pending {
			a.pending = false
			return a, tea.Batch(cmd, a.reload())
		}
		return a, cmd

	case messages.DocumentSelected:
		a.detailView.SetDocument(msg.Document)
		a.currentView = messages.ViewDetail
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.browseView, cmd = a.browseView.Update(msg)
		return a, cmd
	}

	switch a.currentView {
	case messages.ViewBrowse:
		a.browseView, cmd = a.browseView.Update(msg)
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// refreshDetail re-reads the open newsletter from the new collection,
// returning to the browser if it is gone.
func (a *App) refreshDetail() {
	doc := a.detailView.Document()
	if doc == nil {
		return
	}
	fresh, err := a.ports.Archive.Get(a.ctx, doc.ID)
	if err != nil {
		if a.currentView == messages.ViewDetail {
			a.currentView = messages.ViewBrowse
		}
		return
	}
	a.detailView.SetDocument(*fresh)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewDetail:
		return a.detailView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewBrowse:
	}
	return a.browseView.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, kb := range group {
			h := kb.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Browse returns the browse view.
func (a *App) Browse() *browse.View {
	return a.browseView
}

// Detail returns the detail view.
func (a *App) Detail() *detail.View {
	return a.detailView
}

// Reloading reports whether an ingestion run is in flight.
func (a *App) Reloading() bool {
	return a.reloading
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.browseView.SetDimensions(width, height)
	a.detailView.SetDimensions(width, height)
}
