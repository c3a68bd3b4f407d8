// Package tui implements the indexing job monitor following the Elm
// architecture.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkwell-labs/lectern/internal/adapters/driving/tui/components/status"
	"github.com/inkwell-labs/lectern/internal/adapters/driving/tui/keymap"
	"github.com/inkwell-labs/lectern/internal/adapters/driving/tui/messages"
	"github.com/inkwell-labs/lectern/internal/adapters/driving/tui/styles"
	"github.com/inkwell-labs/lectern/internal/adapters/driving/tui/views/jobs"
	"github.com/inkwell-labs/lectern/internal/core/domain"
)

// pollInterval is how often the monitor refreshes the job list.
const pollInterval = 2 * time.Second

// App is the job monitor application. It implements tea.Model.
type App struct {
	ports *Ports
	ctx   context.Context

	styles    *styles.Styles
	keymap    *keymap.KeyMap
	jobsView  *jobs.View
	statusBar *status.Bar

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new monitor with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		jobsView:  jobs.NewView(s),
		statusBar: status.NewBar(s, km),
	}, nil
}

// WithContext sets the context used for port calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("lectern - Indexing Monitor"),
		a.loadJobs(),
		a.schedulePoll(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.jobsView.SetWidth(msg.Width)
		a.statusBar.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.JobsLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.err = nil
		a.jobsView.SetJobs(msg.Jobs, msg.Titles)
		a.statusBar.SetState(status.StateReady)
		a.statusBar.SetJobCount(len(msg.Jobs))
		return a, nil

	case messages.PollTick:
		return a, tea.Batch(a.loadJobs(), a.schedulePoll())

	case messages.ActionDone:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			return a, nil
		}
		return a, a.loadJobs()
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(key, a.keymap.Refresh):
		a.statusBar.SetState(status.StateLoading)
		return a, a.loadJobs()

	case keymap.Matches(key, a.keymap.Up):
		a.jobsView.MoveUp()
		return a, nil

	case keymap.Matches(key, a.keymap.Down):
		a.jobsView.MoveDown()
		return a, nil

	case keymap.Matches(key, a.keymap.Resume):
		if job := a.jobsView.Selected(); job != nil && !job.Phase.IsTerminal() {
			return a, a.resumeJob(job.DocumentID)
		}
		return a, nil

	case keymap.Matches(key, a.keymap.Finalize):
		if job := a.jobsView.Selected(); job != nil && !job.Phase.IsTerminal() {
			return a, a.finalizeJob(job.DocumentID)
		}
		return a, nil
	}
	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	header := a.styles.Title.Render("Indexing Jobs")
	return header + "\n\n" + a.jobsView.View() + "\n" + a.statusBar.View()
}

// loadJobs fetches the job snapshot and document titles.
func (a *App) loadJobs() tea.Cmd {
	return func() tea.Msg {
		jobList, err := a.ports.Indexer.Jobs(a.ctx)
		if err != nil {
			return messages.JobsLoaded{Err: err}
		}

		titles := make(map[string]string, len(jobList))
		docs, err := a.ports.Library.List(a.ctx)
		if err == nil {
			for i := range docs {
				titles[docs[i].ID] = docs[i].Title
			}
		}
		return messages.JobsLoaded{Jobs: jobList, Titles: titles}
	}
}

func (a *App) schedulePoll() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return messages.PollTick{At: t}
	})
}

// resumeJob runs the indexing state machine for the document. Runs
// already active in this process are ignored.
func (a *App) resumeJob(documentID string) tea.Cmd {
	return func() tea.Msg {
		err := a.ports.Indexer.Run(a.ctx, documentID)
		if errors.Is(err, domain.ErrJobInProgress) {
			err = nil
		}
		return messages.ActionDone{DocumentID: documentID, Err: err}
	}
}

func (a *App) finalizeJob(documentID string) tea.Cmd {
	return func() tea.Msg {
		err := a.ports.Indexer.Finalize(a.ctx, documentID)
		return messages.ActionDone{DocumentID: documentID, Err: err}
	}
}

// Run starts the monitor.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its initial window size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.jobsView.SetWidth(width)
	a.statusBar.SetWidth(width)
}
