// Package jobs renders the indexing job list with progress bars.
package jobs

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/inkwell-labs/lectern/internal/adapters/driving/tui/styles"
	"github.com/inkwell-labs/lectern/internal/core/domain"
)

// View renders the job list. It is a passive component: the app feeds
// it job snapshots and selection changes.
type View struct {
	styles   *styles.Styles
	bar      progress.Model
	jobs     []domain.IndexingJob
	titles   map[string]string
	selected int
	width    int
}

// NewView creates the job list view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false

	return &View{
		styles: s,
		bar:    bar,
		width:  80,
	}
}

// SetJobs replaces the job snapshot, keeping the selection in range.
func (v *View) SetJobs(jobs []domain.IndexingJob, titles map[string]string) {
	v.jobs = jobs
	v.titles = titles
	if v.selected >= len(jobs) {
		v.selected = len(jobs) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
}

// Jobs returns the current snapshot.
func (v *View) Jobs() []domain.IndexingJob {
	return v.jobs
}

// Selected returns the currently highlighted job, or nil when the
// list is empty.
func (v *View) Selected() *domain.IndexingJob {
	if len(v.jobs) == 0 {
		return nil
	}
	return &v.jobs[v.selected]
}

// SelectedIndex returns the highlighted row index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// MoveUp moves the selection up one row.
func (v *View) MoveUp() {
	if v.selected > 0 {
		v.selected--
	}
}

// MoveDown moves the selection down one row.
func (v *View) MoveDown() {
	if v.selected < len(v.jobs)-1 {
		v.selected++
	}
}

// SetWidth sets the render width.
func (v *View) SetWidth(width int) {
	v.width = width
	barWidth := width - 30
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 50 {
		barWidth = 50
	}
	v.bar.Width = barWidth
}

// View renders the job list and the detail panel for the selection.
func (v *View) View() string {
	if len(v.jobs) == 0 {
		return v.styles.Muted.Render("No indexing jobs yet. Add documents with 'lectern ingest'.")
	}

	var b strings.Builder
	for i := range v.jobs {
		b.WriteString(v.renderRow(&v.jobs[i], i == v.selected))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.renderDetail(&v.jobs[v.selected]))
	return b.String()
}

func (v *View) renderRow(job *domain.IndexingJob, selected bool) string {
	marker := "  "
	if selected {
		marker = v.styles.Selected.Render("> ")
	}

	title := v.title(job)
	if len(title) > 24 {
		title = title[:21] + "..."
	}

	phase := v.styles.PhaseStyle(job.Phase.String()).Render(fmt.Sprintf("%-13s", job.Phase))
	bar := v.bar.ViewAs(float64(job.Progress) / 100.0)
	pct := v.styles.Normal.Render(fmt.Sprintf("%3d%%", job.Progress))

	return fmt.Sprintf("%s%-24s %s %s %s", marker, title, phase, bar, pct)
}

func (v *View) renderDetail(job *domain.IndexingJob) string {
	var lines []string
	lines = append(lines, v.styles.Subtitle.Render(v.title(job)))

	if job.TotalChunks > 0 {
		lines = append(lines, fmt.Sprintf("Chunks: %d/%d", job.ChunkCount, job.TotalChunks))
	}
	if job.ThroughputPerMinute > 0 {
		lines = append(lines, fmt.Sprintf("Throughput: %.1f/min", job.ThroughputPerMinute))
	}
	if job.ETASeconds > 0 && !job.Phase.IsTerminal() {
		lines = append(lines, fmt.Sprintf("ETA: %s", (time.Duration(job.ETASeconds)*time.Second).String()))
	}
	if job.Notice != "" {
		lines = append(lines, v.styles.Warning.Render(job.Notice))
	}
	if !job.ResumeAt.IsZero() {
		lines = append(lines, v.styles.Warning.Render(
			fmt.Sprintf("Resumes at %s", job.ResumeAt.Format("15:04:05"))))
	}
	if job.LastError != "" {
		lines = append(lines, v.styles.Error.Render(fmt.Sprintf("Error: %s", job.LastError)))
	}
	if job.Summary != "" {
		lines = append(lines, v.styles.Muted.Render(job.Summary))
	}

	return v.styles.Border.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

func (v *View) title(job *domain.IndexingJob) string {
	if t, ok := v.titles[job.DocumentID]; ok && t != "" {
		return t
	}
	return job.DocumentID
}
