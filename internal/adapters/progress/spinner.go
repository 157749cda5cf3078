package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// SpinnerProgressReporter shows the transaction machine's states as a trail
// behind a spinner
type SpinnerProgressReporter struct {
	mu      sync.Mutex
	spinner *spinner.Spinner
	out     io.Writer
	stages  []stageInfo
}

type stageInfo struct {
	Stage     string
	Message   string
	StartTime time.Time
	EndTime   time.Time
	Status    string
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     out,
	}
}

// OnProgress records the stage and updates the spinner
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n := len(r.stages); n > 0 && r.stages[n-1].Stage == event.Stage && event.Stage != string(models.StateTokenApproval) && event.Stage != string(models.StateExecutingTransaction) {
		r.stages[n-1].Message = event.Message
	} else {
		r.completeCurrentStage("completed")
		r.stages = append(r.stages, stageInfo{
			Stage:     event.Stage,
			Message:   event.Message,
			StartTime: time.Now(),
			Status:    "running",
		})
	}

	switch event.Stage {
	case string(models.StateSuccess):
		r.completeCurrentStage("completed")
	case string(models.StateError):
		r.completeCurrentStage("failed")
	}

	if event.Spinner {
		r.spinner.Suffix = " " + r.trail()
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		return
	}

	if r.spinner.Active() {
		r.spinner.Stop()
	}
	fmt.Fprintln(r.out, r.trail())
}

// Pause stops the spinner until the next progress event, for prompts
func (r *SpinnerProgressReporter) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.println(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.println(color.New(color.FgRed), message)
}

func (r *SpinnerProgressReporter) println(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// completeCurrentStage closes the running stage with status
func (r *SpinnerProgressReporter) completeCurrentStage(status string) {
	if len(r.stages) == 0 {
		return
	}
	last := &r.stages[len(r.stages)-1]
	if last.Status != "running" {
		return
	}
	last.EndTime = time.Now()
	last.Status = status
}

// trail renders the stages seen so far
func (r *SpinnerProgressReporter) trail() string {
	parts := make([]string, 0, len(r.stages))
	for _, stage := range r.stages {
		var icon string
		var stageColor *color.Color

		switch stage.Status {
		case "completed":
			icon = "✓"
			stageColor = color.New(color.FgGreen)
		case "failed":
			icon = "✗"
			stageColor = color.New(color.FgRed)
		default:
			icon = "●"
			stageColor = color.New(color.FgYellow)
		}

		duration := ""
		if !stage.EndTime.IsZero() && stage.EndTime.Sub(stage.StartTime) >= time.Millisecond {
			duration = fmt.Sprintf(" (%s)", stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond))
		}

		parts = append(parts, fmt.Sprintf("%s %s%s", icon, stageColor.Sprint(stage.Message), duration))
	}
	return strings.Join(parts, " → ")
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
