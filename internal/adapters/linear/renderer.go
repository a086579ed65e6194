// Package linear provides a synchronous, line-buffered renderer for compile phases.
package linear

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/policy/internal/ui/output"
	"go.trai.ch/policy/internal/ui/style"
)

// Renderer implements ports.Renderer for terminals and CI logs.
// It prints one line per phase transition, prefixed with the phase name.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	phases  map[string]*phaseState // spanID -> phase state
	buffers map[string]*bytes.Buffer
}

type phaseState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new Renderer.
// Phase output goes to stdout and status lines go to stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	return newRenderer(stdout, stderr, output.ColorProfileANSI)
}

// NewPlainRenderer creates a Renderer that never emits escape sequences.
func NewPlainRenderer(stdout, stderr io.Writer) *Renderer {
	return newRenderer(stdout, stderr, output.ColorProfileNone)
}

func newRenderer(stdout, stderr io.Writer, profileFn func() termenv.Profile) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.NewWithProfile(stderr, profileFn),
		phases:  make(map[string]*phaseState),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// OnPhaseStart prints a phase start message.
func (r *Renderer) OnPhaseStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.phases[spanID] = &phaseState{
		name:      name,
		startTime: startTime,
	}
	r.buffers[spanID] = new(bytes.Buffer)

	prefix := r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", prefix)
}

// OnPhaseLog buffers log data and prints complete lines with the phase prefix.
func (r *Renderer) OnPhaseLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	phase, ok := r.phases[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)

	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line, keep it for the next write.
			if len(line) > 0 {
				partial := new(bytes.Buffer)
				partial.Write(line)
				r.buffers[spanID] = partial
			}
			break
		}

		r.printLineLocked(phase.name, line)
	}
}

// OnPhaseComplete flushes the remaining buffer and prints the phase status.
func (r *Renderer) OnPhaseComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	phase, ok := r.phases[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)

	duration := endTime.Sub(phase.startTime).Round(time.Millisecond)
	prefix := fmt.Sprintf("[%s]", phase.name)

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v\n", prefix, symbol, duration)
	} else {
		symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, symbol, duration)
	}

	delete(r.phases, spanID)
	delete(r.buffers, spanID)
}

// Flush prints any partial lines still buffered.
func (r *Renderer) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}

	return nil
}

// flushBufferLocked must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	phase, ok := r.phases[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	if buf.Len() > 0 {
		r.printLineLocked(phase.name, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked must be called with r.mu held.
func (r *Renderer) printLineLocked(phaseName string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", phaseName, string(line))
}
