// Package vm defines the execution-engine surface the runner drives, plus a
// small interpreter covering the console I/O blocks.
package vm

import (
	"fmt"

	"github.com/quangloc99/scratch-run/internal/project"
)

// Engine is what the runner needs from an execution engine. Implementations
// run the program however they like; the runner only wires these hooks.
type Engine interface {
	// LoadProject hands the decoded project to the engine. An error here
	// means the engine rejects the project content.
	LoadProject(p *project.Project) error

	// SetTurbo toggles fast mode. Headless runs want it on so timed say
	// and think blocks don't sleep.
	SetTurbo(on bool)

	// OnSay registers the hook invoked once per say event. kind is
	// output.KindSay or output.KindThink.
	OnSay(fn func(target string, kind string, text string))

	// SetIO overrides the engine's answer and ask-and-wait primitives.
	// askAndWait blocks until an answer is available.
	SetIO(answer func() string, askAndWait func(question string) (string, error))

	// OnStop registers fn to fire exactly once when program execution
	// stops, whether it succeeded or not.
	OnStop(fn func())

	// OnExtensionLoad registers the gatekeeper consulted before any
	// dynamic capability is loaded. Returning an error aborts the run.
	OnExtensionLoad(fn func(id string) error)

	// Run executes the program to completion.
	Run() error
}

// BlockedExtensionError reports a dynamic capability that is not available
// when running headless.
type BlockedExtensionError struct {
	ID string
}

func (e *BlockedExtensionError) Error() string {
	return fmt.Sprintf("extension %q is not available when running headless", e.ID)
}
