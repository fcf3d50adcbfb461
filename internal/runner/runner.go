// Package runner wires an execution engine to stdin and stdout: input goes
// through the reader and bridge, say and think events go to the sink.
package runner

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/quangloc99/scratch-run/internal/bridge"
	"github.com/quangloc99/scratch-run/internal/output"
	"github.com/quangloc99/scratch-run/internal/project"
	"github.com/quangloc99/scratch-run/internal/reader"
	"github.com/quangloc99/scratch-run/internal/vm"
)

type Options struct {
	// Input is the program's input stream, usually stdin.
	Input io.Reader

	// Output is where say and think events go, usually stdout.
	Output io.Writer

	// Interactive selects incremental input delivery: asks resolve as
	// lines arrive. Without it the whole input stream is buffered before
	// the program starts.
	Interactive bool

	// Turbo asks the engine not to sleep on timed blocks.
	Turbo bool
}

// Run executes a project on the given engine and returns when the program
// has stopped. All failures come back as errors; mapping them to exit codes
// is the caller's business.
func Run(engine vm.Engine, proj *project.Project, opts Options) error {
	if err := engine.LoadProject(proj); err != nil {
		return errors.Wrap(err, "invalid project")
	}

	inputReader := reader.New()
	ioBridge := bridge.New(inputReader)
	sink := output.NewSink(opts.Output)

	engine.SetTurbo(opts.Turbo)
	engine.OnSay(sink.OnSay)
	engine.SetIO(ioBridge.Answer, ioBridge.AskAndWait)
	engine.OnExtensionLoad(func(id string) error {
		return &vm.BlockedExtensionError{ID: id}
	})

	stopped := make(chan struct{})
	engine.OnStop(func() {
		close(stopped)
	})

	if opts.Interactive {
		log.Debug("Delivering input incrementally")
		reader.DeliverIncrementally(opts.Input, inputReader)
	} else {
		log.Debug("Buffering all input before starting")

		// Piped input may well be compressed, a human typing is not
		decompressed, err := reader.Decompressed(opts.Input)
		if err != nil {
			return err
		}
		if err := reader.DeliverEagerly(decompressed, inputReader); err != nil {
			return err
		}
	}

	runErr := engine.Run()

	// Engines may signal the stop event asynchronously; the run is not
	// over until it has fired.
	<-stopped

	return runErr
}
