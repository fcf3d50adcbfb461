package vm

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/quangloc99/scratch-run/internal/output"
	"github.com/quangloc99/scratch-run/internal/project"
)

// Interpreter is a deliberately small Engine: it runs the green-flag scripts
// of a Scratch 3 project and understands the blocks that do console I/O.
// Unknown statement blocks are skipped with a debug log, unknown reporters
// evaluate to the empty string.
type Interpreter struct {
	project *project.Project
	turbo   bool

	onSay           func(target string, kind string, text string)
	answer          func() string
	askAndWait      func(question string) (string, error)
	onStop          func()
	onExtensionLoad func(id string) error
}

func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

func (in *Interpreter) LoadProject(p *project.Project) error {
	if len(p.Targets) == 0 {
		return errors.New("only Scratch 3 projects can run, this one has no targets")
	}
	in.project = p
	return nil
}

func (in *Interpreter) SetTurbo(on bool) {
	in.turbo = on
}

func (in *Interpreter) OnSay(fn func(target string, kind string, text string)) {
	in.onSay = fn
}

func (in *Interpreter) SetIO(answer func() string, askAndWait func(question string) (string, error)) {
	in.answer = answer
	in.askAndWait = askAndWait
}

func (in *Interpreter) OnStop(fn func()) {
	in.onStop = fn
}

func (in *Interpreter) OnExtensionLoad(fn func(id string) error) {
	in.onExtensionLoad = fn
}

// Run executes every green-flag script, one after the other in stable
// order. Scripts never run interleaved here; programs this runner targets
// talk to stdin and stdout, where interleaving would scramble everything
// anyway.
func (in *Interpreter) Run() (err error) {
	defer func() {
		// Stop fires exactly once, also on failure
		if in.onStop != nil {
			in.onStop()
		}
	}()

	if in.project == nil {
		return errors.New("no project loaded")
	}

	for _, id := range in.project.Extensions {
		if in.onExtensionLoad == nil {
			continue
		}
		if err := in.onExtensionLoad(id); err != nil {
			return err
		}
	}

	for ti := range in.project.Targets {
		target := &in.project.Targets[ti]

		var hats []string
		for id, block := range target.Blocks {
			if block.TopLevel && block.Opcode == "event_whenflagclicked" {
				hats = append(hats, id)
			}
		}
		slices.Sort(hats)

		for _, hat := range hats {
			if err := in.runChain(target, target.Blocks[hat].Next); err != nil {
				return err
			}
		}
	}

	return nil
}

// runChain executes a linked list of statement blocks.
func (in *Interpreter) runChain(target *project.Target, id string) error {
	for id != "" {
		block := target.Blocks[id]
		if block == nil {
			return errors.Errorf("block chain references unknown block %q", id)
		}

		if err := in.runBlock(target, block); err != nil {
			return err
		}

		id = block.Next
	}
	return nil
}

func (in *Interpreter) runBlock(target *project.Target, block *project.Block) error {
	switch block.Opcode {
	case "looks_say", "looks_sayforsecs":
		return in.emit(target, block, output.KindSay)

	case "looks_think", "looks_thinkforsecs":
		return in.emit(target, block, output.KindThink)

	case "sensing_askandwait":
		question, err := in.inputString(target, block, "QUESTION")
		if err != nil {
			return err
		}
		if in.askAndWait == nil {
			return errors.New("sensing_askandwait used but no ask primitive is wired")
		}
		_, err = in.askAndWait(question)
		return err

	default:
		log.Debugf("Skipping unsupported block %q", block.Opcode)
		return nil
	}
}

func (in *Interpreter) emit(target *project.Target, block *project.Block, kind string) error {
	text, err := in.inputString(target, block, "MESSAGE")
	if err != nil {
		return err
	}

	if in.onSay != nil {
		in.onSay(target.Name, kind, text)
	}

	in.maybeSleep(target, block)
	return nil
}

// maybeSleep honors the duration of sayforsecs/thinkforsecs when turbo mode
// is off.
func (in *Interpreter) maybeSleep(target *project.Target, block *project.Block) {
	if in.turbo {
		return
	}
	if block.Opcode != "looks_sayforsecs" && block.Opcode != "looks_thinkforsecs" {
		return
	}

	secsText, err := in.inputString(target, block, "SECS")
	if err != nil {
		return
	}
	secs, err := strconv.ParseFloat(secsText, 64)
	if err != nil || secs <= 0 {
		return
	}
	time.Sleep(time.Duration(secs * float64(time.Second)))
}

// inputString resolves one block input to a string. Inputs in project.json
// are arrays: the second element is either a literal of the form
// [type, value] or the id of a reporter block.
func (in *Interpreter) inputString(target *project.Target, block *project.Block, name string) (string, error) {
	raw, ok := block.Inputs[name]
	if !ok {
		return "", nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", errors.Wrapf(err, "decoding input %q of block %q", name, block.Opcode)
	}
	if len(parts) < 2 {
		return "", nil
	}

	var literal []any
	if err := json.Unmarshal(parts[1], &literal); err == nil {
		if len(literal) < 2 || literal[1] == nil {
			return "", nil
		}
		return literalString(literal[1]), nil
	}

	var reporterID string
	if err := json.Unmarshal(parts[1], &reporterID); err == nil && reporterID != "" {
		return in.evalReporter(target, reporterID)
	}

	return "", nil
}

// evalReporter evaluates a reporter block to a string.
func (in *Interpreter) evalReporter(target *project.Target, id string) (string, error) {
	block := target.Blocks[id]
	if block == nil {
		return "", errors.Errorf("input references unknown block %q", id)
	}

	switch block.Opcode {
	case "sensing_answer":
		if in.answer == nil {
			return "", nil
		}
		return in.answer(), nil

	case "operator_join":
		first, err := in.inputString(target, block, "STRING1")
		if err != nil {
			return "", err
		}
		second, err := in.inputString(target, block, "STRING2")
		if err != nil {
			return "", err
		}
		return first + second, nil

	default:
		log.Debugf("Unsupported reporter %q evaluates to the empty string", block.Opcode)
		return "", nil
	}
}

// literalString renders a project.json literal the way Scratch shows it:
// whole numbers without a decimal point.
func literalString(value any) string {
	if number, ok := value.(float64); ok {
		return strconv.FormatFloat(number, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}
