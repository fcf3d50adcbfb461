package vm

import (
	"encoding/json"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/quangloc99/scratch-run/internal/output"
	"github.com/quangloc99/scratch-run/internal/project"
)

type sayEvent struct {
	Target string
	Kind   string
	Text   string
}

// scriptedIO answers asks from a canned list, recording the questions.
type scriptedIO struct {
	questions []string
	answers   []string
	current   string
}

func (s *scriptedIO) askAndWait(question string) (string, error) {
	s.questions = append(s.questions, question)
	if len(s.answers) > 0 {
		s.current = s.answers[0]
		s.answers = s.answers[1:]
	} else {
		s.current = ""
	}
	return s.current, nil
}

func (s *scriptedIO) answer() string {
	return s.current
}

func literalInput(text string) json.RawMessage {
	encoded, err := json.Marshal([]any{1, []any{10, text}})
	if err != nil {
		panic(err)
	}
	return encoded
}

func reporterInput(blockID string) json.RawMessage {
	encoded, err := json.Marshal([]any{3, blockID, []any{10, ""}})
	if err != nil {
		panic(err)
	}
	return encoded
}

func greeterProject() *project.Project {
	return &project.Project{
		Targets: []project.Target{
			{IsStage: true, Name: "Stage", Blocks: map[string]*project.Block{}},
			{Name: "Sprite1", Blocks: map[string]*project.Block{
				"hat": {Opcode: "event_whenflagclicked", TopLevel: true, Next: "ask"},
				"ask": {Opcode: "sensing_askandwait", Next: "say", Inputs: map[string]json.RawMessage{
					"QUESTION": literalInput("What's your name?"),
				}},
				"say": {Opcode: "looks_say", Inputs: map[string]json.RawMessage{
					"MESSAGE": reporterInput("join"),
				}},
				"join": {Opcode: "operator_join", Inputs: map[string]json.RawMessage{
					"STRING1": literalInput("Hello, "),
					"STRING2": reporterInput("answer"),
				}},
				"answer": {Opcode: "sensing_answer"},
			}},
		},
	}
}

func TestGreeter(t *testing.T) {
	interpreter := NewInterpreter()
	assert.NilError(t, interpreter.LoadProject(greeterProject()))

	script := scriptedIO{answers: []string{"Smith"}}
	interpreter.SetIO(script.answer, script.askAndWait)

	var said []sayEvent
	interpreter.OnSay(func(target, kind, text string) {
		said = append(said, sayEvent{target, kind, text})
	})

	stops := 0
	interpreter.OnStop(func() { stops++ })

	assert.NilError(t, interpreter.Run())

	assert.DeepEqual(t, script.questions, []string{"What's your name?"})
	assert.DeepEqual(t, said, []sayEvent{
		{"Sprite1", output.KindSay, "Hello, Smith"},
	})
	assert.Equal(t, stops, 1)
}

func TestThink(t *testing.T) {
	interpreter := NewInterpreter()
	assert.NilError(t, interpreter.LoadProject(&project.Project{
		Targets: []project.Target{
			{Name: "Sprite1", Blocks: map[string]*project.Block{
				"hat":   {Opcode: "event_whenflagclicked", TopLevel: true, Next: "think"},
				"think": {Opcode: "looks_think", Inputs: map[string]json.RawMessage{
					"MESSAGE": literalInput("pondering"),
				}},
			}},
		},
	}))

	var said []sayEvent
	interpreter.OnSay(func(target, kind, text string) {
		said = append(said, sayEvent{target, kind, text})
	})

	assert.NilError(t, interpreter.Run())
	assert.DeepEqual(t, said, []sayEvent{
		{"Sprite1", output.KindThink, "pondering"},
	})
}

func TestNumberLiteral(t *testing.T) {
	interpreter := NewInterpreter()
	assert.NilError(t, interpreter.LoadProject(&project.Project{
		Targets: []project.Target{
			{Name: "Sprite1", Blocks: map[string]*project.Block{
				"hat": {Opcode: "event_whenflagclicked", TopLevel: true, Next: "say"},
				"say": {Opcode: "looks_say", Inputs: map[string]json.RawMessage{
					"MESSAGE": json.RawMessage(`[1, [4, 42]]`),
				}},
			}},
		},
	}))

	var texts []string
	interpreter.OnSay(func(target, kind, text string) {
		texts = append(texts, text)
	})

	assert.NilError(t, interpreter.Run())
	assert.DeepEqual(t, texts, []string{"42"})
}

func TestUnsupportedBlocksAreSkipped(t *testing.T) {
	interpreter := NewInterpreter()
	assert.NilError(t, interpreter.LoadProject(&project.Project{
		Targets: []project.Target{
			{Name: "Sprite1", Blocks: map[string]*project.Block{
				"hat":  {Opcode: "event_whenflagclicked", TopLevel: true, Next: "move"},
				"move": {Opcode: "motion_movesteps", Next: "say"},
				"say": {Opcode: "looks_say", Inputs: map[string]json.RawMessage{
					"MESSAGE": literalInput("done"),
				}},
			}},
		},
	}))

	var texts []string
	interpreter.OnSay(func(target, kind, text string) {
		texts = append(texts, text)
	})

	assert.NilError(t, interpreter.Run())
	assert.DeepEqual(t, texts, []string{"done"})
}

func TestExtensionsAreBlocked(t *testing.T) {
	interpreter := NewInterpreter()
	assert.NilError(t, interpreter.LoadProject(&project.Project{
		Extensions: []string{"music"},
		Targets: []project.Target{
			{Name: "Sprite1", Blocks: map[string]*project.Block{}},
		},
	}))

	interpreter.OnExtensionLoad(func(id string) error {
		return &BlockedExtensionError{ID: id}
	})

	stops := 0
	interpreter.OnStop(func() { stops++ })

	err := interpreter.Run()
	assert.ErrorContains(t, err, `extension "music" is not available`)

	// Stop still fires exactly once on failed runs
	assert.Equal(t, stops, 1)
}

func TestSb2ProjectRejected(t *testing.T) {
	interpreter := NewInterpreter()
	err := interpreter.LoadProject(&project.Project{ObjName: "Stage"})
	assert.ErrorContains(t, err, "no targets")
}
