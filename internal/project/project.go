// Package project decodes and validates Scratch project files.
//
// A project comes either as an sb3/sb2 zip archive with a project.json
// inside, or as a bare project.json. Which one we got is decided by the
// file's first bytes, same idea as the compression sniffing on the input
// stream.
package project

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

var zipMagic = []byte{0x50, 0x4b}

// Project is the decoded project.json, reduced to what the runner needs.
type Project struct {
	Targets    []Target `json:"targets"`
	Extensions []string `json:"extensions"`
	Meta       *Meta    `json:"meta"`

	// Scratch 2 projects have no targets array; objName marks their stage.
	ObjName string `json:"objName"`
}

type Meta struct {
	Semver string `json:"semver"`
	VM     string `json:"vm"`
	Agent  string `json:"agent"`
}

// Target is one stage or sprite.
type Target struct {
	IsStage bool              `json:"isStage"`
	Name    string            `json:"name"`
	Blocks  map[string]*Block `json:"blocks"`
}

// Block is one block as stored in project.json. Inputs are kept raw, their
// shape varies per opcode and the engine decodes what it understands.
type Block struct {
	Opcode   string                     `json:"opcode"`
	Next     string                     `json:"next"`
	Parent   string                     `json:"parent"`
	Inputs   map[string]json.RawMessage `json:"inputs"`
	TopLevel bool                       `json:"topLevel"`
}

// Load reads and decodes a project file.
func Load(filename string) (*Project, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		// Reported verbatim, the os error already names the file
		return nil, err
	}
	return FromBytes(contents)
}

// FromBytes decodes a project from an sb3/sb2 archive or a bare
// project.json.
func FromBytes(contents []byte) (*Project, error) {
	if bytes.HasPrefix(contents, zipMagic) {
		var err error
		contents, err = projectJSONFromArchive(contents)
		if err != nil {
			return nil, err
		}
	}

	var project Project
	if err := json.Unmarshal(contents, &project); err != nil {
		return nil, errors.Wrap(err, "decoding project.json")
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	return &project, nil
}

func projectJSONFromArchive(contents []byte) ([]byte, error) {
	archive, err := zip.NewReader(bytes.NewReader(contents), int64(len(contents)))
	if err != nil {
		return nil, errors.Wrap(err, "opening project archive")
	}

	for _, file := range archive.File {
		if file.Name != "project.json" {
			continue
		}

		reader, err := file.Open()
		if err != nil {
			return nil, errors.Wrap(err, "opening project.json in archive")
		}
		defer reader.Close()

		decoded, err := io.ReadAll(reader)
		if err != nil {
			return nil, errors.Wrap(err, "reading project.json in archive")
		}
		return decoded, nil
	}

	return nil, errors.New("project archive contains no project.json")
}

// Validate checks that the decoded content has the shape of a Scratch
// project. Scratch 3 projects carry a targets array, Scratch 2 projects an
// objName for the stage.
func (p *Project) Validate() error {
	if len(p.Targets) == 0 && p.ObjName == "" {
		return errors.New("not a Scratch project: no targets and no objName")
	}

	for i := range p.Targets {
		if p.Targets[i].Blocks == nil {
			return errors.Errorf("not a Scratch project: target %q has no blocks map", p.Targets[i].Name)
		}
	}

	return nil
}
