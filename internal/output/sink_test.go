package output

import (
	"bytes"
	"testing"

	"gotest.tools/v3/assert"
)

func TestSay(t *testing.T) {
	var buffer bytes.Buffer
	NewSink(&buffer).Say("Hello!")
	assert.Equal(t, buffer.String(), "Hello!\n")
}

func TestThink(t *testing.T) {
	var buffer bytes.Buffer
	NewSink(&buffer).Think("Hmm")
	assert.Equal(t, buffer.String(), "Hmm")
}

func TestOnSay(t *testing.T) {
	var buffer bytes.Buffer
	sink := NewSink(&buffer)

	sink.OnSay("Sprite1", KindThink, "Your name? ")
	sink.OnSay("Sprite1", KindSay, "Nice to meet you")

	assert.Equal(t, buffer.String(), "Your name? Nice to meet you\n")
}
