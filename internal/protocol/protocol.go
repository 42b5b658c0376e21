// Package protocol parses the newline-delimited "<TAG>|<payload>" wire
// format and routes payloads to channel queues.
package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// Tag names the channel a line is addressed to. Matching is case-sensitive.
type Tag string

const (
	TagOsu      Tag = "OSU"
	TagKeyboard Tag = "KEYBOARD"
	TagMouse    Tag = "MOUSE"
)

// Tags lists every tag the protocol defines.
var Tags = []Tag{TagOsu, TagKeyboard, TagMouse}

const separator = "|"

var (
	ErrMissingSeparator = errors.New("missing '|' separator")
	ErrUnknownTag       = errors.New("unknown tag")
)

// Error is a protocol-level rejection of one line. The line is dropped and
// the connection stays open.
type Error struct {
	Line string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("protocol: %v: %q", e.Err, e.Line)
}

func (e *Error) Unwrap() error { return e.Err }

// Known reports whether t is one of the defined tags.
func (t Tag) Known() bool {
	for _, k := range Tags {
		if t == k {
			return true
		}
	}
	return false
}

// ParseLine splits a trimmed line on its first '|'. The payload is returned
// with surrounding whitespace removed; it may be empty.
func ParseLine(line string) (Tag, string, error) {
	line = strings.TrimSpace(line)
	tag, payload, ok := strings.Cut(line, separator)
	if !ok {
		return "", "", &Error{Line: line, Err: ErrMissingSeparator}
	}
	t := Tag(tag)
	if !t.Known() {
		return "", "", &Error{Line: line, Err: fmt.Errorf("%w %q", ErrUnknownTag, tag)}
	}
	return t, strings.TrimSpace(payload), nil
}
