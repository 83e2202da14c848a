// Package record defines the on-disk command format written to segment
// files: a closed, externally-tagged sum type with two arms, Set and
// Remove. Every mutation the engine performs is serialized to exactly one
// Command and appended to the active segment; replay re-derives the index
// by decoding these records back in append order.
package record

import (
	"encoding/json"
	"fmt"
)

// SetCommand records the assignment key <- value.
type SetCommand struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RemoveCommand is a tombstone recording deletion of a key.
type RemoveCommand struct {
	Key string `json:"key"`
}

// Command is the tagged union written to segment files. Exactly one of Set
// or Remove is non-nil; the JSON representation is externally tagged, e.g.
// {"Set":{"key":"k","value":"v"}} or {"Remove":{"key":"k"}}, matching the
// reference on-disk format.
type Command struct {
	Set    *SetCommand    `json:"Set,omitempty"`
	Remove *RemoveCommand `json:"Remove,omitempty"`
}

// NewSet builds a Set command.
func NewSet(key, value string) Command {
	return Command{Set: &SetCommand{Key: key, Value: value}}
}

// NewRemove builds a Remove command.
func NewRemove(key string) Command {
	return Command{Remove: &RemoveCommand{Key: key}}
}

// Key returns the key named by whichever arm is populated, and reports
// whether the command is well-formed (exactly one arm set).
func (c Command) Key() (string, bool) {
	switch {
	case c.Set != nil && c.Remove == nil:
		return c.Set.Key, true
	case c.Remove != nil && c.Set == nil:
		return c.Remove.Key, true
	default:
		return "", false
	}
}

// IsSet reports whether this command is a Set arm.
func (c Command) IsSet() bool {
	return c.Set != nil && c.Remove == nil
}

// IsRemove reports whether this command is a Remove arm.
func (c Command) IsRemove() bool {
	return c.Remove != nil && c.Set == nil
}

// Marshal encodes the command using the wire format replay expects.
func (c Command) Marshal() ([]byte, error) {
	if c.Set == nil && c.Remove == nil {
		return nil, fmt.Errorf("record: empty command has no wire representation")
	}
	return json.Marshal(c)
}

// Unmarshal decodes exactly one command from a byte slice, validating that
// precisely one arm is present.
func Unmarshal(data []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return Command{}, fmt.Errorf("record: malformed command: %w", err)
	}
	if _, ok := c.Key(); !ok {
		return Command{}, fmt.Errorf("record: command has neither or both arms set")
	}
	return c, nil
}
