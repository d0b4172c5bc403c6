package abiconv

import (
	"encoding/json"
	"fmt"

	"github.com/sendblocks/custom-indexer-example/internal/adapter"
)

// EventInput is one event argument, reduced to the fields a decoder's
// signature set needs
type EventInput struct {
	Indexed bool   `json:"indexed"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

// Event is one event definition from a contract ABI
type Event struct {
	Type      string       `json:"type"`
	Name      string       `json:"name"`
	Anonymous bool         `json:"anonymous"`
	Inputs    []EventInput `json:"inputs"`
}

// Shorten reduces a full contract ABI to its events-only signature set,
// keeping the original event order. Functions, constructors, and every field
// the decoder does not need are dropped. The input must be a JSON array of
// ABI entries.
func Shorten(data []byte) ([]Event, error) {
	var entries []Event
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse ABI JSON (expected an array of entries): %w", err)
	}

	events := make([]Event, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != "event" {
			continue
		}
		if entry.Inputs == nil {
			entry.Inputs = []EventInput{}
		}
		events = append(events, entry)
	}

	return events, nil
}

// Render serializes an events-only signature set to ABI JSON, pretty-printed
// with two-space indentation unless compact
func Render(events []Event, compact bool) ([]byte, error) {
	var out []byte
	var err error

	if compact {
		out, err = json.Marshal(events)
	} else {
		out, err = json.MarshalIndent(events, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal events ABI: %w", err)
	}

	return out, nil
}

// Converter applies the ABI reduction to files
type Converter struct {
	fs adapter.FileSystem
}

// NewConverter creates a converter backed by the given file system
func NewConverter(fs adapter.FileSystem) *Converter {
	return &Converter{fs: fs}
}

// ConvertFile reads a full contract ABI from inPath and writes its events-only
// signature set to outPath
func (c *Converter) ConvertFile(inPath, outPath string, compact bool) error {
	data, err := c.fs.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read ABI file: %w", err)
	}

	events, err := Shorten(data)
	if err != nil {
		return err
	}

	out, err := Render(events, compact)
	if err != nil {
		return err
	}

	if err := c.fs.WriteFile(outPath, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write events ABI file: %w", err)
	}

	return nil
}
