// Package commands implements the connect-log CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PendoNL/spotify-connect-go/pkg/log"
)

// ParseDirectionFlag parses a direction filter value.
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction %q (want in, out)", s)
	}
}

// ParseCategoryFlag parses a category filter value.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "discovery":
		return log.CategoryDiscovery, nil
	case "handshake":
		return log.CategoryHandshake, nil
	case "capture":
		return log.CategoryCapture, nil
	case "wake":
		return log.CategoryWake, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category %q (want discovery, handshake, capture, wake, error)", s)
	}
}

// readEvents decodes every event in a log file, calling fn for each.
// Decoding stops cleanly at EOF; a truncated trailing event is an error.
func readEvents(path string, fn func(log.Event) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := log.NewDecoder(f)
	for {
		var event log.Event
		if err := dec.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to decode event: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}
