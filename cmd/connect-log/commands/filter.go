package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/PendoNL/spotify-connect-go/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output    string
	Peer      string
	UserName  string
	TimeStart string
	TimeEnd   string
	Direction string
	Category  string
}

// RunFilter filters the log file and writes matching events to a new file.
func RunFilter(path string, opts FilterOptions) error {
	var timeStart, timeEnd *time.Time
	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return fmt.Errorf("invalid time-start format: %w", err)
		}
		timeStart = &t
	}
	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return fmt.Errorf("invalid time-end format: %w", err)
		}
		timeEnd = &t
	}

	var direction *log.Direction
	if opts.Direction != "" {
		d, err := ParseDirectionFlag(opts.Direction)
		if err != nil {
			return err
		}
		direction = &d
	}

	var category *log.Category
	if opts.Category != "" {
		c, err := ParseCategoryFlag(opts.Category)
		if err != nil {
			return err
		}
		category = &c
	}

	// Write matching events through a file logger so the output stays a
	// valid event log.
	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	count := 0
	err = readEvents(path, func(event log.Event) error {
		if opts.Peer != "" && !strings.Contains(event.Peer, opts.Peer) {
			return nil
		}
		if opts.UserName != "" && event.UserName != opts.UserName {
			return nil
		}
		if timeStart != nil && event.Timestamp.Before(*timeStart) {
			return nil
		}
		if timeEnd != nil && event.Timestamp.After(*timeEnd) {
			return nil
		}
		if direction != nil && event.Direction != *direction {
			return nil
		}
		if category != nil && event.Category != *category {
			return nil
		}
		logger.Log(event)
		count++
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Filtered %d events to %s\n", count, opts.Output)
	return nil
}
