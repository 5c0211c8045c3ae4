package commands

import (
	"fmt"
	"io"

	"github.com/PendoNL/spotify-connect-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Direction *log.Direction
	Category  *log.Category
}

// matches reports whether the event passes the filter.
func (f ViewFilter) matches(event log.Event) bool {
	if f.Direction != nil && event.Direction != *f.Direction {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	return true
}

// RunView prints matching events in human-readable format.
func RunView(path string, filter ViewFilter, w io.Writer) error {
	return readEvents(path, func(event log.Event) error {
		if !filter.matches(event) {
			return nil
		}
		formatEvent(w, event)
		return nil
	})
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp DIRECTION CATEGORY action
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	action := event.Action
	if action == "" {
		action = "-"
	}
	fmt.Fprintf(w, "%s %-3s %-9s %s\n", ts, event.Direction.String(), event.Category.String(), action)

	if event.Peer != "" {
		fmt.Fprintf(w, "  Peer: %s\n", event.Peer)
	}
	if event.Status != 0 {
		fmt.Fprintf(w, "  Status: %d\n", event.Status)
	}
	if event.UserName != "" {
		fmt.Fprintf(w, "  User: %s", event.UserName)
		if event.Category == log.CategoryCapture {
			if event.Decoded {
				fmt.Fprintf(w, " (decoded)")
			} else {
				fmt.Fprintf(w, " (raw only)")
			}
		}
		fmt.Fprintln(w)
	}
	if event.Err != "" {
		fmt.Fprintf(w, "  Error: %s\n", event.Err)
	}

	fmt.Fprintln(w) // Blank line between events
}
