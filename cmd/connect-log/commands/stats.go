package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/PendoNL/spotify-connect-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	EventsByPeer      map[string]int
	Captures          int
	CapturesDecoded   int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats := &Stats{
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		EventsByPeer:      make(map[string]int),
	}

	err := readEvents(path, func(event log.Event) error {
		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++
		stats.EventsByDirection[event.Direction]++
		if event.Peer != "" {
			stats.EventsByPeer[event.Peer]++
		}
		if event.Category == log.CategoryCapture {
			stats.Captures++
			if event.Decoded {
				stats.CapturesDecoded++
			}
		}
		if event.Err != "" || event.Category == log.CategoryError {
			stats.Errors++
		}

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}
		return nil
	})
	if err != nil {
		return err
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintf(w, "Total events: %d\n", stats.TotalEvents)
	if stats.TotalEvents == 0 {
		return
	}

	fmt.Fprintf(w, "Time range:   %s - %s (%s)\n",
		stats.TimeRange.Start.UTC().Format(time.RFC3339),
		stats.TimeRange.End.UTC().Format(time.RFC3339),
		stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))

	fmt.Fprintln(w, "\nBy category:")
	for _, c := range []log.Category{log.CategoryDiscovery, log.CategoryHandshake, log.CategoryCapture, log.CategoryWake, log.CategoryError} {
		if n := stats.EventsByCategory[c]; n > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", c.String(), n)
		}
	}

	fmt.Fprintln(w, "\nBy direction:")
	for _, d := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if n := stats.EventsByDirection[d]; n > 0 {
			fmt.Fprintf(w, "  %-4s %d\n", d.String(), n)
		}
	}

	if stats.Captures > 0 {
		fmt.Fprintf(w, "\nCaptures: %d (%d decoded)\n", stats.Captures, stats.CapturesDecoded)
	}
	if stats.Errors > 0 {
		fmt.Fprintf(w, "Errors:   %d\n", stats.Errors)
	}

	if len(stats.EventsByPeer) > 0 {
		peers := make([]string, 0, len(stats.EventsByPeer))
		for p := range stats.EventsByPeer {
			peers = append(peers, p)
		}
		sort.Strings(peers)

		fmt.Fprintf(w, "\nPeers (%d):\n", len(peers))
		for _, p := range peers {
			fmt.Fprintf(w, "  %-30s %d events\n", p, stats.EventsByPeer[p])
		}
	}
}
