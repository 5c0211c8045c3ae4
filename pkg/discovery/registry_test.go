package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePeer(name, host string, port int) *Peer {
	return &Peer{
		Name:         name,
		Host:         host,
		Addresses:    []string{"192.168.1.20"},
		Port:         port,
		TXT:          map[string]string{TXTKeyCPath: "/zc"},
		DiscoveredAt: time.Now(),
	}
}

func TestRegistryLastWriteWins(t *testing.T) {
	r := NewRegistry()

	r.Upsert(makePeer("Living Room", "speaker.local.", 41234))
	r.Upsert(makePeer("Living Room", "speaker.local.", 52345))

	peers := r.Peers()
	require.Len(t, peers, 1)
	assert.Equal(t, 52345, peers[0].Port, "newer advertisement must replace, not merge")
}

func TestRegistryLookupFuzzy(t *testing.T) {
	r := NewRegistry()
	r.Upsert(makePeer("Living Room Speaker", "lrspeaker.local.", 1024))

	tests := []struct {
		name  string
		hint  string
		found bool
	}{
		{name: "exact name", hint: "Living Room Speaker", found: true},
		{name: "name substring", hint: "living room", found: true},
		{name: "hint superset of name", hint: "The Living Room Speaker Upstairs", found: true},
		{name: "host substring", hint: "LRSPEAKER", found: true},
		{name: "no match", hint: "kitchen", found: false},
		{name: "empty hint", hint: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Lookup(tt.hint)
			if tt.found {
				assert.NotNil(t, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestRefreshInvalidatesStaleRecord(t *testing.T) {
	r := NewRegistry()
	r.Upsert(makePeer("Living Room", "speaker.local.", 41234))

	// No fresh advertisement arrives: the stale record must not satisfy
	// the refresh, and the call must run to its deadline.
	start := time.Now()
	peer, err := r.Refresh("living", 300*time.Millisecond)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, peer)
	assert.GreaterOrEqual(t, elapsed, 300*time.Millisecond, "refresh must resolve at timeout, not before")

	// The invalidation step removed the stale record.
	assert.Nil(t, r.Lookup("living"))
}

func TestRefreshPicksUpFreshAdvertisement(t *testing.T) {
	r := NewRegistry()
	r.Upsert(makePeer("Living Room", "speaker.local.", 41234))

	// A re-advertisement with a new ephemeral port lands mid-wait.
	go func() {
		time.Sleep(400 * time.Millisecond)
		r.Upsert(makePeer("Living Room", "speaker.local.", 52345))
	}()

	peer, err := r.Refresh("Living Room", 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 52345, peer.Port, "refresh must return the fresh record")
}

func TestRefreshZeroTimeout(t *testing.T) {
	r := NewRegistry()

	peer, err := r.Refresh("anything", 0)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, peer)
}

func TestInvalidateCount(t *testing.T) {
	r := NewRegistry()
	r.Upsert(makePeer("Living Room", "a.local.", 1))
	r.Upsert(makePeer("Living Room 2", "b.local.", 2))
	r.Upsert(makePeer("Kitchen", "c.local.", 3))

	assert.Equal(t, 2, r.Invalidate("living room"))
	assert.Len(t, r.Peers(), 1)
}
