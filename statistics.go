package serv

import (
	"fmt"
	"sync"
)

type (
	// Statistics is the interface that wraps operations for accumulating
	// Conn statistics.
	Statistics interface {
		// AddConnStats ingests the statistics of one finished Conn.
		AddConnStats(Conn)
		// Reset clears statistics held now.
		Reset()
		// String returns a string that represents the current statistics.
		String() string
	}

	// TrafficStatistics implements Statistics to hold the number of
	// connections served and the in/out traffic across a server.
	TrafficStatistics struct {
		mu       sync.RWMutex
		conns    int64
		inBytes  int64
		outBytes int64
	}
)

// AddConnStats counts conn and ingests its in/out bytes.
// Use NewStatsConn in Server.NewConn if you want in/out traffic.
func (ts *TrafficStatistics) AddConnStats(conn Conn) {
	in, out := conn.Stats()
	ts.mu.Lock()
	ts.conns++
	ts.inBytes += in
	ts.outBytes += out
	ts.mu.Unlock()
}

// Reset clears statistics held now.
func (ts *TrafficStatistics) Reset() {
	ts.mu.Lock()
	ts.conns, ts.inBytes, ts.outBytes = 0, 0, 0
	ts.mu.Unlock()
}

// String returns the statistics as a json string.
func (ts *TrafficStatistics) String() (str string) {
	ts.mu.RLock()
	str = fmt.Sprintf(`{"conns": %d, "in_bytes": %d, "out_bytes": %d}`,
		ts.conns, ts.inBytes, ts.outBytes)
	ts.mu.RUnlock()
	return
}
