package serv

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// PromStatistics implements Statistics on Prometheus counters so the
// served-connection and traffic totals show up on an existing registry.
type PromStatistics struct {
	conns    prometheus.Counter
	inBytes  prometheus.Counter
	outBytes prometheus.Counter
}

// NewPromStatistics registers the counters on reg and returns the
// Statistics fed by them. Pass prometheus.DefaultRegisterer to use the
// process-wide registry.
func NewPromStatistics(reg prometheus.Registerer) *PromStatistics {
	factory := promauto.With(reg)
	return &PromStatistics{
		conns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "serv",
			Name:      "connections_total",
			Help:      "Connections served.",
		}),
		inBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "serv",
			Name:      "in_bytes_total",
			Help:      "Bytes read from served connections.",
		}),
		outBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "serv",
			Name:      "out_bytes_total",
			Help:      "Bytes written to served connections.",
		}),
	}
}

// AddConnStats counts conn and ingests its in/out bytes.
// Use NewStatsConn in Server.NewConn if you want in/out traffic.
func (ps *PromStatistics) AddConnStats(conn Conn) {
	in, out := conn.Stats()
	ps.conns.Inc()
	ps.inBytes.Add(float64(in))
	ps.outBytes.Add(float64(out))
}

// Reset is a no-op: Prometheus counters are monotonic.
func (ps *PromStatistics) Reset() {}

// String returns the statistics as a json string.
func (ps *PromStatistics) String() string {
	return fmt.Sprintf(`{"conns": %d, "in_bytes": %d, "out_bytes": %d}`,
		counterValue(ps.conns), counterValue(ps.inBytes), counterValue(ps.outBytes))
}

func counterValue(c prometheus.Counter) int64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return int64(m.GetCounter().GetValue())
}
