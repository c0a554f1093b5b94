// Package monitor exposes Prometheus metrics for the room server.
package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Monitor wraps the server's metric set.
type Monitor struct {
	onlinePlayers    prometheus.Gauge
	activeRooms      prometheus.Gauge
	commandsReceived prometheus.Counter
	gamesCompleted   prometheus.Counter
}

// New registers the metric set under the given namespace.
func New(namespace string) *Monitor {
	m := &Monitor{
		onlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of players currently seated in rooms",
		}),
		activeRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of live rooms",
		}),
		commandsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_received_total",
			Help:      "Total client commands received over WebSocket",
		}),
		gamesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_completed_total",
			Help:      "Total games played to a win",
		}),
	}
	prometheus.MustRegister(
		m.onlinePlayers,
		m.activeRooms,
		m.commandsReceived,
		m.gamesCompleted,
	)
	return m
}

// Serve exposes /metrics on its own listener.
func (m *Monitor) Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(addr, mux)
}

func (m *Monitor) SetOnlinePlayers(n int) { m.onlinePlayers.Set(float64(n)) }
func (m *Monitor) SetActiveRooms(n int)   { m.activeRooms.Set(float64(n)) }
func (m *Monitor) IncCommandsReceived()   { m.commandsReceived.Inc() }
func (m *Monitor) IncGamesCompleted()     { m.gamesCompleted.Inc() }
