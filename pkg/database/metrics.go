package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// PoolStats is the part of a connection pool's statistics exported as
// metrics, common to the Postgres and Redis backends.
type PoolStats struct {
	Total int
	Idle  int
	InUse int
	// Misses counts acquires that found no idle connection.
	Misses uint64
	// Timeouts counts acquires that gave up waiting.
	Timeouts uint64
}

// PostgresPoolStats reads the statistics of a pgx pool.
func PostgresPoolStats(pool *pgxpool.Pool) PoolStats {
	s := pool.Stat()
	return PoolStats{
		Total:    int(s.TotalConns()),
		Idle:     int(s.IdleConns()),
		InUse:    int(s.AcquiredConns()),
		Misses:   uint64(s.EmptyAcquireCount()),
		Timeouts: uint64(s.CanceledAcquireCount()),
	}
}

// RedisPoolStats reads the statistics of a go-redis client pool.
func RedisPoolStats(client *redis.Client) PoolStats {
	s := client.PoolStats()
	return PoolStats{
		Total:    int(s.TotalConns),
		Idle:     int(s.IdleConns),
		InUse:    int(s.TotalConns) - int(s.IdleConns),
		Misses:   uint64(s.Misses),
		Timeouts: uint64(s.Timeouts),
	}
}

var (
	poolConnsDesc = prometheus.NewDesc(
		"shophub_state_pool_connections",
		"Connections in the state backend pool by state.",
		[]string{"backend", "state"}, nil,
	)
	poolMissesDesc = prometheus.NewDesc(
		"shophub_state_pool_misses_total",
		"Acquires that found no idle connection in the state backend pool.",
		[]string{"backend"}, nil,
	)
	poolTimeoutsDesc = prometheus.NewDesc(
		"shophub_state_pool_timeouts_total",
		"Acquires from the state backend pool that gave up waiting.",
		[]string{"backend"}, nil,
	)
)

// PoolCollector exports the connection pool of the state backend.
type PoolCollector struct {
	backend string
	stats   func() PoolStats
}

// NewPoolCollector creates a collector reading stats on every scrape.
func NewPoolCollector(backend string, stats func() PoolStats) *PoolCollector {
	return &PoolCollector{backend: backend, stats: stats}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- poolConnsDesc
	ch <- poolMissesDesc
	ch <- poolTimeoutsDesc
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(poolConnsDesc, prometheus.GaugeValue, float64(s.InUse), c.backend, "in_use")
	ch <- prometheus.MustNewConstMetric(poolConnsDesc, prometheus.GaugeValue, float64(s.Idle), c.backend, "idle")
	ch <- prometheus.MustNewConstMetric(poolConnsDesc, prometheus.GaugeValue, float64(s.Total), c.backend, "total")
	ch <- prometheus.MustNewConstMetric(poolMissesDesc, prometheus.CounterValue, float64(s.Misses), c.backend)
	ch <- prometheus.MustNewConstMetric(poolTimeoutsDesc, prometheus.CounterValue, float64(s.Timeouts), c.backend)
}

// RegisterPoolMetrics registers a pool collector for backend with reg. A
// collector registered earlier for the same metrics is replaced, so the most
// recently opened pool is the one exported.
func RegisterPoolMetrics(reg prometheus.Registerer, backend string, stats func() PoolStats) error {
	c := NewPoolCollector(backend, stats)
	err := reg.Register(c)
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		reg.Unregister(already.ExistingCollector)
		err = reg.Register(c)
	}
	return err
}
