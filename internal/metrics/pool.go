package metrics

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolCollector exports pgxpool statistics at scrape time.
type PoolCollector struct {
	pool *pgxpool.Pool

	acquired     *prometheus.Desc
	idle         *prometheus.Desc
	total        *prometheus.Desc
	max          *prometheus.Desc
	acquireCount *prometheus.Desc
	emptyAcquire *prometheus.Desc
	canceled     *prometheus.Desc
	waitSeconds  *prometheus.Desc
}

func NewPoolCollector(pool *pgxpool.Pool) *PoolCollector {
	return &PoolCollector{
		pool:         pool,
		acquired:     prometheus.NewDesc("tweets_db_pool_acquired_conns", "Connections currently leased", nil, nil),
		idle:         prometheus.NewDesc("tweets_db_pool_idle_conns", "Idle connections", nil, nil),
		total:        prometheus.NewDesc("tweets_db_pool_total_conns", "Open connections", nil, nil),
		max:          prometheus.NewDesc("tweets_db_pool_max_conns", "Pool size bound", nil, nil),
		acquireCount: prometheus.NewDesc("tweets_db_pool_acquires_total", "Successful acquires", nil, nil),
		emptyAcquire: prometheus.NewDesc("tweets_db_pool_empty_acquires_total", "Acquires that had to wait for a connection", nil, nil),
		canceled:     prometheus.NewDesc("tweets_db_pool_canceled_acquires_total", "Acquires canceled by their context", nil, nil),
		waitSeconds:  prometheus.NewDesc("tweets_db_pool_acquire_wait_seconds_total", "Time spent waiting for a connection", nil, nil),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
	ch <- c.max
	ch <- c.acquireCount
	ch <- c.emptyAcquire
	ch <- c.canceled
	ch <- c.waitSeconds
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.pool.Stat()

	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(stat.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.max, prometheus.GaugeValue, float64(stat.MaxConns()))
	ch <- prometheus.MustNewConstMetric(c.acquireCount, prometheus.CounterValue, float64(stat.AcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.emptyAcquire, prometheus.CounterValue, float64(stat.EmptyAcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.canceled, prometheus.CounterValue, float64(stat.CanceledAcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.waitSeconds, prometheus.CounterValue, stat.AcquireDuration().Seconds())
}

// RegisterPool registers a PoolCollector for pool on the default registry.
// Registering twice is not an error.
func RegisterPool(pool *pgxpool.Pool) error {
	err := prometheus.Register(NewPoolCollector(pool))

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}
