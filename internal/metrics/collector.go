package metrics

import (
	"context"
	"runtime"
	"time"

	"gorm.io/gorm"
)

// Collector samples process and database-pool gauges in the background.
type Collector struct {
	metrics   *Metrics
	db        *gorm.DB
	startTime time.Time
	interval  time.Duration
}

func NewCollector(metrics *Metrics, db *gorm.DB) *Collector {
	return &Collector{
		metrics:   metrics,
		db:        db,
		startTime: time.Now(),
		interval:  15 * time.Second,
	}
}

func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	go func() {
		defer ticker.Stop()
		c.collect()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.collect()
			}
		}
	}()
}

func (c *Collector) collect() {
	c.metrics.ServiceUptime.Set(time.Since(c.startTime).Seconds())
	c.metrics.Goroutines.Set(float64(runtime.NumGoroutine()))

	if c.db == nil {
		return
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return
	}
	stats := sqlDB.Stats()
	c.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	c.metrics.DBConnectionsIdle.Set(float64(stats.Idle))
}
