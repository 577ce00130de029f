package frontend

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"

	"rxintel/domain/health"
	"rxintel/domain/section"
	"rxintel/ports"
)

// CheckSystemHealth queries the health endpoint and reflects every component on the
// dashboard. Failures only degrade the displayed status.
func (c *Controller) CheckSystemHealth(ctx context.Context) health.Snapshot {
	start := c.clock.Now()
	resp, err := c.api.Health(ctx)
	latency := c.clock.Now().Sub(start)
	if err != nil {
		c.logger.Warn("health check failed: %v", err)
		resp = nil
	}

	snap := health.Derive(resp, latency, c.clock.Now())
	c.locked(func() {
		for _, comp := range health.Components {
			c.view.SetComponentHealth(snap.Get(comp))
		}
		c.view.SetLatency(snap.LatencyLabel())
		c.healthChecks++
		if snap.BackendReachable {
			c.latencies = append(c.latencies, float64(latency)/float64(time.Millisecond))
			if len(c.latencies) > latencyWindow {
				c.latencies = c.latencies[len(c.latencies)-latencyWindow:]
			}
		}
		c.lastHealth = &snap
	})
	return snap
}

// LoadStats renders the session statistics on the dashboard.
func (c *Controller) LoadStats() {
	c.locked(func() {
		c.view.SetStats(c.statsLocked())
	})
}

// Stats returns the statistics as the dashboard shows them.
func (c *Controller) Stats() ports.DashboardStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statsLocked()
}

func (c *Controller) statsLocked() ports.DashboardStats {
	out := ports.DashboardStats{
		AnalysesRun:      c.analysesRun,
		MedicationsFound: c.medicationsFound,
		LastAnalysis:     "Never",
		HealthChecks:     c.healthChecks,
		MeanLatency:      "--",
		P95Latency:       "--",
		SessionStarted:   humanize.RelTime(c.startTime, c.clock.Now(), "ago", "from now"),
	}
	if !c.lastAnalysis.IsZero() {
		out.LastAnalysis = humanize.RelTime(c.lastAnalysis, c.clock.Now(), "ago", "from now")
	}
	if len(c.latencies) > 0 {
		data := stats.Float64Data(c.latencies)
		if mean, err := data.Mean(); err == nil {
			out.MeanLatency = fmt.Sprintf("%.0fms", mean)
		}
		if p95, err := data.Percentile(95); err == nil {
			out.P95Latency = fmt.Sprintf("%.0fms", p95)
		}
	}
	return out
}

// Run re-checks health every poll interval while the dashboard is the active
// section. It returns when ctx is done.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.opts.HealthPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.ActiveSection() != section.Dashboard {
				continue
			}
			c.CheckSystemHealth(ctx)
		}
	}
}
