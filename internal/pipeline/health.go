package pipeline

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Probe tracks whether the external scoring process dependency is
// currently usable: the command resolves and the exchange directory is
// writable. The result feeds the health endpoint.
type Probe struct {
	Command     string
	ExchangeDir string

	available atomic.Bool
	checkedAt atomic.Int64 // unix nanos of the last check
}

// Check refreshes availability and returns the new value.
func (p *Probe) Check() bool {
	ok := true
	if _, err := exec.LookPath(p.Command); err != nil {
		ok = false
	}
	if info, err := os.Stat(p.ExchangeDir); err != nil || !info.IsDir() {
		ok = false
	}
	p.available.Store(ok)
	p.checkedAt.Store(time.Now().UnixNano())
	return ok
}

// Available returns the last probed state.
func (p *Probe) Available() bool {
	return p.available.Load()
}

// CheckedAt returns when the probe last ran, zero time if never.
func (p *Probe) CheckedAt() time.Time {
	ns := p.checkedAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

// StartHealthProbe runs the probe once immediately and then on the given
// schedule, a standard 5-field cron expression (minute hour day-of-month
// month day-of-week). The returned cron can be stopped on shutdown.
func StartHealthProbe(p *Probe, schedule string) (*cron.Cron, error) {
	if p.Check() {
		log.Printf("✅ Scoring process available (%s)", p.Command)
	} else {
		log.Printf("⚠️ Scoring process unavailable (%s), fallback simulator will serve runs", p.Command)
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser))
	_, err := c.AddFunc(schedule, func() {
		was := p.Available()
		now := p.Check()
		if was != now {
			log.Printf("🔁 Scoring process availability changed: %t -> %t", was, now)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid health probe schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
