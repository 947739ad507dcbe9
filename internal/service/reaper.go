package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Reaper periodically deletes expired lock rows.  Correctness never
// depends on it: every read and write path already filters or sweeps
// expired locks.  The reaper only keeps the table small.
type Reaper struct {
	locks LockStore
	every time.Duration
}

func NewReaper(locks LockStore, every time.Duration) *Reaper {
	return &Reaper{locks: locks, every: every}
}

// Sweep deletes all expired locks once and returns how many rows went.
func (r *Reaper) Sweep(ctx context.Context) (int64, error) {
	return r.locks.DeleteExpired(ctx)
}

// Schedule registers the sweep on the given cron runner.  The caller
// owns the runner's lifecycle.
func (r *Reaper) Schedule(c *cron.Cron) error {
	spec := fmt.Sprintf("@every %s", r.every)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := r.Sweep(ctx)
		if err != nil {
			log.Printf("reaper: sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("reaper: removed %d expired seat locks", n)
		}
	})
	return err
}
