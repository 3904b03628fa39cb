// Season runner that paces the phase loop for autonomous seasons.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Runner drives a simulation to its finale with an optional delay between
// weeks, so observers can follow along in something like real time.
type Runner struct {
	Sim      *Simulation
	Interval time.Duration // Pause between weeks. 0 = run flat out.
}

// Run advances the season week by week until a winner is crowned or the
// context is cancelled. Cancellation lands between phases; no decision
// mutates state after the loop observes it.
func (r *Runner) Run(ctx context.Context) error {
	slog.Info("season started", "cast", len(r.Sim.Houseguests), "week", r.Sim.Week)

	for !r.Sim.SeasonOver() {
		if err := r.Sim.RunWeek(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				slog.Info("season stopped", "week", r.Sim.Week)
				return err
			}
			return err
		}

		if r.Interval > 0 && !r.Sim.SeasonOver() {
			select {
			case <-ctx.Done():
				slog.Info("season stopped", "week", r.Sim.Week)
				return ctx.Err()
			case <-time.After(r.Interval):
			}
		}
	}

	slog.Info("season complete", "winner", r.Sim.name(r.Sim.WinnerID), "weeks", r.Sim.Week)
	return nil
}
