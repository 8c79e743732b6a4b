// Package planner finds the observable quadratures of a set of targets and
// merges them into a chronological report.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/star/quadplan/internal/apperr"
	"github.com/star/quadplan/internal/ephem"
	"github.com/star/quadplan/internal/metrics"
	"github.com/star/quadplan/internal/quadrature"
	"github.com/star/quadplan/internal/visibility"
	"github.com/star/quadplan/internal/window"
)

// Config controls how a Planner runs.
type Config struct {
	// Workers is the number of targets processed concurrently. Values below 2
	// process targets one at a time.
	Workers int
	// CollapseInstants keys the global list by instant alone, so of two
	// events at the same instant only the later one is kept.
	CollapseInstants bool
}

// Planner runs the generate, filter and collect pipeline for a window.
type Planner struct {
	filter *visibility.Filter
	cfg    Config
	logger *slog.Logger
}

// New creates a Planner that checks darkness with filter.
func New(filter *visibility.Filter, cfg Config, logger *slog.Logger) *Planner {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Planner{filter: filter, cfg: cfg, logger: logger}
}

// Plan computes the observable quadratures of every target inside w.
//
// An invalid ephemeris or a cancelled context aborts the run and no report is
// returned. A candidate whose solar position is unavailable is dropped and
// counted; the run continues. The report does not depend on Workers.
func (p *Planner) Plan(ctx context.Context, w window.Window, targets []ephem.Target) (*Report, error) {
	metrics.SetTargets(len(targets))

	results := make([]TargetResult, len(targets))
	if p.cfg.Workers < 2 || len(targets) < 2 {
		for i, t := range targets {
			r, err := p.planTarget(ctx, w, t)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.cfg.Workers)
		for i, t := range targets {
			g.Go(func() error {
				r, err := p.planTarget(gctx, w, t)
				if err != nil {
					return err
				}
				results[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	// Merge in input order so that collapsed instants resolve the same way
	// regardless of which worker finished first.
	agg := NewAggregator(p.cfg.CollapseInstants)
	rep := &Report{
		Window:  w,
		Targets: results,
		Stats:   Stats{Targets: len(targets)},
	}
	for _, r := range results {
		for _, e := range r.Events {
			agg.Add(e)
		}
		rep.Stats.Candidates += r.Candidates
		rep.Stats.Observable += len(r.Events)
		rep.Stats.Dropped += r.Dropped
	}
	rep.Events = agg.Events()
	rep.Stats.Collisions = agg.Collisions()

	if rep.Stats.Collisions > 0 {
		p.logger.Warn("events share a global key; earlier entries were replaced",
			"collisions", rep.Stats.Collisions,
			"collapse_instants", p.cfg.CollapseInstants,
		)
	}
	p.logger.Info("planning complete",
		"targets", rep.Stats.Targets,
		"candidates", rep.Stats.Candidates,
		"observable", rep.Stats.Observable,
		"dropped", rep.Stats.Dropped,
	)

	return rep, nil
}

// planTarget generates, filters and collects the events of one target.
func (p *Planner) planTarget(ctx context.Context, w window.Window, t ephem.Target) (TargetResult, error) {
	start := time.Now()
	defer func() { metrics.ObserveTargetDuration(time.Since(start)) }()

	candidates, err := quadrature.Generate(t, w)
	if err != nil {
		return TargetResult{}, fmt.Errorf("target %s: %w", t.ID, err)
	}
	countByPhase(candidates)

	res := TargetResult{Target: t, Candidates: len(candidates)}
	col := NewCollector(t)
	for _, c := range candidates {
		alt, ok, err := p.filter.Observable(ctx, c.JD)
		if err != nil {
			if !errors.Is(err, apperr.ErrPositionUnavailable) {
				return TargetResult{}, fmt.Errorf("target %s: %w", t.ID, err)
			}
			res.Dropped++
			metrics.IncDropped()
			p.logger.Warn("dropping candidate without solar position",
				"target", t.ID,
				"jd", c.JD,
				"phase", c.Phase.String(),
				"error", err,
			)
			continue
		}
		if !ok {
			continue
		}
		col.Add(Event{Candidate: c, SunAltitude: alt})
		metrics.IncObservable(c.Phase.String())
	}
	res.Events = col.Events()

	p.logger.Debug("target planned",
		"target", t.ID,
		"candidates", res.Candidates,
		"observable", len(res.Events),
		"dropped", res.Dropped,
	)

	return res, nil
}

func countByPhase(candidates []quadrature.Candidate) {
	var q1, q2 int
	for _, c := range candidates {
		if c.Phase == quadrature.Q1 {
			q1++
		} else {
			q2++
		}
	}
	metrics.AddCandidates(quadrature.Q1.String(), q1)
	metrics.AddCandidates(quadrature.Q2.String(), q2)
}
