package planner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/star/quadplan/internal/apperr"
	"github.com/star/quadplan/internal/ephem"
	"github.com/star/quadplan/internal/quadrature"
	"github.com/star/quadplan/internal/transform"
	"github.com/star/quadplan/internal/visibility"
	"github.com/star/quadplan/internal/window"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

var paranal = transform.NewObserverPosition(-24.627222, -70.404167, 2635)

// alwaysDark reports every instant as deep night.
var alwaysDark = visibility.AltitudeFunc(func(context.Context, float64, transform.ObserverPosition) (float64, error) {
	return -45, nil
})

func newPlanner(p visibility.AltitudeProvider, cfg Config) *Planner {
	return New(visibility.NewFilter(p, paranal), cfg, testLogger)
}

func TestPlanAllDark(t *testing.T) {
	target := ephem.Target{ID: "T", Epoch: 2459000.0, Period: 2.0, Duration: 0.1}
	w := window.Window{Start: 2459000.0, End: 2459004.0}

	rep, err := newPlanner(alwaysDark, Config{}).Plan(context.Background(), w, []ephem.Target{target})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if len(rep.Targets) != 1 {
		t.Fatalf("got %d target results, want 1", len(rep.Targets))
	}
	res := rep.Targets[0]
	if res.Target != target {
		t.Errorf("target = %+v, want %+v", res.Target, target)
	}

	type point struct {
		JD    float64
		Phase quadrature.Phase
	}
	var got []point
	for _, e := range res.Events {
		got = append(got, point{e.JD, e.Phase})
	}
	want := []point{
		{2459000.5, quadrature.Q1},
		{2459001.5, quadrature.Q2},
		{2459002.5, quadrature.Q1},
		{2459003.5, quadrature.Q2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("per-target events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(res.Events, rep.Events); diff != "" {
		t.Errorf("global events differ from the single target's (-target +global):\n%s", diff)
	}

	wantStats := Stats{Targets: 1, Candidates: 4, Observable: 4}
	if rep.Stats != wantStats {
		t.Errorf("Stats = %+v, want %+v", rep.Stats, wantStats)
	}
}

func TestPlanThresholdIsStrict(t *testing.T) {
	target := ephem.Target{ID: "T", Epoch: 2459000.0, Period: 2.0}
	w := window.Window{Start: 2459000.0, End: 2459004.0}

	provider := visibility.AltitudeFunc(func(_ context.Context, jd float64, _ transform.ObserverPosition) (float64, error) {
		switch jd {
		case 2459001.5:
			return -14.0, nil
		case 2459003.5:
			return 10, nil
		default:
			return -14.5, nil
		}
	})

	rep, err := newPlanner(provider, Config{}).Plan(context.Background(), w, []ephem.Target{target})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	var got []float64
	for _, e := range rep.Targets[0].Events {
		got = append(got, e.JD)
		if e.SunAltitude != -14.5 {
			t.Errorf("event %.1f altitude = %v, want -14.5", e.JD, e.SunAltitude)
		}
	}
	if diff := cmp.Diff([]float64{2459000.5, 2459002.5}, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanDropsUnavailablePositions(t *testing.T) {
	target := ephem.Target{ID: "T", Epoch: 2459000.0, Period: 2.0}
	w := window.Window{Start: 2459000.0, End: 2459004.0}

	provider := visibility.AltitudeFunc(func(_ context.Context, jd float64, _ transform.ObserverPosition) (float64, error) {
		if jd == 2459002.5 {
			return 0, errors.New("no ephemeris for this instant")
		}
		return -30, nil
	})

	rep, err := newPlanner(provider, Config{}).Plan(context.Background(), w, []ephem.Target{target})
	if err != nil {
		t.Fatalf("a position failure must not abort the run: %v", err)
	}

	res := rep.Targets[0]
	if res.Dropped != 1 || rep.Stats.Dropped != 1 {
		t.Errorf("Dropped = %d (stats %d), want 1", res.Dropped, rep.Stats.Dropped)
	}
	if len(res.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(res.Events))
	}
	for _, e := range res.Events {
		if e.JD == 2459002.5 {
			t.Error("dropped candidate appears in the report")
		}
	}
}

func TestPlanInvalidEphemerisAborts(t *testing.T) {
	targets := []ephem.Target{
		{ID: "ok", Epoch: 2459000.0, Period: 2.0},
		{ID: "broken", Epoch: 2459000.0, Period: 0},
	}
	w := window.Window{Start: 2459000.0, End: 2459004.0}

	for _, workers := range []int{1, 4} {
		rep, err := newPlanner(alwaysDark, Config{Workers: workers}).Plan(context.Background(), w, targets)
		if !errors.Is(err, apperr.ErrInvalidEphemeris) {
			t.Errorf("workers=%d: err = %v, want ErrInvalidEphemeris", workers, err)
		}
		if rep != nil {
			t.Errorf("workers=%d: got a partial report", workers)
		}
	}
}

func TestPlanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	target := ephem.Target{ID: "T", Epoch: 2459000.0, Period: 2.0}
	w := window.Window{Start: 2459000.0, End: 2459004.0}

	_, err := newPlanner(alwaysDark, Config{}).Plan(ctx, w, []ephem.Target{target})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestPlanEmptyInput(t *testing.T) {
	w := window.Window{Start: 2459000.0, End: 2459004.0}
	rep, err := newPlanner(alwaysDark, Config{}).Plan(context.Background(), w, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(rep.Targets) != 0 || len(rep.Events) != 0 {
		t.Errorf("report = %+v, want empty", rep)
	}
	if rep.Stats != (Stats{}) {
		t.Errorf("Stats = %+v, want zero", rep.Stats)
	}
}

func TestPlanCoincidentTargets(t *testing.T) {
	// Two targets with identical ephemerides produce events at identical instants.
	targets := []ephem.Target{
		{ID: "A", Epoch: 2459000.0, Period: 2.0},
		{ID: "B", Epoch: 2459000.0, Period: 2.0},
	}
	w := window.Window{Start: 2459000.0, End: 2459004.0}

	rep, err := newPlanner(alwaysDark, Config{}).Plan(context.Background(), w, targets)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Events) != 8 {
		t.Errorf("global events = %d, want 8 (both targets kept)", len(rep.Events))
	}
	if rep.Stats.Collisions != 0 {
		t.Errorf("Collisions = %d, want 0", rep.Stats.Collisions)
	}

	rep, err = newPlanner(alwaysDark, Config{CollapseInstants: true}).Plan(context.Background(), w, targets)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Events) != 4 {
		t.Fatalf("collapsed global events = %d, want 4", len(rep.Events))
	}
	for _, e := range rep.Events {
		if e.Target != "B" {
			t.Errorf("instant %.1f kept target %s, want the later target B", e.JD, e.Target)
		}
	}
	if rep.Stats.Collisions != 4 {
		t.Errorf("Collisions = %d, want 4", rep.Stats.Collisions)
	}
	// Per-target lists are unaffected by collapsing.
	if len(rep.Targets[0].Events) != 4 || len(rep.Targets[1].Events) != 4 {
		t.Errorf("per-target events = %d/%d, want 4/4", len(rep.Targets[0].Events), len(rep.Targets[1].Events))
	}
}

func sampleTargets(n int) []ephem.Target {
	targets := make([]ephem.Target, n)
	for i := range targets {
		targets[i] = ephem.Target{
			ID:       fmt.Sprintf("T%02d", i),
			Epoch:    2455000.0 + float64(i)*13.37,
			Period:   0.7 + float64(i)*0.61,
			Duration: 0.1,
		}
	}
	return targets
}

// TestPlanInvariants runs the real solar model over a week at Paranal and
// checks the report-wide ordering and window invariants.
func TestPlanInvariants(t *testing.T) {
	w, err := window.Resolve("2025-07-01", "2025-07-07")
	if err != nil {
		t.Fatal(err)
	}
	targets := sampleTargets(12)

	rep, err := newPlanner(visibility.AlmanacProvider{}, Config{}).Plan(context.Background(), w, targets)
	if err != nil {
		t.Fatal(err)
	}

	total := 0
	for _, res := range rep.Targets {
		for i, e := range res.Events {
			if !w.Contains(e.JD) {
				t.Errorf("%s: event %.6f outside window", res.Target.ID, e.JD)
			}
			if !(e.SunAltitude < visibility.DarknessThreshold) {
				t.Errorf("%s: event %.6f has sun altitude %.2f", res.Target.ID, e.JD, e.SunAltitude)
			}
			if e.Target != res.Target.ID {
				t.Errorf("event tagged %s under target %s", e.Target, res.Target.ID)
			}
			if i > 0 && !(res.Events[i-1].JD < e.JD) {
				t.Errorf("%s: events not strictly increasing at %d", res.Target.ID, i)
			}
		}
		total += len(res.Events)
	}

	if total == 0 {
		t.Fatal("expected some observable events in a July week at Paranal")
	}
	if len(rep.Events) != total {
		t.Errorf("global events = %d, want union of per-target events %d", len(rep.Events), total)
	}
	for i := 1; i < len(rep.Events); i++ {
		if rep.Events[i-1].JD > rep.Events[i].JD {
			t.Errorf("global events out of order at %d", i)
		}
	}
}

func TestPlanWorkersDoNotChangeReport(t *testing.T) {
	w, err := window.Resolve("2025-01-10", "2025-01-14")
	if err != nil {
		t.Fatal(err)
	}
	targets := sampleTargets(25)
	// Duplicate one ephemeris under another id so collapsing has something to resolve.
	targets = append(targets, ephem.Target{ID: "Z", Epoch: targets[3].Epoch, Period: targets[3].Period})

	for _, collapse := range []bool{false, true} {
		seq, err := newPlanner(visibility.AlmanacProvider{}, Config{Workers: 1, CollapseInstants: collapse}).
			Plan(context.Background(), w, targets)
		if err != nil {
			t.Fatal(err)
		}
		par, err := newPlanner(visibility.AlmanacProvider{}, Config{Workers: 8, CollapseInstants: collapse}).
			Plan(context.Background(), w, targets)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(seq, par); diff != "" {
			t.Errorf("collapse=%v: parallel report differs from sequential (-seq +par):\n%s", collapse, diff)
		}
	}
}
