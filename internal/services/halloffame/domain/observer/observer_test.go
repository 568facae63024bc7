package observer

import (
	"testing"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/bodies"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
)

func kerbin(t *testing.T) *bodies.Body {
	t.Helper()
	b, ok := bodies.Stock().Body("Kerbin")
	if !ok {
		t.Fatal("Kerbin missing from stock system")
	}
	return b
}

func flying(alt, mach float64) *decoration.VesselState {
	return &decoration.VesselState{Situation: decoration.SituationFlying, Altitude: alt, Mach: mach}
}

func TestMachInspectorBanding(t *testing.T) {
	m := NewMachInspector(nil)
	steps := []struct {
		v       *decoration.VesselState
		changed bool
	}{
		{v: flying(0, 0.9), changed: false},
		{v: flying(0, 1.2), changed: true},
		{v: flying(0, 1.9), changed: false},
		{v: flying(0, 0.5), changed: true},
		{v: &decoration.VesselState{Situation: decoration.SituationOrbiting, Mach: 7}, changed: false},
	}
	for i, s := range steps {
		m.Inspect(s.v)
		if got := m.Changed(); got != s.changed {
			t.Fatalf("step %d: changed = %v, want %v", i, got, s.changed)
		}
		m.Clear()
	}
}

func TestAltitudeInspectorBanding(t *testing.T) {
	a := NewAltitudeInspector(nil)
	a.Inspect(flying(999, 0))
	if a.Changed() {
		t.Fatal("expected no change inside the first band")
	}
	a.Inspect(flying(1500, 0))
	if !a.Changed() {
		t.Fatal("expected change crossing 1000")
	}
	a.Clear()
	a.Inspect(&decoration.VesselState{Situation: decoration.SituationLanded, Altitude: 5000})
	if a.Changed() {
		t.Fatal("landed vessel must not be banded")
	}
	a.Reset()
	a.Inspect(flying(1500, 0))
	if !a.Changed() {
		t.Fatal("expected change after reset of the band")
	}
}

func TestOrbitInspectorThresholds(t *testing.T) {
	o := NewOrbitInspector()
	orbit := func(apa, pea float64) *decoration.VesselState {
		return &decoration.VesselState{Situation: decoration.SituationOrbiting, ApA: apa, PeA: pea}
	}
	o.Inspect(orbit(100000, 80000))
	if !o.Changed() {
		t.Fatal("expected change on first orbit")
	}
	o.Clear()
	o.Inspect(orbit(100900, 80000))
	if o.Changed() {
		t.Fatal("change below 1000 must be ignored")
	}
	o.Inspect(orbit(10_000_000, 80000))
	if !o.Changed() {
		t.Fatal("expected change of apoapsis")
	}
	o.Clear()
	o.Inspect(orbit(10_050_000, 80000))
	if o.Changed() {
		t.Fatal("change below one percent must be ignored")
	}
}

func TestAtmosphereInspectorEdges(t *testing.T) {
	body := kerbin(t)
	a := NewAtmosphereInspector()
	at := func(alt float64) *decoration.VesselState {
		return &decoration.VesselState{Body: body, Altitude: alt}
	}
	a.Inspect(at(1000))
	if a.Changed() {
		t.Fatal("first sample only primes the state")
	}
	a.Inspect(at(2000))
	if a.Changed() {
		t.Fatal("no edge inside the atmosphere")
	}
	a.Inspect(at(body.AtmosphereDepth + 1))
	if !a.Changed() {
		t.Fatal("expected edge leaving the atmosphere")
	}
}

func TestGeeInspectorSustained(t *testing.T) {
	tests := []struct {
		name    string
		samples [][2]float64
		want    int
	}{
		{
			name:    "held through four seconds",
			samples: [][2]float64{{0, 5.2}, {1, 5.5}, {2, 6.1}, {3, 5.0}, {4, 5.3}},
			want:    5,
		},
		{
			name:    "drops at two and a half",
			samples: [][2]float64{{0, 5.2}, {1, 5.5}, {2, 5.1}, {2.5, 4.2}, {3, 5.4}, {4, 5.1}},
			want:    4,
		},
		{
			name:    "short spike",
			samples: [][2]float64{{0, 1}, {1, 9}, {1.5, 1}},
			want:    1,
		},
		{
			name:    "capped",
			samples: [][2]float64{{0, 40}, {5, 40}},
			want:    MaxGee,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGeeInspector(nil)
			for _, s := range tt.samples {
				g.Sample(s[0], s[1])
			}
			if got := g.Sustained(); got != tt.want {
				t.Fatalf("Sustained() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGeeInspectorReachesLevelAtThree(t *testing.T) {
	g := NewGeeInspector(nil)
	g.Sample(0, 5)
	g.Sample(2.9, 5)
	if g.Sustained() >= 5 {
		t.Fatalf("level 5 sustained too early: %d", g.Sustained())
	}
	g.Sample(3, 5)
	if g.Sustained() != 5 || !g.Changed() {
		t.Fatalf("Sustained() = %d changed=%v, want 5 and changed", g.Sustained(), g.Changed())
	}
}

func TestGeeInspectorResetClearsTimestamps(t *testing.T) {
	g := NewGeeInspector(nil)
	g.Sample(0, 6)
	g.Sample(2, 6)
	g.Reset()
	g.Sample(3.5, 6)
	if g.Sustained() != 1 {
		t.Fatalf("stale level timestamps survived reset: %d", g.Sustained())
	}
	if g.Changed() {
		t.Fatal("reset must clear the changed flag")
	}
}

func TestSetChangedAndClear(t *testing.T) {
	s := NewSet(nil)
	s.Inspect(flying(1500, 1.5))
	if !s.Changed() {
		t.Fatal("expected change")
	}
	s.Clear()
	if s.Changed() {
		t.Fatal("expected clear")
	}
}

func TestVesselObserver(t *testing.T) {
	o := NewVesselObserver(nil)
	if got := o.HomeworldLaunchTime("a"); got != decoration.NoTime {
		t.Fatalf("unknown launch time = %v", got)
	}
	if got := o.SustainedGee("a"); got != 1 {
		t.Fatalf("unknown gee = %d", got)
	}
	o.SetHomeworldLaunchTime("a", 100)
	o.SetHomeworldLaunchTime("b", 300)
	o.SetSustainedGee("a", 7)
	o.Revert(200)
	if got := o.HomeworldLaunchTime("a"); got != 100 {
		t.Fatalf("launch before revert point dropped: %v", got)
	}
	if got := o.HomeworldLaunchTime("b"); got != decoration.NoTime {
		t.Fatalf("launch after revert point kept: %v", got)
	}

	v := &decoration.VesselState{VesselID: "a"}
	o.Fill(v)
	if v.HomeworldLaunchTime != 100 || v.SustainedGee != 7 {
		t.Fatalf("Fill = %v/%d", v.HomeworldLaunchTime, v.SustainedGee)
	}
}
