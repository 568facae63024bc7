// Package observer turns continuous vessel telemetry into discrete change
// signals that tell the driver when to re-run vessel checks.
package observer

import (
	"math"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
	"go.uber.org/zap"
)

// Inspector tracks one quantity of the active vessel. The changed flag is
// sticky until Clear.
type Inspector interface {
	Inspect(v *decoration.VesselState)
	Changed() bool
	Clear()
	// Reset drops the tracked state and clears the flag.
	Reset()
}

type flag struct{ changed bool }

func (f *flag) Changed() bool { return f.changed }
func (f *flag) Clear()        { f.changed = false }
func (f *flag) change()       { f.changed = true }

// MachInspector changes when the integer Mach number of a flying vessel
// moves up or down.
type MachInspector struct {
	flag
	logger *zap.Logger
	last   int
}

// NewMachInspector returns a Mach inspector.
func NewMachInspector(logger *zap.Logger) *MachInspector {
	return &MachInspector{logger: nopIfNil(logger)}
}

func (m *MachInspector) Inspect(v *decoration.VesselState) {
	if v == nil || !v.IsFlying() {
		return
	}
	mach := int(math.Trunc(v.Mach))
	if mach == m.last {
		return
	}
	m.logger.Debug("mach number changed", zap.Int("from", m.last), zap.Int("to", mach))
	m.last = mach
	m.change()
}

func (m *MachInspector) Reset() {
	m.last = 0
	m.Clear()
}

// AltitudeBand is the altitude banding step.
const AltitudeBand = 1000.0

// AltitudeInspector changes when a flying vessel crosses an altitude band.
type AltitudeInspector struct {
	flag
	logger *zap.Logger
	last   float64
}

// NewAltitudeInspector returns an altitude inspector.
func NewAltitudeInspector(logger *zap.Logger) *AltitudeInspector {
	return &AltitudeInspector{logger: nopIfNil(logger)}
}

func (a *AltitudeInspector) Inspect(v *decoration.VesselState) {
	if v == nil || !v.IsFlying() {
		return
	}
	band := AltitudeBand * math.Trunc(v.Altitude/AltitudeBand)
	if band == a.last {
		return
	}
	a.logger.Debug("altitude band changed", zap.Float64("from", a.last), zap.Float64("to", band))
	a.last = band
	a.change()
}

func (a *AltitudeInspector) Reset() {
	a.last = 0
	a.Clear()
}

const (
	orbitMinChangeAbs = 1000.0
	orbitMinChangeRel = 0.01
)

// OrbitInspector changes when an apsis of an orbiting vessel moves by at
// least 1000 and at least one percent of its new value.
type OrbitInspector struct {
	flag
	lastApA float64
	lastPeA float64
}

// NewOrbitInspector returns an orbit inspector.
func NewOrbitInspector() *OrbitInspector { return &OrbitInspector{} }

func (o *OrbitInspector) Inspect(v *decoration.VesselState) {
	if v == nil || v.Situation != decoration.SituationOrbiting {
		return
	}
	if apsisMoved(o.lastPeA, v.PeA) {
		o.lastPeA = v.PeA
		o.change()
	}
	if apsisMoved(o.lastApA, v.ApA) {
		o.lastApA = v.ApA
		o.change()
	}
}

func apsisMoved(last, cur float64) bool {
	d := math.Abs(last - cur)
	return d >= orbitMinChangeAbs && d >= math.Abs(cur)*orbitMinChangeRel
}

func (o *OrbitInspector) Reset() {
	o.lastApA, o.lastPeA = 0, 0
	o.Clear()
}

// AtmosphereInspector changes on entering or leaving an atmosphere.
type AtmosphereInspector struct {
	flag
	inside bool
	known  bool
}

// NewAtmosphereInspector returns an atmosphere inspector.
func NewAtmosphereInspector() *AtmosphereInspector { return &AtmosphereInspector{} }

func (a *AtmosphereInspector) Inspect(v *decoration.VesselState) {
	if v == nil || v.Body == nil {
		return
	}
	inside := v.InAtmosphere()
	if !a.known {
		a.inside, a.known = inside, true
		return
	}
	if inside != a.inside {
		a.inside = inside
		a.change()
	}
}

// Reset forgets the last state; the next sample only primes it.
func (a *AtmosphereInspector) Reset() {
	a.inside, a.known = false, false
	a.Clear()
}

const (
	// SustainDuration is how long a g level has to be held.
	SustainDuration = 3.0
	// MaxGee is the highest tracked g level.
	MaxGee = 15
)

// GeeInspector tracks for each integer g level the time it was first
// reached without dropping below since. A level held for SustainDuration
// counts as sustained.
type GeeInspector struct {
	flag
	logger    *zap.Logger
	since     [MaxGee + 1]float64
	sustained int
}

// NewGeeInspector returns a g-force inspector.
func NewGeeInspector(logger *zap.Logger) *GeeInspector {
	g := &GeeInspector{logger: nopIfNil(logger)}
	g.Reset()
	return g
}

func (g *GeeInspector) Inspect(v *decoration.VesselState) {
	if v == nil {
		return
	}
	g.Sample(v.Time, v.GeeForce)
}

// Sample feeds one g-force reading taken at time t.
func (g *GeeInspector) Sample(t, gee float64) {
	level := min(int(math.Trunc(gee)), MaxGee)
	for i := 1; i <= MaxGee; i++ {
		switch {
		case i > level:
			g.since[i] = decoration.NoTime
		case g.since[i] == decoration.NoTime:
			g.since[i] = t
		}
	}
	best := 1
	for i := level; i > 1; i-- {
		if t-g.since[i] >= SustainDuration {
			best = i
			break
		}
	}
	if best > g.sustained {
		g.logger.Debug("gee force sustained", zap.Int("level", best), zap.Float64("since", g.since[best]))
		g.sustained = best
		g.change()
	}
}

// Sustained returns the highest level held for SustainDuration since the
// last reset, or 1.
func (g *GeeInspector) Sustained() int { return g.sustained }

// Reset clears every level timestamp and the sustained level.
func (g *GeeInspector) Reset() {
	for i := range g.since {
		g.since[i] = decoration.NoTime
	}
	g.sustained = 1
	g.Clear()
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
