package rules

import (
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/bodies"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
)

// Codes of the ribbons awarded by the visit cascade.
const (
	GrandTourCode     = "GT"
	SubsystemTourCode = "JT"
)

// tours drives the visit cascade shared by every body decoration.
type tours struct {
	system *bodies.System
}

// visit marks body visited and awards the tour ribbons once every member of
// a tour group has been visited. Tour awards go through awarder so they are
// blocked and logged like any other award.
func (t *tours) visit(subject decoration.Subject, awarder decoration.Awarder, body *bodies.Body) {
	if subject.HasVisited(body.Name) {
		return
	}
	subject.Visit(body.Name)

	if !subject.SubsystemTour() {
		if primary, ok := t.system.TourPrimary(); ok && allVisited(subject, t.system.Moons(primary.Name)) {
			subject.MarkSubsystemTour()
			awarder.AwardCode(subject.Name(), SubsystemTourCode)
		}
	}
	if !subject.GrandTour() && allVisited(subject, t.system.NonStarBodies()) {
		subject.MarkGrandTour()
		awarder.AwardCode(subject.Name(), GrandTourCode)
	}
}

func allVisited(subject decoration.Subject, group []*bodies.Body) bool {
	if len(group) == 0 {
		return false
	}
	for _, b := range group {
		if !subject.HasVisited(b.Name) {
			return false
		}
	}
	return true
}

// celestialCode builds "<prefix>:<body>" or "<prefix>1:<body>".
func celestialCode(prefix string, body *bodies.Body, first bool) string {
	if first {
		return prefix + "1:" + body.Name
	}
	return prefix + ":" + body.Name
}

// celestial is embedded by every decoration tied to one body.
type celestial struct {
	decoration.Base
	body  *bodies.Body
	tours *tours
}

func newCelestial(t *tours, prefix, name string, body *bodies.Body, prestige int, first bool) celestial {
	return celestial{
		Base:  decoration.NewBase(celestialCode(prefix, body, first), name, prestige, first),
		body:  body,
		tours: t,
	}
}

// Body returns the body the decoration belongs to.
func (c *celestial) Body() *bodies.Body { return c.body }

// OnAward marks the body visited.
func (c *celestial) OnAward(subject decoration.Subject, awarder decoration.Awarder) {
	c.tours.visit(subject, awarder, c.body)
}

func (c *celestial) describe(text string) string {
	return "Awarded for" + c.FirstText() + text
}

// SphereOfInfluence qualifies on entering the body's sphere of influence.
type SphereOfInfluence struct{ celestial }

func newSphereOfInfluence(t *tours, body *bodies.Body, prestige int) *SphereOfInfluence {
	d := &SphereOfInfluence{newCelestial(t, "I", body.Name+" Sphere of Influence", body, prestige, false)}
	d.Base = d.Base.WithDescription("Awarded for entering the sphere of influence of " + body.Name)
	return d
}

func (d *SphereOfInfluence) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || !current.OnBody(d.body) {
		return false
	}
	if previous == nil || previous.Body == nil || previous.OnBody(d.body) {
		return false
	}
	return true
}

// Orbit qualifies on a stable orbit around the body.
type Orbit struct{ celestial }

func newOrbit(t *tours, body *bodies.Body, prestige int, first bool) *Orbit {
	d := &Orbit{newCelestial(t, "O", body.Name+" Orbit", body, prestige, first)}
	d.Base = d.Base.WithDescription(d.describe("orbiting around " + body.Name))
	return d
}

func (d *Orbit) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	return current != nil && current.OnBody(d.body) && current.InOrbit()
}

// Atmosphere qualifies on entering the body's atmosphere.
type Atmosphere struct{ celestial }

func newAtmosphere(t *tours, body *bodies.Body, prestige int, first bool) *Atmosphere {
	d := &Atmosphere{newCelestial(t, "A", body.Name+" Atmosphere", body, prestige, first)}
	d.Base = d.Base.WithDescription(d.describe("entering the atmosphere of " + body.Name))
	return d
}

func (d *Atmosphere) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || previous == nil || current.Body == nil {
		return false
	}
	if previous.InAtmosphere() || !current.InAtmosphere() {
		return false
	}
	return current.OnBody(d.body)
}

// Landing qualifies on touching down on the body. Launches and EVAs do not
// count and a splashdown counts as a landing.
type Landing struct{ celestial }

func newLanding(t *tours, body *bodies.Body, prestige int, first bool) *Landing {
	d := &Landing{newCelestial(t, "L", "Landing on "+body.Name, body, prestige, first)}
	d.Base = d.Base.WithDescription(d.describe("landing on " + body.Name))
	return d
}

func (d *Landing) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || previous == nil {
		return false
	}
	if previous.IsPrelaunch() || current.IsEVA() || !current.OnBody(d.body) {
		return false
	}
	return current.IsLandedOrSplashed() && !previous.IsLandedOrSplashed()
}

// Flag qualifies on planting a flag on the body.
type Flag struct{ celestial }

func newFlag(t *tours, body *bodies.Body, prestige int, first bool) *Flag {
	d := &Flag{newCelestial(t, "F", "Flag on "+body.Name, body, prestige, first)}
	d.Base = d.Base.WithDescription(d.describe("planting a flag on " + body.Name))
	return d
}

func (d *Flag) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || !current.FlagPlanted {
		return false
	}
	if previous != nil && previous.FlagPlanted {
		return false
	}
	return current.OnBody(d.body)
}

// EVA qualifies on a fresh EVA in vacuum around the body.
type EVA struct{ celestial }

func newEVA(t *tours, body *bodies.Body, prestige int, first bool) *EVA {
	d := &EVA{newCelestial(t, "V", body.Name+" EVA", body, prestige, first)}
	d.Base = d.Base.WithDescription(d.describe("on EVA in zero atmosphere around " + body.Name))
	return d
}

func (d *EVA) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if previous != nil || current == nil || !current.IsEVA() {
		return false
	}
	if current.OnSurface() {
		return false
	}
	if current.Body == nil {
		return true
	}
	if current.AtmDensity > decoration.NoAtmosphere || current.Altitude < current.Body.AtmosphereDepth {
		return false
	}
	return current.OnBody(d.body)
}

// OrbitalEVA qualifies on an EVA from a stable orbit around the body.
type OrbitalEVA struct{ celestial }

func newOrbitalEVA(t *tours, body *bodies.Body, prestige int, first bool) *OrbitalEVA {
	d := &OrbitalEVA{newCelestial(t, "E", body.Name+" Orbital EVA", body, prestige, first)}
	d.Base = d.Base.WithDescription(d.describe("on EVA in a stable orbit around " + body.Name))
	return d
}

func (d *OrbitalEVA) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || !current.IsEVA() {
		return false
	}
	if previous != nil && previous.IsEVA() {
		return false
	}
	if !current.OnBody(d.body) || current.AtmDensity > decoration.NoAtmosphere {
		return false
	}
	return current.InOrbit()
}

// SurfaceEVA qualifies on an EVA on the surface of the body.
type SurfaceEVA struct{ celestial }

func newSurfaceEVA(t *tours, body *bodies.Body, prestige int, first bool) *SurfaceEVA {
	d := &SurfaceEVA{newCelestial(t, "G", body.Name+" Surface EVA", body, prestige, first)}
	d.Base = d.Base.WithDescription(d.describe("taking footsteps on " + body.Name))
	return d
}

func (d *SurfaceEVA) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil {
		return false
	}
	if previous != nil && previous.IsEVA() && previous.IsLanded() {
		return false
	}
	return current.IsEVA() && current.OnBody(d.body) && current.IsLanded()
}

// Rover qualifies on driving a rover on the surface of the body.
type Rover struct{ celestial }

func newRover(t *tours, body *bodies.Body, prestige int, first bool) *Rover {
	d := &Rover{newCelestial(t, "R", body.Name+" Rover Drive", body, prestige, first)}
	d.Base = d.Base.WithDescription(d.describe("moving a vehicle on surface of " + body.Name))
	return d
}

func (d *Rover) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || !current.OnBody(d.body) {
		return false
	}
	return current.Type == decoration.VesselRover && current.MovedOnSurface
}

// Docking qualifies on docking while in a stable orbit around the body.
type Docking struct{ celestial }

func newDocking(t *tours, body *bodies.Body, prestige int, first bool) *Docking {
	d := &Docking{newCelestial(t, "DO", body.Name+" Docking", body, prestige, first)}
	d.Base = d.Base.WithDescription(d.describe("docking in " + body.Name + " orbit"))
	return d
}

func (d *Docking) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || !current.IsDocked() {
		return false
	}
	if previous != nil && previous.IsDocked() {
		return false
	}
	return current.OnBody(d.body) && current.InOrbit()
}

// DeepAtmosphere qualifies on reaching dense layers of a gas giant.
type DeepAtmosphere struct{ celestial }

// DeepAtmosphereDensity is the density a vessel has to reach.
const DeepAtmosphereDensity = 10.0

func newDeepAtmosphere(t *tours, body *bodies.Body, prestige int) *DeepAtmosphere {
	d := &DeepAtmosphere{newCelestial(t, "DA", body.Name+" Deep Atmosphere", body, prestige, false)}
	d.Base = d.Base.WithDescription("Awarded for entering the deeper atmosphere of " + body.Name)
	return d
}

func (d *DeepAtmosphere) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || current.AtmDensity < DeepAtmosphereDensity {
		return false
	}
	return current.OnBody(d.body)
}

// CloserSolarOrbit qualifies on a solar orbit entirely inside half the
// periapsis of the innermost planet.
type CloserSolarOrbit struct {
	celestial
	maxDistance float64
}

func newCloserSolarOrbit(t *tours, star, innermost *bodies.Body, prestige int, first bool) *CloserSolarOrbit {
	d := &CloserSolarOrbit{
		celestial:   newCelestial(t, "CSO", "Closer Solar Orbit", star, prestige, first),
		maxDistance: innermost.Periapsis / 2,
	}
	d.Base = d.Base.WithDescription(d.describe("orbiting " + star.Name + " half between periapse of " + innermost.Name + " and " + star.Name))
	return d
}

func (d *CloserSolarOrbit) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || !current.InOrbit() || !current.OnBody(d.body) {
		return false
	}
	return current.PeA <= d.maxDistance && current.ApA <= d.maxDistance
}
