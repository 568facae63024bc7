package rules

import (
	"strconv"
	"strings"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/bodies"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
)

func firstSuffix(code string, first bool) string {
	if first {
		return code + "1"
	}
	return code
}

// DangerousEVA qualifies on leaving a vessel that is neither in orbit nor
// on the ground or in water.
type DangerousEVA struct{ decoration.Base }

func newDangerousEVA(prestige int) *DangerousEVA {
	return &DangerousEVA{decoration.NewBase("DE", "Dangerous EVA", prestige, false).
		WithDescription("Awarded for executing EVA while not in a stable orbit")}
}

func (d *DangerousEVA) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || previous == nil || !current.IsEVA() || previous.IsEVA() {
		return false
	}
	if previous.InOrbit() || current.InOrbit() {
		return false
	}
	if previous.IsLanded() || current.IsLanded() {
		return false
	}
	return !previous.IsSplashed() && !current.IsSplashed()
}

// Splashdown qualifies on a flying vessel coming down in water.
type Splashdown struct{ decoration.Base }

func newSplashdown(prestige int) *Splashdown {
	return &Splashdown{decoration.NewBase("W", "Splashdown", prestige, false).
		WithDescription("Awarded for a splashdown of a vessel in water")}
}

func (d *Splashdown) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || current.IsEVA() {
		return false
	}
	if previous != nil && !previous.IsFlying() {
		return false
	}
	return current.IsSplashed()
}

// InSpace qualifies on crossing the atmosphere ceiling of the current body.
type InSpace struct{ decoration.Base }

func newInSpace(prestige int) *InSpace {
	return &InSpace{decoration.NewBase("S1", "Kerbal in Space", prestige, true).
		WithDescription("Awarded for being the first kerbal in space")}
}

func (d *InSpace) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || previous == nil || current.OnSurface() {
		return false
	}
	if current.Body == nil {
		return true
	}
	ceiling := current.Body.AtmosphereDepth
	return previous.Altitude <= ceiling && current.Altitude > ceiling
}

// EVAInSpace qualifies on a fresh EVA in vacuum anywhere.
type EVAInSpace struct{ decoration.Base }

func newEVAInSpace(prestige int) *EVAInSpace {
	return &EVAInSpace{decoration.NewBase("V1", "EVA in Space", prestige, true).
		WithDescription("Awarded for being the first kerbal on EVA in space")}
}

func (d *EVAInSpace) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if previous != nil || current == nil || !current.IsEVA() || current.OnSurface() {
		return false
	}
	if current.Body == nil {
		return true
	}
	return current.AtmDensity <= decoration.NoAtmosphere && current.Altitude >= current.Body.AtmosphereDepth
}

// HomeWatersEVA qualifies on an EVA in the homeworld's waters.
type HomeWatersEVA struct{ decoration.Base }

func newHomeWatersEVA(home *bodies.Body, prestige int) *HomeWatersEVA {
	return &HomeWatersEVA{decoration.NewBase("WE", "EVA in "+home.Name+"'s waters", prestige, false).
		WithDescription("Awarded for any EVA in " + home.Name + "'s waters")}
}

func (d *HomeWatersEVA) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	return current != nil && current.IsEVA() && current.AtHome() && current.IsSplashed()
}

// WetEVA qualifies on an EVA in water away from the homeworld.
type WetEVA struct{ decoration.Base }

func newWetEVA(home *bodies.Body, prestige int, first bool) *WetEVA {
	d := &WetEVA{decoration.NewBase(firstSuffix("EE", first), "Wet EVA", prestige, first)}
	on := ""
	if first {
		on = "on "
	}
	d.Base = d.Base.WithDescription("Awarded for" + d.FirstText() + on + "EVA in a wet environment outside of " + home.Name)
	return d
}

func (d *WetEVA) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || !current.IsEVA() || !current.IsSplashed() {
		return false
	}
	if current.Body == nil {
		return true
	}
	return !current.AtHome()
}

// Collision qualifies on any collision reported for a vessel that is not an
// EVA.
type Collision struct{ decoration.Base }

func newCollision(prestige int) *Collision {
	return &Collision{decoration.NewBase("C", "Collision", prestige, false).
		WithDescription("Awarded for any collision while in a vessel")}
}

func (d *Collision) CheckEventReport(report decoration.EventReport) bool {
	if report.Type != decoration.EventCollision || report.Origin == nil {
		return false
	}
	return !report.Origin.IsEVA()
}

// DeepSpace qualifies on being in solar orbit beyond the outermost planet's
// sphere of influence.
type DeepSpace struct {
	decoration.Base
	sun         *bodies.Body
	minDistance float64
}

func newDeepSpace(sun, outermost *bodies.Body, prestige int, first bool) *DeepSpace {
	d := &DeepSpace{
		Base: decoration.NewBase(firstSuffix("DS", first), "Deep Space", prestige, first),
		sun:  sun,
	}
	if outermost == nil {
		d.Base = d.Base.WithDescription("no outermost planet found in system (ribbon not used)")
		return d
	}
	d.minDistance = outermost.Apoapsis + outermost.SOI
	d.Base = d.Base.WithDescription("Awarded for" + d.FirstText() + "in space beyond the sphere of influence of " + outermost.Name)
	return d
}

func (d *DeepSpace) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if d.sun == nil || d.minDistance == 0 || current == nil {
		return false
	}
	if current.Body == nil {
		return true
	}
	return current.OnBody(d.sun) && current.Altitude >= d.minDistance
}

// PolarLatitude bounds the polar regions.
const PolarLatitude = 66.0

// PolarLanding qualifies on a homeworld landing inside a polar region.
type PolarLanding struct {
	decoration.Base
	north bool
}

func newPolarLanding(home *bodies.Body, hemisphere string, prestige int, first bool) *PolarLanding {
	code := firstSuffix("P"+strings.ToUpper(hemisphere[:1]), first)
	d := &PolarLanding{
		Base:  decoration.NewBase(code, hemisphere+" Polar Lander", prestige, first),
		north: strings.HasPrefix(strings.ToLower(hemisphere), "n"),
	}
	d.Base = d.Base.WithDescription("Awarded for" + d.FirstText() + "landing in the " + strings.ToLower(hemisphere) + " polar region of " + home.Name)
	return d
}

func (d *PolarLanding) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if !landedFromFlight(previous, current) {
		return false
	}
	if d.north && current.Latitude < PolarLatitude {
		return false
	}
	if !d.north && current.Latitude > -PolarLatitude {
		return false
	}
	return current.AtHome()
}

// Record qualifies on a reached progress record of one kind above a minimum.
type Record struct {
	decoration.Base
	kind    decoration.RecordKind
	accepts func(record float64) bool
}

func newRecord(code, name, description string, kind decoration.RecordKind, prestige int, accepts func(float64) bool) *Record {
	return &Record{
		Base:    decoration.NewBase(code, name, prestige, false).WithDescription(description),
		kind:    kind,
		accepts: accepts,
	}
}

func newAltitudeRecord(prestige int) *Record {
	return newRecord("RA", "Altitude Record", "Awarded for any altitude record above 1000m",
		decoration.RecordAltitude, prestige, func(r float64) bool { return r > 1000 })
}

func newDepthRecord(prestige int) *Record {
	return newRecord("RU", "Depth Record", "Awarded for any depth record",
		decoration.RecordDepth, prestige, func(r float64) bool { return r < 0 })
}

func newDistanceRecord(prestige int) *Record {
	return newRecord("RD", "Distance Record", "Awarded for any distance record greater than 10 km",
		decoration.RecordDistance, prestige, func(r float64) bool { return r > 10000 })
}

func newSpeedRecord(prestige int) *Record {
	return newRecord("RS", "Speed Record", "Awarded for any speed record greater than 100 m/s",
		decoration.RecordSpeed, prestige, func(r float64) bool { return r > 100 })
}

func (d *Record) CheckProgressMilestone(node decoration.ProgressNode) bool {
	return node.Kind == d.kind && node.Reached && d.accepts(node.Record)
}

// ContractPrestige qualifies on completing a contract of one prestige tier.
type ContractPrestige struct {
	decoration.Base
	tier decoration.ContractPrestige
}

func newContractPrestige(tier decoration.ContractPrestige, prestige int) *ContractPrestige {
	d := &ContractPrestige{
		Base: decoration.NewBase("CP"+strconv.Itoa(int(tier)), tier.String()+" Contract", prestige, false),
		tier: tier,
	}
	d.Base = d.Base.WithDescription("Awarded for completing any " + strings.ToLower(tier.String()) + " contract")
	return d
}

func (d *ContractPrestige) CheckContract(c decoration.Contract) bool {
	return c.State == decoration.ContractCompleted && c.Prestige == d.tier
}

// LostAndFound qualifies on a crew member returning from dead or missing.
type LostAndFound struct{ decoration.Base }

func newLostAndFound(prestige int) *LostAndFound {
	return &LostAndFound{decoration.NewBase("LF", "Lost And Found", prestige, false).
		WithDescription("Awarded to any lost kerbal for returning to active duty")}
}

func (d *LostAndFound) CheckRosterTransition(crew decoration.Crew, oldStatus, newStatus decoration.RosterStatus) bool {
	if oldStatus != decoration.StatusDead && oldStatus != decoration.StatusMissing {
		return false
	}
	return newStatus == decoration.StatusAvailable || newStatus == decoration.StatusAssigned
}

// Service qualifies on a completed mission in one crew trait.
type Service struct {
	decoration.Base
	trait string
}

func newService(code, name, trait, article string, prestige int) *Service {
	return &Service{
		Base: decoration.NewBase(code, name, prestige, false).
			WithDescription("Awarded to any kerbal completing at least a single mission as " + article + " " + strings.ToLower(trait)),
		trait: trait,
	}
}

func (d *Service) CheckSubjectSummary(s decoration.Summary) bool {
	if s.Crew == nil || s.Crew.Trait != d.trait {
		return false
	}
	return s.MissionsFlown > 0
}

// Tour is awarded by the visit cascade only.
type Tour struct{ decoration.Base }

func newGrandTour(prestige int, first bool) *Tour {
	d := &Tour{decoration.NewBase(firstSuffix(GrandTourCode, first), "Grand Tour", prestige, first)}
	d.Base = d.Base.WithDescription("Awarded for" + d.FirstText() + "entering the sphere of influence of all celestial bodies in the system")
	return d
}

func newSubsystemTour(primary *bodies.Body, prestige int, first bool) *Tour {
	d := &Tour{decoration.NewBase(firstSuffix(SubsystemTourCode, first), primary.Name+" Tour", prestige, first)}
	d.Base = d.Base.WithDescription("Awarded for" + d.FirstText() + "entering the sphere of influence of all moons of " + primary.Name)
	return d
}
