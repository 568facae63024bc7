// Package driver maps host game events onto decoration checks and ledger
// records. All handlers are expected to run on the host's update goroutine.
package driver

import (
	"math"
	"strconv"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/action"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/ledger"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/observer"
	"go.uber.org/zap"
)

const (
	// InspectInterval is the number of update ticks between inspector samples.
	InspectInterval = 5
	// CustomEventInterval is the number of update ticks between custom event
	// detection passes.
	CustomEventInterval = 60
	// DeepAtmosphereDensity is the density at which a vessel counts as deep
	// in the atmosphere.
	DeepAtmosphereDensity = 10.0
	// MinSurfaceMove is the distance a landed rover has to cover to count as
	// driven.
	MinSurfaceMove = 5.0
)

// Driver evaluates the catalog against the events of one game session.
type Driver struct {
	registry   *ledger.Registry
	catalog    *decoration.Catalog
	evaluator  *decoration.Evaluator
	vessels    *observer.VesselObserver
	inspectors *observer.Set
	logger     *zap.Logger

	active   *decoration.VesselState
	previous *decoration.VesselState

	soi            string
	orbitClosed    bool
	deepAtmosphere bool
	moved          bool
	lastSurface    *decoration.VesselState
	cycle          int64
	summary        ledger.MissionSummary
}

// New returns a driver recording into registry.
func New(registry *ledger.Registry, vessels *observer.VesselObserver, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if vessels == nil {
		vessels = observer.NewVesselObserver(logger)
	}
	return &Driver{
		registry:   registry,
		catalog:    registry.Catalog(),
		evaluator:  registry.Evaluator(),
		vessels:    vessels,
		inspectors: observer.NewSet(logger),
		logger:     logger,
	}
}

// Active returns the last known snapshot of the active vessel.
func (d *Driver) Active() *decoration.VesselState { return d.active }

// Vessels returns the per-vessel observer.
func (d *Driver) Vessels() *observer.VesselObserver { return d.vessels }

// Inspectors returns the active vessel inspectors.
func (d *Driver) Inspectors() *observer.Set { return d.inspectors }

// LastMissionSummary returns the summary of the last recovered vessel.
func (d *Driver) LastMissionSummary() ledger.MissionSummary { return d.summary }

func (d *Driver) isActive(v *decoration.VesselState) bool {
	return v != nil && d.active != nil && v.VesselID == d.active.VesselID
}

// VesselChanged makes v the active vessel.
func (d *Driver) VesselChanged(v *decoration.VesselState) {
	if v == nil {
		d.logger.Warn("vessel change without a valid vessel")
		return
	}
	d.logger.Info("active vessel changed", zap.String("vessel", v.VesselName))
	d.orbitClosed = false
	d.inspectors.Reset()
	d.resetMoved()
	d.active = v
	d.previous = nil
	d.checkVessel(v, nil)
}

// SceneChanged forgets the cached previous vessel state.
func (d *Driver) SceneChanged() {
	d.previous = nil
}

// SituationChanged handles a situation change of v from the given
// situation to v.Situation.
func (d *Driver) SituationChanged(v *decoration.VesselState, from decoration.Situation) {
	if v == nil {
		d.logger.Warn("situation change without a valid vessel")
		return
	}
	if from == decoration.SituationPrelaunch && !v.IsPrelaunch() {
		d.launched(v)
	}
	if d.isActive(v) {
		d.active = v
		if !v.IsLanded() {
			d.resetMoved()
		}
		d.logger.Info("situation change for active vessel",
			zap.String("vessel", v.VesselName),
			zap.Stringer("from", from),
			zap.Stringer("to", v.Situation))
		d.checkVessel(v, nil)
		return
	}
	if v.Type == decoration.VesselFlag && v.IsLanded() && d.active != nil && d.active.IsEVA() {
		d.logger.Info("flag planted", zap.String("vessel", d.active.VesselName))
		d.checkVessel(d.active.AsFlagPlanted(), nil)
	}
}

func (d *Driver) launched(v *decoration.VesselState) {
	d.inspectors.Reset()
	if !d.isActive(v) {
		return
	}
	if v.AtHome() {
		d.logger.Info("launch from homeworld", zap.String("vessel", v.VesselName), zap.Float64("time", v.LaunchTime))
		d.vessels.SetHomeworldLaunchTime(v.VesselID, v.LaunchTime)
	}
	d.resetMoved()
	d.recordCrew(v.Crew, action.Launch, "")
	d.checkVessel(v.AsLaunch(), nil)
}

// SOIChanged handles v entering the sphere of influence of v.Body.
func (d *Driver) SOIChanged(v *decoration.VesselState) {
	d.orbitClosed = false
	if v == nil {
		return
	}
	if v.Body != nil {
		d.soi = v.Body.Name
	}
	d.logger.Debug("sphere of influence changed", zap.String("vessel", v.VesselName), zap.String("body", d.soi))
	if d.isActive(v) {
		d.active = v
	}
	d.checkVessel(v, nil)
}

// Docked handles two vessels coupling. EVA kerbals do not dock.
func (d *Driver) Docked(from, to *decoration.VesselState) {
	if from == nil || to == nil || from.IsEVA() || to.IsEVA() {
		return
	}
	v := to
	if d.isActive(from) {
		v = from
	}
	if !d.isActive(v) {
		return
	}
	d.logger.Info("docking", zap.String("vessel", v.VesselName))
	d.checkVessel(v.AsDocked(), nil)
	d.recordCrew(v.Crew, action.Docking, "")
}

// CrewOnEVA handles crew leaving vessel from as eva.
func (d *Driver) CrewOnEVA(from, eva *decoration.VesselState) {
	if from == nil || eva == nil {
		return
	}
	a := action.EVAFor(from)
	d.recordCrew(eva.Crew, a, "")
	d.previous = from.Clone()
	d.active = eva
	d.checkVesselFrom(d.previous, eva, nil)
}

// CrewBoarded handles kerbal returning from EVA into vessel.
func (d *Driver) CrewBoarded(kerbal string, vessel *decoration.VesselState) {
	if vessel == nil {
		return
	}
	for _, c := range vessel.Crew {
		if c.Name != kerbal {
			continue
		}
		if c.Kind != decoration.KindCrew {
			return
		}
		d.registry.Refresh(c)
		d.registry.Record(c.Name, action.Boarding, "")
		d.checkCrew(c, vessel)
		return
	}
	d.logger.Warn("boarding crew member not found in vessel", zap.String("subject", kerbal), zap.String("vessel", vessel.VesselName))
}

// Collision handles a collision of the report origin.
func (d *Driver) Collision(report decoration.EventReport) {
	if report.Origin == nil || !d.isActive(report.Origin) {
		return
	}
	d.logger.Info("collision of active vessel", zap.String("vessel", report.Origin.VesselName))
	d.checkVessel(report.Origin, &report)
}

// ContractFinished records a completed contract for the crew of the active
// vessel. Failed contracts are only logged.
func (d *Driver) ContractFinished(c decoration.Contract) {
	if c.State != decoration.ContractCompleted {
		d.logger.Debug("contract not completed", zap.String("contract", c.Title))
		return
	}
	v := d.active
	if v == nil {
		return
	}
	d.registry.BeginTransaction()
	defer d.registry.EndTransaction()
	for _, m := range v.Crew {
		if m.Kind != decoration.KindCrew {
			continue
		}
		d.registry.Refresh(m)
		d.registry.Record(m.Name, action.Contract, "")
		d.checkCrew(m, v)
		d.checkContract(m, c)
	}
}

// ScienceReceived records science transmitted or recovered by vessel.
func (d *Driver) ScienceReceived(amount float64, vessel *decoration.VesselState) {
	if vessel == nil {
		return
	}
	if amount <= 0 {
		d.logger.Debug("science ignored", zap.Float64("amount", amount))
		return
	}
	data := strconv.FormatFloat(amount, 'g', -1, 64)
	d.registry.BeginTransaction()
	defer d.registry.EndTransaction()
	for _, m := range vessel.Crew {
		if m.Kind != decoration.KindCrew {
			continue
		}
		d.registry.Refresh(m)
		d.registry.Record(m.Name, action.Science, data)
		d.checkCrew(m, vessel)
	}
}

// ProgressAchieved awards progress ribbons to the crew of the active
// vessel. Records set on the launch pad or outside a vessel do not count.
func (d *Driver) ProgressAchieved(node decoration.ProgressNode) {
	v := d.active
	if v == nil || v.IsPrelaunch() {
		return
	}
	for _, r := range d.catalog.All() {
		if !d.evaluator.ProgressMilestone(r.Decoration(), node) {
			continue
		}
		d.registry.BeginTransaction()
		for _, m := range v.Crew {
			if m.Kind == decoration.KindCrew {
				d.registry.Award(m.Name, r)
			}
		}
		d.registry.EndTransaction()
	}
}

// RosterStatusChanged syncs the roster record of crew and checks roster
// transition ribbons.
func (d *Driver) RosterStatusChanged(crew decoration.Crew, oldStatus, newStatus decoration.RosterStatus) {
	d.logger.Info("kerbal status change",
		zap.String("subject", crew.Name),
		zap.Int("from", int(oldStatus)),
		zap.Int("to", int(newStatus)))
	d.registry.Refresh(crew)
	if crew.Kind != decoration.KindCrew {
		return
	}
	for _, first := range []bool{true, false} {
		for _, r := range d.catalog.All() {
			dec := r.Decoration()
			if dec.MustBeFirst() == first && d.evaluator.RosterTransition(dec, crew, oldStatus, newStatus) {
				d.registry.Award(crew.Name, r)
			}
		}
	}
}

// KerbalAdded makes sure crew has an entry.
func (d *Driver) KerbalAdded(crew decoration.Crew) {
	d.logger.Info("kerbal added", zap.String("subject", crew.Name))
	d.registry.Refresh(crew)
}

// KerbalRemoved drops the entry of name.
func (d *Driver) KerbalRemoved(name string) {
	d.logger.Info("kerbal removed", zap.String("subject", name))
	d.registry.Remove(name)
}

// Recovered ends the mission of the crew of v and returns its summary.
func (d *Driver) Recovered(v *decoration.VesselState) ledger.MissionSummary {
	if v == nil {
		d.logger.Warn("vessel recovery without a valid vessel")
		return ledger.MissionSummary{}
	}
	d.summary = d.registry.SummarizeMission(v.Crew)
	d.logger.Info("vessel recovered", zap.String("vessel", v.VesselName))
	d.recordCrew(v.Crew, action.Recover, "")

	d.registry.BeginTransaction()
	for _, m := range v.Crew {
		d.checkCrew(m, nil)
	}
	d.registry.EndTransaction()

	for _, m := range v.Crew {
		d.registry.Refresh(m)
	}
	if d.isActive(v) {
		d.active = nil
		d.previous = nil
	}
	return d.summary
}

// GameStateCreated handles a load or revert to game time t.
func (d *Driver) GameStateCreated(t float64) {
	d.logger.Info("game state created", zap.Float64("time", t))
	d.orbitClosed = false
	d.inspectors.Reset()
	d.vessels.Revert(t)
}

// Update is called once per host frame with the current snapshot of the
// active vessel, or nil outside flight.
func (d *Driver) Update(v *decoration.VesselState) {
	d.cycle++
	if v != nil {
		d.active = v
	}
	if d.cycle%InspectInterval == 0 && v != nil {
		if !d.moved && d.landedVesselMoved(v) {
			d.moved = true
			d.logger.Debug("landed vessel moved", zap.String("vessel", v.VesselName))
			d.checkVessel(v.AsMovedOnSurface(), nil)
		}
		d.inspectors.Gee.Inspect(v)
		d.inspectors.Altitude.Inspect(v)
		if d.inspectors.Altitude.Changed() {
			d.inspectors.Mach.Reset()
			d.inspectors.Altitude.Clear()
		}
		d.inspectors.Mach.Inspect(v)
		d.inspectors.Atmosphere.Inspect(v)
		d.inspectors.Orbit.Inspect(v)
	}
	if d.cycle%CustomEventInterval == 0 {
		d.fireCustomEvents(v)
		d.inspectors.Clear()
	}
}

func (d *Driver) fireCustomEvents(v *decoration.VesselState) {
	if v == nil {
		d.orbitClosed = false
		d.deepAtmosphere = false
		return
	}
	if v.Body != nil && v.Body.Name != d.soi {
		d.SOIChanged(v)
	}

	inOrbit := v.InOrbit()
	if inOrbit && !d.orbitClosed {
		d.logger.Info("orbit closed", zap.String("vessel", v.VesselName))
		d.checkVessel(v, nil)
	}
	d.orbitClosed = inOrbit

	switch {
	case !d.deepAtmosphere && v.AtmDensity >= DeepAtmosphereDensity:
		d.deepAtmosphere = true
		d.logger.Debug("entering deep atmosphere", zap.String("vessel", v.VesselName))
		d.checkVessel(v, nil)
	case d.deepAtmosphere && v.AtmDensity < DeepAtmosphereDensity:
		d.deepAtmosphere = false
	}

	gee := d.inspectors.Gee.Changed()
	if gee {
		d.vessels.SetSustainedGee(v.VesselID, d.inspectors.Gee.Sustained())
	}
	if gee || d.inspectors.Mach.Changed() || d.inspectors.Atmosphere.Changed() || d.inspectors.Orbit.Changed() {
		d.checkVessel(v, nil)
	}
}

func (d *Driver) resetMoved() {
	d.moved = false
	d.lastSurface = nil
}

func (d *Driver) landedVesselMoved(v *decoration.VesselState) bool {
	if v.Type != decoration.VesselRover {
		return false
	}
	if !v.IsLanded() || v.Body == nil {
		d.lastSurface = nil
		return false
	}
	if d.lastSurface == nil {
		d.lastSurface = v.Clone()
		return false
	}
	return surfaceDistance(d.lastSurface, v) > MinSurfaceMove
}

// surfaceDistance is the great circle distance between two positions on
// the same body.
func surfaceDistance(a, b *decoration.VesselState) float64 {
	const rad = math.Pi / 180
	lat1, lat2 := a.Latitude*rad, b.Latitude*rad
	dlat := lat2 - lat1
	dlon := (b.Longitude - a.Longitude) * rad
	h := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	r := b.Body.Radius + (a.Altitude+b.Altitude)/2
	return 2 * r * math.Asin(math.Sqrt(min(1, h)))
}

func (d *Driver) checkVessel(cur *decoration.VesselState, report *decoration.EventReport) {
	d.checkVesselFrom(d.previous, cur, report)
}

// checkVesselFrom runs vessel checks for the transition previous to cur,
// must-be-first ribbons before the others, and caches cur as the next
// previous state.
func (d *Driver) checkVesselFrom(previous, cur *decoration.VesselState, report *decoration.EventReport) {
	if cur == nil {
		d.logger.Warn("no current vessel state, checks skipped")
		return
	}
	cur = cur.Clone()
	d.vessels.Fill(cur)
	ribbons := d.catalog.All()
	for _, first := range []bool{true, false} {
		for _, r := range ribbons {
			dec := r.Decoration()
			if dec.MustBeFirst() != first {
				continue
			}
			if d.evaluator.VesselTransition(dec, previous, cur) {
				d.awardVesselCrew(r, cur)
			}
			if report != nil && d.evaluator.EventReport(dec, *report) {
				d.awardVesselCrew(r, cur)
			}
		}
	}
	d.previous = cur
}

// awardVesselCrew awards r to every crew member of v in one transaction.
func (d *Driver) awardVesselCrew(r *decoration.Ribbon, v *decoration.VesselState) {
	if v.Body == nil {
		return
	}
	d.registry.BeginTransaction()
	defer d.registry.EndTransaction()
	for _, m := range v.Crew {
		if m.Kind == decoration.KindCrew {
			d.registry.Award(m.Name, r)
		}
	}
}

func (d *Driver) checkCrew(m decoration.Crew, vessel *decoration.VesselState) {
	if m.Kind != decoration.KindCrew {
		return
	}
	e := d.registry.GetOrCreate(m.Name)
	ribbons := d.catalog.All()
	for _, first := range []bool{true, false} {
		for _, r := range ribbons {
			dec := r.Decoration()
			if dec.MustBeFirst() == first && d.evaluator.SubjectSummary(dec, e.Summary(vessel)) {
				d.registry.Award(m.Name, r)
			}
		}
	}
}

func (d *Driver) checkContract(m decoration.Crew, c decoration.Contract) {
	ribbons := d.catalog.All()
	for _, first := range []bool{true, false} {
		for _, r := range ribbons {
			dec := r.Decoration()
			if dec.MustBeFirst() == first && d.evaluator.Contract(dec, c) {
				d.registry.Award(m.Name, r)
			}
		}
	}
}

func (d *Driver) recordCrew(crew []decoration.Crew, a *action.Action, data string) {
	for _, m := range crew {
		if m.Kind != decoration.KindCrew {
			continue
		}
		d.registry.Refresh(m)
		d.logger.Debug("recording action", zap.String("code", a.Code()), zap.String("subject", m.Name))
		d.registry.Record(m.Name, a, data)
	}
}
