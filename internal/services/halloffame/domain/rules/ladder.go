package rules

import (
	"math"
	"strconv"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/bodies"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
)

// numeric carries the threshold of a tiered decoration. Its code is the
// family prefix followed by the threshold.
type numeric struct {
	decoration.Base
	value int
}

func newNumeric(prefix, name string, value, prestige int) numeric {
	return numeric{Base: decoration.NewBase(prefix+strconv.Itoa(value), name, prestige, false), value: value}
}

// Value returns the tier threshold.
func (n *numeric) Value() int { return n.value }

func (n *numeric) describe(text string) {
	n.Base = n.Base.WithDescription(text)
}

// landedFromFlight reports a touchdown from flight. Launch pads and vessels
// already on the ground do not count.
func landedFromFlight(previous, current *decoration.VesselState) bool {
	if previous == nil || current == nil || current.IsEVA() {
		return false
	}
	return current.IsLanded() && !previous.IsLandedOrSplashed() && !previous.IsPrelaunch()
}

// FastOrbit qualifies on reaching a homeworld orbit within value seconds of
// a homeworld launch.
type FastOrbit struct{ numeric }

func newFastOrbit(seconds, prestige int) *FastOrbit {
	d := &FastOrbit{newNumeric("FO:", "Fast Orbit", seconds, prestige)}
	d.describe("Awarded for less than " + strconv.Itoa(seconds) + " seconds into orbit")
	return d
}

func (d *FastOrbit) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || previous == nil {
		return false
	}
	if !current.InOrbit() || previous.InOrbit() || !current.AtHome() {
		return false
	}
	if current.MissionTime >= float64(d.value) {
		return false
	}
	launch := current.HomeworldLaunchTime
	return launch >= 0 && current.Time-launch < float64(d.value)
}

// MissionTime qualifies on total time spent in missions.
type MissionTime struct{ numeric }

func newMissionTime(seconds, prestige int) *MissionTime {
	d := &MissionTime{newNumeric("MT:", "Mission Time", seconds, prestige)}
	d.describe("Awarded for more than " + gameDays(seconds) + " days spent in missions")
	return d
}

func (d *MissionTime) CheckSubjectSummary(s decoration.Summary) bool {
	return s.TotalMissionTime > float64(d.value)
}

// Endurance qualifies on a single long mission. The crew member has to be
// back from it.
type Endurance struct{ numeric }

func newEndurance(seconds, prestige int) *Endurance {
	d := &Endurance{newNumeric("ME:", "Endurance", seconds, prestige)}
	d.describe("Awarded for more than " + gameDays(seconds) + " days spent in a single mission and returning safely")
	return d
}

func (d *Endurance) CheckSubjectSummary(s decoration.Summary) bool {
	if s.InActiveFlight || s.Vessel == nil {
		return false
	}
	return s.Vessel.MissionTime > float64(d.value)
}

// EVAEndurance qualifies on the duration of the last EVA.
type EVAEndurance struct{ numeric }

func newEVAEndurance(seconds, prestige int) *EVAEndurance {
	d := &EVAEndurance{newNumeric("EM:", "EVA Endurance", seconds, prestige)}
	d.describe("Awarded for continuously spending " + gameDuration(seconds) + " in EVA")
	return d
}

func (d *EVAEndurance) CheckSubjectSummary(s decoration.Summary) bool {
	if s.TimeOfLastEva <= 0 {
		return false
	}
	return s.LastEvaDuration >= float64(d.value)
}

// EVATime qualifies on accumulated EVA time.
type EVATime struct{ numeric }

func newEVATime(seconds, prestige int) *EVATime {
	d := &EVATime{newNumeric("ET:", "EVA Time", seconds, prestige)}
	d.describe("Awarded for more than " + gameDuration(seconds) + " spent in EVA")
	return d
}

func (d *EVATime) CheckSubjectSummary(s decoration.Summary) bool {
	return s.TotalEvaTime > float64(d.value)
}

// Missions qualifies on the number of missions flown.
type Missions struct{ numeric }

func newMissions(count, prestige int) *Missions {
	d := &Missions{newNumeric("M:", "Multiple Missions", count, prestige)}
	d.describe("Awarded for " + strconv.Itoa(count) + " or more missions")
	return d
}

func (d *Missions) CheckSubjectSummary(s decoration.Summary) bool {
	return s.MissionsFlown >= d.value
}

// HeavyVehicle qualifies on being aboard a vessel heavier than value tons.
type HeavyVehicle struct{ numeric }

func newHeavyVehicle(mass, prestige int) *HeavyVehicle {
	d := &HeavyVehicle{newNumeric("H:", "Heavy Vehicle", mass, prestige)}
	d.describe("Awarded to every crew member of a vehicle with a total mass of " + strconv.Itoa(mass) + "t or more")
	return d
}

func (d *HeavyVehicle) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	return current != nil && !current.IsEVA() && current.TotalMass > float64(d.value)
}

// HeavyLanding qualifies on landing a vessel heavier than value tons.
type HeavyLanding struct{ numeric }

func newHeavyLanding(mass, prestige int) *HeavyLanding {
	d := &HeavyLanding{newNumeric("HS:", "Heavy Vehicle Landing", mass, prestige)}
	d.describe("Awarded for landing a vehicle with a total mass of " + strconv.Itoa(mass) + "t or more")
	return d
}

func (d *HeavyLanding) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	return landedFromFlight(previous, current) && current.TotalMass > float64(d.value)
}

// HeavyLaunch qualifies on lifting off with a vessel heavier than value tons.
type HeavyLaunch struct{ numeric }

func newHeavyLaunch(mass, prestige int) *HeavyLaunch {
	d := &HeavyLaunch{newNumeric("HL:", "Heavy Vehicle Launch", mass, prestige)}
	d.describe("Awarded for launching a vehicle with a total mass of " + strconv.Itoa(mass) + "t or more")
	return d
}

func (d *HeavyLaunch) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || previous == nil || current.IsEVA() {
		return false
	}
	if !previous.OnSurface() || !current.IsFlying() {
		return false
	}
	return current.TotalMass > float64(d.value)
}

// MountainLanding qualifies on a homeworld landing at or above value meters.
type MountainLanding struct{ numeric }

func newMountainLanding(altitude, prestige int) *MountainLanding {
	d := &MountainLanding{newNumeric("ML:", strconv.Itoa(altitude)+"m Mountain Lander", altitude, prestige)}
	d.describe("Awarded for landing a vessel on the homeworld at an elevation of at least " + strconv.Itoa(altitude) + "m")
	return d
}

func (d *MountainLanding) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	return landedFromFlight(previous, current) && current.Altitude >= float64(d.value) && current.AtHome()
}

// LowFuelLanding qualifies on touching down with at most value percent of
// liquid fuel left and without using parachutes.
type LowFuelLanding struct{ numeric }

func newLowFuelLanding(percent, prestige int) *LowFuelLanding {
	d := &LowFuelLanding{newNumeric("FL:", strconv.Itoa(percent)+"% Fuel Landing", percent, prestige)}
	d.describe("Awarded for landing a vessel with " + strconv.Itoa(percent) + "% or less liquid fuel left and no deployed parachutes")
	return d
}

func (d *LowFuelLanding) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if previous == nil || current == nil || current.IsEVA() {
		return false
	}
	if !current.IsLandedOrSplashed() || previous.IsLandedOrSplashed() || previous.IsPrelaunch() {
		return false
	}
	if !current.HasLiquidFuelTanks() || current.LiquidFuelLevel*100 > float64(d.value) {
		return false
	}
	return !current.ParachutesUsed()
}

// SolidFuel qualifies on a launch where active solid fuel makes up value
// percent of the ship mass.
type SolidFuel struct{ numeric }

func newSolidFuel(percent, prestige int) *SolidFuel {
	d := &SolidFuel{newNumeric("B", strconv.Itoa(percent)+"% Solid Fuel Booster", percent, prestige)}
	d.describe("Awarded for launching with solid fuel booster at " + strconv.Itoa(percent) + "% of ship mass")
	return d
}

func (d *SolidFuel) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || !current.IsLaunch || current.PartsMass <= 0 {
		return false
	}
	ratio := current.ActiveSolidFuel / current.PartsMass / 1000
	return ratio >= float64(d.value)/100
}

// GeeForce qualifies on a g-force level sustained long enough.
type GeeForce struct{ numeric }

func newGeeForce(g, prestige int) *GeeForce {
	d := &GeeForce{newNumeric("H", "G-Force "+Roman(g), g, prestige)}
	d.describe("Awarded for withstanding an acceleration of at least " + strconv.Itoa(g) + "g for 3.0 or more seconds")
	return d
}

func (d *GeeForce) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || previous == nil || current.IsEVA() {
		return false
	}
	if math.IsNaN(current.GeeForce) || current.GeeForce < float64(d.value) {
		return false
	}
	return current.SustainedGee >= d.value
}

// MachCeiling is the altitude below which Mach ribbons count.
const MachCeiling = 30000.0

// Mach qualifies on horizontal speed in the homeworld's lower atmosphere.
type Mach struct{ numeric }

func newMach(mach, prestige int) *Mach {
	d := &Mach{newNumeric("M", "Mach "+Roman(mach), mach, prestige)}
	d.describe("Awarded for flying horizontally at mach " + strconv.Itoa(mach) + " below 30000m in the homeworld's atmosphere")
	return d
}

func (d *Mach) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if previous == nil || current == nil || current.Body == nil {
		return false
	}
	if current.IsEVA() || current.OnSurface() {
		return false
	}
	if current.Altitude >= MachCeiling || current.Mach < float64(d.value) {
		return false
	}
	return current.AtHome()
}

// Contracts qualifies on the number of completed contracts.
type Contracts struct{ numeric }

func newContracts(count, prestige int) *Contracts {
	d := &Contracts{newNumeric("N", "Multiple Contracts", count, prestige)}
	d.describe("Awarded for completing " + strconv.Itoa(count) + " or more contracts")
	return d
}

func (d *Contracts) CheckSubjectSummary(s decoration.Summary) bool {
	return s.ContractsCompleted >= d.value
}

// Research qualifies on accumulated science points.
type Research struct{ numeric }

func newResearch(nr, points, prestige int) *Research {
	d := &Research{newNumeric("YR", "Research "+Roman(nr), points, prestige)}
	d.describe("Awarded for researching " + strconv.Itoa(points) + " or more science points")
	return d
}

func (d *Research) CheckSubjectSummary(s decoration.Summary) bool {
	return s.Research >= float64(d.value)
}

// Passengers qualifies on launching with at least value tourists aboard.
type Passengers struct{ numeric }

func newPassengers(count, prestige int) *Passengers {
	d := &Passengers{newNumeric("P", "Passenger Transport "+Roman(count), count, prestige)}
	d.describe("Awarded to kerbals launching a vessel containing at least " + strconv.Itoa(count) + " tourists")
	return d
}

func (d *Passengers) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if current == nil || previous == nil || current.IsPrelaunch() {
		return false
	}
	if !previous.IsPrelaunch() && !previous.IsLanded() {
		return false
	}
	if current.IsEVA() || !current.IsFlying() {
		return false
	}
	return len(current.Crew) >= d.value && current.TouristCount() >= d.value
}

// LowGravityLanding qualifies on landing where surface gravity is at most
// percent of the homeworld's.
type LowGravityLanding struct {
	decoration.Base
	gravity float64
}

func newLowGravityLanding(home *bodies.Body, percent, prestige int) *LowGravityLanding {
	p := strconv.Itoa(percent)
	d := &LowGravityLanding{
		Base:    decoration.NewBase("G:"+p, "Low Gravity Landing "+p+"%", prestige, false),
		gravity: home.GeeASL * float64(percent) / 100,
	}
	d.Base = d.Base.WithDescription("Awarded for landing in a gravity field of less than " + p + " percent of " + home.Name)
	return d
}

func (d *LowGravityLanding) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	if !landedFromFlight(previous, current) || current.Body == nil {
		return false
	}
	return current.Body.GeeASL <= d.gravity
}
