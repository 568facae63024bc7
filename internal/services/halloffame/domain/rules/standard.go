// Package rules holds the concrete decoration families and builds the
// standard ribbon catalog for a body system.
package rules

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/bodies"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
	"go.uber.org/zap"
)

// Options configures catalog construction.
type Options struct {
	// AssetExists reports whether a ribbon texture is available. Ribbons
	// without one are disabled. Nil treats every asset as present.
	AssetExists func(asset string) bool
	// Clock feeds calendar rules. Nil means time.Now.
	Clock Clock
	Logger *zap.Logger
}

type builder struct {
	catalog *decoration.Catalog
	exists  func(string) bool
	logger  *zap.Logger
	errs    []error
}

func (b *builder) ribbon(asset string, d decoration.Decoration, supersede *decoration.Ribbon) *decoration.Ribbon {
	r := decoration.NewRibbon(asset, d, supersede)
	if !b.exists(asset) {
		r.Disable()
	}
	return r
}

func (b *builder) add(asset string, d decoration.Decoration, supersede *decoration.Ribbon) *decoration.Ribbon {
	r := b.ribbon(asset, d, supersede)
	b.check(b.catalog.Register(r), r)
	return r
}

func (b *builder) addCustom(index int, r *decoration.Ribbon) {
	b.check(b.catalog.RegisterCustom(index, r), r)
}

func (b *builder) check(err error, r *decoration.Ribbon) {
	if err == nil {
		return
	}
	b.logger.Error("ribbon registration failed", zap.String("code", r.Code()), zap.String("asset", r.Asset()), zap.Error(err))
	b.errs = append(b.errs, err)
}

// ladder registers decorations as tiers, each superseding the previous one.
func (b *builder) ladder(asset func(tier int) string, ds ...decoration.Decoration) {
	var previous *decoration.Ribbon
	for i, d := range ds {
		previous = b.add(asset(i+1), d, previous)
	}
}

func numbered(name string) func(int) string {
	return func(tier int) string { return name + strconv.Itoa(tier) }
}

// NewStandardCatalog registers every stock ribbon for system. Registration
// errors are logged and skipped; the joined errors are returned with the
// catalog built from everything else.
func NewStandardCatalog(system *bodies.System, opts Options) (*decoration.Catalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	exists := opts.AssetExists
	if exists == nil {
		exists = func(string) bool { return true }
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	b := &builder{catalog: decoration.NewCatalog(logger), exists: exists, logger: logger}
	t := &tours{system: system}

	for _, body := range system.Bodies {
		b.addBody(t, system, body)
	}
	b.addGeneral(system, clock)
	b.addTours(system)
	if err := b.addCustomRibbons(); err != nil {
		b.errs = append(b.errs, err)
	}

	logger.Info("ribbon catalog created", zap.Int("ribbons", b.catalog.Len()), zap.Int("custom", len(b.catalog.CustomRibbons())))
	return b.catalog, errors.Join(b.errs...)
}

func (b *builder) addBody(t *tours, system *bodies.System, body *bodies.Body) {
	base := bodies.BasePrestige(body)
	path := body.Name + "/"
	b.logger.Debug("creating body ribbons", zap.String("body", body.Name), zap.Int("base_prestige", base))

	soi := b.add(path+"SphereOfInfluence", newSphereOfInfluence(t, body, base), nil)
	surface := !body.Star && !body.GasGiant
	atmosphere := body.HasAtmosphere() && !body.Home
	closer := body.Star && system.IsSunOfHomeworld(body)
	innermost := system.Innermost(body)
	if closer && innermost == nil {
		b.logger.Warn("no innermost body", zap.String("body", body.Name))
		closer = false
	}

	var orbit, eva, evaOrbit, docked, landing, evaGround, flag, rover, atm, cso *decoration.Ribbon
	pick := func(first bool, previous, otherwise *decoration.Ribbon) *decoration.Ribbon {
		if first {
			return previous
		}
		return otherwise
	}
	for i := 1; i <= 2; i++ {
		first := i == 2
		prefix := path
		if first {
			prefix += "First"
		}
		orbit = b.add(prefix+"OrbitCapsule", newOrbit(t, body, base+10+i, first), pick(first, orbit, soi))
		eva = b.add(prefix+"EvaSpace", newEVA(t, body, base+30+i, first), pick(first, eva, soi))
		evaOrbit = b.add(prefix+"EvaOrbit", newOrbitalEVA(t, body, base+40+i, first), pick(first, evaOrbit, orbit))
		docked = b.add(prefix+"OrbitCapsuleDocked", newDocking(t, body, base+60+i, first), pick(first, docked, orbit))

		if surface {
			landing = b.add(prefix+"Landing", newLanding(t, body, base+20+i, first), pick(first, landing, soi))
			evaGround = b.add(prefix+"EvaGround", newSurfaceEVA(t, body, base+50+i, first), pick(first, evaGround, landing))
			flag = b.add(prefix+"PlantFlag", newFlag(t, body, base+25+i, first), pick(first, flag, evaGround))
			rover = b.add(prefix+"Rover", newRover(t, body, base+35+i, first), pick(first, rover, evaGround))
		}
		if atmosphere {
			atm = b.add(prefix+"Atmosphere", newAtmosphere(t, body, base+15+i, first), pick(first, atm, soi))
		}
		if body.GasGiant && !first {
			b.add(prefix+"DeepAtmosphere", newDeepAtmosphere(t, body, base+90), soi)
		}
		if closer {
			cso = b.add(prefix+"CloserSolarOrbit", newCloserSolarOrbit(t, body, innermost, 50500+i, first), pick(first, cso, soi))
		}
	}
}

func (b *builder) addGeneral(system *bodies.System, clock Clock) {
	home := system.Home()
	sun := system.Sun()
	var outermost *bodies.Body
	if sun != nil {
		outermost = system.Outermost(sun)
	}
	if outermost == nil {
		b.logger.Warn("no outermost planet for deep space ribbon")
	}

	deepSpace := b.add("DeepSpace", newDeepSpace(sun, outermost, 48000, false), nil)
	b.add("FirstDeepSpace", newDeepSpace(sun, outermost, 48001, true), deepSpace)

	var missions []decoration.Decoration
	missionCounts := []int{5, 20, 50, 100, 200}
	for i, n := range missionCounts {
		missions = append(missions, newMissions(n, 56+i))
	}
	b.ladder(func(tier int) string { return "Missions" + strconv.Itoa(missionCounts[tier-1]) }, missions...)

	b.add("DangerousEva", newDangerousEVA(100001), nil)
	wet := b.add("WetEva", newWetEVA(home, 9350, false), nil)
	b.add("WetEvaFirst", newWetEVA(home, 9351, true), wet)

	b.ladder(func(tier int) string {
		if tier == 4 {
			return "FastOrbit5"
		}
		return "FastOrbit" + strconv.Itoa(tier)
	}, newFastOrbit(250, 3101), newFastOrbit(200, 3102), newFastOrbit(150, 3103), newFastOrbit(120, 3104))

	b.ladder(numbered("LongMissionTime"),
		newMissionTime(days(5), 4901), newMissionTime(days(20), 4902), newMissionTime(days(50), 4903),
		newMissionTime(days(100), 4904), newMissionTime(days(500), 4905), newMissionTime(days(2000), 4906),
		newMissionTime(days(5000), 4907))
	b.ladder(numbered("SingleMissionTime"),
		newEndurance(days(20), 4951), newEndurance(days(50), 4952), newEndurance(days(125), 4953),
		newEndurance(days(500), 4954), newEndurance(days(2000), 4955))

	b.add("Splashdown", newSplashdown(80), nil)
	b.add("EvaInWater", newHomeWatersEVA(home, 81), nil)
	b.add("Collision", newCollision(0), nil)
	b.add("FirstInSpace", newInSpace(999000), nil)
	b.add("FirstEvaInSpace", newEVAInSpace(899000), nil)

	b.ladder(func(tier int) string { return "SolidFuelBooster" + strconv.Itoa(tier*10) },
		newSolidFuel(10, 710), newSolidFuel(20, 720), newSolidFuel(30, 730))

	var gee []decoration.Decoration
	for g := 3; g < 19; g++ {
		gee = append(gee, newGeeForce(g, 80+g))
	}
	b.ladder(func(tier int) string { return "HighGeeForce" + strconv.Itoa(tier+2) }, gee...)

	masses := []int{250, 500, 750, 1000, 1500, 2000, 4000}
	var heavy, landing, launch []decoration.Decoration
	for i, m := range masses {
		heavy = append(heavy, newHeavyVehicle(m, 401+i))
		landing = append(landing, newHeavyLanding(m, 421+i))
		launch = append(launch, newHeavyLaunch(m, 411+i))
	}
	b.ladder(numbered("HeavyVehicle"), heavy...)
	b.ladder(numbered("HeavyVehicleLanding"), landing...)
	b.ladder(numbered("HeavyVehicleLaunch"), launch...)

	var mountains []decoration.Decoration
	for i, alt := 0, 1500; alt <= 4000; i, alt = i+1, alt+500 {
		mountains = append(mountains, newMountainLanding(alt, 431+i))
	}
	b.ladder(func(tier int) string { return fmt.Sprintf("Mountain%02d", tier) }, mountains...)
	b.ladder(func(tier int) string { return fmt.Sprintf("NoFuel%02d", tier) },
		newLowFuelLanding(5, 441), newLowFuelLanding(1, 442))

	north := b.add("NorthPolar", newPolarLanding(home, "North", 491, false), nil)
	b.add("FirstNorthPolar", newPolarLanding(home, "North", 492, true), north)
	south := b.add("SouthPolar", newPolarLanding(home, "South", 493, false), nil)
	b.add("FirstSouthPolar", newPolarLanding(home, "South", 494, true), south)

	var evaTotal []decoration.Decoration
	for i, h := range []int{1, 2, 6, 12, 24, 48, 96, 192} {
		evaTotal = append(evaTotal, newEVATime(hours(h), 471+i))
	}
	b.ladder(numbered("TotalEva"), evaTotal...)

	var evaEndurance []decoration.Decoration
	for i, s := range []int{1200, 1800, 2400, 3000, 3600, 5400, 7200, 10800, 14400, 18000} {
		evaEndurance = append(evaEndurance, newEVAEndurance(s, 451+i))
	}
	b.ladder(numbered("Eva"), evaEndurance...)

	var mach []decoration.Decoration
	for i, m := range []int{1, 2, 3, 4, 5, 6, 8, 10} {
		mach = append(mach, newMach(m, 481+i))
	}
	b.ladder(numbered("Mach"), mach...)

	var contracts []decoration.Decoration
	for i, n := range []int{5, 10, 20, 40, 60} {
		contracts = append(contracts, newContracts(n, 61+i))
	}
	b.ladder(numbered("Contracts"), contracts...)

	significant := b.add("SignificantContract", newContractPrestige(decoration.ContractSignificant, 68), nil)
	b.add("ExceptionalContract", newContractPrestige(decoration.ContractExceptional, 69), significant)

	b.add("LostAndFound", newLostAndFound(99), nil)

	var research []decoration.Decoration
	for i, points := range []int{10, 50, 100, 150, 200, 400, 600, 1000, 1500, 2000} {
		research = append(research, newResearch(i+1, points, 201+i))
	}
	b.ladder(numbered("Research"), research...)

	b.add("ServiceOperations", newService("QO", "Operational Service", "Pilot", "a", 12), nil)
	b.add("ServiceEngineer", newService("QE", "Engineer Service", "Engineer", "an", 11), nil)
	b.add("ServiceScientist", newService("QS", "Scientific Service", "Scientist", "a", 10), nil)

	var transport []decoration.Decoration
	for n := 1; n <= 5; n++ {
		transport = append(transport, newPassengers(n, 109+n))
	}
	b.ladder(numbered("PassengerTransport"), transport...)

	b.add("DistanceRecord", newDistanceRecord(551), nil)
	b.add("SpeedRecord", newSpeedRecord(552), nil)
	b.add("DepthRecord", newDepthRecord(553), nil)
	b.add("AltitudeRecord", newAltitudeRecord(554), nil)

	b.add("XM2014A", newWindow("X14", "X-mas 2014", "Awarded for any kind of duty on xmas 2014",
		time.Date(2014, 12, 24, 0, 0, 0, 0, time.Local), time.Date(2014, 12, 27, 0, 0, 0, 0, time.Local), 2, clock), nil)
	b.add("XM", newDayOfYear(24, 12, 26, 12, "X-mas", "Awarded for any kind of duty on xmas", 1, clock), nil)
	b.add("July4", newDayOfYear(4, 7, 4, 7, "4th July", "Awarded for any kind of duty on 4th of July", 3, clock), nil)
	b.add("Anniversary", newDayOfYear(27, 4, 27, 4, "Anniversary", "Awarded for any kind of duty on any anniversary of the kerbal space program", 4, clock), nil)

	b.ladder(func(tier int) string { return "LowGravityLanding" + []string{"10", "5", "1"}[tier-1] },
		newLowGravityLanding(home, 10, 570), newLowGravityLanding(home, 5, 571), newLowGravityLanding(home, 1, 572))
}

// addTours registers the non-first tour ribbons. The must-be-first variants
// are not registered: cascade awards cannot be ordered against other
// subjects, so a first tour would go to whoever was replayed first.
func (b *builder) addTours(system *bodies.System) {
	b.add("GrandTour", newGrandTour(9999, false), nil)
	if primary, ok := system.TourPrimary(); ok {
		b.add(primary.Name+"Tour", newSubsystemTour(primary, bodies.BasePrestige(primary)+98, false), nil)
	}
}

func (b *builder) addCustomRibbons() error {
	defs, err := CustomDefinitions()
	if err != nil {
		return err
	}
	for _, def := range defs {
		var supersede *decoration.Ribbon
		if def.Supersedes != "" {
			r, ok := b.catalog.Lookup(def.Supersedes)
			if !ok {
				b.logger.Warn("custom ribbon supersede target missing", zap.Int("index", def.Index), zap.String("target", def.Supersedes))
			}
			supersede = r
		}
		d := decoration.NewCustom(def.Index, CustomPrestige(def.Index))
		d.SetName(def.Name)
		d.SetDescription(def.Description)
		b.addCustom(def.Index, b.ribbon(def.Asset, d, supersede))
	}

	for i := 0; i < GenericCustomCount; i++ {
		nr := fmt.Sprintf("%02d", i+1)
		d := decoration.NewCustom(GenericCustomBase+i, -2000+i)
		d.SetName(nr + " Custom")
		d.SetDescription(nr + " Custom")
		b.addCustom(GenericCustomBase+i, b.ribbon("Custom"+nr, d, nil))
	}
	return nil
}
