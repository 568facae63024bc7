package scenario

import (
	"fmt"
	"math"
	"slices"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
	"go.uber.org/zap"
)

// DefaultTickInterval is the game time a tick advances when the step does
// not set dt.
const DefaultTickInterval = 1.0

func (r *Runner) runStep(state *scenarioState, step Step) error {
	switch step.Kind {
	case "crew":
		return r.runCrewStep(state, step)
	case "vessel":
		return r.runVesselStep(state, step)
	case "launch":
		return r.runLaunchStep(state, step)
	case "situation":
		return r.runSituationStep(state, step)
	case "soi":
		return r.runSOIStep(state, step)
	case "eva":
		return r.runEVAStep(state, step)
	case "board":
		return r.runBoardStep(state, step)
	case "dock":
		return r.runDockStep(state, step)
	case "recover":
		return r.runRecoverStep(state, step)
	case "contract":
		return r.runContractStep(state, step)
	case "science":
		return r.runScienceStep(state, step)
	case "progress":
		return r.runProgressStep(state, step)
	case "collision":
		return r.runCollisionStep(state, step)
	case "tick":
		return r.runTickStep(state, step)
	case "time":
		t, ok := readFloat(step.Args, "t")
		if !ok {
			return fmt.Errorf("time is required")
		}
		r.engine.SetTime(t)
		return nil
	case "expect_ribbon":
		return r.runExpectRibbonStep(step, true)
	case "expect_no_ribbon":
		return r.runExpectRibbonStep(step, false)
	case "expect_counter":
		return r.runExpectCounterStep(step)
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) runCrewStep(state *scenarioState, step Step) error {
	name := requiredString(step.Args, "name")
	if name == "" {
		return fmt.Errorf("crew name is required")
	}
	kind, err := parseCrewKind(optionalString(step.Args, "kind", "crew"))
	if err != nil {
		return err
	}
	c := decoration.Crew{Name: name, Kind: kind, Trait: optionalString(step.Args, "trait", "Pilot")}
	state.crew[name] = c
	r.engine.Driver().KerbalAdded(c)
	return nil
}

func (r *Runner) runVesselStep(state *scenarioState, step Step) error {
	id := requiredString(step.Args, "id")
	if id == "" {
		return fmt.Errorf("vessel id is required")
	}
	fields := stateArgs(step.Args)
	activate, _ := fields["active"].(bool)
	delete(fields, "active")

	v, exists := state.vessels[id]
	if !exists {
		v = &decoration.VesselState{
			VesselID:        id,
			VesselName:      id,
			Type:            decoration.VesselShip,
			Situation:       decoration.SituationPrelaunch,
			Body:            r.engine.System().Home(),
			LiquidFuelLevel: math.NaN(),
			LaunchTime:      decoration.NoTime,
		}
		state.vessels[id] = v
	}
	if err := r.applyVessel(state, v, fields); err != nil {
		return err
	}
	if activate || state.active == "" {
		r.activate(state, v)
	}
	return nil
}

func (r *Runner) runLaunchStep(state *scenarioState, step Step) error {
	v, err := r.vessel(state, requiredString(step.Args, "id"))
	if err != nil {
		return err
	}
	if state.active != v.VesselID {
		r.activate(state, v)
	}
	from := v.Situation
	now := r.engine.Time()
	v.Situation = decoration.SituationFlying
	v.LaunchTime = now
	r.stamp(v)
	r.engine.Driver().SituationChanged(v, from)
	return nil
}

func (r *Runner) runSituationStep(state *scenarioState, step Step) error {
	v, err := r.vessel(state, requiredString(step.Args, "id"))
	if err != nil {
		return err
	}
	from := v.Situation
	if err := r.applyVessel(state, v, stateArgs(step.Args)); err != nil {
		return err
	}
	r.engine.Driver().SituationChanged(v, from)
	return nil
}

func (r *Runner) runSOIStep(state *scenarioState, step Step) error {
	v, err := r.vessel(state, requiredString(step.Args, "id"))
	if err != nil {
		return err
	}
	if err := r.applyVessel(state, v, map[string]any{"body": step.Args["body"]}); err != nil {
		return err
	}
	r.engine.Driver().SOIChanged(v)
	return nil
}

func (r *Runner) runEVAStep(state *scenarioState, step Step) error {
	from, err := r.vessel(state, requiredString(step.Args, "from"))
	if err != nil {
		return err
	}
	evaID := requiredString(step.Args, "eva")
	if evaID == "" {
		return fmt.Errorf("eva vessel id is required")
	}
	if _, exists := state.vessels[evaID]; exists {
		return fmt.Errorf("vessel %q already exists", evaID)
	}
	kerbal := requiredString(step.Args, "kerbal")
	index := slices.IndexFunc(from.Crew, func(c decoration.Crew) bool { return c.Name == kerbal })
	if index < 0 {
		return fmt.Errorf("%q is not aboard %q", kerbal, from.VesselID)
	}

	r.stamp(from)
	eva := from.Clone()
	eva.VesselID = evaID
	eva.VesselName = kerbal
	eva.Type = decoration.VesselEVA
	eva.Crew = []decoration.Crew{from.Crew[index]}
	eva.Parachutes = nil
	from.Crew = slices.Delete(from.Crew, index, index+1)
	state.vessels[evaID] = eva
	state.active = evaID
	r.engine.Driver().CrewOnEVA(from, eva)
	return nil
}

func (r *Runner) runBoardStep(state *scenarioState, step Step) error {
	kerbal := requiredString(step.Args, "kerbal")
	v, err := r.vessel(state, requiredString(step.Args, "id"))
	if err != nil {
		return err
	}
	var member *decoration.Crew
	for id, other := range state.vessels {
		if !other.IsEVA() || len(other.Crew) == 0 || other.Crew[0].Name != kerbal {
			continue
		}
		c := other.Crew[0]
		member = &c
		delete(state.vessels, id)
		break
	}
	if member == nil {
		return fmt.Errorf("%q is not on EVA", kerbal)
	}
	v.Crew = append(v.Crew, *member)
	r.stamp(v)
	r.engine.Driver().CrewBoarded(kerbal, v)
	r.activate(state, v)
	return nil
}

func (r *Runner) runDockStep(state *scenarioState, step Step) error {
	active, err := r.vessel(state, state.active)
	if err != nil {
		return fmt.Errorf("no active vessel to dock with: %w", err)
	}
	target, err := r.vessel(state, requiredString(step.Args, "id"))
	if err != nil {
		return err
	}
	r.stamp(active)
	r.stamp(target)
	r.engine.Driver().Docked(active, target)
	active.Crew = append(active.Crew, target.Crew...)
	delete(state.vessels, target.VesselID)
	return nil
}

func (r *Runner) runRecoverStep(state *scenarioState, step Step) error {
	v, err := r.vessel(state, requiredString(step.Args, "id"))
	if err != nil {
		return err
	}
	r.stamp(v)
	summary := r.engine.Driver().Recovered(v)
	for _, event := range summary.Events {
		codes := make([]string, 0, len(event.Ribbons))
		for _, rb := range event.Ribbons {
			codes = append(codes, rb.Code())
		}
		r.logger.Info("mission summary", zap.String("subject", event.Subject), zap.Strings("ribbons", codes))
	}
	delete(state.vessels, v.VesselID)
	if state.active == v.VesselID {
		state.active = ""
	}
	return nil
}

func (r *Runner) runContractStep(_ *scenarioState, step Step) error {
	contractState, err := parseContractState(optionalString(step.Args, "state", "completed"))
	if err != nil {
		return err
	}
	prestige, err := parseContractPrestige(optionalString(step.Args, "prestige", "trivial"))
	if err != nil {
		return err
	}
	r.engine.Driver().ContractFinished(decoration.Contract{
		Title:    optionalString(step.Args, "title", "Scenario Contract"),
		State:    contractState,
		Prestige: prestige,
	})
	return nil
}

func (r *Runner) runScienceStep(state *scenarioState, step Step) error {
	amount, ok := readFloat(step.Args, "amount")
	if !ok {
		return fmt.Errorf("science amount is required")
	}
	v, err := r.vessel(state, state.active)
	if err != nil {
		return fmt.Errorf("no active vessel for science: %w", err)
	}
	r.stamp(v)
	r.engine.Driver().ScienceReceived(amount, v)
	return nil
}

func (r *Runner) runProgressStep(_ *scenarioState, step Step) error {
	kind, err := parseRecordKind(optionalString(step.Args, "kind", "none"))
	if err != nil {
		return err
	}
	record, _ := readFloat(step.Args, "record")
	reached := true
	if value, ok := step.Args["reached"].(bool); ok {
		reached = value
	}
	r.engine.Driver().ProgressAchieved(decoration.ProgressNode{
		ID:      requiredString(step.Args, "id"),
		Kind:    kind,
		Reached: reached,
		Record:  record,
	})
	return nil
}

func (r *Runner) runCollisionStep(state *scenarioState, step Step) error {
	v, err := r.vessel(state, requiredString(step.Args, "id"))
	if err != nil {
		return err
	}
	r.stamp(v)
	r.engine.Driver().Collision(decoration.EventReport{Type: decoration.EventCollision, Origin: v})
	return nil
}

func (r *Runner) runTickStep(state *scenarioState, step Step) error {
	v, err := r.vessel(state, requiredString(step.Args, "id"))
	if err != nil {
		return err
	}
	fields := stateArgs(step.Args)
	dt := DefaultTickInterval
	if value, ok := readFloat(fields, "dt"); ok {
		dt = value
	}
	delete(fields, "dt")
	if err := r.applyVessel(state, v, fields); err != nil {
		return err
	}
	n := optionalInt(step.Args, "n", 1)
	state.active = v.VesselID
	d := r.engine.Driver()
	for i := 0; i < n; i++ {
		r.engine.SetTime(r.engine.Time() + dt)
		r.stamp(v)
		d.Update(v)
	}
	return nil
}

func (r *Runner) runExpectRibbonStep(step Step, want bool) error {
	name := requiredString(step.Args, "name")
	code := requiredString(step.Args, "code")
	if _, ok := r.engine.Catalog().Lookup(code); !ok {
		return fmt.Errorf("unknown ribbon code %q", code)
	}
	if got := r.engine.API().IsRibbonCodeAwarded(code, name); got != want {
		if want {
			return r.assertions.Failf("%s does not hold %s", name, code)
		}
		return r.assertions.Failf("%s holds %s", name, code)
	}
	return nil
}

func (r *Runner) runExpectCounterStep(step Step) error {
	name := requiredString(step.Args, "name")
	counter := requiredString(step.Args, "counter")
	want, ok := readFloat(step.Args, "value")
	if !ok {
		return fmt.Errorf("counter value is required")
	}
	got, err := r.counter(name, counter)
	if err != nil {
		return err
	}
	if math.Abs(got-want) > 1e-6 {
		return r.assertions.Failf("%s %s = %v, want %v", name, counter, got, want)
	}
	return nil
}

func (r *Runner) counter(name, counter string) (float64, error) {
	a := r.engine.API()
	switch counter {
	case "missions":
		return float64(a.MissionsFlown(name)), nil
	case "dockings":
		return float64(a.Dockings(name)), nil
	case "contracts":
		return float64(a.ContractsCompleted(name)), nil
	case "research":
		return a.Research(name), nil
	case "mission_time":
		return a.TotalMissionTime(name), nil
	case "eva_time":
		if e, ok := r.engine.Registry().Entry(name); ok {
			return e.TotalEvaTime, nil
		}
		return 0, nil
	case "ribbons":
		if e, ok := r.engine.Registry().Entry(name); ok {
			return float64(len(e.Ribbons())), nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("unknown counter %q", counter)
	}
}

func (r *Runner) vessel(state *scenarioState, id string) (*decoration.VesselState, error) {
	if id == "" {
		return nil, fmt.Errorf("vessel id is required")
	}
	v, ok := state.vessels[id]
	if !ok {
		return nil, fmt.Errorf("unknown vessel %q", id)
	}
	return v, nil
}

func (r *Runner) activate(state *scenarioState, v *decoration.VesselState) {
	state.active = v.VesselID
	r.stamp(v)
	r.engine.Driver().VesselChanged(v)
}

// stamp brings the snapshot time and mission clock to the engine time.
func (r *Runner) stamp(v *decoration.VesselState) {
	v.Time = r.engine.Time()
	if v.LaunchTime != decoration.NoTime {
		v.MissionTime = v.Time - v.LaunchTime
	}
}
