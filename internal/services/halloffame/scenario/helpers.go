package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
)

func requiredString(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok {
		return ""
	}
	text, ok := value.(string)
	if ok && text != "" {
		return text
	}
	return ""
}

func optionalString(args map[string]any, key, fallback string) string {
	if text := requiredString(args, key); text != "" {
		return text
	}
	return fallback
}

func optionalInt(args map[string]any, key string, fallback int) int {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	switch typed := value.(type) {
	case int:
		return typed
	case float64:
		return int(typed)
	default:
		return fallback
	}
}

func readFloat(args map[string]any, key string) (float64, bool) {
	value, ok := args[key]
	if !ok {
		return 0, false
	}
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case float64:
		return typed, true
	default:
		return 0, false
	}
}

// stateArgs returns a copy of the vessel fields of a step.
func stateArgs(args map[string]any) map[string]any {
	fields, _ := args["state"].(map[string]any)
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		out[key] = value
	}
	return out
}

var floatFields = map[string]func(v *decoration.VesselState) *float64{
	"altitude":     func(v *decoration.VesselState) *float64 { return &v.Altitude },
	"apa":          func(v *decoration.VesselState) *float64 { return &v.ApA },
	"pea":          func(v *decoration.VesselState) *float64 { return &v.PeA },
	"density":      func(v *decoration.VesselState) *float64 { return &v.AtmDensity },
	"latitude":     func(v *decoration.VesselState) *float64 { return &v.Latitude },
	"longitude":    func(v *decoration.VesselState) *float64 { return &v.Longitude },
	"mach":         func(v *decoration.VesselState) *float64 { return &v.Mach },
	"gee":          func(v *decoration.VesselState) *float64 { return &v.GeeForce },
	"mass":         func(v *decoration.VesselState) *float64 { return &v.TotalMass },
	"parts_mass":   func(v *decoration.VesselState) *float64 { return &v.PartsMass },
	"solid_fuel":   func(v *decoration.VesselState) *float64 { return &v.ActiveSolidFuel },
	"fuel":         func(v *decoration.VesselState) *float64 { return &v.LiquidFuelLevel },
	"launch_time":  func(v *decoration.VesselState) *float64 { return &v.LaunchTime },
	"mission_time": func(v *decoration.VesselState) *float64 { return &v.MissionTime },
}

// applyVessel updates v from scripted fields and stamps it with the engine
// time. Unknown fields are rejected.
func (r *Runner) applyVessel(state *scenarioState, v *decoration.VesselState, fields map[string]any) error {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if field, ok := floatFields[key]; ok {
			value, ok := readFloat(fields, key)
			if !ok {
				return fmt.Errorf("field %s must be a number", key)
			}
			*field(v) = value
			continue
		}
		switch key {
		case "name":
			v.VesselName = requiredString(fields, key)
		case "type":
			t, err := parseVesselType(requiredString(fields, key))
			if err != nil {
				return err
			}
			v.Type = t
		case "situation":
			s, ok := decoration.ParseSituation(strings.ToUpper(requiredString(fields, key)))
			if !ok {
				return fmt.Errorf("unknown situation %v", fields[key])
			}
			v.Situation = s
		case "body":
			name := requiredString(fields, key)
			b, ok := r.engine.System().Body(name)
			if !ok {
				return fmt.Errorf("unknown body %q", name)
			}
			v.Body = b
		case "crew":
			names, ok := fields[key].([]any)
			if !ok {
				return fmt.Errorf("crew must be a list of names")
			}
			crew, err := r.resolveCrew(state, names)
			if err != nil {
				return err
			}
			v.Crew = crew
		case "parachutes":
			chutes, ok := fields[key].([]any)
			if !ok {
				return fmt.Errorf("parachutes must be a list of states")
			}
			v.Parachutes = v.Parachutes[:0]
			for _, c := range chutes {
				p, err := parseParachute(fmt.Sprint(c))
				if err != nil {
					return err
				}
				v.Parachutes = append(v.Parachutes, p)
			}
		default:
			return fmt.Errorf("unknown vessel field %q", key)
		}
	}
	r.stamp(v)
	return nil
}

// resolveCrew maps names to roster records. Unknown names join the roster
// as pilots.
func (r *Runner) resolveCrew(state *scenarioState, names []any) ([]decoration.Crew, error) {
	crew := make([]decoration.Crew, 0, len(names))
	for _, n := range names {
		name, ok := n.(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("crew names must be strings")
		}
		c, known := state.crew[name]
		if !known {
			c = decoration.Crew{Name: name, Kind: decoration.KindCrew, Trait: "Pilot"}
			state.crew[name] = c
			r.engine.Driver().KerbalAdded(c)
		}
		c.Status = decoration.StatusAssigned
		crew = append(crew, c)
	}
	return crew, nil
}

func parseVesselType(value string) (decoration.VesselType, error) {
	if t, ok := decoration.ParseVesselType(value); ok {
		return t, nil
	}
	if value != "" {
		if t, ok := decoration.ParseVesselType(strings.ToUpper(value[:1]) + strings.ToLower(value[1:])); ok {
			return t, nil
		}
	}
	if strings.EqualFold(value, "eva") {
		return decoration.VesselEVA, nil
	}
	return 0, fmt.Errorf("unknown vessel type %q", value)
}

func parseCrewKind(value string) (decoration.CrewKind, error) {
	switch strings.ToLower(value) {
	case "crew":
		return decoration.KindCrew, nil
	case "tourist":
		return decoration.KindTourist, nil
	case "applicant":
		return decoration.KindApplicant, nil
	case "unowned":
		return decoration.KindUnowned, nil
	default:
		return 0, fmt.Errorf("unknown crew kind %q", value)
	}
}

func parseContractState(value string) (decoration.ContractState, error) {
	switch strings.ToLower(value) {
	case "offered":
		return decoration.ContractOffered, nil
	case "active":
		return decoration.ContractActive, nil
	case "completed":
		return decoration.ContractCompleted, nil
	case "failed":
		return decoration.ContractFailed, nil
	default:
		return 0, fmt.Errorf("unknown contract state %q", value)
	}
}

func parseContractPrestige(value string) (decoration.ContractPrestige, error) {
	switch strings.ToLower(value) {
	case "trivial":
		return decoration.ContractTrivial, nil
	case "significant":
		return decoration.ContractSignificant, nil
	case "exceptional":
		return decoration.ContractExceptional, nil
	default:
		return 0, fmt.Errorf("unknown contract prestige %q", value)
	}
}

func parseRecordKind(value string) (decoration.RecordKind, error) {
	switch strings.ToLower(value) {
	case "none":
		return decoration.RecordNone, nil
	case "altitude":
		return decoration.RecordAltitude, nil
	case "depth":
		return decoration.RecordDepth, nil
	case "distance":
		return decoration.RecordDistance, nil
	case "speed":
		return decoration.RecordSpeed, nil
	default:
		return 0, fmt.Errorf("unknown record kind %q", value)
	}
}

func parseParachute(value string) (decoration.ParachuteState, error) {
	switch strings.ToLower(value) {
	case "stowed":
		return decoration.ParachuteStowed, nil
	case "active":
		return decoration.ParachuteActive, nil
	case "semi_deployed":
		return decoration.ParachuteSemiDeployed, nil
	case "deployed":
		return decoration.ParachuteDeployed, nil
	case "cut":
		return decoration.ParachuteCut, nil
	default:
		return 0, fmt.Errorf("unknown parachute state %q", value)
	}
}
