package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is a named list of steps built by a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted event or expectation.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadFile runs the script at path and returns the scenario it builds.
func LoadFile(path string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	s, err := runChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.Name) == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// LoadString runs script and returns the scenario it builds.
func LoadString(script string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadString(state, script); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	s, err := runChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.Name) == "" {
		s.Name = "inline"
	}
	return s, nil
}

func newState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerScenarioType(state)
	registerScenarioConstructor(state)
	return state
}

func runChunk(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	s, ok := ud.(*Scenario)
	if !ok || s == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	return s, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{{Name: "new", Function: scenarioNew}}, 0)
	state.SetGlobal("Scenario")
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	state.PushUserData(&Scenario{Name: name})
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "crew", Function: scenarioCrew},
	{Name: "vessel", Function: vesselStep("vessel")},
	{Name: "launch", Function: idStep("launch")},
	{Name: "situation", Function: vesselStep("situation")},
	{Name: "soi", Function: scenarioSOI},
	{Name: "eva", Function: scenarioEVA},
	{Name: "board", Function: scenarioBoard},
	{Name: "dock", Function: idStep("dock")},
	{Name: "recover", Function: idStep("recover")},
	{Name: "contract", Function: tableStep("contract")},
	{Name: "science", Function: scenarioScience},
	{Name: "progress", Function: tableStep("progress")},
	{Name: "collision", Function: idStep("collision")},
	{Name: "tick", Function: scenarioTick},
	{Name: "time", Function: scenarioTime},
	{Name: "expect_ribbon", Function: expectStep("expect_ribbon")},
	{Name: "expect_no_ribbon", Function: expectStep("expect_no_ribbon")},
	{Name: "expect_counter", Function: scenarioExpectCounter},
}

func scenarioCrew(state *lua.State) int {
	s := checkScenario(state)
	name := lua.CheckString(state, 2)
	data := optionalTable(state, 3)
	data["name"] = name
	appendStep(s, "crew", data)
	return 0
}

func vesselStep(kind string) lua.Function {
	return func(state *lua.State) int {
		s := checkScenario(state)
		id := lua.CheckString(state, 2)
		appendStep(s, kind, map[string]any{"id": id, "state": optionalTable(state, 3)})
		return 0
	}
}

func idStep(kind string) lua.Function {
	return func(state *lua.State) int {
		s := checkScenario(state)
		id := lua.CheckString(state, 2)
		appendStep(s, kind, map[string]any{"id": id})
		return 0
	}
}

func tableStep(kind string) lua.Function {
	return func(state *lua.State) int {
		s := checkScenario(state)
		lua.CheckType(state, 2, lua.TypeTable)
		appendStep(s, kind, tableToMap(state, 2))
		return 0
	}
}

func expectStep(kind string) lua.Function {
	return func(state *lua.State) int {
		s := checkScenario(state)
		name := lua.CheckString(state, 2)
		code := lua.CheckString(state, 3)
		appendStep(s, kind, map[string]any{"name": name, "code": code})
		return 0
	}
}

func scenarioSOI(state *lua.State) int {
	s := checkScenario(state)
	id := lua.CheckString(state, 2)
	body := lua.CheckString(state, 3)
	appendStep(s, "soi", map[string]any{"id": id, "body": body})
	return 0
}

func scenarioEVA(state *lua.State) int {
	s := checkScenario(state)
	from := lua.CheckString(state, 2)
	eva := lua.CheckString(state, 3)
	kerbal := lua.CheckString(state, 4)
	appendStep(s, "eva", map[string]any{"from": from, "eva": eva, "kerbal": kerbal})
	return 0
}

func scenarioBoard(state *lua.State) int {
	s := checkScenario(state)
	kerbal := lua.CheckString(state, 2)
	id := lua.CheckString(state, 3)
	appendStep(s, "board", map[string]any{"kerbal": kerbal, "id": id})
	return 0
}

func scenarioScience(state *lua.State) int {
	s := checkScenario(state)
	amount := lua.CheckNumber(state, 2)
	appendStep(s, "science", map[string]any{"amount": amount})
	return 0
}

func scenarioTick(state *lua.State) int {
	s := checkScenario(state)
	id := lua.CheckString(state, 2)
	data := optionalTable(state, 3)
	n := lua.OptInteger(state, 4, 1)
	appendStep(s, "tick", map[string]any{"id": id, "state": data, "n": n})
	return 0
}

func scenarioTime(state *lua.State) int {
	s := checkScenario(state)
	t := lua.CheckNumber(state, 2)
	appendStep(s, "time", map[string]any{"t": t})
	return 0
}

func scenarioExpectCounter(state *lua.State) int {
	s := checkScenario(state)
	name := lua.CheckString(state, 2)
	counter := lua.CheckString(state, 3)
	value := lua.CheckNumber(state, 4)
	appendStep(s, "expect_counter", map[string]any{"name": name, "counter": counter, "value": value})
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if s, ok := ud.(*Scenario); ok && s != nil {
		return s
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(s *Scenario, kind string, data map[string]any) int {
	if s == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	s.Steps = append(s.Steps, Step{Kind: kind, Args: data})
	return len(s.Steps) - 1
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 && math.Abs(value) < 1<<53 {
		return int(value)
	}
	return value
}
