package decoration

import (
	"strconv"
	"sync"
)

// CustomCodePrefix prefixes the index of a custom decoration code.
const CustomCodePrefix = "X"

// Custom is a player-awarded decoration without checks. Its name and
// description are late-bound and may be changed by data-change records.
type Custom struct {
	index    int
	prestige int

	mu          sync.RWMutex
	name        string
	description string
}

// NewCustom builds the custom decoration with index.
func NewCustom(index, prestige int) *Custom {
	return &Custom{index: index, prestige: prestige, name: "no name"}
}

// CustomCode returns the decoration code of custom index.
func CustomCode(index int) string {
	return CustomCodePrefix + strconv.Itoa(index)
}

func (c *Custom) Code() string      { return CustomCode(c.index) }
func (c *Custom) Prestige() int     { return c.prestige }
func (c *Custom) MustBeFirst() bool { return false }

// Index returns the custom ribbon index.
func (c *Custom) Index() int { return c.index }

func (c *Custom) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *Custom) Description() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.description == "" {
		return "no description"
	}
	return c.description
}

// SetName renames the decoration.
func (c *Custom) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

// SetDescription replaces the description.
func (c *Custom) SetDescription(description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.description = description
}

// External is a decoration registered through the API. It has no checks and
// is only ever awarded directly.
type External struct {
	Base
}

// NewExternal builds an external decoration.
func NewExternal(code, name, description string, prestige int, first bool) *External {
	return &External{Base: NewBase(code, name, prestige, first).WithDescription(description)}
}
