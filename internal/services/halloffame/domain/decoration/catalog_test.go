package decoration

import (
	"testing"

	apperrors "github.com/louisbranch/finalfrontier/internal/platform/errors"
)

type stubDecoration struct {
	Base
}

func newStub(code string, prestige int, first bool) *stubDecoration {
	return &stubDecoration{Base: NewBase(code, code, prestige, first)}
}

func codes(ribbons []*Ribbon) []string {
	out := make([]string, 0, len(ribbons))
	for _, r := range ribbons {
		out = append(out, r.Code())
	}
	return out
}

func TestCatalogOrdersByPrestigeThenFirst(t *testing.T) {
	c := NewCatalog(nil)
	for _, d := range []*stubDecoration{
		newStub("A", 10, false),
		newStub("B", 30, false),
		newStub("C", 20, false),
		newStub("C1", 20, true),
		newStub("D", -5, false),
	} {
		if err := c.Register(NewRibbon(d.Code(), d, nil)); err != nil {
			t.Fatalf("register %s: %v", d.Code(), err)
		}
	}

	got := codes(c.All())
	want := []string{"B", "C1", "C", "A", "D"}
	if len(got) != len(want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("All() = %v, want %v", got, want)
		}
	}
}

func TestCatalogRejectsDuplicateCode(t *testing.T) {
	c := NewCatalog(nil)
	if err := c.Register(NewRibbon("a", newStub("M:5", 56, false), nil)); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := c.Register(NewRibbon("b", newStub("M:5", 57, false), nil))
	if !apperrors.HasCode(err, apperrors.CodeDuplicateCode) {
		t.Fatalf("expected duplicate code error, got %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
}

func TestCatalogRejectsUnregisteredSupersedeTarget(t *testing.T) {
	c := NewCatalog(nil)
	lower := NewRibbon("lower", newStub("M:5", 56, false), nil)
	upper := NewRibbon("upper", newStub("M:20", 57, false), lower)

	err := c.Register(upper)
	if !apperrors.HasCode(err, apperrors.CodeUnknownCode) {
		t.Fatalf("expected unknown code error, got %v", err)
	}
	if err := c.Register(lower); err != nil {
		t.Fatalf("register lower: %v", err)
	}
	if err := c.Register(upper); err != nil {
		t.Fatalf("register upper: %v", err)
	}
}

func TestCatalogRejectsCyclicChain(t *testing.T) {
	c := NewCatalog(nil)
	a := NewRibbon("a", newStub("A", 1, false), nil)
	b := NewRibbon("b", newStub("B", 2, false), a)
	if err := c.Register(a); err != nil {
		t.Fatalf("register a: %v", err)
	}
	if err := c.Register(b); err != nil {
		t.Fatalf("register b: %v", err)
	}
	// Links are normally fixed at construction; force a loop to make sure
	// validation terminates.
	a.supersede = b
	cyclic := NewRibbon("c", newStub("C", 3, false), b)
	err := c.Register(cyclic)
	if !apperrors.HasCode(err, apperrors.CodeCyclicSupersede) {
		t.Fatalf("expected cyclic supersede error, got %v", err)
	}
}

func TestCatalogSkipsDisabledRibbon(t *testing.T) {
	c := NewCatalog(nil)
	r := NewRibbon("missing", newStub("W", 80, false), nil)
	r.Disable()
	if err := c.Register(r); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, ok := c.Lookup("W"); ok {
		t.Fatal("disabled ribbon should not be registered")
	}

	// A disabled ribbon may still sit in a chain as a link.
	upper := NewRibbon("upper", newStub("W2", 81, false), r)
	if err := c.Register(upper); err != nil {
		t.Fatalf("register over disabled link: %v", err)
	}
}

func TestCatalogCustomRibbons(t *testing.T) {
	c := NewCatalog(nil)
	for _, index := range []int{21, 0, 5} {
		r := NewRibbon("custom", NewCustom(index, -1000+index), nil)
		if err := c.RegisterCustom(index, r); err != nil {
			t.Fatalf("register custom %d: %v", index, err)
		}
	}
	if err := c.RegisterCustom(5, NewRibbon("dup", NewCustom(5, 0), nil)); err == nil {
		t.Fatal("expected duplicate custom index error")
	}
	for _, index := range []int{5, 9} {
		if err := c.RegisterCustom(index, nil); !apperrors.HasCode(err, apperrors.CodeInternal) {
			t.Fatalf("RegisterCustom(%d, nil) = %v, want %s", index, err, apperrors.CodeInternal)
		}
	}

	got := codes(c.CustomRibbons())
	want := []string{"X0", "X5", "X21"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("CustomRibbons() = %v, want %v", got, want)
		}
	}
	if r, ok := c.Custom(21); !ok || r.Code() != "X21" {
		t.Fatalf("Custom(21) = %v, %v", r, ok)
	}
}

func TestRibbonChainAndName(t *testing.T) {
	a := NewRibbon("a", newStub("A", 1, false), nil)
	b := NewRibbon("b", newStub("B", 2, false), a)
	c := NewRibbon("c", newStub("C", 3, true), b)

	chain := codes(c.Chain())
	if len(chain) != 2 || chain[0] != "B" || chain[1] != "A" {
		t.Fatalf("Chain() = %v", chain)
	}
	if got := c.Name(); got != "First C Ribbon" {
		t.Fatalf("Name() = %q", got)
	}
	if !c.Equal(NewRibbon("other", newStub("C", 99, false), nil)) {
		t.Fatal("ribbons with equal codes should be equal")
	}
}

func TestCustomLateBoundText(t *testing.T) {
	d := NewCustom(7, -993)
	if d.Name() != "no name" || d.Description() != "no description" {
		t.Fatalf("defaults = %q / %q", d.Name(), d.Description())
	}
	var r Renamer = d
	r.SetName("Certified Badass")
	r.SetDescription("near-impossible")
	if d.Name() != "Certified Badass" || d.Description() != "near-impossible" {
		t.Fatalf("renamed = %q / %q", d.Name(), d.Description())
	}
	if d.Code() != "X7" {
		t.Fatalf("Code() = %q", d.Code())
	}
}
