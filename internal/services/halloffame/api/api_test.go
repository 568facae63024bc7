package api

import (
	"testing"

	apperrors "github.com/louisbranch/finalfrontier/internal/platform/errors"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/action"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/ledger"
)

func newAPI(t *testing.T) (*API, *ledger.Registry) {
	t.Helper()
	registry := ledger.NewRegistry(decoration.NewCatalog(nil))
	return New(registry, nil), registry
}

func TestCountersOfUnknownSubject(t *testing.T) {
	a, _ := newAPI(t)
	if a.MissionsFlown("nobody") != 0 || a.Dockings("nobody") != 0 || a.ContractsCompleted("nobody") != 0 {
		t.Fatal("unknown subject has counters")
	}
	if a.Research("nobody") != 0 || a.TotalMissionTime("nobody") != 0 {
		t.Fatal("unknown subject has research or mission time")
	}
}

func TestCountersOfKnownSubject(t *testing.T) {
	a, registry := newAPI(t)
	registry.Record("Jeb", action.Docking, "")
	registry.Record("Jeb", action.Science, "3.5")
	if got := a.Dockings("Jeb"); got != 1 {
		t.Fatalf("dockings = %d, want 1", got)
	}
	if got := a.Research("Jeb"); got != 3.5 {
		t.Fatalf("research = %v, want 3.5", got)
	}
}

func TestRegisterAndAwardExternalRibbon(t *testing.T) {
	a, registry := newAPI(t)
	r, err := a.RegisterRibbon("MY", "Mod/Ribbons/my.png", "My Mod", "for using my mod", true, 500)
	if err != nil {
		t.Fatalf("RegisterRibbon: %v", err)
	}
	if _, err := a.RegisterRibbon("MY", "x.png", "Again", "", false, 1); !apperrors.HasCode(err, apperrors.CodeDuplicateCode) {
		t.Fatalf("duplicate register err = %v", err)
	}

	if n := a.AwardRibbonToAll(r, []string{"Jeb", "Bill"}); n != 2 {
		t.Fatalf("awarded %d in one transaction, want 2", n)
	}
	if !registry.Accomplished("MY") {
		t.Fatal("first ribbon not accomplished after the transaction")
	}
	if a.AwardRibbon(r, "Val") {
		t.Fatal("first ribbon awarded after the transaction")
	}
	if !a.IsRibbonCodeAwarded("MY", "Bill") || a.IsRibbonCodeAwarded("MY", "Val") {
		t.Fatal("IsRibbonCodeAwarded mismatch")
	}
	if a.IsRibbonCodeAwarded("NOPE", "Bill") {
		t.Fatal("unknown code reported as awarded")
	}

	ok, err := a.RevokeRibbonCode("MY", "Bill")
	if err != nil || !ok {
		t.Fatalf("RevokeRibbonCode = %v, %v", ok, err)
	}
	if a.IsRibbonAwarded(r, "Bill") {
		t.Fatal("ribbon still held after revocation")
	}
}

func TestRegisterCustomRibbonID(t *testing.T) {
	a, _ := newAPI(t)
	if _, err := a.RegisterCustomRibbon(1000, "a.png", "Low", "", 1); !apperrors.HasCode(err, apperrors.CodeInvalidID) {
		t.Fatalf("id 1000 err = %v, want INVALID_ID", err)
	}
	r, err := a.RegisterCustomRibbon(1001, "a.png", "Mine", "desc", 7)
	if err != nil {
		t.Fatalf("RegisterCustomRibbon: %v", err)
	}
	if r.Code() != "X1001" || r.Name() != "Mine Ribbon" {
		t.Fatalf("ribbon = %s %s", r.Code(), r.Name())
	}
	ok, err := a.AwardRibbonCode("X1001", "Jeb")
	if err != nil || !ok {
		t.Fatalf("AwardRibbonCode = %v, %v", ok, err)
	}
}

func TestUnknownCodes(t *testing.T) {
	a, _ := newAPI(t)
	if _, err := a.AwardRibbonCode("NOPE", "Jeb"); !apperrors.HasCode(err, apperrors.CodeUnknownCode) {
		t.Fatalf("award err = %v", err)
	}
	if _, err := a.AwardRibbonCodeToAll("NOPE", []string{"Jeb"}); !apperrors.HasCode(err, apperrors.CodeUnknownCode) {
		t.Fatalf("award all err = %v", err)
	}
	if _, err := a.RevokeRibbonCode("NOPE", "Jeb"); !apperrors.HasCode(err, apperrors.CodeUnknownCode) {
		t.Fatalf("revoke err = %v", err)
	}
	if a.Version() == "" {
		t.Fatal("empty version")
	}
}

func TestDelimiterInSubjectName(t *testing.T) {
	a, _ := newAPI(t)
	if _, err := a.RegisterRibbon("MY", "Mod/Ribbons/my.png", "My Mod", "", false, 500); err != nil {
		t.Fatalf("RegisterRibbon: %v", err)
	}
	if ok, err := a.AwardRibbonCode("MY", "Jeb~Kerman"); err != nil || !ok {
		t.Fatalf("AwardRibbonCode = %v, %v", ok, err)
	}
	if !a.IsRibbonCodeAwarded("MY", "Jeb~Kerman") {
		t.Fatal("award not found under the raw name")
	}
	if ok, err := a.RevokeRibbonCode("MY", "Jeb~Kerman"); err != nil || !ok {
		t.Fatalf("RevokeRibbonCode = %v, %v", ok, err)
	}
	if a.IsRibbonCodeAwarded("MY", "Jeb_Kerman") {
		t.Fatal("ribbon still held after revocation")
	}
}
