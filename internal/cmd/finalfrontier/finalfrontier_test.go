package finalfrontier

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/finalfrontier/internal/platform/errors"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/storage/logfile"
)

const jebLog = `ENTRY:
  - time: "10"
    code: L+
    name: Jebediah Kerman
  - time: "400"
    code: S1
    name: Jebediah Kerman
  - time: "1000"
    code: R+
    name: Jebediah Kerman
`

const hopScript = `
local s = Scenario.new("hop")
s:crew("Valentina Kerman")
s:vessel("hop", {crew = {"Valentina Kerman"}})
s:launch("hop")
s:situation("hop", {situation = "SUB_ORBITAL", altitude = 75000, apa = 76000, pea = -400000})
s:expect_ribbon("Valentina Kerman", "S1")
return s
`

func execute(t *testing.T, cfg Config, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FINALFRONTIER_OTEL_ENDPOINT", "")
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "error"
	}
	var out, errOut bytes.Buffer
	root := NewRootCommand(cfg, &out, &errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestParseConfigReadsEnv(t *testing.T) {
	t.Setenv("FINALFRONTIER_PACK_DIR", "/tmp/packs")
	t.Setenv("FINALFRONTIER_LOG_AWARDS", "true")

	cfg, err := ParseConfig()
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.DBPath != "finalfrontier.sqlite" {
		t.Fatalf("db path = %q, want default", cfg.DBPath)
	}
	if cfg.PackDir != "/tmp/packs" {
		t.Fatalf("pack dir = %q", cfg.PackDir)
	}
	if !cfg.Logging.Awards || cfg.Logging.Level != "info" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
}

func TestCatalogListsRibbons(t *testing.T) {
	out, err := execute(t, Config{}, "catalog")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if !strings.HasPrefix(out, "CODE") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "S1 ") || !strings.Contains(out, "O1:Kerbin") {
		t.Fatalf("catalog output missing ribbons:\n%s", out)
	}
}

func TestReplayRendersReport(t *testing.T) {
	path := writeFile(t, "log.yaml", jebLog)
	out, err := execute(t, Config{}, "replay", "--log", path)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	for _, want := range []string{"Jebediah Kerman", "missions 1", "S1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRequiredFlags(t *testing.T) {
	tests := [][]string{
		{"replay"},
		{"import"},
		{"simulate"},
		{"watch"},
	}
	for _, args := range tests {
		_, err := execute(t, Config{}, args...)
		if !apperrors.HasCode(err, apperrors.CodeConfigInvalid) {
			t.Fatalf("%v: err = %v, want %s", args, err, apperrors.CodeConfigInvalid)
		}
	}
}

func TestImportThenReport(t *testing.T) {
	cfg := Config{DBPath: filepath.Join(t.TempDir(), "hof.sqlite")}
	path := writeFile(t, "log.yaml", jebLog)

	out, err := execute(t, cfg, "import", "--log", path, "--session", "career")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "imported 3 records into session career") {
		t.Fatalf("import output = %q", out)
	}

	out, err = execute(t, cfg, "report", "--lang", "pt-BR")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, "Jebediah Kerman") || !strings.Contains(out, "S1") {
		t.Fatalf("report output:\n%s", out)
	}

	if _, err := execute(t, cfg, "report", "--session", "missing"); !apperrors.HasCode(err, apperrors.CodeSubjectNotFound) {
		t.Fatalf("report of missing session err = %v", err)
	}
}

func TestReportOnEmptyStore(t *testing.T) {
	cfg := Config{DBPath: filepath.Join(t.TempDir(), "hof.sqlite")}
	if _, err := execute(t, cfg, "report"); !apperrors.HasCode(err, apperrors.CodeSubjectNotFound) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeSubjectNotFound)
	}
}

func TestStoreRequiresPath(t *testing.T) {
	if _, err := execute(t, Config{}, "migrate"); !apperrors.HasCode(err, apperrors.CodeStorageUnconfigured) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeStorageUnconfigured)
	}
}

func TestSimulateSavesLog(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{DBPath: filepath.Join(dir, "hof.sqlite")}
	script := writeFile(t, "hop.lua", hopScript)
	logPath := filepath.Join(dir, "hop.yaml")

	out, err := execute(t, cfg, "simulate", "--script", script, "--save", "--log", logPath)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !strings.Contains(out, `scenario "hop"`) || !strings.Contains(out, "saved session") {
		t.Fatalf("simulate output:\n%s", out)
	}

	book, err := logfile.ReadFile(logPath, nil)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	found := false
	for _, entry := range book {
		found = found || (entry.Code == "S1" && entry.Name == "Valentina Kerman")
	}
	if !found {
		t.Fatalf("S1 award missing from log: %+v", book)
	}

	out, err = execute(t, cfg, "report")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, "Valentina Kerman") {
		t.Fatalf("report output:\n%s", out)
	}
}

func TestSimulateFailsOnUnmetExpectation(t *testing.T) {
	script := writeFile(t, "fail.lua", `
local s = Scenario.new()
s:crew("Val")
s:expect_ribbon("Val", "S1")
return s
`)
	if _, err := execute(t, Config{}, "simulate", "--script", script); err == nil {
		t.Fatal("expected strict assertion failure")
	}
	out, err := execute(t, Config{}, "simulate", "--script", script, "--assert=false")
	if err != nil {
		t.Fatalf("log-only simulate: %v", err)
	}
	if !strings.Contains(out, "1 failed expectations") {
		t.Fatalf("output = %q", out)
	}
}

func TestMigrateListsMigrations(t *testing.T) {
	cfg := Config{DBPath: filepath.Join(t.TempDir(), "hof.sqlite")}
	out, err := execute(t, cfg, "migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if strings.TrimSpace(out) != "001_logbook.sql" {
		t.Fatalf("migrate output = %q", out)
	}
}

func TestWatchStopsWithContext(t *testing.T) {
	t.Setenv("FINALFRONTIER_OTEL_ENDPOINT", "")
	cfg := Config{PackDir: t.TempDir()}
	cfg.Logging.Level = "error"
	var out bytes.Buffer
	root := NewRootCommand(cfg, &out, nil)
	root.SetArgs([]string{"watch"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if !strings.Contains(out.String(), "watching ") {
		t.Fatalf("output = %q", out.String())
	}
}
