package pack

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	apperrors "github.com/louisbranch/finalfrontier/internal/platform/errors"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
)

const descriptor = `# sample pack
NAME:Kerbal Heroes
BASE:5000
FOLDER:Ribbons
1:hero.png:Hero:Awarded for heroism
2:brave.png:Bravery:Awarded for courage:42
`

func TestParse(t *testing.T) {
	p, err := Parse("heroes/"+FileName, strings.NewReader(descriptor), "heroes")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Name != "Kerbal Heroes" || p.Base != 5000 {
		t.Fatalf("pack = %q base %d", p.Name, p.Base)
	}
	want := []Ribbon{
		{ID: 5001, Prestige: 5001, Asset: "heroes/Ribbons/hero.png", Name: "Hero", Description: "Awarded for heroism"},
		{ID: 5002, Prestige: 42, Asset: "heroes/Ribbons/brave.png", Name: "Bravery", Description: "Awarded for courage"},
	}
	if len(p.Ribbons) != len(want) {
		t.Fatalf("ribbons = %+v", p.Ribbons)
	}
	for i := range want {
		if p.Ribbons[i] != want[i] {
			t.Fatalf("ribbon %d = %+v, want %+v", i, p.Ribbons[i], want[i])
		}
	}
}

func TestParseDefaults(t *testing.T) {
	p, err := Parse(FileName, strings.NewReader("7:a.png:A:desc\n"), "pack")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Name != "unnamed" {
		t.Fatalf("name = %q, want unnamed", p.Name)
	}
	if got := p.Ribbons[0]; got.ID != 7 || got.Asset != "pack/a.png" {
		t.Fatalf("ribbon = %+v", got)
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		ribbons int
	}{
		{name: "bad base", input: "BASE:many\n1:a.png:A:d\n", line: 1, ribbons: 1},
		{name: "bad id", input: "\nx:a.png:A:d\n", line: 2, ribbons: 0},
		{name: "bad prestige", input: "1:a.png:A:d:high\n", line: 1, ribbons: 1},
		{name: "short row", input: "1:a.png:A:d\n1:a.png\n", line: 2, ribbons: 1},
		{name: "too many fields", input: "1:a:b:c:4:5\n", line: 1, ribbons: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse("f.cfg", strings.NewReader(tt.input), "")
			if p == nil {
				t.Fatal("expected a usable pack")
			}
			var syntax *SyntaxError
			if !errors.As(err, &syntax) {
				t.Fatalf("err = %v, want *SyntaxError", err)
			}
			if syntax.Line != tt.line || syntax.File != "f.cfg" {
				t.Fatalf("syntax error at %s:%d, want line %d", syntax.File, syntax.Line, tt.line)
			}
			if !apperrors.HasCode(err, apperrors.CodePackSyntax) {
				t.Fatalf("missing PACK_SYNTAX code: %v", err)
			}
			if len(p.Ribbons) != tt.ribbons {
				t.Fatalf("ribbons = %d, want %d", len(p.Ribbons), tt.ribbons)
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestParseReadError(t *testing.T) {
	p, err := Parse("f.cfg", failingReader{}, "")
	if p != nil || err == nil {
		t.Fatalf("Parse = %v, %v; want read error", p, err)
	}
	var syntax *SyntaxError
	if errors.As(err, &syntax) {
		t.Fatal("read failure reported as syntax error")
	}
}

func TestScanAndRegister(t *testing.T) {
	fsys := fstest.MapFS{
		"GameData/heroes/" + FileName:       {Data: []byte(descriptor)},
		"GameData/other/deep/" + FileName:   {Data: []byte("NAME:Deep\n1:d.png:Deep:deep one\nbroken\n")},
		"GameData/other/readme.txt":         {Data: []byte("not a pack")},
		"GameData/clash/" + FileName:        {Data: []byte("BASE:5000\n1:x.png:Clash:same id\n")},
		"GameData/heroes/Ribbons/hero.png":  {Data: []byte{}},
		"GameData/heroes/Ribbons/brave.png": {Data: []byte{}},
	}
	packs, err := Scan(fsys, "GameData", nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(packs) != 3 {
		t.Fatalf("packs = %d, want 3", len(packs))
	}

	catalog := decoration.NewCatalog(nil)
	added := Register(catalog, packs, nil, nil)
	if added != 3 {
		t.Fatalf("added = %d, want 3 (one id clashes)", added)
	}
	r, ok := catalog.Custom(5002)
	if !ok {
		t.Fatal("custom ribbon 5002 missing")
	}
	if r.Name() != "Bravery Ribbon" || r.Decoration().Prestige() != 42 {
		t.Fatalf("ribbon = %s prestige %d", r.Name(), r.Decoration().Prestige())
	}
	if _, ok := catalog.Lookup("X1"); !ok {
		t.Fatal("deep pack ribbon missing")
	}
}

func TestRegisterSkipsMissingAssets(t *testing.T) {
	p := &Pack{Name: "p", Ribbons: []Ribbon{{ID: 2001, Prestige: 1, Asset: "gone.png", Name: "Gone"}}}
	catalog := decoration.NewCatalog(nil)
	if added := Register(catalog, []*Pack{p}, func(string) bool { return false }, nil); added != 0 {
		t.Fatalf("added = %d, want 0", added)
	}
}

func TestWatcherReportsDescriptorChanges(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "heroes")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	w, err := NewWatcher(root, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	changes := make(chan string, 4)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, changes) }()

	file := filepath.Join(dir, FileName)
	if err := os.WriteFile(file, []byte(descriptor), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case got := <-changes:
		if got != file {
			t.Fatalf("change = %q, want %q", got, file)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}
