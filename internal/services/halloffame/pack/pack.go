// Package pack reads ribbon packs: folders carrying a descriptor that adds
// custom ribbons with their own textures to the catalog.
package pack

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/finalfrontier/internal/platform/errors"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
	"go.uber.org/zap"
)

// FileName is the descriptor file of a ribbon pack.
const FileName = "FinalFrontierCustomRibbons.cfg"

// SyntaxError reports a descriptor line that could not be understood.
type SyntaxError struct {
	File   string
	Line   int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Reason)
}

// Unwrap exposes the PACK_SYNTAX domain error.
func (e *SyntaxError) Unwrap() error {
	return apperrors.WithMetadata(apperrors.CodePackSyntax, e.Reason, map[string]string{
		"file": e.File,
		"line": strconv.Itoa(e.Line),
	})
}

// Ribbon is one custom ribbon row of a pack.
type Ribbon struct {
	ID          int
	Prestige    int
	Asset       string
	Name        string
	Description string
}

// Pack is a parsed ribbon pack.
type Pack struct {
	Name    string
	Folder  string
	Base    int
	Ribbons []Ribbon
}

// Parse reads a descriptor. folder is the pack folder that assets are
// relative to. Lines that cannot be parsed are skipped and reported as
// joined *SyntaxError values next to a usable pack; read failures return a
// nil pack.
//
// Each line is one of
//
//	# comment
//	NAME:<pack name>
//	FOLDER:<asset sub folder>
//	BASE:<id offset>
//	<local id>:<file>:<name>:<description>[:<prestige>]
//
// The prestige of a ribbon defaults to its id.
func Parse(file string, r io.Reader, folder string) (*Pack, error) {
	p := &Pack{Name: "unnamed", Folder: folder}
	assets := folder
	var errs []error
	fail := func(line int, format string, args ...any) {
		errs = append(errs, &SyntaxError{File: file, Line: line, Reason: fmt.Sprintf(format, args...)})
	}

	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ":")
		switch {
		case len(fields) == 2 && fields[0] == "NAME":
			p.Name = fields[1]
		case len(fields) == 2 && fields[0] == "FOLDER":
			assets = path.Join(folder, fields[1])
		case len(fields) == 2 && fields[0] == "BASE":
			base, err := strconv.Atoi(strings.TrimSpace(fields[1]))
			if err != nil {
				fail(n, "invalid base id %q", fields[1])
				continue
			}
			p.Base = base
		case len(fields) == 4 || len(fields) == 5:
			local, err := strconv.Atoi(strings.TrimSpace(fields[0]))
			if err != nil {
				fail(n, "invalid ribbon id %q", fields[0])
				continue
			}
			rb := Ribbon{
				ID:          p.Base + local,
				Asset:       path.Join(assets, fields[1]),
				Name:        fields[2],
				Description: fields[3],
			}
			rb.Prestige = rb.ID
			if len(fields) == 5 {
				prestige, err := strconv.Atoi(strings.TrimSpace(fields[4]))
				if err != nil {
					fail(n, "invalid prestige %q", fields[4])
				} else {
					rb.Prestige = prestige
				}
			}
			p.Ribbons = append(p.Ribbons, rb)
		default:
			fail(n, "unrecognized line %q", line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return p, errors.Join(errs...)
}

// Scan walks fsys from root and parses every pack descriptor below it.
// Unreadable packs and syntax problems are logged and skipped.
func Scan(fsys fs.FS, root string, logger *zap.Logger) ([]*Pack, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var packs []*Pack
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Error("failed to scan for ribbon packs", zap.String("path", p), zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || d.Name() != FileName {
			return nil
		}
		pk, err := parseFile(fsys, p)
		var syntax *SyntaxError
		switch {
		case pk == nil:
			logger.Error("failed to read ribbon pack", zap.String("file", p), zap.Error(err))
			return nil
		case errors.As(err, &syntax):
			logger.Warn("invalid lines in ribbon pack", zap.String("pack", pk.Name), zap.Error(err))
		}
		logger.Info("ribbon pack found", zap.String("pack", pk.Name), zap.String("folder", pk.Folder), zap.Int("ribbons", len(pk.Ribbons)))
		packs = append(packs, pk)
		return nil
	})
	if err != nil {
		return packs, fmt.Errorf("scan ribbon packs: %w", err)
	}
	return packs, nil
}

func parseFile(fsys fs.FS, name string) (*Pack, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(name, f, path.Dir(name))
}

// Register adds the ribbons of packs to catalog as custom ribbons. Ribbons
// whose id is taken are logged and skipped, ribbons whose asset does not
// exist are left out. A nil assetExists accepts every asset. It returns the
// number added.
func Register(catalog *decoration.Catalog, packs []*Pack, assetExists func(string) bool, logger *zap.Logger) int {
	if logger == nil {
		logger = zap.NewNop()
	}
	added := 0
	for _, p := range packs {
		for _, rb := range p.Ribbons {
			c := decoration.NewCustom(rb.ID, rb.Prestige)
			c.SetName(rb.Name)
			c.SetDescription(rb.Description)
			ribbon := decoration.NewRibbon(rb.Asset, c, nil)
			if assetExists != nil && !assetExists(rb.Asset) {
				logger.Warn("custom ribbon asset missing", zap.String("pack", p.Name), zap.String("asset", rb.Asset))
				continue
			}
			if err := catalog.RegisterCustom(rb.ID, ribbon); err != nil {
				logger.Warn("failed to add custom ribbon",
					zap.String("pack", p.Name),
					zap.String("ribbon", rb.Name),
					zap.Int("id", rb.ID),
					zap.Error(err))
				continue
			}
			added++
		}
	}
	return added
}
