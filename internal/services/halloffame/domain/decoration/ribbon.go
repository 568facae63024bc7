package decoration

// Ribbon wraps exactly one decoration with its asset and an optional
// supersede link. Two ribbons are equal when their decoration codes are.
type Ribbon struct {
	decoration Decoration
	asset      string
	supersede  *Ribbon
	disabled   bool
}

// NewRibbon builds a ribbon. supersede must already exist, which keeps the
// supersede relation acyclic.
func NewRibbon(asset string, d Decoration, supersede *Ribbon) *Ribbon {
	return &Ribbon{decoration: d, asset: asset, supersede: supersede}
}

// Decoration returns the wrapped decoration.
func (r *Ribbon) Decoration() Decoration { return r.decoration }

// Code returns the decoration code.
func (r *Ribbon) Code() string { return r.decoration.Code() }

// Name returns the display name.
func (r *Ribbon) Name() string { return r.decoration.Name() + " Ribbon" }

// Asset returns the ribbon's texture path.
func (r *Ribbon) Asset() string { return r.asset }

// Supersedes returns the ribbon this one retires, or nil.
func (r *Ribbon) Supersedes() *Ribbon { return r.supersede }

// Enabled reports whether the ribbon's asset was found.
func (r *Ribbon) Enabled() bool { return !r.disabled }

// Disable marks the ribbon as missing its asset.
func (r *Ribbon) Disable() { r.disabled = true }

// Equal compares ribbons by decoration code.
func (r *Ribbon) Equal(o *Ribbon) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.Code() == o.Code()
}

// Chain returns the ribbons r supersedes, nearest first.
func (r *Ribbon) Chain() []*Ribbon {
	var chain []*Ribbon
	for s := r.supersede; s != nil; s = s.supersede {
		chain = append(chain, s)
	}
	return chain
}

// CompareRibbons orders ribbons like their decorations.
func CompareRibbons(a, b *Ribbon) int {
	return Compare(a.decoration, b.decoration)
}

func (r *Ribbon) String() string {
	return r.Code()
}
