package explorer

import (
	"sort"

	"github.com/pkg/errors"

	"ipxplorer/internal/reference"
)

// DetailStyle selects how field descriptions are presented.
type DetailStyle int

const (
	// DetailList renders a card for every field and emphasizes the hovered one.
	DetailList DetailStyle = iota
	// DetailPanel renders a single panel, only while a field is hovered.
	DetailPanel
)

func (d DetailStyle) String() string {
	if d == DetailPanel {
		return "panel"
	}
	return "list"
}

// ErrUnknownVariant is returned for a variant name the registry does not hold.
var ErrUnknownVariant = errors.New("unknown variant")

// Variant configures one page of the explorer.
type Variant struct {
	Name        string
	Title       string
	Dataset     *reference.Dataset
	Sections    []Section
	DarkTheme   bool
	DetailStyle DetailStyle
}

// Has reports whether the variant offers section s.
func (v *Variant) Has(s Section) bool {
	for _, vs := range v.Sections {
		if vs == s {
			return true
		}
	}
	return false
}

// DefaultSection is the section shown on load.
func (v *Variant) DefaultSection() Section {
	if len(v.Sections) == 0 {
		return SectionHeader
	}
	return v.Sections[0]
}

// SectionNames returns the wire names of the variant's sections.
func (v *Variant) SectionNames() []string {
	names := make([]string, len(v.Sections))
	for i, s := range v.Sections {
		names[i] = s.String()
	}
	return names
}

type variantDef struct {
	name        string
	title       string
	dataset     string
	sections    []Section
	dark        bool
	detailStyle DetailStyle
}

var builtinVariants = []variantDef{
	{
		name:        "ipv4",
		title:       "IPv4 Packet Header Explained",
		dataset:     "ipv4",
		sections:    []Section{SectionStory, SectionHeader, SectionOSI, SectionIntegration},
		dark:        false,
		detailStyle: DetailList,
	},
	{
		name:        "ipv6",
		title:       "IPv6 Packet Header Explained",
		dataset:     "ipv6",
		sections:    []Section{SectionHeader, SectionOSI, SectionIntegration},
		dark:        true,
		detailStyle: DetailList,
	},
	{
		name:        "ipv4-simple",
		title:       "IPv4 Header at a Glance",
		dataset:     "ipv4",
		sections:    []Section{SectionHeader, SectionOSI},
		dark:        true,
		detailStyle: DetailPanel,
	},
}

// Registry holds the configured variants.
type Registry struct {
	variants map[string]*Variant
}

// NewRegistry builds the built-in variants from the catalog. themes overrides
// the default dark-theme flag per variant name.
func NewRegistry(catalog *reference.Catalog, themes map[string]bool) (*Registry, error) {
	r := &Registry{variants: make(map[string]*Variant, len(builtinVariants))}
	for _, def := range builtinVariants {
		ds, err := catalog.Dataset(def.dataset)
		if err != nil {
			return nil, errors.Wrapf(err, "variant %s", def.name)
		}
		dark := def.dark
		if override, ok := themes[def.name]; ok {
			dark = override
		}
		r.variants[def.name] = &Variant{
			Name:        def.name,
			Title:       def.title,
			Dataset:     ds,
			Sections:    def.sections,
			DarkTheme:   dark,
			DetailStyle: def.detailStyle,
		}
	}
	for name := range themes {
		if _, ok := r.variants[name]; !ok {
			return nil, errors.Wrapf(ErrUnknownVariant, "theme override for %s", name)
		}
	}
	return r, nil
}

// Get returns the named variant.
func (r *Registry) Get(name string) (*Variant, error) {
	v, ok := r.variants[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownVariant, name)
	}
	return v, nil
}

// All returns every variant ordered by name.
func (r *Registry) All() []*Variant {
	out := make([]*Variant, 0, len(r.variants))
	for _, v := range r.variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
