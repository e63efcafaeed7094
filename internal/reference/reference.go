// Package reference holds the static datasets the explorer displays. The
// datasets are embedded at build time, validated once by Load and never
// mutated afterwards.
package reference

import (
	"embed"
	"path"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"ipxplorer/internal/models"
)

//go:embed data/*.yaml
var dataFS embed.FS

// FocusLayerNumber is the OSI layer that hosts the IP header.
const FocusLayerNumber = 3

// ErrUnknownDataset is returned when a dataset name is not in the catalog.
var ErrUnknownDataset = errors.New("unknown dataset")

// Dataset is one immutable bundle of reference data.
type Dataset struct {
	Name          string               `yaml:"name"`
	Title         string               `yaml:"title"`
	IPVersion     int                  `yaml:"ipVersion"`
	ProtocolField string               `yaml:"protocolField"`
	Fields        []models.HeaderField `yaml:"fields"`
	Layers        []models.OSILayer    `yaml:"layers"`
	Story         []models.StoryStep   `yaml:"story"`
}

// Field returns the header field with the given name.
func (d *Dataset) Field(name string) (models.HeaderField, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return models.HeaderField{}, false
}

// Layer returns the OSI layer with the given number.
func (d *Dataset) Layer(number int) (models.OSILayer, bool) {
	for _, l := range d.Layers {
		if l.Number == number {
			return l, true
		}
	}
	return models.OSILayer{}, false
}

// FocusLayer returns the layer flagged as hosting the header.
func (d *Dataset) FocusLayer() models.OSILayer {
	for _, l := range d.Layers {
		if l.Focus {
			return l
		}
	}
	return models.OSILayer{}
}

// Validate checks the dataset invariants.
func (d *Dataset) Validate() error {
	if d.Name == "" {
		return errors.New("dataset has no name")
	}
	if d.IPVersion != 4 && d.IPVersion != 6 {
		return errors.Errorf("dataset %s: ip version must be 4 or 6, got %d", d.Name, d.IPVersion)
	}
	if len(d.Fields) == 0 {
		return errors.Errorf("dataset %s: no header fields", d.Name)
	}

	seen := make(map[string]bool, len(d.Fields))
	for i, f := range d.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return errors.Errorf("dataset %s: field %d has no name", d.Name, i)
		}
		if seen[f.Name] {
			return errors.Errorf("dataset %s: duplicate field %q", d.Name, f.Name)
		}
		if f.Bits < 0 {
			return errors.Errorf("dataset %s: field %q has negative width", d.Name, f.Name)
		}
		seen[f.Name] = true
	}
	if d.ProtocolField != "" && !seen[d.ProtocolField] {
		return errors.Errorf("dataset %s: protocol field %q is not a header field", d.Name, d.ProtocolField)
	}

	if len(d.Layers) != 7 {
		return errors.Errorf("dataset %s: expected 7 OSI layers, got %d", d.Name, len(d.Layers))
	}
	numbers := make(map[int]bool, 7)
	focus := 0
	for _, l := range d.Layers {
		if l.Number < 1 || l.Number > 7 {
			return errors.Errorf("dataset %s: layer number %d out of range", d.Name, l.Number)
		}
		if numbers[l.Number] {
			return errors.Errorf("dataset %s: duplicate layer %d", d.Name, l.Number)
		}
		numbers[l.Number] = true
		if l.Focus {
			focus++
		}
	}
	if focus != 1 {
		return errors.Errorf("dataset %s: expected exactly one focus layer, got %d", d.Name, focus)
	}
	if n := d.FocusLayer().Number; n != FocusLayerNumber {
		return errors.Errorf("dataset %s: focus layer must be %d, got %d", d.Name, FocusLayerNumber, n)
	}
	return nil
}

// Catalog indexes the loaded datasets by name.
type Catalog struct {
	datasets map[string]*Dataset
}

// Dataset returns the named dataset.
func (c *Catalog) Dataset(name string) (*Dataset, error) {
	d, ok := c.datasets[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownDataset, name)
	}
	return d, nil
}

// Load parses and validates every embedded dataset.
func Load() (*Catalog, error) {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, errors.Wrap(err, "list embedded datasets")
	}

	c := &Catalog{datasets: make(map[string]*Dataset, len(entries))}
	for _, e := range entries {
		raw, err := dataFS.ReadFile(path.Join("data", e.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "read dataset %s", e.Name())
		}
		d, err := Parse(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "load dataset %s", e.Name())
		}
		if _, dup := c.datasets[d.Name]; dup {
			return nil, errors.Errorf("dataset %s defined twice", d.Name)
		}
		c.datasets[d.Name] = d
	}
	return c, nil
}

// Parse decodes and validates a single YAML dataset.
func Parse(raw []byte) (*Dataset, error) {
	var d Dataset
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
