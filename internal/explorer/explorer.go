// Package explorer holds the interactive state of one reference page and
// derives the rendered view from it.
//
// An Explorer is owned by a single view. It is not safe for concurrent use;
// every transition is applied synchronously by the event handler that owns it.
package explorer

// State is a snapshot of the mutable UI state.
type State struct {
	Section      Section `json:"section"`
	HoveredField string  `json:"hoveredField,omitempty"`
	HoveredLayer int     `json:"hoveredLayer,omitempty"`
	DarkTheme    bool    `json:"darkTheme"`
}

// Explorer is the state of one reference page.
type Explorer struct {
	variant *Variant

	section      Section
	hoveredField string
	hoveredLayer int
	dark         bool
}

// New returns an explorer in the variant's initial state.
func New(v *Variant) *Explorer {
	return &Explorer{
		variant: v,
		section: v.DefaultSection(),
		dark:    v.DarkTheme,
	}
}

// Variant returns the configuration the explorer was built from.
func (e *Explorer) Variant() *Variant { return e.variant }

// State returns the current state.
func (e *Explorer) State() State {
	return State{
		Section:      e.section,
		HoveredField: e.hoveredField,
		HoveredLayer: e.hoveredLayer,
		DarkTheme:    e.dark,
	}
}

// SelectSection switches the visible section. Sections the variant does not
// offer are ignored and false is returned. Hover state belongs to the
// previously visible dataset and is cleared on a switch.
func (e *Explorer) SelectSection(s Section) bool {
	if !s.Valid() || !e.variant.Has(s) {
		return false
	}
	if s != e.section {
		e.hoveredField = ""
		e.hoveredLayer = 0
	}
	e.section = s
	return true
}

// SetHoveredField highlights the named field. A name that is not visible in
// the active section clears the highlight instead. It reports whether a field
// is highlighted afterwards.
func (e *Explorer) SetHoveredField(name string) bool {
	e.hoveredField = ""
	if name == "" || !e.section.ShowsFields() {
		return false
	}
	if _, ok := e.variant.Dataset.Field(name); !ok {
		return false
	}
	e.hoveredField = name
	return true
}

// ClearHoveredField removes the field highlight.
func (e *Explorer) ClearHoveredField() { e.hoveredField = "" }

// SetHoveredLayer emphasizes OSI layer n. Numbers outside 1..7, or a section
// without layers, clear the emphasis instead.
func (e *Explorer) SetHoveredLayer(n int) bool {
	e.hoveredLayer = 0
	if n < 1 || n > 7 || !e.section.ShowsLayers() {
		return false
	}
	if _, ok := e.variant.Dataset.Layer(n); !ok {
		return false
	}
	e.hoveredLayer = n
	return true
}

// ClearHoveredLayer removes the layer emphasis.
func (e *Explorer) ClearHoveredLayer() { e.hoveredLayer = 0 }

// ToggleTheme flips between light and dark.
func (e *Explorer) ToggleTheme() { e.dark = !e.dark }
