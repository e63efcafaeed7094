package explorer

import (
	"github.com/pkg/errors"

	"ipxplorer/internal/models"
	"ipxplorer/internal/reference"
)

// Directional labels attached to the focus layer in the integration view.
const (
	AnnotationSending   = "Header Added"
	AnnotationReceiving = "Header Processed"
	FocusBadge          = "IP Header"
)

// MarshalText implements encoding.TextMarshaler.
func (d DetailStyle) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DetailStyle) UnmarshalText(text []byte) error {
	switch string(text) {
	case "list":
		*d = DetailList
	case "panel":
		*d = DetailPanel
	default:
		return errors.Errorf("unknown detail style %q", text)
	}
	return nil
}

// Tab is one entry of the section navigation.
type Tab struct {
	Section Section `json:"section"`
	Label   string  `json:"label"`
	Active  bool    `json:"active"`
}

// FieldView is a header field annotated for display.
type FieldView struct {
	models.HeaderField
	Highlighted bool                       `json:"highlighted"`
	Protocols   []reference.ProtocolNumber `json:"protocols,omitempty"`
}

// HeaderView is the header diagram plus field descriptions.
type HeaderView struct {
	Title  string       `json:"title"`
	Style  DetailStyle  `json:"style"`
	Rows   []DiagramRow `json:"rows"`
	Fields []FieldView  `json:"fields,omitempty"` // list style only
	Detail *FieldView   `json:"detail,omitempty"` // panel style, hovered field only
}

// LayerView is an OSI layer annotated for display.
type LayerView struct {
	models.OSILayer
	Hovered    bool   `json:"hovered"`
	Badge      string `json:"badge,omitempty"`
	Annotation string `json:"annotation,omitempty"`
}

// OSIView lists the layers top to bottom.
type OSIView struct {
	Layers []LayerView `json:"layers"`
}

// IntegrationView shows the header's path down and up the stack.
type IntegrationView struct {
	Header    string              `json:"header"`
	EtherType reference.EtherType `json:"etherType"`
	Sending   []LayerView         `json:"sending"`
	Receiving []LayerView         `json:"receiving"`
}

// StoryView is the narrative section.
type StoryView struct {
	Steps []models.StoryStep `json:"steps"`
}

// View is everything needed to render the page for the current state.
// Exactly one of Header, OSI, Integration and Story is set.
type View struct {
	Variant     string           `json:"variant"`
	Title       string           `json:"title"`
	State       State            `json:"state"`
	Tabs        []Tab            `json:"tabs"`
	Header      *HeaderView      `json:"header,omitempty"`
	OSI         *OSIView         `json:"osi,omitempty"`
	Integration *IntegrationView `json:"integration,omitempty"`
	Story       *StoryView       `json:"story,omitempty"`
}

// HighlightedFields returns the names of highlighted field cards, or of the
// detail panel in panel style.
func (v View) HighlightedFields() []string {
	if v.Header == nil {
		return nil
	}
	var out []string
	for _, f := range v.Header.Fields {
		if f.Highlighted {
			out = append(out, f.Name)
		}
	}
	if v.Header.Detail != nil {
		out = append(out, v.Header.Detail.Name)
	}
	return out
}

// View derives the page from the current state.
func (e *Explorer) View() View {
	v := e.variant
	st := e.State()
	view := View{
		Variant: v.Name,
		Title:   v.Title,
		State:   st,
		Tabs:    make([]Tab, 0, len(v.Sections)),
	}
	for _, s := range v.Sections {
		view.Tabs = append(view.Tabs, Tab{Section: s, Label: s.Label(), Active: s == st.Section})
	}

	switch st.Section {
	case SectionStory:
		view.Story = &StoryView{Steps: v.Dataset.Story}
	case SectionHeader:
		view.Header = deriveHeader(v, st.HoveredField)
	case SectionOSI:
		view.OSI = &OSIView{Layers: descending(v.Dataset.Layers, st.HoveredLayer, "")}
	case SectionIntegration:
		view.Integration = deriveIntegration(v.Dataset, st.HoveredLayer)
	}
	return view
}

func deriveHeader(v *Variant, hovered string) *HeaderView {
	ds := v.Dataset
	hv := &HeaderView{
		Title: ds.Title,
		Style: v.DetailStyle,
		Rows:  Layout(ds.Fields),
	}
	for ri := range hv.Rows {
		for ci := range hv.Rows[ri].Cells {
			c := &hv.Rows[ri].Cells[ci]
			c.Highlighted = c.Field == hovered
		}
	}

	fieldView := func(f models.HeaderField) FieldView {
		fv := FieldView{HeaderField: f, Highlighted: f.Name == hovered}
		if f.Name == ds.ProtocolField {
			fv.Protocols = reference.CommonProtocols()
		}
		return fv
	}

	switch v.DetailStyle {
	case DetailList:
		hv.Fields = make([]FieldView, 0, len(ds.Fields))
		for _, f := range ds.Fields {
			hv.Fields = append(hv.Fields, fieldView(f))
		}
	case DetailPanel:
		if f, ok := ds.Field(hovered); ok && hovered != "" {
			fv := fieldView(f)
			hv.Detail = &fv
		}
	}
	return hv
}

func deriveIntegration(ds *reference.Dataset, hovered int) *IntegrationView {
	iv := &IntegrationView{
		Header:    ds.Title,
		Sending:   descending(ds.Layers, hovered, AnnotationSending),
		Receiving: ascending(ds.Layers, hovered, AnnotationReceiving),
	}
	iv.EtherType, _ = reference.EtherTypeFor(ds.IPVersion)
	return iv
}

// descending orders layers 7 to 1.
func descending(layers []models.OSILayer, hovered int, annotation string) []LayerView {
	out := make([]LayerView, 0, len(layers))
	for n := 7; n >= 1; n-- {
		if lv, ok := layerView(layers, n, hovered, annotation); ok {
			out = append(out, lv)
		}
	}
	return out
}

// ascending orders layers 1 to 7.
func ascending(layers []models.OSILayer, hovered int, annotation string) []LayerView {
	out := make([]LayerView, 0, len(layers))
	for n := 1; n <= 7; n++ {
		if lv, ok := layerView(layers, n, hovered, annotation); ok {
			out = append(out, lv)
		}
	}
	return out
}

func layerView(layers []models.OSILayer, n, hovered int, annotation string) (LayerView, bool) {
	for _, l := range layers {
		if l.Number != n {
			continue
		}
		lv := LayerView{OSILayer: l, Hovered: l.Number == hovered}
		if l.Focus {
			lv.Badge = FocusBadge
			lv.Annotation = annotation
		}
		return lv, true
	}
	return LayerView{}, false
}
