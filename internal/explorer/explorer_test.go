package explorer

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipxplorer/internal/reference"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	catalog, err := reference.Load()
	require.NoError(t, err)
	reg, err := NewRegistry(catalog, nil)
	require.NoError(t, err)
	return reg
}

func newExplorer(t *testing.T, variant string) *Explorer {
	t.Helper()
	v, err := newRegistry(t).Get(variant)
	require.NoError(t, err)
	return New(v)
}

func TestRegistry(t *testing.T) {
	reg := newRegistry(t)

	var names []string
	for _, v := range reg.All() {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"ipv4", "ipv4-simple", "ipv6"}, names)

	_, err := reg.Get("ipv5")
	assert.Equal(t, ErrUnknownVariant, errors.Cause(err))
}

func TestRegistryThemeOverride(t *testing.T) {
	catalog, err := reference.Load()
	require.NoError(t, err)

	reg, err := NewRegistry(catalog, map[string]bool{"ipv4": true, "ipv6": false})
	require.NoError(t, err)
	v4, _ := reg.Get("ipv4")
	v6, _ := reg.Get("ipv6")
	assert.True(t, v4.DarkTheme)
	assert.False(t, v6.DarkTheme)

	_, err = NewRegistry(catalog, map[string]bool{"ipv9": true})
	assert.Equal(t, ErrUnknownVariant, errors.Cause(err))
}

func TestInitialState(t *testing.T) {
	testcases := []struct {
		variant string
		section Section
		dark    bool
	}{
		{variant: "ipv4", section: SectionStory, dark: false},
		{variant: "ipv6", section: SectionHeader, dark: true},
		{variant: "ipv4-simple", section: SectionHeader, dark: true},
	}
	for _, tc := range testcases {
		t.Run(tc.variant, func(t *testing.T) {
			st := newExplorer(t, tc.variant).State()
			assert.Equal(t, tc.section, st.Section)
			assert.Equal(t, tc.dark, st.DarkTheme)
			assert.Empty(t, st.HoveredField)
			assert.Zero(t, st.HoveredLayer)
		})
	}
}

func TestSelectSectionShowsExactlyOneDataset(t *testing.T) {
	e := newExplorer(t, "ipv4")
	for _, s := range AllSections {
		t.Run(s.String(), func(t *testing.T) {
			require.True(t, e.SelectSection(s))
			assert.Equal(t, s, e.State().Section)

			v := e.View()
			assert.Equal(t, s == SectionStory, v.Story != nil)
			assert.Equal(t, s == SectionHeader, v.Header != nil)
			assert.Equal(t, s == SectionOSI, v.OSI != nil)
			assert.Equal(t, s == SectionIntegration, v.Integration != nil)

			active := 0
			for _, tab := range v.Tabs {
				if tab.Active {
					active++
					assert.Equal(t, s, tab.Section)
				}
			}
			assert.Equal(t, 1, active)
		})
	}
}

func TestSelectSectionOutsideVariant(t *testing.T) {
	e := newExplorer(t, "ipv4-simple")
	assert.False(t, e.SelectSection(SectionStory))
	assert.False(t, e.SelectSection(SectionIntegration))
	assert.False(t, e.SelectSection(Section(42)))
	assert.Equal(t, SectionHeader, e.State().Section)
}

func TestHoverFieldHighlightsExactlyOne(t *testing.T) {
	e := newExplorer(t, "ipv4")
	require.True(t, e.SelectSection(SectionHeader))

	for _, f := range e.Variant().Dataset.Fields {
		t.Run(f.Name, func(t *testing.T) {
			require.True(t, e.SetHoveredField(f.Name))
			v := e.View()
			assert.Equal(t, []string{f.Name}, v.HighlightedFields())

			for _, row := range v.Header.Rows {
				for _, c := range row.Cells {
					assert.Equal(t, c.Field == f.Name, c.Highlighted, c.Field)
				}
			}
		})
	}

	e.ClearHoveredField()
	assert.Empty(t, e.View().HighlightedFields())
}

func TestHoverFieldNoneAfterAnyCall(t *testing.T) {
	e := newExplorer(t, "ipv6")
	require.True(t, e.SetHoveredField("Flow Label"))
	assert.False(t, e.SetHoveredField(""))
	assert.Empty(t, e.View().HighlightedFields())
}

func TestHoverUnknownFieldDegrades(t *testing.T) {
	e := newExplorer(t, "ipv4-simple")
	require.True(t, e.SetHoveredField("Version"))

	assert.False(t, e.SetHoveredField("Hop Limit"))
	v := e.View()
	assert.Empty(t, v.HighlightedFields())
	assert.Nil(t, v.Header.Detail)
}

func TestTimeToLiveDetail(t *testing.T) {
	for _, variant := range []string{"ipv4", "ipv4-simple"} {
		t.Run(variant, func(t *testing.T) {
			e := newExplorer(t, variant)
			require.True(t, e.SelectSection(SectionHeader))
			require.True(t, e.SetHoveredField("Time to Live"))

			var ttl *FieldView
			v := e.View()
			if v.Header.Style == DetailPanel {
				ttl = v.Header.Detail
			} else {
				for i := range v.Header.Fields {
					if v.Header.Fields[i].Highlighted {
						ttl = &v.Header.Fields[i]
					}
				}
			}
			require.NotNil(t, ttl)
			assert.Equal(t, "Prevents infinite routing loops by limiting packet lifetime. Decremented at each hop.", ttl.Description)
			assert.Equal(t, "64 hops (common default)", ttl.Example)
		})
	}
}

func TestDetailStyles(t *testing.T) {
	list := newExplorer(t, "ipv6")
	v := list.View()
	assert.Len(t, v.Header.Fields, len(list.Variant().Dataset.Fields))
	assert.Nil(t, v.Header.Detail)

	panel := newExplorer(t, "ipv4-simple")
	v = panel.View()
	assert.Empty(t, v.Header.Fields)
	assert.Nil(t, v.Header.Detail)

	require.True(t, panel.SetHoveredField("Protocol"))
	v = panel.View()
	require.NotNil(t, v.Header.Detail)
	assert.Equal(t, "Protocol", v.Header.Detail.Name)
	assert.NotEmpty(t, v.Header.Detail.Protocols)
}

func TestProtocolTableOnlyOnProtocolField(t *testing.T) {
	v := newExplorer(t, "ipv6").View()
	for _, f := range v.Header.Fields {
		assert.Equal(t, f.Name == "Next Header", len(f.Protocols) > 0, f.Name)
	}
}

func TestOSIView(t *testing.T) {
	e := newExplorer(t, "ipv4")
	require.True(t, e.SelectSection(SectionOSI))

	v := e.View()
	require.Len(t, v.OSI.Layers, 7)
	for i, l := range v.OSI.Layers {
		assert.Equal(t, 7-i, l.Number)
		if l.Number == 3 {
			assert.True(t, l.Focus)
			assert.Equal(t, FocusBadge, l.Badge)
		} else {
			assert.False(t, l.Focus)
			assert.Empty(t, l.Badge)
		}
	}

	require.True(t, e.SetHoveredLayer(5))
	for _, l := range e.View().OSI.Layers {
		assert.Equal(t, l.Number == 5, l.Hovered)
		assert.Equal(t, l.Number == 3, l.Badge != "")
	}

	assert.False(t, e.SetHoveredLayer(0))
	assert.False(t, e.SetHoveredLayer(8))
	assert.Zero(t, e.State().HoveredLayer)
}

func TestIntegrationOrderings(t *testing.T) {
	for _, variant := range []string{"ipv4", "ipv6"} {
		t.Run(variant, func(t *testing.T) {
			e := newExplorer(t, variant)
			require.True(t, e.SelectSection(SectionIntegration))
			iv := e.View().Integration
			require.Len(t, iv.Sending, 7)
			require.Len(t, iv.Receiving, 7)

			var sendFocus, recvFocus []int
			for i := range iv.Sending {
				assert.Equal(t, 7-i, iv.Sending[i].Number)
				assert.Equal(t, i+1, iv.Receiving[i].Number)
				if iv.Sending[i].Focus {
					sendFocus = append(sendFocus, iv.Sending[i].Number)
					assert.Equal(t, AnnotationSending, iv.Sending[i].Annotation)
				} else {
					assert.Empty(t, iv.Sending[i].Annotation)
				}
				if iv.Receiving[i].Focus {
					recvFocus = append(recvFocus, iv.Receiving[i].Number)
					assert.Equal(t, AnnotationReceiving, iv.Receiving[i].Annotation)
				}
			}
			assert.Equal(t, []int{3}, sendFocus)
			assert.Equal(t, sendFocus, recvFocus)
		})
	}

	e := newExplorer(t, "ipv6")
	require.True(t, e.SelectSection(SectionIntegration))
	assert.Equal(t, uint16(0x86dd), e.View().Integration.EtherType.Value)
}

func TestSectionSwitchClearsHover(t *testing.T) {
	e := newExplorer(t, "ipv4")
	require.True(t, e.SelectSection(SectionHeader))
	require.True(t, e.SetHoveredField("Protocol"))

	require.True(t, e.SelectSection(SectionIntegration))
	v := e.View()
	assert.Empty(t, v.State.HoveredField)
	assert.Empty(t, v.HighlightedFields())
	for _, l := range v.Integration.Sending {
		assert.False(t, l.Hovered)
	}

	require.True(t, e.SetHoveredLayer(4))
	require.True(t, e.SelectSection(SectionIntegration))
	assert.Equal(t, 4, e.State().HoveredLayer, "reselecting the active section keeps hover")

	require.True(t, e.SelectSection(SectionHeader))
	assert.Zero(t, e.State().HoveredLayer)
}

func TestHoverOutsideVisibleSection(t *testing.T) {
	e := newExplorer(t, "ipv4")
	require.True(t, e.SelectSection(SectionOSI))
	assert.False(t, e.SetHoveredField("Version"))

	require.True(t, e.SelectSection(SectionHeader))
	assert.False(t, e.SetHoveredLayer(3))
}

func TestToggleThemeIsInvolution(t *testing.T) {
	for _, variant := range []string{"ipv4", "ipv6"} {
		e := newExplorer(t, variant)
		before := e.State().DarkTheme
		e.ToggleTheme()
		assert.NotEqual(t, before, e.State().DarkTheme)
		e.ToggleTheme()
		assert.Equal(t, before, e.State().DarkTheme)
	}
}

func TestViewJSON(t *testing.T) {
	e := newExplorer(t, "ipv4-simple")
	require.True(t, e.SetHoveredField("Flags"))

	raw, err := json.Marshal(e.View())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	state := decoded["state"].(map[string]interface{})
	assert.Equal(t, "header-detail", state["section"])
	assert.Equal(t, "Flags", state["hoveredField"])
	header := decoded["header"].(map[string]interface{})
	assert.Equal(t, "panel", header["style"])
}

func TestParseSection(t *testing.T) {
	for _, s := range AllSections {
		parsed, err := ParseSection(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseSection("summary")
	assert.Error(t, err)
}

func TestTextDecodeErrorsCarryStack(t *testing.T) {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}

	_, err := ParseSection("summary")
	require.Error(t, err)
	assert.Implements(t, (*stackTracer)(nil), err)

	_, err = Section(42).MarshalText()
	require.Error(t, err)
	assert.Implements(t, (*stackTracer)(nil), err)

	var style DetailStyle
	err = style.UnmarshalText([]byte("grid"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown detail style "grid"`)
	assert.Implements(t, (*stackTracer)(nil), err)
}
