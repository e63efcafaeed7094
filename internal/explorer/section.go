package explorer

import (
	"fmt"

	"github.com/pkg/errors"
)

// Section is one of the top-level views a variant can show.
type Section int

const (
	SectionStory Section = iota
	SectionHeader
	SectionOSI
	SectionIntegration
)

// AllSections lists every section in tab order.
var AllSections = []Section{SectionStory, SectionHeader, SectionOSI, SectionIntegration}

func (s Section) String() string {
	switch s {
	case SectionStory:
		return "story"
	case SectionHeader:
		return "header-detail"
	case SectionOSI:
		return "osi-model"
	case SectionIntegration:
		return "integration"
	}
	return fmt.Sprintf("section(%d)", int(s))
}

// Label is the tab caption.
func (s Section) Label() string {
	switch s {
	case SectionStory:
		return "Story"
	case SectionHeader:
		return "Header Structure"
	case SectionOSI:
		return "OSI Model"
	case SectionIntegration:
		return "Integration"
	}
	return s.String()
}

// Valid reports whether s is a member of the enum.
func (s Section) Valid() bool {
	return s >= SectionStory && s <= SectionIntegration
}

// ShowsFields reports whether header fields are visible in the section.
func (s Section) ShowsFields() bool { return s == SectionHeader }

// ShowsLayers reports whether OSI layers are visible in the section.
func (s Section) ShowsLayers() bool { return s == SectionOSI || s == SectionIntegration }

// ParseSection converts the wire name of a section.
func ParseSection(name string) (Section, error) {
	for _, s := range AllSections {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, errors.Errorf("unknown section %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Section) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.Errorf("invalid section %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Section) UnmarshalText(text []byte) error {
	parsed, err := ParseSection(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
