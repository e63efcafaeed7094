package models

// HeaderField describes one field of an IPv4 or IPv6 header.
type HeaderField struct {
	Name        string `yaml:"name" json:"name"`
	BitWidth    string `yaml:"bitWidth" json:"bitWidth"`
	Bits        int    `yaml:"bits" json:"bits"` // 0 = variable width
	Description string `yaml:"description" json:"description"`
	Details     string `yaml:"details" json:"details"`
	Example     string `yaml:"example,omitempty" json:"example,omitempty"`
}

// HasExample reports whether the field carries an example value.
func (f HeaderField) HasExample() bool { return f.Example != "" }

// OSILayer describes one of the seven OSI layers.
type OSILayer struct {
	Number      int      `yaml:"number" json:"number"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Protocols   []string `yaml:"protocols" json:"protocols"`
	Focus       bool     `yaml:"focus,omitempty" json:"focus"`
}

// StoryStep is one paragraph of the narrative section.
type StoryStep struct {
	Title string `yaml:"title" json:"title"`
	Text  string `yaml:"text" json:"text"`
}
