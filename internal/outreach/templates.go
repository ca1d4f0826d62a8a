package outreach

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Templates holds the cap-rate-banded message bodies for the fallback path.
type Templates struct {
	High   string `yaml:"high"`   // cap rate > 10
	Medium string `yaml:"medium"` // cap rate > 7
	Low    string `yaml:"low"`
}

// DefaultTemplates returns the built-in message bodies.
func DefaultTemplates() *Templates {
	return &Templates{
		High:   "Based on my analysis, properties in this area are showing strong investment potential right now. The fundamentals look particularly solid.",
		Medium: "The local market trends suggest this could be an opportune time to discuss your property's potential. I've been tracking this neighborhood closely.",
		Low:    "I'm conducting research on the neighborhood and would value your insights as a local property owner. Your perspective would be invaluable.",
	}
}

// LoadTemplates reads template overrides from a YAML file. Bands missing
// from the file keep their defaults.
func LoadTemplates(path string) (*Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "outreach: read templates %s", path)
	}

	t := DefaultTemplates()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, eris.Wrapf(err, "outreach: parse templates %s", path)
	}
	return t, nil
}

// Select returns the template body for the given cap rate band.
func (t *Templates) Select(capRate float64) string {
	switch {
	case capRate > 10:
		return t.High
	case capRate > 7:
		return t.Medium
	default:
		return t.Low
	}
}
