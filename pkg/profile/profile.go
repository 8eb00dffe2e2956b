package profile

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Model identifies an amplifier model.
type Model string

// Supported models.
const (
	GrandConcerto Model = "Grand_Concerto"
	EssentiaG     Model = "Essentia_G"
)

// ErrUnknownModel indicates a model identifier outside the supported set.
var ErrUnknownModel = errors.New("unknown model")

// Range describes a valid parameter domain with a step size.
type Range struct {
	Min  int `yaml:"min"`
	Max  int `yaml:"max"`
	Step int `yaml:"step"`
}

// Contains reports whether v is a valid value for the range.
func (r Range) Contains(v int) bool {
	if v < r.Min || v > r.Max {
		return false
	}
	if r.Step <= 1 {
		return true
	}
	return (v-r.Min)%r.Step == 0
}

// ZoneLimits holds per-model zone capabilities.
type ZoneLimits struct {
	// Physical is the number of hardwired zones.
	Physical int `yaml:"physical"`

	// Logical is the number of additional logical zones.
	Logical int `yaml:"logical"`

	// LogicalStart is the zone number of the first logical zone.
	LogicalStart int `yaml:"logical_start"`

	// Total is the highest addressable zone number.
	Total int `yaml:"total"`

	// NameMaxLength is the maximum zone name length.
	NameMaxLength int `yaml:"name_max_length"`

	// SlaveTo is the valid master-zone domain (0 = not slaved).
	SlaveTo Range `yaml:"slave_to"`

	// Group is the valid zone-group domain (0 = no group).
	Group Range `yaml:"group"`

	// IR is the valid IR repeater state domain.
	IR Range `yaml:"ir"`
}

// SourceLimits holds per-model source capabilities.
type SourceLimits struct {
	Total              int `yaml:"total"`
	NameLongMaxLength  int `yaml:"name_long_max_length"`
	NameShortMaxLength int `yaml:"name_short_max_length"`
}

// SerialSettings describes the device's fixed serial parameters.
type SerialSettings struct {
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"`
	StopBits int    `yaml:"stop_bits"`
}

// Profile is the immutable capability table for one model.
type Profile struct {
	Model          Model          `yaml:"-"`
	ProductNumber  string         `yaml:"product_number"`
	NuvoNetSources bool           `yaml:"nuvonet_sources"`
	Zones          ZoneLimits     `yaml:"zones"`
	Sources        SourceLimits   `yaml:"sources"`
	Volume         Range          `yaml:"volume"`
	Bass           Range          `yaml:"bass"`
	Treble         Range          `yaml:"treble"`
	Balance        Range          `yaml:"balance"`
	Gain           Range          `yaml:"gain"`
	Serial         SerialSettings `yaml:"serial"`
}

// ValidZone reports whether zone is addressable on this model,
// physical or logical.
func (p *Profile) ValidZone(zone int) bool {
	return zone >= 1 && zone <= p.Zones.Total
}

// ValidPhysicalZone reports whether zone is a hardwired zone.
func (p *Profile) ValidPhysicalZone(zone int) bool {
	return zone >= 1 && zone <= p.Zones.Physical
}

// ValidSource reports whether source is addressable on this model.
func (p *Profile) ValidSource(source int) bool {
	return source >= 1 && source <= p.Sources.Total
}

//go:embed models.yaml
var modelsYAML []byte

type modelTable struct {
	Models map[Model]*Profile `yaml:"models"`
}

var profiles map[Model]*Profile

func init() {
	var table modelTable
	if err := yaml.Unmarshal(modelsYAML, &table); err != nil {
		panic(fmt.Sprintf("profile: embedded model table is invalid: %v", err))
	}
	for model, p := range table.Models {
		p.Model = model
	}
	profiles = table.Models
}

// Lookup returns the capability profile for model.
// Fails with ErrUnknownModel for anything outside the supported set.
func Lookup(model Model) (*Profile, error) {
	p, ok := profiles[model]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	return p, nil
}

// ByProductNumber returns the model matching a device-reported product
// number (e.g. "NV-I8G"), or false when the product is not recognized.
func ByProductNumber(product string) (Model, bool) {
	for model, p := range profiles {
		if p.ProductNumber == product {
			return model, true
		}
	}
	return "", false
}

// Models returns the supported model identifiers.
func Models() []Model {
	return []Model{GrandConcerto, EssentiaG}
}
