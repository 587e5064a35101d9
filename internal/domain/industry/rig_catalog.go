package industry

import (
	"fmt"
	"sync"
)

// RigTier is the bonus tier of an installable rig
type RigTier int

const (
	RigTierBasic RigTier = iota
	RigTierAdvanced
	RigTierFaction
)

func (t RigTier) String() string {
	switch t {
	case RigTierAdvanced:
		return "advanced"
	case RigTierFaction:
		return "faction"
	default:
		return "basic"
	}
}

// RigEffect is what a rig reduces
type RigEffect string

const (
	RigEffectMaterial RigEffect = "material"
	RigEffectTime     RigEffect = "time"
)

// Rig is one entry of the rig catalog
type Rig struct {
	Name       string
	Tier       RigTier
	Activity   ActivityKind
	Effect     RigEffect
	Categories []string
}

// BaseBonus returns the rig's unscaled bonus in percent
func (r Rig) BaseBonus() float64 {
	upgraded := r.Tier == RigTierAdvanced || r.Tier == RigTierFaction
	switch r.Effect {
	case RigEffectMaterial:
		if upgraded {
			return 2.4
		}
		return 2.0
	case RigEffectTime:
		if upgraded {
			return 24
		}
		return 20
	}
	return 0
}

// Applies reports whether the rig affects the given activity, effect and category
func (r Rig) Applies(activity ActivityKind, effect RigEffect, category string) bool {
	if r.Activity != activity || r.Effect != effect {
		return false
	}
	for _, c := range r.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// RigCatalog maps rig names to their tagged definitions
type RigCatalog struct {
	rigs map[string]Rig
}

// NewRigCatalog builds a catalog from explicit definitions
func NewRigCatalog(rigs ...Rig) *RigCatalog {
	c := &RigCatalog{rigs: make(map[string]Rig, len(rigs))}
	for _, r := range rigs {
		c.rigs[r.Name] = r
	}
	return c
}

// Lookup returns the rig registered under name
func (c *RigCatalog) Lookup(name string) (Rig, bool) {
	r, ok := c.rigs[name]
	return r, ok
}

// Len returns the number of catalogued rigs
func (c *RigCatalog) Len() int {
	return len(c.rigs)
}

var (
	standardCatalog     *RigCatalog
	standardCatalogOnce sync.Once
)

// StandardRigCatalog returns the built-in catalog of M-Set engineering and reaction rigs
func StandardRigCatalog() *RigCatalog {
	standardCatalogOnce.Do(func() {
		standardCatalog = NewRigCatalog(standardRigs()...)
	})
	return standardCatalog
}

type rigFamily struct {
	label      string
	activity   ActivityKind
	categories []string
}

var rigFamilies = []rigFamily{
	{"Equipment Manufacturing", ActivityManufacturing, []string{"equipment"}},
	{"Ammunition Manufacturing", ActivityManufacturing, []string{"ammunition"}},
	{"Drone and Fighter Manufacturing", ActivityManufacturing, []string{"drone"}},
	{"Basic Small Ship Manufacturing", ActivityManufacturing, []string{"basic_small_ship"}},
	{"Basic Medium Ship Manufacturing", ActivityManufacturing, []string{"basic_medium_ship"}},
	{"Basic Large Ship Manufacturing", ActivityManufacturing, []string{"basic_large_ship"}},
	{"Advanced Small Ship Manufacturing", ActivityManufacturing, []string{"advanced_small_ship"}},
	{"Advanced Medium Ship Manufacturing", ActivityManufacturing, []string{"advanced_medium_ship"}},
	{"Advanced Large Ship Manufacturing", ActivityManufacturing, []string{"advanced_large_ship"}},
	{"Advanced Component Manufacturing", ActivityManufacturing, []string{"advanced_component"}},
	{"Basic Capital Component Manufacturing", ActivityManufacturing, []string{"capital_component"}},
	{"Structure Manufacturing", ActivityManufacturing, []string{"structure"}},
	{"Composite Reactor", ActivityReaction, []string{"composite"}},
	{"Polymer Reactor", ActivityReaction, []string{"polymer"}},
	{"Biochemical Reactor", ActivityReaction, []string{"biochemical"}},
}

func standardRigs() []Rig {
	rigs := make([]Rig, 0, len(rigFamilies)*4+2)
	for _, f := range rigFamilies {
		for _, effect := range []RigEffect{RigEffectMaterial, RigEffectTime} {
			suffix := "Material Efficiency"
			if effect == RigEffectTime {
				suffix = "Time Efficiency"
			}
			for _, tier := range []RigTier{RigTierBasic, RigTierAdvanced} {
				numeral := "I"
				if tier == RigTierAdvanced {
					numeral = "II"
				}
				rigs = append(rigs, Rig{
					Name:       fmt.Sprintf("Standup M-Set %s %s %s", f.label, suffix, numeral),
					Tier:       tier,
					Activity:   f.activity,
					Effect:     effect,
					Categories: f.categories,
				})
			}
		}
	}

	rigs = append(rigs,
		Rig{
			Name:       "Standup M-Set Thukker Basic Capital Component Manufacturing Material Efficiency",
			Tier:       RigTierFaction,
			Activity:   ActivityManufacturing,
			Effect:     RigEffectMaterial,
			Categories: []string{"capital_component"},
		},
		Rig{
			Name:       "Standup M-Set Thukker Structure and Component Manufacturing Material Efficiency",
			Tier:       RigTierFaction,
			Activity:   ActivityManufacturing,
			Effect:     RigEffectMaterial,
			Categories: []string{"structure", "advanced_component"},
		},
	)
	return rigs
}
