package industry

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Bonus holds the facility's reductions for one activity and category, in percent
type Bonus struct {
	MaterialPercent float64
	TimePercent     float64
}

type bonusKey struct {
	fingerprint string
	activity    ActivityKind
	category    string
}

// BonusResolver computes facility ME/TE percentages from the rig catalog.
// Results depend only on their inputs and are memoised per key.
type BonusResolver struct {
	catalog *RigCatalog
	cache   *lru.Cache[bonusKey, Bonus]
}

// NewBonusResolver creates a resolver with an LRU of the given size
func NewBonusResolver(catalog *RigCatalog, cacheSize int) (*BonusResolver, error) {
	if catalog == nil {
		catalog = StandardRigCatalog()
	}
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, err := lru.New[bonusKey, Bonus](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create bonus cache: %w", err)
	}
	return &BonusResolver{catalog: catalog, cache: cache}, nil
}

// Resolve returns the facility bonus for a step activity and a material category.
// A nil facility yields no bonus.
func (r *BonusResolver) Resolve(facility *Facility, activity ActivityKind, category string) Bonus {
	if facility == nil {
		return Bonus{}
	}

	key := bonusKey{fingerprint: facility.Fingerprint(), activity: activity, category: category}
	if b, ok := r.cache.Get(key); ok {
		return b
	}

	var materialSum, timeSum float64
	for _, name := range facility.Rigs {
		rig, ok := r.catalog.Lookup(name)
		if !ok {
			continue
		}
		if rig.Applies(activity, RigEffectMaterial, category) {
			materialSum += rig.BaseBonus()
		}
		if rig.Applies(activity, RigEffectTime, category) {
			timeSum += rig.BaseBonus()
		}
	}

	multiplier := facility.Security.Multiplier()
	rigTime := roundPercent(timeSum * multiplier)
	role := facility.Structure.TimeRoleBonus(activity)

	b := Bonus{
		MaterialPercent: roundPercent(materialSum * multiplier),
		TimePercent:     roundPercent((1 - (1-rigTime/100)*(1-role/100)) * 100),
	}
	r.cache.Add(key, b)
	return b
}

// UnknownRigs lists installed rig names the catalog does not know
func (r *BonusResolver) UnknownRigs(facility *Facility) []string {
	if facility == nil {
		return nil
	}
	var unknown []string
	for _, name := range facility.Rigs {
		if _, ok := r.catalog.Lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
