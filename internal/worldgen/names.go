package worldgen

import (
	"fmt"
	"strings"

	"starlanes/internal/prng"
)

// NameLists holds the word lists station names are assembled from.
type NameLists struct {
	Prefixes    []string `yaml:"prefixes"`
	Cores       []string `yaml:"cores"`
	Designators []string `yaml:"designators"`
	Numerals    []string `yaml:"numerals"`
}

// DefaultNameLists returns the stock vocabulary.
func DefaultNameLists() NameLists {
	return NameLists{
		Prefixes: []string{"New", "Port", "Fort", "Nova", "Outer", "Deep", "High"},
		Cores: []string{
			"Haven", "Terminus", "Orion", "Vega", "Altair", "Kepler",
			"Cygnus", "Lyra", "Helios", "Meridian", "Arcturus", "Draco",
		},
		Designators: []string{"Station", "Depot", "Outpost", "Platform", "Gateway", "Anchorage"},
		Numerals:    []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"},
	}
}

func (n NameLists) validate() error {
	for _, l := range []struct {
		name string
		list []string
	}{
		{"prefixes", n.Prefixes},
		{"cores", n.Cores},
		{"designators", n.Designators},
		{"numerals", n.Numerals},
	} {
		if len(l.list) == 0 {
			return fmt.Errorf("name list %q must be non-empty", l.name)
		}
	}
	return nil
}

// generateName assembles a station name from the word lists.
//
// Draw order is fixed and load-bearing: one draw for the style index,
// then one draw per slot in display order. Station attributes are drawn
// from the same cell PRNG before the name, so any change to this order
// changes every station in the world.
func generateName(rng *prng.PRNG, lists NameLists) string {
	pick := func(list []string) string {
		return list[rng.IntBetween(0, float64(len(list)))]
	}

	style := rng.IntBetween(0, 5)
	var parts []string
	switch style {
	case 0:
		parts = []string{pick(lists.Cores)}
	case 1:
		parts = []string{pick(lists.Prefixes), pick(lists.Cores)}
	case 2:
		parts = []string{pick(lists.Cores), pick(lists.Designators)}
	case 3:
		parts = []string{pick(lists.Cores), pick(lists.Numerals)}
	default:
		parts = []string{pick(lists.Prefixes), pick(lists.Cores), pick(lists.Numerals)}
	}
	return strings.Join(parts, " ")
}
