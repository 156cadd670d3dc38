// Command sectordump prints the generated content of a cell range, for
// eyeballing spawn rates and market balance without running the server.
package main

import (
	"flag"
	"fmt"
	"os"

	"starlanes/internal/config"
	"starlanes/internal/market"
	"starlanes/internal/worldgen"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	seed := flag.Int64("seed", 0, "world seed override")
	minC := flag.Int("min", -5, "minimum cell coordinate (both axes)")
	maxC := flag.Int("max", 5, "maximum cell coordinate (both axes)")
	markets := flag.Bool("markets", false, "also dump first-visit market tables for stations")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.World.WorldSeed = *seed
	}

	world, err := worldgen.New(cfg.World)
	if err != nil {
		fmt.Fprintln(os.Stderr, "world config:", err)
		os.Exit(1)
	}
	mgen, err := market.NewGenerator(cfg.Catalog, cfg.Market)
	if err != nil {
		fmt.Fprintln(os.Stderr, "market config:", err)
		os.Exit(1)
	}

	stars, stations, asteroids := 0, 0, 0
	for cx := *minC; cx <= *maxC; cx++ {
		for cy := *minC; cy <= *maxC; cy++ {
			for _, obj := range world.CellObjects(cx, cy) {
				switch o := obj.(type) {
				case worldgen.Star:
					stars++
				case worldgen.Station:
					stations++
					fmt.Printf("cell (%d,%d): %s %q type=%s economy=%s tech=%s size=%.0f at (%.0f, %.0f)\n",
						cx, cy, o.ID, o.Name, o.StationType, o.Economy, o.TechLevel, o.Size, o.X, o.Y)
					if *markets {
						snap := mgen.Generate(o, cfg.World.WorldSeed, 1)
						for _, c := range mgen.Catalog() {
							if state, ok := snap.Table[c.Key]; ok {
								fmt.Printf("    %-14s %5d cr  x%d\n", c.Key, state.Price, state.Quantity)
							}
						}
					}
				case worldgen.Asteroid:
					asteroids++
				}
			}
		}
	}

	cells := (*maxC - *minC + 1) * (*maxC - *minC + 1)
	fmt.Printf("\n%d cells: %d stars, %d stations, %d asteroids\n", cells, stars, stations, asteroids)
}
