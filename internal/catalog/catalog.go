// Package catalog loads the seed list of rentable vehicles.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"carrental/internal/db"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed vehicles.yaml
var defaultCatalog []byte

type seedFile struct {
	Vehicles []seedVehicle `yaml:"vehicles"`
}

type seedVehicle struct {
	db.Vehicle `yaml:",inline"`
	DayRate    string `yaml:"day_rate"`
	Available  *bool  `yaml:"available"`
}

// Load reads the catalog from path, or the built-in catalog when path is empty.
func Load(path string) ([]db.Vehicle, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
	}
	return Parse(data)
}

func Parse(data []byte) ([]db.Vehicle, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	vehicles := make([]db.Vehicle, 0, len(file.Vehicles))
	seen := make(map[string]bool, len(file.Vehicles))
	for i, sv := range file.Vehicles {
		v := sv.Vehicle
		if v.ID == "" || v.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: id and name are required", i)
		}
		if seen[v.ID] {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %q", i, v.ID)
		}
		seen[v.ID] = true

		rate, err := decimal.NewFromString(sv.DayRate)
		if err != nil || !rate.IsPositive() {
			return nil, fmt.Errorf("catalog entry %q: invalid day_rate %q", v.ID, sv.DayRate)
		}
		v.DayRate = rate
		v.Available = sv.Available == nil || *sv.Available
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}
