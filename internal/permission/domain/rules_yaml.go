package domain

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// rulesFile es el formato del fichero PERMISSIONS_FILE:
//
//	areas:
//	  insights:
//	    roles: [salesperson, manager, admin]
//	    min_level: 2
type rulesFile struct {
	Areas map[Area]Rule `yaml:"areas"`
}

// ParseRules lee overrides de reglas en YAML y los valida.
func ParseRules(r io.Reader) (RuleTable, error) {
	var f rulesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return RuleTable{}, nil
		}
		return nil, fmt.Errorf("invalid permissions file: %w", err)
	}

	table := make(RuleTable, len(f.Areas))
	for area, rule := range f.Areas {
		if len(rule.Roles) == 0 {
			return nil, fmt.Errorf("area %q: at least one role is required", area)
		}
		for _, role := range rule.Roles {
			if !role.Valid() {
				return nil, fmt.Errorf("area %q: unknown role %q", area, role)
			}
		}
		if rule.MinLevel < 0 {
			return nil, fmt.Errorf("area %q: min_level must be >= 0", area)
		}
		table[area] = rule
	}
	return table, nil
}

// LoadRules devuelve las reglas por defecto con los overrides de path aplicados.
// path vacío devuelve solo las reglas por defecto.
func LoadRules(path string) (RuleTable, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	override, err := ParseRules(f)
	if err != nil {
		return nil, err
	}
	return DefaultRules().Merge(override), nil
}
