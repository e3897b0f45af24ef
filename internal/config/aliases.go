package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/rinex-station-meta/internal/domain"
)

// aliasFile is the on-disk layout of ALIAS_FILE:
//
//	aliases:
//	  - name: CHUM
//	    number: 12345M001
type aliasFile struct {
	Aliases []struct {
		Name   string `yaml:"name"`
		Number string `yaml:"number"`
	} `yaml:"aliases"`
}

// LoadAliases reads the station alias table. An empty path yields an empty
// table.
func LoadAliases(path string) (domain.Aliases, error) {
	aliases := domain.Aliases{}
	if path == "" {
		return aliases, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse alias file %s: %w", path, err)
	}
	for i, a := range f.Aliases {
		if a.Name == "" || a.Number == "" {
			return nil, fmt.Errorf("alias file %s: entry %d needs name and number", path, i+1)
		}
		aliases.Add(a.Name, a.Number)
	}
	return aliases, nil
}
