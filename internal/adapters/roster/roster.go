// Package roster loads players and scenarios from YAML or JSON files.
//
// A file holds a "players" list, a "scenarios" list, or both:
//
//	players:
//	  - {id: "1", name: Alice, rating: 1800, availability: ["2030-01-15"]}
//	scenarios:
//	  - {name: No Alice, exclude_names: [alice]}
//
// JSON documents of the same shape are accepted since JSON is valid YAML.
package roster

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/lineup/internal/domain/model"
)

// File is the decoded content of a roster file.
type File struct {
	Players   []model.Player   `koanf:"players"`
	Scenarios []model.Scenario `koanf:"scenarios"`
}

// Load reads path and returns its players and scenarios. Players without
// an ID get a random UUID. Duplicate IDs, blank names and negative ratings
// are rejected with ErrInvalidRoster.
func Load(path string) (File, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return File{}, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	var f File
	if err := k.UnmarshalWithConf("", &f, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return File{}, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	if err := normalize(f.Players); err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadPlayers reads the players of path. An empty list is an error.
func LoadPlayers(path string) ([]model.Player, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	if len(f.Players) == 0 {
		return nil, fmt.Errorf("%w: %s: no players", ErrInvalidRoster, path)
	}
	return f.Players, nil
}

// LoadScenarios reads the scenarios of path.
func LoadScenarios(path string) ([]model.Scenario, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return f.Scenarios, nil
}

func normalize(players []model.Player) error {
	seen := make(map[string]struct{}, len(players))
	for i := range players {
		p := &players[i]
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: player %d has no name", ErrInvalidRoster, i)
		}
		if p.Rating < 0 {
			return fmt.Errorf("%w: player %q has negative rating %d", ErrInvalidRoster, p.Name, p.Rating)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate player id %q", ErrInvalidRoster, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
