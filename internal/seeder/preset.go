package seeder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// PresetFile is the on-disk shape of a preset catalog.
type PresetFile struct {
	Presets []PresetTree `json:"presets"`
}

// PresetTree describes one installable preset. Skills reference their parent
// by name and achievements reference prerequisites by title, so the file
// carries no identifiers; the seeder mints them on insert.
type PresetTree struct {
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	BackgroundURL string              `json:"backgroundUrl"`
	Skills        []PresetSkill       `json:"skills"`
	Achievements  []PresetAchievement `json:"achievements"`
}

// PresetSkill is one skill node in a preset file.
type PresetSkill struct {
	Name          string  `json:"name"`
	BackgroundURL string  `json:"backgroundUrl"`
	Parent        string  `json:"parent"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
}

// PresetAchievement is one achievement node in a preset file.
type PresetAchievement struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	BackgroundURL string   `json:"backgroundUrl"`
	Prerequisites []string `json:"prerequisites"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
}

// ParsePresetFile reads and validates a preset catalog.
func ParsePresetFile(path string) (*PresetFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open presets: %w", err)
	}
	defer f.Close()

	pf, err := parsePresets(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return pf, nil
}

func parsePresets(r io.Reader) (*PresetFile, error) {
	var pf PresetFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&pf); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(pf.Presets))
	for i := range pf.Presets {
		p := &pf.Presets[i]
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate preset name %q", p.Name)
		}
		seen[p.Name] = true
	}

	return &pf, nil
}

// validate checks that the preset graph is internally coherent: unique node
// names, parents and prerequisites that resolve within the preset, an acyclic
// skill forest, and non-negative coordinates.
func (p *PresetTree) validate() error {
	if p.Name == "" {
		return fmt.Errorf("missing name")
	}

	skillNames := make(map[string]bool, len(p.Skills))
	for _, sk := range p.Skills {
		if sk.Name == "" {
			return fmt.Errorf("skill with empty name")
		}
		if skillNames[sk.Name] {
			return fmt.Errorf("duplicate skill %q", sk.Name)
		}
		if sk.X < 0 || sk.Y < 0 {
			return fmt.Errorf("skill %q: negative coordinates", sk.Name)
		}
		skillNames[sk.Name] = true
	}
	for _, sk := range p.Skills {
		if sk.Parent != "" && !skillNames[sk.Parent] {
			return fmt.Errorf("skill %q: unknown parent %q", sk.Name, sk.Parent)
		}
		if sk.Parent == sk.Name {
			return fmt.Errorf("skill %q: is its own parent", sk.Name)
		}
	}
	if err := p.checkSkillForest(); err != nil {
		return err
	}

	titles := make(map[string]bool, len(p.Achievements))
	for _, a := range p.Achievements {
		if a.Title == "" {
			return fmt.Errorf("achievement with empty title")
		}
		if titles[a.Title] {
			return fmt.Errorf("duplicate achievement %q", a.Title)
		}
		if a.X < 0 || a.Y < 0 {
			return fmt.Errorf("achievement %q: negative coordinates", a.Title)
		}
		titles[a.Title] = true
	}
	for _, a := range p.Achievements {
		for _, pre := range a.Prerequisites {
			if !titles[pre] {
				return fmt.Errorf("achievement %q: unknown prerequisite %q", a.Title, pre)
			}
			if pre == a.Title {
				return fmt.Errorf("achievement %q: is its own prerequisite", a.Title)
			}
		}
	}
	if err := p.checkAchievementDAG(); err != nil {
		return err
	}

	return nil
}

// checkSkillForest rejects parent cycles by peeling nodes level by level.
func (p *PresetTree) checkSkillForest() error {
	resolved := make(map[string]bool, len(p.Skills))
	for changed := true; changed; {
		changed = false
		for _, sk := range p.Skills {
			if resolved[sk.Name] {
				continue
			}
			if sk.Parent == "" || resolved[sk.Parent] {
				resolved[sk.Name] = true
				changed = true
			}
		}
	}
	for _, sk := range p.Skills {
		if !resolved[sk.Name] {
			return fmt.Errorf("skill %q: parent chain contains a cycle", sk.Name)
		}
	}
	return nil
}

// checkAchievementDAG rejects prerequisite cycles the same way.
func (p *PresetTree) checkAchievementDAG() error {
	resolved := make(map[string]bool, len(p.Achievements))
	for changed := true; changed; {
		changed = false
	next:
		for _, a := range p.Achievements {
			if resolved[a.Title] {
				continue
			}
			for _, pre := range a.Prerequisites {
				if !resolved[pre] {
					continue next
				}
			}
			resolved[a.Title] = true
			changed = true
		}
	}
	for _, a := range p.Achievements {
		if !resolved[a.Title] {
			return fmt.Errorf("achievement %q: prerequisite chain contains a cycle", a.Title)
		}
	}
	return nil
}
