package domain

import (
	"time"

	"github.com/google/uuid"
)

// SkillNodeView is the id-keyed projection of one skill, carrying raw ids so
// the owner's client can select a node for edit or delete without a second
// resolution round trip.
type SkillNodeView struct {
	ID             uuid.UUID
	Name           string
	ParentSkillID  *uuid.UUID
	TimeSpentHours float64
	BackgroundURL  string
	X              float64
	Y              float64
}

// AchievementNodeView is the id-keyed projection of one achievement.
type AchievementNodeView struct {
	ID            uuid.UUID
	Title         string
	Prerequisites []uuid.UUID
	Description   string
	BackgroundURL string
	Complete      bool
	CompletedAt   *time.Time
	X             float64
	Y             float64
}

// IDKeyedLayout is the owner's view of a tree graph, keyed by node id.
type IDKeyedLayout struct {
	Skills       map[uuid.UUID]SkillNodeView
	Achievements map[uuid.UUID]AchievementNodeView
}

// NamedSkillView is the name-keyed projection of one skill. ParentSkillName
// is nil for root skills.
type NamedSkillView struct {
	ParentSkillName *string
	TimeSpentHours  float64
	BackgroundURL   string
	X               float64
	Y               float64
}

// NamedAchievementView is the name-keyed projection of one achievement, with
// prerequisite ids resolved to titles.
type NamedAchievementView struct {
	PrerequisiteTitles []string
	Description        string
	BackgroundURL      string
	Complete           bool
	CompletedAt        *time.Time
	X                  float64
	Y                  float64
}

// NameKeyedLayout is the non-owner view of a tree graph, keyed by skill name
// and achievement title, with parent and prerequisite references resolved.
type NameKeyedLayout struct {
	Skills       map[string]NamedSkillView
	Achievements map[string]NamedAchievementView
}

// ProjectIDKeyed builds the owner's layout view. It is a pure transform:
// identical inputs produce identical output. A live node without an
// orientation entry is a ConsistencyError.
func ProjectIDKeyed(skills []*Skill, achievements []*Achievement, o *Orientation) (*IDKeyedLayout, error) {
	skillLocs := o.SkillLocationIndex()
	achLocs := o.AchievementLocationIndex()

	layout := &IDKeyedLayout{
		Skills:       make(map[uuid.UUID]SkillNodeView, len(skills)),
		Achievements: make(map[uuid.UUID]AchievementNodeView, len(achievements)),
	}

	for _, sk := range skills {
		loc, ok := skillLocs[sk.ID]
		if !ok {
			return nil, missingLocationError("skills", sk.ID, sk.TreeID)
		}
		layout.Skills[sk.ID] = SkillNodeView{
			ID:             sk.ID,
			Name:           sk.Name,
			ParentSkillID:  sk.ParentSkillID,
			TimeSpentHours: sk.TimeSpentHours,
			BackgroundURL:  sk.BackgroundURL,
			X:              loc.X,
			Y:              loc.Y,
		}
	}

	for _, a := range achievements {
		loc, ok := achLocs[a.ID]
		if !ok {
			return nil, missingLocationError("achievements", a.ID, a.TreeID)
		}
		layout.Achievements[a.ID] = AchievementNodeView{
			ID:            a.ID,
			Title:         a.Title,
			Prerequisites: a.Prerequisites,
			Description:   a.Description,
			BackgroundURL: a.BackgroundURL,
			Complete:      a.Complete,
			CompletedAt:   a.CompletedAt,
			X:             loc.X,
			Y:             loc.Y,
		}
	}

	return layout, nil
}

// ProjectNameKeyed builds the non-owner layout view. Parent and prerequisite
// ids are resolved against the loaded node set; an id that points outside it
// is a ConsistencyError, never a silent gap.
func ProjectNameKeyed(skills []*Skill, achievements []*Achievement, o *Orientation) (*NameKeyedLayout, error) {
	skillLocs := o.SkillLocationIndex()
	achLocs := o.AchievementLocationIndex()

	skillByID := make(map[uuid.UUID]*Skill, len(skills))
	for _, sk := range skills {
		skillByID[sk.ID] = sk
	}
	achByID := make(map[uuid.UUID]*Achievement, len(achievements))
	for _, a := range achievements {
		achByID[a.ID] = a
	}

	layout := &NameKeyedLayout{
		Skills:       make(map[string]NamedSkillView, len(skills)),
		Achievements: make(map[string]NamedAchievementView, len(achievements)),
	}

	for _, sk := range skills {
		loc, ok := skillLocs[sk.ID]
		if !ok {
			return nil, missingLocationError("skills", sk.ID, sk.TreeID)
		}
		var parentName *string
		if sk.ParentSkillID != nil {
			parent, ok := skillByID[*sk.ParentSkillID]
			if !ok {
				return nil, NewConsistencyError("skills",
					map[string]string{"skillId": sk.ID.String(), "parentSkillId": sk.ParentSkillID.String()},
					"parent resolves outside the tree")
			}
			parentName = &parent.Name
		}
		layout.Skills[sk.Name] = NamedSkillView{
			ParentSkillName: parentName,
			TimeSpentHours:  sk.TimeSpentHours,
			BackgroundURL:   sk.BackgroundURL,
			X:               loc.X,
			Y:               loc.Y,
		}
	}

	for _, a := range achievements {
		loc, ok := achLocs[a.ID]
		if !ok {
			return nil, missingLocationError("achievements", a.ID, a.TreeID)
		}
		titles := make([]string, 0, len(a.Prerequisites))
		for _, pid := range a.Prerequisites {
			p, ok := achByID[pid]
			if !ok {
				return nil, NewConsistencyError("achievements",
					map[string]string{"achievementId": a.ID.String(), "prerequisiteId": pid.String()},
					"prerequisite resolves outside the tree")
			}
			titles = append(titles, p.Title)
		}
		layout.Achievements[a.Title] = NamedAchievementView{
			PrerequisiteTitles: titles,
			Description:        a.Description,
			BackgroundURL:      a.BackgroundURL,
			Complete:           a.Complete,
			CompletedAt:        a.CompletedAt,
			X:                  loc.X,
			Y:                  loc.Y,
		}
	}

	return layout, nil
}

func missingLocationError(collection string, nodeID, treeID uuid.UUID) error {
	return NewConsistencyError(collection,
		map[string]string{"id": nodeID.String(), "treeId": treeID.String()},
		"live node has no orientation entry")
}
