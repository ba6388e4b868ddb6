// Package entity 定义领域实体
package entity

import (
	"time"
)

// CharacterRelationship 角色关系
type CharacterRelationship struct {
	With     string  `json:"with"`
	Type     string  `json:"type"`
	Dynamics string  `json:"dynamics"`
	Strength float64 `json:"strength,omitempty"`
}

// Character 角色实体
// 提取自模型输出时，数组字段的下限是空数组，永不为 nil
type Character struct {
	ID                string                  `json:"id"`
	ProjectID         string                  `json:"project_id"`
	Name              string                  `json:"name"`
	ShortDescription  string                  `json:"short_description"`
	Background        string                  `json:"background"`
	PhysicalTraits    []string                `json:"physical_traits"`
	PersonalityTraits []string                `json:"personality_traits"`
	Goals             []string                `json:"goals"`
	Fears             []string                `json:"fears"`
	Skills            []string                `json:"skills"`
	Voice             string                  `json:"voice"`
	Role              string                  `json:"role"`
	Relationships     []CharacterRelationship `json:"relationships"`
	Arc               string                  `json:"arc,omitempty"`
	Age               string                  `json:"age,omitempty"`
	Gender            string                  `json:"gender,omitempty"`
	Occupation        string                  `json:"occupation,omitempty"`
	AIGenerated       bool                    `json:"ai_generated"`
	EditedByUser      bool                    `json:"edited_by_user"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// EnsureArrayDefaults 保证所有数组字段非 nil
func (c *Character) EnsureArrayDefaults() {
	if c.PhysicalTraits == nil {
		c.PhysicalTraits = []string{}
	}
	if c.PersonalityTraits == nil {
		c.PersonalityTraits = []string{}
	}
	if c.Goals == nil {
		c.Goals = []string{}
	}
	if c.Fears == nil {
		c.Fears = []string{}
	}
	if c.Skills == nil {
		c.Skills = []string{}
	}
	if c.Relationships == nil {
		c.Relationships = []CharacterRelationship{}
	}
}
