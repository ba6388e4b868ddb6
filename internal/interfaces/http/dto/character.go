// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"github.com/google/uuid"

	"plotforge-api/internal/domain/entity"
)

// RelationshipDTO 角色关系
type RelationshipDTO struct {
	With     string  `json:"with"`
	Type     string  `json:"type"`
	Dynamics string  `json:"dynamics"`
	Strength float64 `json:"strength,omitempty"`
}

// CreateCharacterRequest 创建角色请求
type CreateCharacterRequest struct {
	Name              string            `json:"name" binding:"required,max=255"`
	ShortDescription  string            `json:"short_description,omitempty"`
	Background        string            `json:"background,omitempty"`
	PhysicalTraits    []string          `json:"physical_traits,omitempty"`
	PersonalityTraits []string          `json:"personality_traits,omitempty"`
	Goals             []string          `json:"goals,omitempty"`
	Fears             []string          `json:"fears,omitempty"`
	Skills            []string          `json:"skills,omitempty"`
	Voice             string            `json:"voice,omitempty"`
	Role              string            `json:"role,omitempty"`
	Relationships     []RelationshipDTO `json:"relationships,omitempty"`
	Arc               string            `json:"arc,omitempty"`
	Age               string            `json:"age,omitempty"`
	Gender            string            `json:"gender,omitempty"`
	Occupation        string            `json:"occupation,omitempty"`
}

// UpdateCharacterRequest 更新角色请求，nil 字段保持不变
type UpdateCharacterRequest struct {
	Name              *string            `json:"name,omitempty"`
	ShortDescription  *string            `json:"short_description,omitempty"`
	Background        *string            `json:"background,omitempty"`
	PhysicalTraits    *[]string          `json:"physical_traits,omitempty"`
	PersonalityTraits *[]string          `json:"personality_traits,omitempty"`
	Goals             *[]string          `json:"goals,omitempty"`
	Fears             *[]string          `json:"fears,omitempty"`
	Skills            *[]string          `json:"skills,omitempty"`
	Voice             *string            `json:"voice,omitempty"`
	Role              *string            `json:"role,omitempty"`
	Relationships     *[]RelationshipDTO `json:"relationships,omitempty"`
	Arc               *string            `json:"arc,omitempty"`
	Age               *string            `json:"age,omitempty"`
	Gender            *string            `json:"gender,omitempty"`
	Occupation        *string            `json:"occupation,omitempty"`
}

// CharacterResponse 角色响应
type CharacterResponse struct {
	ID                string            `json:"id"`
	ProjectID         string            `json:"project_id"`
	Name              string            `json:"name"`
	ShortDescription  string            `json:"short_description"`
	Background        string            `json:"background"`
	PhysicalTraits    []string          `json:"physical_traits"`
	PersonalityTraits []string          `json:"personality_traits"`
	Goals             []string          `json:"goals"`
	Fears             []string          `json:"fears"`
	Skills            []string          `json:"skills"`
	Voice             string            `json:"voice"`
	Role              string            `json:"role"`
	Relationships     []RelationshipDTO `json:"relationships"`
	Arc               string            `json:"arc,omitempty"`
	Age               string            `json:"age,omitempty"`
	Gender            string            `json:"gender,omitempty"`
	Occupation        string            `json:"occupation,omitempty"`
	AIGenerated       bool              `json:"ai_generated"`
	EditedByUser      bool              `json:"edited_by_user"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func toRelationships(in []RelationshipDTO) []entity.CharacterRelationship {
	out := make([]entity.CharacterRelationship, 0, len(in))
	for _, r := range in {
		out = append(out, entity.CharacterRelationship{
			With:     r.With,
			Type:     r.Type,
			Dynamics: r.Dynamics,
			Strength: r.Strength,
		})
	}
	return out
}

func fromRelationships(in []entity.CharacterRelationship) []RelationshipDTO {
	out := make([]RelationshipDTO, 0, len(in))
	for _, r := range in {
		out = append(out, RelationshipDTO{
			With:     r.With,
			Type:     r.Type,
			Dynamics: r.Dynamics,
			Strength: r.Strength,
		})
	}
	return out
}

// ToCharacter 将创建请求转换为领域实体，手工创建的角色 AIGenerated=false
func (r *CreateCharacterRequest) ToCharacter(projectID string) *entity.Character {
	now := time.Now()
	character := &entity.Character{
		ID:                uuid.New().String(),
		ProjectID:         projectID,
		Name:              r.Name,
		ShortDescription:  r.ShortDescription,
		Background:        r.Background,
		PhysicalTraits:    r.PhysicalTraits,
		PersonalityTraits: r.PersonalityTraits,
		Goals:             r.Goals,
		Fears:             r.Fears,
		Skills:            r.Skills,
		Voice:             r.Voice,
		Role:              r.Role,
		Relationships:     toRelationships(r.Relationships),
		Arc:               r.Arc,
		Age:               r.Age,
		Gender:            r.Gender,
		Occupation:        r.Occupation,
		AIGenerated:       false,
		EditedByUser:      false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	character.EnsureArrayDefaults()
	return character
}

// Apply 将更新请求应用到领域实体，任何字段变更即视为人工编辑
func (r *UpdateCharacterRequest) Apply(c *entity.Character) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.ShortDescription != nil {
		c.ShortDescription = *r.ShortDescription
	}
	if r.Background != nil {
		c.Background = *r.Background
	}
	if r.PhysicalTraits != nil {
		c.PhysicalTraits = *r.PhysicalTraits
	}
	if r.PersonalityTraits != nil {
		c.PersonalityTraits = *r.PersonalityTraits
	}
	if r.Goals != nil {
		c.Goals = *r.Goals
	}
	if r.Fears != nil {
		c.Fears = *r.Fears
	}
	if r.Skills != nil {
		c.Skills = *r.Skills
	}
	if r.Voice != nil {
		c.Voice = *r.Voice
	}
	if r.Role != nil {
		c.Role = *r.Role
	}
	if r.Relationships != nil {
		c.Relationships = toRelationships(*r.Relationships)
	}
	if r.Arc != nil {
		c.Arc = *r.Arc
	}
	if r.Age != nil {
		c.Age = *r.Age
	}
	if r.Gender != nil {
		c.Gender = *r.Gender
	}
	if r.Occupation != nil {
		c.Occupation = *r.Occupation
	}
	c.EditedByUser = true
	c.UpdatedAt = time.Now()
	c.EnsureArrayDefaults()
}

// ToCharacterResponse 将领域实体转换为 DTO
func ToCharacterResponse(c *entity.Character) *CharacterResponse {
	if c == nil {
		return nil
	}
	c.EnsureArrayDefaults()
	return &CharacterResponse{
		ID:                c.ID,
		ProjectID:         c.ProjectID,
		Name:              c.Name,
		ShortDescription:  c.ShortDescription,
		Background:        c.Background,
		PhysicalTraits:    c.PhysicalTraits,
		PersonalityTraits: c.PersonalityTraits,
		Goals:             c.Goals,
		Fears:             c.Fears,
		Skills:            c.Skills,
		Voice:             c.Voice,
		Role:              c.Role,
		Relationships:     fromRelationships(c.Relationships),
		Arc:               c.Arc,
		Age:               c.Age,
		Gender:            c.Gender,
		Occupation:        c.Occupation,
		AIGenerated:       c.AIGenerated,
		EditedByUser:      c.EditedByUser,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// ToCharacterListResponse 将角色列表转换为 DTO 列表
func ToCharacterListResponse(characters []*entity.Character) []*CharacterResponse {
	out := make([]*CharacterResponse, 0, len(characters))
	for _, c := range characters {
		out = append(out, ToCharacterResponse(c))
	}
	return out
}
