// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"github.com/google/uuid"

	"plotforge-api/internal/domain/entity"
)

// PlotPointDTO 情节节点
type PlotPointDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// CreatePlotRequest 创建情节请求
type CreatePlotRequest struct {
	Title      string         `json:"title" binding:"required,max=255"`
	Summary    string         `json:"summary,omitempty"`
	Conflict   string         `json:"conflict,omitempty"`
	Stakes     string         `json:"stakes,omitempty"`
	Resolution string         `json:"resolution,omitempty"`
	Themes     []string       `json:"themes,omitempty"`
	PlotPoints []PlotPointDTO `json:"plot_points,omitempty"`
}

// UpdatePlotRequest 更新情节请求，nil 字段保持不变
type UpdatePlotRequest struct {
	Title      *string         `json:"title,omitempty"`
	Summary    *string         `json:"summary,omitempty"`
	Conflict   *string         `json:"conflict,omitempty"`
	Stakes     *string         `json:"stakes,omitempty"`
	Resolution *string         `json:"resolution,omitempty"`
	Themes     *[]string       `json:"themes,omitempty"`
	PlotPoints *[]PlotPointDTO `json:"plot_points,omitempty"`
}

// PlotResponse 情节响应
type PlotResponse struct {
	ID           string         `json:"id"`
	ProjectID    string         `json:"project_id"`
	Title        string         `json:"title"`
	Summary      string         `json:"summary"`
	Conflict     string         `json:"conflict,omitempty"`
	Stakes       string         `json:"stakes,omitempty"`
	Resolution   string         `json:"resolution,omitempty"`
	Themes       []string       `json:"themes"`
	PlotPoints   []PlotPointDTO `json:"plot_points"`
	AIGenerated  bool           `json:"ai_generated"`
	EditedByUser bool           `json:"edited_by_user"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func toPlotPoints(in []PlotPointDTO) []entity.PlotPoint {
	out := make([]entity.PlotPoint, 0, len(in))
	for _, p := range in {
		out = append(out, entity.PlotPoint{Title: p.Title, Description: p.Description, Order: p.Order})
	}
	return out
}

func fromPlotPoints(in []entity.PlotPoint) []PlotPointDTO {
	out := make([]PlotPointDTO, 0, len(in))
	for _, p := range in {
		out = append(out, PlotPointDTO{Title: p.Title, Description: p.Description, Order: p.Order})
	}
	return out
}

// ToPlot 将创建请求转换为领域实体
func (r *CreatePlotRequest) ToPlot(projectID string) *entity.Plot {
	now := time.Now()
	themes := r.Themes
	if themes == nil {
		themes = []string{}
	}
	return &entity.Plot{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		Title:        r.Title,
		Summary:      r.Summary,
		Conflict:     r.Conflict,
		Stakes:       r.Stakes,
		Resolution:   r.Resolution,
		Themes:       themes,
		PlotPoints:   toPlotPoints(r.PlotPoints),
		AIGenerated:  false,
		EditedByUser: false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Apply 将更新请求应用到领域实体
func (r *UpdatePlotRequest) Apply(p *entity.Plot) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Summary != nil {
		p.Summary = *r.Summary
	}
	if r.Conflict != nil {
		p.Conflict = *r.Conflict
	}
	if r.Stakes != nil {
		p.Stakes = *r.Stakes
	}
	if r.Resolution != nil {
		p.Resolution = *r.Resolution
	}
	if r.Themes != nil {
		p.Themes = *r.Themes
	}
	if r.PlotPoints != nil {
		p.PlotPoints = toPlotPoints(*r.PlotPoints)
	}
	p.EditedByUser = true
	p.UpdatedAt = time.Now()
}

// ToPlotResponse 将领域实体转换为 DTO
func ToPlotResponse(p *entity.Plot) *PlotResponse {
	if p == nil {
		return nil
	}
	themes := p.Themes
	if themes == nil {
		themes = []string{}
	}
	return &PlotResponse{
		ID:           p.ID,
		ProjectID:    p.ProjectID,
		Title:        p.Title,
		Summary:      p.Summary,
		Conflict:     p.Conflict,
		Stakes:       p.Stakes,
		Resolution:   p.Resolution,
		Themes:       themes,
		PlotPoints:   fromPlotPoints(p.PlotPoints),
		AIGenerated:  p.AIGenerated,
		EditedByUser: p.EditedByUser,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToPlotListResponse 将情节列表转换为 DTO 列表
func ToPlotListResponse(plots []*entity.Plot) []*PlotResponse {
	out := make([]*PlotResponse, 0, len(plots))
	for _, p := range plots {
		out = append(out, ToPlotResponse(p))
	}
	return out
}

// CreateSettingRequest 创建设定请求
type CreateSettingRequest struct {
	Name            string   `json:"name" binding:"required,max=255"`
	Description     string   `json:"description,omitempty"`
	Atmosphere      string   `json:"atmosphere,omitempty"`
	History         string   `json:"history,omitempty"`
	NotableFeatures []string `json:"notable_features,omitempty"`
	Dangers         []string `json:"dangers,omitempty"`
}

// UpdateSettingRequest 更新设定请求，nil 字段保持不变
type UpdateSettingRequest struct {
	Name            *string   `json:"name,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Atmosphere      *string   `json:"atmosphere,omitempty"`
	History         *string   `json:"history,omitempty"`
	NotableFeatures *[]string `json:"notable_features,omitempty"`
	Dangers         *[]string `json:"dangers,omitempty"`
}

// SettingResponse 设定响应
type SettingResponse struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"project_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Atmosphere      string    `json:"atmosphere,omitempty"`
	History         string    `json:"history,omitempty"`
	NotableFeatures []string  `json:"notable_features"`
	Dangers         []string  `json:"dangers"`
	AIGenerated     bool      `json:"ai_generated"`
	EditedByUser    bool      `json:"edited_by_user"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToSetting 将创建请求转换为领域实体
func (r *CreateSettingRequest) ToSetting(projectID string) *entity.Setting {
	now := time.Now()
	features := r.NotableFeatures
	if features == nil {
		features = []string{}
	}
	dangers := r.Dangers
	if dangers == nil {
		dangers = []string{}
	}
	return &entity.Setting{
		ID:              uuid.New().String(),
		ProjectID:       projectID,
		Name:            r.Name,
		Description:     r.Description,
		Atmosphere:      r.Atmosphere,
		History:         r.History,
		NotableFeatures: features,
		Dangers:         dangers,
		AIGenerated:     false,
		EditedByUser:    false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Apply 将更新请求应用到领域实体
func (r *UpdateSettingRequest) Apply(s *entity.Setting) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.Atmosphere != nil {
		s.Atmosphere = *r.Atmosphere
	}
	if r.History != nil {
		s.History = *r.History
	}
	if r.NotableFeatures != nil {
		s.NotableFeatures = *r.NotableFeatures
	}
	if r.Dangers != nil {
		s.Dangers = *r.Dangers
	}
	s.EditedByUser = true
	s.UpdatedAt = time.Now()
}

// ToSettingResponse 将领域实体转换为 DTO
func ToSettingResponse(s *entity.Setting) *SettingResponse {
	if s == nil {
		return nil
	}
	features := s.NotableFeatures
	if features == nil {
		features = []string{}
	}
	dangers := s.Dangers
	if dangers == nil {
		dangers = []string{}
	}
	return &SettingResponse{
		ID:              s.ID,
		ProjectID:       s.ProjectID,
		Name:            s.Name,
		Description:     s.Description,
		Atmosphere:      s.Atmosphere,
		History:         s.History,
		NotableFeatures: features,
		Dangers:         dangers,
		AIGenerated:     s.AIGenerated,
		EditedByUser:    s.EditedByUser,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// ToSettingListResponse 将设定列表转换为 DTO 列表
func ToSettingListResponse(settings []*entity.Setting) []*SettingResponse {
	out := make([]*SettingResponse, 0, len(settings))
	for _, s := range settings {
		out = append(out, ToSettingResponse(s))
	}
	return out
}

// CreateStoryObjectRequest 创建物品请求
type CreateStoryObjectRequest struct {
	Name             string   `json:"name" binding:"required,max=255"`
	Description      string   `json:"description,omitempty"`
	Significance     string   `json:"significance,omitempty"`
	OwnerCharacterID string   `json:"owner_character_id,omitempty"`
	Properties       []string `json:"properties,omitempty"`
}

// UpdateStoryObjectRequest 更新物品请求，nil 字段保持不变
type UpdateStoryObjectRequest struct {
	Name             *string   `json:"name,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Significance     *string   `json:"significance,omitempty"`
	OwnerCharacterID *string   `json:"owner_character_id,omitempty"`
	Properties       *[]string `json:"properties,omitempty"`
}

// StoryObjectResponse 物品响应
type StoryObjectResponse struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"project_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Significance     string    `json:"significance,omitempty"`
	OwnerCharacterID string    `json:"owner_character_id,omitempty"`
	Properties       []string  `json:"properties"`
	AIGenerated      bool      `json:"ai_generated"`
	EditedByUser     bool      `json:"edited_by_user"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToStoryObject 将创建请求转换为领域实体
func (r *CreateStoryObjectRequest) ToStoryObject(projectID string) *entity.StoryObject {
	now := time.Now()
	properties := r.Properties
	if properties == nil {
		properties = []string{}
	}
	return &entity.StoryObject{
		ID:               uuid.New().String(),
		ProjectID:        projectID,
		Name:             r.Name,
		Description:      r.Description,
		Significance:     r.Significance,
		OwnerCharacterID: r.OwnerCharacterID,
		Properties:       properties,
		AIGenerated:      false,
		EditedByUser:     false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Apply 将更新请求应用到领域实体
func (r *UpdateStoryObjectRequest) Apply(o *entity.StoryObject) {
	if r.Name != nil {
		o.Name = *r.Name
	}
	if r.Description != nil {
		o.Description = *r.Description
	}
	if r.Significance != nil {
		o.Significance = *r.Significance
	}
	if r.OwnerCharacterID != nil {
		o.OwnerCharacterID = *r.OwnerCharacterID
	}
	if r.Properties != nil {
		o.Properties = *r.Properties
	}
	o.EditedByUser = true
	o.UpdatedAt = time.Now()
}

// ToStoryObjectResponse 将领域实体转换为 DTO
func ToStoryObjectResponse(o *entity.StoryObject) *StoryObjectResponse {
	if o == nil {
		return nil
	}
	properties := o.Properties
	if properties == nil {
		properties = []string{}
	}
	return &StoryObjectResponse{
		ID:               o.ID,
		ProjectID:        o.ProjectID,
		Name:             o.Name,
		Description:      o.Description,
		Significance:     o.Significance,
		OwnerCharacterID: o.OwnerCharacterID,
		Properties:       properties,
		AIGenerated:      o.AIGenerated,
		EditedByUser:     o.EditedByUser,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// ToStoryObjectListResponse 将物品列表转换为 DTO 列表
func ToStoryObjectListResponse(objects []*entity.StoryObject) []*StoryObjectResponse {
	out := make([]*StoryObjectResponse, 0, len(objects))
	for _, o := range objects {
		out = append(out, ToStoryObjectResponse(o))
	}
	return out
}
