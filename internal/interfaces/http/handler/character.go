// Package handler 提供 HTTP 请求处理器
package handler

import (
	"plotforge-api/internal/application/access"
	"plotforge-api/internal/domain/repository"
	"plotforge-api/internal/interfaces/http/dto"
	"plotforge-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// CharacterHandler 角色处理器
type CharacterHandler struct {
	characters repository.CharacterRepository
	access     *access.Checker
}

// NewCharacterHandler 创建角色处理器
func NewCharacterHandler(characters repository.CharacterRepository, checker *access.Checker) *CharacterHandler {
	return &CharacterHandler{
		characters: characters,
		access:     checker,
	}
}

// ListCharacters 获取角色列表
// @Summary 获取角色列表
// @Tags Characters
// @Produce json
// @Param pid path string true "项目 ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[[]dto.CharacterResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/characters [get]
func (h *CharacterHandler) ListCharacters(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	projectID := dto.BindProjectID(c)
	if err := h.access.CanRead(ctx, userID, projectID); err != nil {
		dto.AppError(c, err)
		return
	}

	pageReq := dto.BindPage(c)
	result, err := h.characters.ListByProject(ctx, projectID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list characters", err)
		dto.InternalError(c, "failed to list characters")
		return
	}

	resp := dto.ToCharacterListResponse(result.Items)
	dto.SuccessWithPage(c, resp, dto.NewPageMeta(pageReq.Page, pageReq.PageSize, result.Total))
}

// CreateCharacter 创建角色
// @Summary 创建角色
// @Tags Characters
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.CreateCharacterRequest true "角色信息"
// @Success 201 {object} dto.Response[dto.CharacterResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/characters [post]
func (h *CharacterHandler) CreateCharacter(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	projectID := dto.BindProjectID(c)
	if err := h.access.CanWrite(ctx, userID, projectID); err != nil {
		dto.AppError(c, err)
		return
	}

	var req dto.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	character := req.ToCharacter(projectID)
	if err := h.characters.Create(ctx, character); err != nil {
		logger.Error(ctx, "failed to create character", err)
		dto.InternalError(c, "failed to create character")
		return
	}

	dto.Created(c, dto.ToCharacterResponse(character))
}

// GetCharacter 获取角色详情
// @Summary 获取角色详情
// @Tags Characters
// @Produce json
// @Param cid path string true "角色 ID"
// @Success 200 {object} dto.Response[dto.CharacterResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/characters/{cid} [get]
func (h *CharacterHandler) GetCharacter(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	character, err := h.characters.GetByID(ctx, dto.BindCharacterID(c))
	if err != nil {
		logger.Error(ctx, "failed to get character", err)
		dto.InternalError(c, "failed to get character")
		return
	}
	if character == nil {
		dto.NotFound(c, "character not found")
		return
	}

	if err := h.access.CanRead(ctx, userID, character.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	dto.Success(c, dto.ToCharacterResponse(character))
}

// UpdateCharacter 更新角色
// @Summary 更新角色
// @Tags Characters
// @Accept json
// @Produce json
// @Param cid path string true "角色 ID"
// @Param body body dto.UpdateCharacterRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.CharacterResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/characters/{cid} [put]
func (h *CharacterHandler) UpdateCharacter(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	character, err := h.characters.GetByID(ctx, dto.BindCharacterID(c))
	if err != nil {
		logger.Error(ctx, "failed to get character", err)
		dto.InternalError(c, "failed to update character")
		return
	}
	if character == nil {
		dto.NotFound(c, "character not found")
		return
	}

	if err := h.access.CanWrite(ctx, userID, character.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	req.Apply(character)
	if err := h.characters.Update(ctx, character); err != nil {
		logger.Error(ctx, "failed to update character", err)
		dto.InternalError(c, "failed to update character")
		return
	}

	dto.Success(c, dto.ToCharacterResponse(character))
}

// DeleteCharacter 删除角色
// @Summary 删除角色
// @Tags Characters
// @Produce json
// @Param cid path string true "角色 ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/characters/{cid} [delete]
func (h *CharacterHandler) DeleteCharacter(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	character, err := h.characters.GetByID(ctx, dto.BindCharacterID(c))
	if err != nil {
		logger.Error(ctx, "failed to get character", err)
		dto.InternalError(c, "failed to delete character")
		return
	}
	if character == nil {
		dto.NotFound(c, "character not found")
		return
	}

	if err := h.access.CanWrite(ctx, userID, character.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	if err := h.characters.Delete(ctx, character.ID); err != nil {
		logger.Error(ctx, "failed to delete character", err)
		dto.InternalError(c, "failed to delete character")
		return
	}

	dto.NoContent(c)
}
