// Package handler 提供 HTTP 请求处理器
package handler

import (
	"plotforge-api/internal/application/access"
	"plotforge-api/internal/domain/repository"
	"plotforge-api/internal/interfaces/http/dto"
	"plotforge-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// StoryObjectHandler 物品处理器
type StoryObjectHandler struct {
	objects    repository.StoryObjectRepository
	characters repository.CharacterRepository
	access     *access.Checker
}

// NewStoryObjectHandler 创建物品处理器
func NewStoryObjectHandler(
	objects repository.StoryObjectRepository,
	characters repository.CharacterRepository,
	checker *access.Checker,
) *StoryObjectHandler {
	return &StoryObjectHandler{
		objects:    objects,
		characters: characters,
		access:     checker,
	}
}

// validateOwner 校验物品归属角色存在且同项目
func (h *StoryObjectHandler) validateOwner(c *gin.Context, projectID, ownerCharacterID string) bool {
	if ownerCharacterID == "" {
		return true
	}
	owner, err := h.characters.GetByID(c.Request.Context(), ownerCharacterID)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to check owner character", err)
		dto.InternalError(c, "failed to check owner character")
		return false
	}
	if owner == nil || owner.ProjectID != projectID {
		dto.BadRequest(c, "owner character not found in this project")
		return false
	}
	return true
}

// ListStoryObjects 获取物品列表
// @Summary 获取物品列表
// @Tags StoryObjects
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[[]dto.StoryObjectResponse]
// @Router /v1/projects/{pid}/objects [get]
func (h *StoryObjectHandler) ListStoryObjects(c *gin.Context) {
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
	result, err := h.objects.ListByProject(ctx, projectID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list objects", err)
		dto.InternalError(c, "failed to list objects")
		return
	}

	dto.SuccessWithPage(c, dto.ToStoryObjectListResponse(result.Items),
		dto.NewPageMeta(pageReq.Page, pageReq.PageSize, result.Total))
}

// CreateStoryObject 创建物品
// @Summary 创建物品
// @Tags StoryObjects
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.CreateStoryObjectRequest true "物品信息"
// @Success 201 {object} dto.Response[dto.StoryObjectResponse]
// @Router /v1/projects/{pid}/objects [post]
func (h *StoryObjectHandler) CreateStoryObject(c *gin.Context) {
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

	var req dto.CreateStoryObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if !h.validateOwner(c, projectID, req.OwnerCharacterID) {
		return
	}

	object := req.ToStoryObject(projectID)
	if err := h.objects.Create(ctx, object); err != nil {
		logger.Error(ctx, "failed to create object", err)
		dto.InternalError(c, "failed to create object")
		return
	}

	dto.Created(c, dto.ToStoryObjectResponse(object))
}

// GetStoryObject 获取物品详情
// @Summary 获取物品详情
// @Tags StoryObjects
// @Produce json
// @Param oid path string true "物品 ID"
// @Success 200 {object} dto.Response[dto.StoryObjectResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/objects/{oid} [get]
func (h *StoryObjectHandler) GetStoryObject(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	object, err := h.objects.GetByID(ctx, dto.BindObjectID(c))
	if err != nil {
		logger.Error(ctx, "failed to get object", err)
		dto.InternalError(c, "failed to get object")
		return
	}
	if object == nil {
		dto.NotFound(c, "object not found")
		return
	}

	if err := h.access.CanRead(ctx, userID, object.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	dto.Success(c, dto.ToStoryObjectResponse(object))
}

// UpdateStoryObject 更新物品
// @Summary 更新物品
// @Tags StoryObjects
// @Accept json
// @Produce json
// @Param oid path string true "物品 ID"
// @Param body body dto.UpdateStoryObjectRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.StoryObjectResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/objects/{oid} [put]
func (h *StoryObjectHandler) UpdateStoryObject(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.UpdateStoryObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	object, err := h.objects.GetByID(ctx, dto.BindObjectID(c))
	if err != nil {
		logger.Error(ctx, "failed to get object", err)
		dto.InternalError(c, "failed to update object")
		return
	}
	if object == nil {
		dto.NotFound(c, "object not found")
		return
	}

	if err := h.access.CanWrite(ctx, userID, object.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	if req.OwnerCharacterID != nil && !h.validateOwner(c, object.ProjectID, *req.OwnerCharacterID) {
		return
	}

	req.Apply(object)
	if err := h.objects.Update(ctx, object); err != nil {
		logger.Error(ctx, "failed to update object", err)
		dto.InternalError(c, "failed to update object")
		return
	}

	dto.Success(c, dto.ToStoryObjectResponse(object))
}

// DeleteStoryObject 删除物品
// @Summary 删除物品
// @Tags StoryObjects
// @Produce json
// @Param oid path string true "物品 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/objects/{oid} [delete]
func (h *StoryObjectHandler) DeleteStoryObject(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	object, err := h.objects.GetByID(ctx, dto.BindObjectID(c))
	if err != nil {
		logger.Error(ctx, "failed to get object", err)
		dto.InternalError(c, "failed to delete object")
		return
	}
	if object == nil {
		dto.NotFound(c, "object not found")
		return
	}

	if err := h.access.CanWrite(ctx, userID, object.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	if err := h.objects.Delete(ctx, object.ID); err != nil {
		logger.Error(ctx, "failed to delete object", err)
		dto.InternalError(c, "failed to delete object")
		return
	}

	dto.NoContent(c)
}
