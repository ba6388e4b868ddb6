// Package handler 提供 HTTP 请求处理器
package handler

import (
	"plotforge-api/internal/application/access"
	"plotforge-api/internal/domain/repository"
	"plotforge-api/internal/interfaces/http/dto"
	"plotforge-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SettingHandler 设定处理器
type SettingHandler struct {
	settings repository.SettingRepository
	access   *access.Checker
}

// NewSettingHandler 创建设定处理器
func NewSettingHandler(settings repository.SettingRepository, checker *access.Checker) *SettingHandler {
	return &SettingHandler{
		settings: settings,
		access:   checker,
	}
}

// ListSettings 获取设定列表
// @Summary 获取设定列表
// @Tags Settings
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[[]dto.SettingResponse]
// @Router /v1/projects/{pid}/settings [get]
func (h *SettingHandler) ListSettings(c *gin.Context) {
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
	result, err := h.settings.ListByProject(ctx, projectID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list settings", err)
		dto.InternalError(c, "failed to list settings")
		return
	}

	dto.SuccessWithPage(c, dto.ToSettingListResponse(result.Items),
		dto.NewPageMeta(pageReq.Page, pageReq.PageSize, result.Total))
}

// CreateSetting 创建设定
// @Summary 创建设定
// @Tags Settings
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.CreateSettingRequest true "设定信息"
// @Success 201 {object} dto.Response[dto.SettingResponse]
// @Router /v1/projects/{pid}/settings [post]
func (h *SettingHandler) CreateSetting(c *gin.Context) {
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

	var req dto.CreateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	setting := req.ToSetting(projectID)
	if err := h.settings.Create(ctx, setting); err != nil {
		logger.Error(ctx, "failed to create setting", err)
		dto.InternalError(c, "failed to create setting")
		return
	}

	dto.Created(c, dto.ToSettingResponse(setting))
}

// GetSetting 获取设定详情
// @Summary 获取设定详情
// @Tags Settings
// @Produce json
// @Param sid path string true "设定 ID"
// @Success 200 {object} dto.Response[dto.SettingResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/settings/{sid} [get]
func (h *SettingHandler) GetSetting(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	setting, err := h.settings.GetByID(ctx, dto.BindSettingID(c))
	if err != nil {
		logger.Error(ctx, "failed to get setting", err)
		dto.InternalError(c, "failed to get setting")
		return
	}
	if setting == nil {
		dto.NotFound(c, "setting not found")
		return
	}

	if err := h.access.CanRead(ctx, userID, setting.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	dto.Success(c, dto.ToSettingResponse(setting))
}

// UpdateSetting 更新设定
// @Summary 更新设定
// @Tags Settings
// @Accept json
// @Produce json
// @Param sid path string true "设定 ID"
// @Param body body dto.UpdateSettingRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.SettingResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/settings/{sid} [put]
func (h *SettingHandler) UpdateSetting(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	setting, err := h.settings.GetByID(ctx, dto.BindSettingID(c))
	if err != nil {
		logger.Error(ctx, "failed to get setting", err)
		dto.InternalError(c, "failed to update setting")
		return
	}
	if setting == nil {
		dto.NotFound(c, "setting not found")
		return
	}

	if err := h.access.CanWrite(ctx, userID, setting.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	req.Apply(setting)
	if err := h.settings.Update(ctx, setting); err != nil {
		logger.Error(ctx, "failed to update setting", err)
		dto.InternalError(c, "failed to update setting")
		return
	}

	dto.Success(c, dto.ToSettingResponse(setting))
}

// DeleteSetting 删除设定
// @Summary 删除设定
// @Tags Settings
// @Produce json
// @Param sid path string true "设定 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/settings/{sid} [delete]
func (h *SettingHandler) DeleteSetting(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	setting, err := h.settings.GetByID(ctx, dto.BindSettingID(c))
	if err != nil {
		logger.Error(ctx, "failed to get setting", err)
		dto.InternalError(c, "failed to delete setting")
		return
	}
	if setting == nil {
		dto.NotFound(c, "setting not found")
		return
	}

	if err := h.access.CanWrite(ctx, userID, setting.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	if err := h.settings.Delete(ctx, setting.ID); err != nil {
		logger.Error(ctx, "failed to delete setting", err)
		dto.InternalError(c, "failed to delete setting")
		return
	}

	dto.NoContent(c)
}
