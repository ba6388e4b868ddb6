// Package handler 提供 HTTP 请求处理器
package handler

import (
	"plotforge-api/internal/application/access"
	"plotforge-api/internal/domain/repository"
	"plotforge-api/internal/interfaces/http/dto"
	"plotforge-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PlotHandler 情节处理器
type PlotHandler struct {
	plots  repository.PlotRepository
	access *access.Checker
}

// NewPlotHandler 创建情节处理器
func NewPlotHandler(plots repository.PlotRepository, checker *access.Checker) *PlotHandler {
	return &PlotHandler{
		plots:  plots,
		access: checker,
	}
}

// ListPlots 获取情节列表
// @Summary 获取情节列表
// @Tags Plots
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[[]dto.PlotResponse]
// @Router /v1/projects/{pid}/plots [get]
func (h *PlotHandler) ListPlots(c *gin.Context) {
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
	result, err := h.plots.ListByProject(ctx, projectID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list plots", err)
		dto.InternalError(c, "failed to list plots")
		return
	}

	dto.SuccessWithPage(c, dto.ToPlotListResponse(result.Items),
		dto.NewPageMeta(pageReq.Page, pageReq.PageSize, result.Total))
}

// CreatePlot 创建情节
// @Summary 创建情节
// @Tags Plots
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.CreatePlotRequest true "情节信息"
// @Success 201 {object} dto.Response[dto.PlotResponse]
// @Router /v1/projects/{pid}/plots [post]
func (h *PlotHandler) CreatePlot(c *gin.Context) {
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

	var req dto.CreatePlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	plot := req.ToPlot(projectID)
	if err := h.plots.Create(ctx, plot); err != nil {
		logger.Error(ctx, "failed to create plot", err)
		dto.InternalError(c, "failed to create plot")
		return
	}

	dto.Created(c, dto.ToPlotResponse(plot))
}

// GetPlot 获取情节详情
// @Summary 获取情节详情
// @Tags Plots
// @Produce json
// @Param plid path string true "情节 ID"
// @Success 200 {object} dto.Response[dto.PlotResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/plots/{plid} [get]
func (h *PlotHandler) GetPlot(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	plot, err := h.plots.GetByID(ctx, dto.BindPlotID(c))
	if err != nil {
		logger.Error(ctx, "failed to get plot", err)
		dto.InternalError(c, "failed to get plot")
		return
	}
	if plot == nil {
		dto.NotFound(c, "plot not found")
		return
	}

	if err := h.access.CanRead(ctx, userID, plot.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	dto.Success(c, dto.ToPlotResponse(plot))
}

// UpdatePlot 更新情节
// @Summary 更新情节
// @Tags Plots
// @Accept json
// @Produce json
// @Param plid path string true "情节 ID"
// @Param body body dto.UpdatePlotRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.PlotResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/plots/{plid} [put]
func (h *PlotHandler) UpdatePlot(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.UpdatePlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	plot, err := h.plots.GetByID(ctx, dto.BindPlotID(c))
	if err != nil {
		logger.Error(ctx, "failed to get plot", err)
		dto.InternalError(c, "failed to update plot")
		return
	}
	if plot == nil {
		dto.NotFound(c, "plot not found")
		return
	}

	if err := h.access.CanWrite(ctx, userID, plot.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	req.Apply(plot)
	if err := h.plots.Update(ctx, plot); err != nil {
		logger.Error(ctx, "failed to update plot", err)
		dto.InternalError(c, "failed to update plot")
		return
	}

	dto.Success(c, dto.ToPlotResponse(plot))
}

// DeletePlot 删除情节
// @Summary 删除情节
// @Tags Plots
// @Produce json
// @Param plid path string true "情节 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/plots/{plid} [delete]
func (h *PlotHandler) DeletePlot(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	plot, err := h.plots.GetByID(ctx, dto.BindPlotID(c))
	if err != nil {
		logger.Error(ctx, "failed to get plot", err)
		dto.InternalError(c, "failed to delete plot")
		return
	}
	if plot == nil {
		dto.NotFound(c, "plot not found")
		return
	}

	if err := h.access.CanWrite(ctx, userID, plot.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	if err := h.plots.Delete(ctx, plot.ID); err != nil {
		logger.Error(ctx, "failed to delete plot", err)
		dto.InternalError(c, "failed to delete plot")
		return
	}

	dto.NoContent(c)
}
