// Package handler 提供 HTTP 请求处理器
package handler

import (
	"plotforge-api/internal/application/access"
	"plotforge-api/internal/domain/repository"
	"plotforge-api/internal/interfaces/http/dto"
	"plotforge-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ChapterHandler 章节处理器
type ChapterHandler struct {
	chapters repository.ChapterRepository
	access   *access.Checker
}

// NewChapterHandler 创建章节处理器
func NewChapterHandler(chapters repository.ChapterRepository, checker *access.Checker) *ChapterHandler {
	return &ChapterHandler{
		chapters: chapters,
		access:   checker,
	}
}

// ListChapters 获取章节列表
// @Summary 获取章节列表
// @Description 按 order_index 顺序分页返回项目下的章节
// @Tags Chapters
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[[]dto.ChapterResponse]
// @Router /v1/projects/{pid}/chapters [get]
func (h *ChapterHandler) ListChapters(c *gin.Context) {
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
	result, err := h.chapters.ListByProject(ctx, projectID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list chapters", err)
		dto.InternalError(c, "failed to list chapters")
		return
	}

	dto.SuccessWithPage(c, dto.ToChapterListResponse(result.Items),
		dto.NewPageMeta(pageReq.Page, pageReq.PageSize, result.Total))
}

// CreateChapter 创建章节
// @Summary 创建章节
// @Tags Chapters
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.CreateChapterRequest true "章节信息"
// @Success 201 {object} dto.Response[dto.ChapterResponse]
// @Router /v1/projects/{pid}/chapters [post]
func (h *ChapterHandler) CreateChapter(c *gin.Context) {
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

	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	chapter := req.ToChapter(projectID)
	if err := h.chapters.Create(ctx, chapter); err != nil {
		logger.Error(ctx, "failed to create chapter", err)
		dto.InternalError(c, "failed to create chapter")
		return
	}

	dto.Created(c, dto.ToChapterResponse(chapter))
}

// GetChapter 获取章节详情
// @Summary 获取章节详情
// @Tags Chapters
// @Produce json
// @Param chid path string true "章节 ID"
// @Success 200 {object} dto.Response[dto.ChapterResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/chapters/{chid} [get]
func (h *ChapterHandler) GetChapter(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	chapter, err := h.chapters.GetByID(ctx, dto.BindChapterID(c))
	if err != nil {
		logger.Error(ctx, "failed to get chapter", err)
		dto.InternalError(c, "failed to get chapter")
		return
	}
	if chapter == nil {
		dto.NotFound(c, "chapter not found")
		return
	}

	if err := h.access.CanRead(ctx, userID, chapter.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	dto.Success(c, dto.ToChapterResponse(chapter))
}

// UpdateChapter 更新章节
// @Summary 更新章节
// @Tags Chapters
// @Accept json
// @Produce json
// @Param chid path string true "章节 ID"
// @Param body body dto.UpdateChapterRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.ChapterResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/chapters/{chid} [put]
func (h *ChapterHandler) UpdateChapter(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	chapter, err := h.chapters.GetByID(ctx, dto.BindChapterID(c))
	if err != nil {
		logger.Error(ctx, "failed to get chapter", err)
		dto.InternalError(c, "failed to update chapter")
		return
	}
	if chapter == nil {
		dto.NotFound(c, "chapter not found")
		return
	}

	if err := h.access.CanWrite(ctx, userID, chapter.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	req.Apply(chapter)
	if err := h.chapters.Update(ctx, chapter); err != nil {
		logger.Error(ctx, "failed to update chapter", err)
		dto.InternalError(c, "failed to update chapter")
		return
	}

	dto.Success(c, dto.ToChapterResponse(chapter))
}

// DeleteChapter 删除章节
// @Summary 删除章节
// @Tags Chapters
// @Produce json
// @Param chid path string true "章节 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/chapters/{chid} [delete]
func (h *ChapterHandler) DeleteChapter(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	chapter, err := h.chapters.GetByID(ctx, dto.BindChapterID(c))
	if err != nil {
		logger.Error(ctx, "failed to get chapter", err)
		dto.InternalError(c, "failed to delete chapter")
		return
	}
	if chapter == nil {
		dto.NotFound(c, "chapter not found")
		return
	}

	if err := h.access.CanWrite(ctx, userID, chapter.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	if err := h.chapters.Delete(ctx, chapter.ID); err != nil {
		logger.Error(ctx, "failed to delete chapter", err)
		dto.InternalError(c, "failed to delete chapter")
		return
	}

	dto.NoContent(c)
}
