// Package handler 提供 HTTP 请求处理器
package handler

import (
	"plotforge-api/internal/application/access"
	"plotforge-api/internal/application/generation"
	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/domain/repository"
	"plotforge-api/internal/interfaces/http/dto"
	"plotforge-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// GenerationHandler 生成处理器
type GenerationHandler struct {
	service    *generation.Service
	promoter   *generation.CharacterPromoter
	expander   *generation.CharacterExpander
	characters repository.CharacterRepository
	access     *access.Checker
}

// NewGenerationHandler 创建生成处理器
func NewGenerationHandler(
	service *generation.Service,
	promoter *generation.CharacterPromoter,
	expander *generation.CharacterExpander,
	characters repository.CharacterRepository,
	checker *access.Checker,
) *GenerationHandler {
	return &GenerationHandler{
		service:    service,
		promoter:   promoter,
		expander:   expander,
		characters: characters,
		access:     checker,
	}
}

// Generate 文本生成
// @Summary 生成叙事内容
// @Description 按任务类型调用 LLM 生成角色、情节、设定、章节或编辑建议
// @Tags Generation
// @Accept json
// @Produce json
// @Param extract query bool false "是否同时返回结构化抽取结果"
// @Param body body dto.GenerateRequest true "生成请求"
// @Success 200 {object} dto.Response[dto.GenerateResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/ai/generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.access.CanWrite(ctx, userID, req.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	svcReq := req.ToServiceRequest(userID)
	resp, err := h.service.Generate(ctx, svcReq)
	if err != nil {
		dto.AppError(c, err)
		return
	}

	out := &dto.GenerateResponse{
		GenerationID:        resp.GenerationID,
		Content:             resp.Content,
		Metadata:            resp.Metadata,
		PersistenceDegraded: resp.PersistenceDegraded,
	}

	// 抽取只在显式请求时执行，抽取失败不影响生成结果
	if c.Query("extract") == "true" {
		if structured, ok := generation.Extract(resp.Content, svcReq.Task); ok {
			out.Structured = structured
		}
	}

	dto.Success(c, out)
}

// GenerateImage 图像生成
// @Summary 生成图像
// @Description 调用图像提供商生成插图并返回 URL
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.GenerateImageRequest true "图像生成请求"
// @Success 200 {object} dto.Response[dto.GenerateImageResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/ai/generate-image [post]
func (h *GenerationHandler) GenerateImage(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.access.CanWrite(ctx, userID, req.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	resp, err := h.service.GenerateImage(ctx, &generation.ImageRequest{
		ProjectID: req.ProjectID,
		UserID:    userID,
		Prompt:    req.Prompt,
		Size:      req.Size,
	})
	if err != nil {
		dto.AppError(c, err)
		return
	}

	dto.Success(c, &dto.GenerateImageResponse{
		GenerationID:        resp.GenerationID,
		URL:                 resp.URL,
		PersistenceDegraded: resp.PersistenceDegraded,
	})
}

// GetGeneration 获取生成记录
// @Summary 获取生成记录
// @Description 按 ID 获取生成审计记录
// @Tags Generation
// @Produce json
// @Param gid path string true "生成记录 ID"
// @Success 200 {object} dto.Response[dto.GenerationRecordResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/ai/generations/{gid} [get]
func (h *GenerationHandler) GetGeneration(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	record, err := h.service.Get(ctx, dto.BindGenerationID(c))
	if err != nil {
		dto.AppError(c, err)
		return
	}

	if err := h.access.CanRead(ctx, userID, record.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	dto.Success(c, dto.ToGenerationRecordResponse(record))
}

// ListGenerations 获取项目的生成记录列表
// @Summary 获取生成记录列表
// @Description 按创建时间倒序分页返回项目下的生成记录
// @Tags Generation
// @Produce json
// @Param pid path string true "项目 ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[[]dto.GenerationRecordResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/generations [get]
func (h *GenerationHandler) ListGenerations(c *gin.Context) {
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
	result, err := h.service.List(ctx, projectID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list generations", err)
		dto.InternalError(c, "failed to list generations")
		return
	}

	resp := dto.ToGenerationRecordListResponse(result.Items)
	dto.SuccessWithPage(c, resp, dto.NewPageMeta(pageReq.Page, pageReq.PageSize, result.Total))
}

// SaveGeneration 采纳生成记录
// @Summary 采纳生成记录
// @Description 将生成记录标记为已采纳
// @Tags Generation
// @Produce json
// @Param gid path string true "生成记录 ID"
// @Success 200 {object} dto.Response[dto.GenerationRecordResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/ai/generations/{gid}/save [put]
func (h *GenerationHandler) SaveGeneration(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	generationID := dto.BindGenerationID(c)
	record, err := h.service.Get(ctx, generationID)
	if err != nil {
		dto.AppError(c, err)
		return
	}

	if err := h.access.CanWrite(ctx, userID, record.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	saved, err := h.service.Save(ctx, generationID)
	if err != nil {
		dto.AppError(c, err)
		return
	}

	dto.Success(c, dto.ToGenerationRecordResponse(saved))
}

// PromoteCharacter 晋升生成记录为角色
// @Summary 晋升为角色
// @Description 抽取角色生成记录的结构化内容并写入角色表
// @Tags Generation
// @Produce json
// @Param gid path string true "生成记录 ID"
// @Success 201 {object} dto.Response[dto.CharacterResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/ai/generations/{gid}/promote-character [post]
func (h *GenerationHandler) PromoteCharacter(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	generationID := dto.BindGenerationID(c)
	record, err := h.service.Get(ctx, generationID)
	if err != nil {
		dto.AppError(c, err)
		return
	}

	if err := h.access.CanWrite(ctx, userID, record.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	character, err := h.promoter.Promote(ctx, generationID)
	if err != nil {
		dto.AppError(c, err)
		return
	}

	dto.Created(c, dto.ToCharacterResponse(character))
}

// ExpandCharacter 扩写已有角色
// @Summary 扩写角色的单个侧面
// @Description 按聚焦点生成补充内容并合并回角色实体，抽取失败不落任何变更
// @Tags Generation
// @Accept json
// @Produce json
// @Param cid path string true "角色 ID"
// @Param body body dto.ExpandCharacterRequest true "扩写请求"
// @Success 200 {object} dto.Response[dto.ExpandCharacterResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/ai/characters/{cid}/expand [post]
func (h *GenerationHandler) ExpandCharacter(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.ExpandCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
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

	if err := h.access.CanWrite(ctx, userID, character.ProjectID); err != nil {
		dto.AppError(c, err)
		return
	}

	result, err := h.expander.Expand(ctx, character, entity.ExpansionFocus(req.Focus), userID)
	if err != nil {
		dto.AppError(c, err)
		return
	}

	dto.Success(c, &dto.ExpandCharacterResponse{
		GenerationID:        result.GenerationID,
		Fields:              result.Fields,
		Character:           dto.ToCharacterResponse(result.Character),
		PersistenceDegraded: result.PersistenceDegraded,
	})
}
