// Package handler 提供 HTTP 请求处理器
package handler

import (
	"time"

	"plotforge-api/internal/application/access"
	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/domain/repository"
	"plotforge-api/internal/interfaces/http/dto"
	"plotforge-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ProjectHandler 项目处理器
type ProjectHandler struct {
	projects repository.ProjectRepository
	access   *access.Checker
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(projects repository.ProjectRepository, checker *access.Checker) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		access:   checker,
	}
}

// ListProjects 获取项目列表
// @Summary 获取项目列表
// @Description 分页返回当前用户参与的项目
// @Tags Projects
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[[]dto.ProjectResponse]
// @Router /v1/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	pageReq := dto.BindPage(c)
	result, err := h.projects.ListByUser(ctx, userID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list projects", err)
		dto.InternalError(c, "failed to list projects")
		return
	}

	resp := dto.ToProjectListResponse(result.Items)
	dto.SuccessWithPage(c, resp, dto.NewPageMeta(pageReq.Page, pageReq.PageSize, result.Total))
}

// CreateProject 创建项目
// @Summary 创建项目
// @Description 创建新项目，当前用户为所有者
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body dto.CreateProjectRequest true "项目信息"
// @Success 201 {object} dto.Response[dto.ProjectResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	project := req.ToProject(userID)
	if err := h.projects.Create(ctx, project); err != nil {
		logger.Error(ctx, "failed to create project", err)
		dto.InternalError(c, "failed to create project")
		return
	}

	dto.Created(c, dto.ToProjectResponse(project))
}

// GetProject 获取项目详情
// @Summary 获取项目详情
// @Tags Projects
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
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

	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		logger.Error(ctx, "failed to get project", err)
		dto.InternalError(c, "failed to get project")
		return
	}
	if project == nil {
		dto.NotFound(c, "project not found")
		return
	}

	dto.Success(c, dto.ToProjectResponse(project))
}

// UpdateProject 更新项目
// @Summary 更新项目
// @Tags Projects
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.UpdateProjectRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
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

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		logger.Error(ctx, "failed to get project", err)
		dto.InternalError(c, "failed to update project")
		return
	}
	if project == nil {
		dto.NotFound(c, "project not found")
		return
	}

	req.Apply(project)
	if err := h.projects.Update(ctx, project); err != nil {
		logger.Error(ctx, "failed to update project", err)
		dto.InternalError(c, "failed to update project")
		return
	}

	dto.Success(c, dto.ToProjectResponse(project))
}

// DeleteProject 删除项目
// @Summary 删除项目
// @Description 删除项目，仅所有者可操作
// @Tags Projects
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	projectID := dto.BindProjectID(c)
	if err := h.access.IsOwner(ctx, userID, projectID); err != nil {
		dto.AppError(c, err)
		return
	}

	if err := h.projects.Delete(ctx, projectID); err != nil {
		logger.Error(ctx, "failed to delete project", err)
		dto.InternalError(c, "failed to delete project")
		return
	}

	dto.NoContent(c)
}

// AddCollaborator 添加协作者
// @Summary 添加协作者
// @Description 向项目添加协作者，仅所有者可操作
// @Tags Projects
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.CollaboratorRequest true "协作者信息"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/collaborators [post]
func (h *ProjectHandler) AddCollaborator(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	projectID := dto.BindProjectID(c)
	if err := h.access.IsOwner(ctx, userID, projectID); err != nil {
		dto.AppError(c, err)
		return
	}

	var req dto.CollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		logger.Error(ctx, "failed to get project", err)
		dto.InternalError(c, "failed to add collaborator")
		return
	}
	if project == nil {
		dto.NotFound(c, "project not found")
		return
	}
	if req.UserID == project.OwnerID {
		dto.BadRequest(c, "owner cannot be a collaborator")
		return
	}

	// 已存在则更新角色
	updated := false
	for i := range project.Collaborators {
		if project.Collaborators[i].UserID == req.UserID {
			project.Collaborators[i].Role = entity.CollaboratorRole(req.Role)
			updated = true
			break
		}
	}
	if !updated {
		project.Collaborators = append(project.Collaborators, entity.Collaborator{
			UserID: req.UserID,
			Role:   entity.CollaboratorRole(req.Role),
		})
	}
	project.UpdatedAt = time.Now()

	if err := h.projects.Update(ctx, project); err != nil {
		logger.Error(ctx, "failed to add collaborator", err)
		dto.InternalError(c, "failed to add collaborator")
		return
	}

	dto.Success(c, dto.ToProjectResponse(project))
}

// RemoveCollaborator 移除协作者
// @Summary 移除协作者
// @Tags Projects
// @Produce json
// @Param pid path string true "项目 ID"
// @Param uid path string true "用户 ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/collaborators/{uid} [delete]
func (h *ProjectHandler) RemoveCollaborator(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	projectID := dto.BindProjectID(c)
	if err := h.access.IsOwner(ctx, userID, projectID); err != nil {
		dto.AppError(c, err)
		return
	}

	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		logger.Error(ctx, "failed to get project", err)
		dto.InternalError(c, "failed to remove collaborator")
		return
	}
	if project == nil {
		dto.NotFound(c, "project not found")
		return
	}

	target := c.Param("uid")
	kept := project.Collaborators[:0]
	for _, col := range project.Collaborators {
		if col.UserID != target {
			kept = append(kept, col)
		}
	}
	project.Collaborators = kept
	project.UpdatedAt = time.Now()

	if err := h.projects.Update(ctx, project); err != nil {
		logger.Error(ctx, "failed to remove collaborator", err)
		dto.InternalError(c, "failed to remove collaborator")
		return
	}

	dto.NoContent(c)
}
