package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planboard/internal/services"
)

func (h *handlerImpl) HandleListProjects(c *gin.Context) {
	projects, err := h.planner.ListProjects(c)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *handlerImpl) HandleGetProject(c *gin.Context) {
	project, err := h.planner.GetProject(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

type createProjectRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description"`
	StartDate   string   `json:"startDate" binding:"required"`
	EndDate     string   `json:"endDate" binding:"required"`
	Status      string   `json:"status"`
	TeamMembers []string `json:"teamMembers"`
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	var req createProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.planner.CreateProject(c, services.CreateProjectParams{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		TeamMembers: req.TeamMembers,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

type updateProjectRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	StartDate   *string   `json:"startDate,omitempty"`
	EndDate     *string   `json:"endDate,omitempty"`
	Status      *string   `json:"status,omitempty"`
	TeamMembers *[]string `json:"teamMembers,omitempty"`
}

func (h *handlerImpl) HandleUpdateProject(c *gin.Context) {
	var req updateProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.planner.UpdateProject(c, c.Param("id"), services.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		TeamMembers: req.TeamMembers,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *handlerImpl) HandleDeleteProject(c *gin.Context) {
	err := h.planner.DeleteProject(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	tasks, err := h.planner.ListTasks(c, c.Query("project_id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	task, err := h.planner.GetTask(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

type createTaskRequest struct {
	Name         string   `json:"name" binding:"required,max=255"`
	Description  string   `json:"description"`
	StartDate    string   `json:"startDate" binding:"required"`
	EndDate      string   `json:"endDate" binding:"required"`
	Status       string   `json:"status"`
	Assignee     string   `json:"assignee"`
	Dependencies []string `json:"dependencies"`
	Progress     int      `json:"progress" binding:"min=0,max=100"`
	Priority     string   `json:"priority"`
	ProjectID    string   `json:"projectId" binding:"required"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.planner.CreateTask(c, services.CreateTaskParams{
		Name:         req.Name,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       req.Status,
		Assignee:     req.Assignee,
		Dependencies: req.Dependencies,
		Progress:     req.Progress,
		Priority:     req.Priority,
		ProjectID:    req.ProjectID,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

type updateTaskRequest struct {
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	StartDate    *string   `json:"startDate,omitempty"`
	EndDate      *string   `json:"endDate,omitempty"`
	Status       *string   `json:"status,omitempty"`
	Assignee     *string   `json:"assignee,omitempty"`
	Dependencies *[]string `json:"dependencies,omitempty"`
	Progress     *int      `json:"progress,omitempty"`
	Priority     *string   `json:"priority,omitempty"`
	ProjectID    *string   `json:"projectId,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.planner.UpdateTask(c, c.Param("id"), services.TaskPatch{
		Name:         req.Name,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       req.Status,
		Assignee:     req.Assignee,
		Dependencies: req.Dependencies,
		Progress:     req.Progress,
		Priority:     req.Priority,
		ProjectID:    req.ProjectID,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	err := h.planner.DeleteTask(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleListMembers(c *gin.Context) {
	members, err := h.planner.ListMembers(c)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (h *handlerImpl) HandleGetMember(c *gin.Context) {
	member, err := h.planner.GetMember(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

type createMemberRequest struct {
	Name   string `json:"name" binding:"required,max=255"`
	Email  string `json:"email" binding:"required,email,max=255"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

func (h *handlerImpl) HandleCreateMember(c *gin.Context) {
	var req createMemberRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	member, err := h.planner.CreateMember(c, services.CreateMemberParams{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Avatar: req.Avatar,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

type updateMemberRequest struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty" binding:"omitempty,email"`
	Role   *string `json:"role,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

func (h *handlerImpl) HandleUpdateMember(c *gin.Context) {
	var req updateMemberRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	member, err := h.planner.UpdateMember(c, c.Param("id"), services.MemberPatch{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Avatar: req.Avatar,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *handlerImpl) HandleDeleteMember(c *gin.Context) {
	err := h.planner.DeleteMember(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
