package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planboard/internal/services"
)

func (h *handlerImpl) HandleListRuns(c *gin.Context) {
	runs, err := h.runs.ListRuns(c, c.Query("project_id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (h *handlerImpl) HandleGetRun(c *gin.Context) {
	detail, err := h.runs.GetRun(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type createRunRequest struct {
	ProjectID   string   `json:"projectId" binding:"required"`
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description"`
	CaseIDs     []string `json:"caseIds"`
}

func (h *handlerImpl) HandleCreateRun(c *gin.Context) {
	var req createRunRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	run, err := h.runs.CreateRun(c, req.ProjectID, req.Name, req.Description, req.CaseIDs)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, run)
}

func (h *handlerImpl) HandleStartRun(c *gin.Context) {
	run, err := h.runs.StartRun(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *handlerImpl) HandleCompleteRun(c *gin.Context) {
	run, err := h.runs.CompleteRun(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *handlerImpl) HandleDeleteRun(c *gin.Context) {
	err := h.runs.DeleteRun(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type recordResultRequest struct {
	RunCaseID   string `json:"runCaseId" binding:"required"`
	Status      string `json:"status" binding:"required"`
	Comment     string `json:"comment"`
	DurationSec int    `json:"durationSec" binding:"min=0"`
}

func (h *handlerImpl) HandleRecordResult(c *gin.Context) {
	var req recordResultRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	createdBy := c.GetString(userIDCtxKey)
	result, err := h.runs.RecordResult(c, c.Param("id"), services.RecordResultParams{
		RunCaseID:   req.RunCaseID,
		Status:      req.Status,
		Comment:     req.Comment,
		DurationSec: req.DurationSec,
		CreatedBy:   createdBy,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *handlerImpl) HandleExportRunCSV(c *gin.Context) {
	data, err := h.runs.ExportRunCSV(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="run.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *handlerImpl) HandleListMilestones(c *gin.Context) {
	milestones, err := h.runs.ListMilestones(c, c.Query("project_id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, milestones)
}

type createMilestoneRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	Name      string `json:"name" binding:"required,max=255"`
	DueDate   string `json:"dueDate"`
}

func (h *handlerImpl) HandleCreateMilestone(c *gin.Context) {
	var req createMilestoneRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	milestone, err := h.runs.CreateMilestone(c, req.ProjectID, req.Name, req.DueDate)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, milestone)
}

type updateMilestoneRequest struct {
	Name    *string `json:"name,omitempty"`
	DueDate *string `json:"dueDate,omitempty"`
	Status  *string `json:"status,omitempty"`
}

func (h *handlerImpl) HandleUpdateMilestone(c *gin.Context) {
	var req updateMilestoneRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	milestone, err := h.runs.UpdateMilestone(c, c.Param("id"), services.MilestonePatch{
		Name:    req.Name,
		DueDate: req.DueDate,
		Status:  req.Status,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, milestone)
}

func (h *handlerImpl) HandleDeleteMilestone(c *gin.Context) {
	err := h.runs.DeleteMilestone(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleListPlans(c *gin.Context) {
	plans, err := h.runs.ListPlans(c, c.Query("project_id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

type createPlanRequest struct {
	ProjectID   string   `json:"projectId" binding:"required"`
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description"`
	MilestoneID string   `json:"milestoneId"`
	RunIDs      []string `json:"runIds"`
}

func (h *handlerImpl) HandleCreatePlan(c *gin.Context) {
	var req createPlanRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	plan, err := h.runs.CreatePlan(c, req.ProjectID, req.Name, req.Description, req.MilestoneID, req.RunIDs)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

type updatePlanRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	MilestoneID *string `json:"milestoneId,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func (h *handlerImpl) HandleUpdatePlan(c *gin.Context) {
	var req updatePlanRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	plan, err := h.runs.UpdatePlan(c, c.Param("id"), services.PlanPatch{
		Name:        req.Name,
		Description: req.Description,
		MilestoneID: req.MilestoneID,
		Status:      req.Status,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *handlerImpl) HandleDeletePlan(c *gin.Context) {
	err := h.runs.DeletePlan(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleListWebhooks(c *gin.Context) {
	hooks, err := h.runs.ListWebhooks(c, c.Query("project_id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, hooks)
}

type createWebhookRequest struct {
	ProjectID string   `json:"projectId" binding:"required"`
	URL       string   `json:"url" binding:"required,url"`
	Events    []string `json:"events"`
}

func (h *handlerImpl) HandleCreateWebhook(c *gin.Context) {
	var req createWebhookRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	hook, err := h.runs.CreateWebhook(c, req.ProjectID, req.URL, req.Events)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hook)
}

type updateWebhookRequest struct {
	URL    *string   `json:"url,omitempty"`
	Events *[]string `json:"events,omitempty"`
	Active *bool     `json:"active,omitempty"`
}

func (h *handlerImpl) HandleUpdateWebhook(c *gin.Context) {
	var req updateWebhookRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	hook, err := h.runs.UpdateWebhook(c, c.Param("id"), services.WebhookPatch{
		URL:    req.URL,
		Events: req.Events,
		Active: req.Active,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, hook)
}

func (h *handlerImpl) HandleDeleteWebhook(c *gin.Context) {
	err := h.runs.DeleteWebhook(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
