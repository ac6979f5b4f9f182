package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"planboard/internal/services"
)

func (h *handlerImpl) HandleListTestProjects(c *gin.Context) {
	projects, err := h.suites.ListProjects(c)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *handlerImpl) HandleGetTestProject(c *gin.Context) {
	project, err := h.suites.GetProject(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

type createTestProjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Key         string `json:"key" binding:"required,max=16"`
	Description string `json:"description"`
}

func (h *handlerImpl) HandleCreateTestProject(c *gin.Context) {
	var req createTestProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.suites.CreateProject(c, req.Name, req.Key, req.Description)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

type updateTestProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Key         *string `json:"key,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (h *handlerImpl) HandleUpdateTestProject(c *gin.Context) {
	var req updateTestProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.suites.UpdateProject(c, c.Param("id"), services.TestProjectPatch{
		Name:        req.Name,
		Key:         req.Key,
		Description: req.Description,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *handlerImpl) HandleDeleteTestProject(c *gin.Context) {
	err := h.suites.DeleteProject(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleListSuites(c *gin.Context) {
	suites, err := h.suites.ListSuites(c, c.Query("project_id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, suites)
}

func (h *handlerImpl) HandleGetSuite(c *gin.Context) {
	suite, err := h.suites.GetSuite(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, suite)
}

type createSuiteRequest struct {
	ProjectID   string `json:"projectId" binding:"required"`
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

func (h *handlerImpl) HandleCreateSuite(c *gin.Context) {
	var req createSuiteRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	suite, err := h.suites.CreateSuite(c, req.ProjectID, req.Name, req.Description)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, suite)
}

func (h *handlerImpl) HandleDeleteSuite(c *gin.Context) {
	err := h.suites.DeleteSuite(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleListSections(c *gin.Context) {
	sections, err := h.suites.ListSections(c, c.Query("suite_id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sections)
}

type createSectionRequest struct {
	SuiteID  string `json:"suiteId" binding:"required"`
	ParentID string `json:"parentId"`
	Name     string `json:"name" binding:"required,max=255"`
}

func (h *handlerImpl) HandleCreateSection(c *gin.Context) {
	var req createSectionRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	section, err := h.suites.CreateSection(c, req.SuiteID, req.ParentID, req.Name)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

func (h *handlerImpl) HandleDeleteSection(c *gin.Context) {
	err := h.suites.DeleteSection(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleListCases(c *gin.Context) {
	cases, err := h.suites.ListCases(c, c.Query("project_id"), c.Query("suite_id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cases)
}

func (h *handlerImpl) HandleGetCase(c *gin.Context) {
	withSteps, err := h.suites.GetCase(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, withSteps)
}

type createCaseRequest struct {
	SuiteID   string `json:"suiteId" binding:"required"`
	SectionID string `json:"sectionId"`
	Title     string `json:"title" binding:"required,max=512"`
}

func (h *handlerImpl) HandleCreateCase(c *gin.Context) {
	var req createCaseRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	created, err := h.suites.CreateCase(c, req.SuiteID, req.SectionID, req.Title)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

type updateCaseRequest struct {
	Title         *string              `json:"title,omitempty"`
	Description   *string              `json:"description,omitempty"`
	Preconditions *string              `json:"preconditions,omitempty"`
	Priority      *string              `json:"priority,omitempty"`
	Type          *string              `json:"type,omitempty"`
	Tags          *[]string            `json:"tags,omitempty"`
	Refs          *[]string            `json:"refs,omitempty"`
	SectionID     *string              `json:"sectionId,omitempty"`
	Steps         []services.StepInput `json:"steps,omitempty"`
}

func (h *handlerImpl) HandleUpdateCase(c *gin.Context) {
	var req updateCaseRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	updated, err := h.suites.UpdateCase(c, c.Param("id"), services.CasePatch{
		Title:         req.Title,
		Description:   req.Description,
		Preconditions: req.Preconditions,
		Priority:      req.Priority,
		Type:          req.Type,
		Tags:          req.Tags,
		Refs:          req.Refs,
		SectionID:     req.SectionID,
	}, req.Steps)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlerImpl) HandleDeleteCase(c *gin.Context) {
	err := h.suites.DeleteCase(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleExportCasesCSV(c *gin.Context) {
	data, err := h.suites.ExportCasesCSV(c, c.Query("project_id"), c.Query("suite_id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="cases.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *handlerImpl) HandleImportCasesCSV(c *gin.Context) {
	suiteID := c.Query("suite_id")
	if suiteID == "" {
		abort(c, newBadRequestError("suite_id is required"))
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to read multipart file")
		abort(c, newBadRequestError("file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to read file contents")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	imported, err := h.suites.ImportCasesCSV(c, suiteID, data)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": imported})
}
