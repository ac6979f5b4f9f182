package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlerImpl) HandleDatabaseStats(c *gin.Context) {
	stats, err := h.planner.Stats(c)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type databaseActionRequest struct {
	Action string `json:"action" binding:"required"`
}

func (h *handlerImpl) HandleDatabaseAction(c *gin.Context) {
	var req databaseActionRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	switch req.Action {
	case "clean":
		err = h.planner.Clean(c)
	case "seed":
		err = h.planner.Seed(c)
	case "reset":
		err = h.planner.Reset(c)
	default:
		h.logger.Error().
			Str("action", req.Action).
			Msg("invalid database action")
		abort(c, newBadRequestError("unknown action"))
		return
	}
	if err != nil {
		abortServiceError(c, err)
		return
	}

	stats, err := h.planner.Stats(c)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"action": req.Action,
		"stats":  stats,
	})
}
