package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"planboard/internal/timeline"
)

type timelineColumn struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

type timelineResponse struct {
	Zoom      string           `json:"zoom"`
	Start     string           `json:"start"`
	End       string           `json:"end"`
	TotalDays int              `json:"totalDays"`
	Columns   []timelineColumn `json:"columns"`
}

// HandleTimeline computes the visible window for a reference date and zoom
// level. An optional navigate=prev|next query shifts the reference first.
func (h *handlerImpl) HandleTimeline(c *gin.Context) {
	zoom := timeline.Zoom(c.DefaultQuery("zoom", string(timeline.ZoomWeek)))
	if !zoom.Valid() {
		h.logger.Error().
			Str("zoom", string(zoom)).
			Msg("invalid zoom level")
		abort(c, newBadRequestError("unknown zoom level"))
		return
	}

	ref := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := timeline.ParseDate(raw)
		if err != nil {
			h.logger.Error().
				Err(err).
				Str("date", raw).
				Msg("invalid reference date")
			abort(c, newBadRequestError("invalid date"))
			return
		}
		ref = parsed
	}

	switch c.Query("navigate") {
	case "":
	case "next":
		ref = timeline.Navigate(ref, zoom, true)
	case "prev":
		ref = timeline.Navigate(ref, zoom, false)
	default:
		abort(c, newBadRequestError("unknown navigate direction"))
		return
	}

	window := timeline.NewWindow(ref, zoom)

	columns := make([]timelineColumn, len(window.Columns))
	for i, col := range window.Columns {
		columns[i] = timelineColumn{
			Date:  timeline.FormatDate(col),
			Label: timeline.Label(col, zoom),
		}
	}

	c.JSON(http.StatusOK, timelineResponse{
		Zoom:      string(zoom),
		Start:     timeline.FormatDate(window.Start),
		End:       timeline.FormatDate(window.End),
		TotalDays: window.TotalDays(),
		Columns:   columns,
	})
}
