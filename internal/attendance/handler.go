package attendance

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/attendance", h.GetAttendance)
	r.POST("/attendance", h.SubmitAttendance)
	// PUT computes the monthly summary for the filters in the body.
	r.PUT("/attendance", h.MonthlySummary)
	r.GET("/attendance/alerts", h.ListAlerts)
}

// GetAttendance godoc
// @Summary  List attendance records for one date
// @Param    school_id query string true  "school id"
// @Param    date      query string false "YYYY-MM-DD, defaults to today"
// @Param    class_id  query string false "class id"
// @Success  200 {array} RecordDetailResponse
// @Router   /attendance [get]
func (h *Handler) GetAttendance(c *gin.Context) {
	var classID *string
	if v := c.Query("class_id"); v != "" {
		classID = &v
	}

	rows, err := h.svc.GetByDate(c.Request.Context(), c.Query("school_id"), c.Query("date"), classID)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, rows)
}

// SubmitAttendance godoc
// @Summary  Record a batch of attendance for one class and date
// @Accept   json
// @Param    body body SubmitRequest true "submission"
// @Success  200 {object} SubmitResponse
// @Router   /attendance [post]
func (h *Handler) SubmitAttendance(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json"))
		return
	}

	resp, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MonthlySummary godoc
// @Summary  Per-status counts and attendance percentage for one month
// @Accept   json
// @Param    body body MonthlySummaryRequest true "filters"
// @Success  200 {object} MonthlySummaryResponse
// @Router   /attendance [put]
func (h *Handler) MonthlySummary(c *gin.Context) {
	var req MonthlySummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json"))
		return
	}

	resp, err := h.svc.MonthlySummary(c.Request.Context(), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListAlerts(c *gin.Context) {
	q := AlertListQuery{
		SchoolID: c.Query("school_id"),
		Limit:    parseIntDefault(c.Query("limit"), 50),
		Offset:   parseIntDefault(c.Query("offset"), 0),
	}
	if v := c.Query("date"); v != "" {
		q.Date = &v
	}

	rows, err := h.svc.ListAlerts(c.Request.Context(), q)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ---------- helpers ----------

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

type errorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	var msg string
	var code Code = CodeInternal
	if api, ok := err.(*APIError); ok {
		code, msg = api.Code, api.Message
	} else {
		msg = err.Error()
	}
	return errorBody(code, msg)
}
