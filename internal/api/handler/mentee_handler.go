package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mentorlink/attendance-portal/internal/api/metrics"
	"github.com/mentorlink/attendance-portal/internal/core/domain"
	"github.com/mentorlink/attendance-portal/internal/core/ports"
	"github.com/mentorlink/attendance-portal/internal/ingest"
)

// MenteeHandler serves the mentor-facing student routes. Every operation is
// scoped to the authenticated mentor by the service layer.
type MenteeHandler struct {
	students ports.StudentService
	alerts   ports.AlertService
}

func NewMenteeHandler(students ports.StudentService, alerts ports.AlertService) *MenteeHandler {
	return &MenteeHandler{students: students, alerts: alerts}
}

type updateStudentRequest struct {
	FullName         *string  `json:"full_name"`
	Subject          *string  `json:"subject"`
	ActualAttendance *float64 `json:"actual_attendance" validate:"omitempty,gte=0,lte=100"`
	ParentID         *string  `json:"parent_id"`
	ParentName       *string  `json:"parent_name"`
	ParentPhone      *string  `json:"parent_phone"`
	ParentEmail      *string  `json:"parent_email" validate:"omitempty,email"`
}

type uploadResponse struct {
	Processed  int64  `json:"processed"`
	Skipped    int    `json:"skipped"`
	Reassigned int64  `json:"reassigned"`
	Message    string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Stats returns the mentor's dashboard counters.
//
// @Summary      Mentor dashboard stats
// @Tags         mentee
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.MentorStats
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/mentee/stats [get]
func (h *MenteeHandler) Stats(c echo.Context) error {
	mentorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	stats, err := h.students.Stats(c.Request().Context(), mentorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// List returns the mentor's students ordered by name.
//
// @Summary      List owned students
// @Tags         mentee
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Student
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/mentee/students [get]
func (h *MenteeHandler) List(c echo.Context) error {
	mentorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	students, err := h.students.ListOwned(c.Request().Context(), mentorID)
	if err != nil {
		return err
	}
	if students == nil {
		students = []*domain.Student{}
	}
	return c.JSON(http.StatusOK, students)
}

// Get returns a single owned student; 404 covers both "absent" and
// "owned by another mentor".
//
// @Summary      Get an owned student
// @Tags         mentee
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Roll number"
// @Success      200  {object}  domain.Student
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/mentee/students/{id} [get]
func (h *MenteeHandler) Get(c echo.Context) error {
	mentorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	student, err := h.students.GetOwned(c.Request().Context(), mentorID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, student)
}

// Update merges a partial field set into an owned student.
//
// @Summary      Update an owned student
// @Tags         mentee
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Roll number"
// @Param        body  body      updateStudentRequest  true  "Fields to update"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/mentee/students/{id} [put]
func (h *MenteeHandler) Update(c echo.Context) error {
	mentorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := ports.StudentUpdate{
		FullName:         req.FullName,
		Subject:          req.Subject,
		ActualAttendance: req.ActualAttendance,
		ParentID:         req.ParentID,
		ParentName:       req.ParentName,
		ParentPhone:      req.ParentPhone,
		ParentEmail:      req.ParentEmail,
	}
	if err := h.students.UpdateOwned(c.Request().Context(), mentorID, c.Param("id"), update); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "student updated"})
}

// Upload ingests a roster spreadsheet and upserts its rows under the
// caller's ownership.
//
// @Summary      Upload a roster spreadsheet
// @Tags         mentee
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Roster .xlsx file"
// @Success      200   {object}  uploadResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/mentee/upload [post]
func (h *MenteeHandler) Upload(c echo.Context) error {
	mentorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer f.Close()

	rows, err := ingest.ParseRoster(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid spreadsheet: "+err.Error())
	}

	result, err := h.students.ImportRoster(c.Request().Context(), mentorID, rows)
	if err != nil {
		return err
	}

	metrics.RosterRowsImportedTotal.Add(float64(result.Processed))
	metrics.RosterRowsSkippedTotal.Add(float64(result.Skipped))
	metrics.RosterReassignedTotal.Add(float64(result.Reassigned))

	return c.JSON(http.StatusOK, uploadResponse{
		Processed:  result.Processed,
		Skipped:    result.Skipped,
		Reassigned: result.Reassigned,
		Message:    "roster synced to your mentor account",
	})
}

// SendAlert triggers a manual low-attendance notification for an owned
// student. Delivery is asynchronous; 202 means queued, not delivered.
//
// @Summary      Trigger a low-attendance alert
// @Tags         mentee
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Roll number"
// @Success      202  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      429  {object}  errorResponse
// @Router       /api/mentee/students/{id}/send-alert [post]
func (h *MenteeHandler) SendAlert(c echo.Context) error {
	mentorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	rollNo := c.Param("id")
	if err := h.alerts.Trigger(c.Request().Context(), mentorID, rollNo); err != nil {
		if errors.Is(err, domain.ErrAlertThrottled) {
			metrics.AlertsTriggeredTotal.WithLabelValues("throttled").Inc()
		} else {
			metrics.AlertsTriggeredTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}

	metrics.AlertsTriggeredTotal.WithLabelValues("queued").Inc()
	return c.JSON(http.StatusAccepted, messageResponse{Message: "alert queued for " + rollNo})
}
