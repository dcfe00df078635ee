package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mentorlink/attendance-portal/internal/core/ports"
)

// ParentHandler serves the parent-facing routes.
type ParentHandler struct {
	students ports.StudentService
}

func NewParentHandler(students ports.StudentService) *ParentHandler {
	return &ParentHandler{students: students}
}

type parentDashboardResponse struct {
	Message      string `json:"message"`
	Instructions string `json:"instructions"`
}

// Child looks a student up by public identifier (roll number or the
// parent-facing id printed on the roster) and includes the owning mentor's
// contact projection. Unassigned records resolve to the sentinel projection
// rather than failing.
//
// @Summary      Look up a child's record
// @Tags         parent
// @Produce      json
// @Security     BearerAuth
// @Param        identifier  path      string  true  "Roll number or parent id"
// @Success      200         {object}  ports.ChildLookup
// @Failure      401         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/parent/child/{identifier} [get]
func (h *ParentHandler) Child(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	lookup, err := h.students.LookupByPublicID(c.Request().Context(), c.Param("identifier"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lookup)
}

// Dashboard returns the static parent-portal greeting.
//
// @Summary      Parent dashboard greeting
// @Tags         parent
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  parentDashboardResponse
// @Router       /api/parent/dashboard [get]
func (h *ParentHandler) Dashboard(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, parentDashboardResponse{
		Message:      "Welcome to the Parent Portal",
		Instructions: "Enter your Parent ID to view your child's live attendance.",
	})
}
