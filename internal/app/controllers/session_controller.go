package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/app/models/dto"
	"github.com/yigit/academia/internal/app/services"
	"github.com/yigit/academia/internal/middleware"
)

// SessionController exposes academic session lifecycle operations
type SessionController struct {
	lifecycle  services.LifecycleService
	enrollment services.EnrollmentService
	advisor    services.PromotionAdvisor
	clock      services.Clock
}

// NewSessionController creates a new SessionController
func NewSessionController(
	lifecycle services.LifecycleService,
	enrollment services.EnrollmentService,
	advisor services.PromotionAdvisor,
	clock services.Clock,
) *SessionController {
	if clock == nil {
		clock = services.SystemClock
	}
	return &SessionController{
		lifecycle:  lifecycle,
		enrollment: enrollment,
		advisor:    advisor,
		clock:      clock,
	}
}

func badRequest(ctx *gin.Context, message, details string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message).WithDetails(details)
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// departmentParam parses :deptId, writing a 400 response when it is malformed.
func departmentParam(ctx *gin.Context) (int64, bool) {
	deptID, err := strconv.ParseInt(ctx.Param("deptId"), 10, 64)
	if err != nil || deptID <= 0 {
		badRequest(ctx, "Invalid department ID", "Department ID must be a positive number")
		return 0, false
	}
	return deptID, true
}

func actorFrom(ctx *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
	}
	return actor, ok
}

// sessionIDParam reads :id without surrounding whitespace.
func sessionIDParam(ctx *gin.Context) string {
	return strings.TrimSpace(ctx.Param("id"))
}

// scopedSession resolves :deptId and :id and confirms the session belongs to
// the department before any command runs against it.
func (c *SessionController) scopedSession(ctx *gin.Context) (string, bool) {
	deptID, ok := departmentParam(ctx)
	if !ok {
		return "", false
	}
	id := sessionIDParam(ctx)
	if _, err := c.lifecycle.GetSession(ctx, deptID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return "", false
	}
	return id, true
}

type sessionCommand func(ctx *gin.Context, actor models.Actor, id string) (*models.AcademicSession, error)

// runCommand executes a body-less command and writes the post-state session.
func (c *SessionController) runCommand(ctx *gin.Context, command sessionCommand) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := c.scopedSession(ctx)
	if !ok {
		return
	}

	session, err := command(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(session))
}

// ListSessions lists the sessions of a department
// @Summary List department sessions
// @Description Retrieves every academic session of a department ordered by start year
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param deptId path int true "Department ID"
// @Success 200 {object} dto.APIResponse{data=[]models.AcademicSession} "Sessions retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid department ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.APIResponse "Department not found"
// @Router /sessions/{deptId} [get]
func (c *SessionController) ListSessions(ctx *gin.Context) {
	deptID, ok := departmentParam(ctx)
	if !ok {
		return
	}

	sessions, err := c.lifecycle.ListSessions(ctx, deptID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(sessions))
}

// GetSession retrieves one session
// @Summary Get session
// @Description Retrieves a session of a department by ID
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param deptId path int true "Department ID"
// @Param id path string true "Session ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.AcademicSession} "Session retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Department or session not found"
// @Router /sessions/{deptId}/{id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	deptID, ok := departmentParam(ctx)
	if !ok {
		return
	}

	session, err := c.lifecycle.GetSession(ctx, deptID, sessionIDParam(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(session))
}

// CreateSession approves a new intake
// @Summary Create session
// @Description Approves a new intake for a department. The session starts at semester 1.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param deptId path int true "Department ID"
// @Param request body dto.CreateSessionRequest true "Intake information"
// @Success 201 {object} dto.APIResponse{data=models.AcademicSession} "Session created successfully"
// @Failure 400 {object} dto.APIResponse "Implausible start year, negative capacity or unknown department"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Router /sessions/{deptId} [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	deptID, ok := departmentParam(ctx)
	if !ok {
		return
	}

	var req dto.CreateSessionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	session, err := c.lifecycle.CreateSession(ctx, actor, deptID, req.StartYear, *req.IntakeCapacity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewDataResponse(session))
}

// AdjustCapacity changes the intake capacity
// @Summary Adjust intake capacity
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param deptId path int true "Department ID"
// @Param id path string true "Session ID" Format(uuid)
// @Param request body dto.AdjustCapacityRequest true "New capacity"
// @Success 200 {object} dto.APIResponse{data=models.AcademicSession} "Capacity updated"
// @Failure 400 {object} dto.APIResponse "Capacity negative or below enrolled students"
// @Failure 409 {object} dto.APIResponse "Session is locked or completed"
// @Router /sessions/{deptId}/{id} [put]
func (c *SessionController) AdjustCapacity(ctx *gin.Context) {
	var req dto.AdjustCapacityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.runCommand(ctx, func(ctx *gin.Context, actor models.Actor, id string) (*models.AcademicSession, error) {
		return c.enrollment.AdjustCapacity(ctx, actor, id, *req.IntakeCapacity)
	})
}

// RecordEnrollment records admissions or withdrawals
// @Summary Record enrollment
// @Description Adds delta students to the session; negative values record withdrawals
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param deptId path int true "Department ID"
// @Param id path string true "Session ID" Format(uuid)
// @Param request body dto.EnrollmentRequest true "Enrollment change"
// @Success 200 {object} dto.APIResponse{data=models.AcademicSession} "Enrollment recorded"
// @Failure 409 {object} dto.APIResponse "Enrollment closed or session locked"
// @Failure 422 {object} dto.APIResponse "Intake capacity exceeded"
// @Router /sessions/{deptId}/{id}/enrollment [patch]
func (c *SessionController) RecordEnrollment(ctx *gin.Context) {
	var req dto.EnrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.runCommand(ctx, func(ctx *gin.Context, actor models.Actor, id string) (*models.AcademicSession, error) {
		return c.enrollment.RecordEnrollment(ctx, actor, id, req.Delta)
	})
}

// Activate moves an upcoming session to active
// @Summary Activate session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param deptId path int true "Department ID"
// @Param id path string true "Session ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.AcademicSession} "Session activated"
// @Failure 409 {object} dto.APIResponse "Session is not upcoming"
// @Router /sessions/{deptId}/{id}/activate [patch]
func (c *SessionController) Activate(ctx *gin.Context) {
	c.runCommand(ctx, func(ctx *gin.Context, actor models.Actor, id string) (*models.AcademicSession, error) {
		return c.lifecycle.Activate(ctx, actor, id)
	})
}

// Lock places an administrative hold
// @Summary Lock session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param deptId path int true "Department ID"
// @Param id path string true "Session ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.AcademicSession} "Session locked"
// @Failure 409 {object} dto.APIResponse "Session already locked or completed"
// @Router /sessions/{deptId}/{id}/lock [patch]
func (c *SessionController) Lock(ctx *gin.Context) {
	c.runCommand(ctx, func(ctx *gin.Context, actor models.Actor, id string) (*models.AcademicSession, error) {
		return c.lifecycle.Lock(ctx, actor, id)
	})
}

// Unlock lifts an administrative hold
// @Summary Unlock session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param deptId path int true "Department ID"
// @Param id path string true "Session ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.AcademicSession} "Session unlocked"
// @Failure 409 {object} dto.APIResponse "Session is not locked"
// @Router /sessions/{deptId}/{id}/unlock [patch]
func (c *SessionController) Unlock(ctx *gin.Context) {
	c.runCommand(ctx, func(ctx *gin.Context, actor models.Actor, id string) (*models.AcademicSession, error) {
		return c.lifecycle.Unlock(ctx, actor, id)
	})
}

// CloseEnrollment closes the enrollment window
// @Summary Close enrollment
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param deptId path int true "Department ID"
// @Param id path string true "Session ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.AcademicSession} "Enrollment closed"
// @Failure 409 {object} dto.APIResponse "Session is locked or completed"
// @Router /sessions/{deptId}/{id}/close-enrollment [patch]
func (c *SessionController) CloseEnrollment(ctx *gin.Context) {
	c.runCommand(ctx, func(ctx *gin.Context, actor models.Actor, id string) (*models.AcademicSession, error) {
		return c.lifecycle.CloseEnrollment(ctx, actor, id)
	})
}

// PromoteSemester advances the session one semester
// @Summary Promote session
// @Description Advances an active session one semester, or completes it from semester 8. A reason is mandatory.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param deptId path int true "Department ID"
// @Param id path string true "Session ID" Format(uuid)
// @Param request body dto.PromoteRequest true "Audit reason"
// @Success 200 {object} dto.APIResponse{data=models.AcademicSession} "Session promoted"
// @Failure 400 {object} dto.APIResponse "Reason missing"
// @Failure 409 {object} dto.APIResponse "Session is not active, or was modified concurrently"
// @Router /sessions/{deptId}/{id}/promote [patch]
func (c *SessionController) PromoteSemester(ctx *gin.Context) {
	var req dto.PromoteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.runCommand(ctx, func(ctx *gin.Context, actor models.Actor, id string) (*models.AcademicSession, error) {
		return c.lifecycle.PromoteSemester(ctx, actor, id, req.Reason)
	})
}

// ListOverdue lists sessions whose promotion date has passed
// @Summary List overdue sessions
// @Description Active sessions of a department whose next promotion date has passed, oldest first
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param deptId path int true "Department ID"
// @Success 200 {object} dto.APIResponse{data=[]models.AcademicSession} "Overdue sessions"
// @Failure 404 {object} dto.APIResponse "Department not found"
// @Router /sessions/{deptId}/overdue [get]
func (c *SessionController) ListOverdue(ctx *gin.Context) {
	deptID, ok := departmentParam(ctx)
	if !ok {
		return
	}

	sessions, err := c.advisor.ListOverdue(ctx, deptID, c.clock())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(sessions))
}
