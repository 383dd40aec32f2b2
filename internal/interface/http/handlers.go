package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gradepoint/gradepoint/internal/application/command"
	"github.com/gradepoint/gradepoint/internal/application/query"
	"github.com/gradepoint/gradepoint/internal/domain/grading"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
	"github.com/gradepoint/gradepoint/internal/interface/http/handlers"
	"github.com/gradepoint/gradepoint/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":    "GradePoint API",
		"version": s.config.Version,
		"endpoints": map[string]string{
			"health":      "/health",
			"overview":    "/api/v1/overview",
			"gpa":         "/api/v1/gpa",
			"courses":     "/api/v1/courses",
			"calculators": "/api/v1/calculators/final-exam",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": s.config.Version,
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// USER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type registerUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Secret      string `json:"secret"`
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// handleRegisterUser handles POST /api/v1/users
func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	if s.deps.RegisterUserHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Registration not configured")
		return
	}

	var req registerUserRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	u, err := s.deps.RegisterUserHandler.Handle(r.Context(), command.RegisterUserCommand{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Secret:      req.Secret,
	})
	if err != nil {
		s.writeDomainError(w, r, "register user", err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
	})
}

// handleGetMe handles GET /api/v1/me
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	if s.deps.Users == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "User store not configured")
		return
	}

	u, err := s.deps.Users.GetByID(r.Context(), handlers.UserIDFromContext(r.Context()))
	if err != nil {
		s.writeDomainError(w, r, "get me", err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// READ MODEL HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetOverview handles GET /api/v1/overview
func (s *Server) handleGetOverview(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetOverviewHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Overview handler not configured")
		return
	}

	result, err := s.deps.GetOverviewHandler.Handle(r.Context(), query.GetOverviewQuery{
		UserID:      handlers.UserIDFromContext(r.Context()),
		BypassCache: getQueryParamBool(r, "refresh"),
	})
	if err != nil {
		s.writeDomainError(w, r, "get overview", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetGPASummary handles GET /api/v1/gpa
func (s *Server) handleGetGPASummary(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetGPASummaryHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "GPA handler not configured")
		return
	}

	userID := handlers.UserIDFromContext(r.Context())
	refresh := getQueryParamBool(r, "refresh")

	if s.deps.GPACache != nil && !refresh {
		if cached, ok := s.deps.GPACache.GetGPA(r.Context(), userID); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	result, err := s.deps.GetGPASummaryHandler.Handle(r.Context(), query.GetGPASummaryQuery{UserID: userID})
	if err != nil {
		s.writeDomainError(w, r, "get gpa summary", err)
		return
	}

	if s.deps.GPACache != nil {
		s.deps.GPACache.SetGPA(r.Context(), userID, result)
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetBreakdown handles GET /api/v1/courses/{id}/breakdown
func (s *Server) handleGetBreakdown(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetCourseBreakdownHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Breakdown handler not configured")
		return
	}

	result, err := s.deps.GetCourseBreakdownHandler.Handle(r.Context(), query.GetCourseBreakdownQuery{
		UserID:        handlers.UserIDFromContext(r.Context()),
		CourseID:      r.PathValue("id"),
		TargetOverall: getQueryParamFloat(r, "target", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, "get course breakdown", err)
		return
	}

	// A nil breakdown is a valid empty state: the course has no validly
	// weighted rows yet.
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// SEMESTER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createSemesterRequest struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	MakeCurrent bool   `json:"make_current"`
}

type updateSemesterRequest struct {
	Name   *string `json:"name,omitempty"`
	Status *string `json:"status,omitempty"`
}

// handleCreateSemester handles POST /api/v1/semesters
func (s *Server) handleCreateSemester(w http.ResponseWriter, r *http.Request) {
	if s.deps.SemesterHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Semester handler not configured")
		return
	}

	var req createSemesterRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sem, err := s.deps.SemesterHandler.Create(r.Context(), command.CreateSemesterCommand{
		UserID:      handlers.UserIDFromContext(r.Context()),
		Name:        req.Name,
		Status:      req.Status,
		MakeCurrent: req.MakeCurrent,
	})
	if err != nil {
		s.writeDomainError(w, r, "create semester", err)
		return
	}

	writeJSON(w, http.StatusCreated, sem)
}

// handleUpdateSemester handles PATCH /api/v1/semesters/{id}. Renames and
// status transitions may be combined; the rename applies first.
func (s *Server) handleUpdateSemester(w http.ResponseWriter, r *http.Request) {
	if s.deps.SemesterHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Semester handler not configured")
		return
	}

	var req updateSemesterRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Name == nil && req.Status == nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Nothing to update")
		return
	}

	userID := handlers.UserIDFromContext(r.Context())
	semesterID := r.PathValue("id")

	if req.Name != nil {
		err := s.deps.SemesterHandler.Rename(r.Context(), command.RenameSemesterCommand{
			UserID:     userID,
			SemesterID: semesterID,
			Name:       *req.Name,
		})
		if err != nil {
			s.writeDomainError(w, r, "rename semester", err)
			return
		}
	}

	if req.Status != nil {
		err := s.deps.SemesterHandler.UpdateStatus(r.Context(), command.UpdateSemesterStatusCommand{
			UserID:     userID,
			SemesterID: semesterID,
			Status:     *req.Status,
		})
		if err != nil {
			s.writeDomainError(w, r, "update semester status", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleSetCurrentSemester handles POST /api/v1/semesters/{id}/current
func (s *Server) handleSetCurrentSemester(w http.ResponseWriter, r *http.Request) {
	if s.deps.SemesterHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Semester handler not configured")
		return
	}

	err := s.deps.SemesterHandler.SetCurrent(r.Context(), command.SetCurrentSemesterCommand{
		UserID:     handlers.UserIDFromContext(r.Context()),
		SemesterID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, "set current semester", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "current"})
}

// handleDeleteSemester handles DELETE /api/v1/semesters/{id}
func (s *Server) handleDeleteSemester(w http.ResponseWriter, r *http.Request) {
	if s.deps.SemesterHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Semester handler not configured")
		return
	}

	err := s.deps.SemesterHandler.Delete(r.Context(), command.DeleteSemesterCommand{
		UserID:     handlers.UserIDFromContext(r.Context()),
		SemesterID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, "delete semester", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createCourseRequest struct {
	Name        string  `json:"name"`
	SemesterID  string  `json:"semester_id"`
	CreditHours float64 `json:"credit_hours"`
}

// updateCourseRequest carries partial course edits. Pointer fields
// distinguish "absent" from zero values: an explicit empty scale reverts
// to the default, an explicit empty semester ID detaches the course.
type updateCourseRequest struct {
	Name        *string        `json:"name,omitempty"`
	CreditHours *float64       `json:"credit_hours,omitempty"`
	GradeType   *string        `json:"grade_type,omitempty"`
	Scale       *grading.Scale `json:"scale,omitempty"`
	SemesterID  *string        `json:"semester_id,omitempty"`
}

// handleListCourses handles GET /api/v1/courses
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListCoursesHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Course handler not configured")
		return
	}

	result, err := s.deps.ListCoursesHandler.Handle(r.Context(), query.ListCoursesQuery{
		UserID:     handlers.UserIDFromContext(r.Context()),
		SemesterID: getQueryParam(r, "semester_id", ""),
	})
	if err != nil {
		s.writeDomainError(w, r, "list courses", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleCreateCourse handles POST /api/v1/courses
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	if s.deps.CreateCourseHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Course handler not configured")
		return
	}

	var req createCourseRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	c, err := s.deps.CreateCourseHandler.Handle(r.Context(), command.CreateCourseCommand{
		UserID:      handlers.UserIDFromContext(r.Context()),
		Name:        req.Name,
		SemesterID:  req.SemesterID,
		CreditHours: req.CreditHours,
	})
	if err != nil {
		s.writeDomainError(w, r, "create course", err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// handleUpdateCourse handles PATCH /api/v1/courses/{id}. Each present
// field is applied as its own validated update; the first failure stops
// the sequence and nothing after it is applied.
func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	if s.deps.UpdateCourseHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Course handler not configured")
		return
	}

	var req updateCourseRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	userID := handlers.UserIDFromContext(r.Context())
	courseID := r.PathValue("id")
	h := s.deps.UpdateCourseHandler

	type step struct {
		op    string
		apply func() error
	}

	var steps []step
	if req.Name != nil {
		steps = append(steps, step{"rename course", func() error {
			return h.Rename(r.Context(), command.RenameCourseCommand{UserID: userID, CourseID: courseID, Name: *req.Name})
		}})
	}
	if req.CreditHours != nil {
		steps = append(steps, step{"update course credits", func() error {
			return h.UpdateCredits(r.Context(), command.UpdateCourseCreditsCommand{UserID: userID, CourseID: courseID, Credits: *req.CreditHours})
		}})
	}
	if req.GradeType != nil {
		steps = append(steps, step{"update course grade type", func() error {
			return h.UpdateGradeType(r.Context(), command.UpdateCourseGradeTypeCommand{UserID: userID, CourseID: courseID, GradeType: grading.GradeType(*req.GradeType)})
		}})
	}
	if req.Scale != nil {
		steps = append(steps, step{"update course scale", func() error {
			return h.UpdateScale(r.Context(), command.UpdateCourseScaleCommand{UserID: userID, CourseID: courseID, Scale: *req.Scale})
		}})
	}
	if req.SemesterID != nil {
		steps = append(steps, step{"assign course semester", func() error {
			return h.AssignSemester(r.Context(), command.AssignCourseSemesterCommand{UserID: userID, CourseID: courseID, SemesterID: *req.SemesterID})
		}})
	}

	if len(steps) == 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Nothing to update")
		return
	}

	for _, st := range steps {
		if err := st.apply(); err != nil {
			s.writeDomainError(w, r, st.op, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleDeleteCourse handles DELETE /api/v1/courses/{id}
func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if s.deps.DeleteCourseHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Course handler not configured")
		return
	}

	err := s.deps.DeleteCourseHandler.Handle(r.Context(), command.DeleteCourseCommand{
		UserID:   handlers.UserIDFromContext(r.Context()),
		CourseID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, "delete course", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ══════════════════════════════════════════════════════════════════════════════
// GRADE ROW HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type upsertGradeRowRequest struct {
	AssignmentName string `json:"assignment_name"`
	Grade          string `json:"grade"`
	Weight         string `json:"weight"`
}

// handleListGradeRows handles GET /api/v1/courses/{id}/rows
func (s *Server) handleListGradeRows(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListGradeRowsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Grade row handler not configured")
		return
	}

	result, err := s.deps.ListGradeRowsHandler.Handle(r.Context(), query.ListGradeRowsQuery{
		UserID:   handlers.UserIDFromContext(r.Context()),
		CourseID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, "list grade rows", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleUpsertGradeRow handles PUT /api/v1/courses/{id}/rows/{key}.
// Saving the same key twice updates in place - the client fires a save
// per keystroke and the row key makes that idempotent.
func (s *Server) handleUpsertGradeRow(w http.ResponseWriter, r *http.Request) {
	if s.deps.UpsertGradeRowHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Grade row handler not configured")
		return
	}

	var req upsertGradeRowRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	item, err := s.deps.UpsertGradeRowHandler.Handle(r.Context(), command.UpsertGradeRowCommand{
		UserID:         handlers.UserIDFromContext(r.Context()),
		CourseID:       r.PathValue("id"),
		RowKey:         r.PathValue("key"),
		AssignmentName: req.AssignmentName,
		GradeInput:     req.Grade,
		WeightInput:    req.Weight,
	})
	if err != nil {
		s.writeDomainError(w, r, "upsert grade row", err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// handleDeleteGradeRow handles DELETE /api/v1/courses/{id}/rows/{key}
func (s *Server) handleDeleteGradeRow(w http.ResponseWriter, r *http.Request) {
	if s.deps.GradeRowDeleteHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Grade row handler not configured")
		return
	}

	err := s.deps.GradeRowDeleteHandler.Remove(r.Context(), command.RemoveGradeRowCommand{
		UserID:   handlers.UserIDFromContext(r.Context()),
		CourseID: r.PathValue("id"),
		RowKey:   r.PathValue("key"),
	})
	if err != nil {
		s.writeDomainError(w, r, "delete grade row", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleClearGradeRows handles DELETE /api/v1/courses/{id}/rows
func (s *Server) handleClearGradeRows(w http.ResponseWriter, r *http.Request) {
	if s.deps.GradeRowDeleteHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Grade row handler not configured")
		return
	}

	err := s.deps.GradeRowDeleteHandler.Clear(r.Context(), command.ClearCourseGradesCommand{
		UserID:   handlers.UserIDFromContext(r.Context()),
		CourseID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, "clear grade rows", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ══════════════════════════════════════════════════════════════════════════════
// CALCULATOR HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleFinalExamCalc handles POST /api/v1/calculators/final-exam
func (s *Server) handleFinalExamCalc(w http.ResponseWriter, r *http.Request) {
	if s.deps.CalculatorHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Calculator not configured")
		return
	}

	var req query.FinalExamQuery
	if !s.decodeJSON(w, r, &req) {
		return
	}

	// Nil means the inputs do not describe a solvable projection; the
	// client renders an empty result, so this is 200 with no data.
	writeJSON(w, http.StatusOK, s.deps.CalculatorHandler.FinalExam(r.Context(), req))
}

// handleQuickGPACalc handles POST /api/v1/calculators/quick-gpa
func (s *Server) handleQuickGPACalc(w http.ResponseWriter, r *http.Request) {
	if s.deps.CalculatorHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Calculator not configured")
		return
	}

	var req query.QuickGPAQuery
	if !s.decodeJSON(w, r, &req) {
		return
	}

	writeJSON(w, http.StatusOK, s.deps.CalculatorHandler.QuickGPA(r.Context(), req))
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST / ERROR HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeJSON decodes the request body into dest, writing a 400 on
// failure. Returns false when the response has already been written.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "Request body is required")
			return false
		}
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return false
	}
	return true
}

// writeDomainError maps a domain error to an HTTP status. Not-found
// covers foreign records too: ownership failures are indistinguishable
// from missing records by design.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, shared.ErrAlreadyExists):
		writeJSONError(w, http.StatusConflict, "already_exists", "Resource already exists")
	case shared.IsUnauthorized(err):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid credentials")
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		s.logger.Error("request failed",
			logger.Operation(op),
			logger.Err(err),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
