package evaluationhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/domain/approval"
	"appraisal/internal/domain/audit"
	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/core"
	"appraisal/internal/domain/notifications"
	"appraisal/internal/domain/reports"
	"appraisal/internal/domain/review"
	"appraisal/internal/domain/scoring"
	"appraisal/internal/transport/http/api"
	"appraisal/internal/transport/http/middleware"
	"appraisal/internal/transport/http/shared"
)

type Handler struct {
	Reviews   *review.Service
	Approvals *approval.Service
	Employees *core.Store
	Notify    *notifications.Service
	Audit     *audit.Service
}

func NewHandler(reviews *review.Service, approvals *approval.Service, employees *core.Store, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Reviews: reviews, Approvals: approvals, Employees: employees, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/evaluations", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleHR, auth.RoleEvaluator)).Post("/", h.handleCreateDraft)
		r.Get("/", h.handleList)
		r.Get("/eligibility", h.handleEligibility)
		r.Get("/{evaluationID}", h.handleGet)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleHR, auth.RoleEvaluator)).Put("/{evaluationID}", h.handleUpdateDraft)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleHR, auth.RoleEvaluator)).Post("/{evaluationID}/select-type", h.handleSelectType)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleHR, auth.RoleEvaluator)).Post("/{evaluationID}/submit", h.handleSubmit)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleHR, auth.RoleEmployee)).Post("/{evaluationID}/approve/employee", h.handleEmployeeApprove)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleHR, auth.RoleEvaluator)).Post("/{evaluationID}/approve/evaluator", h.handleEvaluatorApprove)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleHR, auth.RoleEmployee)).Post("/{evaluationID}/reject", h.handleReject)
		r.Get("/{evaluationID}/history", h.handleHistory)
		r.Get("/{evaluationID}/export", h.handleExport)
	})
}

type draftPayload struct {
	EmployeeID    string               `json:"employeeId"`
	EvaluatorID   string               `json:"evaluatorId"`
	PeriodStart   string               `json:"periodStart"`
	PeriodEnd     string               `json:"periodEnd"`
	Scores        scoring.ScoreSheet   `json:"scores"`
	Comments      map[string]string    `json:"comments"`
	Selection     review.TypeSelection `json:"selection"`
	PriorityNotes string               `json:"priorityNotes"`
	Remarks       string               `json:"remarks"`
}

type signaturePayload struct {
	Artifact string `json:"artifact"`
	Comments string `json:"comments"`
}

func (h *Handler) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload draftPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.Required("employeeId", payload.EmployeeID, "employeeId is required")
	start, _ := validator.Date("periodStart", payload.PeriodStart)
	end, _ := validator.Date("periodEnd", payload.PeriodEnd)
	validator.DateOrder("periodStart", start, "periodEnd", end)
	if err := payload.Selection.Validate(); err != nil {
		validator.Add("selection", err.Error())
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	evaluatorID := payload.EvaluatorID
	if evaluatorID == "" {
		evaluatorID = user.UserID
	}
	draft := review.Draft{
		EmployeeID:    payload.EmployeeID,
		EvaluatorID:   evaluatorID,
		PeriodStart:   start,
		PeriodEnd:     end,
		Scores:        payload.Scores,
		Comments:      payload.Comments,
		Selection:     payload.Selection,
		PriorityNotes: payload.PriorityNotes,
		Remarks:       payload.Remarks,
	}

	record, err := h.Reviews.CreateDraft(r.Context(), draft)
	if err != nil {
		h.failDomain(w, r, "evaluation_create_failed", err)
		return
	}
	h.audit(r, user.UserID, "evaluation.create", record.ID, map[string]string{"employeeId": record.EmployeeID})
	api.Created(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	filter := review.ListFilter{
		EmployeeID:  r.URL.Query().Get("employeeId"),
		EvaluatorID: r.URL.Query().Get("evaluatorId"),
		Status:      r.URL.Query().Get("status"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	}

	// Non-privileged callers only see records they participate in.
	switch {
	case auth.CanViewAll(user.Role):
	case user.Role == auth.RoleEvaluator:
		filter.EvaluatorID = user.UserID
	default:
		employee, err := h.Employees.FindEmployeeByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Success(w, []review.Evaluation{}, middleware.GetRequestID(r.Context()))
			return
		}
		filter.EmployeeID = employee.ID
	}

	records, err := h.Reviews.List(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_list_failed", "failed to list evaluations", middleware.GetRequestID(r.Context()))
		return
	}
	if records == nil {
		records = []review.Evaluation{}
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEligibility(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId query parameter is required", middleware.GetRequestID(r.Context()))
		return
	}
	year := time.Now().UTC().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "year must be an integer", middleware.GetRequestID(r.Context()))
			return
		}
		year = parsed
	}

	status := h.Reviews.QuarterStatus(r.Context(), employeeID, year)
	api.Success(w, map[string]any{"employeeId": employeeID, "year": year, "quarters": status}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	record, result, err := h.Reviews.Result(r.Context(), chi.URLParam(r, "evaluationID"))
	if err != nil {
		h.failDomain(w, r, "evaluation_get_failed", err)
		return
	}
	if !h.mayView(r, user, record) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not a participant of this evaluation", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"evaluation": record, "result": result}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload draftPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	start, _ := validator.Date("periodStart", payload.PeriodStart)
	end, _ := validator.Date("periodEnd", payload.PeriodEnd)
	validator.DateOrder("periodStart", start, "periodEnd", end)
	if err := payload.Selection.Validate(); err != nil {
		validator.Add("selection", err.Error())
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	draft := review.Draft{
		PeriodStart:   start,
		PeriodEnd:     end,
		Scores:        payload.Scores,
		Comments:      payload.Comments,
		Selection:     payload.Selection,
		PriorityNotes: payload.PriorityNotes,
		Remarks:       payload.Remarks,
	}

	actorID := user.UserID
	if user.Role == auth.RoleAdmin || user.Role == auth.RoleHR {
		// Admin and HR may edit drafts they do not own.
		actorID = ""
	}
	record, err := h.Reviews.UpdateDraft(r.Context(), chi.URLParam(r, "evaluationID"), actorID, draft)
	if err != nil {
		h.failDomain(w, r, "evaluation_update_failed", err)
		return
	}
	h.audit(r, user.UserID, "evaluation.update", record.ID, nil)
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSelectType(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Group  string `json:"group"`
		Member string `json:"member"`
		Custom string `json:"custom"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	actorID := user.UserID
	if user.Role == auth.RoleAdmin || user.Role == auth.RoleHR {
		actorID = ""
	}
	record, err := h.Reviews.SelectType(r.Context(), chi.URLParam(r, "evaluationID"), actorID, payload.Group, payload.Member, payload.Custom)
	if err != nil {
		h.failDomain(w, r, "evaluation_select_type_failed", err)
		return
	}
	h.audit(r, user.UserID, "evaluation.select_type", record.ID, map[string]string{"group": payload.Group, "member": payload.Member})
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	actorID := user.UserID
	if user.Role == auth.RoleAdmin || user.Role == auth.RoleHR {
		actorID = ""
	}
	record, err := h.Reviews.Submit(r.Context(), chi.URLParam(r, "evaluationID"), actorID)
	if err != nil {
		h.failDomain(w, r, "evaluation_submit_failed", err)
		return
	}

	h.audit(r, user.UserID, "evaluation.submit", record.ID, map[string]any{
		"overall": record.Overall,
		"verdict": record.Verdict,
	})
	message := fmt.Sprintf("%s evaluation submitted for approval", record.Selection.Describe())
	if err := h.Notify.Broadcast(r.Context(), notifications.TypeEvaluationSubmitted, message,
		[]string{auth.RoleHR, auth.RoleAdmin, auth.RoleEmployee}, "/evaluations/"+record.ID); err != nil {
		slog.Warn("submit notification failed", "evaluation", record.ID, "err", err)
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployeeApprove(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	evaluationID := chi.URLParam(r, "evaluationID")
	current, err := h.Reviews.Get(r.Context(), evaluationID)
	if err != nil {
		h.failDomain(w, r, "evaluation_approve_failed", err)
		return
	}
	if !auth.CanViewAll(user.Role) && !h.isRecordEmployee(r, user, current) {
		api.Fail(w, http.StatusForbidden, "forbidden", "only the evaluated employee may sign here", middleware.GetRequestID(r.Context()))
		return
	}

	sig, ok := decodeSignature(w, r, user)
	if !ok {
		return
	}
	record, err := h.Approvals.EmployeeApprove(r.Context(), evaluationID, sig)
	if err != nil {
		h.failDomain(w, r, "evaluation_approve_failed", err)
		return
	}
	h.audit(r, user.UserID, "evaluation.approve.employee", record.ID, nil)
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEvaluatorApprove(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	evaluationID := chi.URLParam(r, "evaluationID")
	current, err := h.Reviews.Get(r.Context(), evaluationID)
	if err != nil {
		h.failDomain(w, r, "evaluation_approve_failed", err)
		return
	}
	if !auth.CanViewAll(user.Role) && current.EvaluatorID != user.UserID {
		api.Fail(w, http.StatusForbidden, "forbidden", "only the assigned evaluator may sign here", middleware.GetRequestID(r.Context()))
		return
	}

	sig, ok := decodeSignature(w, r, user)
	if !ok {
		return
	}
	record, err := h.Approvals.EvaluatorApprove(r.Context(), evaluationID, sig)
	if err != nil {
		h.failDomain(w, r, "evaluation_approve_failed", err)
		return
	}
	h.audit(r, user.UserID, "evaluation.approve.evaluator", record.ID, nil)
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	evaluationID := chi.URLParam(r, "evaluationID")
	current, err := h.Reviews.Get(r.Context(), evaluationID)
	if err != nil {
		h.failDomain(w, r, "evaluation_reject_failed", err)
		return
	}
	if !auth.CanViewAll(user.Role) && !h.isRecordEmployee(r, user, current) {
		api.Fail(w, http.StatusForbidden, "forbidden", "only the evaluated employee may reject here", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Approvals.Reject(r.Context(), evaluationID, payload.Reason, user.Name)
	if err != nil {
		h.failDomain(w, r, "evaluation_reject_failed", err)
		return
	}
	h.audit(r, user.UserID, "evaluation.reject", record.ID, map[string]string{"reason": record.RejectReason})
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	entries, err := h.Approvals.History(r.Context(), chi.URLParam(r, "evaluationID"))
	if err != nil {
		h.failDomain(w, r, "evaluation_history_failed", err)
		return
	}
	if entries == nil {
		entries = []approval.HistoryEntry{}
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	record, result, err := h.Reviews.Result(r.Context(), chi.URLParam(r, "evaluationID"))
	if err != nil {
		h.failDomain(w, r, "evaluation_export_failed", err)
		return
	}
	if !h.mayView(r, user, record) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not a participant of this evaluation", middleware.GetRequestID(r.Context()))
		return
	}

	employee, err := h.Employees.GetEmployee(r.Context(), record.EmployeeID)
	if err != nil {
		employee = core.Employee{ID: record.EmployeeID, Name: "Unknown"}
	}
	evaluator := core.Employee{ID: record.EvaluatorID, Name: record.EvaluatorID}
	if resolved, err := h.Employees.FindEmployeeByUserID(r.Context(), record.EvaluatorID); err == nil {
		evaluator = resolved
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=evaluation-%s.pdf", record.ID))
	if err := reports.WriteEvaluationPDF(w, record, result, employee, evaluator); err != nil {
		slog.Warn("evaluation pdf render failed", "evaluation", record.ID, "err", err)
		return
	}
	h.audit(r, user.UserID, "evaluation.export", record.ID, nil)
}

// mayView limits record visibility to participants unless the caller holds a
// privileged role.
func (h *Handler) mayView(r *http.Request, user auth.UserContext, record review.Evaluation) bool {
	if auth.CanViewAll(user.Role) {
		return true
	}
	if record.EvaluatorID == user.UserID {
		return true
	}
	return h.isRecordEmployee(r, user, record)
}

// isRecordEmployee reports whether the caller's login maps to the evaluated
// employee of the record.
func (h *Handler) isRecordEmployee(r *http.Request, user auth.UserContext, record review.Evaluation) bool {
	employee, err := h.Employees.FindEmployeeByUserID(r.Context(), user.UserID)
	return err == nil && employee.ID == record.EmployeeID
}

func decodeSignature(w http.ResponseWriter, r *http.Request, user auth.UserContext) (approval.Signature, bool) {
	var payload signaturePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return approval.Signature{}, false
	}
	return approval.Signature{
		Artifact:  payload.Artifact,
		ActorName: user.Name,
		ActorMail: user.Email,
		Comments:  payload.Comments,
	}, true
}

func (h *Handler) audit(r *http.Request, actorID, action, entityID string, details any) {
	if err := h.Audit.Record(r.Context(), actorID, action, "evaluation", entityID, middleware.GetRequestID(r.Context()), details); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

// failDomain maps domain errors to HTTP statuses; anything unrecognised is a
// 500 with a generic message.
func (h *Handler) failDomain(w http.ResponseWriter, r *http.Request, code string, err error) {
	requestID := middleware.GetRequestID(r.Context())
	var unknownCategory *scoring.UnknownCategoryError
	var indicatorCount *scoring.IndicatorCountError
	switch {
	case errors.Is(err, review.ErrNotFound), errors.Is(err, approval.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "evaluation not found", requestID)
	case errors.Is(err, review.ErrNotEvaluator):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, review.ErrNotDraft),
		errors.Is(err, review.ErrQuarterUsed),
		errors.Is(err, approval.ErrInvalidTransition),
		errors.Is(err, approval.ErrConflict):
		api.Fail(w, http.StatusConflict, code, err.Error(), requestID)
	case errors.Is(err, review.ErrIncompleteScores),
		errors.Is(err, review.ErrNoTypeSelected),
		errors.Is(err, review.ErrUnknownMember),
		errors.Is(err, review.ErrConflictingSelection),
		errors.As(err, &unknownCategory),
		errors.As(err, &indicatorCount):
		api.Fail(w, http.StatusBadRequest, code, err.Error(), requestID)
	default:
		slog.Error("evaluation handler failure", "code", code, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, "internal error", requestID)
	}
}
