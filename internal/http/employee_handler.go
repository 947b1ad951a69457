package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/hr-timesheet/internal/application"
	"github.com/example/hr-timesheet/internal/timesheet"
)

type employeeService interface {
	CreateEmployee(ctx context.Context, params application.CreateEmployeeParams) (application.Employee, error)
	UpdateEmployee(ctx context.Context, params application.UpdateEmployeeParams) (application.Employee, error)
	GetEmployee(ctx context.Context, principal application.Principal, employeeID string) (application.Employee, error)
	ListEmployees(ctx context.Context, principal application.Principal) ([]application.Employee, error)
	DeleteEmployee(ctx context.Context, principal application.Principal, employeeID string) error
}

type EmployeeHandler struct {
	service   employeeService
	responder responder
	logger    *slog.Logger
}

func NewEmployeeHandler(service employeeService, logger *slog.Logger) *EmployeeHandler {
	base := defaultLogger(logger)
	return &EmployeeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EmployeeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EmployeeHandler", operation, attrs...)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.EmployeeID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode employee request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, fieldErrors := req.toInput()
	if len(fieldErrors) > 0 {
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			Message: statusMessage(http.StatusUnprocessableEntity),
			Errors:  fieldErrors,
		})
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.EmployeeID)

	employee, err := h.service.CreateEmployee(r.Context(), application.CreateEmployeeParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "employee creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("employee_id", employee.ID).InfoContext(r.Context(), "employee created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, employeeResponse{Employee: toEmployeeDTO(employee)})
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.EmployeeID, "employee_id", employeeID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode employee update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, fieldErrors := req.toInput()
	if len(fieldErrors) > 0 {
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			Message: statusMessage(http.StatusUnprocessableEntity),
			Errors:  fieldErrors,
		})
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.EmployeeID, "employee_id", employeeID)

	employee, err := h.service.UpdateEmployee(r.Context(), application.UpdateEmployeeParams{
		Principal:  principal,
		EmployeeID: employeeID,
		Input:      input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "employee update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "employee updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, employeeResponse{Employee: toEmployeeDTO(employee)})
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for fetch")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Get", "principal_id", principal.EmployeeID, "employee_id", employeeID)

	employee, err := h.service.GetEmployee(r.Context(), principal, employeeID)
	if err != nil {
		logger.ErrorContext(r.Context(), "employee fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, employeeResponse{Employee: toEmployeeDTO(employee)})
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.EmployeeID, "employee_id", employeeID)
	if err := h.service.DeleteEmployee(r.Context(), principal, employeeID); err != nil {
		logger.ErrorContext(r.Context(), "employee delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "employee deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.EmployeeID)

	employees, err := h.service.ListEmployees(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "employee listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]employeeDTO, 0, len(employees))
	for _, employee := range employees {
		dtos = append(dtos, toEmployeeDTO(employee))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, employeeListResponse{Employees: dtos})
}

type employeeRequest struct {
	EmpID      string  `json:"emp_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department string  `json:"department"`
	Salary     float64 `json:"salary"`
	JoinDate   string  `json:"join_date"`
	Role       string  `json:"role"`
	ManagerID  *string `json:"manager_id"`
	Password   string  `json:"password"`
}

// toInput converts the wire payload into service input. Date parsing happens
// here so the service only ever sees time values.
func (req employeeRequest) toInput() (application.EmployeeInput, map[string]string) {
	input := application.EmployeeInput{
		EmpID:      req.EmpID,
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Salary:     req.Salary,
		Role:       application.Role(req.Role),
		ManagerID:  req.ManagerID,
		Password:   req.Password,
	}

	if value := strings.TrimSpace(req.JoinDate); value != "" {
		joinDate, err := time.ParseInLocation(timesheet.DateFormat, value, time.UTC)
		if err != nil {
			return input, map[string]string{"join_date": "must use the format YYYY-MM-DD"}
		}
		input.JoinDate = &joinDate
	}

	return input, nil
}

type employeeDTO struct {
	ID              string  `json:"id"`
	EmpID           string  `json:"emp_id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Department      string  `json:"department"`
	Salary          float64 `json:"salary"`
	JoinDate        string  `json:"join_date,omitempty"`
	JoinDateDisplay string  `json:"join_date_display,omitempty"`
	Role            string  `json:"role"`
	ManagerID       *string `json:"manager_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type employeeResponse struct {
	Employee employeeDTO `json:"employee"`
}

type employeeListResponse struct {
	Employees []employeeDTO `json:"employees"`
}

func toEmployeeDTO(employee application.Employee) employeeDTO {
	dto := employeeDTO{
		ID:         employee.ID,
		EmpID:      employee.EmpID,
		Name:       employee.Name,
		Email:      employee.Email,
		Department: employee.Department,
		Salary:     employee.Salary,
		Role:       string(employee.Role),
		ManagerID:  employee.ManagerID,
		CreatedAt:  employee.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:  employee.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if employee.JoinDate != nil {
		dto.JoinDate = employee.JoinDate.Format(timesheet.DateFormat)
		dto.JoinDateDisplay = employee.JoinDate.Format(timesheet.DisplayFormat)
	}
	return dto
}
