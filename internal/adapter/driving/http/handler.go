// Package httphandler is the HTTP driving adapter serving the REST API.
package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/punchcardhq/punchcard/internal/application"
	"github.com/punchcardhq/punchcard/internal/domain/model"
	"github.com/punchcardhq/punchcard/internal/domain/port/driven"
)

// defaultAttemptLimit caps the sync journal listing when no limit is given.
const defaultAttemptLimit = 50

// Handler serves the check-in API and the admin surface.
type Handler struct {
	attendance *application.AttendanceService
	directory  *application.DirectoryService
	sync       *application.SyncService
	entryLog   driven.EntryLog
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	attendance *application.AttendanceService,
	directory *application.DirectoryService,
	sync *application.SyncService,
	entryLog driven.EntryLog,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		attendance: attendance,
		directory:  directory,
		sync:       sync,
		entryLog:   entryLog,
		logger:     logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware. Admin routes additionally pass the
// shared-secret gate.
func NewServeMux(h *Handler, gate *application.AdminGate, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/checkin", h.CheckIn)
	mux.HandleFunc("POST /api/v1/checkout", h.CheckOut)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	mux.HandleFunc("GET /api/v1/employees", requireAdmin(gate, h.ListEmployees))
	mux.HandleFunc("POST /api/v1/employees", requireAdmin(gate, h.AddEmployee))
	mux.HandleFunc("PATCH /api/v1/employees/{id}", requireAdmin(gate, h.RenameEmployee))
	mux.HandleFunc("DELETE /api/v1/employees/{id}", requireAdmin(gate, h.DeleteEmployee))
	mux.HandleFunc("GET /api/v1/employees/{id}/qr", requireAdmin(gate, h.EmployeeQR))
	mux.HandleFunc("GET /api/v1/entries", requireAdmin(gate, h.ListEntries))
	mux.HandleFunc("POST /api/v1/entries", requireAdmin(gate, h.ManualEntry))
	mux.HandleFunc("POST /api/v1/sync", requireAdmin(gate, h.FullResync))
	mux.HandleFunc("GET /api/v1/sync/attempts", requireAdmin(gate, h.ListSyncAttempts))

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// CheckIn records an "in" event gated by a one-time code.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.handleCheck(w, r, h.attendance.CheckIn)
}

// CheckOut records an "out" event gated by a one-time code.
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.handleCheck(w, r, h.attendance.CheckOut)
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request, check func(ctx context.Context, employeeID, code string) (application.Result, error)) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required")
		return
	}

	res, err := check(r.Context(), req.EmployeeID, req.Code)
	if err != nil {
		h.writeActionError(w, err)
		return
	}

	status := http.StatusOK
	if !res.Synced {
		// Recorded locally but not mirrored: accepted, degraded.
		status = http.StatusAccepted
	}
	writeJSON(w, status, toCheckResponse(res))
}

// ManualEntry records an administrative, possibly backdated entry.
func (h *Handler) ManualEntry(w http.ResponseWriter, r *http.Request) {
	var req ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entryType, ok := model.ParseEntryType(req.Type)
	if !ok {
		writeError(w, http.StatusBadRequest, `type must be "in" or "out"`)
		return
	}

	res, err := h.attendance.ManualEntry(r.Context(), req.EmployeeID, req.Timestamp, entryType)
	if err != nil {
		h.writeActionError(w, err)
		return
	}

	status := http.StatusOK
	if !res.Synced {
		status = http.StatusAccepted
	}
	writeJSON(w, status, toCheckResponse(res))
}

// ListEntries returns the full local event log in insertion order.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entryLog.LoadAll(r.Context())
	if err != nil {
		h.logger.Error("failed to load entry log", "error", err)
		h.writeStorageError(w, err)
		return
	}

	resp := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, toEntryResponse(entry))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListEmployees returns all directory records without secrets.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.directory.ListEmployees(r.Context())
	if err != nil {
		h.logger.Error("failed to list employees", "error", err)
		h.writeStorageError(w, err)
		return
	}

	resp := make([]EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		resp = append(resp, toEmployeeResponse(emp))
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddEmployee provisions a new employee and returns the one-time secret.
func (h *Handler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	var req AddEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	provisioned, err := h.directory.AddEmployee(r.Context(), req.ID, req.Name)
	switch {
	case err == nil:
	case errors.Is(err, application.ErrEmptyField):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, driven.ErrExists):
		writeError(w, http.StatusConflict, "employee id already exists")
		return
	default:
		h.logger.Error("failed to add employee", "employee_id", req.ID, "error", err)
		h.writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AddEmployeeResponse{
		ID:              provisioned.Employee.ID,
		Name:            provisioned.Employee.Name,
		Secret:          provisioned.Employee.TOTPSecret,
		ProvisioningURI: provisioned.ProvisioningURI,
	})
}

// RenameEmployee updates an employee's display name.
func (h *Handler) RenameEmployee(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req RenameEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.directory.RenameEmployee(r.Context(), id, req.Name)
	switch {
	case err == nil:
	case errors.Is(err, application.ErrEmptyField):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, driven.ErrNotFound):
		writeError(w, http.StatusNotFound, "employee not found")
		return
	default:
		h.logger.Error("failed to rename employee", "employee_id", id, "error", err)
		h.writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EmployeeResponse{ID: id, Name: req.Name})
}

// DeleteEmployee removes a directory record. Logged entries are untouched.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.directory.DeleteEmployee(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, driven.ErrNotFound):
		writeError(w, http.StatusNotFound, "employee not found")
		return
	default:
		h.logger.Error("failed to delete employee", "employee_id", id, "error", err)
		h.writeStorageError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// EmployeeQR renders the provisioning QR code for an existing employee.
func (h *Handler) EmployeeQR(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	img, err := h.directory.QRCode(r.Context(), id, 256)
	switch {
	case err == nil:
	case errors.Is(err, driven.ErrNotFound):
		writeError(w, http.StatusNotFound, "employee not found")
		return
	default:
		h.logger.Error("failed to render qr code", "employee_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// FullResync clears the mirror and replays the full local log into it.
func (h *Handler) FullResync(w http.ResponseWriter, r *http.Request) {
	report, err := h.sync.SyncAll(r.Context())
	if err != nil {
		if application.MirrorNotConfigured(err) {
			writeError(w, http.StatusConflict, "no remote mirror configured")
			return
		}
		h.logger.Error("full resync failed", "error", err)
		writeError(w, http.StatusBadGateway, "full resync failed: "+err.Error()+"; the local log is unaffected")
		return
	}
	writeJSON(w, http.StatusOK, toSyncResponse(report))
}

// ListSyncAttempts returns recent journal records, newest first.
func (h *Handler) ListSyncAttempts(w http.ResponseWriter, r *http.Request) {
	limit := defaultAttemptLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	attempts, err := h.sync.ListAttempts(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list sync attempts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]SyncAttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		resp = append(resp, toSyncAttemptResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// writeActionError maps check-action errors to HTTP responses. Every message
// states whether the event was recorded locally.
func (h *Handler) writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidCode):
		writeError(w, http.StatusUnauthorized, "invalid or empty code; no entry was recorded")
	case errors.Is(err, application.ErrUnknownEmployee):
		writeError(w, http.StatusNotFound, "unknown employee; no entry was recorded")
	case errors.Is(err, application.ErrInvalidEntryType):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("check action failed", "error", err)
		h.writeStorageError(w, err)
	}
}

// writeStorageError maps local-storage failures. These are distinct from
// mirror failures, which never surface as errors on check actions.
func (h *Handler) writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, driven.ErrBusy):
		writeError(w, http.StatusServiceUnavailable, "local storage busy; no entry was recorded, retry shortly")
	case errors.Is(err, driven.ErrCorrupt):
		writeError(w, http.StatusInternalServerError, "local storage unreadable; no entry was recorded")
	default:
		writeError(w, http.StatusInternalServerError, "local storage error; no entry was recorded")
	}
}
