package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/punchcardhq/punchcard/internal/application"
	"github.com/punchcardhq/punchcard/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it with the given status code.
// If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// CheckRequest is the JSON body for the check-in and check-out endpoints.
type CheckRequest struct {
	EmployeeID string `json:"employee_id"`
	Code       string `json:"code"`
}

// CheckResponse reports a check action's outcome. Message always states
// whether the event was recorded locally, since that is the durability
// promise that must never be in doubt.
type CheckResponse struct {
	EmployeeID string `json:"employee_id"`
	Timestamp  string `json:"timestamp"`
	Type       string `json:"type"`
	Synced     bool   `json:"synced"`
	SyncError  string `json:"sync_error,omitempty"`
	Message    string `json:"message"`
}

// toCheckResponse converts an application Result to its JSON representation.
func toCheckResponse(res application.Result) CheckResponse {
	out := CheckResponse{
		EmployeeID: res.Entry.EmployeeID,
		Timestamp:  res.Entry.Timestamp,
		Type:       string(res.Entry.Type),
		Synced:     res.Synced,
		SyncError:  res.SyncError,
	}
	if res.Synced {
		out.Message = "entry recorded and mirrored"
	} else {
		out.Message = "entry recorded locally; mirror sync failed and will be retried on the next sync"
	}
	return out
}

// EmployeeResponse is the JSON representation of a directory record. The
// TOTP secret is deliberately absent.
type EmployeeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toEmployeeResponse(emp model.Employee) EmployeeResponse {
	return EmployeeResponse{ID: emp.ID, Name: emp.Name}
}

// AddEmployeeRequest is the JSON body for employee provisioning.
type AddEmployeeRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AddEmployeeResponse is the one-time provisioning reply. This is the only
// place the secret ever leaves the system.
type AddEmployeeResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
}

// RenameEmployeeRequest is the JSON body for the rename endpoint.
type RenameEmployeeRequest struct {
	Name string `json:"name"`
}

// ManualEntryRequest is the JSON body for the administrative entry endpoint.
// Timestamp is optional; empty means "now". Backdated values are allowed.
type ManualEntryRequest struct {
	EmployeeID string `json:"employee_id"`
	Timestamp  string `json:"timestamp"`
	Type       string `json:"type"`
}

// EntryResponse is the JSON representation of one logged event.
type EntryResponse struct {
	EmployeeID string `json:"employee_id"`
	Timestamp  string `json:"timestamp"`
	Type       string `json:"type"`
}

func toEntryResponse(entry model.TimeEntry) EntryResponse {
	return EntryResponse{
		EmployeeID: entry.EmployeeID,
		Timestamp:  entry.Timestamp,
		Type:       string(entry.Type),
	}
}

// SyncResponse is the JSON representation of a sync report.
type SyncResponse struct {
	NothingToDo  bool `json:"nothing_to_do"`
	HeaderAdded  bool `json:"header_added"`
	RowsAppended int  `json:"rows_appended"`
	FallbackRows int  `json:"fallback_rows"`
}

func toSyncResponse(report model.SyncReport) SyncResponse {
	return SyncResponse{
		NothingToDo:  report.NothingToDo,
		HeaderAdded:  report.HeaderAdded,
		RowsAppended: report.RowsAppended,
		FallbackRows: report.FallbackRows,
	}
}

// SyncAttemptResponse is the JSON representation of a journal record.
type SyncAttemptResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	OK           bool   `json:"ok"`
	Message      string `json:"message,omitempty"`
	RowsAppended int    `json:"rows_appended"`
	FallbackRows int    `json:"fallback_rows"`
	CreatedAt    string `json:"created_at"`
}

func toSyncAttemptResponse(a model.SyncAttempt) SyncAttemptResponse {
	return SyncAttemptResponse{
		ID:           a.ID,
		Kind:         string(a.Kind),
		OK:           a.OK,
		Message:      a.Message,
		RowsAppended: a.RowsAppended,
		FallbackRows: a.FallbackRows,
		CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
