// Package boundary exposes the store and report layers as named
// request/response operations, the surface a UI client calls. Payloads and
// results are JSON; repository errors cross as typed codes instead of raw
// storage details.
package boundary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tempo-cli/internal/model"
	"tempo-cli/internal/report"
	"tempo-cli/internal/store"
)

// Error codes carried across the boundary.
const (
	CodeNotFound       = "not_found"
	CodeAlreadyStopped = "already_stopped"
	CodeInvalidFormat  = "invalid_format"
	CodeBadRequest     = "bad_request"
	CodeUnknownOp      = "unknown_operation"
	CodeInternal       = "internal"
)

// Error is the typed failure a client receives. Message is safe to show
// generically in a UI.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

func badRequest(format string, args ...any) *Error {
	return &Error{Code: CodeBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Handler dispatches boundary operations against one store.
type Handler struct {
	store *store.Store
}

func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// Dispatch runs the named operation with a JSON payload and returns the
// JSON-marshalable result. Every failure is a *Error; internal details are
// collapsed into CodeInternal.
func (h *Handler) Dispatch(ctx context.Context, op string, payload json.RawMessage) (any, *Error) {
	v, err := h.dispatch(ctx, op, payload)
	if err == nil {
		return v, nil
	}

	var be *Error
	if errors.As(err, &be) {
		return nil, be
	}
	var nf store.NotFoundError
	if errors.As(err, &nf) {
		return nil, &Error{Code: CodeNotFound, Message: nf.Error()}
	}
	var as store.AlreadyStoppedError
	if errors.As(err, &as) {
		return nil, &Error{Code: CodeAlreadyStopped, Message: as.Error()}
	}
	var inv store.InvalidFormatError
	if errors.As(err, &inv) {
		return nil, &Error{Code: CodeInvalidFormat, Message: inv.Error()}
	}
	return nil, &Error{Code: CodeInternal, Message: err.Error()}
}

func (h *Handler) dispatch(ctx context.Context, op string, payload json.RawMessage) (any, error) {
	switch op {
	case "tasks.create":
		var req struct {
			Title       string  `json:"title"`
			Description *string `json:"description"`
			Collection  *string `json:"collection"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if strings.TrimSpace(req.Title) == "" {
			return nil, badRequest("title must not be empty")
		}
		return h.store.CreateTask(ctx, req.Title, req.Description, req.Collection)

	case "tasks.list":
		return h.store.ListTasks(ctx)

	case "tasks.updateStatus":
		var req struct {
			ID     int64        `json:"id"`
			Status model.Status `json:"status"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if !req.Status.Valid() {
			return nil, badRequest("unknown status %q", req.Status)
		}
		return h.store.UpdateTaskStatus(ctx, req.ID, req.Status)

	case "tasks.delete":
		var req struct {
			ID int64 `json:"id"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, h.store.DeleteTask(ctx, req.ID)

	case "collections.list":
		return h.store.ListCollections(ctx)

	case "collections.add":
		var req struct {
			Name string `json:"name"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if strings.TrimSpace(req.Name) == "" {
			return nil, badRequest("name must not be empty")
		}
		return nil, h.store.AddCollection(ctx, req.Name)

	case "collections.delete":
		var req struct {
			Name string `json:"name"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, h.store.DeleteCollection(ctx, req.Name)

	case "time.start":
		var req struct {
			TaskID int64 `json:"taskId"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return h.store.StartTimer(ctx, req.TaskID)

	case "time.stop":
		var req struct {
			EntryID int64 `json:"entryId"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return h.store.StopTimer(ctx, req.EntryID)

	case "time.listByTask":
		var req struct {
			TaskID int64 `json:"taskId"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return h.store.ListTimeEntriesByTask(ctx, req.TaskID)

	case "subtasks.create":
		var req struct {
			TaskID int64  `json:"taskId"`
			Title  string `json:"title"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if strings.TrimSpace(req.Title) == "" {
			return nil, badRequest("title must not be empty")
		}
		return h.store.CreateSubtask(ctx, req.TaskID, req.Title)

	case "subtasks.listByTask":
		var req struct {
			TaskID int64 `json:"taskId"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return h.store.ListSubtasksByTask(ctx, req.TaskID)

	case "subtasks.updateStatus":
		var req struct {
			ID     int64        `json:"id"`
			Status model.Status `json:"status"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if !req.Status.Valid() {
			return nil, badRequest("unknown status %q", req.Status)
		}
		return h.store.UpdateSubtaskStatus(ctx, req.ID, req.Status)

	case "subtasks.delete":
		var req struct {
			ID int64 `json:"id"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, h.store.DeleteSubtask(ctx, req.ID)

	case "report.stats":
		f, err := decodeFilter(payload)
		if err != nil {
			return nil, err
		}
		rows, err := h.store.EntryRows(ctx)
		if err != nil {
			return nil, err
		}
		return report.ComputeStats(rows, f, h.store.Now()), nil

	case "report.exportCsv":
		f, err := decodeFilter(payload)
		if err != nil {
			return nil, err
		}
		rows, err := h.store.EntryRows(ctx)
		if err != nil {
			return nil, err
		}
		return report.ExportCSV(rows, f, h.store.Now()), nil

	case "report.heatmap":
		f, err := decodeFilter(payload)
		if err != nil {
			return nil, err
		}
		rows, err := h.store.EntryRows(ctx)
		if err != nil {
			return nil, err
		}
		return report.Heatmap(rows, f, h.store.Now()), nil

	case "data.export":
		doc, err := h.store.ExportData(ctx)
		if err != nil {
			return nil, err
		}
		// The snapshot is already a JSON document; embed it as-is.
		return json.RawMessage(doc), nil

	case "data.import":
		var req struct {
			JSONString string `json:"jsonString"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return h.store.ImportData(ctx, req.JSONString), nil

	default:
		return nil, &Error{Code: CodeUnknownOp, Message: "unknown operation: " + op}
	}
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return badRequest("missing request payload")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return badRequest("malformed request payload: %v", err)
	}
	return nil
}

func decodeFilter(payload json.RawMessage) (report.Filter, error) {
	// All filter fields are optional; an absent payload means "no filter".
	if len(payload) == 0 {
		return report.Filter{}, nil
	}
	var f report.Filter
	if err := json.Unmarshal(payload, &f); err != nil {
		return report.Filter{}, badRequest("malformed filter: %v", err)
	}
	return f, nil
}
