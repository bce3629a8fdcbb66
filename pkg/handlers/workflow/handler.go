package workflow

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/de-tools/workflow-builder/pkg/adapters"
	"github.com/de-tools/workflow-builder/pkg/models/api"
	"github.com/de-tools/workflow-builder/pkg/models/domain"
	"github.com/de-tools/workflow-builder/pkg/services/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	msgInvalidBody      = "Invalid request body"
	msgNotFound         = "Workflow not found"
	msgFetchListFailed  = "Failed to fetch workflows"
	msgFetchFailed      = "Failed to fetch workflow"
	msgRunningNotBool   = "isRunning must be a boolean"
	unknownFieldPrefix  = "json: unknown field "
	maxRequestBodyBytes = 1 << 20
)

var errTrailingData = errors.New("request body has data after the JSON value")

type Handler struct {
	svc    workflow.Service
	roster domain.Roster
}

func NewHandler(svc workflow.Service, roster domain.Roster) *Handler {
	return &Handler{
		svc:    svc,
		roster: roster,
	}
}

func (h *Handler) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workflows, err := h.svc.List(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("list workflows")
		writeJSON(w, r, http.StatusInternalServerError, api.ErrorResponse{Error: msgFetchListFailed})
		return
	}

	response := api.WorkflowList{Workflows: make([]api.Workflow, 0, len(workflows))}
	for _, wf := range workflows {
		response.Workflows = append(response.Workflows, adapters.MapDomainWorkflowToAPI(wf))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	wf, err := h.svc.Get(ctx, id)
	if errors.Is(err, domain.ErrWorkflowNotFound) {
		writeJSON(w, r, http.StatusNotFound, api.ErrorResponse{Error: msgNotFound})
		return
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("workflow_id", id).Msg("get workflow")
		writeJSON(w, r, http.StatusInternalServerError, api.ErrorResponse{Error: msgFetchFailed})
		return
	}

	writeJSON(w, r, http.StatusOK, api.WorkflowResponse{Workflow: adapters.MapDomainWorkflowToAPI(*wf)})
}

func (h *Handler) CreateWorkflow(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	id, err := h.svc.Save(r.Context(), draft)
	if err != nil {
		writeJSON(w, r, http.StatusInternalServerError, api.Result{Error: err.Error()})
		return
	}
	writeJSON(w, r, http.StatusOK, api.Result{Success: true, ID: id})
}

func (h *Handler) UpdateWorkflow(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	if err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), draft); err != nil {
		writeJSON(w, r, http.StatusInternalServerError, api.Result{Error: err.Error()})
		return
	}
	writeJSON(w, r, http.StatusOK, api.Result{Success: true})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input api.StatusInput
	if err := decodeJSON(w, r, &input); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "isRunning" {
			writeJSON(w, r, http.StatusBadRequest, api.Result{Error: msgRunningNotBool})
			return
		}
		writeJSON(w, r, http.StatusBadRequest, api.Result{Error: bodyErrorMessage(err)})
		return
	}
	if input.IsRunning == nil {
		writeJSON(w, r, http.StatusBadRequest, api.Result{Error: msgRunningNotBool})
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), *input.IsRunning); err != nil {
		writeJSON(w, r, http.StatusInternalServerError, api.Result{Error: err.Error()})
		return
	}
	writeJSON(w, r, http.StatusOK, api.Result{Success: true})
}

func (h *Handler) DeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeJSON(w, r, http.StatusInternalServerError, api.Result{Error: err.Error()})
		return
	}
	writeJSON(w, r, http.StatusOK, api.Result{Success: true})
}

// Health reports whether the document store answers a ping.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("store ping failed")
		writeJSON(w, r, http.StatusServiceUnavailable, api.Health{Status: "unavailable", Error: err.Error()})
		return
	}
	writeJSON(w, r, http.StatusOK, api.Health{Status: "ok"})
}

// decodeDraft reads and validates a create or update body. On failure the
// 400 response is already written.
func (h *Handler) decodeDraft(w http.ResponseWriter, r *http.Request) (domain.WorkflowDraft, bool) {
	var input api.WorkflowInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeJSON(w, r, http.StatusBadRequest, api.Result{Error: bodyErrorMessage(err)})
		return domain.WorkflowDraft{}, false
	}

	draft := adapters.MapAPIInputToDomain(input)
	if err := draft.Validate(h.roster); err != nil {
		writeJSON(w, r, http.StatusBadRequest, api.Result{Error: err.Error()})
		return domain.WorkflowDraft{}, false
	}
	return draft, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	// the body must hold exactly one JSON value
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

func bodyErrorMessage(err error) string {
	if msg := err.Error(); strings.HasPrefix(msg, unknownFieldPrefix) {
		return "unknown field " + strings.TrimPrefix(msg, unknownFieldPrefix)
	}
	return msgInvalidBody
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Int("status", status).
			Msg("failed to encode response")
	}
}
