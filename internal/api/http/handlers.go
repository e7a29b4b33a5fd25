// Package http exposes the skill runtime over a JSON HTTP API. Expected
// skill failures travel inside the execution envelope with a 200 status;
// transport-level problems are written as gRPC statuses through the
// gateway's error rendering, so agents see one error shape per layer.
package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hb-chen/skillrun/internal/skill"
	"github.com/hb-chen/skillrun/pkg/logger"
)

// Handlers contains HTTP handlers
type Handlers struct {
	runtime *skill.Runtime
	sem     *semaphore.Weighted
}

// NewHandlers creates new HTTP handlers. maxConcurrent bounds in-flight
// executions; discovery and metadata reads are not limited.
func NewHandlers(rt *skill.Runtime, maxConcurrent int64) *Handlers {
	return &Handlers{
		runtime: rt,
		sem:     semaphore.NewWeighted(maxConcurrent),
	}
}

// SkillMeta is the wire shape of a skill descriptor.
type SkillMeta struct {
	Name           string   `json:"name"`
	Title          string   `json:"title"`
	Version        string   `json:"version"`
	Category       string   `json:"category,omitempty"`
	Triggers       []string `json:"triggers"`
	AllowedCallers []string `json:"allowed_callers"`
	Runtime        string   `json:"runtime,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds"`
	MaxInputSizeKb int      `json:"max_input_size_kb"`
}

func toMeta(s *skill.Skill) SkillMeta {
	return SkillMeta{
		Name:           s.Name,
		Title:          s.Title,
		Version:        s.Version,
		Category:       s.Category,
		Triggers:       s.Triggers,
		AllowedCallers: s.AllowedCallers,
		Runtime:        s.Runtime,
		Dependencies:   s.Dependencies,
		TimeoutSeconds: s.TimeoutSeconds,
		MaxInputSizeKb: s.MaxInputSizeKb,
	}
}

// FindSkillsResponse represents a discovery response
type FindSkillsResponse struct {
	Skills []SkillMeta `json:"skills"`
	Count  int         `json:"count"`
}

// InstructionsResponse carries a skill's instructional body
type InstructionsResponse struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
}

// ExecuteRequest represents an execution request body
type ExecuteRequest struct {
	Unit  string          `json:"unit"`
	Input json.RawMessage `json:"input"`
}

// FindSkills handles GET /api/v1/skills?q=<query>&role=<role>
func (h *Handlers) FindSkills(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	query := r.URL.Query().Get("q")
	role := r.URL.Query().Get("role")

	skills, err := h.runtime.Find(query, role)
	if err != nil {
		logger.Errorf("Skill discovery failed: %v", err)
		writeStatusError(w, r, codes.Internal, "skill discovery failed")
		return
	}

	resp := FindSkillsResponse{Skills: make([]SkillMeta, 0, len(skills)), Count: len(skills)}
	for _, s := range skills {
		resp.Skills = append(resp.Skills, toMeta(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSkill handles GET /api/v1/skills/{name}
func (h *Handlers) GetSkill(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	name := pathParams["name"]

	s, err := h.runtime.Metadata(name)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMeta(s))
}

// GetInstructions handles GET /api/v1/skills/{name}/instructions
func (h *Handlers) GetInstructions(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	name := pathParams["name"]

	body, err := h.runtime.Instructions(name)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, InstructionsResponse{Name: name, Instructions: body})
}

// ExecuteSkill handles POST /api/v1/skills/{name}/execute
func (h *Handlers) ExecuteSkill(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	name := pathParams["name"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeStatusError(w, r, codes.InvalidArgument, "failed to read request body")
		return
	}

	var req ExecuteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeStatusError(w, r, codes.InvalidArgument, "request body must be a JSON object")
		return
	}
	if req.Unit == "" {
		writeStatusError(w, r, codes.InvalidArgument, "unit is required")
		return
	}

	if err := h.sem.Acquire(r.Context(), 1); err != nil {
		writeStatusError(w, r, codes.Canceled, "request cancelled while waiting for an execution slot")
		return
	}
	defer h.sem.Release(1)

	result := h.runtime.Execute(r.Context(), name, req.Unit, req.Input)
	writeJSON(w, http.StatusOK, result)
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}

// writeStoreError maps metadata store errors onto transport statuses:
// an absent descriptor is NotFound, an invalid one is FailedPrecondition.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if skill.IsNotFound(err) {
		writeStatusError(w, r, codes.NotFound, err.Error())
		return
	}
	writeStatusError(w, r, codes.FailedPrecondition, err.Error())
}

var errMux = runtime.NewServeMux()

func writeStatusError(w http.ResponseWriter, r *http.Request, c codes.Code, msg string) {
	st := status.New(c, msg)
	runtime.DefaultHTTPErrorHandler(r.Context(), errMux, &runtime.JSONPb{}, w, r, st.Err())
}
