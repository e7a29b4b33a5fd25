package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hb-chen/skillrun/internal/skill"
	"github.com/hb-chen/skillrun/internal/skill/direct"
	"github.com/hb-chen/skillrun/pkg/grpc/gateway"
)

const testDescriptor = `---
name: lcoe-calculator
title: LCOE Calculator
version: 1.0.0
triggers: [calculate lcoe]
allowed_callers: ['*']
runtime: bash
timeout_seconds: 5
---

Use the calculator.
`

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	dir := t.TempDir()
	skillDir := filepath.Join(dir, "lcoe-calculator")
	require.NoError(t, os.MkdirAll(filepath.Join(skillDir, "scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, skill.SKILLFileName), []byte(testDescriptor), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "scripts", "ok.sh"),
		[]byte("#!/bin/bash\necho '{\"success\": true, \"data\": {\"lcoe_usd_per_mwh\": 87.31}}'\n"), 0o755))

	rt := skill.NewRuntime(skill.NewStore(dir), direct.NewDirectExecutor())
	return NewHandlers(rt, 2)
}

func TestFindSkillsHandler(t *testing.T) {
	h := newTestHandlers(t)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"match", "q=Calculate+LCOE+for+me&role=analyst", 1},
		{"no match", "q=unrelated&role=analyst", 0},
		{"empty query", "q=&role=analyst", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/skills?"+tt.query, nil)
			w := httptest.NewRecorder()

			h.FindSkills(w, r, nil)

			require.Equal(t, http.StatusOK, w.Code)
			var resp FindSkillsResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Count)
			assert.Len(t, resp.Skills, tt.want)
		})
	}
}

func TestGetSkillHandler(t *testing.T) {
	h := newTestHandlers(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/skills/lcoe-calculator", nil)
	w := httptest.NewRecorder()

	h.GetSkill(w, r, map[string]string{"name": "lcoe-calculator"})

	require.Equal(t, http.StatusOK, w.Code)
	var meta SkillMeta
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, "lcoe-calculator", meta.Name)
	assert.Equal(t, "1.0.0", meta.Version)
	assert.Equal(t, []string{"calculate lcoe"}, meta.Triggers)
}

func TestGetSkillHandlerNotFound(t *testing.T) {
	h := newTestHandlers(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/skills/missing", nil)
	w := httptest.NewRecorder()

	h.GetSkill(w, r, map[string]string{"name": "missing"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetInstructionsHandler(t *testing.T) {
	h := newTestHandlers(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/skills/lcoe-calculator/instructions", nil)
	w := httptest.NewRecorder()

	h.GetInstructions(w, r, map[string]string{"name": "lcoe-calculator"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp InstructionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Instructions, "Use the calculator.")
}

func TestExecuteSkillHandler(t *testing.T) {
	h := newTestHandlers(t)

	body := strings.NewReader(`{"unit": "ok.sh", "input": {"capex_usd": 1}}`)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/skills/lcoe-calculator/execute", body)
	w := httptest.NewRecorder()

	h.ExecuteSkill(w, r, map[string]string{"name": "lcoe-calculator"})

	require.Equal(t, http.StatusOK, w.Code)
	var result skill.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.JSONEq(t, `{"lcoe_usd_per_mwh": 87.31}`, string(result.Data))
}

func TestExecuteSkillHandlerExpectedFailureIs200(t *testing.T) {
	h := newTestHandlers(t)

	// Unknown skill on the execute path stays a 200 envelope: execution
	// callers have exactly one error-handling path.
	body := strings.NewReader(`{"unit": "ok.sh"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/skills/missing/execute", body)
	w := httptest.NewRecorder()

	h.ExecuteSkill(w, r, map[string]string{"name": "missing"})

	require.Equal(t, http.StatusOK, w.Code)
	var result skill.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, skill.CodeNotFound, result.Error.Code)
}

func TestExecuteSkillHandlerBadRequests(t *testing.T) {
	h := newTestHandlers(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"missing unit", `{"input": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/v1/skills/lcoe-calculator/execute", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.ExecuteSkill(w, r, map[string]string{"name": "lcoe-calculator"})

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGatewayRouting(t *testing.T) {
	h := newTestHandlers(t)

	gw := gateway.New()
	v1 := gw.Group("/api/v1")
	v1.GET("/skills", h.FindSkills)
	v1.GET("/skills/{name}", h.GetSkill)
	v1.POST("/skills/{name}/execute", h.ExecuteSkill)
	require.NoError(t, gw.Mux().HandlePath("GET", "/health", h.HealthCheck))

	srv := httptest.NewServer(gw)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/skills/lcoe-calculator")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var meta SkillMeta
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&meta))
	assert.Equal(t, "lcoe-calculator", meta.Name)

	health, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
