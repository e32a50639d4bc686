package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukex/flowmender/pkg/models"
	"github.com/dukex/flowmender/pkg/registry"
	"github.com/dukex/flowmender/pkg/services"
	"github.com/dukex/flowmender/pkg/testutil"
	"github.com/dukex/flowmender/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, reg *registry.Registry) *fiber.App {
	t.Helper()

	return setupTestAppWithLogger(t, reg, slog.Default())
}

func setupTestAppWithLogger(t *testing.T, reg *registry.Registry, logger *slog.Logger) *fiber.App {
	t.Helper()

	handlers := web.NewAPIHandlers(
		logger,
		services.NewValidation(slog.Default(), reg, nil),
		services.NewNodeTypes(reg),
		validator.New(validator.WithRequiredStructEnabled()),
	)

	app := fiber.New()
	app.Post("/workflows/validate", handlers.ValidateWorkflow)
	app.Get("/node-types", handlers.GetNodeTypes)
	app.Get("/node-types/*", handlers.GetNodeType)
	app.Get("/corrections", handlers.GetCorrections)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)

		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, data
}

func brokenGraph() *models.WorkflowGraph {
	graph := testutil.ValidTwoNodeGraph()
	graph.Nodes = append(graph.Nodes, testutil.CreateTestNode(
		testutil.WithID("vision"),
		testutil.WithType(testutil.TypeLegacy),
		testutil.WithPosition(750, 300),
	))
	testutil.Connect(graph, "action", "vision")
	testutil.Connect(graph, "action", "action")

	return graph
}

func TestAPIHandlers_ValidateWorkflow(t *testing.T) {
	t.Parallel()

	strict := true

	tests := []struct {
		name           string
		target         string
		requestBody    any
		expectedStatus int
		expectedError  string
		validateResult func(t *testing.T, body map[string]any)
	}{
		{
			name:           "bare valid graph",
			target:         "/workflows/validate",
			requestBody:    testutil.ValidTwoNodeGraph(),
			expectedStatus: http.StatusOK,
			validateResult: func(t *testing.T, body map[string]any) {
				t.Helper()
				assert.Equal(t, true, body["isValid"])
				assert.InDelta(t, 0, body["corrections"], 0)
				assert.NotContains(t, body, "workflow")
				assert.Equal(t, map[string]any{
					"totalErrors": float64(0), "totalWarnings": float64(0),
					"nodesValidated": float64(2), "connectionsValidated": float64(1),
				}, body["summary"])
			},
		},
		{
			name:           "invalid graph without auto-correct",
			target:         "/workflows/validate",
			requestBody:    brokenGraph(),
			expectedStatus: http.StatusOK,
			validateResult: func(t *testing.T, body map[string]any) {
				t.Helper()
				assert.Equal(t, false, body["isValid"])

				errs, ok := body["errors"].([]any)
				require.True(t, ok)
				require.Len(t, errs, 1)
				assert.Equal(t, "NodeTypeError", errs[0].(map[string]any)["type"])
				assert.Equal(t, "vision", errs[0].(map[string]any)["nodeId"])
			},
		},
		{
			name:           "auto-correct through the query string",
			target:         "/workflows/validate?auto_correct=true",
			requestBody:    brokenGraph(),
			expectedStatus: http.StatusOK,
			validateResult: func(t *testing.T, body map[string]any) {
				t.Helper()
				assert.Equal(t, true, body["isValid"])
				assert.InDelta(t, 2, body["corrections"], 0)
				assert.Len(t, body["appliedCorrections"], 2)

				workflow, ok := body["workflow"].(map[string]any)
				require.True(t, ok)
				assert.Len(t, workflow["nodes"], 3)
			},
		},
		{
			name:   "wrapped body with options",
			target: "/workflows/validate",
			requestBody: web.ValidateRequest{
				Workflow: func() *models.WorkflowGraph {
					graph := testutil.ValidTwoNodeGraph()
					delete(graph.Nodes[1].Parameters, "url")

					return graph
				}(),
				Options: web.ValidateOptions{StrictMode: &strict},
			},
			expectedStatus: http.StatusOK,
			validateResult: func(t *testing.T, body map[string]any) {
				t.Helper()
				assert.Equal(t, false, body["isValid"])
				assert.Len(t, body["errors"], 1)
				assert.Empty(t, body["warnings"])
			},
		},
		{
			name:           "query overrides body options",
			target:         "/workflows/validate?strict=false",
			requestBody:    `{"workflow": {"name": "w", "nodes": [{"id": "a", "name": "A", "type": "genericHttpRequest", "position": [0, 0], "parameters": {"method": "GET"}}]}, "options": {"strictMode": true}}`,
			expectedStatus: http.StatusOK,
			validateResult: func(t *testing.T, body map[string]any) {
				t.Helper()
				assert.Equal(t, true, body["isValid"])
				assert.Len(t, body["warnings"], 2)
			},
		},
		{
			name:           "empty object is reported, not rejected",
			target:         "/workflows/validate",
			requestBody:    `{}`,
			expectedStatus: http.StatusOK,
			validateResult: func(t *testing.T, body map[string]any) {
				t.Helper()
				assert.Equal(t, false, body["isValid"])
				assert.Len(t, body["errors"], 2)
			},
		},
		{
			name:           "malformed graph in wrapper is reported, not rejected",
			target:         "/workflows/validate",
			requestBody:    `{"workflow": {"name": "", "nodes": []}}`,
			expectedStatus: http.StatusOK,
			validateResult: func(t *testing.T, body map[string]any) {
				t.Helper()
				assert.Equal(t, false, body["isValid"])

				errs, ok := body["errors"].([]any)
				require.True(t, ok)
				require.Len(t, errs, 2)

				for _, e := range errs {
					assert.Equal(t, "SchemaError", e.(map[string]any)["type"])
				}
			},
		},
		{
			name:           "null workflow in wrapper",
			target:         "/workflows/validate",
			requestBody:    `{"workflow": null}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Workflow",
		},
		{
			name:           "invalid JSON",
			target:         "/workflows/validate",
			requestBody:    "invalid-json",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid JSON format",
		},
		{
			name:           "malformed position",
			target:         "/workflows/validate",
			requestBody:    `{"name": "w", "nodes": [{"id": "a", "position": "left"}]}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid JSON format",
		},
		{
			name:           "invalid query flag",
			target:         "/workflows/validate?strict=maybe",
			requestBody:    testutil.ValidTwoNodeGraph(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "strict must be a boolean",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := setupTestApp(t, testutil.NewTestRegistry())

			status, data := doRequest(t, app, http.MethodPost, tt.target, tt.requestBody)
			assert.Equal(t, tt.expectedStatus, status, string(data))

			if tt.expectedError != "" {
				var problem map[string]any
				require.NoError(t, json.Unmarshal(data, &problem))
				assert.Contains(t, problem["detail"], tt.expectedError)

				return
			}

			var body map[string]any
			require.NoError(t, json.Unmarshal(data, &body))
			tt.validateResult(t, body)
		})
	}
}

func TestAPIHandlers_ValidateWorkflowLogsThroughHandlerLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	app := setupTestAppWithLogger(t, testutil.NewTestRegistry(), logger)

	status, _ := doRequest(t, app, http.MethodPost, "/workflows/validate", testutil.ValidTwoNodeGraph())
	require.Equal(t, http.StatusOK, status)

	assert.Contains(t, buf.String(), "Validation request served")
	assert.Contains(t, buf.String(), "valid=true")
}

func TestAPIHandlers_NodeTypes(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t, registry.NewDefaultRegistry(slog.Default()))

	status, data := doRequest(t, app, http.MethodGet, "/node-types?category=trigger", nil)
	require.Equal(t, http.StatusOK, status)

	var list web.NodeTypesResponse
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Equal(t, len(list.NodeTypes), list.Total)
	assert.Contains(t, list.NodeTypes, services.NodeTypeInfo{Type: "n8n-nodes-base.manualTrigger", Category: "trigger"})

	status, data = doRequest(t, app, http.MethodGet, "/node-types/n8n-nodes-base.httpRequest", nil)
	require.Equal(t, http.StatusOK, status)

	var info services.NodeTypeInfo
	require.NoError(t, json.Unmarshal(data, &info))
	require.NotNil(t, info.Contract)
	assert.Equal(t, "method", info.Contract.OperationParameter)

	status, _ = doRequest(t, app, http.MethodGet, "/node-types/@n8n/n8n-nodes-langchain.agent", nil)
	assert.Equal(t, http.StatusOK, status)

	status, data = doRequest(t, app, http.MethodGet, "/node-types/n8n-nodes-base.function", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(data), "node_type_not_found")

	status, data = doRequest(t, app, http.MethodGet, "/corrections", nil)
	require.Equal(t, http.StatusOK, status)

	var rules web.CorrectionsResponse
	require.NoError(t, json.Unmarshal(data, &rules))
	assert.NotZero(t, rules.Total)
}

func TestAPIHandlers_NotReady(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t, &registry.Registry{})

	status, _ := doRequest(t, app, http.MethodGet, "/node-types", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, data := doRequest(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, string(data), "unhealthy")

	status, data = doRequest(t, app, http.MethodPost, "/workflows/validate", testutil.ValidTwoNodeGraph())
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), "not initialized")
}

func TestAPIHandlers_HealthCheck(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t, testutil.NewTestRegistry())

	status, data := doRequest(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), `"status":"healthy"`)
}
