package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"
)

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()

	schemaPath, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile("file://" + filepath.ToSlash(schemaPath))
	require.NoError(t, err)
	return schema
}

func fetchJSON(t *testing.T, app *fiber.App, req *http.Request) interface{} {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

func TestEnrollmentContracts(t *testing.T) {
	submitSchema := compileSchema(t, "submit_result.schema.json")
	stateSchema := compileSchema(t, "enrollment_state.schema.json")

	app := setupApp(t, appOptions{})
	user := createUser(t, app, "contract@example.com")
	course := createCourse(t, app, "Contracts")
	assignment := createAssignment(t, app, course.ID, "schema")

	status, _ := doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/enrollments/course-enroll/%s/user/%s", course.ID, user.ID), nil)
	require.Equal(t, http.StatusOK, status)

	stateReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/enrollments/state/%s/user/%s", course.ID, user.ID), nil)
	require.NoError(t, stateSchema.Validate(fetchJSON(t, app, stateReq)))

	raw, err := json.Marshal(answersFor(assignment, false))
	require.NoError(t, err)
	submitReq := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/enrollments/submit-assignment/%s/user/%s", course.ID, user.ID), bytes.NewReader(raw))
	submitReq.Header.Set("Content-Type", "application/json")
	require.NoError(t, submitSchema.Validate(fetchJSON(t, app, submitReq)))

	stateReq = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/enrollments/state/%s/user/%s", course.ID, user.ID), nil)
	require.NoError(t, stateSchema.Validate(fetchJSON(t, app, stateReq)))
}
