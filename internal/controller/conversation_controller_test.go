package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"urbanmind-be/internal/dto"
	"urbanmind-be/internal/entity"
	"urbanmind-be/internal/handler"
	"urbanmind-be/internal/pkg/logger"
	"urbanmind-be/internal/pkg/serverutils"
	"urbanmind-be/internal/repository/memory"
	"urbanmind-be/internal/service"
	internalWS "urbanmind-be/internal/websocket"
	"urbanmind-be/pkg/analysis"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T, delay time.Duration) *fiber.App {
	t.Helper()
	log := logger.NewNopLogger()
	repo := memory.NewSessionRepository(time.Hour, time.Hour)
	svc := service.NewConversationService(repo, analysis.NewSimulatedAnalyzer(delay), nil, nil, log)
	t.Cleanup(svc.Shutdown)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewCatalogController(svc).RegisterRoutes(api)
	NewConversationController(svc).RegisterRoutes(api)
	handler.NewSessionStreamHandler(svc, internalWS.NewHub(nil, log), log).RegisterRoutes(api)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, url string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) serverutils.BaseResponse[T] {
	t.Helper()
	defer resp.Body.Close()
	var out serverutils.BaseResponse[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createSession(t *testing.T, app *fiber.App) dto.SessionResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	res := decode[dto.SessionResponse](t, resp)
	require.True(t, res.Success)
	return res.Data
}

func TestCatalogRoutes(t *testing.T) {
	app := setupApp(t, 0)

	resp := doJSON(t, app, http.MethodGet, "/api/reasoning-methods", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	methods := decode[[]dto.ReasoningMethodResponse](t, resp)
	require.Len(t, methods.Data, 3)
	assert.Equal(t, "Chain-of-Thought", methods.Data[0].Label)

	resp = doJSON(t, app, http.MethodGet, "/api/region", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	region := decode[entity.RegionProfile](t, resp)
	assert.Equal(t, "High School Site Selection", region.Data.Task)
}

func TestConversationFlow(t *testing.T) {
	app := setupApp(t, 0)
	session := createSession(t, app)
	require.Len(t, session.Messages, 1)
	base := "/api/sessions/" + session.Id.String()

	resp := doJSON(t, app, http.MethodPut, base+"/reasoning-method", dto.SetReasoningMethodRequest{Method: "hypertree-reasoning"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "HyperTree Reasoning", decode[dto.SessionResponse](t, resp).Data.ReasoningMethod.Label)

	resp = doJSON(t, app, http.MethodPost, base+"/messages", dto.SendMessageRequest{Text: "Find a site near transit"})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	sent := decode[dto.SendMessageResponse](t, resp)
	assert.Equal(t, "user", sent.Data.Message.Role)

	var final dto.SessionResponse
	require.Eventually(t, func() bool {
		final = decode[dto.SessionResponse](t, doJSON(t, app, http.MethodGet, base, nil)).Data
		return len(final.Messages) == 3 && !final.Analysis.Running
	}, 2*time.Second, 10*time.Millisecond)

	assert.Contains(t, final.Messages[2].Text, "HyperTree Reasoning")
	assert.Len(t, final.Analysis.Candidates, 3)

	resp = doJSON(t, app, http.MethodDelete, base, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, base, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.False(t, decode[any](t, resp).Success)
}

func TestSendMessageErrors(t *testing.T) {
	app := setupApp(t, time.Hour)
	session := createSession(t, app)
	url := "/api/sessions/" + session.Id.String() + "/messages"

	tests := []struct {
		name string
		url  string
		body interface{}
		want int
	}{
		{"missing text", url, map[string]string{}, fiber.StatusBadRequest},
		{"blank text", url, dto.SendMessageRequest{Text: "   "}, fiber.StatusBadRequest},
		{"bad session id", "/api/sessions/not-a-uuid/messages", dto.SendMessageRequest{Text: "x"}, fiber.StatusBadRequest},
		{"unknown session", "/api/sessions/" + uuid.NewString() + "/messages", dto.SendMessageRequest{Text: "x"}, fiber.StatusNotFound},
		{"accepted", url, dto.SendMessageRequest{Text: "first"}, fiber.StatusAccepted},
		{"while running", url, dto.SendMessageRequest{Text: "second"}, fiber.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, tt.url, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
			res := decode[any](t, resp)
			assert.Equal(t, tt.want, res.Code)
		})
	}

	// Rejected submissions never reach the transcript.
	snap := decode[dto.SessionResponse](t, doJSON(t, app, http.MethodGet, "/api/sessions/"+session.Id.String(), nil)).Data
	assert.Len(t, snap.Messages, 2)
	assert.True(t, snap.Analysis.Running)
}

func TestSetReasoningMethodUnknown(t *testing.T) {
	app := setupApp(t, 0)
	session := createSession(t, app)

	resp := doJSON(t, app, http.MethodPut, "/api/sessions/"+session.Id.String()+"/reasoning-method", dto.SetReasoningMethodRequest{Method: "astrology"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRecordDocuments(t *testing.T) {
	app := setupApp(t, 0)
	session := createSession(t, app)
	url := "/api/sessions/" + session.Id.String() + "/documents"

	resp := doJSON(t, app, http.MethodPost, url, dto.RecordDocumentsRequest{Names: []string{"a.pdf", "a.pdf"}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"a.pdf", "a.pdf"}, decode[dto.SessionResponse](t, resp).Data.UploadedDocuments)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, name := range []string{"zoning.csv", "transit.geojson"} {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("ignored"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"a.pdf", "a.pdf", "zoning.csv", "transit.geojson"}, decode[dto.SessionResponse](t, resp).Data.UploadedDocuments)

	resp = doJSON(t, app, http.MethodPost, url, dto.RecordDocumentsRequest{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSessionStreamRequiresUpgrade(t *testing.T) {
	app := setupApp(t, 0)
	session := createSession(t, app)

	resp := doJSON(t, app, http.MethodGet, "/api/sessions/"+session.Id.String()+"/ws", nil)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/sessions/"+uuid.NewString()+"/ws", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
