package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go_igreja_admin/internal/model"
)

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// sendRequest はリクエストを送信し、ステータスコードを検証してボディを返します。
func sendRequest(t *testing.T, env *testEnv, details httpRequestDetails, expectedCode int) []byte {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		if strPayload, ok := details.Body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequest(details.Method, env.server.URL+"/api/v1"+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")
	if reqBodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	resp, err := env.server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")
	assert.Equal(t, expectedCode, resp.StatusCode, "Status code mismatch: %s", string(respBodyBytes))

	return respBodyBytes
}

// decodeBody はレスポンスボディを T にデコードします。
func decodeBody[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "raw body: %s", string(body))
	return v
}

// verifyErrorCode はエラーレスポンスのコードを検証します。
func verifyErrorCode(t *testing.T, body []byte, expectedCode string) {
	t.Helper()
	errResp := decodeBody[model.APIErrorResponse](t, body)
	assert.Equal(t, expectedCode, errResp.Error.Code, "raw body: %s", string(body))
}

// registerIgreja は公開 API で教会と管理者を登録し、教会IDを返します。
func registerIgreja(t *testing.T, env *testEnv, name, username string) uint {
	t.Helper()
	body := sendRequest(t, env, httpRequestDetails{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body: map[string]any{
			"igreja": map[string]any{"name": name},
			"admin": map[string]any{
				"username": username,
				"password": "senha-forte",
				"role":     "administrator",
				"email":    username + "@example.com",
			},
		},
	}, http.StatusCreated)

	resp := decodeBody[struct {
		Igreja model.Igreja `json:"igreja"`
		Admin  model.User   `json:"admin"`
	}](t, body)
	require.NotZero(t, resp.Igreja.ID)
	return resp.Igreja.ID
}

// createMember はテスト用の教会員を作成します。
func createMember(t *testing.T, env *testEnv, igrejaID uint, name string, extra map[string]any) model.Member {
	t.Helper()
	payload := map[string]any{
		"name":           name,
		"type":           "communicant",
		"admission_mode": "baptism",
	}
	for k, v := range extra {
		payload[k] = v
	}
	body := sendRequest(t, env, httpRequestDetails{
		Method:  http.MethodPost,
		Path:    "/members",
		Body:    payload,
		Headers: igrejaHeaders(igrejaID, ""),
	}, http.StatusCreated)
	return decodeBody[model.Member](t, body)
}
