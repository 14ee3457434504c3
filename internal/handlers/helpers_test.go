// helpers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"readquest/internal/middleware"
	"readquest/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newDevRouter は開発用認証 (X-User-ID) とリクエストロガーだけを載せたルーターを返します
func newDevRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware(newTestLogger()))
	r.Use(middleware.DevUserContextMiddleware)
	return r
}

// createRequest はテスト用のHTTPリクエストを作成します。
// userID が指定されていれば X-User-ID ヘッダーを追加します。
func createRequest(t *testing.T, method, url string, body interface{}, userID *uuid.UUID) *http.Request {
	t.Helper()
	var reqBodyBytes []byte
	if body != nil {
		switch b := body.(type) {
		case string:
			reqBodyBytes = []byte(b)
		case []byte:
			reqBodyBytes = b
		default:
			var err error
			reqBodyBytes, err = json.Marshal(body)
			require.NoError(t, err, "Failed to marshal request body")
		}
	}

	req, err := http.NewRequest(method, url, bytes.NewBuffer(reqBodyBytes))
	require.NoError(t, err, "Failed to create request")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != nil {
		req.Header.Set("X-User-ID", userID.String())
	}
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// decodeErrorResponse はエラーレスポンスのボディを読みます
func decodeErrorResponse(t *testing.T, rr *httptest.ResponseRecorder) model.APIErrorResponse {
	t.Helper()
	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp), "error body: %s", rr.Body.String())
	return errResp
}

func float64Ptr(v float64) *float64 { return &v }
