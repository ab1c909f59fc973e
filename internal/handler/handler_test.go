package handler

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
)

type ValidatorMock struct {
	mock.Mock
}

func (m *ValidatorMock) Struct(_ context.Context, s any) error {
	args := m.Called(s)

	return args.Error(0)
}

func (m *ValidatorMock) Var(_ context.Context, field any, tag string) error {
	args := m.Called(field, tag)

	return args.Error(0)
}

type AuthenticatorMock struct {
	mock.Mock
}

func (m *AuthenticatorMock) UserIdentifier(_ *http.Request) (int, error) {
	args := m.Called()

	return args.Int(0), args.Error(1)
}

func sendTestRequest(method string, body io.Reader, handler http.HandlerFunc) *http.Response {
	request := httptest.NewRequest(method, "/", body)
	w := httptest.NewRecorder()
	handler(w, request)

	return w.Result()
}

// sendRouteRequest отправляет запрос через chi, чтобы в обработчике были
// доступны параметры пути.
func sendRouteRequest(method, pattern, target string, body io.Reader, handler http.HandlerFunc) *http.Response {
	r := chi.NewRouter()
	r.Method(method, pattern, handler)

	request := httptest.NewRequest(method, target, body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, request)

	return w.Result()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
