package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace/config"
	"marketplace/internal/delivery/api/middleware"
	"marketplace/internal/delivery/api/router/handler"
	"marketplace/internal/delivery/api/validator"
	"marketplace/internal/domain/entity"
	usecasemocks "marketplace/internal/mocks/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	e         *echo.Echo
	authUC    *usecasemocks.MockAuthUsecase
	profileUC *usecasemocks.MockProfileUsecase
	productUC *usecasemocks.MockProductUsecase
	orderUC   *usecasemocks.MockOrderUsecase
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Env.Env = config.EnvTest
	cfg.JWT.CookieExpiresIn = 7

	return cfg
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	api := &testAPI{
		authUC:    usecasemocks.NewMockAuthUsecase(t),
		profileUC: usecasemocks.NewMockProfileUsecase(t),
		productUC: usecasemocks.NewMockProductUsecase(t),
		orderUC:   usecasemocks.NewMockOrderUsecase(t),
	}

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger, cfg).HandleHTTPError

	NewRouter(RouterParams{
		AuthHandler: handler.NewAuthHandler(handler.AuthHandlerParams{
			AuthUC:    api.authUC,
			ProfileUC: api.profileUC,
			Config:    cfg,
		}),
		ProductHandler: handler.NewProductHandler(handler.ProductHandlerParams{ProductUC: api.productUC}),
		OrderHandler:   handler.NewOrderHandler(handler.OrderHandlerParams{OrderUC: api.orderUC}),
		HealthHandler:  handler.NewHealthHandler(handler.HealthHandlerParams{Config: cfg}),
		AuthMiddleware: middleware.NewAuthMiddleware(middleware.AuthMiddlewareParams{AuthUC: api.authUC}),
	}).RegisterRoutes(e)

	api.e = e

	return api
}

// do sends body as JSON and, when token is set, a bearer header.
func (a *testAPI) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	return rec
}

// loginAs makes the auth middleware accept the returned token as identity.
func (a *testAPI) loginAs(identity *entity.Identity) string {
	token := "token-" + identity.ID.String()
	a.authUC.EXPECT().Authenticate(mock.Anything, token).Return(identity, nil)

	return token
}

func newIdentity(userType entity.UserType, role entity.Role) *entity.Identity {
	return &entity.Identity{
		ID:       uuid.Must(uuid.NewV7()),
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Role:     role,
		UserType: userType,
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())

	return body
}

// requireErrorBody checks the error envelope and returns it.
func requireErrorBody(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) map[string]any {
	t.Helper()

	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	require.Equal(t, "error", body["status"])
	require.Equal(t, code, body["code"])
	require.NotEmpty(t, body["requestId"])

	return body
}

func tokenCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == handler.TokenCookieName {
			return cookie
		}
	}

	return nil
}

var fixedNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/health", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "OK", body["status"])
	require.Equal(t, config.EnvTest, body["environment"])
	require.NotEmpty(t, body["timestamp"])
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/nope", nil, "")

	requireErrorBody(t, rec, http.StatusNotFound, "NOT_FOUND")
}

func httptestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(api *testAPI, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	api.e.ServeHTTP(rec, req)

	return rec
}
