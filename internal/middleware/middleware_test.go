package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/service"
)

func newAuthRouter(tokens *service.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/", JWT(tokens))
	api.GET("/grades", func(c *gin.Context) { c.Status(http.StatusOK) })
	api.POST("/grades", WriteAccess(), func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func serve(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTRequiresBearerToken(t *testing.T) {
	tokens := service.NewTokenService(service.TokenConfig{Secret: "k"})
	r := newAuthRouter(tokens)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/grades", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/grades", "garbage").Code)

	viewer, err := tokens.Sign("v1", models.RoleViewer, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/grades", viewer).Code)
}

func TestWriteAccessByRole(t *testing.T) {
	tokens := service.NewTokenService(service.TokenConfig{Secret: "k"})
	r := newAuthRouter(tokens)

	viewer, err := tokens.Sign("v1", models.RoleViewer, time.Minute)
	require.NoError(t, err)
	teacher, err := tokens.Sign("t1", models.RoleTeacher, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPost, "/grades", viewer).Code)
	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/grades", teacher).Code)
}

func TestMetricsMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/ping", "")
	serve(r, http.MethodGet, "/ping", "")

	assert.Equal(t, uint64(2), metrics.Snapshot().RequestsTotal)
}

func TestMetricsMiddlewareSkipsHealthAndFoldsUnmatchedPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/health", "")
	assert.Zero(t, metrics.Snapshot().RequestsTotal)

	serve(r, http.MethodGet, "/students/12345/unknown", "")
	serve(r, http.MethodGet, "/classes/9/unknown", "")
	assert.Equal(t, uint64(2), metrics.Snapshot().RequestsTotal)

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	var paths []string
	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "path" {
					paths = append(paths, label.GetValue())
				}
			}
		}
	}
	assert.Equal(t, []string{"unmatched"}, paths)
}

func TestResponseMetaCarriesCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	var meta map[string]interface{}
	r.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ResponseMeta(c)
		c.Status(http.StatusOK)
	})

	serve(r, http.MethodGet, "/", "")
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
}
