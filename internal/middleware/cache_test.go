package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/aibf/conference-registration/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		KeyStrategy: "route_query",
		Prefix:      "cache",
	}
}

// echoBearer serves a response derived from the caller's bearer token, the
// same shape as the personalized event lookup.
func echoBearer(c echo.Context) error {
	return c.String(http.StatusOK, "verdict-for:"+c.Request().Header.Get("Authorization"))
}

// Personalized responses must never be shared: a second user hitting the
// same route within the TTL has to get their own verdict, not the first
// caller's.  The bypass is verified against a client whose Redis is
// unreachable — if the middleware touched Redis for these requests the
// handler output could not come back clean.
func TestRedisCacheBypassesAuthorizedRequests(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	e := echo.New()
	e.GET("/v1/events/latest", echoBearer, NewRedisCache(cacheTestConfig(), rdb))

	for _, bearer := range []string{"Bearer alice-token", "Bearer bob-token", "Bearer alice-token"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/events/latest", nil)
		req.Header.Set("Authorization", bearer)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "verdict-for:"+bearer, rec.Body.String())
		assert.Empty(t, rec.Header().Get("X-Cache"),
			"authorized requests must not participate in the shared cache")
	}
}

func TestRedisCacheDisabledPassesThrough(t *testing.T) {
	cfg := cacheTestConfig()
	cfg.Enabled = false
	e := echo.New()
	e.GET("/v1/events/latest", echoBearer, NewRedisCache(cfg, nil))

	req := httptest.NewRequest(http.MethodGet, "/v1/events/latest", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "verdict-for:", rec.Body.String())
}

func TestCacheKeyDistinguishesQuery(t *testing.T) {
	cfg := cacheTestConfig()
	e := echo.New()
	keyFor := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/events/latest")
		return cacheKeyFrom(cfg, c)
	}
	assert.NotEqual(t, keyFor("/v1/events/latest"), keyFor("/v1/events/latest?x=1"))
	assert.Equal(t, keyFor("/v1/events/latest?x=1"), keyFor("/v1/events/latest?x=1"))
}
