package mw

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"laundry-queue-backend/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func as(id int64, t model.AccountType) map[string]string {
	return map[string]string{HeaderUserID: strconv.FormatInt(id, 10), HeaderAccountType: string(t)}
}

func TestIdentity(t *testing.T) {
	r := gin.New()
	r.Use(Identity())
	r.GET("/whoami", func(c *gin.Context) {
		req, ok := RequesterFrom(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, "%s:%d:%v", req.Type, req.ID, c.GetInt64("userID"))
	})
	r.GET("/private", RequireIdentity(), RequireAccount(model.AccountOperator), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name     string
		path     string
		headers  map[string]string
		wantCode int
		wantBody string
	}{
		{"anonymous", "/whoami", nil, http.StatusOK, "anonymous"},
		{"default account type", "/whoami", map[string]string{HeaderUserID: "7"}, http.StatusOK, "user:7:7"},
		{"operator", "/whoami", as(3, model.AccountOperator), http.StatusOK, "operator:3:3"},
		{"bad user id", "/whoami", map[string]string{HeaderUserID: "-1"}, http.StatusBadRequest, ""},
		{"bad account type", "/whoami", map[string]string{HeaderUserID: "1", HeaderAccountType: "root"}, http.StatusBadRequest, ""},
		{"private anonymous", "/private", nil, http.StatusUnauthorized, ""},
		{"private user", "/private", as(1, model.AccountUser), http.StatusForbidden, ""},
		{"private operator", "/private", as(1, model.AccountOperator), http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, tt.path, tt.headers)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestKeyedRateLimiter(t *testing.T) {
	l := NewKeyedRateLimiter(rate.Limit(1), 2, time.Minute)

	a := l.GetLimiter("a")
	assert.Same(t, a, l.GetLimiter("a"))
	assert.NotSame(t, a, l.GetLimiter("b"))

	assert.True(t, a.Allow())
	assert.True(t, a.Allow())
	assert.False(t, a.Allow())
	assert.True(t, l.GetLimiter("b").Allow(), "buckets are per key")
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(Identity(), RateLimiter(rate.Limit(0.001), 1))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", as(1, model.AccountUser)).Code)
	w := serve(r, http.MethodGet, "/", as(1, model.AccountUser))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate_limited","message":"too many requests"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", as(2, model.AccountUser)).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", nil).Code, "anonymous callers are keyed by IP")
}

func TestCache(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	var hits atomic.Int32

	r := gin.New()
	r.Use(Identity(), FlushOnWrite(store))
	r.GET("/machines", Cache(store, time.Minute), func(c *gin.Context) {
		n := hits.Add(1)
		c.Header("X-Hit", strconv.Itoa(int(n)))
		c.JSON(http.StatusOK, gin.H{"hit": n})
	})
	r.GET("/missing", Cache(store, time.Minute), func(c *gin.Context) {
		hits.Add(1)
		c.Status(http.StatusNotFound)
	})
	r.POST("/machines", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.POST("/fail", func(c *gin.Context) { c.Status(http.StatusConflict) })

	first := serve(r, http.MethodGet, "/machines", nil)
	require.Equal(t, http.StatusOK, first.Code)
	second := serve(r, http.MethodGet, "/machines", nil)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "MISS", first.Header().Get(HeaderCache))
	assert.Equal(t, "HIT", second.Header().Get(HeaderCache))
	assert.Equal(t, "1", second.Header().Get("X-Hit"))
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Equal(t, int32(1), hits.Load())

	serve(r, http.MethodGet, "/machines", as(5, model.AccountUser))
	assert.Equal(t, int32(2), hits.Load(), "callers are cached separately")

	serve(r, http.MethodPost, "/fail", nil)
	serve(r, http.MethodGet, "/machines", nil)
	assert.Equal(t, int32(2), hits.Load(), "failed writes keep the cache")

	serve(r, http.MethodPost, "/machines", nil)
	serve(r, http.MethodGet, "/machines", nil)
	assert.Equal(t, int32(3), hits.Load(), "successful writes flush the cache")

	serve(r, http.MethodGet, "/missing", nil)
	serve(r, http.MethodGet, "/missing", nil)
	assert.Equal(t, int32(5), hits.Load(), "errors are not cached")
}
