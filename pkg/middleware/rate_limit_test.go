package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sitedash/sitedash/pkg/metrics"
	"github.com/stretchr/testify/require"
)

// limiters are shared per IP across the package, so every test uses its own address
func requestFrom(r *gin.Engine, path, remote string) int {
	rq := httptest.NewRequest("GET", path, nil)
	rq.RemoteAddr = remote
	w := httptest.NewRecorder()
	r.ServeHTTP(w, rq)
	return w.Code
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2)) // generous rate
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))

	// two quick requests should pass
	require.Equal(t, http.StatusOK, requestFrom(r, "/ok", "10.0.0.1:1000"))
	require.Equal(t, http.StatusOK, requestFrom(r, "/ok", "10.0.0.1:1001"))

	// verify metrics incremented for memory limiter
	require.Equal(t, before+2, testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory")))
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	// very low rate to force rejections
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, requestFrom(r, "/limited", "10.0.0.2:1000"))
	// immediate second request -> should be rate-limited
	require.Equal(t, http.StatusTooManyRequests, requestFrom(r, "/limited", "10.0.0.2:1000"))

	// 0.5 rps refills one token after two seconds
	time.Sleep(2100 * time.Millisecond)
	require.Equal(t, http.StatusOK, requestFrom(r, "/limited", "10.0.0.2:1000"))
}

func TestRateLimitMiddleware_KeysByClientIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, requestFrom(r, "/u", "10.1.1.1:1234"))
	require.Equal(t, http.StatusTooManyRequests, requestFrom(r, "/u", "10.1.1.1:5678"))
	// a different client has its own bucket
	require.Equal(t, http.StatusOK, requestFrom(r, "/u", "10.2.2.2:1234"))
}
