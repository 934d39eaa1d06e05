package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Content-Length, Accept, Accept-Encoding, Cache-Control, Origin, X-Requested-With, " + utils.RequestIDHeader
)

// hostAllowList matches request origins by host. Entries may carry a port;
// a bare entry allows the host on any port.
type hostAllowList map[string]struct{}

func newHostAllowList(hosts []string) hostAllowList {
	l := make(hostAllowList, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			l[h] = struct{}{}
		}
	}
	return l
}

func (l hostAllowList) allows(host string) bool {
	if host == "" {
		return false
	}
	if _, ok := l[host]; ok {
		return true
	}
	bare, _, _ := strings.Cut(host, ":")
	_, ok := l[bare]
	return ok
}

// originHost returns the lowercase host of an absolute URL with default
// ports stripped, or "" when raw is not one.
func originHost(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	if (u.Scheme == "https" && strings.HasSuffix(host, ":443")) || (u.Scheme == "http" && strings.HasSuffix(host, ":80")) {
		host, _, _ = strings.Cut(host, ":")
	}
	return host
}

// requestOrigin prefers Origin and falls back to the scheme and host of
// Referer, which some storefront webviews send instead.
func requestOrigin(r *http.Request) string {
	if origin := strings.TrimSuffix(strings.TrimSpace(r.Header.Get("Origin")), "/"); origin != "" {
		return origin
	}
	if u, err := url.Parse(r.Header.Get("Referer")); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Scheme + "://" + u.Host
	}
	return ""
}

// CORSMiddleware reflects allowed origins and answers preflights.
func CORSMiddleware(hosts []string) gin.HandlerFunc {
	allowed := newHostAllowList(hosts)

	return func(c *gin.Context) {
		origin := requestOrigin(c.Request)
		if allowed.allows(originHost(origin)) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", corsAllowMethods)
		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		c.Header("Access-Control-Expose-Headers", utils.RequestIDHeader)
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
