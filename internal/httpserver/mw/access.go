package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/desk/internal/logger"
	"github.com/MrSnakeDoc/desk/internal/utils"
)

func passthrough(next http.Handler) http.Handler { return next }

// AllowOnlyCIDRs rejects clients outside the allowed IPs/CIDRs with 403.
// An empty list disables the filter. trustProxy resolves the client from
// X-Forwarded-For, for deployments behind a trusted reverse proxy.
func AllowOnlyCIDRs(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return passthrough
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Debug("client rejected by CIDR filter",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path))
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnforceHost rejects requests whose Host is not allowed with 403. Patterns
// may be exact ("desk.domain.ext", "localhost:8080") or wildcards
// ("*.domain.ext"); matching ignores case. An empty list disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		return passthrough
	}
	patterns := make([]string, len(allowedHosts))
	for i, h := range allowedHosts {
		patterns[i] = strings.ToLower(h)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := strings.ToLower(r.Host)
			for _, pattern := range patterns {
				if matchHost(host, pattern) {
					next.ServeHTTP(w, r)
					return
				}
			}
			log.Debug("request rejected by host filter", logger.String("host", r.Host))
			w.WriteHeader(http.StatusForbidden)
		})
	}
}

// matchHost compares with and without the port, so "desk.lan" allows
// "desk.lan:8080" while "desk.lan:8080" does not allow "desk.lan:9090".
func matchHost(host, pattern string) bool {
	if host == pattern {
		return true
	}
	hostname := utils.HostOnly(host)
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(hostname, pattern[1:])
	}
	return !strings.Contains(pattern, ":") && hostname == pattern
}
