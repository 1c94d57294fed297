package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"

	"APAgingSuite/api/constants"
	"APAgingSuite/internal/logger"
	"APAgingSuite/pkg/loadbalancer"

	"github.com/google/uuid"
)

// DefaultRoutes maps gateway prefixes to backend services.
var DefaultRoutes = map[string]string{
	"/aging/": "http://localhost:6143",
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	return r.RemoteAddr
}

func audit(msg string) {
	if logr := logger.GlobalLogger; logr != nil {
		logr.LogAudit(msg)
		return
	}
	LogInfo("%s", msg)
}

// createReverseProxy returns a handler forwarding to the balanced backends and
// auditing both legs.
func createReverseProxy(lb *loadbalancer.LoadBalancer) (http.HandlerFunc, error) {
	proxies := make(map[string]*httputil.ReverseProxy)
	for _, server := range lb.Servers() {
		target, err := url.Parse(server)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("bad target URL %q", server)
		}
		proxy := httputil.NewSingleHostReverseProxy(target)
		proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			audit(fmt.Sprintf("[Gateway][ERROR] Proxy error for %s via %s: %v", r.URL.Path, target, err))
			RespondWithError(w, http.StatusBadGateway, "Service unavailable")
		}
		proxies[server] = proxy
	}

	return func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(constants.HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
			r.Header.Set(constants.HeaderRequestID, reqID)
		}
		w.Header().Set(constants.HeaderRequestID, reqID)

		audit(fmt.Sprintf("[Gateway] Incoming request: %s %s from %s request_id=%s",
			r.Method, r.URL.Path, extractClientIP(r), reqID))

		target := lb.GetNextServer()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		proxies[target].ServeHTTP(rw, r)

		var msg string
		if rw.statusCode >= 400 {
			msg = fmt.Sprintf("[Gateway][ERROR] Proxied to %s for %s, status %d, error: %s",
				target, r.URL.Path, rw.statusCode, strings.TrimSpace(rw.body.String()))
		} else {
			msg = fmt.Sprintf("[Gateway] Proxied to %s for %s, status %d, bytes %d",
				target, r.URL.Path, rw.statusCode, rw.written)
		}
		audit(msg)
	}, nil
}

// responseWriter captures the status code, the size, and the body of error responses.
// Success bodies are not buffered since they can be whole workbooks.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int
	body       bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode >= 400 && rw.body.Len() < 4096 {
		rw.body.Write(b)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// NewGatewayHandler builds the gateway mux for routes. A route maps a path prefix
// to one backend URL or a comma separated list balanced round-robin.
func NewGatewayHandler(routes map[string]string) (http.Handler, error) {
	mux := http.NewServeMux()

	prefixes := make([]string, 0, len(routes))
	for p := range routes {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, prefix := range prefixes {
		var servers []string
		for _, s := range strings.Split(routes[prefix], ",") {
			if s = strings.TrimSpace(s); s != "" {
				servers = append(servers, s)
			}
		}
		lb, err := loadbalancer.NewLoadBalancer(servers)
		if err != nil {
			return nil, fmt.Errorf("gateway route %s: %w", prefix, err)
		}
		handler, err := createReverseProxy(lb)
		if err != nil {
			return nil, fmt.Errorf("gateway route %s: %w", prefix, err)
		}
		mux.HandleFunc(prefix, handler)
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("API Gateway is healthy"))
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		audit("[Gateway] [Error] " + r.URL.Path + " from " + extractClientIP(r) + " (route not found)")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(constants.ErrRouteNotFound))
	})

	return mux, nil
}
