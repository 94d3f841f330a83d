package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"hrperf/internal/platform/metrics"
	"hrperf/internal/transport/http/api"
)

const rateStorePrefix = "hrperf_ratelimit"

type keyFunc func(r *http.Request) string

// ProxyTrust resolves the client address. X-Forwarded-For is read only when the
// direct peer is a trusted proxy, and then from the right, skipping trusted hops.
type ProxyTrust struct {
	trusted []netip.Prefix
}

func NewProxyTrust(trusted []netip.Prefix) ProxyTrust {
	return ProxyTrust{trusted: trusted}
}

func (p ProxyTrust) ClientIP(r *http.Request) string {
	remote := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(remote); err == nil && host != "" {
		remote = host
	}
	addr, err := netip.ParseAddr(remote)
	if err != nil || !p.isTrusted(addr) {
		return remote
	}

	client := addr
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		client = hop.Unmap()
		if !p.isTrusted(client) {
			break
		}
	}
	return client.String()
}

func (p ProxyTrust) isTrusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range p.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func NewMemoryRateStore() limiter.Store {
	return memorystore.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          rateStorePrefix,
		CleanUpInterval: time.Minute,
	})
}

// NewRedisRateStore shares counters between instances.
func NewRedisRateStore(client *redis.Client) (limiter.Store, error) {
	return redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   rateStorePrefix,
		MaxRetry: 3,
	})
}

// RateLimit caps every client at limit requests per window, keyed by client IP.
func RateLimit(store limiter.Store, limit int, window time.Duration, proxies ProxyTrust) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	instance := limiter.New(store, limiter.Rate{Period: window, Limit: int64(limit)})
	mw := stdlibmw.NewMiddleware(instance,
		stdlibmw.WithKeyGetter(prefixedKey("global", proxies.ClientIP)),
		stdlibmw.WithLimitReachedHandler(limitReached),
		stdlibmw.WithErrorHandler(limiterUnavailable),
	)
	return mw.Handler
}

// SensitiveRateLimit adds tighter per-IP and per-email limits to login and MFA calls.
func SensitiveRateLimit(store limiter.Store, baseLimit int, window time.Duration, proxies ProxyTrust) func(http.Handler) http.Handler {
	rate := limiter.Rate{Period: window, Limit: int64(max(baseLimit/4, 1))}
	byIP := limiter.New(store, rate)
	byEmail := limiter.New(store, rate)
	ipKey := prefixedKey("auth-ip", proxies.ClientIP)
	emailKey := prefixedKey("auth-email", authEmailOrIPKey("email", proxies.ClientIP))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isSensitiveAuthCall(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !enforce(w, r, byIP, ipKey(r)) || !enforce(w, r, byEmail, emailKey(r)) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func enforce(w http.ResponseWriter, r *http.Request, instance *limiter.Limiter, key string) bool {
	lctx, err := instance.Get(r.Context(), key)
	if err != nil {
		slog.Warn("rate limiter unavailable", "err", err)
		return true
	}
	w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
	if lctx.Reached {
		retry := time.Until(time.Unix(lctx.Reset, 0))
		w.Header().Set("Retry-After", strconv.Itoa(max(int(retry.Seconds()), 1)))
		limitReached(w, r)
		return false
	}
	return true
}

func limitReached(w http.ResponseWriter, r *http.Request) {
	metrics.RateLimitedTotal.Inc()
	slog.Warn("rate limit exceeded",
		"remote", r.RemoteAddr,
		"path", r.URL.Path,
		"method", r.Method,
	)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
}

// limiterUnavailable rejects the request when the shared store cannot be reached.
func limiterUnavailable(w http.ResponseWriter, r *http.Request, err error) {
	slog.Warn("rate limiter unavailable", "err", err)
	api.Fail(w, http.StatusServiceUnavailable, "rate_limiter_unavailable", "service temporarily unavailable", GetRequestID(r.Context()))
}

func prefixedKey(prefix string, fn keyFunc) func(r *http.Request) string {
	return func(r *http.Request) string {
		return prefix + ":" + fn(r)
	}
}

func authEmailOrIPKey(field string, fallback keyFunc) keyFunc {
	normalizedField := strings.TrimSpace(field)
	if normalizedField == "" {
		normalizedField = "email"
	}
	return func(r *http.Request) string {
		email := extractJSONField(r, normalizedField)
		if email == "" {
			return fallback(r)
		}
		return "email:" + strings.ToLower(email)
	}
}

// extractJSONField peeks at the body and restores it for the next handler.
func extractJSONField(r *http.Request, field string) string {
	if r == nil || r.Body == nil {
		return ""
	}
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if !strings.Contains(contentType, "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) == 0 {
		return ""
	}
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}

func isSensitiveAuthCall(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	switch strings.TrimPrefix(r.URL.Path, "/api") {
	case "/auth/login", "/auth/mfa/setup", "/auth/mfa/enable", "/auth/mfa/disable":
		return true
	}
	return false
}
