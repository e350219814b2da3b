package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fiftyhertz/agriapi/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimiter is a per-IP fixed-window request limiter backed by Redis, so the
// count is shared by every instance of the API. When Redis fails the request is allowed.
type RateLimiter struct {
	client      redis.Cmdable
	maxRequests int
	window      time.Duration
	trusted     []*net.IPNet
	logger      *logrus.Logger
}

// NewRateLimiter builds a limiter. trustedProxies holds IPs or CIDRs of the load balancers
// in front of the API; forwarding headers are ignored unless the peer is one of them.
// Invalid entries are logged and skipped.
func NewRateLimiter(client redis.Cmdable, maxRequests int, window time.Duration, trustedProxies []string, logger *logrus.Logger) *RateLimiter {
	l := &RateLimiter{
		client:      client,
		maxRequests: maxRequests,
		window:      window,
		logger:      logger,
	}
	for _, entry := range trustedProxies {
		if network, err := parseProxy(entry); err == nil {
			l.trusted = append(l.trusted, network)
		} else {
			logger.WithError(err).WithField("proxy", entry).Warn("Ignoring invalid trusted proxy")
		}
	}
	return l
}

func parseProxy(entry string) (*net.IPNet, error) {
	entry = strings.TrimSpace(entry)
	if strings.Contains(entry, "/") {
		_, network, err := net.ParseCIDR(entry)
		return network, err
	}
	ip := net.ParseIP(entry)
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address %q", entry)
	}
	bits := 8 * net.IPv4len
	if ip.To4() == nil {
		bits = 8 * net.IPv6len
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}, nil
}

func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rateLimitKeyPrefix + l.clientIP(r)
		ctx := r.Context()

		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			l.logger.WithError(err).Warn("Rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			l.client.Expire(ctx, key, l.window)
		}

		reset, err := l.client.TTL(ctx, key).Result()
		if err != nil || reset < 0 {
			// a key left without expiry would block the client forever
			if err == nil {
				l.client.Expire(ctx, key, l.window)
			}
			reset = l.window
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, l.maxRequests-int(count))))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(reset).Unix(), 10))

		if int(count) > l.maxRequests {
			w.Header().Set("Retry-After", strconv.Itoa(int(reset.Seconds())))
			response.Fail(w, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP returns the peer address unless the peer is a trusted proxy. Behind a trusted
// proxy it walks X-Forwarded-For from the right and returns the first hop that is not
// itself trusted, falling back to X-Real-IP.
func (l *RateLimiter) clientIP(r *http.Request) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		peer = host
	}
	if !l.isTrusted(peer) {
		return peer
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if net.ParseIP(hop) == nil {
				break
			}
			if !l.isTrusted(hop) {
				return hop
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip
	}
	return peer
}

func (l *RateLimiter) isTrusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, network := range l.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
