package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"paperdesk-backend/pkg/auth"
	"paperdesk-backend/pkg/common"
)

// Authenticate creates an authentication middleware backed by the given
// token validator. Requests carry a Bearer token; API Gateway deployments
// may pre-authorize and pass identity headers instead.
func Authenticate(validator *auth.JWTValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	ipLimiter := auth.NewIPRateLimiter(100)     // 100 requests per minute per IP
	userLimiter := auth.NewUserRateLimiter(200) // 200 requests per minute per user

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)

			allowed, _ := ipLimiter.Allow(r.Context(), clientIP)
			if !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded")
				return
			}

			var user auth.UserContext

			if r.Header.Get("X-API-Gateway-Authorized") == "true" {
				// API Gateway's JWT authorizer already validated the token
				userID := r.Header.Get("X-User-ID")
				if userID == "" {
					respondUnauthorized(w, "Missing user context from API Gateway")
					return
				}
				user = auth.UserContext{
					UserID:   userID,
					Username: r.Header.Get("X-User-Name"),
					Email:    r.Header.Get("X-User-Email"),
				}
			} else {
				token, ok := bearerToken(r)
				if !ok {
					respondUnauthorized(w, "Missing or malformed authorization header")
					return
				}

				claims, err := validator.ValidateToken(token)
				if err != nil {
					switch err {
					case auth.ErrExpiredToken:
						respondUnauthorized(w, "Token has expired")
					case auth.ErrInvalidSignature:
						respondUnauthorized(w, "Invalid token signature")
					default:
						logger.Debug("Token validation failed", zap.Error(err))
						respondUnauthorized(w, "Invalid token")
					}
					return
				}

				user = auth.UserContext{
					UserID:   claims.UserID,
					Username: claims.Username,
					Email:    claims.Email,
				}
			}

			allowed, _ = userLimiter.Allow(r.Context(), user.UserID)
			if !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "User rate limit exceeded")
				return
			}

			ctx := auth.WithUser(r.Context(), user)
			ctx = common.WithUserID(ctx, user.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		header = r.Header.Get("authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// getClientIP extracts the client IP, honoring proxy headers
func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}
