package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"
)

// tokenCacheTTL bounds how long a parsed token is trusted without re-parsing.
// Entries never outlive the token's own exp claim.
const tokenCacheTTL = 5 * time.Minute

// expiryExtension is the user info extension holding the token's exp claim, in unix seconds
const expiryExtension = "exp"

// clock is the time source of token validation and cache expiry
var clock = time.Now

// AccessTokenParam carries the bearer token for clients that cannot set headers (websockets)
const AccessTokenParam = "access_token"

// Claims are the JWT claims issued to mentorship users. The subject is the user id.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

var authenticator auth.Authenticator
var cache store.Cache
var signingKey []byte

// SetupGoGuardian sets up the go-guardian middleware with a bearer strategy
// that accepts HS256 tokens signed with secret
func SetupGoGuardian(secret string) {
	signingKey = []byte(secret)
	authenticator = auth.New()
	cache = expiringCache{Cache: store.NewFIFO(context.Background(), tokenCacheTTL)}
	tokenStrategy := bearer.New(ValidateToken, cache)

	authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
}

// Middleware rejects requests without a valid bearer token and puts the
// caller's UserIdentity on the request context
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") == "" {
			if token := r.URL.Query().Get(AccessTokenParam); token != "" {
				r.Header.Set("Authorization", "Bearer "+token)
			}
		}
		if authenticator == nil {
			zap.S().Error("authenticator is not set up")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		user, err := authenticator.Authenticate(r)
		if err != nil {
			zap.S().Warnw("unauthorized",
				"url", r.URL.Path,
				"error", err)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugw("user authenticated", "userId", user.ID())
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identityFromInfo(user))))
	})
}

// ValidateToken parses a signed JWT into the go-guardian user info
func ValidateToken(ctx context.Context, r *http.Request, token string) (auth.Info, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(clock))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	ext := map[string][]string{}
	if claims.Email != "" {
		ext["email"] = []string{claims.Email}
	}
	if claims.ExpiresAt != nil {
		ext[expiryExtension] = []string{strconv.FormatInt(claims.ExpiresAt.Unix(), 10)}
	}
	return auth.NewDefaultUser(claims.Name, claims.Subject, nil, ext), nil
}

// expiringCache drops cached user info once the token it was parsed from has
// expired, so the token is parsed again and rejected
type expiringCache struct {
	store.Cache
}

func (c expiringCache) Load(key string, r *http.Request) (interface{}, bool, error) {
	v, ok, err := c.Cache.Load(key, r)
	if err != nil || !ok {
		return v, ok, err
	}
	info, isInfo := v.(auth.Info)
	if !isInfo {
		return v, ok, nil
	}
	exp := info.Extensions()[expiryExtension]
	if len(exp) == 0 {
		return v, ok, nil
	}
	unix, err := strconv.ParseInt(exp[0], 10, 64)
	if err != nil || !clock().Before(time.Unix(unix, 0)) {
		if err := c.Cache.Delete(key, r); err != nil {
			zap.S().Warnw("failed to evict expired token", "error", err)
		}
		return nil, false, nil
	}
	return v, ok, nil
}

// IssueToken signs a token for id that expires after ttl
func IssueToken(secret string, id UserIdentity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:  id.Name,
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func identityFromInfo(info auth.Info) UserIdentity {
	id := UserIdentity{UserID: info.ID(), Name: info.UserName()}
	if email := info.Extensions()["email"]; len(email) > 0 {
		id.Email = email[0]
	}
	return id
}
