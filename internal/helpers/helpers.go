package helpers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	SessionID   string `json:"session_id"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
		Roles     []string `json:"roles,omitempty"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// TokenVerifier validates Supabase access tokens. Asymmetric tokens are
// checked against the project's JWKS, fetched once and refreshed in the
// background; HS256 tokens are checked against the project JWT secret.
type TokenVerifier struct {
	jwksURL string
	secret  []byte

	mu   sync.Mutex
	jwks *keyfunc.JWKS
}

func NewTokenVerifier(supabaseURL, jwtSecret string) *TokenVerifier {
	v := &TokenVerifier{secret: []byte(jwtSecret)}
	if supabaseURL != "" {
		v.jwksURL = strings.TrimRight(supabaseURL, "/") + "/auth/v1/.well-known/jwks.json"
	}
	return v
}

func (v *TokenVerifier) keys() (*keyfunc.JWKS, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.jwks != nil {
		return v.jwks, nil
	}
	if v.jwksURL == "" {
		return nil, errors.New("SUPABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	jwks, err := keyfunc.Get(v.jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS: %v", err)
	}
	v.jwks = jwks
	return jwks, nil
}

func (v *TokenVerifier) keyfunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
		if len(v.secret) == 0 {
			return nil, errors.New("HS256 tokens are not accepted without SUPABASE_JWT_SECRET")
		}
		return v.secret, nil
	}
	jwks, err := v.keys()
	if err != nil {
		return nil, err
	}
	return jwks.Keyfunc(token)
}

func (v *TokenVerifier) ValidateToken(tokenStr string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, v.keyfunc,
		jwt.WithValidMethods([]string{"HS256", "RS256", "ES256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// Close stops the background JWKS refresh.
func (v *TokenVerifier) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.jwks != nil {
		v.jwks.EndBackground()
		v.jwks = nil
	}
}

// TokenFromRequest reads a bearer token, falling back to the access token cookie.
func TokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if token, err := c.Cookie(AccessTokenCookie); err == nil {
		return token
	}
	return ""
}

// SetSessionCookies stores the token pair the way the browser portal expects.
func SetSessionCookies(c *gin.Context, accessToken string, expiresIn int, refreshToken string, secure bool) {
	c.SetCookie(AccessTokenCookie, accessToken, expiresIn, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, refreshToken, 3600*24*30, "/", "", secure, true)
}

func ClearSessionCookies(c *gin.Context, secure bool) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
}
