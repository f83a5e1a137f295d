package security

import (
	"errors"
	"time"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey(), nil)
}

// Claims is the subset of token claims the admin API relies on.
type Claims struct {
	UserID   string
	Role     string
	TenantID string // empty for super admins
}

func GenerateToken(c Claims) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   c.UserID,
		"role":      c.Role,
		"tenant_id": c.TenantID,
		"exp":       time.Now().Add(config.AppConfig.JWTExp).Unix(),
		"iat":       time.Now().Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// ClaimsFromMap extracts Claims from the decoded token map.
func ClaimsFromMap(claims map[string]interface{}) (Claims, error) {
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return Claims{}, errors.New("user_id claim is missing or not a string")
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return Claims{}, errors.New("role claim is missing or not a string")
	}
	// tenant_id is optional (super admins carry an empty one).
	tenantID, _ := claims["tenant_id"].(string)
	return Claims{UserID: id, Role: role, TenantID: tenantID}, nil
}
