package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrTokenExpired signals that the provided bearer token has expired.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenInvalid signals that the provided bearer token is invalid for other reasons.
	ErrTokenInvalid = errors.New("auth: token invalid")
)

// TokenVerifier verifies bearer tokens and extracts the caller identity.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}

// JWTVerifierConfig configures HMAC-signed JWT verification.
type JWTVerifierConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
	RoleClaim  string
	EmailClaim string
}

// JWTVerifier validates HS256-signed JWTs issued by the identity service.
type JWTVerifier struct {
	key        []byte
	issuer     string
	audience   string
	roleClaim  string
	emailClaim string
}

const defaultRoleClaim = "role"

// NewJWTVerifier constructs a verifier from the supplied configuration.
func NewJWTVerifier(cfg JWTVerifierConfig) (*JWTVerifier, error) {
	key := strings.TrimSpace(cfg.SigningKey)
	if key == "" {
		return nil, errors.New("auth: signing key is required")
	}
	roleClaim := strings.TrimSpace(cfg.RoleClaim)
	if roleClaim == "" {
		roleClaim = defaultRoleClaim
	}
	emailClaim := strings.TrimSpace(cfg.EmailClaim)
	if emailClaim == "" {
		emailClaim = "email"
	}
	return &JWTVerifier{
		key:        []byte(key),
		issuer:     strings.TrimSpace(cfg.Issuer),
		audience:   strings.TrimSpace(cfg.Audience),
		roleClaim:  roleClaim,
		emailClaim: emailClaim,
	}, nil
}

// VerifyToken parses and validates the token, returning the caller identity.
func (v *JWTVerifier) VerifyToken(_ context.Context, tokenStr string) (*Identity, error) {
	if v == nil {
		return nil, ErrTokenInvalid
	}
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: empty token", ErrTokenInvalid)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %s", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return nil, fmt.Errorf("%w: issuer mismatch", ErrTokenInvalid)
	}
	if v.audience != "" && !claims.VerifyAudience(v.audience, true) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrTokenInvalid)
	}

	uid, _ := claims["sub"].(string)
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, fmt.Errorf("%w: subject claim missing", ErrTokenInvalid)
	}

	identity := &Identity{UID: uid}
	if email, ok := claims[v.emailClaim].(string); ok {
		identity.Email = strings.TrimSpace(email)
	}
	identity.Roles = extractRoles(claims[v.roleClaim])
	if len(identity.Roles) == 0 {
		identity.Roles = []string{RoleUser}
	}
	return identity, nil
}

func extractRoles(claim any) []string {
	switch value := claim.(type) {
	case string:
		if role := normaliseRole(value); role != "" {
			return []string{role}
		}
	case []any:
		roles := make([]string, 0, len(value))
		for _, entry := range value {
			if raw, ok := entry.(string); ok {
				if role := normaliseRole(raw); role != "" {
					roles = append(roles, role)
				}
			}
		}
		return roles
	}
	return nil
}

func normaliseRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
