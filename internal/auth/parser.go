package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
)

// Parser validates access tokens issued by the separate auth service. Token
// issuance is not this service's concern; only verification happens here.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

type accessClaims struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Parse verifies the token signature and expiry and extracts the caller's
// identity.
func (p *Parser) Parse(tokenString string) (model.Principal, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, err
	}
	if !token.Valid {
		return model.Principal{}, fmt.Errorf("invalid token")
	}
	if claims.UserID == 0 {
		return model.Principal{}, fmt.Errorf("token has no user_id claim")
	}
	return model.Principal{
		UserID: claims.UserID,
		Name:   claims.Name,
		Role:   claims.Role,
	}, nil
}
