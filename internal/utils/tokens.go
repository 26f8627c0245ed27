package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NewInvitationToken returns an opaque token for an organization invitation.
func NewInvitationToken() string {
	return uuid.NewString()
}

// NewPaymentReference returns a unique reference for a payment transaction.
func NewPaymentReference() string {
	return uuid.NewString()
}

var ErrInvalidShareToken = errors.New("invalid share token")

type shareClaims struct {
	CardID uint64 `json:"card_id"`
	jwt.RegisteredClaims
}

// SignShareToken issues a signed token granting public read access to a card.
func SignShareToken(secret string, cardID uint64, ttl time.Duration) (string, error) {
	claims := shareClaims{
		CardID: cardID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   "card-share",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign share token: %w", err)
	}
	return signed, nil
}

// ParseShareToken verifies a share token and returns the card ID it grants.
func ParseShareToken(secret, tokenString string) (uint64, error) {
	var claims shareClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidShareToken
	}
	return claims.CardID, nil
}
