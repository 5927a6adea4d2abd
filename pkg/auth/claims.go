package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenPayload captures the data available when minting a session token.
type SessionTokenPayload struct {
	UserID   uuid.UUID
	Username string
	// JTI is the session ID; it keys the server-side session record.
	JTI string
}

// SessionClaims is the typed JWT carried in the session cookie.
type SessionClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}
