package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClientRole scopes what an API client may call.
type ClientRole string

const (
	// RoleDecoder may submit payloads for decoding and exports.
	RoleDecoder ClientRole = "DECODER"
	// RoleReader may only read persisted snapshots.
	RoleReader ClientRole = "READER"
)

// Token scopes a client may request.
const (
	ScopeDecode = "decode"
	ScopeRead   = "read"
)

// TokenRequest carries client credentials for the token endpoint. An empty
// scope requests a decode token.
type TokenRequest struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required,min=8"`
	Scope        string `json:"scope" validate:"omitempty,oneof=decode read"`
}

// TokenResponse returns an issued access token.
type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	Role        ClientRole `json:"role"`
	ExpiresIn   int64      `json:"expires_in"`
	IssuedAt    time.Time  `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	ClientID string     `json:"client_id"`
	Role     ClientRole `json:"role"`
	jwt.RegisteredClaims
}
