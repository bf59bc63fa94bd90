// Package token extracts and verifies the two credential kinds accepted by
// the proxy: owner access tokens and time-limited share tokens. The two kinds
// are signed with independent secrets, so compromising one must not
// compromise the other. Extraction classifies a token before any
// verification, and verification dispatches on the kind to pick the matching
// secret. A token is never checked against both secrets.
package token

import (
	"errors"
	"net/http"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

type Kind string

const (
	KindAccess Kind = "access"
	KindShare  Kind = "share"
)

// Token is a raw credential plus its classification. No verification has
// happened yet when a Token is produced.
type Token struct {
	Kind Kind
	Raw  string
}

// FromRequest pulls a token out of the request, first match wins:
//
//	1. "token" query parameter  -> share token
//	2. Authorization: Bearer    -> access token
//	3. access-token cookie      -> access token
//
// A share link embedded in a URL therefore always takes priority over an
// ambient session, so a logged-in owner can open a link issued to someone
// else without their own session leaking into the decision.
func FromRequest(r *http.Request, cookieName string) *Token {
	if q := r.URL.Query().Get("token"); q != "" {
		return &Token{Kind: KindShare, Raw: q}
	}

	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if raw != "" {
			return &Token{Kind: KindAccess, Raw: raw}
		}
	}

	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return &Token{Kind: KindAccess, Raw: c.Value}
	}

	return nil
}

// ErrInvalidToken covers bad signature, malformed payload and expiry alike.
// Callers never learn why verification failed, to avoid handing an oracle to
// whoever is probing tokens.
var ErrInvalidToken = errors.New("invalid token")

// AccessClaims is the payload of an owner access token. The subject is the
// owning account id.
type AccessClaims struct {
	jwtlib.RegisteredClaims
}

// ShareClaims is the payload of a share token, scoped to exactly one file
// and its owner.
type ShareClaims struct {
	Type    string `json:"type"`
	FileID  string `json:"file_id"`
	OwnerID string `json:"owner_id"`
	jwtlib.RegisteredClaims
}

// Verifier verifies and mints both token kinds.
type Verifier struct {
	accessSecret []byte
	shareSecret  []byte
}

func NewVerifier(accessSecret, shareSecret string) *Verifier {
	return &Verifier{
		accessSecret: []byte(accessSecret),
		shareSecret:  []byte(shareSecret),
	}
}

func (v *Verifier) VerifyAccess(raw string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := v.verify(raw, &claims, v.accessSecret); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (v *Verifier) VerifyShare(raw string) (*ShareClaims, error) {
	var claims ShareClaims
	if err := v.verify(raw, &claims, v.shareSecret); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (v *Verifier) verify(raw string, claims jwtlib.Claims, secret []byte) error {
	t, err := jwtlib.ParseWithClaims(raw, claims, func(t *jwtlib.Token) (any, error) {
		return secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !t.Valid {
		return ErrInvalidToken
	}
	return nil
}

// MintAccess issues an access token for an account. Used by the seeder and
// tests; in production access tokens come from the account backend, which
// shares the secret.
func (v *Verifier) MintAccess(userID string, ttl time.Duration) (string, error) {
	claims := AccessClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return t.SignedString(v.accessSecret)
}

// MintShare issues a share token scoped to one file under one owner.
func (v *Verifier) MintShare(fileID, ownerID string, ttl time.Duration) (string, error) {
	claims := ShareClaims{
		Type:    "share",
		FileID:  fileID,
		OwnerID: ownerID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return t.SignedString(v.shareSecret)
}
