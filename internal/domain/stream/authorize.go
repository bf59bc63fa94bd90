package stream

import (
	"fileproxy/internal/domain/file"
	"fileproxy/internal/domain/user"
	"fileproxy/internal/pkg/token"
)

// Reason is the machine-readable outcome of an authorization decision.
type Reason string

const (
	// allow reasons
	ReasonPublic     Reason = "public"
	ReasonOwner      Reason = "owner"
	ReasonShareToken Reason = "share_token"

	// deny reasons
	ReasonMissingToken      Reason = "missing_token"
	ReasonInvalidJWT        Reason = "invalid_jwt"
	ReasonNotOwner          Reason = "not_owner"
	ReasonInactiveUser      Reason = "inactive_user"
	ReasonInvalidShareToken Reason = "invalid_share_token"
	ReasonUnknownTokenShape Reason = "unknown_token_shape"
)

// Decision is ephemeral, produced per request and never persisted.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow(r Reason) Decision { return Decision{Allowed: true, Reason: r} }
func deny(r Reason) Decision  { return Decision{Allowed: false, Reason: r} }

// Authorize decides whether the bearer of tok may read rec. The checks form
// an ordered state machine and the ordering is a contract:
//
//   - public visibility is checked before any token logic, so public files
//     are servable with zero credentials (unauthenticated embeds);
//   - the owner check precedes the active-account check, so "not your file"
//     and "your account is disabled" stay distinguishable in audit logs even
//     though both deny.
//
// owner is the account owning rec. tok may be nil (no credential presented).
func Authorize(rec *file.Record, owner *user.Account, tok *token.Token, verifier *token.Verifier) Decision {
	if rec.IsPublic {
		return allow(ReasonPublic)
	}

	if tok == nil {
		return deny(ReasonMissingToken)
	}

	switch tok.Kind {
	case token.KindAccess:
		claims, err := verifier.VerifyAccess(tok.Raw)
		if err != nil {
			return deny(ReasonInvalidJWT)
		}
		if claims.Subject == "" {
			return deny(ReasonUnknownTokenShape)
		}
		if claims.Subject != rec.OwnerID {
			return deny(ReasonNotOwner)
		}
		if !owner.CanOwnContent() {
			return deny(ReasonInactiveUser)
		}
		return allow(ReasonOwner)

	case token.KindShare:
		claims, err := verifier.VerifyShare(tok.Raw)
		if err != nil {
			return deny(ReasonInvalidShareToken)
		}
		if claims.Type != "share" || claims.FileID == "" || claims.OwnerID == "" {
			return deny(ReasonUnknownTokenShape)
		}
		// Both embedded ids must match the target: a share token minted for
		// file A must not be replayable against file B, even under the same
		// owner.
		if claims.FileID == rec.ID && claims.OwnerID == rec.OwnerID {
			return allow(ReasonShareToken)
		}
		return deny(ReasonInvalidShareToken)
	}

	return deny(ReasonUnknownTokenShape)
}
