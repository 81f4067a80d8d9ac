package tokenx

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the bearer-token claims the portal cares about. The backend owns
// the token; we only ever decode it locally, we never verify the signature
// client-side (the backend rejects tampered tokens on its own).
type Claims struct {
	jwt.RegisteredClaims

	// Role is the authorization class baked into the token at login
	// (e.g. "PATIENT", "DOCTOR", "ADMIN").
	Role string `json:"role,omitempty"`
}

// Status classifies the outcome of a local credential check.
type Status int

const (
	// StatusInvalid means the credential is structurally unusable and must
	// never be attached to an outbound request.
	StatusInvalid Status = iota

	// StatusValid means the credential is well-formed and not expired.
	StatusValid

	// StatusExpired means the credential is well-formed but its expiry is in
	// the past.
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// Reason explains why a credential came back StatusInvalid.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNoToken
	ReasonBadFormat
	ReasonParseError
)

func (r Reason) String() string {
	switch r {
	case ReasonNoToken:
		return "no token"
	case ReasonBadFormat:
		return "not a three-segment token"
	case ReasonParseError:
		return "claims segment unparseable"
	default:
		return "none"
	}
}

// Result is the tagged outcome of Validate. It is a value, never an error:
// local validation has no failure mode of its own.
type Result struct {
	Status Status
	Reason Reason

	// Claims is populated for StatusValid and StatusExpired.
	Claims *Claims

	// SecondsUntilExpiry is set for StatusValid. A nil value means the token
	// carries no expiry claim at all; such tokens are accepted deliberately,
	// matching how the backend minted early tokens without an exp field.
	SecondsUntilExpiry *int64

	// SecondsSinceExpiry is set for StatusExpired.
	SecondsSinceExpiry int64
}

// OK reports whether the credential may be attached to outbound requests.
func (r Result) OK() bool { return r.Status == StatusValid }

// Validate checks a raw bearer credential against the current clock.
func Validate(raw string) Result {
	return ValidateAt(raw, time.Now())
}

// ValidateAt is Validate with an injected clock. Pure function of its inputs;
// it performs no I/O and never touches the network.
func ValidateAt(raw string, now time.Time) Result {
	if strings.TrimSpace(raw) == "" {
		return Result{Status: StatusInvalid, Reason: ReasonNoToken}
	}

	// A signed-claims token is exactly header.payload.signature.
	if strings.Count(raw, ".") != 2 {
		return Result{Status: StatusInvalid, Reason: ReasonBadFormat}
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Result{Status: StatusInvalid, Reason: ReasonParseError}
	}

	// No expiry claim: valid with an open-ended horizon.
	if claims.ExpiresAt == nil {
		return Result{Status: StatusValid, Claims: claims}
	}

	// Seconds granularity, matching the exp claim itself.
	nowSec := now.Unix()
	expSec := claims.ExpiresAt.Unix()
	if expSec < nowSec {
		return Result{
			Status:             StatusExpired,
			Claims:             claims,
			SecondsSinceExpiry: nowSec - expSec,
		}
	}

	ttl := expSec - nowSec
	return Result{
		Status:             StatusValid,
		Claims:             claims,
		SecondsUntilExpiry: &ttl,
	}
}
