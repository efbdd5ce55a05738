package identity

import "strings"

// Kind tags the resolved identity variant.
type Kind string

const (
	KindUser       Kind = "user"
	KindGuest      Kind = "guest"
	KindUnresolved Kind = "unresolved"
)

// Session is the authenticated-session view consumed by the resolver.
// Lookup of the session itself (token verification, cookie refresh) is an
// upstream collaborator's job; the resolver only reads it.
type Session struct {
	UserID string
}

// Cookies is the read-only cookie view consumed by the resolver.
type Cookies struct {
	GuestSessionID string
	DeviceID       string
}

// Identity is the per-request cart identity. It is recomputed on every
// request and never persisted.
type Identity struct {
	Kind           Kind
	UserID         string
	GuestSessionID string
	DeviceID       string
}

// IsUnresolved reports that neither a session nor a device cookie was
// present. Callers must treat this as "cannot safely read or write a cart":
// it means upstream middleware failed to mint a device id.
func (i Identity) IsUnresolved() bool {
	return i.Kind == KindUnresolved
}

// Resolve derives the cart identity from the current session and cookies.
// The guest session id is retained even for logged-in users so a pending
// guest-cart merge can still be detected. No side effects.
func Resolve(session *Session, cookies Cookies) Identity {
	guestId := strings.TrimSpace(cookies.GuestSessionID)
	deviceId := strings.TrimSpace(cookies.DeviceID)

	if session != nil && strings.TrimSpace(session.UserID) != "" {
		return Identity{
			Kind:           KindUser,
			UserID:         strings.TrimSpace(session.UserID),
			GuestSessionID: guestId,
			DeviceID:       deviceId,
		}
	}

	if guestId != "" || deviceId != "" {
		return Identity{
			Kind:           KindGuest,
			GuestSessionID: guestId,
			DeviceID:       deviceId,
		}
	}

	return Identity{Kind: KindUnresolved}
}
