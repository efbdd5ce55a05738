package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAuthenticatedUser(t *testing.T) {
	id := Resolve(&Session{UserID: "u1"}, Cookies{GuestSessionID: "g1", DeviceID: "d1"})
	assert.Equal(t, KindUser, id.Kind)
	assert.Equal(t, "u1", id.UserID)
	// guest session survives login so a pending merge stays detectable
	assert.Equal(t, "g1", id.GuestSessionID)
	assert.False(t, id.IsUnresolved())
}

func TestResolveUserWithoutGuestCookie(t *testing.T) {
	id := Resolve(&Session{UserID: "u1"}, Cookies{})
	assert.Equal(t, KindUser, id.Kind)
	assert.Empty(t, id.GuestSessionID)
}

func TestResolveGuestByDeviceCookie(t *testing.T) {
	id := Resolve(nil, Cookies{DeviceID: "d1"})
	assert.Equal(t, KindGuest, id.Kind)
	assert.Equal(t, "d1", id.DeviceID)
	assert.Empty(t, id.UserID)
}

func TestResolveGuestBySessionCookie(t *testing.T) {
	id := Resolve(&Session{}, Cookies{GuestSessionID: "g1"})
	assert.Equal(t, KindGuest, id.Kind)
	assert.Equal(t, "g1", id.GuestSessionID)
}

func TestResolveUnresolved(t *testing.T) {
	id := Resolve(nil, Cookies{})
	assert.Equal(t, KindUnresolved, id.Kind)
	assert.True(t, id.IsUnresolved())
}

func TestResolveIgnoresBlankSession(t *testing.T) {
	id := Resolve(&Session{UserID: "   "}, Cookies{DeviceID: "d1"})
	assert.Equal(t, KindGuest, id.Kind)
}
