package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildAuthenticatedUser(t *testing.T) {
	s := Build("acme", "u1", "")
	assert.Equal(t, "acme::u1", s.Key())
	assert.False(t, s.IsPendingFallback())
}

func TestBuildTrimsIdentifiers(t *testing.T) {
	s := Build("  acme ", "  u1  ", "")
	assert.Equal(t, "acme::u1", s.Key())
}

func TestBuildAnonymousDevice(t *testing.T) {
	s := Build("acme", "", "dev-42")
	assert.Equal(t, "acme::anon:dev-42", s.Key())
}

func TestBuildGlobalTenantFallback(t *testing.T) {
	s := Build("", "u1", "")
	assert.Equal(t, "__global__::u1", s.Key())
}

func TestBuildPendingFallback(t *testing.T) {
	s := Build("", "", "")
	assert.Equal(t, "__global__::anon:pending", s.Key())
	assert.True(t, s.IsPendingFallback())
}

func TestBuildUserWinsOverDevice(t *testing.T) {
	s := Build("acme", "u1", "dev-42")
	assert.Equal(t, "acme::u1", s.Key())
}

func TestKeyIsDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, "acme::u1", Build("acme", "u1", "").Key())
	}
}
