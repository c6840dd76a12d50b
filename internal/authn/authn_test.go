package authn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "premium", "user"} {
		role, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, Role(s), role)
	}

	for _, s := range []string{"", "Admin", "superuser"} {
		_, err := ParseRole(s)
		require.Error(t, err, "role %q must be rejected", s)
	}
}

func TestCanManage(t *testing.T) {
	const owner = "owner@shop.test"

	cases := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"admin, any owner", Actor{Identity: "root@shop.test", Role: RoleAdmin}, true},
		{"premium owner", Actor{Identity: owner, Role: RolePremium}, true},
		{"premium non-owner", Actor{Identity: "other@shop.test", Role: RolePremium}, false},
		{"plain user, even the owner", Actor{Identity: owner, Role: RoleUser}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.actor.CanManage(owner))
		})
	}
}

func TestTokenRoundtrip(t *testing.T) {
	tm := NewTokenMaker("0123456789abcdef0123456789abcdef")

	tok, err := tm.New("premium@shop.test", RolePremium, time.Minute)
	require.NoError(t, err)

	actor, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, Actor{Identity: "premium@shop.test", Role: RolePremium}, actor)
}

func TestTokenRejected(t *testing.T) {
	tm := NewTokenMaker("0123456789abcdef0123456789abcdef")

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenMaker("ffffffffffffffffffffffffffffffff")
		tok, err := other.New("a@b.c", RoleUser, time.Minute)
		require.NoError(t, err)

		_, err = tm.Parse(tok)
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := tm.New("a@b.c", RoleUser, -time.Minute)
		require.NoError(t, err)

		_, err = tm.Parse(tok)
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.Parse("not.a.token")
		require.Error(t, err)
	})

	t.Run("unknown role claim", func(t *testing.T) {
		tok, err := tm.New("a@b.c", Role("superuser"), time.Minute)
		require.NoError(t, err)

		_, err = tm.Parse(tok)
		require.Error(t, err)
	})
}
