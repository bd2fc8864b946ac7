package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPerms(t *testing.T) {
	require := require.New(t)
	ps := NewPerms(PermCreatePost)
	err := ps.Require(
		PermCreatePost,
		PermDeletePost,
	)
	require.Error(err)
	require.NoError(ps.Require(PermCreatePost))

	ps2 := ps.Union(NewPerms(PermDeletePost))
	require.NoError(ps2.Require(PermCreatePost, PermDeletePost))
}

func TestRolePerms(t *testing.T) {
	require := require.New(t)
	require.True(RolePerms(RoleAdmin).Check(PermSweepComments))
	require.True(RolePerms(RoleModerator).Check(PermExpirePending))
	require.False(RolePerms(RoleModerator).Check(PermSweepComments))
	require.False(RolePerms(RoleMember).Check(PermExpirePending))
	require.True(RolePerms("something-else").Check(PermCreateComment))
}
