package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveRole(t *testing.T) {
	t.Parallel()

	for _, want := range []Role{RoleViewer, RoleDeveloper, RoleAdmin} {
		got, err := ResolveRole(want.Name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ResolveRole("superuser")
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestRoleOrdering(t *testing.T) {
	t.Parallel()

	roles := []Role{RoleViewer, RoleDeveloper, RoleAdmin}

	for i, holder := range roles {
		for j, required := range roles {
			want := i >= j
			require.Equalf(t, want, holder.Satisfies(required),
				"%s at a %s gate", holder.Name, required.Name)
		}
	}
}
