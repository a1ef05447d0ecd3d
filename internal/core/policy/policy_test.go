package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

var (
	anonymous = domain.Principal{}
	alice     = domain.Principal{UserID: "u-alice", Username: "alice"}
	bob       = domain.Principal{UserID: "u-bob", Username: "bob"}
	staff     = domain.Principal{UserID: "u-staff", Username: "sam", IsStaff: true}
)

func TestAuthorize_DecisionTable(t *testing.T) {
	pol := New(false)

	tests := []struct {
		name    string
		p       domain.Principal
		owner   string
		action  Action
		wantErr error
	}{
		{"read own as user", alice, "", ReadOwn, nil},
		{"read any as user", alice, "", ReadAny, domain.ErrForbidden},
		{"read any as staff", staff, "", ReadAny, nil},
		{"write any as non owner", bob, "u-alice", WriteAny, nil},
		{"write status as user", alice, "u-alice", WriteStatusOnly, domain.ErrForbidden},
		{"write status as staff", staff, "u-alice", WriteStatusOnly, nil},
		{"delete as non owner", bob, "u-alice", Delete, nil},
		{"anonymous read own", anonymous, "", ReadOwn, domain.ErrUnauthenticated},
		{"anonymous delete", anonymous, "u-alice", Delete, domain.ErrUnauthenticated},
		{"unknown action", staff, "", Action("drop_table"), domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pol.Authorize(tt.p, tt.owner, tt.action)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthorize_RestrictMutations(t *testing.T) {
	pol := New(true)

	require.NoError(t, pol.Authorize(alice, "u-alice", WriteAny))
	require.NoError(t, pol.Authorize(staff, "u-alice", WriteAny))
	require.ErrorIs(t, pol.Authorize(bob, "u-alice", WriteAny), domain.ErrForbidden)

	require.NoError(t, pol.Authorize(alice, "u-alice", Delete))
	require.ErrorIs(t, pol.Authorize(bob, "u-alice", Delete), domain.ErrForbidden)

	// staff-only actions are unaffected by the switch
	require.ErrorIs(t, pol.Authorize(alice, "u-alice", WriteStatusOnly), domain.ErrForbidden)
}

func TestNeedsOwner(t *testing.T) {
	assert.False(t, New(false).NeedsOwner(WriteAny))
	assert.False(t, New(false).NeedsOwner(Delete))
	assert.True(t, New(true).NeedsOwner(WriteAny))
	assert.True(t, New(true).NeedsOwner(Delete))
	assert.False(t, New(true).NeedsOwner(ReadAny))
}
