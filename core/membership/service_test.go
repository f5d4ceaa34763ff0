package membership_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/membership"
	inmemdb "github.com/trezcool/kosoa/storage/database/inmem"
)

func newSvc() membership.Service {
	return membership.NewService(inmemdb.NewMembershipRepository(inmemdb.NewDB()))
}

func TestService_Create(t *testing.T) {
	svc := newSvc()

	mb, err := svc.Create(membership.NewMembership{
		UserID: 1, ClassID: 1, Role: membership.RoleStudent, Status: membership.StatusActive,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, mb.UID)
	assert.Equal(t, membership.RoleStudent, mb.Role)
	assert.Equal(t, membership.StatusActive, mb.Status)
	require.NotNil(t, mb.JoinedAt)

	t.Run("duplicate member is rejected", func(t *testing.T) {
		_, err := svc.Create(membership.NewMembership{
			UserID: 1, ClassID: 1, Role: membership.RoleStudent, Status: membership.StatusActive,
		})
		require.Error(t, err)
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.EqualError(t, vErr, membership.ErrAlreadyMember.Error())
	})

	t.Run("same user may join another class", func(t *testing.T) {
		_, err := svc.Create(membership.NewMembership{
			UserID: 1, ClassID: 2, Role: membership.RoleTeacher, Status: membership.StatusActive,
		})
		assert.NoError(t, err)
	})
}

func TestService_Create_revivesRemovedMember(t *testing.T) {
	svc := newSvc()

	mb, err := svc.Create(membership.NewMembership{
		UserID: 7, ClassID: 3, Role: membership.RoleStudent, Status: membership.StatusActive,
	})
	require.NoError(t, err)

	mb, err = svc.Remove(mb)
	require.NoError(t, err)
	assert.Equal(t, membership.StatusRemoved, mb.Status)

	// re-adding revives the same row instead of creating a second one
	revived, err := svc.Create(membership.NewMembership{
		UserID: 7, ClassID: 3, Role: membership.RoleTeacher, Status: membership.StatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, mb.UID, revived.UID)
	assert.Equal(t, membership.RoleTeacher, revived.Role)
	assert.Equal(t, membership.StatusActive, revived.Status)

	mbs, err := svc.QueryByUser(7)
	require.NoError(t, err)
	assert.Len(t, mbs, 1)
}

func TestService_RoleOf(t *testing.T) {
	svc := newSvc()

	active, err := svc.Create(membership.NewMembership{
		UserID: 1, ClassID: 1, Role: membership.RoleTeacher, Status: membership.StatusActive,
	})
	require.NoError(t, err)
	_, err = svc.Create(membership.NewMembership{
		UserID: 2, ClassID: 1, Role: membership.RoleStudent, Status: membership.StatusPending,
	})
	require.NoError(t, err)

	assert.Equal(t, membership.RoleTeacher, svc.RoleOf(1, 1))

	// a pending membership grants nothing
	assert.Equal(t, membership.RoleNone, svc.RoleOf(2, 1))

	// no membership at all
	assert.Equal(t, membership.RoleNone, svc.RoleOf(3, 1))
	assert.Equal(t, membership.RoleNone, svc.RoleOf(1, 99))

	// removal revokes the role immediately
	_, err = svc.Remove(active)
	require.NoError(t, err)
	assert.Equal(t, membership.RoleNone, svc.RoleOf(1, 1))
}

func TestService_Activate(t *testing.T) {
	svc := newSvc()

	mb, err := svc.Create(membership.NewMembership{
		UserID: 4, ClassID: 2, Role: membership.RoleStudent, Status: membership.StatusPending,
	})
	require.NoError(t, err)
	assert.Nil(t, mb.JoinedAt)

	mb, err = svc.Activate(mb)
	require.NoError(t, err)
	assert.Equal(t, membership.StatusActive, mb.Status)
	require.NotNil(t, mb.JoinedAt)
	assert.Equal(t, membership.RoleStudent, svc.RoleOf(4, 2))
}
