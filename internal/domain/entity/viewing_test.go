package entity

import (
	"testing"
	"time"

	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViewing() (*Viewing, Actor, Actor) {
	owner := Actor{ID: uuid.New(), Role: RoleOwner, Active: true}
	requester := Actor{ID: uuid.New(), Role: RoleUser, Active: true}
	property := &Property{ID: uuid.New(), OwnerID: owner.ID}

	return NewViewing(property, requester.ID, time.Now().Add(24*time.Hour), nil), owner, requester
}

func TestViewing_Transition_OwnerConfirms(t *testing.T) {
	v, owner, _ := newTestViewing()

	require.NoError(t, v.Transition(owner, ViewingStatusConfirmed, nil))
	assert.Equal(t, ViewingStatusConfirmed, v.Status)

	err := v.Transition(owner, ViewingStatusCompleted, nil)
	assert.True(t, errors.Is(err, domainerrors.ErrBadRequest))
}

func TestViewing_Transition_RequesterCannotConfirm(t *testing.T) {
	v, _, requester := newTestViewing()

	err := v.Transition(requester, ViewingStatusConfirmed, nil)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	assert.Equal(t, "Not authorized to update this viewing", err.Error())
	assert.Equal(t, ViewingStatusPending, v.Status)
}

func TestViewing_Transition_Cancel(t *testing.T) {
	v, owner, requester := newTestViewing()

	err := v.Transition(owner, ViewingStatusCancelled, nil)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	reason := "schedule clash"
	require.NoError(t, v.Transition(requester, ViewingStatusCancelled, &reason))
	assert.Equal(t, ViewingStatusCancelled, v.Status)
	assert.Equal(t, &reason, v.CancelReason)
}

func TestViewing_Transition_AdminAndAuthorizationFirst(t *testing.T) {
	v, _, requester := newTestViewing()
	admin := Actor{ID: uuid.New(), Role: RoleAdmin, Active: true}

	require.NoError(t, v.Transition(admin, ViewingStatusRejected, nil))

	// not pending anymore, but the requester is still refused on authorization first
	err := v.Transition(requester, ViewingStatusCompleted, nil)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestViewing_Transition_InvalidTarget(t *testing.T) {
	v, owner, _ := newTestViewing()

	assert.True(t, errors.Is(v.Transition(owner, ViewingStatusPending, nil), domainerrors.ErrBadRequest))
	assert.True(t, errors.Is(v.Transition(owner, "archived", nil), domainerrors.ErrBadRequest))
}
