package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtLeast(t *testing.T) {
	assert.True(t, AtLeast(RoleOwner, RoleAdmin))
	assert.True(t, AtLeast(RoleAdmin, RoleAdmin))
	assert.False(t, AtLeast(RoleMember, RoleAdmin))
	assert.False(t, AtLeast("", RoleMember))
	assert.False(t, AtLeast("guest", RoleMember))
}

func TestMemory_BoardLifecycle(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	owner, err := st.CreateUser(ctx, "Owner@Example.com", "hash")
	require.NoError(t, err)
	_, err = st.CreateUser(ctx, "owner@example.com", "hash")
	assert.ErrorIs(t, err, ErrConflict)

	b, err := st.CreateBoard(ctx, owner.ID, "Roadmap", "")
	require.NoError(t, err)

	role, err := st.MemberRole(ctx, b.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, role)

	todo, err := st.CreateList(ctx, b.ID, "Todo")
	require.NoError(t, err)
	doing, err := st.CreateList(ctx, b.ID, "Doing")
	require.NoError(t, err)
	assert.Equal(t, 0, todo.Position)
	assert.Equal(t, 1, doing.Position)

	c1, err := st.CreateCard(ctx, Card{BoardID: b.ID, ListID: todo.ID, Title: "one"})
	require.NoError(t, err)
	c2, err := st.CreateCard(ctx, Card{BoardID: b.ID, ListID: todo.ID, Title: "two"})
	require.NoError(t, err)
	assert.Equal(t, 1, c2.Position)
	assert.NotNil(t, c1.Labels)

	moved, err := st.MoveCard(ctx, c1.ID, doing.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, doing.ID, moved.ListID)

	require.NoError(t, st.DeleteList(ctx, todo.ID))
	_, err = st.Card(ctx, c2.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.DeleteBoard(ctx, b.ID))
	_, err = st.Card(ctx, c1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.MemberRole(ctx, b.ID, owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Invites(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	owner, _ := st.CreateUser(ctx, "owner@example.com", "hash")
	b, _ := st.CreateBoard(ctx, owner.ID, "Launch", "")

	inv, err := st.CreateInvite(ctx, Invite{BoardID: b.ID, Email: "Guest@Example.com", Role: RoleMember, InvitedBy: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", inv.Email)
	assert.Equal(t, "Launch", inv.BoardTitle)

	_, err = st.CreateInvite(ctx, Invite{BoardID: b.ID, Email: "guest@example.com", Role: RoleAdmin, InvitedBy: owner.ID})
	assert.ErrorIs(t, err, ErrConflict)

	pending, err := st.PendingInvites(ctx, "guest@example.com")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	require.NoError(t, st.SetInviteStatus(ctx, inv.ID, InviteDeclined))
	pending, err = st.PendingInvites(ctx, "guest@example.com")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMemory_LogEventDedup(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	require.NoError(t, st.LogEvent(ctx, Event{Name: "a", SourceEventKey: "k1"}))
	require.NoError(t, st.LogEvent(ctx, Event{Name: "b", SourceEventKey: "k1"}))
	require.NoError(t, st.LogEvent(ctx, Event{Name: "c"}))
	require.NoError(t, st.LogEvent(ctx, Event{Name: "d"}))

	assert.Len(t, st.Events(), 3)
}
