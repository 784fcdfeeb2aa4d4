package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActor_CanModify(t *testing.T) {
	self := uuid.New()
	other := uuid.New()

	tests := []struct {
		name  string
		actor Actor
		owner uuid.UUID
		want  bool
	}{
		{name: "admin on foreign resource", actor: Actor{ID: self, Role: RoleAdmin}, owner: other, want: true},
		{name: "owner on own resource", actor: Actor{ID: self, Role: RoleOwner}, owner: self, want: true},
		{name: "owner on foreign resource", actor: Actor{ID: self, Role: RoleOwner}, owner: other, want: false},
		{name: "user on own resource", actor: Actor{ID: self, Role: RoleUser}, owner: self, want: true},
		{name: "unknown role on own resource", actor: Actor{ID: self, Role: "superuser"}, owner: self, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.actor.CanModify(tt.owner))
		})
	}
}

func TestActor_HasAnyRole(t *testing.T) {
	assert.True(t, Actor{Role: RoleOwner}.HasAnyRole(RoleOwner, RoleAdmin))
	assert.False(t, Actor{Role: RoleUser}.HasAnyRole(RoleOwner, RoleAdmin))
	assert.False(t, Actor{Role: "root"}.HasAnyRole("root"))
}

func TestRolesFromStrings(t *testing.T) {
	roles := RolesFromStrings([]string{"admin", "bogus", "user"})
	assert.Equal(t, Roles{RoleAdmin, RoleUser}, roles)
	assert.Equal(t, []string{"admin", "user"}, roles.ToStrings())
}

func TestNewUser_Defaults(t *testing.T) {
	u := NewUser("  Jane@Example.COM ", " Jane ", "superuser")

	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, "Jane", u.Name)
	assert.Equal(t, RoleUser, u.Role)
	assert.True(t, u.IsActive)
	assert.True(t, u.IsDarkMode)
	assert.Equal(t, "en", u.Locale)
	assert.False(t, u.HasPassword())
}

func TestReview_ToggleHelpful(t *testing.T) {
	r := &Review{}
	voter := uuid.New()

	assert.True(t, r.ToggleHelpful(voter))
	assert.Equal(t, 1, r.HelpfulCount)
	assert.True(t, r.IsHelpfulBy(voter))

	assert.True(t, r.ToggleHelpful(uuid.New()))
	assert.Equal(t, 2, r.HelpfulCount)

	assert.False(t, r.ToggleHelpful(voter))
	assert.Equal(t, 1, r.HelpfulCount)
	assert.False(t, r.IsHelpfulBy(voter))
	assert.Len(t, r.HelpfulBy, r.HelpfulCount)
}

func TestChat_ViewFor(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	chat := NewChat(alice, bob, false)
	msg := "hi"
	now := time.Now()

	chat.Participants[1].User = &UserSummary{ID: bob, Name: "Bob"}
	chat.Participants[0].LastMessage = &msg
	chat.Participants[0].LastMessageTime = &now
	chat.Participants[0].UnreadCount = 3

	require.True(t, chat.HasParticipant(alice))
	assert.False(t, chat.HasParticipant(uuid.New()))
	assert.Equal(t, bob, chat.Other(alice).UserID)

	view := chat.ViewFor(alice)
	assert.Equal(t, 3, view.UnreadCount)
	assert.Equal(t, &msg, view.LastMessage)
	assert.Equal(t, "Bob", view.OtherUser.Name)
}

func TestMessage_Preview(t *testing.T) {
	m := NewMessage(uuid.New(), uuid.New(), uuid.New(), "  héllo world  ")

	assert.Equal(t, "héllo world", m.Content)
	assert.Equal(t, "héllo", m.Preview(5))
	assert.Equal(t, "héllo world", m.Preview(100))
}

func TestPageRequest(t *testing.T) {
	req := NewPageRequest(0, 0, 20, 100)
	assert.Equal(t, PageRequest{Page: 1, Limit: 20}, req)
	assert.Equal(t, 0, req.Offset())

	req = NewPageRequest(3, 500, 20, 100)
	assert.Equal(t, 100, req.Limit)
	assert.Equal(t, 200, req.Offset())

	p := NewPagination(PageRequest{Page: 1, Limit: 20}, 41)
	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, 0, NewPagination(PageRequest{Page: 1, Limit: 20}, 0).Pages)
}
