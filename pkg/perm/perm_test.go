package perm_test

import (
	"testing"

	"huddle/pkg/models"
	"huddle/pkg/perm"
)

func fixtureState() *models.State {
	st := models.NewState()
	st.Users = []*models.User{
		{ID: 1, Permission: models.PermGlobalOwner},
		{ID: 2, Permission: models.PermMember},
		{ID: 3, Permission: models.PermMember},
		{ID: 4, Permission: models.PermGlobalOwner, Removed: true},
	}
	st.Channels = []*models.Channel{
		{ID: 1, OwnerIDs: []int64{2}, MemberIDs: []int64{1, 2}},
	}
	st.DMs = []*models.DM{
		{ID: 1, OwnerID: 2, MemberIDs: []int64{2, 3}},
	}
	return st
}

func TestIsGlobalOwner(t *testing.T) {
	st := fixtureState()
	if !perm.IsGlobalOwner(st, 1) {
		t.Error("user 1 should be a global owner")
	}
	if perm.IsGlobalOwner(st, 2) {
		t.Error("user 2 should not be a global owner")
	}
	if perm.IsGlobalOwner(st, 4) {
		t.Error("removed user 4 should not count as a global owner")
	}
}

func TestCountGlobalOwnersSkipsRemoved(t *testing.T) {
	if got := perm.CountGlobalOwners(fixtureState()); got != 1 {
		t.Fatalf("CountGlobalOwners = %d, want 1", got)
	}
}

func TestIsMember(t *testing.T) {
	st := fixtureState()
	ch := models.ContainerRef{Kind: models.KindChannel, ID: 1}
	dm := models.ContainerRef{Kind: models.KindDM, ID: 1}
	if !perm.IsMember(st, ch, 1) || !perm.IsMember(st, ch, 2) {
		t.Error("channel members not recognized")
	}
	if perm.IsMember(st, ch, 3) {
		t.Error("user 3 is not a channel member")
	}
	if !perm.IsMember(st, dm, 3) {
		t.Error("user 3 is a dm member")
	}
	if perm.IsMember(st, models.ContainerRef{Kind: models.KindChannel, ID: 99}, 1) {
		t.Error("unknown container has no members")
	}
}

func TestHasOwnerPermChannel(t *testing.T) {
	st := fixtureState()
	ch := models.ContainerRef{Kind: models.KindChannel, ID: 1}
	if !perm.HasOwnerPerm(st, ch, 2) {
		t.Error("channel owner lacks owner perm")
	}
	// global owner who is also a member
	if !perm.HasOwnerPerm(st, ch, 1) {
		t.Error("global owner member lacks owner perm")
	}
	if perm.HasOwnerPerm(st, ch, 3) {
		t.Error("non-member has owner perm")
	}
}

func TestHasOwnerPermGlobalOwnerOutsideChannel(t *testing.T) {
	st := fixtureState()
	st.Channels[0].MemberIDs = []int64{2}
	ch := models.ContainerRef{Kind: models.KindChannel, ID: 1}
	if perm.HasOwnerPerm(st, ch, 1) {
		t.Error("global owner has owner perm in a channel they never joined")
	}
}

func TestHasOwnerPermDMCreatorOnly(t *testing.T) {
	st := fixtureState()
	dm := models.ContainerRef{Kind: models.KindDM, ID: 1}
	if !perm.HasOwnerPerm(st, dm, 2) {
		t.Error("dm creator lacks owner perm")
	}
	if perm.HasOwnerPerm(st, dm, 3) {
		t.Error("dm member has owner perm without being creator")
	}
	if perm.HasOwnerPerm(st, dm, 1) {
		t.Error("global owner has owner perm in a dm they are not in")
	}
}

func TestResolveMessage(t *testing.T) {
	st := fixtureState()
	ref := models.ContainerRef{Kind: models.KindChannel, ID: 1}
	st.AddMessage(&models.Message{ID: 1, Container: ref})
	m, got, ok := perm.ResolveMessage(st, 1)
	if !ok || m.ID != 1 || got != ref {
		t.Fatalf("ResolveMessage = (%v, %v, %v)", m, got, ok)
	}
	if _, _, ok := perm.ResolveMessage(st, 99); ok {
		t.Fatal("unknown id resolved")
	}
}

func TestKindForMessageID(t *testing.T) {
	if perm.KindForMessageID(1) != models.KindChannel || perm.KindForMessageID(7) != models.KindChannel {
		t.Error("odd ids should map to channels")
	}
	if perm.KindForMessageID(2) != models.KindDM || perm.KindForMessageID(8) != models.KindDM {
		t.Error("even ids should map to dms")
	}
}
