// Package perm answers the membership and authorization questions the
// engines ask: is a user a member or owner of a container, is a user a
// global owner, and which container does a message id resolve to. All
// functions read a models.State that the caller holds under the store
// lock; nothing here mutates.
package perm

import "huddle/pkg/models"

// IsGlobalOwner reports whether uid is a live user with the global-owner
// permission level.
func IsGlobalOwner(st *models.State, uid int64) bool {
	u := st.ActiveUserByID(uid)
	return u != nil && u.Permission == models.PermGlobalOwner
}

// CountGlobalOwners counts live users holding the global-owner level.
// Used to refuse demoting or removing the last one.
func CountGlobalOwners(st *models.State) int {
	n := 0
	for _, u := range st.Users {
		if !u.Removed && u.Permission == models.PermGlobalOwner {
			n++
		}
	}
	return n
}

// IsMember reports whether uid belongs to the container's member set.
// An unknown container is simply not joined.
func IsMember(st *models.State, ref models.ContainerRef, uid int64) bool {
	switch ref.Kind {
	case models.KindChannel:
		if c := st.ChannelByID(ref.ID); c != nil {
			return models.ContainsID(c.MemberIDs, uid)
		}
	case models.KindDM:
		if d := st.DMByID(ref.ID); d != nil {
			return models.ContainsID(d.MemberIDs, uid)
		}
	}
	return false
}

// HasOwnerPerm reports whether uid has owner rights in the container.
// In a channel that means sitting in the owner set, or being a global
// owner who is also a member. In a DM only the creator ever qualifies.
func HasOwnerPerm(st *models.State, ref models.ContainerRef, uid int64) bool {
	switch ref.Kind {
	case models.KindChannel:
		c := st.ChannelByID(ref.ID)
		if c == nil {
			return false
		}
		if models.ContainsID(c.OwnerIDs, uid) {
			return true
		}
		return IsGlobalOwner(st, uid) && models.ContainsID(c.MemberIDs, uid)
	case models.KindDM:
		d := st.DMByID(ref.ID)
		return d != nil && d.OwnerID == uid
	}
	return false
}

// ResolveMessage looks a message up in the global index and returns it
// with its owning container reference.
func ResolveMessage(st *models.State, msgID int64) (*models.Message, models.ContainerRef, bool) {
	m, ok := st.Messages[msgID]
	if !ok {
		return nil, models.ContainerRef{}, false
	}
	return m, m.Container, true
}

// KindForMessageID recovers the container kind from the id alone via
// the parity partition: odd ids are channel messages, even ids are DM
// messages.
func KindForMessageID(id int64) models.ContainerKind {
	if id%2 == 1 {
		return models.KindChannel
	}
	return models.KindDM
}
