// Package admin is the admin engine: removing users and changing
// global permission levels. Authorization failures outrank input
// failures here: whenever the actor is not a global owner, the caller
// sees an AccessError even if the target or level is also invalid.
package admin

import (
	"huddle/pkg/auth"
	"huddle/pkg/errs"
	"huddle/pkg/logger"
	"huddle/pkg/models"
	"huddle/pkg/perm"
	"huddle/pkg/store"
)

// Stats is a point-in-time count of every top-level collection.
type Stats struct {
	Users    int `json:"users"`
	Channels int `json:"channels"`
	DMs      int `json:"dms"`
	Messages int `json:"messages"`
}

// Service executes administrative operations.
type Service struct {
	store *store.Store
	ident *auth.Service
}

func NewService(st *store.Store, ident *auth.Service) *Service {
	return &Service{store: st, ident: ident}
}

// RemoveUser soft-deletes a user: the record stays so message author
// references hold, but the profile is anonymized, credentials are
// cleared, and the user disappears from every channel's member and
// owner lists. The sole global owner can never be removed.
func (s *Service) RemoveUser(token string, targetID int64) error {
	actor, err := s.ident.Resolve(token)
	if err != nil {
		return err
	}
	err = s.store.Update(func(st *models.State) error {
		target := st.ActiveUserByID(targetID)
		if target == nil {
			if !perm.IsGlobalOwner(st, actor) {
				return errs.Access("the authorised user is not a global owner")
			}
			return errs.Input("user id does not refer to a valid user")
		}
		if target.Permission == models.PermGlobalOwner && perm.CountGlobalOwners(st) == 1 {
			if !perm.IsGlobalOwner(st, actor) {
				return errs.Access("the authorised user is not a global owner")
			}
			return errs.Input("user id refers to the only global owner")
		}
		if !perm.IsGlobalOwner(st, actor) {
			return errs.Access("the authorised user is not a global owner")
		}

		target.NameFirst = "Removed"
		target.NameLast = "user"
		target.Email = ""
		target.Handle = ""
		target.PasswordHash = nil
		target.Sessions = nil
		target.Removed = true

		for _, c := range st.Channels {
			c.MemberIDs = without(c.MemberIDs, targetID)
			c.OwnerIDs = without(c.OwnerIDs, targetID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.AuditEvent("user_removed", "actor", actor, "target", targetID)
	return nil
}

// ChangePermission sets a user's global permission level. Demoting the
// only global owner always fails, even when the actor is that owner.
func (s *Service) ChangePermission(token string, targetID int64, level models.Permission) error {
	actor, err := s.ident.Resolve(token)
	if err != nil {
		return err
	}
	err = s.store.Update(func(st *models.State) error {
		target := st.ActiveUserByID(targetID)
		if target == nil {
			if !perm.IsGlobalOwner(st, actor) {
				return errs.Access("the authorised user is not a global owner")
			}
			return errs.Input("user id does not refer to a valid user")
		}
		soleOwner := target.Permission == models.PermGlobalOwner && perm.CountGlobalOwners(st) == 1
		if soleOwner && level != models.PermGlobalOwner {
			if !perm.IsGlobalOwner(st, actor) {
				return errs.Access("the authorised user is not a global owner")
			}
			return errs.Input("user id refers to the only global owner and they are being demoted")
		}
		if !level.Valid() {
			if !perm.IsGlobalOwner(st, actor) {
				return errs.Access("the authorised user is not a global owner")
			}
			return errs.Input("permission level is invalid")
		}
		if !perm.IsGlobalOwner(st, actor) {
			return errs.Access("the authorised user is not a global owner")
		}
		target.Permission = level
		return nil
	})
	if err != nil {
		return err
	}
	logger.AuditEvent("permission_changed", "actor", actor, "target", targetID, "level", int(level))
	return nil
}

// Stats reports collection sizes. Global owners only.
func (s *Service) Stats(token string) (Stats, error) {
	actor, err := s.ident.Resolve(token)
	if err != nil {
		return Stats{}, err
	}
	var out Stats
	err = s.store.View(func(st *models.State) error {
		if !perm.IsGlobalOwner(st, actor) {
			return errs.Access("the authorised user is not a global owner")
		}
		out = Stats{
			Users:    len(st.Users),
			Channels: len(st.Channels),
			DMs:      len(st.DMs),
			Messages: len(st.Messages),
		}
		return nil
	})
	return out, err
}

// Clear wipes every collection and restarts the id counters. Global
// owners only over the API; tests reset the store directly.
func (s *Service) Clear(token string) error {
	actor, err := s.ident.Resolve(token)
	if err != nil {
		return err
	}
	err = s.store.Update(func(st *models.State) error {
		if !perm.IsGlobalOwner(st, actor) {
			return errs.Access("the authorised user is not a global owner")
		}
		st.Reset()
		return nil
	})
	if err != nil {
		return err
	}
	logger.AuditEvent("state_cleared", "actor", actor)
	return nil
}

func without(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
