// Package dms manages direct-message containers. A DM is created once
// with a fixed roster of the creator plus invitees; members can leave
// but nobody can be added later.
package dms

import (
	"sort"
	"strings"

	"huddle/pkg/auth"
	"huddle/pkg/errs"
	"huddle/pkg/logger"
	"huddle/pkg/messages"
	"huddle/pkg/models"
	"huddle/pkg/store"
)

// Summary is the list view of a DM.
type Summary struct {
	DMID int64  `json:"dm_id"`
	Name string `json:"name"`
}

// Details is the member view of a DM.
type Details struct {
	Name    string           `json:"name"`
	Members []models.Profile `json:"members"`
}

// Service executes DM operations for authenticated callers.
type Service struct {
	store *store.Store
	ident *auth.Service
}

func NewService(st *store.Store, ident *auth.Service) *Service {
	return &Service{store: st, ident: ident}
}

// Create opens a DM between the caller and the invited users. The DM's
// name is the members' handles, sorted alphabetically and joined with
// ", ", fixed at creation time.
func (s *Service) Create(token string, inviteeIDs []int64) (int64, error) {
	uid, err := s.ident.Resolve(token)
	if err != nil {
		return 0, err
	}
	var id int64
	err = s.store.Update(func(st *models.State) error {
		seen := map[int64]bool{uid: true}
		members := []int64{uid}
		for _, inv := range inviteeIDs {
			if st.ActiveUserByID(inv) == nil {
				return errs.Input("user id does not refer to a valid user")
			}
			if seen[inv] {
				return errs.Input("duplicate user id in invite list")
			}
			seen[inv] = true
			members = append(members, inv)
		}

		id = st.DMSeq + 1
		st.DMSeq = id
		st.DMs = append(st.DMs, &models.DM{
			ID:        id,
			Name:      dmName(st, members),
			OwnerID:   uid,
			MemberIDs: members,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Info("dm_created", "dm", id, "user", uid, "members", len(inviteeIDs)+1)
	return id, nil
}

// List returns the DMs the caller belongs to.
func (s *Service) List(token string) ([]Summary, error) {
	uid, err := s.ident.Resolve(token)
	if err != nil {
		return nil, err
	}
	out := []Summary{}
	err = s.store.View(func(st *models.State) error {
		for _, d := range st.DMs {
			if models.ContainsID(d.MemberIDs, uid) {
				out = append(out, Summary{DMID: d.ID, Name: d.Name})
			}
		}
		return nil
	})
	return out, err
}

// Details returns the DM's name and roster. Only members may look.
func (s *Service) Details(token string, dmID int64) (Details, error) {
	uid, err := s.ident.Resolve(token)
	if err != nil {
		return Details{}, err
	}
	var d Details
	err = s.store.View(func(st *models.State) error {
		dm := st.DMByID(dmID)
		if dm == nil {
			return errs.Input("dm id does not refer to a valid dm")
		}
		if !models.ContainsID(dm.MemberIDs, uid) {
			return errs.Access("user is not a member of the dm")
		}
		d = Details{Name: dm.Name, Members: profiles(st, dm.MemberIDs)}
		return nil
	})
	return d, err
}

// Leave removes the caller from the DM. The name does not change and
// the caller's messages stay behind; even the creator may leave.
func (s *Service) Leave(token string, dmID int64) error {
	uid, err := s.ident.Resolve(token)
	if err != nil {
		return err
	}
	return s.store.Update(func(st *models.State) error {
		dm := st.DMByID(dmID)
		if dm == nil {
			return errs.Input("dm id does not refer to a valid dm")
		}
		if !models.ContainsID(dm.MemberIDs, uid) {
			return errs.Access("user is not a member of the dm")
		}
		out := dm.MemberIDs[:0]
		for _, v := range dm.MemberIDs {
			if v != uid {
				out = append(out, v)
			}
		}
		dm.MemberIDs = out
		return nil
	})
}

// Messages returns one page of DM history, newest first.
func (s *Service) Messages(token string, dmID int64, start int) (messages.Page, error) {
	uid, err := s.ident.Resolve(token)
	if err != nil {
		return messages.Page{}, err
	}
	var page messages.Page
	err = s.store.View(func(st *models.State) error {
		dm := st.DMByID(dmID)
		if dm == nil {
			return errs.Input("dm id does not refer to a valid dm")
		}
		if !models.ContainsID(dm.MemberIDs, uid) {
			return errs.Access("user is not a member of the dm")
		}
		page, err = messages.Paginate(st, dm.MessageIDs, uid, start)
		return err
	})
	return page, err
}

func dmName(st *models.State, memberIDs []int64) string {
	handles := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if u := st.ActiveUserByID(id); u != nil {
			handles = append(handles, u.Handle)
		}
	}
	sort.Strings(handles)
	return strings.Join(handles, ", ")
}

func profiles(st *models.State, ids []int64) []models.Profile {
	out := make([]models.Profile, 0, len(ids))
	for _, id := range ids {
		if u := st.UserByID(id); u != nil {
			out = append(out, u.Profile())
		}
	}
	return out
}
