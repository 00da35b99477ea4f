// Package channels manages channel lifecycle and membership: create,
// list, join, invite, leave, and owner changes, plus paginated history.
package channels

import (
	"huddle/pkg/auth"
	"huddle/pkg/errs"
	"huddle/pkg/logger"
	"huddle/pkg/messages"
	"huddle/pkg/models"
	"huddle/pkg/perm"
	"huddle/pkg/store"
	"huddle/pkg/validation"
)

// Summary is the list view of a channel.
type Summary struct {
	ChannelID int64  `json:"channel_id"`
	Name      string `json:"name"`
}

// Details is the member view of a channel.
type Details struct {
	Name    string           `json:"name"`
	Public  bool             `json:"is_public"`
	Owners  []models.Profile `json:"owner_members"`
	Members []models.Profile `json:"all_members"`
}

// Service executes channel operations for authenticated callers.
type Service struct {
	store *store.Store
	ident *auth.Service
}

func NewService(st *store.Store, ident *auth.Service) *Service {
	return &Service{store: st, ident: ident}
}

// Create makes a new channel with the caller as its first member and
// owner, and returns the channel id.
func (s *Service) Create(token, name string, public bool) (int64, error) {
	uid, err := s.ident.Resolve(token)
	if err != nil {
		return 0, err
	}
	if err := validation.ChannelName(name); err != nil {
		return 0, err
	}
	var id int64
	err = s.store.Update(func(st *models.State) error {
		id = st.ChannelSeq + 1
		st.ChannelSeq = id
		st.Channels = append(st.Channels, &models.Channel{
			ID:        id,
			Name:      name,
			Public:    public,
			OwnerIDs:  []int64{uid},
			MemberIDs: []int64{uid},
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Info("channel_created", "channel", id, "user", uid)
	return id, nil
}

// List returns the channels the caller has joined.
func (s *Service) List(token string) ([]Summary, error) {
	uid, err := s.ident.Resolve(token)
	if err != nil {
		return nil, err
	}
	out := []Summary{}
	err = s.store.View(func(st *models.State) error {
		for _, c := range st.Channels {
			if models.ContainsID(c.MemberIDs, uid) {
				out = append(out, Summary{ChannelID: c.ID, Name: c.Name})
			}
		}
		return nil
	})
	return out, err
}

// ListAll returns every channel, public and private alike.
func (s *Service) ListAll(token string) ([]Summary, error) {
	if _, err := s.ident.Resolve(token); err != nil {
		return nil, err
	}
	out := []Summary{}
	err := s.store.View(func(st *models.State) error {
		for _, c := range st.Channels {
			out = append(out, Summary{ChannelID: c.ID, Name: c.Name})
		}
		return nil
	})
	return out, err
}

// Details returns the channel's name, visibility, and member rosters.
// Only members may look.
func (s *Service) Details(token string, channelID int64) (Details, error) {
	uid, err := s.ident.Resolve(token)
	if err != nil {
		return Details{}, err
	}
	var d Details
	err = s.store.View(func(st *models.State) error {
		c := st.ChannelByID(channelID)
		if c == nil {
			return errs.Input("channel id does not refer to a valid channel")
		}
		if !models.ContainsID(c.MemberIDs, uid) {
			return errs.Access("user is not a member of the channel")
		}
		d = Details{
			Name:    c.Name,
			Public:  c.Public,
			Owners:  profiles(st, c.OwnerIDs),
			Members: profiles(st, c.MemberIDs),
		}
		return nil
	})
	return d, err
}

// Join adds the caller to a channel. Private channels admit only global
// owners this way; everyone else needs an invite.
func (s *Service) Join(token string, channelID int64) error {
	uid, err := s.ident.Resolve(token)
	if err != nil {
		return err
	}
	return s.store.Update(func(st *models.State) error {
		c := st.ChannelByID(channelID)
		if c == nil {
			return errs.Input("channel id does not refer to a valid channel")
		}
		if models.ContainsID(c.MemberIDs, uid) {
			return errs.Input("user is already a member of the channel")
		}
		if !c.Public && !perm.IsGlobalOwner(st, uid) {
			return errs.Access("channel is private and user is not a global owner")
		}
		c.MemberIDs = append(c.MemberIDs, uid)
		return nil
	})
}

// Invite adds another user to a channel the caller belongs to. Invites
// work for private channels too.
func (s *Service) Invite(token string, channelID, targetID int64) error {
	uid, err := s.ident.Resolve(token)
	if err != nil {
		return err
	}
	return s.store.Update(func(st *models.State) error {
		c := st.ChannelByID(channelID)
		if c == nil {
			return errs.Input("channel id does not refer to a valid channel")
		}
		if st.ActiveUserByID(targetID) == nil {
			return errs.Input("user id does not refer to a valid user")
		}
		if models.ContainsID(c.MemberIDs, targetID) {
			return errs.Input("user is already a member of the channel")
		}
		if !models.ContainsID(c.MemberIDs, uid) {
			return errs.Access("user is not a member of the channel")
		}
		c.MemberIDs = append(c.MemberIDs, targetID)
		return nil
	})
}

// Leave removes the caller from the channel's member and owner lists.
// Messages the caller sent stay behind.
func (s *Service) Leave(token string, channelID int64) error {
	uid, err := s.ident.Resolve(token)
	if err != nil {
		return err
	}
	return s.store.Update(func(st *models.State) error {
		c := st.ChannelByID(channelID)
		if c == nil {
			return errs.Input("channel id does not refer to a valid channel")
		}
		if !models.ContainsID(c.MemberIDs, uid) {
			return errs.Access("user is not a member of the channel")
		}
		c.MemberIDs = without(c.MemberIDs, uid)
		c.OwnerIDs = without(c.OwnerIDs, uid)
		return nil
	})
}

// AddOwner promotes a member to channel owner. The caller needs owner
// permissions in the channel.
func (s *Service) AddOwner(token string, channelID, targetID int64) error {
	uid, err := s.ident.Resolve(token)
	if err != nil {
		return err
	}
	return s.store.Update(func(st *models.State) error {
		c := st.ChannelByID(channelID)
		if c == nil {
			return errs.Input("channel id does not refer to a valid channel")
		}
		if st.ActiveUserByID(targetID) == nil {
			return errs.Input("user id does not refer to a valid user")
		}
		if !models.ContainsID(c.MemberIDs, targetID) {
			return errs.Input("user is not a member of the channel")
		}
		if models.ContainsID(c.OwnerIDs, targetID) {
			return errs.Input("user is already an owner of the channel")
		}
		ref := models.ContainerRef{Kind: models.KindChannel, ID: channelID}
		if !perm.HasOwnerPerm(st, ref, uid) {
			return errs.Access("user has no owner permissions in the channel")
		}
		c.OwnerIDs = append(c.OwnerIDs, targetID)
		return nil
	})
}

// RemoveOwner demotes a channel owner back to plain member. The last
// owner can never be demoted.
func (s *Service) RemoveOwner(token string, channelID, targetID int64) error {
	uid, err := s.ident.Resolve(token)
	if err != nil {
		return err
	}
	return s.store.Update(func(st *models.State) error {
		c := st.ChannelByID(channelID)
		if c == nil {
			return errs.Input("channel id does not refer to a valid channel")
		}
		if st.ActiveUserByID(targetID) == nil {
			return errs.Input("user id does not refer to a valid user")
		}
		if !models.ContainsID(c.OwnerIDs, targetID) {
			return errs.Input("user is not an owner of the channel")
		}
		if len(c.OwnerIDs) == 1 {
			return errs.Input("user is the only owner of the channel")
		}
		ref := models.ContainerRef{Kind: models.KindChannel, ID: channelID}
		if !perm.HasOwnerPerm(st, ref, uid) {
			return errs.Access("user has no owner permissions in the channel")
		}
		c.OwnerIDs = without(c.OwnerIDs, targetID)
		return nil
	})
}

// Messages returns one page of channel history, newest first.
func (s *Service) Messages(token string, channelID int64, start int) (messages.Page, error) {
	uid, err := s.ident.Resolve(token)
	if err != nil {
		return messages.Page{}, err
	}
	var page messages.Page
	err = s.store.View(func(st *models.State) error {
		c := st.ChannelByID(channelID)
		if c == nil {
			return errs.Input("channel id does not refer to a valid channel")
		}
		if !models.ContainsID(c.MemberIDs, uid) {
			return errs.Access("user is not a member of the channel")
		}
		page, err = messages.Paginate(st, c.MessageIDs, uid, start)
		return err
	})
	return page, err
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

func without(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
