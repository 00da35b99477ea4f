package models

// State is the whole persisted aggregate: the four top-level collections
// plus the id counters. One instance lives inside the store and is
// serialized as a single snapshot after every mutation.
//
// Messages is the canonical owning index, keyed by message id. Channels
// and DMs carry ordered slices of ids into it, so a message body exists
// in exactly one place and container lists can never drift out of sync
// with the index.
type State struct {
	Users    []*User            `json:"users"`
	Channels []*Channel         `json:"channels"`
	DMs      []*DM              `json:"dms"`
	Messages map[int64]*Message `json:"messages"`

	// MsgSeq drives the interleaved message-id scheme: a channel send
	// takes 2*MsgSeq+1 (odd), a DM send takes 2*MsgSeq+2 (even), and
	// either kind advances the counter. The parity of an id therefore
	// identifies its container kind, and ids of both parities grow
	// monotonically and are never reissued.
	MsgSeq     int64 `json:"msg_seq"`
	UserSeq    int64 `json:"user_seq"`
	ChannelSeq int64 `json:"channel_seq"`
	DMSeq      int64 `json:"dm_seq"`
}

// NewState returns an empty aggregate ready for use.
func NewState() *State {
	return &State{Messages: make(map[int64]*Message)}
}

// Reset empties every collection and restarts the id counters. Used by
// the clear operation only.
func (s *State) Reset() {
	s.Users = nil
	s.Channels = nil
	s.DMs = nil
	s.Messages = make(map[int64]*Message)
	s.MsgSeq = 0
	s.UserSeq = 0
	s.ChannelSeq = 0
	s.DMSeq = 0
}

// UserByID returns the user record for id, including removed users.
func (s *State) UserByID(id int64) *User {
	for _, u := range s.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// ActiveUserByID returns the user for id unless the user was removed.
func (s *State) ActiveUserByID(id int64) *User {
	if u := s.UserByID(id); u != nil && !u.Removed {
		return u
	}
	return nil
}

// UserByEmail finds a non-removed user by email. Removed users released
// their email, so they never match.
func (s *State) UserByEmail(email string) *User {
	for _, u := range s.Users {
		if !u.Removed && u.Email == email {
			return u
		}
	}
	return nil
}

// HandleTaken reports whether any non-removed user holds the handle.
func (s *State) HandleTaken(handle string) bool {
	for _, u := range s.Users {
		if !u.Removed && u.Handle == handle {
			return true
		}
	}
	return false
}

func (s *State) ChannelByID(id int64) *Channel {
	for _, c := range s.Channels {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *State) DMByID(id int64) *DM {
	for _, d := range s.DMs {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// NextMessageID allocates the next id for the given container kind,
// honoring the odd/even partition, and advances the shared counter.
func (s *State) NextMessageID(kind ContainerKind) int64 {
	var id int64
	if kind == KindChannel {
		id = 2*s.MsgSeq + 1
	} else {
		id = 2*s.MsgSeq + 2
	}
	s.MsgSeq++
	return id
}

// AddMessage indexes the message and prepends its id to the owning
// container's list (message lists are newest-first).
func (s *State) AddMessage(m *Message) {
	s.Messages[m.ID] = m
	switch m.Container.Kind {
	case KindChannel:
		if c := s.ChannelByID(m.Container.ID); c != nil {
			c.MessageIDs = append([]int64{m.ID}, c.MessageIDs...)
		}
	case KindDM:
		if d := s.DMByID(m.Container.ID); d != nil {
			d.MessageIDs = append([]int64{m.ID}, d.MessageIDs...)
		}
	}
}

// DeleteMessage removes the message from the global index and from its
// container list. A later lookup by the same id fails; the id itself is
// retired for good because MsgSeq never rewinds.
func (s *State) DeleteMessage(id int64) {
	m, ok := s.Messages[id]
	if !ok {
		return
	}
	switch m.Container.Kind {
	case KindChannel:
		if c := s.ChannelByID(m.Container.ID); c != nil {
			c.MessageIDs = removeID(c.MessageIDs, id)
		}
	case KindDM:
		if d := s.DMByID(m.Container.ID); d != nil {
			d.MessageIDs = removeID(d.MessageIDs, id)
		}
	}
	delete(s.Messages, id)
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ContainsID reports membership of id in ids.
func ContainsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
