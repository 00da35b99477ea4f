package models

// ContainerKind tags which entity kind hosts a message.
type ContainerKind string

const (
	KindChannel ContainerKind = "channel"
	KindDM      ContainerKind = "dm"
)

// ContainerRef identifies the single container a message belongs to.
type ContainerRef struct {
	Kind ContainerKind `json:"kind"`
	ID   int64         `json:"id"`
}

// ThumbsUpReact is the only defined react kind.
const ThumbsUpReact = 1

// Reaction is one react kind on a message plus the users who applied it.
type Reaction struct {
	ReactID int     `json:"react_id"`
	UIDs    []int64 `json:"u_ids"`
}

// Reacted reports whether uid has applied this reaction.
func (r *Reaction) Reacted(uid int64) bool {
	for _, u := range r.UIDs {
		if u == uid {
			return true
		}
	}
	return false
}

type Message struct {
	// ID is odd for channel messages and even for DM messages, allocated
	// from one interleaved monotonic counter. Ids are never reused, even
	// after removal.
	ID        int64        `json:"id"`
	AuthorID  int64        `json:"author_id"`
	Text      string       `json:"text"`
	CreatedAt int64        `json:"created_at"`
	Pinned    bool         `json:"pinned,omitempty"`
	Reacts    []*Reaction  `json:"reacts"`
	Container ContainerRef `json:"container"`
}

// React returns the reaction slot for the given kind, or nil.
func (m *Message) React(reactID int) *Reaction {
	for _, r := range m.Reacts {
		if r.ReactID == reactID {
			return r
		}
	}
	return nil
}
