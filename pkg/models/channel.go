package models

type Channel struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Public bool   `json:"public"`

	// OwnerIDs is always a subset of MemberIDs and stays non-empty while
	// the channel has members.
	OwnerIDs  []int64 `json:"owner_ids"`
	MemberIDs []int64 `json:"member_ids"`

	// MessageIDs is newest-first. Entries are references into the global
	// message index in State; the channel never owns message bodies.
	MessageIDs []int64 `json:"message_ids"`
}

// DM is a direct-message container. Unlike a channel it has exactly one
// owner, the creator, for its whole lifetime.
type DM struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	OwnerID    int64   `json:"owner_id"`
	MemberIDs  []int64 `json:"member_ids"`
	MessageIDs []int64 `json:"message_ids"`
}
