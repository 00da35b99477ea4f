package messages

import (
	"huddle/pkg/errs"
	"huddle/pkg/models"
)

// PageSize is how many messages one page of container history returns.
const PageSize = 50

// ReactView is a reaction as seen by one caller.
type ReactView struct {
	ReactID     int     `json:"react_id"`
	UIDs        []int64 `json:"u_ids"`
	UserReacted bool    `json:"user_reacted"`
}

// View is the API shape of a message, including the per-caller reaction
// flags.
type View struct {
	MessageID int64       `json:"message_id"`
	AuthorID  int64       `json:"author_id"`
	Text      string      `json:"text"`
	CreatedAt int64       `json:"created_at"`
	Pinned    bool        `json:"pinned"`
	Reacts    []ReactView `json:"reacts"`
}

// Page is one window of a container's history, newest first. End is -1
// when the page reaches the oldest message.
type Page struct {
	Messages []View `json:"messages"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// ViewFor projects a message for one caller.
func ViewFor(m *models.Message, uid int64) View {
	v := View{
		MessageID: m.ID,
		AuthorID:  m.AuthorID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
		Pinned:    m.Pinned,
	}
	for _, r := range m.Reacts {
		v.Reacts = append(v.Reacts, ReactView{
			ReactID:     r.ReactID,
			UIDs:        append([]int64(nil), r.UIDs...),
			UserReacted: r.Reacted(uid),
		})
	}
	return v
}

// Paginate cuts one page out of a container's newest-first id list,
// starting at offset start. A start past the end of the list is an
// input failure; start equal to the length yields an empty final page.
func Paginate(st *models.State, ids []int64, uid int64, start int) (Page, error) {
	if start < 0 || start > len(ids) {
		return Page{}, errs.Input("start is greater than the total number of messages")
	}
	end := start + PageSize
	if end >= len(ids) {
		end = -1
	}
	page := Page{Messages: []View{}, Start: start, End: end}
	stop := start + PageSize
	if stop > len(ids) {
		stop = len(ids)
	}
	for _, id := range ids[start:stop] {
		if m, ok := st.Messages[id]; ok {
			page.Messages = append(page.Messages, ViewFor(m, uid))
		}
	}
	return page, nil
}
