// Package messages is the message engine: send, edit, remove, react,
// pin. Every operation resolves the caller's identity, validates the
// target and authorization, then mutates under the store lock so the
// snapshot on disk is never more than one operation behind memory.
package messages

import (
	"time"
	"unicode/utf8"

	"huddle/pkg/auth"
	"huddle/pkg/errs"
	"huddle/pkg/logger"
	"huddle/pkg/models"
	"huddle/pkg/perm"
	"huddle/pkg/store"
	"huddle/pkg/validation"
)

// Engine executes message operations for authenticated callers.
type Engine struct {
	store *store.Store
	ident *auth.Service
}

func NewEngine(st *store.Store, ident *auth.Service) *Engine {
	return &Engine{store: st, ident: ident}
}

// Send posts a message to a channel and returns its id. Channel ids of
// messages are odd; each send takes the next odd id and the id is never
// reissued.
func (e *Engine) Send(token string, channelID int64, text string) (int64, error) {
	uid, err := e.ident.Resolve(token)
	if err != nil {
		return 0, err
	}
	var msgID int64
	err = e.store.Update(func(st *models.State) error {
		if st.ChannelByID(channelID) == nil {
			return errs.Input("channel id does not refer to a valid channel")
		}
		ref := models.ContainerRef{Kind: models.KindChannel, ID: channelID}
		if !perm.IsMember(st, ref, uid) {
			return errs.Access("user is not a member of the channel")
		}
		if err := validation.MessageText(text); err != nil {
			return err
		}
		msgID = st.NextMessageID(models.KindChannel)
		st.AddMessage(newMessage(msgID, uid, text, ref))
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Debug("message_sent", "message", msgID, "channel", channelID, "user", uid)
	return msgID, nil
}

// SendDM posts a message to a DM. DM message ids are even.
func (e *Engine) SendDM(token string, dmID int64, text string) (int64, error) {
	uid, err := e.ident.Resolve(token)
	if err != nil {
		return 0, err
	}
	var msgID int64
	err = e.store.Update(func(st *models.State) error {
		if st.DMByID(dmID) == nil {
			return errs.Input("dm id does not refer to a valid dm")
		}
		ref := models.ContainerRef{Kind: models.KindDM, ID: dmID}
		if !perm.IsMember(st, ref, uid) {
			return errs.Access("user is not a member of the dm")
		}
		if err := validation.MessageText(text); err != nil {
			return err
		}
		msgID = st.NextMessageID(models.KindDM)
		st.AddMessage(newMessage(msgID, uid, text, ref))
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Debug("message_sent", "message", msgID, "dm", dmID, "user", uid)
	return msgID, nil
}

// Edit replaces a message's text. Editing to the empty string removes
// the message instead; the two paths leave identical state behind, and
// a later lookup of the id fails either way.
func (e *Engine) Edit(token string, msgID int64, text string) error {
	uid, err := e.ident.Resolve(token)
	if err != nil {
		return err
	}
	return e.store.Update(func(st *models.State) error {
		if utf8.RuneCountInString(text) > validation.MaxMessageLen {
			return errs.Input("message is longer than 1000 characters")
		}
		m, ref, err := resolveForCaller(st, msgID, uid)
		if err != nil {
			return err
		}
		if !canAlter(st, m, ref, uid) {
			return errs.Access("user is not the author and has no owner permissions")
		}
		if text == "" {
			st.DeleteMessage(msgID)
			return nil
		}
		m.Text = text
		return nil
	})
}

// Remove deletes a message from its container and from the global
// index. Removal is not idempotent: a second remove of the same id
// fails with InputError because the id no longer resolves.
func (e *Engine) Remove(token string, msgID int64) error {
	uid, err := e.ident.Resolve(token)
	if err != nil {
		return err
	}
	return e.store.Update(func(st *models.State) error {
		m, ref, err := resolveForCaller(st, msgID, uid)
		if err != nil {
			return err
		}
		if !canAlter(st, m, ref, uid) {
			return errs.Access("user is not the author and has no owner permissions")
		}
		st.DeleteMessage(msgID)
		return nil
	})
}

// React records the caller's reaction on a message. Reacting twice with
// the same kind fails.
func (e *Engine) React(token string, msgID int64, reactID int) error {
	uid, err := e.ident.Resolve(token)
	if err != nil {
		return err
	}
	return e.store.Update(func(st *models.State) error {
		m, _, err := resolveForCaller(st, msgID, uid)
		if err != nil {
			return err
		}
		if reactID != models.ThumbsUpReact {
			return errs.Input("react id is not a valid react type")
		}
		r := m.React(reactID)
		if r == nil {
			// snapshots from before the slot was seeded at send time
			r = &models.Reaction{ReactID: reactID}
			m.Reacts = append(m.Reacts, r)
		}
		if r.Reacted(uid) {
			return errs.Input("user has already reacted to this message")
		}
		r.UIDs = append(r.UIDs, uid)
		return nil
	})
}

// Unreact withdraws a reaction. Unreacting when no reaction exists
// fails; react then unreact restores the exact prior state.
func (e *Engine) Unreact(token string, msgID int64, reactID int) error {
	uid, err := e.ident.Resolve(token)
	if err != nil {
		return err
	}
	return e.store.Update(func(st *models.State) error {
		m, _, err := resolveForCaller(st, msgID, uid)
		if err != nil {
			return err
		}
		if reactID != models.ThumbsUpReact {
			return errs.Input("react id is not a valid react type")
		}
		r := m.React(reactID)
		if r == nil || !r.Reacted(uid) {
			return errs.Input("user has not reacted to this message")
		}
		out := r.UIDs[:0]
		for _, id := range r.UIDs {
			if id != uid {
				out = append(out, id)
			}
		}
		r.UIDs = out
		return nil
	})
}

// Pin marks a message as pinned. Owner authorization is evaluated
// before the pinned-state check, so an owner-less caller gets an
// AccessError even when the message is already pinned.
func (e *Engine) Pin(token string, msgID int64) error {
	uid, err := e.ident.Resolve(token)
	if err != nil {
		return err
	}
	return e.store.Update(func(st *models.State) error {
		m, ref, ok := perm.ResolveMessage(st, msgID)
		if !ok {
			return errs.Input("message id does not refer to a valid message")
		}
		if !perm.HasOwnerPerm(st, ref, uid) {
			return errs.Access("user has no owner permissions in the channel or dm")
		}
		if m.Pinned {
			return errs.Input("message is already pinned")
		}
		m.Pinned = true
		return nil
	})
}

// Unpin clears the pinned flag, with the same precedence as Pin.
func (e *Engine) Unpin(token string, msgID int64) error {
	uid, err := e.ident.Resolve(token)
	if err != nil {
		return err
	}
	return e.store.Update(func(st *models.State) error {
		m, ref, ok := perm.ResolveMessage(st, msgID)
		if !ok {
			return errs.Input("message id does not refer to a valid message")
		}
		if !perm.HasOwnerPerm(st, ref, uid) {
			return errs.Access("user has no owner permissions in the channel or dm")
		}
		if !m.Pinned {
			return errs.Input("message is not pinned")
		}
		m.Pinned = false
		return nil
	})
}

func newMessage(id, author int64, text string, ref models.ContainerRef) *models.Message {
	return &models.Message{
		ID:        id,
		AuthorID:  author,
		Text:      text,
		CreatedAt: time.Now().Unix(),
		Reacts:    []*models.Reaction{{ReactID: models.ThumbsUpReact}},
		Container: ref,
	}
}

// resolveForCaller finds a message the caller can see: the id must
// resolve and the caller must belong to the owning container. Both
// failures are input failures, not authorization failures.
func resolveForCaller(st *models.State, msgID, uid int64) (*models.Message, models.ContainerRef, error) {
	m, ref, ok := perm.ResolveMessage(st, msgID)
	if !ok || !perm.IsMember(st, ref, uid) {
		return nil, models.ContainerRef{}, errs.Input("message id does not refer to a valid message in a channel or dm the user has joined")
	}
	return m, ref, nil
}

// canAlter reports whether uid may edit or remove the message: the
// author always can, as can anyone with owner permissions in the
// owning container.
func canAlter(st *models.State, m *models.Message, ref models.ContainerRef, uid int64) bool {
	return m.AuthorID == uid || perm.HasOwnerPerm(st, ref, uid)
}
