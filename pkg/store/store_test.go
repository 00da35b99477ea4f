package store_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"huddle/pkg/models"
	"huddle/pkg/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := store.Open(dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	err = s.Update(func(st *models.State) error {
		st.UserSeq = 1
		st.Users = append(st.Users, &models.User{ID: 1, Email: "a@b.c", Handle: "ab", Permission: models.PermGlobalOwner})
		st.ChannelSeq = 1
		st.Channels = append(st.Channels, &models.Channel{ID: 1, Name: "general", Public: true, OwnerIDs: []int64{1}, MemberIDs: []int64{1}})
		id := st.NextMessageID(models.KindChannel)
		st.AddMessage(&models.Message{
			ID: id, AuthorID: 1, Text: "hello",
			Reacts:    []*models.Reaction{{ReactID: models.ThumbsUpReact}},
			Container: models.ContainerRef{Kind: models.KindChannel, ID: 1},
		})
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := store.Open(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s2.Close()

	err = s2.View(func(st *models.State) error {
		if len(st.Users) != 1 || len(st.Channels) != 1 {
			t.Fatalf("collections not restored: users=%d channels=%d", len(st.Users), len(st.Channels))
		}
		if st.MsgSeq != 1 {
			t.Fatalf("MsgSeq = %d, want 1", st.MsgSeq)
		}
		m, ok := st.Messages[1]
		if !ok {
			t.Fatalf("message 1 missing from global index")
		}
		if m.Text != "hello" || m.AuthorID != 1 {
			t.Fatalf("message content not restored: %+v", m)
		}
		want := []int64{1}
		if diff := cmp.Diff(want, st.Channels[0].MessageIDs); diff != "" {
			t.Fatalf("channel message ids mismatch (-want +got):\n%s", diff)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestMessageIDParity(t *testing.T) {
	s := openStore(t)
	var got []int64
	err := s.Update(func(st *models.State) error {
		got = append(got, st.NextMessageID(models.KindChannel))
		got = append(got, st.NextMessageID(models.KindDM))
		got = append(got, st.NextMessageID(models.KindChannel))
		got = append(got, st.NextMessageID(models.KindDM))
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := []int64{1, 4, 5, 8}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	for i, id := range got {
		if i%2 == 0 && id%2 != 1 {
			t.Errorf("channel id %d is even", id)
		}
		if i%2 == 1 && id%2 != 0 {
			t.Errorf("dm id %d is odd", id)
		}
	}
}

func TestMessageIDsNeverReused(t *testing.T) {
	s := openStore(t)
	var first int64
	_ = s.Update(func(st *models.State) error {
		first = st.NextMessageID(models.KindChannel)
		st.AddMessage(&models.Message{ID: first, Container: models.ContainerRef{Kind: models.KindChannel, ID: 1}})
		st.DeleteMessage(first)
		return nil
	})
	var next int64
	_ = s.Update(func(st *models.State) error {
		next = st.NextMessageID(models.KindChannel)
		return nil
	})
	if next <= first {
		t.Fatalf("id %d issued after %d was retired", next, first)
	}
}

func TestDeleteMessageRemovesBothViews(t *testing.T) {
	s := openStore(t)
	err := s.Update(func(st *models.State) error {
		st.Channels = append(st.Channels, &models.Channel{ID: 1, MemberIDs: []int64{1}})
		id := st.NextMessageID(models.KindChannel)
		st.AddMessage(&models.Message{ID: id, Container: models.ContainerRef{Kind: models.KindChannel, ID: 1}})
		st.DeleteMessage(id)
		if _, ok := st.Messages[id]; ok {
			t.Fatalf("message %d still in global index", id)
		}
		if len(st.Channels[0].MessageIDs) != 0 {
			t.Fatalf("message %d still referenced by channel", id)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestClear(t *testing.T) {
	s := openStore(t)
	_ = s.Update(func(st *models.State) error {
		st.Users = append(st.Users, &models.User{ID: 1})
		st.UserSeq = 1
		st.MsgSeq = 7
		return nil
	})
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	_ = s.View(func(st *models.State) error {
		if len(st.Users) != 0 || st.UserSeq != 0 || st.MsgSeq != 0 {
			t.Fatalf("state not reset: %+v", st)
		}
		return nil
	})
}
