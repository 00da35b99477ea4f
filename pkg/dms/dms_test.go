package dms_test

import (
	"testing"
	"time"

	"huddle/pkg/auth"
	"huddle/pkg/dms"
	"huddle/pkg/errs"
	"huddle/pkg/messages"
	"huddle/pkg/store"
)

type fixture struct {
	store *store.Store
	svc   *dms.Service
	msgs  *messages.Engine
	tokA  string
	tokB  string
	tokC  string
	uidA  int64
	uidB  int64
	uidC  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	ident := auth.NewService(st, []byte("test-secret"), time.Hour)
	f := &fixture{store: st, svc: dms.NewService(st, ident), msgs: messages.NewEngine(st, ident)}
	f.uidA, f.tokA = register(t, ident, "a@b.com", "Ada", "Lovelace")
	f.uidB, f.tokB = register(t, ident, "c@d.com", "Grace", "Hopper")
	f.uidC, f.tokC = register(t, ident, "e@f.com", "Edsger", "Dijkstra")
	return f
}

func register(t *testing.T, ident *auth.Service, email, first, last string) (int64, string) {
	t.Helper()
	uid, tok, err := ident.Register(email, "secret1", first, last)
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return uid, tok
}

func TestCreateNameFromSortedHandles(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.Create(f.tokB, []int64{f.uidC, f.uidA})
	if err != nil {
		t.Fatalf("create dm: %v", err)
	}
	if id != 1 {
		t.Fatalf("first dm id = %d, want 1", id)
	}
	d, err := f.svc.Details(f.tokC, id)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if want := "adalovelace, edsgerdijkstra, gracehopper"; d.Name != want {
		t.Fatalf("dm name = %q, want %q", d.Name, want)
	}
	if len(d.Members) != 3 {
		t.Fatalf("members = %+v, want 3", d.Members)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Create(f.tokB, []int64{99}); !errs.IsInput(err) {
		t.Fatalf("unknown invitee error = %v, want InputError", err)
	}
	if _, err := f.svc.Create(f.tokB, []int64{f.uidC, f.uidC}); !errs.IsInput(err) {
		t.Fatalf("duplicate invitee error = %v, want InputError", err)
	}
	// a solo dm with no invitees is allowed
	if _, err := f.svc.Create(f.tokB, nil); err != nil {
		t.Fatalf("solo dm: %v", err)
	}
}

func TestList(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Create(f.tokA, []int64{f.uidB}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Create(f.tokB, []int64{f.uidC}); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := f.svc.List(f.tokA)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].DMID != 1 {
		t.Fatalf("list for A = %+v, want dm 1 only", got)
	}
	got, err = f.svc.List(f.tokB)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("list for B = %+v, want both dms", got)
	}
}

func TestDetailsAccess(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.Create(f.tokA, []int64{f.uidB})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Details(f.tokC, id); !errs.IsAccess(err) {
		t.Fatalf("non-member details error = %v, want AccessError", err)
	}
	if _, err := f.svc.Details(f.tokA, 99); !errs.IsInput(err) {
		t.Fatalf("unknown dm details error = %v, want InputError", err)
	}
}

func TestLeave(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.Create(f.tokA, []int64{f.uidB})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before, err := f.svc.Details(f.tokB, id)
	if err != nil {
		t.Fatalf("details: %v", err)
	}

	// even the creator may leave
	if err := f.svc.Leave(f.tokA, id); err != nil {
		t.Fatalf("creator leave: %v", err)
	}
	after, err := f.svc.Details(f.tokB, id)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if after.Name != before.Name {
		t.Fatalf("dm name changed on leave: %q -> %q", before.Name, after.Name)
	}
	if len(after.Members) != 1 || after.Members[0].UserID != f.uidB {
		t.Fatalf("members after leave = %+v", after.Members)
	}

	if err := f.svc.Leave(f.tokA, id); !errs.IsAccess(err) {
		t.Fatalf("leave twice error = %v, want AccessError", err)
	}
	if err := f.svc.Leave(f.tokB, 99); !errs.IsInput(err) {
		t.Fatalf("leave unknown dm error = %v, want InputError", err)
	}
}

func TestMessages(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.Create(f.tokA, []int64{f.uidB})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.msgs.SendDM(f.tokA, id, "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := f.msgs.SendDM(f.tokB, id, "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}

	page, err := f.svc.Messages(f.tokA, id, 0)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(page.Messages) != 2 || page.End != -1 {
		t.Fatalf("page = %+v", page)
	}
	if page.Messages[0].Text != "hello" {
		t.Fatalf("first message = %q, want the newest", page.Messages[0].Text)
	}
	if page.Messages[0].MessageID%2 != 0 {
		t.Fatalf("dm message id %d is odd", page.Messages[0].MessageID)
	}

	if _, err := f.svc.Messages(f.tokC, id, 0); !errs.IsAccess(err) {
		t.Fatalf("non-member history error = %v, want AccessError", err)
	}
	if _, err := f.svc.Messages(f.tokA, id, 3); !errs.IsInput(err) {
		t.Fatalf("start past total error = %v, want InputError", err)
	}
}
