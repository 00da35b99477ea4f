package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"huddle/pkg/admin"
	"huddle/pkg/api"
	"huddle/pkg/auth"
	"huddle/pkg/channels"
	"huddle/pkg/dms"
	"huddle/pkg/messages"
	"huddle/pkg/store"
	"huddle/pkg/users"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	ident := auth.NewService(st, []byte("test-secret"), time.Hour)
	srv := httptest.NewServer(api.NewRouter(api.Services{
		Ident:    ident,
		Channels: channels.NewService(st, ident),
		DMs:      dms.NewService(st, ident),
		Messages: messages.NewEngine(st, ident),
		Users:    users.NewService(st, ident),
		Admin:    admin.NewService(st, ident),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+"/v1"+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func registerUser(t *testing.T, srv *httptest.Server, email, first, last string) (int64, string) {
	t.Helper()
	status, out := call(t, srv, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "password": "secret1", "name_first": first, "name_last": last,
	})
	if status != http.StatusOK {
		t.Fatalf("register %s: status %d, body %v", email, status, out)
	}
	return int64(out["user_id"].(float64)), out["token"].(string)
}

func TestRegisterSendRead(t *testing.T) {
	srv := newServer(t)
	_, tok := registerUser(t, srv, "a@b.com", "Ada", "Lovelace")

	status, out := call(t, srv, http.MethodPost, "/channels", tok, map[string]any{"name": "general", "is_public": true})
	if status != http.StatusOK {
		t.Fatalf("create channel: status %d, body %v", status, out)
	}
	chID := int64(out["channel_id"].(float64))

	status, out = call(t, srv, http.MethodPost, fmt.Sprintf("/channels/%d/messages", chID), tok, map[string]string{"message": "hello"})
	if status != http.StatusOK {
		t.Fatalf("send: status %d, body %v", status, out)
	}
	if id := int64(out["message_id"].(float64)); id%2 != 1 {
		t.Fatalf("channel message id %d is even", id)
	}

	status, out = call(t, srv, http.MethodGet, fmt.Sprintf("/channels/%d/messages?start=0", chID), tok, nil)
	if status != http.StatusOK {
		t.Fatalf("read: status %d, body %v", status, out)
	}
	msgs := out["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("messages = %v, want 1", msgs)
	}
	if text := msgs[0].(map[string]any)["text"]; text != "hello" {
		t.Fatalf("message text = %v, want hello", text)
	}
	if end := out["end"].(float64); end != -1 {
		t.Fatalf("end = %v, want -1", end)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	srv := newServer(t)
	_, tokA := registerUser(t, srv, "a@b.com", "Ada", "Lovelace")
	_, tokB := registerUser(t, srv, "c@d.com", "Grace", "Hopper")

	status, out := call(t, srv, http.MethodPost, "/channels", tokA, map[string]any{"name": "private", "is_public": false})
	if status != http.StatusOK {
		t.Fatalf("create channel: status %d, body %v", status, out)
	}
	chID := int64(out["channel_id"].(float64))

	// input failure is a 400 with an error body
	status, out = call(t, srv, http.MethodGet, "/channels/99", tokA, nil)
	if status != http.StatusBadRequest || out["error"] == "" {
		t.Fatalf("unknown channel: status %d, body %v", status, out)
	}

	// access failure is a 403
	status, _ = call(t, srv, http.MethodPost, fmt.Sprintf("/channels/%d/join", chID), tokB, nil)
	if status != http.StatusForbidden {
		t.Fatalf("private join: status %d, want 403", status)
	}

	// a revoked session is a 403 everywhere
	status, _ = call(t, srv, http.MethodPost, "/auth/logout", tokB, nil)
	if status != http.StatusOK {
		t.Fatalf("logout: status %d", status)
	}
	status, _ = call(t, srv, http.MethodGet, "/channels", tokB, nil)
	if status != http.StatusForbidden {
		t.Fatalf("revoked session list: status %d, want 403", status)
	}

	// malformed json is a 400
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/channels", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+tokA)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("malformed request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed json: status %d, want 400", resp.StatusCode)
	}
}

func TestMessageLifecycleOverHTTP(t *testing.T) {
	srv := newServer(t)
	uidA, tokA := registerUser(t, srv, "a@b.com", "Ada", "Lovelace")
	uidB, tokB := registerUser(t, srv, "c@d.com", "Grace", "Hopper")

	status, out := call(t, srv, http.MethodPost, "/dms", tokA, map[string]any{"user_ids": []int64{uidB}})
	if status != http.StatusOK {
		t.Fatalf("create dm: status %d, body %v", status, out)
	}
	dmID := int64(out["dm_id"].(float64))

	status, out = call(t, srv, http.MethodPost, fmt.Sprintf("/dms/%d/messages", dmID), tokB, map[string]string{"message": "hi"})
	if status != http.StatusOK {
		t.Fatalf("send dm: status %d, body %v", status, out)
	}
	msgID := int64(out["message_id"].(float64))
	if msgID%2 != 0 {
		t.Fatalf("dm message id %d is odd", msgID)
	}

	if status, _ = call(t, srv, http.MethodPost, fmt.Sprintf("/messages/%d/react", msgID), tokA, map[string]int{"react_id": 1}); status != http.StatusOK {
		t.Fatalf("react: status %d", status)
	}
	// only the dm creator holds owner permissions
	if status, _ = call(t, srv, http.MethodPost, fmt.Sprintf("/messages/%d/pin", msgID), tokB, nil); status != http.StatusForbidden {
		t.Fatalf("member pin: status %d, want 403", status)
	}
	if status, _ = call(t, srv, http.MethodPost, fmt.Sprintf("/messages/%d/pin", msgID), tokA, nil); status != http.StatusOK {
		t.Fatalf("creator pin: status %d", status)
	}

	status, out = call(t, srv, http.MethodGet, fmt.Sprintf("/dms/%d/messages?start=0", dmID), tokA, nil)
	if status != http.StatusOK {
		t.Fatalf("read dm: status %d", status)
	}
	m := out["messages"].([]any)[0].(map[string]any)
	if m["pinned"] != true {
		t.Fatalf("message not pinned: %v", m)
	}
	reacts := m["reacts"].([]any)[0].(map[string]any)
	if reacts["user_reacted"] != true {
		t.Fatalf("reader's own react not flagged: %v", reacts)
	}

	// an author edit, then a removal by the author
	if status, _ = call(t, srv, http.MethodPut, fmt.Sprintf("/messages/%d", msgID), tokB, map[string]string{"message": "hi there"}); status != http.StatusOK {
		t.Fatalf("edit: status %d", status)
	}
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+fmt.Sprintf("/v1/messages/%d", msgID), nil)
	req.Header.Set("Authorization", "Bearer "+tokB)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}
}
