package logging

import (
	"net/http/httptest"
	"testing"
)

func TestHeadersMasksCredentials(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/channels", nil)
	req.Header.Set("Authorization", "Bearer topsecret")
	req.Header.Set("Cookie", "session=abc")
	req.Header.Set("Accept", "application/json")
	req.Header.Add("Accept", "text/plain")

	h := Headers(req)
	if h["Authorization"] != "<masked>" || h["Cookie"] != "<masked>" {
		t.Fatalf("credentials not masked: %v", h)
	}
	if h["Accept"] != "application/json, text/plain" {
		t.Fatalf("repeated header = %q", h["Accept"])
	}
}
