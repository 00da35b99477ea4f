package validation_test

import (
	"strings"
	"testing"

	"huddle/pkg/validation"
)

func TestMessageTextCountsCharacters(t *testing.T) {
	cases := []struct {
		name string
		text string
		ok   bool
	}{
		{"empty", "", false},
		{"single", "x", true},
		{"ascii at limit", strings.Repeat("x", 1000), true},
		{"ascii past limit", strings.Repeat("x", 1001), false},
		{"multibyte within limit", strings.Repeat("é", 600), true},
		{"multibyte at limit", strings.Repeat("猫", 1000), true},
		{"multibyte past limit", strings.Repeat("é", 1001), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := validation.MessageText(c.text)
			if c.ok && err != nil {
				t.Fatalf("MessageText(%d chars) = %v, want nil", len([]rune(c.text)), err)
			}
			if !c.ok && err == nil {
				t.Fatalf("MessageText(%d chars) = nil, want InputError", len([]rune(c.text)))
			}
		})
	}
}

func TestNameCountsCharacters(t *testing.T) {
	if err := validation.Name(strings.Repeat("é", 50), "name_first"); err != nil {
		t.Fatalf("50-char accented name rejected: %v", err)
	}
	if err := validation.Name(strings.Repeat("é", 51), "name_first"); err == nil {
		t.Fatal("51-char accented name accepted")
	}
	if err := validation.Name("", "name_last"); err == nil {
		t.Fatal("empty name accepted")
	}
}

func TestPasswordCountsCharacters(t *testing.T) {
	if err := validation.Password("héllö1"); err != nil {
		t.Fatalf("6-char accented password rejected: %v", err)
	}
	if err := validation.Password("héllö"); err == nil {
		t.Fatal("5-char password accepted")
	}
}

func TestChannelNameCountsCharacters(t *testing.T) {
	if err := validation.ChannelName(strings.Repeat("日", 20)); err != nil {
		t.Fatalf("20-char multibyte channel name rejected: %v", err)
	}
	if err := validation.ChannelName(strings.Repeat("日", 21)); err == nil {
		t.Fatal("21-char channel name accepted")
	}
}

func TestHandleBase(t *testing.T) {
	if got := validation.HandleBase("Ada", "Lovelace"); got != "adalovelace" {
		t.Fatalf("handle = %q, want adalovelace", got)
	}
	if got := validation.HandleBase("Maximilian-Jonathan", "Featherstonehaugh"); got != "maximilianjonathanfe" {
		t.Fatalf("handle = %q, want maximilianjonathanfe", got)
	}
}
