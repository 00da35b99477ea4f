// Package validation holds the input rules shared by the engines. Each
// check returns an InputError from pkg/errs so callers can surface it
// without rewrapping.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"huddle/pkg/errs"
)

const (
	MinPasswordLen = 6
	MaxNameLen     = 50
	MaxHandleLen   = 20
	MaxChannelName = 20
	MaxMessageLen  = 1000
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Email validates the address shape.
func Email(email string) error {
	if !emailRe.MatchString(email) {
		return errs.Input("email is of invalid form")
	}
	return nil
}

// Password enforces the minimum password length. Lengths count
// characters, not bytes, so multibyte input is measured as typed.
func Password(pw string) error {
	if utf8.RuneCountInString(pw) < MinPasswordLen {
		return errs.Input("password is less than 6 characters in length")
	}
	return nil
}

// Name validates a first or last name; which names the field in the
// error description.
func Name(name, which string) error {
	n := utf8.RuneCountInString(name)
	if n < 1 || n > MaxNameLen {
		return errs.Input(which + " is not between 1 and 50 characters in length")
	}
	return nil
}

// ChannelName validates a channel name.
func ChannelName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 1 || n > MaxChannelName {
		return errs.Input("channel name is not between 1 and 20 characters in length")
	}
	return nil
}

// MessageText validates text for a send: 1 to 1000 characters.
func MessageText(text string) error {
	n := utf8.RuneCountInString(text)
	if n < 1 || n > MaxMessageLen {
		return errs.Input("length of message is less than 1 or over 1000 characters")
	}
	return nil
}

// HandleBase derives the handle stem for a new user: the lower-cased
// alphanumeric concatenation of the names, truncated to 20 characters.
// De-duplication happens at registration time against live handles.
func HandleBase(first, last string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(first + last) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	h := b.String()
	if len(h) > MaxHandleLen {
		h = h[:MaxHandleLen]
	}
	return h
}
