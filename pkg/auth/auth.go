// Package auth owns identity: registration, login/logout, session
// tokens, and the request-gateway middleware (CORS, IP whitelist, rate
// limiting). Tokens are HS256 JWTs that reference a server-side session
// entry, so logout and user removal revoke them immediately.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"huddle/pkg/errs"
	"huddle/pkg/logger"
	"huddle/pkg/models"
	"huddle/pkg/store"
	"huddle/pkg/validation"
)

// Service performs identity operations against the store.
type Service struct {
	store      *store.Store
	secret     []byte
	sessionTTL time.Duration
}

// NewService returns an identity service. sessionTTL bounds how long an
// issued token stays valid; zero means the default of 24h.
func NewService(st *store.Store, secret []byte, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Service{store: st, secret: secret, sessionTTL: sessionTTL}
}

// Register creates a user and an initial session. The first registered
// user becomes the global owner. Returns the new user id and a session
// token.
func (s *Service) Register(email, password, first, last string) (int64, string, error) {
	if err := validation.Email(email); err != nil {
		return 0, "", err
	}
	if err := validation.Password(password); err != nil {
		return 0, "", err
	}
	if err := validation.Name(first, "name_first"); err != nil {
		return 0, "", err
	}
	if err := validation.Name(last, "name_last"); err != nil {
		return 0, "", err
	}

	// Hash outside the store lock; bcrypt is the expensive part.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, "", err
	}

	var uid int64
	sid := newSessionID()
	expiry := time.Now().Add(s.sessionTTL).Unix()
	err = s.store.Update(func(st *models.State) error {
		if st.UserByEmail(email) != nil {
			return errs.Input("email address has already been registered by another user")
		}
		uid = st.UserSeq + 1
		st.UserSeq = uid

		perm := models.PermMember
		if len(st.Users) == 0 {
			perm = models.PermGlobalOwner
		}
		u := &models.User{
			ID:           uid,
			Email:        email,
			NameFirst:    first,
			NameLast:     last,
			Handle:       dedupHandle(st, validation.HandleBase(first, last)),
			Permission:   perm,
			PasswordHash: hash,
			Sessions:     map[string]int64{sid: expiry},
		}
		st.Users = append(st.Users, u)
		return nil
	})
	if err != nil {
		return 0, "", err
	}

	token, err := s.signToken(uid, sid, expiry)
	if err != nil {
		return 0, "", err
	}
	logger.Info("user_registered", "user", uid)
	return uid, token, nil
}

// Login verifies the credentials and opens a new session.
func (s *Service) Login(email, password string) (int64, string, error) {
	var uid int64
	var hash []byte
	err := s.store.View(func(st *models.State) error {
		u := st.UserByEmail(email)
		if u == nil {
			return errs.Input("email entered does not belong to a user")
		}
		uid = u.ID
		hash = u.PasswordHash
		return nil
	})
	if err != nil {
		return 0, "", err
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return 0, "", errs.Input("password is not correct")
	}

	sid := newSessionID()
	expiry := time.Now().Add(s.sessionTTL).Unix()
	err = s.store.Update(func(st *models.State) error {
		u := st.ActiveUserByID(uid)
		if u == nil {
			return errs.Input("email entered does not belong to a user")
		}
		if u.Sessions == nil {
			u.Sessions = make(map[string]int64)
		}
		u.Sessions[sid] = expiry
		return nil
	})
	if err != nil {
		return 0, "", err
	}

	token, err := s.signToken(uid, sid, expiry)
	if err != nil {
		return 0, "", err
	}
	logger.Info("user_logged_in", "user", uid)
	return uid, token, nil
}

// Logout revokes the session the token references. The token itself is
// rejected from then on even though its signature stays valid.
func (s *Service) Logout(token string) error {
	uid, sid, err := s.parseToken(token)
	if err != nil {
		return err
	}
	return s.store.Update(func(st *models.State) error {
		u := st.ActiveUserByID(uid)
		if u == nil {
			return errs.Access("token does not refer to a valid session")
		}
		if _, ok := u.Sessions[sid]; !ok {
			return errs.Access("token does not refer to a valid session")
		}
		delete(u.Sessions, sid)
		return nil
	})
}

// Resolve maps a session token to a user id. It fails with AccessError
// when the signature is wrong, the session was revoked or expired, or
// the user was removed.
func (s *Service) Resolve(token string) (int64, error) {
	uid, sid, err := s.parseToken(token)
	if err != nil {
		return 0, err
	}
	err = s.store.View(func(st *models.State) error {
		u := st.ActiveUserByID(uid)
		if u == nil {
			return errs.Access("token does not refer to a valid session")
		}
		exp, ok := u.Sessions[sid]
		if !ok || exp < time.Now().Unix() {
			return errs.Access("token does not refer to a valid session")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return uid, nil
}

// SweepExpiredSessions drops sessions past their expiry. Returns how
// many were removed. Run periodically by the maintenance scheduler.
func (s *Service) SweepExpiredSessions() (int, error) {
	now := time.Now().Unix()
	removed := 0
	err := s.store.Update(func(st *models.State) error {
		for _, u := range st.Users {
			for sid, exp := range u.Sessions {
				if exp < now {
					delete(u.Sessions, sid)
					removed++
				}
			}
		}
		return nil
	})
	return removed, err
}

// dedupHandle appends an incrementing digit, cycling 0 through 9, until
// the candidate no longer collides with a live user's handle.
func dedupHandle(st *models.State, handle string) string {
	n := 0
	for st.HandleTaken(handle) {
		handle += strconv.Itoa(n)
		n++
		if n == 10 {
			n = 0
		}
	}
	return handle
}

func newSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
