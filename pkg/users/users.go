// Package users serves user profiles. Removed users still resolve so
// old messages keep a presentable author; they show the anonymized
// name with empty email and handle.
package users

import (
	"huddle/pkg/auth"
	"huddle/pkg/errs"
	"huddle/pkg/models"
	"huddle/pkg/store"
)

type Service struct {
	store *store.Store
	ident *auth.Service
}

func NewService(st *store.Store, ident *auth.Service) *Service {
	return &Service{store: st, ident: ident}
}

// Profile returns the public view of any user, removed ones included.
func (s *Service) Profile(token string, targetID int64) (models.Profile, error) {
	if _, err := s.ident.Resolve(token); err != nil {
		return models.Profile{}, err
	}
	var p models.Profile
	err := s.store.View(func(st *models.State) error {
		u := st.UserByID(targetID)
		if u == nil {
			return errs.Input("user id does not refer to a valid user")
		}
		p = u.Profile()
		return nil
	})
	return p, err
}

// List returns every live user's profile.
func (s *Service) List(token string) ([]models.Profile, error) {
	if _, err := s.ident.Resolve(token); err != nil {
		return nil, err
	}
	out := []models.Profile{}
	err := s.store.View(func(st *models.State) error {
		for _, u := range st.Users {
			if !u.Removed {
				out = append(out, u.Profile())
			}
		}
		return nil
	})
	return out, err
}
