// Package credstoremock provides an in-memory credential store for
// tests.
package credstoremock

import (
	"sync"

	"github.com/firasabed78/culinary--academy/internal/credstore"
)

type StoreOption func(*Store)

type Store struct {
	mu    sync.Mutex
	token string
	has   bool

	setErr, removeErr error
}

func WithToken(token string) StoreOption {
	return func(s *Store) { s.token, s.has = token, true }
}
func WithSetError(err error) StoreOption {
	return func(s *Store) { s.setErr = err }
}
func WithRemoveError(err error) StoreOption {
	return func(s *Store) { s.removeErr = err }
}

var _ = credstore.Store(&Store{})

func NewInMemStore(opts ...StoreOption) *Store {
	s := &Store{}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.has
}

func (s *Store) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.token, s.has = token, true
	return nil
}

func (s *Store) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	s.token, s.has = "", false
	return nil
}
