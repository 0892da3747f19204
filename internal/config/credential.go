package config

import (
	"errors"
	"strings"
	"sync"
)

// ErrEmptyKey is returned when saving a blank API key.
var ErrEmptyKey = errors.New("please enter an API key")

// CredentialStore is the process-wide API key slot. Writers persist through
// it and every subscriber receives the new value; last write wins.
type CredentialStore struct {
	mu     sync.Mutex
	cfg    *Config
	save   func(*Config) error
	nextID int
	subs   map[int]chan string
}

// NewCredentialStore wraps cfg. Set persists with cfg.Save.
func NewCredentialStore(cfg *Config) *CredentialStore {
	return newCredentialStore(cfg, (*Config).Save)
}

func newCredentialStore(cfg *Config, save func(*Config) error) *CredentialStore {
	return &CredentialStore{
		cfg:  cfg,
		save: save,
		subs: make(map[int]chan string),
	}
}

// Get returns the current key.
func (s *CredentialStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Key()
}

// Set trims and stores key, saves the config and notifies subscribers.
func (s *CredentialStore) Set(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, prevEnv := s.cfg.APIKey, s.cfg.envKey
	s.cfg.SetKey(key)
	if err := s.save(s.cfg); err != nil {
		s.cfg.APIKey, s.cfg.envKey = prev, prevEnv
		return err
	}

	for _, ch := range s.subs {
		// Drop a stale pending value so the newest key is what gets read.
		select {
		case <-ch:
		default:
		}
		ch <- key
	}
	return nil
}

// Subscribe returns a channel receiving every new key and a cancel func that
// closes it.
func (s *CredentialStore) Subscribe() (<-chan string, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan string, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}
