// Package session holds the authenticated session of a client process.
package session

import (
	"sync"
	"time"
)

// User is the identity returned at login.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Nombre   string `json:"nombre"`
	Rol      string `json:"rol"`
}

// Session is the current authentication state. The zero value means
// signed out.
type Session struct {
	User         *User     `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Authenticated reports whether the session carries an access token.
func (s Session) Authenticated() bool { return s.AccessToken != "" }

// Listener is notified after every change with the new session.
type Listener func(Session)

// Store is owned by the application root and injected where needed.
type Store struct {
	mu        sync.RWMutex
	current   Session
	listeners map[int]Listener
	nextID    int
}

func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

func (s *Store) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) Set(sess Session) {
	s.mu.Lock()
	s.current = sess
	ls := s.snapshot()
	s.mu.Unlock()
	notify(ls, sess)
}

func (s *Store) Clear() {
	s.Set(Session{})
}

// OnChange registers l and returns a function that unregisters it.
// Calling the returned function more than once is harmless.
func (s *Store) OnChange(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// snapshot copies the listeners in registration order (must be called under lock).
func (s *Store) snapshot() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Listeners run outside the lock so they may call back into the store.
func notify(ls []Listener, sess Session) {
	for _, l := range ls {
		l(sess)
	}
}
