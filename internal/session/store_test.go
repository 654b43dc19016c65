package session_test

import (
	"sync"
	"testing"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/session"

	"github.com/stretchr/testify/assert"
)

func TestStore_SetGetClear(t *testing.T) {
	s := session.NewStore()
	assert.False(t, s.Get().Authenticated())

	s.Set(session.Session{AccessToken: "tok", User: &session.User{Username: "ana", Rol: "operador"}})
	assert.True(t, s.Get().Authenticated())
	assert.Equal(t, "ana", s.Get().User.Username)

	s.Clear()
	assert.False(t, s.Get().Authenticated())
	assert.Nil(t, s.Get().User)
}

func TestStore_OnChangeNotifiesInOrder(t *testing.T) {
	s := session.NewStore()
	var calls []string
	unsubA := s.OnChange(func(sess session.Session) { calls = append(calls, "a:"+sess.AccessToken) })
	s.OnChange(func(sess session.Session) { calls = append(calls, "b:"+sess.AccessToken) })

	s.Set(session.Session{AccessToken: "1"})
	unsubA()
	unsubA()
	s.Clear()

	assert.Equal(t, []string{"a:1", "b:1", "b:"}, calls)
}

func TestStore_ListenerMayReadStore(t *testing.T) {
	s := session.NewStore()
	var seen string
	s.OnChange(func(session.Session) { seen = s.Get().AccessToken })
	s.Set(session.Session{AccessToken: "x"})
	assert.Equal(t, "x", seen)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := session.NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set(session.Session{AccessToken: "t"})
		}()
		go func() {
			defer wg.Done()
			unsub := s.OnChange(func(session.Session) {})
			_ = s.Get()
			unsub()
		}()
	}
	wg.Wait()
	assert.Equal(t, "t", s.Get().AccessToken)
}
