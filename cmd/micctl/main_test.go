package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionFile_RoundTripAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "session.json")
	sess := session.Session{
		AccessToken: "tok",
		User:        &session.User{Username: "ana", Rol: "operador"},
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	require.NoError(t, saveSession(sess, path))

	s := session.NewStore()
	require.NoError(t, loadSession(s, path))
	assert.Equal(t, "tok", s.Get().AccessToken)
	assert.Equal(t, "ana", s.Get().User.Username)

	require.NoError(t, saveSession(session.Session{}, path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadSession_IgnoresExpiredAndMissing(t *testing.T) {
	dir := t.TempDir()
	s := session.NewStore()
	require.NoError(t, loadSession(s, filepath.Join(dir, "nada.json")))
	assert.False(t, s.Get().Authenticated())

	path := filepath.Join(dir, "old.json")
	require.NoError(t, saveSession(session.Session{AccessToken: "tok", ExpiresAt: time.Now().Add(-time.Minute)}, path))
	require.NoError(t, loadSession(s, path))
	assert.False(t, s.Get().Authenticated())
}

func TestLineIndex(t *testing.T) {
	i, err := lineIndex("2", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	for _, raw := range []string{"0", "4", "x"} {
		_, err := lineIndex(raw, 3)
		assert.Error(t, err, raw)
	}
}

func TestAmountArg(t *testing.T) {
	for raw, want := range map[string]string{
		"1234,567": "1234,56",
		"-5":       "-5,00",
		"0":        "0,00",
		"":         "",
	} {
		got, err := amountArg(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"1.234,56", "1,2,3", "12a"} {
		_, err := amountArg(raw)
		assert.Error(t, err, raw)
	}
}
