package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct{ closed bool }

func (f *fakeSession) Close() { f.closed = true }

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry[*fakeSession]()

	s := &fakeSession{}
	var built string
	id, got := r.Add(func(id string) *fakeSession {
		built = id
		return s
	})
	assert.NotEmpty(t, id)
	assert.Equal(t, id, built)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, r.Close(id))
	assert.True(t, s.closed)
	assert.Equal(t, 0, r.Len())

	_, err = r.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Close(id), ErrNotFound)
}

func TestRegistryCloseAll(t *testing.T) {
	r := NewRegistry[*fakeSession]()
	a, b := &fakeSession{}, &fakeSession{}
	r.Add(func(string) *fakeSession { return a })
	r.Add(func(string) *fakeSession { return b })

	r.CloseAll()

	assert.True(t, a.closed)
	assert.True(t, b.closed)
	assert.Equal(t, 0, r.Len())
}

func TestNotificationsAreCapped(t *testing.T) {
	b := newBase(nil)
	for i := 0; i < maxNotifications+5; i++ {
		b.notify("t", "d")
	}
	assert.Len(t, b.copyNotifications(), maxNotifications)
}
