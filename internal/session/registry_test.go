package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vasiliy-maslov/ecommerce-console/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSession struct {
	mu       sync.Mutex
	closed   int
	closeErr error
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closeErr != nil {
		return f.closeErr
	}
	f.closed++
	return nil
}

func (f *fakeSession) closedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestRegistry_AddGetRemove(t *testing.T) {
	reg := session.NewRegistry[*fakeSession]("cart", time.Minute)
	s := &fakeSession{}

	id, err := reg.Add(s)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	got, err := reg.Get(id)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, reg.Remove(id))
	assert.Equal(t, 1, s.closedCount())
	assert.Zero(t, reg.Len())

	_, err = reg.Get(id)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.ErrorIs(t, reg.Remove(id), session.ErrNotFound)
}

func TestRegistry_RemoveKeepsSessionThatRefusesToClose(t *testing.T) {
	reg := session.NewRegistry[*fakeSession]("owner", time.Minute)
	busy := errors.New("saving")
	s := &fakeSession{closeErr: busy}

	id, err := reg.Add(s)
	require.NoError(t, err)

	assert.ErrorIs(t, reg.Remove(id), busy)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_Sweep(t *testing.T) {
	clk := &clock{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
	var evictedKinds []string
	reg := session.NewRegistry[*fakeSession]("cart", 10*time.Minute,
		session.WithClock(clk.Now),
		session.WithEvictHook(func(kind string) { evictedKinds = append(evictedKinds, kind) }),
	)

	idle := &fakeSession{}
	active := &fakeSession{}
	stuck := &fakeSession{closeErr: errors.New("saving")}

	idleID, err := reg.Add(idle)
	require.NoError(t, err)
	activeID, err := reg.Add(active)
	require.NoError(t, err)
	_, err = reg.Add(stuck)
	require.NoError(t, err)

	clk.Advance(8 * time.Minute)
	_, err = reg.Get(activeID)
	require.NoError(t, err)
	clk.Advance(5 * time.Minute)

	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, 1, idle.closedCount())
	assert.Zero(t, active.closedCount())
	assert.Equal(t, []string{"cart"}, evictedKinds)
	assert.Equal(t, 2, reg.Len(), "the stuck session waits for the next sweep")

	_, err = reg.Get(idleID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRegistry_SweepDisabled(t *testing.T) {
	clk := &clock{now: time.Now()}
	reg := session.NewRegistry[*fakeSession]("cart", 0, session.WithClock(clk.Now))
	_, err := reg.Add(&fakeSession{})
	require.NoError(t, err)

	clk.Advance(24 * time.Hour)
	assert.Zero(t, reg.Sweep())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_RunStopsWithContext(t *testing.T) {
	reg := session.NewRegistry[*fakeSession]("cart", time.Nanosecond)
	s := &fakeSession{}
	_, err := reg.Add(s)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.Run(ctx, time.Millisecond) }()

	require.Eventually(t, func() bool { return reg.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, 1, s.closedCount())
}

func TestRegistry_CloseAll(t *testing.T) {
	reg := session.NewRegistry[*fakeSession]("owner", time.Minute)
	a, b := &fakeSession{}, &fakeSession{}
	_, err := reg.Add(a)
	require.NoError(t, err)
	_, err = reg.Add(b)
	require.NoError(t, err)

	reg.CloseAll()
	assert.Zero(t, reg.Len())
	assert.Equal(t, 1, a.closedCount())
	assert.Equal(t, 1, b.closedCount())
}
