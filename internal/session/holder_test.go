package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"denti-directory/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider entrega notificaciones solo cuando el test lo pide.
type fakeProvider struct {
	mu        sync.Mutex
	subs      map[string][]*fakeSub
	signedOut []string
	initial   map[string]*auth.Identity
	immediate bool
}

type fakeSub struct {
	fn     func(*auth.Identity)
	active bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{subs: map[string][]*fakeSub{}, initial: map[string]*auth.Identity{}}
}

func (p *fakeProvider) SignUp(context.Context, string, string, string) (auth.Session, error) {
	return auth.Session{}, nil
}

func (p *fakeProvider) SignIn(context.Context, string, string) (auth.Session, error) {
	return auth.Session{}, nil
}

func (p *fakeProvider) SignOut(_ context.Context, token string) error {
	p.mu.Lock()
	p.signedOut = append(p.signedOut, token)
	p.mu.Unlock()
	return nil
}

func (p *fakeProvider) Subscribe(token string, fn func(*auth.Identity)) func() {
	s := &fakeSub{fn: fn, active: true}
	p.mu.Lock()
	p.subs[token] = append(p.subs[token], s)
	immediate, id := p.immediate, p.initial[token]
	p.mu.Unlock()

	if immediate {
		fn(id)
	}
	return func() {
		p.mu.Lock()
		s.active = false
		p.mu.Unlock()
	}
}

func (p *fakeProvider) emit(token string, id *auth.Identity) {
	p.mu.Lock()
	var fns []func(*auth.Identity)
	for _, s := range p.subs[token] {
		if s.active {
			fns = append(fns, s.fn)
		}
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(id)
	}
}

func (p *fakeProvider) activeSubs(token string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, s := range p.subs[token] {
		if s.active {
			n++
		}
	}
	return n
}

var ana = &auth.Identity{UID: "user-1", Email: "ana@example.com"}

func TestHolder_PendingUntilFirstNotification(t *testing.T) {
	p := newFakeProvider()
	h := NewHolder(p, "tok", nil)
	h.Start()
	defer h.Close()

	id, pending := h.Current()
	assert.Nil(t, id)
	assert.True(t, pending)

	select {
	case <-h.Ready():
		t.Fatal("ready before first notification")
	default:
	}

	p.emit("tok", nil)

	id, pending = h.Current()
	assert.Nil(t, id)
	assert.False(t, pending, "a nil identity also resolves the session")
	assert.True(t, h.WaitReady(context.Background()))

	p.emit("tok", ana)
	id, pending = h.Current()
	require.NotNil(t, id)
	assert.Equal(t, "user-1", id.UID)
	assert.False(t, pending)
}

func TestHolder_ImmediateDeliveryDuringStart(t *testing.T) {
	p := newFakeProvider()
	p.immediate = true
	p.initial["tok"] = ana

	h := NewHolder(p, "tok", nil)
	h.Start()
	defer h.Close()

	id, pending := h.Current()
	require.NotNil(t, id)
	assert.False(t, pending)
}

func TestHolder_CurrentReturnsCopy(t *testing.T) {
	p := newFakeProvider()
	h := NewHolder(p, "tok", nil)
	h.Start()
	defer h.Close()

	p.emit("tok", &auth.Identity{UID: "user-1"})
	id, _ := h.Current()
	id.UID = "mutated"

	again, _ := h.Current()
	assert.Equal(t, "user-1", again.UID)
}

func TestHolder_SignOutClearsOnlyOnNotification(t *testing.T) {
	p := newFakeProvider()
	h := NewHolder(p, "tok", nil)
	h.Start()
	defer h.Close()
	p.emit("tok", ana)

	require.NoError(t, h.SignOut(context.Background()))
	assert.Equal(t, []string{"tok"}, p.signedOut)

	id, _ := h.Current()
	assert.NotNil(t, id, "identity stays until the provider notifies")

	p.emit("tok", nil)
	id, pending := h.Current()
	assert.Nil(t, id)
	assert.False(t, pending)
}

func TestHolder_WatchReceivesChanges(t *testing.T) {
	p := newFakeProvider()
	h := NewHolder(p, "tok", nil)
	h.Start()

	ch, cancel := h.Watch()
	defer cancel()

	p.emit("tok", ana)
	select {
	case got := <-ch:
		require.NotNil(t, got)
		assert.Equal(t, "user-1", got.UID)
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}

	// Lector lento: solo queda el último valor.
	p.emit("tok", nil)
	p.emit("tok", ana)
	got := <-ch
	require.NotNil(t, got)

	h.Close()
	_, open := <-ch
	assert.False(t, open, "Close closes watcher channels")
}

func TestHolder_CloseUnsubscribes(t *testing.T) {
	p := newFakeProvider()
	h := NewHolder(p, "tok", nil)
	h.Start()
	require.Equal(t, 1, p.activeSubs("tok"))

	h.Close()
	h.Close()
	assert.Equal(t, 0, p.activeSubs("tok"))

	// Notificaciones tardías no reviven el estado.
	p.emit("tok", ana)
	id, pending := h.Current()
	assert.Nil(t, id)
	assert.True(t, pending)
}

func TestHolder_WaitReadyHonoursContext(t *testing.T) {
	h := NewHolder(newFakeProvider(), "tok", nil)
	h.Start()
	defer h.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.False(t, h.WaitReady(ctx))
}
