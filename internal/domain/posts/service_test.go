package posts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"denti-directory/internal/platform/apperr"
	"denti-directory/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu    sync.Mutex
	items map[string]Post
	fail  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]Post{}}
}

func (r *fakeRepo) Create(_ context.Context, p Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.items[p.ID] = p
	return nil
}

func (r *fakeRepo) Update(_ context.Context, id string, patch Patch, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	p, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	patch.Apply(&p)
	p.UpdatedAt = updatedAt
	r.items[id] = p
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return Post{}, r.fail
	}
	p, ok := r.items[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	return p, nil
}

// List devuelve en orden arbitrario (map) a propósito: el servicio ordena.
func (r *fakeRepo) List(_ context.Context) ([]Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	out := make([]Post, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	delete(r.items, id)
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(repo Repository) (*Service, *clock) {
	c := &clock{t: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewService(repo, nil)
	svc.now = c.now
	n := 0
	svc.newID = func() string {
		n++
		return "post-" + string(rune('a'+n-1))
	}
	return svc, c
}

var ana = Author{UID: "user-1", Email: "ana@example.com", DisplayName: "Ana"}

func sampleInput(title string) Input {
	return Input{Title: title, Content: "Cepíllate tres veces al día.", Excerpt: "Consejos"}
}

func TestCreate_CopiesAuthor(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	id, err := svc.Create(context.Background(), ana, sampleInput("Higiene"))
	require.NoError(t, err)

	p, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, ana, p.Author)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestCreate_RequiresAuthor(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())
	_, err := svc.Create(context.Background(), Author{Email: "x@y.z"}, sampleInput("Sin autor"))
	assert.ErrorIs(t, err, ErrAuthorRequired)
}

func TestList_NewestFirst(t *testing.T) {
	svc, clk := newTestService(newFakeRepo())
	ctx := context.Background()

	for i, title := range []string{"uno", "dos", "tres"} {
		clk.t = clk.t.Add(time.Duration(i+1) * time.Hour)
		_, err := svc.Create(ctx, ana, sampleInput(title))
		require.NoError(t, err)
	}

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "tres", items[0].Title)
	assert.Equal(t, "dos", items[1].Title)
	assert.Equal(t, "uno", items[2].Title)
}

func TestList_FailureMessage(t *testing.T) {
	repo := newFakeRepo()
	repo.fail = errors.New("unavailable")
	svc, _ := newTestService(repo)

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, "No se pudieron cargar los artículos.", apperr.Message(err, ""))
}

func TestUpdate_KeepsAuthorAndStamps(t *testing.T) {
	svc, clk := newTestService(newFakeRepo())
	ctx := context.Background()

	id, err := svc.Create(ctx, ana, sampleInput("Higiene"))
	require.NoError(t, err)

	clk.t = clk.t.Add(24 * time.Hour)
	title := "Higiene dental"
	require.NoError(t, svc.Update(ctx, id, Patch{Title: &title}))

	p, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Higiene dental", p.Title)
	assert.Equal(t, ana, p.Author)
	assert.Equal(t, clk.t, p.UpdatedAt)
}

func TestDelete_Twice(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())
	ctx := context.Background()

	id, err := svc.Create(ctx, ana, sampleInput("Higiene"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))
	require.NoError(t, svc.Delete(ctx, id))

	_, err = svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthorHelpers(t *testing.T) {
	a := AuthorFrom(auth.Identity{UID: "u", Email: "u@x.io"})
	assert.Equal(t, "u@x.io", a.Name())
	assert.True(t, IsAuthor(Post{Author: a}, "u"))
	assert.False(t, IsAuthor(Post{Author: a}, "other"))
	assert.False(t, IsAuthor(Post{}, ""))
}
