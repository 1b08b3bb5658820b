package article

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphabot-ai/myblog/internal/model"
	"github.com/alphabot-ai/myblog/internal/store/sqlite"
	"github.com/alphabot-ai/myblog/internal/validation"
)

var (
	alice = model.Principal{Username: "alice01"}
	bob   = model.Principal{Username: "bobby02"}
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	name := strings.NewReplacer("/", "_").Replace(t.Name())
	st, err := sqlite.Open(fmt.Sprintf("file:article_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewService(st)
}

func TestCreateAndRead(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	a, err := svc.Create(ctx, alice, Input{Title: "Hello world", Content: "My very first article."})
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	assert.Equal(t, "alice01", a.Author)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Title, got.Title)

	_, err = svc.Get(ctx, a.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)

	mine, err := svc.ListByAuthor(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.ListByAuthor(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, alice, Input{Title: "Hey", Content: "short"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	fields := verr.ByField()
	assert.Equal(t, "Title must be between 5 and 100 characters.", fields["title"])
	assert.Equal(t, "Content must be at least 10 characters.", fields["content"])

	_, err = svc.Create(ctx, alice, Input{Title: strings.Repeat("t", 101), Content: "long enough content"})
	require.ErrorAs(t, err, &verr)

	list, _ := svc.List(ctx)
	assert.Empty(t, list)
}

func TestCreateRequiresPrincipal(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), model.Principal{}, Input{Title: "Hello world", Content: "My very first article."})
	assert.ErrorIs(t, err, ErrAnonymous)
}

func TestOwnership(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	x, err := svc.Create(ctx, alice, Input{Title: "Alice's post", Content: "Written by alice only."})
	require.NoError(t, err)

	_, err = svc.GetOwned(ctx, bob, x.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.Update(ctx, bob, x.ID, Input{Title: "Bob was here", Content: "Overwritten by bob."})
	assert.ErrorIs(t, err, ErrNotOwner)

	err = svc.Delete(ctx, bob, x.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	unchanged, err := svc.Get(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, x.Title, unchanged.Title)
	assert.Equal(t, x.Content, unchanged.Content)

	updated, err := svc.Update(ctx, alice, x.ID, Input{Title: "Alice's edited post", Content: "Edited by alice herself."})
	require.NoError(t, err)
	assert.Equal(t, x.ID, updated.ID)
	assert.Equal(t, "alice01", updated.Author)

	stored, _ := svc.Get(ctx, x.ID)
	assert.Equal(t, "Alice's edited post", stored.Title)
	assert.Equal(t, "alice01", stored.Author)

	require.NoError(t, svc.Delete(ctx, alice, x.ID))
	_, err = svc.Get(ctx, x.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, alice, x.ID), ErrNotFound)
}

func TestUpdateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	x, err := svc.Create(ctx, alice, Input{Title: "Alice's post", Content: "Written by alice only."})
	require.NoError(t, err)

	_, err = svc.Update(ctx, alice, x.ID, Input{Title: "Hi", Content: "Written by alice only."})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))

	stored, _ := svc.Get(ctx, x.ID)
	assert.Equal(t, "Alice's post", stored.Title)
}

func TestSearch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"Learning Go generics", "Baking sourdough bread", "Hiking the Alps"} {
		_, err := svc.Create(ctx, alice, Input{Title: title, Content: "Some content for " + title})
		require.NoError(t, err)
	}

	got, err := svc.Search(ctx, "sourdough")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Baking sourdough bread", got[0].Title)

	got, err = svc.Search(ctx, "kubernetes")
	require.NoError(t, err)
	assert.Empty(t, got)
}
