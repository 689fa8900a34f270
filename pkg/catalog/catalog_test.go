package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kasuboski/ratez/pkg/storage"
	"github.com/kasuboski/ratez/pkg/storage/jsonfile"
	"github.com/kasuboski/ratez/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newFileStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "movies.json")
	s := New(jsonfile.New(path))
	res := s.Load(context.Background())
	require.NoError(t, res.ReadFailure)
	return s, path
}

func titles(movies []storage.Movie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Title)
	}
	return out
}

func TestStore_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("persists across restart", func(t *testing.T) {
		s, path := newFileStore(t)

		m, err := s.Add(ctx, AddRequest{Title: "Heat", Rating: 5, ImageURL: "https://example.com/heat.jpg"})
		require.NoError(t, err)
		assert.Equal(t, storage.NewMovie("Heat", 5, "https://example.com/heat.jpg"), m)

		_, err = s.Add(ctx, AddRequest{Title: "Alien", Rating: 4})
		require.NoError(t, err)

		restarted := New(jsonfile.New(path))
		res := restarted.Load(ctx)
		require.NoError(t, res.ReadFailure)
		assert.Equal(t, []storage.Movie{
			storage.NewMovie("Heat", 5, "https://example.com/heat.jpg"),
			storage.NewMovie("Alien", 4, ""),
		}, res.Movies)
		assert.Equal(t, res.Movies, restarted.Movies())
	})

	t.Run("trims input", func(t *testing.T) {
		s, _ := newFileStore(t)

		m, err := s.Add(ctx, AddRequest{Title: "  Heat  ", Rating: 3, ImageURL: "   "})
		require.NoError(t, err)
		assert.Equal(t, "Heat", m.Title)
		assert.True(t, m.ImageURL.IsNull())
	})

	t.Run("duplicate title under case folding", func(t *testing.T) {
		s, path := newFileStore(t)

		_, err := s.Add(ctx, AddRequest{Title: "The Matrix", Rating: 5})
		require.NoError(t, err)

		before, err := os.ReadFile(path)
		require.NoError(t, err)

		for _, req := range []AddRequest{
			{Title: "the matrix", Rating: 5},
			{Title: "THE MATRIX", Rating: 1, ImageURL: "https://example.com/m.jpg"},
			{Title: " The Matrix ", Rating: 3},
		} {
			_, err := s.Add(ctx, req)
			assert.ErrorIs(t, err, ErrDuplicateTitle, req.Title)
		}

		assert.Len(t, s.Movies(), 1)
		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("empty fields", func(t *testing.T) {
		s, path := newFileStore(t)

		for _, req := range []AddRequest{
			{Title: "", Rating: 4},
			{Title: "   ", Rating: 4},
			{Title: "Heat", Rating: 0},
			{Title: "", Rating: 0},
		} {
			_, err := s.Add(ctx, req)
			assert.ErrorIs(t, err, ErrEmptyField)
			assert.True(t, IsValidation(err))
		}

		assert.Empty(t, s.Movies())
		_, err := os.Stat(path)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("rating out of range", func(t *testing.T) {
		s, _ := newFileStore(t)

		for _, rating := range []int{-1, 6, 10} {
			_, err := s.Add(ctx, AddRequest{Title: "Heat", Rating: rating})
			assert.ErrorIs(t, err, ErrInvalidRating)
		}
		assert.Empty(t, s.Movies())
	})

	t.Run("write failure leaves catalog unchanged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStorage(ctrl)

		store.EXPECT().Read(gomock.Any()).Return([]storage.Movie{storage.NewMovie("Heat", 5, "")}, nil)
		store.EXPECT().Write(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		s := New(store)
		s.Load(ctx)

		_, err := s.Add(ctx, AddRequest{Title: "Alien", Rating: 4})
		assert.ErrorIs(t, err, storage.ErrWrite)
		assert.ErrorContains(t, err, "disk full")
		assert.Equal(t, []string{"Heat"}, titles(s.Movies()))
	})

	t.Run("retry after write failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStorage(ctrl)

		want := []storage.Movie{storage.NewMovie("Alien", 4, "")}
		gomock.InOrder(
			store.EXPECT().Write(gomock.Any(), want).Return(storage.ErrWrite),
			store.EXPECT().Write(gomock.Any(), want).Return(nil),
		)

		s := New(store)
		_, err := s.Add(ctx, AddRequest{Title: "Alien", Rating: 4})
		require.ErrorIs(t, err, storage.ErrWrite)

		_, err = s.Add(ctx, AddRequest{Title: "Alien", Rating: 4})
		require.NoError(t, err)
		assert.Equal(t, want, s.Movies())
	})
}

func TestStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		s := New(jsonfile.New(filepath.Join(t.TempDir(), "movies.json")))

		res := s.Load(ctx)
		assert.NoError(t, res.ReadFailure)
		assert.Empty(t, res.Movies)
	})

	t.Run("corrupt file recovers to empty catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

		s := New(jsonfile.New(path))
		res := s.Load(ctx)
		assert.ErrorIs(t, res.ReadFailure, storage.ErrRead)
		assert.Empty(t, res.Movies)
		assert.Empty(t, s.Movies())

		_, err := s.Add(ctx, AddRequest{Title: "Heat", Rating: 5})
		assert.NoError(t, err)
	})

	t.Run("read error replaces previous catalog", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStorage(ctrl)

		gomock.InOrder(
			store.EXPECT().Read(gomock.Any()).Return([]storage.Movie{storage.NewMovie("Heat", 5, "")}, nil),
			store.EXPECT().Read(gomock.Any()).Return(nil, storage.ErrRead),
		)

		s := New(store)
		require.Len(t, s.Load(ctx).Movies, 1)

		res := s.Load(ctx)
		assert.ErrorIs(t, res.ReadFailure, storage.ErrRead)
		assert.Empty(t, s.Movies())
	})

	t.Run("drops records that break invariants", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.json")
		contents := `[
			{"title": "Heat", "rating": 5, "image_url": null},
			{"title": "HEAT", "rating": 2, "image_url": null},
			{"title": "", "rating": 3, "image_url": null},
			{"title": "Alien", "rating": 9, "image_url": null},
			{"title": "Ronin", "rating": 3, "image_url": "https://example.com/ronin.jpg"}
		]`
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

		s := New(jsonfile.New(path))
		res := s.Load(ctx)
		require.NoError(t, res.ReadFailure)
		assert.Equal(t, 3, res.Skipped)
		assert.Equal(t, []string{"Heat", "Ronin"}, titles(res.Movies))
	})
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes by folded title", func(t *testing.T) {
		s, path := newFileStore(t)
		_, err := s.Add(ctx, AddRequest{Title: "Heat", Rating: 5})
		require.NoError(t, err)
		_, err = s.Add(ctx, AddRequest{Title: "Alien", Rating: 4})
		require.NoError(t, err)

		require.NoError(t, s.Remove(ctx, "heat"))
		assert.Equal(t, []string{"Alien"}, titles(s.Movies()))

		res := New(jsonfile.New(path)).Load(ctx)
		assert.Equal(t, []string{"Alien"}, titles(res.Movies))
	})

	t.Run("not found leaves catalog and file unchanged", func(t *testing.T) {
		s, path := newFileStore(t)
		_, err := s.Add(ctx, AddRequest{Title: "Heat", Rating: 5})
		require.NoError(t, err)

		before, err := os.ReadFile(path)
		require.NoError(t, err)

		err = s.Remove(ctx, "Alien")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.False(t, IsValidation(err))

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Equal(t, []string{"Heat"}, titles(s.Movies()))
	})

	t.Run("write failure keeps movie", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStorage(ctrl)

		store.EXPECT().Read(gomock.Any()).Return([]storage.Movie{storage.NewMovie("Heat", 5, "")}, nil)
		store.EXPECT().Write(gomock.Any(), []storage.Movie{}).Return(storage.ErrWrite)

		s := New(store)
		s.Load(ctx)

		assert.ErrorIs(t, s.Remove(ctx, "Heat"), storage.ErrWrite)
		assert.Equal(t, []string{"Heat"}, titles(s.Movies()))
	})
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()

	t.Run("clears and persists empty array", func(t *testing.T) {
		s, path := newFileStore(t)
		for _, title := range []string{"Heat", "Alien", "Ronin"} {
			_, err := s.Add(ctx, AddRequest{Title: title, Rating: 3})
			require.NoError(t, err)
		}

		require.NoError(t, s.Clear(ctx))
		assert.Empty(t, s.Movies())

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(b))
	})

	t.Run("empty catalog is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStorage(ctrl)

		s := New(store)
		assert.NoError(t, s.Clear(ctx))
		assert.NoError(t, s.Clear(ctx))
	})
}

func TestStore_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("adopts saved catalog", func(t *testing.T) {
		s, path := newFileStore(t)

		movies := []storage.Movie{storage.NewMovie("Heat", 5, ""), storage.NewMovie("Alien", 4, "")}
		require.NoError(t, s.Save(ctx, movies))
		assert.Equal(t, movies, s.Movies())

		res := New(jsonfile.New(path)).Load(ctx)
		assert.Equal(t, movies, res.Movies)
	})

	t.Run("movie without image is stored as null", func(t *testing.T) {
		s, path := newFileStore(t)

		require.NoError(t, s.Save(ctx, []storage.Movie{{Title: "Heat", Rating: 5}}))

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"title":"Heat","rating":5,"image_url":null}]`, string(b))

		assert.Equal(t, []storage.Movie{storage.NewMovie("Heat", 5, "")}, s.Movies())
	})

	t.Run("rejects invalid catalog without writing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStorage(ctrl)
		s := New(store)

		err := s.Save(ctx, []storage.Movie{storage.NewMovie("Heat", 5, ""), storage.NewMovie("heat", 4, "")})
		assert.ErrorIs(t, err, ErrDuplicateTitle)

		err = s.Save(ctx, []storage.Movie{storage.NewMovie("Heat", 7, "")})
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("write failure keeps previous catalog", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStorage(ctrl)
		store.EXPECT().Write(gomock.Any(), gomock.Any()).Return(errors.New("read-only file system"))

		s := New(store)
		err := s.Save(ctx, []storage.Movie{storage.NewMovie("Heat", 5, "")})
		assert.ErrorIs(t, err, storage.ErrWrite)
		assert.Empty(t, s.Movies())
	})
}

func TestStore_Get(t *testing.T) {
	s, _ := newFileStore(t)
	_, err := s.Add(context.Background(), AddRequest{Title: "Heat", Rating: 5})
	require.NoError(t, err)

	m, err := s.Get("HEAT")
	require.NoError(t, err)
	assert.Equal(t, "Heat", m.Title)

	_, err = s.Get("Alien")
	assert.ErrorIs(t, err, ErrNotFound)
}
