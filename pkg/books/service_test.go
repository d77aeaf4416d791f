package books

import (
	"context"
	"sort"
	"testing"

	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/shishobooks/circulation/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func createGenres(ctx context.Context, t *testing.T, db *bun.DB, names ...string) []int {
	t.Helper()

	ids := []int{}
	for _, name := range names {
		genre := &models.Genre{Name: name}
		_, err := db.NewInsert().Model(genre).Exec(ctx)
		require.NoError(t, err)
		ids = append(ids, genre.ID)
	}
	return ids
}

func TestService_CreateAndRetrieve(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	author := &models.Author{FirstName: "Ursula", LastName: "Le Guin"}
	_, err := db.NewInsert().Model(author).Exec(ctx)
	require.NoError(t, err)
	language := &models.Language{Name: "English"}
	_, err = db.NewInsert().Model(language).Exec(ctx)
	require.NoError(t, err)
	genreIDs := createGenres(ctx, t, db, "Fantasy", "Science Fiction", "Anthropology", "Philosophy")

	book := &models.Book{
		Title:      "The Dispossessed",
		AuthorID:   &author.ID,
		Summary:    "Anarres and Urras.",
		ISBN:       "9780061054884",
		LanguageID: &language.ID,
	}
	require.NoError(t, svc.CreateBook(ctx, book, CreateBookOptions{GenreIDs: genreIDs}))

	reloaded, err := svc.RetrieveBook(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Author)
	assert.Equal(t, "Le Guin, Ursula", reloaded.Author.String())
	require.NotNil(t, reloaded.Language)
	assert.Equal(t, "English", reloaded.Language.Name)
	assert.Len(t, reloaded.BookGenres, 4)
	assert.Equal(t, "Fantasy, Science Fiction, Anthropology", reloaded.DisplayGenre())

	_, err = svc.RetrieveBook(ctx, book.ID+100)
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestService_CreateBook_UnknownReferences(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	err := svc.CreateBook(ctx, &models.Book{Title: "Orphan", AuthorID: pointerutil.Int(42)}, CreateBookOptions{})
	assert.ErrorIs(t, err, errcodes.NotFound("Author"))

	err = svc.CreateBook(ctx, &models.Book{Title: "Orphan", LanguageID: pointerutil.Int(42)}, CreateBookOptions{})
	assert.ErrorIs(t, err, errcodes.NotFound("Language"))

	err = svc.CreateBook(ctx, &models.Book{Title: "Orphan"}, CreateBookOptions{GenreIDs: []int{42}})
	assert.ErrorIs(t, err, errcodes.NotFound("Genre"))

	count, err := svc.CountBooks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestService_RetrieveBook_InstancesInDueOrder(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()
	book := testutils.CreateBook(ctx, t, db, "Dune")

	late := testutils.CreateCopy(ctx, t, db, book, nil, models.LoanStatusOnLoan, pointerutil.Time(testutils.Days(10)))
	undated := testutils.CreateCopy(ctx, t, db, book, nil, models.LoanStatusAvailable, nil)
	soon := testutils.CreateCopy(ctx, t, db, book, nil, models.LoanStatusOnLoan, pointerutil.Time(testutils.Days(1)))

	reloaded, err := svc.RetrieveBook(ctx, book.ID)
	require.NoError(t, err)
	ids := []string{}
	for _, bi := range reloaded.Instances {
		ids = append(ids, bi.ID)
	}
	assert.Equal(t, []string{undated.ID, soon.ID, late.ID}, ids)
}

func TestService_UpdateBook_ReplacesGenres(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()
	genreIDs := createGenres(ctx, t, db, "Horror", "Romance")

	book := &models.Book{Title: "Dracula"}
	require.NoError(t, svc.CreateBook(ctx, book, CreateBookOptions{GenreIDs: genreIDs[:1]}))

	book.Title = "Dracula's Guest"
	replacement := []int{genreIDs[1]}
	require.NoError(t, svc.UpdateBook(ctx, book, UpdateBookOptions{Columns: []string{"title"}, GenreIDs: &replacement}))

	reloaded, err := svc.RetrieveBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dracula's Guest", reloaded.Title)
	assert.Equal(t, "Romance", reloaded.DisplayGenre())
}

func TestService_ListBooks_ByTitle(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	titles := []string{"Middlemarch", "Beloved", "Ulysses"}
	for _, title := range titles {
		testutils.CreateBook(ctx, t, db, title)
	}

	books, err := svc.ListBooks(ctx)
	require.NoError(t, err)
	got := []string{}
	for _, b := range books {
		got = append(got, b.Title)
	}
	sort.Strings(titles)
	assert.Equal(t, titles, got)
}

func TestService_DeleteBook_KeepsCopies(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()
	genreIDs := createGenres(ctx, t, db, "Classics")

	book := &models.Book{Title: "Emma"}
	require.NoError(t, svc.CreateBook(ctx, book, CreateBookOptions{GenreIDs: genreIDs}))
	bi := testutils.CreateCopy(ctx, t, db, book, nil, models.LoanStatusAvailable, nil)

	require.NoError(t, svc.DeleteBook(ctx, book.ID))

	stored := &models.BookInstance{}
	require.NoError(t, db.NewSelect().Model(stored).Where("bi.id = ?", bi.ID).Scan(ctx))
	assert.Nil(t, stored.BookID)

	links, err := db.NewSelect().Model((*models.BookGenre)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, links)

	assert.ErrorIs(t, svc.DeleteBook(ctx, book.ID), errcodes.NotFound("Book"))
}
