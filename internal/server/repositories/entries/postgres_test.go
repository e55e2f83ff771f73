package entries

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db), mock, db
}

var joinedColumns = []string{
	"id", "user_id", "book_id", "status", "rating", "date_added", "date_finished",
	"b_id", "title", "author", "description", "cover_image", "genre", "published_year", "isbn", "created_at", "updated_at",
}

const (
	insertQ       = `(?s)^INSERT\s+INTO\s+library_entries\s*\(id,\s*user_id,\s*book_id,\s*status,\s*rating,\s*date_added,\s*date_finished\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*$`
	getQ          = `(?s)^SELECT\s+e\.id,.*FROM\s+library_entries\s+e\s+JOIN\s+books\s+b\s+ON\s+b\.id\s*=\s*e\.book_id\s+WHERE\s+e\.user_id\s*=\s*\$1\s+AND\s+e\.book_id\s*=\s*\$2\s*$`
	listQ         = `(?s)^SELECT\s+e\.id,.*WHERE\s+e\.user_id\s*=\s*\$1\s+ORDER\s+BY\s+e\.date_added\s+DESC,\s*e\.id\s+ASC\s*$`
	updateStatusQ = `(?s)^UPDATE\s+library_entries\s+SET\s+status\s*=\s*\$1,\s*date_finished\s*=\s*\$2\s+WHERE\s+user_id\s*=\s*\$3\s+AND\s+book_id\s*=\s*\$4\s*$`
	updateRatingQ = `(?s)^UPDATE\s+library_entries\s+SET\s+rating\s*=\s*\$1\s+WHERE\s+user_id\s*=\s*\$2\s+AND\s+book_id\s*=\s*\$3\s*$`
)

func newEntry() *models.LibraryEntry {
	return &models.LibraryEntry{
		ID:        "e-1",
		UserID:    "u-1",
		BookID:    "b-1",
		Status:    models.StatusWantToRead,
		DateAdded: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{name: "ok"},
		{name: "duplicate", execErr: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, wantErr: common.ErrAlreadyExists},
		{name: "missing book", execErr: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, wantErr: common.ErrorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			e := newEntry()
			exp := mock.ExpectExec(insertQ).
				WithArgs(e.ID, e.UserID, e.BookID, "Want to Read", nil, e.DateAdded, nil)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.Create(context.Background(), e)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), newEntry())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGet_JoinsBook(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	added := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	finished := added.Add(48 * time.Hour)
	rows := sqlmock.NewRows(joinedColumns).
		AddRow("e-1", "u-1", "b-1", "Read", int64(4), added, finished,
			"b-1", "Dune", "Frank Herbert", "", "", "Sci-Fi", int64(1965), nil, added, added)
	mock.ExpectQuery(getQ).WithArgs("u-1", "b-1").WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "u-1", "b-1")
	require.NoError(t, err)

	assert.Equal(t, models.StatusRead, got.Status)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 4, *got.Rating)
	require.NotNil(t, got.DateFinished)
	assert.True(t, got.DateFinished.Equal(finished))
	require.NotNil(t, got.Book)
	assert.Equal(t, "Dune", got.Book.Title)
	assert.Equal(t, 1965, got.Book.PublishedYear)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs("u-1", "b-1").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "u-1", "b-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(joinedColumns).
		AddRow("e-2", "u-1", "b-2", "Currently Reading", nil, ts.Add(time.Hour), nil,
			"b-2", "Emma", "Jane Austen", "", "", "", int64(1815), "isbn", ts, ts).
		AddRow("e-1", "u-1", "b-1", "Want to Read", nil, ts, nil,
			"b-1", "Dune", "Frank Herbert", "", "", "", int64(1965), nil, ts, ts)
	mock.ExpectQuery(listQ).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e-2", got[0].ID)
	assert.Nil(t, got[0].Rating)
	assert.Nil(t, got[0].DateFinished)
	require.NotNil(t, got[0].Book.ISBN)
}

func TestListByUser_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WithArgs("u-1").WillReturnError(errors.New("db err"))

	_, err := repo.ListByUser(context.Background(), "u-1")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	finished := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "updated", affected: 1},
		{name: "no such entry", affected: 0, wantErr: common.ErrorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectExec(updateStatusQ).
				WithArgs("Read", finished, "u-1", "b-1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.UpdateStatus(context.Background(), "u-1", "b-1", models.StatusRead, &finished)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUpdateStatus_ClearsFinished(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateStatusQ).
		WithArgs("Currently Reading", nil, "u-1", "b-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "u-1", "b-1", models.StatusCurrentlyReading, nil))
}

func TestUpdateRating(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateRatingQ).
		WithArgs(5, "u-1", "b-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateRatingQ).
		WithArgs(3, "u-1", "b-x").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(updateRatingQ).
		WithArgs(2, "u-1", "b-1").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("no rows info")))

	require.NoError(t, repo.UpdateRating(context.Background(), "u-1", "b-1", 5))
	assert.ErrorIs(t, repo.UpdateRating(context.Background(), "u-1", "b-x", 3), common.ErrorNotFound)
	assert.Error(t, repo.UpdateRating(context.Background(), "u-1", "b-1", 2))
}
