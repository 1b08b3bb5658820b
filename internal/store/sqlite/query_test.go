package sqlite_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"github.com/alphabot-ai/myblog/internal/model"
	"github.com/alphabot-ai/myblog/internal/store"
	"github.com/alphabot-ai/myblog/internal/store/sqlite"
)

func articleRows(articles ...model.Article) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "title", "author", "content", "created_at"})
	for _, a := range articles {
		rows.AddRow(a.ID, a.Title, a.Author, a.Content, a.CreatedAt.Unix())
	}
	return rows
}

func TestSearchBindsKeyword(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	created := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	want := []model.Article{{ID: 3, Title: "50%_off", Author: "adalove", Content: "sale sale sale", CreatedAt: created}}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE title LIKE ? ESCAPE")).
		WithArgs(`%50\%\_%`).
		WillReturnRows(articleRows(want...))

	got, err := sqlite.New(db).SearchArticles(context.Background(), "50%_")
	if err != nil {
		t.Fatalf("search err=%v", err)
	}
	for i := range got {
		got[i].CreatedAt = got[i].CreatedAt.UTC()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateScopesByAuthor(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE articles SET title = ?, content = ? WHERE id = ? AND author = ?")).
		WithArgs("New title", "New content body", int64(7), "bobsmith").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := sqlite.New(db).UpdateArticle(context.Background(), 7, "bobsmith", "New title", "New content body")
	if err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteScopesByAuthor(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM articles WHERE id = ? AND author = ?")).
		WithArgs(int64(7), "adalove").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := sqlite.New(db).DeleteArticle(context.Background(), 7, "adalove"); err != nil {
		t.Fatalf("delete err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
