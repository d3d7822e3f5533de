package database

import (
	"context"
	"regexp"
	"testing"
	"testing/fstest"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateAppliesOnlyPendingFilesInOrder(t *testing.T) {
	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	files := fstest.MapFS{
		"0002_events_index.up.sql": {Data: []byte("CREATE INDEX b ON events (title)")},
		"0001_init.up.sql":         {Data: []byte("CREATE TABLE a (id int)")},
		"0003_next.up.sql":         {Data: []byte("CREATE TABLE c (id int)")},
		"README.md":                {Data: []byte("ignored")},
	}

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0001_init"))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX b ON events (title)")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).WithArgs("0002_events_index").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE c (id int)")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).WithArgs("0003_next").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ran, err := Migrate(context.Background(), db, files, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_events_index", "0003_next"}, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}
