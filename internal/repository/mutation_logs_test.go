package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mulescheduler/shift-grid/internal/config"
	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5
	return NewRepository(cfg, db), mock
}

func TestInsertMutationLog(t *testing.T) {
	repo, mock := newTestRepository(t)
	assignmentID := int64(9)
	createdAt := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)

	log := &domain.MutationLog{
		ActorID:       1,
		Kind:          domain.MutationMove,
		WeekStartDate: "2024-01-01",
		AssignmentID:  &assignmentID,
		Outcome:       domain.OutcomeConflict,
		ErrorCode:     "OVER_MAX_WORKERS",
		Message:       "Conflict: Shift is full",
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO mutation_logs")).
		WithArgs(int64(1), domain.MutationMove, "2024-01-01", &assignmentID, nil, nil, nil, domain.OutcomeConflict, "OVER_MAX_WORKERS", "Conflict: Shift is full").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), createdAt))

	require.NoError(t, repo.InsertMutationLog(log))
	assert.Equal(t, int64(3), log.ID)
	assert.Equal(t, createdAt, log.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMutationLog_Error(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO mutation_logs")).WillReturnError(errors.New("connection refused"))

	err := repo.InsertMutationLog(&domain.MutationLog{Kind: domain.MutationAssign, WeekStartDate: "2024-01-01"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMutationLogsByWeek(t *testing.T) {
	repo, mock := newTestRepository(t)
	createdAt := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)

	columns := []string{"id", "actor_id", "kind", "week_start_date", "assignment_id", "user_id", "location_id", "time_slot_id", "outcome", "error_code", "message", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM mutation_logs")).
		WithArgs("2024-01-01").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(2), int64(1), "remove", "2024-01-01", int64(5), nil, nil, nil, "applied", "", "", createdAt).
			AddRow(int64(1), int64(1), "assign", "2024-01-01", int64(5), int64(7), int64(2), int64(3), "applied", "", "", createdAt))

	logs, err := repo.GetMutationLogsByWeek("2024-01-01")

	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.MutationRemove, logs[0].Kind)
	assert.Nil(t, logs[0].UserID)
	require.NotNil(t, logs[1].UserID)
	assert.Equal(t, int64(7), *logs[1].UserID)
	assert.Equal(t, domain.OutcomeApplied, logs[1].Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMutationLogsByWeek_Empty(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM mutation_logs")).
		WithArgs("2024-01-08").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	logs, err := repo.GetMutationLogsByWeek("2024-01-08")

	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}
