package repository

import (
	"context"

	"github.com/mulescheduler/shift-grid/internal/domain"
)

// InsertMutationLog 写入后回填 id 与 created_at
func (r *Repository) InsertMutationLog(log *domain.MutationLog) error {
	query := `
		INSERT INTO mutation_logs (actor_id, kind, week_start_date, assignment_id, user_id, location_id, time_slot_id, outcome, error_code, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	args := []any{log.ActorID, log.Kind, log.WeekStartDate, log.AssignmentID, log.UserID, log.LocationID, log.TimeSlotID, log.Outcome, log.ErrorCode, log.Message}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&log.ID, &log.CreatedAt); err != nil {
		return err
	}

	return nil
}

// RecordMutation 供 reconcile.Recorder 使用
func (r *Repository) RecordMutation(ctx context.Context, log *domain.MutationLog) error {
	return r.InsertMutationLog(log)
}

// GetMutationLogsByWeek 按时间倒序返回某一周的变更记录
func (r *Repository) GetMutationLogsByWeek(weekStart string) ([]*domain.MutationLog, error) {
	query := `
		SELECT id, actor_id, kind, to_char(week_start_date, 'YYYY-MM-DD'), assignment_id, user_id, location_id, time_slot_id, outcome, error_code, message, created_at
		FROM mutation_logs
		WHERE week_start_date = $1
		ORDER BY created_at DESC, id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*domain.MutationLog{}
	for rows.Next() {
		log := &domain.MutationLog{}
		dst := []any{&log.ID, &log.ActorID, &log.Kind, &log.WeekStartDate, &log.AssignmentID, &log.UserID, &log.LocationID, &log.TimeSlotID, &log.Outcome, &log.ErrorCode, &log.Message, &log.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}
