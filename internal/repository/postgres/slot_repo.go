package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"agendabuilder/internal/domain"
)

type slotRepository struct {
	DB *sql.DB
}

func NewSlotRepository(db *sql.DB) domain.SlotRepository {
	return &slotRepository{DB: db}
}

func (r *slotRepository) Create(ctx context.Context, s *domain.Slot) error {
	query := `
		INSERT INTO slots (day_id, start_time, end_time, title, presenter_name, show_presenter, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, s.DayID, s.StartTime, s.EndTime, s.Title,
		s.PresenterName, s.ShowPresenter, s.SortOrder).Scan(&s.ID)
	return translateParentErr(err)
}

func (r *slotRepository) ListByDayID(ctx context.Context, dayID string) ([]domain.Slot, error) {
	query := `
		SELECT id, day_id, start_time, end_time, title, presenter_name, show_presenter, sort_order
		FROM slots
		WHERE day_id = $1
		ORDER BY start_time ASC, sort_order ASC, id ASC
	`
	return r.list(ctx, query, dayID)
}

// ListByEventID returns the slots of every day of the event, grouped by day number.
func (r *slotRepository) ListByEventID(ctx context.Context, eventID string) ([]domain.Slot, error) {
	query := `
		SELECT s.id, s.day_id, s.start_time, s.end_time, s.title, s.presenter_name, s.show_presenter, s.sort_order
		FROM slots s
		JOIN days d ON d.id = s.day_id
		WHERE d.event_id = $1
		ORDER BY d.day_number ASC, s.start_time ASC, s.sort_order ASC, s.id ASC
	`
	return r.list(ctx, query, eventID)
}

func (r *slotRepository) list(ctx context.Context, query string, arg string) ([]domain.Slot, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]domain.Slot, 0)
	for rows.Next() {
		var s domain.Slot
		if err := rows.Scan(&s.ID, &s.DayID, &s.StartTime, &s.EndTime, &s.Title,
			&s.PresenterName, &s.ShowPresenter, &s.SortOrder); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *slotRepository) Update(ctx context.Context, id string, updates domain.SlotUpdates) error {
	var setClauses []string
	var args []interface{}
	n := 1
	add := func(column string, v interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, v)
		n++
	}
	if updates.StartTime != nil {
		add("start_time", *updates.StartTime)
	}
	if updates.EndTime != nil {
		add("end_time", *updates.EndTime)
	}
	if updates.Title != nil {
		add("title", *updates.Title)
	}
	if updates.PresenterName != nil {
		add("presenter_name", *updates.PresenterName)
	}
	if updates.ShowPresenter != nil {
		add("show_presenter", *updates.ShowPresenter)
	}
	if n == 1 {
		return nil
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE slots SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), n)
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *slotRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM slots WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
