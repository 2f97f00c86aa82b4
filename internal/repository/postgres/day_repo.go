package postgres

import (
	"context"
	"database/sql"

	"agendabuilder/internal/domain"
)

type dayRepository struct {
	DB *sql.DB
}

func NewDayRepository(db *sql.DB) domain.DayRepository {
	return &dayRepository{DB: db}
}

func (r *dayRepository) Create(ctx context.Context, d *domain.Day) error {
	query := `
		INSERT INTO days (event_id, day_number, name, day_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, d.EventID, d.DayNumber, d.Name, d.Date).Scan(&d.ID)
	return translateParentErr(err)
}

func (r *dayRepository) ListByEventID(ctx context.Context, eventID string) ([]domain.Day, error) {
	query := `
		SELECT id, event_id, day_number, name, day_date
		FROM days
		WHERE event_id = $1
		ORDER BY day_number ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	days := make([]domain.Day, 0)
	for rows.Next() {
		var d domain.Day
		if err := rows.Scan(&d.ID, &d.EventID, &d.DayNumber, &d.Name, &d.Date); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// Update sets the non-empty fields of updates.
func (r *dayRepository) Update(ctx context.Context, id string, updates domain.DayUpdates) error {
	query := `
		UPDATE days
		SET name = COALESCE(NULLIF($1, ''), name), day_date = COALESCE(NULLIF($2, ''), day_date)
		WHERE id = $3
	`
	result, err := r.DB.ExecContext(ctx, query, updates.Name, updates.Date, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *dayRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM days WHERE id = $1`
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
