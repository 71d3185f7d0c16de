package postgresql

import (
	"context"
	"errors"

	"github.com/fieldops-hq/hrops-backend/internal/domain/attendance"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type sessionRepositoryImpl struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

const sessionColumns = `
	id, employee_id, work_date, clock_in, clock_out, duration_minutes,
	clock_in_latitude, clock_in_longitude, clock_out_latitude, clock_out_longitude,
	created_at, updated_at
`

func scanSession(row pgx.Row) (attendance.Session, error) {
	var s attendance.Session
	err := row.Scan(
		&s.ID,
		&s.EmployeeID,
		&s.WorkDate,
		&s.ClockIn,
		&s.ClockOut,
		&s.DurationMinutes,
		&s.ClockInLatitude,
		&s.ClockInLongitude,
		&s.ClockOutLatitude,
		&s.ClockOutLongitude,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (r *sessionRepositoryImpl) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		INSERT INTO attendance_sessions (
			id, employee_id, work_date, clock_in,
			clock_in_latitude, clock_in_longitude,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		session.EmployeeID, session.WorkDate, session.ClockIn,
		session.ClockInLatitude, session.ClockInLongitude,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return attendance.Session{}, err
	}
	return session, nil
}

func (r *sessionRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	q := r.db.GetQuerier(ctx)

	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions WHERE id = $1`

	session, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, err
	}
	return session, nil
}

func (r *sessionRepositoryImpl) Update(ctx context.Context, session attendance.Session) error {
	q := r.db.GetQuerier(ctx)

	query := `
		UPDATE attendance_sessions
		SET work_date = $2, clock_in = $3, clock_out = $4, duration_minutes = $5,
			clock_in_latitude = $6, clock_in_longitude = $7,
			clock_out_latitude = $8, clock_out_longitude = $9,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		session.ID, session.WorkDate, session.ClockIn, session.ClockOut, session.DurationMinutes,
		session.ClockInLatitude, session.ClockInLongitude,
		session.ClockOutLatitude, session.ClockOutLongitude,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return attendance.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepositoryImpl) ListByEmployeeAndDate(ctx context.Context, employeeID, workDate string) ([]attendance.Session, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE employee_id = $1 AND work_date = $2
		ORDER BY clock_in ASC
	`

	rows, err := q.Query(ctx, query, employeeID, workDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (r *sessionRepositoryImpl) HasOpenSession(ctx context.Context, employeeID string) (bool, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_sessions
			WHERE employee_id = $1 AND clock_out IS NULL
		)
	`

	var open bool
	if err := q.QueryRow(ctx, query, employeeID).Scan(&open); err != nil {
		return false, err
	}
	return open, nil
}
