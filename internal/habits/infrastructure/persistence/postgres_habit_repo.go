package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PostgresHabitRepository implements domain.Repository using PostgreSQL.
type PostgresHabitRepository struct {
	conn database.Connection
}

func NewPostgresHabitRepository(conn database.Connection) *PostgresHabitRepository {
	return &PostgresHabitRepository{conn: conn}
}

func (r *PostgresHabitRepository) Save(ctx context.Context, habit *domain.Habit) error {
	kind, days := frequencyColumns(habit.Frequency())
	id := habit.ID()

	err := database.InTx(ctx, r.conn, func(ctx context.Context, exec database.Executor) error {
		// The row lock taken by the upsert serializes concurrent saves; the
		// loser re-reads version and matches nothing.
		result, err := exec.Exec(ctx, `
			INSERT INTO habits (id, user_id, name, frequency, frequency_days, completion_count, created_at, updated_at, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				frequency = EXCLUDED.frequency,
				frequency_days = EXCLUDED.frequency_days,
				completion_count = EXCLUDED.completion_count,
				updated_at = EXCLUDED.updated_at,
				version = EXCLUDED.version
			WHERE habits.version = $10`,
			id,
			habit.UserID(),
			habit.Name(),
			kind,
			days,
			habit.CompletionCount(),
			habit.CreatedAt(),
			habit.UpdatedAt(),
			habit.Version()+1,
			habit.Version(),
		)
		if err != nil {
			return fmt.Errorf("save habit %s: %w", id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("save habit %s: %w", id, err)
		}
		if affected == 0 {
			return concurrentModification(habit)
		}

		if _, err := exec.Exec(ctx, `DELETE FROM habit_completions WHERE habit_id = $1`, id); err != nil {
			return fmt.Errorf("clear completions of habit %s: %w", id, err)
		}
		for i, d := range habit.CompletionRecord() {
			_, err := exec.Exec(ctx,
				`INSERT INTO habit_completions (habit_id, completed_on, position) VALUES ($1, $2, $3)`,
				id, d.Time(), i)
			if err != nil {
				return fmt.Errorf("save completion %s of habit %s: %w", d, id, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	habit.IncrementVersion()
	return nil
}

func (r *PostgresHabitRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	row, err := scanPostgresHabit(exec.QueryRow(ctx, `
		SELECT id, user_id, name, frequency, frequency_days, completion_count, created_at, updated_at, version
		FROM habits WHERE id = $1`, id))
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	records, err := r.completions(ctx, exec, `
		SELECT habit_id, completed_on FROM habit_completions
		WHERE habit_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	return row.toDomain(records[row.ID])
}

func (r *PostgresHabitRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	rows, err := exec.Query(ctx, `
		SELECT id, user_id, name, frequency, frequency_days, completion_count, created_at, updated_at, version
		FROM habits WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	var habitRows []habitRow
	for rows.Next() {
		row, err := scanPostgresHabit(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		habitRows = append(habitRows, row)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	records, err := r.completions(ctx, exec, `
		SELECT c.habit_id, c.completed_on
		FROM habit_completions c JOIN habits h ON h.id = c.habit_id
		WHERE h.user_id = $1 ORDER BY c.habit_id, c.position`, userID)
	if err != nil {
		return nil, err
	}

	habits := make([]*domain.Habit, 0, len(habitRows))
	for _, row := range habitRows {
		habit, err := row.toDomain(records[row.ID])
		if err != nil {
			return nil, fmt.Errorf("load habit %s: %w", row.ID, err)
		}
		habits = append(habits, habit)
	}
	return habits, nil
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `DELETE FROM habits WHERE id = $1`, id)
	return err
}

func (r *PostgresHabitRepository) completions(ctx context.Context, exec database.Executor, query string, args ...any) (map[uuid.UUID][]domain.Date, error) {
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Date)
	for rows.Next() {
		var (
			habitID     uuid.UUID
			completedOn time.Time
		)
		if err := rows.Scan(&habitID, &completedOn); err != nil {
			return nil, err
		}
		out[habitID] = append(out[habitID], domain.DateOf(completedOn))
	}
	return out, rows.Err()
}

func scanPostgresHabit(row database.Row) (habitRow, error) {
	var h habitRow
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Frequency, &h.Days, &h.CompletionCount, &h.CreatedAt, &h.UpdatedAt, &h.Version)
	if err != nil {
		return habitRow{}, err
	}
	if len(h.Days) == 0 {
		h.Days = nil
	}
	return h, nil
}
