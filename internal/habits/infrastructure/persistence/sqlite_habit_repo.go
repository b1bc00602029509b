package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// sqliteTimeLayout is fixed width so created_at sorts as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteHabitRepository implements domain.Repository using SQLite.
type SQLiteHabitRepository struct {
	conn database.Connection
}

func NewSQLiteHabitRepository(conn database.Connection) *SQLiteHabitRepository {
	return &SQLiteHabitRepository{conn: conn}
}

// Save upserts the habit row and rewrites its completion record. The update
// only applies while the stored version still equals habit.Version().
func (r *SQLiteHabitRepository) Save(ctx context.Context, habit *domain.Habit) error {
	kind, days := frequencyColumns(habit.Frequency())
	id := habit.ID().String()

	err := database.InTx(ctx, r.conn, func(ctx context.Context, exec database.Executor) error {
		result, err := exec.Exec(ctx, `
			INSERT INTO habits (id, user_id, name, frequency, frequency_days, completion_count, created_at, updated_at, version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				frequency = excluded.frequency,
				frequency_days = excluded.frequency_days,
				completion_count = excluded.completion_count,
				updated_at = excluded.updated_at,
				version = excluded.version
			WHERE habits.version = ?`,
			id,
			habit.UserID().String(),
			habit.Name(),
			kind,
			strings.Join(days, ","),
			habit.CompletionCount(),
			habit.CreatedAt().UTC().Format(sqliteTimeLayout),
			habit.UpdatedAt().UTC().Format(sqliteTimeLayout),
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

		if _, err := exec.Exec(ctx, `DELETE FROM habit_completions WHERE habit_id = ?`, id); err != nil {
			return fmt.Errorf("clear completions of habit %s: %w", id, err)
		}
		for i, d := range habit.CompletionRecord() {
			_, err := exec.Exec(ctx,
				`INSERT INTO habit_completions (habit_id, completed_on, position) VALUES (?, ?, ?)`,
				id, d.String(), i)
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

func (r *SQLiteHabitRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	row, err := scanSQLiteHabit(exec.QueryRow(ctx, `
		SELECT id, user_id, name, frequency, frequency_days, completion_count, created_at, updated_at, version
		FROM habits WHERE id = ?`, id.String()))
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	records, err := r.completions(ctx, exec, `
		SELECT habit_id, completed_on FROM habit_completions
		WHERE habit_id = ? ORDER BY position`, id.String())
	if err != nil {
		return nil, err
	}
	return row.toDomain(records[row.ID])
}

func (r *SQLiteHabitRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	rows, err := exec.Query(ctx, `
		SELECT id, user_id, name, frequency, frequency_days, completion_count, created_at, updated_at, version
		FROM habits WHERE user_id = ? ORDER BY created_at, id`, userID.String())
	if err != nil {
		return nil, err
	}
	// Rows are drained before the completions query: the pool holds a
	// single connection.
	var habitRows []habitRow
	for rows.Next() {
		row, err := scanSQLiteHabit(rows)
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
		WHERE h.user_id = ? ORDER BY c.habit_id, c.position`, userID.String())
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

func (r *SQLiteHabitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Completions go with the habit via ON DELETE CASCADE.
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`DELETE FROM habits WHERE id = ?`, id.String())
	return err
}

func (r *SQLiteHabitRepository) completions(ctx context.Context, exec database.Executor, query string, args ...any) (map[uuid.UUID][]domain.Date, error) {
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Date)
	for rows.Next() {
		var habitID, completedOn string
		if err := rows.Scan(&habitID, &completedOn); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(habitID)
		if err != nil {
			return nil, err
		}
		d, err := domain.ParseDate(completedOn)
		if err != nil {
			return nil, fmt.Errorf("habit %s: %w", habitID, err)
		}
		out[id] = append(out[id], d)
	}
	return out, rows.Err()
}

func scanSQLiteHabit(row database.Row) (habitRow, error) {
	var (
		h                    habitRow
		id, userID, days     string
		createdAt, updatedAt string
	)
	err := row.Scan(&id, &userID, &h.Name, &h.Frequency, &days, &h.CompletionCount, &createdAt, &updatedAt, &h.Version)
	if err != nil {
		return habitRow{}, err
	}

	if h.ID, err = uuid.Parse(id); err != nil {
		return habitRow{}, err
	}
	if h.UserID, err = uuid.Parse(userID); err != nil {
		return habitRow{}, err
	}
	if days != "" {
		h.Days = strings.Split(days, ",")
	}
	if h.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return habitRow{}, err
	}
	if h.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt); err != nil {
		return habitRow{}, err
	}
	return h, nil
}
