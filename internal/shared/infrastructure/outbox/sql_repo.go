package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// timeLayout is fixed width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const selectColumns = `id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
       payload, metadata, created_at, published_at, next_retry_at, retry_count,
       last_error, dead_lettered_at, dead_letter_reason`

// SQLRepository implements Repository on SQLite and PostgreSQL.
type SQLRepository struct {
	conn database.Connection
	now  func() time.Time
}

// NewSQLRepository creates a new outbox repository.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn, now: time.Now}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func (r *SQLRepository) Save(ctx context.Context, msg *Message) error {
	return r.insert(ctx, database.ExecutorFromContext(ctx, r.conn), msg)
}

func (r *SQLRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return database.InTx(ctx, r.conn, func(ctx context.Context, exec database.Executor) error {
		for _, msg := range msgs {
			if err := r.insert(ctx, exec, msg); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLRepository) insert(ctx context.Context, exec database.Executor, msg *Message) error {
	var metadata any
	if len(msg.Metadata) > 0 {
		metadata = string(msg.Metadata)
	}
	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}

	err := exec.QueryRow(ctx, `
		INSERT INTO outbox (
			event_id, aggregate_type, aggregate_id, event_type, routing_key,
			payload, metadata, created_at, next_retry_at, dead_lettered_at, dead_letter_reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		msg.EventID.String(),
		msg.AggregateType,
		msg.AggregateID.String(),
		msg.EventType,
		msg.RoutingKey,
		string(msg.Payload),
		metadata,
		formatTime(createdAt),
		nullTime(msg.NextRetryAt),
		nullTime(msg.DeadLetteredAt),
		nullString(msg.DeadLetterReason),
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("insert outbox message %s: %w", msg.EventID, err)
	}
	return nil
}

func (r *SQLRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	return r.query(ctx, `
		SELECT `+selectColumns+`
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`,
		formatTime(r.now()), limit)
}

func (r *SQLRepository) GetFailed(ctx context.Context, maxRetries, limit int) ([]*Message, error) {
	return r.query(ctx, `
		SELECT `+selectColumns+`
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND retry_count > 0
		  AND retry_count < ?
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`,
		maxRetries, formatTime(r.now()), limit)
}

func (r *SQLRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`UPDATE outbox SET published_at = ?, dead_lettered_at = NULL WHERE id = ?`,
		formatTime(r.now()), id)
	return err
}

func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		UPDATE outbox
		SET retry_count = retry_count + 1,
		    last_error = ?,
		    next_retry_at = ?
		WHERE id = ?`,
		errMsg, formatTime(nextRetryAt), id)
	return err
}

func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		UPDATE outbox
		SET dead_lettered_at = ?,
		    dead_letter_reason = ?
		WHERE id = ?`,
		formatTime(r.now()), reason, id)
	return err
}

func (r *SQLRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := r.now().AddDate(0, 0, -olderThanDays)
	result, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`,
		formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *SQLRepository) query(ctx context.Context, query string, args ...any) ([]*Message, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func scanMessage(rows database.Rows) (*Message, error) {
	var (
		msg                                     Message
		eventID, aggregateID, payload, created  string
		metadata, published, nextRetry, lastErr sql.NullString
		deadAt, deadReason                      sql.NullString
	)
	err := rows.Scan(
		&msg.ID, &eventID, &msg.AggregateType, &aggregateID, &msg.EventType, &msg.RoutingKey,
		&payload, &metadata, &created, &published, &nextRetry, &msg.RetryCount,
		&lastErr, &deadAt, &deadReason,
	)
	if err != nil {
		return nil, err
	}

	if msg.EventID, err = uuid.Parse(eventID); err != nil {
		return nil, fmt.Errorf("outbox message %d: event id: %w", msg.ID, err)
	}
	if msg.AggregateID, err = uuid.Parse(aggregateID); err != nil {
		return nil, fmt.Errorf("outbox message %d: aggregate id: %w", msg.ID, err)
	}
	if msg.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("outbox message %d: created_at: %w", msg.ID, err)
	}
	msg.Payload = []byte(payload)
	if metadata.Valid {
		msg.Metadata = []byte(metadata.String)
	}
	msg.PublishedAt = parseNullTime(published)
	msg.NextRetryAt = parseNullTime(nextRetry)
	msg.DeadLetteredAt = parseNullTime(deadAt)
	if lastErr.Valid {
		msg.LastError = &lastErr.String
	}
	if deadReason.Valid {
		msg.DeadLetterReason = &deadReason.String
	}
	return &msg, nil
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}
