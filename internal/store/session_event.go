package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	return r.appendEvent(ctx, "session",
		`INSERT INTO session_events (sequence, timestamp, session_id, user_id, action, stage, question_index)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.UserID, data.Action, data.Stage, data.QuestionIndex,
	)
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	return r.appendEvent(ctx, "answer",
		`INSERT INTO answer_events (sequence, timestamp, session_id, user_id, stage, question_index, topic_id, weight)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.UserID, data.Stage, data.QuestionIndex, data.TopicID, data.Weight,
	)
}

func (r *eventRepo) AppendResultEvent(ctx context.Context, data ResultEventData) error {
	ranking, err := json.Marshal(nonNil(data.Ranking))
	if err != nil {
		return fmt.Errorf("marshal ranking: %w", err)
	}
	narrowed, err := json.Marshal(nonNil(data.Narrowed))
	if err != nil {
		return fmt.Errorf("marshal narrowed: %w", err)
	}

	return r.appendEvent(ctx, "result",
		`INSERT INTO result_events (sequence, timestamp, session_id, user_id, ranking, narrowed, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.UserID, string(ranking), string(narrowed), data.DurationSecs,
	)
}

func (r *eventRepo) QueryResults(ctx context.Context, opts QueryOpts) ([]ResultEvent, error) {
	where, args := opts.where()
	q := `SELECT id, sequence, timestamp, session_id, user_id, ranking, narrowed, duration_secs
		FROM result_events` + where + ` ORDER BY sequence DESC` + opts.limit()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ResultEvent
	for rows.Next() {
		var (
			e                 ResultEvent
			ts                string
			ranking, narrowed string
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &e.UserID, &ranking, &narrowed, &e.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		if err := json.Unmarshal([]byte(ranking), &e.Ranking); err != nil {
			return nil, fmt.Errorf("decode ranking of result %d: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(narrowed), &e.Narrowed); err != nil {
			return nil, fmt.Errorf("decode narrowed of result %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) TopicFrequency(ctx context.Context) ([]TopicCount, error) {
	results, err := r.QueryResults(ctx, QueryOpts{})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, res := range results {
		for _, t := range res.Ranking {
			counts[t.Name]++
		}
	}

	out := make([]TopicCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, TopicCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *eventRepo) CountSessions(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM session_events WHERE action IN (?, ?)`,
		ActionStart, ActionRestart,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func (r *eventRepo) DeleteUser(ctx context.Context, userID int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var total int64
	for _, table := range []string{"session_events", "answer_events", "result_events"} {
		res, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = ?`, userID)
		if err != nil {
			return 0, fmt.Errorf("delete from %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return total, nil
}

func (o QueryOpts) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if o.UserID != 0 {
		clauses = append(clauses, "user_id = ?")
		args = append(args, o.UserID)
	}
	if !o.From.IsZero() {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, o.From.UTC().Format(time.RFC3339Nano))
	}
	if !o.To.IsZero() {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, o.To.UTC().Format(time.RFC3339Nano))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (o QueryOpts) limit() string {
	if o.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", o.Limit)
}

func nonNil(ts []RankedTopic) []RankedTopic {
	if ts == nil {
		return []RankedTopic{}
	}
	return ts
}
