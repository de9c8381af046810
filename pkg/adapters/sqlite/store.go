// Package sqlite provides a transactional ports.GraphStore backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/formroute/formroute/internal/remap"
	"github.com/formroute/formroute/pkg/domain"
)

// Store is a GraphStore backed by SQLite.
//
// It expects an *sql.DB using a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing the
// driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type Store struct {
	db *sql.DB
}

// NewStore initializes the required schema in the given database and
// returns a new Store.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS forms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			secure_mode INTEGER NOT NULL DEFAULT 0,
			default_redirect TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			form_id INTEGER NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			final_screen INTEGER NOT NULL DEFAULT 0,
			required INTEGER NOT NULL DEFAULT 0,
			payload TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_questions_form ON questions(form_id);
		CREATE TABLE IF NOT EXISTS conditions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question_id INTEGER NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			cond_type TEXT NOT NULL,
			cond_value TEXT NOT NULL DEFAULT '',
			action_type TEXT NOT NULL,
			action_value TEXT NOT NULL DEFAULT '',
			amount INTEGER NOT NULL DEFAULT 0,
			comparison_value TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_conditions_question ON conditions(question_id);
		CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			form_id INTEGER NOT NULL,
			session_id TEXT NOT NULL,
			answers BLOB,
			variables BLOB,
			created_at TIMESTAMP NOT NULL
		);`,
	)
	return err
}

// CreateForm inserts the form metadata row and persists its initial
// question set, returning the new form id.
func (s *Store) CreateForm(ctx context.Context, graph *domain.FormGraph) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO forms (title, secure_mode, default_redirect)
		VALUES (?, ?, ?)`,
		graph.Title, boolToInt(graph.SecureMode), graph.DefaultRedirect,
	)
	if err != nil {
		return 0, fmt.Errorf("insert form: %w", err)
	}
	id64, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	formID := int(id64)

	if len(graph.Questions) > 0 {
		if err := s.SaveGraph(ctx, formID, graph.Questions); err != nil {
			return 0, err
		}
	}
	return formID, nil
}

// LoadGraph retrieves the full graph snapshot for a form.
func (s *Store) LoadGraph(ctx context.Context, formID int) (*domain.FormGraph, error) {
	graph := &domain.FormGraph{ID: formID}

	var secure int
	err := s.db.QueryRowContext(ctx, `
		SELECT title, secure_mode, default_redirect FROM forms WHERE id = ?`, formID,
	).Scan(&graph.Title, &secure, &graph.DefaultRedirect)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFormNotFound
	}
	if err != nil {
		return nil, err
	}
	graph.SecureMode = secure != 0

	questions, err := loadQuestions(ctx, s.db, formID)
	if err != nil {
		return nil, err
	}

	for i := range questions {
		conds, err := s.LoadConditions(ctx, questions[i].ID)
		if err != nil {
			return nil, err
		}
		questions[i].Conditions = conds
	}

	graph.Questions = questions
	return graph, nil
}

// querier covers both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadQuestions(ctx context.Context, db querier, formID int) ([]domain.Question, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, position, final_screen, required, payload
		FROM questions WHERE form_id = ?
		ORDER BY position ASC, id ASC`, formID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var q domain.Question
		var final, required int
		if err := rows.Scan(&q.ID, &q.Position, &final, &required, &q.Payload); err != nil {
			return nil, err
		}
		q.FinalScreen = final != 0
		q.Required = required != 0
		out = append(out, q)
	}
	return out, rows.Err()
}

// LoadConditions returns the stored rules for one question ordered by
// position, ties broken by insertion order.
func (s *Store) LoadConditions(ctx context.Context, questionID int) ([]domain.Condition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question_id, position, cond_type, cond_value, action_type, action_value, amount, comparison_value
		FROM conditions WHERE question_id = ?
		ORDER BY position ASC, id ASC`, questionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Condition
	for rows.Next() {
		var c domain.Condition
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Position, &c.Type, &c.Value, &c.Action, &c.ActionValue, &c.Amount, &c.ComparisonValue); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SaveGraph reconciles the incoming question set against stored state in
// one transaction: updates matched nodes, inserts new ones, rewrites
// goto targets that referenced temporary ids, replaces each node's
// condition list, and removes orphans. Any failure rolls the whole
// transaction back; a partial graph is never visible.
func (s *Store) SaveGraph(ctx context.Context, formID int, incoming []domain.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM forms WHERE id = ?`, formID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return domain.ErrFormNotFound
	}

	existing, err := loadQuestions(ctx, tx, formID)
	if err != nil {
		return fmt.Errorf("load existing questions: %w", err)
	}

	plan := remap.Build(existing, incoming)

	saved := make([]domain.Question, 0, len(incoming))

	for _, q := range plan.Updates {
		_, err := tx.ExecContext(ctx, `
			UPDATE questions SET position = ?, final_screen = ?, required = ?, payload = ?
			WHERE id = ? AND form_id = ?`,
			q.Position, boolToInt(q.FinalScreen), boolToInt(q.Required), q.Payload, q.ID, formID,
		)
		if err != nil {
			return fmt.Errorf("update question %d: %w", q.ID, err)
		}
		saved = append(saved, q)
	}

	for _, q := range plan.Inserts {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO questions (form_id, position, final_screen, required, payload)
			VALUES (?, ?, ?, ?, ?)`,
			formID, q.Position, boolToInt(q.FinalScreen), boolToInt(q.Required), q.Payload,
		)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
		id64, err := res.LastInsertId()
		if err != nil {
			return err
		}
		q.ID = int(id64)
		plan.Assign(q.TempID, q.ID)
		saved = append(saved, q)
	}

	// All real ids are known now; rewrite and persist conditions.
	for _, q := range saved {
		conds := plan.Rewrite(q.Conditions)

		if _, err := tx.ExecContext(ctx, `DELETE FROM conditions WHERE question_id = ?`, q.ID); err != nil {
			return fmt.Errorf("clear conditions for question %d: %w", q.ID, err)
		}

		for _, c := range conds {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO conditions (question_id, position, cond_type, cond_value, action_type, action_value, amount, comparison_value)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				q.ID, c.Position, string(c.Type), c.Value, string(c.Action), c.ActionValue, c.Amount, c.ComparisonValue,
			)
			if err != nil {
				return fmt.Errorf("insert condition for question %d: %w", q.ID, err)
			}
		}

		// Stored rule count must equal the incoming rule count; a
		// mismatch is a correctness violation, not a warning.
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM conditions WHERE question_id = ?`, q.ID).Scan(&count); err != nil {
			return err
		}
		if count != len(conds) {
			return fmt.Errorf("question %d: stored %d of %d rules: %w", q.ID, count, len(conds), domain.ErrConditionCountMismatch)
		}
	}

	for _, id := range plan.Deletes {
		if _, err := tx.ExecContext(ctx, `DELETE FROM conditions WHERE question_id = ?`, id); err != nil {
			return fmt.Errorf("delete conditions of question %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id = ? AND form_id = ?`, id, formID); err != nil {
			return fmt.Errorf("delete question %d: %w", id, err)
		}
	}

	return tx.Commit()
}

// SaveSubmission records a completed session's answers and variables.
func (s *Store) SaveSubmission(ctx context.Context, sub *domain.Submission) error {
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return err
	}
	vars, err := json.Marshal(sub.Variables)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, form_id, session_id, answers, variables, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.FormID, sub.SessionID, answers, vars, sub.CreatedAt,
	)
	return err
}

// LoadSubmission retrieves a stored submission by id.
func (s *Store) LoadSubmission(ctx context.Context, id string) (*domain.Submission, error) {
	var sub domain.Submission
	var answers, vars []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, form_id, session_id, answers, variables, created_at
		FROM submissions WHERE id = ?`, id,
	).Scan(&sub.ID, &sub.FormID, &sub.SessionID, &answers, &vars, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answers, &sub.Answers); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(vars, &sub.Variables); err != nil {
		return nil, err
	}
	return &sub, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
