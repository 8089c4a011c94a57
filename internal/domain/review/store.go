package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"appraisal/internal/domain/approval"
	"appraisal/internal/domain/scoring"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateEvaluation(ctx context.Context, id string, draft Draft, createdAt time.Time) error {
	scoresJSON, commentsJSON, selectionJSON, err := marshalDraft(draft)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO evaluations (id, employee_id, evaluator_id, period_start, period_end,
                             scores, comments, type_selection, priority_notes, remarks,
                             status, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), $11, $12, $12)
  `, id, draft.EmployeeID, draft.EvaluatorID, draft.PeriodStart, draft.PeriodEnd,
		scoresJSON, commentsJSON, selectionJSON, draft.PriorityNotes, draft.Remarks,
		StatusDraft, createdAt)
	return err
}

func (s *Store) UpdateDraft(ctx context.Context, id string, draft Draft, updatedAt time.Time) error {
	scoresJSON, commentsJSON, selectionJSON, err := marshalDraft(draft)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluations
    SET period_start = $1, period_end = $2, scores = $3, comments = $4,
        type_selection = $5, priority_notes = NULLIF($6, ''), remarks = NULLIF($7, ''),
        updated_at = $8
    WHERE id = $9 AND status = $10
  `, draft.PeriodStart, draft.PeriodEnd, scoresJSON, commentsJSON, selectionJSON,
		draft.PriorityNotes, draft.Remarks, updatedAt, id, StatusDraft)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotDraft
	}
	return nil
}

func (s *Store) GetEvaluation(ctx context.Context, id string) (Evaluation, error) {
	row := s.DB.QueryRow(ctx, selectEvaluation+" WHERE id = $1", id)
	record, err := scanEvaluation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Evaluation{}, ErrNotFound
	}
	return record, err
}

func (s *Store) ListEvaluations(ctx context.Context, filter ListFilter) ([]Evaluation, error) {
	query := selectEvaluation + " WHERE 1=1"
	args := []any{}
	if filter.EmployeeID != "" {
		query += fmt.Sprintf(" AND employee_id = $%d", len(args)+1)
		args = append(args, filter.EmployeeID)
	}
	if filter.EvaluatorID != "" {
		query += fmt.Sprintf(" AND evaluator_id = $%d", len(args)+1)
		args = append(args, filter.EvaluatorID)
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Evaluation
	for rows.Next() {
		record, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *Store) SubmitEvaluation(ctx context.Context, id string, overall, percentage float64, verdict string, submittedAt time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluations
    SET status = $1, overall_score = $2, percentage = $3, verdict = $4,
        submitted_at = $5, updated_at = $5
    WHERE id = $6 AND status = $7
  `, approval.StatePending, overall, percentage, verdict, submittedAt, id, StatusDraft)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotDraft
	}
	return nil
}

func (s *Store) ListSubmittedSelections(ctx context.Context, employeeID string) ([]SubmittedSelection, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT type_selection, submitted_at
    FROM evaluations
    WHERE employee_id = $1 AND status <> $2 AND submitted_at IS NOT NULL
  `, employeeID, StatusDraft)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []SubmittedSelection
	for rows.Next() {
		var selectionJSON []byte
		var record SubmittedSelection
		if err := rows.Scan(&selectionJSON, &record.SubmittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(selectionJSON, &record.Selection); err != nil {
			return nil, err
		}
		history = append(history, record)
	}
	return history, rows.Err()
}

const selectEvaluation = `
    SELECT id, employee_id, evaluator_id, period_start, period_end,
           scores, comments, type_selection, COALESCE(priority_notes, ''), COALESCE(remarks, ''),
           status, COALESCE(overall_score, 0), COALESCE(percentage, 0), COALESCE(verdict, ''),
           submitted_at, created_at, updated_at
    FROM evaluations`

func scanEvaluation(row pgx.Row) (Evaluation, error) {
	var record Evaluation
	var scoresJSON, commentsJSON, selectionJSON []byte
	err := row.Scan(
		&record.ID, &record.EmployeeID, &record.EvaluatorID, &record.PeriodStart, &record.PeriodEnd,
		&scoresJSON, &commentsJSON, &selectionJSON, &record.PriorityNotes, &record.Remarks,
		&record.Status, &record.Overall, &record.Percentage, &record.Verdict,
		&record.SubmittedAt, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return Evaluation{}, err
	}
	if len(scoresJSON) > 0 {
		if err := json.Unmarshal(scoresJSON, &record.Scores); err != nil {
			return Evaluation{}, fmt.Errorf("decode scores: %w", err)
		}
	}
	if record.Scores == nil {
		record.Scores = scoring.ScoreSheet{}
	}
	if len(commentsJSON) > 0 {
		if err := json.Unmarshal(commentsJSON, &record.Comments); err != nil {
			return Evaluation{}, fmt.Errorf("decode comments: %w", err)
		}
	}
	if len(selectionJSON) > 0 {
		if err := json.Unmarshal(selectionJSON, &record.Selection); err != nil {
			return Evaluation{}, fmt.Errorf("decode type selection: %w", err)
		}
	}
	return record, nil
}

func marshalDraft(draft Draft) (scores, comments, selection []byte, err error) {
	if draft.Scores == nil {
		draft.Scores = scoring.ScoreSheet{}
	}
	if scores, err = json.Marshal(draft.Scores); err != nil {
		return nil, nil, nil, err
	}
	if draft.Comments == nil {
		draft.Comments = map[string]string{}
	}
	if comments, err = json.Marshal(draft.Comments); err != nil {
		return nil, nil, nil, err
	}
	if selection, err = json.Marshal(draft.Selection); err != nil {
		return nil, nil, nil, err
	}
	return scores, comments, selection, nil
}
