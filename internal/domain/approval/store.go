package approval

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetRecord(ctx context.Context, evaluationID string) (Record, error) {
	var record Record
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, evaluator_id, status,
           COALESCE(employee_signature, ''), employee_signature_date, employee_approved_at, COALESCE(employee_approved_by, ''),
           COALESCE(evaluator_signature, ''), evaluator_signature_date, evaluator_approved_at, COALESCE(evaluator_approved_by, ''),
           COALESCE(rejected_by, ''), rejected_at, COALESCE(reject_reason, ''),
           updated_at
    FROM evaluations
    WHERE id = $1 AND status <> 'draft'
  `, evaluationID).Scan(
		&record.ID, &record.EmployeeID, &record.EvaluatorID, &record.Status,
		&record.EmployeeSignature, &record.EmployeeSignatureDate, &record.EmployeeApprovedAt, &record.EmployeeApprovedBy,
		&record.EvaluatorSignature, &record.EvaluatorSignatureDate, &record.EvaluatorApprovedAt, &record.EvaluatorApprovedBy,
		&record.RejectedBy, &record.RejectedAt, &record.RejectReason,
		&record.LastModified,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return record, nil
}

func (s *Store) UpdateRecord(ctx context.Context, record Record, expectedStatus string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluations
    SET status = $1,
        employee_signature = NULLIF($2, ''),
        employee_signature_date = $3,
        employee_approved_at = $4,
        employee_approved_by = NULLIF($5, ''),
        evaluator_signature = NULLIF($6, ''),
        evaluator_signature_date = $7,
        evaluator_approved_at = $8,
        evaluator_approved_by = NULLIF($9, ''),
        rejected_by = NULLIF($10, ''),
        rejected_at = $11,
        reject_reason = NULLIF($12, ''),
        updated_at = $13
    WHERE id = $14 AND status = $15
  `,
		record.Status,
		record.EmployeeSignature, record.EmployeeSignatureDate, record.EmployeeApprovedAt, record.EmployeeApprovedBy,
		record.EvaluatorSignature, record.EvaluatorSignatureDate, record.EvaluatorApprovedAt, record.EvaluatorApprovedBy,
		record.RejectedBy, record.RejectedAt, record.RejectReason,
		record.LastModified,
		record.ID, expectedStatus,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (s *Store) AppendHistory(ctx context.Context, entry HistoryEntry) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO approval_history (id, evaluation_id, action, actor_name, actor_email, comments, signature_ref, created_at)
    VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8)
  `, entry.ID, entry.EvaluationID, entry.Action, entry.ActorName, entry.ActorMail, entry.Comments, entry.SignatureRef, entry.CreatedAt)
	return err
}

func (s *Store) ListHistory(ctx context.Context, evaluationID string) ([]HistoryEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, evaluation_id, action, actor_name, COALESCE(actor_email, ''), COALESCE(comments, ''), COALESCE(signature_ref, ''), created_at
    FROM approval_history
    WHERE evaluation_id = $1
    ORDER BY created_at, id
  `, evaluationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		if err := rows.Scan(&entry.ID, &entry.EvaluationID, &entry.Action, &entry.ActorName, &entry.ActorMail, &entry.Comments, &entry.SignatureRef, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
