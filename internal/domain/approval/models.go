package approval

import "time"

// Record is the approval view of a submitted evaluation: its state plus the
// signature stamps. Core scores never appear here; only these fields mutate
// after submission.
type Record struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employeeId"`
	EvaluatorID string `json:"evaluatorId"`
	Status      string `json:"status"`

	EmployeeSignature     string     `json:"employeeSignature,omitempty"`
	EmployeeSignatureDate *time.Time `json:"employeeSignatureDate,omitempty"`
	EmployeeApprovedAt    *time.Time `json:"employeeApprovedAt,omitempty"`
	EmployeeApprovedBy    string     `json:"employeeApprovedBy,omitempty"`

	EvaluatorSignature     string     `json:"evaluatorSignature,omitempty"`
	EvaluatorSignatureDate *time.Time `json:"evaluatorSignatureDate,omitempty"`
	EvaluatorApprovedAt    *time.Time `json:"evaluatorApprovedAt,omitempty"`
	EvaluatorApprovedBy    string     `json:"evaluatorApprovedBy,omitempty"`

	RejectedBy   string     `json:"rejectedBy,omitempty"`
	RejectedAt   *time.Time `json:"rejectedAt,omitempty"`
	RejectReason string     `json:"rejectReason,omitempty"`

	LastModified time.Time `json:"lastModified"`
}

// Signature is the payload of an approval action. Artifact is an opaque
// reference to an externally captured signature image.
type Signature struct {
	Artifact  string `json:"artifact,omitempty"`
	ActorName string `json:"actorName"`
	ActorMail string `json:"actorEmail"`
	Comments  string `json:"comments,omitempty"`
}

// HistoryEntry is one immutable audit line of the approval log. The log is
// append-only and ordered by timestamp; repeated transitions append repeated
// entries.
type HistoryEntry struct {
	ID           string    `json:"id"`
	EvaluationID string    `json:"evaluationId"`
	Action       string    `json:"action"`
	ActorName    string    `json:"actorName"`
	ActorMail    string    `json:"actorEmail,omitempty"`
	Comments     string    `json:"comments,omitempty"`
	SignatureRef string    `json:"signatureRef,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
