package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Summary struct {
	Total           int            `json:"total"`
	Drafts          int            `json:"drafts"`
	InApproval      int            `json:"inApproval"`
	FullyApproved   int            `json:"fullyApproved"`
	Rejected        int            `json:"rejected"`
	VerdictCounts   map[string]int `json:"verdictCounts"`
	AverageOverall  float64        `json:"averageOverall"`
	AveragePercent  float64        `json:"averagePercent"`
	SubmittedThisYr int            `json:"submittedThisYear"`
}

type Service struct {
	DB *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

// EvaluationSummary aggregates workflow and verdict counts across every
// evaluation record.
func (s *Service) EvaluationSummary(ctx context.Context) (Summary, error) {
	summary := Summary{VerdictCounts: map[string]int{}}

	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
           COUNT(1) FILTER (WHERE status = 'draft'),
           COUNT(1) FILTER (WHERE status IN ('pending', 'employee_approved', 'evaluator_approved')),
           COUNT(1) FILTER (WHERE status = 'fully_approved'),
           COUNT(1) FILTER (WHERE status = 'rejected'),
           COALESCE(AVG(overall_score) FILTER (WHERE status <> 'draft'), 0),
           COALESCE(AVG(percentage) FILTER (WHERE status <> 'draft'), 0),
           COUNT(1) FILTER (WHERE submitted_at >= date_trunc('year', now()))
    FROM evaluations
  `).Scan(&summary.Total, &summary.Drafts, &summary.InApproval, &summary.FullyApproved,
		&summary.Rejected, &summary.AverageOverall, &summary.AveragePercent, &summary.SubmittedThisYr)
	if err != nil {
		return Summary{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT verdict, COUNT(1)
    FROM evaluations
    WHERE verdict IS NOT NULL
    GROUP BY verdict
  `)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var verdict string
		var count int
		if err := rows.Scan(&verdict, &count); err != nil {
			return Summary{}, err
		}
		summary.VerdictCounts[verdict] = count
	}
	return summary, rows.Err()
}
