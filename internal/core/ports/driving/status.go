package driving

import (
	"context"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// StatusService runs the end-to-end system checks behind `novelrag doctor`.
type StatusService interface {
	// Check runs every check in order and returns the report.
	Check(ctx context.Context) *domain.StatusReport
}
