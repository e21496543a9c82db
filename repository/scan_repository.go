package repository

import (
	"context"

	"tvm-agent/domain"
)

type ScanRepository interface {
	Save(ctx context.Context, record domain.ScanRecord) error
	// List returns the most recent records first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]domain.ScanRecord, error)
}
