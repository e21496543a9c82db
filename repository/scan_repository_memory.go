package repository

import (
	"context"
	"sync"

	"tvm-agent/domain"
)

// ScanRepositoryMemory is an in-memory implementation of ScanRepository.
type ScanRepositoryMemory struct {
	mu   sync.RWMutex
	data []domain.ScanRecord
}

// NewScanRepositoryMemory creates a new in-memory scan repository.
func NewScanRepositoryMemory() *ScanRepositoryMemory {
	return &ScanRepositoryMemory{
		data: []domain.ScanRecord{},
	}
}

// Save stores the scan record in memory.
func (r *ScanRepositoryMemory) Save(
	ctx context.Context,
	record domain.ScanRecord,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = append(r.data, record)
	return nil
}

func (r *ScanRepositoryMemory) List(
	ctx context.Context,
	limit int,
) ([]domain.ScanRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.data)
	if limit > 0 && limit < n {
		n = limit
	}

	records := make([]domain.ScanRecord, 0, n)
	for i := len(r.data) - 1; i >= 0 && len(records) < n; i-- {
		records = append(records, r.data[i])
	}
	return records, nil
}
