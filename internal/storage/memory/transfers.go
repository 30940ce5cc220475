package memory

import (
	"context"

	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
	"github.com/carson-networks/church-finance/internal/storage/transfer"
)

type transferTable struct{ view }

func (t transferTable) Find(_ context.Context, key string) (*transfer.Request, error) {
	var out *transfer.Request
	t.read(func(s *state) {
		if r, ok := s.transfers[key]; ok {
			out = &r
		}
	})
	if out == nil {
		return nil, sqlconfig.ErrNotFound
	}
	return out, nil
}

func (t transferTable) Claim(_ context.Context, req *transfer.Request) (bool, error) {
	if _, ok := t.tx.transfers[req.IdempotencyKey]; ok {
		return false, nil
	}
	r := *req
	r.CreatedAt = t.now()
	t.tx.transfers[r.IdempotencyKey] = r
	return true, nil
}
