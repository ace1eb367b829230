package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/brandadmin/internal/core"
)

// BulkPolicy decides what happens to the rest of a bulk id list when one id
// fails.
type BulkPolicy string

const (
	// BulkAtomic runs the whole list in one transaction; any failure rolls
	// every id back.
	BulkAtomic BulkPolicy = "atomic"
	// BulkBestEffort commits each id on its own; failures are collected and
	// reported together after the loop.
	BulkBestEffort BulkPolicy = "best_effort"
)

// ParseBulkPolicy validates a configured policy name.
func ParseBulkPolicy(s string) (BulkPolicy, error) {
	switch BulkPolicy(s) {
	case BulkAtomic, BulkBestEffort:
		return BulkPolicy(s), nil
	case "":
		return BulkAtomic, nil
	}
	return "", fmt.Errorf("unknown bulk policy %q", s)
}

// runBulk applies each to every id in order, duplicates included, and
// returns the ids whose changes were committed. Any failure is reported as a
// single error of the given kind and bulk code.
func (s *Store) runBulk(ctx context.Context, ids []int, kind core.Kind, code int, each func(ctx context.Context, tx pgx.Tx, id int) error) ([]int, error) {
	if s.policy == BulkBestEffort {
		var (
			done []int
			errs []error
		)
		for _, id := range ids {
			err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
				return each(ctx, tx, id)
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("id %d: %w", id, err))
				continue
			}
			done = append(done, id)
		}
		if len(errs) > 0 {
			return done, core.WrapError(kind, code, errors.Join(errs...))
		}
		return done, nil
	}

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for _, id := range ids {
			if err := each(ctx, tx, id); err != nil {
				return fmt.Errorf("id %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, core.WrapError(kind, code, err)
	}
	return ids, nil
}
