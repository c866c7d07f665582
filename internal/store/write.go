package store

import (
	"context"
	"fmt"
)

// WriteRule inserts a rule record into the catalog.
// Uses ON CONFLICT DO NOTHING for idempotency: a rule already recorded
// under the same ID keeps its original compilation ID and seq.
//
// Returns true if the record was inserted, false if it already existed.
func (s *Store) WriteRule(ctx context.Context, rec RuleRecord) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO rules
		(id, name, package, arity, compilation_id, seq, items, rendered, ir_version, compiler_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		rec.ID,
		rec.Name,
		rec.Package,
		rec.Arity,
		rec.CompilationID,
		rec.Seq,
		rec.Items,
		rec.Rendered,
		rec.IRVersion,
		rec.CompilerVersion,
	)
	if err != nil {
		return false, fmt.Errorf("write rule: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write rule: %w", err)
	}
	return n == 1, nil
}
