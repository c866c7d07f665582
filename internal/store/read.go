package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a rule ID is not in the catalog.
var ErrNotFound = errors.New("rule not found")

const selectRuleColumns = `
	SELECT id, name, package, arity, compilation_id, seq, items, rendered, ir_version, compiler_version
	FROM rules
`

// ReadRule returns the record stored under id.
// Returns ErrNotFound (wrapped) if no such rule exists.
func (s *Store) ReadRule(ctx context.Context, id string) (RuleRecord, error) {
	row := s.db.QueryRowContext(ctx, selectRuleColumns+`WHERE id = ?`, id)

	rec, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RuleRecord{}, fmt.Errorf("read rule %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return RuleRecord{}, fmt.Errorf("read rule %s: %w", id, err)
	}
	return rec, nil
}

// ListRules returns the catalog's rules, restricted to pkg unless it is empty.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if no rules match.
func (s *Store) ListRules(ctx context.Context, pkg string) ([]RuleRecord, error) {
	query := selectRuleColumns
	var args []any
	if pkg != "" {
		query += `WHERE package = ?
`
		args = append(args, pkg)
	}
	query += `ORDER BY seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	records := []RuleRecord{}
	for rows.Next() {
		rec, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}

	return records, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRule(sc scanner) (RuleRecord, error) {
	var rec RuleRecord
	err := sc.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Package,
		&rec.Arity,
		&rec.CompilationID,
		&rec.Seq,
		&rec.Items,
		&rec.Rendered,
		&rec.IRVersion,
		&rec.CompilerVersion,
	)
	return rec, err
}
