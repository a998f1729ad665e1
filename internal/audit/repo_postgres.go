package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo persists activity log entries in the activity_logs table.
// INSERT and SELECT only; the table carries no UPDATE/DELETE paths.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const insertEntryQuery = `
INSERT INTO activity_logs (id, complaint_id, user_id, action, detail, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`

func (r *PostgresRepo) Append(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx, insertEntryQuery,
		e.ID,
		e.ComplaintID,
		e.UserID,
		e.Action,
		e.Detail,
		e.CreatedAt,
	)
	return err
}

// AppendTx appends inside an existing transaction. The workflow engine uses
// this so the entry commits atomically with the complaint mutation.
func AppendTx(ctx context.Context, tx *sql.Tx, e Entry) error {
	_, err := tx.ExecContext(ctx, insertEntryQuery,
		e.ID,
		e.ComplaintID,
		e.UserID,
		e.Action,
		e.Detail,
		e.CreatedAt,
	)
	return err
}

func (r *PostgresRepo) ListByComplaint(ctx context.Context, complaintID string) ([]Entry, error) {
	// seq is an insertion-ordered identity column; it breaks created_at ties
	// deterministically where the random uuid in id would not.
	const q = `
SELECT id, complaint_id, user_id, action, detail, created_at
FROM activity_logs
WHERE complaint_id = $1
ORDER BY created_at DESC, seq DESC
`
	rows, err := r.db.QueryContext(ctx, q, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ComplaintID, &e.UserID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
