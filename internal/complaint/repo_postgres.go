package complaint

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"waste-platform/internal/audit"
	"waste-platform/pkg/utils"
)

// PostgresStore persists complaints using database/sql over the pgx stdlib
// driver. Update serializes per complaint via SELECT ... FOR UPDATE and
// commits the mutation together with the activity log entry in one
// transaction.

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{db: db} }

const complaintColumns = `
id, reporter_id, title, description, location_lat, location_lng, address,
status, priority, assigned_worker_id, assigned_at, completed_at, verified_at,
original_evidence_ref, before_evidence_ref, after_evidence_ref,
citizen_feedback, citizen_rating, created_at
`

// One statically defined query per filter variant; the tagged Filter selects
// among them, never string concatenation.
const (
	listAllQuery = `
SELECT ` + complaintColumns + `
FROM complaints
ORDER BY created_at DESC
`
	listByReporterQuery = `
SELECT ` + complaintColumns + `
FROM complaints
WHERE reporter_id = $1
ORDER BY created_at DESC
`
	listByWorkerQuery = `
SELECT ` + complaintColumns + `
FROM complaints
WHERE assigned_worker_id = $1
ORDER BY created_at DESC
`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComplaint(row rowScanner) (Complaint, error) {
	var c Complaint
	var assignedAt, completedAt, verifiedAt sql.NullTime
	var rating sql.NullInt64
	err := row.Scan(
		&c.ID,
		&c.ReporterID,
		&c.Title,
		&c.Description,
		&c.Lat,
		&c.Lng,
		&c.Address,
		&c.Status,
		&c.Priority,
		&c.AssignedWorkerID,
		&assignedAt,
		&completedAt,
		&verifiedAt,
		&c.OriginalEvidenceRef,
		&c.BeforeEvidenceRef,
		&c.AfterEvidenceRef,
		&c.CitizenFeedback,
		&rating,
		&c.CreatedAt,
	)
	if err != nil {
		return Complaint{}, err
	}
	if assignedAt.Valid {
		t := assignedAt.Time
		c.AssignedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		c.CompletedAt = &t
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		c.VerifiedAt = &t
	}
	if rating.Valid {
		n := int(rating.Int64)
		c.CitizenRating = &n
	}
	return c, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func (s *PostgresStore) Create(ctx context.Context, c Complaint, log audit.Entry) error {
	const q = `
INSERT INTO complaints (` + complaintColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
`
	return utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, q,
			c.ID, c.ReporterID, c.Title, c.Description, c.Lat, c.Lng, c.Address,
			c.Status, c.Priority, c.AssignedWorkerID,
			nullTime(c.AssignedAt), nullTime(c.CompletedAt), nullTime(c.VerifiedAt),
			c.OriginalEvidenceRef, c.BeforeEvidenceRef, c.AfterEvidenceRef,
			c.CitizenFeedback, nullInt(c.CitizenRating), c.CreatedAt,
		)
		if err != nil {
			return err
		}
		return audit.AppendTx(ctx, tx, log)
	})
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Complaint, error) {
	const q = `
SELECT ` + complaintColumns + `
FROM complaints
WHERE id = $1
`
	c, err := scanComplaint(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Complaint{}, ErrNotFound
	}
	return c, err
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]Complaint, error) {
	var rows *sql.Rows
	var err error
	switch f.Kind {
	case FilterByReporter:
		rows, err = s.db.QueryContext(ctx, listByReporterQuery, f.SubjectID)
	case FilterByWorker:
		rows, err = s.db.QueryContext(ctx, listByWorkerQuery, f.SubjectID)
	default:
		rows, err = s.db.QueryContext(ctx, listAllQuery)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Complaint, 0)
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func lockComplaint(ctx context.Context, tx *sql.Tx, id string) (Complaint, error) {
	// Lock the row to serialize concurrent transitions on the same complaint.
	const q = `
SELECT ` + complaintColumns + `
FROM complaints
WHERE id = $1
FOR UPDATE
`
	c, err := scanComplaint(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Complaint{}, ErrNotFound
	}
	return c, err
}

func (s *PostgresStore) Update(ctx context.Context, id string, mutate func(*Complaint) error, log func(Complaint) audit.Entry) (Complaint, error) {
	const q = `
UPDATE complaints
SET status = $2, priority = $3, assigned_worker_id = $4, assigned_at = $5,
    completed_at = $6, verified_at = $7, original_evidence_ref = $8,
    before_evidence_ref = $9, after_evidence_ref = $10,
    citizen_feedback = $11, citizen_rating = $12
WHERE id = $1
`
	var out Complaint
	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		c, err := lockComplaint(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := mutate(&c); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, q,
			c.ID, c.Status, c.Priority, c.AssignedWorkerID,
			nullTime(c.AssignedAt), nullTime(c.CompletedAt), nullTime(c.VerifiedAt),
			c.OriginalEvidenceRef, c.BeforeEvidenceRef, c.AfterEvidenceRef,
			c.CitizenFeedback, nullInt(c.CitizenRating),
		); err != nil {
			return err
		}
		if err := audit.AppendTx(ctx, tx, log(c)); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return Complaint{}, err
	}
	return out, nil
}
