package database

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"lineage-workers/internal/common/errors"
	"lineage-workers/internal/common/metrics"
	"lineage-workers/internal/lineage/tree"
)

const memberColumns = "id, first_name, full_name_en, gender, father_id, generation, branch, status"

// MemberSource supplies the member population for one request.
type MemberSource interface {
	LoadMembers(ctx context.Context) ([]tree.FamilyMember, error)
}

// MemberSnapshotLoader reads the whole members table. Each call issues a
// fresh query; results are never kept between calls.
type MemberSnapshotLoader struct {
	db      *sql.DB
	query   string
	timeout time.Duration
}

func NewMemberSnapshotLoader(db *sql.DB, table string, timeout time.Duration) *MemberSnapshotLoader {
	return &MemberSnapshotLoader{
		db:      db,
		query:   fmt.Sprintf("SELECT %s FROM %s ORDER BY generation, id", memberColumns, pq.QuoteIdentifier(table)),
		timeout: timeout,
	}
}

func (l *MemberSnapshotLoader) LoadMembers(ctx context.Context) ([]tree.FamilyMember, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := l.db.QueryContext(ctx, l.query)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer rows.Close()

	var members []tree.FamilyMember
	for rows.Next() {
		var (
			m                                    tree.FamilyMember
			gender                               string
			fullNameEn, fatherID, branch, status sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.FirstName, &fullNameEn, &gender, &fatherID, &m.Generation, &branch, &status); err != nil {
			return nil, errors.NewMemberSnapshotFailedError(fmt.Errorf("scan member: %w", err))
		}
		m.Gender = tree.Gender(gender)
		m.FullNameEn = fullNameEn.String
		m.FatherID = fatherID.String
		m.Branch = branch.String
		m.Status = tree.Status(status.String)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(ctx, err)
	}

	metrics.ObserveSnapshot(len(members), time.Since(start))
	return members, nil
}

// ResolveMembers returns supplied when the job carried its own population
// (an empty, non-nil slice counts) and a fresh snapshot from src otherwise.
func ResolveMembers(ctx context.Context, supplied []tree.FamilyMember, src MemberSource) ([]tree.FamilyMember, error) {
	if supplied != nil {
		return supplied, nil
	}
	if src == nil {
		return nil, errors.NewMemberSnapshotFailedError(stderrors.New("no member source configured"))
	}
	return src.LoadMembers(ctx)
}

func classify(ctx context.Context, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError("load_members")
	}
	return errors.NewMemberSnapshotFailedError(err)
}
