package repositories

import (
	"context"

	"github.com/turtacn/patent-litigation-graph/internal/domain/patent"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/database/postgres"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

const holderColumns = `reference_id, grant_doc_number, record_date, patent_holder_id, patent_holder,
	patent_seller, patent_seller_id, litigation, tech_field, filing_year, type_patent_holder,
	patent_quality, patent_value, litigation_risk, country_patent_holder, country_patent_seller`

type postgresHolderRepo struct {
	log      logging.Logger
	executor queryExecutor
}

func NewPostgresHolderRepo(conn *postgres.Connection, log logging.Logger) patent.HolderRepository {
	return &postgresHolderRepo{
		log:      log,
		executor: conn.DB(),
	}
}

func (r *postgresHolderRepo) Create(ctx context.Context, h *patent.PatentHolder) error {
	query := `
		INSERT INTO patent_holders (` + holderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.executor.ExecContext(ctx, query,
		h.ReferenceID, h.GrantDocNumber, h.RecordDate, h.PatentHolderID, h.PatentHolder,
		h.PatentSeller, h.PatentSellerID, h.Litigation, h.TechField, h.FilingYear, h.TypePatentHolder,
		h.PatentQuality, h.PatentValue, h.LitigationRisk, h.CountryPatentHolder, h.CountryPatentSeller,
	)
	if err != nil {
		switch code, _ := pqCode(err); code {
		case pqUniqueViolation:
			return errors.Wrap(err, errors.ErrCodeConflict, "patent holder record already exists").
				WithDetail("reference_id=" + h.ReferenceID)
		case pqCheckViolation:
			return errors.Wrap(err, errors.ErrCodeHolderInvalidScore, "score out of range")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create patent holder")
	}
	return nil
}

// SearchByHolder runs a case-insensitive POSIX regex match on patent_holder.
func (r *postgresHolderRepo) SearchByHolder(ctx context.Context, pattern string, limit, offset int) ([]*patent.PatentHolder, int64, error) {
	var total int64
	if err := r.executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM patent_holders WHERE patent_holder ~* $1`, pattern,
	).Scan(&total); err != nil {
		return nil, 0, holderQueryErr(err)
	}

	query := `SELECT ` + holderColumns + ` FROM patent_holders
		WHERE patent_holder ~* $1
		ORDER BY patent_holder, reference_id
		LIMIT $2 OFFSET $3`
	rows, err := r.executor.QueryContext(ctx, query, pattern, limit, offset)
	if err != nil {
		return nil, 0, holderQueryErr(err)
	}
	defer rows.Close()

	holders := make([]*patent.PatentHolder, 0)
	for rows.Next() {
		h, err := scanHolder(rows)
		if err != nil {
			return nil, 0, err
		}
		holders = append(holders, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, holderQueryErr(err)
	}
	return holders, total, nil
}

func holderQueryErr(err error) error {
	if code, _ := pqCode(err); code == pqInvalidRegex {
		return errors.Wrap(err, errors.ErrCodeHolderInvalidQuery, "invalid holder search pattern")
	}
	return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to search patent holders")
}

func scanHolder(row scanner) (*patent.PatentHolder, error) {
	h := &patent.PatentHolder{}
	err := row.Scan(
		&h.ReferenceID, &h.GrantDocNumber, &h.RecordDate, &h.PatentHolderID, &h.PatentHolder,
		&h.PatentSeller, &h.PatentSellerID, &h.Litigation, &h.TechField, &h.FilingYear, &h.TypePatentHolder,
		&h.PatentQuality, &h.PatentValue, &h.LitigationRisk, &h.CountryPatentHolder, &h.CountryPatentSeller,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan patent holder")
	}
	return h, nil
}

//Personal.AI order the ending
