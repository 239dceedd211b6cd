package repositories

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/turtacn/patent-litigation-graph/internal/domain/litigation"
	driver "github.com/turtacn/patent-litigation-graph/internal/infrastructure/database/neo4j"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

// Graph layout:
//
//	(:Plaintiff {id, names: [string]})-[:SUED]->(:Defendant {id, parties: [string]})
//
// A Defendant carries the id of the case it belongs to, so the two-stage
// lookup can match on id alone.
const (
	cypherPlaintiffIDsByName = `
		MATCH (p:Plaintiff)
		WHERE $name IN p.names
		RETURN p.id AS id
	`

	cypherDefendantsByPlaintiffID = `
		MATCH (d:Defendant {id: $id})
		RETURN d.parties AS defendant
	`

	cypherLitigantsByName = `
		MATCH (p:Plaintiff)
		WHERE $name IN p.names
		OPTIONAL MATCH (d:Defendant {id: p.id})
		RETURN p.id AS id, collect(d.parties) AS defendants
	`

	cypherSaveRecords = `
		UNWIND $batch AS row
		MERGE (p:Plaintiff {id: row.id})
		SET p.names = row.plaintiffs
		WITH p, row
		UNWIND row.defendants AS parties
		MERGE (d:Defendant {id: row.id, parties: parties})
		MERGE (p)-[:SUED]->(d)
	`
)

var schemaStatements = []string{
	`CREATE INDEX plaintiff_id IF NOT EXISTS FOR (p:Plaintiff) ON (p.id)`,
	`CREATE INDEX defendant_id IF NOT EXISTS FOR (d:Defendant) ON (d.id)`,
}

type neo4jLitigationRepo struct {
	driver driver.DriverInterface
	log    logging.Logger
}

// LitigationRepository is the Neo4j-backed litigation store.
type LitigationRepository interface {
	litigation.JoinedGraphRepository
	litigation.RecordWriter
	EnsureIndexes(ctx context.Context) error
}

func NewNeo4jLitigationRepo(d driver.DriverInterface, log logging.Logger) LitigationRepository {
	return &neo4jLitigationRepo{
		driver: d,
		log:    log,
	}
}

func (r *neo4jLitigationRepo) PlaintiffIDsByName(ctx context.Context, name string) ([]string, error) {
	res, err := r.driver.ExecuteRead(ctx, func(tx driver.Transaction) (any, error) {
		result, err := tx.Run(ctx, cypherPlaintiffIDsByName, map[string]any{"name": name})
		if err != nil {
			return nil, err
		}
		return driver.CollectRecords(ctx, result, func(rec *neo4j.Record) (string, error) {
			return driver.StringValue(rec, "id"), nil
		})
	})
	if err != nil {
		return nil, storeErr(err, "plaintiff lookup failed")
	}
	ids, _ := res.([]string)
	return ids, nil
}

func (r *neo4jLitigationRepo) DefendantsByPlaintiffID(ctx context.Context, id string) ([]litigation.Defendant, error) {
	res, err := r.driver.ExecuteRead(ctx, func(tx driver.Transaction) (any, error) {
		result, err := tx.Run(ctx, cypherDefendantsByPlaintiffID, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		return driver.CollectRecords(ctx, result, func(rec *neo4j.Record) (litigation.Defendant, error) {
			return litigation.Defendant(driver.StringList(rec, "defendant")), nil
		})
	})
	if err != nil {
		return nil, storeErr(err, "defendant lookup failed")
	}
	defendants, _ := res.([]litigation.Defendant)
	return defendants, nil
}

// LitigantsByPlaintiffName resolves plaintiffs and their defendants in one query.
func (r *neo4jLitigationRepo) LitigantsByPlaintiffName(ctx context.Context, name string) (*litigation.Litigants, error) {
	res, err := r.driver.ExecuteRead(ctx, func(tx driver.Transaction) (any, error) {
		result, err := tx.Run(ctx, cypherLitigantsByName, map[string]any{"name": name})
		if err != nil {
			return nil, err
		}
		out := &litigation.Litigants{}
		for result.Next(ctx) {
			rec := result.Record()
			out.PlaintiffIDs = append(out.PlaintiffIDs, driver.StringValue(rec, "id"))
			out.Defendants = append(out.Defendants, defendantsFrom(rec, "defendants")...)
		}
		if err := result.Err(); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, storeErr(err, "litigant lookup failed")
	}
	out, _ := res.(*litigation.Litigants)
	if out == nil {
		out = &litigation.Litigants{}
	}
	return out, nil
}

// SaveRecords upserts records and returns how many were written.
func (r *neo4jLitigationRepo) SaveRecords(ctx context.Context, records []litigation.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	batch := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		defendants := make([][]string, 0, len(rec.Defendants))
		for _, d := range litigation.DistinctDefendants(rec.Defendants) {
			defendants = append(defendants, []string(d))
		}
		batch = append(batch, map[string]any{
			"id":         rec.ID,
			"plaintiffs": rec.Plaintiffs,
			"defendants": defendants,
		})
	}

	_, err := r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (any, error) {
		result, err := tx.Run(ctx, cypherSaveRecords, map[string]any{"batch": batch})
		if err != nil {
			return nil, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return nil, err
		}
		if summary != nil {
			r.log.Debug("litigation records merged",
				logging.Int("nodes_created", summary.Counters().NodesCreated()),
				logging.Int("relationships_created", summary.Counters().RelationshipsCreated()))
		}
		return nil, nil
	})
	if err != nil {
		return 0, storeErr(err, "saving litigation records failed")
	}
	return len(records), nil
}

func (r *neo4jLitigationRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (any, error) {
		for _, stmt := range schemaStatements {
			if _, err := tx.Run(ctx, stmt, nil); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return storeErr(err, "creating litigation indexes failed")
	}
	return nil
}

func defendantsFrom(rec *neo4j.Record, key string) []litigation.Defendant {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]litigation.Defendant, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			out = append(out, litigation.Defendant{t})
		case []string:
			out = append(out, litigation.Defendant(t))
		case []any:
			d := make(litigation.Defendant, 0, len(t))
			for _, s := range t {
				if str, ok := s.(string); ok {
					d = append(d, str)
				}
			}
			out = append(out, d)
		}
	}
	return out
}

func storeErr(err error, msg string) error {
	if errors.IsStoreUnavailable(err) {
		return err
	}
	return errors.StoreUnavailable(err, msg)
}

//Personal.AI order the ending
