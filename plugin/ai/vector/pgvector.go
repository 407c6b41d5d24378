package vector

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PGIndex is a pgvector-backed implementation of Index. All chunks live
// in one table partitioned logically by collection_id, so dropping a
// collection is a single DELETE.
type PGIndex struct {
	db         *sql.DB
	dimensions int
}

// NewPGIndex opens a Postgres connection and ensures the schema exists.
func NewPGIndex(dsn string, dimensions int) (*PGIndex, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	idx := &PGIndex{db: db, dimensions: dimensions}
	if err := idx.migrate(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (p *PGIndex) migrate() error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS document_chunk (
			collection_id TEXT NOT NULL,
			chunk_id TEXT NOT NULL,
			document TEXT NOT NULL,
			embedding vector(%d),
			PRIMARY KEY (collection_id, chunk_id)
		)`, p.dimensions),
		`CREATE INDEX IF NOT EXISTS idx_document_chunk_collection ON document_chunk (collection_id)`,
	}
	for _, stmt := range stmts {
		if _, err := p.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate vector schema: %w", err)
		}
	}
	return nil
}

// CreateCollection is a no-op for the shared-table layout; the
// collection comes into being with its first upsert.
func (p *PGIndex) CreateCollection(_ context.Context, collectionID string) error {
	slog.Debug("pgvector collection registered", "collection_id", collectionID)
	return nil
}

// Upsert stores documents with their vectors under the collection.
func (p *PGIndex) Upsert(ctx context.Context, collectionID string, ids []string, vectors [][]float32, documents []string) error {
	if len(ids) != len(vectors) || len(ids) != len(documents) {
		return fmt.Errorf("mismatched lengths: %d ids, %d vectors, %d documents", len(ids), len(vectors), len(documents))
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO document_chunk (collection_id, chunk_id, document, embedding)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (collection_id, chunk_id)
		DO UPDATE SET document = EXCLUDED.document, embedding = EXCLUDED.embedding
	`
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, query, collectionID, id, documents[i], pgvector.NewVector(vectors[i])); err != nil {
			return fmt.Errorf("failed to upsert chunk %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// Query returns up to topK documents ranked by cosine distance.
func (p *PGIndex) Query(ctx context.Context, collectionID string, vec []float32, topK int) ([]Result, error) {
	const query = `
		SELECT chunk_id, document, 1 - (embedding <=> $2) AS score
		FROM document_chunk
		WHERE collection_id = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`

	rows, err := p.db.QueryContext(ctx, query, collectionID, pgvector.NewVector(vec), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collectionID, err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.Document, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return results, nil
}

// DeleteCollection removes the collection and all its vectors.
func (p *PGIndex) DeleteCollection(ctx context.Context, collectionID string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM document_chunk WHERE collection_id = $1`, collectionID)
	if err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", collectionID, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (p *PGIndex) Close() error {
	return p.db.Close()
}

var _ Index = (*PGIndex)(nil)
