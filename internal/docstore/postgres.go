// internal/docstore/postgres.go
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresStore keeps documents as JSONB rows in a single table, see
// seed/schema.sql.
type PostgresStore struct {
	DB *sqlx.DB
}

type documentRow struct {
	DatabaseID   string    `db:"database_id"`
	CollectionID string    `db:"collection_id"`
	ID           string    `db:"id"`
	Data         []byte    `db:"data"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const documentColumns = `database_id, collection_id, id, data, created_at, updated_at`

func (r documentRow) document() (*Document, error) {
	var data map[string]any
	if err := json.Unmarshal(r.Data, &data); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", r.ID, err)
	}
	return &Document{
		ID:           r.ID,
		CollectionID: r.CollectionID,
		DatabaseID:   r.DatabaseID,
		CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    r.UpdatedAt.UTC().Format(time.RFC3339Nano),
		Data:         data,
	}, nil
}

func (s *PostgresStore) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*Document, error) {
	attrs, err := toData(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if documentID == UniqueID || documentID == "" {
		documentID = uuid.NewString()
	}

	query := `
        INSERT INTO documents (database_id, collection_id, id, data, created_at, updated_at)
        VALUES ($1, $2, $3, $4::jsonb, NOW(), NOW())
        RETURNING ` + documentColumns
	var row documentRow
	if err := s.DB.QueryRowxContext(ctx, query, databaseID, collectionID, documentID, string(b)).StructScan(&row); err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return row.document()
}

func (s *PostgresStore) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE database_id=$1 AND collection_id=$2 AND id=$3`
	var row documentRow
	if err := s.DB.GetContext(ctx, &row, query, databaseID, collectionID, documentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.document()
}

func (s *PostgresStore) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...Query) (*DocumentList, error) {
	selectQuery, countQuery, args, err := buildListQuery(databaseID, collectionID, queries)
	if err != nil {
		return nil, err
	}

	var rows []documentRow
	if err := s.DB.SelectContext(ctx, &rows, selectQuery, args...); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	list := &DocumentList{Documents: make([]Document, 0, len(rows))}
	for _, r := range rows {
		doc, err := r.document()
		if err != nil {
			return nil, err
		}
		list.Documents = append(list.Documents, *doc)
	}

	// the count ignores the limit
	countArgs := args[:len(args)-1]
	if err := s.DB.GetContext(ctx, &list.Total, countQuery, countArgs...); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	return list, nil
}

// buildListQuery turns queries into a select and a count sharing the same
// filter arguments. The limit is always the last select argument.
func buildListQuery(databaseID, collectionID string, queries []Query) (string, string, []any, error) {
	where := ` FROM documents WHERE database_id=$1 AND collection_id=$2`
	args := []any{databaseID, collectionID}
	limit := 25

	for _, q := range queries {
		switch q.Method {
		case "equal":
			vals := make([]string, len(q.Values))
			for i, v := range q.Values {
				vals[i] = fmt.Sprint(v)
			}
			where += fmt.Sprintf(" AND data->>$%d = ANY($%d)", len(args)+1, len(args)+2)
			args = append(args, q.Attribute, pq.Array(vals))
		case "limit":
			if len(q.Values) != 1 {
				return "", "", nil, fmt.Errorf("limit query needs one value")
			}
			n, ok := q.Values[0].(int)
			if !ok || n < 0 {
				return "", "", nil, fmt.Errorf("invalid limit %v", q.Values[0])
			}
			limit = n
		default:
			return "", "", nil, fmt.Errorf("unsupported query method %q", q.Method)
		}
	}

	selectQuery := `SELECT ` + documentColumns + where +
		fmt.Sprintf(" ORDER BY created_at ASC, id ASC LIMIT $%d", len(args)+1)
	countQuery := `SELECT COUNT(*)` + where
	args = append(args, limit)
	return selectQuery, countQuery, args, nil
}

func (s *PostgresStore) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*Document, error) {
	attrs, err := toData(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	query := `
        UPDATE documents
        SET data = data || $1::jsonb, updated_at = NOW()
        WHERE database_id=$2 AND collection_id=$3 AND id=$4
        RETURNING ` + documentColumns
	var row documentRow
	if err := s.DB.QueryRowxContext(ctx, query, string(b), databaseID, collectionID, documentID).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update document: %w", err)
	}
	return row.document()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

var _ Store = (*PostgresStore)(nil)
