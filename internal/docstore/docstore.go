// internal/docstore/docstore.go
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// UniqueID asks the store to generate the document id.
const UniqueID = "unique()"

// ErrNotFound is matched by errors.Is for a missing document.
var ErrNotFound = errors.New("document not found")

// Store is a schemaless document store organised as databases holding
// collections of documents.
type Store interface {
	CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*Document, error)
	GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*Document, error)
	ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...Query) (*DocumentList, error)
	UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*Document, error)
	Ping(ctx context.Context) error
}

// Document is a stored record. System attributes travel as "$"-prefixed
// keys next to the user data, the way the hosted store returns them.
type Document struct {
	ID           string
	CollectionID string
	DatabaseID   string
	CreatedAt    string
	UpdatedAt    string
	Data         map[string]any
}

type DocumentList struct {
	Total     int        `json:"total"`
	Documents []Document `json:"documents"`
}

func (d *Document) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	str := func(k string) string {
		s, _ := raw[k].(string)
		return s
	}
	d.ID = str("$id")
	d.CollectionID = str("$collectionId")
	d.DatabaseID = str("$databaseId")
	d.CreatedAt = str("$createdAt")
	d.UpdatedAt = str("$updatedAt")
	d.Data = make(map[string]any, len(raw))
	for k, v := range raw {
		if strings.HasPrefix(k, "$") {
			continue
		}
		d.Data[k] = v
	}
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Data)+5)
	for k, v := range d.Data {
		out[k] = v
	}
	out["$id"] = d.ID
	out["$collectionId"] = d.CollectionID
	out["$databaseId"] = d.DatabaseID
	out["$createdAt"] = d.CreatedAt
	out["$updatedAt"] = d.UpdatedAt
	return json.Marshal(out)
}

// Decode copies the document, system attributes included, into v.
func (d *Document) Decode(v any) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// toData turns a record into the attribute map sent to a store.
func toData(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Query filters or pages a document listing.
type Query struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

// Equal matches documents whose attribute equals any of values.
func Equal(attribute string, values ...any) Query {
	return Query{Method: "equal", Attribute: attribute, Values: values}
}

// Limit caps the number of returned documents.
func Limit(n int) Query {
	return Query{Method: "limit", Values: []any{n}}
}
