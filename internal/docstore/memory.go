// internal/docstore/memory.go
package docstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process. It backs local development and
// tests.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]*Document // keyed by database/collection, insertion order
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string][]*Document),
		now:  time.Now,
	}
}

func collectionKey(databaseID, collectionID string) string {
	return databaseID + "/" + collectionID
}

func copyDoc(d *Document) *Document {
	c := *d
	c.Data = make(map[string]any, len(d.Data))
	for k, v := range d.Data {
		c.Data[k] = v
	}
	return &c
}

func (s *MemoryStore) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*Document, error) {
	attrs, err := toData(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if documentID == UniqueID || documentID == "" {
		documentID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := collectionKey(databaseID, collectionID)
	for _, d := range s.docs[key] {
		if d.ID == documentID {
			return nil, fmt.Errorf("document %s already exists", documentID)
		}
	}

	ts := s.now().UTC().Format(time.RFC3339Nano)
	doc := &Document{
		ID:           documentID,
		CollectionID: collectionID,
		DatabaseID:   databaseID,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	doc.Data = attrs
	s.docs[key] = append(s.docs[key], copyDoc(doc))
	return copyDoc(doc), nil
}

func (s *MemoryStore) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.docs[collectionKey(databaseID, collectionID)] {
		if d.ID == documentID {
			return copyDoc(d), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...Query) (*DocumentList, error) {
	limit := 25
	var filters []Query
	for _, q := range queries {
		switch q.Method {
		case "equal":
			filters = append(filters, q)
		case "limit":
			if len(q.Values) != 1 {
				return nil, fmt.Errorf("limit query needs one value")
			}
			n, ok := q.Values[0].(int)
			if !ok || n < 0 {
				return nil, fmt.Errorf("invalid limit %v", q.Values[0])
			}
			limit = n
		default:
			return nil, fmt.Errorf("unsupported query method %q", q.Method)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := &DocumentList{Documents: []Document{}}
	for _, d := range s.docs[collectionKey(databaseID, collectionID)] {
		if !matches(d, filters) {
			continue
		}
		list.Total++
		if len(list.Documents) < limit {
			list.Documents = append(list.Documents, *copyDoc(d))
		}
	}
	return list, nil
}

func matches(d *Document, filters []Query) bool {
	for _, f := range filters {
		got := fmt.Sprint(d.Data[f.Attribute])
		ok := false
		for _, v := range f.Values {
			if got == fmt.Sprint(v) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func (s *MemoryStore) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*Document, error) {
	attrs, err := toData(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.docs[collectionKey(databaseID, collectionID)] {
		if d.ID != documentID {
			continue
		}
		for k, v := range attrs {
			d.Data[k] = v
		}
		d.UpdatedAt = s.now().UTC().Format(time.RFC3339Nano)
		return copyDoc(d), nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
