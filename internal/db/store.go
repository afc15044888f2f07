package db

import (
	"context"
	"fmt"
	"log"

	"github.com/unclebandit/campaign-intake/internal/config"
	"github.com/unclebandit/campaign-intake/internal/docstore"
)

// OpenStore builds the document store selected by STORE_BACKEND. The
// returned close func releases whatever the backend holds.
func OpenStore(ctx context.Context, cfg *config.Config) (docstore.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case config.BackendAppwrite:
		if cfg.Appwrite.APIKey == "" {
			log.Println("⚠️ APPWRITE_API_KEY is empty, requests rely on collection permissions")
		}
		store := docstore.NewAppwriteStore(cfg.Appwrite.Endpoint, cfg.Appwrite.ProjectID, cfg.Appwrite.APIKey, cfg.Appwrite.RequestTimeout())
		return store, noop, nil
	case config.BackendPostgres:
		conn, err := Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return &docstore.PostgresStore{DB: conn}, conn.Close, nil
	case config.BackendMemory:
		log.Println("⚠️ Using in-memory store, documents are lost on exit")
		return docstore.NewMemoryStore(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
