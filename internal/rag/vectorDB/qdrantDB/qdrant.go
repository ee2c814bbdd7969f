package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger = logger_i.NewLogger("Qdrant")
var qdrantInstance *ClientHolder
var once sync.Once

// ClientHolder serves the semantic cache from one Qdrant collection sized for
// the configured embedding dimension.
type ClientHolder struct {
	QObj       *qdrant.Client
	collection string
	dimension  uint64
}

// GetQdrantClient returns nil when Qdrant is disabled or unreachable.
func GetQdrantClient(ctx context.Context, settings config.QdrantSettings, dimension int) *ClientHolder {
	once.Do(func() {
		if !settings.Enabled {
			logger.Info("qdrant disabled, semantic cache off")
			return
		}
		holder, err := newClient(ctx, settings, dimension)
		if err != nil {
			logger.Error("could not start qdrant semantic cache", "error", err)
			return
		}
		qdrantInstance = holder
		go closeQdrant(ctx, holder.QObj)
	})
	return qdrantInstance
}

func newClient(ctx context.Context, settings config.QdrantSettings, dimension int) (*ClientHolder, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension %d", dimension)
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     settings.Host,
		Port:     settings.Port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("instantiate client: %w", err)
	}

	holder := &ClientHolder{
		QObj:       client,
		collection: fmt.Sprintf("%s-%d", config.SemanticCacheDBName, dimension),
		dimension:  uint64(dimension),
	}

	initCtx, cancel := context.WithTimeout(ctx, config.QdrantConnectionTimeout)
	defer cancel()
	if err := holder.createCollection(initCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("create collection %s: %w", holder.collection, err)
	}
	return holder, nil
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
		return
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) createCollection(ctx context.Context) error {
	if db.collection == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.QObj.CollectionExists(ctx, db.collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: db.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     db.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return err
	}

	_, err = db.QObj.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: db.collection,
		FieldName:      targetIdKey,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		logger.Warn("target id payload index not created", "error", err)
	}
	return nil
}
