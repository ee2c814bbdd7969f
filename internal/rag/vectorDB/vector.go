package vectorDB

import (
	"context"

	"github.com/akolanti/DocQA/internal/domain/qaModel"
)

// SemanticCache is the second-tier answer cache keyed by question embedding and
// scoped to one document or collection.
type SemanticCache interface {
	GetCachedAnswer(ctx context.Context, targetId string, queryVector []float32) (qaModel.Response, bool, error)
	SaveToCache(ctx context.Context, targetId string, vector []float32, resp qaModel.Response) error
}
