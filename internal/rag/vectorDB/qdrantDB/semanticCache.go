package qdrantDB

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

const (
	targetIdKey  = "target_id"
	responseKey  = "response"
	answerKey    = "answer"
	timestampKey = "timestamp"
)

var errNoResponsePayload = errors.New("cached point has no response payload")

func (db *ClientHolder) GetCachedAnswer(ctx context.Context, targetId string, queryVector []float32) (qaModel.Response, bool, error) {
	loggr := logger.WithTrace(ctx).With("targetId", targetId)

	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(queryVector...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch(targetIdKey, targetId)},
		},
		Limit:       qdrant.PtrOf(uint64(1)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Warn("semantic cache query failed", "error", err)
		return qaModel.Response{}, false, err
	}
	if len(searchResult) == 0 {
		return qaModel.Response{}, false, nil
	}

	loggr.Debug("semantic cache candidate", "score", searchResult[0].Score)
	if searchResult[0].Score < config.CacheSimilarityCutoff {
		return qaModel.Response{}, false, nil
	}

	resp, err := decodeResponse(searchResult[0].Payload)
	if err != nil {
		loggr.Warn("semantic cache payload unreadable", "error", err)
		return qaModel.Response{}, false, err
	}
	loggr.Info("semantic cache hit")
	return resp, true, nil
}

func (db *ClientHolder) SaveToCache(ctx context.Context, targetId string, vector []float32, resp qaModel.Response) error {
	payload, err := encodePayload(targetId, resp, time.Now())
	if err != nil {
		return err
	}

	_, err = db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(uuid.NewString()),
				Vectors: qdrant.NewVectors(vector...),
				Payload: payload,
			},
		},
	})
	if err != nil {
		logger.WithTrace(ctx).Warn("saving answer to semantic cache failed", "error", err)
	}
	return err
}

func encodePayload(targetId string, resp qaModel.Response, now time.Time) (map[string]*qdrant.Value, error) {
	body, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode cached response: %w", err)
	}
	return qdrant.NewValueMap(map[string]any{
		targetIdKey:  targetId,
		responseKey:  string(body),
		answerKey:    resp.Answer,
		timestampKey: now.Unix(),
	}), nil
}

func decodeResponse(payload map[string]*qdrant.Value) (qaModel.Response, error) {
	raw := payload[responseKey].GetStringValue()
	if raw == "" {
		return qaModel.Response{}, errNoResponsePayload
	}
	var resp qaModel.Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return qaModel.Response{}, fmt.Errorf("decode cached response: %w", err)
	}
	return resp, nil
}
