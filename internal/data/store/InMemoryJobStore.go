package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem Store")

// sweepEvery is how many saves pass between scans for expired jobs.
const sweepEvery = 100

type storedJob struct {
	job     jobModel.Job
	expires time.Time
}

// InMemoryJobStore stands in for the redis job store. Jobs expire after the same TTL.
type InMemoryJobStore struct {
	jobMutex sync.RWMutex
	jobMap   map[string]storedJob
	ttl      time.Duration
	now      func() time.Time
	saves    int
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return NewInMemoryJobStore(config.RedisJobStoreTTL, time.Now)
}

func NewInMemoryJobStore(ttl time.Duration, now func() time.Time) *InMemoryJobStore {
	return &InMemoryJobStore{
		jobMap: make(map[string]storedJob),
		ttl:    ttl,
		now:    now,
	}
}

func (store *InMemoryJobStore) SaveJob(ctx context.Context, jobToStore jobModel.Job) error {
	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()

	now := store.now()
	store.jobMap[jobToStore.Id] = storedJob{job: jobToStore, expires: now.Add(store.ttl)}
	store.saves++
	if store.saves%sweepEvery == 0 {
		store.sweep(now)
	}
	inMemLogger.Debug("Saved job to store", "jobId", jobToStore.Id, "status", jobToStore.Status)
	return nil
}

func (store *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	store.jobMutex.RLock()
	stored, found := store.jobMap[jobId]
	store.jobMutex.RUnlock()

	if found && !store.now().Before(stored.expires) {
		store.DeleteJob(ctx, jobId)
		found = false
	}
	inMemLogger.Debug("Job lookup", "jobId", jobId, "found", found)
	if !found {
		return jobModel.Job{}, false
	}
	return stored.job, true
}

func (store *InMemoryJobStore) DeleteJob(ctx context.Context, jobID string) {
	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()
	delete(store.jobMap, jobID)
}

// Len counts stored jobs, expired ones included until they are swept.
func (store *InMemoryJobStore) Len() int {
	store.jobMutex.RLock()
	defer store.jobMutex.RUnlock()
	return len(store.jobMap)
}

// caller holds the write lock
func (store *InMemoryJobStore) sweep(now time.Time) {
	for id, stored := range store.jobMap {
		if !now.Before(stored.expires) {
			delete(store.jobMap, id)
		}
	}
}
