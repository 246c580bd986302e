package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/deppfellow/tweets/internal/errs"
	"github.com/deppfellow/tweets/internal/model"
)

type fakeTweetStore struct {
	mu      sync.Mutex
	records []model.TweetRecord

	listErr   error
	createErr error
	deleteErr error
	lastLimit int
}

func (f *fakeTweetStore) List(ctx context.Context, limit int) ([]model.TweetRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}

	out := append([]model.TweetRecord(nil), f.records...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTweetStore) FindByID(ctx context.Context, id uuid.UUID) (model.TweetRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return model.TweetRecord{}, errs.ErrNotFound
}

func (f *fakeTweetStore) Create(ctx context.Context, record model.TweetRecord) (model.TweetRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return model.TweetRecord{}, f.createErr
	}
	f.records = append([]model.TweetRecord{record}, f.records...)
	return record, nil
}

func (f *fakeTweetStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			break
		}
	}
	return nil
}

// add stores a tweet created age ago.
func (f *fakeTweetStore) add(message string, age time.Duration) model.TweetRecord {
	r := model.TweetRecord{
		ID:        uuid.New(),
		CreatedAt: model.ToStorageTime(time.Now().Add(-age)),
		Message:   message,
	}
	f.records = append(f.records, r)
	return r
}

// fakeLikeStore has no batched lookup, so EnrichMany fans out over it.
type fakeLikeStore struct {
	mu    sync.Mutex
	likes map[uuid.UUID][]model.LikeRecord

	listErr  error
	failFor  uuid.UUID
	delay    time.Duration
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{likes: map[uuid.UUID][]model.LikeRecord{}}
}

func (f *fakeLikeStore) ListByTweet(ctx context.Context, tweetID uuid.UUID) ([]model.LikeRecord, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.listErr != nil && (f.failFor == uuid.Nil || f.failFor == tweetID) {
		return nil, f.listErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.LikeRecord(nil), f.likes[tweetID]...), nil
}

func (f *fakeLikeStore) Create(ctx context.Context, tweetID uuid.UUID) (model.LikeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := model.NewLikeRecord(tweetID)
	f.likes[tweetID] = append([]model.LikeRecord{r}, f.likes[tweetID]...)
	return r, nil
}

func (f *fakeLikeStore) DeleteLatest(ctx context.Context, tweetID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.likes[tweetID]) == 0 {
		return false, nil
	}
	f.likes[tweetID] = f.likes[tweetID][1:]
	return true, nil
}

// fakeBatchLikeStore adds the batched lookup on top of fakeLikeStore.
type fakeBatchLikeStore struct {
	*fakeLikeStore
	batchCalls atomic.Int32
	batchErr   error
}

func (f *fakeBatchLikeStore) ListByTweets(ctx context.Context, tweetIDs []uuid.UUID) (map[uuid.UUID][]model.LikeRecord, error) {
	f.batchCalls.Add(1)
	if f.batchErr != nil {
		return nil, f.batchErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[uuid.UUID][]model.LikeRecord)
	for _, id := range tweetIDs {
		if likes, ok := f.likes[id]; ok {
			out[id] = append([]model.LikeRecord(nil), likes...)
		}
	}
	return out, nil
}

type fakePurger struct {
	mu    sync.Mutex
	calls []uuid.UUID
	err   error
}

func (f *fakePurger) EnqueuePurgeLikes(ctx context.Context, tweetID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, tweetID)
	return f.err
}
