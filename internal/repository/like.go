package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/tweets/internal/database"
	"github.com/deppfellow/tweets/internal/model"
)

type LikeRepository struct {
	db *database.Database
}

func NewLikeRepository(db *database.Database) *LikeRepository {
	return &LikeRepository{db: db}
}

// ListByTweet returns the likes of tweetID, newest first.
func (r *LikeRepository) ListByTweet(ctx context.Context, tweetID uuid.UUID) ([]model.LikeRecord, error) {
	var records []model.LikeRecord

	err := r.db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, created_at, tweet_id
			FROM likes
			WHERE tweet_id = $1
			ORDER BY created_at DESC
		`, tweetID)
		if err != nil {
			return err
		}

		records, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.LikeRecord])
		return err
	})
	if err != nil {
		return nil, storeErr("list likes", err)
	}

	return records, nil
}

// ListByTweets returns the likes of every tweet in tweetIDs with one query,
// grouped by tweet. Tweets without likes are absent from the map.
func (r *LikeRepository) ListByTweets(ctx context.Context, tweetIDs []uuid.UUID) (map[uuid.UUID][]model.LikeRecord, error) {
	grouped := make(map[uuid.UUID][]model.LikeRecord, len(tweetIDs))
	if len(tweetIDs) == 0 {
		return grouped, nil
	}

	err := r.db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, created_at, tweet_id
			FROM likes
			WHERE tweet_id = ANY($1)
			ORDER BY created_at DESC
		`, tweetIDs)
		if err != nil {
			return err
		}

		records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.LikeRecord])
		if err != nil {
			return err
		}

		for _, record := range records {
			grouped[record.TweetID] = append(grouped[record.TweetID], record)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("list likes batch", err)
	}

	return grouped, nil
}

// Create adds one like to tweetID.
func (r *LikeRepository) Create(ctx context.Context, tweetID uuid.UUID) (model.LikeRecord, error) {
	record := model.NewLikeRecord(tweetID)

	err := r.db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO likes (id, created_at, tweet_id)
			VALUES ($1, $2, $3)
		`, record.ID, record.CreatedAt, record.TweetID)
		return err
	})
	if err != nil {
		return model.LikeRecord{}, storeErr("insert like", err)
	}

	return record, nil
}

// DeleteLatest removes the most recent like of tweetID and reports whether
// one existed.
func (r *LikeRepository) DeleteLatest(ctx context.Context, tweetID uuid.UUID) (bool, error) {
	var deleted bool

	err := r.db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, `
			DELETE FROM likes
			WHERE id = (
				SELECT id FROM likes
				WHERE tweet_id = $1
				ORDER BY created_at DESC
				LIMIT 1
			)
		`, tweetID)
		if err != nil {
			return err
		}

		deleted = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, storeErr("delete like", err)
	}

	return deleted, nil
}

// DeleteByTweet removes every like of tweetID and returns how many went.
func (r *LikeRepository) DeleteByTweet(ctx context.Context, tweetID uuid.UUID) (int64, error) {
	var affected int64

	err := r.db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM likes WHERE tweet_id = $1`, tweetID)
		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, storeErr("purge likes", err)
	}

	return affected, nil
}
