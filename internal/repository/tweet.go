package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/tweets/internal/database"
	"github.com/deppfellow/tweets/internal/errs"
	"github.com/deppfellow/tweets/internal/model"
)

type TweetRepository struct {
	db *database.Database
}

func NewTweetRepository(db *database.Database) *TweetRepository {
	return &TweetRepository{db: db}
}

// List returns up to limit tweets, newest first.
func (r *TweetRepository) List(ctx context.Context, limit int) ([]model.TweetRecord, error) {
	var records []model.TweetRecord

	err := r.db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, created_at, message
			FROM tweets
			ORDER BY created_at DESC
			LIMIT $1
		`, limit)
		if err != nil {
			return err
		}

		records, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.TweetRecord])
		return err
	})
	if err != nil {
		return nil, storeErr("list tweets", err)
	}

	return records, nil
}

// FindByID returns the tweet with id. If several rows match, the first one
// the database returns wins.
func (r *TweetRepository) FindByID(ctx context.Context, id uuid.UUID) (model.TweetRecord, error) {
	var record model.TweetRecord

	err := r.db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT id, created_at, message
			FROM tweets
			WHERE id = $1
		`, id).Scan(&record.ID, &record.CreatedAt, &record.Message)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TweetRecord{}, fmt.Errorf("tweet %s: %w", id, errs.ErrNotFound)
		}
		return model.TweetRecord{}, storeErr("find tweet", err)
	}

	return record, nil
}

// Create inserts record and returns it once the insert is confirmed.
func (r *TweetRepository) Create(ctx context.Context, record model.TweetRecord) (model.TweetRecord, error) {
	err := r.db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO tweets (id, created_at, message)
			VALUES ($1, $2, $3)
		`, record.ID, record.CreatedAt, record.Message)
		return err
	})
	if err != nil {
		return model.TweetRecord{}, storeErr("insert tweet", err)
	}

	return record, nil
}

// DeleteByID removes the tweet with id. Deleting a missing tweet is not an error.
func (r *TweetRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return storeErr("delete tweet", err)
	}

	return nil
}
