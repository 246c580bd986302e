package model

import (
	"time"

	"github.com/google/uuid"
)

// Like is the wire form of a like.
type Like struct {
	ID        string    `json:"id"`
	CreatedAt Timestamp `json:"created_at"`
}

// LikeRecord is the storage form of a like, keyed by the tweet it belongs to.
type LikeRecord struct {
	ID        uuid.UUID
	CreatedAt time.Time
	TweetID   uuid.UUID
}

// NewLikeRecord mints a like for tweetID.
func NewLikeRecord(tweetID uuid.UUID) LikeRecord {
	return LikeRecord{
		ID:        NewID(),
		CreatedAt: ToStorageTime(time.Now()),
		TweetID:   tweetID,
	}
}

func (r LikeRecord) ToLike() Like {
	return Like{
		ID:        r.ID.String(),
		CreatedAt: NewTimestamp(FromStorageTime(r.CreatedAt)),
	}
}

// LikesFromRecords converts records to wire likes. The result is never nil.
func LikesFromRecords(records []LikeRecord) []Like {
	likes := make([]Like, 0, len(records))
	for _, r := range records {
		likes = append(likes, r.ToLike())
	}
	return likes
}
