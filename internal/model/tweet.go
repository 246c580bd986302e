package model

import (
	"time"

	"github.com/google/uuid"
)

// Tweet is the wire form of a tweet. Likes stay empty until the tweet
// service enriches it.
type Tweet struct {
	ID        string    `json:"id"`
	CreatedAt Timestamp `json:"created_at"`
	Message   string    `json:"message"`
	Likes     []Like    `json:"likes"`
}

// NewTweet builds a wire tweet for message with no likes.
func NewTweet(message string) Tweet {
	return Tweet{
		ID:        NewID().String(),
		CreatedAt: NewTimestamp(time.Now()),
		Message:   message,
		Likes:     []Like{},
	}
}

// ToRecord converts t to its storage form. The identifier and creation time
// are minted here; the ones t carries are discarded.
func (t Tweet) ToRecord() TweetRecord {
	return TweetRecord{
		ID:        NewID(),
		CreatedAt: ToStorageTime(time.Now()),
		Message:   t.Message,
	}
}

// WithLikes returns a copy of t carrying likes.
func (t Tweet) WithLikes(likes []Like) Tweet {
	if likes == nil {
		likes = []Like{}
	}

	return Tweet{
		ID:        t.ID,
		CreatedAt: t.CreatedAt,
		Message:   t.Message,
		Likes:     likes,
	}
}

// TweetRecord is the storage form of a tweet.
type TweetRecord struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Message   string
}

// ToTweet converts r to its wire form with no likes attached.
func (r TweetRecord) ToTweet() Tweet {
	return Tweet{
		ID:        r.ID.String(),
		CreatedAt: NewTimestamp(FromStorageTime(r.CreatedAt)),
		Message:   r.Message,
		Likes:     []Like{},
	}
}

// TweetsFromRecords converts records to wire tweets, keeping their order.
func TweetsFromRecords(records []TweetRecord) []Tweet {
	tweets := make([]Tweet, 0, len(records))
	for _, r := range records {
		tweets = append(tweets, r.ToTweet())
	}
	return tweets
}
