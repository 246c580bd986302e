package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTweet(t *testing.T) {
	tweet := NewTweet("hello")

	_, err := ParseID(tweet.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", tweet.Message)
	assert.NotNil(t, tweet.Likes)
	assert.Empty(t, tweet.Likes)
}

func TestTweet_ToRecord_MintsNewID(t *testing.T) {
	tweet := NewTweet("hello")

	record := tweet.ToRecord()

	assert.NotEqual(t, tweet.ID, record.ID.String())
	assert.Equal(t, "hello", record.Message)
	assert.Equal(t, time.UTC, record.CreatedAt.Location())
	assert.Equal(t, 0, record.CreatedAt.Nanosecond()%int(time.Millisecond))
}

func TestTweetRecord_ToTweet(t *testing.T) {
	record := TweetRecord{
		ID:        NewID(),
		CreatedAt: time.Date(2025, 3, 4, 5, 6, 7, 8_000_000, time.UTC),
		Message:   "stored",
	}

	tweet := record.ToTweet()

	id, err := ParseID(tweet.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, id)
	assert.Equal(t, "2025-03-04T05:06:07.008Z", FormatWireTime(tweet.CreatedAt.Time))
	assert.Empty(t, tweet.Likes)
}

func TestTweet_WithLikes(t *testing.T) {
	tweet := NewTweet("hello")
	like := NewLikeRecord(NewID()).ToLike()

	enriched := tweet.WithLikes([]Like{like})
	assert.Equal(t, tweet.ID, enriched.ID)
	assert.Equal(t, []Like{like}, enriched.Likes)
	assert.Empty(t, tweet.Likes)

	assert.NotNil(t, tweet.WithLikes(nil).Likes)
}

func TestTweet_JSON(t *testing.T) {
	record := TweetRecord{
		ID:        NewID(),
		CreatedAt: time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
		Message:   "hello",
	}

	data, err := json.Marshal(record.ToTweet())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": "`+record.ID.String()+`",
		"created_at": "2025-03-04T05:06:07.000Z",
		"message": "hello",
		"likes": []
	}`, string(data))
}

func TestResponse_JSON(t *testing.T) {
	data, err := json.Marshal(NewResponse[Tweet](nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"results": []}`, string(data))

	data, err = json.Marshal(NewResponse([]Like{{ID: "x", CreatedAt: NewTimestamp(time.Unix(0, 0))}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"results": [{"id": "x", "created_at": "1970-01-01T00:00:00.000Z"}]}`, string(data))
}

func TestLikesFromRecords_Order(t *testing.T) {
	tweetID := NewID()
	records := []LikeRecord{NewLikeRecord(tweetID), NewLikeRecord(tweetID)}

	likes := LikesFromRecords(records)
	require.Len(t, likes, 2)
	assert.Equal(t, records[0].ID.String(), likes[0].ID)
	assert.Equal(t, records[1].ID.String(), likes[1].ID)

	assert.NotNil(t, LikesFromRecords(nil))
}
