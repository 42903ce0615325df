package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeRedis is an in-memory stand-in for *redis.Client.
type fakeRedis struct {
	data   map[string]string
	ttls   map[string]time.Duration
	closed bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	c := &RedisCache{client: fake}

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("Get on empty = (hit %v, err %v), want clean miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("payload"), TTLLayout); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if fake.ttls["k"] != TTLLayout {
		t.Errorf("ttl = %v, want %v", fake.ttls["k"], TTLLayout)
	}

	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "payload" {
		t.Errorf("Get = (%q, %v, %v), want payload hit", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}

	if err := c.Close(); err != nil || !fake.closed {
		t.Errorf("Close = %v, closed %v", err, fake.closed)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://nope"); err == nil {
		t.Error("NewRedisCache should reject a non-redis URL")
	}
}

// fakeMongo is an in-memory stand-in for *mongo.Collection.
type fakeMongo struct {
	docs map[string]mongoEntry
}

func (f *fakeMongo) FindOne(_ context.Context, filter any, _ ...*options.FindOneOptions) *mongo.SingleResult {
	key := filter.(bson.M)["_id"].(string)
	doc, ok := f.docs[key]
	if !ok {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(doc, nil, nil)
}

func (f *fakeMongo) ReplaceOne(_ context.Context, filter any, replacement any, _ ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	key := filter.(bson.M)["_id"].(string)
	f.docs[key] = replacement.(mongoEntry)
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (f *fakeMongo) DeleteOne(_ context.Context, filter any, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	key := filter.(bson.M)["_id"].(string)
	delete(f.docs, key)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func TestMongoCache(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMongo{docs: map[string]mongoEntry{}}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &MongoCache{coll: fake, now: func() time.Time { return now }}

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("Get on empty = (hit %v, err %v), want clean miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if exp := fake.docs["k"].ExpiresAt; exp == nil || !exp.Equal(now.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v, want %v", exp, now.Add(time.Hour))
	}

	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "payload" {
		t.Errorf("Get = (%q, %v, %v), want payload hit", data, hit, err)
	}

	// past expiry but not yet purged by the server
	now = now.Add(2 * time.Hour)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired document should miss")
	}

	if err := c.Set(ctx, "forever", []byte("x"), TTLNone); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if fake.docs["forever"].ExpiresAt != nil {
		t.Error("entry without ttl should not carry expires_at")
	}

	if err := c.Delete(ctx, "forever"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); hit {
		t.Error("Get after Delete should miss")
	}

	if err := c.Close(); err != nil {
		t.Errorf("Close error: %v", err)
	}
}
