package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stackit/models"
)

type fakeStore struct {
	mu       sync.Mutex
	inserted []models.Notification
	err      error
}

func (f *fakeStore) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.inserted = append(f.inserted, document.(models.Notification))
	return &mongo.InsertOneResult{}, nil
}

func (f *fakeStore) all() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Notification(nil), f.inserted...)
}

type fakeConn struct {
	mu     sync.Mutex
	wrote  []interface{}
	err    error
	closed bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.wrote = append(f.wrote, v)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func TestDispatcher_PersistsEnqueuedNotifications(t *testing.T) {
	store := &fakeStore{}
	d := NewDispatcher(store, nil, zerolog.Nop())
	d.Start()

	author := primitive.NewObjectID()
	questionID := primitive.NewObjectID()
	d.Enqueue(NewAnswerNotification(author, questionID, "How do I use goroutines?"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	inserted := store.all()
	require.Len(t, inserted, 1)
	got := inserted[0]
	assert.Equal(t, author, got.User)
	assert.Equal(t, models.NotificationNewAnswer, got.Type)
	assert.Equal(t, "/questions/"+questionID.Hex(), got.Link)
	assert.Contains(t, got.Message, "How do I use goroutines?")
	assert.False(t, got.IsRead)
	assert.False(t, got.ID.IsZero())
	assert.False(t, got.CreatedAt.IsZero())
}

func TestDispatcher_StoreFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{err: errors.New("write concern")}
	d := NewDispatcher(store, nil, zerolog.Nop())
	d.Start()

	d.Enqueue(models.Notification{User: primitive.NewObjectID(), Type: models.NotificationNewAnswer})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, d.Close(ctx), "failed deliveries must not wedge shutdown")
}

func TestDispatcher_DrainsBacklogOnClose(t *testing.T) {
	store := &fakeStore{}
	d := NewDispatcher(store, nil, zerolog.Nop())

	for i := 0; i < 10; i++ {
		d.Enqueue(models.Notification{User: primitive.NewObjectID(), Type: models.NotificationNewAnswer})
	}
	d.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
	assert.Len(t, store.all(), 10)
}

func TestHub_PushReachesRegisteredUser(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	userID := primitive.NewObjectID()
	conn := &fakeConn{}
	hub.register(userID, conn)

	n := models.Notification{ID: primitive.NewObjectID(), User: userID, Type: models.NotificationNewAnswer}
	assert.True(t, hub.Push(n))
	require.Len(t, conn.wrote, 1)
	assert.Equal(t, n, conn.wrote[0])

	assert.False(t, hub.Push(models.Notification{User: primitive.NewObjectID()}), "offline user gets no live push")
}

func TestHub_WriteErrorDropsConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	userID := primitive.NewObjectID()
	conn := &fakeConn{err: errors.New("broken pipe")}
	hub.register(userID, conn)

	assert.False(t, hub.Push(models.Notification{User: userID}))
	assert.False(t, hub.Online(userID))
	assert.True(t, conn.closed)
}

func TestHub_NewConnectionSupersedesOld(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	userID := primitive.NewObjectID()
	first := &fakeConn{}
	second := &fakeConn{}

	hub.register(userID, first)
	hub.register(userID, second)
	assert.True(t, first.closed)

	hub.Push(models.Notification{User: userID})
	assert.Empty(t, first.wrote)
	assert.Len(t, second.wrote, 1)

	// unregistering the stale conn must not evict the live one
	hub.unregister(userID, first)
	assert.True(t, hub.Online(userID))
}
