// internal/app/store/preferences/preferencesstore.go
package preferencesstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the name of the visitor preferences collection.
const Collection = "visitor_preferences"

// Doc is one visitor's saved preferences. The visitor id comes from a
// signed cookie, so preferences follow the browser, not the account.
type Doc struct {
	VisitorID     string                    `bson:"_id"`
	Resource      models.ResourcePreference `bson:"resource_pref"`
	Chat          models.ChatPreference     `bson:"chat_pref"`
	ChatSessionID string                    `bson:"chat_session_id,omitempty"`
	ChatState     *models.ChatState         `bson:"chat_state,omitempty"`
	UpdatedAt     time.Time                 `bson:"updated_at"`
}

// Store provides access to the visitor_preferences collection. Writes are
// last-write-wins per visitor.
type Store struct {
	c *mongo.Collection
}

// New creates a new preferences store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Get returns the visitor's preferences, or an empty Doc when none exist.
func (s *Store) Get(ctx context.Context, visitorID string) (Doc, error) {
	var d Doc
	err := s.c.FindOne(ctx, bson.M{"_id": visitorID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Doc{VisitorID: visitorID}, nil
	}
	if err != nil {
		return Doc{}, err
	}
	return d, nil
}

// ResourcePreference returns the saved course/branch pair.
func (s *Store) ResourcePreference(ctx context.Context, visitorID string) (models.ResourcePreference, error) {
	d, err := s.Get(ctx, visitorID)
	return d.Resource, err
}

// SaveResourcePreference stores the course/branch pair.
func (s *Store) SaveResourcePreference(ctx context.Context, visitorID string, p models.ResourcePreference) error {
	return s.set(ctx, visitorID, bson.M{"resource_pref": p})
}

// SaveChatPreference stores the chatbot path.
func (s *Store) SaveChatPreference(ctx context.Context, visitorID string, p models.ChatPreference) error {
	return s.set(ctx, visitorID, bson.M{"chat_pref": p})
}

// SaveChatState stores the conversation in progress.
func (s *Store) SaveChatState(ctx context.Context, visitorID string, st models.ChatState) error {
	return s.set(ctx, visitorID, bson.M{"chat_state": st})
}

// ChatSessionID returns the visitor's chatbot session id, creating one on
// first use.
func (s *Store) ChatSessionID(ctx context.Context, visitorID string) (string, error) {
	d, err := s.Get(ctx, visitorID)
	if err != nil {
		return "", err
	}
	if d.ChatSessionID != "" {
		return d.ChatSessionID, nil
	}
	id := uuid.NewString()
	if err := s.set(ctx, visitorID, bson.M{"chat_session_id": id}); err != nil {
		return "", err
	}
	return id, nil
}

// ResetChat forgets the chatbot path and conversation and starts a new
// session id.
func (s *Store) ResetChat(ctx context.Context, visitorID string) (string, error) {
	id := uuid.NewString()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": visitorID},
		bson.M{
			"$set":   bson.M{"chat_session_id": id, "updated_at": time.Now().UTC()},
			"$unset": bson.M{"chat_pref": "", "chat_state": ""},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes every preference of the visitor.
func (s *Store) Delete(ctx context.Context, visitorID string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": visitorID})
	return err
}

func (s *Store) set(ctx context.Context, visitorID string, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": visitorID},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
	return err
}
