package indexes_test

import (
	"testing"

	preferencesstore "github.com/dalemusser/campushub/internal/app/store/preferences"
	"github.com/dalemusser/campushub/internal/app/system/indexes"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func indexByName(t *testing.T, db *mongo.Database, coll string) map[string]bson.M {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	out := map[string]bson.M{}
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("decode index: %v", err)
		}
		out[idx["name"].(string)] = idx
	}
	return out
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesPreferenceIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	got := indexByName(t, db, preferencesstore.Collection)
	ttl, ok := got["idx_visitor_prefs_updated_ttl"]
	if !ok {
		t.Fatalf("TTL index missing; have %v", got)
	}
	if _, ok := ttl["expireAfterSeconds"]; !ok {
		t.Error("TTL index has no expireAfterSeconds")
	}
	if _, ok := got["idx_visitor_prefs_chat_session"]; !ok {
		t.Error("chat session index missing")
	}
}

func TestEnsureAll_ReplacesMisnamedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection(preferencesstore.Collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "chat_session_id", Value: 1}},
		Options: options.Index().SetName("old_name").SetSparse(true),
	})
	if err != nil {
		t.Fatalf("seed index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	got := indexByName(t, db, preferencesstore.Collection)
	if _, ok := got["old_name"]; ok {
		t.Error("old index still present")
	}
	if _, ok := got["idx_visitor_prefs_chat_session"]; !ok {
		t.Error("renamed index missing")
	}
}
