package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"quicknotes/internal/domain"
)

const (
	notesCollection    = "Notes"
	countersCollection = "counters"
)

// MongoNoteStore implements domain.NoteStore on a MongoDB collection.
// Documents are {_id: int64, heading, text}; ids come from a counters document.
type MongoNoteStore struct {
	client   *mongo.Client
	notes    *mongo.Collection
	counters *mongo.Collection
}

// OpenMongo connects to uri and uses the Notes collection of database dbName.
func OpenMongo(ctx context.Context, uri, dbName string) (*MongoNoteStore, error) {
	if dbName == "" {
		dbName = "quicknotes"
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetConnectTimeout(10 * time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	return &MongoNoteStore{
		client:   client,
		notes:    db.Collection(notesCollection),
		counters: db.Collection(countersCollection),
	}, nil
}

func (s *MongoNoteStore) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: notesCollection}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (s *MongoNoteStore) Insert(ctx context.Context, n *domain.Note) (bool, error) {
	doc := *n
	if doc.ID == 0 {
		id, err := s.nextID(ctx)
		if err != nil {
			return false, storageErr("allocate note id", err)
		}
		doc.ID = id
	}
	if _, err := s.notes.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, storageErr("insert note", err)
	}
	if n.ID != 0 {
		if err := s.reserveID(ctx, n.ID); err != nil {
			return true, storageErr("reserve note id", err)
		}
	}
	n.ID = doc.ID
	return true, nil
}

// reserveID moves the counter past an explicitly inserted id.
func (s *MongoNoteStore) reserveID(ctx context.Context, id int64) error {
	_, err := s.counters.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: notesCollection}},
		bson.D{{Key: "$max", Value: bson.D{{Key: "seq", Value: id}}}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (s *MongoNoteStore) Update(ctx context.Context, n domain.Note) (bool, error) {
	res, err := s.notes.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: n.ID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "heading", Value: n.Heading},
			{Key: "text", Value: n.Text},
		}}},
	)
	if err != nil {
		return false, storageErr("update note", err)
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoNoteStore) Delete(ctx context.Context, n domain.Note) (bool, error) {
	res, err := s.notes.DeleteOne(ctx, bson.D{{Key: "_id", Value: n.ID}})
	if err != nil {
		return false, storageErr("delete note", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoNoteStore) List(ctx context.Context) ([]domain.Note, error) {
	cur, err := s.notes.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, storageErr("list notes", err)
	}
	notes := []domain.Note{}
	if err := cur.All(ctx, &notes); err != nil {
		return nil, storageErr("list notes", err)
	}
	return notes, nil
}

// Close disconnects the client.
func (s *MongoNoteStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
