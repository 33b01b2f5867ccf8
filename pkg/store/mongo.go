package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRecord is the stored document. UUIDs are kept as strings so the
// documents stay readable from the mongo shell.
type mongoRecord struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	InputHash string    `bson:"input_hash,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
	NodeCount int       `bson:"node_count"`
	EdgeCount int       `bson:"edge_count"`
	Ranks     int       `bson:"ranks"`
	Dual      bool      `bson:"built_dually"`
	Data      []byte    `bson:"data,omitempty"`
}

func toMongo(r Record) mongoRecord {
	return mongoRecord{
		ID: r.ID.String(), Name: r.Name, InputHash: r.InputHash,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
		NodeCount: r.NodeCount, EdgeCount: r.EdgeCount, Ranks: r.Ranks,
		Dual: r.Dual, Data: r.Data,
	}
}

func (m mongoRecord) record() (Record, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return Record{}, fmt.Errorf("bad id %q: %w", m.ID, err)
	}
	return Record{
		ID: id, Name: m.Name, InputHash: m.InputHash,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
		NodeCount: m.NodeCount, EdgeCount: m.EdgeCount, Ranks: m.Ranks,
		Dual: m.Dual, Data: m.Data,
	}, nil
}

// MongoStore keeps records in one MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to uri and uses database.collection "lattices".
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection("lattices")}, nil
}

// Save upserts a record.
func (s *MongoStore) Save(ctx context.Context, r Record) (Record, error) {
	// Mongo stores milliseconds.
	r = prepare(r, time.Now().UTC().Truncate(time.Millisecond))
	doc := toMongo(r)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return Record{}, fmt.Errorf("upsert lattice: %w", err)
	}
	return r, nil
}

// Update replaces a record if updated_at still matches since.
func (s *MongoStore) Update(ctx context.Context, r Record, since time.Time) (Record, error) {
	since = since.UTC().Truncate(time.Millisecond)
	r.UpdatedAt = stamp(since, time.Now().UTC().Truncate(time.Millisecond), time.Millisecond)
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": r.ID.String(), "updated_at": since},
		bson.M{"$set": bson.M{
			"name":         r.Name,
			"input_hash":   r.InputHash,
			"updated_at":   r.UpdatedAt,
			"node_count":   r.NodeCount,
			"edge_count":   r.EdgeCount,
			"ranks":        r.Ranks,
			"built_dually": r.Dual,
			"data":         r.Data,
		}})
	if err != nil {
		return Record{}, fmt.Errorf("update lattice: %w", err)
	}
	if res.MatchedCount == 0 {
		cur, err := s.Load(ctx, r.ID)
		if err != nil {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("%w: %s was updated at %s", ErrConflict, r.ID, cur.UpdatedAt.Format(time.RFC3339Nano))
	}
	if r.CreatedAt.IsZero() {
		return s.Load(ctx, r.ID)
	}
	return r, nil
}

// Load fetches a record with its data.
func (s *MongoStore) Load(ctx context.Context, id uuid.UUID) (Record, error) {
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("load lattice: %w", err)
	}
	return doc.record()
}

// List returns summaries, newest first. A non-positive limit means all.
func (s *MongoStore) List(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"data": 0})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list lattices: %w", err)
	}
	defer cur.Close(ctx)

	var out []Record
	for cur.Next(ctx) {
		var doc mongoRecord
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode lattice: %w", err)
		}
		r, err := doc.record()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, cur.Err()
}

// Delete removes a record.
func (s *MongoStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete lattice: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
