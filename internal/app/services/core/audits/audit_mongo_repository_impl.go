package audits

import (
	"context"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditMongoRepository struct {
	Collection *mongo.Collection
}

func NewAuditMongoRepository(db *mongo.Database) *AuditMongoRepository {
	return &AuditMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionAuditLogs),
	}
}

var _ contracts.AuditRepository = (*AuditMongoRepository)(nil)

func (r *AuditMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "targetId", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}, {Key: "timestamp", Value: -1}}},
		{
			Keys: bson.D{{Key: "dedupKey", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"dedupKey": bson.M{"$exists": true}}),
		},
	})
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *AuditMongoRepository) Insert(ctx context.Context, entry *models.AuditEntry) error {
	_, err := r.Collection.InsertOne(ctx, entry)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

// InsertOnce relies on $setOnInsert so a second write with the same dedup key leaves the first entry intact.
func (r *AuditMongoRepository) InsertOnce(ctx context.Context, entry *models.AuditEntry) (bool, error) {
	result, err := r.Collection.UpdateOne(ctx,
		bson.M{"dedupKey": entry.DedupKey},
		bson.M{"$setOnInsert": entry},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.UpsertedCount == 1, nil
}

func (r *AuditMongoRepository) FindByTarget(ctx context.Context, targetID string, limit int) ([]models.AuditEntry, error) {
	return r.find(ctx, bson.M{"targetId": targetID}, limit)
}

func (r *AuditMongoRepository) FindRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *AuditMongoRepository) CountByActionSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"timestamp": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$action"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, exceptions.ErrMongoDBAggregate(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Action string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Action] = row.Count
	}
	return counts, nil
}

// find returns entries newest first; ULID ids break ties within the same timestamp.
func (r *AuditMongoRepository) find(ctx context.Context, filter bson.M, limit int) ([]models.AuditEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.AuditEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return entries, nil
}
