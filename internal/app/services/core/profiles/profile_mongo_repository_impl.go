package profiles

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

type ProfileMongoRepository struct {
	Collection *mongo.Collection
}

func NewProfileMongoRepository(db *mongo.Database) *ProfileMongoRepository {
	return &ProfileMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionProfiles),
	}
}

var _ contracts.ProfileRepository = (*ProfileMongoRepository)(nil)

func (r *ProfileMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "updatedAt", Value: 1}}},
	})
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *ProfileMongoRepository) Create(ctx context.Context, profile *models.Profile) error {
	_, err := r.Collection.InsertOne(ctx, profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptions.ErrProfileAlreadyExists(err, profile.ID)
		}
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *ProfileMongoRepository) FindByID(ctx context.Context, profileID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.Collection.FindOne(ctx, bson.M{"_id": profileID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &profile, nil
}

// UpdateIfVersion writes the mutable fields and bumps the version in a single
// conditional update; claimsVersion is owned by MarkClaimsSynced and left untouched.
func (r *ProfileMongoRepository) UpdateIfVersion(ctx context.Context, profile *models.Profile, expectedVersion int64) (bool, error) {
	filter := bson.M{"_id": profile.ID, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"role":            profile.Role,
			"status":          profile.Status,
			"structureScope":  profile.StructureScope,
			"fullName":        profile.FullName,
			"email":           profile.Email,
			"history":         profile.History,
			"adminNotes":      profile.AdminNotes,
			"rejectionReason": profile.RejectionReason,
			"approvedBy":      profile.ApprovedBy,
			"approvedAt":      profile.ApprovedAt,
			"rejectedBy":      profile.RejectedBy,
			"rejectedAt":      profile.RejectedAt,
			"updatedBy":       profile.UpdatedBy,
			"updatedAt":       profile.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.Collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(false))
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return false, nil
	}
	profile.Version = expectedVersion + 1
	return true, nil
}

func (r *ProfileMongoRepository) MarkClaimsSynced(ctx context.Context, profileID string, version int64) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": profileID},
		bson.M{"$max": bson.M{"claimsVersion": version}},
	)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *ProfileMongoRepository) FindClaimsLagging(ctx context.Context, updatedBefore time.Time, limit int) ([]models.Profile, error) {
	filter := bson.M{
		"$expr":     bson.M{"$lt": bson.A{"$claimsVersion", "$version"}},
		"updatedAt": bson.M{"$lt": updatedBefore},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	profiles := make([]models.Profile, 0)
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return profiles, nil
}

func (r *ProfileMongoRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return r.countGroupedBy(ctx, "$status")
}

func (r *ProfileMongoRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	return r.countGroupedBy(ctx, "$role")
}

func (r *ProfileMongoRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	count, err := r.Collection.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
	if err != nil {
		return 0, exceptions.ErrMongoDBCountDocuments(err)
	}
	return count, nil
}

func (r *ProfileMongoRepository) countGroupedBy(ctx context.Context, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, exceptions.ErrMongoDBAggregate(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}
