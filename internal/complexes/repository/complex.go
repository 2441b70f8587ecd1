package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	complexerrors "arenabook/internal/complexes/errors"
	"arenabook/pkg/config"
	"arenabook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Sport_complexes"
)

type ComplexRepository interface {
	Create(ctx context.Context, complex *model.SportComplex) error
	FindByID(ctx context.Context, id string) (*model.SportComplex, error)
	FindAll(ctx context.Context, city string, sportID string, limit int, offset int64) ([]*model.SportComplex, error)
	CountAll(ctx context.Context, city string, sportID string) (int64, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.SportComplex, error)
	FindByManager(ctx context.Context, managerID string, limit int, offset int64) ([]*model.SportComplex, error)
	CountByManager(ctx context.Context, managerID string) (int64, error)
	ExistsByNameAndManager(ctx context.Context, name string, managerID string) (bool, error)
	Update(ctx context.Context, id string, set bson.M) error
	AddSports(ctx context.Context, id string, sportIDs []string) error
	SoftDelete(ctx context.Context, id string) error
}

type mongoComplexRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoComplexRepository(cfg *config.Config) ComplexRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoComplexRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoComplexRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoComplexRepository) Create(ctx context.Context, complex *model.SportComplex) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	complex.CreatedAt = now
	complex.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, complex)
	if err != nil {
		return fmt.Errorf("failed to create sport complex: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		complex.ID = oid.Hex()
	}
	return nil
}

func (r *mongoComplexRepository) FindByID(ctx context.Context, id string) (*model.SportComplex, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", complexerrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "deleted": bson.M{"$ne": true}}

	var complex model.SportComplex
	err = r.collection.FindOne(ctx, filter).Decode(&complex)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, complexerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sport complex: %w", err)
	}

	return &complex, nil
}

func (r *mongoComplexRepository) buildListFilter(city string, sportID string) bson.M {
	filter := bson.M{"deleted": bson.M{"$ne": true}}
	if city != "" {
		filter["city"] = city
	}
	if sportID != "" {
		filter["sport_ids"] = sportID
	}
	return filter
}

func (r *mongoComplexRepository) FindAll(ctx context.Context, city string, sportID string, limit int, offset int64) ([]*model.SportComplex, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, r.buildListFilter(city, sportID), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find sport complexes: %w", err)
	}
	defer cursor.Close(ctx)

	var complexes []*model.SportComplex
	if err = cursor.All(ctx, &complexes); err != nil {
		return nil, fmt.Errorf("failed to decode sport complexes: %w", err)
	}

	return complexes, nil
}

func (r *mongoComplexRepository) CountAll(ctx context.Context, city string, sportID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, r.buildListFilter(city, sportID))
	if err != nil {
		return 0, fmt.Errorf("failed to count sport complexes: %w", err)
	}
	return count, nil
}

func (r *mongoComplexRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.SportComplex, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, objectID)
	}
	if len(objectIDs) == 0 {
		return map[string]*model.SportComplex{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find sport complexes: %w", err)
	}
	defer cursor.Close(ctx)

	var complexes []*model.SportComplex
	if err = cursor.All(ctx, &complexes); err != nil {
		return nil, fmt.Errorf("failed to decode sport complexes: %w", err)
	}

	byID := make(map[string]*model.SportComplex, len(complexes))
	for _, c := range complexes {
		byID[c.ID] = c
	}
	return byID, nil
}

func (r *mongoComplexRepository) FindByManager(ctx context.Context, managerID string, limit int, offset int64) ([]*model.SportComplex, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"manager_id": managerID, "deleted": bson.M{"$ne": true}}
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find sport complexes by manager: %w", err)
	}
	defer cursor.Close(ctx)

	var complexes []*model.SportComplex
	if err = cursor.All(ctx, &complexes); err != nil {
		return nil, fmt.Errorf("failed to decode sport complexes: %w", err)
	}

	return complexes, nil
}

func (r *mongoComplexRepository) CountByManager(ctx context.Context, managerID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"manager_id": managerID, "deleted": bson.M{"$ne": true}})
	if err != nil {
		return 0, fmt.Errorf("failed to count sport complexes by manager: %w", err)
	}
	return count, nil
}

func (r *mongoComplexRepository) ExistsByNameAndManager(ctx context.Context, name string, managerID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"name": name, "manager_id": managerID, "deleted": bson.M{"$ne": true}}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check sport complex name: %w", err)
	}
	return count > 0, nil
}

func (r *mongoComplexRepository) Update(ctx context.Context, id string, set bson.M) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", complexerrors.ErrInvalidID, id)
	}

	set["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"_id": objectID, "deleted": bson.M{"$ne": true}}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update sport complex: %w", err)
	}

	if result.MatchedCount == 0 {
		return complexerrors.ErrNotFound
	}

	return nil
}

func (r *mongoComplexRepository) AddSports(ctx context.Context, id string, sportIDs []string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", complexerrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "deleted": bson.M{"$ne": true}}
	update := bson.M{
		"$addToSet": bson.M{"sport_ids": bson.M{"$each": sportIDs}},
		"$set":      bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add sports to complex: %w", err)
	}

	if result.MatchedCount == 0 {
		return complexerrors.ErrNotFound
	}

	return nil
}

func (r *mongoComplexRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", complexerrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "deleted": bson.M{"$ne": true}}
	update := bson.M{"$set": bson.M{
		"deleted":    true,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to delete sport complex: %w", err)
	}

	if result.MatchedCount == 0 {
		return complexerrors.ErrNotFound
	}

	return nil
}
