package repository

import (
	"context"
	"errors"
	"fmt"

	complexerrors "arenabook/internal/complexes/errors"
	"arenabook/pkg/config"
	"arenabook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	SportCollectionName = "Sports"
)

// The sports catalogue is small and changes rarely, so reads go straight
// to the collection without caching.
type SportRepository interface {
	FindByID(ctx context.Context, id string) (*model.Sport, error)
	FindByName(ctx context.Context, name string) (*model.Sport, error)
	FindAll(ctx context.Context) ([]*model.Sport, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.Sport, error)
}

type mongoSportRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSportRepository(cfg *config.Config) SportRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSportRepository{
		cfg:        cfg,
		collection: db.Collection(SportCollectionName),
	}
}

func (r *mongoSportRepository) FindByID(ctx context.Context, id string) (*model.Sport, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", complexerrors.ErrSportNotFound, id)
	}

	var sport model.Sport
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&sport)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, complexerrors.ErrSportNotFound
		}
		return nil, fmt.Errorf("failed to find sport: %w", err)
	}

	return &sport, nil
}

func (r *mongoSportRepository) FindByName(ctx context.Context, name string) (*model.Sport, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var sport model.Sport
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&sport)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, complexerrors.ErrSportNotFound
		}
		return nil, fmt.Errorf("failed to find sport by name: %w", err)
	}

	return &sport, nil
}

func (r *mongoSportRepository) FindAll(ctx context.Context) ([]*model.Sport, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find sports: %w", err)
	}
	defer cursor.Close(ctx)

	var sports []*model.Sport
	if err = cursor.All(ctx, &sports); err != nil {
		return nil, fmt.Errorf("failed to decode sports: %w", err)
	}

	return sports, nil
}

func (r *mongoSportRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Sport, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
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
		return map[string]*model.Sport{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find sports: %w", err)
	}
	defer cursor.Close(ctx)

	var sports []*model.Sport
	if err = cursor.All(ctx, &sports); err != nil {
		return nil, fmt.Errorf("failed to decode sports: %w", err)
	}

	byID := make(map[string]*model.Sport, len(sports))
	for _, s := range sports {
		byID[s.ID] = s
	}
	return byID, nil
}
