package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"city-server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StationStore is the document access layer for bike station snapshots.
type StationStore interface {
	List(ctx context.Context, minBikes, limit int) ([]models.BikeStation, error)
	Get(ctx context.Context, stationID string) (*models.BikeStation, error)
	Upsert(ctx context.Context, station *models.BikeStation) error
	CountAndSum(ctx context.Context) (stations, bikes int64, err error)
	Ping(ctx context.Context) error
}

type mongoStationStore struct {
	collection *mongo.Collection
}

// NewMongoStationStore wraps the bike_stations collection and ensures the
// indexes the queries rely on: unique station_id for idempotent upserts and
// last_updated for time-based queries.
func NewMongoStationStore(ctx context.Context, collection *mongo.Collection) StationStore {
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "station_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "last_updated", Value: 1}},
		},
	})
	if err != nil {
		log.Printf("Failed to create station indexes: %v", err)
	}
	return &mongoStationStore{collection: collection}
}

func (s *mongoStationStore) List(ctx context.Context, minBikes, limit int) ([]models.BikeStation, error) {
	filter := bson.M{"bikes_available": bson.M{"$gte": minBikes}}
	opts := options.Find().
		SetSort(bson.D{{Key: "station_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}
	defer cursor.Close(ctx)

	stations := []models.BikeStation{}
	if err := cursor.All(ctx, &stations); err != nil {
		return nil, fmt.Errorf("decoding stations: %w", err)
	}
	return stations, nil
}

func (s *mongoStationStore) Get(ctx context.Context, stationID string) (*models.BikeStation, error) {
	var station models.BikeStation
	err := s.collection.FindOne(ctx, bson.M{"station_id": stationID}).Decode(&station)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("fetching station %s: %w", stationID, err)
	}
	return &station, nil
}

// Upsert overwrites the snapshot for the station's id, inserting when absent.
// Keyed on station_id, so concurrent or repeated syncs never duplicate a
// station.
func (s *mongoStationStore) Upsert(ctx context.Context, station *models.BikeStation) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"station_id": station.StationID},
		bson.M{"$set": station},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upserting station %s: %w", station.StationID, err)
	}
	return nil
}

func (s *mongoStationStore) CountAndSum(ctx context.Context) (int64, int64, error) {
	stations, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, fmt.Errorf("counting stations: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$bikes_available"}}}},
	}
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("summing bikes: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, fmt.Errorf("decoding bike sum: %w", err)
	}
	var bikes int64
	if len(results) > 0 {
		bikes = results[0].Total
	}
	return stations, bikes, nil
}

func (s *mongoStationStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.collection.Database().Client().Ping(ctx, nil)
}
