package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"city-server/models"

	"github.com/jmoiron/sqlx"
)

// POIStore is the relational access layer for points of interest. The MySQL
// implementation lives below; tests substitute an in-memory fake.
type POIStore interface {
	List(ctx context.Context, poiType string, limit int) ([]models.POI, error)
	Get(ctx context.Context, id int64) (*models.POI, error)
	Create(ctx context.Context, poi *models.POICreate) (*models.POI, error)
	Search(ctx context.Context, query, field string, limit int) ([]models.POI, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// ErrNoRecord is returned by store implementations when a lookup matches
// nothing, so services can distinguish absence from backend failure.
var ErrNoRecord = sql.ErrNoRows

type mysqlPOIStore struct {
	db *sqlx.DB
}

// NewMySQLPOIStore wraps a connected sqlx handle.
func NewMySQLPOIStore(db *sqlx.DB) POIStore {
	return &mysqlPOIStore{db: db}
}

func (s *mysqlPOIStore) List(ctx context.Context, poiType string, limit int) ([]models.POI, error) {
	pois := []models.POI{}
	var err error
	if poiType != "" {
		err = s.db.SelectContext(ctx, &pois,
			"SELECT id, name, type, latitude, longitude, description FROM points_of_interest WHERE type = ? ORDER BY id LIMIT ?",
			poiType, limit)
	} else {
		err = s.db.SelectContext(ctx, &pois,
			"SELECT id, name, type, latitude, longitude, description FROM points_of_interest ORDER BY id LIMIT ?",
			limit)
	}
	if err != nil {
		return nil, fmt.Errorf("listing pois: %w", err)
	}
	return pois, nil
}

func (s *mysqlPOIStore) Get(ctx context.Context, id int64) (*models.POI, error) {
	var poi models.POI
	err := s.db.GetContext(ctx, &poi,
		"SELECT id, name, type, latitude, longitude, description FROM points_of_interest WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &poi, nil
}

func (s *mysqlPOIStore) Create(ctx context.Context, poi *models.POICreate) (*models.POI, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO points_of_interest (name, type, latitude, longitude, description) VALUES (?, ?, ?, ?, ?)",
		poi.Name, poi.Type, poi.Latitude, poi.Longitude, poi.Description)
	if err != nil {
		return nil, fmt.Errorf("inserting poi: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading insert id: %w", err)
	}
	return s.Get(ctx, id)
}

// Search matches a case-insensitive substring against name or type. Field is
// validated by the service before it reaches SQL.
func (s *mysqlPOIStore) Search(ctx context.Context, query, field string, limit int) ([]models.POI, error) {
	pois := []models.POI{}
	stmt := fmt.Sprintf(
		"SELECT id, name, type, latitude, longitude, description FROM points_of_interest WHERE LOWER(%s) LIKE ? ORDER BY id LIMIT ?",
		field)
	pattern := "%" + strings.ToLower(query) + "%"
	if err := s.db.SelectContext(ctx, &pois, stmt, pattern, limit); err != nil {
		return nil, fmt.Errorf("searching pois: %w", err)
	}
	return pois, nil
}

func (s *mysqlPOIStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM points_of_interest"); err != nil {
		return 0, fmt.Errorf("counting pois: %w", err)
	}
	return count, nil
}

func (s *mysqlPOIStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
