// Package loader seeds the relational store from a CSV of points of
// interest. It runs once at deploy time, before the API starts serving city
// reads.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"city-server/models"

	"github.com/jmoiron/sqlx"
)

const createTableDDL = `
CREATE TABLE IF NOT EXISTS points_of_interest (
    id INT AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    type VARCHAR(50) NOT NULL,
    latitude DOUBLE NOT NULL,
    longitude DOUBLE NOT NULL,
    description TEXT,
    INDEX idx_type (type)
) CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci`

// WaitForMySQL pings until the server answers or the attempts run out. The
// database container usually needs a little longer than the loader to come
// up.
func WaitForMySQL(ctx context.Context, db *sqlx.DB, maxRetries int) error {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := db.PingContext(ctx); err == nil {
			log.Println("MySQL is ready")
			return nil
		} else {
			log.Printf("Attempt %d/%d: MySQL not ready yet (%v)", attempt, maxRetries, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return fmt.Errorf("MySQL did not become ready after %d attempts", maxRetries)
}

// EnsureSchema creates the POI table when absent.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, createTableDDL); err != nil {
		return fmt.Errorf("creating points_of_interest table: %w", err)
	}
	return nil
}

// ParseCSV reads seed POIs from a CSV with a header row of
// name,type,latitude,longitude,description. Rows failing validation are
// skipped with a warning so one bad row does not abort the seed.
func ParseCSV(r io.Reader) ([]*models.POICreate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv has no data rows")
	}

	pois := make([]*models.POICreate, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < 4 {
			log.Printf("Skipping row %d: expected at least 4 columns, got %d", i+2, len(record))
			continue
		}
		lat, latErr := strconv.ParseFloat(record[2], 64)
		lon, lonErr := strconv.ParseFloat(record[3], 64)
		if latErr != nil || lonErr != nil {
			log.Printf("Skipping row %d: unparseable coordinates %q,%q", i+2, record[2], record[3])
			continue
		}
		poi := &models.POICreate{
			Name:      record[0],
			Type:      record[1],
			Latitude:  lat,
			Longitude: lon,
		}
		if len(record) > 4 {
			poi.Description = record[4]
		}
		if err := poi.Validate(); err != nil {
			log.Printf("Skipping row %d (%s): %v", i+2, poi.Name, err)
			continue
		}
		pois = append(pois, poi)
	}
	return pois, nil
}

// Insert writes the seed rows in one batch.
func Insert(ctx context.Context, db *sqlx.DB, pois []*models.POICreate) (int, error) {
	if len(pois) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx,
		"INSERT INTO points_of_interest (name, type, latitude, longitude, description) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing seed insert: %w", err)
	}
	defer stmt.Close()

	for _, poi := range pois {
		if _, err := stmt.ExecContext(ctx, poi.Name, poi.Type, poi.Latitude, poi.Longitude, poi.Description); err != nil {
			return 0, fmt.Errorf("inserting %s: %w", poi.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing seed: %w", err)
	}
	return len(pois), nil
}
