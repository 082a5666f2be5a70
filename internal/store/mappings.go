package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bobsantos/likha-app-sub000/internal/model"
)

// SaveMapping upserts a licensee's confirmed column mapping so future
// uploads resolve those columns without guessing.
func (s *Store) SaveMapping(licenseeID string, mapping model.FieldMapping) error {
	data, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO saved_mappings (licensee_id, mapping_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (licensee_id) DO UPDATE SET
			mapping_json = excluded.mapping_json,
			updated_at = excluded.updated_at`,
		licenseeID, string(data), time.Now())
	return err
}

// GetMapping loads a licensee's saved mapping. A licensee with no saved
// mapping yields nil, not an error.
func (s *Store) GetMapping(licenseeID string) (model.FieldMapping, error) {
	var data string
	err := s.db.QueryRow(`
		SELECT mapping_json FROM saved_mappings WHERE licensee_id = ?`,
		licenseeID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var mapping model.FieldMapping
	if err := json.Unmarshal([]byte(data), &mapping); err != nil {
		return nil, fmt.Errorf("failed to decode mapping: %w", err)
	}
	return mapping, nil
}
