package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"events-service/internal/domain"
)

var bucketOverrides = []byte("overrides")

// OverrideStore keeps the manual data typed in for each event, keyed by
// event id.
type OverrideStore struct {
	db *bolt.DB
}

// OpenOverrides opens (and initialises) the bbolt file at path.
func OpenOverrides(path string, options *bolt.Options) (*OverrideStore, error) {
	if options == nil {
		options = &bolt.Options{Timeout: time.Second}
	} else if options.Timeout == 0 {
		options.Timeout = time.Second
	}
	db, err := bolt.Open(path, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir overrides %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketOverrides)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &OverrideStore{db: db}, nil
}

// Close releases the bbolt handle.
func (s *OverrideStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the stored data of an event and whether there was any.
func (s *OverrideStore) Get(eventID string) (domain.ManualData, bool, error) {
	var data domain.ManualData
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketOverrides).Get([]byte(eventID))
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &data)
	})
	if err != nil {
		return domain.ManualData{}, false, fmt.Errorf("erro ao ler override %s: %w", eventID, err)
	}
	return data, found, nil
}

// Set merges data into what is stored for the event: informed fields
// replace the stored ones, the rest is kept. The merged value is returned.
func (s *OverrideStore) Set(eventID string, data domain.ManualData) (domain.ManualData, error) {
	var merged domain.ManualData
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketOverrides)
		var current domain.ManualData
		if raw := bucket.Get([]byte(eventID)); raw != nil {
			if err := json.Unmarshal(raw, &current); err != nil {
				return err
			}
		}
		merged = current.Merge(data)
		encoded, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(eventID), encoded)
	})
	if err != nil {
		return domain.ManualData{}, fmt.Errorf("erro ao salvar override %s: %w", eventID, err)
	}
	return merged, nil
}

// Delete removes the data of an event. ErrNotFound is returned when there
// was nothing stored.
func (s *OverrideStore) Delete(eventID string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketOverrides)
		if bucket.Get([]byte(eventID)) == nil {
			return ErrNotFound
		}
		return bucket.Delete([]byte(eventID))
	})
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("override %s: %w", eventID, ErrNotFound)
	}
	return err
}

// All returns every stored override.
func (s *OverrideStore) All() (map[string]domain.ManualData, error) {
	out := make(map[string]domain.ManualData)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOverrides).ForEach(func(k, v []byte) error {
			var data domain.ManualData
			if err := json.Unmarshal(v, &data); err != nil {
				return err
			}
			out[string(k)] = data
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao listar overrides: %w", err)
	}
	return out, nil
}
