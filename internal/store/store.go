// Package store is the document-store adapter. It keeps hierarchical
// users/{userId}/{collection}/{docId} addressing
// on top of a single relational table with a JSON payload column, so callers
// get Firestore-like semantics: auto-assigned ids, idempotent set, partial
// merge on update, and no ordering guarantee on list.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when the addressed document does not exist.
var ErrNotFound = errors.New("document not found")

// RootOwner addresses collections that are not scoped under a user
// (the users collection itself and the flat quizSubmissions collection).
const RootOwner = ""

// Collection names used across the application.
const (
	Users           = "users"
	Pets            = "pets"
	Subscriptions   = "subscriptions"
	PaymentMethods  = "paymentMethods"
	QuizSubmissions = "quizSubmissions"
)

// Document is the single table backing every collection.
type Document struct {
	OwnerID    string         `gorm:"primaryKey;size:128"`
	Collection string         `gorm:"primaryKey;size:64"`
	DocID      string         `gorm:"primaryKey;size:128"`
	Data       datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Store wraps the database handle. All operations are per-call scoped by
// (owner, collection); there is no cross-collection integrity beyond that.
type Store struct {
	db *gorm.DB
}

// New creates a Store and ensures the documents table exists.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &Store{db: db}, nil
}

// Create writes v under a freshly assigned id and returns that id. The id is
// also injected into the stored payload under the "id" key so reads carry it.
func (s *Store) Create(ctx context.Context, owner, collection string, v any) (string, error) {
	id := uuid.New().String()
	if err := s.put(ctx, owner, collection, id, v); err != nil {
		return "", err
	}
	return id, nil
}

// Set writes v under the given id, inserting or fully replacing. Idempotent.
func (s *Store) Set(ctx context.Context, owner, collection, id string, v any) error {
	return s.put(ctx, owner, collection, id, v)
}

func (s *Store) put(ctx context.Context, owner, collection, id string, v any) error {
	data, err := encodeWithID(v, id)
	if err != nil {
		return err
	}

	doc := Document{
		OwnerID:    owner,
		Collection: collection,
		DocID:      id,
		Data:       data,
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "collection"}, {Name: "doc_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&doc).Error
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, id, err)
	}
	return nil
}

// Get unmarshals the addressed document into out.
func (s *Store) Get(ctx context.Context, owner, collection, id string, out any) error {
	var doc Document
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND collection = ? AND doc_id = ?", owner, collection, id).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(doc.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	return nil
}

// Exists reports whether the addressed document is present.
func (s *Store) Exists(ctx context.Context, owner, collection, id string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Document{}).
		Where("owner_id = ? AND collection = ? AND doc_id = ?", owner, collection, id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check %s/%s: %w", collection, id, err)
	}
	return count > 0, nil
}

// ListRaw returns the raw payloads of every document in the collection, in
// store order (no guarantee).
func (s *Store) ListRaw(ctx context.Context, owner, collection string) ([]json.RawMessage, error) {
	var docs []Document
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND collection = ?", owner, collection).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = json.RawMessage(d.Data)
	}
	return out, nil
}

// Update merges the supplied fields into the stored payload. Fields absent
// from patch keep their stored values; the "id" key cannot be overwritten.
// Returns ErrNotFound if the document does not exist.
func (s *Store) Update(ctx context.Context, owner, collection, id string, patch map[string]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc Document
		err := tx.Where("owner_id = ? AND collection = ? AND doc_id = ?", owner, collection, id).
			First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read %s/%s: %w", collection, id, err)
		}

		merged := map[string]any{}
		if err := json.Unmarshal(doc.Data, &merged); err != nil {
			return fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
		}
		for k, v := range patch {
			merged[k] = v
		}
		merged["id"] = id

		data, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
		}

		return tx.Model(&Document{}).
			Where("owner_id = ? AND collection = ? AND doc_id = ?", owner, collection, id).
			Update("data", datatypes.JSON(data)).Error
	})
}

// Delete removes the addressed document. Deleting an absent document is not
// an error; there is no cascade to other collections.
func (s *Store) Delete(ctx context.Context, owner, collection, id string) error {
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND collection = ? AND doc_id = ?", owner, collection, id).
		Delete(&Document{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// RunBatch runs fn against a transactional view of the store. Every write in
// fn commits atomically. Used only by the first-sign-in seeding.
func (s *Store) RunBatch(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// encodeWithID marshals v and forces the "id" key into the payload so every
// read returns the document id alongside its fields.
func encodeWithID(v any, id string) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("document payload must be a JSON object: %w", err)
	}
	m["id"] = id
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return datatypes.JSON(data), nil
}
