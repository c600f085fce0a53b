package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetAs reads the addressed document into a value of type T.
func GetAs[T any](ctx context.Context, s *Store, owner, collection, id string) (*T, error) {
	var out T
	if err := s.Get(ctx, owner, collection, id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAs returns every document in the collection decoded as T.
func ListAs[T any](ctx context.Context, s *Store, owner, collection string) ([]T, error) {
	raws, err := s.ListRaw(ctx, owner, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", collection, err)
		}
		out = append(out, v)
	}
	return out, nil
}
