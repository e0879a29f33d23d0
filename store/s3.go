/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mikeb26/boylstonchessclub-bracketbot/s3store"
)

const keyPrefix = "brackets/"

// S3Store keeps one JSON object per bracket under the brackets/ prefix.
type S3Store struct {
	objects *s3store.Store
}

// NewS3Store returns a Store backed by an initialized s3store.Store.
func NewS3Store(objects *s3store.Store) *S3Store {
	return &S3Store{objects: objects}
}

func (s *S3Store) Save(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("unable to encode bracket %v: %w", rec.ID, err)
	}

	return s.objects.Write(ctx, keyPrefix+rec.ID, data)
}

func (s *S3Store) Load(ctx context.Context, id string) (*Record, error) {
	data, err := s.objects.Read(ctx, keyPrefix+id)
	if errors.Is(err, s3store.ErrNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unable to parse bracket %v: %w", id, err)
	}

	return &rec, nil
}

func (s *S3Store) Delete(ctx context.Context, id string) error {
	return s.objects.Remove(ctx, keyPrefix+id)
}

// List returns the ids of stored brackets that begin with prefix, e.g. an
// event id followed by "/".
func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.objects.List(ctx, keyPrefix+prefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, keyPrefix))
	}

	return ids, nil
}
