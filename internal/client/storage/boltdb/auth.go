package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/classtrack/internal/client/storage"
)

// The client keeps one session; a new login replaces it
var authKey = []byte("current")

func authBucket(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	b := tx.Bucket(bucketAuth)
	if b == nil {
		return nil, fmt.Errorf("auth bucket not found")
	}
	return b, nil
}

// update and view refuse to run on a closed store instead of panicking
func (s *Storage) update(fn func(*bbolt.Bucket) error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := authBucket(tx)
		if err != nil {
			return err
		}
		return fn(b)
	})
}

func (s *Storage) view(fn func(*bbolt.Bucket) error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		b, err := authBucket(tx)
		if err != nil {
			return err
		}
		return fn(b)
	})
}

// SaveAuth stores the session as JSON
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	data, err := json.Marshal(auth)
	if err != nil {
		return fmt.Errorf("failed to marshal auth data: %w", err)
	}
	return s.update(func(b *bbolt.Bucket) error {
		if err := b.Put(authKey, data); err != nil {
			return fmt.Errorf("failed to save auth data: %w", err)
		}
		return nil
	})
}

// GetAuth returns storage.ErrAuthNotFound when nobody is logged in
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	auth := &storage.AuthData{}
	err := s.view(func(b *bbolt.Bucket) error {
		// bbolt memory is only valid inside the transaction; Unmarshal copies
		data := b.Get(authKey)
		if data == nil {
			return storage.ErrAuthNotFound
		}
		if err := json.Unmarshal(data, auth); err != nil {
			return fmt.Errorf("failed to unmarshal auth data: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return auth, nil
}

// DeleteAuth removes the session (logout)
func (s *Storage) DeleteAuth(ctx context.Context) error {
	return s.update(func(b *bbolt.Bucket) error {
		if b.Get(authKey) == nil {
			return storage.ErrAuthNotFound
		}
		if err := b.Delete(authKey); err != nil {
			return fmt.Errorf("failed to delete auth data: %w", err)
		}
		return nil
	})
}

// IsAuthenticated reports whether a stored session has not yet expired
func (s *Storage) IsAuthenticated(ctx context.Context) (bool, error) {
	auth, err := s.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !auth.Expired(s.now()), nil
}
