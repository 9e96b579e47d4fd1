package pubsub

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const dbFile = "pubsub.db"

var (
	subsBucket        = []byte("subscriptions")
	subsByEventBucket = []byte("subscriptionsbyevent")

	// separator equivalent character is Ã¿.
	// Should be fine to use such value  since it's not used for Secret (jwt
	// base64-encoded token), nor for Endpoint (http url).
	separator = []byte{255}
)

// store persists subscriptions in a bolt db with 2 buckets: one indexing them
// by id, the other listing them by event.
type store struct {
	db *bbolt.DB
}

func newStore(datadir string) (*store, error) {
	if err := os.MkdirAll(datadir, 0700); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(
		filepath.Join(datadir, dbFile), 0600,
		&bbolt.Options{Timeout: time.Second},
	)
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(subsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(subsByEventBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &store{db}, nil
}

func (s *store) addWebhook(wh *webhook) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		id := []byte(wh.ID)
		if tx.Bucket(subsBucket).Get(id) != nil {
			return nil
		}
		buf := wh.marshal()
		if err := tx.Bucket(subsBucket).Put(id, buf); err != nil {
			return err
		}

		key := []byte(wh.Event)
		subs := splitSubscriptions(tx.Bucket(subsByEventBucket).Get(key))
		subs = append(subs, buf)
		return tx.Bucket(subsByEventBucket).Put(key, bytes.Join(subs, separator))
	})
}

func (s *store) removeWebhook(id string) (*webhook, error) {
	var wh *webhook
	err := s.db.Update(func(tx *bbolt.Tx) error {
		buf := tx.Bucket(subsBucket).Get([]byte(id))
		if buf == nil {
			return errSubscriptionNotFound
		}

		var err error
		if wh, err = parseWebhook(buf); err != nil {
			return err
		}
		if err := tx.Bucket(subsBucket).Delete([]byte(id)); err != nil {
			return err
		}

		key := []byte(wh.Event)
		subs := splitSubscriptions(tx.Bucket(subsByEventBucket).Get(key))
		updated := make([][]byte, 0, len(subs))
		for _, buf := range subs {
			other, err := parseWebhook(buf)
			if err != nil || other.ID == wh.ID {
				continue
			}
			updated = append(updated, buf)
		}

		if len(updated) <= 0 {
			return tx.Bucket(subsByEventBucket).Delete(key)
		}
		return tx.Bucket(subsByEventBucket).Put(
			key, bytes.Join(updated, separator),
		)
	})
	if err != nil {
		return nil, err
	}
	return wh, nil
}

// getSerializedWebhooks returns the webhooks for the given topic, or all of
// them if the topic is unspecified.
func (s *store) getSerializedWebhooks(topic string) [][]byte {
	subs := make([][]byte, 0)
	//nolint
	s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(subsByEventBucket)
		if len(topic) <= 0 {
			return bucket.ForEach(func(_, v []byte) error {
				subs = append(subs, splitSubscriptions(v)...)
				return nil
			})
		}
		subs = splitSubscriptions(bucket.Get([]byte(topic)))
		return nil
	})
	return subs
}

func (s *store) close() error {
	return s.db.Close()
}

// splitSubscriptions copies the given bolt value since it is valid only
// for the life of the transaction.
func splitSubscriptions(buf []byte) [][]byte {
	if len(buf) <= 0 {
		return nil
	}
	return bytes.Split(bytes.Clone(buf), separator)
}
