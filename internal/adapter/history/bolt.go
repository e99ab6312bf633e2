// Package history persists chat turns per session in BoltDB.
package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"cnpjchat/internal/domain"
)

var bucketSessions = []byte("sessions")

// BoltHistory stores one nested bucket per session, keyed by insertion
// sequence, so Turns replays a conversation in order.
type BoltHistory struct {
	db *bbolt.DB
}

type turnRecord struct {
	Question string `json:"q"`
	Response string `json:"r"`
	Unix     int64  `json:"t"`
}

// NewBoltHistory opens (or creates) the history database at path.
func NewBoltHistory(path string) (*BoltHistory, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltHistory{db: db}, nil
}

// Append records one turn at the end of its session.
func (s *BoltHistory) Append(turn domain.HistoryTurn) error {
	if turn.Session == "" {
		return fmt.Errorf("history turn without session id")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		sessions := tx.Bucket(bucketSessions)
		b, err := sessions.CreateBucketIfNotExists([]byte(turn.Session))
		if err != nil {
			return err
		}

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		data, err := json.Marshal(turnRecord{
			Question: turn.Question,
			Response: turn.Response,
			Unix:     turn.Unix,
		})
		if err != nil {
			return err
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, data)
	})
}

// Turns returns the session's turns in insertion order. An unknown
// session yields an empty slice, not an error.
func (s *BoltHistory) Turns(session string) ([]domain.HistoryTurn, error) {
	var turns []domain.HistoryTurn
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSessions).Bucket([]byte(session))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var rec turnRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil // Skip corrupted entries
			}
			turns = append(turns, domain.HistoryTurn{
				Session:  session,
				Question: rec.Question,
				Response: rec.Response,
				Unix:     rec.Unix,
			})
			return nil
		})
	})
	return turns, err
}

// Close closes the underlying database.
func (s *BoltHistory) Close() error {
	return s.db.Close()
}
