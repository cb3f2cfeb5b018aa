package postgres

import (
	"database/sql"
	"encoding/json"
)

// Snapshot keys for the two independently-addressable stores
const (
	walletKey = "wallet"
	decksKey  = "decks"
)

// loadSnapshot reads the latest snapshot for key into v. Returns false with
// no error when the key has never been saved.
func loadSnapshot(db *sql.DB, key string, v interface{}) (bool, error) {
	var data []byte
	query := `
		SELECT data FROM snapshots
		WHERE key = $1
		ORDER BY id DESC
		LIMIT 1
	`
	err := db.QueryRow(query, key).Scan(&data)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// saveSnapshot appends a full snapshot row for key
func saveSnapshot(db *sql.DB, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	query := `INSERT INTO snapshots (key, data) VALUES ($1, $2)`
	_, err = db.Exec(query, key, data)
	return err
}

// SnapshotRepo implements repository.SnapshotPruner
type SnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepo creates a new snapshot maintenance repository
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// PruneSnapshots deletes superseded snapshot rows, keeping the newest `keep`
// rows per key
func (r *SnapshotRepo) PruneSnapshots(keep int) error {
	query := `
		DELETE FROM snapshots s
		WHERE s.id NOT IN (
			SELECT id FROM snapshots
			WHERE key = s.key
			ORDER BY id DESC
			LIMIT $1
		)
	`
	_, err := r.db.Exec(query, keep)
	return err
}
