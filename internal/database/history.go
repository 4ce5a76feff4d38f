package database

import (
	"database/sql"
	"time"
)

// ActionRecord is one row of the append-only action log.
type ActionRecord struct {
	ID         int64          `db:"id"`
	GameID     string         `db:"game_id"`
	PlayerID   sql.NullString `db:"player_id"`
	Turn       int            `db:"turn"`
	Kind       string         `db:"kind"`
	ActionJSON string         `db:"action_json"`
	ResultJSON sql.NullString `db:"result_json"`
	CreatedAt  time.Time      `db:"created_at"`
}

// LogAction appends an applied action to the game's log.
func (db *DB) LogAction(gameID, playerID string, turn int, kind, actionJSON, resultJSON string) error {
	_, err := db.conn.Exec(`
		INSERT INTO game_actions (game_id, player_id, turn, kind, action_json, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, gameID, playerID, turn, kind, actionJSON, resultJSON, time.Now())
	return err
}

// GetGameActions retrieves the full action log for a game in order.
func (db *DB) GetGameActions(gameID string) ([]*ActionRecord, error) {
	var records []*ActionRecord
	err := db.conn.Select(&records, `
		SELECT id, game_id, player_id, turn, kind, action_json, result_json, created_at
		FROM game_actions
		WHERE game_id = ?
		ORDER BY id ASC
	`, gameID)
	return records, err
}

// GetGameActionsSince retrieves actions after a given log ID.
func (db *DB) GetGameActionsSince(gameID string, afterID int64) ([]*ActionRecord, error) {
	var records []*ActionRecord
	err := db.conn.Select(&records, `
		SELECT id, game_id, player_id, turn, kind, action_json, result_json, created_at
		FROM game_actions
		WHERE game_id = ? AND id > ?
		ORDER BY id ASC
	`, gameID, afterID)
	return records, err
}
