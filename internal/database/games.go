package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GameStatus represents the current status of a game.
type GameStatus string

const (
	GameStatusWaiting  GameStatus = "waiting"  // In lobby, waiting for players
	GameStatusStarted  GameStatus = "started"  // Game in progress
	GameStatusFinished GameStatus = "finished" // Game completed
)

// GameInfo contains basic game information for listings.
type GameInfo struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	JoinCode     string     `db:"join_code"`
	IsPublic     bool       `db:"is_public"`
	Status       GameStatus `db:"status"`
	HostPlayerID string     `db:"host_player_id"`
	PlayerCount  int        `db:"player_count"`
	MaxPlayers   int        `db:"max_players"`
	CreatedAt    time.Time  `db:"created_at"`
}

// Game contains full game data.
type Game struct {
	GameInfo
	Settings  GameSettings
	WinnerID  string
	StartedAt *time.Time
	EndedAt   *time.Time
}

// GameSettings contains configurable game parameters, stored as JSON.
type GameSettings struct {
	MaxPlayers int    `json:"max_players"`
	MapRadius  int    `json:"map_radius"`
	MapSeed    int64  `json:"map_seed,omitempty"`
	RngSeed    int64  `json:"rng_seed,omitempty"`
	Victory    string `json:"victory,omitempty"`
}

// GamePlayer represents a player's seat in a game.
type GamePlayer struct {
	GameID      string    `db:"game_id"`
	PlayerID    string    `db:"player_id"`
	PlayerName  string    `db:"player_name"`
	Slot        int       `db:"slot"`
	FactionID   string    `db:"faction_id"`
	IsReady     bool      `db:"is_ready"`
	IsConnected bool      `db:"is_connected"`
	JoinedAt    time.Time `db:"joined_at"`
}

// ErrGameNotFound is returned when a game is not found.
var ErrGameNotFound = errors.New("game not found")

// ErrJoinCodeNotFound is returned when a join code is invalid.
var ErrJoinCodeNotFound = errors.New("invalid join code")

// ErrGameFull is returned when a game has reached max players.
var ErrGameFull = errors.New("game is full")

// ErrAlreadyInGame is returned when player is already in the game.
var ErrAlreadyInGame = errors.New("already in game")

// ErrGameStarted is returned when a lobby operation targets a started game.
var ErrGameStarted = errors.New("game already started")

// CreateGame creates a new game in the waiting state.
func (db *DB) CreateGame(name string, hostPlayerID string, settings GameSettings, isPublic bool) (*Game, error) {
	id := uuid.New().String()
	joinCode := generateJoinCode()

	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = db.conn.Exec(`
		INSERT INTO games (id, name, join_code, is_public, status, host_player_id, settings_json, max_players, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, name, joinCode, isPublic, GameStatusWaiting, hostPlayerID, string(settingsJSON), settings.MaxPlayers, now)
	if err != nil {
		return nil, err
	}

	return &Game{
		GameInfo: GameInfo{
			ID:           id,
			Name:         name,
			JoinCode:     joinCode,
			IsPublic:     isPublic,
			Status:       GameStatusWaiting,
			HostPlayerID: hostPlayerID,
			PlayerCount:  0,
			MaxPlayers:   settings.MaxPlayers,
			CreatedAt:    now,
		},
		Settings: settings,
	}, nil
}

type gameRow struct {
	GameInfo
	SettingsJSON string         `db:"settings_json"`
	WinnerID     sql.NullString `db:"winner_id"`
	StartedAt    sql.NullTime   `db:"started_at"`
	EndedAt      sql.NullTime   `db:"ended_at"`
}

func (r *gameRow) toGame() (*Game, error) {
	g := &Game{GameInfo: r.GameInfo}
	if err := json.Unmarshal([]byte(r.SettingsJSON), &g.Settings); err != nil {
		return nil, err
	}
	if r.WinnerID.Valid {
		g.WinnerID = r.WinnerID.String
	}
	if r.StartedAt.Valid {
		g.StartedAt = &r.StartedAt.Time
	}
	if r.EndedAt.Valid {
		g.EndedAt = &r.EndedAt.Time
	}
	return g, nil
}

// GetGame retrieves a game by ID.
func (db *DB) GetGame(id string) (*Game, error) {
	var row gameRow
	err := db.conn.Get(&row, `
		SELECT id, name, join_code, is_public, status, host_player_id, settings_json,
		       max_players, winner_id, created_at, started_at, ended_at,
		       (SELECT COUNT(*) FROM game_players WHERE game_id = games.id) AS player_count
		FROM games WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toGame()
}

// GetGameByJoinCode retrieves a game by its join code.
func (db *DB) GetGameByJoinCode(code string) (*Game, error) {
	var id string
	err := db.conn.Get(&id, `SELECT id FROM games WHERE join_code = ?`, strings.ToUpper(code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJoinCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return db.GetGame(id)
}

// ListPublicGames returns all public games that are waiting for players.
func (db *DB) ListPublicGames() ([]*GameInfo, error) {
	var games []*GameInfo
	err := db.conn.Select(&games, `
		SELECT g.id, g.name, g.join_code, g.is_public, g.status,
		       g.host_player_id, g.max_players, g.created_at,
		       (SELECT COUNT(*) FROM game_players WHERE game_id = g.id) AS player_count
		FROM games g
		WHERE g.is_public = TRUE AND g.status = ?
		ORDER BY g.created_at DESC
	`, GameStatusWaiting)
	return games, err
}

// JoinGame adds a player to a waiting game, assigning the next free slot.
func (db *DB) JoinGame(gameID, playerID string) error {
	game, err := db.GetGame(gameID)
	if err != nil {
		return err
	}

	if game.Status != GameStatusWaiting {
		return ErrGameStarted
	}

	var exists int
	db.conn.Get(&exists, `SELECT COUNT(*) FROM game_players WHERE game_id = ? AND player_id = ?`,
		gameID, playerID)
	if exists > 0 {
		return ErrAlreadyInGame
	}

	if game.PlayerCount >= game.MaxPlayers {
		return ErrGameFull
	}

	var maxSlot sql.NullInt64
	db.conn.Get(&maxSlot, `SELECT MAX(slot) FROM game_players WHERE game_id = ?`, gameID)
	slot := 0
	if maxSlot.Valid {
		slot = int(maxSlot.Int64) + 1
	}

	_, err = db.conn.Exec(`
		INSERT INTO game_players (game_id, player_id, slot, faction_id, is_ready, is_connected, joined_at)
		VALUES (?, ?, ?, '', FALSE, FALSE, ?)
	`, gameID, playerID, slot, time.Now())
	return err
}

// LeaveGame removes a player from a game.
func (db *DB) LeaveGame(gameID, playerID string) error {
	result, err := db.conn.Exec(`
		DELETE FROM game_players WHERE game_id = ? AND player_id = ?
	`, gameID, playerID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.New("player not in game")
	}
	return nil
}

// GetGamePlayers returns all players in a game, ordered by slot.
func (db *DB) GetGamePlayers(gameID string) ([]*GamePlayer, error) {
	var players []*GamePlayer
	err := db.conn.Select(&players, `
		SELECT gp.game_id, gp.player_id, p.name AS player_name, gp.slot, gp.faction_id,
		       gp.is_ready, gp.is_connected, gp.joined_at
		FROM game_players gp
		JOIN players p ON gp.player_id = p.id
		WHERE gp.game_id = ?
		ORDER BY gp.slot
	`, gameID)
	return players, err
}

// SetPlayerFaction sets a player's chosen faction in the lobby.
func (db *DB) SetPlayerFaction(gameID, playerID, factionID string) error {
	_, err := db.conn.Exec(`
		UPDATE game_players SET faction_id = ? WHERE game_id = ? AND player_id = ?
	`, factionID, gameID, playerID)
	return err
}

// SetPlayerReady sets a player's ready status.
func (db *DB) SetPlayerReady(gameID, playerID string, ready bool) error {
	_, err := db.conn.Exec(`
		UPDATE game_players SET is_ready = ? WHERE game_id = ? AND player_id = ?
	`, ready, gameID, playerID)
	return err
}

// SetPlayerConnected sets a player's connection status.
func (db *DB) SetPlayerConnected(gameID, playerID string, connected bool) error {
	_, err := db.conn.Exec(`
		UPDATE game_players SET is_connected = ? WHERE game_id = ? AND player_id = ?
	`, connected, gameID, playerID)
	return err
}

// StartGame marks a game as started.
func (db *DB) StartGame(gameID string) error {
	_, err := db.conn.Exec(`
		UPDATE games SET status = ?, started_at = ? WHERE id = ?
	`, GameStatusStarted, time.Now(), gameID)
	return err
}

// EndGame marks a game as finished and records the winner, if any.
func (db *DB) EndGame(gameID, winnerID string) error {
	var winner sql.NullString
	if winnerID != "" {
		winner = sql.NullString{String: winnerID, Valid: true}
	}
	_, err := db.conn.Exec(`
		UPDATE games SET status = ?, ended_at = ?, winner_id = ? WHERE id = ?
	`, GameStatusFinished, time.Now(), winner, gameID)
	return err
}

// SaveGameState upserts the latest state snapshot for a game.
func (db *DB) SaveGameState(gameID, stateJSON, currentPlayerID string, turn int) error {
	_, err := db.conn.Exec(`
		INSERT INTO game_state (game_id, state_json, current_player_id, turn, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			state_json = excluded.state_json,
			current_player_id = excluded.current_player_id,
			turn = excluded.turn,
			updated_at = excluded.updated_at
	`, gameID, stateJSON, currentPlayerID, turn, time.Now())
	return err
}

// GetGameState retrieves the latest state snapshot for a game.
// Returns an empty string when no snapshot has been saved yet.
func (db *DB) GetGameState(gameID string) (string, error) {
	var stateJSON string
	err := db.conn.Get(&stateJSON, `
		SELECT state_json FROM game_state WHERE game_id = ?
	`, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return stateJSON, err
}

// DeleteGame permanently deletes a game and all associated data.
func (db *DB) DeleteGame(gameID string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM game_actions WHERE game_id = ?`,
		`DELETE FROM game_state WHERE game_id = ?`,
		`DELETE FROM game_players WHERE game_id = ?`,
		`DELETE FROM games WHERE id = ?`,
	} {
		if _, err := tx.Exec(stmt, gameID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// CleanupAbandonedLobbies removes waiting games with no connected players.
func (db *DB) CleanupAbandonedLobbies() error {
	_, err := db.conn.Exec(`
		DELETE FROM games
		WHERE id IN (
			SELECT g.id FROM games g
			WHERE g.status = ?
			AND NOT EXISTS (
				SELECT 1 FROM game_players gp
				WHERE gp.game_id = g.id
				AND gp.is_connected = 1
			)
		)
	`, GameStatusWaiting)
	return err
}

// GetPlayerGames retrieves all unfinished games a player is participating in.
func (db *DB) GetPlayerGames(playerID string) ([]*GameInfo, error) {
	var games []*GameInfo
	err := db.conn.Select(&games, `
		SELECT DISTINCT
			g.id, g.name, g.join_code, g.is_public, g.status,
			g.host_player_id, g.max_players, g.created_at,
			(SELECT COUNT(*) FROM game_players WHERE game_id = g.id) AS player_count
		FROM games g
		INNER JOIN game_players gp ON gp.game_id = g.id
		WHERE gp.player_id = ?
		AND g.status != ?
		ORDER BY g.created_at DESC
	`, playerID, GameStatusFinished)
	return games, err
}

// joinCodeAlphabet excludes visually ambiguous characters.
const joinCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func generateJoinCode() string {
	bytes := make([]byte, 6)
	rand.Read(bytes)
	code := make([]byte, 6)
	for i, b := range bytes {
		code[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(code)
}
