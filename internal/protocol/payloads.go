package protocol

import (
	"encoding/json"
	"fmt"

	"promised-land/internal/game"
)

// ==================== Authentication Payloads ====================

// AuthenticatePayload is sent to authenticate/register a player.
type AuthenticatePayload struct {
	Token string `json:"token,omitempty"` // Existing token for returning players
	Name  string `json:"name"`            // Display name
}

// AuthResultPayload is the response to authentication.
type AuthResultPayload struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"player_id"`
	Token    string `json:"token"` // Save this for reconnecting
	Name     string `json:"name"`
	Error    string `json:"error,omitempty"`
}

// ==================== Lobby Payloads ====================

// CreateGamePayload is sent to create a new game.
type CreateGamePayload struct {
	Name     string       `json:"name"`
	IsPublic bool         `json:"is_public"`
	Settings GameSettings `json:"settings"`
}

// GameSettings are the configurable game parameters.
type GameSettings struct {
	MaxPlayers int    `json:"max_players"`
	MapRadius  int    `json:"map_radius"`
	MapSeed    int64  `json:"map_seed,omitempty"` // 0 = random
	RngSeed    int64  `json:"rng_seed,omitempty"` // 0 = random
	Victory    string `json:"victory,omitempty"`  // all, faith, territorial, elimination
}

// GameCreatedPayload is the response when a game is created.
type GameCreatedPayload struct {
	GameID   string `json:"game_id"`
	JoinCode string `json:"join_code"`
}

// JoinGamePayload is sent to join a game by ID.
type JoinGamePayload struct {
	GameID string `json:"game_id"`
}

// JoinByCodePayload is sent to join a game by join code.
type JoinByCodePayload struct {
	JoinCode string `json:"join_code"`
}

// JoinedGamePayload is the response when successfully joining a game.
type JoinedGamePayload struct {
	GameID   string `json:"game_id"`
	JoinCode string `json:"join_code"`
}

// DeleteGamePayload is sent to delete a game (creator only).
type DeleteGamePayload struct {
	GameID string `json:"game_id"`
}

// GameDeletedPayload is sent when a game is deleted.
type GameDeletedPayload struct {
	GameID string `json:"game_id"`
	Reason string `json:"reason,omitempty"`
}

// PickFactionPayload chooses the player's faction while in the lobby.
type PickFactionPayload struct {
	FactionID string `json:"faction_id"`
}

// PlayerReadyPayload indicates player ready state.
type PlayerReadyPayload struct {
	Ready bool `json:"ready"`
}

// GameListPayload contains a list of games.
type GameListPayload struct {
	Games []GameListItem `json:"games"`
}

// GameListItem is a summary of a game.
type GameListItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	JoinCode    string `json:"join_code,omitempty"`
	Status      string `json:"status"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	HostName    string `json:"host_name,omitempty"`
	IsYourTurn  bool   `json:"is_your_turn,omitempty"`
}

// YourGamesPayload contains games the player is in.
type YourGamesPayload struct {
	Games []GameListItem `json:"games"`
}

// LobbyStatePayload contains the current lobby state.
type LobbyStatePayload struct {
	GameID   string        `json:"game_id"`
	GameName string        `json:"game_name"`
	JoinCode string        `json:"join_code"`
	HostID   string        `json:"host_id"`
	IsPublic bool          `json:"is_public"`
	Settings GameSettings  `json:"settings"`
	Players  []LobbyPlayer `json:"players"`
}

// LobbyPlayer is a player in the lobby.
type LobbyPlayer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FactionID   string `json:"faction_id,omitempty"`
	Ready       bool   `json:"ready"`
	IsConnected bool   `json:"is_connected"`
}

// PlayerJoinedPayload is sent when a player joins.
type PlayerJoinedPayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// PlayerLeftPayload is sent when a player leaves.
type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
}

// ==================== Game Flow Payloads ====================

// GameStartedPayload is sent when the game begins.
type GameStartedPayload struct {
	GameID string `json:"game_id"`
}

// TurnChangedPayload is sent when the active player changes.
type TurnChangedPayload struct {
	Turn          int    `json:"turn"`
	CurrentPlayer string `json:"current_player"`
}

// ActionPayload carries one game action: a kind tag plus the kind's own
// payload. Decode with DecodeAction.
type ActionPayload struct {
	Kind game.ActionKind `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// EncodeAction wraps a game action for the wire.
func EncodeAction(action game.Action) (*ActionPayload, error) {
	data, err := json.Marshal(action)
	if err != nil {
		return nil, err
	}
	return &ActionPayload{Kind: action.Kind(), Data: data}, nil
}

// DecodeAction unwraps a wire action into its concrete type.
func DecodeAction(p *ActionPayload) (game.Action, error) {
	var action game.Action
	switch p.Kind {
	case game.ActionMoveUnit:
		action = &game.MoveUnit{}
	case game.ActionAttackUnit:
		action = &game.AttackUnit{}
	case game.ActionEndTurn:
		action = &game.EndTurn{}
	case game.ActionUseAbility:
		action = &game.UseAbility{}
	case game.ActionResearchTech:
		action = &game.ResearchTech{}
	case game.ActionRecruitUnit:
		action = &game.RecruitUnit{}
	case game.ActionBuildImprovement:
		action = &game.BuildImprovement{}
	case game.ActionBuildStructure:
		action = &game.BuildStructure{}
	case game.ActionCaptureCity:
		action = &game.CaptureCity{}
	case game.ActionHarvestResource:
		action = &game.HarvestResource{}
	case game.ActionDeclareWar:
		action = &game.DeclareWar{}
	case game.ActionFormAlliance:
		action = &game.FormAlliance{}
	case game.ActionEstablishTradeRoute:
		action = &game.EstablishTradeRoute{}
	case game.ActionConvertCity:
		action = &game.ConvertCity{}
	case game.ActionUpgradeUnit:
		action = &game.UpgradeUnit{}
	case game.ActionUnitAction:
		action = &game.UnitAction{}
	default:
		return nil, fmt.Errorf("decode action: unknown kind %q", p.Kind)
	}
	if err := json.Unmarshal(p.Data, action); err != nil {
		return nil, err
	}
	return deref(action), nil
}

// deref returns the value behind the decoded pointer so callers get the same
// concrete types the engine dispatches on.
func deref(action game.Action) game.Action {
	switch a := action.(type) {
	case *game.MoveUnit:
		return *a
	case *game.AttackUnit:
		return *a
	case *game.EndTurn:
		return *a
	case *game.UseAbility:
		return *a
	case *game.ResearchTech:
		return *a
	case *game.RecruitUnit:
		return *a
	case *game.BuildImprovement:
		return *a
	case *game.BuildStructure:
		return *a
	case *game.CaptureCity:
		return *a
	case *game.HarvestResource:
		return *a
	case *game.DeclareWar:
		return *a
	case *game.FormAlliance:
		return *a
	case *game.EstablishTradeRoute:
		return *a
	case *game.ConvertCity:
		return *a
	case *game.UpgradeUnit:
		return *a
	case *game.UnitAction:
		return *a
	default:
		return action
	}
}

// ActionResultPayload is the result of a player action.
type ActionResultPayload struct {
	ActionID string `json:"action_id"`
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// GameStatePayload contains the full game state as seen by one player.
type GameStatePayload struct {
	State *game.GameState `json:"state"`
}

// GameHistoryPayload contains the game's applied actions in order.
type GameHistoryPayload struct {
	Events []HistoryEvent `json:"events"`
}

// HistoryEvent is a single applied action in the game history log.
type HistoryEvent struct {
	ID       int64           `json:"id"`
	Turn     int             `json:"turn"`
	PlayerID string          `json:"player_id,omitempty"`
	Kind     game.ActionKind `json:"kind"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// GameEndedPayload is sent when the game concludes.
type GameEndedPayload struct {
	WinnerID    string           `json:"winner_id"`
	WinnerName  string           `json:"winner_name"`
	VictoryType game.VictoryType `json:"victory_type"`
}

// ==================== System Payloads ====================

// WelcomePayload is sent on connection.
type WelcomePayload struct {
	ServerVersion string `json:"server_version"`
}

// ReconnectPayload is sent to restore a session.
type ReconnectPayload struct {
	Token  string `json:"token"`
	GameID string `json:"game_id,omitempty"`
}

// DisconnectPayload notifies of a player disconnect.
type DisconnectPayload struct {
	PlayerID string `json:"player_id"`
	Reason   string `json:"reason"`
}
