package server

import (
	"encoding/json"
	"errors"

	"promised-land/internal/database"
	"promised-land/internal/game"
	"promised-land/internal/protocol"
	"promised-land/pkg/mapgen"
)

// Handlers processes incoming messages.
type Handlers struct {
	hub *Hub
}

// NewHandlers creates a new handler set.
func NewHandlers(hub *Hub) *Handlers {
	return &Handlers{hub: hub}
}

// Handle routes a message to the appropriate handler.
func (h *Handlers) Handle(client *Client, msg *protocol.Message) {
	var err error

	switch msg.Type {
	case protocol.TypeAuthenticate:
		err = h.handleAuthenticate(client, msg)
	case protocol.TypeReconnect:
		err = h.handleReconnect(client, msg)
	case protocol.TypeCreateGame:
		err = h.handleCreateGame(client, msg)
	case protocol.TypeJoinGame:
		err = h.handleJoinGame(client, msg)
	case protocol.TypeJoinByCode:
		err = h.handleJoinByCode(client, msg)
	case protocol.TypeLeaveGame:
		err = h.handleLeaveGame(client, msg)
	case protocol.TypeDeleteGame:
		err = h.handleDeleteGame(client, msg)
	case protocol.TypePickFaction:
		err = h.handlePickFaction(client, msg)
	case protocol.TypePlayerReady:
		err = h.handlePlayerReady(client, msg)
	case protocol.TypeStartGame:
		err = h.handleStartGame(client, msg)
	case protocol.TypeAction:
		err = h.handleAction(client, msg)
	case protocol.TypeGameHistory:
		err = h.handleGameHistory(client, msg)
	case protocol.TypeListGames:
		err = h.handleListGames(client, msg)
	case protocol.TypeYourGames:
		err = h.handleYourGames(client, msg)
	case protocol.TypePing:
		err = h.handlePing(client, msg)
	default:
		err = errors.New("unknown message type")
	}

	if err != nil {
		h.sendError(client, msg.ID, err)
	}
}

// handleAuthenticate handles player authentication/registration.
func (h *Handlers) handleAuthenticate(client *Client, msg *protocol.Message) error {
	var payload protocol.AuthenticatePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	db := h.hub.server.db
	var player *database.Player
	var err error

	if payload.Token != "" {
		player, err = db.GetPlayerByToken(payload.Token)
		if err != nil && !errors.Is(err, database.ErrPlayerNotFound) {
			return err
		}
	}

	if player == nil {
		name := payload.Name
		if name == "" {
			name = "Player"
		}
		player, err = db.CreatePlayer(name)
		if err != nil {
			return err
		}
		h.hub.server.log.Info("player created", "name", player.Name, "id", player.ID)
	} else {
		if payload.Name != "" && payload.Name != player.Name {
			db.UpdatePlayerName(player.ID, payload.Name)
			player.Name = payload.Name
		}
		db.UpdatePlayerLastSeen(player.ID)
		h.hub.server.log.Info("player returned", "name", player.Name, "id", player.ID)
	}

	h.hub.SetClientPlayer(client, player.ID)
	client.Name = player.Name

	response := protocol.AuthResultPayload{
		Success:  true,
		PlayerID: player.ID,
		Token:    player.Token,
		Name:     player.Name,
	}
	respMsg, _ := protocol.NewMessage(protocol.TypeAuthResult, response)
	respMsg.ID = msg.ID
	client.Send(respMsg)

	// Follow up with the player's unfinished games.
	games, _ := db.GetPlayerGames(player.ID)
	if len(games) > 0 {
		listMsg, _ := protocol.NewMessage(protocol.TypeYourGames, protocol.YourGamesPayload{
			Games: h.gameListItems(games),
		})
		client.Send(listMsg)
	}

	return nil
}

// handleReconnect restores a session into a running game.
func (h *Handlers) handleReconnect(client *Client, msg *protocol.Message) error {
	var payload protocol.ReconnectPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	db := h.hub.server.db
	player, err := db.GetPlayerByToken(payload.Token)
	if err != nil {
		return err
	}

	h.hub.SetClientPlayer(client, player.ID)
	client.Name = player.Name
	db.UpdatePlayerLastSeen(player.ID)

	if payload.GameID == "" {
		return nil
	}

	players, err := db.GetGamePlayers(payload.GameID)
	if err != nil {
		return err
	}
	member := false
	for _, p := range players {
		if p.PlayerID == player.ID {
			member = true
			break
		}
	}
	if !member {
		return errors.New("not a player in that game")
	}

	h.hub.AddClientToGame(client, payload.GameID)
	db.SetPlayerConnected(payload.GameID, player.ID, true)

	g, err := db.GetGame(payload.GameID)
	if err != nil {
		return err
	}
	if g.Status == database.GameStatusStarted {
		h.sendGameState(client, payload.GameID)
	} else {
		h.sendLobbyState(client, payload.GameID)
	}
	return nil
}

// handleCreateGame handles game creation.
func (h *Handlers) handleCreateGame(client *Client, msg *protocol.Message) error {
	if client.PlayerID == "" {
		return errors.New("not authenticated")
	}

	var payload protocol.CreateGamePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	settings := database.GameSettings{
		MaxPlayers: payload.Settings.MaxPlayers,
		MapRadius:  payload.Settings.MapRadius,
		MapSeed:    payload.Settings.MapSeed,
		RngSeed:    payload.Settings.RngSeed,
		Victory:    payload.Settings.Victory,
	}
	if settings.MaxPlayers == 0 {
		settings.MaxPlayers = 4
	}
	if settings.MapRadius == 0 {
		settings.MapRadius = mapgen.DefaultOptions().Radius
	}
	if settings.Victory == "" {
		settings.Victory = "all"
	}

	db := h.hub.server.db
	created, err := db.CreateGame(payload.Name, client.PlayerID, settings, payload.IsPublic)
	if err != nil {
		return err
	}

	if err := db.JoinGame(created.ID, client.PlayerID); err != nil {
		return err
	}

	h.hub.AddClientToGame(client, created.ID)
	db.SetPlayerConnected(created.ID, client.PlayerID, true)

	h.hub.server.log.Info("game created", "name", created.Name, "id", created.ID, "host", client.Name)

	response := protocol.GameCreatedPayload{
		GameID:   created.ID,
		JoinCode: created.JoinCode,
	}
	respMsg, _ := protocol.NewMessage(protocol.TypeGameCreated, response)
	respMsg.ID = msg.ID
	client.Send(respMsg)

	h.sendLobbyState(client, created.ID)

	return nil
}

// handleJoinGame handles joining a game by ID.
func (h *Handlers) handleJoinGame(client *Client, msg *protocol.Message) error {
	if client.PlayerID == "" {
		return errors.New("not authenticated")
	}

	var payload protocol.JoinGamePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	return h.joinGame(client, msg.ID, payload.GameID)
}

// handleJoinByCode handles joining a game by join code.
func (h *Handlers) handleJoinByCode(client *Client, msg *protocol.Message) error {
	if client.PlayerID == "" {
		return errors.New("not authenticated")
	}

	var payload protocol.JoinByCodePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	g, err := h.hub.server.db.GetGameByJoinCode(payload.JoinCode)
	if err != nil {
		return err
	}

	return h.joinGame(client, msg.ID, g.ID)
}

// joinGame is the common logic for joining a game.
func (h *Handlers) joinGame(client *Client, msgID string, gameID string) error {
	db := h.hub.server.db

	players, err := db.GetGamePlayers(gameID)
	if err != nil {
		return err
	}

	alreadyIn := false
	for _, p := range players {
		if p.PlayerID == client.PlayerID {
			alreadyIn = true
			break
		}
	}

	if !alreadyIn {
		if err := db.JoinGame(gameID, client.PlayerID); err != nil {
			return err
		}
		h.hub.server.log.Info("player joined game", "player", client.Name, "game", gameID)
	}

	h.hub.AddClientToGame(client, gameID)
	db.SetPlayerConnected(gameID, client.PlayerID, true)

	g, err := db.GetGame(gameID)
	if err != nil {
		return err
	}
	response := protocol.JoinedGamePayload{
		GameID:   gameID,
		JoinCode: g.JoinCode,
	}
	respMsg, _ := protocol.NewMessage(protocol.TypeJoinedGame, response)
	respMsg.ID = msgID
	client.Send(respMsg)

	if g.Status == database.GameStatusStarted {
		// Reconnecting into a running game.
		h.sendGameState(client, gameID)
	} else {
		h.broadcastLobbyState(gameID)
		h.hub.notifyGamePlayers(gameID, protocol.TypePlayerJoined, protocol.PlayerJoinedPayload{
			PlayerID: client.PlayerID,
			Name:     client.Name,
		})
	}

	return nil
}

// handleLeaveGame handles leaving a game.
func (h *Handlers) handleLeaveGame(client *Client, msg *protocol.Message) error {
	if client.GameID == "" {
		return errors.New("not in a game")
	}

	gameID := client.GameID
	db := h.hub.server.db

	g, err := db.GetGame(gameID)
	if err != nil {
		return err
	}

	if g.Status == database.GameStatusStarted {
		// Cannot abandon a seat mid-game; just drop the connection mapping.
		h.hub.RemoveClientFromGame(client, gameID)
		db.SetPlayerConnected(gameID, client.PlayerID, false)
	} else {
		db.LeaveGame(gameID, client.PlayerID)
		h.hub.RemoveClientFromGame(client, gameID)

		h.hub.notifyGamePlayers(gameID, protocol.TypePlayerLeft, protocol.PlayerLeftPayload{
			PlayerID: client.PlayerID,
		})
		h.broadcastLobbyState(gameID)
	}

	h.hub.server.log.Info("player left game", "player", client.Name, "game", gameID)
	return nil
}

// handleDeleteGame handles a host deleting their game.
func (h *Handlers) handleDeleteGame(client *Client, msg *protocol.Message) error {
	if client.PlayerID == "" {
		return errors.New("not authenticated")
	}

	var payload protocol.DeleteGamePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	db := h.hub.server.db
	g, err := db.GetGame(payload.GameID)
	if err != nil {
		return err
	}
	if g.HostPlayerID != client.PlayerID {
		return errors.New("only the host can delete a game")
	}

	h.hub.notifyGamePlayers(payload.GameID, protocol.TypeGameDeleted, protocol.GameDeletedPayload{
		GameID: payload.GameID,
		Reason: "deleted by host",
	})

	if err := db.DeleteGame(payload.GameID); err != nil {
		return err
	}
	h.hub.server.dropEngine(payload.GameID)

	h.hub.server.log.Info("game deleted", "game", payload.GameID, "host", client.Name)
	return nil
}

// handlePickFaction sets a player's faction while in the lobby.
func (h *Handlers) handlePickFaction(client *Client, msg *protocol.Message) error {
	if client.GameID == "" {
		return errors.New("not in a game")
	}

	var payload protocol.PickFactionPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	if h.hub.server.content.Faction(payload.FactionID) == nil {
		return errors.New("unknown faction: " + payload.FactionID)
	}

	db := h.hub.server.db
	g, err := db.GetGame(client.GameID)
	if err != nil {
		return err
	}
	if g.Status != database.GameStatusWaiting {
		return database.ErrGameStarted
	}

	// One faction per seat.
	players, err := db.GetGamePlayers(client.GameID)
	if err != nil {
		return err
	}
	for _, p := range players {
		if p.PlayerID != client.PlayerID && p.FactionID == payload.FactionID {
			return errors.New("faction already taken")
		}
	}

	if err := db.SetPlayerFaction(client.GameID, client.PlayerID, payload.FactionID); err != nil {
		return err
	}

	h.broadcastLobbyState(client.GameID)
	return nil
}

// handlePlayerReady handles ready state toggle.
func (h *Handlers) handlePlayerReady(client *Client, msg *protocol.Message) error {
	if client.GameID == "" {
		return errors.New("not in a game")
	}

	var payload protocol.PlayerReadyPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	if err := h.hub.server.db.SetPlayerReady(client.GameID, client.PlayerID, payload.Ready); err != nil {
		return err
	}

	h.broadcastLobbyState(client.GameID)
	return nil
}

// handleStartGame generates the map, builds the initial state and moves the
// game from the lobby into play.
func (h *Handlers) handleStartGame(client *Client, msg *protocol.Message) error {
	if client.GameID == "" {
		return errors.New("not in a game")
	}

	db := h.hub.server.db
	gameID := client.GameID

	g, err := db.GetGame(gameID)
	if err != nil {
		return err
	}
	if g.HostPlayerID != client.PlayerID {
		return errors.New("only the host can start the game")
	}
	if g.Status != database.GameStatusWaiting {
		return database.ErrGameStarted
	}

	players, err := db.GetGamePlayers(gameID)
	if err != nil {
		return err
	}
	if len(players) < 2 {
		return errors.New("need at least 2 players")
	}
	for _, p := range players {
		if !p.IsReady {
			return errors.New("not all players are ready")
		}
		if p.FactionID == "" {
			return errors.New("all players must pick a faction")
		}
	}

	state, err := h.initializeGameState(gameID, g, players)
	if err != nil {
		h.hub.server.log.Error("failed to initialize game state", "game", gameID, "err", err)
		return err
	}

	if err := db.StartGame(gameID); err != nil {
		return err
	}

	h.hub.server.log.Info("game started", "game", gameID, "players", len(players))

	h.hub.notifyGamePlayers(gameID, protocol.TypeGameStarted, protocol.GameStartedPayload{
		GameID: gameID,
	})
	h.broadcastGameState(gameID)
	h.hub.notifyGamePlayers(gameID, protocol.TypeTurnChanged, protocol.TurnChangedPayload{
		Turn:          state.Turn,
		CurrentPlayer: state.CurrentPlayer().ID,
	})

	return nil
}

// initializeGameState generates a map and builds the initial state.
func (h *Handlers) initializeGameState(gameID string, dbGame *database.Game, dbPlayers []*database.GamePlayer) (*game.GameState, error) {
	opts := mapgen.DefaultOptions()
	if dbGame.Settings.MapRadius > 0 {
		opts.Radius = dbGame.Settings.MapRadius
	}
	opts.Seed = dbGame.Settings.MapSeed
	if opts.Cities < len(dbPlayers)+2 {
		opts.Cities = len(dbPlayers) + 2
	}

	gameMap, cities, err := mapgen.Generate(opts)
	if err != nil {
		return nil, err
	}

	setups := make([]game.PlayerSetup, len(dbPlayers))
	for i, p := range dbPlayers {
		setups[i] = game.PlayerSetup{
			ID:        p.PlayerID,
			Name:      p.PlayerName,
			FactionID: p.FactionID,
		}
	}

	eng := h.hub.server.engineFor(gameID, dbGame.Settings.RngSeed, configFromSettings(dbGame.Settings))
	state, err := eng.NewGame(gameMap, cities, setups)
	if err != nil {
		return nil, err
	}
	state.ID = gameID

	if err := h.saveState(gameID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// configFromSettings narrows the rule set to the chosen victory mode.
func configFromSettings(s database.GameSettings) game.Config {
	cfg := game.DefaultConfig()
	switch s.Victory {
	case "faith":
		cfg.EliminationEnabled = false
		cfg.TerritorialFraction = 2
	case "territorial":
		cfg.FaithVictoryThreshold = 101
		cfg.EliminationEnabled = false
	case "elimination":
		cfg.FaithVictoryThreshold = 101
		cfg.TerritorialFraction = 2
	}
	return cfg
}

// handleAction applies one game action through the engine.
func (h *Handlers) handleAction(client *Client, msg *protocol.Message) error {
	if client.PlayerID == "" {
		return errors.New("not authenticated")
	}
	if client.GameID == "" {
		return errors.New("not in a game")
	}

	var payload protocol.ActionPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	action, err := protocol.DecodeAction(&payload)
	if err != nil {
		return err
	}

	gameID := client.GameID
	db := h.hub.server.db

	g, err := db.GetGame(gameID)
	if err != nil {
		return err
	}
	if g.Status != database.GameStatusStarted {
		return errors.New("game is not in progress")
	}

	lock := h.hub.lockGame(gameID)
	lock.Lock()
	defer lock.Unlock()

	state, err := h.loadState(gameID)
	if err != nil {
		return err
	}

	// The engine validates turn order from the action contents; the server
	// additionally pins the action to the sending connection's identity.
	if current := state.CurrentPlayer(); current == nil || current.ID != client.PlayerID {
		h.sendActionResult(client, msg.ID, false, "", game.ErrNotYourTurn)
		return nil
	}

	eng := h.hub.server.engineFor(gameID, g.Settings.RngSeed, configFromSettings(g.Settings))

	prevTurn := state.Turn
	prevSeat := state.CurrentPlayerIndex

	next, err := eng.Reduce(state, action)
	if err != nil {
		h.sendActionResult(client, msg.ID, false, "", err)
		return nil
	}

	if err := h.saveState(gameID, next); err != nil {
		return err
	}

	actionJSON, _ := json.Marshal(action)
	db.LogAction(gameID, client.PlayerID, next.Turn, string(action.Kind()), string(actionJSON), "")

	h.sendActionResult(client, msg.ID, true, "", nil)
	h.broadcastGameState(gameID)

	if next.Turn != prevTurn || next.CurrentPlayerIndex != prevSeat {
		h.hub.notifyGamePlayers(gameID, protocol.TypeTurnChanged, protocol.TurnChangedPayload{
			Turn:          next.Turn,
			CurrentPlayer: next.CurrentPlayer().ID,
		})
	}

	if next.IsOver() {
		h.finishGame(gameID, next)
	}

	return nil
}

// finishGame records the result and announces it.
func (h *Handlers) finishGame(gameID string, state *game.GameState) {
	winnerName := ""
	if w := state.Player(state.Winner); w != nil {
		winnerName = w.Name
	}

	if err := h.hub.server.db.EndGame(gameID, state.Winner); err != nil {
		h.hub.server.log.Error("failed to record game result", "game", gameID, "err", err)
	}
	h.hub.server.dropEngine(gameID)

	h.hub.server.log.Info("game ended", "game", gameID, "winner", winnerName, "victory", state.VictoryType)

	h.hub.notifyGamePlayers(gameID, protocol.TypeGameEnded, protocol.GameEndedPayload{
		WinnerID:    state.Winner,
		WinnerName:  winnerName,
		VictoryType: state.VictoryType,
	})
}

// handleGameHistory sends the applied-action log for the client's game.
func (h *Handlers) handleGameHistory(client *Client, msg *protocol.Message) error {
	if client.GameID == "" {
		return errors.New("not in a game")
	}

	records, err := h.hub.server.db.GetGameActions(client.GameID)
	if err != nil {
		return err
	}

	events := make([]protocol.HistoryEvent, len(records))
	for i, r := range records {
		events[i] = protocol.HistoryEvent{
			ID:       r.ID,
			Turn:     r.Turn,
			PlayerID: r.PlayerID.String,
			Kind:     game.ActionKind(r.Kind),
			Payload:  json.RawMessage(r.ActionJSON),
		}
	}

	respMsg, _ := protocol.NewMessage(protocol.TypeGameHistory, protocol.GameHistoryPayload{Events: events})
	respMsg.ID = msg.ID
	client.Send(respMsg)
	return nil
}

// handleListGames handles listing public games.
func (h *Handlers) handleListGames(client *Client, msg *protocol.Message) error {
	db := h.hub.server.db
	if err := db.CleanupAbandonedLobbies(); err != nil {
		h.hub.server.log.Warn("failed to cleanup abandoned lobbies", "err", err)
	}

	games, err := db.ListPublicGames()
	if err != nil {
		return err
	}

	respMsg, _ := protocol.NewMessage(protocol.TypeGameList, protocol.GameListPayload{
		Games: h.gameListItems(games),
	})
	respMsg.ID = msg.ID
	client.Send(respMsg)
	return nil
}

// handleYourGames lists games the client is a player in.
func (h *Handlers) handleYourGames(client *Client, msg *protocol.Message) error {
	if client.PlayerID == "" {
		return errors.New("not authenticated")
	}

	games, err := h.hub.server.db.GetPlayerGames(client.PlayerID)
	if err != nil {
		return err
	}

	respMsg, _ := protocol.NewMessage(protocol.TypeYourGames, protocol.YourGamesPayload{
		Games: h.gameListItems(games),
	})
	respMsg.ID = msg.ID
	client.Send(respMsg)
	return nil
}

// handlePing answers a keepalive probe.
func (h *Handlers) handlePing(client *Client, msg *protocol.Message) error {
	respMsg, _ := protocol.NewMessage(protocol.TypePong, struct{}{})
	respMsg.ID = msg.ID
	client.Send(respMsg)
	return nil
}

// gameListItems converts database game rows to wire items.
func (h *Handlers) gameListItems(games []*database.GameInfo) []protocol.GameListItem {
	items := make([]protocol.GameListItem, len(games))
	for i, g := range games {
		items[i] = protocol.GameListItem{
			ID:          g.ID,
			Name:        g.Name,
			JoinCode:    g.JoinCode,
			Status:      string(g.Status),
			PlayerCount: g.PlayerCount,
			MaxPlayers:  g.MaxPlayers,
		}
	}
	return items
}

// loadState reads and decodes a game's latest state snapshot.
func (h *Handlers) loadState(gameID string) (*game.GameState, error) {
	stateJSON, err := h.hub.server.db.GetGameState(gameID)
	if err != nil {
		return nil, err
	}
	if stateJSON == "" {
		return nil, errors.New("no state for game " + gameID)
	}

	var state game.GameState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// saveState persists a game's state snapshot.
func (h *Handlers) saveState(gameID string, state *game.GameState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return err
	}
	currentID := ""
	if p := state.CurrentPlayer(); p != nil {
		currentID = p.ID
	}
	return h.hub.server.db.SaveGameState(gameID, string(stateJSON), currentID, state.Turn)
}

// sendGameState sends the current state to a single client.
func (h *Handlers) sendGameState(client *Client, gameID string) {
	state, err := h.loadState(gameID)
	if err != nil {
		h.hub.server.log.Warn("failed to load game state", "game", gameID, "err", err)
		return
	}

	msg, _ := protocol.NewMessage(protocol.TypeGameState, protocol.GameStatePayload{State: state})
	client.Send(msg)
}

// broadcastGameState sends the current state to all players in a game.
func (h *Handlers) broadcastGameState(gameID string) {
	state, err := h.loadState(gameID)
	if err != nil {
		h.hub.server.log.Warn("failed to load game state", "game", gameID, "err", err)
		return
	}

	h.hub.notifyGamePlayers(gameID, protocol.TypeGameState, protocol.GameStatePayload{State: state})
}

// sendLobbyState sends the current lobby state to a client.
func (h *Handlers) sendLobbyState(client *Client, gameID string) {
	db := h.hub.server.db

	g, err := db.GetGame(gameID)
	if err != nil {
		return
	}
	players, err := db.GetGamePlayers(gameID)
	if err != nil {
		return
	}

	lobbyPlayers := make([]protocol.LobbyPlayer, len(players))
	for i, p := range players {
		lobbyPlayers[i] = protocol.LobbyPlayer{
			ID:          p.PlayerID,
			Name:        p.PlayerName,
			FactionID:   p.FactionID,
			Ready:       p.IsReady,
			IsConnected: p.IsConnected,
		}
	}

	payload := protocol.LobbyStatePayload{
		GameID:   g.ID,
		GameName: g.Name,
		JoinCode: g.JoinCode,
		HostID:   g.HostPlayerID,
		IsPublic: g.IsPublic,
		Settings: protocol.GameSettings{
			MaxPlayers: g.Settings.MaxPlayers,
			MapRadius:  g.Settings.MapRadius,
			MapSeed:    g.Settings.MapSeed,
			RngSeed:    g.Settings.RngSeed,
			Victory:    g.Settings.Victory,
		},
		Players: lobbyPlayers,
	}

	msg, _ := protocol.NewMessage(protocol.TypeLobbyState, payload)
	client.Send(msg)
}

// broadcastLobbyState sends lobby state to all clients in a game.
func (h *Handlers) broadcastLobbyState(gameID string) {
	h.hub.mu.RLock()
	clients := make([]*Client, 0, len(h.hub.gameClients[gameID]))
	for c := range h.hub.gameClients[gameID] {
		clients = append(clients, c)
	}
	h.hub.mu.RUnlock()

	for _, client := range clients {
		h.sendLobbyState(client, gameID)
	}
}

// sendActionResult reports the outcome of one action to its sender.
func (h *Handlers) sendActionResult(client *Client, actionID string, success bool, message string, err error) {
	payload := protocol.ActionResultPayload{
		ActionID: actionID,
		Success:  success,
		Message:  message,
	}
	if err != nil {
		payload.Error = err.Error()
	}
	msg, _ := protocol.NewMessage(protocol.TypeActionResult, payload)
	msg.ID = actionID
	client.Send(msg)
}

// sendError sends an error response.
func (h *Handlers) sendError(client *Client, msgID string, err error) {
	payload := protocol.ErrorPayload{
		Code:    errorCode(err),
		Message: err.Error(),
	}
	msg, _ := protocol.NewMessage(protocol.TypeError, payload)
	msg.ID = msgID
	client.Send(msg)
}

// errorCode maps engine and database errors onto wire error codes.
func errorCode(err error) protocol.ErrorCode {
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		return protocol.ErrCodeNotYourTurn
	case errors.Is(err, game.ErrGameOver):
		return protocol.ErrCodeGameOver
	case errors.Is(err, game.ErrCannotReach):
		return protocol.ErrCodeCannotReach
	case errors.Is(err, game.ErrInvalidTarget), errors.Is(err, game.ErrFriendlyFire), errors.Is(err, game.ErrTargetAllied):
		return protocol.ErrCodeInvalidTarget
	case errors.Is(err, game.ErrInsufficientStars), errors.Is(err, game.ErrInsufficientFaith), errors.Is(err, game.ErrInsufficientPride):
		return protocol.ErrCodeInsufficientResources
	case errors.Is(err, game.ErrInvalidAction):
		return protocol.ErrCodeInvalidAction
	case errors.Is(err, database.ErrGameNotFound), errors.Is(err, database.ErrJoinCodeNotFound):
		return protocol.ErrCodeGameNotFound
	case errors.Is(err, database.ErrGameFull):
		return protocol.ErrCodeLobbyFull
	default:
		return protocol.ErrCodeInternalError
	}
}
