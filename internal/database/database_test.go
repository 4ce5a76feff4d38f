package database

import (
	"errors"
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateAndGetPlayer(t *testing.T) {
	db := testDB(t)

	p, err := db.CreatePlayer("Miriam")
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if p.Token == "" {
		t.Fatal("player token is empty")
	}

	byToken, err := db.GetPlayerByToken(p.Token)
	if err != nil {
		t.Fatalf("GetPlayerByToken: %v", err)
	}
	if byToken.ID != p.ID || byToken.Name != "Miriam" {
		t.Errorf("got %+v, want id %s name Miriam", byToken, p.ID)
	}

	if _, err := db.GetPlayerByToken("no-such-token"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("unknown token error = %v, want ErrPlayerNotFound", err)
	}
}

func TestUpdatePlayerName(t *testing.T) {
	db := testDB(t)

	p, err := db.CreatePlayer("Old")
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if err := db.UpdatePlayerName(p.ID, "New"); err != nil {
		t.Fatalf("UpdatePlayerName: %v", err)
	}
	got, err := db.GetPlayerByID(p.ID)
	if err != nil {
		t.Fatalf("GetPlayerByID: %v", err)
	}
	if got.Name != "New" {
		t.Errorf("name = %q, want New", got.Name)
	}

	if err := db.UpdatePlayerName("missing", "x"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("missing player error = %v, want ErrPlayerNotFound", err)
	}
}

func TestGameLifecycle(t *testing.T) {
	db := testDB(t)

	host, err := db.CreatePlayer("Host")
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	guest, err := db.CreatePlayer("Guest")
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}

	settings := GameSettings{MaxPlayers: 2, MapRadius: 10, Victory: "all"}
	g, err := db.CreateGame("Exodus", host.ID, settings, true)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if g.JoinCode == "" {
		t.Fatal("join code is empty")
	}
	if g.Status != GameStatusWaiting {
		t.Errorf("status = %q, want waiting", g.Status)
	}

	if err := db.JoinGame(g.ID, host.ID); err != nil {
		t.Fatalf("JoinGame host: %v", err)
	}
	if err := db.JoinGame(g.ID, guest.ID); err != nil {
		t.Fatalf("JoinGame guest: %v", err)
	}
	if err := db.JoinGame(g.ID, guest.ID); !errors.Is(err, ErrAlreadyInGame) {
		t.Errorf("double join error = %v, want ErrAlreadyInGame", err)
	}

	third, _ := db.CreatePlayer("Third")
	if err := db.JoinGame(g.ID, third.ID); !errors.Is(err, ErrGameFull) {
		t.Errorf("over-capacity join error = %v, want ErrGameFull", err)
	}

	players, err := db.GetGamePlayers(g.ID)
	if err != nil {
		t.Fatalf("GetGamePlayers: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("player count = %d, want 2", len(players))
	}
	if players[0].Slot != 0 || players[1].Slot != 1 {
		t.Errorf("slots = %d,%d, want 0,1", players[0].Slot, players[1].Slot)
	}
	if players[0].PlayerName != "Host" {
		t.Errorf("slot 0 name = %q, want Host", players[0].PlayerName)
	}

	if err := db.SetPlayerFaction(g.ID, host.ID, "covenant"); err != nil {
		t.Fatalf("SetPlayerFaction: %v", err)
	}
	players, _ = db.GetGamePlayers(g.ID)
	if players[0].FactionID != "covenant" {
		t.Errorf("faction = %q, want covenant", players[0].FactionID)
	}

	if err := db.StartGame(g.ID); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	started, _ := db.GetGame(g.ID)
	if started.Status != GameStatusStarted {
		t.Errorf("status = %q, want started", started.Status)
	}
	if started.StartedAt == nil {
		t.Error("StartedAt not recorded")
	}

	if err := db.JoinGame(g.ID, third.ID); !errors.Is(err, ErrGameStarted) {
		t.Errorf("join after start error = %v, want ErrGameStarted", err)
	}

	if err := db.EndGame(g.ID, host.ID); err != nil {
		t.Fatalf("EndGame: %v", err)
	}
	ended, _ := db.GetGame(g.ID)
	if ended.Status != GameStatusFinished {
		t.Errorf("status = %q, want finished", ended.Status)
	}
	if ended.WinnerID != host.ID {
		t.Errorf("winner = %q, want %q", ended.WinnerID, host.ID)
	}
}

func TestGetGameByJoinCode(t *testing.T) {
	db := testDB(t)

	host, _ := db.CreatePlayer("Host")
	g, err := db.CreateGame("Canaan", host.ID, GameSettings{MaxPlayers: 2}, false)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	found, err := db.GetGameByJoinCode(g.JoinCode)
	if err != nil {
		t.Fatalf("GetGameByJoinCode: %v", err)
	}
	if found.ID != g.ID {
		t.Errorf("found game %q, want %q", found.ID, g.ID)
	}

	if _, err := db.GetGameByJoinCode("ZZZZZZ"); !errors.Is(err, ErrJoinCodeNotFound) {
		t.Errorf("bad code error = %v, want ErrJoinCodeNotFound", err)
	}
}

func TestGameStateSnapshot(t *testing.T) {
	db := testDB(t)

	host, _ := db.CreatePlayer("Host")
	g, _ := db.CreateGame("Snapshots", host.ID, GameSettings{MaxPlayers: 2}, false)

	got, err := db.GetGameState(g.ID)
	if err != nil {
		t.Fatalf("GetGameState empty: %v", err)
	}
	if got != "" {
		t.Errorf("state before save = %q, want empty", got)
	}

	if err := db.SaveGameState(g.ID, `{"turn":1}`, host.ID, 1); err != nil {
		t.Fatalf("SaveGameState: %v", err)
	}
	if err := db.SaveGameState(g.ID, `{"turn":2}`, host.ID, 2); err != nil {
		t.Fatalf("SaveGameState upsert: %v", err)
	}

	got, err = db.GetGameState(g.ID)
	if err != nil {
		t.Fatalf("GetGameState: %v", err)
	}
	if got != `{"turn":2}` {
		t.Errorf("state = %q, want latest snapshot", got)
	}
}

func TestActionLog(t *testing.T) {
	db := testDB(t)

	host, _ := db.CreatePlayer("Host")
	g, _ := db.CreateGame("Log", host.ID, GameSettings{MaxPlayers: 2}, false)

	if err := db.LogAction(g.ID, host.ID, 1, "move_unit", `{"unitId":"u1"}`, ""); err != nil {
		t.Fatalf("LogAction: %v", err)
	}
	if err := db.LogAction(g.ID, host.ID, 1, "end_turn", `{}`, ""); err != nil {
		t.Fatalf("LogAction: %v", err)
	}

	records, err := db.GetGameActions(g.ID)
	if err != nil {
		t.Fatalf("GetGameActions: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("record count = %d, want 2", len(records))
	}
	if records[0].Kind != "move_unit" || records[1].Kind != "end_turn" {
		t.Errorf("kinds = %q,%q, want move_unit,end_turn", records[0].Kind, records[1].Kind)
	}

	since, err := db.GetGameActionsSince(g.ID, records[0].ID)
	if err != nil {
		t.Fatalf("GetGameActionsSince: %v", err)
	}
	if len(since) != 1 || since[0].Kind != "end_turn" {
		t.Errorf("incremental fetch returned %d records", len(since))
	}
}

func TestDeleteGameCascades(t *testing.T) {
	db := testDB(t)

	host, _ := db.CreatePlayer("Host")
	g, _ := db.CreateGame("Doomed", host.ID, GameSettings{MaxPlayers: 2}, false)
	db.JoinGame(g.ID, host.ID)
	db.SaveGameState(g.ID, `{}`, host.ID, 1)
	db.LogAction(g.ID, host.ID, 1, "end_turn", `{}`, "")

	if err := db.DeleteGame(g.ID); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}

	if _, err := db.GetGame(g.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("deleted game lookup error = %v, want ErrGameNotFound", err)
	}
	records, _ := db.GetGameActions(g.ID)
	if len(records) != 0 {
		t.Errorf("action log not cleared, %d records remain", len(records))
	}
}
