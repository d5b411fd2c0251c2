package game

import (
	"encoding/json"
	"errors"
	"testing"
)

// scriptedPlayer replays a fixed list of columns.
type scriptedPlayer struct {
	moves []int
	next  int
}

func (p *scriptedPlayer) Move(*Board, Team) int {
	move := p.moves[p.next]
	p.next++
	return move
}

func TestNewGameRequiresPlayers(t *testing.T) {
	if _, err := NewGame(nil, &scriptedPlayer{}); !errors.Is(err, ErrMissingPlayer) {
		t.Errorf("NewGame(nil, p) = %v, want ErrMissingPlayer", err)
	}
	if _, err := NewGame(&scriptedPlayer{}, nil); !errors.Is(err, ErrMissingPlayer) {
		t.Errorf("NewGame(p, nil) = %v, want ErrMissingPlayer", err)
	}
}

func TestRunVerticalWin(t *testing.T) {
	playerX := &scriptedPlayer{moves: []int{0, 0, 0, 0}}
	playerO := &scriptedPlayer{moves: []int{1, 1, 1}}
	g, err := NewGame(playerX, playerO)
	if err != nil {
		t.Fatal(err)
	}
	record, err := g.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if record.Result.Winner != TeamX {
		t.Errorf("winner = %v, want X", record.Result.Winner)
	}
	want := []int{0, 1, 0, 1, 0, 1, 0}
	if len(record.Moves) != len(want) {
		t.Fatalf("moves = %v, want %v", record.Moves, want)
	}
	for i := range want {
		if record.Moves[i] != want[i] {
			t.Fatalf("moves = %v, want %v", record.Moves, want)
		}
	}
}

func TestRunImpossibleMove(t *testing.T) {
	playerX := &scriptedPlayer{moves: []int{Width}}
	playerO := &scriptedPlayer{}
	g, err := NewGame(playerX, playerO)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Run(); !errors.Is(err, ErrColumnOutOfRange) {
		t.Errorf("Run with out-of-range move = %v, want ErrColumnOutOfRange", err)
	}
}

func TestRecordJSONRoundTrip(t *testing.T) {
	record := Record{Moves: []int{3, 3, 4}, Result: GameResult{Winner: TeamO}}
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Result.Winner != TeamO || len(decoded.Moves) != 3 {
		t.Errorf("round trip = %+v, want %+v", decoded, record)
	}
}
