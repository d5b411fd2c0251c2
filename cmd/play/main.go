// Command play runs a terminal game against a trained model. The
// model artifact is loaded from the configured path; without one the
// opponent falls back to plain heuristic minimax.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"

	"github.com/froglander/connect-four/pkg/ai/console"
	"github.com/froglander/connect-four/pkg/ai/minimax"
	"github.com/froglander/connect-four/pkg/ai/neural"
	"github.com/froglander/connect-four/pkg/game"
)

type config struct {
	ModelPath string `env:"MODEL_PATH" envDefault:"model.json"`
}

func main() {
	second := flag.Bool("second", false, "Play as O, letting the model start")
	fallbackDepth := flag.Int("fallback-depth", 5, "Minimax depth when no model file exists")
	flag.Parse()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse environment: %v", err)
	}

	opponent := loadOpponent(cfg.ModelPath, *fallbackDepth)
	human := console.New()

	var g *game.Game
	var err error
	if *second {
		g, err = game.NewGame(opponent, human)
	} else {
		g, err = game.NewGame(human, opponent)
	}
	if err != nil {
		log.Fatalf("set up game: %v", err)
	}

	record, err := g.Run()
	if err != nil {
		log.Fatalf("run game: %v", err)
	}

	fmt.Printf("Final board:\n%s\n", g.Board())
	if record.Result.Winner == game.TeamNone {
		fmt.Println("Good game! That's a draw!")
	} else {
		fmt.Printf("Congratulations %s, you won!\n", record.Result.Winner)
	}
}

func loadOpponent(modelPath string, fallbackDepth int) game.Player {
	model, err := neural.LoadModel(modelPath)
	if err != nil {
		fmt.Println("No model loaded:", err)
		fmt.Println("Falling back to minimax opponent")
		return minimax.NewHeuristic1(fallbackDepth)
	}
	fmt.Println("Loaded model from", modelPath)
	return model
}
