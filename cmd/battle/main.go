// Command battle runs bulk games between two configured players on a
// worker pool and writes the game records as numbered JSON files,
// continuing an existing sequence. It is the self-play data
// generation surface.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/froglander/connect-four/pkg/ai/minimax"
	"github.com/froglander/connect-four/pkg/ai/neural"
	"github.com/froglander/connect-four/pkg/ai/random"
	"github.com/froglander/connect-four/pkg/game"
)

type task struct {
	gameIndex int
	seqNum    int
}

type outcome struct {
	winner game.Team
	err    error
}

func main() {
	outputDir := flag.String("output", "output", "Output directory")
	outputPrefix := flag.String("output-prefix", "", "Output file name prefix")
	noOutput := flag.Bool("no-output", false, "Skip writing record files")
	games := flag.Int("games", 1, "Number of games to play")
	numWorkers := flag.Int("workers", runtime.NumCPU(), "Worker count")
	playerX := flag.String("player-x", "random", "Player for X: random, minimax:<depth> or model:<path>")
	playerO := flag.String("player-o", "random", "Player for O: random, minimax:<depth> or model:<path>")
	flag.Parse()

	if !*noOutput && *outputPrefix == "" {
		fmt.Println("error: --output-prefix is required")
		flag.Usage()
		os.Exit(1)
	}

	if !*noOutput {
		if err := os.MkdirAll(*outputDir, 0o755); err != nil {
			fmt.Printf("error: creating output directory: %v\n", err)
			os.Exit(1)
		}
	}

	startSeq := 1
	if !*noOutput {
		maxSeq, err := findMaxSequenceNumber(*outputDir, *outputPrefix)
		if err != nil {
			fmt.Printf("warning: checking existing files: %v\n", err)
		}
		startSeq = maxSeq + 1
		fmt.Printf("Continuing from sequence number %05d\n", startSeq)
	}

	fmt.Printf("Running %d games (%d workers)\n", *games, *numWorkers)

	tasks := make(chan task, *games)
	results := make(chan outcome, *games)

	var wg sync.WaitGroup
	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go worker(tasks, results, *playerX, *playerO, *outputDir, *outputPrefix, *noOutput, &wg)
	}

	go func() {
		for i := 0; i < *games; i++ {
			tasks <- task{gameIndex: i, seqNum: startSeq + i}
		}
		close(tasks)
	}()

	wins := map[game.Team]int{}
	failed := 0
	for i := 0; i < *games; i++ {
		result := <-results
		if result.err != nil {
			fmt.Printf("error: %v\n", result.err)
			failed++
			continue
		}
		wins[result.winner]++
	}
	wg.Wait()

	fmt.Println("All games finished")
	fmt.Printf("Wins: X: %d, O: %d, draws: %d, failed: %d\n",
		wins[game.TeamX], wins[game.TeamO], wins[game.TeamNone], failed)
}

func worker(tasks <-chan task, results chan<- outcome, playerX, playerO, outputDir, outputPrefix string, noOutput bool, wg *sync.WaitGroup) {
	defer wg.Done()

	for t := range tasks {
		record, err := playOne(playerX, playerO)
		if err != nil {
			results <- outcome{err: fmt.Errorf("game %d: %w", t.gameIndex, err)}
			continue
		}

		if !noOutput {
			data, err := json.Marshal(record)
			if err != nil {
				results <- outcome{err: fmt.Errorf("game %d: encode record: %w", t.gameIndex, err)}
				continue
			}
			filename := filepath.Join(outputDir, fmt.Sprintf("%s_%05d.json", outputPrefix, t.seqNum))
			if err := os.WriteFile(filename, data, 0o644); err != nil {
				results <- outcome{err: fmt.Errorf("game %d: write record: %w", t.gameIndex, err)}
				continue
			}
		}

		results <- outcome{winner: record.Result.Winner}
	}
}

func playOne(playerX, playerO string) (game.Record, error) {
	x, err := buildPlayer(playerX)
	if err != nil {
		return game.Record{}, err
	}
	o, err := buildPlayer(playerO)
	if err != nil {
		return game.Record{}, err
	}
	g, err := game.NewGame(x, o)
	if err != nil {
		return game.Record{}, err
	}
	return g.Run()
}

// buildPlayer constructs a player from its spec string. Each game
// gets fresh players so workers never share state.
func buildPlayer(spec string) (game.Player, error) {
	kind, arg, _ := strings.Cut(spec, ":")
	switch kind {
	case "random":
		return random.New(), nil
	case "minimax":
		depth := 5
		if arg != "" {
			d, err := strconv.Atoi(arg)
			if err != nil || d < 1 {
				return nil, fmt.Errorf("invalid minimax depth %q", arg)
			}
			depth = d
		}
		return minimax.NewHeuristic1(depth), nil
	case "model":
		if arg == "" {
			return nil, fmt.Errorf("model player needs a path, e.g. model:model.json")
		}
		return neural.LoadModel(arg)
	default:
		return nil, fmt.Errorf("unknown player %q", spec)
	}
}

// findMaxSequenceNumber scans dir for prefix_NNNNN.json files and
// returns the highest sequence number found.
func findMaxSequenceNumber(dir, prefix string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	pattern := regexp.MustCompile(fmt.Sprintf(`^%s_(\d{5})\.json$`, regexp.QuoteMeta(prefix)))
	maxSeq := 0
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		matches := pattern.FindStringSubmatch(file.Name())
		if len(matches) != 2 {
			continue
		}
		seq, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, nil
}
