package neural

import (
	"fmt"

	"github.com/patrikeh/go-deep/training"

	"github.com/froglander/connect-four/pkg/game"
)

// FitRecords updates the value network from finished game records by
// supervised regression: every position is labelled with the final
// outcome from the perspective of the player who moved into it. This
// bootstraps a model from battle records before the slower
// evolution-strategies refinement.
func (v *Value) FitRecords(records []game.Record, learningRate float64, iterations int) error {
	if iterations <= 0 {
		return fmt.Errorf("fit records: iterations must be positive")
	}

	var examples training.Examples
	for i, record := range records {
		recordExamples, err := recordToExamples(record)
		if err != nil {
			return fmt.Errorf("fit records: record %d: %w", i, err)
		}
		examples = append(examples, recordExamples...)
	}
	if len(examples) == 0 {
		return fmt.Errorf("fit records: no training examples")
	}

	examples.Shuffle()
	trainer := training.NewTrainer(training.NewSGD(learningRate, 0.5, 0.0, false), 0)
	trainer.Train(v.network, examples, nil, iterations)
	return nil
}

// recordToExamples replays a record and emits one example per
// position, labelled with the outcome for the team that just moved.
func recordToExamples(record game.Record) (training.Examples, error) {
	outcome := func(team game.Team) float64 {
		switch record.Result.Winner {
		case team:
			return 1
		case game.TeamNone:
			return 0
		default:
			return -1
		}
	}

	var examples training.Examples
	var board game.Board
	team := game.TeamX
	for _, column := range record.Moves {
		if err := board.Drop(column, team); err != nil {
			return nil, fmt.Errorf("replay move %d: %w", column, err)
		}
		examples = append(examples, training.Example{
			Input:    boardFeatures(&board, team),
			Response: []float64{outcome(team)},
		})
		team = team.Other()
	}
	return examples, nil
}
