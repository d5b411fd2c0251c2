package neural

import (
	"encoding/json"
	"fmt"
	"os"

	deep "github.com/patrikeh/go-deep"
)

// Model artifact kinds.
const (
	KindValue  = "value"
	KindPolicy = "policy"
)

// modelFile is the on-disk JSON layout of a trained model.
type modelFile struct {
	Kind    string     `json:"kind"`
	Depth   int        `json:"depth,omitempty"`
	Network *deep.Dump `json:"network"`
}

// SaveModel writes a model artifact to path.
func SaveModel(m Model, path string) error {
	var file modelFile
	switch model := m.(type) {
	case *Value:
		file = modelFile{Kind: KindValue, Depth: model.depth, Network: model.network.Dump()}
	case *Policy:
		file = modelFile{Kind: KindPolicy, Network: model.network.Dump()}
	default:
		return fmt.Errorf("save model: unknown model type %T", m)
	}

	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// LoadModel reads a model artifact from path.
func LoadModel(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var file modelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if file.Network == nil {
		return nil, fmt.Errorf("decode model: missing network")
	}

	switch file.Kind {
	case KindValue:
		depth := file.Depth
		if depth <= 0 {
			depth = DefaultValueDepth
		}
		return &Value{network: deep.FromDump(file.Network), depth: depth}, nil
	case KindPolicy:
		return &Policy{network: deep.FromDump(file.Network)}, nil
	default:
		return nil, fmt.Errorf("decode model: unknown kind %q", file.Kind)
	}
}
