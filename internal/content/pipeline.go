package content

import "fmt"

// Transformer rewrites a description at one stage of the render pipeline.
type Transformer interface {
	Transform(input []byte) ([]byte, error)
}

// TransformerFunc adapts a plain function to [Transformer].
type TransformerFunc func(input []byte) ([]byte, error)

// Transform satisfies [Transformer].
func (fn TransformerFunc) Transform(input []byte) ([]byte, error) { return fn(input) }

// Chain runs transformers in order, feeding each the previous output. The
// first failure stops the chain and is reported with its 1-based stage.
func Chain(transformers ...Transformer) TransformerFunc {
	return func(input []byte) ([]byte, error) {
		out := input
		for i, transformer := range transformers {
			next, err := transformer.Transform(out)
			if err != nil {
				return nil, fmt.Errorf("render stage %d: %w", i+1, err)
			}
			out = next
		}
		return out, nil
	}
}
