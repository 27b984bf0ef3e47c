package local

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sugarme/tokenizer"
	ort "github.com/yalue/onnxruntime_go"
)

// ErrClosed is returned by an Embedder after Close.
var ErrClosed = errors.New("local embedder is closed")

type encoder interface {
	EncodeSingle(input string, addSpecialTokensOpt ...bool) (*tokenizer.Encoding, error)
}

// Embedder implements ai.Embedder on an onnxruntime session.
type Embedder struct {
	mu        sync.Mutex
	session   *ort.DynamicAdvancedSession
	tokenizer encoder
	names     ioNames
	hidden    int
	maxSeqLen int
	logger    *slog.Logger
}

// EmbedText generates an embedding for a single text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts encodes texts as one padded batch and runs the model once.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	encoded := make([]tokens, len(texts))
	for i, text := range texts {
		enc, err := e.tokenizer.EncodeSingle(text, true)
		if err != nil {
			return nil, fmt.Errorf("tokenize text %d: %w", i, err)
		}
		encoded[i] = tokens{ids: enc.Ids, mask: enc.AttentionMask, types: enc.TypeIds}.truncate(e.maxSeqLen)
	}
	b := buildBatch(encoded)

	shape := ort.NewShape(int64(b.size), int64(b.seqLen))
	inputs := make([]ort.Value, 0, len(e.names.inputs))
	defer func() {
		for _, in := range inputs {
			in.Destroy()
		}
	}()
	for _, name := range e.names.inputs {
		tensor, err := ort.NewTensor(shape, b.input(name))
		if err != nil {
			return nil, fmt.Errorf("create %s tensor: %w", name, err)
		}
		inputs = append(inputs, tensor)
	}

	outputs := []ort.Value{nil}
	if err := e.run(inputs, outputs); err != nil {
		return nil, err
	}
	defer outputs[0].Destroy()

	result, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("output %s is not a float32 tensor", e.names.output)
	}
	return poolOutput(result.GetData(), result.GetShape(), b, e.hidden)
}

// poolOutput turns a model output into one vector per text. The output
// width must match hidden_size from the model configuration.
func poolOutput(data []float32, dims ort.Shape, b batch, hidden int) ([][]float32, error) {
	if len(dims) < 2 {
		return nil, fmt.Errorf("output has unexpected shape %v", dims)
	}
	width := int(dims[len(dims)-1])
	if hidden > 0 && width != hidden {
		return nil, fmt.Errorf("output width %d does not match hidden_size %d", width, hidden)
	}
	switch len(dims) {
	case 3:
		return meanPool(data, b.mask, b.size, b.seqLen, width)
	case 2:
		return splitRows(data, b.size, width)
	default:
		return nil, fmt.Errorf("output has unexpected shape %v", dims)
	}
}

func (e *Embedder) run(inputs, outputs []ort.Value) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return ErrClosed
	}
	if err := e.session.Run(inputs, outputs); err != nil {
		return fmt.Errorf("run model: %w", err)
	}
	return nil
}

// Close releases the inference session.
func (e *Embedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	err := e.session.Destroy()
	e.session = nil
	return err
}
