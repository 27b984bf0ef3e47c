package local

import (
	"errors"
	"fmt"
	"slices"

	"github.com/poiesic/procsuggest/core"
	ort "github.com/yalue/onnxruntime_go"
)

const (
	inputIDs      = "input_ids"
	attentionMask = "attention_mask"
	tokenTypeIDs  = "token_type_ids"
)

// Output names in order of preference. Token-level outputs are pooled here;
// sentence-level outputs are only normalized.
var outputPreference = []string{"last_hidden_state", "token_embeddings", "sentence_embedding"}

type ioNames struct {
	inputs []string
	output string
}

func resolveNames(inputs, outputs []ort.InputOutputInfo) (ioNames, error) {
	var names ioNames
	for _, in := range inputs {
		switch in.Name {
		case inputIDs, attentionMask, tokenTypeIDs:
			names.inputs = append(names.inputs, in.Name)
		default:
			return ioNames{}, fmt.Errorf("unsupported model input %q", in.Name)
		}
	}
	if !slices.Contains(names.inputs, inputIDs) || !slices.Contains(names.inputs, attentionMask) {
		return ioNames{}, errors.New("model must take input_ids and attention_mask")
	}
	if len(outputs) == 0 {
		return ioNames{}, errors.New("model has no outputs")
	}

	for _, want := range outputPreference {
		for _, out := range outputs {
			if out.Name == want {
				names.output = want
				return names, nil
			}
		}
	}
	names.output = outputs[0].Name
	return names, nil
}

// tokens is one encoded text.
type tokens struct {
	ids   []int
	mask  []int
	types []int
}

// truncate keeps the first maxLen-1 tokens and the final special token.
func (t tokens) truncate(maxLen int) tokens {
	if maxLen <= 1 || len(t.ids) <= maxLen {
		return t
	}
	cut := func(s []int) []int {
		if len(s) < len(t.ids) {
			return s
		}
		out := make([]int, 0, maxLen)
		out = append(out, s[:maxLen-1]...)
		return append(out, s[len(s)-1])
	}
	return tokens{ids: cut(t.ids), mask: cut(t.mask), types: cut(t.types)}
}

// batch is a right-padded [size, seqLen] block of token data.
type batch struct {
	size   int
	seqLen int
	ids    []int64
	mask   []int64
	types  []int64
}

func buildBatch(encoded []tokens) batch {
	b := batch{size: len(encoded)}
	for _, e := range encoded {
		b.seqLen = max(b.seqLen, len(e.ids))
	}
	if b.seqLen == 0 {
		b.seqLen = 1
	}

	n := b.size * b.seqLen
	b.ids = make([]int64, n)
	b.mask = make([]int64, n)
	b.types = make([]int64, n)
	for i, e := range encoded {
		row := i * b.seqLen
		for j, id := range e.ids {
			b.ids[row+j] = int64(id)
			b.mask[row+j] = 1
			if j < len(e.mask) {
				b.mask[row+j] = int64(e.mask[j])
			}
			if j < len(e.types) {
				b.types[row+j] = int64(e.types[j])
			}
		}
	}
	return b
}

func (b batch) input(name string) []int64 {
	switch name {
	case inputIDs:
		return b.ids
	case attentionMask:
		return b.mask
	default:
		return b.types
	}
}

// meanPool averages token vectors where mask is set and normalizes each row.
// hidden is laid out [size, seqLen, dim].
func meanPool(hidden []float32, mask []int64, size, seqLen, dim int) ([][]float32, error) {
	if len(hidden) != size*seqLen*dim {
		return nil, fmt.Errorf("output has %d values, want %d", len(hidden), size*seqLen*dim)
	}
	out := make([][]float32, size)
	for b := 0; b < size; b++ {
		sum := make([]float64, dim)
		var count float64
		for t := 0; t < seqLen; t++ {
			if mask[b*seqLen+t] == 0 {
				continue
			}
			count++
			base := (b*seqLen + t) * dim
			for d := 0; d < dim; d++ {
				sum[d] += float64(hidden[base+d])
			}
		}
		count = max(count, 1e-9)
		vec := make([]float32, dim)
		for d := range sum {
			vec[d] = float32(sum[d] / count)
		}
		out[b] = core.NormalizeVector(vec)
	}
	return out, nil
}

// splitRows normalizes an already pooled [size, dim] output.
func splitRows(pooled []float32, size, dim int) ([][]float32, error) {
	if len(pooled) != size*dim {
		return nil, fmt.Errorf("output has %d values, want %d", len(pooled), size*dim)
	}
	out := make([][]float32, size)
	for b := 0; b < size; b++ {
		out[b] = core.NormalizeVector(pooled[b*dim : (b+1)*dim])
	}
	return out, nil
}
