// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/procsuggest/ai"
	"github.com/poiesic/procsuggest/core"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// Required files in a model directory.
const (
	ConfigFile    = "config.json"
	TokenizerFile = "tokenizer.json"
	ModelFile     = "model.onnx"
)

// RequiredArtifacts lists the files CheckArtifacts looks for.
var RequiredArtifacts = []string{ConfigFile, TokenizerFile, ModelFile}

// Loader implements ai.ModelLoader and ai.ArtifactChecker for a fine-tuned
// model directory.
type Loader struct {
	config *ai.Config
	logger *slog.Logger
}

var (
	_ ai.ModelLoader     = (*Loader)(nil)
	_ ai.ArtifactChecker = (*Loader)(nil)
)

// NewLoader creates a loader for config.PrimaryModelDir. An empty directory
// is accepted; CheckArtifacts then reports the model as missing.
func NewLoader(config *ai.Config) (*Loader, error) {
	if config == nil {
		return nil, ai.ErrConfigRequired
	}
	return &Loader{
		config: config,
		logger: slog.Default().With("component", "local-loader"),
	}, nil
}

// ModelID identifies the model by its directory name.
func (l *Loader) ModelID() string {
	return "local:" + filepath.Base(filepath.Clean(l.config.PrimaryModelDir))
}

// CheckArtifacts reports which required files are absent.
func (l *Loader) CheckArtifacts() error {
	dir := l.config.PrimaryModelDir
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("%w: no model directory configured", core.ErrMissingArtifacts)
	}

	var missing []string
	for _, name := range RequiredArtifacts {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || info.IsDir() {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s lacks %s", core.ErrMissingArtifacts, dir, strings.Join(missing, ", "))
	}
	return nil
}

// Load opens the tokenizer and an inference session for the model.
func (l *Loader) Load(ctx context.Context) (ai.Embedder, error) {
	if err := l.CheckArtifacts(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := l.config.PrimaryModelDir
	l.logger.Info("loading primary embedding model", "dir", dir)

	hidden, err := readHiddenSize(filepath.Join(dir, ConfigFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrModelLoad, dir, err)
	}

	tk, err := pretrained.FromFile(filepath.Join(dir, TokenizerFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: tokenizer: %w", core.ErrModelLoad, dir, err)
	}

	if err := initRuntime(l.config.RuntimeLibrary); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrModelLoad, dir, err)
	}

	modelPath := filepath.Join(dir, ModelFile)
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: inspect model: %w", core.ErrModelLoad, dir, err)
	}
	names, err := resolveNames(inputs, outputs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrModelLoad, dir, err)
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath, names.inputs, []string{names.output}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: create session: %w", core.ErrModelLoad, dir, err)
	}

	l.logger.Debug("primary embedding model ready",
		"hidden_size", hidden, "inputs", names.inputs, "output", names.output)

	return &Embedder{
		session:   session,
		tokenizer: tk,
		names:     names,
		hidden:    hidden,
		maxSeqLen: l.config.MaxSequenceLength,
		logger:    l.logger,
	}, nil
}

type modelConfig struct {
	HiddenSize int `json:"hidden_size"`
}

func readHiddenSize(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var cfg modelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return 0, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if cfg.HiddenSize <= 0 {
		return 0, fmt.Errorf("%s: hidden_size must be positive", filepath.Base(path))
	}
	return cfg.HiddenSize, nil
}
