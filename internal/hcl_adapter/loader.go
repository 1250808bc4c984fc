package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LadybugDB/bugscope/internal/config"
	"github.com/LadybugDB/bugscope/internal/ctxlog"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	evalCtx *hcl.EvalContext
}

// NewLoader creates a Loader evaluating expressions with NewEvalContext.
func NewLoader() *Loader {
	return &Loader{evalCtx: NewEvalContext()}
}

// section is a block whose body is decoded later, on top of existing values.
type section struct {
	Body hcl.Body `hcl:",remain"`
}

// fileRoot splits a file into its blocks and its top-level attributes.
type fileRoot struct {
	Server *section `hcl:"server,block"`
	Engine *section `hcl:"engine,block"`
	Log    *section `hcl:"log,block"`
	Remain hcl.Body `hcl:",remain"`
}

// Load parses the file at path and applies it on top of a copy of base.
func (l *Loader) Load(ctx context.Context, path string, base *config.Config) (*config.Config, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading configuration file.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	cfg := *base
	if diags := gohcl.DecodeBody(root.Remain, l.evalCtx, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	for _, s := range []struct {
		block  *section
		target any
	}{
		{root.Server, &cfg.Server},
		{root.Engine, &cfg.Engine},
		{root.Log, &cfg.Log},
	} {
		if s.block == nil {
			continue
		}
		if diags := gohcl.DecodeBody(s.block.Body, l.evalCtx, s.target); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
		}
	}

	dir := filepath.Dir(path)
	cfg.Root = relativeTo(dir, cfg.Root, base.Root)
	cfg.Log.File = relativeTo(dir, cfg.Log.File, base.Log.File)

	logger.Debug("Configuration file loaded.", "path", path, "root", cfg.Root, "engine", cfg.Engine.Kind)
	return &cfg, nil
}

// relativeTo resolves a path changed by the file against the file's
// directory. Unchanged, empty and absolute paths are returned as is.
func relativeTo(dir, path, before string) string {
	if path == before || path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
