package main

import (
	"fmt"
	"time"

	"github.com/sauerbraten/jsonfile"

	"github.com/chazu/facet/pkg/engine"
	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/kernel/manifold"
	"github.com/chazu/facet/pkg/kernel/sdfx"
)

type Config struct {
	Kernel               string        `json:"kernel"`
	EvalTimeoutInSeconds time.Duration `json:"eval_timeout_in_seconds"`
	MeshCells            int           `json:"mesh_cells"`
	DedupeEpsilon        float64       `json:"dedupe_epsilon"`
	Geometry             geom.Options  `json:"geometry"`
}

func DefaultConfig() *Config {
	return &Config{
		Kernel:               "sdfx",
		EvalTimeoutInSeconds: engine.EvalTimeout / time.Second,
		MeshCells:            sdfx.DefaultMeshCells,
		DedupeEpsilon:        engine.DefaultDedupeEpsilon,
		Geometry:             geom.DefaultOptions(),
	}
}

// LoadConfig reads a config file over the defaults. An empty path returns the
// defaults.
func LoadConfig(path string) (*Config, error) {
	conf := DefaultConfig()
	if path == "" {
		return conf, nil
	}
	if err := jsonfile.ParseFile(path, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// NewKernel builds the configured solid kernel.
func (c *Config) NewKernel() (kernel.Kernel, error) {
	switch c.Kernel {
	case "", "sdfx":
		return sdfx.NewWithCells(c.MeshCells), nil
	case "manifold":
		return manifold.New()
	}
	return nil, fmt.Errorf("unknown kernel %q, expected sdfx or manifold", c.Kernel)
}

// EngineOptions turns the config into engine options meshing with k.
func (c *Config) EngineOptions(k kernel.Kernel) []engine.Option {
	return []engine.Option{
		engine.WithTimeout(c.EvalTimeoutInSeconds * time.Second), // timeout is parsed without unit from config file
		engine.WithKernel(k),
		engine.WithOptions(c.Geometry),
		engine.WithDedupeEpsilon(c.DedupeEpsilon),
	}
}
