package app

import (
	"fmt"

	"github.com/LadybugDB/bugscope/internal/config"
	"github.com/LadybugDB/bugscope/internal/engine"
	"github.com/LadybugDB/bugscope/internal/kuzuengine"
	"github.com/LadybugDB/bugscope/internal/memengine"
)

// engineFactories maps config engine kinds to constructors.
var engineFactories = map[string]func() engine.Engine{
	config.EngineKuzu:   kuzuengine.New,
	config.EngineMemory: func() engine.Engine { return memengine.Demo() },
}

func newEngine(kind string) (engine.Engine, error) {
	factory, ok := engineFactories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown engine kind %q", kind)
	}
	return factory(), nil
}
