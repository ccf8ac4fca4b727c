// Command priora-scorer-plugin serves the reference scoring engine as a go-plugin process.
// Point PRIORA_SCORER_PLUGIN_PATH at the binary and set PRIORA_SCORER_MODE=plugin.
package main

import (
	"os"

	"github.com/felixgeelhaar/priora/internal/engine/builtin"
	scorergrpc "github.com/felixgeelhaar/priora/internal/engine/grpc"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "priora-scorer-plugin",
		Level:      hclog.LevelFromString(os.Getenv("PRIORA_LOG_LEVEL")),
		Output:     os.Stderr,
		JSONFormat: true,
	})

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: scorergrpc.HandshakeConfig,
		Plugins:         scorergrpc.PluginMap(builtin.NewDefaultScoringEngine()),
		GRPCServer:      plugin.DefaultGRPCServer,
		Logger:          logger,
	})
}
