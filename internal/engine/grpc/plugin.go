// Package grpc provides gRPC-based plugin communication for Priora scoring engines.
// It uses HashiCorp's go-plugin library for process isolation and management.
package grpc

import (
	"context"

	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
)

// PluginName is the key under which the scoring engine is dispensed.
const PluginName = "scorer"

// HandshakeConfig is used to verify that the plugin is compatible.
// Both the host and plugins must use the same handshake configuration.
var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "PRIORA_SCORING_PLUGIN",
	MagicCookieValue: "priora-scoring-v1",
}

// PluginMap returns the plugin map used on both sides of the handshake.
// The host passes a nil impl.
func PluginMap(impl types.ScoringEngine) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginName: &ScoringPlugin{Impl: impl},
	}
}

// ScoringPlugin is the plugin.Plugin implementation for scoring engines.
type ScoringPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	// Impl is the concrete implementation (plugin-side).
	Impl types.ScoringEngine
}

var _ plugin.GRPCPlugin = (*ScoringPlugin)(nil)

// GRPCServer registers the scoring service on the plugin's gRPC server.
func (p *ScoringPlugin) GRPCServer(_ *plugin.GRPCBroker, s *grpc.Server) error {
	RegisterScorerServer(s, NewServer(p.Impl))
	return nil
}

// GRPCClient returns the host-side scoring engine backed by the plugin connection.
func (p *ScoringPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, c *grpc.ClientConn) (interface{}, error) {
	return NewClient(c), nil
}
