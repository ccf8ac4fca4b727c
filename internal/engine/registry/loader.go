package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	enginegrpc "github.com/felixgeelhaar/priora/internal/engine/grpc"
	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/security"
	"github.com/hashicorp/go-plugin"
)

// Loader handles loading scoring plugins using HashiCorp go-plugin.
type Loader struct {
	logger *slog.Logger

	mu      sync.Mutex
	clients map[string]*plugin.Client
}

// NewLoader creates a new plugin loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:  logger,
		clients: make(map[string]*plugin.Client),
	}
}

// LoadOptions contains options for loading a plugin.
type LoadOptions struct {
	// BinaryPath is the absolute path of the plugin executable.
	BinaryPath string

	// Checksum is the expected "sha256:HEX" digest of the binary. Empty skips verification.
	Checksum string
}

// Load starts the plugin binary and dispenses its scoring engine.
func (l *Loader) Load(ctx context.Context, opts LoadOptions) (types.ScoringEngine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sanitizedPath, err := security.ValidateBinaryPath(opts.BinaryPath)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: binary path validation failed: %w", opts.BinaryPath, err)
	}

	info, err := os.Stat(sanitizedPath)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: binary not found: %w", sanitizedPath, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("plugin %s: binary path is not a regular file", sanitizedPath)
	}

	if opts.Checksum != "" {
		if err := l.verifyChecksum(sanitizedPath, opts.Checksum); err != nil {
			return nil, fmt.Errorf("plugin %s: checksum verification failed: %w", sanitizedPath, err)
		}
	}

	l.logger.Info("loading scoring plugin", "binary", sanitizedPath)

	// #nosec G204 -- binary path is validated by security.ValidateBinaryPath
	cmd := exec.Command(sanitizedPath)
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig: enginegrpc.HandshakeConfig,
		Plugins:         enginegrpc.PluginMap(nil),
		Cmd:             cmd,
		Logger:          newHclogAdapter(l.logger),
		AllowedProtocols: []plugin.Protocol{
			plugin.ProtocolGRPC,
		},
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("plugin %s: failed to connect: %w", sanitizedPath, err)
	}

	raw, err := rpcClient.Dispense(enginegrpc.PluginName)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("plugin %s: failed to dispense: %w", sanitizedPath, err)
	}

	engine, ok := raw.(types.ScoringEngine)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("plugin %s: does not implement the scoring engine", sanitizedPath)
	}

	l.mu.Lock()
	if previous, exists := l.clients[sanitizedPath]; exists {
		previous.Kill()
	}
	l.clients[sanitizedPath] = client
	l.mu.Unlock()

	l.logger.Info("scoring plugin loaded", "binary", sanitizedPath, "engine_id", engine.Metadata().ID)
	return engine, nil
}

// Unload stops a plugin by binary path.
func (l *Loader) Unload(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if client, exists := l.clients[path]; exists {
		client.Kill()
		delete(l.clients, path)
		l.logger.Info("scoring plugin unloaded", "binary", path)
	}
}

// UnloadAll stops every plugin process.
func (l *Loader) UnloadAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for path, client := range l.clients {
		client.Kill()
		l.logger.Info("scoring plugin unloaded", "binary", path)
	}
	l.clients = make(map[string]*plugin.Client)
}

// IsLoaded checks if a plugin is currently running.
func (l *Loader) IsLoaded(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, exists := l.clients[path]
	return exists
}

// verifyChecksum verifies the SHA256 checksum of a file.
// Expected format: "sha256:HEXHASH" or just "HEXHASH".
func (l *Loader) verifyChecksum(path, expected string) error {
	algorithm, hash := "sha256", expected
	if before, after, found := strings.Cut(expected, ":"); found {
		algorithm, hash = strings.ToLower(before), after
	}
	if algorithm != "sha256" {
		return fmt.Errorf("unsupported checksum algorithm: %s (only sha256 is supported)", algorithm)
	}

	// #nosec G304 - path is validated by security.ValidateBinaryPath before calling verifyChecksum
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	computed := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(computed, hash) {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", hash, computed)
	}
	return nil
}
