package p2p

import (
	"testing"
	"time"

	"github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	t.Run("GossipsubConfig", func(t *testing.T) {
		assert.Equal(t, 8, config.GossipsubConfig.MeshN)
		assert.Equal(t, 5, config.GossipsubConfig.MeshNLow)
		assert.Equal(t, 12, config.GossipsubConfig.MeshNHigh)
		assert.Equal(t, time.Second, config.GossipsubConfig.HeartbeatInterval)
		assert.True(t, config.GossipsubConfig.EnableScoring)
	})

	t.Run("DHTConfig", func(t *testing.T) {
		assert.Equal(t, 30*time.Second, config.DHTConfig.BootstrapTimeout)
		assert.Equal(t, "auto", config.DHTConfig.Mode)
		assert.Equal(t, "/bsots", config.DHTConfig.ProtocolPrefix)
	})

	t.Run("CollectorConfig", func(t *testing.T) {
		assert.Equal(t, 30*time.Second, config.Collector.BatchTimeout)
	})

	t.Run("DefaultArrays", func(t *testing.T) {
		assert.NotNil(t, config.ListenAddrs)
		assert.Equal(t, 0, len(config.ListenAddrs))
		assert.NotNil(t, config.BootstrapPeers)
		assert.Equal(t, 0, len(config.BootstrapPeers))
	})
}

func TestConfigValidation(t *testing.T) {
	t.Run("ValidMultiaddrs", func(t *testing.T) {
		config := DefaultConfig()

		addr1, err := multiaddr.NewMultiaddr("/ip4/127.0.0.1/tcp/4001")
		require.NoError(t, err)

		addr2, err := multiaddr.NewMultiaddr("/ip6/::1/tcp/4001")
		require.NoError(t, err)

		config.ListenAddrs = []multiaddr.Multiaddr{addr1, addr2}
		config.BootstrapPeers = []multiaddr.Multiaddr{addr1}

		assert.Equal(t, 2, len(config.ListenAddrs))
		assert.Equal(t, 1, len(config.BootstrapPeers))
	})

	t.Run("ConfigurableValues", func(t *testing.T) {
		config := DefaultConfig()

		config.GossipsubConfig.MeshN = 10
		config.GossipsubConfig.MeshNLow = 6
		config.GossipsubConfig.MeshNHigh = 15
		config.GossipsubConfig.HeartbeatInterval = 2 * time.Second
		config.GossipsubConfig.EnableScoring = false

		assert.Equal(t, 10, config.GossipsubConfig.MeshN)
		assert.Equal(t, 6, config.GossipsubConfig.MeshNLow)
		assert.Equal(t, 15, config.GossipsubConfig.MeshNHigh)
		assert.Equal(t, 2*time.Second, config.GossipsubConfig.HeartbeatInterval)
		assert.False(t, config.GossipsubConfig.EnableScoring)
	})

	t.Run("DHTModes", func(t *testing.T) {
		config := DefaultConfig()

		validModes := []string{"client", "server", "auto"}
		for _, mode := range validModes {
			config.DHTConfig.Mode = mode
			assert.Equal(t, mode, config.DHTConfig.Mode)
		}
	})

	t.Run("ProtocolPrefix", func(t *testing.T) {
		config := DefaultConfig()

		customPrefixes := []string{
			"/bsots",
			"/test-network",
			"/custom/v1",
		}

		for _, prefix := range customPrefixes {
			config.DHTConfig.ProtocolPrefix = prefix
			assert.Equal(t, prefix, config.DHTConfig.ProtocolPrefix)
		}
	})

	t.Run("BatchTimeoutOverride", func(t *testing.T) {
		config := DefaultConfig()
		config.Collector.BatchTimeout = 5 * time.Second
		assert.Equal(t, 5*time.Second, config.Collector.BatchTimeout)
	})
}

func TestConfigConsistency(t *testing.T) {
	t.Run("MeshParameterOrder", func(t *testing.T) {
		config := DefaultConfig()

		assert.LessOrEqual(t, config.GossipsubConfig.MeshNLow, config.GossipsubConfig.MeshN)
		assert.LessOrEqual(t, config.GossipsubConfig.MeshN, config.GossipsubConfig.MeshNHigh)
	})

	t.Run("PositiveTimeouts", func(t *testing.T) {
		config := DefaultConfig()

		assert.Positive(t, config.DHTConfig.BootstrapTimeout)
		assert.Positive(t, config.GossipsubConfig.HeartbeatInterval)
		assert.Positive(t, config.Collector.BatchTimeout)
	})

	t.Run("ReasonableDefaults", func(t *testing.T) {
		config := DefaultConfig()

		assert.GreaterOrEqual(t, config.GossipsubConfig.MeshN, 4)
		assert.LessOrEqual(t, config.GossipsubConfig.MeshN, 20)

		assert.GreaterOrEqual(t, config.GossipsubConfig.HeartbeatInterval, 500*time.Millisecond)
		assert.LessOrEqual(t, config.GossipsubConfig.HeartbeatInterval, 10*time.Second)
	})
}

func BenchmarkDefaultConfig(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = DefaultConfig()
	}
}

func TestConfigSerialization(t *testing.T) {
	t.Run("ConfigFieldsAccessible", func(t *testing.T) {
		config := DefaultConfig()

		assert.NotNil(t, config.GossipsubConfig)
		assert.NotNil(t, config.DHTConfig)
		assert.NotNil(t, config.Collector)
		assert.NotNil(t, config.ListenAddrs)
		assert.NotNil(t, config.BootstrapPeers)
	})
}
