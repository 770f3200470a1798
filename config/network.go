package config

import "time"

// NetworkConfig contains client networking cadence and telemetry values.
type NetworkConfig struct {
	// Minimum interval between position updates to the server
	PositionUpdateInterval time.Duration

	// Ring size for sent-position records awaiting acknowledgment
	SendHistorySize int

	// Predicted-vs-acked distance above which a warning is logged
	DivergenceWarnDistance float64

	// Give up on a session that has not been established after this long
	JoinTimeout time.Duration
}

// Network is the global network configuration
var Network NetworkConfig

func init() {
	Network = NetworkConfig{
		PositionUpdateInterval: 25 * time.Millisecond,
		SendHistorySize:        64,
		DivergenceWarnDistance: 300.0,
		JoinTimeout:            10 * time.Second,
	}
}
