// Package idhash computes deterministic identifiers so that replaying the
// same inputs reproduces the same IDs.
package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// ComputeRunID computes a deterministic run_id using SHA256.
// Formula: SHA256(strategy_id|seed|started_at_ms)
// Returns a base58-encoded digest.
func ComputeRunID(strategyID string, seed int64, startedAtMs int64) string {
	data := fmt.Sprintf("%s|%d|%d", strategyID, seed, startedAtMs)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}

// ComputeOrderID computes a deterministic order_id using SHA256.
// Formula: SHA256(run_id|symbol|side|quantity|timestamp_ms|sequence)
// Returns a base58-encoded digest.
func ComputeOrderID(runID, symbol, side string, quantity int64, timestampMs int64, sequence int64) string {
	data := fmt.Sprintf("%s|%s|%s|%d|%d|%d", runID, symbol, side, quantity, timestampMs, sequence)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
