package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeBatchID computes a deterministic batch_id using SHA256.
// Formula: SHA256(operation|main_address|started_at_ms)
// Returns hex-encoded hash (64 characters).
func ComputeBatchID(operation, mainAddress string, startedAtMs int64) string {
	data := fmt.Sprintf("%s|%s|%d", operation, mainAddress, startedAtMs)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
