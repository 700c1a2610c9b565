package idhash

import "testing"

func TestComputeBatchID(t *testing.T) {
	tests := []struct {
		name        string
		operation   string
		mainAddress string
		startedAtMs int64
	}{
		{
			name:        "distribute",
			operation:   "distribute",
			mainAddress: "MainAddr123ABC",
			startedAtMs: 1700000000000,
		},
		{
			name:        "collect",
			operation:   "collect",
			mainAddress: "MainAddr123ABC",
			startedAtMs: 1700000000000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := ComputeBatchID(tt.operation, tt.mainAddress, tt.startedAtMs)
			if len(id) != 64 {
				t.Errorf("expected 64-char hash, got %d chars", len(id))
			}

			// Deterministic: same inputs produce same ID
			id2 := ComputeBatchID(tt.operation, tt.mainAddress, tt.startedAtMs)
			if id != id2 {
				t.Errorf("expected deterministic ID, got %s and %s", id, id2)
			}
		})
	}
}

func TestComputeBatchID_Uniqueness(t *testing.T) {
	base := ComputeBatchID("distribute", "MainAddr", 1700000000000)

	variants := []string{
		ComputeBatchID("collect", "MainAddr", 1700000000000),
		ComputeBatchID("distribute", "OtherAddr", 1700000000000),
		ComputeBatchID("distribute", "MainAddr", 1700000000001),
	}

	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collides with base ID", i)
		}
	}
}
