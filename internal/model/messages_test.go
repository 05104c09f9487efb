package model

import (
	"encoding/json"
	"testing"
)

func TestPoolSnapshotJSONFieldNames(t *testing.T) {
	snap := PoolSnapshot{
		Pool:     "NTD-USD",
		TokenA:   "EzuizPB11ShdvPgLsfXKf1U6TXxTpAbiCMBzaJyjkE7u",
		TokenB:   "5ru1xrqJtfcJfr2uEr4yr9q39RWiLUX6zaWy7PnbtR6A",
		FeeRate:  300,
		Kind:     PoolKindStable,
		ReserveA: 1_000_000,
		ReserveB: 2_000_000,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, field := range []string{"poolType", "tokenA", "tokenB", "feeRate", "poolTypeNum", "vaultABalance", "vaultBBalance"} {
		if _, ok := decoded[field]; !ok {
			t.Fatalf("missing field %q in %s", field, data)
		}
	}
}

func TestHealthStatusJSONFieldNames(t *testing.T) {
	status := HealthStatus{IsDown: true, IsTransactionsLocked: true, FailureCount: 21, MaxFailures: 3, MaxDowntime: 20}

	data, err := json.Marshal(status)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, field := range []string{"isDown", "isTransactionsLocked", "failureCount", "maxFailures", "maxDowntime"} {
		if _, ok := decoded[field]; !ok {
			t.Fatalf("missing field %q in %s", field, data)
		}
	}
}

func TestUpstreamStatus(t *testing.T) {
	cases := []struct {
		status HealthStatus
		want   string
	}{
		{HealthStatus{}, StatusUp},
		{HealthStatus{IsTransactionsLocked: true}, StatusUnstable},
		{HealthStatus{IsDown: true, IsTransactionsLocked: true}, StatusDown},
	}
	for _, tc := range cases {
		if got := tc.status.UpstreamStatus(); got != tc.want {
			t.Fatalf("UpstreamStatus(%+v) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestParsePoolKind(t *testing.T) {
	for name, want := range map[string]PoolKind{
		"standard":     PoolKindStandard,
		"Stable":       PoolKindStable,
		" concentrated": PoolKindConcentrated,
	} {
		got, err := ParsePoolKind(name)
		if err != nil {
			t.Fatalf("ParsePoolKind(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("ParsePoolKind(%q) = %v, want %v", name, got, want)
		}
	}

	if _, err := ParsePoolKind("weighted"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
