package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"poolPulse/internal/chain"
	"poolPulse/internal/config"
	"poolPulse/internal/model"
)

// checkResult is one pool's outcome in the check report.
type checkResult struct {
	Pool     string              `json:"pool"`
	Exists   bool                `json:"exists"`
	Error    string              `json:"error,omitempty"`
	Snapshot *model.PoolSnapshot `json:"snapshot,omitempty"`
}

func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Fetch each configured pool once and print the result",
		RunE:  runCheck,
	}

	checkCmd.Flags().String("rpc", "", "Solana RPC URL")
	checkCmd.Flags().String("program-id", "", "AMM program id (base58)")
	checkCmd.Flags().StringSlice("pool", nil, "pool spec NAME:TOKEN_A:TOKEN_B:KIND (repeatable)")
	checkCmd.Flags().Duration("fetch-timeout", 2*time.Second, "per-account RPC timeout")
	checkCmd.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")

	return checkCmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pools, err := cfg.Identities()
	if err != nil {
		return err
	}
	programID, err := chain.ParsePublicKey(cfg.ProgramID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	reader := chain.NewReader(chain.NewClient(cfg.RPCURL, cfg.FetchTimeout), programID, logger)

	results := make([]checkResult, 0, len(pools))
	failures := 0
	for _, pool := range pools {
		snap, err := reader.FetchPoolState(ctx, pool)
		switch {
		case err != nil:
			failures++
			results = append(results, checkResult{Pool: pool.Name, Error: err.Error()})
		case snap == nil:
			results = append(results, checkResult{Pool: pool.Name, Exists: false})
		default:
			results = append(results, checkResult{Pool: pool.Name, Exists: true, Snapshot: snap})
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return err
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d pools failed", failures, len(pools))
	}
	return nil
}
