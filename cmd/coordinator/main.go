// Command coordinator drives wallet creation and signing ceremonies
// across a participant roster (spec.md §4.3), as one-shot cobra
// subcommands rather than a long-running server: the coordinator has no
// externally-exposed RPC surface of its own, only the one it calls out
// on (coordinator/rpcclient).
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/coordinator"
	"github.com/j04n-f/mpc-waas/coordinator/rpcclient"
	"github.com/j04n-f/mpc-waas/internal/config"
	"github.com/j04n-f/mpc-waas/internal/logger"
	"github.com/j04n-f/mpc-waas/model"
)

func main() {
	var configPath string
	var digestHex string
	var elevated bool

	root := &cobra.Command{
		Use:   "coordinator",
		Short: "Drive wallet creation and signing ceremonies",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "coordinator.yaml", "path to the coordinator's YAML config")

	createCmd := &cobra.Command{
		Use:   "create-wallet",
		Short: "Run a DKG ceremony across the configured quorum",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := build(configPath)
			if err != nil {
				return err
			}
			wallet, err := c.CreateWallet(context.Background(), cfg.Coordinator.Threshold)
			if err != nil {
				return err
			}
			return printJSON(wallet)
		},
	}

	signCmd := &cobra.Command{
		Use:   "sign <wallet-id>",
		Short: "Run a signing ceremony over a 32-byte hex digest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := build(configPath)
			if err != nil {
				return err
			}
			walletUUID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("coordinator: invalid wallet id: %w", err)
			}
			digestBytes, err := hex.DecodeString(digestHex)
			if err != nil || len(digestBytes) != 32 {
				return fmt.Errorf("coordinator: --digest must be 32 bytes of hex")
			}
			var digest [32]byte
			copy(digest[:], digestBytes)

			wallet := model.Wallet{ID: model.WalletID(walletUUID), Threshold: cfg.Coordinator.Threshold}
			r, s, err := c.Sign(context.Background(), wallet, digest, elevated)
			if err != nil {
				return err
			}
			return printJSON(struct {
				R string `json:"r"`
				S string `json:"s"`
			}{hex.EncodeToString(r), hex.EncodeToString(s)})
		},
	}
	signCmd.Flags().StringVar(&digestHex, "digest", "", "32-byte hex digest to sign")
	signCmd.Flags().BoolVar(&elevated, "elevated", false, "allow cold-storage participants into the quorum")

	root.AddCommand(createCmd, signCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "coordinator: %v\n", err)
		os.Exit(1)
	}
}

func build(configPath string) (*coordinator.Coordinator, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cfg.LogLevel)

	var participants []coordinator.Participant
	var cold []party.ID
	quorumSet := make(map[string]bool, len(cfg.Coordinator.Quorum))
	for _, id := range cfg.Coordinator.Quorum {
		quorumSet[id] = true
	}
	for id, endpoint := range cfg.Coordinator.Participant {
		if !quorumSet[id] {
			cold = append(cold, party.ID(id))
		}
		participants = append(participants, coordinator.Participant{
			ID:     party.ID(id),
			Client: rpcclient.New(endpoint, log),
		})
	}

	return coordinator.New(participants, cfg.Coordinator.Threshold, cold, cfg.Coordinator.CeremonyTTL.Duration), cfg, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
