package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show address book statistics",
		Args:  cobra.NoArgs,
		Run:   runStats,
	}

	addSourceFlags(cmd)

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	applySourceFlags(cmd, cfg)

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}

	b, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(b))
}
