package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/ccextract/internal/backup"
)

func init() {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List device backups, newest first",
		Args:  cobra.NoArgs,
		Run:   runBackups,
	}

	cmd.Flags().StringP("backup", "b", "", "Backup folder (default: the platform's MobileSync/Backup)")

	RootCmd.AddCommand(cmd)
}

func runBackups(cmd *cobra.Command, args []string) {
	if v, _ := cmd.Flags().GetString("backup"); v != "" {
		cfg.Backup = v
	}
	root, err := backupRoot(cfg)
	if err != nil {
		exitErr("backup folder", err)
	}

	backups, err := backup.List(root)
	if err != nil {
		exitErr("list backups", err)
	}
	if backups == nil {
		backups = []backup.Backup{}
	}

	b, _ := json.MarshalIndent(backups, "", "  ")
	fmt.Println(string(b))
}
