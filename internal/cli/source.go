package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/ccextract/internal/backup"
	"github.com/rcliao/ccextract/internal/config"
	"github.com/rcliao/ccextract/internal/store"
)

var errNoBackupRoot = errors.New("could not detect the backup folder, use --backup")

// addSourceFlags registers the flags selecting the address book to read.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("backup", "b", "", "Backup folder (default: the platform's MobileSync/Backup)")
	cmd.Flags().StringP("name", "n", "", "Device name (default: the most recent backup)")
	cmd.Flags().String("db", "", "AddressBook database path, bypassing backup discovery")
}

// applySourceFlags copies set flags over the loaded configuration.
func applySourceFlags(cmd *cobra.Command, c *config.Config) {
	if v, _ := cmd.Flags().GetString("backup"); v != "" {
		c.Backup = v
	}
	if v, _ := cmd.Flags().GetString("name"); v != "" {
		c.Device = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		c.Database = v
	}
}

// backupRoot returns the configured backup root or the platform default.
func backupRoot(c *config.Config) (string, error) {
	if c.Backup != "" {
		return c.Backup, nil
	}
	root := backup.DefaultRoot()
	if root == "" {
		return "", errNoBackupRoot
	}
	logger.Warn("No backup directory given, using default", zap.String("path", root))
	return root, nil
}

// contactDBPath resolves the address book database to read.
func contactDBPath(c *config.Config) (string, error) {
	if c.Database != "" {
		return c.Database, nil
	}
	root, err := backupRoot(c)
	if err != nil {
		return "", err
	}

	var b backup.Backup
	if c.Device != "" {
		b, err = backup.FindByName(root, c.Device)
		if err != nil {
			return "", err
		}
		logger.Info("Backup found", zap.String("device", c.Device), zap.String("path", b.Path))
	} else {
		b, err = backup.Newest(root)
		if err != nil {
			return "", err
		}
	}
	return backup.ContactDB(b.Path)
}

func openStore(c *config.Config) (*store.SQLiteStore, error) {
	path, err := contactDBPath(c)
	if err != nil {
		return nil, fmt.Errorf("locate contact database: %w", err)
	}
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	logger.Info("Contact data location", zap.String("path", s.Path()))
	return s, nil
}
