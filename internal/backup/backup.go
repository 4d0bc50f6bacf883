// Package backup locates device backups and the contact database inside them.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"howett.net/plist"
)

// ContactDBName is the hashed file name of AddressBook.sqlitedb in a backup.
const ContactDBName = "31bb7ba8914766d4ba40d6dfb6113c8b614be442"

var (
	// ErrNoBackups is returned when the backup root holds no backup.
	ErrNoBackups = errors.New("no backups found")

	// ErrDeviceNotFound is returned when no backup matches a device name.
	ErrDeviceNotFound = errors.New("no backup found for device")

	// ErrNoContactDB is returned when a backup has no address book.
	ErrNoContactDB = errors.New("backup has no contact database")
)

// Backup describes one device backup directory.
type Backup struct {
	Path        string    `json:"path"`
	DeviceName  string    `json:"device_name,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Modified    time.Time `json:"modified"`
}

// Matches reports whether the backup belongs to the named device.
func (b Backup) Matches(name string) bool {
	return name != "" && (b.DeviceName == name || b.DisplayName == name)
}

type info struct {
	DeviceName  string `plist:"Device Name"`
	DisplayName string `plist:"Display Name"`
}

// DefaultRoot returns the platform's backup root, or "" when unknown.
func DefaultRoot() string {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, "Library", "Application Support", "MobileSync", "Backup")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Apple Computer", "MobileSync", "Backup")
		}
	}
	return ""
}

// List returns every backup under root, newest first. Backups without a
// readable Info.plist are listed without names.
func List(root string) ([]Backup, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read backup root: %w", err)
	}

	var backups []Backup
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		b := Backup{Path: filepath.Join(root, e.Name()), Modified: fi.ModTime()}
		if inf, err := readInfo(b.Path); err == nil {
			b.DeviceName = inf.DeviceName
			b.DisplayName = inf.DisplayName
		}
		backups = append(backups, b)
	}
	sort.SliceStable(backups, func(i, j int) bool {
		return backups[i].Modified.After(backups[j].Modified)
	})
	return backups, nil
}

// Newest returns the most recently modified backup.
func Newest(root string) (Backup, error) {
	backups, err := List(root)
	if err != nil {
		return Backup{}, err
	}
	if len(backups) == 0 {
		return Backup{}, fmt.Errorf("%s: %w", root, ErrNoBackups)
	}
	return backups[0], nil
}

// FindByName returns the newest backup of the named device.
func FindByName(root, name string) (Backup, error) {
	backups, err := List(root)
	if err != nil {
		return Backup{}, err
	}
	for _, b := range backups {
		if b.Matches(name) {
			return b, nil
		}
	}
	return Backup{}, fmt.Errorf("%q: %w", name, ErrDeviceNotFound)
}

// ContactDB returns the address book path inside a backup directory. Both
// the flat layout and the layout sharded by hash prefix are recognised.
func ContactDB(dir string) (string, error) {
	candidates := []string{
		filepath.Join(dir, ContactDBName),
		filepath.Join(dir, ContactDBName[:2], ContactDBName),
	}
	for _, path := range candidates {
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w", dir, ErrNoContactDB)
}

func readInfo(dir string) (info, error) {
	var inf info
	data, err := os.ReadFile(filepath.Join(dir, "Info.plist"))
	if err != nil {
		return inf, err
	}
	if _, err := plist.Unmarshal(data, &inf); err != nil {
		return inf, fmt.Errorf("parse Info.plist: %w", err)
	}
	return inf, nil
}
