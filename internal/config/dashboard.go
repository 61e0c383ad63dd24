package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iwvelando/sip-calculator/pkg/constants"
)

// DashboardPrefs holds terminal dashboard preferences. Calculation inputs and
// results are never stored here.
type DashboardPrefs struct {
	Theme string `toml:"theme"`
	Mode  string `toml:"mode"`
}

// DefaultDashboardPrefs returns the preferences used when none are saved.
func DefaultDashboardPrefs() DashboardPrefs {
	return DashboardPrefs{
		Theme: "flexoki-dark",
		Mode:  constants.DashboardModeLive,
	}
}

// PrefsDir returns the XDG-compliant config directory.
func PrefsDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", constants.AppName)
}

// PrefsPath returns the full path to the dashboard preferences file.
func PrefsPath() string {
	return filepath.Join(PrefsDir(), "dashboard.toml")
}

// LoadDashboardPrefs reads the preferences file, returning defaults if it doesn't exist.
func LoadDashboardPrefs() (DashboardPrefs, error) {
	prefs := DefaultDashboardPrefs()

	data, err := os.ReadFile(PrefsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("reading dashboard prefs: %w", err)
	}

	if err := toml.Unmarshal(data, &prefs); err != nil {
		return DefaultDashboardPrefs(), fmt.Errorf("parsing dashboard prefs: %w", err)
	}

	return prefs, nil
}

// SaveDashboardPrefs writes the preferences to disk.
func SaveDashboardPrefs(prefs DashboardPrefs) error {
	dir := PrefsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating prefs dir: %w", err)
	}

	f, err := os.OpenFile(PrefsPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating prefs file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(prefs)
}
