package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"clipmark/internal/capture"

	"go.yaml.in/yaml/v3"
)

const (
	maxConfigFileBytes int64 = 1 << 20 // 1MB
	maxRenameRetry           = 10
	// Windows file lock releases (antivirus/indexing) typically settle quickly.
	// Use a short linear backoff: baseDelay * (1..maxRenameRetry).
	renameRetryBaseDelay = 10 * time.Millisecond

	// MinMaxItems is the smallest accepted clipboard history size.
	MinMaxItems = 1
	// DefaultMaxItems matches the history size clipmark ships with.
	DefaultMaxItems = 10

	appDirName     = "clipmark"
	configFileName = "config.yaml"
)

// defaultConfigDirFn is a test seam; tests override it to simulate
// directory-resolution failures in validateConfigPath.
var defaultConfigDirFn = defaultConfigDir
var userHomeDirFn = os.UserHomeDir
var defaultPathWarningState struct {
	mu       sync.Mutex
	messages []string
}

func recordDefaultPathWarning(message string) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return
	}
	defaultPathWarningState.mu.Lock()
	defaultPathWarningState.messages = append(defaultPathWarningState.messages, trimmed)
	defaultPathWarningState.mu.Unlock()
}

// ConsumeDefaultPathWarnings returns and clears path-resolution warnings
// accumulated during DefaultPath() calls.
func ConsumeDefaultPathWarnings() []string {
	defaultPathWarningState.mu.Lock()
	defer defaultPathWarningState.mu.Unlock()
	if len(defaultPathWarningState.messages) == 0 {
		return nil
	}
	out := make([]string, len(defaultPathWarningState.messages))
	copy(out, defaultPathWarningState.messages)
	defaultPathWarningState.messages = nil
	return out
}

// AppConfig is the user-editable clipmark configuration.
// JSON names match what the settings screen binds to.
type AppConfig struct {
	MaxItems         int    `yaml:"max_items" json:"maxItems"`
	OpenShortcut     string `yaml:"open_shortcut" json:"openShortcut"`
	BookmarkShortcut string `yaml:"bookmark_shortcut" json:"bookmarkShortcut"`
	StartMinimized   bool   `yaml:"start_minimized" json:"startMinimized"`
}

// Shortcut returns the accelerator stored for a capture field.
func (c AppConfig) Shortcut(field capture.FieldID) string {
	switch field {
	case capture.FieldOpenShortcut:
		return c.OpenShortcut
	case capture.FieldBookmarkShortcut:
		return c.BookmarkShortcut
	default:
		return ""
	}
}

// WithShortcut returns a copy of c with the accelerator for field replaced.
// Unknown fields leave c unchanged.
func (c AppConfig) WithShortcut(field capture.FieldID, value string) AppConfig {
	switch field {
	case capture.FieldOpenShortcut:
		c.OpenShortcut = value
	case capture.FieldBookmarkShortcut:
		c.BookmarkShortcut = value
	}
	return c
}

// DefaultConfig returns the values used when no config file exists.
func DefaultConfig() AppConfig {
	return AppConfig{
		MaxItems:         DefaultMaxItems,
		OpenShortcut:     "Ctrl+Shift+V",
		BookmarkShortcut: "Ctrl+Shift+B",
		StartMinimized:   false,
	}
}

// DefaultPath resolves the config file path, preferring LOCALAPPDATA over
// APPDATA, falling back to ~/.config when both are unset, and then to
// os.TempDir() if the home directory cannot be resolved.
// The temp-dir fallback is not a stable persistence location and may vary
// between sessions depending on environment configuration.
func DefaultPath() string {
	return filepath.Join(DataDir(), configFileName)
}

// DataDir returns the per-user clipmark directory that holds the config file
// and the bookmark database.
func DataDir() string {
	base := strings.TrimSpace(os.Getenv("LOCALAPPDATA"))
	if base == "" {
		base = strings.TrimSpace(os.Getenv("APPDATA"))
	}
	if base == "" {
		home, err := userHomeDirFn()
		if err != nil {
			// Keep config path resolvable even in restricted environments.
			slog.Warn("[WARN-CONFIG] using temp dir as config path fallback", "error", err)
			recordDefaultPathWarning(
				"Config path fallback: failed to resolve LOCALAPPDATA/APPDATA/home directory. Using temp directory; settings persistence may be limited.",
			)
			base = os.TempDir()
		} else {
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, appDirName)
}

// Load reads the config file. A missing or empty file yields defaults.
// Invalid values found on disk are replaced with defaults and logged, so a
// hand-edited file never prevents startup; only unreadable or unparsable
// files return an error.
func Load(path string) (AppConfig, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, errors.New("config path required")
	}

	raw, err := readLimitedFile(path, maxConfigFileBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	cfg, err = Decode(raw)
	if err != nil {
		slog.Warn("[WARN-CONFIG] failed to parse config, using defaults", "path", path, "error", err)
		return DefaultConfig(), err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// Decode parses YAML config data. Keys absent from data keep their default
// values, but present values are returned as written, without the repairs
// Load applies, so callers can Validate what the file actually says.
func Decode(data []byte) (AppConfig, error) {
	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config: %w", err)
	}
	return Normalize(cfg), nil
}

// EnsureFile writes default config if missing and returns loaded config.
func EnsureFile(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if _, err := Save(path, cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Save validates cfg and atomically writes it to path.
// Returns the normalized config that was actually written to disk.
// Validation failures wrap ErrValidation and leave the file untouched.
func Save(path string, cfg AppConfig) (AppConfig, error) {
	normalizedPath, err := validateConfigPath(path)
	if err != nil {
		return cfg, err
	}
	cfg = Normalize(cfg)
	if err := Validate(cfg).Err(); err != nil {
		return cfg, fmt.Errorf("save config: %w", err)
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return cfg, fmt.Errorf("save config: marshal: %w", err)
	}
	if err := atomicWrite(normalizedPath, raw); err != nil {
		return cfg, err
	}
	slog.Debug("[DEBUG-CONFIG] config saved", "path", path)
	return cfg, nil
}

// Normalize trims accelerator strings. It never changes their meaning.
func Normalize(cfg AppConfig) AppConfig {
	cfg.OpenShortcut = strings.TrimSpace(cfg.OpenShortcut)
	cfg.BookmarkShortcut = strings.TrimSpace(cfg.BookmarkShortcut)
	return cfg
}

// applyDefaults replaces values loaded from disk that would fail Validate.
// MUTATES: cfg is directly modified.
func applyDefaults(cfg *AppConfig) {
	defaults := DefaultConfig()
	*cfg = Normalize(*cfg)
	if cfg.MaxItems < MinMaxItems {
		slog.Warn("[WARN-CONFIG] max_items below minimum, using default",
			"configured", cfg.MaxItems, "default", defaults.MaxItems)
		cfg.MaxItems = defaults.MaxItems
	}
	if !capture.IsComplete(cfg.OpenShortcut) {
		slog.Warn("[WARN-CONFIG] open_shortcut is not a complete accelerator, using default",
			"configured", cfg.OpenShortcut, "default", defaults.OpenShortcut)
		cfg.OpenShortcut = defaults.OpenShortcut
	}
	if !capture.IsComplete(cfg.BookmarkShortcut) {
		slog.Warn("[WARN-CONFIG] bookmark_shortcut is not a complete accelerator, using default",
			"configured", cfg.BookmarkShortcut, "default", defaults.BookmarkShortcut)
		cfg.BookmarkShortcut = defaults.BookmarkShortcut
	}
	if strings.EqualFold(cfg.OpenShortcut, cfg.BookmarkShortcut) {
		slog.Warn("[WARN-CONFIG] open_shortcut and bookmark_shortcut are identical, restoring defaults",
			"shortcut", cfg.OpenShortcut)
		cfg.OpenShortcut = defaults.OpenShortcut
		cfg.BookmarkShortcut = defaults.BookmarkShortcut
	}
}

// atomicWrite writes config data using temp-file + rename to avoid partial
// writes and retries rename on Windows to tolerate transient file locks.
func atomicWrite(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("save config: mkdir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".config.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("save config: create temp: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			if closeErr := tmpFile.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
				slog.Warn("[WARN-CONFIG] failed to close temp file", "path", tmpPath, "error", closeErr)
			}
		}
		if err != nil {
			if removeErr := os.Remove(tmpPath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
				slog.Warn("[WARN-CONFIG] failed to remove temp file", "path", tmpPath, "error", removeErr)
			}
		}
	}()

	if err = tmpFile.Chmod(0o600); err != nil {
		return fmt.Errorf("save config: chmod temp: %w", err)
	}
	if _, err = tmpFile.Write(data); err != nil {
		return fmt.Errorf("save config: write: %w", err)
	}
	if err = tmpFile.Sync(); err != nil {
		return fmt.Errorf("save config: sync: %w", err)
	}
	err = tmpFile.Close()
	tmpFile = nil
	if err != nil {
		return fmt.Errorf("save config: close: %w", err)
	}

	if err = renameFileWithRetry(tmpPath, path); err != nil {
		return fmt.Errorf("save config: rename: %w", err)
	}
	return nil
}

// validateConfigPath normalizes path and enforces that config writes stay
// inside the default config directory when that directory is resolvable.
func validateConfigPath(path string) (string, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return "", errors.New("config path required")
	}
	absolutePath, err := filepath.Abs(trimmedPath)
	if err != nil {
		return "", fmt.Errorf("save config: resolve path: %w", err)
	}

	expectedDir, err := defaultConfigDirFn()
	if err != nil {
		return "", fmt.Errorf("save config: resolve config dir: %w", err)
	}
	absoluteExpectedDir, err := filepath.Abs(expectedDir)
	if err != nil {
		return "", fmt.Errorf("save config: resolve config dir: %w", err)
	}
	if !pathWithinDir(absolutePath, absoluteExpectedDir) {
		return "", fmt.Errorf("save config: path outside config directory: %q", absolutePath)
	}

	return absolutePath, nil
}

func defaultConfigDir() (string, error) {
	return filepath.Dir(DefaultPath()), nil
}

// pathWithinDir blocks directory traversal by ensuring path is under dir.
// It also rejects Windows cross-drive escapes because filepath.Rel returns
// an absolute path when roots differ.
func pathWithinDir(path string, dir string) bool {
	relativePath, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	if relativePath == "." {
		return true
	}
	if relativePath == ".." || strings.HasPrefix(relativePath, ".."+string(os.PathSeparator)) {
		return false
	}
	return !filepath.IsAbs(relativePath)
}

func readLimitedFile(path string, maxBytes int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	limited := io.LimitReader(file, maxBytes+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("config file exceeds %d bytes", maxBytes)
	}
	return raw, nil
}

func renameFileWithRetry(sourcePath string, targetPath string) error {
	var lastErr error
	for attempt := range maxRenameRetry {
		err := os.Rename(sourcePath, targetPath)
		if err == nil {
			return nil
		}
		lastErr = err
		if runtime.GOOS != "windows" {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * renameRetryBaseDelay)
	}
	return lastErr
}
