package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const serviceName = "botctl"

// Environment knobs for where credentials live.
const (
	envKeyringBackend  = "BOTCTL_KEYRING_BACKEND"  // auto, file or system
	envKeyringPassword = "BOTCTL_KEYRING_PASSWORD" // file backend passphrase
	envCredentialsDir  = "BOTCTL_CREDENTIALS_DIR"
)

type backendMode string

const (
	backendAuto   backendMode = "auto"
	backendFile   backendMode = "file"
	backendSystem backendMode = "system"
)

var openKeyring = keyring.Open

var userConfigDir = os.UserConfigDir

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// SetOpenKeyring replaces the keyring opener and returns a func restoring the
// previous one. Tests use it to substitute an in-memory keyring.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	prev := openKeyring
	openKeyring = fn
	return func() { openKeyring = prev }
}

func selectedBackend() backendMode {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envKeyringBackend))) {
	case "file":
		return backendFile
	case "system", "os", "native":
		return backendSystem
	default:
		return backendAuto
	}
}

// keyringConfig prefers the OS keychain. In auto mode the encrypted file
// backend stays available as a fallback, and it is the only choice on Linux
// without a session bus, where Secret Service would hang or fail.
func keyringConfig() keyring.Config {
	cfg := keyring.Config{ServiceName: serviceName}
	mode := selectedBackend()
	if mode == backendSystem {
		return cfg
	}
	cfg.FileDir = credentialsDir()
	cfg.FilePasswordFunc = filePassword
	if fileOnly(runtime.GOOS, mode, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}
	return cfg
}

func fileOnly(goos string, mode backendMode, dbusAddr string) bool {
	switch mode {
	case backendFile:
		return true
	case backendAuto:
		return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
	default:
		return false
	}
}

// credentialsDir returns the file backend directory: BOTCTL_CREDENTIALS_DIR,
// else the user config dir, else ~/.config, else the temp dir.
func credentialsDir() string {
	if dir := strings.TrimSpace(os.Getenv(envCredentialsDir)); dir != "" {
		return filepath.Join(dir, "keyring")
	}
	candidates := []func() (string, error){
		func() (string, error) {
			dir, err := userConfigDir()
			return filepath.Join(dir, serviceName), err
		},
		func() (string, error) {
			home, err := os.UserHomeDir()
			return filepath.Join(home, ".config", serviceName), err
		},
	}
	for _, candidate := range candidates {
		if dir, err := candidate(); err == nil && filepath.IsAbs(dir) {
			return filepath.Join(dir, "keyring")
		}
	}
	return filepath.Join(os.TempDir(), serviceName, "keyring")
}

func filePassword(prompt string) (string, error) {
	if password := os.Getenv(envKeyringPassword); strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s to use the file keyring without a terminal", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}
