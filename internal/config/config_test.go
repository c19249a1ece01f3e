package config

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockKeyring(t *testing.T, ring keyring.Keyring) {
	t.Helper()
	t.Cleanup(SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	}))
}

func withFailingKeyring(t *testing.T, err error) {
	t.Helper()
	t.Cleanup(SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return nil, err
	}))
}

func TestProfileKey(t *testing.T) {
	assert.Equal(t, "profile:default", profileKey(""))
	assert.Equal(t, "profile:default", profileKey("  "))
	assert.Equal(t, "profile:work", profileKey("work"))
}

func TestProfileIndex(t *testing.T) {
	var idx profileIndex
	assert.Equal(t, "default", idx.current())

	idx.add("a")
	idx.add("b")
	idx.add("a")
	idx.Current = "b"
	assert.Equal(t, []string{"a", "b"}, idx.Profiles)

	idx.remove("b")
	assert.Equal(t, []string{"a"}, idx.Profiles)
	assert.Equal(t, "a", idx.current())

	idx.remove("a")
	assert.Empty(t, idx.Profiles)
	assert.Equal(t, "default", idx.current())
}

func TestKeyringConfig(t *testing.T) {
	t.Setenv(envKeyringBackend, "")
	t.Setenv(envCredentialsDir, "")

	cfg := keyringConfig()
	assert.Equal(t, serviceName, cfg.ServiceName)
	assert.NotEmpty(t, cfg.FileDir)
	assert.NotNil(t, cfg.FilePasswordFunc)
}

func TestKeyringConfig_FileBackendOverride(t *testing.T) {
	t.Setenv(envKeyringBackend, "file")
	base := t.TempDir()
	t.Setenv(envCredentialsDir, base)

	cfg := keyringConfig()
	assert.Equal(t, []keyring.BackendType{keyring.FileBackend}, cfg.AllowedBackends)
	assert.Equal(t, filepath.Join(base, "keyring"), cfg.FileDir)
}

func TestKeyringConfig_SystemBackendOverride(t *testing.T) {
	t.Setenv(envKeyringBackend, "system")

	cfg := keyringConfig()
	assert.Empty(t, cfg.FileDir)
	assert.Nil(t, cfg.FilePasswordFunc)
	assert.Empty(t, cfg.AllowedBackends)
}

func TestFileOnly(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		mode     backendMode
		dbusAddr string
		want     bool
	}{
		{"explicit file backend", "darwin", backendFile, "ignored", true},
		{"headless linux", "linux", backendAuto, "", true},
		{"linux desktop", "linux", backendAuto, "unix:path=/run/user/1000/bus", false},
		{"system backend", "linux", backendSystem, "", false},
		{"non-linux", "windows", backendAuto, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fileOnly(tt.goos, tt.mode, tt.dbusAddr))
		})
	}
}

func TestSelectedBackend(t *testing.T) {
	tests := map[string]backendMode{
		"":       backendAuto,
		"file":   backendFile,
		"FILE":   backendFile,
		"system": backendSystem,
		"native": backendSystem,
		"weird":  backendAuto,
	}
	for value, want := range tests {
		t.Run(value, func(t *testing.T) {
			t.Setenv(envKeyringBackend, value)
			assert.Equal(t, want, selectedBackend())
		})
	}
}

func TestCredentialsDir_DefaultsToUserConfigDir(t *testing.T) {
	t.Setenv(envCredentialsDir, "")

	fakeConfigDir := t.TempDir()
	original := userConfigDir
	userConfigDir = func() (string, error) { return fakeConfigDir, nil }
	t.Cleanup(func() { userConfigDir = original })

	assert.Equal(t, filepath.Join(fakeConfigDir, "botctl", "keyring"), credentialsDir())
}

func TestFilePassword(t *testing.T) {
	t.Setenv(envKeyringPassword, "env-pass")
	password, err := filePassword("prompt")
	require.NoError(t, err)
	assert.Equal(t, "env-pass", password)

	t.Setenv(envKeyringPassword, "")
	original := stdinHasTTY
	stdinHasTTY = func() bool { return false }
	t.Cleanup(func() { stdinHasTTY = original })

	_, err = filePassword("prompt")
	assert.ErrorContains(t, err, envKeyringPassword)
}

func TestSaveAndLoadProfile(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	withMockKeyring(t, ring)

	want := Profile{Token: "1:abc", APIURL: "http://localhost:8081", Proxy: "socks5://127.0.0.1:1080"}
	require.NoError(t, SaveProfile("work", want))

	got, err := LoadProfile("work")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	current, err := CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "work", current)

	item, err := ring.Get("profile:work")
	require.NoError(t, err)
	var stored map[string]string
	require.NoError(t, json.Unmarshal(item.Data, &stored))
	assert.Equal(t, "1:abc", stored["token"])
}

func TestProfileJSONOmitEmpty(t *testing.T) {
	data, err := json.Marshal(Profile{Token: "1:abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"1:abc"}`, string(data))
}

func TestLoadProfile_NotConfigured(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	_, err := LoadProfile("missing")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLoadProfile_InvalidJSON(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring([]keyring.Item{{Key: "profile:default", Data: []byte("{")}}))

	_, err := LoadProfile("")
	assert.ErrorContains(t, err, "failed to unmarshal profile default")
}

func TestCorruptIndex(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring([]keyring.Item{{Key: indexKey, Data: []byte("[")}}))

	_, err := ListProfiles()
	assert.ErrorContains(t, err, "profile index")
	_, err = CurrentProfile()
	assert.ErrorContains(t, err, "profile index")
}

func TestKeyringErrors(t *testing.T) {
	withFailingKeyring(t, errors.New("locked"))

	checks := map[string]error{
		"SaveProfile":       SaveProfile("x", Profile{Token: "t"}),
		"DeleteProfile":     DeleteProfile("x"),
		"SetCurrentProfile": SetCurrentProfile("x"),
	}
	_, checks["LoadProfile"] = LoadProfile("x")
	_, checks["ListProfiles"] = ListProfiles()
	_, checks["CurrentProfile"] = CurrentProfile()

	for name, err := range checks {
		assert.ErrorContains(t, err, "failed to open keyring", name)
	}
}

func TestListProfiles(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	names, err := ListProfiles()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, SaveProfile("default", Profile{Token: "1:a"}))
	require.NoError(t, SaveProfile("work", Profile{Token: "2:b"}))
	require.NoError(t, SaveProfile("work", Profile{Token: "2:c"}))

	names, err = ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "work"}, names)

	got, err := LoadProfile("work")
	require.NoError(t, err)
	assert.Equal(t, "2:c", got.Token)
}

func TestDeleteProfileSwitchesCurrentProfile(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	require.NoError(t, SaveProfile("a", Profile{Token: "1:a"}))
	require.NoError(t, SaveProfile("b", Profile{Token: "2:b"}))
	require.NoError(t, DeleteProfile("b"))

	current, err := CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "a", current)

	_, err = LoadProfile("b")
	assert.ErrorIs(t, err, ErrNotConfigured)

	names, err := ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)
}

func TestDeleteProfile_Missing(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))
	assert.NoError(t, DeleteProfile("ghost"))
}

func TestCurrentProfile_Default(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	current, err := CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, defaultProfile, current)

	require.NoError(t, SetCurrentProfile("staging"))
	current, err = CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "staging", current)
}
