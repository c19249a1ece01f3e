package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/99designs/keyring"
)

const (
	defaultProfile = "default"
	profilePrefix  = "profile:"
	indexKey       = "profiles"
)

// Profile holds the stored connection details of one bot.
type Profile struct {
	Token  string `json:"token"`
	APIURL string `json:"api_url,omitempty"`
	Proxy  string `json:"proxy,omitempty"`
}

// ErrNotConfigured is returned when no profile is stored
var ErrNotConfigured = errors.New("bot not configured - run 'botctl auth login' first")

// profileIndex lists stored profiles in creation order and names the current
// one. It is kept in a single keyring item so both change together.
type profileIndex struct {
	Current  string   `json:"current,omitempty"`
	Profiles []string `json:"profiles"`
}

func (idx *profileIndex) add(name string) {
	if !slices.Contains(idx.Profiles, name) {
		idx.Profiles = append(idx.Profiles, name)
	}
}

func (idx *profileIndex) remove(name string) {
	idx.Profiles = slices.DeleteFunc(idx.Profiles, func(n string) bool { return n == name })
	if idx.Current == name {
		idx.Current = ""
		if len(idx.Profiles) > 0 {
			idx.Current = idx.Profiles[0]
		}
	}
}

func (idx profileIndex) current() string {
	if idx.Current == "" {
		return defaultProfile
	}
	return idx.Current
}

// store is an opened keyring. Each exported operation opens its own.
type store struct {
	ring keyring.Keyring
}

func openStore() (*store, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &store{ring: ring}, nil
}

func profileName(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return defaultProfile
	}
	return name
}

func profileKey(name string) string {
	return profilePrefix + profileName(name)
}

func (s *store) index() (profileIndex, error) {
	var idx profileIndex
	item, err := s.ring.Get(indexKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return idx, nil
	}
	if err != nil {
		return idx, fmt.Errorf("failed to read profile index: %w", err)
	}
	if err := json.Unmarshal(item.Data, &idx); err != nil {
		return idx, fmt.Errorf("failed to unmarshal profile index: %w", err)
	}
	return idx, nil
}

func (s *store) saveIndex(idx profileIndex) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to marshal profile index: %w", err)
	}
	if err := s.ring.Set(keyring.Item{Key: indexKey, Data: data, Label: serviceName + " profiles"}); err != nil {
		return fmt.Errorf("failed to save profile index: %w", err)
	}
	return nil
}

// updateIndex applies fn to the stored index and writes it back.
func (s *store) updateIndex(fn func(*profileIndex)) error {
	idx, err := s.index()
	if err != nil {
		return err
	}
	fn(&idx)
	return s.saveIndex(idx)
}

// SaveProfile stores a bot profile and makes it the current one
func SaveProfile(name string, profile Profile) error {
	name = profileName(name)
	s, err := openStore()
	if err != nil {
		return err
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := s.ring.Set(keyring.Item{Key: profileKey(name), Data: data, Label: serviceName + " " + name}); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return s.updateIndex(func(idx *profileIndex) {
		idx.add(name)
		idx.Current = name
	})
}

// LoadProfile retrieves a stored bot profile. A missing profile is
// ErrNotConfigured.
func LoadProfile(name string) (Profile, error) {
	s, err := openStore()
	if err != nil {
		return Profile{}, err
	}
	item, err := s.ring.Get(profileKey(name))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return Profile{}, ErrNotConfigured
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	var profile Profile
	if err := json.Unmarshal(item.Data, &profile); err != nil {
		return Profile{}, fmt.Errorf("failed to unmarshal profile %s: %w", profileName(name), err)
	}
	return profile, nil
}

// DeleteProfile removes a stored profile. Deleting the current profile makes
// the oldest remaining one current.
func DeleteProfile(name string) error {
	name = profileName(name)
	s, err := openStore()
	if err != nil {
		return err
	}
	if err := s.ring.Remove(profileKey(name)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove profile: %w", err)
	}
	return s.updateIndex(func(idx *profileIndex) { idx.remove(name) })
}

// ListProfiles returns the stored profile names in creation order.
func ListProfiles() ([]string, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	idx, err := s.index()
	if err != nil {
		return nil, err
	}
	if idx.Profiles == nil {
		return []string{}, nil
	}
	return idx.Profiles, nil
}

// CurrentProfile returns the active profile name, "default" when none is set.
func CurrentProfile() (string, error) {
	s, err := openStore()
	if err != nil {
		return "", err
	}
	idx, err := s.index()
	if err != nil {
		return "", err
	}
	return idx.current(), nil
}

// SetCurrentProfile sets the active profile name. The profile does not have
// to exist yet.
func SetCurrentProfile(name string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	return s.updateIndex(func(idx *profileIndex) { idx.Current = profileName(name) })
}
