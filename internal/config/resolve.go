package config

import (
	"errors"
	"fmt"

	"github.com/botwire/botwire/internal/api"
	"github.com/botwire/botwire/internal/validation"
)

// ClientConfig contains resolved bot settings.
type ClientConfig struct {
	Token   string
	APIURL  string
	Proxy   string
	Profile string
	// Source names where the token came from: "flag", "env" or "profile".
	Source string
}

// Overrides are values given explicitly, typically by command-line flags.
type Overrides struct {
	Token   string
	APIURL  string
	Proxy   string
	Profile string
}

// Resolve merges overrides, the environment and the stored profile, in that
// order of precedence. The profile is only consulted when no token is given
// by the first two.
func Resolve(o Overrides) (ClientConfig, error) {
	env, err := LoadEnv()
	if err != nil {
		return ClientConfig{}, err
	}

	cfg := ClientConfig{
		Token:   firstNonEmpty(o.Token, env.Token),
		APIURL:  firstNonEmpty(o.APIURL, env.APIURL),
		Proxy:   firstNonEmpty(o.Proxy, env.Proxy),
		Profile: firstNonEmpty(o.Profile, env.Profile),
	}
	switch {
	case o.Token != "":
		cfg.Source = "flag"
	case env.Token != "":
		cfg.Source = "env"
	}

	if cfg.Token == "" {
		var profile Profile
		if cfg.Profile != "" {
			profile, err = LoadProfile(cfg.Profile)
		} else {
			cfg.Profile, err = CurrentProfile()
			if err == nil {
				profile, err = LoadProfile(cfg.Profile)
			}
		}
		if err != nil {
			if errors.Is(err, ErrNotConfigured) {
				return ClientConfig{}, fmt.Errorf("%w (or set BOT_TOKEN, or pass --token)", err)
			}
			return ClientConfig{}, err
		}
		cfg.Token = profile.Token
		cfg.APIURL = firstNonEmpty(cfg.APIURL, profile.APIURL)
		cfg.Proxy = firstNonEmpty(cfg.Proxy, profile.Proxy)
		cfg.Source = "profile"
	}

	if cfg.Token == "" {
		return ClientConfig{}, ErrMissingToken
	}
	return cfg, nil
}

// Bot builds the Bot described by c.
func (c ClientConfig) Bot() (api.Bot, error) {
	var bot api.Bot
	if c.Proxy != "" {
		var err error
		bot, err = api.NewWithProxy(c.Token, c.Proxy)
		if err != nil {
			return api.Bot{}, err
		}
	} else {
		bot = api.New(c.Token)
	}

	if c.APIURL != "" {
		if err := validation.ValidateAPIURL(c.APIURL); err != nil {
			return api.Bot{}, err
		}
		return bot.WithAPIURL(c.APIURL)
	}
	return bot, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
