package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/botwire/botwire/internal/api"
)

// Env is the environment-variable configuration of a bot.
type Env struct {
	Token   string `envconfig:"BOT_TOKEN"`
	Proxy   string `envconfig:"BOT_PROXY"`
	APIURL  string `envconfig:"BOT_API_URL"`
	Profile string `envconfig:"BOTCTL_PROFILE"`
}

// ErrMissingToken is returned when BOT_TOKEN is not set.
var ErrMissingToken = errors.New("BOT_TOKEN is not set")

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("failed to read environment: %w", err)
	}
	env.Token = strings.TrimSpace(env.Token)
	env.Proxy = strings.TrimSpace(env.Proxy)
	env.APIURL = strings.TrimSpace(env.APIURL)
	env.Profile = strings.TrimSpace(env.Profile)
	return env, nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables already set are kept. A missing file is not an error unless
// required is set.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// BotFromEnv builds a Bot from BOT_TOKEN, BOT_PROXY and BOT_API_URL.
func BotFromEnv() (api.Bot, error) {
	env, err := LoadEnv()
	if err != nil {
		return api.Bot{}, err
	}
	if env.Token == "" {
		return api.Bot{}, ErrMissingToken
	}
	return ClientConfig{Token: env.Token, APIURL: env.APIURL, Proxy: env.Proxy}.Bot()
}

// MustBotFromEnv is BotFromEnv for programs that cannot run without a bot.
// It panics when the token is missing or the proxy or API URL is invalid.
func MustBotFromEnv() api.Bot {
	bot, err := BotFromEnv()
	if err != nil {
		panic(fmt.Sprintf("botwire: %v", err))
	}
	return bot
}
