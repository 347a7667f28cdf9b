package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// Runtime holds the settings that may differ per deployment.
type Runtime struct {
	IsProd        bool   `toml:"is_prod"`
	ListenAddr    string `toml:"listen_addr"`
	Substrate     string `toml:"substrate"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	SqlitePath    string `toml:"sqlite_path"`
	AuthToken     string `toml:"auth_token"`
	NoAuthBypass  bool   `toml:"no_auth_bypass"`
	RateLimit     bool   `toml:"rate_limit"`
	GeminiAPIKey  string `toml:"gemini_api_key"`
	OpenAIAPIKey  string `toml:"openai_api_key"`
}

func DefaultRuntime() Runtime {
	return Runtime{
		IsProd:     IS_PROD,
		ListenAddr: ServerListenAddr,
		Substrate:  SubstrateRedis,
		RedisAddr:  RedisAddr,
		SqlitePath: SqlitePath,
		RateLimit:  true,
	}
}

// LoadRuntime layers defaults, the optional TOML file at path and the environment.
// A missing file is not an error.
func LoadRuntime(path string) (Runtime, error) {
	rt := DefaultRuntime()

	if path != "" {
		if _, err := toml.DecodeFile(path, &rt); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return rt, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	overrideString(&rt.ListenAddr, "LISTEN_ADDR")
	overrideString(&rt.Substrate, "DOCQUERY_SUBSTRATE")
	overrideString(&rt.RedisAddr, "REDIS_ADDR")
	overrideString(&rt.RedisPassword, "REDIS_PASSWORD")
	overrideString(&rt.SqlitePath, "SQLITE_PATH")
	overrideString(&rt.AuthToken, "AUTH_TOKEN")
	overrideString(&rt.GeminiAPIKey, "GEMINI_API_KEY")
	overrideString(&rt.OpenAIAPIKey, "OPENAI_API_KEY")

	switch rt.Substrate {
	case SubstrateRedis, SubstrateSqlite, SubstrateMemory:
	default:
		return rt, fmt.Errorf("unknown substrate %q", rt.Substrate)
	}
	return rt, nil
}

func overrideString(target *string, env string) {
	if v := os.Getenv(env); v != "" {
		*target = v
	}
}
