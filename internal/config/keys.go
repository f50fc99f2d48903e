package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kBool
	kFloat
	kDuration
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	aliases []string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.host", typ: kString, env: "TALENTSCOUT_SERVER_HOST",
		apply:   func(cfg *Config, v any) { cfg.Server.Host = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.Host },
	},
	{
		key: "server.port", typ: kInt, env: "TALENTSCOUT_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "storage.path", typ: kString, env: "TALENTSCOUT_STORAGE_PATH",
		apply:   func(cfg *Config, v any) { cfg.Storage.Path = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.Path },
	},
	{
		key: "storage.serialize_writes", typ: kBool, env: "TALENTSCOUT_STORAGE_SERIALIZE_WRITES",
		apply:   func(cfg *Config, v any) { cfg.Storage.SerializeWrites = v.(bool) },
		extract: func(cfg Config) any { return cfg.Storage.SerializeWrites },
	},
	{
		key: "inference.base_url", typ: kString, env: "TALENTSCOUT_INFERENCE_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Inference.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Inference.BaseURL },
	},
	{
		key: "inference.model", typ: kString, env: "TALENTSCOUT_INFERENCE_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Inference.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.Inference.Model },
	},
	{
		key: "inference.api_token", typ: kString, env: "TALENTSCOUT_INFERENCE_API_TOKEN",
		aliases: []string{"HUGGINGFACEHUB_API_TOKEN"},
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Inference.APIToken = v.(string) },
		extract: func(cfg Config) any { return cfg.Inference.APIToken },
	},
	{
		key: "inference.timeout", typ: kDuration, env: "TALENTSCOUT_INFERENCE_TIMEOUT",
		apply:   func(cfg *Config, v any) { cfg.Inference.Timeout = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Inference.Timeout },
	},
	{
		key: "inference.max_new_tokens", typ: kInt, env: "TALENTSCOUT_INFERENCE_MAX_NEW_TOKENS",
		apply:   func(cfg *Config, v any) { cfg.Inference.MaxNewTokens = v.(int) },
		extract: func(cfg Config) any { return cfg.Inference.MaxNewTokens },
	},
	{
		key: "inference.temperature", typ: kFloat, env: "TALENTSCOUT_INFERENCE_TEMPERATURE",
		apply:   func(cfg *Config, v any) { cfg.Inference.Temperature = v.(float64) },
		extract: func(cfg Config) any { return cfg.Inference.Temperature },
	},
	{
		key: "questions.min_length", typ: kInt, env: "TALENTSCOUT_QUESTIONS_MIN_LENGTH",
		apply:   func(cfg *Config, v any) { cfg.Questions.MinLength = v.(int) },
		extract: func(cfg Config) any { return cfg.Questions.MinLength },
	},
	{
		key: "assessment.email", typ: kString, env: "TALENTSCOUT_ASSESSMENT_EMAIL",
		apply:   func(cfg *Config, v any) { cfg.Assessment.Email = v.(string) },
		extract: func(cfg Config) any { return cfg.Assessment.Email },
	},
	{
		key: "assessment.deadline", typ: kDuration, env: "TALENTSCOUT_ASSESSMENT_DEADLINE",
		apply:   func(cfg *Config, v any) { cfg.Assessment.Deadline = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Assessment.Deadline },
	},
	{
		key: "log.level", typ: kString, env: "TALENTSCOUT_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[WARN] "+format+"\n", args...)
}

// parseValue converts raw into the Go type for typ.
func parseValue(typ keyType, raw string) (any, error) {
	switch typ {
	case kInt:
		return strconv.Atoi(raw)
	case kBool:
		return strconv.ParseBool(raw)
	case kFloat:
		return strconv.ParseFloat(raw, 64)
	case kDuration:
		d, err := time.ParseDuration(raw)
		if err == nil && d <= 0 {
			err = fmt.Errorf("duration must be positive")
		}
		return d, err
	default:
		return raw, nil
	}
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		if s.typ == kInt {
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
			continue
		}

		raw, ok, err := b.GetString(s.key)
		if err != nil {
			return fmt.Errorf("reading %s: %w", s.key, err)
		}
		if !ok || (raw == "" && s.typ != kString) {
			continue
		}
		v, err := parseValue(s.typ, raw)
		if err != nil {
			warnf("could not parse config key %s=%q: %v. Using default value.", s.key, raw, err)
			continue
		}
		s.apply(cfg, v)
	}
	return nil
}

// lookupEnv returns the first non-empty variable among the key's env var
// and its aliases.
func (s keySpec) lookupEnv() (string, string) {
	for _, name := range append([]string{s.env}, s.aliases...) {
		if name == "" {
			continue
		}
		if raw := os.Getenv(name); raw != "" {
			return name, raw
		}
	}
	return "", ""
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		name, raw := s.lookupEnv()
		if raw == "" {
			continue
		}
		v, err := parseValue(s.typ, raw)
		if err != nil {
			warnf("could not parse env var %s=%q: %v. Using default value.", name, raw, err)
			continue
		}
		s.apply(cfg, v)
	}
}
