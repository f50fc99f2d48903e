package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Inference  InferenceConfig
	Questions  QuestionsConfig
	Assessment AssessmentConfig
	Log        LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StorageConfig struct {
	Path            string
	SerializeWrites bool
}

type InferenceConfig struct {
	BaseURL      string
	Model        string
	APIToken     string
	Timeout      time.Duration
	MaxNewTokens int
	Temperature  float64
}

type QuestionsConfig struct {
	MinLength int
}

type AssessmentConfig struct {
	Email    string
	Deadline time.Duration
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 4100,
		},
		Storage: StorageConfig{
			Path:            filepath.Join("data", "candidates.json"),
			SerializeWrites: true,
		},
		Inference: InferenceConfig{
			BaseURL:      "https://api-inference.huggingface.co/models",
			Model:        "HuggingFaceH4/zephyr-7b-beta",
			Timeout:      90 * time.Second,
			MaxNewTokens: 300,
			Temperature:  0.6,
		},
		Questions: QuestionsConfig{
			MinLength: 50,
		},
		Assessment: AssessmentConfig{
			Email:    "talentscout.tech.assessment@gmail.com",
			Deadline: 48 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration in increasing order of precedence: built-in
// defaults, the JSON config file at $XDG_CONFIG_HOME/talentscout/config.json,
// then environment variables (TALENTSCOUT_*). A .env file in the working
// directory is loaded into the environment first without overriding
// variables that are already set.
//
// The inference API token is a secret: it is never read from the config
// file. It comes from TALENTSCOUT_INFERENCE_API_TOKEN, HUGGINGFACEHUB_API_TOKEN
// or the secrets file next to the config file. A missing token is not an
// error; question generation then uses the local fallback only.
func Load() (Config, error) {
	loadDotEnv(".env")
	return loadWith(newFileBackend(configFilePath()), secretsFile{path: secretsFilePath()})
}

// secretStore abstracts secret lookup for testing.
type secretStore interface {
	Get(name string) (string, error)
}

func loadWith(b ConfigBackend, secrets secretStore) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Inference.APIToken == "" {
		if tok, err := secrets.Get(tokenSecretName); err == nil && tok != "" {
			cfg.Inference.APIToken = tok
		}
	}

	return cfg, nil
}

func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		warnf("could not load %s: %v", path, err)
	}
}

const tokenSecretName = "HUGGINGFACEHUB_API_TOKEN"

// secretsFile reads KEY=value pairs from a dotenv-formatted file.
type secretsFile struct {
	path string
}

func (s secretsFile) Get(name string) (string, error) {
	vals, err := godotenv.Read(s.path)
	if err != nil {
		return "", err
	}
	return vals[name], nil
}
