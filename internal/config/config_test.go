package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type mapBackend struct {
	data map[string]any
}

func newMapBackend(kv map[string]any) *mapBackend {
	if kv == nil {
		kv = make(map[string]any)
	}
	return &mapBackend{data: kv}
}

func (m *mapBackend) GetString(key string) (string, bool, error) {
	v, ok := m.data[key]
	if !ok {
		return "", false, nil
	}
	s, _ := v.(string)
	return s, true, nil
}

func (m *mapBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.data[key]
	if !ok {
		return 0, false, nil
	}
	i, ok := v.(int)
	if !ok {
		return 0, true, errors.New("not an int")
	}
	return i, true, nil
}

func (m *mapBackend) SetString(key, val string) error { m.data[key] = val; return nil }
func (m *mapBackend) SetInt(key string, val int) error  { m.data[key] = val; return nil }
func (m *mapBackend) Delete(key string) error           { delete(m.data, key); return nil }

type mockSecrets struct {
	value string
	err   error
}

func (m mockSecrets) Get(name string) (string, error) {
	return m.value, m.err
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
		for _, a := range s.aliases {
			t.Setenv(a, "")
		}
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(newMapBackend(nil), mockSecrets{err: os.ErrNotExist})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4100 {
		t.Errorf("Server.Port = %d, want 4100", cfg.Server.Port)
	}
	if cfg.Storage.Path != filepath.Join("data", "candidates.json") {
		t.Errorf("Storage.Path = %q, want data/candidates.json", cfg.Storage.Path)
	}
	if !cfg.Storage.SerializeWrites {
		t.Error("Storage.SerializeWrites = false, want true")
	}
	if cfg.Inference.Timeout != 90*time.Second {
		t.Errorf("Inference.Timeout = %v, want 90s", cfg.Inference.Timeout)
	}
	if cfg.Inference.Temperature != 0.6 {
		t.Errorf("Inference.Temperature = %v, want 0.6", cfg.Inference.Temperature)
	}
	if cfg.Inference.MaxNewTokens != 300 {
		t.Errorf("Inference.MaxNewTokens = %d, want 300", cfg.Inference.MaxNewTokens)
	}
	if cfg.Questions.MinLength != 50 {
		t.Errorf("Questions.MinLength = %d, want 50", cfg.Questions.MinLength)
	}
	if cfg.Assessment.Deadline != 48*time.Hour {
		t.Errorf("Assessment.Deadline = %v, want 48h", cfg.Assessment.Deadline)
	}
	if cfg.Inference.APIToken != "" {
		t.Errorf("Inference.APIToken = %q, want empty", cfg.Inference.APIToken)
	}
}

func TestBackendValues(t *testing.T) {
	clearEnv(t)

	b := newMapBackend(map[string]any{
		"server.port":              5000,
		"storage.path":             "/srv/candidates.json",
		"storage.serialize_writes": "false",
		"inference.temperature":    "0.2",
		"assessment.deadline":      "72h",
		"inference.api_token":      "from-file",
	})
	cfg, err := loadWith(b, mockSecrets{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Storage.Path != "/srv/candidates.json" {
		t.Errorf("Storage.Path = %q, want /srv/candidates.json", cfg.Storage.Path)
	}
	if cfg.Storage.SerializeWrites {
		t.Error("Storage.SerializeWrites = true, want false")
	}
	if cfg.Inference.Temperature != 0.2 {
		t.Errorf("Inference.Temperature = %v, want 0.2", cfg.Inference.Temperature)
	}
	if cfg.Assessment.Deadline != 72*time.Hour {
		t.Errorf("Assessment.Deadline = %v, want 72h", cfg.Assessment.Deadline)
	}
	if cfg.Inference.APIToken != "" {
		t.Errorf("Inference.APIToken = %q, secrets must not come from the config file", cfg.Inference.APIToken)
	}
}

func TestBackendBadValueKeepsDefault(t *testing.T) {
	clearEnv(t)

	b := newMapBackend(map[string]any{"inference.timeout": "soon"})
	cfg, err := loadWith(b, mockSecrets{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Inference.Timeout != 90*time.Second {
		t.Errorf("Inference.Timeout = %v, want 90s", cfg.Inference.Timeout)
	}
}

func TestBackendIntError(t *testing.T) {
	clearEnv(t)

	b := newMapBackend(map[string]any{"server.port": "abc"})
	if _, err := loadWith(b, mockSecrets{}); err == nil {
		t.Fatal("expected error for non-integer port")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TALENTSCOUT_SERVER_PORT", "9001")
	t.Setenv("TALENTSCOUT_QUESTIONS_MIN_LENGTH", "80")
	t.Setenv("TALENTSCOUT_INFERENCE_TIMEOUT", "5s")
	t.Setenv("TALENTSCOUT_STORAGE_SERIALIZE_WRITES", "nope")

	b := newMapBackend(map[string]any{"server.port": 5000})
	cfg, err := loadWith(b, mockSecrets{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.Questions.MinLength != 80 {
		t.Errorf("Questions.MinLength = %d, want 80", cfg.Questions.MinLength)
	}
	if cfg.Inference.Timeout != 5*time.Second {
		t.Errorf("Inference.Timeout = %v, want 5s", cfg.Inference.Timeout)
	}
	if !cfg.Storage.SerializeWrites {
		t.Error("unparseable bool should keep the default")
	}
}

func TestAPITokenSources(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		secrets mockSecrets
		want    string
	}{
		{
			name:    "prefixed env wins",
			env:     map[string]string{"TALENTSCOUT_INFERENCE_API_TOKEN": "a", "HUGGINGFACEHUB_API_TOKEN": "b"},
			secrets: mockSecrets{value: "c"},
			want:    "a",
		},
		{
			name:    "hub env alias",
			env:     map[string]string{"HUGGINGFACEHUB_API_TOKEN": "b"},
			secrets: mockSecrets{value: "c"},
			want:    "b",
		},
		{
			name:    "secrets file fallback",
			secrets: mockSecrets{value: "c"},
			want:    "c",
		},
		{
			name:    "missing is not an error",
			secrets: mockSecrets{err: os.ErrNotExist},
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := loadWith(newMapBackend(nil), tt.secrets)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Inference.APIToken != tt.want {
				t.Errorf("APIToken = %q, want %q", cfg.Inference.APIToken, tt.want)
			}
		})
	}
}

func TestSecretsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.env")
	if err := os.WriteFile(path, []byte("HUGGINGFACEHUB_API_TOKEN=hf_abc123\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := secretsFile{path: path}.Get(tokenSecretName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hf_abc123" {
		t.Errorf("Get = %q, want %q", got, "hf_abc123")
	}

	if _, err := (secretsFile{path: filepath.Join(t.TempDir(), "missing")}).Get(tokenSecretName); err == nil {
		t.Error("expected error for missing secrets file")
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talentscout", "config.json")

	b := newFileBackend(path)
	if err := setKey(b, "server.port", "4200"); err != nil {
		t.Fatalf("setKey port: %v", err)
	}
	if err := setKey(b, "assessment.deadline", "24h"); err != nil {
		t.Fatalf("setKey deadline: %v", err)
	}

	cfg := defaults()
	if err := applyBackend(&cfg, newFileBackend(path)); err != nil {
		t.Fatalf("applyBackend: %v", err)
	}
	if cfg.Server.Port != 4200 {
		t.Errorf("Server.Port = %d, want 4200", cfg.Server.Port)
	}
	if cfg.Assessment.Deadline != 24*time.Hour {
		t.Errorf("Assessment.Deadline = %v, want 24h", cfg.Assessment.Deadline)
	}
}

func TestSetKeyErrors(t *testing.T) {
	b := newMapBackend(nil)

	if err := setKey(b, "nope.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := setKey(b, "inference.api_token", "x"); err == nil {
		t.Error("expected error for secret key")
	}
	if err := setKey(b, "server.port", "eighty"); err == nil {
		t.Error("expected error for bad int")
	}
	if err := setKey(b, "storage.serialize_writes", "maybe"); err == nil {
		t.Error("expected error for bad bool")
	}
	if len(b.data) != 0 {
		t.Errorf("backend written on error: %v", b.data)
	}
}

func TestShowAllMasksSecrets(t *testing.T) {
	cfg := defaults()
	cfg.Inference.APIToken = "hf_secretvalue"

	for _, ki := range ShowAll(cfg) {
		if ki.Key == "inference.api_token" {
			if ki.Value != "****alue" {
				t.Errorf("masked token = %q, want %q", ki.Value, "****alue")
			}
			return
		}
	}
	t.Error("inference.api_token missing from ShowAll")
}

func TestValidKeysExcludesSecrets(t *testing.T) {
	for _, k := range ValidKeys() {
		if k == "inference.api_token" {
			t.Error("ValidKeys must not list secret keys")
		}
	}
	if len(ValidKeys()) != len(specs)-1 {
		t.Errorf("ValidKeys() = %d keys, want %d", len(ValidKeys()), len(specs)-1)
	}
}
