package config

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Provider names accepted in the settings file.
const (
	ProviderNone   = "none"
	ProviderHash   = "hash"
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"

	MessageStoreRedis  = "redis"
	MessageStoreSqlite = "sqlite"
	MessageStoreMemory = "memory"
)

type EmbeddingSettings struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

type LLMSettings struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

type RedisSettings struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
}

type QdrantSettings struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

type StorageSettings struct {
	UploadDir    string `yaml:"upload_dir"`
	SqlitePath   string `yaml:"sqlite_path"`
	MessageStore string `yaml:"message_store"`
}

// Settings is the runtime configuration. Tunables that never change per deployment stay as constants.
type Settings struct {
	ListenAddr   string            `yaml:"listen_addr"`
	IsProd       bool              `yaml:"is_prod"`
	AuthToken    string            `yaml:"auth_token"`
	NoAuthBypass bool              `yaml:"no_auth_bypass"`
	Embedding    EmbeddingSettings `yaml:"embedding"`
	LLM          LLMSettings       `yaml:"llm"`
	Redis        RedisSettings     `yaml:"redis"`
	Qdrant       QdrantSettings    `yaml:"qdrant"`
	Storage      StorageSettings   `yaml:"storage"`

	GoogleAPIKey string `yaml:"-"`
	OpenAIAPIKey string `yaml:"-"`
}

// LoadSettings reads the yaml file at path (missing file means defaults) and applies env overrides.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, s); err != nil {
				return nil, err
			}
		}
	}
	applyEnv(s)
	applyDefaults(s)
	return s, nil
}

func DefaultSettings() *Settings {
	return &Settings{
		ListenAddr: ServerListenAddr,
		Embedding: EmbeddingSettings{
			Provider:  ProviderGoogle,
			Dimension: DefaultEmbeddingDimension,
		},
		LLM: LLMSettings{
			Provider:    ProviderGoogle,
			Temperature: ModelTemperature,
		},
		Redis: RedisSettings{Addr: RedisAddr},
		Qdrant: QdrantSettings{
			Host: QdrantHost,
			Port: QdrantGrpcPort,
		},
		Storage: StorageSettings{
			UploadDir:    DefaultUploadDir,
			SqlitePath:   DefaultSqlitePath,
			MessageStore: MessageStoreRedis,
		},
	}
}

func applyEnv(s *Settings) {
	s.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	s.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	if os.Getenv("USE_FAKE_EMBED") == "1" {
		s.Embedding.Provider = ProviderHash
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		s.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		s.Redis.Password = v
	}
	if v := os.Getenv("QDRANT_HOST"); v != "" {
		s.Qdrant.Host = v
		s.Qdrant.Enabled = true
	}
	if v, err := strconv.Atoi(os.Getenv("QDRANT_PORT")); err == nil {
		s.Qdrant.Port = v
	}
	if v := os.Getenv("AUTH_TOKEN"); v != "" {
		s.AuthToken = v
	}
	if v, err := strconv.ParseBool(os.Getenv("NO_AUTH_BYPASS")); err == nil {
		s.NoAuthBypass = v
	}
	if v := os.Getenv("DOCQA_MESSAGE_STORE"); v != "" {
		s.Storage.MessageStore = v
	}
}

func applyDefaults(s *Settings) {
	if s.ListenAddr == "" {
		s.ListenAddr = ServerListenAddr
	}
	if s.Embedding.Dimension <= 0 {
		s.Embedding.Dimension = DefaultEmbeddingDimension
	}
	if s.Embedding.Provider == ProviderHash {
		s.Embedding.Dimension = HashEmbeddingDimension
	}
	if s.Embedding.Model == "" {
		switch s.Embedding.Provider {
		case ProviderOpenAI:
			s.Embedding.Model = OpenAIEmbeddingModel
		default:
			s.Embedding.Model = GoogleEmbeddingModel
		}
	}
	if s.LLM.Model == "" {
		switch s.LLM.Provider {
		case ProviderOpenAI:
			s.LLM.Model = OpenAIModelName
		default:
			s.LLM.Model = GeminiModelName
		}
	}
	if s.Storage.UploadDir == "" {
		s.Storage.UploadDir = DefaultUploadDir
	}
	if s.Storage.SqlitePath == "" {
		s.Storage.SqlitePath = DefaultSqlitePath
	}
	if s.Redis.Addr == "" {
		s.Redis.Addr = RedisAddr
	}
}

// APIKeyFor returns the credential for a provider name, empty when none is configured.
func (s *Settings) APIKeyFor(provider string) string {
	switch provider {
	case ProviderGoogle:
		return s.GoogleAPIKey
	case ProviderOpenAI:
		return s.OpenAIAPIKey
	default:
		return ""
	}
}
