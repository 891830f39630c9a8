package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	Env          string
	SyllabusPath string

	LLM      LLMConfig
	Progress ProgressConfig
	Artifact ArtifactConfig
	Cache    CacheConfig
}

type LLMConfig struct {
	// Provider is one of "gemini", "groq" or "fake".
	Provider    string
	GeminiModel string
	GroqModel   string
}

type ProgressConfig struct {
	// Backend is one of "memory", "disk", "postgres" or "redis".
	Backend   string
	Dir       string
	DSN       string
	RedisAddr string
}

type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// Dir is the fallback root when no object-store endpoint is set.
	Dir string
}

type CacheConfig struct {
	Size int
	TTL  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = ":8081"
	} else if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:         port,
		Env:          env,
		SyllabusPath: strings.TrimSpace(os.Getenv("SYLLABUS_PATH")),
		LLM:          loadLLMConfig(),
		Progress:     loadProgressConfig(),
		Artifact:     loadArtifactConfig(env),
		Cache:        loadCacheConfig(),
	}, nil
}

func loadLLMConfig() LLMConfig {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider == "" {
		if strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) != "" {
			provider = "gemini"
		} else if strings.TrimSpace(os.Getenv("GROQ_API_KEY")) != "" {
			provider = "groq"
		} else {
			provider = "fake"
		}
	}
	return LLMConfig{
		Provider:    provider,
		GeminiModel: firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.0-flash"),
		GroqModel:   firstNonEmpty(strings.TrimSpace(os.Getenv("GROQ_MODEL")), "llama-3.3-70b-versatile"),
	}
}

func loadProgressConfig() ProgressConfig {
	dsn := firstNonEmpty(strings.TrimSpace(os.Getenv("PROGRESS_PG_DSN")), strings.TrimSpace(os.Getenv("PG_DSN")))
	redisAddr := firstNonEmpty(strings.TrimSpace(os.Getenv("PROGRESS_REDIS_ADDR")), strings.TrimSpace(os.Getenv("REDIS_ADDR")))
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("PROGRESS_BACKEND")))
	if backend == "" {
		switch {
		case dsn != "":
			backend = "postgres"
		case redisAddr != "":
			backend = "redis"
		default:
			backend = "disk"
		}
	}
	return ProgressConfig{
		Backend:   backend,
		Dir:       firstNonEmpty(strings.TrimSpace(os.Getenv("PROGRESS_DIR")), ".opostudy/progress"),
		DSN:       dsn,
		RedisAddr: firstNonEmpty(redisAddr, "localhost:6379"),
	}
}

func loadArtifactConfig(env string) ArtifactConfig {
	endpoint := resolveArtifactEndpoint(env)
	return ArtifactConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "opostudy-artifacts"),
		UseSSL:    resolveArtifactUseSSL(env),
		Dir:       firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_DIR")), ".opostudy/artifacts"),
	}
}

func resolveArtifactEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("ARTIFACT_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT"))
}

func resolveArtifactUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARTIFACT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func loadCacheConfig() CacheConfig {
	size := 64
	if raw := strings.TrimSpace(os.Getenv("MATERIAL_CACHE_SIZE")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			size = v
		}
	}
	ttl := 30 * time.Minute
	if raw := strings.TrimSpace(os.Getenv("MATERIAL_CACHE_TTL")); raw != "" {
		if v, err := time.ParseDuration(raw); err == nil && v > 0 {
			ttl = v
		}
	}
	return CacheConfig{Size: size, TTL: ttl}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
