package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath = "."

	defaultHasherAlgorithm  = "pbkdf2"
	defaultHasherSalt       = "flagpole"
	defaultHasherIterations = 4096
	defaultHasherKeyLength  = 32

	defaultFlagsMaxSize = 1 << 20

	defaultFilesBucketURL   = "mem://"
	defaultFilesWriteTries  = 3
	defaultFilesRetryWait   = 50 * time.Millisecond
	defaultFilesMaxRetryGap = time.Second
)

// Storage drivers for the flag repository.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	// Storage selects the flag repository backend
	Storage *StorageConfig `json:"storage" yaml:"storage"`

	// Hasher configuration for secret hashing
	Hasher *HasherConfig `json:"hasher" yaml:"hasher"`

	// Flags configuration for multiple binary flags
	Flags *FlagsConfig `json:"flags" yaml:"flags"`

	// Files configuration for the blob-backed file worker
	Files *FilesConfig `json:"files" yaml:"files"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// StorageConfig defines which flag repository is used
type StorageConfig struct {
	// Driver is "postgres" or "memory"
	Driver string `json:"driver" yaml:"driver"`

	// AutoMigrate creates the flag table on startup (postgres driver only)
	AutoMigrate bool `json:"autoMigrate" yaml:"autoMigrate"`
}

// HasherConfig defines the key derivation used for secret hashing
type HasherConfig struct {
	// Algorithm is "pbkdf2" or "argon2id"
	Algorithm string `json:"algorithm" yaml:"algorithm"`

	// Salt used when a call passes an empty salt
	Salt string `json:"salt" yaml:"salt"`

	// Iterations is the PBKDF2 round count or the Argon2 time parameter
	Iterations int `json:"iterations" yaml:"iterations"`

	// KeyLength is the digest size in bytes
	KeyLength int `json:"keyLength" yaml:"keyLength"`

	// MemoryKiB is the Argon2 memory parameter
	MemoryKiB int `json:"memoryKiB" yaml:"memoryKiB"`

	// Threads is the Argon2 parallelism parameter
	Threads int `json:"threads" yaml:"threads"`
}

// FlagsConfig defines multiple binary flag behaviour
type FlagsConfig struct {
	// AggregateRule is one of all, any, first, majority
	AggregateRule string `json:"aggregateRule" yaml:"aggregateRule"`

	// MaxSize bounds the number of bits a built flag may have
	MaxSize int `json:"maxSize" yaml:"maxSize"`
}

// FilesConfig defines the file worker bucket
type FilesConfig struct {
	// BucketURL is a gocloud.dev blob URL, e.g. file:///var/lib/flagpole or mem://
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`

	// WriteTries bounds TryWrite/TryCopy attempts when callers pass zero
	WriteTries int `json:"writeTries" yaml:"writeTries"`

	// RetryInitialInterval is the first backoff wait
	RetryInitialInterval time.Duration `json:"retryInitialInterval" yaml:"retryInitialInterval"`

	// RetryMaxInterval caps the backoff wait
	RetryMaxInterval time.Duration `json:"retryMaxInterval" yaml:"retryMaxInterval"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// FLAGS_AGGREGATERULE -> flags.aggregateRule (aligned with YAML keys)
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Case-insensitive to match env vars
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if cfg.Postgres != nil {
		// POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, ...
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Storage == nil {
		cfg.Storage = &StorageConfig{}
	}
	if strings.TrimSpace(cfg.Storage.Driver) == "" {
		cfg.Storage.Driver = StorageDriverPostgres
	}

	if cfg.Hasher == nil {
		cfg.Hasher = &HasherConfig{}
	}
	if cfg.Hasher.Algorithm == "" {
		cfg.Hasher.Algorithm = defaultHasherAlgorithm
	}
	if cfg.Hasher.Salt == "" {
		cfg.Hasher.Salt = defaultHasherSalt
	}
	if cfg.Hasher.Iterations <= 0 {
		cfg.Hasher.Iterations = defaultHasherIterations
	}
	if cfg.Hasher.KeyLength <= 0 {
		cfg.Hasher.KeyLength = defaultHasherKeyLength
	}

	if cfg.Flags == nil {
		cfg.Flags = &FlagsConfig{}
	}
	if cfg.Flags.MaxSize <= 0 {
		cfg.Flags.MaxSize = defaultFlagsMaxSize
	}

	if cfg.Files == nil {
		cfg.Files = &FilesConfig{}
	}
	if cfg.Files.BucketURL == "" {
		cfg.Files.BucketURL = defaultFilesBucketURL
	}
	if cfg.Files.WriteTries <= 0 {
		cfg.Files.WriteTries = defaultFilesWriteTries
	}
	if cfg.Files.RetryInitialInterval <= 0 {
		cfg.Files.RetryInitialInterval = defaultFilesRetryWait
	}
	if cfg.Files.RetryMaxInterval <= 0 {
		cfg.Files.RetryMaxInterval = defaultFilesMaxRetryGap
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		})
	}

	return replicas
}
