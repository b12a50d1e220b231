package config

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"marketplace/internal/errors"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/slighter12/go-lib/database/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultServiceName        = "marketplace"
	defaultSaltRounds         = 12
	defaultPasswordMinLength  = 6
	defaultMongoDatabase      = "marketplace"
	defaultCORSOrigin         = "http://localhost:3000"
)

// Environments accepted in env.env.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Storage drivers accepted in storage.driver.
const (
	StorageMongoDB  = "mongodb"
	StoragePostgres = "postgres"
)

var expiresInPattern = regexp.MustCompile(`^(\d+)([hdwmy])$`)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		CORSOrigin         string `json:"corsOrigin" yaml:"corsOrigin"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	JWT JWTConfig `json:"jwt" yaml:"jwt"`

	Bcrypt BcryptConfig `json:"bcrypt" yaml:"bcrypt"`

	PasswordStrength *PasswordStrengthConfig `json:"passwordStrength" yaml:"passwordStrength"`

	Storage struct {
		Driver string `json:"driver" yaml:"driver"`
	} `json:"storage" yaml:"storage"`

	MongoDB *MongoDBConfig `json:"mongodb" yaml:"mongodb"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`
}

// JWTConfig holds the session token settings (JWT_SECRET, JWT_EXPIRES_IN, JWT_COOKIE_EXPIRES_IN).
type JWTConfig struct {
	Secret string `json:"secret" yaml:"secret"`
	// ExpiresIn is a count followed by a unit: h, d, w, m (minutes) or y.
	ExpiresIn string `json:"expiresIn" yaml:"expiresIn"`
	// CookieExpiresIn is the cookie max-age in days.
	CookieExpiresIn int `json:"cookieExpiresIn" yaml:"cookieExpiresIn"`
}

// TokenTTL parses ExpiresIn.
func (c JWTConfig) TokenTTL() (time.Duration, error) {
	return ParseExpiresIn(c.ExpiresIn)
}

// CookieMaxAge returns the cookie lifetime.
func (c JWTConfig) CookieMaxAge() time.Duration {
	return time.Duration(c.CookieExpiresIn) * 24 * time.Hour
}

// BcryptConfig defines password hashing cost and the number of hashes allowed to run at once.
type BcryptConfig struct {
	SaltRounds int `json:"saltRounds" yaml:"saltRounds"`
	// MaxConcurrency <= 0 means GOMAXPROCS.
	MaxConcurrency int `json:"maxConcurrency" yaml:"maxConcurrency"`
}

// PasswordStrengthConfig defines password strength requirements
type PasswordStrengthConfig struct {
	MinLength        int  `json:"minLength" yaml:"minLength"`
	RequireUppercase bool `json:"requireUppercase" yaml:"requireUppercase"`
	RequireLowercase bool `json:"requireLowercase" yaml:"requireLowercase"`
	RequireNumbers   bool `json:"requireNumbers" yaml:"requireNumbers"`
	RequireSpecial   bool `json:"requireSpecial" yaml:"requireSpecial"`
	MaxLength        int  `json:"maxLength" yaml:"maxLength"`
}

// MongoDBConfig defines the document store connection.
type MongoDBConfig struct {
	URI            string        `json:"uri" yaml:"uri"`
	Database       string        `json:"database" yaml:"database"`
	ConnectTimeout time.Duration `json:"connectTimeout" yaml:"connectTimeout"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// IsProduction reports whether the service runs with env.env=production.
func (c *Config) IsProduction() bool {
	return c.Env.Env == EnvProduction
}

// ParseExpiresIn converts values such as "7d", "24h", "30m" or "1y" to a duration.
// "m" means minutes and a year is 365.25 days.
func ParseExpiresIn(value string) (time.Duration, error) {
	match := expiresInPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, errors.Errorf("invalid expiresIn %q: expected format like 7d, 24h, 30d", value)
	}

	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid expiresIn %q", value)
	}
	if n <= 0 {
		return 0, errors.Errorf("invalid expiresIn %q: must be positive", value)
	}

	day := 24 * time.Hour
	var unit time.Duration
	switch match[2] {
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = day
	case "w":
		unit = 7 * day
	case "y":
		unit = 365*day + 6*time.Hour
	}

	return time.Duration(n) * unit, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	var problems []string

	if !slices.Contains([]string{EnvDevelopment, EnvProduction, EnvTest}, c.Env.Env) {
		problems = append(problems, "env.env must be one of development, production, test")
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		problems = append(problems, "jwt.secret (JWT_SECRET) is required")
	}
	if _, err := c.JWT.TokenTTL(); err != nil {
		problems = append(problems, "jwt.expiresIn (JWT_EXPIRES_IN): "+err.Error())
	}
	if c.JWT.CookieExpiresIn <= 0 {
		problems = append(problems, "jwt.cookieExpiresIn (JWT_COOKIE_EXPIRES_IN) must be a positive number of days")
	}
	if c.Bcrypt.SaltRounds < bcrypt.MinCost || c.Bcrypt.SaltRounds > bcrypt.MaxCost {
		problems = append(problems, "bcrypt.saltRounds (BCRYPT_SALT_ROUNDS) must be between "+
			strconv.Itoa(bcrypt.MinCost)+" and "+strconv.Itoa(bcrypt.MaxCost))
	}

	switch c.Storage.Driver {
	case StorageMongoDB:
		if c.MongoDB == nil || strings.TrimSpace(c.MongoDB.URI) == "" {
			problems = append(problems, "mongodb.uri (MONGODB_URI) is required for the mongodb storage driver")
		}
	case StoragePostgres:
		if c.Postgres == nil {
			problems = append(problems, "postgres section is required for the postgres storage driver")
		}
	default:
		problems = append(problems, "storage.driver must be mongodb or postgres")
	}

	if len(problems) > 0 {
		return errors.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Env.ServiceName) == "" {
		c.Env.ServiceName = defaultServiceName
	}
	if strings.TrimSpace(c.HTTP.MaxRequestBodySize) == "" {
		c.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if strings.TrimSpace(c.HTTP.CORSOrigin) == "" {
		c.HTTP.CORSOrigin = defaultCORSOrigin
	}
	if c.Bcrypt.SaltRounds == 0 {
		c.Bcrypt.SaltRounds = defaultSaltRounds
	}
	if c.PasswordStrength == nil {
		c.PasswordStrength = &PasswordStrengthConfig{}
	}
	if c.PasswordStrength.MinLength == 0 {
		c.PasswordStrength.MinLength = defaultPasswordMinLength
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageMongoDB
	}
	if c.MongoDB != nil && c.MongoDB.Database == "" {
		c.MongoDB.Database = defaultMongoDatabase
	}
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

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

	// Only variables whose first segment names a top-level YAML section are
	// considered, so PATH, HOME and friends never leak into the config tree.
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			key, known := canonicalizeEnvKey(k, existingConfigMap)
			if !known {
				return "", nil
			}

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

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

	cfg.applyDefaults()

	if cfg.Postgres != nil {
		// POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, ...
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// canonicalizeEnvKey maps an env var name onto the YAML key path, joining adjacent
// segments when that is what the YAML key spells: JWT_EXPIRES_IN -> jwt.expiresIn.
// The second result is false when the first segment matches no existing section.
func canonicalizeEnvKey(rawKey string, existing map[string]any) (string, bool) {
	segments := make([]string, 0, 4)
	for _, segment := range strings.Split(strings.ToLower(rawKey), "_") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	canonical := make([]string, 0, len(segments))
	current := existing
	known := false

	for i := 0; i < len(segments); {
		matched, next, width := longestExistingSegment(current, segments[i:])
		if width == 0 {
			canonical = append(canonical, segments[i])
			current = nil
			i++

			continue
		}

		if i == 0 {
			known = true
		}
		canonical = append(canonical, matched)
		current = next
		i += width
	}

	return strings.Join(canonical, "."), known
}

// longestExistingSegment tries segments[:n] joined for n from len(segments) down to 1.
func longestExistingSegment(current map[string]any, segments []string) (matched string, next map[string]any, width int) {
	if len(current) == 0 {
		return "", nil, 0
	}

	for n := len(segments); n > 0; n-- {
		needle := normalizeToken(strings.Join(segments[:n], ""))
		for key, value := range current {
			if normalizeToken(key) != needle {
				continue
			}

			child, _ := value.(map[string]any)

			return key, child, n
		}
	}

	return "", nil, 0
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
