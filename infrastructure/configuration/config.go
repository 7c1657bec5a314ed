package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"comment-insight/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Database    Database    `json:"database"`
	App         App         `json:"app"`
	Pubsub      Pubsub      `json:"pubsub"`
	RedisClient RedisClient `json:"redisClient"`
	YouTube     YouTube     `json:"youtube"`
	Batch       Batch       `json:"batch"`
	Metrics     Metrics     `json:"metrics"`
}

type App struct {
	Port         int      `json:"port"`
	AllowOrigins []string `json:"allowOrigins"`
	SecretKey    string   `json:"secretKey"`
	TLSEnabled   bool     `json:"tlsEnabled"`
	TLSCertFile  string   `json:"tlsCertFile"`
	TLSKeyFile   string   `json:"tlsKeyFile"`
}

const (
	VendorSQLite   = "sqlite"
	VendorPostgres = "postgres"
)

type Database struct {
	Vendor string `json:"vendor"`
	Path   string `json:"path"`
	Psql   Db     `json:"psql"`
}

type Db struct {
	Name     string `json:"string"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
	TTLSeconds   int    `json:"ttlSeconds"`
}

type YouTube struct {
	APIKey            string  `json:"apiKey"`
	ClientID          string  `json:"clientId"`
	ClientSecret      string  `json:"clientSecret"`
	RedirectURI       string  `json:"redirectURI"`
	RequestsPerSecond float64 `json:"requestsPerSecond"`
	Burst             int     `json:"burst"`
	MaxComments       int     `json:"maxComments"`
}

// Batch drives the URL-list analysis and its periodic scheduler
type Batch struct {
	URLFile      string `json:"urlFile"`
	URLPrefix    string `json:"urlPrefix"`
	IntervalDays int    `json:"intervalDays"`
	At           string `json:"at"`
	RunOnStart   *bool  `json:"runOnStart"`
	Enabled      bool   `json:"enabled"`
}

type Metrics struct {
	Enabled *bool `json:"enabled"`
}

var C Config

func init() {
	Reload()
}

// Reload rebuilds C from the config file and the current environment
func Reload() {
	C = Config{}
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initYouTube(&C)
	initRedis(&C)
	initPubsub(&C)
	initBatch(&C)
	initMetrics(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if v := os.Getenv("DB_VENDOR"); v != "" {
		C.Database.Vendor = v
	}
	C.Database.Vendor = strings.ToLower(strings.TrimSpace(C.Database.Vendor))
	if C.Database.Vendor == "" {
		C.Database.Vendor = VendorSQLite
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		C.Database.Path = v
	}
	if C.Database.Path == "" {
		C.Database.Path = "youtube_analysis.db"
	}

	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Vendor == VendorPostgres && C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"vendor": C.Database.Vendor,
		"path":   C.Database.Path,
		"host":   C.Database.Psql.Host,
	}).Info("Database configuration")
}

func initApp(C *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// APP_PORT -> PORT -> config -> 5001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 5001
	}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		C.App.AllowOrigins = C.App.AllowOrigins[:0]
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				C.App.AllowOrigins = append(C.App.AllowOrigins, origin)
			}
		}
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		if b, ok := parseBool(v); ok {
			C.App.TLSEnabled = b
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if C.App.TLSEnabled {
		logger.GetLogger().WithFields(map[string]interface{}{"cert": C.App.TLSCertFile, "key": C.App.TLSKeyFile}).Info("TLS enabled via configuration")
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; admin routes are unprotected")
	}
}

func initYouTube(C *Config) {
	if v := os.Getenv("YOUTUBE_REQUESTS_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			C.YouTube.RequestsPerSecond = f
		}
	}
	if C.YouTube.RequestsPerSecond <= 0 {
		C.YouTube.RequestsPerSecond = 5
	}
	if C.YouTube.Burst <= 0 {
		C.YouTube.Burst = 10
	}
	if v := os.Getenv("YOUTUBE_MAX_COMMENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			C.YouTube.MaxComments = n
		}
	}
	if C.YouTube.MaxComments <= 0 {
		C.YouTube.MaxComments = 2000
	}
}

func initRedis(C *Config) {
	if C.RedisClient.Host == "" {
		C.RedisClient.Host = os.Getenv("REDIS_HOST")
	}
	if C.RedisClient.Port == "" {
		C.RedisClient.Port = getEnv("REDIS_PORT", "6379")
	}
	if C.RedisClient.Password == "" {
		C.RedisClient.Password = os.Getenv("REDIS_PASSWORD")
	}
	if C.RedisClient.TTLSeconds <= 0 {
		C.RedisClient.TTLSeconds = 300
	}
}

func initPubsub(C *Config) {
	if C.Pubsub.ProjectID == "" {
		C.Pubsub.ProjectID = os.Getenv("PUBSUB_PROJECT_ID")
	}
	if C.Pubsub.Topic == "" {
		C.Pubsub.Topic = getEnv("PUBSUB_TOPIC", "video-analysis")
	}
}

func initBatch(C *Config) {
	if v := os.Getenv("BATCH_URL_FILE"); v != "" {
		C.Batch.URLFile = v
	}
	if C.Batch.URLFile == "" {
		C.Batch.URLFile = "urls.csv"
	}
	if C.Batch.URLPrefix == "" {
		C.Batch.URLPrefix = "https://www.youtube.com/"
	}
	if C.Batch.IntervalDays <= 0 {
		C.Batch.IntervalDays = 5
	}
	if C.Batch.At == "" {
		C.Batch.At = "02:00"
	}
	if C.Batch.RunOnStart == nil {
		runOnStart := true
		C.Batch.RunOnStart = &runOnStart
	}
	if v := os.Getenv("SCHEDULER_ENABLED"); v != "" {
		if b, ok := parseBool(v); ok {
			C.Batch.Enabled = b
		}
	}
}

func initMetrics(C *Config) {
	if C.Metrics.Enabled == nil {
		enabled := true
		C.Metrics.Enabled = &enabled
	}
}

// MetricsEnabled reports whether /metrics should be exposed
func (c Config) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}

// RunBatchOnStart reports whether the scheduler fires once at startup
func (b Batch) RunBatchOnStart() bool {
	return b.RunOnStart == nil || *b.RunOnStart
}

func parseBool(v string) (bool, bool) {
	switch v {
	case "1", "true", "TRUE", "True":
		return true, true
	case "0", "false", "FALSE", "False":
		return false, true
	}
	return false, false
}
