// server/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// --- Sub-structs, mirroring the YAML layout ---

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"`
	CORSOrigins []string `mapstructure:"corsOrigins"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	AccessSecret  string        `mapstructure:"accessSecret"`
	RefreshSecret string        `mapstructure:"refreshSecret"`
	AccessExpiry  time.Duration `mapstructure:"accessExpiry"`
	RefreshExpiry time.Duration `mapstructure:"refreshExpiry"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitConfig struct {
	PerMinute     int `mapstructure:"perMinute"`
	Burst         int `mapstructure:"burst"`
	TripPerMinute int `mapstructure:"tripPerMinute"`
}

type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"accessKeyID"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
}

type GradesConfig struct {
	QueueSize int `mapstructure:"queueSize"`
}

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	S3        S3Config        `mapstructure:"s3"`
	Grades    GradesConfig    `mapstructure:"grades"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.corsOrigins", []string{"http://localhost:5173"})
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.dbName", "carbon_travel")
	v.SetDefault("jwt.accessExpiry", "15m")
	v.SetDefault("jwt.refreshExpiry", "168h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("rateLimit.perMinute", 1000)
	v.SetDefault("rateLimit.burst", 100)
	v.SetDefault("rateLimit.tripPerMinute", 100)
	v.SetDefault("grades.queueSize", 256)
}

// LoadConfig reads config.yaml from path and overrides it with environment variables.
// A .env file in the working directory is loaded first when present.
func LoadConfig(path string) (config Config, err error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	setDefaults(v)

	v.AutomaticEnv()

	// "mongo.uri" in YAML maps to MONGO_URI and so on.
	bindings := map[string]string{
		"mongo.uri":               "MONGO_URI",
		"mongo.dbName":            "MONGO_DBNAME",
		"server.port":             "SERVER_PORT",
		"server.mode":             "GIN_MODE",
		"server.corsOrigins":      "CORS_ORIGINS",
		"jwt.accessSecret":        "JWT_ACCESS_SECRET",
		"jwt.refreshSecret":       "JWT_REFRESH_SECRET",
		"jwt.accessExpiry":        "JWT_ACCESS_EXPIRY",
		"jwt.refreshExpiry":       "JWT_REFRESH_EXPIRY",
		"log.level":               "LOG_LEVEL",
		"log.format":              "LOG_FORMAT",
		"rateLimit.perMinute":     "RATE_LIMIT_PER_MINUTE",
		"rateLimit.burst":         "RATE_LIMIT_BURST",
		"rateLimit.tripPerMinute": "RATE_LIMIT_TRIP_PER_MINUTE",
		"s3.bucket":               "S3_BUCKET",
		"s3.region":               "S3_REGION",
		"s3.accessKeyID":          "S3_ACCESS_KEY_ID",
		"s3.secretAccessKey":      "S3_SECRET_ACCESS_KEY",
		"grades.queueSize":        "GRADES_QUEUE_SIZE",
	}
	for key, env := range bindings {
		if err = v.BindEnv(key, env); err != nil {
			return
		}
	}

	// Without config.yaml only defaults and the environment are used.
	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	// CORS_ORIGINS arrives as a single comma separated string.
	if len(config.Server.CORSOrigins) == 1 && strings.Contains(config.Server.CORSOrigins[0], ",") {
		config.Server.CORSOrigins = strings.Split(config.Server.CORSOrigins[0], ",")
	}

	return
}

// Validate reports settings the server cannot run without.
func (c Config) Validate() error {
	var missing []string
	if c.Mongo.URI == "" {
		missing = append(missing, "mongo.uri")
	}
	if c.Mongo.DBName == "" {
		missing = append(missing, "mongo.dbName")
	}
	if c.JWT.AccessSecret == "" {
		missing = append(missing, "jwt.accessSecret")
	}
	if c.JWT.RefreshSecret == "" {
		missing = append(missing, "jwt.refreshSecret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}
