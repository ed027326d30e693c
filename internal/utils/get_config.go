package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

const configFile = "config.yaml"

type Config struct {
	// Server configuration
	AppURL      string `yaml:"APP_URL"`
	ServerPort  string `yaml:"SERVER_PORT"`
	RateLimit   int    `yaml:"RATE_LIMIT"`
	CORSOrigins string `yaml:"CORS_ORIGINS"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBTimeZone string `yaml:"DB_TIMEZONE"`

	// JWT
	JWTSecret   string `yaml:"JWT_SECRET"`
	JWTTTLHours int    `yaml:"JWT_TTL_HOURS"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// Media storage. When AWS_S3_BUCKET is empty images are written under MEDIA_ROOT.
	MediaRoot    string `yaml:"MEDIA_ROOT"`
	MediaURL     string `yaml:"MEDIA_URL"`
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config Config

var defaults = map[string]string{
	"SERVER_PORT":   "8000",
	"RATE_LIMIT":    "20",
	"CORS_ORIGINS":  "*",
	"DB_PORT":       "5432",
	"DB_TIMEZONE":   "UTC",
	"JWT_TTL_HOURS": "720",
	"MEDIA_ROOT":    "./media",
	"MEDIA_URL":     "/media",
}

// LoadConfig reads config.yaml from the working directory. A missing file is
// not fatal: every key falls back to the environment and then to defaults.
func LoadConfig() {
	LoadConfigFile(configFile)
}

func LoadConfigFile(path string) {
	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	var loaded Config
	if err := yaml.Unmarshal(file, &loaded); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
	config = loaded
}

func fromFile(key string) string {
	switch key {
	case "APP_URL":
		return config.AppURL
	case "SERVER_PORT":
		return config.ServerPort
	case "RATE_LIMIT":
		return intString(config.RateLimit)
	case "CORS_ORIGINS":
		return config.CORSOrigins
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_TIMEZONE":
		return config.DBTimeZone
	case "JWT_SECRET":
		return config.JWTSecret
	case "JWT_TTL_HOURS":
		return intString(config.JWTTTLHours)
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "MEDIA_ROOT":
		return config.MediaRoot
	case "MEDIA_URL":
		return config.MediaURL
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}

func intString(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

// GetConfig resolves key from config.yaml, then the environment, then the
// built-in defaults.
func GetConfig(key string) string {
	if v := fromFile(key); v != "" {
		return v
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaults[key]
}

func GetConfigInt(key string) int {
	v, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		d, _ := strconv.Atoi(defaults[key])
		return d
	}
	return v
}
