package utils

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	ServerPort string `yaml:"SERVER_PORT"`
	AppURL     string `yaml:"APP_URL"`

	// Database configuration (path of the SQLite file)
	DBName string `yaml:"DB_NAME"`

	// JWT key
	JWTSecret string `yaml:"JWT_SECRET"`

	// Upload storage configuration
	StorageDriver string `yaml:"STORAGE_DRIVER"` // "local" or "s3"
	UploadDir     string `yaml:"UPLOAD_DIR"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config Config

func LoadConfig() {
	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}

	os.Setenv("JWT_SECRET", config.JWTSecret)
	os.Setenv("AWS_S3_BUCKET", config.AWSS3Bucket)
	os.Setenv("AWS_S3_REGION", config.AWSS3Region)
	os.Setenv("AWS_ACCESS_KEY", config.AWSAccessKey)
	os.Setenv("AWS_SECRET_KEY", config.AWSSecretKey)
}

func GetConfig(key string) string {
	switch key {
	case "SERVER_PORT":
		if config.ServerPort == "" {
			return "8080"
		}
		return config.ServerPort
	case "APP_URL":
		return config.AppURL
	case "DB_NAME":
		if config.DBName == "" {
			return "tastebook.db"
		}
		return config.DBName
	case "JWT_SECRET":
		return config.JWTSecret
	case "STORAGE_DRIVER":
		if config.StorageDriver == "" {
			return "local"
		}
		return config.StorageDriver
	case "UPLOAD_DIR":
		if config.UploadDir == "" {
			return "./uploads"
		}
		return config.UploadDir
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
