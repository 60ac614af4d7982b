package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageCloudinary = "cloudinary"
	StorageAzure      = "azure"

	MailTransportSMTP  = "smtp"
	MailTransportKafka = "kafka"
)

type SMTPConfig struct {
	Host         string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port         int    `env:"SMTP_PORT" envDefault:"587"`
	User         string `env:"SMTP_USER"`
	Password     string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"`
	MailFromName string `env:"MAIL_FROM_NAME" envDefault:"Accounts"`
}

type KafkaConfig struct {
	KafkaBroker   string `env:"KAFKA_BROKER"`
	KafkaTopic    string `env:"KAFKA_TOPIC" envDefault:"account.mail"`
	KafkaGroupID  string `env:"KAFKA_GROUP_ID" envDefault:"mail-svc"`
	KafkaUsername string `env:"KAFKA_USERNAME"`
	KafkaPassword string `env:"KAFKA_PASSWORD"`
}

type Config struct {
	Env        string `env:"ENV" envDefault:"dev"`
	ServerPort string `env:"SERVER_PORT" envDefault:":3000"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	BaseURL    string `env:"BASE_URL" envDefault:"http://localhost:5173"`

	DatabaseDSN string `env:"DATABASE_DSN,required"`

	// No fallback values: the service refuses to start without both secrets.
	AccessSecret   string `env:"JWT_SECRET,required"`
	AdminSecret    string `env:"ADMIN_JWT_SECRET,required"`
	GoogleClientID string `env:"GOOGLE_CLIENT_ID,required"`

	ResetBaseURL         string `env:"RESET_BASE_URL" envDefault:"http://localhost:5000/reset-password"`
	VerifyBaseURL        string `env:"VERIFY_BASE_URL" envDefault:"http://localhost:3000/api/users/verify-email"`
	RequireVerifiedEmail bool   `env:"REQUIRE_VERIFIED_EMAIL" envDefault:"false"`

	StorageProvider    string `env:"STORAGE_PROVIDER" envDefault:"cloudinary"`
	UploadFolder       string `env:"CLOUDINARY_FOLDER" envDefault:"accounts/profile_images"`
	CloudinaryUrl      string `env:"CLOUDINARY_URL"`
	AzureBlobAccount   string `env:"AZURE_BLOB_ACCOUNT"`
	AzureBlobKey       string `env:"AZURE_BLOB_KEY"`
	AzureBlobContainer string `env:"AZURE_BLOB_CONTAINER"`

	MailTransport string `env:"MAIL_TRANSPORT" envDefault:"smtp"`
	SMTP          SMTPConfig
	Kafka         KafkaConfig
}

// MailConfig is what the mail worker needs.
type MailConfig struct {
	Env      string `env:"ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	SMTP     SMTPConfig
	Kafka    KafkaConfig
}

func (c Config) IsProduction() bool {
	return c.Env == "prod"
}

func LoadConfig() (Config, error) {
	loadDotEnv()
	return parse(env.ToMap(os.Environ()))
}

func LoadMailConfig() (MailConfig, error) {
	loadDotEnv()
	cfg := MailConfig{}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: env.ToMap(os.Environ())}); err != nil {
		return MailConfig{}, err
	}
	if cfg.Kafka.KafkaBroker == "" {
		return MailConfig{}, errors.New("KAFKA_BROKER is required")
	}
	if cfg.SMTP.MailFrom == "" {
		return MailConfig{}, errors.New("MAIL_FROM is required")
	}
	return cfg, nil
}

func loadDotEnv() {
	if os.Getenv("ENV") == "prod" {
		return
	}
	if err := godotenv.Overload(); err != nil {
		log.Println("Warning: env file not found or could not be loaded:", err)
	}
}

func parse(environ map[string]string) (Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings of the selected storage and mail backends.
func (c Config) Validate() error {
	if c.AccessSecret == c.AdminSecret {
		return errors.New("JWT_SECRET and ADMIN_JWT_SECRET must differ")
	}

	switch c.StorageProvider {
	case StorageCloudinary:
		if c.CloudinaryUrl == "" {
			return errors.New("CLOUDINARY_URL is required for cloudinary storage")
		}
	case StorageAzure:
		if c.AzureBlobAccount == "" || c.AzureBlobKey == "" || c.AzureBlobContainer == "" {
			return errors.New("AZURE_BLOB_ACCOUNT, AZURE_BLOB_KEY and AZURE_BLOB_CONTAINER are required for azure storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER %q", c.StorageProvider)
	}

	switch c.MailTransport {
	case MailTransportSMTP:
		if c.SMTP.MailFrom == "" {
			return errors.New("MAIL_FROM is required for smtp mail transport")
		}
	case MailTransportKafka:
		if c.Kafka.KafkaBroker == "" {
			return errors.New("KAFKA_BROKER is required for kafka mail transport")
		}
	default:
		return fmt.Errorf("unknown MAIL_TRANSPORT %q", c.MailTransport)
	}
	return nil
}
