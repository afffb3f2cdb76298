package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

const (
	StoreMemory = "memory"
	StoreMySQL  = "mysql"

	MailLog   = "log"
	MailBrevo = "brevo"
	MailSMTP  = "smtp"

	DeleteCascade  = "cascade"
	DeleteRestrict = "restrict"
	DeleteOrphan   = "orphan"
)

type Config struct {
	Port               string        `env:"PORT" envDefault:"8080"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string        `env:"LOG_FORMAT" envDefault:"text"`
	StoreDriver        string        `env:"STORE_DRIVER" envDefault:"memory"`
	SeedDemoData       bool          `env:"SEED_DEMO_DATA" envDefault:"true"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	DB     DB
	Mail   Mail
	Policy Policy
}

type DB struct {
	User                   string `env:"DB_USER"`
	Password               string `env:"DB_PASSWORD"`
	Host                   string `env:"DB_HOST"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	Name                   string `env:"DB_NAME"`
	Port                   string `env:"DB_PORT" envDefault:"3306"`
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`
}

type Mail struct {
	Driver            string        `env:"MAIL_DRIVER" envDefault:"log"`
	SenderEmail       string        `env:"MAIL_SENDER_EMAIL"`
	SenderName        string        `env:"MAIL_SENDER_NAME" envDefault:"RealEstateHub"`
	FallbackRecipient string        `env:"MAIL_FALLBACK_RECIPIENT"`
	Timeout           time.Duration `env:"MAIL_TIMEOUT" envDefault:"10s"`

	BrevoAPIKey string `env:"BREVO_API_KEY"`
	BrevoAPIURL string `env:"BREVO_API_URL" envDefault:"https://api.brevo.com/v3/smtp/email"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	Async     bool `env:"NOTIFY_ASYNC" envDefault:"true"`
	Workers   int  `env:"NOTIFY_WORKERS" envDefault:"2"`
	QueueSize int  `env:"NOTIFY_QUEUE_SIZE" envDefault:"100"`

	BreakerFailures uint32        `env:"MAIL_BREAKER_FAILURES" envDefault:"3"`
	BreakerTimeout  time.Duration `env:"MAIL_BREAKER_TIMEOUT" envDefault:"30s"`
}

type Policy struct {
	// AcceptPropertyStatus is applied to the property when one of its offers is accepted. Empty leaves it alone.
	AcceptPropertyStatus string `env:"OFFER_ACCEPT_PROPERTY_STATUS"`
	AcceptRejectsOthers  bool   `env:"OFFER_ACCEPT_REJECTS_COMPETING" envDefault:"false"`
	StrictTransitions    bool   `env:"OFFER_STRICT_TRANSITIONS" envDefault:"false"`
	Delete               string `env:"DELETE_POLICY" envDefault:"cascade"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case StoreMemory:
	case StoreMySQL:
		if c.DB.User == "" || c.DB.Name == "" || (c.DB.Host == "" && c.DB.InstanceConnectionName == "") {
			errs = append(errs, errors.New("DB_USER, DB_NAME and DB_HOST (or INSTANCE_CONNECTION_NAME) are required for the mysql store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.Mail.Driver {
	case MailLog:
	case MailBrevo:
		if c.Mail.BrevoAPIKey == "" || c.Mail.SenderEmail == "" {
			errs = append(errs, errors.New("BREVO_API_KEY and MAIL_SENDER_EMAIL are required for the brevo mail driver"))
		}
	case MailSMTP:
		if c.Mail.SMTPHost == "" || c.Mail.SenderEmail == "" {
			errs = append(errs, errors.New("SMTP_HOST and MAIL_SENDER_EMAIL are required for the smtp mail driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_DRIVER %q", c.Mail.Driver))
	}
	if c.Mail.Async && (c.Mail.Workers <= 0 || c.Mail.QueueSize <= 0) {
		errs = append(errs, errors.New("NOTIFY_WORKERS and NOTIFY_QUEUE_SIZE must be positive"))
	}

	switch strings.ToUpper(strings.TrimSpace(c.Policy.AcceptPropertyStatus)) {
	case "", "PENDING", "SOLD":
	default:
		errs = append(errs, fmt.Errorf("OFFER_ACCEPT_PROPERTY_STATUS must be empty, PENDING or SOLD, got %q", c.Policy.AcceptPropertyStatus))
	}
	switch c.Policy.Delete {
	case DeleteCascade, DeleteRestrict, DeleteOrphan:
	default:
		errs = append(errs, fmt.Errorf("unknown DELETE_POLICY %q", c.Policy.Delete))
	}
	return errors.Join(errs...)
}
