package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration, loaded from YAML with
// environment overrides for the secrets.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Reports    ReportsConfig    `yaml:"reports"`
	Assessment AssessmentConfig `yaml:"assessment"`
	Mail       MailConfig       `yaml:"mail"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
}

// DatabaseConfig locates the chat store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ReportsConfig controls report output.
type ReportsConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // detail record format: json, md, yaml
}

// AssessmentConfig configures the external assessment provider.
type AssessmentConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	CallTimeout time.Duration `yaml:"call_timeout"`
	Pause       time.Duration `yaml:"pause"`
}

// MailConfig configures SMTP delivery.
type MailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	FromName     string `yaml:"from_name"`
	TeacherEmail string `yaml:"teacher_email"`
}

// DashboardConfig configures the read-only report API.
type DashboardConfig struct {
	Port int `yaml:"port"`
}

// ScheduleConfig configures the daily scheduler.
type ScheduleConfig struct {
	At     string `yaml:"at"` // local HH:MM
	LogDir string `yaml:"log_dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "chat.db"},
		Reports:  ReportsConfig{Dir: "reports", Format: "json"},
		Assessment: AssessmentConfig{
			BaseURL:     "https://api.deepseek.com",
			Model:       "deepseek-chat",
			CallTimeout: 60 * time.Second,
			Pause:       time.Second,
		},
		Mail: MailConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 587,
			FromName: "English Practice System",
		},
		Dashboard: DashboardConfig{Port: 3000},
		Schedule:  ScheduleConfig{At: "06:00", LogDir: "logs"},
	}
}

// LoadConfig loads configuration with the following precedence:
// environment variables, then the config file, then defaults. An empty
// path searches ./config.yaml.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if path == "" {
		path = filepath.Join(".", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if explicit {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		// No config file: defaults plus env are enough.
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("DEEPSEEK_API_KEY"); v != "" {
		cfg.Assessment.APIKey = v
	}
	if v := os.Getenv("GMAIL_USER"); v != "" {
		cfg.Mail.Username = v
	}
	if v := os.Getenv("GMAIL_APP_PASSWORD"); v != "" {
		cfg.Mail.Password = v
	}
	if v := os.Getenv("TEACHER_EMAIL"); v != "" {
		cfg.Mail.TeacherEmail = v
	}
}

// Validate checks structural settings. Credentials are validated by the
// commands that need them, so read-only commands work without secrets.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Reports.Dir == "" {
		return fmt.Errorf("reports.dir is required")
	}
	switch c.Reports.Format {
	case "json", "md", "markdown", "yaml":
	default:
		return fmt.Errorf("reports.format %q is not supported", c.Reports.Format)
	}
	if c.Assessment.Pause < 0 {
		return fmt.Errorf("assessment.pause must not be negative")
	}
	if c.Dashboard.Port <= 0 || c.Dashboard.Port > 65535 {
		return fmt.Errorf("dashboard.port %d is out of range", c.Dashboard.Port)
	}
	if _, err := ParseClockTime(c.Schedule.At); err != nil {
		return fmt.Errorf("schedule.at: %w", err)
	}
	return nil
}

// RequireMail validates the settings the mailer needs.
func (c *Config) RequireMail() error {
	if c.Mail.Username == "" || c.Mail.Password == "" {
		return fmt.Errorf("mail credentials missing: set GMAIL_USER and GMAIL_APP_PASSWORD")
	}
	if c.Mail.TeacherEmail == "" {
		return fmt.Errorf("teacher email missing: set TEACHER_EMAIL")
	}
	return nil
}

// RequireAssessment validates the settings the provider needs.
func (c *Config) RequireAssessment() error {
	if c.Assessment.APIKey == "" {
		return fmt.Errorf("assessment API key missing: set DEEPSEEK_API_KEY")
	}
	return nil
}
