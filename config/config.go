package config

import (
	"fmt"

	"eventhub/internal/models"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Host   string `envconfig:"HOST" default:""`
	Port   string `envconfig:"PORT" default:"8080"`
	Mode   string `envconfig:"MODE" default:"debug"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME"`

	JWTSecret   string `envconfig:"JWT_SECRET"`
	JWTTTLHours int    `envconfig:"JWT_TTL_HOURS" default:"24"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     string `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASS"`
	DefaultFrom  string `envconfig:"DEFAULT_FROM_EMAIL" default:"noreply@eventhub.local"`

	// Base URL used when building account activation links.
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:8080"`

	UploadBasePath    string `envconfig:"UPLOAD_BASE_PATH" default:"./uploads"`
	DefaultEventImage string `envconfig:"DEFAULT_EVENT_IMAGE" default:"defaults/event-placeholder.jpg"`

	LogFilePath   string `envconfig:"LOG_FILE_PATH"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogMaxSizeMB  int    `envconfig:"LOG_MAX_SIZE" default:"100"`
	LogMaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
	LogMaxAgeDays int    `envconfig:"LOG_MAX_AGE" default:"28"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "processing environment")
	}
	return &cfg, nil
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	if err := Migrate(db); err != nil {
		return nil, errors.Wrap(err, "migrating database")
	}

	return db, nil
}

// Migrate runs schema migration and role seeding. Split out from
// InitDatabase so tests can run it against their own database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.Role{}, &models.User{}, &models.Category{}, &models.Event{})
	if err != nil {
		return err
	}

	SeedRoles(db)
	return nil
}

func SeedRoles(db *gorm.DB) {
	roles := []models.Role{
		{Name: "admin"},
		{Name: "organizer"},
		{Name: "participant"},
	}

	for _, role := range roles {
		var existingRole models.Role
		result := db.Where("name = ?", role.Name).First(&existingRole)
		if result.Error != nil {
			db.Create(&role)
		}
	}
}
