package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lacteosdev/catalogo-web/internal/models"
)

type Config struct {
	HTTP_ADDR      string
	DB_HOST        string
	DB_PORT        string
	DB_USER        string
	DB_PASSWORD    string
	DB_NAME        string
	SESSION_SECRET string
	SESSION_TTL    time.Duration
	ADMIN_EMAILS   []string
	SMTP_HOST      string
	SMTP_PORT      int
	SMTP_USER      string
	SMTP_PASSWORD  string
	SMTP_FROM      string
	ES_URL         string
	ES_USER        string
	ES_PASSWORD    string
	KAFKA_ADDRESS  string
	LOG_LEVEL      string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		HTTP_ADDR:      getDefault("HTTP_ADDR", ":8080"),
		DB_HOST:        os.Getenv("DB_HOST"),
		DB_PORT:        os.Getenv("DB_PORT"),
		DB_USER:        os.Getenv("DB_USER"),
		DB_PASSWORD:    os.Getenv("DB_PASSWORD"),
		DB_NAME:        os.Getenv("DB_NAME"),
		SESSION_SECRET: os.Getenv("SESSION_SECRET"),
		SESSION_TTL:    parseTTL(os.Getenv("SESSION_TTL")),
		ADMIN_EMAILS:   splitList(os.Getenv("ADMIN_EMAILS")),
		SMTP_HOST:      os.Getenv("SMTP_HOST"),
		SMTP_PORT:      parseIntDefault(os.Getenv("SMTP_PORT"), 587),
		SMTP_USER:      os.Getenv("SMTP_USER"),
		SMTP_PASSWORD:  os.Getenv("SMTP_PASSWORD"),
		SMTP_FROM:      os.Getenv("SMTP_FROM"),
		ES_URL:         os.Getenv("ES_URL"),
		ES_USER:        os.Getenv("ES_USER"),
		ES_PASSWORD:    os.Getenv("ES_PASSWORD"),
		KAFKA_ADDRESS:  os.Getenv("KAFKA_ADDRESS"),
		LOG_LEVEL:      getDefault("LOG_LEVEL", "info"),
	}

	if config.SESSION_SECRET == "" {
		return nil, fmt.Errorf("SESSION_SECRET must be set")
	}

	return config, nil
}

func getDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func parseTTL(s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return 12 * time.Hour
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(strings.ToLower(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsAdminEmail reports whether the address is on the configured admin
// list. The list is the only path by which an account gets the admin role.
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(email)
	for _, a := range c.ADMIN_EMAILS {
		if a == email {
			return true
		}
	}
	return false
}

func InitDB(configuration *Config) (*gorm.DB, error) {
	host := configuration.DB_HOST
	port := configuration.DB_PORT
	user := configuration.DB_USER
	password := configuration.DB_PASSWORD
	dbname := configuration.DB_NAME

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port, dbname,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Category{},
		&models.Unit{},
		&models.Product{},
		&models.EmailNotification{},
	)
}

// SeedCatalog inserts the category and unit rows the product forms depend
// on. Existing names are left alone so restarts are safe.
func SeedCatalog(db *gorm.DB) error {
	categories := []models.Category{
		{Name: "Leche"},
		{Name: "Queso"},
		{Name: "Yogurt"},
		{Name: "Mantequilla"},
		{Name: "Crema"},
	}
	for _, c := range categories {
		if err := db.Where(models.Category{Name: c.Name}).FirstOrCreate(&c).Error; err != nil {
			return err
		}
	}

	units := []models.Unit{
		{Name: "Litro", Abbrev: "L"},
		{Name: "Kilogramo", Abbrev: "kg"},
		{Name: "Gramo", Abbrev: "g"},
		{Name: "Unidad", Abbrev: "u"},
	}
	for _, u := range units {
		if err := db.Where(models.Unit{Name: u.Name}).FirstOrCreate(&u).Error; err != nil {
			return err
		}
	}
	return nil
}
