package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avolkov/blogicum-backend/api"
	"github.com/avolkov/blogicum-backend/database"
	"github.com/avolkov/blogicum-backend/models"
	"github.com/avolkov/blogicum-backend/services"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply the database schema and exit")
	createSuperuser := flag.Bool("create-superuser", false, "create an admin account from SUPERUSER_* env and exit")
	flag.Parse()

	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	db, err := openDatabase()
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		fmt.Printf("Error testing database connection: %v\n", err)
		os.Exit(1)
	}

	if *migrate {
		fmt.Println("Applying database schema...")
		if err := database.Migrate(db); err != nil {
			fmt.Printf("Error migrating database: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Schema is up to date.")
		return
	}

	currentDB := database.New(db)

	if *createSuperuser {
		if err := createSuperuserFromEnv(currentDB); err != nil {
			fmt.Printf("Error creating superuser: %v\n", err)
			os.Exit(1)
		}
		return
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// openDatabase connects to the engine selected by DB_TYPE: the default
// is a local sqlite file, postgres is available for real deployments.
func openDatabase() (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  true,
			},
		),
	}

	dbType := getEnv("DB_TYPE", "sqlite")
	fmt.Printf("DB_TYPE: %s\n", dbType)
	switch dbType {
	case "sqlite":
		path := getEnv("SQLITE_PATH", "blogicum.sqlite3")
		fmt.Printf("Opening sqlite database at %s...\n", path)
		return gorm.Open(sqlite.Open(path), gormConfig)
	case "postgres":
		connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			getEnv("POSTGRES_HOST", "localhost"),
			getEnv("POSTGRES_USER", "postgres"),
			getEnv("POSTGRES_PASSWORD", ""),
			getEnv("POSTGRES_DB", "blogicum"),
			getEnv("POSTGRES_PORT", "5432"),
			getEnv("POSTGRES_SSLMODE", "disable"),
		)
		fmt.Println("Connecting to postgres database...")
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  connStr,
			PreferSimpleProtocol: true,
		}), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// createSuperuserFromEnv registers an admin account, the counterpart of
// a framework's createsuperuser command.
func createSuperuserFromEnv(db database.Database) error {
	username := getEnv("SUPERUSER_USERNAME", "admin")
	email := getEnv("SUPERUSER_EMAIL", "")
	password := getEnv("SUPERUSER_PASSWORD", "")
	if email == "" || password == "" {
		return fmt.Errorf("SUPERUSER_EMAIL and SUPERUSER_PASSWORD must be set")
	}

	existing, err := db.UserRepo().FindByUsername(username)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("user %q already exists", username)
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsSuperuser:  true,
	}
	if err := db.UserRepo().Add(&user); err != nil {
		return err
	}

	fmt.Printf("Superuser %q created.\n", username)
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

// getEnv returns the value of the environment variable key or a fallback value.
func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
