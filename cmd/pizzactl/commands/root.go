// Package commands implements pizzactl, the administration CLI of the pizza store.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/franciscosanchezn/pizza-store/internal/config"
	"github.com/franciscosanchezn/pizza-store/internal/database"
	"github.com/franciscosanchezn/pizza-store/internal/logging"
	"github.com/franciscosanchezn/pizza-store/internal/models"
	"github.com/franciscosanchezn/pizza-store/internal/services"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pizzactl",
	Short: "pizzactl - administer the pizza store database",
	Long: `pizzactl works directly against the database configured for the pizza store.

It reads the same configuration as the server: defaults, the YAML file named by
PIZZA_CONFIG and PIZZA_* environment variables (a .env file is loaded first).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// environment is what every database backed command needs
type environment struct {
	cfg *config.Config
	log *logrus.Logger
	db  *gorm.DB
}

func (e *environment) close() {
	if err := database.Close(e.db); err != nil {
		e.log.WithError(err).Warn("Failed to close database")
	}
}

// ErrNotMigrated is returned by store commands run before `pizzactl migrate`
var ErrNotMigrated = errors.New("pizzas table does not exist, run `pizzactl migrate` first")

// pizzas returns the store, failing with ErrNotMigrated on a fresh database
func (e *environment) pizzas() (services.PizzaService, error) {
	if !e.db.Migrator().HasTable(&models.Pizza{}) {
		return nil, ErrNotMigrated
	}
	return services.NewPizzaService(e.db, e.log), nil
}

// openEnvironment loads the configuration and connects to the database.
// Logs go to stderr so stdout stays parseable.
func openEnvironment(cmd *cobra.Command) (*environment, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logging.New(logging.Options{Level: level, Output: cmd.ErrOrStderr()})
	if err != nil {
		return nil, err
	}

	db, err := database.InitDatabase(database.FromConfig(cfg), log)
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, log: log, db: db}, nil
}
