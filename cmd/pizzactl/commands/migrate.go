package commands

import (
	"fmt"

	"github.com/franciscosanchezn/pizza-store/internal/database"
	"github.com/spf13/cobra"
)

// migrateCmd creates the schema and seeds an empty store
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema and seed an empty store",
	Long: `Create or update the pizzas table and insert the Pepperoni seed record
when the table is empty. Running it twice is harmless.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.close()

		if err := database.Setup(env.db, env.log); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
