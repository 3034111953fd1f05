package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/franciscosanchezn/pizza-store/internal/models"
	"github.com/spf13/cobra"
)

var (
	// Add flags
	pizzaName        string
	pizzaDescription string
)

// listCmd prints every pizza
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List pizzas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.close()

		store, err := env.pizzas()
		if err != nil {
			return err
		}
		pizzas, err := store.ListPizzas(cmd.Context())
		if err != nil {
			return err
		}
		return printPizzas(cmd.OutOrStdout(), pizzas...)
	},
}

// addCmd creates a pizza
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a pizza",
	Long: `Add a pizza; the id is assigned by the store.

Examples:
  pizzactl add --name Margherita --description "Tomato, mozzarella, basil"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.close()

		store, err := env.pizzas()
		if err != nil {
			return err
		}
		created, err := store.CreatePizza(cmd.Context(), models.Pizza{Name: pizzaName, Description: pizzaDescription})
		if err != nil {
			return err
		}
		return printPizzas(cmd.OutOrStdout(), created)
	},
}

// deleteCmd removes a pizza by id
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a pizza",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid pizza id %q", args[0])
		}

		env, err := openEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.close()

		store, err := env.pizzas()
		if err != nil {
			return err
		}
		deleted, err := store.DeletePizza(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printPizzas(cmd.OutOrStdout(), deleted)
	},
}

func printPizzas(out io.Writer, pizzas ...models.Pizza) error {
	if jsonOutput {
		if pizzas == nil {
			pizzas = []models.Pizza{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(pizzas)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "--\t----\t-----------")
	for _, p := range pizzas {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Name, p.Description)
	}
	return w.Flush()
}

func init() {
	addCmd.Flags().StringVar(&pizzaName, "name", "", "Pizza name")
	addCmd.Flags().StringVar(&pizzaDescription, "description", "", "Pizza description")
	_ = addCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(listCmd, addCmd, deleteCmd)
}
