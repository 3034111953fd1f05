package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/franciscosanchezn/pizza-store/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

var (
	// Token flags
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

// tokenCmd mints a bearer token for servers running with auth_mode=jwt
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	Long: `Mint an HS256 token signed with the configured jwt_secret.
Only useful when the server runs with PIZZA_AUTH_MODE=jwt.

Examples:
  pizzactl token --role admin
  pizzactl token --role user --ttl 15m`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if cfg.JWTSecret == "" {
			return errors.New("jwt_secret is not configured")
		}

		token, err := signToken([]byte(cfg.JWTSecret), tokenSubject, tokenRole, tokenTTL, time.Now())
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func signToken(secret []byte, subject, role string, ttl time.Duration, now time.Time) (string, error) {
	if role != "admin" && role != "user" {
		return "", fmt.Errorf("invalid role %q. Allowed roles: admin, user", role)
	}
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "dev-client", "Token subject")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "admin", "Token role (admin or user)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")

	rootCmd.AddCommand(tokenCmd)
}
