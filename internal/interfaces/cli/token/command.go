// Package token mints access tokens for operators and local testing.
package token

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/auth"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/cli/bootstrap"
	"github.com/Tatu1984/hrms-sub001/internal/shared/authorization"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

var (
	env        string
	configPath string
	employeeID uint
	role       string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token",
		Long:  `Sign an access token for an employee with the configured JWT secret and print it.`,
		Example: `  hrms token --employee 42
  hrms token --employee 1 --role admin`,
		RunE: run,
	}

	bootstrap.RegisterFlags(cmd.Flags(), &env, &configPath)
	cmd.Flags().UintVar(&employeeID, "employee", 0, "Employee ID (required)")
	cmd.Flags().StringVar(&role, "role", string(authorization.RoleEmployee), "Role (employee, admin)")
	_ = cmd.MarkFlagRequired("employee")

	return cmd
}

func parseRole(s string) (authorization.UserRole, error) {
	r := authorization.UserRole(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q, expected one of %v", s, authorization.Roles())
	}
	return r, nil
}

func run(cmd *cobra.Command, args []string) error {
	if employeeID == 0 {
		return fmt.Errorf("--employee must be positive")
	}
	userRole, err := parseRole(role)
	if err != nil {
		return err
	}

	cfg, _, err := bootstrap.Init(bootstrap.ResolveEnv(env), configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	token, expiresAt, err := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes).Generate(employeeID, userRole)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
