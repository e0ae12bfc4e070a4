package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/internal/service"
	"github.com/noah-isme/academic-scheduler-api/pkg/config"
)

var (
	tokenUserID    int64
	tokenFacultyID int64
	tokenRole      string
	tokenEmail     string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for local testing",
	Long: `Signs an access token with JWT_SECRET. Identity is owned by an external
service; use this only against development environments.

Examples:
  schedctl token --user 1 --role ADMIN
  schedctl token --user 40 --faculty 4 --role FACULTY`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeToken(cmd.OutOrStdout(), cfg.JWT, tokenUserID, tokenFacultyID, tokenRole, tokenEmail)
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user", 0, "User ID placed in the token")
	tokenCmd.Flags().Int64Var(&tokenFacultyID, "faculty", 0, "Faculty ID linked to the user")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(models.RoleAdmin), "Role: ADMIN or FACULTY")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email claim")
	_ = tokenCmd.MarkFlagRequired("user")
}

func writeToken(out io.Writer, jwtCfg config.JWTConfig, userID, facultyID int64, role, email string) error {
	r := models.UserRole(strings.ToUpper(role))
	if r != models.RoleAdmin && r != models.RoleFaculty {
		return fmt.Errorf("unknown role %q", role)
	}
	if r == models.RoleFaculty && facultyID <= 0 {
		return fmt.Errorf("--faculty is required for FACULTY tokens")
	}

	tokens := service.NewTokenService(service.TokenConfig{Secret: jwtCfg.Secret, Expiry: jwtCfg.Expiration, Issuer: jwtCfg.Issuer})
	token, expires, err := tokens.Issue(models.User{ID: userID, Email: email, Role: r}, facultyID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\nexpires %s\n", token, expires.UTC().Format(time.RFC3339))
	return nil
}
