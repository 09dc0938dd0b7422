package internal

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/socialdesk/socialdesk/internal/repository"
	"github.com/socialdesk/socialdesk/internal/types"
)

// GrantSuperAdmin flags the user with USER_EMAIL as a super admin
func GrantSuperAdmin() error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("USER_EMAIL")))
	if email == "" {
		return fmt.Errorf("user email is required, pass -user-email")
	}

	deps, err := newScriptDeps()
	if err != nil {
		return err
	}
	defer deps.db.Close()

	userRepo := repository.NewUserRepository(deps.db, deps.log)

	ctx := context.Background()
	u, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if u.IsSuperAdmin {
		deps.log.Infow("user is already a super admin", "user_id", u.ID)
		return nil
	}

	ctx = types.SetTenantID(ctx, u.TenantID)
	u.IsSuperAdmin = true
	if err := userRepo.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	deps.log.Infow("granted super admin", "user_id", u.ID, "tenant_id", u.TenantID)
	return nil
}
