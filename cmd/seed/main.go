// Command seed creates the administrative accounts: one superadmin and
// one department_admin per routable department. Seeding is idempotent
// by username, so rerunning it leaves existing accounts untouched.
package main

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/civic-complaints/internal/auth"
	"github.com/spec-kit/civic-complaints/internal/config"
	"github.com/spec-kit/civic-complaints/internal/domain"
	"github.com/spec-kit/civic-complaints/internal/observability"
	"github.com/spec-kit/civic-complaints/internal/persistence"
	"github.com/spec-kit/civic-complaints/internal/repository"
)

type adminAccount struct {
	username   string
	password   string
	role       domain.UserRole
	department string
}

var adminAccounts = []adminAccount{
	{"superadmin", "super123", domain.RoleSuperAdmin, ""},
	{"buildings_admin", "build123", domain.RoleDepartmentAdmin, "Department of Buildings"},
	{"consumer_admin", "consumer123", domain.RoleDepartmentAdmin, "Department of Consumer and Worker Protection"},
	{"education_admin", "edu123", domain.RoleDepartmentAdmin, "Department of Education"},
	{"environment_admin", "env123", domain.RoleDepartmentAdmin, "Department of Environmental Protection"},
	{"health_admin", "health123", domain.RoleDepartmentAdmin, "Department of Health and Mental Hygiene"},
	{"homeless_admin", "home123", domain.RoleDepartmentAdmin, "Department of Homeless Services"},
	{"housing_admin", "house123", domain.RoleDepartmentAdmin, "Department of Housing Preservation and Development"},
	{"parks_admin", "park123", domain.RoleDepartmentAdmin, "Department of Parks and Recreation"},
	{"sanitation_admin", "clean123", domain.RoleDepartmentAdmin, "Department of Sanitation"},
	{"transport_admin", "trans123", domain.RoleDepartmentAdmin, "Department of Transportation"},
	{"economic_admin", "eco123", domain.RoleDepartmentAdmin, "Economic Development Corporation"},
	{"police_admin", "police123", domain.RoleDepartmentAdmin, "New York City Police Department"},
	{"tech_admin", "tech123", domain.RoleDepartmentAdmin, "Office of Technology and Innovation"},
	{"taxi_admin", "taxi123", domain.RoleDepartmentAdmin, "Taxi and Limousine Commission"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.PoolHandle() == nil {
		logger.Fatal("POSTGRES_DSN is required for seeding")
	}

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	users := repository.NewUserRepository(pg.PoolHandle())

	created, updated := 0, 0
	for _, account := range adminAccounts {
		existing, err := users.GetByName(ctx, account.username)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			logger.Fatal("lookup admin", zap.String("username", account.username), zap.Error(err))
		}

		var department *string
		if account.department != "" {
			d := account.department
			department = &d
		}

		if existing != nil {
			// Re-seeding refreshes role and department assignments but
			// never touches an existing password.
			existing.Role = account.role
			existing.Department = department
			if err := users.Update(ctx, existing); err != nil {
				logger.Fatal("update admin", zap.String("username", account.username), zap.Error(err))
			}
			logger.Info("refreshed admin", zap.String("username", account.username))
			updated++
			continue
		}

		hash, err := auth.HashPassword(account.password, cfg.Auth.BcryptCost)
		if err != nil {
			logger.Fatal("hash password", zap.Error(err))
		}

		user := &domain.User{
			Name:         account.username,
			Email:        account.username + "@civic.gov",
			PasswordHash: hash,
			Role:         account.role,
			Department:   department,
		}
		if err := users.Create(ctx, user); err != nil {
			logger.Fatal("create admin", zap.String("username", account.username), zap.Error(err))
		}
		logger.Info("created admin", zap.String("username", account.username), zap.String("role", string(account.role)))
		created++
	}

	logger.Info("seeding complete", zap.Int("created", created), zap.Int("updated", updated))
}
