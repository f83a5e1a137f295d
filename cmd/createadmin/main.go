// Command createadmin creates an admin user in the configured database and
// can initialize default site settings for every active tenant.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/service"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/repository"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/config"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/database"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

func main() {
	var (
		req          service.CreateAdminRequest
		initSettings bool
	)
	flag.StringVar(&req.Username, "username", "", "admin username")
	flag.StringVar(&req.Password, "password", os.Getenv("ADMIN_PASSWORD"), "admin password (default $ADMIN_PASSWORD)")
	flag.StringVar(&req.Role, "role", model.RoleAdmin, "admin or superadmin")
	flag.StringVar(&req.TenantID, "tenant", "", "tenant id (required for admins)")
	flag.BoolVar(&initSettings, "init-settings", false, "write default site settings for active tenants that have none")
	flag.Parse()

	if req.Username == "" && !initSettings {
		flag.Usage()
		os.Exit(2)
	}

	config.Load()
	registry, err := tenant.LoadRegistry(config.AppConfig.TenantRegistryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	database.Connect()
	defer database.Close()

	ctx := context.Background()
	driver := config.AppConfig.DBDriver

	if req.Username != "" {
		auth := service.NewAuthService(repository.NewSQLUserRepository(database.DB, driver), registry)
		user, err := auth.CreateAdmin(ctx, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created %s %q (id %s)\n", user.Role, user.Username, user.ID)
	}

	if initSettings {
		settings := service.NewSettingsService(repository.NewSQLDocumentRepository(database.DB, driver), nil, registry)
		for _, info := range registry.Active() {
			tc, err := tenant.NewContext(info.ID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			_, created, err := settings.Initialize(ctx, tc)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: initialize %s: %v\n", info.ID, err)
				os.Exit(1)
			}
			if created {
				fmt.Printf("Initialized settings for %s\n", info.ID)
			} else {
				fmt.Printf("Settings already exist for %s\n", info.ID)
			}
		}
	}
}
