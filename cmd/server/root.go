package main

import (
	"fmt"
	"log"

	"skillbook/internal/adapters/persistence/memory"
	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/adapters/persistence/repositories"
	"skillbook/internal/config"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "skillbook",
		Short: "Skillbook course enrollment API",
		Long: `Skillbook course enrollment API. Usage:

	skillbook            # same as "skillbook serve"
	skillbook serve
	skillbook migrate
	skillbook seed-admin
`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedAdminCmd())
	return root
}

// persistence is the set of repositories behind the configured driver
type persistence struct {
	db          *gorm.DB // nil for the memory driver
	users       repositories.UserRepository
	courses     repositories.CourseRepository
	enrollments repositories.EnrollmentRepository
	photos      repositories.PhotoRepository
}

// openPersistence connects to the configured store and migrates its schema
func openPersistence(cfg *config.Config) (*persistence, error) {
	if cfg.Database.Driver == "memory" {
		log.Println("⚠️ Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &persistence{
			users:       store.Users(),
			courses:     store.Courses(),
			enrollments: store.Enrollments(),
			photos:      store.Photos(),
		}, nil
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, err
	}

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		_ = config.CloseDatabase(db)
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	log.Println("✅ Database migration completed")

	return &persistence{
		db:          db,
		users:       repositories.NewUserRepository(db),
		courses:     repositories.NewCourseRepository(db),
		enrollments: repositories.NewEnrollmentRepository(db),
		photos:      repositories.NewPhotoRepository(db),
	}, nil
}

func (p *persistence) Close() {
	if err := config.CloseDatabase(p.db); err != nil {
		log.Printf("❌ Error closing database: %v", err)
	}
}
