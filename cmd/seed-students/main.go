package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/config"
	"github.com/stemsi/presensi-backend/internal/database"
	"github.com/stemsi/presensi-backend/internal/logger"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/repository"
	"github.com/stemsi/presensi-backend/internal/service"
)

// seed-students creates a batch, department and semester (reusing them by
// name when present) and fills the cohort with students whose ids share a
// prefix and carry a running sequence, e.g. CS2024001.
func main() {
	var (
		batchName  = flag.String("batch", "2024", "Batch name")
		deptName   = flag.String("department", "Computer Science", "Department name")
		semName    = flag.String("semester", "Semester 1", "Semester name")
		prefix     = flag.String("prefix", "CS2024", "Student id prefix")
		count      = flag.Int("count", 50, "Number of students")
		password   = flag.String("password", "student123", "Password for every seeded student")
		admissions = flag.String("admission-date", time.Now().Format(time.DateOnly), "Admission date for new-batch students")
	)
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	orgService := service.NewOrgService(repository.NewOrgUnitRepository(pool), log)
	sectionService := service.NewSectionService(repository.NewSectionRepository(pool), nil, log)
	userService := service.NewUserService(
		repository.NewUserRepository(pool),
		sectionService,
		service.NewAuthService(cfg, nil),
		log,
	)

	batch := findOrCreate(ctx, log, orgService, model.OrgBatch, *batchName)
	dept := findOrCreate(ctx, log, orgService, model.OrgDepartment, *deptName)
	findOrCreate(ctx, log, orgService, model.OrgSemester, *semName)

	fmt.Printf("=== Seeding %d students into %s / %s ===\n", *count, batch.Name, dept.Name)

	rows := make([]service.ImportRow, 0, *count)
	for i := 1; i <= *count; i++ {
		id := fmt.Sprintf("%s%03d", *prefix, i)
		rows = append(rows, service.ImportRow{
			Line: i,
			Request: model.CreateUserRequest{
				ID:            id,
				Name:          fmt.Sprintf("Student %03d", i),
				Email:         fmt.Sprintf("%s@students.example.edu", id),
				Password:      *password,
				Role:          model.RoleStudent,
				BatchID:       batch.ID,
				DepartmentID:  dept.ID,
				BatchStatus:   model.BatchStatusNew,
				AdmissionDate: *admissions,
			},
		})
	}

	result, err := userService.Import(ctx, rows)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			log.Fatal().Err(err).Msg("Some students already exist; nothing was seeded")
		}
		log.Fatal().Err(err).Msg("Seed failed")
	}

	fmt.Printf("\nSeed completed! Added %d students.\n", result.Students)
}

func findOrCreate(ctx context.Context, log zerolog.Logger, svc *service.OrgService, kind model.OrgKind, name string) *model.OrgUnit {
	units, err := svc.List(ctx, kind)
	if err != nil {
		log.Fatal().Err(err).Str("kind", string(kind)).Msg("Failed to list org units")
	}
	for i := range units {
		if units[i].Name == name {
			fmt.Printf("Found existing %s %q (id %d)\n", kind, name, units[i].ID)
			return &units[i]
		}
	}
	unit, err := svc.Create(ctx, kind, name)
	if err != nil {
		log.Fatal().Err(err).Str("kind", string(kind)).Msg("Failed to create org unit")
	}
	fmt.Printf("Created %s %q (id %d)\n", kind, name, unit.ID)
	return unit
}
