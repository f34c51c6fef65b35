package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/pabobernando/confused-be/config"
	"github.com/pabobernando/confused-be/db"
	"github.com/pabobernando/confused-be/models"
	"github.com/pabobernando/confused-be/repositories"
	"github.com/pabobernando/confused-be/utils"
)

// Заполняет базу стартовыми данными. В production создается только
// администратор из переменных окружения; в разработке таблицы наполняются
// из CSV-файлов каталога seed-data.
func main() {
	dataDir := flag.String("data", "seed-data", "directory with CSV seed files")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbConn.Close()

	seeder := &seeder{
		adminRepo:       repositories.NewPostgresAdminRepository(dbConn),
		teamRepo:        repositories.NewPostgresTeamRepository(dbConn),
		tournamentRepo:  repositories.NewPostgresTournamentRepository(dbConn),
		participantRepo: repositories.NewPostgresParticipantRepository(dbConn),
		cfg:             cfg,
		dataDir:         *dataDir,
		logger:          logger,
	}

	if err := seeder.run(context.Background()); err != nil {
		logger.Error("seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("seeding finished")
}

type seeder struct {
	adminRepo       repositories.AdminRepository
	teamRepo        repositories.TeamRepository
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	cfg             *config.Config
	dataDir         string
	logger          *slog.Logger
}

func (s *seeder) run(ctx context.Context) error {
	// Ссылочная таблица очищается первой, иначе внешние ключи не дадут
	// удалить команды и турниры.
	if err := s.participantRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.seedAdmins(gCtx) })
	g.Go(func() error { return s.seedTeams(gCtx) })
	g.Go(func() error { return s.seedTournaments(gCtx) })
	if err := g.Wait(); err != nil {
		return err
	}

	return s.seedParticipants(ctx)
}

func (s *seeder) seedAdmins(ctx context.Context) error {
	if err := s.adminRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear admins: %w", err)
	}

	if s.cfg.Environment == "production" {
		if s.cfg.AdminUsername == "" || s.cfg.AdminPassword == "" {
			return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set in production")
		}
		hash, err := utils.HashPassword(s.cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		if err := s.adminRepo.Create(ctx, &models.Admin{
			ID:           uuid.NewString(),
			Username:     s.cfg.AdminUsername,
			PasswordHash: hash,
		}); err != nil {
			return fmt.Errorf("failed to create production admin: %w", err)
		}
		s.logger.Info("production admin seeded", slog.String("username", s.cfg.AdminUsername))
		return nil
	}

	records, err := s.readCSV("admin.csv")
	if err != nil || records == nil {
		return err
	}

	seeded := 0
	for _, record := range records {
		username, password := record["username"], record["password"]
		if username == "" || password == "" {
			s.logger.Warn("skipping admin record with missing username or password")
			continue
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %q: %w", username, err)
		}
		if err := s.adminRepo.Create(ctx, &models.Admin{
			ID:           orNewID(record["id"]),
			Username:     username,
			PasswordHash: hash,
		}); err != nil {
			return fmt.Errorf("failed to create admin %q: %w", username, err)
		}
		seeded++
	}
	s.logger.Info("admins seeded", slog.Int("count", seeded))
	return nil
}

func (s *seeder) seedTeams(ctx context.Context) error {
	if err := s.teamRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear teams: %w", err)
	}

	records, err := s.readCSV("team.csv")
	if err != nil || records == nil {
		return err
	}

	for _, record := range records {
		status := models.PaymentStatus(record["payment_status"])
		if !status.Valid() {
			status = models.PaymentPending
		}
		team := &models.Team{
			ID:            orNewID(record["id"]),
			Name:          record["name"],
			Contact:       record["contact"],
			Logo:          record["logo"],
			Players:       splitList(record["player"]),
			PaymentStatus: status,
		}
		if err := s.teamRepo.Create(ctx, nil, team); err != nil {
			return fmt.Errorf("failed to create team %q: %w", team.Name, err)
		}
	}
	s.logger.Info("teams seeded", slog.Int("count", len(records)))
	return nil
}

func (s *seeder) seedTournaments(ctx context.Context) error {
	if err := s.tournamentRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear tournaments: %w", err)
	}

	records, err := s.readCSV("tournament.csv")
	if err != nil || records == nil {
		return err
	}

	for _, record := range records {
		date, err := parseDate(record["date"])
		if err != nil {
			return fmt.Errorf("invalid date for tournament %q: %w", record["title"], err)
		}
		tournament := &models.Tournament{
			ID:          orNewID(record["id"]),
			Title:       record["title"],
			Poster:      record["poster"],
			Location:    record["location"],
			Description: record["description"],
			Date:        date,
			Price:       record["price"],
		}
		if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
			return fmt.Errorf("failed to create tournament %q: %w", tournament.Title, err)
		}
	}
	s.logger.Info("tournaments seeded", slog.Int("count", len(records)))
	return nil
}

func (s *seeder) seedParticipants(ctx context.Context) error {
	records, err := s.readCSV("tournament_participants.csv")
	if err != nil || records == nil {
		return err
	}

	participants := make([]*models.TournamentParticipant, 0, len(records))
	registeredAt := time.Now().UTC()
	for _, record := range records {
		participants = append(participants, &models.TournamentParticipant{
			ID:           orNewID(record["id"]),
			TournamentID: record["tournamentId"],
			TeamID:       record["teamId"],
			RegisteredAt: registeredAt,
		})
	}
	if err := s.participantRepo.CreateBatch(ctx, nil, participants); err != nil {
		return fmt.Errorf("failed to create participants: %w", err)
	}
	s.logger.Info("tournament participants seeded", slog.Int("count", len(participants)))
	return nil
}

// readCSV returns one map per data row keyed by the header. A missing file
// is not an error: that table is simply skipped.
func (s *seeder) readCSV(name string) ([]map[string]string, error) {
	path := filepath.Join(s.dataDir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("seed file not found, skipping", slog.String("file", name))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(row) {
				record[strings.TrimSpace(column)] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func orNewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}
