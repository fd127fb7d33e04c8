package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tennis-ranking/internal/app"
	"github.com/riskibarqy/tennis-ranking/internal/config"
	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
	"github.com/riskibarqy/tennis-ranking/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tennis-ranking/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/tennis-ranking/internal/platform/logging"
	"github.com/riskibarqy/tennis-ranking/internal/usecase"
)

type seedRow struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate"`
	Points    int    `json:"points"`
}

func main() {
	file := flag.String("file", "", "JSON array of players to seed; defaults to the built-in roster")
	workers := flag.Int("workers", 4, "concurrent row validators")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.NewJSON(cfg.LogLevel, cfg.ServiceName+"-seed", cfg.ServiceVersion)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *file, *workers); err != nil {
		logger.Error("seed failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *logging.Logger, file string, workers int) error {
	rows, err := loadRows(file)
	if err != nil {
		return err
	}

	players, err := usecase.NewSeedService(logger, workers, time.Now).Prepare(ctx, rows)
	if err != nil {
		return err
	}

	db, err := app.OpenDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	inserted, err := postgres.BootstrapSeed(ctx, db, players)
	if err != nil {
		return err
	}
	if inserted == 0 {
		logger.Info("players table not empty, seed skipped")
		return nil
	}

	logger.Info("seed finished", "inserted", inserted)
	return nil
}

func loadRows(path string) ([]player.Candidate, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		defaults := memory.SeedPlayers()
		rows := make([]player.Candidate, 0, len(defaults))
		for _, p := range defaults {
			rows = append(rows, player.Candidate{
				FirstName: p.FirstName,
				LastName:  p.LastName,
				BirthDate: p.BirthDate,
				Points:    p.Points,
			})
		}
		return rows, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return parseRows(raw)
}

func parseRows(raw []byte) ([]player.Candidate, error) {
	var decoded []seedRow
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	rows := make([]player.Candidate, 0, len(decoded))
	for i, row := range decoded {
		birthDate, err := time.Parse("2006-01-02", strings.TrimSpace(row.BirthDate))
		if err != nil {
			return nil, fmt.Errorf("seed row %d (%s): invalid birth date %q", i+1, row.LastName, row.BirthDate)
		}
		rows = append(rows, player.Candidate{
			FirstName: row.FirstName,
			LastName:  row.LastName,
			BirthDate: birthDate,
			Points:    row.Points,
		})
	}

	return rows, nil
}
