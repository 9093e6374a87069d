// @title HabitRPG API
// @description Gamified habit-tracker backend: habits earn XP, levels and streaks
// @BasePath /api/v1
// @schemes http
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/limbo/habitrpg/internal/api"
	"github.com/limbo/habitrpg/internal/repository"
	"github.com/limbo/habitrpg/internal/service"
	"github.com/limbo/habitrpg/pkg/cleanup"
	"github.com/limbo/habitrpg/pkg/config"
	jwtservice "github.com/limbo/habitrpg/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	usersRepo := repository.NewUsersRepo(&dbCfg)
	habitsRepo := repository.NewHabitsRepo(&dbCfg)
	logsRepo := repository.NewCompletionLogsRepo(&dbCfg)
	gameRepo := repository.NewGameRepo(&dbCfg)

	serv := api.New(&api.ServicesList{
		UserService:    service.NewUserService(usersRepo),
		HabitsService:  service.NewHabitsService(habitsRepo, logsRepo),
		GameService:    service.NewGameService(gameRepo, logsRepo),
		ProfileService: service.NewProfileService(usersRepo, habitsRepo, logsRepo),
		JwtService:     jwtservice.New(cfg.GetString("JWT_SECRET")),
	})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cleanup.CleanUp()
		os.Exit(0)
	}()

	err := serv.Run(cfg.GetStringOr("API_ADDRESS", ":8080"))
	if err != nil {
		slog.Error("server error", slog.String("error", err.Error()))
		cleanup.CleanUp()
		os.Exit(1)
	}
}
