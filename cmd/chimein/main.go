package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/markbates/pkger"
	"github.com/rs/zerolog"
	"github.com/Manaswi925/ChimeIn/internal/db"
	"github.com/Manaswi925/ChimeIn/internal/models"
	"github.com/Manaswi925/ChimeIn/internal/moderation"
	"github.com/Manaswi925/ChimeIn/internal/routes"
	"github.com/Manaswi925/ChimeIn/internal/storage"
)

const usage = `Usage:
	- start
	- migrate [up/down/drop]
	- sweep
`

func main() {
	if len(os.Args) == 1 {
		fmt.Print(usage)
		return
	}
	godotenv.Load()
	envConfig := models.ReadEnvConfig()
	switch os.Args[1] {
	case "start":
		server := ChimeInServer{EnvConfig: envConfig}
		server.Setup()
		server.Run()
	case "migrate":
		if len(os.Args) < 3 {
			fmt.Print(usage)
			return
		}
		var err error
		switch os.Args[2] {
		case "up":
			err = db.MigrateUp(envConfig.DatabaseURL)
		case "down":
			err = db.MigrateDown(envConfig.DatabaseURL)
		case "drop":
			err = db.Drop(envConfig.DatabaseURL)
		default:
			fmt.Print(usage)
			return
		}
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println("Done")
	case "sweep":
		runSweep(envConfig)
	default:
		fmt.Print(usage)
	}
}

type ChimeInServer struct {
	models.EnvConfig
	addr       string
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
	database   db.SharedDB
	gate       *moderation.Gate
	media      *storage.Media
}

func (server *ChimeInServer) setupLogger() {
	var writer io.Writer
	if server.Debug {
		writer = zerolog.ConsoleWriter{Out: os.Stdout}
	} else {
		writer = os.Stdout
	}
	log := zerolog.New(writer).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	server.logger = log
}
func (server *ChimeInServer) setupModeration() {
	rules, err := loadRules(&server.EnvConfig)
	if err != nil {
		server.logger.Fatal().Err(err).Msg("Failed to load moderation rules")
	}
	server.gate = moderation.NewGate(rules, &server.EnvConfig, server.logger)
}
func (server *ChimeInServer) setupMedia() {
	media, err := storage.NewMedia(server.MediaDir)
	if err != nil {
		server.logger.Fatal().Err(err).Send()
	}
	server.media = media
}
func (server *ChimeInServer) setupDB() {
	err := db.MigrateUp(server.DatabaseURL)
	if err != nil {
		server.logger.Fatal().Err(err).Send()
	}
	database, err := db.Connect(&server.EnvConfig)
	if err != nil {
		server.logger.Fatal().AnErr("Connecting to db", err).Send()
	}
	server.database = database
}
func (server *ChimeInServer) setupRouter() {
	server.router = routes.NewRouter(&server.EnvConfig, &server.database, server.gate, server.media, server.logger)
}
func (server *ChimeInServer) setupHttpServer() {
	server.addr = fmt.Sprintf("localhost:%s", server.EnvConfig.Port)
	server.httpServer = &http.Server{
		Addr:         server.addr,
		Handler:      server.router,
		ReadTimeout:  1 * time.Minute,
		WriteTimeout: 1 * time.Minute,
	}
}
func (server *ChimeInServer) Setup() {
	server.setupLogger()
	server.setupModeration()
	server.setupMedia()
	server.setupDB()
	server.setupRouter()
	server.setupHttpServer()
}
func (server *ChimeInServer) Shutdown() {
	if err := server.httpServer.Shutdown(context.Background()); err != nil {
		server.logger.Error().
			Err(err).
			Msg("Error shutting down")
	}
}
func (server *ChimeInServer) Run() {
	server.logger.Info().Str("server_address", server.addr).Msg("Server is starting")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go server.httpServer.ListenAndServe()
	server.logger.Info().Msg("Ready")

	<-ctx.Done()
	stop() // Stop listening for signals
	server.logger.Info().Msg("Shutting down gracefully")
	server.Shutdown()
}

// loadRules reads the configured rule file, falling back to the embedded
// default list.
func loadRules(config *models.EnvConfig) ([]string, error) {
	var r io.ReadCloser
	var err error
	if config.RulesFile != "" {
		r, err = os.Open(config.RulesFile)
	} else {
		r, err = pkger.Open("/configs/rules.txt")
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return moderation.ReadRules(r)
}

// runSweep executes one cleanup pass from the command line, acting as the
// first admin user.
func runSweep(envConfig models.EnvConfig) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	rules, err := loadRules(&envConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load moderation rules")
	}
	database, err := db.Connect(&envConfig)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}

	ctx := context.Background()
	adminH, err := database.GetAdminH(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("No admin user to sweep as")
	}
	removed, err := adminH.SweepComments(ctx, moderation.NewMatcher(rules, logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("Sweep failed")
	}
	logger.Info().Int("removed", removed).Msg("Sweep finished")
}
