package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"quiz-duel-server/game"
	"quiz-duel-server/handlers"
	"quiz-duel-server/models"
	"quiz-duel-server/protocol"
	"quiz-duel-server/services"
	"quiz-duel-server/utils"
	"quiz-duel-server/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	tuning := game.TuningFromEnv()

	app := fiber.New(fiber.Config{
		AppName: "quiz-duel-server",
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Player{},
		&models.QuestionRow{},
		&models.MatchRecord{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Question packs live in R2; matches still run on the local bank
	// (plus generated fillers) when it is unavailable.
	if err := utils.InitR2(); err != nil {
		log.Printf("⚠️  R2 unavailable, question pack import disabled: %v", err)
	}

	playerService := services.NewPlayerService(db, tuning)
	questionService := services.NewQuestionService(db, tuning)
	registry := services.NewSessionRegistry()
	auditWorker := workers.NewMatchAuditWorker(db)

	onFinish := func(result services.MatchResult) {
		if err := playerService.ApplyResult(result); err != nil {
			log.Printf("❌ Failed to apply result for match %s: %v", result.MatchID, err)
		}
		auditWorker.Enqueue(result)
	}

	// The queue calls this with both refs once it pairs two players.
	createMatch := func(p1, p2 protocol.PlayerRef, language string) (string, error) {
		grade := (p1.Grade + p2.Grade + 1) / 2
		questions, err := questionService.SelectForMatch("", language, grade, tuning.QuestionsPerMatch)
		if err != nil {
			return "", err
		}
		session := services.NewMatchSession(uuid.New().String(), p1, p2, questions, tuning, onFinish)
		registry.Register(session)
		go session.Run()
		return session.ID, nil
	}

	queue := services.NewMatchmakingQueue(tuning, createMatch, registry.HasActive)
	go queue.Run()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go auditWorker.Run(ctx)

	sched := services.StartEngineScheduler(tuning, queue, registry)

	gateway := handlers.NewGateway(queue, registry, playerService)
	api := &handlers.API{
		Players:   playerService,
		Questions: questionService,
		Registry:  registry,
		Queue:     queue,
	}
	handlers.SetupRoutes(app, api, gateway)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Matchmaking tick every %s, reconnect window %s", tuning.MatcherTick, tuning.ReconnectWindow)
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = sched.Shutdown()
	queue.Stop()
	for _, s := range registry.All() {
		s.Stop()
	}
	if err := app.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
