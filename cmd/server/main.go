package main

import (
	"context"
	"log"

	"go-event-ticketing/config"
	"go-event-ticketing/internal/clock"
	"go-event-ticketing/internal/database"
	"go-event-ticketing/internal/handler"
	"go-event-ticketing/internal/queue"
	"go-event-ticketing/internal/repository"
	"go-event-ticketing/internal/service"
	"go-event-ticketing/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env 不存在就直接用環境變數
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	eventQueue, err := queue.NewRedisStreamTicketEventQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize ticket event queue: %v", err)
	}

	eventRepo := repository.NewEventRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	auditRepo := repository.NewTicketEventRepository(pool)

	clk := clock.NewSystem()
	eventService := service.NewEventService(pool, eventRepo, ticketRepo, clk)
	ticketService := service.NewTicketService(pool, eventRepo, ticketRepo, eventQueue, clk)
	claimService := service.NewClaimService(ticketRepo, eventRepo, eventQueue, clk)
	auditService := service.NewAuditService(auditRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auditWorker := worker.NewAuditWorker(auditService, eventQueue)
	if err := auditWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start audit worker: %v", err)
	}

	router := gin.Default()
	router.Use(cors.Default())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewEventHandler(eventService).RegisterRoutes(router)
	handler.NewTicketHandler(ticketService, claimService).RegisterRoutes(router)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
