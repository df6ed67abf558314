package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"messenger/api/handlers"
	"messenger/api/middleware"
	"messenger/api/routes"
	"messenger/config"
	"messenger/db"
	"messenger/services"
	"messenger/storage"
)

func main() {
	var configPath string
	var seedUsers int
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.IntVar(&seedUsers, "seed", 0, "Create N demo users on startup")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	store := storage.NewGormStore()

	// Без Redis typing-статусы живут в памяти процесса
	var typing services.TypingStore
	if err := services.InitRedis(); err != nil {
		log.Printf("Redis unavailable, falling back to in-memory typing store: %v", err)
		typing = services.NewMemoryTypingStore()
	} else {
		typing = services.NewRedisTypingStore()
		defer services.CloseRedis()
	}

	if err := services.InitRabbitMQ(); err != nil {
		// События - best-effort, без брокера сервис работает
		log.Printf("RabbitMQ unavailable, message events disabled: %v", err)
	}
	defer services.CloseRabbitMQ()

	handlers.Init(store, typing)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if seedUsers > 0 {
		if err := services.SeedDemoUsers(ctx, store, seedUsers); err != nil {
			log.Printf("Failed to seed demo users: %v", err)
		}
	}

	// Выключен, пока presence.stale_after_seconds не задан
	handlers.Presence().StartJanitor(ctx)

	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware())

	routes.PublicApi(router)

	port := config.AppConfig.Backend.Port
	if port == 0 {
		port = 8080
	}
	addr := fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, port)
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
