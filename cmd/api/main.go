package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	config "endurance-api/configs"
	database "endurance-api/internal/pkg/db"
	"endurance-api/internal/pkg/gateway"
	"endurance-api/internal/pkg/geocode"
	"endurance-api/internal/pkg/logger"
	"endurance-api/internal/pkg/rabbitmq"
	"endurance-api/internal/pkg/redis"
	s3aws "endurance-api/internal/pkg/storage/s3"
	"endurance-api/internal/pkg/validation"
	serverApp "endurance-api/internal/server"

	"github.com/gin-gonic/gin"
)

// @title           Endurance Registration & Checkout API
// @version         1.0
// @description     Registration wizard, address validation and plan checkout API for the Endurance coaching platform

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

// @BasePath        /api
func main() {
	logger.Setup()

	env, err := config.GetEnv()
	if err != nil {
		logger.Error.Println("Error getting environment", err)
		panic(err)
	}

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	// Setup Redis
	redisClient, err := setupRedis(ctx, env)
	if err != nil {
		logger.Error.Println("Error setting up Redis", err)
		cancel()
		return
	}

	// Setup RabbitMQ
	rabbit, err := setupRabbitMQ(ctx, env)
	if err != nil {
		logger.Error.Println("Error setting up RabbitMQ", err)
		cancel()
		return
	}

	// Setup Database
	db, err := setupDB(env)
	if err != nil {
		logger.Error.Println("Error setting up Database", err)
		cancel()
		return
	}

	// Setup S3 (optional, boleto slip archive)
	s3Client := setupS3(ctx, env, redisClient)

	// Setup Server
	setupServer(&config.SetupServerDto{
		Rds:      redisClient,
		Env:      env,
		Ctx:      &ctx,
		Cancel:   cancel,
		Db:       db,
		Wg:       &wg,
		Rb:       rabbit,
		S3:       s3Client,
		Gw:       setupGateway(env),
		Resolver: setupResolver(env),
	})
}

func setupRedis(ctx context.Context, env *config.Config) (redis.IRedis, error) {
	return redis.Setup(ctx, &redis.Config{
		Host:     env.RedisHost,
		Username: env.RedisUser,
		Port:     env.RedisPort,
		Password: env.RedisPass,
		PoolSize: env.RedisPoolSize,
	})
}

func setupRabbitMQ(ctx context.Context, env *config.Config) (*rabbitmq.ConnectionManager, error) {
	return rabbitmq.NewConnectionManager(ctx, &rabbitmq.Config{
		Username: env.RabbitUser,
		Password: env.RabbitPass,
		Host:     env.RabbitHost,
		Port:     env.RabbitPort,
	})
}

func setupDB(env *config.Config) (*database.Database, error) {
	return database.Setup(&database.Config{
		Host:     env.DBHost,
		Port:     env.DBPort,
		User:     env.DBUser,
		Password: env.DBPass,
		Database: env.DBName,
		SSLMode:  "disable",
		Driver:   "postgres",
	})
}

func setupS3(ctx context.Context, env *config.Config, redisClient redis.IRedis) s3aws.Is3 {
	if env.AWSBucketName == "" {
		return nil
	}

	client, err := s3aws.NewS3Client(ctx, s3aws.S3Config{
		AWSRegion:          env.AWSRegion,
		AWSAccessKeyID:     env.AWSAccessKeyID,
		AWSSecretAccessKey: env.AWSSecretAccessKey,
	}, env.AWSBucketName, redisClient)
	if err != nil {
		logger.Warning.Println("S3 unavailable, boleto slips will not be archived:", err)
		return nil
	}
	return client
}

func setupGateway(env *config.Config) *gateway.Client {
	return gateway.Setup(&gateway.Config{
		BaseURL:        env.GatewayBaseURL,
		APIKey:         env.GatewayAPIKey,
		CallbackSecret: env.GatewayCallbackSecret,
	})
}

func setupResolver(env *config.Config) *geocode.Resolver {
	return geocode.NewResolver(&geocode.Config{
		ViaCEPBaseURL: env.ViaCEPBaseURL,
		GoogleAPIKey:  env.GeocodingAPIKey,
	})
}

func setupServer(payload *config.SetupServerDto) {
	rds := payload.Rds
	env := payload.Env
	ctx := payload.Ctx
	cancel := payload.Cancel
	wg := payload.Wg
	rb := payload.Rb
	db := payload.Db

	defer func() {
		if rds != nil {
			_ = rds.Close()
		}
		cancel()
		wg.Wait()
	}()

	err := validation.Setup()
	if err != nil {
		logger.Error.Println("Failed to setup validation")
		panic(err)
	}

	e := gin.Default()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", env.AppPort),
		Handler: e,
	}

	publisher, err := rabbitmq.NewPublisher(*ctx, rb)
	if err != nil {
		panic(err)
	}

	checkout := serverApp.Setup(e, *ctx, wg, env, db, rds, rb, publisher, payload.S3, payload.Gw, payload.Resolver)
	serverApp.InitWorker(*ctx, rb, checkout)

	go func() {
		logger.HTTP.Println("========= Server Started =========")
		logger.HTTP.Println("=========", env.AppPort, "=========")
		if err := server.ListenAndServe(); err != nil {
			logger.Error.Println("Server error:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
	logger.HTTP.Println("========= Server Shutting Down =========")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
