package main

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/config"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/logger"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		zl.Fatal("connect mongo", zap.Error(err))
	}

	app, err := server.New(cfg, client, zl)
	if err != nil {
		zl.Fatal("build server", zap.Error(err))
	}
	if err := app.Run(); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
