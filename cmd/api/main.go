package main

import (
	"context"
	"log"

	config "github.com/Faraimunashe/negcom/internal/config"
	route "github.com/Faraimunashe/negcom/internal/delivery/http/route"
)

func main() {
	config.LoadEnv()

	db, err := config.ConnectPostgres()
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	mongoClient, err := config.ConnectMongo(context.Background())
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("warning: mongo disconnect: %v", err)
		}
	}()

	app := config.SetupGin()
	route.SetupRoute(app, db, mongoClient)
	config.SetupServer(app)
}
