package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ActorsCollection         *mongo.Collection
	TripsCollection          *mongo.Collection
	ApplicationsCollection   *mongo.Collection
	SponsorshipsCollection   *mongo.Collection
	FindersCollection        *mongo.Collection
	FavouriteListsCollection *mongo.Collection
	POIsCollection           *mongo.Collection
	SystemParamsCollection   *mongo.Collection
	MonthCubesCollection     *mongo.Collection
	YearCubesCollection      *mongo.Collection
	IdempotencyCollection    *mongo.Collection
	Client                   *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "acmexplorer"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database(dbName)
	ActorsCollection = database.Collection("actors")
	TripsCollection = database.Collection("trips")
	ApplicationsCollection = database.Collection("applications")
	SponsorshipsCollection = database.Collection("sponsorships")
	FindersCollection = database.Collection("finders")
	FavouriteListsCollection = database.Collection("favouritelists")
	POIsCollection = database.Collection("pois")
	SystemParamsCollection = database.Collection("systemparams")
	MonthCubesCollection = database.Collection("monthcubes")
	YearCubesCollection = database.Collection("yearcubes")
	IdempotencyCollection = database.Collection("idempotency")
}
