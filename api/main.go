package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"

	"github.com/credlens/loanauth"
	"github.com/credlens/loanauth/session"
)

func main() {
	godotenv.Load()

	signingKey := os.Getenv("AUTH_SIGNING_KEY")
	if signingKey == "" {
		log.Fatal("AUTH_SIGNING_KEY must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	accounts := connectAccounts(ctx)
	sessions := connectSessions(ctx)

	svc := loanauth.NewService(accounts, sessions, loanauth.NewTokens([]byte(signingKey)))

	router := httprouter.New()
	router.Handler(http.MethodGet, "/", loanauth.StatusHandler())
	router.Handler(http.MethodPost, "/register", loanauth.RegisterHandler(svc))
	router.Handler(http.MethodPost, "/login", loanauth.LoginHandler(svc))
	router.Handler(http.MethodGet, "/get_user_and_profile", loanauth.GetUserAndProfileHandler(svc))
	router.Handler(http.MethodPost, "/logout", loanauth.LogoutHandler(svc))

	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}

	log.Printf("Server started. Listening on port: %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

func connectAccounts(ctx context.Context) loanauth.Repository {
	url := os.Getenv("MONGO_URL")
	if url == "" {
		log.Println("MONGO_URL not set, using in-memory account store")
		return loanauth.NewAccountRepository()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		log.Fatal(err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal(err)
	}

	c := client.Database("loanassist").Collection("accounts")
	repo, err := loanauth.NewMongoAccountRepository(ctx, c)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Connected to Db")
	return repo
}

func connectSessions(ctx context.Context) session.Store {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, using in-memory session store")
		return session.NewStore()
	}

	db, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil {
		db = 0
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	return session.NewRedisStore(rdb)
}
