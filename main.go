package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const defaultOpenAIBaseURL = "https://api.openai.com"

func main() {
	log.SetPrefix("jl/nutrition-tracker-go-api: ")
	log.SetFlags(0)

	// .env is optional — env vars may come from the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	// Storage: Postgres when DB_URL is set, otherwise in-memory.
	var store EntryStore
	if os.Getenv("DB_URL") != "" {
		store = newPostgresStore(getDBPool())
	} else {
		log.Println("DB_URL not set, using in-memory store (entries are lost on restart)")
		store = newMemoryStore()
	}

	passwordHash := os.Getenv("APP_PASSWORD_HASH")
	if passwordHash == "" {
		log.Println("APP_PASSWORD_HASH not set, running without authentication")
	}

	h := &Handler{
		store:         store,
		tokens:        newTokenStore(),
		passwordHash:  passwordHash,
		openAIBaseURL: defaultOpenAIBaseURL,
	}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("listening on :%s", port)
	router.Run(":" + port)
}
