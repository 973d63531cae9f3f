package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL          string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	DataDir              string
	StoreID              string
	TerminalID           string
	NotifyURL            string
	OrderSeqTTLSeconds   int
	NotifyTimeoutSeconds int
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	seqTTL, err := strconv.Atoi(getEnv("ORDER_SEQ_TTL_SECONDS", "300"))
	if err != nil || seqTTL < 1 {
		seqTTL = 300
	}
	notifyTimeout, err := strconv.Atoi(getEnv("NOTIFY_TIMEOUT_SECONDS", "5"))
	if err != nil || notifyTimeout < 1 {
		notifyTimeout = 5
	}

	return Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              redisDB,
		DataDir:              getEnv("DATA_DIR", "./data"),
		StoreID:              getEnv("DEFAULT_STORE_ID", "main-store"),
		TerminalID:           getEnv("TERMINAL_ID", "terminal-01"),
		NotifyURL:            os.Getenv("NOTIFY_URL"),
		OrderSeqTTLSeconds:   seqTTL,
		NotifyTimeoutSeconds: notifyTimeout,
	}
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
