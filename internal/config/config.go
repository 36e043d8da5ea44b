package config

import (
	"os"
	"strconv"
	"strings"
)

// SeedCard is one bootstrap card definition: plaintext number, PIN and
// initial balance. Plaintext is digested before it reaches the store.
type SeedCard struct {
	Number  string
	PIN     string
	Balance string
}

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	GatewayPort   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	JWTSecret     string
	AdminUsername string
	AdminPassword string
	CoreBaseURL   string
	SeedCards     []SeedCard
}

// Load builds Config from environment with sensible defaults. The seed
// list defaults to the two demo cards the system has always shipped with.
func Load() *Config {
	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8081"),
		GatewayPort:   getEnv("GATEWAY_PORT", "8080"),
		MySQLDSN:      getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/cardswitch?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),
		CoreBaseURL:   getEnv("CORE_BASE_URL", "http://localhost:8081"),
		SeedCards: parseSeedCards(getEnv("SEED_CARDS",
			"4123456789012345:1234:5000.00,4987654321098765:4321:3000.00")),
	}
}

// parseSeedCards parses "number:pin:balance" tuples separated by commas.
// Malformed tuples are skipped.
func parseSeedCards(raw string) []SeedCard {
	var seeds []SeedCard
	for _, tuple := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(tuple), ":")
		if len(parts) != 3 {
			continue
		}
		seeds = append(seeds, SeedCard{Number: parts[0], PIN: parts[1], Balance: parts[2]})
	}
	return seeds
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
