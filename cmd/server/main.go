package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/warpalign/warpalign/pkg/warpalign"
)

var (
	port           int
	dbPath         string
	sampleRate     float64
	seed           int64
	dtwWindow      int
	allowedOrigins string
)

func init() {
	flag.IntVar(&port, "port", 8080, "HTTP server port")
	flag.StringVar(&dbPath, "db", getEnvOrDefault("WARPALIGN_DB_PATH", "warpalign.sqlite3"), "Path to SQLite database")
	flag.Float64Var(&sampleRate, "rate", 1000, "Sampling rate of server-side reference signals (Hz)")
	flag.Int64Var(&seed, "seed", 42, "Seed for noise transformations")
	flag.IntVar(&dtwWindow, "window", 0, "Sakoe-Chiba band half-width for DTW (0 = unconstrained)")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	flag.Parse()

	// Parse allowed origins
	var origins []string
	if allowedOrigins == "*" {
		origins = []string{"*"}
	} else {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	service, err := warpalign.NewService(
		warpalign.WithDBPath(dbPath),
		warpalign.WithSampleRate(sampleRate),
		warpalign.WithSeed(seed),
		warpalign.WithDTWWindow(dtwWindow),
	)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	config := &ServerConfig{
		Port:           port,
		DBPath:         dbPath,
		SampleRate:     sampleRate,
		AllowedOrigins: origins,
	}

	server := NewServer(service, config)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
