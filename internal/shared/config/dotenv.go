package config

import (
	"log"

	"github.com/joho/godotenv"
)

// loadEnvFiles applies every readable file in order. godotenv never overrides
// variables that are already set, so the process environment wins.
func loadEnvFiles(paths ...string) []string {
	var loaded []string
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	if len(loaded) > 0 {
		log.Printf("config: loaded env from %v", loaded)
	}
	return loaded
}
