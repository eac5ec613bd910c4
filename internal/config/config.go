// Package config turns command line values into validated import settings.
// It loads .env files, resolves environment fallbacks, reads the optional
// mapping file and looks up tokens in the OS keychain.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// LoadEnv loads .env files into the process environment. Values already
// set are kept.
func LoadEnv() {
	// 1. The executable's directory
	exePath, err := os.Executable()
	if err == nil {
		envPath := filepath.Join(filepath.Dir(exePath), ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. The working directory
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}
}

// EnvName returns the environment variable that backs a flag, e.g.
// spaceToken -> SPACE_TOKEN and gitHubApiUrl -> GITHUB_API_URL.
func EnvName(flag string) string {
	flag = strings.Replace(flag, "gitHub", "github", 1)
	var sb strings.Builder
	for i, r := range flag {
		if unicode.IsUpper(r) && i > 0 {
			sb.WriteByte('_')
		}
		sb.WriteRune(unicode.ToUpper(r))
	}
	return sb.String()
}

// LookupEnv returns the environment value that backs a flag.
func LookupEnv(flag string) (string, bool) {
	return os.LookupEnv(EnvName(flag))
}
