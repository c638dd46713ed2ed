package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/stemsi/profile-directory/internal/config"
	"github.com/stemsi/profile-directory/internal/logger"
	"github.com/stemsi/profile-directory/internal/service"
)

// hash-password prints an ADMIN_PASSWORD_HASH value for the .env file.
func main() {
	cfg := config.Load()
	log := logger.Setup("hash-password", cfg.LogLevel, cfg.LogFormat)

	authService := service.NewAuthService(cfg)

	fmt.Println("=== Hash Admin Password ===")

	password, err := readPassword("Enter Password: ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read password")
	}
	if len(password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		os.Exit(1)
	}

	confirm, err := readPassword("Repeat Password: ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read password")
	}
	if confirm != password {
		fmt.Println("Error: Passwords do not match")
		os.Exit(1)
	}

	hash, err := authService.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	fmt.Printf("\nADMIN_PASSWORD_HASH=%s\n", hash)
}

// readPassword reads without echo from a terminal, or a plain line when
// stdin is piped.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	b, err := term.ReadPassword(fd)
	fmt.Println()
	return string(b), err
}
