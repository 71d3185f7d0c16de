// Command devtoken mints an access token for exercising the API locally.
// Identity normally arrives from the upstream issuer; this stands in for it
// during development.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/fieldops-hq/hrops-backend/internal/config"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/jwt"
)

func main() {
	employeeID := flag.String("employee", "", "employee id to embed in the token")
	positionCode := flag.String("position", "staff", "position code claim")
	flag.Parse()

	if *employeeID == "" {
		log.Fatal("-employee is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	token, expiresAt, err := jwtService.GenerateAccessToken(*employeeID, *positionCode)
	if err != nil {
		log.Fatal("Error generating token: ", err)
	}

	fmt.Println(token)
	fmt.Println("expires_at:", expiresAt)
}
