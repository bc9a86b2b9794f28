// Command devtoken prints a bearer token for local calls to protected endpoints.
//
// It signs with the same JWT_SECRET the API reads, so the token is accepted by a
// locally running server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/auth/token"
)

func main() {
	sub := flag.String("sub", "", "national id to put in the sub claim")
	role := flag.String("role", string(domain.RoleCitizen), "account type: citizen|operator|admin")
	ttl := flag.Duration("ttl", token.DefaultTTL, "token lifetime")
	flag.Parse()

	if *sub == "" {
		log.Fatal("-sub is required")
	}
	if !domain.Role(*role).Valid() {
		log.Fatalf("unknown role %q", *role)
	}

	svc, err := token.New(os.Getenv("JWT_SECRET"), *ttl)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	raw, err := svc.Issue(domain.NationalID(*sub), domain.Role(*role), *ttl)
	if err != nil {
		log.Fatalf("issue: %v", err)
	}
	fmt.Println(raw)
	fmt.Fprintf(os.Stderr, "expires in %s\n", ttl.Round(time.Second))
}
