package main

import (
	"log"
	"time"

	"github.com/coverchain/coverchain/app/models"
	"github.com/coverchain/coverchain/app/repository"
	"github.com/coverchain/coverchain/internal/pkg/database"
	"github.com/coverchain/coverchain/internal/pkg/env"
	"github.com/coverchain/coverchain/internal/pkg/identity"
)

// Seeds the default approved provider that /policy/record attaches
// chain-triggered policies to. Idempotent: a database that already has
// providers is left untouched.
func main() {
	env.SetupEnvFile()
	database.SetupDatabase()
	repository.InitializeFactory(database.GetDB())

	repos := repository.GetGlobalRepositories()

	count, err := repos.Provider.Count()
	if err != nil {
		log.Fatalf("Failed to count providers: %v", err)
	}
	if count > 0 {
		log.Printf("Providers already present (%d), nothing to seed", count)
		return
	}

	address := env.GetEnv("SEED_PROVIDER_ADDRESS", "0x0000000000000000000000000000000000000001")
	now := time.Now()
	provider := &models.Provider{
		ProviderDid:     identity.AddressDid(address),
		ProviderAddress: address,
		Name:            env.GetEnv("SEED_PROVIDER_NAME", "Default Provider"),
		Status:          models.ProviderStatusApproved,
		ApprovedAt:      &now,
		ApprovedBy:      "seed",
	}
	if err := repos.Provider.Create(provider); err != nil {
		log.Fatalf("Failed to seed default provider: %v", err)
	}

	log.Printf("Seeded default provider %d (%s)", provider.ID, provider.ProviderDid)
}
