package main

import (
	"log"
	"os"

	"edugen-be/internal/model"
	"edugen-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding Subscription Plans...")

	plans := []model.SubscriptionPlan{
		{
			Name:                 "Free Plan",
			Slug:                 "free",
			Description:          "Get started with basic content generation",
			Tagline:              "For trying things out",
			Price:                0,
			BillingPeriod:        "monthly",
			MaxFolders:           3,
			GenerationDailyLimit: 5,
			SortOrder:            1,
		},
		{
			Name:                  "Educator Monthly",
			Slug:                  "educator-monthly",
			Description:           "Unlimited folders and generous daily generation for active teachers",
			Tagline:               "Most flexible",
			Price:                 99000,
			TaxRate:               0.11,
			BillingPeriod:         "monthly",
			MaxFolders:            -1,
			GenerationDailyLimit:  50,
			SemanticSearchEnabled: true,
			IsMostPopular:         true,
			SortOrder:             2,
		},
		{
			Name:                  "Educator Yearly",
			Slug:                  "educator-yearly",
			Description:           "Everything in Educator Monthly, billed once a year",
			Tagline:               "Best value",
			Price:                 990000,
			TaxRate:               0.11,
			BillingPeriod:         "yearly",
			MaxFolders:            -1,
			GenerationDailyLimit:  -1,
			SemanticSearchEnabled: true,
			SortOrder:             3,
		},
	}

	for _, p := range plans {
		p.IsActive = true

		var existing model.SubscriptionPlan
		if err := db.Where("slug = ?", p.Slug).First(&existing).Error; err == nil {
			color.Yellow("Plan '%s' already exists, skipping...", p.Slug)
			continue
		}

		if err := db.Create(&p).Error; err != nil {
			color.Red("Error creating plan '%s': %v", p.Slug, err)
		} else {
			color.Green("Created plan: %s (%s)", p.Name, p.Slug)
		}
	}

	color.Cyan("Plan seeding completed!")
}
