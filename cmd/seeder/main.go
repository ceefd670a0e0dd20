package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/recipepad/internal/config"
	"github.com/foxxcyber/recipepad/internal/database"
	"github.com/foxxcyber/recipepad/internal/logger"
	"github.com/foxxcyber/recipepad/internal/models"
	"github.com/foxxcyber/recipepad/internal/services"
	"github.com/foxxcyber/recipepad/internal/shopping"
)

func main() {
	// Command line flags
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	file := flag.String("file", "", "JSON export to load instead of the built-in sample recipes")
	owner := flag.String("owner", "", "Owner id to import into (empty for the shared feed)")
	enableOrders := flag.Bool("enable-orders", false, "Also switch on order placement")
	flag.Parse()

	// Load .env
	_ = godotenv.Load()

	// Load config
	cfg := config.Load()

	log, err := logger.New(cfg)
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	recipes := sampleRecipes()
	if *file != "" {
		recipes, err = loadExport(*file)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *file, err)
		}
		log.WithField("file", *file).Info("Reading recipes from export")
	}

	if *dryRun {
		preview(os.Stdout, recipes)
		log.WithField("recipes", len(recipes)).Info("Dry run, nothing written")
		return
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	result, err := db.BulkUpsertRecipes(ctx, *owner, recipes)
	if err != nil {
		log.Fatalf("Failed to save recipes: %v", err)
	}

	if *enableOrders {
		key := services.DeriveEncryptionKey(cfg.EncryptionSecret())
		if err := db.SetSetting(ctx, "orders_enabled", "true", key); err != nil {
			log.Fatalf("Failed to enable orders: %v", err)
		}
		log.Info("Orders enabled")
	}

	for _, e := range result.Errors {
		log.Warn(e)
	}
	log.WithFields(logrus.Fields{
		"owner":    *owner,
		"saved":    result.Saved,
		"rejected": len(result.Errors),
	}).Info("Import complete")
}

// loadExport reads a JSON array of recipes as written by GET /api/export
func loadExport(path string) ([]models.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var recipes []models.Recipe
	if err := json.NewDecoder(f).Decode(&recipes); err != nil {
		return nil, fmt.Errorf("invalid export file: %w", err)
	}
	return recipes, nil
}

// preview prints each recipe, whether it would be accepted, and the shopping
// list for all of them
func preview(w io.Writer, recipes []models.Recipe) {
	var lines []string
	for i := range recipes {
		r := recipes[i]
		r.Normalize()
		status := "ok"
		if err := r.Validate(); err != nil {
			status = err.Error()
		}
		fmt.Fprintf(w, "%3d. %-40s %d ingredients, %d steps [%s]\n",
			i+1, r.Title, len(r.AllIngredients()), len(r.AllSteps()), status)
		lines = append(lines, r.AllIngredients()...)
	}

	if list := shopping.FormatList(shopping.Aggregate(lines)); list != "" {
		fmt.Fprintf(w, "\nShopping list:\n%s\n", list)
	}
}

func sampleRecipes() []models.Recipe {
	return []models.Recipe{
		{
			ID:          "sample-bliny",
			Title:       "Блины на молоке",
			Description: "Тонкие блины к завтраку",
			Categories:  []string{"Завтрак", "Выпечка"},
			Ingredients: []string{"500 мл молока", "200 г муки", "2 шт яйца", "1 ст.л. сахара", "соль по вкусу"},
			Steps: []string{
				"Взбить яйца с сахаром и солью",
				"Влить молоко и всыпать муку, размешать без комков",
				"Жарить на разогретой сковороде с двух сторон",
			},
		},
		{
			ID:          "sample-borshch",
			Title:       "Борщ",
			Categories:  []string{"Супы"},
			Ingredients: []string{"500 г говядины", "2 л воды", "300 г капусты", "3 шт картофеля", "1 шт свёклы", "1 шт моркови"},
			Steps: []string{
				"Сварить бульон из говядины",
				"Добавить картофель и капусту",
				"Обжарить свёклу с морковью и добавить в суп",
				"Варить до готовности",
			},
		},
		{
			ID:         "sample-sharlotka",
			Title:      "Шарлотка",
			Categories: []string{"Выпечка", "Десерты"},
			Parts: []models.RecipePart{
				{
					ID:          "sample-sharlotka-testo",
					Title:       "Тесто",
					Ingredients: []string{"3 шт яйца", "200 г сахара", "200 г муки"},
					Steps:       []string{"Взбить яйца с сахаром", "Вмешать муку"},
				},
				{
					ID:          "sample-sharlotka-nachinka",
					Title:       "Начинка",
					Ingredients: []string{"1 кг яблок", "1 ч.л. корицы"},
					Steps:       []string{"Нарезать яблоки", "Залить тестом и выпекать 40 минут при 180°"},
				},
			},
		},
	}
}
