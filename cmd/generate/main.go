package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/savorista/backend/config"
	"github.com/savorista/backend/internal/database"
	"github.com/savorista/backend/internal/service"
)

// Command-line front end for one-off generations. Runs the same pipeline
// as the server, printing stage progress to stderr and the aggregate JSON
// to stdout or -out. The progress file makes an interrupted run resumable
// by invoking the command again with the same name.
func main() {
	var (
		name        = flag.String("name", "", "recipe name to generate (required)")
		save        = flag.Bool("save", false, "persist the aggregate to the database")
		out         = flag.String("out", "", "write the aggregate JSON to this file instead of stdout")
		noNarrative = flag.Bool("no-narrative", false, "skip the chef story stage and narrated step fields")
		strict      = flag.Bool("strict", false, "fail the playlist and wine stages on missing lines instead of using defaults")
	)
	flag.Parse()

	if *name == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	llm, err := service.NewLLMService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize generation client: %v", err)
	}

	progress, err := service.NewProgressStore(cfg.ProgressDir)
	if err != nil {
		log.Fatalf("Failed to initialize progress store: %v", err)
	}

	opts := service.DefaultAssemblerOptions()
	opts.Narrative = !*noNarrative
	opts.StrictPlaylist = *strict
	opts.StrictWine = *strict

	assembler := service.NewAssembler(llm, progress, opts)

	ctx := context.Background()
	recipe, err := assembler.Assemble(ctx, *name, service.LogObserver{})
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	if err := service.ValidateRecipe(recipe); err != nil {
		log.Fatalf("Generated recipe is incomplete: %v", err)
	}

	if *save {
		db, err := database.NewDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := service.NewRecipeService(db).SaveAggregate(ctx, recipe); err != nil {
			log.Fatalf("Failed to save recipe: %v", err)
		}
		log.Printf("Recipe saved with id %s", recipe.ID)
	}

	data, err := json.MarshalIndent(recipe, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode recipe: %v", err)
	}

	if *out != "" {
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", *out, err)
		}
		return
	}
	fmt.Println(string(data))
}
