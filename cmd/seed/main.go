package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"pywhiz/cmd/seed/internal/seedmodels"
	"pywhiz/internal/config"
	"pywhiz/internal/database"
	"pywhiz/internal/domain"
	"pywhiz/internal/logger"
	"pywhiz/internal/repository"

	"go.uber.org/zap"
)

const defaultSeedFile = "configs/seed_data/curriculum.json"

func main() {
	seedFile := flag.String("file", defaultSeedFile, "path to the curriculum JSON file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := database.RunMigrations(db, cfg.DB.Driver); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	raw, err := os.ReadFile(*seedFile)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedFile), zap.Error(err))
	}
	var milestones []seedmodels.SeedMilestone
	if err := json.Unmarshal(raw, &milestones); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Loaded seed data", zap.Int("milestones", len(milestones)))

	writer := repository.NewContentWriter(db)
	tx := repository.NewTransactionManagerAdapter(db)

	failed := 0
	for i, sm := range milestones {
		err := tx.WithTransaction(ctx, func(ctx context.Context) error {
			return seedMilestone(ctx, writer, sm, i+1)
		})
		if err != nil {
			failed++
			log.Error("Error seeding milestone, transaction rolled back", zap.String("milestone", sm.ID), zap.Error(err))
			continue
		}
		log.Info("Seeded milestone",
			zap.String("milestone", sm.ID),
			zap.Int("learn_content", len(sm.LearnContent)),
			zap.Int("code_questions", len(sm.CodeQuestions)),
			zap.Int("mcq_questions", len(sm.MCQQuestions)))
	}

	if failed > 0 {
		log.Fatal("Seeding finished with errors", zap.Int("failed", failed))
	}
	log.Info("Seeding completed")
}

func seedMilestone(ctx context.Context, w *repository.ContentWriter, sm seedmodels.SeedMilestone, order int) error {
	if sm.ID == "" || sm.Title == "" {
		return fmt.Errorf("milestone #%d needs an id and a title", order)
	}
	if err := w.UpsertMilestone(ctx, &domain.Milestone{
		ID:          sm.ID,
		Title:       sm.Title,
		Description: sm.Description,
		Order:       order,
		IsActive:    !sm.Inactive,
	}); err != nil {
		return err
	}

	for i, lc := range sm.LearnContent {
		if err := w.UpsertLearnContent(ctx, &domain.LearnContent{
			ID:                  lc.ID,
			MilestoneID:         sm.ID,
			Title:               lc.Title,
			VideoURL:            lc.VideoURL,
			AudioURL:            lc.AudioURL,
			Transcript:          lc.Transcript,
			AdditionalResources: lc.AdditionalResources,
			Order:               i + 1,
			IsAdditional:        lc.IsAdditional,
		}); err != nil {
			return err
		}
	}

	for _, q := range sm.CodeQuestions {
		if err := w.UpsertCodeQuestion(ctx, &domain.CodeQuestion{
			ID:          q.ID,
			MilestoneID: sm.ID,
			Question:    q.Question,
			ExampleCode: q.ExampleCode,
			Hint:        q.Hint,
			VideoURL:    q.VideoURL,
			AudioURL:    q.AudioURL,
		}); err != nil {
			return err
		}
	}

	for i, q := range sm.MCQQuestions {
		if _, ok := q.Options[domain.NormalizeOption(q.CorrectAnswer)]; !ok {
			return fmt.Errorf("mcq %s: correct answer %q is not one of its options", q.ID, q.CorrectAnswer)
		}
		if err := w.UpsertMCQQuestion(ctx, &domain.MCQQuestion{
			ID:            q.ID,
			MilestoneID:   sm.ID,
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Order:         i + 1,
		}); err != nil {
			return err
		}
	}
	return nil
}
