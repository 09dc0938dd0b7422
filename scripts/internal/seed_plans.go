package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/repository"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/socialdesk/socialdesk/internal/validator"
)

// SeedPlans upserts every plan in PLANS_FILE, a JSON array of plan definitions
func SeedPlans() error {
	plansFile := os.Getenv("PLANS_FILE")
	if plansFile == "" {
		return fmt.Errorf("plans file is required, pass -plans-file")
	}

	data, err := os.ReadFile(plansFile)
	if err != nil {
		return fmt.Errorf("failed to read plans file: %w", err)
	}

	var plans []dto.UpsertPlanRequest
	if err := json.Unmarshal(data, &plans); err != nil {
		return fmt.Errorf("failed to parse plans file: %w", err)
	}

	deps, err := newScriptDeps()
	if err != nil {
		return err
	}
	defer deps.db.Close()

	validator.NewValidator()
	planService := service.NewPlanService(service.ServiceParams{
		Logger:   deps.log,
		Config:   deps.cfg,
		DB:       deps.db,
		PlanRepo: repository.NewPlanRepository(deps.db, deps.log),
	})

	ctx := context.Background()
	for _, req := range plans {
		resp, err := planService.UpsertPlan(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to upsert plan %s: %w", req.Code, err)
		}
		deps.log.Infow("plan seeded", "plan_code", resp.Code, "limits", len(req.Limits))
	}

	deps.log.Infow("seeded plans", "count", len(plans))
	return nil
}
