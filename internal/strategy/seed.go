package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/JLORep/ProjectTrench-sub004/internal/models"
	"github.com/JLORep/ProjectTrench-sub004/internal/repository"
)

// Seed mirrors the live bank into the strategies table so stored analysis
// can be read against the definitions that produced it.
func Seed(ctx context.Context, repo repository.Repository, bank *Bank) error {
	for _, def := range bank.Strategies() {
		criteria, err := json.Marshal(criteriaDoc(def.Criteria))
		if err != nil {
			return fmt.Errorf("marshal criteria for %s: %w", def.Name, err)
		}
		row := models.Strategy{
			Name:        def.Name,
			Description: def.Description,
			Criteria:    datatypes.JSON(criteria),
			Weight:      def.Weight,
			SuccessRate: def.SuccessRate,
		}
		if err := repo.UpsertStrategy(ctx, &row); err != nil {
			return fmt.Errorf("upsert strategy %s: %w", def.Name, err)
		}
	}
	return nil
}

func criteriaDoc(c Criteria) map[string]any {
	doc := map[string]any{}
	if c.MinVolume24h != nil {
		doc["min_volume_24h"] = *c.MinVolume24h
	}
	if c.MaxMarketCap != nil {
		doc["max_market_cap"] = *c.MaxMarketCap
	}
	if c.MinLiquidity != nil {
		doc["min_liquidity"] = *c.MinLiquidity
	}
	if c.MinHolderCount != nil {
		doc["min_holder_count"] = *c.MinHolderCount
	}
	if c.MinMomentum != nil {
		doc["min_momentum"] = *c.MinMomentum
	}
	return doc
}
