package repository

import (
	"context"
	"fmt"
	"time"

	"fitzone-api/internal/domain"
)

const (
	skProfile = "PROFILE"
	skPlan    = "PLAN"
)

func planPK(key string) string {
	return "PLAN#" + key
}

// SubmitProfile records the latest profile submitted for a key.
func (c *Client) SubmitProfile(ctx context.Context, key string, profile domain.UserProfile) error {
	extra := map[string]string{"submittedAt": c.now().UTC().Format(time.RFC3339)}
	if err := c.putDoc(ctx, planPK(key), skProfile, profile, extra); err != nil {
		return fmt.Errorf("repository: SubmitProfile: %w", err)
	}
	return nil
}

func (c *Client) GetMealPlan(ctx context.Context, key string) (domain.DailyMealPlan, error) {
	var plan domain.DailyMealPlan
	if err := c.getDoc(ctx, planPK(key), skPlan, &plan); err != nil {
		return domain.DailyMealPlan{}, fmt.Errorf("repository: GetMealPlan %q: %w", key, err)
	}
	return plan, nil
}

func (c *Client) PutMealPlan(ctx context.Context, key string, plan domain.DailyMealPlan) error {
	if err := c.putDoc(ctx, planPK(key), skPlan, plan, nil); err != nil {
		return fmt.Errorf("repository: PutMealPlan: %w", err)
	}
	return nil
}
