package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"fitzone-api/internal/domain"
)

const (
	pkFAQ       = "FAQ"
	pkGym       = "GYM"
	pkEquipment = "EQUIPMENT"
	pkWorkout   = "WORKOUT"
)

var newFAQID = uuid.NewString

// FAQs sort by insertion time; the chat responder takes the first match,
// so their order is observable. The id suffix keeps same-instant writes apart.
func faqSK(c *Client) string {
	return pkFAQ + "#" + sortTime(c.now()) + "#" + newFAQID()
}

func nameSK(kind, name string) string {
	return kind + "#" + name
}

func (c *Client) ListFAQs(ctx context.Context) ([]domain.KnowledgeEntry, error) {
	faqs, err := queryDocs[domain.KnowledgeEntry](ctx, c, pkFAQ, pkFAQ+"#", nil)
	if err != nil {
		return nil, fmt.Errorf("repository: ListFAQs: %w", err)
	}
	return faqs, nil
}

// GetFAQ returns the oldest FAQ with exactly this question.
func (c *Client) GetFAQ(ctx context.Context, question string) (domain.KnowledgeEntry, error) {
	faqs, err := queryDocs[domain.KnowledgeEntry](ctx, c, pkFAQ, pkFAQ+"#", map[string]string{"question": question})
	if err != nil {
		return domain.KnowledgeEntry{}, fmt.Errorf("repository: GetFAQ: %w", err)
	}
	if len(faqs) == 0 {
		return domain.KnowledgeEntry{}, fmt.Errorf("repository: GetFAQ %q: %w", question, ErrNotFound)
	}
	return faqs[0], nil
}

func (c *Client) AddFAQ(ctx context.Context, faq domain.KnowledgeEntry) error {
	if err := c.putDoc(ctx, pkFAQ, faqSK(c), faq, map[string]string{"question": faq.Question}); err != nil {
		return fmt.Errorf("repository: AddFAQ: %w", err)
	}
	return nil
}

func (c *Client) ListGymLocations(ctx context.Context) ([]domain.GymLocation, error) {
	gyms, err := queryDocs[domain.GymLocation](ctx, c, pkGym, pkGym+"#", nil)
	if err != nil {
		return nil, fmt.Errorf("repository: ListGymLocations: %w", err)
	}
	return gyms, nil
}

func (c *Client) GetGymLocation(ctx context.Context, name string) (domain.GymLocation, error) {
	var g domain.GymLocation
	if err := c.getDoc(ctx, pkGym, nameSK(pkGym, name), &g); err != nil {
		return domain.GymLocation{}, fmt.Errorf("repository: GetGymLocation %q: %w", name, err)
	}
	return g, nil
}

// AddGymLocation creates or replaces the location with the same name.
func (c *Client) AddGymLocation(ctx context.Context, loc domain.GymLocation) error {
	if err := c.putDoc(ctx, pkGym, nameSK(pkGym, loc.Name), loc, nil); err != nil {
		return fmt.Errorf("repository: AddGymLocation: %w", err)
	}
	return nil
}

func (c *Client) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	items, err := queryDocs[domain.Equipment](ctx, c, pkEquipment, pkEquipment+"#", nil)
	if err != nil {
		return nil, fmt.Errorf("repository: ListEquipment: %w", err)
	}
	return items, nil
}

func (c *Client) GetEquipment(ctx context.Context, name string) (domain.Equipment, error) {
	var e domain.Equipment
	if err := c.getDoc(ctx, pkEquipment, nameSK(pkEquipment, name), &e); err != nil {
		return domain.Equipment{}, fmt.Errorf("repository: GetEquipment %q: %w", name, err)
	}
	return e, nil
}

func (c *Client) AddEquipment(ctx context.Context, item domain.Equipment) error {
	if err := c.putDoc(ctx, pkEquipment, nameSK(pkEquipment, item.Name), item, nil); err != nil {
		return fmt.Errorf("repository: AddEquipment: %w", err)
	}
	return nil
}

func (c *Client) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	ws, err := queryDocs[domain.Workout](ctx, c, pkWorkout, pkWorkout+"#", nil)
	if err != nil {
		return nil, fmt.Errorf("repository: ListWorkouts: %w", err)
	}
	return ws, nil
}

func (c *Client) GetWorkout(ctx context.Context, name string) (domain.Workout, error) {
	var w domain.Workout
	if err := c.getDoc(ctx, pkWorkout, nameSK(pkWorkout, name), &w); err != nil {
		return domain.Workout{}, fmt.Errorf("repository: GetWorkout %q: %w", name, err)
	}
	return w, nil
}

func (c *Client) AddWorkout(ctx context.Context, w domain.Workout) error {
	if err := c.putDoc(ctx, pkWorkout, nameSK(pkWorkout, w.Name), w, nil); err != nil {
		return fmt.Errorf("repository: AddWorkout: %w", err)
	}
	return nil
}
