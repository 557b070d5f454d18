package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"campus-eats/internal/models"
)

// DishService mirrors a menu: every dish, or the dishes of one merchant.
type DishService struct {
	api    DishAPI
	status AggregateStatus

	mu         sync.RWMutex
	merchantID int64
	dishes     []models.Dish
}

// NewDishService creates a new dish service
func NewDishService(api DishAPI) *DishService {
	return &DishService{api: api}
}

// Load replaces the mirror with the dishes of a merchant, or with every dish
// when merchantID is 0.
func (s *DishService) Load(ctx context.Context, merchantID int64) error {
	s.status.begin()

	var dishes []models.Dish
	var err error
	if merchantID == 0 {
		dishes, err = s.api.ListDishes(ctx)
		if err != nil {
			return s.status.finish(fmt.Errorf("failed to list dishes: %w", err))
		}
	} else {
		dishes, err = s.api.ListMerchantDishes(ctx, merchantID)
		if err != nil {
			return s.status.finish(fmt.Errorf("failed to list dishes of merchant %d: %w", merchantID, err))
		}
	}

	s.mu.Lock()
	s.merchantID = merchantID
	s.dishes = dishes
	s.mu.Unlock()

	s.status.finish(nil)
	return nil
}

// Get fetches one dish and refreshes its loaded copy.
func (s *DishService) Get(ctx context.Context, dishID int64) (*models.Dish, error) {
	s.status.begin()
	dish, err := s.api.GetDish(ctx, dishID)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to get dish %d: %w", dishID, err))
	}

	s.mu.Lock()
	s.upsert(*dish)
	s.mu.Unlock()
	s.status.finish(nil)
	return dish, nil
}

// Create adds a dish to a merchant's menu.
func (s *DishService) Create(ctx context.Context, req *models.DishCreateRequest) (*models.Dish, error) {
	if err := req.Validate(); err != nil {
		return nil, s.status.fail(err)
	}

	s.status.begin()
	dish, err := s.api.CreateDish(ctx, req)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to create dish %q: %w", req.Name, err))
	}

	s.mu.Lock()
	s.upsert(*dish)
	s.mu.Unlock()
	s.status.finish(nil)
	return dish, nil
}

// Update replaces the editable fields of a dish.
func (s *DishService) Update(ctx context.Context, dishID int64, req *models.DishCreateRequest) (*models.Dish, error) {
	if err := req.Validate(); err != nil {
		return nil, s.status.fail(err)
	}

	s.status.begin()
	dish, err := s.api.UpdateDish(ctx, dishID, req)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to update dish %d: %w", dishID, err))
	}

	s.mu.Lock()
	s.upsert(*dish)
	s.mu.Unlock()
	s.status.finish(nil)
	return dish, nil
}

// Delete removes a dish. A dish the backend no longer has counts as removed.
func (s *DishService) Delete(ctx context.Context, dishID int64) error {
	s.status.begin()
	if err := s.api.DeleteDish(ctx, dishID); err != nil && !IsNotFound(err) {
		return s.status.finish(fmt.Errorf("failed to delete dish %d: %w", dishID, err))
	}

	s.mu.Lock()
	for i := range s.dishes {
		if s.dishes[i].ID == dishID {
			s.dishes = append(s.dishes[:i:i], s.dishes[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.status.finish(nil)
	return nil
}

// ToggleAvailability flips whether a dish can be ordered and returns the dish
// as the server now has it. When the re-read fails the loaded copy is flipped
// instead.
func (s *DishService) ToggleAvailability(ctx context.Context, dishID int64) (*models.Dish, error) {
	s.status.begin()
	if err := s.api.ToggleDishAvailability(ctx, dishID); err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to toggle availability of dish %d: %w", dishID, err))
	}

	dish, err := s.api.GetDish(ctx, dishID)
	s.mu.Lock()
	if err != nil {
		log.Printf("dishes: failed to refresh dish %d after toggling: %v", dishID, err)
		local, ok := s.find(dishID)
		if !ok {
			s.mu.Unlock()
			return nil, s.status.finish(fmt.Errorf("failed to refresh dish %d: %w", dishID, err))
		}
		local.Available = !local.Available
		dish = &local
	}
	s.upsert(*dish)
	s.mu.Unlock()

	s.status.finish(nil)
	return dish, nil
}

// Dishes returns a copy of the loaded dishes.
func (s *DishService) Dishes() []models.Dish {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Dish(nil), s.dishes...)
}

// Available returns the loaded dishes that can be ordered.
func (s *DishService) Available() []models.Dish {
	return s.filter(true)
}

// Unavailable returns the loaded dishes that are switched off.
func (s *DishService) Unavailable() []models.Dish {
	return s.filter(false)
}

func (s *DishService) Loading() bool { return s.status.Loading() }

func (s *DishService) Err() error { return s.status.Err() }

func (s *DishService) filter(available bool) []models.Dish {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Dish
	for _, d := range s.dishes {
		if d.Available == available {
			out = append(out, d)
		}
	}
	return out
}

// find must be called with mu held.
func (s *DishService) find(dishID int64) (models.Dish, bool) {
	for _, d := range s.dishes {
		if d.ID == dishID {
			return d, true
		}
	}
	return models.Dish{}, false
}

// upsert must be called with mu held. A dish of another merchant is not added
// to a merchant's menu.
func (s *DishService) upsert(dish models.Dish) {
	for i := range s.dishes {
		if s.dishes[i].ID == dish.ID {
			s.dishes[i] = dish
			return
		}
	}
	if s.merchantID == 0 || s.merchantID == dish.MerchantID {
		s.dishes = append(s.dishes, dish)
	}
}
