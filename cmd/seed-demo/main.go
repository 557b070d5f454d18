package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"campus-eats/internal/config"
	"campus-eats/internal/database"
	"campus-eats/internal/models"
	"campus-eats/internal/repositories"
)

type demoDish struct {
	Name        string
	Description string
	Price       string
	WaitMinutes int
}

type demoMerchant struct {
	UserID      int64
	StoreName   string
	OwnerName   string
	Phone       string
	Address     string
	Description string
	Dishes      []demoDish
}

var merchants = []demoMerchant{
	{
		UserID:      101,
		StoreName:   "North Gate Noodles",
		OwnerName:   "Lin Wei",
		Phone:       "+1 555 0101",
		Address:     "North Gate, Stall 3",
		Description: "Hand-pulled noodles and broths",
		Dishes: []demoDish{
			{"Beef Noodle Soup", "Slow braised beef shank", "12.50", 10},
			{"Dan Dan Noodles", "Sesame and chili", "9.00", 8},
			{"Cucumber Salad", "", "3.50", 2},
		},
	},
	{
		UserID:      102,
		StoreName:   "Library Cafe",
		OwnerName:   "Sam Ortiz",
		Phone:       "+1 555 0102",
		Address:     "Main Library, Ground Floor",
		Description: "Coffee and sandwiches",
		Dishes: []demoDish{
			{"Flat White", "", "4.20", 3},
			{"Turkey Club", "Toasted sourdough", "8.75", 6},
			{"Banana Bread", "", "3.00", 1},
		},
	},
	{
		UserID:      103,
		StoreName:   "Dorm B Tacos",
		OwnerName:   "Maria Reyes",
		Phone:       "+1 555 0103",
		Address:     "Dorm B Courtyard",
		Description: "Street tacos, late hours",
		Dishes: []demoDish{
			{"Al Pastor Taco", "", "3.25", 5},
			{"Carnitas Burrito", "Rice, beans, salsa verde", "10.00", 9},
		},
	},
}

func main() {
	fmt.Println("🌱 Seeding campus eats demo data")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	dbConfig := database.Config{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}

	db, err := database.NewConnection(dbConfig)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	merchantRepo := repositories.NewMerchantRepository(db.DB)
	dishRepo := repositories.NewDishRepository(db.DB)
	cartRepo := repositories.NewCartRepository(db.DB)
	orderRepo := repositories.NewOrderRepository(db.DB)

	var firstDishes []*models.Dish
	for _, dm := range merchants {
		exists, err := merchantRepo.StoreNameExists(ctx, dm.StoreName)
		if err != nil {
			log.Fatalf("Failed to check store name %q: %v", dm.StoreName, err)
		}
		if exists {
			fmt.Printf("⏭️  %s already exists, skipping\n", dm.StoreName)
			continue
		}

		merchant, err := merchantRepo.Create(ctx, &models.MerchantCreateRequest{
			UserID:           dm.UserID,
			StoreName:        dm.StoreName,
			OwnerName:        dm.OwnerName,
			Phone:            dm.Phone,
			Address:          dm.Address,
			StoreDescription: dm.Description,
		})
		if err != nil {
			log.Printf("Failed to create merchant %s: %v", dm.StoreName, err)
			continue
		}
		if _, err := merchantRepo.UpdateStatus(ctx, merchant.ID, models.MerchantApproved); err != nil {
			log.Printf("Failed to approve merchant %s: %v", dm.StoreName, err)
		}
		fmt.Printf("✅ Created merchant: %s (ID: %d)\n", merchant.StoreName, merchant.ID)

		for i, dd := range dm.Dishes {
			dish, err := dishRepo.Create(ctx, &models.DishCreateRequest{
				MerchantID:        merchant.ID,
				Name:              dd.Name,
				Description:       dd.Description,
				Price:             decimal.RequireFromString(dd.Price),
				EstimatedWaitTime: dd.WaitMinutes,
				Available:         true,
			})
			if err != nil {
				log.Printf("Failed to create dish %s: %v", dd.Name, err)
				continue
			}
			fmt.Printf("   ✅ Created dish: %s - %s\n", dish.Name, dish.Price.StringFixed(2))
			if i == 0 {
				firstDishes = append(firstDishes, dish)
			}
		}
	}

	// A few orders so the stats have something to show
	if len(firstDishes) > 0 {
		fmt.Println("\n💰 Creating sample orders...")
	}
	path := []models.OrderStatus{models.OrderConfirmed, models.OrderPreparing, models.OrderReady, models.OrderCompleted}
	for i, dish := range firstDishes {
		userID := int64(1 + i)
		if _, err := cartRepo.AddItem(ctx, userID, dish.ID, 2); err != nil {
			log.Printf("Failed to fill cart of user %d: %v", userID, err)
			continue
		}
		order, err := orderRepo.CreateFromCart(ctx, userID)
		if err != nil {
			log.Printf("Failed to create order for user %d: %v", userID, err)
			continue
		}
		// the first order is completed, the rest stop earlier along the way
		for _, next := range path[:len(path)-i%len(path)] {
			moved, err := orderRepo.UpdateStatus(ctx, order.ID, next)
			if err != nil {
				if !errors.Is(err, models.ErrInvalidTransition) {
					log.Printf("Failed to move order %d: %v", order.ID, err)
				}
				break
			}
			order = moved
		}
		fmt.Printf("   ✅ Order %d for user %d: %s %s\n", order.ID, userID, order.TotalPrice.StringFixed(2), order.Status)
	}

	fmt.Println("\n🎉 Seeding complete")
}
