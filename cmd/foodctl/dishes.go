package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"campus-eats/internal/models"
)

func (a *app) dishes(ctx context.Context, cmd string, args []string) error {
	d := a.session.Dishes

	switch cmd {
	case "list":
		var merchantID int64
		if len(args) > 0 {
			id, err := argID(args, 0, "merchant id")
			if err != nil {
				return err
			}
			merchantID = id
		}
		if err := d.Load(ctx, merchantID); err != nil {
			return err
		}
		view := "all"
		if len(args) > 1 {
			view = args[1]
		}
		switch view {
		case "all":
			a.printDishes(d.Dishes())
		case "available":
			a.printDishes(d.Available())
		case "unavailable":
			a.printDishes(d.Unavailable())
		default:
			return fmt.Errorf("unknown view %q, use all, available or unavailable", view)
		}
		return nil

	case "show":
		dishID, err := argID(args, 0, "dish id")
		if err != nil {
			return err
		}
		dish, err := d.Get(ctx, dishID)
		if err != nil {
			return err
		}
		a.printDishes([]models.Dish{*dish})
		return nil

	case "add":
		merchantID, err := argID(args, 0, "merchant id")
		if err != nil {
			return err
		}
		if len(args) < 3 {
			return fmt.Errorf("missing name or price")
		}
		price, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("invalid price %q", args[2])
		}
		req := &models.DishCreateRequest{MerchantID: merchantID, Name: args[1], Price: price, Available: true}
		if len(args) > 3 {
			if req.EstimatedWaitTime, err = argInt(args, 3, "wait minutes"); err != nil {
				return err
			}
		}
		dish, err := d.Create(ctx, req)
		if err != nil {
			return err
		}
		a.printDishes([]models.Dish{*dish})
		return nil

	case "price":
		dishID, err := argID(args, 0, "dish id")
		if err != nil {
			return err
		}
		if len(args) < 2 {
			return fmt.Errorf("missing price")
		}
		price, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("invalid price %q", args[1])
		}
		current, err := d.Get(ctx, dishID)
		if err != nil {
			return err
		}
		dish, err := d.Update(ctx, dishID, &models.DishCreateRequest{
			MerchantID:        current.MerchantID,
			Name:              current.Name,
			Description:       current.Description,
			Price:             price,
			EstimatedWaitTime: current.EstimatedWaitTime,
			Available:         current.Available,
		})
		if err != nil {
			return err
		}
		a.printDishes([]models.Dish{*dish})
		return nil

	case "rm":
		dishID, err := argID(args, 0, "dish id")
		if err != nil {
			return err
		}
		if err := d.Delete(ctx, dishID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Dish %d removed\n", dishID)
		return nil

	case "toggle":
		dishID, err := argID(args, 0, "dish id")
		if err != nil {
			return err
		}
		dish, err := d.ToggleAvailability(ctx, dishID)
		if err != nil {
			return err
		}
		state := "available"
		if !dish.Available {
			state = "unavailable"
		}
		fmt.Fprintf(a.out, "Dish %d (%s) is now %s\n", dish.ID, dish.Name, state)
		return nil

	default:
		return fmt.Errorf("unknown dishes command %q", cmd)
	}
}

func (a *app) printDishes(dishes []models.Dish) {
	if len(dishes) == 0 {
		fmt.Fprintln(a.out, "No dishes")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DISH\tMERCHANT\tNAME\tPRICE\tWAIT\tAVAILABLE")
	for _, d := range dishes {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%dm\t%t\n", d.ID, d.MerchantID, d.Name, d.Price.StringFixed(2), d.EstimatedWaitTime, d.Available)
	}
	tw.Flush()
}
