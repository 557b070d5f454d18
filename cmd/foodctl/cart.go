package main

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (a *app) cart(ctx context.Context, cmd string, args []string) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	s := a.session

	switch cmd {
	case "show":
		if err := s.LoadCart(ctx); err != nil {
			return err
		}
	case "add":
		dishID, err := argID(args, 0, "dish id")
		if err != nil {
			return err
		}
		qty, err := argInt(args, 1, "quantity")
		if err != nil {
			return err
		}
		if _, err := s.AddToCart(ctx, dishID, qty); err != nil {
			return err
		}
	case "set":
		if err := s.LoadCart(ctx); err != nil {
			return err
		}
		itemID, err := argID(args, 0, "item id")
		if err != nil {
			return err
		}
		qty, err := argInt(args, 1, "quantity")
		if err != nil {
			return err
		}
		if _, err := s.Cart.UpdateQuantity(ctx, itemID, qty); err != nil {
			return err
		}
	case "rm":
		if err := s.LoadCart(ctx); err != nil {
			return err
		}
		itemID, err := argID(args, 0, "item id")
		if err != nil {
			return err
		}
		if err := s.Cart.RemoveItem(ctx, itemID); err != nil {
			return err
		}
	case "clear":
		if err := s.Cart.Clear(ctx, s.UserID); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown cart command %q", cmd)
	}

	a.printCart()
	return nil
}

func (a *app) printCart() {
	c := a.session.Cart
	if c.IsEmpty() {
		fmt.Fprintf(a.out, "Cart of user %d is empty\n", a.session.UserID)
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tDISH\tQTY\tPRICE\tSUBTOTAL")
	for _, item := range c.Items() {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			item.ID, item.Dish.Name, item.Quantity,
			item.Dish.Price.StringFixed(2), item.Subtotal().StringFixed(2))
	}
	tw.Flush()
	fmt.Fprintf(a.out, "%d items, total %s\n", c.TotalItems(), c.TotalAmount().StringFixed(2))
}
