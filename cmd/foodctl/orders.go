package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"campus-eats/internal/models"
)

func (a *app) orders(ctx context.Context, cmd string, args []string) error {
	s := a.session

	switch cmd {
	case "list":
		if len(args) > 0 {
			status, err := models.ParseOrderStatus(args[0])
			if err != nil {
				return err
			}
			if err := s.Orders.LoadByStatus(ctx, status); err != nil {
				return err
			}
		} else {
			if err := a.requireUser(); err != nil {
				return err
			}
			if err := s.LoadOrders(ctx); err != nil {
				return err
			}
		}
		a.printOrders(s.Orders.Orders())
		return nil

	case "show":
		orderID, err := argID(args, 0, "order id")
		if err != nil {
			return err
		}
		order, err := s.Orders.Get(ctx, orderID)
		if err != nil {
			return err
		}
		items, err := s.Orders.Items(ctx, orderID)
		if err != nil {
			return err
		}
		a.printOrder(order, items)
		return nil

	case "create":
		if err := a.requireUser(); err != nil {
			return err
		}
		order, err := s.Checkout(ctx)
		if err != nil {
			return err
		}
		a.printOrder(order, order.Items)
		return nil

	case "status":
		orderID, err := argID(args, 0, "order id")
		if err != nil {
			return err
		}
		if len(args) < 2 {
			return fmt.Errorf("missing status")
		}
		status, err := models.ParseOrderStatus(args[1])
		if err != nil {
			return err
		}
		order, err := s.Orders.UpdateStatus(ctx, orderID, status)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Order %d is now %s\n", order.ID, order.GetStatusDisplayName())
		return nil

	case "cancel":
		orderID, err := argID(args, 0, "order id")
		if err != nil {
			return err
		}
		order, err := s.Orders.Cancel(ctx, orderID)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Order %d is now %s\n", order.ID, order.GetStatusDisplayName())
		return nil

	case "stats":
		merchantID, err := argID(args, 0, "merchant id")
		if err != nil {
			return err
		}
		rng := &models.DateRange{}
		if len(args) > 1 {
			rng.Start = args[1]
		}
		if len(args) > 2 {
			rng.End = args[2]
		}
		stats, err := s.Orders.ComputeStats(ctx, merchantID, rng)
		if err != nil {
			return err
		}
		a.printStats(stats)
		return nil

	default:
		return fmt.Errorf("unknown orders command %q", cmd)
	}
}

func (a *app) printOrders(orders []models.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tUSER\tMERCHANT\tSTATUS\tTOTAL\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\t%s\n",
			o.ID, o.UserID, o.MerchantID, o.Status, o.TotalPrice.StringFixed(2),
			o.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func (a *app) printOrder(o *models.Order, items []models.OrderItem) {
	fmt.Fprintf(a.out, "Order %d  user %d  merchant %d  %s\n", o.ID, o.UserID, o.MerchantID, o.GetStatusDisplayName())
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, item := range items {
		fmt.Fprintf(tw, "  %s\tx%d\t%s\n", item.DishName, item.Quantity, item.Subtotal().StringFixed(2))
	}
	tw.Flush()
	fmt.Fprintf(a.out, "Total %s\n", o.TotalPrice.StringFixed(2))
}

func (a *app) printStats(stats models.OrderStats) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tCOUNT\tAMOUNT")
	for _, status := range models.OrderStatuses {
		b := stats.ByStatus[status]
		fmt.Fprintf(tw, "%s\t%d\t%s\n", status, b.Count, b.Amount.StringFixed(2))
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t%s\n", stats.Total.Count, stats.Total.Amount.StringFixed(2))
	tw.Flush()
	fmt.Fprintf(a.out, "Revenue %s\n", stats.Revenue.StringFixed(2))
}
