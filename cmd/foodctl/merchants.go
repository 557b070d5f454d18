package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"campus-eats/internal/models"
)

func (a *app) merchants(ctx context.Context, cmd string, args []string) error {
	s := a.session

	switch cmd {
	case "show":
		merchantID, err := argID(args, 0, "merchant id")
		if err != nil {
			return err
		}
		m, err := s.Merchants.Load(ctx, merchantID)
		if err != nil {
			return err
		}
		a.printMerchant(m)
		return nil

	case "search":
		if len(args) == 0 {
			return fmt.Errorf("missing name")
		}
		found, err := s.Merchants.Search(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Fprintln(a.out, "No merchants found")
			return nil
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MERCHANT\tSTORE\tOWNER\tSTATUS")
		for _, m := range found {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.ID, m.StoreName, m.OwnerName, m.Status)
		}
		tw.Flush()
		return nil

	case "menu":
		merchantID, err := argID(args, 0, "merchant id")
		if err != nil {
			return err
		}
		dishes, err := s.Menu(ctx, merchantID)
		if err != nil {
			return err
		}
		a.printDishes(dishes)
		return nil

	default:
		return fmt.Errorf("unknown merchants command %q", cmd)
	}
}

func (a *app) printMerchant(m *models.Merchant) {
	fmt.Fprintf(a.out, "Merchant %d (%s)\n", m.ID, m.Status)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, f := range models.ProfileFields {
		v, _ := m.Field(f)
		fmt.Fprintf(tw, "  %s\t%s\n", f, v)
	}
	tw.Flush()
}
