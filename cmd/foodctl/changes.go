package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"campus-eats/internal/models"
)

func (a *app) changes(ctx context.Context, cmd string, args []string) error {
	c := a.session.Changes

	switch cmd {
	case "list":
		if err := c.Load(ctx); err != nil {
			return err
		}
		changes := c.Changes()
		if len(changes) == 0 {
			fmt.Fprintln(a.out, "No change requests")
			return nil
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CHANGE\tMERCHANT\tSTATUS\tFIELDS\tCREATED")
		for _, ch := range changes {
			fields := make([]string, 0, len(ch.NewData))
			for _, f := range ch.NewData.Fields() {
				fields = append(fields, string(f))
			}
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n",
				ch.ID, ch.MerchantID, ch.Status, strings.Join(fields, ","),
				ch.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		tw.Flush()
		return nil

	case "show":
		changeID, err := argID(args, 0, "change id")
		if err != nil {
			return err
		}
		if err := c.Load(ctx); err != nil {
			return err
		}
		ch, ok := c.Get(changeID)
		if !ok {
			return fmt.Errorf("%w: change request %d", models.ErrNotFound, changeID)
		}
		a.printChange(ch)
		return nil

	case "submit":
		merchantID, err := argID(args, 0, "merchant id")
		if err != nil {
			return err
		}
		proposed, err := parseProfile(args[1:])
		if err != nil {
			return err
		}
		ch, err := c.Submit(ctx, merchantID, proposed)
		if err != nil {
			return err
		}
		a.printChange(*ch)
		return nil

	case "review":
		changeID, err := argID(args, 0, "change id")
		if err != nil {
			return err
		}
		if len(args) < 2 {
			return fmt.Errorf("missing decision, use approve or reject")
		}
		var approved bool
		switch args[1] {
		case "approve":
			approved = true
		case "reject":
		default:
			return fmt.Errorf("unknown decision %q, use approve or reject", args[1])
		}
		ch, err := c.Review(ctx, changeID, approved)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Change request %d is now %s\n", ch.ID, ch.Status)
		if m, ok := c.Canonical(ch.MerchantID); ok && approved {
			fmt.Fprintf(a.out, "Merchant %d: %s (%s)\n", m.ID, m.StoreName, m.OwnerName)
		}
		return nil

	default:
		return fmt.Errorf("unknown changes command %q", cmd)
	}
}

func (a *app) printChange(ch models.MerchantChangeRequest) {
	fmt.Fprintf(a.out, "Change request %d for merchant %d: %s\n", ch.ID, ch.MerchantID, ch.Status)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, d := range ch.Diffs() {
		if d.Unchanged() {
			fmt.Fprintf(tw, "  %s\t%s\t(unchanged)\n", d.Field, d.New)
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\t-> %s\n", d.Field, d.Old, d.New)
	}
	tw.Flush()
}

// parseProfile reads field=value pairs.
func parseProfile(pairs []string) (models.ProfileData, error) {
	data := models.ProfileData{}
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("%w: expected field=value, got %q", models.ErrInvalidArgument, p)
		}
		data[models.ProfileField(key)] = value
	}
	return data, data.Validate()
}
