package cmd

import (
	"fmt"
	"io"
	"strconv"

	"atelier/internal/domain/legitimacy"
	"atelier/internal/domain/model"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	reportAll   bool
	reportLimit int
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Order maintenance commands",
}

var ordersReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print orders with their storefront visibility",
	Long: `Print the most recent orders as a table with the verdict of the storefront
filter. By default only hidden orders are listed; pass --all to list every order.`,
	RunE: runOrdersReport,
}

func init() {
	ordersReportCmd.Flags().BoolVar(&reportAll, "all", false, "list visible orders too")
	ordersReportCmd.Flags().IntVar(&reportLimit, "limit", 200, "max orders to read")
	ordersCmd.AddCommand(ordersReportCmd)
	rootCmd.AddCommand(ordersCmd)
}

func runOrdersReport(cmd *cobra.Command, args []string) error {
	_, _, gdb, err := bootstrap()
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	var orders []model.Order
	err = gdb.WithContext(cmd.Context()).
		Preload("Items").
		Preload("User").
		Order("created_at desc").
		Limit(reportLimit).
		Find(&orders).Error
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}

	return renderOrdersReport(cmd.OutOrStdout(), orders, legitimacy.StorefrontOrders(), reportAll)
}

func renderOrdersReport(w io.Writer, orders []model.Order, policy legitimacy.Policy, all bool) error {
	table := tablewriter.NewWriter(w)
	table.Header("Order", "Email", "Status", "Items", "Total", "Visible", "Rule")

	hidden := 0
	for _, o := range orders {
		email := ""
		if o.User != nil {
			email = o.User.Email
		}
		keep, rule := policy.Verdict(legitimacy.Candidate{
			Email:       email,
			OrderNumber: o.OrderNumber,
			Total:       o.Total,
			ItemCount:   len(o.Items),
		})
		if !keep {
			hidden++
		}
		if keep && !all {
			continue
		}

		visible := "yes"
		if !keep {
			visible = "no"
		}
		if err := table.Append([]string{
			o.OrderNumber,
			email,
			string(o.Status),
			strconv.Itoa(len(o.Items)),
			o.Total.StringFixed(2),
			visible,
			rule,
		}); err != nil {
			return err
		}
	}

	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "total: %d, hidden: %d\n", len(orders), hidden)
	return err
}
