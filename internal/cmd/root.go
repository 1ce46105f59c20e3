package cmd

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "atelier",
	Short: "Atelier - custom apparel storefront backend",
	Long: `Atelier serves the storefront and admin APIs for ready-made and
custom-designed garments (blouses, lehengas, salwar kameez).

Run "serve" for the HTTP server, "migrate" to create tables, "seed" to load
a demo catalog and "orders report" to inspect orders with their visibility.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	// 金額はJSONで数値として返す。プロセス全体の設定なのでここで一度だけ
	decimal.MarshalJSONWithoutQuotes = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
