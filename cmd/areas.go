package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
)

var areasCmd = &cobra.Command{
	Use:   "areas",
	Short: "Inspect the area reference data",
}

var areasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List areas, optionally filtered by county",
	RunE: func(cmd *cobra.Command, _ []string) error {
		county, _ := cmd.Flags().GetString("county")
		if county != "" && !model.IsKnownCounty(county) {
			return eris.Errorf("areas: unknown county %q (want one of %s)", county, strings.Join(model.KnownCounties, ", "))
		}

		_, data, err := initEngine()
		if err != nil {
			return err
		}

		fmt.Printf("%-18s %-24s %-12s %15s\n", "ID", "Name", "County", "Median Price")
		fmt.Println(strings.Repeat("-", 72))
		for _, a := range data.Areas() {
			if county != "" && a.County != county {
				continue
			}
			fmt.Printf("%-18s %-24s %-12s %15s\n",
				a.ID, a.DisplayName, a.County, "$"+formatMoney(int64(a.MedianSalePrice)))
		}
		return nil
	},
}

var areasShowCmd = &cobra.Command{
	Use:   "show <area-id>",
	Short: "Show one area with its full attribute profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, data, err := initEngine()
		if err != nil {
			return err
		}

		area, ok := data.Area(args[0])
		if !ok {
			return eris.Errorf("areas: unknown area %q", args[0])
		}

		fmt.Printf("ID:           %s\n", area.ID)
		fmt.Printf("Name:         %s\n", area.DisplayName)
		fmt.Printf("County:       %s\n", area.County)
		fmt.Printf("Median Price: $%s\n", formatMoney(int64(area.MedianSalePrice)))
		if len(area.Tags) > 0 {
			fmt.Printf("Tags:         %s\n", strings.Join(area.Tags, " "))
		}

		names := make([]string, 0, len(area.Attributes))
		for name := range area.Attributes {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println("\nAttributes:")
		for _, name := range names {
			fmt.Printf("  %-22s %.1f\n", name, area.Attributes[name])
		}
		return nil
	},
}

func init() {
	areasListCmd.Flags().String("county", "", "filter by county slug")

	areasCmd.AddCommand(areasListCmd)
	areasCmd.AddCommand(areasShowCmd)
	rootCmd.AddCommand(areasCmd)
}
