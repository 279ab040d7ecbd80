package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/harborview-realty/neighborhood-cli/internal/analyzer"
)

var dealCmd = &cobra.Command{
	Use:   "deal",
	Short: "Analyze a house-hack deal",
}

var dealAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full deal analysis for a 2-4 unit purchase",
	Long: `Analyzes an owner-occupied small-multifamily purchase: financing and
cash-to-close, vacancy-adjusted rental income, PITI plus operating expenses,
owner-occupied and all-units-rented returns, a first-year principal schedule,
and a six-month reserves target.

Unset flags fall back to baseline assumptions (3% down conventional at 6%
over 30 years on a $295,000 purchase). Passing --county replaces the flat
monthly tax figure with a county-rate estimate.

Examples:
  # Duplex with both rents known, owner in unit 1
  deal analyze --type duplex --price 289000 --rent 0 --rent 1450 --current-rent 1300

  # FHA fourplex in Waukesha county, full JSON output
  deal analyze --type fourplex --financing fha --price 520000 --county waukesha \
    --rent 0 --rent 1250 --rent 1250 --rent 1100 --format json`,
	RunE: runDealAnalyze,
}

func init() {
	registerDealFlags(dealAnalyzeCmd)

	dealCmd.AddCommand(dealAnalyzeCmd)
	rootCmd.AddCommand(dealCmd)
}

func registerDealFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("type", "duplex", "property type: duplex, triplex, or fourplex")
	f.String("financing", "", "financing type: conventional, fha, or cash")
	f.Float64("price", 0, "purchase price")
	f.Float64("down", 0, "down payment percent")
	f.Float64("rate", 0, "annual interest rate percent")
	f.Int("term", 0, "loan term in years")
	f.String("county", "", "estimate taxes from county rates instead of --taxes")
	f.Float64("taxes", 0, "monthly property taxes")
	f.Float64("insurance", 0, "monthly insurance")
	f.Float64("mi", -1, "monthly mortgage insurance")
	f.Float64("assistance", 0, "down payment assistance")
	f.Float64("repairs", 0, "initial repair budget")
	f.Float64Slice("rent", nil, "monthly rent per unit, in unit order (repeatable; use 0 for the owner's unit)")
	f.Float64("other-income", 0, "other monthly income (parking, laundry)")
	f.Float64("vacancy", 5, "vacancy percent")
	f.Float64("maintenance", 0, "monthly maintenance budget")
	f.Float64("capex", 0, "monthly capital expenditure budget")
	f.Float64("management", 0, "monthly management cost")
	f.Float64("utilities", 0, "monthly owner-paid utilities")
	f.Float64("current-rent", 0, "buyer's current monthly rent, for savings comparison")
	f.Float64("appreciation", 3, "assumed annual appreciation percent")
	f.String("format", "text", "output format: text or json")
	f.String("mode", "both", "returns view: owner-occupied, all-units, or both")
	f.Bool("schedule", false, "include the 12-month principal schedule in text output")
}

func runDealAnalyze(cmd *cobra.Command, _ []string) error {
	deal, err := dealFromFlags(cmd)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	mode, _ := cmd.Flags().GetString("mode")
	withSchedule, _ := cmd.Flags().GetBool("schedule")

	if mode != "both" && mode != "owner-occupied" && mode != "all-units" {
		return eris.Errorf("deal: --mode must be owner-occupied, all-units, or both (got %q)", mode)
	}

	analysis := analyzer.Analyze(deal)

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			return eris.Wrap(err, "deal: encode analysis")
		}
		return nil
	case "text":
		printAnalysis(deal, analysis, mode, withSchedule)
		return nil
	default:
		return eris.Errorf("deal: --format must be text or json (got %q)", format)
	}
}

// dealFromFlags builds a Deal from the baseline assumptions with CLI flag
// overrides applied.
func dealFromFlags(cmd *cobra.Command) (analyzer.Deal, error) {
	f := cmd.Flags()

	propType, _ := f.GetString("type")
	property := analyzer.PropertyType(propType)
	if property.Units() == 0 {
		return analyzer.Deal{}, eris.Errorf("deal: --type must be duplex, triplex, or fourplex (got %q)", propType)
	}

	inv := analyzer.DefaultInvestment()
	if v, _ := f.GetString("financing"); v != "" {
		switch analyzer.FinancingType(v) {
		case analyzer.FinancingConventional, analyzer.FinancingFHA, analyzer.FinancingCash:
			inv.Financing = analyzer.FinancingType(v)
		default:
			return analyzer.Deal{}, eris.Errorf("deal: --financing must be conventional, fha, or cash (got %q)", v)
		}
	}
	if v, _ := f.GetFloat64("price"); v > 0 {
		inv.PurchasePrice = v
	}
	if v, _ := f.GetFloat64("down"); v > 0 {
		inv.DownPaymentPercent = v
	}
	if v, _ := f.GetFloat64("rate"); v > 0 {
		inv.InterestRate = v
	}
	if v, _ := f.GetInt("term"); v > 0 {
		inv.LoanTermYears = v
	}
	if v, _ := f.GetFloat64("insurance"); v > 0 {
		inv.MonthlyInsurance = v
	}
	if v, _ := f.GetFloat64("mi"); v >= 0 {
		inv.MonthlyMI = v
	}
	if v, _ := f.GetFloat64("assistance"); v > 0 {
		inv.DownPaymentAssistance = v
	}
	if v, _ := f.GetFloat64("repairs"); v > 0 {
		inv.InitialRepairs = v
	}

	county, _ := f.GetString("county")
	taxes, _ := f.GetFloat64("taxes")
	switch {
	case county != "":
		est := analyzer.MonthlyCountyTax(county, inv.PurchasePrice)
		if est == 0 {
			return analyzer.Deal{}, eris.Errorf("deal: no tax rate for county %q", county)
		}
		inv.MonthlyTaxes = est
	case taxes > 0:
		inv.MonthlyTaxes = taxes
	}

	rents, _ := f.GetFloat64Slice("rent")
	if len(rents) > 4 {
		return analyzer.Deal{}, eris.Errorf("deal: at most 4 --rent values (got %d)", len(rents))
	}
	var income analyzer.Income
	copy(income.UnitRents[:], rents)
	income.OtherIncome, _ = f.GetFloat64("other-income")
	income.VacancyPercent, _ = f.GetFloat64("vacancy")

	var expenses analyzer.Expenses
	expenses.Maintenance, _ = f.GetFloat64("maintenance")
	expenses.CapEx, _ = f.GetFloat64("capex")
	expenses.Management, _ = f.GetFloat64("management")
	expenses.Utilities, _ = f.GetFloat64("utilities")

	currentRent, _ := f.GetFloat64("current-rent")
	appreciation, _ := f.GetFloat64("appreciation")

	return analyzer.Deal{
		PropertyType:        property,
		Investment:          inv,
		Income:              income,
		Expenses:            expenses,
		CurrentRent:         currentRent,
		AppreciationPercent: appreciation,
	}, nil
}

func printAnalysis(deal analyzer.Deal, a analyzer.Analysis, mode string, withSchedule bool) {
	fmt.Printf("%s | %s | $%s purchase\n",
		strings.ToUpper(string(deal.PropertyType)), deal.Investment.Financing,
		formatMoney(int64(deal.Investment.PurchasePrice)))
	fmt.Println(strings.Repeat("=", 56))

	fmt.Println("\nFinancing")
	fmt.Printf("  Down payment:        $%.0f\n", a.Investment.DownPayment)
	if a.Investment.UpfrontMIP > 0 {
		fmt.Printf("  Upfront MIP:         $%.0f\n", a.Investment.UpfrontMIP)
	}
	fmt.Printf("  Total loan:          $%.0f\n", a.Investment.TotalLoan)
	fmt.Printf("  Closing costs:       $%.0f\n", a.Investment.ClosingCosts)
	fmt.Printf("  Cash to close:       $%.0f\n", a.Investment.InitialInvestment)
	fmt.Printf("  Monthly P&I:         $%.2f\n", a.Investment.MonthlyPI)
	fmt.Printf("  Monthly PITI:        $%.2f\n", a.Investment.MonthlyPITI)

	fmt.Println("\nIncome")
	fmt.Printf("  Gross monthly:       $%.2f\n", a.Income.GrossMonthly)
	fmt.Printf("  Vacancy:             -$%.2f\n", a.Income.Vacancy)
	fmt.Printf("  Effective monthly:   $%.2f\n", a.Income.EffectiveMonthly)

	fmt.Println("\nExpenses")
	fmt.Printf("  Operating (monthly): $%.2f\n", a.Expenses.AdditionalMonthly)
	fmt.Printf("  Total monthly:       $%.2f\n", a.Expenses.TotalMonthly)

	if mode != "all-units" {
		fmt.Println("\nOwner-occupied")
		fmt.Printf("  Monthly cash flow:   $%.2f\n", a.Owner.MonthlyCashFlow)
		fmt.Printf("  Effective housing:   $%.2f/mo\n", a.Owner.EffectiveHousingCost)
		if deal.CurrentRent > 0 {
			fmt.Printf("  vs. current rent:    $%.2f/mo saved ($%.0f/yr)\n", a.Owner.MonthlySavings, a.Owner.AnnualSavings)
		}
	}

	if mode != "owner-occupied" {
		fmt.Println("\nAll units rented")
		fmt.Printf("  Monthly cash flow:   $%.2f\n", a.AllUnits.MonthlyCashFlow)
		fmt.Printf("  Cash-on-cash ROI:    %.1f%%\n", a.AllUnits.CashOnCashROI)
		fmt.Printf("  Yr-1 paydown:        $%.0f (%.1f%%)\n", a.AllUnits.PrincipalPaydownYear1, a.AllUnits.PrincipalPaydownROI)
		fmt.Printf("  Total return ROI:    %.1f%%\n", a.AllUnits.CombinedAllROI)
		fmt.Printf("  NOI:                 $%.0f (%.2f%% unleveraged)\n", a.AllUnits.NOI, a.AllUnits.UnleveragedYield)
	}

	fmt.Println("\nReserves")
	fmt.Printf("  6-month PITI target: $%.0f\n", a.Reserves.SixMonthReserves)
	fmt.Printf("  Savings applied/yr:  $%.0f\n", a.Reserves.RentSavingsAppliedAnnual)

	if withSchedule && len(a.Schedule) > 0 {
		fmt.Println("\nFirst-year principal schedule")
		fmt.Printf("  %-5s %12s %12s %14s\n", "Month", "Principal", "Interest", "Balance")
		for _, row := range a.Schedule {
			fmt.Printf("  %-5d %12.2f %12.2f %14.2f\n", row.Month, row.Principal, row.Interest, row.RemainingBalance)
		}
	}
}
