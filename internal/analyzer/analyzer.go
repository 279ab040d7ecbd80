// Package analyzer implements the house-hack deal analyzer: amortization and
// rental cash-flow math for owner-occupied 2-4 unit purchases. All functions
// are pure; the CLI and HTTP layers own input collection and presentation.
package analyzer

import "math"

// FinancingType selects how the purchase is funded.
type FinancingType string

// Supported financing types.
const (
	FinancingConventional FinancingType = "conventional"
	FinancingFHA          FinancingType = "fha"
	FinancingCash         FinancingType = "cash"
)

// PropertyType is the small-multifamily building type.
type PropertyType string

// Supported property types.
const (
	Duplex   PropertyType = "duplex"
	Triplex  PropertyType = "triplex"
	Fourplex PropertyType = "fourplex"
)

// Units returns the unit count for the property type, 0 for unknown types.
func (p PropertyType) Units() int {
	switch p {
	case Duplex:
		return 2
	case Triplex:
		return 3
	case Fourplex:
		return 4
	default:
		return 0
	}
}

// countyTaxRates holds effective annual property tax rates (percent of
// purchase price) per county.
var countyTaxRates = map[string]float64{
	"milwaukee":  2.58,
	"waukesha":   1.856,
	"ozaukee":    1.58,
	"washington": 1.76,
}

// MonthlyCountyTax estimates the monthly property tax for a purchase price
// in the given county. Unknown counties estimate to 0.
func MonthlyCountyTax(county string, purchasePrice float64) float64 {
	return purchasePrice * (countyTaxRates[county] / 100) / 12
}

// Investment holds purchase and financing inputs.
type Investment struct {
	PurchasePrice         float64       `json:"purchase_price"`
	DownPaymentPercent    float64       `json:"down_payment_percent"`
	Financing             FinancingType `json:"financing_type"`
	FHAUpfrontMIPPercent  float64       `json:"fha_upfront_mip_percent"`
	DownPaymentAssistance float64       `json:"down_payment_assistance"`
	ClosingCostsPercent   float64       `json:"closing_costs_percent"`
	InitialRepairs        float64       `json:"initial_repairs"`
	InterestRate          float64       `json:"interest_rate"`
	LoanTermYears         int           `json:"loan_term_years"`
	MonthlyTaxes          float64       `json:"monthly_taxes"`
	MonthlyInsurance      float64       `json:"monthly_insurance"`
	MonthlyMI             float64       `json:"monthly_mortgage_insurance"`
}

// DefaultInvestment returns the baseline assumptions shown to prospects
// before they enter their own numbers.
func DefaultInvestment() Investment {
	return Investment{
		PurchasePrice:        295_000,
		DownPaymentPercent:   3.0,
		Financing:            FinancingConventional,
		FHAUpfrontMIPPercent: 1.75,
		ClosingCostsPercent:  2.4,
		InterestRate:         6.0,
		LoanTermYears:        30,
		MonthlyTaxes:         358,
		MonthlyInsurance:     125,
		MonthlyMI:            71,
	}
}

// InvestmentResult holds the derived financing figures.
type InvestmentResult struct {
	DownPayment       float64 `json:"down_payment"`
	LoanWithoutMIP    float64 `json:"loan_without_mip"`
	UpfrontMIP        float64 `json:"upfront_mip"`
	TotalLoan         float64 `json:"total_loan"`
	ClosingCosts      float64 `json:"closing_costs"`
	InitialInvestment float64 `json:"initial_investment"`
	MonthlyPI         float64 `json:"monthly_pi"`
	AnnualDebtService float64 `json:"annual_debt_service"`
	MonthlyPITI       float64 `json:"monthly_piti"`
	AnnualPITI        float64 `json:"annual_piti"`
}

// CalcInvestment derives loan, PITI, and cash-to-close figures.
func CalcInvestment(inv Investment) InvestmentResult {
	isCash := inv.Financing == FinancingCash

	downPayment := inv.PurchasePrice * (inv.DownPaymentPercent / 100)
	if isCash {
		downPayment = inv.PurchasePrice
	}
	loanWithoutMIP := inv.PurchasePrice - downPayment
	if isCash {
		loanWithoutMIP = 0
	}
	var upfrontMIP float64
	if inv.Financing == FinancingFHA {
		upfrontMIP = loanWithoutMIP * (inv.FHAUpfrontMIPPercent / 100)
	}
	totalLoan := loanWithoutMIP + upfrontMIP

	closingCosts := inv.PurchasePrice * (inv.ClosingCostsPercent / 100)
	initialInvestment := downPayment + closingCosts - inv.DownPaymentAssistance + inv.InitialRepairs
	if isCash {
		initialInvestment = inv.PurchasePrice + closingCosts + inv.InitialRepairs
	}

	var monthlyPI float64
	if !isCash && totalLoan > 0 {
		monthlyPI = amortizedPayment(totalLoan, inv.InterestRate/100/12, inv.LoanTermYears*12)
	}

	monthlyMI := inv.MonthlyMI
	if isCash {
		monthlyMI = 0
	}
	monthlyPITI := monthlyPI + inv.MonthlyTaxes + inv.MonthlyInsurance + monthlyMI

	return InvestmentResult{
		DownPayment:       downPayment,
		LoanWithoutMIP:    loanWithoutMIP,
		UpfrontMIP:        upfrontMIP,
		TotalLoan:         totalLoan,
		ClosingCosts:      closingCosts,
		InitialInvestment: initialInvestment,
		MonthlyPI:         monthlyPI,
		AnnualDebtService: monthlyPI * 12,
		MonthlyPITI:       monthlyPITI,
		AnnualPITI:        monthlyPITI * 12,
	}
}

// amortizedPayment is the standard fixed-rate payment formula. A zero rate
// degrades to straight-line principal.
func amortizedPayment(principal, monthlyRate float64, numPayments int) float64 {
	if numPayments <= 0 {
		return 0
	}
	if monthlyRate == 0 {
		return principal / float64(numPayments)
	}
	factor := math.Pow(1+monthlyRate, float64(numPayments))
	return principal * monthlyRate * factor / (factor - 1)
}

// Income holds rent inputs. Rents beyond the property's unit count are
// ignored; when owner-occupied, the owner's unit rent is left at zero.
type Income struct {
	UnitRents      [4]float64 `json:"unit_rents"`
	OtherIncome    float64    `json:"other_income"`
	VacancyPercent float64    `json:"vacancy_percent"`
}

// IncomeResult holds derived income figures.
type IncomeResult struct {
	GrossMonthly     float64 `json:"gross_monthly_income"`
	GrossAnnual      float64 `json:"gross_annual_income"`
	Vacancy          float64 `json:"vacancy_dollar"`
	EffectiveMonthly float64 `json:"effective_monthly_income"`
	EffectiveAnnual  float64 `json:"effective_annual_income"`
}

// CalcIncome derives effective income after vacancy for the property type.
func CalcIncome(income Income, property PropertyType) IncomeResult {
	units := property.Units()
	var rents float64
	for i := 0; i < units && i < len(income.UnitRents); i++ {
		rents += income.UnitRents[i]
	}

	grossMonthly := rents + income.OtherIncome
	vacancy := grossMonthly * (income.VacancyPercent / 100)
	effectiveMonthly := grossMonthly - vacancy

	return IncomeResult{
		GrossMonthly:     grossMonthly,
		GrossAnnual:      grossMonthly * 12,
		Vacancy:          vacancy,
		EffectiveMonthly: effectiveMonthly,
		EffectiveAnnual:  effectiveMonthly * 12,
	}
}

// Expenses holds monthly operating expense inputs beyond PITI.
type Expenses struct {
	Maintenance float64 `json:"maintenance"`
	CapEx       float64 `json:"capex"`
	Vacancy     float64 `json:"vacancy"`
	Management  float64 `json:"management"`
	Utilities   float64 `json:"utilities"`
	Trash       float64 `json:"trash"`
	LawnSnow    float64 `json:"lawn_snow"`
	Other       float64 `json:"other"`
}

// ExpensesResult holds derived expense figures.
type ExpensesResult struct {
	AdditionalMonthly float64 `json:"additional_monthly_expenses"`
	TotalMonthly      float64 `json:"total_monthly_expenses"`
	TotalAnnual       float64 `json:"total_annual_expenses"`
}

// CalcExpenses totals operating expenses on top of PITI.
func CalcExpenses(exp Expenses, monthlyPITI float64) ExpensesResult {
	additional := exp.Maintenance + exp.CapEx + exp.Vacancy + exp.Management +
		exp.Utilities + exp.Trash + exp.LawnSnow + exp.Other
	totalMonthly := monthlyPITI + additional
	return ExpensesResult{
		AdditionalMonthly: additional,
		TotalMonthly:      totalMonthly,
		TotalAnnual:       totalMonthly * 12,
	}
}

// OwnerReturns holds the owner-occupied view: what the buyer actually pays
// to live there versus their current rent.
type OwnerReturns struct {
	MonthlyCashFlow      float64 `json:"monthly_cash_flow"`
	AnnualCashFlow       float64 `json:"annual_cash_flow"`
	CashOnCashROI        float64 `json:"coc_roi"`
	EffectiveHousingCost float64 `json:"effective_housing_cost"`
	MonthlySavings       float64 `json:"house_hack_savings"`
	AnnualSavings        float64 `json:"annual_savings"`
}

// CalcOwnerReturns derives the owner-occupied cash flow and rent savings.
func CalcOwnerReturns(income IncomeResult, expenses ExpensesResult, initialInvestment, currentRent float64) OwnerReturns {
	monthlyCashFlow := income.EffectiveMonthly - expenses.TotalMonthly
	var coc float64
	if initialInvestment > 0 {
		coc = monthlyCashFlow * 12 / initialInvestment * 100
	}
	effectiveHousingCost := expenses.TotalMonthly - income.EffectiveMonthly
	savings := currentRent - effectiveHousingCost
	return OwnerReturns{
		MonthlyCashFlow:      monthlyCashFlow,
		AnnualCashFlow:       monthlyCashFlow * 12,
		CashOnCashROI:        coc,
		EffectiveHousingCost: effectiveHousingCost,
		MonthlySavings:       savings,
		AnnualSavings:        savings * 12,
	}
}

// AllUnitsReturns holds the investor view with every unit rented out.
type AllUnitsReturns struct {
	MonthlyCashFlow       float64 `json:"monthly_cash_flow"`
	AnnualCashFlow        float64 `json:"annual_cash_flow"`
	CashOnCashROI         float64 `json:"coc_roi"`
	PrincipalPaydownYear1 float64 `json:"principal_paydown_year1"`
	PrincipalPaydownROI   float64 `json:"principal_paydown_roi"`
	AnnualAppreciation    float64 `json:"annual_appreciation"`
	CombinedCFPD          float64 `json:"combined_cf_pd"`
	CombinedCFPDROI       float64 `json:"combined_cf_pd_roi"`
	CombinedAll           float64 `json:"combined_all"`
	CombinedAllROI        float64 `json:"combined_all_roi"`
	GrossAnnualIncome     float64 `json:"gross_annual_income"`
	OperatingExpenses     float64 `json:"operating_expenses"`
	NOI                   float64 `json:"noi"`
	UnleveragedYield      float64 `json:"unleveraged_yield"`
}

// CalcAllUnitsReturns derives full-rental returns: cash flow, year-1
// principal paydown, appreciation, and cap-rate style yield.
func CalcAllUnitsReturns(income IncomeResult, expenses ExpensesResult, inv InvestmentResult, purchasePrice, appreciationPercent, interestRate float64) AllUnitsReturns {
	monthlyCashFlow := income.EffectiveMonthly - expenses.TotalMonthly
	annualCashFlow := monthlyCashFlow * 12

	roi := func(v float64) float64 {
		if inv.InitialInvestment > 0 {
			return v / inv.InitialInvestment * 100
		}
		return 0
	}

	var paydown float64
	if inv.TotalLoan > 0 {
		paydown = year1PrincipalPaydown(inv.TotalLoan, interestRate/100/12, inv.MonthlyPI)
	}

	appreciation := purchasePrice * (appreciationPercent / 100)
	combinedCFPD := annualCashFlow + paydown
	combinedAll := combinedCFPD + appreciation

	operating := expenses.TotalAnnual - inv.AnnualPITI
	noi := income.GrossAnnual - operating
	var yield float64
	if purchasePrice > 0 {
		yield = noi / purchasePrice * 100
	}

	return AllUnitsReturns{
		MonthlyCashFlow:       monthlyCashFlow,
		AnnualCashFlow:        annualCashFlow,
		CashOnCashROI:         roi(annualCashFlow),
		PrincipalPaydownYear1: paydown,
		PrincipalPaydownROI:   roi(paydown),
		AnnualAppreciation:    appreciation,
		CombinedCFPD:          combinedCFPD,
		CombinedCFPDROI:       roi(combinedCFPD),
		CombinedAll:           combinedAll,
		CombinedAllROI:        roi(combinedAll),
		GrossAnnualIncome:     income.GrossAnnual,
		OperatingExpenses:     operating,
		NOI:                   noi,
		UnleveragedYield:      yield,
	}
}

func year1PrincipalPaydown(totalLoan, monthlyRate, monthlyPI float64) float64 {
	if monthlyRate == 0 {
		return monthlyPI * 12
	}
	balance := totalLoan
	var total float64
	for i := 0; i < 12; i++ {
		interest := balance * monthlyRate
		principal := monthlyPI - interest
		total += principal
		balance -= principal
	}
	return total
}

// PrincipalRow is one month of the first-year amortization schedule.
type PrincipalRow struct {
	Month            int     `json:"month"`
	Principal        float64 `json:"principal_payment"`
	Interest         float64 `json:"interest_payment"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// PrincipalSchedule returns the 12-month principal/interest split for the
// first loan year. Cash deals return an empty schedule.
func PrincipalSchedule(totalLoan, annualRate, monthlyPI float64) []PrincipalRow {
	if totalLoan <= 0 || monthlyPI <= 0 {
		return nil
	}
	monthlyRate := annualRate / 100 / 12
	balance := totalLoan
	rows := make([]PrincipalRow, 0, 12)
	for m := 1; m <= 12; m++ {
		var interest float64
		if monthlyRate != 0 {
			interest = balance * monthlyRate
		}
		principal := monthlyPI - interest
		balance -= principal
		rows = append(rows, PrincipalRow{Month: m, Principal: principal, Interest: interest, RemainingBalance: balance})
	}
	return rows
}

// Reserves holds the reserves guidance shown alongside a deal.
type Reserves struct {
	RentSavingsAppliedAnnual float64 `json:"rent_savings_applied_annual"`
	SixMonthReserves         float64 `json:"six_month_reserves_needed"`
}

// CalcReserves derives annual savings applied toward reserves plus the
// six-month PITI reserve target. Negative savings apply nothing.
func CalcReserves(monthlyPITI, monthlySavings float64) Reserves {
	return Reserves{
		RentSavingsAppliedAnnual: math.Max(0, monthlySavings) * 12,
		SixMonthReserves:         monthlyPITI * 6,
	}
}

// Deal bundles the inputs for a full analysis pass.
type Deal struct {
	PropertyType        PropertyType `json:"property_type"`
	Investment          Investment   `json:"investment"`
	Income              Income       `json:"income"`
	Expenses            Expenses     `json:"expenses"`
	CurrentRent         float64      `json:"current_rent"`
	AppreciationPercent float64      `json:"appreciation_percent"`
}

// Analysis is the full derived output for one deal.
type Analysis struct {
	Investment InvestmentResult `json:"investment"`
	Income     IncomeResult     `json:"income"`
	Expenses   ExpensesResult   `json:"expenses"`
	Owner      OwnerReturns     `json:"owner_occupied"`
	AllUnits   AllUnitsReturns  `json:"all_units"`
	Reserves   Reserves         `json:"reserves"`
	Schedule   []PrincipalRow   `json:"principal_schedule"`
}

// Analyze runs every calculation stage for a deal.
func Analyze(d Deal) Analysis {
	inv := CalcInvestment(d.Investment)
	income := CalcIncome(d.Income, d.PropertyType)
	expenses := CalcExpenses(d.Expenses, inv.MonthlyPITI)
	owner := CalcOwnerReturns(income, expenses, inv.InitialInvestment, d.CurrentRent)
	allUnits := CalcAllUnitsReturns(income, expenses, inv, d.Investment.PurchasePrice, d.AppreciationPercent, d.Investment.InterestRate)
	return Analysis{
		Investment: inv,
		Income:     income,
		Expenses:   expenses,
		Owner:      owner,
		AllUnits:   allUnits,
		Reserves:   CalcReserves(inv.MonthlyPITI, owner.MonthlySavings),
		Schedule:   PrincipalSchedule(inv.TotalLoan, d.Investment.InterestRate, inv.MonthlyPI),
	}
}
