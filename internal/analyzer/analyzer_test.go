package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyTypeUnits(t *testing.T) {
	assert.Equal(t, 2, Duplex.Units())
	assert.Equal(t, 3, Triplex.Units())
	assert.Equal(t, 4, Fourplex.Units())
	assert.Equal(t, 0, PropertyType("mansion").Units())
}

func TestMonthlyCountyTax(t *testing.T) {
	// milwaukee: 295000 * 2.58% / 12
	assert.InDelta(t, 634.25, MonthlyCountyTax("milwaukee", 295_000), 0.001)
	assert.Zero(t, MonthlyCountyTax("dane", 295_000))
}

func TestAmortizedPayment(t *testing.T) {
	// Textbook case: $100K at 6% over 30 years.
	assert.InDelta(t, 599.55, amortizedPayment(100_000, 0.06/12, 360), 0.01)

	// Zero rate degrades to straight-line principal.
	assert.InDelta(t, 1000.0, amortizedPayment(120_000, 0, 120), 1e-9)

	assert.Zero(t, amortizedPayment(100_000, 0.005, 0))
}

func TestCalcInvestmentConventional(t *testing.T) {
	result := CalcInvestment(DefaultInvestment())

	assert.InDelta(t, 8850.0, result.DownPayment, 1e-9)
	assert.InDelta(t, 286_150.0, result.LoanWithoutMIP, 1e-9)
	assert.Zero(t, result.UpfrontMIP)
	assert.InDelta(t, 286_150.0, result.TotalLoan, 1e-9)
	assert.InDelta(t, 7080.0, result.ClosingCosts, 1e-9)
	assert.InDelta(t, 15_930.0, result.InitialInvestment, 1e-9)
	assert.InDelta(t, 1715.63, result.MonthlyPI, 0.5)
	// PITI stacks taxes, insurance, and MI on top of P&I.
	assert.InDelta(t, result.MonthlyPI+358+125+71, result.MonthlyPITI, 1e-9)
	assert.InDelta(t, result.MonthlyPITI*12, result.AnnualPITI, 1e-9)
}

func TestCalcInvestmentFHA(t *testing.T) {
	inv := DefaultInvestment()
	inv.PurchasePrice = 300_000
	inv.DownPaymentPercent = 3.5
	inv.Financing = FinancingFHA

	result := CalcInvestment(inv)

	assert.InDelta(t, 10_500.0, result.DownPayment, 1e-9)
	assert.InDelta(t, 289_500.0, result.LoanWithoutMIP, 1e-9)
	// Upfront MIP (1.75%) finances into the loan, not cash to close.
	assert.InDelta(t, 5066.25, result.UpfrontMIP, 1e-9)
	assert.InDelta(t, 294_566.25, result.TotalLoan, 1e-9)
	assert.InDelta(t, 10_500+7200.0, result.InitialInvestment, 1e-9)
}

func TestCalcInvestmentDownPaymentAssistance(t *testing.T) {
	inv := DefaultInvestment()
	inv.DownPaymentAssistance = 5000
	inv.InitialRepairs = 2000

	result := CalcInvestment(inv)
	assert.InDelta(t, 8850+7080-5000+2000.0, result.InitialInvestment, 1e-9)
}

func TestCalcInvestmentCash(t *testing.T) {
	inv := DefaultInvestment()
	inv.PurchasePrice = 200_000
	inv.Financing = FinancingCash
	inv.InitialRepairs = 3000

	result := CalcInvestment(inv)

	assert.InDelta(t, 200_000.0, result.DownPayment, 1e-9)
	assert.Zero(t, result.TotalLoan)
	assert.Zero(t, result.MonthlyPI)
	assert.InDelta(t, 200_000+4800+3000.0, result.InitialInvestment, 1e-9)
	// No loan, no MI: PITI is taxes plus insurance only.
	assert.InDelta(t, 358+125.0, result.MonthlyPITI, 1e-9)
}

func TestCalcIncome(t *testing.T) {
	income := Income{
		UnitRents:      [4]float64{0, 1450, 9999, 9999},
		OtherIncome:    50,
		VacancyPercent: 5,
	}

	// Duplex: only the first two unit rents count.
	result := CalcIncome(income, Duplex)
	assert.InDelta(t, 1500.0, result.GrossMonthly, 1e-9)
	assert.InDelta(t, 75.0, result.Vacancy, 1e-9)
	assert.InDelta(t, 1425.0, result.EffectiveMonthly, 1e-9)
	assert.InDelta(t, 17_100.0, result.EffectiveAnnual, 1e-9)

	// Fourplex counts all four.
	result = CalcIncome(income, Fourplex)
	assert.InDelta(t, 1450+9999+9999+50.0, result.GrossMonthly, 1e-9)
}

func TestCalcExpenses(t *testing.T) {
	result := CalcExpenses(Expenses{Maintenance: 100, CapEx: 50}, 2000)
	assert.InDelta(t, 150.0, result.AdditionalMonthly, 1e-9)
	assert.InDelta(t, 2150.0, result.TotalMonthly, 1e-9)
	assert.InDelta(t, 25_800.0, result.TotalAnnual, 1e-9)
}

func TestCalcOwnerReturns(t *testing.T) {
	income := IncomeResult{EffectiveMonthly: 1425}
	expenses := ExpensesResult{TotalMonthly: 2150}

	result := CalcOwnerReturns(income, expenses, 15_000, 1300)

	assert.InDelta(t, -725.0, result.MonthlyCashFlow, 1e-9)
	assert.InDelta(t, -58.0, result.CashOnCashROI, 1e-9)
	assert.InDelta(t, 725.0, result.EffectiveHousingCost, 1e-9)
	assert.InDelta(t, 575.0, result.MonthlySavings, 1e-9)
	assert.InDelta(t, 6900.0, result.AnnualSavings, 1e-9)
}

func TestCalcOwnerReturnsZeroInvestment(t *testing.T) {
	result := CalcOwnerReturns(IncomeResult{EffectiveMonthly: 100}, ExpensesResult{}, 0, 0)
	assert.Zero(t, result.CashOnCashROI)
}

func TestCalcAllUnitsReturns(t *testing.T) {
	income := IncomeResult{EffectiveMonthly: 2000, GrossAnnual: 26_400}
	expenses := ExpensesResult{TotalMonthly: 1800, TotalAnnual: 21_600}
	inv := InvestmentResult{
		InitialInvestment: 20_000,
		TotalLoan:         120_000,
		MonthlyPI:         500,
		AnnualPITI:        12_000,
	}

	// Zero rate makes the year-1 paydown exactly twelve P&I payments.
	result := CalcAllUnitsReturns(income, expenses, inv, 200_000, 3, 0)

	assert.InDelta(t, 200.0, result.MonthlyCashFlow, 1e-9)
	assert.InDelta(t, 2400.0, result.AnnualCashFlow, 1e-9)
	assert.InDelta(t, 12.0, result.CashOnCashROI, 1e-9)
	assert.InDelta(t, 6000.0, result.PrincipalPaydownYear1, 1e-9)
	assert.InDelta(t, 30.0, result.PrincipalPaydownROI, 1e-9)
	assert.InDelta(t, 6000.0, result.AnnualAppreciation, 1e-9)
	assert.InDelta(t, 8400.0, result.CombinedCFPD, 1e-9)
	assert.InDelta(t, 42.0, result.CombinedCFPDROI, 1e-9)
	assert.InDelta(t, 14_400.0, result.CombinedAll, 1e-9)
	assert.InDelta(t, 72.0, result.CombinedAllROI, 1e-9)
	assert.InDelta(t, 9600.0, result.OperatingExpenses, 1e-9)
	assert.InDelta(t, 16_800.0, result.NOI, 1e-9)
	assert.InDelta(t, 8.4, result.UnleveragedYield, 1e-9)
}

func TestPrincipalSchedule(t *testing.T) {
	rows := PrincipalSchedule(100_000, 6, 599.55)
	require.Len(t, rows, 12)

	// First month: interest on the full balance, remainder to principal.
	assert.InDelta(t, 500.0, rows[0].Interest, 0.01)
	assert.InDelta(t, 99.55, rows[0].Principal, 0.01)
	assert.InDelta(t, 99_900.45, rows[0].RemainingBalance, 0.01)

	// Principal share grows, interest share shrinks, balance declines.
	for i := 1; i < len(rows); i++ {
		assert.Greater(t, rows[i].Principal, rows[i-1].Principal)
		assert.Less(t, rows[i].Interest, rows[i-1].Interest)
		assert.Less(t, rows[i].RemainingBalance, rows[i-1].RemainingBalance)
	}

	// Cash deals have no schedule.
	assert.Nil(t, PrincipalSchedule(0, 6, 599.55))
	assert.Nil(t, PrincipalSchedule(100_000, 6, 0))
}

func TestCalcReserves(t *testing.T) {
	result := CalcReserves(2000, 575)
	assert.InDelta(t, 6900.0, result.RentSavingsAppliedAnnual, 1e-9)
	assert.InDelta(t, 12_000.0, result.SixMonthReserves, 1e-9)

	// Negative savings apply nothing toward reserves.
	result = CalcReserves(2000, -100)
	assert.Zero(t, result.RentSavingsAppliedAnnual)
}

func TestAnalyze(t *testing.T) {
	deal := Deal{
		PropertyType: Duplex,
		Investment:   DefaultInvestment(),
		Income: Income{
			UnitRents:      [4]float64{0, 1450},
			VacancyPercent: 5,
		},
		Expenses:            Expenses{Maintenance: 100},
		CurrentRent:         1300,
		AppreciationPercent: 3,
	}

	a := Analyze(deal)

	require.Len(t, a.Schedule, 12)
	assert.InDelta(t, a.Investment.MonthlyPITI+100, a.Expenses.TotalMonthly, 1e-9)
	assert.InDelta(t, 1377.5, a.Income.EffectiveMonthly, 1e-9)

	// Year-1 paydown matches the schedule's principal column.
	var principal float64
	for _, row := range a.Schedule {
		principal += row.Principal
	}
	assert.InDelta(t, principal, a.AllUnits.PrincipalPaydownYear1, 0.01)

	// Each schedule row splits one P&I payment exactly.
	for _, row := range a.Schedule {
		assert.InDelta(t, a.Investment.MonthlyPI, row.Principal+row.Interest, 1e-6)
	}
}
