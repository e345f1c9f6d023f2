package output

// DefaultAssumptions lists the modelling assumptions rendered in detailed outputs
var DefaultAssumptions = []string{
	"Contributions are invested monthly and compound monthly until retirement",
	"EPF and NPS contributions are added to the monthly contribution",
	"Expenses grow with inflation until retirement and during retirement",
	"Fixed withdrawal strategies take a share of the corpus in year one and grow it with inflation",
	"The dynamic strategy withdraws the inflated need, capped at 5% of the corpus",
	"Goal targets are stated in today's money and inflated to the goal date",
}
