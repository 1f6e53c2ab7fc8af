package engine

// Role tags the semantic meaning of a detected column.
type Role string

const (
	RoleBudgetHead Role = "budget_head"
	RoleVendorRole Role = "vendor_role"
	RoleCostHead   Role = "cost_head"
	RolePlanTotal  Role = "plan_total"
	RoleMonthPlan  Role = "month_plan"
)

// Config is the complete engine configuration. Keyword lists drive the
// table-driven column matcher; nothing about the input layout is hardcoded.
type Config struct {
	BudgetHeadKeywords []string
	VendorRoleKeywords []string
	CostHeadKeywords   []string
	PlanKeywords       []string
	ClaimsKeywords     []string
	D365Keywords       []string

	// IdentityPriority orders the identity-forming roles for conflict
	// resolution when one header cell matches several keyword sets. Earlier
	// roles claim a column first.
	IdentityPriority []Role

	// HeaderSearchRows are the row indices scanned for header cells.
	HeaderSearchRows []int

	DecimalPlaces int32
	SparseStorage bool

	// Workers > 1 partitions row aggregation across goroutines. Totals are
	// identical regardless of the partitioning.
	Workers int
}

// DefaultConfig returns the stock keyword tables and processing settings.
func DefaultConfig() Config {
	return Config{
		BudgetHeadKeywords: []string{"budget head", "budget_head", "budget", "head"},
		VendorRoleKeywords: []string{"vendor", "role", "vendor/role", "category", "vendor role"},
		CostHeadKeywords:   []string{"cost head", "cost_head", "cost", "item", "line item"},
		PlanKeywords:       []string{"plan", "planned", "budget"},
		ClaimsKeywords:     []string{"claim", "actual", "invoice"},
		D365Keywords:       []string{"d365", "system", "erp"},
		IdentityPriority:   []Role{RoleBudgetHead, RoleCostHead, RoleVendorRole},
		HeaderSearchRows:   []int{0, 1, 2},
		DecimalPlaces:      2,
		SparseStorage:      true,
		Workers:            1,
	}
}

func (c Config) keywordsFor(role Role) []string {
	switch role {
	case RoleBudgetHead:
		return c.BudgetHeadKeywords
	case RoleVendorRole:
		return c.VendorRoleKeywords
	case RoleCostHead:
		return c.CostHeadKeywords
	case RolePlanTotal:
		// The phrase must name a plan. A bare "total" column could be a
		// claims or spend rollup and is never bound.
		return []string{"plan total", "total plan", "planned total", "total planned"}
	default:
		return nil
	}
}

func (c Config) identityPriority() []Role {
	if len(c.IdentityPriority) > 0 {
		return c.IdentityPriority
	}
	return DefaultConfig().IdentityPriority
}

func (c Config) headerSearchRows() []int {
	if len(c.HeaderSearchRows) > 0 {
		return c.HeaderSearchRows
	}
	return DefaultConfig().HeaderSearchRows
}
