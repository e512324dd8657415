package constants

// Application roles. Only what the billing core needs to gate:
// obligation approval and ledger mutations are finance/admin territory,
// operators create orders and lines.
const (
	RoleAdmin    = "admin"
	RoleFinance  = "finance"
	RoleOperator = "operator"
)

var FinanceAndAbove = []string{RoleAdmin, RoleFinance}
var AllRoles = []string{RoleAdmin, RoleFinance, RoleOperator}
