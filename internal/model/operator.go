package model

// Suggestion categories used by the pattern-based suggester and by the
// operator mapping below. External tools report operators; the suggester
// reports categories; both vocabularies meet in operatorInfoMapping.
const (
	CategoryArithmetic = "arithmetic_operator"
	CategoryComparison = "comparison_operator"
	CategoryConstant   = "constant_replacement"
	CategoryString     = "string_replacement"
	CategoryNilReturn  = "nil_replacement"
	CategoryErrorDrop  = "exception_handling"
	CategoryConversion = "type_conversion"
	CategoryOther      = "other"
)

// OperatorInfo contains metadata about a mutation operator: the suggestion
// category it belongs to and guidance for writing a test that would catch it.
type OperatorInfo struct {
	Category string
	Guidance string
}

// operatorInfoMapping maps mutation operator names to their metadata.
// This centralized mapping ensures consistent categorization across the
// application.
//
// Design decision: We use a map rather than embedding the category in each
// mutant record because:
//  1. It allows refining categorization without touching stored reports
//  2. It provides a single source of truth for operator guidance
//  3. It makes it easy to render an operator reference in reports
var operatorInfoMapping = map[string]OperatorInfo{
	"number_replacement": {
		Category: CategoryConstant,
		Guidance: "Assert exact numeric results for at least one input where the constant matters.",
	},
	"coefficient_replacement": {
		Category: CategoryConstant,
		Guidance: "Pin the coefficient with a known input/output pair, e.g. f(3) == 6 for a doubling function.",
	},
	"constant_replacement": {
		Category: CategoryConstant,
		Guidance: "Cover the boundary values around the constant, not just typical inputs.",
	},
	"operator_replacement": {
		Category: CategoryArithmetic,
		Guidance: "Choose inputs where +, -, *, / produce different results, e.g. avoid 2+2 == 2*2.",
	},
	"arithmetic_replacement": {
		Category: CategoryArithmetic,
		Guidance: "Choose inputs where +, -, *, / produce different results, e.g. avoid 2+2 == 2*2.",
	},
	"comparison_replacement": {
		Category: CategoryComparison,
		Guidance: "Test both sides of every boundary so <= and < cannot be swapped silently.",
	},
	"conditional_boundary": {
		Category: CategoryComparison,
		Guidance: "Add a test at the exact boundary value of the condition.",
	},
	"string_replacement": {
		Category: CategoryString,
		Guidance: "Assert the full literal where it carries meaning (identifiers, table names, messages).",
	},
	"table_name_replacement": {
		Category: CategoryString,
		Guidance: "Assert schema names explicitly instead of relying on them implicitly through queries.",
	},
	"none_replacement": {
		Category: CategoryNilReturn,
		Guidance: "Cover the empty-input path and assert the exact sentinel the function returns.",
	},
	"nil_replacement": {
		Category: CategoryNilReturn,
		Guidance: "Cover the empty-input path and assert the exact sentinel the function returns.",
	},
	"exception_swallowing": {
		Category: CategoryErrorDrop,
		Guidance: "Assert that invalid inputs produce the documented error instead of passing silently.",
	},
	"type_conversion": {
		Category: CategoryConversion,
		Guidance: "Exercise the conversion with values that truncate or overflow, not just round-trip ones.",
	},
}

// defaultOperatorInfo is returned for operators not in the mapping.
var defaultOperatorInfo = OperatorInfo{
	Category: CategoryOther,
	Guidance: "Review the mutated line and add an assertion that depends on its exact behavior.",
}

// GetOperatorInfo returns the metadata for a mutation operator.
// Unknown operators fall back to a generic entry rather than failing, since
// external tools grow new operators faster than this table.
func GetOperatorInfo(operator string) OperatorInfo {
	if info, ok := operatorInfoMapping[operator]; ok {
		return info
	}
	return defaultOperatorInfo
}

// GetCategory returns the suggestion category for a mutation operator.
func GetCategory(operator string) string {
	return GetOperatorInfo(operator).Category
}
