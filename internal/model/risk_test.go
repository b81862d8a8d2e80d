package model

import "testing"

// TestRiskString tests the String method of Risk.
func TestRiskString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		risk     Risk
		expected string
	}{
		{RiskLow, "LOW"},
		{RiskModerate, "MODERATE"},
		{RiskHigh, "HIGH"},
		{Risk(999), "UNKNOWN"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.risk.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.risk.String(), tc.expected)
			}
		})
	}
}

// TestRiskFromSurvivalRate tests the threshold classification.
// Above 50% survival is high risk, above 30% moderate, otherwise low.
func TestRiskFromSurvivalRate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		rate     float64
		expected Risk
	}{
		{"zero survival", 0.0, RiskLow},
		{"well below attention threshold", 0.25, RiskLow},
		{"exactly at attention threshold", 0.30, RiskLow},
		{"just above attention threshold", 0.31, RiskModerate},
		{"exactly at alert threshold", 0.50, RiskModerate},
		{"just above alert threshold", 0.51, RiskHigh},
		{"two thirds survived", 0.6667, RiskHigh},
		{"everything survived", 1.0, RiskHigh},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := RiskFromSurvivalRate(tc.rate)
			if result != tc.expected {
				t.Errorf("RiskFromSurvivalRate(%v) = %v, expected %v", tc.rate, result, tc.expected)
			}
		})
	}
}

// TestRiskOrdering tests that risk levels are ordered correctly.
// Low < Moderate < High
func TestRiskOrdering(t *testing.T) {
	t.Parallel()

	if RiskLow >= RiskModerate {
		t.Error("expected RiskLow < RiskModerate")
	}
	if RiskModerate >= RiskHigh {
		t.Error("expected RiskModerate < RiskHigh")
	}
}

// TestRiskInfo tests that every risk level carries assessment text.
func TestRiskInfo(t *testing.T) {
	t.Parallel()

	for _, risk := range []Risk{RiskLow, RiskModerate, RiskHigh} {
		t.Run(risk.String(), func(t *testing.T) {
			t.Parallel()

			info := risk.Info()
			if info.Assessment == "" {
				t.Error("expected non-empty Assessment")
			}
			if info.Recommendation == "" {
				t.Error("expected non-empty Recommendation")
			}
		})
	}

	t.Run("unknown level falls back to low", func(t *testing.T) {
		t.Parallel()

		info := Risk(999).Info()
		if info != riskInfoMapping[RiskLow] {
			t.Error("expected unknown risk to use the low-risk entry")
		}
	})
}

// TestGetOperatorInfo tests the operator metadata lookup.
func TestGetOperatorInfo(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		operator string
		category string
	}{
		{"number_replacement", CategoryConstant},
		{"coefficient_replacement", CategoryConstant},
		{"operator_replacement", CategoryArithmetic},
		{"comparison_replacement", CategoryComparison},
		{"string_replacement", CategoryString},
		{"table_name_replacement", CategoryString},
		{"none_replacement", CategoryNilReturn},
		{"exception_swallowing", CategoryErrorDrop},
		{"type_conversion", CategoryConversion},
		{"brand_new_operator", CategoryOther},
	}

	for _, tc := range testCases {
		t.Run(tc.operator, func(t *testing.T) {
			t.Parallel()

			info := GetOperatorInfo(tc.operator)
			if info.Category != tc.category {
				t.Errorf("GetOperatorInfo(%q).Category = %q, expected %q", tc.operator, info.Category, tc.category)
			}
			if info.Guidance == "" {
				t.Errorf("operator %q has empty Guidance", tc.operator)
			}
		})
	}
}
