package suggest

import (
	"fmt"
	"path/filepath"
	"strings"

	"mutbench/internal/model"
	"mutbench/internal/source"
)

// testTemplate renders one skeleton for a category and language.
type testTemplate struct {
	name   string
	render func(funcName, file string) string
}

// pytestTemplates renders pytest-style skeletons per category. The bodies
// encode the test strategy that catches the category's mutations: distinct
// inputs for arithmetic, boundary values for comparisons, exact constants,
// and error assertions for swallowed exceptions.
var pytestTemplates = map[string]testTemplate{
	model.CategoryArithmetic: {
		name: "ArithmeticIntegrity",
		render: func(funcName, file string) string {
			return fmt.Sprintf(`def %s():
    """Catches operator mutations in %s.

    Choose inputs where +, -, *, / give different results so a swapped
    operator cannot return the expected value by coincidence.
    """
    # result = function_under_test(7, 3)
    # assert result == 10  # 7-3, 7*3, 7/3 all differ
    raise NotImplementedError("fill in the call under test")
`, funcName, file)
		},
	},
	model.CategoryComparison: {
		name: "ComparisonBoundaries",
		render: func(funcName, file string) string {
			return fmt.Sprintf(`def %s():
    """Catches boundary mutations in %s.

    Test the exact boundary value and both neighbors so < cannot be
    swapped for <= without a failure.
    """
    # assert function_under_test(boundary - 1) != function_under_test(boundary)
    raise NotImplementedError("fill in the boundary under test")
`, funcName, file)
		},
	},
	model.CategoryConstant: {
		name: "ConstantValues",
		render: func(funcName, file string) string {
			return fmt.Sprintf(`def %s():
    """Catches constant mutations in %s.

    Assert exact numeric results for inputs where the constant matters,
    e.g. a doubling function must map 3 to exactly 6.
    """
    # assert function_under_test(3) == 6
    raise NotImplementedError("pin the constant under test")
`, funcName, file)
		},
	},
	model.CategoryErrorDrop: {
		name: "ErrorHandling",
		render: func(funcName, file string) string {
			return fmt.Sprintf(`def %s():
    """Catches swallowed-error mutations in %s."""
    import pytest
    # with pytest.raises(TypeError):
    #     function_under_test("not a number")
    raise NotImplementedError("assert the documented error")
`, funcName, file)
		},
	},
}

// gotestTemplates renders Go test skeletons per category.
var gotestTemplates = map[string]testTemplate{
	model.CategoryArithmetic: {
		name: "ArithmeticIntegrity",
		render: func(funcName, file string) string {
			return fmt.Sprintf(`func %s(t *testing.T) {
	// Catches operator mutations in %s. Choose inputs where the four
	// arithmetic operators give different results.
	t.Skip("fill in the call under test")
}
`, funcName, file)
		},
	},
	model.CategoryComparison: {
		name: "ComparisonBoundaries",
		render: func(funcName, file string) string {
			return fmt.Sprintf(`func %s(t *testing.T) {
	// Catches boundary mutations in %s. Test the exact boundary value
	// and both neighbors.
	t.Skip("fill in the boundary under test")
}
`, funcName, file)
		},
	},
	model.CategoryConstant: {
		name: "ConstantValues",
		render: func(funcName, file string) string {
			return fmt.Sprintf(`func %s(t *testing.T) {
	// Catches constant mutations in %s. Assert exact results for inputs
	// where the constant matters.
	t.Skip("pin the constant under test")
}
`, funcName, file)
		},
	},
	model.CategoryErrorDrop: {
		name: "ErrorHandling",
		render: func(funcName, file string) string {
			return fmt.Sprintf(`func %s(t *testing.T) {
	// Catches swallowed-error mutations in %s. Assert that invalid
	// input produces the documented error.
	t.Skip("assert the documented error")
}
`, funcName, file)
		},
	},
}

// genericPytestTemplate is the fallback for categories without a dedicated
// strategy.
var genericPytestTemplate = testTemplate{
	name: "SuggestedScenario",
	render: func(funcName, file string) string {
		return fmt.Sprintf(`def %s():
    """Covers a suggested mutation point in %s."""
    raise NotImplementedError("add an assertion that depends on the mutated line")
`, funcName, file)
	},
}

// genericGotestTemplate is the Go fallback template.
var genericGotestTemplate = testTemplate{
	name: "SuggestedScenario",
	render: func(funcName, file string) string {
		return fmt.Sprintf(`func %s(t *testing.T) {
	// Covers a suggested mutation point in %s.
	t.Skip("add an assertion that depends on the mutated line")
}
`, funcName, file)
	},
}

// GenerateTestSkeleton builds one test stub for a suggestion category found
// in a file. The stub names its target and encodes the test strategy that
// would catch the category's mutations; filling in the calls stays with the
// developer, matching the delegation of actual inference.
func GenerateTestSkeleton(file source.File, category string) model.TestSkeleton {
	var (
		tpl      testTemplate
		language string
		ok       bool
	)

	switch file.Language {
	case source.LangGo:
		language = source.LangGo
		if tpl, ok = gotestTemplates[category]; !ok {
			tpl = genericGotestTemplate
		}
	default:
		// pytest-style stubs serve Python and double as pseudocode for
		// the remaining languages.
		language = source.LangPython
		if tpl, ok = pytestTemplates[category]; !ok {
			tpl = genericPytestTemplate
		}
	}

	funcName := testFuncName(file, tpl.name, language)
	return model.TestSkeleton{
		Name:     funcName,
		Category: category,
		File:     file.RelPath,
		Language: language,
		Source:   tpl.render(funcName, file.RelPath),
	}
}

// testFuncName derives the test function name from the file base name and
// the template suffix, in the casing convention of the target language.
func testFuncName(file source.File, suffix, language string) string {
	base := strings.TrimSuffix(filepath.Base(file.RelPath), filepath.Ext(file.RelPath))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, base)

	if language == source.LangGo {
		return "Test" + exportName(base) + suffix
	}
	return "test_" + strings.ToLower(base) + "_" + camelToSnake(suffix)
}

// exportName upper-cases the first letter of an identifier fragment.
func exportName(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// camelToSnake converts a CamelCase template suffix to snake_case.
func camelToSnake(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
