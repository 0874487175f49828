package bench

import (
	"regexp"
	"strings"

	"github.com/zen-systems/specroute/pkg/config"
)

// scoreResponse evaluates a response against a test case's validation
// rules. Precedence: a contains-any match sets pass; a regex match sets
// pass=true; any not-contains match vetoes to false, overriding prior
// state. With no contains/regex rules, pass equals routing correctness.
func scoreResponse(tc *config.TestCase, response string, routingCorrect bool) bool {
	pass := routingCorrect

	if len(tc.ExpectedContains) > 0 {
		pass = containsAny(response, tc.ExpectedContains)
	}
	if tc.ExpectedRegex != "" {
		// The suite validated the pattern at load time; a compile error
		// here means an ad-hoc case, treated as no match.
		if re, err := regexp.Compile(tc.ExpectedRegex); err == nil && re.MatchString(response) {
			pass = true
		}
	}
	if containsAny(response, tc.ExpectedNotContains) {
		pass = false
	}
	return pass
}

func containsAny(response string, needles []string) bool {
	if len(needles) == 0 {
		return false
	}
	respLower := strings.ToLower(response)
	for _, n := range needles {
		if n == "" {
			continue
		}
		if strings.Contains(respLower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// efficiencyScore is (pass ? 100 : 0) / (paramsBillions x latencySeconds),
// defined as zero when either denominator term is zero or negative.
func efficiencyScore(pass bool, paramsBillions, latencySeconds float64) float64 {
	if !pass {
		return 0
	}
	if paramsBillions <= 0 || latencySeconds <= 0 {
		return 0
	}
	return 100 / (paramsBillions * latencySeconds)
}
