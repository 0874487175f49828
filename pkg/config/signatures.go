package config

// SignatureTable maps a domain tag to phrases that signal the domain in a
// query. It is an explicit configuration value passed into the router at
// construction time, so routers with different tables can coexist.
type SignatureTable map[string][]string

// Clone returns a deep copy of the table.
func (t SignatureTable) Clone() SignatureTable {
	if t == nil {
		return nil
	}
	out := make(SignatureTable, len(t))
	for domain, phrases := range t {
		cp := make([]string, len(phrases))
		copy(cp, phrases)
		out[domain] = cp
	}
	return out
}

// DefaultSignatureTable returns the built-in domain signature phrases.
func DefaultSignatureTable() SignatureTable {
	return SignatureTable{
		"coding": {
			"write a function", "fix the bug", "stack trace", "unit test",
			"compile error", "refactor", "code review", "regex",
		},
		"math": {
			"calculate", "probability", "standard deviation", "equation",
			"percentage", "how many", "solve for",
		},
		"logic": {
			"step by step", "if and only if", "deduce", "syllogism",
			"true or false", "which of the following",
		},
		"writing": {
			"summarize", "rewrite", "draft an email", "blog post",
			"in your own words", "proofread",
		},
		"general": {
			"explain", "what is", "tell me about", "describe",
		},
	}
}
