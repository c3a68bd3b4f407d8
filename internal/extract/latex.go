package extract

import (
	"regexp"
	"strings"
)

var (
	macroPattern = regexp.MustCompile(`\\[a-zA-Z]+`)
	envPattern   = regexp.MustCompile(`\\begin\{([a-zA-Z*]+)\}`)
)

// mathSymbols is the fixed Unicode math-symbol set recognised by
// Symbols.
const mathSymbols = "∑∏∫∮∂∇√∞≈≠≤≥≡±×÷→←↔⇒⇔∈∉⊂⊆∪∩∀∃ℏπθλμσφψωΓΔΛΞΠΣΦΨΩ"

// greekMacros are the Greek-letter macro names counted as symbols when
// they appear as \name tokens.
var greekMacros = []string{
	"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta",
	"theta", "iota", "kappa", "lambda", "mu", "nu", "xi", "pi",
	"rho", "sigma", "tau", "upsilon", "phi", "chi", "psi", "omega",
}

var greekMacroSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(greekMacros))
	for _, g := range greekMacros {
		set[g] = struct{}{}
	}
	return set
}()

// Macros collects \command tokens, deduplicated in first-occurrence
// order, capped at MacroCap.
func Macros(text string) []string {
	matches := macroPattern.FindAllString(text, -1)
	var macros []string
	seen := make(map[string]struct{})
	for _, m := range matches {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		macros = append(macros, m)
		if len(macros) >= MacroCap {
			break
		}
	}
	return macros
}

// Environments collects \begin{name} environment names, deduplicated,
// capped at EnvironmentCap.
func Environments(text string) []string {
	matches := envPattern.FindAllStringSubmatch(text, -1)
	var envs []string
	seen := make(map[string]struct{})
	for _, m := range matches {
		name := m[1]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		envs = append(envs, name)
		if len(envs) >= EnvironmentCap {
			break
		}
	}
	return envs
}

// Symbols collects occurrences of the fixed Unicode math-symbol set
// plus Greek-letter macro names, deduplicated, capped at SymbolCap.
func Symbols(text string) []string {
	var symbols []string
	seen := make(map[string]struct{})

	add := func(s string) bool {
		if _, dup := seen[s]; dup {
			return len(symbols) < SymbolCap
		}
		seen[s] = struct{}{}
		symbols = append(symbols, s)
		return len(symbols) < SymbolCap
	}

	for _, r := range text {
		if strings.ContainsRune(mathSymbols, r) {
			if !add(string(r)) {
				return symbols
			}
		}
	}

	for _, m := range macroPattern.FindAllString(text, -1) {
		name := strings.TrimPrefix(m, `\`)
		if _, ok := greekMacroSet[name]; ok {
			if !add(name) {
				return symbols
			}
		}
	}

	return symbols
}
