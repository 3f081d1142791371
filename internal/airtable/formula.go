package airtable

import (
	"errors"
	"fmt"
)

// MaxFormulaLength bounds filterByFormula expressions
const MaxFormulaLength = 2000

// ValidateFormula rejects formulas that are too long, unbalanced or carry an unterminated string
func ValidateFormula(formula string) error {
	if len(formula) > MaxFormulaLength {
		return fmt.Errorf("formula exceeds %d characters", MaxFormulaLength)
	}

	var stack []rune
	var quote rune
	escaped := false

	for _, r := range formula {
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
			continue
		}

		switch r {
		case '"', '\'':
			quote = r
		case '(', '{':
			stack = append(stack, r)
		case ')', '}':
			open := '('
			if r == '}' {
				open = '{'
			}
			if len(stack) == 0 || stack[len(stack)-1] != open {
				return fmt.Errorf("unbalanced %q in formula", r)
			}
			stack = stack[:len(stack)-1]
		}
	}

	if quote != 0 {
		return errors.New("unterminated string literal in formula")
	}
	if len(stack) > 0 {
		return fmt.Errorf("unclosed %q in formula", stack[len(stack)-1])
	}
	return nil
}
