package airtable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFormula(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		wantErr bool
	}{
		{"empty", "", false},
		{"field comparison", "{shaer}='Ghalib'", false},
		{"nested calls", "AND(FIND('ishq', {unwan}), {likes} > 10)", false},
		{"brackets inside strings", `SEARCH(")", {unwan})`, false},
		{"escaped quote", `{unwan}='Ghalib\'s'`, false},
		{"unclosed paren", "AND({a}", true},
		{"extra close", "{a})", true},
		{"mismatched", "AND({a)}", true},
		{"unterminated string", "{a}='open", true},
		{"too long", strings.Repeat("a", MaxFormulaLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormula(tt.formula)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
