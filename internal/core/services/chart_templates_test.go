package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func TestSortTemplate_ParentsFirst(t *testing.T) {
	for _, bt := range []domain.BusinessType{domain.SoleProprietorship, domain.Partnership, domain.Corporation} {
		t.Run(string(bt), func(t *testing.T) {
			sorted, err := sortTemplate(chartTemplate(bt))
			require.NoError(t, err)

			position := make(map[string]int, len(sorted))
			for i, tpl := range sorted {
				position[tpl.Number] = i
			}
			for _, tpl := range sorted {
				if tpl.Parent != "" {
					assert.Less(t, position[tpl.Parent], position[tpl.Number], "%s must follow %s", tpl.Number, tpl.Parent)
				}
			}
		})
	}
}

func TestSortTemplate_StableOrder(t *testing.T) {
	sorted, err := sortTemplate([]accountTemplate{
		{Number: "6020", Type: domain.Expense, Parent: "6000"},
		{Number: "6000", Type: domain.Expense},
		{Number: "1010", Type: domain.Asset, Parent: "1000"},
		{Number: "1000", Type: domain.Asset},
	})
	require.NoError(t, err)

	var numbers []string
	for _, tpl := range sorted {
		numbers = append(numbers, tpl.Number)
	}
	assert.Equal(t, []string{"1000", "1010", "6000", "6020"}, numbers)
}

func TestSortTemplate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		templates []accountTemplate
	}{
		{"cycle", []accountTemplate{
			{Number: "1000", Parent: "1100"},
			{Number: "1100", Parent: "1000"},
		}},
		{"unknown parent", []accountTemplate{
			{Number: "1010", Parent: "1000"},
		}},
		{"duplicate number", []accountTemplate{
			{Number: "1000"},
			{Number: "1000"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sortTemplate(tt.templates)
			assert.ErrorIs(t, err, apperrors.ErrConflict)
			assert.Equal(t, apperrors.ReasonCircularDependency, apperrors.Reason(err))
		})
	}
}
