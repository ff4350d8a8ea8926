package services_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/services"
)

func sampleTrialBalance() *domain.TrialBalance {
	return &domain.TrialBalance{
		OrganizationID: testOrg,
		AsOfDate:       day(2024, 1, 31),
		Entries: []domain.TrialBalanceEntry{
			{AccountID: "cash", AccountNumber: "1010", AccountName: "Cash", AccountType: domain.Asset, Balance: dec("500"), NormalBalance: domain.Debit},
			{AccountID: "sales", AccountNumber: "4010", AccountName: "Sales, Retail", AccountType: domain.Revenue, Balance: dec("500"), NormalBalance: domain.Credit},
		},
		TotalDebits:  dec("500"),
		TotalCredits: dec("500"),
		IsBalanced:   true,
	}
}

func TestExport_JSON(t *testing.T) {
	svc := services.NewExportService()

	body, contentType, err := svc.Export(sampleTrialBalance(), domain.ExportJSON)
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, testOrg, decoded["organizationID"])
	assert.Equal(t, true, decoded["isBalanced"])
}

func TestExport_TrialBalanceCSV(t *testing.T) {
	svc := services.NewExportService()

	body, contentType, err := svc.Export(sampleTrialBalance(), domain.ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	rows, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"account_number", "account_name", "account_type", "debit", "credit"}, rows[0])
	assert.Equal(t, []string{"1010", "Cash", "ASSET", "500.00", ""}, rows[1])
	assert.Equal(t, []string{"4010", "Sales, Retail", "REVENUE", "", "500.00"}, rows[2], "commas survive quoting")
	assert.Equal(t, []string{"", "TOTAL", "", "500.00", "500.00"}, rows[3])
}

func TestExport_BalanceSheetCSV(t *testing.T) {
	svc := services.NewExportService()
	bs := balanceSheet("100", "50", "0", "30", "120")

	body, _, err := svc.Export(bs, domain.ExportCSV)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	var names []string
	for _, r := range rows {
		names = append(names, r[2])
	}
	assert.Contains(t, names, "Total Assets")
	assert.Contains(t, names, "Total Current Assets")
	assert.Contains(t, names, "Total Equity")
}

func TestExport_UnsupportedCSVShape(t *testing.T) {
	svc := services.NewExportService()

	_, _, err := svc.Export(map[string]string{"a": "b"}, domain.ExportCSV)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, apperrors.ReasonUnsupportedExport, apperrors.Reason(err))
}

func TestExport_Formats(t *testing.T) {
	svc := services.NewExportService()

	tests := []struct {
		name    string
		format  domain.ExportFormat
		wantErr error
	}{
		{"pdf is not implemented", domain.ExportPDF, apperrors.ErrNotImplemented},
		{"excel is not implemented", domain.ExportExcel, apperrors.ErrNotImplemented},
		{"unknown format", domain.ExportFormat("yaml"), apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType, err := svc.Export(sampleTrialBalance(), tt.format)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, body)
			assert.Empty(t, contentType)
		})
	}
}
