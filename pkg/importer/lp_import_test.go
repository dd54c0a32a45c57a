package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/flaboy/aira-pay/pkg/importer"
	"github.com/flaboy/aira-pay/pkg/lp"
	"github.com/flaboy/aira-pay/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const csvData = `wallet_address,name,platforms,total_quota,per_transaction_quota
0x4444444444444444444444444444444444444444,Alpha,alipay;wechat,1000,500
0x5555555555555555555555555555555555555555,Beta,alipay,2000,800
bad-wallet,Gamma,alipay,1000,500
`

func TestImportCSV(t *testing.T) {
	testutil.SetupDB(t)
	imp := importer.NewLPImporter(lp.NewService())

	result, err := imp.Import(strings.NewReader(csvData), "lps.csv")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 4, result.Errors[0].Row)

	svc := lp.NewService()
	alpha, err := svc.Get("0x4444444444444444444444444444444444444444")
	require.NoError(t, err)
	assert.Equal(t, int64(100000), alpha.QuotaTotal) // 1000元 = 100000分
	assert.Equal(t, int64(50000), alpha.QuotaPerTransaction)
	assert.True(t, alpha.SupportsPlatform("wechat"))
}

func TestImportExcel(t *testing.T) {
	testutil.SetupDB(t)
	imp := importer.NewLPImporter(lp.NewService())

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"wallet_address", "name", "platforms", "total_quota", "per_transaction_quota"},
		{"0x6666666666666666666666666666666666666666", "Delta", "unionpay", "3000", "1000"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	result, err := imp.Import(&buf, "lps.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)

	delta, err := lp.NewService().Get("0x6666666666666666666666666666666666666666")
	require.NoError(t, err)
	assert.Equal(t, int64(300000), delta.QuotaTotal)
}

func TestImport_MissingColumns(t *testing.T) {
	testutil.SetupDB(t)
	imp := importer.NewLPImporter(lp.NewService())

	_, err := imp.Import(strings.NewReader("wallet_address,name\n0x1,aa\n"), "lps.csv")
	assert.Error(t, err)
}

func TestImport_UnsupportedFormat(t *testing.T) {
	testutil.SetupDB(t)
	imp := importer.NewLPImporter(lp.NewService())

	_, err := imp.Import(strings.NewReader("{}"), "lps.json")
	assert.Error(t, err)
}
