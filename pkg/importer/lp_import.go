package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/flaboy/aira-pay/pkg/lp"
	"github.com/flaboy/aira-pay/pkg/types"
)

// 表头别名 -> 规范字段名
var headerAliases = map[string]string{
	"wallet_address":        "wallet",
	"wallet":                "wallet",
	"钱包地址":                  "wallet",
	"name":                  "name",
	"名称":                    "name",
	"email":                 "email",
	"邮箱":                    "email",
	"platforms":             "platforms",
	"supported_platforms":   "platforms",
	"支持平台":                  "platforms",
	"total_quota":           "total",
	"总额度":                   "total",
	"per_transaction_quota": "per_transaction",
	"单笔额度":                  "per_transaction",
}

type RowError struct {
	Row   int    `json:"row"` // 从1开始的表格行号
	Error string `json:"error"`
}

type Result struct {
	Total     int        `json:"total"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	Errors    []RowError `json:"errors"`
}

type LPImporter struct {
	service *lp.Service
}

func NewLPImporter(service *lp.Service) *LPImporter {
	return &LPImporter{service: service}
}

// Import 逐行注册LP。单行失败不中断导入，错误按行号汇总返回。
func (i *LPImporter) Import(reader io.Reader, filename string) (*Result, error) {
	fileType := DetectFileType(filename)
	if fileType == FileTypeUnknown {
		return nil, fmt.Errorf("unsupported file format: %s", filename)
	}

	rows, err := readRows(reader, fileType)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows found")
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for idx, row := range rows[1:] {
		result.Total++
		if err := i.importRow(columns, row); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: idx + 2, Error: err.Error()})
			continue
		}
		result.Succeeded++
	}
	return result, nil
}

// mapColumns 识别表头，返回规范字段名到列下标的映射
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for idx, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		if canonical, ok := headerAliases[key]; ok {
			columns[canonical] = idx
		}
	}

	for _, required := range []string{"wallet", "platforms", "total", "per_transaction"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}
	return columns, nil
}

func (i *LPImporter) importRow(columns map[string]int, row []string) error {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	total, err := types.ParseAmountToCents(cell("total"))
	if err != nil {
		return fmt.Errorf("invalid total quota: %s", cell("total"))
	}
	perTransaction, err := types.ParseAmountToCents(cell("per_transaction"))
	if err != nil {
		return fmt.Errorf("invalid per-transaction quota: %s", cell("per_transaction"))
	}

	var platforms []string
	for _, p := range strings.FieldsFunc(cell("platforms"), func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	}) {
		if p = strings.TrimSpace(p); p != "" {
			platforms = append(platforms, p)
		}
	}

	_, err = i.service.Register(lp.RegisterInput{
		WalletAddress:       cell("wallet"),
		Name:                cell("name"),
		Email:               cell("email"),
		SupportedPlatforms:  platforms,
		TotalQuota:          total,
		PerTransactionQuota: perTransaction,
	})
	return err
}
