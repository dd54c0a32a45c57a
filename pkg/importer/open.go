// Package importer 批量导入LP：从Excel/CSV表格读取并逐行注册
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeExcel
	FileTypeCSV
)

// DetectFileType 按文件名后缀判断表格类型
func DetectFileType(filename string) FileType {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls"):
		return FileTypeExcel
	case strings.HasSuffix(lower, ".csv"):
		return FileTypeCSV
	}
	return FileTypeUnknown
}

// readRows 读出全部行，首行视为表头
func readRows(reader io.Reader, t FileType) ([][]string, error) {
	switch t {
	case FileTypeExcel:
		return readExcelRows(reader)
	case FileTypeCSV:
		return readCSVRows(reader)
	}
	return nil, fmt.Errorf("unsupported file type")
}

func readExcelRows(reader io.Reader) ([][]string, error) {
	excelFile, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, err
	}
	defer excelFile.Close()

	sheetNames := excelFile.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("no sheets in workbook")
	}

	return excelFile.GetRows(sheetNames[0])
}

func readCSVRows(reader io.Reader) ([][]string, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}
