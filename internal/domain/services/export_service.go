package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"org-directory-service/internal/domain/models"
)

// OrganizationExportHeader 导出表头
var OrganizationExportHeader = []string{
	"ID",
	"Name",
	"Building ID",
	"Address",
	"Latitude",
	"Longitude",
	"Phone Numbers",
	"Activities",
}

const organizationSheet = "Organizations"

// InterfaceExportService 导出接口
type InterfaceExportService interface {
	OrganizationsWorkbook(orgs []models.OrganizationDetail) ([]byte, error)
}

// ExportService 将查询结果导出为 Excel
type ExportService struct{}

// NewExportService 创建导出服务
func NewExportService() InterfaceExportService {
	return &ExportService{}
}

// OrganizationsWorkbook 生成组织列表的 xlsx 文件，orgs 为空时只有表头
func (s *ExportService) OrganizationsWorkbook(orgs []models.OrganizationDetail) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(organizationSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// 写入表头
	if err := f.SetSheetRow(organizationSheet, "A1", &OrganizationExportHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(OrganizationExportHeader))
	if err := f.SetCellStyle(organizationSheet, "A1", lastCol+"1", headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	widths := []float64{8, 36, 12, 40, 12, 12, 30, 30}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(organizationSheet, col, col, w); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	// 写入数据，从第2行开始
	for i, o := range orgs {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := organizationRow(o)
		if err := f.SetSheetRow(organizationSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	// 冻结表头
	if err := f.SetPanes(organizationSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

func organizationRow(o models.OrganizationDetail) []interface{} {
	phones := make([]string, len(o.PhoneNumbers))
	for i, p := range o.PhoneNumbers {
		phones[i] = p.Number
	}
	activities := make([]string, len(o.Activities))
	for i, a := range o.Activities {
		activities[i] = a.Name
	}

	row := []interface{}{o.ID, o.Name, o.BuildingID, "", "", ""}
	if o.Building != nil {
		row[3] = o.Building.Address
		row[4] = o.Building.Latitude
		row[5] = o.Building.Longitude
	}
	return append(row, strings.Join(phones, ", "), strings.Join(activities, ", "))
}
