package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/HanSoulEater/trello-weekly-report/internal/trello"
)

const (
	summarySheet     = "Summary"
	completionsSheet = "Completions"
)

// ExcelExporter archives a week's completions as an xlsx workbook.
type ExcelExporter struct {
	OutputDir string
}

func NewExcelExporter(outputDir string) *ExcelExporter {
	return &ExcelExporter{OutputDir: outputDir}
}

// Export writes one workbook per window and returns its path. The workbook
// holds a per-card summary and the full completion list.
func (e *ExcelExporter) Export(actions []trello.Action, w Window, loc *time.Location) (string, error) {
	filename := filepath.Join(e.OutputDir, fmt.Sprintf("weekly_%s_%s.xlsx",
		w.Start.Format("2006-01-02"), w.LastDay().Format("2006-01-02")))

	groups := groupCompletions(actions)

	f := excelize.NewFile()
	defer f.Close()

	if err := createSummarySheet(f, groups, w); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := createCompletionsSheet(f, groups, loc); err != nil {
		return "", fmt.Errorf("failed to create completions sheet: %w", err)
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := f.SaveAs(filename); err != nil {
		return "", fmt.Errorf("failed to save excel file: %w", err)
	}

	return filename, nil
}

func createSummarySheet(f *excelize.File, groups []*cardGroup, w Window) error {
	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})

	totalStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#B4C7E7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})

	f.SetCellValue(summarySheet, "A1", "Week from:")
	f.SetCellValue(summarySheet, "B1", w.Start.Format("2006-01-02"))
	f.SetCellValue(summarySheet, "A2", "Week to:")
	f.SetCellValue(summarySheet, "B2", w.LastDay().Format("2006-01-02"))

	row := 4
	f.SetCellValue(summarySheet, cellName(1, row), "Card")
	f.SetCellStyle(summarySheet, cellName(1, row), cellName(1, row), headerStyle)
	f.SetCellValue(summarySheet, cellName(2, row), "Completed Items")
	f.SetCellStyle(summarySheet, cellName(2, row), cellName(2, row), headerStyle)
	row++

	total := 0
	for _, g := range groups {
		f.SetCellValue(summarySheet, cellName(1, row), g.name)
		f.SetCellValue(summarySheet, cellName(2, row), len(g.completions))
		total += len(g.completions)
		row++
	}

	f.SetCellValue(summarySheet, cellName(1, row), "Total")
	f.SetCellStyle(summarySheet, cellName(1, row), cellName(1, row), totalStyle)
	f.SetCellValue(summarySheet, cellName(2, row), total)
	f.SetCellStyle(summarySheet, cellName(2, row), cellName(2, row), totalStyle)

	f.SetColWidth(summarySheet, "A", "A", 40)
	f.SetColWidth(summarySheet, "B", "B", 18)

	return nil
}

func createCompletionsSheet(f *excelize.File, groups []*cardGroup, loc *time.Location) error {
	index, err := f.NewSheet(completionsSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})

	headers := []string{
		"#",
		"Card",
		"Checklist Item",
		"Completed At",
		"Card URL",
	}

	for col, header := range headers {
		cell := cellName(col+1, 1)
		f.SetCellValue(completionsSheet, cell, header)
		f.SetCellStyle(completionsSheet, cell, cell, headerStyle)
	}

	row := 2
	for _, g := range groups {
		for _, c := range g.completions {
			f.SetCellValue(completionsSheet, cellName(1, row), row-1)
			f.SetCellValue(completionsSheet, cellName(2, row), g.name)
			f.SetCellValue(completionsSheet, cellName(3, row), c.item)
			f.SetCellValue(completionsSheet, cellName(4, row), formatLocal(c.date, loc))
			f.SetCellValue(completionsSheet, cellName(5, row), g.url)
			row++
		}
	}

	f.SetColWidth(completionsSheet, "A", "A", 5)
	f.SetColWidth(completionsSheet, "B", "C", 40)
	f.SetColWidth(completionsSheet, "D", "D", 18)
	f.SetColWidth(completionsSheet, "E", "E", 30)

	f.SetPanes(completionsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

func columnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
