package Controllers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"CarJournal/Models"
)

// convertRecordsToExcel renders the journal as an Excel workbook.
func convertRecordsToExcel(records []Models.CarRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()

	sheetName := "Records"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"ID", "Title", "Description", "Type", "Cost", "Mileage",
		"Date", "Due Date", "Status", "Priority", "Fuel Amount", "Fuel Price",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for rowIndex, record := range records {
		row := rowIndex + 2 // data starts after the header row

		values := []interface{}{
			record.ID,
			record.Title,
			record.Description,
			record.Type.DisplayName(),
			record.Cost,
			record.Mileage,
			record.Date.String(),
			record.DueDate.String(),
			record.Status.DisplayName(),
			record.Priority.DisplayName(),
			record.FuelAmount,
			record.FuelPrice,
		}
		for colIndex, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := 0; i < len(headers); i++ {
		f.SetColWidth(sheetName, string('A'+rune(i)), string('A'+rune(i)), 18)
	}

	if f.GetSheetName(0) != sheetName {
		f.DeleteSheet("Sheet1")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing Excel file to buffer: %v", err)
	}
	return &buf, nil
}

// ExportRecords downloads the whole journal as an .xlsx report.
func (rc *RecordController) ExportRecords(ctx *fiber.Ctx) error {
	records := rc.Service.GetAllRecords()

	excelBuffer, err := convertRecordsToExcel(records)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate Excel report",
		})
	}

	filename := fmt.Sprintf("car_journal_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Send(excelBuffer.Bytes())
}
