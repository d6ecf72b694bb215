// Package export writes student results as spreadsheets
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"github.com/yigit/resultdesk/internal/app/models"
)

// SheetName is the worksheet holding the results
const SheetName = "Results"

// ContentTypeXLSX is the media type of the written workbook
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{"ID", "Name", "Section", "Marks", "Grade"}

// WriteStudentsXLSX writes one row per student under a header row
func WriteStudentsXLSX(w io.Writer, students []*models.Student) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("error removing default sheet: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return err
		}
	}

	for i, s := range students {
		row := []interface{}{s.ID, s.Name, string(s.Section), s.Marks, s.Grade}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}
