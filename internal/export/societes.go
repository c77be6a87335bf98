package export

import (
	"bytes"
	"fmt"
	"time"

	"go-societe-admin/internal/model"

	"github.com/xuri/excelize/v2"
)

const societeSheet = "Societes"

// SocieteRow is one line of the societe export.
type SocieteRow struct {
	Societe     model.Societe
	Commerciaux int64
}

var societeHeader = []string{
	"Nom",
	"Email",
	"Téléphone",
	"Adresse",
	"Code postal",
	"Ville",
	"Pays",
	"Secteur",
	"Active",
	"Administrateur",
	"Email administrateur",
	"Commerciaux",
	"Créée le",
}

var societeColumnWidths = []float64{30, 30, 16, 30, 12, 18, 14, 20, 8, 26, 30, 12, 18}

// Societes renders rows as an xlsx workbook.
func Societes(rows []SocieteRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(societeSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range societeHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(societeSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(societeSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(societeSheet, name, name, societeColumnWidths[col]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range rows {
		values := rowValues(row)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(societeSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func rowValues(row SocieteRow) []interface{} {
	s := row.Societe
	active := "Non"
	if s.IsActive {
		active = "Oui"
	}
	adminName, adminEmail := "", ""
	if s.Admin != nil {
		adminName, adminEmail = s.Admin.Name, s.Admin.Email
	}
	return []interface{}{
		s.Nom,
		s.Email,
		deref(s.Telephone),
		deref(s.Adresse),
		deref(s.CodePostal),
		deref(s.Ville),
		s.Pays,
		deref(s.Secteur),
		active,
		adminName,
		adminEmail,
		row.Commerciaux,
		s.CreatedAt.Format(time.DateOnly),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
