package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	radar "radar-austral/internal/radar/domain"
)

// Digest bundles the live collections for export rendering.
type Digest struct {
	GeneratedAt time.Time
	Items       []radar.ContentItem
	Alerts      []radar.Alert
	Indicators  *radar.IndicatorSnapshot
	Narrative   *radar.Summary
}

// BuildDigestPDF renders the current digest as a PDF.
func BuildDigestPDF(digest Digest) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Radar Austral - Resumen")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generado: %s", digest.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	if digest.Indicators != nil {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Indicadores")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("UF: %.2f", digest.Indicators.UF))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("Dolar: %.2f", digest.Indicators.USD))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("UTM: %.2f", digest.Indicators.UTM))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("IPC: %.2f", digest.Indicators.IPC))
		pdf.Ln(8)
	}

	if digest.Narrative != nil {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Pulso nacional")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, digest.Narrative.NationalPulse, "", "L", false)
		pdf.Ln(2)
		for _, conclusion := range digest.Narrative.Conclusions {
			pdf.SetFont("Arial", "B", 10)
			pdf.MultiCell(0, 5, "- "+conclusion.Point, "", "L", false)
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, conclusion.Explanation, "", "L", false)
			pdf.Ln(1)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Alerta", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Severidad", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Tipo", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Hora", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, alert := range digest.Alerts {
		pdf.CellFormat(70, 6, clip(alert.Title, 44), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, alert.Severity, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, alert.Kind, "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, alert.Timestamp.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Titulares")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	for _, item := range digest.Items {
		pdf.MultiCell(0, 5, fmt.Sprintf("[%s] %s", item.Category, item.Headline), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildDigestXLSX renders the current digest as a workbook.
func BuildDigestXLSX(digest Digest) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "resumen"
	alertsSheet := "alertas"
	itemsSheet := "titulares"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(alertsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Radar Austral - Resumen")
	_ = f.SetCellValue(summarySheet, "A2", "Generado")
	_ = f.SetCellValue(summarySheet, "B2", digest.GeneratedAt.Format(time.RFC3339))
	if digest.Indicators != nil {
		_ = f.SetCellValue(summarySheet, "A4", "UF")
		_ = f.SetCellValue(summarySheet, "B4", digest.Indicators.UF)
		_ = f.SetCellValue(summarySheet, "A5", "Dolar")
		_ = f.SetCellValue(summarySheet, "B5", digest.Indicators.USD)
		_ = f.SetCellValue(summarySheet, "A6", "UTM")
		_ = f.SetCellValue(summarySheet, "B6", digest.Indicators.UTM)
		_ = f.SetCellValue(summarySheet, "A7", "IPC")
		_ = f.SetCellValue(summarySheet, "B7", digest.Indicators.IPC)
	}
	if digest.Narrative != nil {
		_ = f.SetCellValue(summarySheet, "A9", "Pulso nacional")
		_ = f.SetCellValue(summarySheet, "B9", digest.Narrative.NationalPulse)
		for i, conclusion := range digest.Narrative.Conclusions {
			row := 10 + i
			_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), conclusion.Point)
			_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), conclusion.Explanation)
		}
	}

	_ = f.SetCellValue(alertsSheet, "A1", "Titulo")
	_ = f.SetCellValue(alertsSheet, "B1", "Severidad")
	_ = f.SetCellValue(alertsSheet, "C1", "Tipo")
	_ = f.SetCellValue(alertsSheet, "D1", "Hora")
	_ = f.SetCellValue(alertsSheet, "E1", "Fuente")
	for i, alert := range digest.Alerts {
		row := i + 2
		_ = f.SetCellValue(alertsSheet, fmt.Sprintf("A%d", row), alert.Title)
		_ = f.SetCellValue(alertsSheet, fmt.Sprintf("B%d", row), alert.Severity)
		_ = f.SetCellValue(alertsSheet, fmt.Sprintf("C%d", row), alert.Kind)
		_ = f.SetCellValue(alertsSheet, fmt.Sprintf("D%d", row), alert.Timestamp.Format(time.RFC3339))
		_ = f.SetCellValue(alertsSheet, fmt.Sprintf("E%d", row), alert.SourceTag)
	}

	_ = f.SetCellValue(itemsSheet, "A1", "Categoria")
	_ = f.SetCellValue(itemsSheet, "B1", "Titular")
	_ = f.SetCellValue(itemsSheet, "C1", "Fuente")
	_ = f.SetCellValue(itemsSheet, "D1", "Hora")
	_ = f.SetCellValue(itemsSheet, "E1", "URL")
	for i, item := range digest.Items {
		row := i + 2
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("A%d", row), item.Category)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("B%d", row), item.Headline)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("C%d", row), item.SourceName)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("D%d", row), item.Timestamp.Format(time.RFC3339))
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("E%d", row), item.URL)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clip(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max-3] + "..."
}
