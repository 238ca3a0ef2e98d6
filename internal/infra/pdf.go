package infra

// pdf.go: sale receipt generation using go-pdf/fpdf.
// Receipt-size page (74mm wide) with gym header, sale code, item line,
// total and, for cancelled sales, the cancellation stamp.

import (
	"fmt"
	"io"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/go-pdf/fpdf"
)

// EscribirReciboVenta renders the receipt of venta into w.
func EscribirReciboVenta(w io.Writer, gymNombre string, venta *model.VentaProducto) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 120},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, tr(gymNombre), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante de venta", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, tr("Venta "+venta.CodigoVenta), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.FechaVenta.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Cliente: "+venta.NombreCliente), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr(fmt.Sprintf("Atendió: %s (%s)", venta.NombreVendedor, venta.RolVendedor)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Item ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.50
	col2 := contentW * 0.18
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "P. unitario", "B", 1, "R", false, 0, "")

	nombre := venta.NombreProducto
	if r := []rune(nombre); len(r) > 24 {
		nombre = string(r[:23]) + "…"
	}
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1, 5, tr(nombre), "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", venta.CantidadVendida), "", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "$"+venta.PrecioUnitario.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+venta.TotalVenta.StringFixed(2), "", 1, "R", false, 0, "")

	if venta.Cancelada() {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(contentW, 6, "VENTA CANCELADA", "1", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 7)
		if venta.CanceladaEn != nil {
			pdf.CellFormat(contentW, 4, venta.CanceladaEn.Format("02/01/2006  15:04"), "", 1, "C", false, 0, "")
		}
		if venta.MotivoCancelacion != nil && *venta.MotivoCancelacion != "" {
			pdf.MultiCell(contentW, 4, tr("Motivo: "+*venta.MotivoCancelacion), "", "L", false)
		}
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write: %w", err)
	}
	return nil
}
