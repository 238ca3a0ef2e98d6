package infra

import (
	"fmt"
	"io"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/xuri/excelize/v2"
)

const hojaVentas = "Ventas"

var encabezadosVentas = []string{
	"Código", "Fecha", "Producto", "Cantidad", "Precio unitario", "Total",
	"Cliente", "Vendedor", "Rol", "Estado", "Motivo cancelación", "Cancelada en",
}

// EscribirVentasXLSX writes the sales history as a single-sheet workbook.
func EscribirVentasXLSX(w io.Writer, ventas []model.VentaProducto) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hojaVentas); err != nil {
		return err
	}

	for i, h := range encabezadosVentas {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(hojaVentas, cell, h); err != nil {
			return err
		}
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(encabezadosVentas), 1)
		_ = f.SetCellStyle(hojaVentas, "A1", last, style)
	}

	for i, v := range ventas {
		row := i + 2
		motivo, cancelada := "", ""
		if v.MotivoCancelacion != nil {
			motivo = *v.MotivoCancelacion
		}
		if v.CanceladaEn != nil {
			cancelada = v.CanceladaEn.Format("2006-01-02 15:04")
		}
		unit, _ := v.PrecioUnitario.Float64()
		total, _ := v.TotalVenta.Float64()
		values := []interface{}{
			v.CodigoVenta, v.FechaVenta.Format("2006-01-02 15:04"), v.NombreProducto, v.CantidadVendida,
			unit, total, v.NombreCliente, v.NombreVendedor, string(v.RolVendedor), v.EstadoVenta,
			motivo, cancelada,
		}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(hojaVentas, cell, val); err != nil {
				return fmt.Errorf("xlsx: fila %d: %w", row, err)
			}
		}
	}

	return f.Write(w)
}
