package catalogfile

import (
	"bytes"
	"errors"
	"io"

	xls "github.com/extrame/xls"
	excelize "github.com/xuri/excelize/v2"
)

// readXLSX filas de la primera hoja.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return f.GetRows(f.GetSheetName(0))
}

// maxXLSCols columnas que se inspeccionan por fila en .xls (Row.LastCol no es confiable).
const maxXLSCols = 32

// readXLS filas de la primera hoja de un libro Excel 97-2003 (exportaciones de ERPs antiguos).
func readXLS(r io.Reader) ([][]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var wb *xls.WorkBook
	var lastErr error
	for _, charset := range []string{"utf-8", "windows-1252", "iso-8859-1"} {
		wb, lastErr = xls.OpenReader(bytes.NewReader(b), charset)
		if lastErr == nil && wb != nil {
			break
		}
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: no se pudo abrir el libro")
		}
		return nil, lastErr
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]string, maxXLSCols)
		if row != nil {
			for j := range cols {
				cols[j] = row.Col(j)
			}
		}
		rows = append(rows, cols)
	}
	return rows, nil
}
