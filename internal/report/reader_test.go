package report

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/bobsantos/likha-app-sub000/internal/model"
)

func TestReadGrid_CSV(t *testing.T) {
	t.Parallel()

	data := []byte("Product,Net Sales\nWidget,100.50\nGadget,200.25\n")
	grid, err := ReadGrid("report.csv", data, 0)
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if len(grid.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(grid.Rows))
	}
	if grid.Rows[1][0] != "Widget" || grid.Rows[1][1] != "100.50" {
		t.Fatalf("unexpected row: %v", grid.Rows[1])
	}
}

func TestReadGrid_CSVWithBOM(t *testing.T) {
	t.Parallel()

	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("A,B\n1,2\n")...)
	grid, err := ReadGrid("report.csv", data, 0)
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if grid.Rows[0][0] != "A" {
		t.Fatalf("BOM not stripped: %q", grid.Rows[0][0])
	}
}

func TestReadGrid_Windows1252(t *testing.T) {
	t.Parallel()

	// "Café" with 0xE9, invalid as UTF-8.
	data := []byte{'C', 'a', 'f', 0xE9, ',', 'B', '\n', '1', ',', '2', '\n'}
	grid, err := ReadGrid("report.csv", data, 0)
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if grid.Rows[0][0] != "Café" {
		t.Fatalf("decoded = %q, want Café", grid.Rows[0][0])
	}
}

func TestReadGrid_BOMWithLegacyEncoding(t *testing.T) {
	t.Parallel()

	// A BOM on a file whose body is Windows-1252 must not leak the marker
	// into the first header cell.
	body := []byte{'C', 'a', 'f', 0xE9, ',', 'B', '\n', '1', ',', '2', '\n'}
	data := append([]byte{0xEF, 0xBB, 0xBF}, body...)
	grid, err := ReadGrid("report.csv", data, 0)
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if grid.Rows[0][0] != "Café" {
		t.Fatalf("decoded = %q, want Café", grid.Rows[0][0])
	}
}

func TestReadGrid_SemicolonDelimiter(t *testing.T) {
	t.Parallel()

	data := []byte("Product;Net Sales\nWidget;100\n")
	grid, err := ReadGrid("report.csv", data, 0)
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if len(grid.Rows[0]) != 2 || grid.Rows[0][1] != "Net Sales" {
		t.Fatalf("semicolon not guessed: %v", grid.Rows[0])
	}
}

func TestReadGrid_TSV(t *testing.T) {
	t.Parallel()

	data := []byte("Product\tNet Sales\nWidget\t100\n")
	grid, err := ReadGrid("report.tsv", data, 0)
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if len(grid.Rows[0]) != 2 {
		t.Fatalf("tab not used: %v", grid.Rows[0])
	}
}

func TestReadGrid_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := ReadGrid("report.pdf", []byte("%PDF-1.4"), 0)
	if !errors.Is(err, model.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestReadGrid_FileTooLarge(t *testing.T) {
	t.Parallel()

	_, err := ReadGrid("report.csv", make([]byte, 2048), 1024)
	if !errors.Is(err, model.ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}
}

func TestReadGrid_CorruptWorkbook(t *testing.T) {
	t.Parallel()

	_, err := ReadGrid("report.xlsx", []byte("not a zip archive"), 0)
	if !errors.Is(err, model.ErrCorruptFile) {
		t.Fatalf("err = %v, want ErrCorruptFile", err)
	}
}

func TestReadGrid_LegacyXLSRoutedByMagic(t *testing.T) {
	t.Parallel()

	// A truncated BIFF compound file must reach the legacy reader and fail
	// as corrupt, never bounce off as an unsupported format.
	data := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 16)...)
	_, err := ReadGrid("report.xls", data, 0)
	if errors.Is(err, model.ErrUnsupportedFormat) {
		t.Fatalf("legacy .xls rejected as unsupported: %v", err)
	}
	if err == nil {
		t.Fatalf("truncated BIFF file accepted")
	}
}

func TestReadGrid_XLSExtensionWithOOXMLContent(t *testing.T) {
	t.Parallel()

	// Export tools routinely write OOXML bytes under a .xls name; the
	// container signature decides the decoder.
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Product", "Net Sales"},
		{"Widget", 100},
		{"Gadget", 200},
	}
	for i, row := range rows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	grid, err := ReadGrid("report.xls", buf.Bytes(), 0)
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if len(grid.Rows) != 3 {
		t.Fatalf("rows = %d", len(grid.Rows))
	}
}

func TestReadGrid_Workbook(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	cells := [][]interface{}{
		{"Product", "Net Sales"},
		{"Widget", 100.5},
		{"Gadget", 200.25},
		{"Gizmo", 50},
	}
	for i, row := range cells {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	grid, err := ReadGrid("report.xlsx", buf.Bytes(), 0)
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if grid.SheetName != "Sheet1" {
		t.Fatalf("sheet = %q", grid.SheetName)
	}
	if len(grid.Rows) != 4 || grid.Rows[0][1] != "Net Sales" {
		t.Fatalf("unexpected rows: %v", grid.Rows)
	}
}

func TestReadGrid_WorkbookSkipsSparseActiveSheet(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	// Active sheet holds only a title; the real table lives on the second.
	if err := f.SetCellValue("Sheet1", "A1", "Cover"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if _, err := f.NewSheet("Data"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	rows := [][]interface{}{
		{"Product", "Net Sales"},
		{"Widget", 100},
		{"Gadget", 200},
	}
	for i, row := range rows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue("Data", cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	grid, err := ReadGrid("report.xlsx", buf.Bytes(), 0)
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if grid.SheetName != "Data" {
		t.Fatalf("sheet = %q, want Data", grid.SheetName)
	}
}
