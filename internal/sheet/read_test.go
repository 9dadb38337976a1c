package sheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/costline/internal/sheet"
)

func workbook(t *testing.T, sheetName string, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheetName != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheetName))
	}

	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheetName, axis, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	return buf.Bytes()
}

func TestRead_WorkbookKeepsCellTypes(t *testing.T) {
	buf := workbook(t, "Sheet1", [][]any{
		{"Job", "Project Number", "Budget"},
		{"00123", "24-5-072", 1234.5},
	})

	got, err := sheet.Read(buf, sheet.Options{})
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)

	assert.Equal(t, sheet.FormatWorkbook, got.Format)
	assert.Equal(t, "Sheet1", got.Name)

	row := got.Rows[1]
	assert.Equal(t, sheet.Text("00123"), row[0])
	assert.Equal(t, sheet.Text("24-5-072"), row[1])
	assert.Equal(t, sheet.KindNumber, row[2].Kind)
	assert.InDelta(t, 1234.5, row[2].Number, 0.0001)
}

func TestRead_WorkbookNamedSheet(t *testing.T) {
	buf := workbook(t, "Summary", [][]any{{"Job", "Name", "EAC"}})

	got, err := sheet.Read(buf, sheet.Options{SheetName: "Summary"})
	require.NoError(t, err)
	assert.Equal(t, "Summary", got.Name)

	_, err = sheet.Read(buf, sheet.Options{SheetName: "Missing"})
	assert.ErrorIs(t, err, sheet.ErrUnreadable)
}

func TestRead_Delimited(t *testing.T) {
	type args struct {
		content []byte
	}

	type testCase struct {
		name   string
		args   args
		verify func(t *testing.T, s *sheet.Sheet)
	}

	tests := []testCase{
		{
			name: "Comma",
			args: args{content: []byte("Job,Name,Budget\n24-5-072,Ashburn DC,\"$1,234.56\"\n")},
			verify: func(t *testing.T, s *sheet.Sheet) {
				require.Len(t, s.Rows, 2)
				assert.Equal(t, sheet.Text("$1,234.56"), s.Rows[1][2])
			},
		},
		{
			name: "Semicolon",
			args: args{content: []byte("Job;Name;Budget\n24-5-072;Ashburn DC;10,5\n")},
			verify: func(t *testing.T, s *sheet.Sheet) {
				require.Len(t, s.Rows[1], 3)
				assert.Equal(t, sheet.Text("10,5"), s.Rows[1][2])
			},
		},
		{
			name: "Tab",
			args: args{content: []byte("Job\tName\tBudget\n24-5-072\t\t100\n")},
			verify: func(t *testing.T, s *sheet.Sheet) {
				assert.Equal(t, sheet.KindEmpty, s.Rows[1][1].Kind)
			},
		},
		{
			name: "UTF8BOM",
			args: args{content: append([]byte{0xEF, 0xBB, 0xBF}, []byte("Job,Name,Budget\n")...)},
			verify: func(t *testing.T, s *sheet.Sheet) {
				assert.Equal(t, sheet.Text("Job"), s.Rows[0][0])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sheet.Read(tt.args.content, sheet.Options{})
			require.NoError(t, err)
			assert.Equal(t, sheet.FormatDelimited, got.Format)

			tt.verify(t, got)
		})
	}
}

func TestRead_DelimitedLatin1(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Job,Name,Budget\n24-5-072,Café Réno,100\n"))
	require.NoError(t, err)

	got, err := sheet.Read(latin1, sheet.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Café Réno", got.Rows[1][1].String())
}

func TestRead_Unreadable(t *testing.T) {
	tests := map[string][]byte{
		"Empty":       nil,
		"Whitespace":  []byte("  \n "),
		"CorruptZip":  []byte("PK\x03\x04not really a workbook"),
		"BinaryBytes": {0x01, 0x00, 0x02, 0x00},
	}

	for name, buf := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := sheet.Read(buf, sheet.Options{})
			assert.ErrorIs(t, err, sheet.ErrUnreadable)
		})
	}
}

func TestRead_LegacyWorkbook(t *testing.T) {
	ole := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 504)...)

	_, err := sheet.Read(ole, sheet.Options{})

	assert.ErrorIs(t, err, sheet.ErrLegacyWorkbook)
	assert.ErrorIs(t, err, sheet.ErrUnreadable)
	assert.ErrorContains(t, err, "save as .xlsx")
}

func TestCell_String(t *testing.T) {
	assert.Equal(t, "2450", sheet.Number(2450).String())
	assert.Equal(t, "12.75", sheet.Number(12.75).String())
	assert.Equal(t, "abc", sheet.Text("  abc ").String())
	assert.Equal(t, "", sheet.Empty().String())
	assert.True(t, sheet.Text("   ").IsBlank())
	assert.False(t, sheet.Number(0).IsBlank())
	assert.Equal(t, 2, sheet.NonBlank([]sheet.Cell{sheet.Text("a"), sheet.Empty(), sheet.Number(1)}))
	assert.Equal(t, sheet.Empty(), sheet.At([]sheet.Cell{sheet.Text("a")}, 4))
}
