package records

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Column headers read from the first sheet
const (
	ColumnCIF       = "CIF"
	ColumnTrxType   = "TRX_TYPE"
	ColumnSubheader = "SUBHEADER"
)

// DefaultAcceptedTypes are the transaction types that count toward a customer's habits
var DefaultAcceptedTypes = []string{"Pembayaran", "Pembayaran Qris"}

// ErrMissingColumn is returned when the header row lacks a required column
var ErrMissingColumn = errors.New("missing column")

// Book is an open transaction workbook
type Book struct {
	file     *excelize.File
	path     string
	accepted map[string]bool
}

// Open reads the workbook at path. With no acceptedTypes, DefaultAcceptedTypes apply.
func Open(path string, acceptedTypes ...string) (*Book, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open workbook %s", path)
	}

	if len(acceptedTypes) == 0 {
		acceptedTypes = DefaultAcceptedTypes
	}
	accepted := make(map[string]bool, len(acceptedTypes))
	for _, t := range acceptedTypes {
		accepted[t] = true
	}

	return &Book{file: f, path: path, accepted: accepted}, nil
}

func (b *Book) Close() error {
	return b.file.Close()
}

// Categories returns the distinct SUBHEADER values of cif's accepted
// transactions in first-seen order. No match yields an empty slice.
func (b *Book) Categories(cif string) ([]string, error) {
	sheets := b.file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Errorf("workbook %s has no sheets", b.path)
	}

	rows, err := b.file.Rows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheets[0])
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Error(); err != nil {
			return nil, errors.WithStack(err)
		}
		return nil, errors.Wrap(ErrMissingColumn, ColumnCIF)
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cols, err := locate(header, ColumnCIF, ColumnTrxType, ColumnSubheader)
	if err != nil {
		return nil, err
	}
	cifCol, typeCol, subCol := cols[0], cols[1], cols[2]

	categories := []string{}
	seen := make(map[string]bool)
	for rows.Next() {
		row, err := rows.Columns()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !sameCIF(cell(row, cifCol), cif) || !b.accepted[cell(row, typeCol)] {
			continue
		}
		sub := cell(row, subCol)
		if sub == "" || seen[sub] {
			continue
		}
		seen[sub] = true
		categories = append(categories, sub)
	}
	if err := rows.Error(); err != nil {
		return nil, errors.WithStack(err)
	}

	return categories, nil
}

func locate(header []string, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = -1
		for j, h := range header {
			if strings.TrimSpace(h) == name {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return nil, errors.Wrap(ErrMissingColumn, name)
		}
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// sameCIF compares identifiers textually, or numerically when both parse
func sameCIF(value, cif string) bool {
	cif = strings.TrimSpace(cif)
	if value == cif {
		return true
	}
	a, errA := strconv.ParseFloat(value, 64)
	b, errB := strconv.ParseFloat(cif, 64)
	return errA == nil && errB == nil && a == b
}
