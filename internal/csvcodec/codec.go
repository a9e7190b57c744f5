// Package csvcodec converts between the portal's comma-separated export format
// and student records. Fields are joined and split on bare commas with no
// quoting or escaping, matching the files the portal has always produced; a
// field containing a literal comma or newline shifts the columns after it.
package csvcodec

import (
	"strconv"
	"strings"

	"resultportal/internal/student"
)

// Header is the fixed export column order.
var Header = []string{
	"Name", "Roll Number", "Section", "Phone", "Email",
	"Enrollment Number", "Marks", "Result", "Percentage",
}

// Encode renders records under the fixed header. Ids and timestamps are not
// part of the format.
func Encode(records []student.Student) string {
	var b strings.Builder
	b.WriteString(strings.Join(Header, ","))
	for _, r := range records {
		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			r.Name,
			r.RollNumber,
			r.Section,
			r.Phone,
			r.Email,
			r.EnrollmentNumber,
			strconv.Itoa(r.Marks),
			r.Result,
			formatFloat(r.Percentage),
		}, ","))
	}
	return b.String()
}

// Decode parses text into records. The first line is a header; cells are
// lower-cased and trimmed, and columns are located by name so any column
// order works. Both "roll number" and "roll_number" spellings are accepted,
// the spaced one winning when both appear. Missing columns yield zero values,
// unparseable marks/percentage cells default to 0, and malformed rows produce
// partially-empty records instead of failing the batch.
func Decode(text string) []student.Student {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 {
		return nil
	}

	headers := strings.Split(strings.ToLower(lines[0]), ",")
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}

	var records []student.Student
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, ",")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		records = append(records, student.Student{
			Name:             cell(cells, index, "name"),
			RollNumber:       cellAlt(cells, index, "roll number", "roll_number"),
			Section:          cell(cells, index, "section"),
			Phone:            cell(cells, index, "phone"),
			Email:            cell(cells, index, "email"),
			EnrollmentNumber: cellAlt(cells, index, "enrollment number", "enrollment_number"),
			Marks:            parseInt(cell(cells, index, "marks")),
			Result:           cell(cells, index, "result"),
			Percentage:       parseFloat(cell(cells, index, "percentage")),
		})
	}
	return records
}

func cell(cells []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func cellAlt(cells []string, index map[string]int, spaced, underscored string) string {
	if _, ok := index[spaced]; ok {
		return cell(cells, index, spaced)
	}
	return cell(cells, index, underscored)
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
