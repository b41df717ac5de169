package hrsync

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ogurasousui/hrsync/internal/core/attendance"
	"github.com/ogurasousui/hrsync/internal/core/employee"
)

// 読み取り範囲と追記範囲です。
const (
	EmployeesReadRange    = "Employees!A2:E"
	AttendanceReadRange   = "Attendance!A2:H"
	EmployeesAppendRange  = "Employees!A:E"
	AttendanceAppendRange = "Attendance!A:H"

	employeeColumns   = 5
	attendanceColumns = 8
)

// rowError は行単位のデコード失敗です。シート上の行番号を保持します。
type rowError struct {
	table string
	line  int
	err   error
}

func (e *rowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.table, e.line, e.err)
}

func (e *rowError) Unwrap() error {
	return e.err
}

// decodeEmployeeRow は Employees!A:E の 1 行を Employee に変換します。
// 数値として解釈できない給与は 0 とし、構造的に壊れた行だけをエラーにします。
func decodeEmployeeRow(row []string, newID func() string) (employee.Employee, error) {
	if err := checkShape(row, employeeColumns); err != nil {
		return employee.Employee{}, err
	}

	salary, err := parseSalary(cell(row, 3))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("base salary: %w", err)
	}

	e := employee.Employee{
		ID:         cell(row, 0),
		Name:       cell(row, 1),
		Position:   cell(row, 2),
		BaseSalary: salary,
		JoinDate:   cell(row, 4),
		State:      employee.SyncStateCloudConfirmed,
	}
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Name == "" {
		e.Name = employee.PlaceholderName
	}
	if e.Position == "" {
		e.Position = employee.PlaceholderPosition
	}
	return e, nil
}

// decodeAttendanceRow は Attendance!A:H の 1 行を Record に変換します。H 列は備考として無視します。
func decodeAttendanceRow(row []string) (attendance.Record, error) {
	if err := checkShape(row, attendanceColumns); err != nil {
		return attendance.Record{}, err
	}

	delay, err := parseDelay(cell(row, 5))
	if err != nil {
		return attendance.Record{}, fmt.Errorf("delay minutes: %w", err)
	}

	status, err := attendance.ParseStatus(cell(row, 6))
	if err != nil {
		return attendance.Record{}, fmt.Errorf("status %q: %w", cell(row, 6), err)
	}

	return attendance.Record{
		ID:           cell(row, 0),
		EmployeeID:   cell(row, 1),
		Date:         cell(row, 2),
		ClockIn:      cell(row, 3),
		ClockOut:     cell(row, 4),
		DelayMinutes: delay,
		Status:       status,
	}, nil
}

func checkShape(row []string, columns int) error {
	if len(row) > columns {
		return ErrTooManyCells
	}
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return nil
		}
	}
	return ErrBlankRow
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseSalary は先頭の数値部分を使います ("5,000 EGP" は 5000)。数値で始まらない値は 0 です。
func parseSalary(raw string) (float64, error) {
	prefix := numericPrefix(raw, true)
	if prefix == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, nil
	}
	if v < 0 {
		return 0, ErrNegativeNumber
	}
	return v, nil
}

// parseDelay は先頭の整数部分を使います ("15.7" と "15 min" は 15)。数値で始まらない値は 0 です。
func parseDelay(raw string) (int, error) {
	prefix := numericPrefix(raw, false)
	if prefix == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(prefix)
	if err != nil || v > math.MaxInt32 || v < math.MinInt32 {
		return 0, nil
	}
	if v < 0 {
		return 0, ErrNegativeNumber
	}
	return v, nil
}

// numericPrefix は桁区切りのカンマを除いた上で、先頭の符号付き数値を切り出します。
func numericPrefix(raw string, fraction bool) string {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if fraction && end < len(s) && s[end] == '.' {
		j := end + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > end+1 {
			digits += j - end - 1
			end = j
		}
	}

	if digits == 0 {
		return ""
	}
	return s[:end]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
