package attendance

import "strings"

// Status は勤怠の状態です。
type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusLate    Status = "LATE"
	StatusOnLeave Status = "ON_LEAVE"
)

// シートに手入力されるアラビア語の表記です。
var statusLabels = map[string]Status{
	"حاضر":  StatusPresent,
	"غائب":  StatusAbsent,
	"تأخير": StatusLate,
	"إجازة": StatusOnLeave,
}

// Record は 1 日分の勤怠記録です。EmployeeID の参照整合性は検証しません。
type Record struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employeeId"`
	Date         string `json:"date"`
	ClockIn      string `json:"clockIn"`
	ClockOut     string `json:"clockOut"`
	DelayMinutes int    `json:"delayMinutes"`
	Status       Status `json:"status"`
}

// Row はスプレッドシートの Attendance シートに書き込む位置順の値を返します。
func (r Record) Row() []any {
	return []any{r.ID, r.EmployeeID, r.Date, r.ClockIn, r.ClockOut, r.DelayMinutes, string(r.Status)}
}

// ParseStatus は列挙名 (大文字小文字を区別しない) またはアラビア語表記を Status に変換します。
func ParseStatus(raw string) (Status, error) {
	trimmed := strings.TrimSpace(raw)
	if status, ok := statusLabels[trimmed]; ok {
		return status, nil
	}

	candidate := Status(strings.ToUpper(strings.ReplaceAll(trimmed, " ", "_")))
	if candidate.Valid() {
		return candidate, nil
	}
	return "", ErrInvalidStatus
}

// Valid は列挙値として有効かを返します。
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusOnLeave:
		return true
	default:
		return false
	}
}
