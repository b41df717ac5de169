package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
	idPrefix    = "ATT-"
)

// NewID はローカルで採番する勤怠 ID を返します。
func NewID() string {
	return idPrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Normalize は追加入力を検証します。ID が空の場合は空のまま返します。
func Normalize(in Record) (Record, error) {
	out := Record{
		ID:           strings.TrimSpace(in.ID),
		EmployeeID:   strings.TrimSpace(in.EmployeeID),
		Date:         strings.TrimSpace(in.Date),
		ClockIn:      strings.TrimSpace(in.ClockIn),
		ClockOut:     strings.TrimSpace(in.ClockOut),
		DelayMinutes: in.DelayMinutes,
	}

	if out.EmployeeID == "" {
		return Record{}, ErrInvalidEmployeeID
	}
	if _, err := time.Parse(dateLayout, out.Date); err != nil {
		return Record{}, ErrInvalidDate
	}
	for _, clock := range []string{out.ClockIn, out.ClockOut} {
		if clock == "" {
			continue
		}
		if _, err := time.Parse(clockLayout, clock); err != nil {
			return Record{}, fmt.Errorf("%q: %w", clock, ErrInvalidClockTime)
		}
	}
	if out.DelayMinutes < 0 {
		return Record{}, ErrInvalidDelay
	}

	status, err := ParseStatus(string(in.Status))
	if err != nil {
		return Record{}, err
	}
	out.Status = status

	return out, nil
}
