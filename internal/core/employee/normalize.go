package employee

import (
	"math"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Normalize は追加入力を検証し、前後の空白を除去した Employee を返します。
// ID が空の場合は空のまま返し、採番は呼び出し側に任せます。
func Normalize(in Employee) (Employee, error) {
	out := Employee{
		ID:         strings.TrimSpace(in.ID),
		Name:       strings.TrimSpace(in.Name),
		Position:   strings.TrimSpace(in.Position),
		BaseSalary: in.BaseSalary,
		JoinDate:   strings.TrimSpace(in.JoinDate),
		State:      in.State,
	}

	if out.Name == "" {
		return Employee{}, ErrInvalidName
	}
	if out.Position == "" {
		out.Position = PlaceholderPosition
	}
	if math.IsNaN(out.BaseSalary) || math.IsInf(out.BaseSalary, 0) || out.BaseSalary < 0 {
		return Employee{}, ErrInvalidSalary
	}
	if out.JoinDate != "" {
		if _, err := time.Parse(dateLayout, out.JoinDate); err != nil {
			return Employee{}, ErrInvalidJoinDate
		}
	}

	return out, nil
}
