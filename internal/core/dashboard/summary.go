package dashboard

import (
	"time"

	"github.com/ogurasousui/hrsync/internal/core/attendance"
	"github.com/ogurasousui/hrsync/internal/core/employee"
	"github.com/ogurasousui/hrsync/internal/core/settings"
)

const dateLayout = "2006-01-02"

// Summary はダッシュボードに表示する集計値です。
type Summary struct {
	CompanyName         string                    `json:"companyName"`
	Currency            string                    `json:"currency"`
	AccountingPeriod    settings.AccountingPeriod `json:"accountingPeriod"`
	Date                string                    `json:"date"`
	TotalEmployees      int                       `json:"totalEmployees"`
	LocalOnlyEmployees  int                       `json:"localOnlyEmployees"`
	MonthlyPayroll      float64                   `json:"monthlyPayroll"`
	StatusCounts        map[attendance.Status]int `json:"statusCounts"`
	RecordsOnDate       int                       `json:"recordsOnDate"`
	TotalDelayMinutes   int                       `json:"totalDelayMinutes"`
	AverageDelayMinutes float64                   `json:"averageDelayMinutes"`
}

// Summarize は社員と勤怠から day 当日分の集計を行います。
// 平均遅刻時間は遅刻として記録された件数で割ります。金額は app.Currency 建てです。
func Summarize(employees []employee.Employee, records []attendance.Record, day time.Time, app settings.AppSettings) Summary {
	s := Summary{
		CompanyName:      app.CompanyName,
		Currency:         app.Currency,
		AccountingPeriod: app.AccountingPeriod,
		Date:           day.Format(dateLayout),
		TotalEmployees: len(employees),
		StatusCounts: map[attendance.Status]int{
			attendance.StatusPresent: 0,
			attendance.StatusAbsent:  0,
			attendance.StatusLate:    0,
			attendance.StatusOnLeave: 0,
		},
	}

	for _, e := range employees {
		s.MonthlyPayroll += e.BaseSalary
		if e.State == employee.SyncStateLocalOnly {
			s.LocalOnlyEmployees++
		}
	}

	delayed := 0
	for _, r := range records {
		if r.Date != s.Date {
			continue
		}
		s.RecordsOnDate++
		s.StatusCounts[r.Status]++
		if r.DelayMinutes > 0 {
			s.TotalDelayMinutes += r.DelayMinutes
			delayed++
		}
	}
	if delayed > 0 {
		s.AverageDelayMinutes = float64(s.TotalDelayMinutes) / float64(delayed)
	}

	return s
}
