package hrsync

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ogurasousui/hrsync/internal/core/attendance"
	"github.com/ogurasousui/hrsync/internal/core/employee"
	"github.com/ogurasousui/hrsync/internal/core/settings"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// ConfigurationLoader は接続パラメータの読み込みを抽象化します。
type ConfigurationLoader interface {
	Load(ctx context.Context) (settings.Configuration, error)
}

// EmployeeCache はローカルキャッシュの抽象です。
type EmployeeCache interface {
	Employees(ctx context.Context) ([]employee.Employee, error)
	PutEmployee(ctx context.Context, e employee.Employee) error
	MarkConfirmed(ctx context.Context, ids map[string]struct{}) (int, error)
	SaveMirror(ctx context.Context, employees []employee.Employee) error
}

// SheetReader はスプレッドシートの読み取りエンドポイントです。
// values が存在しない応答は空のスライスとして返します。
type SheetReader interface {
	ReadRange(ctx context.Context, cfg settings.Configuration, readRange string) ([][]string, error)
}

// AppendRequest は書き込みプロキシへ送る本文です。
type AppendRequest struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

// SheetWriter は書き込みプロキシです。送信に失敗した場合のみエラーを返します。
type SheetWriter interface {
	Append(ctx context.Context, proxyURL string, req AppendRequest) error
}

// UseCase は同期エンジンの公開インターフェースです。
type UseCase interface {
	IsConfigured(ctx context.Context) bool
	FetchEmployees(ctx context.Context) []employee.Employee
	FetchAttendance(ctx context.Context) []attendance.Record
	SendToCloud(ctx context.Context, targetRange string, rows [][]any) WriteOutcome
	AddEmployee(ctx context.Context, in employee.Employee) (*AddEmployeeResult, error)
	AddAttendance(ctx context.Context, in attendance.Record) (*AddAttendanceResult, error)
	SyncAll(ctx context.Context) SyncResult
}

// SyncResult は全件同期の結果です。
type SyncResult struct {
	Employees  []employee.Employee `json:"employees"`
	Attendance []attendance.Record `json:"attendance"`
	SyncedAt   time.Time           `json:"syncedAt"`
}

// AddEmployeeResult は社員追加の結果です。
type AddEmployeeResult struct {
	Employee employee.Employee
	Outcome  WriteOutcome
}

// AddAttendanceResult は勤怠追加の結果です。
type AddAttendanceResult struct {
	Record  attendance.Record
	Outcome WriteOutcome
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithClock は時刻の取得元を差し替えます。
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger はログ出力先を差し替えます。
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerators は社員 ID と勤怠 ID の採番関数を差し替えます。
func WithIDGenerators(employeeID, attendanceID func() string) Option {
	return func(s *Service) {
		if employeeID != nil {
			s.newEmployeeID = employeeID
		}
		if attendanceID != nil {
			s.newAttendanceID = attendanceID
		}
	}
}

// Service はクラウド読み取り・ローカルキャッシュ・書き込みプロキシを突き合わせる同期エンジンです。
// 接続パラメータは各操作の開始時に読み直します。
type Service struct {
	settings ConfigurationLoader
	cache    EmployeeCache
	reader   SheetReader
	writer   SheetWriter

	clock           Clock
	logger          *log.Logger
	newEmployeeID   func() string
	newAttendanceID func() string
}

var _ UseCase = (*Service)(nil)

// NewService は Service を生成します。
func NewService(cfg ConfigurationLoader, cache EmployeeCache, reader SheetReader, writer SheetWriter, opts ...Option) *Service {
	s := &Service{
		settings:        cfg,
		cache:           cache,
		reader:          reader,
		writer:          writer,
		clock:           realClock{},
		logger:          log.New(os.Stderr, "[hrsync] ", log.LstdFlags),
		newEmployeeID:   employee.NewID,
		newAttendanceID: attendance.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsConfigured は SheetID が設定されているかを返します。
func (s *Service) IsConfigured(ctx context.Context) bool {
	return s.loadConfiguration(ctx).IsConfigured()
}

// FetchEmployees はクラウドの社員とローカルキャッシュを ID で突き合わせた結果を返します。
// 読み取りの失敗は呼び出し元に伝えず、ローカルキャッシュだけを返します。
// 写し (cached_employees) は書き込み専用で、フォールバックには使いません。
func (s *Service) FetchEmployees(ctx context.Context) []employee.Employee {
	local := s.localEmployees(ctx)

	cfg := s.loadConfiguration(ctx)
	if !cfg.IsConfigured() || cfg.APIKey == "" {
		return local
	}

	rows, err := s.reader.ReadRange(ctx, cfg, EmployeesReadRange)
	if err != nil {
		s.logger.Printf("fetch employees: %v (falling back to cache)", err)
		return local
	}

	cloud := make([]employee.Employee, 0, len(rows))
	for i, row := range rows {
		e, err := decodeEmployeeRow(row, s.newEmployeeID)
		if err != nil {
			s.logger.Printf("fetch employees: skip %v", &rowError{table: "Employees", line: i + 2, err: err})
			continue
		}
		cloud = append(cloud, e)
	}

	if err := s.cache.SaveMirror(ctx, cloud); err != nil {
		s.logger.Printf("fetch employees: save mirror: %v", err)
	}
	if len(cloud) == 0 {
		return local
	}

	if n, err := s.cache.MarkConfirmed(ctx, employee.IDs(cloud)); err != nil {
		s.logger.Printf("fetch employees: mark confirmed: %v", err)
	} else if n > 0 {
		s.logger.Printf("fetch employees: %d local employee(s) confirmed by cloud", n)
	}

	return employee.Merge(cloud, local)
}

// FetchAttendance はクラウドの勤怠を返します。失敗時は空で、キャッシュは使いません。
func (s *Service) FetchAttendance(ctx context.Context) []attendance.Record {
	cfg := s.loadConfiguration(ctx)
	if !cfg.IsConfigured() || cfg.APIKey == "" {
		return []attendance.Record{}
	}

	rows, err := s.reader.ReadRange(ctx, cfg, AttendanceReadRange)
	if err != nil {
		s.logger.Printf("fetch attendance: %v", err)
		return []attendance.Record{}
	}

	records := make([]attendance.Record, 0, len(rows))
	for i, row := range rows {
		r, err := decodeAttendanceRow(row)
		if err != nil {
			s.logger.Printf("fetch attendance: skip %v", &rowError{table: "Attendance", line: i + 2, err: err})
			continue
		}
		records = append(records, r)
	}
	return records
}

// SendToCloud は rows を targetRange への追記としてプロキシに送信します。
func (s *Service) SendToCloud(ctx context.Context, targetRange string, rows [][]any) WriteOutcome {
	cfg := s.loadConfiguration(ctx)
	if !cfg.IsConfigured() {
		return OutcomeUnconfigured
	}

	if cfg.ProxyURL == "" {
		s.logger.Printf("send to cloud: no proxy url configured, %d row(s) for %s not persisted: %v", len(rows), targetRange, rows)
		return OutcomeNotPersisted
	}

	if err := s.writer.Append(ctx, cfg.ProxyURL, AppendRequest{Range: targetRange, Values: rows}); err != nil {
		s.logger.Printf("send to cloud: %s: %v", targetRange, err)
		return OutcomeTransportError
	}
	return OutcomeDispatched
}

// AddEmployee は社員をローカルキャッシュへ即時反映した後、クラウドへ書き込みます。
// 書き込みに失敗してもキャッシュは巻き戻しません。
func (s *Service) AddEmployee(ctx context.Context, in employee.Employee) (*AddEmployeeResult, error) {
	e, err := employee.Normalize(in)
	if err != nil {
		return nil, err
	}
	if e.ID == "" {
		e.ID = s.newEmployeeID()
	}
	e.State = employee.SyncStateLocalOnly

	if err := s.cache.PutEmployee(ctx, e); err != nil {
		return nil, fmt.Errorf("hrsync: cache employee %s: %w", e.ID, err)
	}

	outcome := s.SendToCloud(ctx, EmployeesAppendRange, [][]any{e.Row()})
	return &AddEmployeeResult{Employee: e, Outcome: outcome}, nil
}

// AddAttendance は勤怠記録をクラウドへ書き込みます。勤怠はキャッシュしません。
func (s *Service) AddAttendance(ctx context.Context, in attendance.Record) (*AddAttendanceResult, error) {
	r, err := attendance.Normalize(in)
	if err != nil {
		return nil, err
	}
	if r.ID == "" {
		r.ID = s.newAttendanceID()
	}

	outcome := s.SendToCloud(ctx, AttendanceAppendRange, [][]any{r.Row()})
	return &AddAttendanceResult{Record: r, Outcome: outcome}, nil
}

// SyncAll は社員と勤怠を続けて取得します。
func (s *Service) SyncAll(ctx context.Context) SyncResult {
	employees := s.FetchEmployees(ctx)
	records := s.FetchAttendance(ctx)
	return SyncResult{
		Employees:  employees,
		Attendance: records,
		SyncedAt:   s.clock.Now(),
	}
}

func (s *Service) loadConfiguration(ctx context.Context) settings.Configuration {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		s.logger.Printf("load configuration: %v (treating as unconfigured)", err)
		return settings.Configuration{}
	}
	return cfg
}

func (s *Service) localEmployees(ctx context.Context) []employee.Employee {
	local, err := s.cache.Employees(ctx)
	if err != nil {
		s.logger.Printf("read local cache: %v", err)
		return []employee.Employee{}
	}
	return local
}
