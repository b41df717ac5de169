package employee

// SyncState はローカルキャッシュとクラウドの間の照合状態を表します。
type SyncState string

const (
	// SyncStateLocalOnly はローカルにのみ存在し、クラウドでの存在が未確認の状態です。
	SyncStateLocalOnly SyncState = "local_only"
	// SyncStateCloudConfirmed はクラウドの読み取り結果で存在が確認された状態です。
	SyncStateCloudConfirmed SyncState = "cloud_confirmed"
)

// 空欄セルの代替値です。
const (
	PlaceholderName     = "unknown"
	PlaceholderPosition = "-"
)

// Employee は社員エンティティです。ID が同一であれば同じ社員とみなします。
type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Position   string    `json:"position"`
	BaseSalary float64   `json:"baseSalary"`
	JoinDate   string    `json:"joinDate"`
	State      SyncState `json:"syncState,omitempty"`
}

// Row はスプレッドシートの Employees!A:E に書き込む位置順の値を返します。
func (e Employee) Row() []any {
	return []any{e.ID, e.Name, e.Position, e.BaseSalary, e.JoinDate}
}
