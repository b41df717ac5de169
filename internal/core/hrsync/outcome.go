package hrsync

// WriteOutcome はクラウドへの書き込み試行の結果です。
// プロキシの応答は観測しないため、Dispatched は「送信できた」ことだけを意味します。
type WriteOutcome string

const (
	// OutcomeUnconfigured は SheetID が未設定のため送信しなかったことを表します。
	OutcomeUnconfigured WriteOutcome = "unconfigured"
	// OutcomeNotPersisted はプロキシ URL が未設定で、行をログに出力しただけであることを表します。
	OutcomeNotPersisted WriteOutcome = "not_persisted"
	// OutcomeDispatched はプロキシへ送信できたことを表します。
	OutcomeDispatched WriteOutcome = "dispatched"
	// OutcomeTransportError は送信自体が失敗したことを表します。
	OutcomeTransportError WriteOutcome = "transport_error"
)

// Accepted は UI 向けに成功として扱うかを返します。
// NotPersisted は永続化されていませんが、ローカルキャッシュには反映済みのため成功扱いです。
func (o WriteOutcome) Accepted() bool {
	switch o {
	case OutcomeDispatched, OutcomeNotPersisted:
		return true
	default:
		return false
	}
}

// Durable はプロキシへの送信まで到達したかを返します。
func (o WriteOutcome) Durable() bool {
	return o == OutcomeDispatched
}

// WriteReport は WriteOutcome を呼び出し元へ返すための表現です。
type WriteReport struct {
	Outcome  WriteOutcome `json:"outcome"`
	Accepted bool         `json:"accepted"`
	Durable  bool         `json:"durable"`
}

// Report は WriteReport を返します。
func (o WriteOutcome) Report() WriteReport {
	return WriteReport{Outcome: o, Accepted: o.Accepted(), Durable: o.Durable()}
}
