package domain

// Binding links a Telegram account to exactly one panel account. At most one
// Telegram account may hold a given email at any time.
type Binding struct {
	TelegramID  int64
	Email       string
	Streak      int
	LastCheckin string // ISO date in the process reference zone, empty until the first check-in
}

// PanelUser is a point-in-time snapshot of a panel account row. It is never
// cached across requests; totals after a credit are computed from the snapshot
// plus the delta rather than re-read.
type PanelUser struct {
	ID             int64
	Email          string
	TransferEnable int64
	Upload         int64
	Download       int64
	PlanID         int64
	ExpiredAt      *int64 // epoch seconds, nil means the plan never expires
}

// Reason tags the origin of a check-in multiplier. The transport layer owns
// turning these into user-facing text.
type Reason string

const (
	ReasonDaily    Reason = "daily"
	ReasonCritical Reason = "critical"
	ReasonStreak7  Reason = "streak-7"
	ReasonStreak14 Reason = "streak-14"
	ReasonStreak21 Reason = "streak-21"
)

// CheckinResult is the outcome of a successful check-in.
type CheckinResult struct {
	Streak      int
	Multiplier  float64
	Reason      Reason
	Critical    bool
	RewardBytes int64
	NewTotal    int64
	PlanName    string
	Account     PanelUser
}

// BindResult is the outcome of a successful bind.
type BindResult struct {
	Email          string
	PlanName       string
	TransferEnable int64
}
