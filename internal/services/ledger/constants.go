package ledger

// All amounts are int64 paise.
const (
	// DefaultNotifyCreditThreshold is the minimum credit that triggers a
	// "wallet credited" notification. Product policy, not correctness;
	// override via Config.
	DefaultNotifyCreditThreshold int64 = 500

	DefaultPageSize = 20
	MaxPageSize     = 100
)
