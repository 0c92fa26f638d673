package domain

// RecurrenceFrequency is how often a recurring appointment repeats.
type RecurrenceFrequency string

const (
	FrequencyWeekly   RecurrenceFrequency = "weekly"
	FrequencyBiweekly RecurrenceFrequency = "biweekly"
	FrequencyMonthly  RecurrenceFrequency = "monthly"
)

// ValidFrequency reports whether f is a supported frequency.
func ValidFrequency(f RecurrenceFrequency) bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// RecurrencePolicy decides how a recurring request handles occurrences
// that cannot be booked.
type RecurrencePolicy string

const (
	// PolicyBestEffort books every occurrence it can and reports the
	// failures per occurrence. This is the default.
	PolicyBestEffort RecurrencePolicy = "best_effort"

	// PolicyAllOrNothing aborts the whole request if any occurrence
	// cannot be booked.
	PolicyAllOrNothing RecurrencePolicy = "all_or_nothing"
)

// ValidPolicy reports whether p is a supported policy.
func ValidPolicy(p RecurrencePolicy) bool {
	return p == PolicyBestEffort || p == PolicyAllOrNothing
}

// RecurrenceConfig is a request-time instruction, never persisted on its
// own: the expander turns it into Count independent appointments.
type RecurrenceConfig struct {
	Frequency RecurrenceFrequency
	Count     int
	Policy    RecurrencePolicy
}
