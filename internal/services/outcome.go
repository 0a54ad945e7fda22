package services

// Outcome distinguishes a clean success from a degraded one. The booking
// flow deliberately reports most internal faults as degraded-but-accepted
// so a user-facing checkout is never blocked by backend data gaps; keeping
// the three states separate lets callers and tests tell them apart while
// the HTTP layer still maps both OK and Degraded to a 200 response.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeDegraded Outcome = "degraded"
	OutcomeFailed   Outcome = "failed"
)

// Accepted reports whether callers should treat the operation as successful
func (o Outcome) Accepted() bool {
	return o == OutcomeOK || o == OutcomeDegraded
}
