package order

// Order lifecycle. PENDING is the initial status; CANCELLED and COMPLETED
// are terminal.
const (
	StatusPending   = "PENDING"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are defined from s.
func Terminal(s string) bool {
	return s == StatusCancelled || s == StatusCompleted
}
