package attendance

// Status is the attendance classification of one session.
type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusHalfDay Status = "HALF_DAY"
	StatusAbsent  Status = "ABSENT"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusHalfDay, StatusAbsent:
		return true
	}
	return false
}
