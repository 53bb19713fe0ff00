package email

const (
	subjectEscalationFmt = "Lead escalated after wave %d"
	subjectBooking       = "Meeting booked"
)
