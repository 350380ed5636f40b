package ports

// EmailMessage is a single outbound email job.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends a single email synchronously. Implementations talk SMTP.
type Mailer interface {
	Send(msg EmailMessage) error
}

// Notifier accepts email jobs for best-effort asynchronous delivery. Enqueue
// must not fail the calling workflow: delivery errors are logged by the
// implementation and never retried.
type Notifier interface {
	Enqueue(msg EmailMessage)
}
