// Package mail is the outbound-email collaborator of the account services.
// Only the Sender interface is consumed by the rest of the app; the SMTP
// implementation lives behind it.
package mail

import "context"

type Message struct {
	To      string
	From    string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg *Message) error
}
