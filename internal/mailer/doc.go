// Package mailer provides the outbound mail transports used to deliver
// simulation emails: an SMTP relay, the AWS SES v2 API, and a log-only
// transport for local development. All of them implement sending.Sender.
package mailer
