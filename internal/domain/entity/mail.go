package entity

// OutboundEmail is a templated message handed to the mail sender. Dispatch is
// fire-and-forget: failures are logged, never propagated to the caller of the
// action that triggered them.
type OutboundEmail struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}
