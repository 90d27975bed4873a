package domain

import "fmt"

// A NoticeKind classifies a user-visible message raised by an engine.
type NoticeKind string

const (
	NoticeAdded          NoticeKind = "added"
	NoticeUpdated        NoticeKind = "updated"
	NoticeReachedMax     NoticeKind = "reached_max"
	NoticeMaxReached     NoticeKind = "max_reached"
	NoticeRemoved        NoticeKind = "removed"
	NoticeCleared        NoticeKind = "cleared"
	NoticeAlreadyPresent NoticeKind = "already_present"
	NoticeLimitReached   NoticeKind = "limit_reached"
	NoticeOrderPlaced    NoticeKind = "order_placed"
)

// A Notice is a non-fatal outcome of an engine operation. The zero value
// means there is nothing to tell the user.
type Notice struct {
	Kind    NoticeKind
	Message string
}

func (n Notice) IsZero() bool {
	return n.Kind == ""
}

func notice(kind NoticeKind, format string, args ...any) Notice {
	return Notice{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
