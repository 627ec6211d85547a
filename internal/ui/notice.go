package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/TransformoDocs/internal/emoji"
)

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

type notice struct {
	text string
	kind noticeKind
	seq  int
}

// noticeBoard holds the transient notice of one view. Each notice gets a
// sequence number so an older timer cannot clear a newer notice.
type noticeBoard struct {
	view    int
	seq     int
	current notice
}

func (b *noticeBoard) show(text string, kind noticeKind, d time.Duration) tea.Cmd {
	b.seq++
	b.current = notice{text: text, kind: kind, seq: b.seq}

	view, seq := b.view, b.seq
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearNoticeMsg{view: view, seq: seq}
	})
}

func (b *noticeBoard) clear(msg clearNoticeMsg) {
	if msg.seq == b.current.seq {
		b.current = notice{}
	}
}

func (b *noticeBoard) text() string {
	return b.current.text
}

func (b *noticeBoard) render(styles *Styles) string {
	if b.current.text == "" {
		return ""
	}
	switch b.current.kind {
	case noticeSuccess:
		return styles.Success.Render(emoji.GetEmoji("clipboard") + " " + b.current.text)
	case noticeError:
		return styles.Error.Render(emoji.GetEmoji("warning") + " " + b.current.text)
	default:
		return styles.Muted.Render(emoji.GetEmoji("info") + " " + b.current.text)
	}
}
