// Package notify renders user-facing status messages with consistent
// symbols and colors across all homelab commands.
package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	fcolor "github.com/fatih/color"
	"github.com/homelab-dev/homelab/pkg/ui/timer"
)

// MessageType defines the type of notification message.
type MessageType int

// Message type constants. Each type determines the message styling.
const (
	// ErrorType renders red with a ✗ symbol.
	ErrorType MessageType = iota
	// WarningType renders yellow with a ⚠ symbol.
	WarningType
	// ActivityType renders plain with a ► symbol.
	ActivityType
	// SuccessType renders green with a ✔ symbol.
	SuccessType
	// InfoType renders blue with a ℹ symbol.
	InfoType
	// TitleType renders bold with a leading emoji.
	TitleType
)

// Message represents a notification to be displayed to the user.
type Message struct {
	// Type determines the message styling (color, symbol).
	Type MessageType
	// Content is the message text, optionally with format specifiers.
	Content string
	// Args are format arguments for Content.
	Args []any
	// Emoji customizes the icon of TitleType messages.
	Emoji string
	// Timer, when set on a SuccessType message, appends a timing block.
	Timer timer.Timer
	// Writer is the output destination. Defaults to os.Stdout when nil.
	Writer io.Writer
}

// Errorf writes an error message to the writer.
func Errorf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ErrorType, Content: format, Args: args, Writer: writer})
}

// Warningf writes a warning message to the writer.
func Warningf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: WarningType, Content: format, Args: args, Writer: writer})
}

// Activityf writes an activity/progress message to the writer.
func Activityf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ActivityType, Content: format, Args: args, Writer: writer})
}

// Successf writes a success message to the writer.
func Successf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Writer: writer})
}

// SuccessWithTimerf writes a success message followed by timing information.
func SuccessWithTimerf(writer io.Writer, tmr timer.Timer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Timer: tmr, Writer: writer})
}

// Infof writes an informational message to the writer.
func Infof(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: InfoType, Content: format, Args: args, Writer: writer})
}

// Titlef writes a title message with an emoji to the writer.
func Titlef(writer io.Writer, emoji, format string, args ...any) {
	WriteMessage(Message{
		Type:    TitleType,
		Content: fmt.Sprintf(format, args...),
		Emoji:   emoji,
		Writer:  writer,
	})
}

// WriteMessage writes a formatted message based on the message configuration.
//
// For simpler call sites, prefer the convenience functions Errorf, Warningf,
// Activityf, Successf, Infof and Titlef.
func WriteMessage(msg Message) {
	if msg.Writer == nil {
		msg.Writer = os.Stdout
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(msg.Content, msg.Args...)
	}

	config := styleFor(msg.Type)

	content = indentMultiline(content, config.symbol)

	if msg.Type == TitleType {
		emoji := msg.Emoji
		if emoji == "" {
			emoji = "ℹ️"
		}

		_, err := config.color.Fprintf(msg.Writer, "%s %s\n", emoji, content)
		handlePrintError(err)

		return
	}

	_, err := config.color.Fprintf(msg.Writer, "%s%s\n", config.symbol, content)
	handlePrintError(err)

	if msg.Type == SuccessType && msg.Timer != nil {
		total, stage := msg.Timer.GetTiming()

		_, err = config.color.Fprintf(msg.Writer, "⏲ stage: %s (total: %s)\n", stage, total)
		handlePrintError(err)
	}
}

type style struct {
	symbol string
	color  *fcolor.Color
}

func styleFor(msgType MessageType) style {
	switch msgType {
	case ErrorType:
		return style{symbol: "✗ ", color: fcolor.New(fcolor.FgRed)}
	case WarningType:
		return style{symbol: "⚠ ", color: fcolor.New(fcolor.FgYellow)}
	case ActivityType:
		return style{symbol: "► ", color: fcolor.New(fcolor.Reset)}
	case SuccessType:
		return style{symbol: "✔ ", color: fcolor.New(fcolor.FgGreen)}
	case InfoType:
		return style{symbol: "ℹ ", color: fcolor.New(fcolor.FgBlue)}
	case TitleType:
		return style{symbol: "", color: fcolor.New(fcolor.Reset, fcolor.Bold)}
	default:
		return style{symbol: "", color: fcolor.New(fcolor.Reset)}
	}
}

// handlePrintError logs print failures to stderr instead of returning them,
// so a broken pipe never masks the command's real result.
func handlePrintError(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to print message: %v\n", err)
	}
}

// indentMultiline aligns continuation lines under the first line's symbol.
func indentMultiline(content, symbol string) string {
	if symbol == "" || !strings.Contains(content, "\n") {
		return content
	}

	indent := strings.Repeat(" ", len([]rune(symbol)))
	lines := strings.Split(content, "\n")

	for i := 1; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}

		lines[i] = indent + lines[i]
	}

	return strings.Join(lines, "\n")
}
