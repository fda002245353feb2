package analyzer

import "fmt"

// Severity ranks a diagnostic. Only errors block compilation.
type Severity uint8

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	}
	return "Info"
}

// Message is one diagnostic produced during analysis.
type Message struct {
	Severity Severity
	Text     string
}

func (m Message) String() string {
	return m.Severity.String() + ": " + m.Text
}

func errorf(format string, args ...any) Message {
	return Message{Severity: Error, Text: fmt.Sprintf(format, args...)}
}

func warningf(format string, args ...any) Message {
	return Message{Severity: Warning, Text: fmt.Sprintf(format, args...)}
}

// HasErrors reports whether any message is error-severity.
func HasErrors(msgs []Message) bool {
	for _, m := range msgs {
		if m.Severity == Error {
			return true
		}
	}
	return false
}
