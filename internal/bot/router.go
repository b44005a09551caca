package bot

import (
	"strings"
	"time"
	"unicode"

	"github.com/jidcheck/jidcheck/internal/core"
	"github.com/jidcheck/jidcheck/internal/core/confusable"
	"github.com/jidcheck/jidcheck/internal/core/report"
	apperrors "github.com/jidcheck/jidcheck/internal/errors"
	"github.com/jidcheck/jidcheck/internal/metrics"
)

// Reply kinds, also used as the metrics label for handled updates.
const (
	KindStart    = "start"
	KindCheck    = "check"
	KindText     = "text"
	KindRejected = "rejected"
	KindIgnored  = "ignored"
)

// Reply is the router's answer to one message. Empty Text sends nothing.
type Reply struct {
	Kind string
	Text string
}

// Router maps message text to replies.
type Router struct {
	Reporter  *report.Reporter
	MaxLength int
	// Username is the bot's own username. Commands addressed to another
	// bot with /cmd@name are ignored once it is set.
	Username string
}

// NewRouter returns a router rendering with reporter.
func NewRouter(reporter *report.Reporter, maxLength int) *Router {
	if reporter == nil {
		reporter = report.Default()
	}
	return &Router{Reporter: reporter, MaxLength: maxLength}
}

// Route answers a text message. /start greets, /check prompts or checks its
// argument, any other text is checked as an identifier.
func (r *Router) Route(text string) Reply {
	command, arg, ok := parseCommand(text)
	if ok {
		if target := commandTarget(command); target != "" && r.Username != "" && !strings.EqualFold(target, r.Username) {
			return Reply{Kind: KindIgnored}
		}
		switch commandName(command) {
		case "start":
			return Reply{Kind: KindStart, Text: r.Reporter.Welcome()}
		case "check":
			if strings.TrimSpace(arg) == "" {
				return Reply{Kind: KindCheck, Text: r.Reporter.CheckPrompt()}
			}
			return r.check(arg)
		}
	}
	return r.check(text)
}

func (r *Router) check(raw string) Reply {
	input, err := core.NormalizeInput(raw, r.MaxLength)
	if err != nil {
		metrics.RecordRejection(metrics.SourceBot, apperrors.InputPolicyReason(err))
		msg, _ := r.Reporter.Rejection(err, r.MaxLength)
		return Reply{Kind: KindRejected, Text: msg}
	}

	start := time.Now()
	result := confusable.Check(input)
	metrics.RecordCheck(metrics.SourceBot, len(result.Flagged), time.Since(start))
	return Reply{Kind: KindText, Text: r.Reporter.Format(input, result)}
}

// parseCommand splits "/cmd@bot arg" into its command and argument.
func parseCommand(text string) (command, arg string, ok bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return "", "", false
	}
	command, arg = trimmed, ""
	if idx := strings.IndexFunc(trimmed, unicode.IsSpace); idx >= 0 {
		command, arg = trimmed[:idx], trimmed[idx:]
	}
	if command == "/" {
		return "", "", false
	}
	return command, strings.TrimSpace(arg), true
}

func commandName(command string) string {
	name, _, _ := strings.Cut(strings.TrimPrefix(command, "/"), "@")
	return strings.ToLower(name)
}

func commandTarget(command string) string {
	_, target, _ := strings.Cut(command, "@")
	return target
}
