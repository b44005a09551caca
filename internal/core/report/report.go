// Package report renders confusable-character check results as annotated text.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jidcheck/jidcheck/internal/core"
)

// DetailLimit is the maximum number of flagged characters listed individually.
const DetailLimit = 5

const (
	cleanIcon   = "✅"
	warningIcon = "⚠️"
	cautionIcon = "🚨"
	welcomeIcon = "👋"
	bullet      = "  •"
)

// Reporter renders results with a markup dialect and a message catalog.
// A Reporter holds no mutable state and is safe for concurrent use.
type Reporter struct {
	Markup   Markup
	Messages Messages
}

// New returns a Reporter. Nil markup selects HTML.
func New(markup Markup, messages Messages) *Reporter {
	if markup == nil {
		markup = HTML
	}
	if messages.Locale == "" {
		messages = MessagesRU
	}
	return &Reporter{Markup: markup, Messages: messages}
}

var defaultReporter = New(HTML, MessagesRU)

// Default returns the reporter matching the reference bot output:
// Telegram HTML with Russian wording.
func Default() *Reporter {
	return defaultReporter
}

// FormatResult renders result with the default reporter.
func FormatResult(input string, result core.CheckResult) string {
	return defaultReporter.Format(input, result)
}

// Format renders either the clean report or the flagged report for input.
func (r *Reporter) Format(input string, result core.CheckResult) string {
	if !result.HasFlagged {
		return r.formatClean(input)
	}
	return r.formatFlagged(input, result.Flagged)
}

func (r *Reporter) formatClean(input string) string {
	m := r.Markup
	var sb strings.Builder
	sb.WriteString(cleanIcon + " " + m.Bold(m.Escape(r.Messages.CleanTitle)))
	sb.WriteString("\n\n")
	sb.WriteString(m.Code(m.Escape(input)))
	sb.WriteString("\n\n")
	sb.WriteString(m.Escape(r.Messages.CleanBody))
	return sb.String()
}

func (r *Reporter) formatFlagged(input string, flagged []core.FlaggedCharacter) string {
	m := r.Markup
	var sb strings.Builder
	sb.WriteString(warningIcon + " " + m.Bold(m.Escape(r.Messages.FlaggedTitle)))
	sb.WriteString("\n\n")
	sb.WriteString(r.Highlight(input, flagged))
	sb.WriteString("\n\n")
	sb.WriteString(m.Bold(m.Escape(r.Messages.CountLabel)) + " " + strconv.Itoa(len(flagged)))
	sb.WriteString("\n")
	sb.WriteString(strings.Join(r.DetailLines(flagged), "\n"))
	sb.WriteString("\n\n")
	sb.WriteString(cautionIcon + " " + m.Escape(r.Messages.Caution))
	return sb.String()
}

// Highlight returns input as a code span with every flagged character
// underlined and bold. Other characters are unchanged, including bytes
// that are not valid UTF-8.
func (r *Reporter) Highlight(input string, flagged []core.FlaggedCharacter) string {
	m := r.Markup
	positions := core.NewCheckResult(input, flagged).Positions()

	var sb strings.Builder
	position := 0
	for i := 0; i < len(input); {
		_, size := utf8.DecodeRuneInString(input[i:])
		text := m.Escape(input[i : i+size])
		if _, ok := positions[position]; ok {
			text = m.Underline(m.Bold(text))
		}
		sb.WriteString(text)
		i += size
		position++
	}
	return m.Code(sb.String())
}

// DetailLines lists the first DetailLimit flagged characters, followed by a
// summary line when more were found.
func (r *Reporter) DetailLines(flagged []core.FlaggedCharacter) []string {
	m := r.Markup
	shown := flagged
	if len(shown) > DetailLimit {
		shown = shown[:DetailLimit]
	}

	lines := make([]string, 0, len(shown)+1)
	for _, f := range shown {
		line := fmt.Sprintf("%s %s %s", bullet, m.Code(m.Escape(string(f.Character))),
			m.Escape(fmt.Sprintf(r.Messages.PositionFormat, f.Position+1)))
		if f.HasLookalike() {
			line += fmt.Sprintf(" (%s %s)", m.Escape(r.Messages.LooksLike), m.Code(m.Escape(f.Lookalike)))
		}
		lines = append(lines, line)
	}

	if len(flagged) > DetailLimit {
		lines = append(lines, fmt.Sprintf("%s ... %s", bullet,
			m.Escape(fmt.Sprintf(r.Messages.MoreFormat, len(flagged)-DetailLimit))))
	}
	return lines
}

// Welcome renders the greeting shown for the start command.
func (r *Reporter) Welcome() string {
	m := r.Markup
	msg := r.Messages
	spoofed := "usеr@jabber.ru"
	genuine := "user@jabber.ru"

	var sb strings.Builder
	sb.WriteString(welcomeIcon + " " + m.Bold(m.Escape(msg.BotTitle)) + "\n\n")
	sb.WriteString(m.Escape(msg.WelcomeIntro) + "\n\n")
	sb.WriteString(m.Bold(m.Escape(msg.WelcomeHowTo)) + "\n")
	for _, step := range msg.WelcomeSteps {
		sb.WriteString("• " + m.Escape(step) + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s %s %s %s, %s\n\n",
		m.Escape(msg.WelcomeExample),
		m.Code(m.Escape(spoofed)),
		fmt.Sprintf(m.Escape(msg.WelcomeLooks), m.Bold("е")),
		m.Code(m.Escape(genuine)),
		m.Escape(msg.WelcomeDiffers),
	))
	sb.WriteString(m.Escape(msg.WelcomeTry) + " " + m.Code(m.Escape("/check "+genuine)))
	return sb.String()
}

// CheckPrompt renders the reply to a bare check command.
func (r *Reporter) CheckPrompt() string {
	m := r.Markup
	return m.Escape(r.Messages.CheckPrompt) + "\n" +
		m.Escape(r.Messages.CheckExample) + " " + m.Code(m.Escape("user@jabber.ru"))
}

// Rejection renders the user-facing message for an input policy error.
// It returns false when err is not a policy error.
func (r *Reporter) Rejection(err error, maxLength int) (string, bool) {
	m := r.Markup
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, core.ErrEmptyInput):
		return m.Escape(r.Messages.EmptyInput), true
	case errors.Is(err, core.ErrInputTooLong):
		return warningIcon + " " + m.Escape(fmt.Sprintf(r.Messages.TooLongFormat, maxLength)), true
	default:
		return "", false
	}
}
