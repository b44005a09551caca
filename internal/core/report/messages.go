package report

import "strings"

// Supported message locales.
const (
	LocaleRU = "ru"
	LocaleEN = "en"
)

// Messages holds the localized wording of every user-facing text.
// Fields ending in Format take a single integer argument.
type Messages struct {
	Locale string

	CleanTitle string
	CleanBody  string

	FlaggedTitle string
	CountLabel   string
	// PositionFormat receives the one-based position.
	PositionFormat string
	LooksLike      string
	// MoreFormat receives the number of omitted characters.
	MoreFormat string
	Caution    string

	BotTitle       string
	WelcomeIntro   string
	WelcomeHowTo   string
	WelcomeSteps   []string
	WelcomeExample string
	WelcomeLooks   string
	WelcomeDiffers string
	WelcomeTry     string
	CheckPrompt    string
	CheckExample   string
	EmptyInput     string
	// TooLongFormat receives the maximum allowed length.
	TooLongFormat string
}

// MessagesRU is the reference Russian wording.
var MessagesRU = Messages{
	Locale: LocaleRU,

	CleanTitle: "Jabber чистый",
	CleanBody:  "Кириллических символов не обнаружено. Можно использовать безопасно.",

	FlaggedTitle:   "Внимание! Обнаружена кириллица",
	CountLabel:     "Найдено символов:",
	PositionFormat: "на позиции %d",
	LooksLike:      "похож на",
	MoreFormat:     "и ещё %d",
	Caution:        "Это может быть подделка! Будьте осторожны.",

	BotTitle:     "Jabber Fake Checker",
	WelcomeIntro: "Проверяю Jabber ID на наличие кириллических символов.",
	WelcomeHowTo: "Как пользоваться:",
	WelcomeSteps: []string{
		"Отправь мне Jabber ID",
		"Получи результат проверки",
	},
	WelcomeExample: "Кидалы часто используют кириллицу вместо латиницы. Например,",
	WelcomeLooks:   "с русской %s выглядит как",
	WelcomeDiffers: "но это разные адреса.",
	WelcomeTry:     "Попробуй:",
	CheckPrompt:    "Отправь мне Jabber ID для проверки.",
	CheckExample:   "Например:",
	EmptyInput:     "Пожалуйста, отправь корректный Jabber ID.",
	TooLongFormat:  "Слишком длинная строка. Максимум %d символов.",
}

// MessagesEN is the English wording.
var MessagesEN = Messages{
	Locale: LocaleEN,

	CleanTitle: "Jabber ID is clean",
	CleanBody:  "No Cyrillic characters found. Safe to use.",

	FlaggedTitle:   "Warning! Cyrillic characters detected",
	CountLabel:     "Characters found:",
	PositionFormat: "at position %d",
	LooksLike:      "looks like",
	MoreFormat:     "and %d more",
	Caution:        "This may be a fake! Be careful.",

	BotTitle:     "Jabber Fake Checker",
	WelcomeIntro: "I check Jabber IDs for Cyrillic characters.",
	WelcomeHowTo: "How to use:",
	WelcomeSteps: []string{
		"Send me a Jabber ID",
		"Get the check result",
	},
	WelcomeExample: "Scammers often swap Latin letters for Cyrillic ones. For example,",
	WelcomeLooks:   "with a Cyrillic %s looks like",
	WelcomeDiffers: "but these are different addresses.",
	WelcomeTry:     "Try:",
	CheckPrompt:    "Send me a Jabber ID to check.",
	CheckExample:   "For example:",
	EmptyInput:     "Please send a valid Jabber ID.",
	TooLongFormat:  "The string is too long. Maximum is %d characters.",
}

// MessagesFor returns the catalog for locale, falling back to Russian.
func MessagesFor(locale string) Messages {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case LocaleEN:
		return MessagesEN
	default:
		return MessagesRU
	}
}

// SupportedLocale reports whether a catalog exists for locale.
func SupportedLocale(locale string) bool {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case LocaleRU, LocaleEN:
		return true
	default:
		return false
	}
}
