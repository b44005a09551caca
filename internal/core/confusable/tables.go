package confusable

// Watched range: the basic Cyrillic alphabet plus both forms of yo.
const (
	upperFirst = 'А' // U+0410
	upperLast  = 'Я' // U+042F
	lowerFirst = 'а' // U+0430
	lowerLast  = 'я' // U+044F
	upperYo    = 'Ё' // U+0401
	lowerYo    = 'ё' // U+0451
)

// lookalikes maps Cyrillic letters to the single Latin glyph they render like.
// Upper and lower case are mapped independently.
var lookalikes = map[rune]string{
	'а': "a", 'А': "A",
	'е': "e", 'Е': "E",
	'о': "o", 'О': "O",
	'р': "p", 'Р': "P",
	'с': "c", 'С': "C",
	'у': "y", 'У': "Y",
	'х': "x", 'Х': "X",
	'В': "B", 'К': "K",
	'М': "M", 'Н': "H",
	'Т': "T",
}
