package mask

// Class is the closed set of section kinds a pattern character compiles to.
// Behaviour per class is matched exhaustively by the editor.
type Class int

const (
	DigitOptional  Class = iota // 9, #
	DigitRequired               // 0
	SignMarker                  // -, +
	DecimalPoint                // .
	GroupSeparator              // ,
	LiteralChar                 // any other character
	AlphaLetter                 // l (letter), a (letter or digit)
	AlphaDigit                  // H/h hex, O/o octal, D/d decimal
	FreeText                    // c (required), _ (optional)
	Separator                   // space ; : / and \-escaped characters
	Currency                    // ¤, expands to the locale currency symbol
)

func (c Class) String() string {
	switch c {
	case DigitOptional:
		return "DigitOptional"
	case DigitRequired:
		return "DigitRequired"
	case SignMarker:
		return "SignMarker"
	case DecimalPoint:
		return "DecimalPoint"
	case GroupSeparator:
		return "GroupSeparator"
	case LiteralChar:
		return "LiteralChar"
	case AlphaLetter:
		return "AlphaLetter"
	case AlphaDigit:
		return "AlphaDigit"
	case FreeText:
		return "FreeText"
	case Separator:
		return "Separator"
	case Currency:
		return "Currency"
	default:
		return "Unknown"
	}
}

// Fillable reports whether user input may change sections of this class.
func (c Class) Fillable() bool {
	switch c {
	case DigitOptional, DigitRequired, SignMarker, AlphaLetter, AlphaDigit, FreeText:
		return true
	default:
		return false
	}
}

// Numeric reports whether the class belongs to a numeric sub-field.
func (c Class) Numeric() bool {
	switch c {
	case DigitOptional, DigitRequired, SignMarker, DecimalPoint, GroupSeparator:
		return true
	default:
		return false
	}
}

// Digit reports whether the class holds one decimal digit.
func (c Class) Digit() bool {
	return c == DigitOptional || c == DigitRequired
}

// Skippable reports whether typing the section's own text moves the cursor
// past it. Grouping separators are never typed.
func (c Class) Skippable() bool {
	switch c {
	case LiteralChar, Separator, DecimalPoint, Currency:
		return true
	default:
		return false
	}
}

// SubFieldKind groups compatible classes for word-wise movement and shifting.
type SubFieldKind int

const (
	NumericField SubFieldKind = iota
	HexField
	OctalField
	DecimalField
	TextField
)

func (k SubFieldKind) String() string {
	switch k {
	case NumericField:
		return "numeric"
	case HexField:
		return "hex"
	case OctalField:
		return "octal"
	case DecimalField:
		return "decimal"
	case TextField:
		return "text"
	default:
		return "unknown"
	}
}
