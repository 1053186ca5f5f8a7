package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwTrue represents the 'true' literal.
	KwTrue
	// KwFalse represents the 'false' literal.
	KwFalse
	IntLit
	FloatLit
	StringLit
	// CharLit covers 'c' literals; a lone quote followed by an identifier is a Lifetime.
	CharLit
	Lifetime

	// Implies is the contract implication operator `==>`.
	Implies

	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Assign     // =
	EqEq       // ==
	Bang       // !
	BangEq     // !=
	Lt         // <
	LtEq       // <=
	Gt         // >
	GtEq       // >=
	Shl        // <<
	Shr        // >>
	Amp        // &
	Pipe       // |
	Caret      // ^
	AndAnd     // &&
	OrOr       // ||
	Question   // ?
	Colon      // :
	ColonColon // ::
	Semicolon  // ;
	Comma      // ,
	Dot        // .
	DotDot     // ..
	DotDotEq   // ..=
	Arrow      // ->
	FatArrow   // =>
	Hash       // #
	At         // @
	Dollar     // $
	Underscore // _
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]
)

var kindNames = [...]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	Ident:      "Ident",
	KwTrue:     "KwTrue",
	KwFalse:    "KwFalse",
	IntLit:     "IntLit",
	FloatLit:   "FloatLit",
	StringLit:  "StringLit",
	CharLit:    "CharLit",
	Lifetime:   "Lifetime",
	Implies:    "Implies",
	Plus:       "Plus",
	Minus:      "Minus",
	Star:       "Star",
	Slash:      "Slash",
	Percent:    "Percent",
	Assign:     "Assign",
	EqEq:       "EqEq",
	Bang:       "Bang",
	BangEq:     "BangEq",
	Lt:         "Lt",
	LtEq:       "LtEq",
	Gt:         "Gt",
	GtEq:       "GtEq",
	Shl:        "Shl",
	Shr:        "Shr",
	Amp:        "Amp",
	Pipe:       "Pipe",
	Caret:      "Caret",
	AndAnd:     "AndAnd",
	OrOr:       "OrOr",
	Question:   "Question",
	Colon:      "Colon",
	ColonColon: "ColonColon",
	Semicolon:  "Semicolon",
	Comma:      "Comma",
	Dot:        "Dot",
	DotDot:     "DotDot",
	DotDotEq:   "DotDotEq",
	Arrow:      "Arrow",
	FatArrow:   "FatArrow",
	Hash:       "Hash",
	At:         "At",
	Dollar:     "Dollar",
	Underscore: "Underscore",
	LParen:     "LParen",
	RParen:     "RParen",
	LBrace:     "LBrace",
	RBrace:     "RBrace",
	LBracket:   "LBracket",
	RBracket:   "RBracket",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// Closer returns the closing delimiter for an opening one.
func (k Kind) Closer() (Kind, bool) {
	switch k {
	case LParen:
		return RParen, true
	case LBracket:
		return RBracket, true
	case LBrace:
		return RBrace, true
	default:
		return Invalid, false
	}
}

// IsOpenDelim reports whether k opens a nested group.
func (k Kind) IsOpenDelim() bool {
	_, ok := k.Closer()
	return ok
}

// IsCloseDelim reports whether k closes a nested group.
func (k Kind) IsCloseDelim() bool {
	return k == RParen || k == RBracket || k == RBrace
}
