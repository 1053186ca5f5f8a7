package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005

	// Парсерные
	SynInfo                 Code = 2000
	SynUnexpectedToken      Code = 2001
	SynEmptyContract        Code = 2002
	SynDanglingImplies      Code = 2003
	SynUnclosedDelimiter    Code = 2004
	SynUnmatchedDelimiter   Code = 2005
	SynEmptyGroup           Code = 2007
	SynExpectGuardSeparator Code = 2008
	SynInvalidToken         Code = 2009

	// Единица компиляции (unit file)
	UnitInfo              Code = 5000
	UnitMissingItemName   Code = 5001
	UnitDuplicateItem     Code = 5002
	UnitUnknownItemKind   Code = 5003
	UnitPureOnNonFn       Code = 5004
	UnitTrustedContracts  Code = 5005
	UnitEmptyOccurrence   Code = 5006
	UnitUnlocatedContract Code = 5007
	UnitInvalidItemName   Code = 5008

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Внутренние ошибки
	IntInfo           Code = 9000
	IntIDAllocation   Code = 9001
	IntConsistency    Code = 9002
	IntDesugarFailure Code = 9003
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexUnterminatedChar:         "Unterminated character literal",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynEmptyContract:            "Empty contract expression",
	SynDanglingImplies:          "Implication is missing an operand",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynUnmatchedDelimiter:       "Unmatched closing delimiter",
	SynEmptyGroup:               "Empty parenthesized group",
	SynExpectGuardSeparator:     "Expected ',' between guard and body",
	SynInvalidToken:             "Invalid token in contract",
	UnitInfo:                    "Compilation unit information",
	UnitMissingItemName:         "Item without a name",
	UnitDuplicateItem:           "Duplicate item name",
	UnitUnknownItemKind:         "Unknown item kind",
	UnitPureOnNonFn:             "'pure' applies to functions only",
	UnitTrustedContracts:        "Contracts on a trusted item",
	UnitEmptyOccurrence:         "Empty contract occurrence",
	UnitUnlocatedContract:       "Contract text not found in unit file",
	UnitInvalidItemName:         "Item name is not an identifier",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Pipeline timings",
	IntInfo:                     "Internal information",
	IntIDAllocation:             "Identifier allocation failed",
	IntConsistency:              "Specification consistency violated",
	IntDesugarFailure:           "Desugaring failed",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("UNT%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
