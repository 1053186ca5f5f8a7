package fuzztests

import (
	"testing"
)

const (
	maxSeedBytes = 16 << 10 // 16 KiB
	maxFuzzInput = 1 << 16  // 64 KiB
)

var exprSeeds = []string{
	"a",
	"a ==> b",
	"a ==> b ==> c",
	"(a ==> b) ==> c",
	"(a==>b)==>(c==>d)",
	"a ==> (b ==> c)",
	"((a ==> b)) ==> c",
	"(a && b) ==> c",
	"index < len(head) ==> lookup(head, index) >= 0",
	`s == "x ==> y" ==> ok`,
	"forall(|i: usize| i < n) ==> true",
	"a /* ==> */ ==> b",
	"changed, result ==> ok",
	"==> b",
	"a ==>",
	"(a ==> b",
	"a ==> b)",
	"()",
	"a ===> b",
	"f(a ==> b) ==> c",
	"forall(|i: usize| i < n ==> a[i] > 0)",
	"a && (b ==> c) ==> d",
}

var unitSeeds = []string{
	"[[item]]\nname = \"f\"\nrequires = [\"a ==> b\"]\n",
	"[unit]\nname = \"u\"\n[[item]]\nname = \"g\"\npure = true\nensures = [\"a ==> b ==> c\", \"(a ==> b) ==> c\"]\n",
	"[[item]]\nname = \"h\"\nafter_expiry_if = [\"changed, result ==> ok\"]\ninvariant = [\"x\"]\n",
	"[[item]]\nname = \"S\"\nkind = \"struct\"\ninvariant = [\"self.len > 0 ==> self.head != none\"]\n",
	"[[item]]\nname = \"f\"\nrequires = [\"a ==>\", \"(a ==> b) ==> c\"]\n",
}

func addExprSeeds(f *testing.F) {
	for _, s := range exprSeeds {
		f.Add(clampSeed([]byte(s)))
	}
}

func addUnitSeeds(f *testing.F) {
	for _, s := range unitSeeds {
		f.Add(clampSeed([]byte(s)))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
