package textrange

import "unicode/utf16"

// UTF16Len returns the number of UTF-16 code units needed to encode s.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

// ByteOffset returns the byte offset in line of the given UTF-16 character
// offset. Offsets past the end of the line clamp to len(line), and an offset
// landing inside a surrogate pair rounds down to the start of its rune.
func ByteOffset(line string, character int) int {
	if character <= 0 {
		return 0
	}
	units := 0
	for i, r := range line {
		w := runeUnits(r)
		if units+w > character {
			return i
		}
		units += w
	}
	return len(line)
}

// Character returns the UTF-16 character offset of the given byte offset in line.
func Character(line string, byteOffset int) int {
	if byteOffset > len(line) {
		byteOffset = len(line)
	}
	if byteOffset <= 0 {
		return 0
	}
	return UTF16Len(line[:byteOffset])
}

func runeUnits(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
