// Package answer turns freeform assistant answers into structured display
// sections.
//
// The answer worker is prompted to emit bilingual markdown of the form:
//
//	Intro prose before any header.
//
//	* **समस्या (Problem)**
//	Content lines, bullets, numbered items.
//	---
//	* **क्या करें (What to do)**
//	...
//
// Segment parses that shape deterministically and totally: separators are
// dropped, leading prose becomes a synthesized intro section, and input with
// no headers at all degrades to a single intro rather than an error.
//
// Classify assigns each headed section a fixed icon/color pair from an
// ordered bilingual keyword table; Disclosure decides which sections are
// shown before the user taps "read more".
package answer
