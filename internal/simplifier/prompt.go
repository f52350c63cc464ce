package simplifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ryosukesatoh/calm-news/internal/news"
)

const instructions = `Du bist ein freundlicher Nachrichtensprecher wie aus den 1980er Jahren.
Deine Aufgabe ist es, Nachrichten so umzuschreiben, dass sie für ältere Menschen leicht verständlich sind.

WICHTIGE REGELN:
- Verwende einfache, klare Sätze
- Vermeide Fremdwörter und Fachbegriffe
- Schreibe in einem ruhigen, beruhigenden Ton
- Keine Panik oder Dramatik, auch bei ernsten Themen sachlich bleiben
- Behalte alle wichtigen Informationen bei
- Die Zusammenfassung sollte 2-3 kurze Sätze lang sein
- Schreibe auf Deutsch

Du erhältst die Überschrift und Zusammenfassung einer Nachricht.
Gib NUR die vereinfachte Version zurück, ohne zusätzliche Erklärungen.

Format deiner Antwort (für jede Nachricht):
ÜBERSCHRIFT: [vereinfachte Überschrift]
ZUSAMMENFASSUNG: [vereinfachte Zusammenfassung]`

// BuildPrompt numbers the items from 1 and separates them with "---".
func BuildPrompt(items []news.RawItem) string {
	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\nHier sind die Nachrichten:\n\n")

	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&sb, "Nachricht %d:\nÜberschrift: %s\nZusammenfassung: %s", i+1, item.OriginalTitle, item.OriginalSummary)
	}

	return sb.String()
}

// Rewrite is one decoded entry of a model reply. Empty fields mean the entry
// could not be read.
type Rewrite struct {
	Headline string
	Summary  string
}

var (
	sectionBreak  = regexp.MustCompile(`---`)
	sectionMarker = regexp.MustCompile(`(?i)Nachricht\s*(\d+):`)
	headlineStart = regexp.MustCompile(`(?i)\n\n(ÜBERSCHRIFT:)`)
	headlineField = regexp.MustCompile(`(?i)ÜBERSCHRIFT:\s*(.+)`)
	summaryField  = regexp.MustCompile(`(?is)ZUSAMMENFASSUNG:\s*(.+?)(?:\n\n|$)`)
)

// ParseReply decodes a model reply into exactly n rewrites. Sections marked
// "Nachricht N:" land in slot N; an unreadable or missing section leaves its
// slot empty. Replies without markers are read in order, skipping sections
// without both fields.
func ParseReply(text string, n int) []Rewrite {
	if n <= 0 {
		return nil
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")

	if sectionMarker.MatchString(text) {
		return parseNumbered(text, n)
	}

	out := make([]Rewrite, 0, n)
	for _, section := range splitSections(text) {
		if len(out) == n {
			break
		}
		if r, ok := parseSection(section); ok {
			out = append(out, r)
		}
	}

	for len(out) < n {
		out = append(out, Rewrite{})
	}
	return out
}

func parseNumbered(text string, n int) []Rewrite {
	out := make([]Rewrite, n)
	seen := make([]bool, n)

	marks := sectionMarker.FindAllStringSubmatchIndex(text, -1)
	for i, m := range marks {
		num, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || num < 1 || num > n || seen[num-1] {
			continue
		}
		seen[num-1] = true

		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		section, _, _ := strings.Cut(text[m[1]:end], "---")
		if r, ok := parseSection(section); ok {
			out[num-1] = r
		}
	}
	return out
}

func parseSection(section string) (Rewrite, bool) {
	h := headlineField.FindStringSubmatch(section)
	s := summaryField.FindStringSubmatch(section)
	if h == nil || s == nil {
		return Rewrite{}, false
	}
	return Rewrite{Headline: cleanField(h[1]), Summary: cleanField(s[1])}, true
}

func splitSections(text string) []string {
	var sections []string
	for _, part := range sectionBreak.Split(text, -1) {
		start := 0
		for _, loc := range headlineStart.FindAllStringSubmatchIndex(part, -1) {
			sections = append(sections, part[start:loc[2]])
			start = loc[2]
		}
		sections = append(sections, part[start:])
	}
	return sections
}

// cleanField trims whitespace and markdown emphasis around a field value.
func cleanField(s string) string {
	return strings.Trim(strings.TrimSpace(s), "*_ \t")
}
