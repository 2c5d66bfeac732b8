package bids

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"etendering/internal/models/section"

	"github.com/google/uuid"
)

// Merge overwrites the answer of every section whose id has an entry in
// answers. Sections without an entry are returned unchanged.
func Merge(sections []section.Section, answers map[uuid.UUID]any) []section.Section {
	merged := make([]section.Section, len(sections))
	for i, s := range sections {
		if answer, ok := answers[s.Id]; ok && s.Id != uuid.Nil {
			s.Answer = answer
		}
		merged[i] = s
	}
	return merged
}

type CompletionError struct {
	SectionId uuid.UUID
	Title     string
	Reason    string
}

func (e *CompletionError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("section %q: %s", e.Title, e.Reason)
	}
	return fmt.Sprintf("section %s: %s", e.SectionId, e.Reason)
}

// CheckCompletion is the gate a response must pass before it is saved as
// completed. Only Response sections carry answer rules.
func CheckCompletion(sections []section.Section) error {
	for _, s := range sections {
		body, ok := s.Body.(section.Response)
		if !ok || body.Properties == nil {
			continue
		}

		fail := func(reason string) error {
			return &CompletionError{SectionId: s.Id, Title: s.Title, Reason: reason}
		}

		if section.IsEmpty(s.Answer) {
			if body.Properties.Required() {
				return fail("response is required")
			}
			continue
		}

		switch props := body.Properties.(type) {
		case section.TextProperties:
			text := answerText(s.Answer)
			if props.MaxLength != nil && *props.MaxLength > 0 && utf8.RuneCountInString(text) > *props.MaxLength {
				return fail(fmt.Sprintf("response exceeds %d characters", *props.MaxLength))
			}
		case section.NumericProperties:
			n, ok := answerNumber(s.Answer)
			if !ok {
				return fail("response must be a number")
			}
			if props.Min != nil && n < *props.Min {
				return fail(fmt.Sprintf("response must be at least %s", formatNumber(*props.Min)))
			}
			if props.Max != nil && n > *props.Max {
				return fail(fmt.Sprintf("response must be at most %s", formatNumber(*props.Max)))
			}
		case section.ListProperties:
			if !props.HasOption(answerText(s.Answer)) {
				return fail("response is not one of the options")
			}
		}
	}

	return nil
}

func answerText(answer any) string {
	switch v := answer.(type) {
	case string:
		return v
	case float64:
		return formatNumber(v)
	default:
		return fmt.Sprint(v)
	}
}

func answerNumber(answer any) (float64, bool) {
	switch v := answer.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
