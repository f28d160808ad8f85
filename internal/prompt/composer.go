package prompt

import (
	"fmt"
	"strings"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/domain"
)

// Sampling sizes and the overall rune budget for a composed prompt. When the
// assembled prompt exceeds the budget, whole sections are dropped lowest
// value first: interactions, then media, then corrections, and finally the
// guidelines section is trimmed.
const (
	DefaultBudget     = 12000
	CorrectionSample  = 20
	MediaSample       = 10
	InteractionSample = 10
)

// ComposeInput is everything a prompt is built from. Compose is pure: it
// reads nothing beyond this struct and has no side effects.
type ComposeInput struct {
	SystemPrompt string
	Tone         string

	// Guidelines must already be ordered highest priority first.
	Guidelines []*domain.Guideline

	// SimilarCorrections come from vector retrieval and are placed ahead of
	// the recency sample. RecentCorrections is the newest-first sample.
	SimilarCorrections []*domain.ManualCorrection
	RecentCorrections  []*domain.ManualCorrection

	Media        []*domain.MediaEntry
	Interactions []*domain.InteractionEntry

	// Budget in runes; 0 means DefaultBudget.
	Budget int
}

// Compose assembles the system prompt for reply drafting.
func Compose(in ComposeInput) string {
	budget := in.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}

	header := headerSection(in.SystemPrompt, in.Tone)
	guidelines := guidelinesSection(in.Guidelines)
	corrections := correctionsSection(in.SimilarCorrections, in.RecentCorrections)
	media := mediaSection(in.Media)
	interactions := interactionsSection(in.Interactions)

	sections := []string{header, guidelines, corrections, media, interactions}
	prompt := join(sections)
	if runeLen(prompt) <= budget {
		return prompt
	}

	// Drop optional sections lowest value first until the prompt fits.
	for _, idx := range []int{4, 3, 2} {
		sections[idx] = ""
		prompt = join(sections)
		if runeLen(prompt) <= budget {
			return prompt
		}
	}

	// Still over budget with only header and guidelines left: trim the
	// guidelines section, then the whole prompt as a last resort.
	headRunes := runeLen(join([]string{header}))
	if headRunes < budget {
		sections[1] = truncateRunes(guidelines, budget-headRunes-2)
		prompt = join(sections)
		if runeLen(prompt) <= budget {
			return prompt
		}
	}
	return truncateRunes(prompt, budget)
}

func headerSection(systemPrompt, tone string) string {
	var b strings.Builder
	if strings.TrimSpace(systemPrompt) != "" {
		b.WriteString(strings.TrimSpace(systemPrompt))
	} else {
		b.WriteString("You reply to Instagram messages and comments on behalf of the account owner.")
	}
	if strings.TrimSpace(tone) != "" {
		fmt.Fprintf(&b, "\nTone: %s.", strings.TrimSpace(tone))
	}
	b.WriteString("\nRespond with a JSON object {\"response\": string, \"confidence\": number between 0 and 1}. The confidence value is how sure you are the response is appropriate to send unreviewed.")
	return b.String()
}

func guidelinesSection(guidelines []*domain.Guideline) string {
	if len(guidelines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Guidelines, most important first:")
	for _, g := range guidelines {
		fmt.Fprintf(&b, "\n- %s", g.Rule)
	}
	return b.String()
}

func correctionsSection(similar, recent []*domain.ManualCorrection) string {
	seen := make(map[string]bool, len(similar))
	picked := make([]*domain.ManualCorrection, 0, CorrectionSample)
	for _, c := range similar {
		if len(picked) >= CorrectionSample {
			break
		}
		seen[c.ID] = true
		picked = append(picked, c)
	}
	for _, c := range recent {
		if len(picked) >= CorrectionSample {
			break
		}
		if seen[c.ID] {
			continue
		}
		picked = append(picked, c)
	}
	if len(picked) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Approved answers to follow when a similar question comes in:")
	for _, c := range picked {
		fmt.Fprintf(&b, "\nQ: %s\nA: %s", c.Question, c.Answer)
	}
	return b.String()
}

func mediaSection(media []*domain.MediaEntry) string {
	if len(media) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Recent posts by the account owner:")
	count := 0
	for _, m := range media {
		caption := strings.TrimSpace(m.Caption)
		if caption == "" && m.AIDescription == "" {
			continue
		}
		if caption != "" {
			fmt.Fprintf(&b, "\n- %s", caption)
		} else {
			fmt.Fprintf(&b, "\n- %s", m.AIDescription)
		}
		count++
		if count >= MediaSample {
			break
		}
	}
	if count == 0 {
		return ""
	}
	return b.String()
}

func interactionsSection(interactions []*domain.InteractionEntry) string {
	if len(interactions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Past exchanges showing how the owner replies:")
	count := 0
	for _, in := range interactions {
		if strings.TrimSpace(in.MyResponse) == "" {
			continue
		}
		fmt.Fprintf(&b, "\nThem: %s\nOwner: %s", in.UserMessage, in.MyResponse)
		count++
		if count >= InteractionSample {
			break
		}
	}
	if count == 0 {
		return ""
	}
	return b.String()
}

func join(sections []string) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
