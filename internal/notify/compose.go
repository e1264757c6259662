package notify

import (
	"fmt"
	"sort"
	"strings"
)

// Message texts are German on purpose; the team the bot nags is German.

// ComposePendingReviews renders the pending-reviews message for one user.
// The input must be non-empty; callers only dispatch non-empty buckets.
func ComposePendingReviews(reviews []PendingReview) string {
	sorted := make([]PendingReview, len(reviews))
	copy(sorted, reviews)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PendingDays > sorted[j].PendingDays
	})

	var b strings.Builder
	singular := ""
	plural := ""
	if len(sorted) == 1 {
		singular = "s"
	}
	if len(sorted) > 1 {
		plural = "s"
	}
	fmt.Fprintf(&b, "**🔎 Du hast %d ausstehende%s Review%s:**\n", len(sorted), singular, plural)

	for _, review := range sorted {
		fmt.Fprintf(&b, "- [%s](%s)", review.CardName, review.CardURL)
		if review.PendingDays >= 1 {
			en := ""
			if review.PendingDays > 1 {
				en = "en"
			}
			fmt.Fprintf(&b, " - Wartet seit %d Tag%s %s", review.PendingDays, en, sirens(review.PendingDays-1))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n\n\n")
	b.WriteString("Mach das Team glücklich und bearbeite das zeitnah!\n")

	return b.String()
}

// ComposeInactiveCards renders the inactive-cards message for one user.
// The input must be non-empty; callers only dispatch non-empty buckets.
func ComposeInactiveCards(cards []InactiveCard) string {
	sorted := make([]InactiveCard, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].InListWeeks > sorted[j].InListWeeks
	})

	var b strings.Builder
	n := ""
	is := "ist"
	if len(sorted) > 1 {
		n = "n"
		is = "sind"
	}
	fmt.Fprintf(&b, "**📝 Folgende %d Karte%s %s seit längerer Zeit im Sprint:**\n", len(sorted), n, is)

	for _, card := range sorted {
		fmt.Fprintf(&b, "- [%s](%s) - In Liste seit %d Wochen %s\n",
			card.CardName, card.CardURL, card.InListWeeks, sirens(card.InListWeeks-inactiveWeeksThreshold))
	}

	b.WriteString("\n\n\n")
	b.WriteString("Schau mal nach, ob die Karten zu bearbeiten sind!\n")

	return b.String()
}

// sirens returns count urgency markers, none for zero or negative counts.
func sirens(count int) string {
	if count < 0 {
		count = 0
	}
	return strings.Repeat("🚨", count)
}
