package caption

import (
	"fmt"
	"strings"
	"time"

	"megapost/internal/model"
)

// Group renders the lighter co-posted layout: one arrow-marked row per
// product with its price, optional savings line and link. Used whenever
// a grouping key has more than one member.
func (b *Builder) Group(products []*model.Product, ch Channel) string {
	var sb strings.Builder

	for i, p := range products {
		finalPrice := ProductFinalPrice(p)

		if q := quantityOffer(p); q != "" {
			fmt.Fprintf(&sb, "🎁 <b>%s</b>\n\n", q)
		}

		fmt.Fprintf(&sb, "⬅️ %s بـ <b>%d جنيه</b>\n", p.Title, finalPrice)

		if extra := p.ExtraDiscount(); extra > 0 {
			fmt.Fprintf(&sb, "✨ وفر %d%% عند الدفع\n", extra)
		}

		if p.AffiliateLink != "" {
			sb.WriteString(strings.TrimSpace(p.AffiliateLink))
		}

		if i != len(products)-1 {
			sb.WriteString("\n\n")
		}
	}

	content := sb.String() + b.updateTrailer()
	if ch == Facebook {
		content = StripTags(content)
	}
	return collapseNewlines(content)
}

// ExpiryGroup rebuilds a post whose grouping key contains expired members.
// Expired products keep their row but lose the price section; custom
// templates render the expired marker in its place.
func (b *Builder) ExpiryGroup(products []*model.Product, ch Channel, now time.Time, age time.Duration) string {
	var parts []string

	for _, p := range products {
		expired := p.IsExpiredAt(now, age)

		if VariantOf(p) == VariantCustom {
			parts = append(parts, renderExpiryCustom(p, expired))
			continue
		}

		priceText := expiryPriceSection(p, expired)
		if len(products) > 1 {
			parts = append(parts, fmt.Sprintf("⬅️ %s %s\n%s", p.Title, priceText, p.AffiliateLink))
			continue
		}

		var quoted string
		if priceText != "" {
			quoted = "<blockquote>" + priceText + "</blockquote>\n"
		}
		parts = append(parts, fmt.Sprintf("<b>%s</b>\n%s\n🔗 لينك المنتج:\n%s", p.Title, quoted, p.AffiliateLink))
	}

	content := strings.TrimSpace(strings.Join(parts, "\n\n")) + "\n\n#ad"
	if ch == Facebook {
		content = StripTags(content)
	}
	return collapseNewlines(content)
}

// expiryPriceSection empty for expired or out-of-stock members
func expiryPriceSection(p *model.Product, expired bool) string {
	finalPrice := ProductFinalPrice(p)
	if expired || finalPrice <= 0 {
		return ""
	}
	return fmt.Sprintf("بـ <b>%d جنيه</b>", finalPrice)
}

// renderExpiryCustom stored-template dialect used by post rebuilds
func renderExpiryCustom(p *model.Product, expired bool) string {
	price := fmt.Sprintf("%d ج", ProductFinalPrice(p))
	if expired {
		price = "انتهى ❌"
	}

	replacer := strings.NewReplacer(
		"{{TITLE}}", p.Title,
		"{{LINK}}", p.AffiliateLink,
		"{{PRICE}}", price,
		"{{OLD_PRICE}}", "",
		"{{FOOTER}}", "",
	)
	return replacer.Replace(*p.CustomTemplate)
}
