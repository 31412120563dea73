package caption

import (
	"fmt"
	"strings"

	"megapost/internal/model"
)

// Single renders one product's caption for a channel. Dispatch is over
// the closed variant set; a non-positive final price always renders the
// unavailable layout instead of any price section.
func (b *Builder) Single(p *model.Product, ch Channel) string {
	finalPrice := ProductFinalPrice(p)

	if finalPrice <= 0 {
		return b.unavailable(p, ch)
	}

	var content string
	switch VariantOf(p) {
	case VariantCustom:
		content = renderCustom(p, finalPrice, ch)
	case VariantClassic:
		content = renderClassic(p, finalPrice, ch)
	case VariantShowcase:
		content = renderShowcase(p, finalPrice, ch)
	default:
		content = renderDefault(p, finalPrice, ch)
	}

	if ch == Facebook {
		content = StripTags(content)
	}

	return collapseNewlines(content + b.updateTrailer())
}

// unavailable out-of-stock layout, shared by every variant
func (b *Builder) unavailable(p *model.Product, ch Channel) string {
	title := p.Title
	if ch == Telegram {
		title = "<b>" + title + "</b>"
	}
	content := fmt.Sprintf("%s\n\n❌ غير متوفر حالياً\n\n🔗 الرابط:\n%s", title, p.AffiliateLink)
	return collapseNewlines(fmt.Sprintf("%s\n\n🕒 %s | #ad", content, b.LocalTime()))
}

// oldPriceMarkup parenthetical original price, shown only when strictly
// above the displayed price; struck through on the rich channel
func oldPriceMarkup(p *model.Product, finalPrice int, ch Channel, currency string) string {
	old, ok := flooredOldPrice(p)
	if !ok || old <= finalPrice {
		return ""
	}
	if ch == Facebook {
		return fmt.Sprintf(" (بدلاً من %d %s)", old, currency)
	}
	return fmt.Sprintf(" (بدلاً من <s>%d %s</s>)", old, currency)
}

// savingsLine extra-payment savings first, then the catalog discount
func savingsLine(p *model.Product) string {
	if extra := p.ExtraDiscount(); extra > 0 {
		return fmt.Sprintf("✨ وفر %d%% عند الدفع", extra)
	}
	if d := p.DiscountPercent(); d > 0 {
		return fmt.Sprintf("🔥 خصم %d%%", d)
	}
	return ""
}

func renderCustom(p *model.Product, finalPrice int, ch Channel) string {
	var footer string
	if p.FooterText != nil {
		footer = sanitizeFooter(*p.FooterText, ch)
	}

	pricePart := fmt.Sprintf("<b>%d ج</b>", finalPrice)
	if ch == Facebook {
		pricePart = fmt.Sprintf("%d ج", finalPrice)
	}
	pricePart += oldPriceMarkup(p, finalPrice, ch, "ج")

	replacer := strings.NewReplacer(
		"[1]", p.Title,
		"[2]", pricePart,
		"[3]", savingsLine(p),
		"[4]", strings.TrimSpace(p.AffiliateLink),
		"[5]", footer,
	)
	return replacer.Replace(*p.CustomTemplate)
}

func renderClassic(p *model.Product, finalPrice int, ch Channel) string {
	pricePart := fmt.Sprintf("<b>%d ج</b>", finalPrice)
	if ch == Facebook {
		pricePart = fmt.Sprintf("%d ج", finalPrice)
	}

	var offer string
	if q := quantityOffer(p); q != "" && ch == Telegram {
		offer = fmt.Sprintf("<b>%s</b>\n\n", q)
	}

	return fmt.Sprintf("%s%s بسعر %s%s\n\nلينك العرض : %s",
		offer, p.Title, pricePart, oldPriceMarkup(p, finalPrice, ch, "ج"), p.AffiliateLink)
}

func renderShowcase(p *model.Product, finalPrice int, ch Channel) string {
	var offer string
	if q := quantityOffer(p); q != "" && ch == Telegram {
		offer = fmt.Sprintf("<b>%s</b>\n\n", q)
	}

	if ch == Facebook {
		return fmt.Sprintf("💎 %s\n\n🏷️ السعر الآن: %d جنيه فقط\n\nلينك العرض :\n%s",
			p.Title, finalPrice, p.AffiliateLink)
	}
	return fmt.Sprintf("%s💎 <b>%s</b>\n\n🏷️ السعر الآن: <b>%d جنيه فقط</b>\n\nلينك العرض :\n%s",
		offer, p.Title, finalPrice, p.AffiliateLink)
}

func renderDefault(p *model.Product, finalPrice int, ch Channel) string {
	oldMarkup := oldPriceMarkup(p, finalPrice, ch, "جنيه")

	var priceBlock string
	if ch == Facebook {
		priceBlock = fmt.Sprintf("السعر النهائي ⇚ %d جنيه%s", finalPrice, oldMarkup)
	} else {
		priceBlock = fmt.Sprintf("<blockquote>🟢 السعر النهائي ⇚ <b>%d جنيه</b>%s</blockquote>", finalPrice, oldMarkup)
	}

	var discountLine string
	discount, extra := p.DiscountPercent(), p.ExtraDiscount()
	if discount > 0 || extra > 0 {
		var parts []string
		if discount > 0 {
			parts = append(parts, fmt.Sprintf("🔥 خصم %d%%", discount))
		}
		if extra > 0 {
			parts = append(parts, fmt.Sprintf("✨ وفر %d%% عند الدفع", extra))
		}
		line := strings.Join(parts, " ، ")
		if ch == Telegram {
			line = "<b>" + line + "</b>"
		}
		discountLine = "\n" + line
	}

	var offer, title string
	if q := quantityOffer(p); q != "" && ch == Telegram {
		offer = fmt.Sprintf("<b>%s</b>\n\n", q)
	}
	title = p.Title
	if ch == Telegram {
		title = "<b>" + title + "</b>"
	}

	return fmt.Sprintf("%s%s\n\n%s%s\n\n🔗 لينك المنتج:\n%s",
		offer, title, priceBlock, discountLine, p.AffiliateLink)
}
