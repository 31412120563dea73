// Package caption renders Arabic post captions for tracked products.
// Telegram renders carry HTML markup; Facebook renders are plain text
// produced by stripping every tag as the final step.
package caption

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"megapost/internal/model"
)

// Channel selects the markup dialect of a render
type Channel int

const (
	// Telegram rich HTML captions (parse_mode HTML)
	Telegram Channel = iota
	// Facebook plain-text page posts
	Facebook
)

// Variant closed set of caption layouts
type Variant int8

const (
	// VariantDefault bold title, blockquote price, discount line
	VariantDefault Variant = 0
	// VariantClassic single-line title/price with offer link
	VariantClassic Variant = 1
	// VariantShowcase gem-decorated title with price banner
	VariantShowcase Variant = 2
	// VariantCustom tenant-stored template body with placeholders
	VariantCustom Variant = 3
)

// VariantOf resolves a product's layout. Template id 3 without a stored
// body falls back to the default layout, as do unknown ids.
func VariantOf(p *model.Product) Variant {
	switch p.TemplateID {
	case 1:
		return VariantClassic
	case 2:
		return VariantShowcase
	case 3:
		if p.CustomTemplate != nil && *p.CustomTemplate != "" {
			return VariantCustom
		}
		return VariantDefault
	default:
		return VariantDefault
	}
}

var (
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	newlinePattern  = regexp.MustCompile(`\n{3,}`)
	bareURLPattern  = regexp.MustCompile(`https?://\S+`)
	delimiterMarks  = strings.NewReplacer("((", "", "))", "")
)

// FinalPrice is the single source of the displayed price: the extra
// payment discount, when positive, overrides everything else.
func FinalPrice(price float64, extraDiscount int) int {
	if extraDiscount > 0 {
		return int(math.Floor(price * (1 - float64(extraDiscount)/100)))
	}
	return int(math.Floor(price))
}

// ProductFinalPrice applies FinalPrice to a product row
func ProductFinalPrice(p *model.Product) int {
	return FinalPrice(p.Price, p.ExtraDiscount())
}

// StripTags removes every markup tag for the plain channel
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// collapseNewlines reduces 3+ consecutive newlines to exactly 2
func collapseNewlines(s string) string {
	return newlinePattern.ReplaceAllString(s, "\n\n")
}

// Builder renders captions with an injectable clock
type Builder struct {
	now func() time.Time
	loc *time.Location
}

// NewBuilder creates a builder on the Cairo wall clock
func NewBuilder() *Builder {
	loc, err := time.LoadLocation("Africa/Cairo")
	if err != nil {
		loc = time.UTC
	}
	return &Builder{now: time.Now, loc: loc}
}

// NewBuilderWithClock creates a builder with a fixed clock, for tests
func NewBuilderWithClock(now func() time.Time, loc *time.Location) *Builder {
	return &Builder{now: now, loc: loc}
}

// LocalTime returns the 12-hour local time with Arabic day-period marks
func (b *Builder) LocalTime() string {
	t := b.now().In(b.loc).Format("03:04 PM")
	t = strings.ReplaceAll(t, "AM", "ص")
	return strings.ReplaceAll(t, "PM", "م")
}

func (b *Builder) updateTrailer() string {
	return fmt.Sprintf("\n\n🕒 آخر تحديث: %s | #ad", b.LocalTime())
}

// sanitizeFooter strips the delimiter markers, drops page-specific lines
// and rewrites bare URLs into the localized tap-here label.
func sanitizeFooter(footer string, ch Channel) string {
	cleaned := strings.TrimSpace(delimiterMarks.Replace(footer))

	var kept []string
	for _, line := range strings.Split(cleaned, "\n") {
		if strings.Contains(line, "facebook.com") {
			continue
		}
		kept = append(kept, line)
	}
	cleaned = strings.Join(kept, "\n")

	if ch == Facebook {
		return bareURLPattern.ReplaceAllString(cleaned, "اضغط هنا")
	}
	return bareURLPattern.ReplaceAllString(cleaned, `<a href="$0">اضغط هنا</a>`)
}

func quantityOffer(p *model.Product) string {
	if p.QuantityOffer == nil {
		return ""
	}
	return strings.TrimSpace(*p.QuantityOffer)
}

func flooredOldPrice(p *model.Product) (int, bool) {
	if p.OldPrice == nil {
		return 0, false
	}
	old := int(math.Floor(*p.OldPrice))
	if old == 0 {
		return 0, false
	}
	return old, true
}
