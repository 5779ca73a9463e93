package facts

import "strings"

const (
	unknownPromotionID   = "PROMO_INCONNUE"
	unknownPromotionName = "Promotion"
)

// PromotionViewed reports a promotion landing: the id is upper-cased and the
// name derived from the raw id. A blank id yields no fact.
func PromotionViewed(promo string) (Fact, bool) {
	promo = strings.TrimSpace(promo)
	if promo == "" {
		return Fact{}, false
	}
	return New(ViewPromotion, map[string]any{
		"promotions": []Promotion{{
			PromotionID:   strings.ToUpper(promo),
			PromotionName: "Promo: " + promo,
		}},
	}), true
}

// PromotionSelected reports a click on a promotion banner.
func PromotionSelected(id, name string) Fact {
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)
	if id == "" {
		id = unknownPromotionID
	}
	if name == "" {
		name = unknownPromotionName
	}
	return New(SelectPromotion, map[string]any{
		"promotions": []Promotion{{PromotionID: id, PromotionName: name}},
	})
}

func PageView(title, location, path string) Fact {
	return New(PageViewCustom, map[string]any{
		"page_title":    title,
		"page_location": location,
		"page_path":     path,
	})
}
