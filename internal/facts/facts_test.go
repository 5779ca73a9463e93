package facts

import (
	"reflect"
	"testing"
)

func TestPromotionViewed(t *testing.T) {
	f, ok := PromotionViewed(" summer24 ")
	if !ok {
		t.Fatal("expected a fact")
	}
	if f.Name != ViewPromotion {
		t.Fatalf("unexpected name %s", f.Name)
	}
	want := []Promotion{{PromotionID: "SUMMER24", PromotionName: "Promo: summer24"}}
	if got := f.Props["promotions"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected promotions %#v", got)
	}

	if _, ok := PromotionViewed("  "); ok {
		t.Fatal("blank promo should not produce a fact")
	}
}

func TestPromotionSelectedDefaults(t *testing.T) {
	f := PromotionSelected("", "")
	want := []Promotion{{PromotionID: "PROMO_INCONNUE", PromotionName: "Promotion"}}
	if got := f.Props["promotions"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected promotions %#v", got)
	}

	f = PromotionSelected("BF", "Black Friday")
	want = []Promotion{{PromotionID: "BF", PromotionName: "Black Friday"}}
	if got := f.Props["promotions"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected promotions %#v", got)
	}
}

func TestPageViewAndNames(t *testing.T) {
	f := PageView("Boutique", "https://shop.example/shop.html?q=x", "/shop.html")
	if f.Props["page_path"] != "/shop.html" || f.Props["page_title"] != "Boutique" {
		t.Fatalf("unexpected props %#v", f.Props)
	}
	if got := Names([]Fact{f, New(Search, nil)}); !reflect.DeepEqual(got, []string{PageViewCustom, Search}) {
		t.Fatalf("unexpected names %v", got)
	}
	if New(Search, nil).Props == nil {
		t.Fatal("props should never be nil")
	}
}
