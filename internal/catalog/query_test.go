package catalog

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/angelmondragon/storefront/internal/facts"
	"github.com/shopspring/decimal"
)

func fixtureProducts() []Product {
	return []Product{
		{ItemID: "p1", ItemName: "Lampe minimaliste", ItemCategory: "Maison", Price: decimal.NewFromInt(9900), InStock: true, Rating: 4.2, Reviews: 40},
		{ItemID: "p2", ItemName: "Écouteurs sans fil", ItemCategory: "Tech", ItemCategory2: "Audio", Price: decimal.NewFromInt(18500), InStock: true, Rating: 4.6, Reviews: 120, Badge: "Top"},
		{ItemID: "p3", ItemName: "Zèbre en peluche", ItemCategory: "Jouets", Price: decimal.NewFromInt(6500), InStock: false, Rating: 3.9, Reviews: 900},
		{ItemID: "p4", ItemName: "Chargeur rapide", ItemCategory: "Tech", Price: decimal.NewFromInt(6500), InStock: true, Rating: 4.6, Reviews: 10, Tags: []string{"câble", "USB-C"}},
		{ItemID: "p5", ItemName: "Carnet", ItemCategory: "Bureau", Price: decimal.NewFromInt(3000), InStock: false, Rating: 4.0, Reviews: 0, Description: "Papier recyclé, idéal pour l'été"},
	}
}

func ids(ps []Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ItemID
	}
	return out
}

func TestQueryTextSearchIgnoresCaseAndAccents(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{text: "ECOUTEURS", want: []string{"p2"}},
		{text: "audio", want: []string{"p2"}},
		{text: "cable", want: []string{"p4"}},
		{text: "ete", want: []string{"p5"}},
		{text: "  zebre  ", want: []string{"p3"}},
		{text: "tech", want: []string{"p2", "p4"}},
		{text: "introuvable", want: []string{}},
	}
	for _, tt := range tests {
		res := Query(fixtureProducts(), QueryParams{Text: tt.text, Sort: SortPriceDesc})
		if got := ids(res.Products); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("text %q: expected %v, got %v", tt.text, tt.want, got)
		}
	}
}

func TestQueryFiltersCompose(t *testing.T) {
	res := Query(fixtureProducts(), QueryParams{Category: "Tech", Stock: StockIn, PriceMax: decimal.NewFromInt(10000), Sort: SortPriceAsc})
	if got := ids(res.Products); !reflect.DeepEqual(got, []string{"p4"}) {
		t.Fatalf("unexpected result %v", got)
	}
	if res.Total != 5 {
		t.Fatalf("expected total 5, got %d", res.Total)
	}

	res = Query(fixtureProducts(), QueryParams{Stock: StockOut, Sort: SortPriceAsc})
	if got := ids(res.Products); !reflect.DeepEqual(got, []string{"p5", "p3"}) {
		t.Fatalf("unexpected out of stock result %v", got)
	}
}

func TestQueryPriceMaxZeroIsUnbounded(t *testing.T) {
	all := Query(fixtureProducts(), QueryParams{})
	if len(all.Products) != 5 {
		t.Fatalf("expected every product, got %d", len(all.Products))
	}
	neg := Query(fixtureProducts(), QueryParams{PriceMax: decimal.NewFromInt(-5)})
	if len(neg.Products) != 5 {
		t.Fatalf("negative ceiling should be unbounded, got %d", len(neg.Products))
	}
	inclusive := Query(fixtureProducts(), QueryParams{PriceMax: decimal.NewFromInt(6500)})
	if got := ids(inclusive.Products); len(got) != 3 {
		t.Fatalf("ceiling should be inclusive, got %v", got)
	}
}

func TestQueryResultIsSubsetAndInputUntouched(t *testing.T) {
	products := fixtureProducts()
	before := ids(products)
	res := Query(products, QueryParams{Sort: SortNameAsc})
	if !reflect.DeepEqual(ids(products), before) {
		t.Fatalf("input reordered: %v", ids(products))
	}
	if len(res.Products) > len(products) {
		t.Fatalf("result larger than input")
	}
}

func TestQuerySortOrders(t *testing.T) {
	tests := []struct {
		sort string
		want []string
	}{
		// p3 and p4 share a price; stable order keeps p3 first.
		{sort: SortPriceAsc, want: []string{"p5", "p3", "p4", "p1", "p2"}},
		{sort: SortPriceDesc, want: []string{"p2", "p1", "p3", "p4", "p5"}},
		// p2 and p4 share a rating.
		{sort: SortRatingDesc, want: []string{"p2", "p4", "p1", "p5", "p3"}},
		{sort: SortNameAsc, want: []string{"p5", "p4", "p2", "p1", "p3"}},
		// p3 has no badge but its capped review count lifts it above p2.
		{sort: SortFeatured, want: []string{"p3", "p2", "p4", "p1", "p5"}},
		{sort: "bogus", want: []string{"p3", "p2", "p4", "p1", "p5"}},
	}
	for _, tt := range tests {
		res := Query(fixtureProducts(), QueryParams{Sort: tt.sort})
		if got := ids(res.Products); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("sort %s: expected %v, got %v", tt.sort, tt.want, got)
		}
	}
}

func TestFeaturedScore(t *testing.T) {
	p := Product{Badge: "Promo", Rating: 4.5, Reviews: 500}
	if got := FeaturedScore(p); got != 85 {
		t.Fatalf("expected 85, got %v", got)
	}
	if got := FeaturedScore(Product{Rating: 2, Reviews: 15}); got != 21.5 {
		t.Fatalf("expected 21.5, got %v", got)
	}
}

func TestQueryFacts(t *testing.T) {
	res := Query(fixtureProducts(), QueryParams{Text: " tech ", Category: "Tech", PriceMax: decimal.NewFromInt(20000)})
	if got := facts.Names(res.Facts); !reflect.DeepEqual(got, []string{facts.Search, facts.FilterProducts, facts.SortProducts, facts.ViewItemList}) {
		t.Fatalf("unexpected facts %v", got)
	}
	if term := res.Facts[0].Props["search_term"]; term != "tech" {
		t.Fatalf("search term should be trimmed, got %q", term)
	}
	filter := res.Facts[1].Props
	if filter["category"] != "Tech" || filter["stock"] != StockAll {
		t.Fatalf("unexpected filter props %#v", filter)
	}
	if pm, ok := filter["price_max"].(decimal.Decimal); !ok || !pm.Equal(decimal.NewFromInt(20000)) {
		t.Fatalf("unexpected price_max %#v", filter["price_max"])
	}
	if res.Facts[2].Props["sort_by"] != SortFeatured {
		t.Fatalf("unexpected sort_by %#v", res.Facts[2].Props["sort_by"])
	}
	list := res.Facts[3].Props
	if list["item_list_name"] != "Catalogue" {
		t.Fatalf("unexpected list name %#v", list["item_list_name"])
	}
	listItems := list["items"].([]facts.Item)
	if len(listItems) != 2 || listItems[0].ItemID != "p2" || listItems[0].ItemCategory2 != "Audio" || listItems[0].Quantity != 0 {
		t.Fatalf("unexpected list items %#v", listItems)
	}

	noText := Query(fixtureProducts(), QueryParams{})
	if got := facts.Names(noText.Facts); !reflect.DeepEqual(got, []string{facts.FilterProducts, facts.SortProducts, facts.ViewItemList}) {
		t.Fatalf("search fact must be omitted without text, got %v", got)
	}
	if noText.Facts[0].Props["price_max"] != nil {
		t.Fatalf("price_max should be nil when unbounded, got %#v", noText.Facts[0].Props["price_max"])
	}
}

func TestViewItemListCapsAtFifty(t *testing.T) {
	var products []Product
	for i := 0; i < 60; i++ {
		products = append(products, Product{ItemID: fmt.Sprintf("p%02d", i), ItemName: "x", Price: decimal.NewFromInt(int64(i))})
	}
	res := Query(products, QueryParams{Sort: SortPriceAsc})
	if len(res.Products) != 60 {
		t.Fatalf("expected all 60 products shown, got %d", len(res.Products))
	}
	listItems := res.Facts[len(res.Facts)-1].Props["items"].([]facts.Item)
	if len(listItems) != 50 || listItems[49].ItemID != "p49" {
		t.Fatalf("expected first 50 items, got %d", len(listItems))
	}
}

func TestCategories(t *testing.T) {
	products := append(fixtureProducts(), Product{ItemID: "p6", ItemCategory: "Électronique"}, Product{ItemID: "p7"})
	got := Categories(products)
	want := []string{"Bureau", "Électronique", "Jouets", "Maison", "Tech"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFindAndRelated(t *testing.T) {
	products := append(fixtureProducts(),
		Product{ItemID: "t1", ItemCategory: "Tech"},
		Product{ItemID: "t2", ItemCategory: "Tech"},
		Product{ItemID: "t3", ItemCategory: "Tech"},
	)

	p, err := Find(products, " p2 ")
	if err != nil || p.ItemID != "p2" {
		t.Fatalf("expected p2, got %v %v", p.ItemID, err)
	}
	if _, err := Find(products, "nope"); err != ErrProductNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := Find(products, ""); err != ErrProductNotFound {
		t.Fatalf("expected not found for blank id, got %v", err)
	}

	related := Related(products, p)
	if got := ids(related); !reflect.DeepEqual(got, []string{"p4", "t1", "t2", "t3"}) {
		t.Fatalf("unexpected related %v", got)
	}
}

func TestItemFacts(t *testing.T) {
	p := fixtureProducts()[1]
	view := ViewItemFact(p)
	if view.Name != facts.ViewItem || view.Props["currency"] != "XOF" {
		t.Fatalf("unexpected view fact %#v", view)
	}
	if v := view.Props["value"].(decimal.Decimal); !v.Equal(decimal.NewFromInt(18500)) {
		t.Fatalf("unexpected value %s", v)
	}

	sel := SelectItemFact(facts.ListRelated, p)
	if sel.Props["item_list_name"] != "Produits similaires" {
		t.Fatalf("unexpected list name %#v", sel.Props["item_list_name"])
	}
	if got := sel.Props["items"].([]facts.Item); len(got) != 1 || got[0].ItemID != "p2" {
		t.Fatalf("unexpected items %#v", got)
	}
	if got := SelectItemFact(facts.ListFeatured).Props["items"].([]facts.Item); len(got) != 0 {
		t.Fatalf("expected empty items, got %#v", got)
	}
}

func TestFeaturedCatalog(t *testing.T) {
	featured := Featured()
	if got := ids(featured); !reflect.DeepEqual(got, []string{"sku_001", "sku_002", "sku_003", "sku_004"}) {
		t.Fatalf("unexpected featured ids %v", got)
	}
	for _, p := range featured {
		if !p.InStock || p.CurrencyOrDefault() != "XOF" || !p.Price.IsPositive() {
			t.Fatalf("featured product %s misconfigured", p.ItemID)
		}
	}
}

func TestQueryTextMatchesWithoutDiacritics(t *testing.T) {
	products := []Product{
		{ItemID: "a", ItemName: "Café Latte", ItemCategory: "Boissons"},
		{ItemID: "b", ItemName: "Thé vert", ItemCategory: "Boissons"},
	}
	for _, text := range []string{"cafe", "CAFE", "café"} {
		res := Query(products, QueryParams{Text: text})
		if got := ids(res.Products); !reflect.DeepEqual(got, []string{"a"}) {
			t.Fatalf("text %q: expected [a], got %v", text, got)
		}
	}
}

func TestFeaturedSortKeepsTiesInFilterOrder(t *testing.T) {
	products := []Product{
		{ItemID: "low", ItemName: "Low", Rating: 1},
		{ItemID: "a", ItemName: "Zeta", Rating: 4, Reviews: 10},
		{ItemID: "top", ItemName: "Top", Rating: 5},
		{ItemID: "b", ItemName: "Alpha", Rating: 4, Reviews: 10},
		{ItemID: "c", ItemName: "Mu", Rating: 4, Reviews: 10},
	}
	if FeaturedScore(products[1]) != FeaturedScore(products[3]) || FeaturedScore(products[3]) != FeaturedScore(products[4]) {
		t.Fatal("fixture needs equal scores")
	}
	res := Query(products, QueryParams{Sort: SortFeatured})
	if got := ids(res.Products); !reflect.DeepEqual(got, []string{"top", "a", "b", "c", "low"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestQueryIsIdempotent(t *testing.T) {
	sorts := []string{SortFeatured, SortPriceAsc, SortPriceDesc, SortRatingDesc, SortNameAsc}
	for _, sort := range sorts {
		params := QueryParams{Text: "e", Stock: StockAll, Sort: sort}
		first := Query(fixtureProducts(), params)
		second := Query(fixtureProducts(), params)
		if !reflect.DeepEqual(ids(first.Products), ids(second.Products)) {
			t.Fatalf("%s: order changed between runs: %v vs %v", sort, ids(first.Products), ids(second.Products))
		}
		if !reflect.DeepEqual(first.Facts, second.Facts) {
			t.Fatalf("%s: facts changed between runs", sort)
		}
	}
}
