package catalog

import "github.com/shopspring/decimal"

// Featured is the home page selection. Its products are addable by id even
// when the remote catalog does not list them.
func Featured() []Product {
	return []Product{
		{ItemID: "sku_001", ItemName: "Carnet intelligent (démo)", ItemCategory: "Accessoires", Price: decimal.NewFromInt(12000), Currency: DefaultCurrency, InStock: true, Image: "https://source.unsplash.com/91fyuCdgtsM/900x700"},
		{ItemID: "sku_002", ItemName: "Écouteurs sans fil (démo)", ItemCategory: "Tech", Price: decimal.NewFromInt(18500), Currency: DefaultCurrency, InStock: true, Image: "https://source.unsplash.com/Ypjv4zccBKM/900x700"},
		{ItemID: "sku_003", ItemName: "Lampe minimaliste (démo)", ItemCategory: "Maison", Price: decimal.NewFromInt(9900), Currency: DefaultCurrency, InStock: true, Image: "https://source.unsplash.com/kd1EGdvdTKA/900x700"},
		{ItemID: "sku_004", ItemName: "Organiseur de bureau (démo)", ItemCategory: "Bureau", Price: decimal.NewFromInt(6500), Currency: DefaultCurrency, InStock: true, Image: "https://source.unsplash.com/vuwekioi7lQ/900x700"},
	}
}
