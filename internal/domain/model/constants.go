package model

// PriceRangeConstants は飲食店の価格帯の定数
const (
	PriceRangeUnder1000  = "～1000円"
	PriceRange1000To2000 = "1000-2000円"
	PriceRange2000To3000 = "2000-3000円"
	PriceRangeOver3000   = "3000円～"
)

// PriceMultiplierMap は価格帯から優先度の倍率へのマッピング
// 手頃な価格帯ほど優先度が高くなる
var PriceMultiplierMap = map[string]float64{
	PriceRangeUnder1000:  1.2,
	PriceRange1000To2000: 1.1,
	PriceRange2000To3000: 1.0,
	PriceRangeOver3000:   0.9,
}

// EntityKindNameMap は種別IDから日本語名へのマッピング
var EntityKindNameMap = map[EntityKind]string{
	EntityKindRestaurant: "飲食店",
	EntityKindParking:    "駐車場",
	EntityKindToilet:     "トイレ",
}

// GetPriceMultiplier は価格帯から倍率を取得する（未定義の価格帯は1.0）
func GetPriceMultiplier(priceRange string) float64 {
	if multiplier, ok := PriceMultiplierMap[priceRange]; ok {
		return multiplier
	}
	return 1.0
}

// GetEntityKindJapaneseName は種別IDから日本語名を取得する
func GetEntityKindJapaneseName(kind EntityKind) string {
	if name, ok := EntityKindNameMap[kind]; ok {
		return name
	}
	return string(kind) // デフォルトはそのまま返す
}

// GetAllPriceRanges は全価格帯の一覧を安い順に取得する
func GetAllPriceRanges() []string {
	return []string{
		PriceRangeUnder1000,
		PriceRange1000To2000,
		PriceRange2000To3000,
		PriceRangeOver3000,
	}
}

// GetAllEntityKinds は全種別の一覧を取得する
func GetAllEntityKinds() []EntityKind {
	return []EntityKind{
		EntityKindRestaurant,
		EntityKindParking,
		EntityKindToilet,
	}
}
