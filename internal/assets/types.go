package assets

// Hero is one entry of the hero catalog.
type Hero struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Images HeroImages `json:"images"`
}

type HeroImages struct {
	SelectionImageWebp string `json:"selection_image_webp"`
}

// IconURL returns the hero's selection image, empty when the catalog has none.
func (h Hero) IconURL() string {
	return h.Images.SelectionImageWebp
}

// Rank is one tier of the rank catalog with its six subrank badges.
type Rank struct {
	Tier   int        `json:"tier"`
	Name   string     `json:"name"`
	Images RankImages `json:"images"`
}

type RankImages struct {
	SmallSubrank1Webp string `json:"small_subrank1_webp"`
	SmallSubrank2Webp string `json:"small_subrank2_webp"`
	SmallSubrank3Webp string `json:"small_subrank3_webp"`
	SmallSubrank4Webp string `json:"small_subrank4_webp"`
	SmallSubrank5Webp string `json:"small_subrank5_webp"`
	SmallSubrank6Webp string `json:"small_subrank6_webp"`
}

// SubrankImage returns the badge for a subrank tier (1-6), empty when absent.
func (r RankImages) SubrankImage(tier int) string {
	switch tier {
	case 1:
		return r.SmallSubrank1Webp
	case 2:
		return r.SmallSubrank2Webp
	case 3:
		return r.SmallSubrank3Webp
	case 4:
		return r.SmallSubrank4Webp
	case 5:
		return r.SmallSubrank5Webp
	case 6:
		return r.SmallSubrank6Webp
	default:
		return ""
	}
}

// Item is one entry of the item catalog. Abilities share the catalog but
// carry no shop image, which is how the two are told apart.
type Item struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	ShopImageSmall     string `json:"shop_image_small"`
	ShopImageSmallWebp string `json:"shop_image_small_webp"`
	ShopImageWebp      string `json:"shop_image_webp"`
}

// IsShopItem reports whether this catalog entry is a purchasable item.
func (i Item) IsShopItem() bool {
	return i.ShopImageSmall != ""
}

// ImageURL returns the best available shop image for the item.
func (i Item) ImageURL() string {
	if i.ShopImageSmallWebp != "" {
		return i.ShopImageSmallWebp
	}
	if i.ShopImageWebp != "" {
		return i.ShopImageWebp
	}
	return i.ShopImageSmall
}
