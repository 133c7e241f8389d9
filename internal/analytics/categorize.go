package analytics

import (
	"strings"

	"example.com/student-finance/backend/internal/models"
)

var foodKeywords = []string{
	"restaurant", "cafe", "coffee", "starbucks", "mcdonald", "kfc", "subway",
	"dominos", "pizza", "swiggy", "zomato", "food", "burger", "dining",
	"breakfast", "lunch", "dinner", "snack", "bakery", "bar", "pub",
	"haldiram", "bikanervala", "chaayos", "eatery", "gelato", "juice",
}

var transportKeywords = []string{
	"uber", "ola", "lyft", "taxi", "cab", "metro", "bus", "train", "railway",
	"petrol", "fuel", "gas", "parking", "toll", "rapido", "fastag", "airport", "auto",
}

var entertainmentKeywords = []string{
	"netflix", "spotify", "prime", "hotstar", "disney", "movie", "cinema",
	"pvr", "inox", "theater", "theatre", "concert", "event", "ticket",
	"game", "gaming", "steam", "playstation", "xbox", "bookmyshow", "amusement", "arcade",
}

var shoppingKeywords = []string{
	"amazon", "flipkart", "myntra", "ajio", "shop", "store", "mall", "market",
	"clothing", "fashion", "electronics", "mobile", "laptop", "reliance",
	"croma", "ikea", "furniture", "jewelry", "apparel", "books", "stationary", "meesho",
}

var billsKeywords = []string{
	"electric", "electricity", "water", "gas", "phone", "mobile recharge",
	"internet", "wifi", "broadband", "rent", "emi", "insurance",
	"subscription", "membership", "gym", "fitness", "loan", "utility",
}

// Порядок проверки фиксирован: при пересечении ключевых слов побеждает более ранняя категория.
var categoryKeywords = []struct {
	category models.Category
	keywords []string
}{
	{models.CategoryFood, foodKeywords},
	{models.CategoryTransport, transportKeywords},
	{models.CategoryEntertainment, entertainmentKeywords},
	{models.CategoryShopping, shoppingKeywords},
	{models.CategoryBills, billsKeywords},
}

// Categorize определяет категорию трат по названию продавца.
// Пустое название дает категорию Other, функция никогда не ошибается.
func Categorize(merchant string) models.Category {
	normalized := strings.ToLower(strings.TrimSpace(merchant))
	if normalized == "" {
		return models.CategoryOther
	}

	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(normalized, keyword) {
				return entry.category
			}
		}
	}

	return models.CategoryOther
}
