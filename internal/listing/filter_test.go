package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/nihongo-sekai/internal/model"
)

func TestInPriceRange_Edges(t *testing.T) {
	cases := []struct {
		price float64
		want  []model.PriceRange
	}{
		{0, []model.PriceRange{model.PriceFree, model.PriceUnder50}},
		{25, []model.PriceRange{model.PriceUnder50}},
		{49.99, []model.PriceRange{model.PriceUnder50}},
		{50, []model.PriceRange{model.Price50To100}},
		{100, []model.PriceRange{model.Price50To100}},
		{100.01, []model.PriceRange{model.PriceOver100}},
	}
	buckets := []model.PriceRange{model.PriceFree, model.PriceUnder50, model.Price50To100, model.PriceOver100}
	for _, tc := range cases {
		var got []model.PriceRange
		for _, b := range buckets {
			if InPriceRange(b, tc.price) {
				got = append(got, b)
			}
		}
		assert.Equal(t, tc.want, got, "price %v", tc.price)
	}
}

func TestInTimeOfDay(t *testing.T) {
	buckets := []model.TimeOfDay{model.Morning, model.Afternoon, model.Evening}
	for h := 0; h < 24; h++ {
		var hits []model.TimeOfDay
		for _, b := range buckets {
			if InTimeOfDay(b, h) {
				hits = append(hits, b)
			}
		}
		switch {
		case h < 6:
			assert.Empty(t, hits, "hour %d", h)
		case h < 12:
			assert.Equal(t, []model.TimeOfDay{model.Morning}, hits, "hour %d", h)
		case h < 18:
			assert.Equal(t, []model.TimeOfDay{model.Afternoon}, hits, "hour %d", h)
		default:
			assert.Equal(t, []model.TimeOfDay{model.Evening}, hits, "hour %d", h)
		}
	}
}

func TestFilters_TimeOfDaySkipsUnscheduled(t *testing.T) {
	f := Filters{TimeOfDay: model.Morning}
	assert.False(t, f.Match(model.Item{}))
	assert.True(t, f.Match(model.Item{StartsAt: at(6)}))
	assert.False(t, f.Match(model.Item{StartsAt: at(5)}))
}

func TestFilters_ExactFields(t *testing.T) {
	it := model.Item{Level: model.LevelBeginner, Category: "JLPT", Status: model.StatusLive, Rating: 4.5}
	assert.True(t, Filters{Level: model.LevelBeginner, Category: "JLPT", Status: model.StatusLive, MinRating: 4.5}.Match(it))
	assert.False(t, Filters{Category: "jlpt"}.Match(it))
	assert.False(t, Filters{Status: model.StatusFull}.Match(it))
	assert.False(t, Filters{MinRating: 4.6}.Match(it))
	assert.True(t, Filters{Search: "   "}.Match(it))
	assert.True(t, Filters{}.IsZero())
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 2, ClampPage(3, 6, 10))
	assert.Equal(t, 1, ClampPage(0, 6, 10))
	assert.Equal(t, 2, ClampPage(2, 6, 10))
	assert.Equal(t, 1, ClampPage(5, 6, 0))
	assert.Equal(t, 0, TotalPages(10, 0))
	assert.Equal(t, 4, TotalPages(10, 3))
}
