package metrics

import (
	"slices"

	"ecommerce-dashboard/internal/models"
)

const (
	highScore    = 4
	lowScore     = 2
	fastDelivery = 3
	slowDelivery = 10
	mediumBand   = 7
)

var bandOrder = []string{
	models.BandFast,
	models.BandMedium,
	models.BandSlow,
	models.BandUnknown,
}

// orderExperience is one order-level row: an order's delivery latency and
// one of its review scores. Either may be missing.
type orderExperience struct {
	orderID string
	days    *int
	score   *int
}

type experienceKey struct {
	orderID  string
	days     int
	hasDays  bool
	score    int
	hasScore bool
}

func (o orderExperience) key() experienceKey {
	k := experienceKey{orderID: o.orderID}
	if o.days != nil {
		k.days, k.hasDays = *o.days, true
	}
	if o.score != nil {
		k.score, k.hasScore = *o.score, true
	}
	return k
}

func deliveryBand(days *int) string {
	switch {
	case days == nil:
		return models.BandUnknown
	case *days <= fastDelivery:
		return models.BandFast
	case *days <= mediumBand:
		return models.BandMedium
	default:
		return models.BandSlow
	}
}

// orderLevel left-joins the sales view to reviews and keeps one row per
// distinct (order, latency, score).
func (c *Calculator) orderLevel(reviews []models.ReviewScore) []orderExperience {
	scores := make(map[string][]int)
	for _, r := range reviews {
		scores[r.OrderID] = append(scores[r.OrderID], r.Score)
	}

	seen := make(map[experienceKey]struct{})
	var rows []orderExperience
	add := func(o orderExperience) {
		k := o.key()
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		rows = append(rows, o)
	}

	for _, s := range c.sales {
		matched := scores[s.OrderID]
		if len(matched) == 0 {
			add(orderExperience{orderID: s.OrderID, days: s.DeliveryDays})
			continue
		}
		for _, score := range matched {
			add(orderExperience{orderID: s.OrderID, days: s.DeliveryDays, score: ptr(score)})
		}
	}
	return rows
}

// CustomerSatisfactionMetrics reports review and delivery figures at order
// level. Rates are taken over every order-level row, so rows without a
// score or latency count against them; means ignore missing values.
func (c *Calculator) CustomerSatisfactionMetrics(reviews []models.ReviewScore) models.CustomerExperienceMetrics {
	rows := c.orderLevel(reviews)

	var scores, days []float64
	counts := make(map[int]int)
	high, low, fast, slow := 0, 0, 0, 0

	type band struct {
		orders int
		scores []float64
	}
	bands := make(map[string]*band)

	for _, r := range rows {
		name := deliveryBand(r.days)
		b, ok := bands[name]
		if !ok {
			b = &band{}
			bands[name] = b
		}
		b.orders++

		if r.score != nil {
			v := *r.score
			scores = append(scores, float64(v))
			b.scores = append(b.scores, float64(v))
			counts[v]++
			if v >= highScore {
				high++
			}
			if v <= lowScore {
				low++
			}
		}
		if r.days != nil {
			d := *r.days
			days = append(days, float64(d))
			if d <= fastDelivery {
				fast++
			}
			if d > slowDelivery {
				slow++
			}
		}
	}

	distribution := make([]models.ScoreShare, 0, len(counts))
	for score, n := range counts {
		distribution = append(distribution, models.ScoreShare{
			Score: score,
			Share: float64(n) / float64(len(scores)),
		})
	}
	slices.SortFunc(distribution, func(a, b models.ScoreShare) int {
		return a.Score - b.Score
	})

	bySpeed := make([]models.DeliveryBandSatisfaction, 0, len(bands))
	for _, name := range bandOrder {
		b, ok := bands[name]
		if !ok {
			continue
		}
		bySpeed = append(bySpeed, models.DeliveryBandSatisfaction{
			Band:               name,
			Orders:             b.orders,
			AverageReviewScore: mean(b.scores),
		})
	}

	return models.CustomerExperienceMetrics{
		Satisfaction: models.SatisfactionMetrics{
			AverageReviewScore:      mean(scores),
			ReviewScoreDistribution: distribution,
			HighSatisfactionRate:    rate(high, len(rows)),
			LowSatisfactionRate:     rate(low, len(rows)),
		},
		Delivery: models.DeliveryMetrics{
			AverageDeliveryDays: mean(days),
			MedianDeliveryDays:  median(days),
			FastDeliveryRate:    rate(fast, len(rows)),
			SlowDeliveryRate:    rate(slow, len(rows)),
		},
		DeliverySatisfaction: bySpeed,
		TotalReviews:         len(scores),
	}
}
