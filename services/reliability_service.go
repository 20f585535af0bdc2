package services

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/homeplate/homeplate-api/config"
	"github.com/homeplate/homeplate-api/models"
)

// ErrKitchenNotFound is returned when a score is requested for a kitchen
// that does not exist.
var ErrKitchenNotFound = errors.New("kitchen not found")

// Sub-score weights. They sum to 100, so the composite score is naturally
// bounded before clamping.
const (
	ratingWeight       = 30.0
	fulfillmentWeight  = 25.0
	deliveryWeight     = 20.0
	responseWeight     = 15.0
	satisfactionWeight = 10.0

	// cancellationPenaltyWeight is subtracted from the fulfillment score in
	// proportion to the cancellation rate.
	cancellationPenaltyWeight = 5.0

	// responseDecayPerHour is how many points the response score loses per
	// hour of average response time. At 15 points it reaches zero at
	// 450 minutes.
	responseDecayPerHour = 2.0

	// neutralBaseline is the score a kitchen with no history at all gets,
	// and the floor for any cold-start kitchen.
	neutralBaseline = 50
)

// ScoreBreakdown holds the five weighted sub-scores, each rounded to two
// decimals.
type ScoreBreakdown struct {
	Rating       float64 `json:"rating"`
	Fulfillment  float64 `json:"fulfillment"`
	Delivery     float64 `json:"delivery"`
	Response     float64 `json:"response"`
	Satisfaction float64 `json:"satisfaction"`
}

// ScoreMetrics holds the underlying figures the sub-scores were derived from.
type ScoreMetrics struct {
	AverageRating       float64 `json:"average_rating"`
	TotalOrders         int     `json:"total_orders"`
	CompletedOrders     int     `json:"completed_orders"`
	CancelledOrders     int     `json:"cancelled_orders"`
	CompletionRate      float64 `json:"completion_rate"`
	OnTimeRate          float64 `json:"on_time_rate"`
	ResponseTimeMinutes float64 `json:"response_time_minutes"`
	SatisfactionRate    float64 `json:"satisfaction_rate"`
	ReviewCount         int     `json:"review_count"`
}

// ScoreResult is the full output of a reliability computation.
type ScoreResult struct {
	KitchenID uint           `json:"kitchen_id"`
	Score     int            `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Metrics   ScoreMetrics   `json:"metrics"`
	IsNewChef bool           `json:"is_new_chef"`
}

// KitchenSweepResult is the outcome of one kitchen in a batch sweep.
type KitchenSweepResult struct {
	KitchenID uint   `json:"kitchen_id"`
	Score     int    `json:"score,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SweepReport summarizes a full-catalog score refresh.
type SweepReport struct {
	Updated int                  `json:"updated"`
	Failed  int                  `json:"failed"`
	Results []KitchenSweepResult `json:"results"`
}

// ReliabilityService computes and persists kitchen reliability scores
type ReliabilityService interface {
	// ComputeScore calculates the reliability score for a kitchen without
	// persisting it. Returns ErrKitchenNotFound for an unknown kitchen.
	ComputeScore(kitchenID uint) (*ScoreResult, error)

	// UpdateScore computes the score and persists it onto the kitchen.
	UpdateScore(kitchenID uint) (int, error)

	// UpdateAllScores refreshes every kitchen's score. A failure on one
	// kitchen is recorded and the sweep continues.
	UpdateAllScores() *SweepReport
}

// DBReliabilityService implements ReliabilityService on a ReliabilityStore
type DBReliabilityService struct {
	store ReliabilityStore
	cfg   config.ScoringConfig
}

var reliabilityServiceInstance ReliabilityService

// InitReliabilityService initializes the reliability service singleton
func InitReliabilityService(store ReliabilityStore, cfg config.ScoringConfig) ReliabilityService {
	reliabilityServiceInstance = NewReliabilityService(store, cfg)
	return reliabilityServiceInstance
}

// GetReliabilityService returns the initialized reliability service instance
func GetReliabilityService() ReliabilityService {
	return reliabilityServiceInstance
}

// SetReliabilityService sets the reliability service instance (primarily for testing)
func SetReliabilityService(service ReliabilityService) {
	reliabilityServiceInstance = service
}

// NewReliabilityService creates a reliability service with the given store
// and scoring policy
func NewReliabilityService(store ReliabilityStore, cfg config.ScoringConfig) *DBReliabilityService {
	return &DBReliabilityService{store: store, cfg: cfg}
}

// ComputeScore calculates a kitchen's reliability score from its order and
// review history plus the stored aggregates used as fallbacks.
func (s *DBReliabilityService) ComputeScore(kitchenID uint) (*ScoreResult, error) {
	kitchen, err := s.store.GetKitchen(kitchenID)
	if err != nil {
		return nil, err
	}
	if kitchen == nil {
		return nil, ErrKitchenNotFound
	}

	orders, err := s.store.ListOrdersByKitchen(kitchenID)
	if err != nil {
		return nil, err
	}

	totalOrders := len(orders)
	completedOrders := 0
	cancelledOrders := 0
	onTimeOrders := 0
	for _, order := range orders {
		switch order.Status {
		case models.OrderStatusCompleted:
			completedOrders++
			if s.deliveredOnTime(order) {
				onTimeOrders++
			}
		case models.OrderStatusCancelled:
			cancelledOrders++
		}
	}

	completionRate := ratio(completedOrders, totalOrders) * 100
	cancellationRate := ratio(cancelledOrders, totalOrders) * 100
	onTimeRate := resolveOnTimeRate(onTimeOrders, completedOrders, kitchen.DeliveryRatePercent)

	reviews, err := s.store.ListReviewsBySeller(kitchen.ChefID)
	if err != nil {
		return nil, err
	}

	satisfied := 0
	ratingSum := 0
	for _, review := range reviews {
		ratingSum += review.Rating
		if review.Rating >= 4 {
			satisfied++
		}
	}

	averageRating := resolveAverageRating(ratingSum, len(reviews), kitchen.Rating)
	reviewCount := resolveReviewCount(kitchen.ReviewCount, len(reviews))
	satisfactionRate := ratio(satisfied, len(reviews)) * 100

	breakdown := ScoreBreakdown{
		Rating:       round2(math.Min(averageRating/5*ratingWeight, ratingWeight)),
		Fulfillment:  round2(math.Max(0, completionRate/100*fulfillmentWeight-cancellationRate/100*cancellationPenaltyWeight)),
		Delivery:     round2(onTimeRate / 100 * deliveryWeight),
		Response:     round2(math.Max(0, responseWeight-kitchen.ResponseTimeMinutes/60*responseDecayPerHour)),
		Satisfaction: round2(satisfactionRate / 100 * satisfactionWeight),
	}

	rawScore := int(math.Round(breakdown.Rating + breakdown.Fulfillment + breakdown.Delivery + breakdown.Response + breakdown.Satisfaction))

	isNewChef := totalOrders < s.cfg.ColdStartMinOrders || reviewCount < s.cfg.ColdStartMinReviews
	finalScore := rawScore
	if isNewChef {
		// Blend toward the neutral baseline in proportion to how much
		// history exists, and never drop a new chef below the baseline.
		dataWeight := math.Min(
			float64(totalOrders)/float64(s.cfg.ColdStartMinOrders)*0.5+
				float64(reviewCount)/float64(s.cfg.ColdStartMinReviews)*0.5,
			1.0,
		)
		finalScore = int(math.Round(neutralBaseline*(1-dataWeight) + float64(rawScore)*dataWeight))
		if finalScore < neutralBaseline {
			finalScore = neutralBaseline
		}
	}

	if finalScore < 0 {
		finalScore = 0
	}
	if finalScore > 100 {
		finalScore = 100
	}

	return &ScoreResult{
		KitchenID: kitchenID,
		Score:     finalScore,
		Breakdown: breakdown,
		Metrics: ScoreMetrics{
			AverageRating:       averageRating,
			TotalOrders:         totalOrders,
			CompletedOrders:     completedOrders,
			CancelledOrders:     cancelledOrders,
			CompletionRate:      completionRate,
			OnTimeRate:          onTimeRate,
			ResponseTimeMinutes: kitchen.ResponseTimeMinutes,
			SatisfactionRate:    satisfactionRate,
			ReviewCount:         reviewCount,
		},
		IsNewChef: isNewChef,
	}, nil
}

// UpdateScore computes the score and persists it onto the kitchen record
func (s *DBReliabilityService) UpdateScore(kitchenID uint) (int, error) {
	result, err := s.ComputeScore(kitchenID)
	if err != nil {
		return 0, err
	}
	if err := s.store.UpdateKitchenScore(kitchenID, result.Score); err != nil {
		return 0, err
	}
	return result.Score, nil
}

// UpdateAllScores refreshes the score of every kitchen. One kitchen's
// failure never aborts the sweep; it is logged and recorded in the report.
func (s *DBReliabilityService) UpdateAllScores() *SweepReport {
	report := &SweepReport{Results: []KitchenSweepResult{}}

	ids, err := s.store.ListKitchenIDs()
	if err != nil {
		log.Printf("Reliability sweep aborted, failed to list kitchens: %v", err)
		report.Failed = 1
		report.Results = append(report.Results, KitchenSweepResult{Error: err.Error()})
		return report
	}

	for _, id := range ids {
		score, err := s.UpdateScore(id)
		if err != nil {
			log.Printf("Reliability sweep: kitchen %d failed: %v", id, err)
			report.Failed++
			report.Results = append(report.Results, KitchenSweepResult{KitchenID: id, Error: err.Error()})
			continue
		}
		report.Updated++
		report.Results = append(report.Results, KitchenSweepResult{KitchenID: id, Score: score})
	}

	log.Printf("Reliability sweep finished: %d updated, %d failed", report.Updated, report.Failed)
	return report
}

// deliveredOnTime reports whether a completed order's final update landed
// inside its delivery-day window: from midnight of the delivery date to
// end of day plus the configured grace period.
func (s *DBReliabilityService) deliveredOnTime(order models.Order) bool {
	windowStart := startOfDay(order.DeliveryDate)
	windowEnd := windowStart.Add(24*time.Hour + time.Duration(s.cfg.OnTimeGraceMinutes)*time.Minute)
	return !order.UpdatedAt.Before(windowStart) && !order.UpdatedAt.After(windowEnd)
}

// resolveOnTimeRate prefers the rate observed from completed orders and
// falls back to the kitchen's stored delivery rate when no completed orders
// exist to observe.
func resolveOnTimeRate(onTime, completed int, storedRate float64) float64 {
	if completed == 0 {
		return storedRate
	}
	return float64(onTime) / float64(completed) * 100
}

// resolveAverageRating prefers the mean of fetched reviews and falls back
// to the kitchen's stored rating when there are none.
func resolveAverageRating(ratingSum, reviewCount int, storedRating float64) float64 {
	if reviewCount == 0 {
		return storedRating
	}
	return float64(ratingSum) / float64(reviewCount)
}

// resolveReviewCount prefers the kitchen's stored review count and falls
// back to the number of reviews actually fetched when none is stored.
func resolveReviewCount(storedCount, fetchedCount int) int {
	if storedCount > 0 {
		return storedCount
	}
	return fetchedCount
}

// ratio returns numerator/denominator, or 0 for an empty denominator.
func ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
