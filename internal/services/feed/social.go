package feed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"SentinelShield/internal/domain/models"
	"SentinelShield/internal/domain/repository"
)

var (
	socialHandles = []string{
		"vip_stocks99", "moonshot_mike", "official_trading_desk",
		"sec_news", "reuters_markets", "quickgains4u", "daytrader_dan",
	}
	socialChannels = []string{"twitter", "telegram", "discord", "reddit"}

	pumpTemplates = []string{
		"%s is about to explode, buy now before it's too late!",
		"insider info: %s guaranteed 10x this week, easy money",
		"%s to the moon, last chance to get in, hurry!",
	}
	neutralTemplates = []string{
		"%s earnings call scheduled for next week",
		"watching %s volume closely today",
		"%s holding steady near support",
	}
)

// SyntheticSocial generates chat-style posts mentioning a symbol. It
// implements repository.SocialFeed; a fixed seed makes output reproducible.
type SyntheticSocial struct {
	seed int64
}

// NewSyntheticSocial creates a generator with the given seed.
func NewSyntheticSocial(seed int64) *SyntheticSocial {
	return &SyntheticSocial{seed: seed}
}

var _ repository.SocialFeed = (*SyntheticSocial)(nil)

// SignalsFor generates up to five recent posts about the symbol. Roughly a
// third are promotional with high manipulation confidence.
func (s *SyntheticSocial) SignalsFor(ctx context.Context, symbol string) ([]models.SocialSignal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(s.seed + symbolSeed(symbol)))
	n := rng.Intn(6)
	now := time.Now().UTC()

	out := make([]models.SocialSignal, 0, n)
	for i := 0; i < n; i++ {
		promotional := rng.Float64() < 0.35

		var message string
		var sentiment, manipulation float64
		var keywords []string
		if promotional {
			message = fmt.Sprintf(pumpTemplates[rng.Intn(len(pumpTemplates))], symbol)
			sentiment = 0.7 + rng.Float64()*0.3
			manipulation = 0.72 + rng.Float64()*0.28
			keywords = []string{"buy", "now", "guaranteed"}
		} else {
			message = fmt.Sprintf(neutralTemplates[rng.Intn(len(neutralTemplates))], symbol)
			sentiment = rng.Float64() * 0.4
			manipulation = rng.Float64() * 0.2
		}

		out = append(out, models.SocialSignal{
			ID:                     uuid.NewString(),
			Channel:                socialChannels[rng.Intn(len(socialChannels))],
			Handle:                 socialHandles[rng.Intn(len(socialHandles))],
			Message:                message,
			Timestamp:              now.Add(-time.Duration(rng.Intn(55)+1) * time.Minute),
			SentimentScore:         sentiment,
			ManipulationConfidence: manipulation,
			Keywords:               keywords,
		})
	}
	return out, nil
}
