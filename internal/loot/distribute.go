package loot

import (
	"context"
	"math/rand"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/zompanion/internal/gamedata"
	"github.com/samdwyer/zompanion/internal/telemetry"
)

// BuildDeck lists every item the profile scatters over spotCount spots:
// each guaranteed entry repeated by its count, then padding up to spotCount
// drawn with replacement from the filler pool, or the fallback repeated when
// there is no pool. With neither the shortfall stays unfilled.
func BuildDeck(profile *gamedata.LootProfile, spotCount int, rng *rand.Rand) []*gamedata.ItemDef {
	var deck []*gamedata.ItemDef
	for _, entry := range profile.Guaranteed {
		if entry.Item == nil {
			continue
		}
		for i := 0; i < entry.Count; i++ {
			deck = append(deck, entry.Item)
		}
	}

	need := spotCount - len(deck)
	if need <= 0 {
		return deck
	}
	switch {
	case len(profile.FillerPool) > 0:
		for i := 0; i < need; i++ {
			deck = append(deck, profile.FillerPool[rng.Intn(len(profile.FillerPool))])
		}
	case profile.Fallback != nil:
		for i := 0; i < need; i++ {
			deck = append(deck, profile.Fallback)
		}
	}
	return deck
}

// Shuffle is an in-place Fisher-Yates shuffle walking from the end.
func Shuffle(deck []*gamedata.ItemDef, rng *rand.Rand) {
	for n := len(deck) - 1; n > 0; n-- {
		k := rng.Intn(n + 1)
		deck[k], deck[n] = deck[n], deck[k]
	}
}

// Distribute clears every non-scripted spot and deals a shuffled deck into
// them round-robin, so a deck larger than the spot count puts several items
// in some spots. Scripted spots keep their authored content. It returns the
// number of items dealt.
func Distribute(ctx context.Context, profile *gamedata.LootProfile, spots []*Spot, rng *rand.Rand) int {
	tracer := telemetry.Tracer("loot")
	_, span := tracer.Start(ctx, "loot.distribute")
	defer span.End()

	var targets []*Spot
	for _, s := range spots {
		if s != nil && !s.Scripted {
			targets = append(targets, s)
		}
	}
	if profile == nil || len(targets) == 0 {
		span.SetAttributes(attribute.Int("loot.spots", len(targets)))
		return 0
	}

	deck := BuildDeck(profile, len(targets), rng)
	Shuffle(deck, rng)

	for _, s := range targets {
		s.SetContent(nil)
	}
	for i, item := range deck {
		targets[i%len(targets)].AddContent(item)
	}

	span.SetAttributes(
		attribute.String("loot.profile", profile.ID),
		attribute.Int("loot.spots", len(targets)),
		attribute.Int("loot.deck", len(deck)),
	)
	return len(deck)
}

// BonusDraw rolls the extra find granted when a randomized spot runs out.
// This is the only consumer of the digging loot bonus companions grant.
// chance is the profile's bonus chance after digging modifiers. It returns
// nil when the roll fails or the profile has nothing to draw from.
func BonusDraw(profile *gamedata.LootProfile, chance float64, rng *rand.Rand) *gamedata.ItemDef {
	if profile == nil || chance <= 0 {
		return nil
	}
	if rng.Float64() >= chance {
		return nil
	}
	if len(profile.FillerPool) > 0 {
		return profile.FillerPool[rng.Intn(len(profile.FillerPool))]
	}
	return profile.Fallback
}
