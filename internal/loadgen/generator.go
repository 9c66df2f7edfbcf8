package loadgen

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/ladder/internal/domain/model"
)

// tier is a band of scores a generated player can land in.
type tier struct {
	name string
	min  int
	span int
}

// Every tier is drawn with equal probability, so the middle of the board is
// crowded and the elite band stays thin.
var tiers = []tier{
	{"average", 3000, 4000},
	{"high", 7000, 2000},
	{"low", 100, 2900},
	{"elite", 9000, 1000},
	{"very_low", 100, 900},
	{"mid_high", 6000, 2000},
	{"mid_low", 2000, 2000},
	{"wide", 0, 10_000},
}

// Generate builds the command stream for cfg and the standings it must
// produce once every command is applied in order. Adds come first, then
// updates, then removes, so the stream is valid when each player's commands
// keep their relative order.
func Generate(cfg Config) ([]model.Command, map[string]int, error) {
	if err := validate(cfg); err != nil {
		return nil, nil, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5851f42d4c957f2d))
	ns := uuid.NewSHA1(uuid.NameSpaceOID, []byte("ladder/loadgen/"+strconv.FormatUint(cfg.Seed, 10)))
	seq := 0
	nextID := func() string {
		seq++
		return uuid.NewSHA1(ns, []byte(strconv.Itoa(seq))).String()
	}

	cmds := make([]model.Command, 0, cfg.Players+cfg.Updates+cfg.Removes)
	expected := make(map[string]int, cfg.Players)
	names := make([]string, cfg.Players)

	for i := range cfg.Players {
		names[i] = playerName(i)
		score := variedScore(rng)
		expected[names[i]] = score
		cmds = append(cmds, model.Command{ID: nextID(), Op: model.OpAdd, Name: names[i], Score: score})
	}
	for range cfg.Updates {
		name := names[rng.IntN(cfg.Players)]
		score := variedScore(rng)
		expected[name] = score
		cmds = append(cmds, model.Command{ID: nextID(), Op: model.OpUpdate, Name: name, Score: score})
	}
	for _, i := range rng.Perm(cfg.Players)[:cfg.Removes] {
		delete(expected, names[i])
		cmds = append(cmds, model.Command{ID: nextID(), Op: model.OpRemove, Name: names[i]})
	}

	return cmds, expected, nil
}

func validate(cfg Config) error {
	switch {
	case cfg.Players <= 0:
		return fmt.Errorf("%w: players must be positive", ErrInvalidConfig)
	case cfg.Updates < 0:
		return fmt.Errorf("%w: updates must not be negative", ErrInvalidConfig)
	case cfg.Removes < 0 || cfg.Removes > cfg.Players:
		return fmt.Errorf("%w: removes must be within [0, %d]", ErrInvalidConfig, cfg.Players)
	case cfg.Submitters <= 0:
		return fmt.Errorf("%w: submitters must be positive", ErrInvalidConfig)
	}
	return nil
}

// variedScore draws a tier, then a score inside it.
func variedScore(rng *rand.Rand) int {
	t := tiers[rng.IntN(len(tiers))]
	return t.min + rng.IntN(t.span)
}

func playerName(i int) string {
	return fmt.Sprintf("player-%06d", i)
}
