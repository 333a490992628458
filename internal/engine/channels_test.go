package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

func TestResolveChannelTruthTable(t *testing.T) {
	assert.Equal(t, ChannelPrayerFull, ResolveChannel(true, true))
	assert.Equal(t, ChannelPrayerSound, ResolveChannel(true, false))
	assert.Equal(t, ChannelPrayerVibration, ResolveChannel(false, true))
	assert.Equal(t, ChannelPrayerSilent, ResolveChannel(false, false))
}

func TestResolveChannelDistinctAndStable(t *testing.T) {
	seen := map[model.ChannelID]bool{}
	for _, sound := range []bool{true, false} {
		for _, vibration := range []bool{true, false} {
			id := ResolveChannel(sound, vibration)
			assert.False(t, seen[id], "each preference pair maps to its own channel")
			seen[id] = true
			assert.Equal(t, id, ResolveChannel(sound, vibration))
		}
	}
}

func TestChannelDefinitionsCoverEveryChannel(t *testing.T) {
	defs := ChannelDefinitions()
	ids := map[model.ChannelID]bool{}
	for _, d := range defs {
		ids[d.ID] = true
	}
	for _, want := range []model.ChannelID{
		ChannelPrayerFull, ChannelPrayerSound, ChannelPrayerVibration, ChannelPrayerSilent, ChannelImportantDay,
	} {
		assert.True(t, ids[want], "missing declaration for %s", want)
	}
}
